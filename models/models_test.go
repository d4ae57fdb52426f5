package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToolUnmarshalDefaults(t *testing.T) {
	var tool Tool
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": "remove_bg",
		"name": "Background Remover",
		"category": "image",
		"input_type": "image",
		"output_type": "image",
		"required_tier": "free",
		"accessible": true
	}`), &tool))

	assert.Equal(t, 600, tool.TimeoutSeconds)
	assert.NotNil(t, tool.Options)

	require.NoError(t, json.Unmarshal([]byte(`{
		"id": "datamosher",
		"timeout_seconds": 1800,
		"options": {"intensity": {"type": "int"}}
	}`), &tool))

	assert.Equal(t, 1800, tool.TimeoutSeconds)
	assert.Contains(t, tool.Options, "intensity")
}

func TestVFSNodeIsRoot(t *testing.T) {
	var node VFSNode
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": "node-1", "name": "drive", "type": "folder", "parent_id": null
	}`), &node))
	assert.True(t, node.IsRoot())

	require.NoError(t, json.Unmarshal([]byte(`{
		"id": "node-2", "name": "a.jpg", "type": "file", "parent_id": "node-1"
	}`), &node))
	assert.False(t, node.IsRoot())
	assert.Equal(t, NodeFile, node.Type)
}

func TestAccountUnmarshalDefaultsMaps(t *testing.T) {
	var account Account
	require.NoError(t, json.Unmarshal([]byte(`{
		"user_id": 1, "username": "mika", "email": "mika@example.com", "tier": "free"
	}`), &account))

	assert.NotNil(t, account.Subscription)
	assert.NotNil(t, account.Usage)
	assert.NotNil(t, account.Features)
}

func TestNFTProjectUnmarshalDefaultsConfigs(t *testing.T) {
	var project NFTProject
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": "proj-1", "name": "pixel pets"
	}`), &project))

	assert.NotNil(t, project.CollectionConfig)
	assert.NotNil(t, project.GenerationConfig)
	assert.Nil(t, project.CreatedAt)
}
