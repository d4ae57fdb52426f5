package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNFTEnvelopeFailureOnHTTP200(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{
			"success": false,
			"error":   "Project limit reached",
		})
	}))

	_, err := c.NFT.ListProjects(context.Background(), false)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Project limit reached", apiErr.Message)
	assert.Equal(t, http.StatusOK, apiErr.StatusCode)
}

func TestNFTEnvelopeFailureFallbackMessage(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{"success": false})
	}))

	_, err := c.NFT.GetProject(context.Background(), "proj-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to get project")
}

func TestNFTListProjects(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/nft/projects", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("include_archived"))
		writeJSON(t, w, http.StatusOK, map[string]any{
			"success": true,
			"projects": []any{
				map[string]any{"id": "proj-1", "name": "pixel pets", "is_archived": true},
			},
		})
	}))

	projects, err := c.NFT.ListProjects(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "pixel pets", projects[0].Name)
	assert.NotNil(t, projects[0].CollectionConfig, "config maps default to empty")
}

func TestNFTCreateProject(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "pixel pets", body["name"])
		assert.Equal(t, map[string]any{"network": "polygon"}, body["collection_config"])
		assert.NotContains(t, body, "description")
		writeJSON(t, w, http.StatusCreated, map[string]any{
			"success": true,
			"project": map[string]any{"id": "proj-1", "name": "pixel pets"},
		})
	}))

	project, err := c.NFT.CreateProject(context.Background(), ProjectRequest{
		Name:             "pixel pets",
		CollectionConfig: map[string]any{"network": "polygon"},
	})
	require.NoError(t, err)
	assert.Equal(t, "proj-1", project.ID)
}

func TestNFTCreateProjectRequiresCollectionConfig(t *testing.T) {
	c := New("ztb_live_test")
	defer c.Close()

	_, err := c.NFT.CreateProject(context.Background(), ProjectRequest{Name: "pixel pets"})
	require.Error(t, err)
}

func TestNFTCreateLayerDefaults(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/nft/projects/proj-1/layers", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "source-over", body["blend_mode"])
		assert.Equal(t, float64(1), body["opacity"])
		assert.NotContains(t, body, "order_index")
		writeJSON(t, w, http.StatusCreated, map[string]any{
			"success": true,
			"layer":   map[string]any{"id": "layer-1", "name": "background", "opacity": 1},
		})
	}))

	layer, err := c.NFT.CreateLayer(context.Background(), "proj-1", LayerRequest{Name: "background"})
	require.NoError(t, err)
	assert.Equal(t, "layer-1", layer.ID)
}

func TestNFTGenerationFlow(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/v2/nft/projects/proj-1/generate":
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, float64(100), body["total_pieces"])
			writeJSON(t, w, http.StatusCreated, map[string]any{
				"success": true,
				"generation": map[string]any{
					"id": "gen-1", "project_id": "proj-1",
					"total_pieces": 100, "status": "pending",
				},
			})
		case r.Method == http.MethodGet && r.URL.Path == "/api/v2/nft/generations/gen-1":
			writeJSON(t, w, http.StatusOK, map[string]any{
				"success": true,
				"generation": map[string]any{
					"id": "gen-1", "project_id": "proj-1",
					"total_pieces": 100, "status": "completed",
				},
			})
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))

	generation, err := c.NFT.CreateGeneration(context.Background(), "proj-1", 100, nil)
	require.NoError(t, err)
	assert.Equal(t, "pending", generation.Status)

	generation, err = c.NFT.GetGeneration(context.Background(), "gen-1")
	require.NoError(t, err)
	assert.Equal(t, "completed", generation.Status)
}

func TestNFTDeleteProjectPermanent(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "true", r.URL.Query().Get("permanent"))
		writeJSON(t, w, http.StatusOK, map[string]any{"success": true})
	}))

	require.NoError(t, c.NFT.DeleteProject(context.Background(), "proj-1", true))
}

func TestNFTLimits(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/nft/limits", r.URL.Path)
		writeJSON(t, w, http.StatusOK, map[string]any{
			"success": true,
			"tier":    "pro",
			"limits":  map[string]any{"max_projects": 10},
			"usage":   map[string]any{"projects": 3},
		})
	}))

	limits, err := c.NFT.Limits(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "pro", limits.Tier)
	assert.Equal(t, float64(10), limits.Limits["max_projects"])
}
