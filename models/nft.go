package models

import (
	"encoding/json"
	"time"
)

type NFTProject struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	Description      string         `json:"description,omitempty"`
	CollectionConfig map[string]any `json:"collection_config"`
	GenerationConfig map[string]any `json:"generation_config"`
	CreatedAt        *time.Time     `json:"created_at"`
	UpdatedAt        *time.Time     `json:"updated_at"`
	IsArchived       bool           `json:"is_archived"`
	ThumbnailURL     string         `json:"thumbnail_url,omitempty"`
	Layers           []NFTLayer     `json:"layers"`
	LayerCount       int            `json:"layer_count"`
	GenerationCount  int            `json:"generation_count"`
}

func (p *NFTProject) UnmarshalJSON(data []byte) error {
	type alias NFTProject
	var raw alias
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = NFTProject(raw)
	if p.CollectionConfig == nil {
		p.CollectionConfig = map[string]any{}
	}
	if p.GenerationConfig == nil {
		p.GenerationConfig = map[string]any{}
	}
	return nil
}

type NFTLayer struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	OrderIndex int              `json:"order_index"`
	IsRequired bool             `json:"is_required"`
	BlendMode  string           `json:"blend_mode,omitempty"`
	Opacity    float64          `json:"opacity"`
	Traits     []map[string]any `json:"traits,omitempty"`
}

type NFTGeneration struct {
	ID                  string     `json:"id"`
	ProjectID           string     `json:"project_id"`
	TotalPieces         int        `json:"total_pieces"`
	Status              string     `json:"status"`
	CreatedAt           *time.Time `json:"created_at"`
	StartedAt           *time.Time `json:"started_at"`
	CompletedAt         *time.Time `json:"completed_at"`
	ErrorMessage        string     `json:"error_message,omitempty"`
	VFSBuildFolderID    string     `json:"vfs_build_folder_id,omitempty"`
	VFSImagesFolderID   string     `json:"vfs_images_folder_id,omitempty"`
	VFSMetadataFolderID string     `json:"vfs_metadata_folder_id,omitempty"`
}

type NFTLimits struct {
	Tier   string         `json:"tier"`
	Limits map[string]any `json:"limits"`
	Usage  map[string]any `json:"usage"`
}
