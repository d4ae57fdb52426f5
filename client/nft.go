package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/zetsubou-life/zetsubou-go/models"
)

// NFTService manages NFT projects, layers, and generations. This API
// surface signals failure through a {success, error} body envelope rather
// than HTTP status codes, so every response is envelope-checked before its
// payload is decoded.
type NFTService struct {
	c *Client
}

// doNFT executes req and decodes the payload into T after verifying the
// success envelope. A success:false body is a failure regardless of the
// HTTP status.
func doNFT[T any](c *Client, ctx context.Context, req request, fallback string) (*T, error) {
	resp, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}

	var env struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(resp.body, &env); err != nil {
		return nil, &APIError{
			Message:    fmt.Sprintf("decoding response: %v", err),
			Code:       codeDecode,
			StatusCode: resp.status,
			Detail:     map[string]any{},
		}
	}
	if !env.Success {
		message := env.Error
		if message == "" {
			message = fallback
		}
		return nil, &APIError{
			Message:    message,
			Code:       codeEnvelope,
			StatusCode: resp.status,
			Detail:     map[string]any{"error": env.Error},
		}
	}

	var into T
	if err := json.Unmarshal(resp.body, &into); err != nil {
		return nil, &APIError{
			Message:    fmt.Sprintf("decoding response: %v", err),
			Code:       codeDecode,
			StatusCode: resp.status,
			Detail:     map[string]any{},
		}
	}
	return &into, nil
}

func (s *NFTService) ListProjects(ctx context.Context, includeArchived bool) ([]models.NFTProject, error) {
	query := url.Values{}
	query.Set("include_archived", strconv.FormatBool(includeArchived))
	out, err := doNFT[struct {
		Projects []models.NFTProject `json:"projects"`
	}](s.c, ctx, request{method: http.MethodGet, path: "/api/v2/nft/projects", query: query},
		"Failed to list projects")
	if err != nil {
		return nil, err
	}
	return out.Projects, nil
}

func (s *NFTService) GetProject(ctx context.Context, projectID string) (*models.NFTProject, error) {
	if projectID == "" {
		return nil, genericError(codeUnknown, "project id is required")
	}
	out, err := doNFT[struct {
		Project models.NFTProject `json:"project"`
	}](s.c, ctx, request{method: http.MethodGet, path: "/api/v2/nft/projects/" + projectID},
		"Failed to get project")
	if err != nil {
		return nil, err
	}
	return &out.Project, nil
}

// ProjectRequest describes a project to create. CollectionConfig is
// required (network, collection name, symbol); the rest is optional.
type ProjectRequest struct {
	Name             string
	Description      string
	CollectionConfig map[string]any
	GenerationConfig map[string]any
	Layers           []map[string]any
}

func (s *NFTService) CreateProject(ctx context.Context, req ProjectRequest) (*models.NFTProject, error) {
	if req.Name == "" {
		return nil, genericError(codeUnknown, "project name is required")
	}
	if req.CollectionConfig == nil {
		return nil, genericError(codeUnknown, "collection config is required")
	}
	body := map[string]any{
		"name":              req.Name,
		"collection_config": req.CollectionConfig,
	}
	if req.Description != "" {
		body["description"] = req.Description
	}
	if req.GenerationConfig != nil {
		body["generation_config"] = req.GenerationConfig
	}
	if len(req.Layers) > 0 {
		body["layers"] = req.Layers
	}

	out, err := doNFT[struct {
		Project models.NFTProject `json:"project"`
	}](s.c, ctx, request{method: http.MethodPost, path: "/api/v2/nft/projects", body: body},
		"Failed to create project")
	if err != nil {
		return nil, err
	}
	return &out.Project, nil
}

// ProjectUpdate selects the fields to change. Nil fields are left
// untouched server-side.
type ProjectUpdate struct {
	Name             *string
	Description      *string
	CollectionConfig map[string]any
	GenerationConfig map[string]any
	IsArchived       *bool
}

func (s *NFTService) UpdateProject(ctx context.Context, projectID string, update ProjectUpdate) (*models.NFTProject, error) {
	if projectID == "" {
		return nil, genericError(codeUnknown, "project id is required")
	}
	body := map[string]any{}
	if update.Name != nil {
		body["name"] = *update.Name
	}
	if update.Description != nil {
		body["description"] = *update.Description
	}
	if update.CollectionConfig != nil {
		body["collection_config"] = update.CollectionConfig
	}
	if update.GenerationConfig != nil {
		body["generation_config"] = update.GenerationConfig
	}
	if update.IsArchived != nil {
		body["is_archived"] = *update.IsArchived
	}

	out, err := doNFT[struct {
		Project models.NFTProject `json:"project"`
	}](s.c, ctx, request{method: http.MethodPatch, path: "/api/v2/nft/projects/" + projectID, body: body},
		"Failed to update project")
	if err != nil {
		return nil, err
	}
	return &out.Project, nil
}

// DeleteProject archives a project, or permanently deletes it when
// permanent is true.
func (s *NFTService) DeleteProject(ctx context.Context, projectID string, permanent bool) error {
	if projectID == "" {
		return genericError(codeUnknown, "project id is required")
	}
	query := url.Values{}
	query.Set("permanent", strconv.FormatBool(permanent))
	_, err := doNFT[struct{}](s.c, ctx, request{
		method: http.MethodDelete,
		path:   "/api/v2/nft/projects/" + projectID,
		query:  query,
	}, "Failed to delete project")
	return err
}

func (s *NFTService) ListLayers(ctx context.Context, projectID string, includeTraits bool) ([]models.NFTLayer, error) {
	if projectID == "" {
		return nil, genericError(codeUnknown, "project id is required")
	}
	query := url.Values{}
	query.Set("include_traits", strconv.FormatBool(includeTraits))
	out, err := doNFT[struct {
		Layers []models.NFTLayer `json:"layers"`
	}](s.c, ctx, request{
		method: http.MethodGet,
		path:   fmt.Sprintf("/api/v2/nft/projects/%s/layers", projectID),
		query:  query,
	}, "Failed to list layers")
	if err != nil {
		return nil, err
	}
	return out.Layers, nil
}

// LayerRequest describes a layer to add to a project. OrderIndex nil means
// the server assigns the next index; Opacity zero means fully opaque.
type LayerRequest struct {
	Name       string
	OrderIndex *int
	IsRequired bool
	BlendMode  string
	Opacity    float64
}

func (s *NFTService) CreateLayer(ctx context.Context, projectID string, req LayerRequest) (*models.NFTLayer, error) {
	if projectID == "" {
		return nil, genericError(codeUnknown, "project id is required")
	}
	if req.Name == "" {
		return nil, genericError(codeUnknown, "layer name is required")
	}
	if req.BlendMode == "" {
		req.BlendMode = "source-over"
	}
	if req.Opacity == 0 {
		req.Opacity = 1.0
	}
	body := map[string]any{
		"name":        req.Name,
		"is_required": req.IsRequired,
		"blend_mode":  req.BlendMode,
		"opacity":     req.Opacity,
	}
	if req.OrderIndex != nil {
		body["order_index"] = *req.OrderIndex
	}

	out, err := doNFT[struct {
		Layer models.NFTLayer `json:"layer"`
	}](s.c, ctx, request{
		method: http.MethodPost,
		path:   fmt.Sprintf("/api/v2/nft/projects/%s/layers", projectID),
		body:   body,
	}, "Failed to create layer")
	if err != nil {
		return nil, err
	}
	return &out.Layer, nil
}

// CreateGeneration starts generating totalPieces NFTs from the project's
// layers. configOverrides, when non-nil, patches the project's generation
// config for this run only.
func (s *NFTService) CreateGeneration(ctx context.Context, projectID string, totalPieces int, configOverrides map[string]any) (*models.NFTGeneration, error) {
	if projectID == "" {
		return nil, genericError(codeUnknown, "project id is required")
	}
	body := map[string]any{"total_pieces": totalPieces}
	if configOverrides != nil {
		body["config_overrides"] = configOverrides
	}

	out, err := doNFT[struct {
		Generation models.NFTGeneration `json:"generation"`
	}](s.c, ctx, request{
		method: http.MethodPost,
		path:   fmt.Sprintf("/api/v2/nft/projects/%s/generate", projectID),
		body:   body,
	}, "Failed to create generation")
	if err != nil {
		return nil, err
	}
	return &out.Generation, nil
}

func (s *NFTService) GetGeneration(ctx context.Context, generationID string) (*models.NFTGeneration, error) {
	if generationID == "" {
		return nil, genericError(codeUnknown, "generation id is required")
	}
	out, err := doNFT[struct {
		Generation models.NFTGeneration `json:"generation"`
	}](s.c, ctx, request{method: http.MethodGet, path: "/api/v2/nft/generations/" + generationID},
		"Failed to get generation")
	if err != nil {
		return nil, err
	}
	return &out.Generation, nil
}

func (s *NFTService) ListGenerations(ctx context.Context, projectID string) ([]models.NFTGeneration, error) {
	if projectID == "" {
		return nil, genericError(codeUnknown, "project id is required")
	}
	out, err := doNFT[struct {
		Generations []models.NFTGeneration `json:"generations"`
	}](s.c, ctx, request{
		method: http.MethodGet,
		path:   fmt.Sprintf("/api/v2/nft/projects/%s/generations", projectID),
	}, "Failed to list generations")
	if err != nil {
		return nil, err
	}
	return out.Generations, nil
}

// Limits reports the account's NFT tier, limits, and current usage.
func (s *NFTService) Limits(ctx context.Context) (*models.NFTLimits, error) {
	return doNFT[models.NFTLimits](s.c, ctx,
		request{method: http.MethodGet, path: "/api/v2/nft/limits"},
		"Failed to get limits")
}
