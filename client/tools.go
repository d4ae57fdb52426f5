package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/zetsubou-life/zetsubou-go/models"
)

// ToolsService lists the tool catalog and starts tool executions.
type ToolsService struct {
	c *Client
}

func (s *ToolsService) List(ctx context.Context) ([]models.Tool, error) {
	out, err := doJSON[struct {
		Tools []models.Tool `json:"tools"`
	}](s.c, ctx, request{method: http.MethodGet, path: "/api/v2/tools"})
	if err != nil {
		return nil, err
	}
	return out.Tools, nil
}

func (s *ToolsService) Get(ctx context.Context, toolID string) (*models.Tool, error) {
	if toolID == "" {
		return nil, genericError(codeUnknown, "tool id is required")
	}
	return doJSON[models.Tool](s.c, ctx, request{
		method: http.MethodGet,
		path:   "/api/v2/tools/" + toolID,
	})
}

// ExecuteOptions carries the optional parts of a tool execution. Options is
// the tool-specific option map; AudioFiles ride along for video tools.
type ExecuteOptions struct {
	Options    map[string]any
	AudioFiles []FileInput
}

// Execute starts a tool run over the given files and returns the job
// observing it. Files are uploaded as one multipart request.
func (s *ToolsService) Execute(ctx context.Context, toolID string, files []FileInput, opts *ExecuteOptions) (*models.Job, error) {
	return s.execute(ctx, fmt.Sprintf("/api/v2/tools/%s/execute", toolID), toolID, files, opts)
}

// BatchExecute starts a batch-mode run of a tool over multiple files.
func (s *ToolsService) BatchExecute(ctx context.Context, toolID string, files []FileInput, opts *ExecuteOptions) (*models.Job, error) {
	return s.execute(ctx, fmt.Sprintf("/api/v2/tools/%s/batch", toolID), toolID, files, opts)
}

func (s *ToolsService) execute(ctx context.Context, path, toolID string, files []FileInput, opts *ExecuteOptions) (*models.Job, error) {
	if toolID == "" {
		return nil, genericError(codeUnknown, "tool id is required")
	}
	if len(files) == 0 {
		return nil, genericError(codeUnknown, "at least one input file is required")
	}

	atts, err := attachmentsFor("file", files)
	if err != nil {
		return nil, err
	}
	if opts != nil && len(opts.AudioFiles) > 0 {
		audio, err := attachmentsFor("audio", opts.AudioFiles)
		if err != nil {
			return nil, err
		}
		atts = append(atts, audio...)
	}

	form := map[string]string{}
	if opts != nil && len(opts.Options) > 0 {
		encoded, err := json.Marshal(opts.Options)
		if err != nil {
			return nil, genericError(codeDecode, "encoding options: %v", err)
		}
		form["options"] = string(encoded)
	}

	out, err := doJSON[struct {
		Job models.Job `json:"job"`
	}](s.c, ctx, request{
		method:      http.MethodPost,
		path:        path,
		form:        form,
		attachments: atts,
	})
	if err != nil {
		return nil, err
	}
	return &out.Job, nil
}

// CreateChain registers a named sequence of tool invocations for automated
// processing.
func (s *ToolsService) CreateChain(ctx context.Context, name string, steps []models.ToolChainStep, description string) (*models.ToolChain, error) {
	if name == "" {
		return nil, genericError(codeUnknown, "chain name is required")
	}
	body := map[string]any{"name": name, "steps": steps}
	if description != "" {
		body["description"] = description
	}
	out, err := doJSON[struct {
		Chain models.ToolChain `json:"chain"`
	}](s.c, ctx, request{method: http.MethodPost, path: "/api/v2/chains", body: body})
	if err != nil {
		return nil, err
	}
	return &out.Chain, nil
}

func (s *ToolsService) ListChains(ctx context.Context) ([]models.ToolChain, error) {
	out, err := doJSON[struct {
		Chains []models.ToolChain `json:"chains"`
	}](s.c, ctx, request{method: http.MethodGet, path: "/api/v2/chains"})
	if err != nil {
		return nil, err
	}
	return out.Chains, nil
}

func (s *ToolsService) GetChain(ctx context.Context, chainID int64) (*models.ToolChain, error) {
	return doJSON[models.ToolChain](s.c, ctx, request{
		method: http.MethodGet,
		path:   fmt.Sprintf("/api/v2/chains/%d", chainID),
	})
}
