package models

import "encoding/json"

type Tool struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Description    string         `json:"description,omitempty"`
	Category       string         `json:"category"`
	InputType      string         `json:"input_type"`
	OutputType     string         `json:"output_type"`
	RequiredTier   string         `json:"required_tier"`
	Accessible     bool           `json:"accessible"`
	Options        map[string]any `json:"options"`
	SupportsAudio  bool           `json:"supports_audio"`
	SupportsBatch  bool           `json:"supports_batch"`
	TimeoutSeconds int            `json:"timeout_seconds"`
}

func (t *Tool) UnmarshalJSON(data []byte) error {
	type alias Tool
	raw := alias{TimeoutSeconds: 600}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*t = Tool(raw)
	if t.Options == nil {
		t.Options = map[string]any{}
	}
	return nil
}

// ToolChain is a named sequence of tool invocations executed server-side.
type ToolChain struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Steps       []ToolChainStep `json:"steps"`
}

type ToolChainStep struct {
	ToolID  string         `json:"tool_id"`
	Options map[string]any `json:"options,omitempty"`
}
