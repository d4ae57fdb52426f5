package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"

	"github.com/zetsubou-life/zetsubou-go/models"
)

// ChatService manages chat conversations and their messages.
type ChatService struct {
	c *Client
}

func (s *ChatService) ListConversations(ctx context.Context, limit, offset int) ([]models.ChatConversation, error) {
	if limit <= 0 {
		limit = 50
	}
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	query.Set("offset", strconv.Itoa(offset))

	out, err := doJSON[struct {
		Conversations []models.ChatConversation `json:"conversations"`
	}](s.c, ctx, request{method: http.MethodGet, path: "/api/v2/chat/conversations", query: query})
	if err != nil {
		return nil, err
	}
	return out.Conversations, nil
}

// CreateConversation opens a new conversation. Model defaults to llama3.2
// server-side when empty; systemPrompt is optional.
func (s *ChatService) CreateConversation(ctx context.Context, title, model, systemPrompt string) (*models.ChatConversation, error) {
	if title == "" {
		return nil, genericError(codeUnknown, "conversation title is required")
	}
	if model == "" {
		model = "llama3.2"
	}
	body := map[string]any{"title": title, "model": model}
	if systemPrompt != "" {
		body["system_prompt"] = systemPrompt
	}

	out, err := doJSON[struct {
		Conversation models.ChatConversation `json:"conversation"`
	}](s.c, ctx, request{method: http.MethodPost, path: "/api/v2/chat/conversations", body: body})
	if err != nil {
		return nil, err
	}
	return &out.Conversation, nil
}

func (s *ChatService) GetConversation(ctx context.Context, conversationID string) (*models.ChatConversation, error) {
	if conversationID == "" {
		return nil, genericError(codeUnknown, "conversation id is required")
	}
	out, err := doJSON[struct {
		Conversation models.ChatConversation `json:"conversation"`
	}](s.c, ctx, request{method: http.MethodGet, path: "/api/v2/chat/conversations/" + conversationID})
	if err != nil {
		return nil, err
	}
	return &out.Conversation, nil
}

// DeleteConversation removes a conversation and all its messages. It
// reports whether the server accepted the deletion.
func (s *ChatService) DeleteConversation(ctx context.Context, conversationID string) (bool, error) {
	if conversationID == "" {
		return false, genericError(codeUnknown, "conversation id is required")
	}
	out, err := doJSON[struct {
		Success bool `json:"success"`
	}](s.c, ctx, request{method: http.MethodDelete, path: "/api/v2/chat/conversations/" + conversationID})
	if err != nil {
		return false, err
	}
	return out.Success, nil
}

// Messages returns a conversation's messages in timestamp order.
func (s *ChatService) Messages(ctx context.Context, conversationID string) ([]models.ChatMessage, error) {
	if conversationID == "" {
		return nil, genericError(codeUnknown, "conversation id is required")
	}
	out, err := doJSON[struct {
		Messages []models.ChatMessage `json:"messages"`
	}](s.c, ctx, request{
		method: http.MethodGet,
		path:   fmt.Sprintf("/api/v2/chat/conversations/%s/messages", conversationID),
	})
	if err != nil {
		return nil, err
	}
	return out.Messages, nil
}

func (s *ChatService) SendMessage(ctx context.Context, conversationID, content string) (*models.ChatMessage, error) {
	if conversationID == "" {
		return nil, genericError(codeUnknown, "conversation id is required")
	}
	out, err := doJSON[struct {
		Message models.ChatMessage `json:"message"`
	}](s.c, ctx, request{
		method: http.MethodPost,
		path:   fmt.Sprintf("/api/v2/chat/conversations/%s/messages", conversationID),
		body:   map[string]any{"content": content},
	})
	if err != nil {
		return nil, err
	}
	return &out.Message, nil
}

// Export fetches a conversation rendered in the given format and returns
// the raw bytes. JSON exports are envelope-checked: an explicit
// success:false body is surfaced as a failure even on HTTP 200. Persisting
// to disk is a separate step; see ExportToFile.
func (s *ChatService) Export(ctx context.Context, conversationID string, format models.ExportFormat) ([]byte, error) {
	if conversationID == "" {
		return nil, genericError(codeUnknown, "conversation id is required")
	}
	if format == "" {
		format = models.ExportJSON
	}
	query := url.Values{}
	query.Set("format", string(format))

	resp, err := s.c.do(ctx, request{
		method: http.MethodGet,
		path:   fmt.Sprintf("/api/v2/chat/conversations/%s/export", conversationID),
		query:  query,
	})
	if err != nil {
		return nil, err
	}

	if format == models.ExportJSON {
		var env struct {
			Success *bool  `json:"success"`
			Error   string `json:"error"`
		}
		if err := json.Unmarshal(resp.body, &env); err == nil && env.Success != nil && !*env.Success {
			message := env.Error
			if message == "" {
				message = "export failed"
			}
			return nil, genericError(codeEnvelope, "%s", message)
		}
	}
	return resp.body, nil
}

// ExportToFile fetches an export and writes it to a local file.
func (s *ChatService) ExportToFile(ctx context.Context, conversationID string, format models.ExportFormat, path string) error {
	data, err := s.Export(ctx, conversationID, format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return genericError(codeConnection, "writing %s: %v", path, err)
	}
	return nil
}

// StartConversation creates a conversation and sends its first message.
func (s *ChatService) StartConversation(ctx context.Context, title, content, model, systemPrompt string) (*models.ChatConversation, *models.ChatMessage, error) {
	conversation, err := s.CreateConversation(ctx, title, model, systemPrompt)
	if err != nil {
		return nil, nil, err
	}
	message, err := s.SendMessage(ctx, conversation.ID, content)
	if err != nil {
		return conversation, nil, err
	}
	return conversation, message, nil
}
