package client

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zetsubou-life/zetsubou-go/models"
)

func conversationBody(id, title string) map[string]any {
	return map[string]any{
		"id":         id,
		"title":      title,
		"model":      "llama3.2",
		"created_at": "2026-01-01T00:00:00Z",
		"updated_at": "2026-01-01T00:00:00Z",
	}
}

func TestChatCreateConversationDefaultsModel(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/chat/conversations", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "llama3.2", body["model"])
		assert.NotContains(t, body, "system_prompt")
		writeJSON(t, w, http.StatusCreated, map[string]any{
			"conversation": conversationBody("conv-1", "greetings"),
		})
	}))

	conversation, err := c.Chat.CreateConversation(context.Background(), "greetings", "", "")
	require.NoError(t, err)
	assert.Equal(t, "conv-1", conversation.ID)
}

func TestChatSendMessage(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/chat/conversations/conv-1/messages", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "hello there", body["content"])
		writeJSON(t, w, http.StatusCreated, map[string]any{
			"message": map[string]any{
				"id": 42, "role": "assistant", "content": "hi",
				"timestamp": "2026-01-01T00:00:01Z",
			},
		})
	}))

	message, err := c.Chat.SendMessage(context.Background(), "conv-1", "hello there")
	require.NoError(t, err)
	assert.Equal(t, int64(42), message.ID)
	assert.Equal(t, models.RoleAssistant, message.Role)
}

func TestChatMessages(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{
			"messages": []any{
				map[string]any{"id": 1, "role": "user", "content": "hi", "timestamp": "2026-01-01T00:00:00Z"},
				map[string]any{"id": 2, "role": "assistant", "content": "hello", "timestamp": "2026-01-01T00:00:01Z"},
			},
		})
	}))

	messages, err := c.Chat.Messages(context.Background(), "conv-1")
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, models.RoleUser, messages[0].Role)
}

func TestChatExportJSONEnvelopeFailure(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		writeJSON(t, w, http.StatusOK, map[string]any{
			"success": false,
			"error":   "conversation still generating",
		})
	}))

	_, err := c.Chat.Export(context.Background(), "conv-1", models.ExportJSON)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "conversation still generating")
}

func TestChatExportJSONWithoutEnvelopePassesThrough(t *testing.T) {
	payload := map[string]any{"title": "greetings", "messages": []any{}}
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, payload)
	}))

	data, err := c.Chat.Export(context.Background(), "conv-1", models.ExportJSON)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "greetings", got["title"])
}

func TestChatExportMarkdownIsRaw(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "markdown", r.URL.Query().Get("format"))
		w.Header().Set("Content-Type", "text/markdown")
		w.Write([]byte("# greetings\n\n- hi\n"))
	}))

	data, err := c.Chat.Export(context.Background(), "conv-1", models.ExportMarkdown)
	require.NoError(t, err)
	assert.Equal(t, "# greetings\n\n- hi\n", string(data))
}

func TestChatExportToFile(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("# export"))
	}))

	path := filepath.Join(t.TempDir(), "chat.md")
	require.NoError(t, c.Chat.ExportToFile(context.Background(), "conv-1", models.ExportMarkdown, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# export", string(data))
}

func TestChatStartConversation(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v2/chat/conversations":
			writeJSON(t, w, http.StatusCreated, map[string]any{
				"conversation": conversationBody("conv-1", "greetings"),
			})
		case "/api/v2/chat/conversations/conv-1/messages":
			writeJSON(t, w, http.StatusCreated, map[string]any{
				"message": map[string]any{
					"id": 1, "role": "assistant", "content": "hi",
					"timestamp": "2026-01-01T00:00:01Z",
				},
			})
		default:
			t.Errorf("unexpected request: %s", r.URL.Path)
		}
	}))

	conversation, message, err := c.Chat.StartConversation(context.Background(), "greetings", "hello", "", "")
	require.NoError(t, err)
	assert.Equal(t, "conv-1", conversation.ID)
	assert.Equal(t, int64(1), message.ID)
}

func TestChatDeleteConversation(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		writeJSON(t, w, http.StatusOK, map[string]any{"success": true})
	}))

	ok, err := c.Chat.DeleteConversation(context.Background(), "conv-1")
	require.NoError(t, err)
	assert.True(t, ok)
}
