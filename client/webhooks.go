package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"

	"github.com/zetsubou-life/zetsubou-go/models"
)

// WebhooksService configures push subscriptions for server-side events.
type WebhooksService struct {
	c *Client
}

func (s *WebhooksService) List(ctx context.Context) ([]models.Webhook, error) {
	out, err := doJSON[struct {
		Webhooks []models.Webhook `json:"webhooks"`
	}](s.c, ctx, request{method: http.MethodGet, path: "/api/v2/webhooks"})
	if err != nil {
		return nil, err
	}
	return out.Webhooks, nil
}

// Create registers a webhook for the given event types. secret, when
// non-empty, is used server-side to sign deliveries.
func (s *WebhooksService) Create(ctx context.Context, webhookURL string, events []string, secret string) (*models.Webhook, error) {
	if webhookURL == "" {
		return nil, genericError(codeUnknown, "webhook url is required")
	}
	if len(events) == 0 {
		return nil, genericError(codeUnknown, "at least one event type is required")
	}
	body := map[string]any{"url": webhookURL, "events": events}
	if secret != "" {
		body["secret"] = secret
	}

	out, err := doJSON[struct {
		Webhook models.Webhook `json:"webhook"`
	}](s.c, ctx, request{method: http.MethodPost, path: "/api/v2/webhooks", body: body})
	if err != nil {
		return nil, err
	}
	return &out.Webhook, nil
}

func (s *WebhooksService) Get(ctx context.Context, webhookID int64) (*models.Webhook, error) {
	out, err := doJSON[struct {
		Webhook models.Webhook `json:"webhook"`
	}](s.c, ctx, request{method: http.MethodGet, path: fmt.Sprintf("/api/v2/webhooks/%d", webhookID)})
	if err != nil {
		return nil, err
	}
	return &out.Webhook, nil
}

// WebhookUpdate selects the fields to change. Nil fields are left
// untouched server-side.
type WebhookUpdate struct {
	URL     *string
	Events  []string
	Secret  *string
	Enabled *bool
}

func (s *WebhooksService) Update(ctx context.Context, webhookID int64, update WebhookUpdate) (*models.Webhook, error) {
	body := map[string]any{}
	if update.URL != nil {
		body["url"] = *update.URL
	}
	if update.Events != nil {
		body["events"] = update.Events
	}
	if update.Secret != nil {
		body["secret"] = *update.Secret
	}
	if update.Enabled != nil {
		body["enabled"] = *update.Enabled
	}

	out, err := doJSON[struct {
		Webhook models.Webhook `json:"webhook"`
	}](s.c, ctx, request{method: http.MethodPut, path: fmt.Sprintf("/api/v2/webhooks/%d", webhookID), body: body})
	if err != nil {
		return nil, err
	}
	return &out.Webhook, nil
}

func (s *WebhooksService) Delete(ctx context.Context, webhookID int64) (bool, error) {
	out, err := doJSON[struct {
		Success bool `json:"success"`
	}](s.c, ctx, request{method: http.MethodDelete, path: fmt.Sprintf("/api/v2/webhooks/%d", webhookID)})
	if err != nil {
		return false, err
	}
	return out.Success, nil
}

// Test asks the server to deliver a synthetic event to the webhook.
func (s *WebhooksService) Test(ctx context.Context, webhookID int64) (bool, error) {
	out, err := doJSON[struct {
		Success bool `json:"success"`
	}](s.c, ctx, request{method: http.MethodPost, path: fmt.Sprintf("/api/v2/webhooks/%d/test", webhookID)})
	if err != nil {
		return false, err
	}
	return out.Success, nil
}

// Stats returns delivery statistics over the trailing days window
// (default 7).
func (s *WebhooksService) Stats(ctx context.Context, webhookID int64, days int) (*models.WebhookStats, error) {
	if days <= 0 {
		days = 7
	}
	query := url.Values{}
	query.Set("days", strconv.Itoa(days))
	return doJSON[models.WebhookStats](s.c, ctx, request{
		method: http.MethodGet,
		path:   fmt.Sprintf("/api/v2/webhooks/%d/stats", webhookID),
		query:  query,
	})
}

// AvailableEvents maps subscribable event types to their descriptions.
func (s *WebhooksService) AvailableEvents(ctx context.Context) (map[string]string, error) {
	out, err := doJSON[struct {
		Events map[string]string `json:"events"`
	}](s.c, ctx, request{method: http.MethodGet, path: "/api/v2/webhooks/events"})
	if err != nil {
		return nil, err
	}
	return out.Events, nil
}

// CreateJobWebhook subscribes a URL to the job lifecycle events.
func (s *WebhooksService) CreateJobWebhook(ctx context.Context, webhookURL, secret string) (*models.Webhook, error) {
	return s.Create(ctx, webhookURL, []string{"job.completed", "job.failed", "job.cancelled"}, secret)
}

// CreateFileWebhook subscribes a URL to the file transfer events.
func (s *WebhooksService) CreateFileWebhook(ctx context.Context, webhookURL, secret string) (*models.Webhook, error) {
	return s.Create(ctx, webhookURL, []string{"file.uploaded", "file.downloaded"}, secret)
}

// CreateStorageWebhook subscribes a URL to the storage quota events.
func (s *WebhooksService) CreateStorageWebhook(ctx context.Context, webhookURL, secret string) (*models.Webhook, error) {
	return s.Create(ctx, webhookURL, []string{"storage.quota_warning", "storage.quota_exceeded"}, secret)
}

// CreateAllEventsWebhook subscribes a URL to every event type the server
// currently offers.
func (s *WebhooksService) CreateAllEventsWebhook(ctx context.Context, webhookURL, secret string) (*models.Webhook, error) {
	available, err := s.AvailableEvents(ctx)
	if err != nil {
		return nil, err
	}
	events := make([]string, 0, len(available))
	for event := range available {
		events = append(events, event)
	}
	sort.Strings(events)
	return s.Create(ctx, webhookURL, events, secret)
}
