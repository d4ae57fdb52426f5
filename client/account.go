package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/zetsubou-life/zetsubou-go/models"
)

// AccountService reads account, usage, and API-key state. All snapshots are
// re-fetched on every call; the composition helpers below are pure
// computation over a single fetch.
type AccountService struct {
	c *Client
}

func (s *AccountService) Get(ctx context.Context) (*models.Account, error) {
	return doJSON[models.Account](s.c, ctx, request{method: http.MethodGet, path: "/api/v2/account"})
}

func (s *AccountService) StorageQuota(ctx context.Context) (*models.StorageQuota, error) {
	return doJSON[models.StorageQuota](s.c, ctx, request{method: http.MethodGet, path: "/api/v2/storage/quota"})
}

// UsageStats returns account usage over a period ("7d", "30d", "90d",
// "1y"), optionally restricted to one tool.
func (s *AccountService) UsageStats(ctx context.Context, period, toolID string) (map[string]any, error) {
	if period == "" {
		period = "30d"
	}
	query := url.Values{}
	query.Set("period", period)
	if toolID != "" {
		query.Set("tool_id", toolID)
	}
	out, err := doJSON[map[string]any](s.c, ctx, request{
		method: http.MethodGet,
		path:   "/api/v2/account/usage",
		query:  query,
	})
	if err != nil {
		return nil, err
	}
	return *out, nil
}

func (s *AccountService) ListAPIKeys(ctx context.Context) ([]models.APIKey, error) {
	out, err := doJSON[struct {
		APIKeys []models.APIKey `json:"api_keys"`
	}](s.c, ctx, request{method: http.MethodGet, path: "/api/v2/account/api-keys"})
	if err != nil {
		return nil, err
	}
	return out.APIKeys, nil
}

// APIKeyRequest describes a key to issue. ExpiresAt is an ISO timestamp;
// empty means no expiry. DriveBypass skips the drive encryption
// requirement for this key.
type APIKeyRequest struct {
	Name        string
	Scopes      []string
	ExpiresAt   string
	DriveBypass bool
}

// CreateAPIKey issues a new key. The returned record is the only place the
// full key material ever appears.
func (s *AccountService) CreateAPIKey(ctx context.Context, req APIKeyRequest) (*models.APIKey, error) {
	if req.Name == "" {
		return nil, genericError(codeUnknown, "api key name is required")
	}
	body := map[string]any{
		"name":         req.Name,
		"scopes":       req.Scopes,
		"drive_bypass": req.DriveBypass,
	}
	if req.ExpiresAt != "" {
		body["expires_at"] = req.ExpiresAt
	}
	return doJSON[models.APIKey](s.c, ctx, request{method: http.MethodPost, path: "/api/v2/account/api-keys", body: body})
}

func (s *AccountService) DeleteAPIKey(ctx context.Context, keyID int64) (bool, error) {
	out, err := doJSON[struct {
		Success bool `json:"success"`
	}](s.c, ctx, request{method: http.MethodDelete, path: fmt.Sprintf("/api/v2/account/api-keys/%d", keyID)})
	if err != nil {
		return false, err
	}
	return out.Success, nil
}

// TierInfo condenses the account snapshot into tier-related fields.
type TierInfo struct {
	Tier         string
	Subscription map[string]any
	Features     map[string]any
}

func (s *AccountService) TierInfo(ctx context.Context) (*TierInfo, error) {
	account, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	return &TierInfo{
		Tier:         account.Tier,
		Subscription: account.Subscription,
		Features:     account.Features,
	}, nil
}

// AvailableTools lists the tool IDs the account's tier may invoke.
func (s *AccountService) AvailableTools(ctx context.Context) ([]string, error) {
	account, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	raw, ok := account.Features["tools"].([]any)
	if !ok {
		return nil, nil
	}
	tools := make([]string, 0, len(raw))
	for _, v := range raw {
		if id, ok := v.(string); ok {
			tools = append(tools, id)
		}
	}
	return tools, nil
}

// RateLimits reports the tier's concurrency and per-minute request caps.
type RateLimits struct {
	MaxConcurrentJobs int
	RequestsPerMinute int
}

func (s *AccountService) RateLimits(ctx context.Context) (*RateLimits, error) {
	account, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	return &RateLimits{
		MaxConcurrentJobs: featureInt(account.Features, "max_concurrent_jobs", 1),
		RequestsPerMinute: featureInt(account.Features, "rate_limit_per_minute", 10),
	}, nil
}

func featureInt(features map[string]any, key string, fallback int) int {
	switch v := features[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return fallback
}

func (s *AccountService) StorageUsagePercent(ctx context.Context) (float64, error) {
	quota, err := s.StorageQuota(ctx)
	if err != nil {
		return 0, err
	}
	return quota.UsagePercent, nil
}

// IsStorageQuotaWarning reports whether usage is at or above threshold
// percent (default 80 when threshold <= 0).
func (s *AccountService) IsStorageQuotaWarning(ctx context.Context, threshold float64) (bool, error) {
	if threshold <= 0 {
		threshold = 80
	}
	percent, err := s.StorageUsagePercent(ctx)
	if err != nil {
		return false, err
	}
	return percent >= threshold, nil
}

// LargestFiles returns at most limit entries from the quota report's
// largest-files list.
func (s *AccountService) LargestFiles(ctx context.Context, limit int) ([]models.LargestFile, error) {
	if limit <= 0 {
		limit = 10
	}
	quota, err := s.StorageQuota(ctx)
	if err != nil {
		return nil, err
	}
	if len(quota.LargestFiles) > limit {
		return quota.LargestFiles[:limit], nil
	}
	return quota.LargestFiles, nil
}

func (s *AccountService) StorageBreakdown(ctx context.Context) (map[string]any, error) {
	quota, err := s.StorageQuota(ctx)
	if err != nil {
		return nil, err
	}
	return quota.Breakdown, nil
}
