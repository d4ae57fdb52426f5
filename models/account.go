package models

import (
	"encoding/json"
	"time"
)

type Account struct {
	UserID       int64          `json:"user_id"`
	Username     string         `json:"username"`
	Email        string         `json:"email"`
	Tier         string         `json:"tier"`
	CreatedAt    time.Time      `json:"created_at"`
	Subscription map[string]any `json:"subscription"`
	Usage        map[string]any `json:"usage"`
	Features     map[string]any `json:"features"`
}

func (a *Account) UnmarshalJSON(data []byte) error {
	type alias Account
	var raw alias
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*a = Account(raw)
	if a.Subscription == nil {
		a.Subscription = map[string]any{}
	}
	if a.Usage == nil {
		a.Usage = map[string]any{}
	}
	if a.Features == nil {
		a.Features = map[string]any{}
	}
	return nil
}

type StorageQuota struct {
	Tier           string         `json:"tier"`
	QuotaBytes     int64          `json:"quota_bytes"`
	UsedBytes      int64          `json:"used_bytes"`
	AvailableBytes int64          `json:"available_bytes"`
	UsagePercent   float64        `json:"usage_percent"`
	FileCount      int64          `json:"file_count"`
	FolderCount    int64          `json:"folder_count"`
	Breakdown      map[string]any `json:"breakdown"`
	LargestFiles   []LargestFile  `json:"largest_files"`
}

type LargestFile struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	SizeBytes int64  `json:"size_bytes"`
	MimeType  string `json:"mime_type,omitempty"`
}

type APIKey struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Prefix    string     `json:"prefix,omitempty"`
	Scopes    []string   `json:"scopes"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	// Key is only present in the creation response and never returned again.
	Key string `json:"key,omitempty"`
}
