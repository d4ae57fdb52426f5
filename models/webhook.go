package models

import "time"

type Webhook struct {
	ID             int64      `json:"id"`
	URL            string     `json:"url"`
	Events         []string   `json:"events"`
	Enabled        bool       `json:"enabled"`
	SuccessCount   int64      `json:"success_count"`
	FailureCount   int64      `json:"failure_count"`
	LastDeliveryAt *time.Time `json:"last_delivery_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type WebhookStats struct {
	WebhookID       int64          `json:"webhook_id"`
	PeriodDays      int            `json:"period_days"`
	TotalDeliveries int64          `json:"total_deliveries"`
	Successes       int64          `json:"successes"`
	Failures        int64          `json:"failures"`
	ByEvent         map[string]any `json:"by_event,omitempty"`
}
