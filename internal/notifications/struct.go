package notifications

import (
	"time"

	"github.com/aravindh-murugesan/retrysentry-go/internal/backoff"
)

type Webhook struct {
	URL      string
	Username string
	Password string
}

// ProbeFailure is the payload posted when a probe exhausts its retries.
type ProbeFailure struct {
	Service    string               `json:"service"`
	Target     string               `json:"target"`
	URL        string               `json:"url"`
	RunID      string               `json:"run_id"`
	Attempts   int                  `json:"attempts"`
	StatusCode int                  `json:"status_code,omitempty"`
	Message    string               `json:"message"`
	Jitter     string               `json:"jitter"`
	Schedule   []backoff.DelayPoint `json:"delay_schedule"`
	FailedAt   time.Time            `json:"failed_at"`
}
