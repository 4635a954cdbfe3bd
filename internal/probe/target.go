package probe

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultSchedule is the cron expression used by the daemon when a target has none.
const DefaultSchedule = "*/5 * * * *"

// Target is an HTTP endpoint checked by a probe.
//
// Fields:
//   - Name: Display name used in logs and notifications. Defaults to the URL host.
//   - URL: Absolute http(s) URL (required).
//   - Method: HTTP method. Defaults to GET.
//   - ExpectStatus: Status code counted as success. Defaults to 200.
//   - Schedule: Cron expression for daemon mode. Defaults to DefaultSchedule.
type Target struct {
	Name         string `json:"name" mapstructure:"name"`
	URL          string `json:"url" mapstructure:"url"`
	Method       string `json:"method" mapstructure:"method"`
	ExpectStatus int    `json:"expect_status" mapstructure:"expect-status"`
	Schedule     string `json:"schedule" mapstructure:"schedule"`
}

// Normalize validates the target and fills in defaults.
// Returns an error if the URL is missing, unparsable or not http(s).
func (t *Target) Normalize() error {
	if strings.TrimSpace(t.URL) == "" {
		return fmt.Errorf("target %q has no url", t.Name)
	}

	u, err := url.Parse(t.URL)
	if err != nil {
		return fmt.Errorf("invalid url '%s': %w", t.URL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid url '%s'; scheme must be http or https", t.URL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid url '%s'; missing host", t.URL)
	}

	if t.Name == "" {
		t.Name = u.Host
	}
	if t.Method == "" {
		t.Method = http.MethodGet
	}
	t.Method = strings.ToUpper(t.Method)
	if t.ExpectStatus <= 0 {
		t.ExpectStatus = http.StatusOK
	}
	if t.Schedule == "" {
		t.Schedule = DefaultSchedule
	}
	return nil
}

// Result is the outcome of probing one target.
type Result struct {
	Target     Target
	RunID      string
	Attempts   int
	Delays     []time.Duration
	Duration   time.Duration
	StatusCode int
	Err        error
}

// OK reports whether the probe ended with the expected status.
func (r Result) OK() bool {
	return r.Err == nil
}
