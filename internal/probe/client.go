package probe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/aravindh-murugesan/retrysentry-go/internal/backoff"
	"github.com/aravindh-murugesan/retrysentry-go/internal/retry"
	"github.com/google/uuid"
	"github.com/gophercloud/gophercloud/v2"
)

const userAgent = "retrysentry-probe"

// Client probes HTTP targets, retrying transient failures with the configured backoff.
type Client struct {
	// HTTP performs the requests. Nil uses a client with a 10 second timeout.
	HTTP *http.Client
	// Retry defines the backoff schedule and jitter for failed requests.
	Retry retry.Config
	// Random feeds the jitter strategy. Nil uses the backoff package default.
	Random backoff.RandomSource
	// Logger is enriched per probe. Nil uses slog.Default().
	Logger *slog.Logger
}

// NewClient returns a client using cfg with a shared, goroutine-safe random source.
func NewClient(cfg retry.Config, logger *slog.Logger) *Client {
	return &Client{
		HTTP:   &http.Client{Timeout: 10 * time.Second},
		Retry:  cfg,
		Random: backoff.SyncSource(backoff.NewRandomSource()),
		Logger: logger,
	}
}

// Probe requests target until it answers with the expected status or the retry policy gives up.
//
// Behavior:
//   - Every probe gets a fresh run ID ("probe-<uuid>") attached to its log lines.
//   - Status codes other than ExpectStatus become gophercloud.ErrUnexpectedResponseCode,
//     so 408/429/5xx are retried and other codes fail immediately.
//   - Invalid targets fail without any request being sent.
func (c *Client) Probe(ctx context.Context, target Target) Result {
	result := Result{
		Target: target,
		RunID:  fmt.Sprintf("probe-%s", uuid.New().String()),
	}

	logger := c.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("run_id", result.RunID, "target", target.Name)

	if err := target.Normalize(); err != nil {
		result.Err = err
		return result
	}
	result.Target = target
	logger = logger.With("url", target.URL)

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	provider := &gophercloud.ProviderClient{HTTPClient: *httpClient}
	provider.UserAgent.Prepend(userAgent)

	executor := retry.Executor{
		Config: c.Retry,
		Random: c.Random,
		Logger: logger,
	}

	start := time.Now()
	report := executor.Run(ctx, "probe "+target.Name, func(ctx context.Context) error {
		code, err := doRequest(ctx, provider, target)
		result.StatusCode = code
		return err
	})

	result.Attempts = report.Attempts
	result.Delays = report.Delays
	result.Duration = time.Since(start)
	result.Err = report.Err

	if result.OK() {
		logger.Debug("Probe succeeded", "status", result.StatusCode, "attempts", result.Attempts, "duration", result.Duration)
	} else {
		logger.Warn("Probe failed", "status", result.StatusCode, "attempts", result.Attempts, "error", result.Err)
	}
	return result
}

// doRequest sends one request. Unauthenticated providers add no token header.
func doRequest(ctx context.Context, provider *gophercloud.ProviderClient, target Target) (int, error) {
	resp, err := provider.Request(ctx, target.Method, target.URL, &gophercloud.RequestOpts{
		OkCodes:     []int{target.ExpectStatus},
		OmitHeaders: []string{"Accept"},
	})
	if resp == nil {
		// Transport failures always come back as *url.Error; anything else
		// means the request could not even be built.
		var urlErr *url.Error
		if err != nil && !errors.As(err, &urlErr) {
			return 0, retry.Permanent(err)
		}
		return 0, err
	}
	return resp.StatusCode, err
}
