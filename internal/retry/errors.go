package retry

import (
	"context"
	"errors"
	"net/http"

	"github.com/gophercloud/gophercloud/v2"
)

type permanentError struct {
	err error
}

func (p *permanentError) Error() string { return p.err.Error() }
func (p *permanentError) Unwrap() error { return p.err }

// Permanent marks err as not worth retrying. Nil stays nil.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsRetryable determines if an error is transient and warrants a retry.
//
// Errors wrapped with Permanent and context cancellations are never retried.
// HTTP status errors (gophercloud's ErrUnexpectedResponseCode) are retried only
// for 408, 429 and 5xx gateway/availability codes. Anything else, such as a DNS
// failure, a connection reset or an HTTP client timeout, is assumed to be a
// transient network issue.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var perm *permanentError
	if errors.As(err, &perm) {
		return false
	}

	if errors.Is(err, context.Canceled) {
		return false
	}

	var gopherErr gophercloud.ErrUnexpectedResponseCode
	if errors.As(err, &gopherErr) {
		return retryableStatus(gopherErr.Actual)
	}

	return true
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests, // 429 - Rate Limiting
		http.StatusRequestTimeout,      // 408 - Client Timeout
		http.StatusInternalServerError, // 500 - Server Error
		http.StatusBadGateway,          // 502 - Upstream Failure
		http.StatusServiceUnavailable,  // 503 - Maintenance/Overload
		http.StatusGatewayTimeout:      // 504 - Upstream Timeout
		return true
	default:
		return false
	}
}
