package report

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"syscall"
)

// UpstreamError reports a failed call to the generative service. StatusCode
// is 0 for transport-level failures.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Detail     string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s: request failed: %s", e.Provider, e.Detail)
	}
	return fmt.Sprintf("%s: HTTP %d: %s", e.Provider, e.StatusCode, e.Detail)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Transient reports whether a later attempt could plausibly succeed. No
// retry happens here; the hint is passed on to the caller.
func (e *UpstreamError) Transient() bool {
	if e.StatusCode != 0 {
		return isTransientHTTPStatus(e.StatusCode)
	}
	var netErr net.Error
	if errors.As(e.Err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(e.Err, syscall.ECONNRESET) ||
		errors.Is(e.Err, syscall.ECONNREFUSED) ||
		errors.Is(e.Err, syscall.ECONNABORTED)
}

func isTransientHTTPStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusRequestTimeout,
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout,
		529: // overloaded
		return true
	default:
		return false
	}
}

// AsUpstream extracts an UpstreamError from err's chain.
func AsUpstream(err error) (*UpstreamError, bool) {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}
