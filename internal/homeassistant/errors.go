package homeassistant

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrNotConfigured is returned before any network attempt when no API token
// is available. The message is part of the tool-facing contract.
var ErrNotConfigured = errors.New("No Home Assistant token provided. Please set HA_TOKEN in your environment")

// ConnectionError indicates the backend was unreachable.
type ConnectionError struct {
	URL string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("Connection error: Cannot connect to Home Assistant at %s", e.URL)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// TimeoutError indicates the backend did not answer within the request
// deadline.
type TimeoutError struct {
	URL string
	Err error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("Timeout error: Home Assistant at %s did not respond in time", e.URL)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// HTTPError carries a non-success status from the backend.
type HTTPError struct {
	StatusCode int
	Reason     string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP error: %d - %s", e.StatusCode, e.Reason)
}

// classifyTransportError maps a transport failure onto the error taxonomy.
func classifyTransportError(url string, err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &TimeoutError{URL: url, Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{URL: url, Err: err}
	}
	return &ConnectionError{URL: url, Err: err}
}

// ErrorMessage renders err as the human-readable string exposed across the
// tool boundary. Anything outside the taxonomy is reported as unexpected.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var (
		connErr    *ConnectionError
		timeoutErr *TimeoutError
		httpErr    *HTTPError
	)
	switch {
	case errors.Is(err, ErrNotConfigured),
		errors.As(err, &connErr),
		errors.As(err, &timeoutErr),
		errors.As(err, &httpErr):
		return err.Error()
	default:
		return fmt.Sprintf("Unexpected error: %v", err)
	}
}
