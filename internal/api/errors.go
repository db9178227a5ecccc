package api

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Client errors.
var (
	// ErrSessionExpired indicates the backend rejected the session token.
	// The console must tear the session down and force re-authentication.
	ErrSessionExpired = errors.New("session expired")

	// ErrTimeout indicates the request did not complete within the
	// allowed window.
	ErrTimeout = errors.New("request timed out")
)

// Error is a non-2xx backend response that is neither an authentication
// failure nor a timeout.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("backend returned status %d", e.Status)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Detail)
}

// IsSessionExpired reports whether err classifies as an authentication
// failure.
func IsSessionExpired(err error) bool {
	return errors.Is(err, ErrSessionExpired)
}

// IsTimeout reports whether err classifies as a timeout.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// classifyTransportError maps transport-level failures onto the client
// error taxonomy. Deadline and net timeouts collapse to ErrTimeout; other
// failures pass through as generic errors.
func classifyTransportError(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, ErrTimeout)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%s: %w", op, ErrTimeout)
	}
	return fmt.Errorf("%s: %w", op, err)
}
