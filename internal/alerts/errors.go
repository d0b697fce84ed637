package alerts

import (
	"errors"
	"fmt"
)

// ErrEmptyResponse marks a blank provider response. An empty body means the
// fetch must be retried, never interpreted as "all clear".
var ErrEmptyResponse = errors.New("empty response from alerts API")

// TransientError covers connection failures, timeouts and 5xx responses.
// These are retried within the attempt budget.
type TransientError struct {
	StatusCode int // 0 when the request never got a response
	Err        error
}

func (e *TransientError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("alerts API returned %d", e.StatusCode)
	}
	return fmt.Sprintf("alerts API request failed: %v", e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// AuthError is a 401/403 from the provider. Whether it consumes the retry
// budget like a transient error is a policy decision (Client.RetryAuthErrors).
type AuthError struct {
	StatusCode int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("alerts API rejected credentials: %d", e.StatusCode)
}
