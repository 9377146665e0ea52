package keypool

import (
	"errors"
	"fmt"
)

// ErrNoCredentials is returned when the pool was constructed without any keys.
var ErrNoCredentials = errors.New("keypool: no API keys configured")

// ErrExhaustedCredentials is returned when every credential was attempted
// within one logical call and all of them failed with a retriable error.
var ErrExhaustedCredentials = errors.New("keypool: all API keys exhausted for this call")

// APIError is a hard upstream failure: any non-2xx response that is not a
// quota or rate-limit signal. It is never retried.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("upstream API error: HTTP %d: %s", e.Status, e.Body)
}
