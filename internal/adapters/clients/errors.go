// Package clients provides the instrumented HTTP client used by provider
// adapters such as the email gateway.
package clients

import "errors"

// Client errors are infrastructure failures. Adapters in the acl package
// translate them into domain errors.
var (
	// ErrCircuitOpen is returned while the breaker blocks requests.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrRequestFailed wraps transport failures (DNS, connect, timeout).
	ErrRequestFailed = errors.New("request failed")
)
