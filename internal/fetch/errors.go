package fetch

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedScheme is returned for URLs other than http, https and data.
	ErrUnsupportedScheme = errors.New("unsupported URL scheme")

	// ErrBodyTooLarge is returned when the image exceeds the configured limit.
	ErrBodyTooLarge = errors.New("response body exceeds size limit")

	// ErrInvalidProxyAddress is returned when the proxy is not host:port.
	ErrInvalidProxyAddress = errors.New("invalid proxy address format: expected host:port")
)

// FetchFailedError reports a completed request with a non-2xx status.
type FetchFailedError struct {
	URL        string
	StatusCode int
}

// Error implements error.
func (e *FetchFailedError) Error() string {
	return fmt.Sprintf("fetch failed: %d", e.StatusCode)
}
