package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() so callers can use
// errors.Is() while still getting a readable message.
var (
	// ErrNoDataDir is returned when no data directory could be determined.
	ErrNoDataDir = errors.New("no data directory: set dataDir in the config file")

	// ErrNoDownloadDir is returned when no download directory could be determined.
	ErrNoDownloadDir = errors.New("no download directory: use --download-dir or set downloadDir in the config file")

	// ErrInvalidTimeout is returned when the fetch timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxBodySize is returned when the maximum image size is not positive.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be positive")

	// ErrInvalidConcurrency is returned when the concurrency is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidProxyAddress is returned when the proxy is not in host:port format.
	ErrInvalidProxyAddress = errors.New("invalid proxy address format: expected host:port")
)
