package config

import "time"

// File represents the structure of the .imgsaveas configuration file.
// Every field is optional; zero values leave the defaults in place.
type File struct {
	// DataDir overrides where the settings database is stored.
	DataDir string `yaml:"dataDir,omitempty"`

	// DownloadDir overrides where images are saved.
	DownloadDir string `yaml:"downloadDir,omitempty"`

	// Timeout is the image fetch timeout, e.g. "30s".
	Timeout time.Duration `yaml:"timeout,omitempty"`

	// UserAgent is sent with every image request.
	UserAgent string `yaml:"userAgent,omitempty"`

	// MaxBodySize is the largest accepted image in bytes.
	MaxBodySize int64 `yaml:"maxBodySize,omitempty"`

	// Proxy is a SOCKS5 proxy address in host:port format.
	Proxy string `yaml:"proxy,omitempty"`

	// Concurrency is the number of images converted at once.
	Concurrency int `yaml:"concurrency,omitempty"`

	// Language selects the language of status messages, e.g. "it".
	Language string `yaml:"language,omitempty"`
}
