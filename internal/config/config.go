package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "imgsaveas"

	// DefaultTimeout bounds a single image fetch. There is no other timeout
	// in a conversion.
	DefaultTimeout = 60 * time.Second

	// DefaultUserAgent identifies imgsaveas in HTTP requests.
	DefaultUserAgent = "imgsaveas/1.0 (+https://github.com/nao1215/imgsaveas)"

	// DefaultMaxBodySize limits how many bytes of an image are read.
	// 64MB covers large photographs while preventing memory exhaustion.
	DefaultMaxBodySize = 64 * 1024 * 1024

	// DefaultConcurrency is the number of conversions run at once when
	// several images are saved in one invocation.
	DefaultConcurrency = 4

	// DefaultLanguage selects the language of user-facing status messages.
	// An empty value means "detect from the environment".
	DefaultLanguage = ""
)

// Config holds all configuration options for imgsaveas.
// It is populated from the config file and CLI flags and passed through the
// application explicitly rather than read from global state.
//
// User preferences (quality and custom extension) are not part of Config;
// they live in the settings store and are edited with the prefs command.
type Config struct {
	// DataDir is where the settings and download history database lives.
	// Defaults to the XDG data directory.
	DataDir string

	// DownloadDir is where downloaded images are written.
	// Defaults to the XDG download directory.
	DownloadDir string

	// Timeout is the HTTP client timeout for fetching an image.
	Timeout time.Duration

	// UserAgent is the User-Agent header sent when fetching images.
	UserAgent string

	// MaxBodySize is the maximum image size in bytes.
	// Larger responses fail the conversion.
	MaxBodySize int64

	// Proxy is an optional SOCKS5 proxy in "host:port" format.
	// When empty, images are fetched directly.
	Proxy string

	// Concurrency is the number of conversions run at once.
	Concurrency int

	// Language is a BCP 47 tag for status messages, e.g. "it".
	Language string

	// Verbose enables debug logging.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches the current and home directory.
	ConfigFilePath string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		DataDir:     XDGDataDir(),
		DownloadDir: XDGDownloadDir(),
		Timeout:     DefaultTimeout,
		UserAgent:   DefaultUserAgent,
		MaxBodySize: DefaultMaxBodySize,
		Concurrency: DefaultConcurrency,
		Language:    DefaultLanguage,
	}
}

// Apply overlays the non-zero values of a config file onto c.
func (c *Config) Apply(f *File) {
	if f == nil {
		return
	}
	if f.DataDir != "" {
		c.DataDir = f.DataDir
	}
	if f.DownloadDir != "" {
		c.DownloadDir = f.DownloadDir
	}
	if f.Timeout > 0 {
		c.Timeout = f.Timeout
	}
	if f.UserAgent != "" {
		c.UserAgent = f.UserAgent
	}
	if f.MaxBodySize > 0 {
		c.MaxBodySize = f.MaxBodySize
	}
	if f.Proxy != "" {
		c.Proxy = f.Proxy
	}
	if f.Concurrency > 0 {
		c.Concurrency = f.Concurrency
	}
	if f.Language != "" {
		c.Language = f.Language
	}
}

// XDGDataDir returns the XDG data directory for imgsaveas.
// On Linux: ~/.local/share/imgsaveas
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for imgsaveas.
// On Linux: ~/.config/imgsaveas
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGDownloadDir returns the user's download directory.
// On Linux: ~/Downloads (or $XDG_DOWNLOAD_DIR)
func XDGDownloadDir() string {
	return xdg.UserDirs.Download
}

// Validate checks if the configuration is valid.
// It returns the first problem found.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return ErrNoDataDir
	}
	if c.DownloadDir == "" {
		return ErrNoDownloadDir
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MaxBodySize <= 0 {
		return ErrInvalidMaxBodySize
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.Proxy != "" && !IsValidProxyAddress(c.Proxy) {
		return ErrInvalidProxyAddress
	}
	return nil
}

// IsValidProxyAddress checks if the address is in "host:port" format with a
// port between 1 and 65535.
func IsValidProxyAddress(address string) bool {
	host, port, ok := cutLast(address, ':')
	if !ok || host == "" || port == "" {
		return false
	}

	portNum := 0
	for _, c := range port {
		if c < '0' || c > '9' {
			return false
		}
		portNum = portNum*10 + int(c-'0')
		if portNum > 65535 {
			return false
		}
	}
	return portNum >= 1
}

func cutLast(s string, sep byte) (before, after string, found bool) {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == sep {
			return s[:i], s[i+1:], true
		}
	}
	return s, "", false
}
