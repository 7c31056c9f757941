package model

import (
	"net/url"
	"strings"
)

// FallbackBaseName is used when no usable name can be taken from a URL.
const FallbackBaseName = "image"

// DeriveFileName builds "<base>.<ext>" from the last non-empty path segment
// of rawURL, dropping that segment's last dot-delimited suffix.
// Relative or unparsable URLs, including a path with an invalid percent
// escape such as "https://x/%", yield "image.<ext>".
func DeriveFileName(rawURL, ext string) string {
	return deriveBaseName(rawURL) + "." + ext
}

func deriveBaseName(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || !u.IsAbs() {
		return FallbackBaseName
	}

	// Hierarchical web URLs need a host to be meaningful.
	switch strings.ToLower(u.Scheme) {
	case "http", "https", "ftp", "ws", "wss":
		if u.Host == "" {
			return FallbackBaseName
		}
	}

	// Opaque URLs (data:, blob:) expose everything after the scheme as the path.
	path := u.Opaque
	if path == "" {
		path = u.EscapedPath()
	}

	name := lastSegment(path)
	if name == "" {
		return FallbackBaseName
	}

	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[:i]
	}
	if name == "" {
		return FallbackBaseName
	}
	return name
}

func lastSegment(path string) string {
	segments := strings.Split(path, "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] != "" {
			return segments[i]
		}
	}
	return ""
}
