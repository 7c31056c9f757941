package dataurl

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
)

// ChunkSize is the number of raw bytes base64-encoded per block.
const ChunkSize = 0x8000

// Scheme is the data URL prefix.
const Scheme = "data:"

// defaultMediaType applies when a data URL names no media type.
const defaultMediaType = "text/plain;charset=US-ASCII"

var (
	// ErrNotDataURL is returned when the input does not start with "data:".
	ErrNotDataURL = errors.New("not a data URL")

	// ErrMalformed is returned when the data URL has no comma separator.
	ErrMalformed = errors.New("malformed data URL: missing comma")
)

// Encode returns "data:<mediaType>;base64,<payload>".
func Encode(mediaType string, data []byte) string {
	var b strings.Builder
	b.Grow(len(Scheme) + len(mediaType) + len(";base64,") + base64.StdEncoding.EncodedLen(len(data)))
	b.WriteString(Scheme)
	b.WriteString(mediaType)
	b.WriteString(";base64,")

	// Write never fails on a strings.Builder.
	_ = WriteBase64(&b, data)
	return b.String()
}

// WriteBase64 streams data to w as standard base64, ChunkSize bytes at a time.
func WriteBase64(w io.Writer, data []byte) error {
	enc := base64.NewEncoder(base64.StdEncoding, w)
	for start := 0; start < len(data); start += ChunkSize {
		end := min(start+ChunkSize, len(data))
		if _, err := enc.Write(data[start:end]); err != nil {
			return err
		}
	}
	return enc.Close()
}

// Decode parses a data URL and returns its media type and payload.
// A missing media type yields "text/plain;charset=US-ASCII".
func Decode(raw string) (string, []byte, error) {
	if !IsDataURL(raw) {
		return "", nil, ErrNotDataURL
	}

	header, payload, ok := strings.Cut(raw[len(Scheme):], ",")
	if !ok {
		return "", nil, ErrMalformed
	}

	isBase64 := false
	if trimmed, found := strings.CutSuffix(header, ";base64"); found {
		header = trimmed
		isBase64 = true
	}

	mediaType := header
	switch {
	case mediaType == "":
		mediaType = defaultMediaType
	case strings.HasPrefix(mediaType, ";"):
		mediaType = "text/plain" + mediaType
	}

	if isBase64 {
		// Tolerate whitespace and missing padding; browsers do.
		payload = strings.Map(func(r rune) rune {
			switch r {
			case ' ', '\t', '\r', '\n':
				return -1
			}
			return r
		}, payload)
		data, err := base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if err != nil {
			return "", nil, fmt.Errorf("failed to decode base64 payload: %w", err)
		}
		return mediaType, data, nil
	}

	text, err := url.PathUnescape(payload)
	if err != nil {
		return "", nil, fmt.Errorf("failed to unescape payload: %w", err)
	}
	return mediaType, []byte(text), nil
}

// IsDataURL reports whether raw uses the data: scheme.
func IsDataURL(raw string) bool {
	return len(raw) >= len(Scheme) && strings.EqualFold(raw[:len(Scheme)], Scheme)
}

// MediaTypeOnly strips parameters such as charset from a media type.
func MediaTypeOnly(mediaType string) string {
	base, _, _ := strings.Cut(mediaType, ";")
	return strings.ToLower(strings.TrimSpace(base))
}
