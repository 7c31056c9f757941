package model

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Settings limits and defaults.
const (
	// MinQuality is the lowest accepted encoder quality.
	MinQuality = 0.1

	// MaxQuality is the highest accepted encoder quality.
	MaxQuality = 1.0

	// DefaultQuality replaces any quality that is not a finite number.
	DefaultQuality = 0.92

	// KeyQuality is the storage key of the quality field.
	KeyQuality = "quality"

	// KeyCustomExtension is the storage key of the custom extension field.
	KeyCustomExtension = "customExtension"
)

// SettingsRecord holds the user preferences shared by the preferences form
// and the conversion pipeline. There is one record per user profile and the
// last write wins.
type SettingsRecord struct {
	// Quality is the JPEG encoder quality in [MinQuality, MaxQuality].
	Quality float64 `json:"quality"`

	// CustomExtension replaces the format's default extension when non-empty.
	// It only contains [a-z0-9_-] and carries no leading dot.
	CustomExtension string `json:"customExtension"`
}

// DefaultSettings returns the record used to seed storage on install.
func DefaultSettings() SettingsRecord {
	return SettingsRecord{
		Quality:         DefaultQuality,
		CustomExtension: "",
	}
}

// Sanitized returns a copy with quality clamped and the extension cleaned.
func (r SettingsRecord) Sanitized() SettingsRecord {
	return SettingsRecord{
		Quality:         ClampQuality(r.Quality),
		CustomExtension: SanitizeExtension(r.CustomExtension),
	}
}

// SettingsPatch is a partial record. Nil fields are left untouched by a merge.
type SettingsPatch struct {
	Quality         *float64 `json:"quality,omitempty"`
	CustomExtension *string  `json:"customExtension,omitempty"`
}

// Patch returns a patch that sets every field of r.
func (r SettingsRecord) Patch() SettingsPatch {
	q := r.Quality
	ext := r.CustomExtension
	return SettingsPatch{Quality: &q, CustomExtension: &ext}
}

// ClampQuality limits v to [MinQuality, MaxQuality].
// NaN and infinities yield DefaultQuality.
func ClampQuality(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return DefaultQuality
	}
	return math.Min(MaxQuality, math.Max(MinQuality, v))
}

// QualityFromValue coerces a loosely typed value (a form field, a JSON value
// read back from storage) into a valid quality. Numbers and numeric strings
// are clamped; everything else yields DefaultQuality.
func QualityFromValue(v any) float64 {
	switch n := v.(type) {
	case float64:
		return ClampQuality(n)
	case float32:
		return ClampQuality(float64(n))
	case int:
		return ClampQuality(float64(n))
	case int64:
		return ClampQuality(float64(n))
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return DefaultQuality
		}
		return ClampQuality(f)
	case string:
		return ParseQuality(n)
	default:
		return DefaultQuality
	}
}

// ParseQuality parses a text field into a valid quality.
// Blank or non-numeric text yields DefaultQuality.
func ParseQuality(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultQuality
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return DefaultQuality
	}
	return ClampQuality(f)
}

// SanitizeExtension trims s, strips one leading dot, drops every character
// outside [A-Za-z0-9_-] and lowercases the rest.
func SanitizeExtension(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, ".")
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		}
	}
	return b.String()
}

// ResolveExtension returns the sanitized custom extension, or the format's
// default extension when nothing survives sanitization.
func ResolveExtension(custom string, format FormatDescriptor) string {
	if ext := SanitizeExtension(custom); ext != "" {
		return ext
	}
	return format.DefaultExtension
}
