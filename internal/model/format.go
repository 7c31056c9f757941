package model

// FormatKey identifies one of the supported output raster formats.
type FormatKey string

const (
	// FormatJPEG is lossy JPEG output. It is the only format that honors
	// the configured quality.
	FormatJPEG FormatKey = "jpeg"

	// FormatPNG is lossless PNG output.
	FormatPNG FormatKey = "png"

	// FormatWebP is lossless WebP output.
	FormatWebP FormatKey = "webp"
)

// String returns the key as it appears in menu item ids.
func (k FormatKey) String() string {
	return string(k)
}

// FormatDescriptor describes an output format offered in the context menu.
// Descriptors are immutable; callers receive copies.
type FormatDescriptor struct {
	// Key is the identifier appended to the child menu item id.
	Key FormatKey `json:"key"`

	// MIMEType is the encoding target, e.g. "image/png".
	MIMEType string `json:"mime_type"`

	// DefaultExtension is used when no custom extension is configured.
	DefaultExtension string `json:"default_extension"`

	// Label is the title of the child menu item.
	Label string `json:"label"`
}

// UsesQuality reports whether the encoder for this format takes a quality value.
// PNG and WebP are encoded losslessly, so a configured quality is ignored for them.
func (f FormatDescriptor) UsesQuality() bool {
	return f.Key == FormatJPEG
}

// formats is the fixed registry in menu order.
var formats = []FormatDescriptor{
	{Key: FormatJPEG, MIMEType: "image/jpeg", DefaultExtension: "jpg", Label: "JPEG"},
	{Key: FormatPNG, MIMEType: "image/png", DefaultExtension: "png", Label: "PNG"},
	{Key: FormatWebP, MIMEType: "image/webp", DefaultExtension: "webp", Label: "WebP"},
}

// Formats returns all supported formats in menu order.
func Formats() []FormatDescriptor {
	out := make([]FormatDescriptor, len(formats))
	copy(out, formats)
	return out
}

// LookupFormat returns the descriptor for key.
// The boolean is false for keys outside the fixed registry.
func LookupFormat(key string) (FormatDescriptor, bool) {
	for _, f := range formats {
		if string(f.Key) == key {
			return f, true
		}
	}
	return FormatDescriptor{}, false
}

// FormatKeys returns the registry keys as strings, in menu order.
func FormatKeys() []string {
	keys := make([]string, len(formats))
	for i, f := range formats {
		keys[i] = string(f.Key)
	}
	return keys
}
