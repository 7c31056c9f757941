package model

import (
	"image"
	"time"
)

// ConversionRequest is derived per invocation from a menu click and the
// current settings. It is never persisted.
type ConversionRequest struct {
	// SourceURL is the URL of the clicked image.
	SourceURL string `json:"source_url"`

	// FormatKey is the requested output format.
	FormatKey FormatKey `json:"format"`

	// ResolvedExtension is the sanitized custom extension or the format default.
	ResolvedExtension string `json:"extension"`

	// ResolvedQuality is the clamped quality from settings.
	ResolvedQuality float64 `json:"quality"`

	// FileName is the derived download filename.
	FileName string `json:"file_name"`
}

// Conversion carries one request through the conversion pipeline.
// Each step reads what earlier steps produced and adds its own output.
// A Conversion belongs to a single request and is never shared.
type Conversion struct {
	// SourceURL is the URL the menu click was made on.
	SourceURL string `json:"source_url"`

	// FormatKey is the raw key extracted from the clicked menu item.
	FormatKey string `json:"format"`

	// StartedAt is when the conversion was created.
	StartedAt time.Time `json:"started_at"`

	// Settings is the snapshot read at the start of the request. It may hold
	// unreadable values; Request carries the resolved ones.
	Settings SettingsRecord `json:"-"`

	// Format is the resolved output format.
	Format FormatDescriptor `json:"-"`

	// Request is filled once the format and settings are resolved.
	Request ConversionRequest `json:"request"`

	// Source holds the fetched bytes.
	Source []byte `json:"-"`

	// SourceType is the Content-Type reported by the fetch.
	SourceType string `json:"source_type,omitempty"`

	// SourceMetadata lists EXIF tags present in the source. They do not
	// survive re-encoding.
	SourceMetadata []MetadataTag `json:"source_metadata,omitempty"`

	// Width and Height are the decoded bitmap dimensions.
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`

	// Surface is the off-screen raster the bitmap was drawn onto.
	Surface *image.NRGBA `json:"-"`

	// Encoded holds the re-encoded bytes.
	Encoded []byte `json:"-"`

	// EncodedType is the MIME type of Encoded.
	EncodedType string `json:"encoded_type,omitempty"`

	// DataURL is Encoded as a base64 data URL.
	DataURL string `json:"-"`

	// DownloadID is the id returned by the platform download call.
	DownloadID int64 `json:"download_id,omitempty"`

	// PerformedSteps lists completed pipeline steps in order.
	PerformedSteps []string `json:"performed_steps"`

	// Error is the failure that aborted the conversion, if any.
	Error error `json:"-"`

	// ErrorMessage is Error as text, for logs and JSON output.
	ErrorMessage string `json:"error,omitempty"`
}

// NewConversion creates the working state for a click on sourceURL.
func NewConversion(sourceURL, formatKey string) *Conversion {
	return &Conversion{
		SourceURL:      sourceURL,
		FormatKey:      formatKey,
		StartedAt:      time.Now(),
		PerformedSteps: make([]string, 0),
	}
}

// Failed reports whether a step aborted the conversion.
func (c *Conversion) Failed() bool {
	return c.Error != nil
}

// MetadataTag is a single EXIF entry found in a source image.
type MetadataTag struct {
	// IFD is the image file directory path, e.g. "IFD/Exif".
	IFD string `json:"ifd"`

	// Name is the tag name, e.g. "Model".
	Name string `json:"name"`

	// Value is the formatted tag value.
	Value string `json:"value"`
}
