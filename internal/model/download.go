package model

import "time"

// DownloadRecord is one completed download kept in the local history.
type DownloadRecord struct {
	// ID is the history row id; it is also the download id handed back to callers.
	ID int64 `json:"id"`

	// SourceURL is the image URL the conversion started from.
	SourceURL string `json:"source_url,omitempty"`

	// FileName is the filename requested by the pipeline.
	FileName string `json:"file_name"`

	// Path is where the file was written.
	Path string `json:"path"`

	// MIMEType is the media type of the written content.
	MIMEType string `json:"mime_type"`

	// Size is the number of bytes written.
	Size int64 `json:"size"`

	// CreatedAt is when the download finished.
	CreatedAt time.Time `json:"created_at"`
}
