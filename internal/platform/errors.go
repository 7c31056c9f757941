package platform

import "errors"

var (
	// ErrDuplicateMenuID is returned when a node id is already registered.
	ErrDuplicateMenuID = errors.New("duplicate menu item id")

	// ErrUnknownParent is returned when a node names a parent that does not exist.
	ErrUnknownParent = errors.New("unknown parent menu item")

	// ErrEmptyMenuID is returned when a node has no id.
	ErrEmptyMenuID = errors.New("menu item id must not be empty")

	// ErrInvalidFilename is returned for empty, absolute or escaping file names.
	ErrInvalidFilename = errors.New("invalid download filename")

	// ErrUnsupportedDownloadURL is returned when the URL is not a data URL.
	ErrUnsupportedDownloadURL = errors.New("unsupported download URL")

	// ErrDownloadCanceled is returned when the save dialog was dismissed.
	ErrDownloadCanceled = errors.New("download canceled")
)
