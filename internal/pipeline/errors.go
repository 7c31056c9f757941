package pipeline

import "errors"

var (
	// ErrUnsupportedFormat is returned when the format key is not in the
	// registry. The menu only offers registered formats, so this indicates
	// a stale or foreign menu item.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrEmptyImage is returned when the decoded bitmap has no pixels.
	ErrEmptyImage = errors.New("decoded image is empty")

	// ErrNothingToEncode is returned when the encode step runs without a surface.
	ErrNothingToEncode = errors.New("no surface to encode")
)
