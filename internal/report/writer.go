package report

import (
	"io"

	"github.com/nao1215/imgsaveas/internal/model"
)

// Writer renders reports in one output format.
type Writer interface {
	// WriteHistory renders the download history.
	// Returns the number of bytes written and any error encountered.
	WriteHistory(history *History) (int, error)

	// WriteResults renders the outcome of a batch of conversions.
	WriteResults(results []*model.Conversion) (int, error)
}

// MultiWriter writes to multiple Writers in order.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// WriteHistory renders the history with every writer.
// Stops on first error encountered.
func (m *MultiWriter) WriteHistory(history *History) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteHistory(history)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteResults renders the results with every writer.
func (m *MultiWriter) WriteResults(results []*model.Conversion) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteResults(results)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// truncateString truncates a string to maxLen bytes with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// resultStatus is the one-word outcome of a conversion.
func resultStatus(conv *model.Conversion) string {
	if conv == nil {
		return "skipped"
	}
	if conv.Failed() {
		return "failed"
	}
	return "saved"
}
