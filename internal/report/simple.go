package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/imgsaveas/internal/model"
)

// SimpleWriter outputs human-readable text for terminal display.
type SimpleWriter struct {
	baseWriter

	// verbose adds per-record detail such as source URLs and errors.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// WriteHistory outputs the download history as a table.
func (w *SimpleWriter) WriteHistory(history *History) (int, error) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Download directory: %s\n", history.DownloadDir)
	fmt.Fprintf(&sb, "Downloads:          %d (%s)\n\n", len(history.Records), formatSize(history.TotalSize()))

	if len(history.Records) == 0 {
		sb.WriteString("No downloads yet.\n")
		return w.output.Write([]byte(sb.String()))
	}

	fmt.Fprintf(&sb, "%-5s  %-19s  %-10s  %9s  %s\n", "ID", "DATE", "TYPE", "SIZE", "FILE")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	for _, r := range history.Records {
		fmt.Fprintf(&sb, "%-5d  %-19s  %-10s  %9s  %s\n",
			r.ID,
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.MIMEType,
			formatSize(r.Size),
			r.Path,
		)
		if w.verbose && r.SourceURL != "" {
			fmt.Fprintf(&sb, "       from %s\n", r.SourceURL)
		}
	}

	return w.output.Write([]byte(sb.String()))
}

// WriteResults outputs one line per conversion.
func (w *SimpleWriter) WriteResults(results []*model.Conversion) (int, error) {
	var sb strings.Builder

	saved := 0
	for _, conv := range results {
		status := resultStatus(conv)
		if conv == nil {
			fmt.Fprintf(&sb, "[%s]\n", status)
			continue
		}
		if !conv.Failed() {
			saved++
		}

		fmt.Fprintf(&sb, "[%s] %s -> %s", status, conv.SourceURL, conv.FormatKey)
		if conv.Request.FileName != "" && !conv.Failed() {
			fmt.Fprintf(&sb, " (%s)", conv.Request.FileName)
		}
		sb.WriteString("\n")

		if conv.Failed() {
			fmt.Fprintf(&sb, "    error: %s\n", conv.ErrorMessage)
		}
		if w.verbose && !conv.Failed() {
			fmt.Fprintf(&sb, "    %dx%d %s, download id %d\n", conv.Width, conv.Height, conv.EncodedType, conv.DownloadID)
		}
	}

	fmt.Fprintf(&sb, "\n%d of %d image(s) saved\n", saved, len(results))
	return w.output.Write([]byte(sb.String()))
}

// formatSize renders a byte count with a binary unit.
func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
