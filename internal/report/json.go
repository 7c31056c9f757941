package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/imgsaveas/internal/model"
)

// JSONWriter outputs reports in JSON format for tool integration.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	// When false, output is compact (no extra whitespace).
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// historyDocument is the JSON shape of a history report.
type historyDocument struct {
	*History

	TotalSize  int64            `json:"total_size"`
	MediaTypes []MediaTypeCount `json:"media_types"`
}

// resultsDocument is the JSON shape of batch results.
type resultsDocument struct {
	Saved   int                 `json:"saved"`
	Failed  int                 `json:"failed"`
	Results []*model.Conversion `json:"results"`
}

// WriteHistory outputs the history with its aggregates.
func (w *JSONWriter) WriteHistory(history *History) (int, error) {
	return w.writeJSON(historyDocument{
		History:    history,
		TotalSize:  history.TotalSize(),
		MediaTypes: history.MediaTypes(),
	})
}

// WriteResults outputs every conversion with counts.
func (w *JSONWriter) WriteResults(results []*model.Conversion) (int, error) {
	doc := resultsDocument{Results: make([]*model.Conversion, 0, len(results))}
	for _, conv := range results {
		if conv == nil {
			continue
		}
		if conv.Failed() {
			doc.Failed++
		} else {
			doc.Saved++
		}
		doc.Results = append(doc.Results, conv)
	}
	return w.writeJSON(doc)
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return 0, err
	}

	// Add trailing newline for better terminal output
	data = append(data, '\n')

	return w.output.Write(data)
}
