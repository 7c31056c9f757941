package report

import (
	"io"
	"strconv"

	"github.com/nao1215/imgsaveas/internal/model"
	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
)

// MarkdownWriter outputs reports in Markdown format for documentation and
// sharing. Tables and alerts are generated with nao1215/markdown.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// WriteHistory outputs the download history in Markdown format.
func (w *MarkdownWriter) WriteHistory(history *History) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Download History")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Download Directory", "`" + history.DownloadDir + "`"},
			{"Generated", history.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
			{"Downloads", strconv.Itoa(len(history.Records))},
			{"Total Size", formatSize(history.TotalSize())},
		},
	})
	md.PlainText("")

	if len(history.Records) == 0 {
		md.Note("No images have been saved yet.")
		md.PlainText("")
		w.writeFooter(md)
		return len(md.String()), md.Build()
	}

	w.writeMediaTypes(md, history)
	w.writeRecords(md, history.Records)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeMediaTypes writes a mermaid pie chart of saved formats.
func (w *MarkdownWriter) writeMediaTypes(md *markdown.Markdown, history *History) {
	md.H2("Formats")
	md.PlainText("")

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Saved Formats"),
		piechart.WithShowData(true),
	)
	for _, mt := range history.MediaTypes() {
		chart.LabelAndIntValue(mt.MIMEType, uint64(mt.Count)) //nolint:gosec // counts are non-negative
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeRecords writes one table row per download.
func (w *MarkdownWriter) writeRecords(md *markdown.Markdown, records []model.DownloadRecord) {
	md.H2("Downloads")
	md.PlainText("")

	rows := make([][]string, len(records))
	for i, r := range records {
		source := r.SourceURL
		if source == "" {
			source = "-"
		}
		rows[i] = []string{
			strconv.FormatInt(r.ID, 10),
			r.CreatedAt.Format("2006-01-02 15:04"),
			"`" + r.FileName + "`",
			r.MIMEType,
			formatSize(r.Size),
			truncateString(source, 60),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"ID", "Date", "File", "Type", "Size", "Source"},
		Rows:   rows,
	})
	md.PlainText("")
}

// WriteResults outputs the batch outcome in Markdown format.
func (w *MarkdownWriter) WriteResults(results []*model.Conversion) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Conversion Results")
	md.PlainText("")

	failed := 0
	rows := make([][]string, 0, len(results))
	for _, conv := range results {
		if conv == nil {
			continue
		}
		file := "-"
		detail := "-"
		if conv.Failed() {
			failed++
			detail = truncateString(conv.ErrorMessage, 60)
		} else {
			file = "`" + conv.Request.FileName + "`"
			detail = strconv.Itoa(conv.Width) + "x" + strconv.Itoa(conv.Height)
		}
		rows = append(rows, []string{
			resultStatus(conv),
			truncateString(conv.SourceURL, 60),
			conv.FormatKey,
			file,
			detail,
		})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Status", "Source", "Format", "File", "Detail"},
		Rows:   rows,
	})
	md.PlainText("")

	if failed > 0 {
		md.Warningf("%d of %d conversion(s) failed.", failed, len(rows))
	} else {
		md.Tip("All images were saved.")
	}
	md.PlainText("")
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [imgsaveas](https://github.com/nao1215/imgsaveas)*")
}
