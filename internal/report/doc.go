// Package report renders the download history and batch conversion results.
//
// Writers for three formats are provided:
//   - SimpleWriter: aligned text for the terminal
//   - JSONWriter: structured JSON for scripts
//   - MarkdownWriter: Markdown with a media type chart for sharing
//
// Writers implement the Writer interface, so they can be combined with
// MultiWriter.
package report
