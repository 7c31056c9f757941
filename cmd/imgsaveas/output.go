package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nao1215/imgsaveas/internal/report"
	"github.com/spf13/cobra"
)

// errConflictingFormats is returned when both --json and --markdown are set.
var errConflictingFormats = errors.New("--json and --markdown are mutually exclusive")

// addReportFlags registers the report format flags shared by save and history.
func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
}

// reportWriter opens the writer selected by the report flags. The returned
// close function must be called once the report is written.
func reportWriter(cmd *cobra.Command, verbose bool) (report.Writer, func() error, error) {
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return nil, nil, err
	}
	asMarkdown, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, nil, err
	}
	if asJSON && asMarkdown {
		return nil, nil, errConflictingFormats
	}
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return nil, nil, err
	}

	var out io.Writer = cmd.OutOrStdout()
	closeFn := func() error { return nil }
	if outputPath != "" {
		if dir := filepath.Dir(outputPath); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return nil, nil, fmt.Errorf("failed to create directory: %w", err)
			}
		}
		f, err := os.Create(outputPath) //nolint:gosec // user-provided output path
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create report file: %w", err)
		}
		out = f
		closeFn = f.Close
	}

	switch {
	case asJSON:
		return report.NewJSONWriter(out, report.WithPrettyPrint()), closeFn, nil
	case asMarkdown:
		return report.NewMarkdownWriter(out), closeFn, nil
	default:
		return report.NewSimpleWriter(out, report.WithVerbose(verbose)), closeFn, nil
	}
}
