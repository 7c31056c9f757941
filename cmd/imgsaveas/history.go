package main

import (
	"fmt"

	"github.com/nao1215/imgsaveas/internal/report"
	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List saved images",
		Long: `History lists the images saved by imgsaveas, newest first, with where each
was written and the URL it came from.

Examples:
  imgsaveas history
  imgsaveas history -n 10 --json
  imgsaveas history --markdown -o history.md`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", 50, "Maximum number of entries (0 for all)")
	addReportFlags(cmd)

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) (err error) {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	a, err := openApp(cmd, nil, nil)
	if err != nil {
		return err
	}
	defer closeApp(a, &err)

	records, err := a.db.ListDownloads(cmd.Context(), limit)
	if err != nil {
		return err
	}

	w, closeReport, err := reportWriter(cmd, a.cfg.Verbose)
	if err != nil {
		return err
	}
	if _, err := w.WriteHistory(report.NewHistory(a.cfg.DownloadDir, records)); err != nil {
		_ = closeReport()
		return fmt.Errorf("failed to write report: %w", err)
	}
	return closeReport()
}
