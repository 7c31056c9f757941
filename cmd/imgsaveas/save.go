package main

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/nao1215/imgsaveas/internal/config"
	"github.com/nao1215/imgsaveas/internal/model"
	"github.com/nao1215/imgsaveas/internal/pipeline"
	"github.com/nao1215/imgsaveas/internal/platform"
	"github.com/spf13/cobra"
)

var (
	// errSaveFailed is returned when at least one image could not be saved.
	errSaveFailed = errors.New("some images could not be saved")

	// errClickIgnored marks an image the context menu did not act on.
	errClickIgnored = errors.New("ignored by the context menu: no image source")
)

// NewSaveCmd creates the save command.
func NewSaveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save <image-url>...",
		Short: "Convert images and save them with the configured extension",
		Long: `Save clicks the chosen format in the "Save image as (custom ext)" menu
once per image URL. Each click fetches the image without credentials,
re-encodes it in the chosen format and saves it as "<name>.<extension>" in
the download directory. An empty URL is ignored by the menu, as a click
outside an image would be.

The extension is the custom extension from the preferences, or the format's
usual one when none is set. JPEG output uses the quality preference.

Before each file is written you are asked where to save it; press Enter to
accept the suggestion or type "-" to skip. Use --yes to accept every
suggestion, which also lets several images convert at once.

Existing files are never overwritten; a " (n)" suffix is added instead.

Examples:
  # Save one image as WebP
  imgsaveas save -f webp https://example.com/photos/cat.png

  # Save several images as JPEG without prompting
  imgsaveas save -f jpeg -y https://example.com/a.png https://example.com/b.gif

  # Save into a specific directory and write a JSON summary
  imgsaveas save -f png -y -d ./out --json https://example.com/a.webp`,
		Args: cobra.MinimumNArgs(1),
		RunE: runSaveCmd,
	}

	cmd.Flags().StringP("format", "f", "",
		"Output format: "+strings.Join(model.FormatKeys(), ", ")+" (required)")
	cmd.Flags().BoolP("yes", "y", false,
		"Accept the suggested file name without prompting")
	cmd.Flags().StringP("download-dir", "d", "",
		"Directory to save images in (default: configured download directory)")
	cmd.Flags().IntP("concurrency", "b", 0,
		"Number of images converted at once when --yes is set (default: configured concurrency)")
	addReportFlags(cmd)

	_ = cmd.MarkFlagRequired("format") //nolint:errcheck // flag is defined above

	return cmd
}

// runSaveCmd executes the save command.
func runSaveCmd(cmd *cobra.Command, args []string) (err error) {
	formatKey, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	formatKey = strings.ToLower(strings.TrimSpace(formatKey))
	if !slices.Contains(model.FormatKeys(), formatKey) {
		return fmt.Errorf("%w: %q (choose one of %s)",
			pipeline.ErrUnsupportedFormat, formatKey, strings.Join(model.FormatKeys(), ", "))
	}

	yes, err := cmd.Flags().GetBool("yes")
	if err != nil {
		return err
	}

	var prompter platform.SaveAsPrompter = platform.AcceptPrompter{}
	if !yes {
		prompter = &platform.TerminalPrompter{In: cmd.InOrStdin(), Out: cmd.OutOrStdout()}
	}

	a, err := openApp(cmd, prompter, func(cfg *config.Config) error {
		return applySaveFlags(cmd, cfg)
	})
	if err != nil {
		return err
	}
	defer closeApp(a, &err)

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	// The menu is rebuilt on every startup.
	a.host.Startup(ctx)

	concurrency := a.cfg.Concurrency
	if !yes {
		// One prompt at a time.
		concurrency = 1
	}

	jobs := make([]pipeline.Job, len(args))
	for i, u := range args {
		jobs[i] = pipeline.Job{URL: u, FormatKey: formatKey}
	}

	bp := pipeline.NewBatchProcessor(a.click,
		pipeline.WithBatchLogger(a.logger),
		pipeline.WithConcurrency(concurrency),
	)
	results, err := bp.ProcessBatch(ctx, jobs)
	if err != nil {
		return fmt.Errorf("save interrupted: %w", err)
	}
	for i, conv := range results {
		if conv == nil {
			results[i] = ignoredClick(jobs[i])
		}
	}

	w, closeReport, err := reportWriter(cmd, a.cfg.Verbose)
	if err != nil {
		return err
	}
	if _, err := w.WriteResults(results); err != nil {
		_ = closeReport()
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := closeReport(); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	failed := 0
	for _, conv := range results {
		switch {
		case errors.Is(conv.Error, platform.ErrDownloadCanceled):
			// Skipped at the prompt.
		case conv.Failed():
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d failed", errSaveFailed, failed, len(results))
	}
	return nil
}

// ignoredClick records a job the menu dropped, such as an empty URL.
func ignoredClick(job pipeline.Job) *model.Conversion {
	conv := model.NewConversion(job.URL, job.FormatKey)
	conv.Error = errClickIgnored
	conv.ErrorMessage = errClickIgnored.Error()
	return conv
}

// applySaveFlags overlays the save flags onto the loaded config.
func applySaveFlags(cmd *cobra.Command, cfg *config.Config) error {
	dir, err := cmd.Flags().GetString("download-dir")
	if err != nil {
		return err
	}
	if dir != "" {
		cfg.DownloadDir = dir
	}

	concurrency, err := cmd.Flags().GetInt("concurrency")
	if err != nil {
		return err
	}
	if concurrency > 0 {
		cfg.Concurrency = concurrency
	}
	return nil
}
