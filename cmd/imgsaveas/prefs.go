package main

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/nao1215/imgsaveas/internal/model"
	"github.com/nao1215/imgsaveas/internal/prefs"
	"github.com/spf13/cobra"
)

// NewPrefsCmd creates the prefs command and its subcommands.
func NewPrefsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or change the quality and custom extension preferences",
		Long: `Prefs edits the two preferences every conversion reads:

  quality    JPEG encoder quality between 0.1 and 1 (default 0.92)
  extension  custom file extension; empty uses the format's usual one

Values are never rejected: a quality that is not a number becomes 0.92,
out-of-range values are clamped, and the extension keeps only lowercase
letters, digits, "_" and "-".`,
	}

	cmd.AddCommand(newPrefsShowCmd())
	cmd.AddCommand(newPrefsSetCmd())
	cmd.AddCommand(newPrefsResetCmd())

	return cmd
}

func newPrefsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current preferences",
		Args:  cobra.NoArgs,
		RunE:  runPrefsShowCmd,
	}
}

func newPrefsSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change preferences",
		Long: `Set submits the preferences form. Fields whose flag is not given keep their
current value.

Examples:
  imgsaveas prefs set --quality 0.8
  imgsaveas prefs set --ext jfif
  imgsaveas prefs set --ext ""     # back to the format's usual extension`,
		Args: cobra.NoArgs,
		RunE: runPrefsSetCmd,
	}

	cmd.Flags().StringP("quality", "q", "", "JPEG quality between 0.1 and 1")
	cmd.Flags().StringP("ext", "e", "", "Custom file extension without the dot")

	return cmd
}

func newPrefsResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore the default preferences",
		Args:  cobra.NoArgs,
		RunE:  runPrefsResetCmd,
	}
}

// runPrefsShowCmd executes "prefs show".
func runPrefsShowCmd(cmd *cobra.Command, _ []string) (err error) {
	a, err := openApp(cmd, nil, nil)
	if err != nil {
		return err
	}
	defer closeApp(a, &err)

	page := a.page()
	form, err := page.Load(cmd.Context())
	if err != nil {
		return err
	}

	writeForm(cmd.OutOrStdout(), form)
	return nil
}

// runPrefsSetCmd executes "prefs set".
func runPrefsSetCmd(cmd *cobra.Command, _ []string) (err error) {
	qualityChanged := cmd.Flags().Changed("quality")
	extChanged := cmd.Flags().Changed("ext")
	if !qualityChanged && !extChanged {
		return fmt.Errorf("nothing to set: use --quality and/or --ext")
	}

	a, err := openApp(cmd, nil, nil)
	if err != nil {
		return err
	}
	defer closeApp(a, &err)

	out := cmd.OutOrStdout()
	page := a.page(prefs.WithStatusListener(func(text string) {
		if text != "" {
			fmt.Fprintln(out, text)
		}
	}))

	ctx := cmd.Context()
	form, err := page.Load(ctx)
	if err != nil {
		return err
	}
	if qualityChanged {
		if form.Quality, err = cmd.Flags().GetString("quality"); err != nil {
			return err
		}
	}
	if extChanged {
		if form.CustomExtension, err = cmd.Flags().GetString("ext"); err != nil {
			return err
		}
	}

	record, err := page.Submit(ctx, form)
	if err != nil {
		return err
	}

	writeRecord(out, record)
	return nil
}

// runPrefsResetCmd executes "prefs reset".
func runPrefsResetCmd(cmd *cobra.Command, _ []string) (err error) {
	a, err := openApp(cmd, nil, nil)
	if err != nil {
		return err
	}
	defer closeApp(a, &err)

	if err := a.store.Set(cmd.Context(), a.defaults.Patch()); err != nil {
		return fmt.Errorf("failed to reset preferences: %w", err)
	}

	writeRecord(cmd.OutOrStdout(), a.defaults)
	return nil
}

func writeForm(w io.Writer, form prefs.Form) {
	quality := form.Quality
	if quality == "" {
		quality = "(unreadable, " + formatQuality(model.DefaultQuality) + " is used)"
	}
	fmt.Fprintf(w, "quality:   %s\n", quality)
	fmt.Fprintf(w, "extension: %s\n", displayExtension(form.CustomExtension))
}

func writeRecord(w io.Writer, record model.SettingsRecord) {
	fmt.Fprintf(w, "quality:   %s\n", formatQuality(record.Quality))
	fmt.Fprintf(w, "extension: %s\n", displayExtension(record.CustomExtension))
}

func formatQuality(q float64) string {
	if math.IsNaN(q) {
		return "-"
	}
	return strconv.FormatFloat(q, 'g', -1, 64)
}

func displayExtension(ext string) string {
	if ext == "" {
		return "(format default)"
	}
	return ext
}
