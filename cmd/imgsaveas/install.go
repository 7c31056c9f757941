package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewInstallCmd creates the install command.
func NewInstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "install",
		Short: "Seed default preferences and register the context menu",
		Long: `Install runs the first-install event: it registers the "Save image as
(custom ext)" menu and stores the default preferences (quality 0.92, no
custom extension) without overwriting values that are already set.

Running it again is safe.`,
		Args: cobra.NoArgs,
		RunE: runInstallCmd,
	}
}

// runInstallCmd executes the install command.
func runInstallCmd(cmd *cobra.Command, _ []string) (err error) {
	a, err := openApp(cmd, nil, nil)
	if err != nil {
		return err
	}
	defer closeApp(a, &err)

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	a.host.Install(ctx)

	record, err := a.store.Get(ctx, a.defaults)
	if err != nil {
		return fmt.Errorf("failed to read preferences: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Database:  %s\n", a.db.Path())
	fmt.Fprintf(out, "Downloads: %s\n", a.downloads.Dir())
	fmt.Fprintf(out, "Quality:   %s\n", formatQuality(record.Quality))
	fmt.Fprintf(out, "Extension: %s\n\n", displayExtension(record.CustomExtension))
	writeMenuTree(out, a.menus)
	return nil
}
