package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for imgsaveas.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "imgsaveas",
		Short: "Save web images as JPEG, PNG or WebP with a custom extension",
		Long: `imgsaveas fetches an image, re-encodes it as JPEG, PNG or WebP and saves it
under "<name>.<extension>". The extension defaults to the format's usual one
and can be replaced by a custom extension in the preferences.

The "Save image as (custom ext)" menu has one item per format; the menu,
preferences and conversion pipeline are the same components a browser
front end uses.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .imgsaveas in current, config or home directory)")

	// Add subcommands
	cmd.AddCommand(NewSaveCmd())
	cmd.AddCommand(NewInstallCmd())
	cmd.AddCommand(NewMenuCmd())
	cmd.AddCommand(NewPrefsCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
