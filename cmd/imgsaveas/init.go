package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nao1215/imgsaveas/internal/config"
	"github.com/spf13/cobra"
)

//go:embed templates/imgsaveas.yaml
var configTemplate embed.FS

// configFileName is the default configuration file name.
const configFileName = config.DefaultConfigFile

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new imgsaveas configuration file",
		Long: `Initialize creates a new .imgsaveas configuration file in the current directory.

The generated file documents every option with its default:
- Data and download directories
- Fetch timeout, User-Agent, size limit and SOCKS5 proxy
- Batch concurrency and status message language

Examples:
  # Create .imgsaveas in current directory
  imgsaveas init

  # Create config file at a specific path
  imgsaveas init -o ~/.config/imgsaveas/.imgsaveas

  # Force overwrite existing file
  imgsaveas init -f`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", configFileName,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := configTemplate.ReadFile("templates/imgsaveas.yaml")
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(out, "\nEdit this file to configure:")
	fmt.Fprintln(out, "  - Where images and the history database are stored")
	fmt.Fprintln(out, "  - Fetch timeout, size limit and proxy")
	fmt.Fprintln(out, "\nQuality and extension are changed with \"imgsaveas prefs set\".")

	return nil
}
