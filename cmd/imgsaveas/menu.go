package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/imgsaveas/internal/model"
	"github.com/nao1215/imgsaveas/internal/platform"
	"github.com/spf13/cobra"
)

// NewMenuCmd creates the menu command.
func NewMenuCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Show the context menu offered on images",
		Long: `Menu runs the startup event, which rebuilds the context menu, and prints
the resulting tree with each item's id. The ids are what "save" dispatches to.`,
		Args: cobra.NoArgs,
		RunE: runMenuCmd,
	}
}

// runMenuCmd executes the menu command.
func runMenuCmd(cmd *cobra.Command, _ []string) (err error) {
	a, err := openApp(cmd, nil, nil)
	if err != nil {
		return err
	}
	defer closeApp(a, &err)

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	a.host.Startup(ctx)
	writeMenuTree(cmd.OutOrStdout(), a.menus)
	return nil
}

// writeMenuTree prints the nodes visible on images, children indented
// under their parent.
func writeMenuTree(w io.Writer, menus *platform.MenuRegistry) {
	var walk func(parentID string, depth int)
	walk = func(parentID string, depth int) {
		for _, node := range menus.Children(parentID) {
			if !node.VisibleIn(model.ContextImage) {
				continue
			}
			fmt.Fprintf(w, "%s%s  [%s]\n", strings.Repeat("  ", depth), node.Title, node.ID)
			walk(node.ID, depth+1)
		}
	}
	walk("", 0)
}
