package platform

import (
	"context"

	"github.com/nao1215/imgsaveas/internal/model"
)

// LifecycleHandler reacts to install and startup events.
type LifecycleHandler func(ctx context.Context)

// ClickHandler reacts to a context-menu click.
type ClickHandler func(ctx context.Context, info model.ClickInfo)

// Events registers handlers for host events.
type Events interface {
	// OnInstalled registers a handler for first install and updates.
	OnInstalled(h LifecycleHandler)

	// OnStartup registers a handler for host startup.
	OnStartup(h LifecycleHandler)

	// OnMenuClicked registers a handler for context-menu clicks.
	OnMenuClicked(h ClickHandler)
}

// Menus is the context-menu registry.
type Menus interface {
	// RemoveAll deletes every registered node.
	RemoveAll(ctx context.Context) error

	// Create registers a node. Parents must be created before children.
	Create(ctx context.Context, node model.MenuNode) error
}

// DownloadOptions describes one download request.
type DownloadOptions struct {
	// URL is the content to save. The in-process host accepts data URLs.
	URL string

	// Filename is the suggested file name, relative to the download directory.
	Filename string

	// SaveAs forces a save dialog even if the user disabled it.
	SaveAs bool

	// SourceURL is recorded in the download history.
	SourceURL string
}

// Downloads starts downloads.
type Downloads interface {
	// Download saves the content and returns the download id.
	Download(ctx context.Context, opts DownloadOptions) (int64, error)
}
