package menu

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nao1215/imgsaveas/internal/model"
	"github.com/nao1215/imgsaveas/internal/platform"
	"github.com/nao1215/imgsaveas/internal/settings"
)

const (
	// RootID is the id of the parent menu item.
	RootID = "custom-save-image-root"

	// ItemPrefix prefixes the id of every format item.
	ItemPrefix = "custom-save-image-format-"

	// RootTitle is the label of the parent menu item.
	RootTitle = "Save image as (custom ext)"
)

// Dispatcher converts and downloads one clicked image.
type Dispatcher interface {
	SaveWithCustomExtension(ctx context.Context, imageURL, formatKey string)
}

// Registrar owns the context menu.
type Registrar struct {
	menus      platform.Menus
	store      settings.Store
	dispatcher Dispatcher
	defaults   model.SettingsRecord
	logger     *slog.Logger
}

// Option configures a Registrar.
type Option func(*Registrar)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registrar) {
		r.logger = logger
	}
}

// WithDefaults sets the record seeded into the store on install.
func WithDefaults(defaults model.SettingsRecord) Option {
	return func(r *Registrar) {
		r.defaults = defaults
	}
}

// NewRegistrar creates a Registrar. store is seeded with defaults on install.
func NewRegistrar(menus platform.Menus, store settings.Store, dispatcher Dispatcher, opts ...Option) *Registrar {
	r := &Registrar{
		menus:      menus,
		store:      store,
		dispatcher: dispatcher,
		defaults:   model.DefaultSettings(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ItemID returns the menu item id for a format key.
func ItemID(key model.FormatKey) string {
	return ItemPrefix + string(key)
}

// FormatKeyFromItemID extracts the format key from a menu item id.
// The key is not checked against the format registry.
func FormatKeyFromItemID(id string) (string, bool) {
	return strings.CutPrefix(id, ItemPrefix)
}

// Tree returns the nodes SetupMenu creates, parent first.
func Tree() []model.MenuNode {
	contexts := []model.Context{model.ContextImage}
	nodes := []model.MenuNode{{ID: RootID, Title: RootTitle, Contexts: contexts}}
	for _, f := range model.Formats() {
		nodes = append(nodes, model.MenuNode{
			ID:       ItemID(f.Key),
			ParentID: RootID,
			Title:    f.Label,
			Contexts: contexts,
		})
	}
	return nodes
}

// SetupMenu removes every menu item and recreates the tree.
// Failures are logged and returned but never retried. A failed child does
// not stop its siblings from being created.
func (r *Registrar) SetupMenu(ctx context.Context) error {
	if err := r.menus.RemoveAll(ctx); err != nil {
		r.logger.Error("failed to clear context menu", "error", err)
		return fmt.Errorf("failed to clear context menu: %w", err)
	}

	var errs []error
	for _, node := range Tree() {
		if err := r.menus.Create(ctx, node); err != nil {
			r.logger.Error("failed to create menu item", "menu_item_id", node.ID, "error", err)
			errs = append(errs, fmt.Errorf("failed to create %s: %w", node.ID, err))
		}
	}
	return errors.Join(errs...)
}

// OnMenuClicked dispatches a click on one of our format items.
// Clicks on other items, clicks without an image source and unknown format
// keys are ignored.
func (r *Registrar) OnMenuClicked(ctx context.Context, info model.ClickInfo) {
	key, ok := FormatKeyFromItemID(info.MenuItemID)
	if !ok {
		return
	}
	if info.SrcURL == "" {
		r.logger.Debug("ignoring click without image source", "menu_item_id", info.MenuItemID)
		return
	}
	if _, known := model.LookupFormat(key); !known {
		r.logger.Debug("ignoring click on unknown format", "format_key", key)
		return
	}

	r.dispatcher.SaveWithCustomExtension(ctx, info.SrcURL, key)
}

// Install builds the menu and seeds the settings store with defaults.
func (r *Registrar) Install(ctx context.Context) {
	_ = r.SetupMenu(ctx) //nolint:errcheck // logged by SetupMenu

	if err := settings.Prime(ctx, r.store, r.defaults); err != nil {
		r.logger.Error("failed to prime default settings", "error", err)
	}
}

// Startup rebuilds the menu.
func (r *Registrar) Startup(ctx context.Context) {
	_ = r.SetupMenu(ctx) //nolint:errcheck // logged by SetupMenu
}

// Register subscribes the registrar to host events.
func (r *Registrar) Register(events platform.Events) {
	events.OnInstalled(r.Install)
	events.OnStartup(r.Startup)
	events.OnMenuClicked(r.OnMenuClicked)
}
