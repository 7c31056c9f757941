package prefs

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/nao1215/imgsaveas/internal/model"
	"github.com/nao1215/imgsaveas/internal/settings"
)

// Form holds the raw text of the two preference fields.
type Form struct {
	Quality         string `json:"quality"`
	CustomExtension string `json:"customExtension"`
}

// Page binds a Form to the settings store.
type Page struct {
	store    settings.Store
	defaults model.SettingsRecord
	status   *Status
	printer  *message.Printer
	logger   *slog.Logger
}

// PageOption configures a Page.
type PageOption func(*pageConfig)

type pageConfig struct {
	lang     language.Tag
	delay    time.Duration
	onStatus func(string)
	defaults model.SettingsRecord
	logger   *slog.Logger
}

// WithLanguage selects the language of status messages.
func WithLanguage(tag language.Tag) PageOption {
	return func(c *pageConfig) {
		c.lang = tag
	}
}

// WithStatusDelay overrides StatusDelay.
func WithStatusDelay(d time.Duration) PageOption {
	return func(c *pageConfig) {
		c.delay = d
	}
}

// WithStatusListener is called whenever the status line changes.
func WithStatusListener(fn func(text string)) PageOption {
	return func(c *pageConfig) {
		c.onStatus = fn
	}
}

// WithDefaults sets the record shown for keys missing from the store.
func WithDefaults(defaults model.SettingsRecord) PageOption {
	return func(c *pageConfig) {
		c.defaults = defaults
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) PageOption {
	return func(c *pageConfig) {
		c.logger = logger
	}
}

// NewPage creates a preferences page for store.
func NewPage(store settings.Store, opts ...PageOption) *Page {
	cfg := pageConfig{
		lang:     supported[0],
		delay:    StatusDelay,
		defaults: model.DefaultSettings(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Page{
		store:    store,
		defaults: cfg.defaults,
		status:   NewStatus(cfg.delay, cfg.onStatus),
		printer:  newPrinter(cfg.lang),
		logger:   cfg.logger,
	}
}

// Load reads the stored settings into form fields.
func (p *Page) Load(ctx context.Context) (Form, error) {
	record, err := p.store.Get(ctx, p.defaults)
	if err != nil {
		return Form{}, fmt.Errorf("failed to load settings: %w", err)
	}
	return Form{
		Quality:         formatQuality(record.Quality),
		CustomExtension: record.CustomExtension,
	}, nil
}

// Submit coerces the form into a valid record and stores it.
// The returned record is what was written.
func (p *Page) Submit(ctx context.Context, form Form) (model.SettingsRecord, error) {
	record := model.SettingsRecord{
		Quality:         model.ParseQuality(form.Quality),
		CustomExtension: model.SanitizeExtension(form.CustomExtension),
	}

	if err := p.store.Set(ctx, record.Patch()); err != nil {
		p.logger.Error("failed to save settings", "error", err)
		return record, fmt.Errorf("failed to save settings: %w", err)
	}

	p.status.Show(p.printer.Sprintf(MsgSaved))
	p.logger.Debug("settings saved", "quality", record.Quality, "custom_extension", record.CustomExtension)
	return record, nil
}

// Status returns the page's status line.
func (p *Page) Status() *Status {
	return p.status
}

// formatQuality renders a quality the way a number input shows it.
func formatQuality(q float64) string {
	if math.IsNaN(q) {
		return ""
	}
	return strconv.FormatFloat(q, 'g', -1, 64)
}
