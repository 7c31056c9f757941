package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nao1215/imgsaveas/internal/config"
	"github.com/nao1215/imgsaveas/internal/database"
	"github.com/nao1215/imgsaveas/internal/fetch"
	"github.com/nao1215/imgsaveas/internal/log"
	"github.com/nao1215/imgsaveas/internal/menu"
	"github.com/nao1215/imgsaveas/internal/model"
	"github.com/nao1215/imgsaveas/internal/pipeline"
	"github.com/nao1215/imgsaveas/internal/platform"
	"github.com/nao1215/imgsaveas/internal/prefs"
	"github.com/nao1215/imgsaveas/internal/settings"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
)

// app holds the components one command invocation works with.
// Everything is created per invocation and released by Close.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	defaults model.SettingsRecord

	db        *database.DB
	store     *settings.SQLiteStore
	downloads *platform.FileDownloads
	service   *pipeline.Service

	host      *platform.Host
	menus     *platform.MenuRegistry
	registrar *menu.Registrar
}

// newApp opens the database and wires the platform, menu and conversion
// components together the way the browser front end does.
func newApp(cfg *config.Config, logger *slog.Logger, prompter platform.SaveAsPrompter) (*app, error) {
	db, err := database.Open(cfg.DataDir, database.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	client, err := fetch.NewClient(fetch.OptionsFromConfig(cfg))
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	if prompter == nil {
		prompter = platform.AcceptPrompter{}
	}

	a := &app{
		cfg:      cfg,
		logger:   logger,
		defaults: model.DefaultSettings(),
		db:       db,
		store:    settings.NewSQLiteStore(db),
		downloads: platform.NewFileDownloads(cfg.DownloadDir,
			platform.WithPrompter(prompter),
			platform.WithHistory(db),
			platform.WithDownloadsLogger(logger),
		),
		host:  platform.NewHost(),
		menus: platform.NewMenuRegistry(),
	}

	a.service = pipeline.NewService(pipeline.Dependencies{
		Store:     a.store,
		Fetcher:   client,
		Downloads: a.downloads,
		Defaults:  a.defaults,
	}, logger)

	a.registrar = menu.NewRegistrar(a.menus, a.store, a.service,
		menu.WithDefaults(a.defaults),
		menu.WithLogger(logger),
	)
	a.registrar.Register(a.host)

	return a, nil
}

// click fires a click on the job's format item at the job's image, as a
// right-click in the browser would.
func (a *app) click(ctx context.Context, job pipeline.Job) {
	a.host.Click(ctx, model.ClickInfo{
		MenuItemID: menu.ItemPrefix + job.FormatKey,
		SrcURL:     job.URL,
	})
}

// Close releases the database.
func (a *app) Close() error {
	return a.db.Close()
}

// page creates the preferences form over the app's store.
func (a *app) page(opts ...prefs.PageOption) *prefs.Page {
	base := []prefs.PageOption{
		prefs.WithLanguage(a.language()),
		prefs.WithDefaults(a.defaults),
		prefs.WithLogger(a.logger),
	}
	return prefs.NewPage(a.store, append(base, opts...)...)
}

// language returns the tag used for user-facing status messages.
func (a *app) language() language.Tag {
	return prefs.MatchLanguage(a.cfg.Language, prefs.EnvironmentLanguage())
}

// loadConfig builds a Config from defaults, the config file and the global
// flags. An explicitly named config file must exist.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error
	cfg.Verbose, err = cmd.Flags().GetBool("verbose")
	if err != nil {
		return nil, err
	}
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	switch {
	case configPath != "":
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cfg.Apply(file)
	case explicitConfigPath:
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	return cfg, nil
}

// setupLogger creates the sanitizing logger for a command.
func setupLogger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	logger := log.NewSecureLogger(cmd.ErrOrStderr(), cfg.Verbose)
	slog.SetDefault(logger)
	return logger
}

// signalContext returns a context cancelled on interrupt.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// openApp is the common prologue of commands that touch the database.
func openApp(cmd *cobra.Command, prompter platform.SaveAsPrompter, override func(*config.Config) error) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if override != nil {
		if err := override(cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	return newApp(cfg, setupLogger(cmd, cfg), prompter)
}

// closeApp closes a and joins any error into err.
func closeApp(a *app, err *error) {
	if cerr := a.Close(); cerr != nil {
		*err = errors.Join(*err, fmt.Errorf("failed to close database: %w", cerr))
	}
}
