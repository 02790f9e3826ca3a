package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/vk/xposedbuild/internal/config"
	"github.com/vk/xposedbuild/internal/console"
	"github.com/vk/xposedbuild/internal/ctxlog"
	"github.com/vk/xposedbuild/internal/layout"
	"github.com/vk/xposedbuild/internal/registry"
	"github.com/vk/xposedbuild/internal/shell"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	appConfig *Config
	logger    *slog.Logger
	console   *console.Printer
	registry  *registry.Registry
	config    *config.Model
	layout    layout.Layout
	runner    shell.Runner
	now       func() time.Time
	modules   []registry.Module
	usage     func()
}

// Option customizes an App.
type Option func(*App)

// WithRunner replaces the subprocess runner, which tests use to fake the toolchain.
func WithRunner(r shell.Runner) Option {
	return func(a *App) { a.runner = r }
}

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(a *App) { a.now = now }
}

// WithModules replaces the built-in step modules.
func WithModules(modules ...registry.Module) Option {
	return func(a *App) { a.modules = modules }
}

// WithUsage sets the function that prints command line help. It is called
// when a target specification resolves to nothing.
func WithUsage(usage func()) Option {
	return func(a *App) { a.usage = usage }
}

// NewApp is the constructor for the main application. Console lines go to
// outW, structured logs to logW. The configuration file is loaded and
// validated here so that no action starts with a broken configuration.
func NewApp(outW, logW io.Writer, appConfig *Config, loader config.Loader, opts ...Option) (*App, error) {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	a := &App{
		appConfig: appConfig,
		logger:    logger,
		console:   console.New(outW),
		runner:    shell.ExecRunner{},
		now:       time.Now,
		modules:   coreModules,
		usage:     func() {},
	}
	for _, opt := range opts {
		opt(a)
	}

	cfgModel, err := loader.Load(ctx, appConfig.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	if err := cfgModel.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConfig, appConfig.ConfigPath, err)
	}
	a.config = cfgModel
	a.layout = layout.New(cfgModel.ResolvePath(config.SectionGeneral, "outdir"))
	logger.Debug("Configuration loaded.", "path", appConfig.ConfigPath, "outdir", a.layout.OutDir)

	a.registry = registry.New()
	for _, mod := range a.modules {
		mod.Register(a.registry)
	}
	logger.Debug("All step modules registered.", "steps", a.registry.Names())

	return a, nil
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}
