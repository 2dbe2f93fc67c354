package app

import (
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/quantforge/tickflow/internal/operator"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *operator.Registry
	config   *Config
	runID    string
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and registry.
func NewApp(outW io.Writer, cfg *Config, modules ...operator.Module) *App {
	runID := uuid.NewString()
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW).With("run_id", runID)
	logger.Debug("Logger configured successfully.")

	reg := operator.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All operator modules registered.", "modules", len(modules), "types", len(reg.Types()))

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		config:   cfg,
		runID:    runID,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *operator.Registry {
	return a.registry
}

// RunID returns the unique identifier assigned to this app instance.
func (a *App) RunID() string {
	return a.runID
}
