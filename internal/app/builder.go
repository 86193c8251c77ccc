// Package app wires together the adapters and engine components that
// implement zr's ports, and exposes the resulting App to the CLI layer.
package app

import (
	"os"
	"path/filepath"

	"go.trai.ch/zr/internal/adapters/alias"
	"go.trai.ch/zr/internal/adapters/cas"
	"go.trai.ch/zr/internal/adapters/config"
	"go.trai.ch/zr/internal/adapters/fs"
	"go.trai.ch/zr/internal/adapters/logger"
	"go.trai.ch/zr/internal/adapters/prompt"
	"go.trai.ch/zr/internal/adapters/shell"
	"go.trai.ch/zr/internal/adapters/telemetry/progrock"
	"go.trai.ch/zr/internal/adapters/toolchain"
	"go.trai.ch/zr/internal/adapters/vcs"
	"go.trai.ch/zr/internal/core/ports"
	"go.trai.ch/zr/internal/engine/condition"
	"go.trai.ch/zr/internal/engine/scheduler"
	"go.trai.ch/zr/internal/engine/workflow"
)

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App          *App
	Logger       ports.Logger
	configLoader ports.ConfigLoader
	aliasStore   *alias.Store
	telemetry    ports.Telemetry
}

// Close releases resources held by wired components (currently just the
// telemetry recorder's underlying tape). Safe to call on a zero-value
// Components built without NewApp.
func (c *Components) Close() error {
	if c.telemetry == nil {
		return nil
	}
	return c.telemetry.Close()
}

// NewComponents creates a new Components struct from dependencies. loader is
// accepted as an interface (rather than the concrete *config.Loader) so
// tests can wire a mock ConfigLoader through the same construction path
// commands use.
func NewComponents(app *App, logger ports.Logger, loader ports.ConfigLoader) *Components {
	return &Components{
		App:          app,
		Logger:       logger,
		configLoader: loader,
	}
}

// ConfigLoader exposes the wired configuration loader to the CLI layer, for
// commands (like list) that need to inspect the graph without running it.
func (c *Components) ConfigLoader() ports.ConfigLoader {
	return c.configLoader
}

// AliasStore exposes the wired alias store to the CLI layer. It is nil when
// Components was built without one (e.g. via NewComponents in tests).
func (c *Components) AliasStore() *alias.Store {
	return c.aliasStore
}

// NewApp creates and configures a new App instance with all required
// dependencies. It manually wires the application components in the
// order the teacher's generated injector used to, now that the DI
// framework it relied on has been dropped in favor of direct construction.
func NewApp() (*Components, error) {
	// 1. Core Adapters
	loggerAdapter := logger.New()

	walker := fs.NewWalker()
	hasher := fs.NewHasher(walker)

	configLoader := config.NewLoader(loggerAdapter)

	shellExecutor := shell.NewExecutor(loggerAdapter)

	fsResolver := fs.NewResolver()

	casStore, err := cas.NewStore(cacheDir())
	if err != nil {
		return nil, err
	}

	envFactory := toolchain.NewResolver()

	root, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	gitChecker := vcs.NewGitChecker()
	conditionEvaluator := condition.NewEvaluator(root, gitChecker)

	// 2. Engine
	sched := scheduler.NewScheduler(
		shellExecutor,
		casStore,
		hasher,
		fsResolver,
		conditionEvaluator,
		envFactory,
		loggerAdapter,
	)

	approvalPrompt := prompt.NewTerminal(os.Stdin, os.Stdout)
	workflowEngine := workflow.NewEngine(sched, conditionEvaluator, approvalPrompt, loggerAdapter)

	telemetryRecorder := progrock.New()
	workflowEngine.SetTelemetry(telemetryRecorder)

	aliasStore, err := alias.NewStore(alias.DefaultPath())
	if err != nil {
		return nil, err
	}

	// 3. Application
	app := New(configLoader, sched)
	app.SetWorkflowEngine(workflowEngine)
	app.SetTelemetry(telemetryRecorder)

	// 4. Components
	components := NewComponents(app, loggerAdapter, configLoader)
	components.aliasStore = aliasStore
	components.telemetry = telemetryRecorder
	return components, nil
}

// cacheDir returns the zr cache directory, defaulting to ~/.zr/cache.
func cacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".zr", "cache")
	}
	return filepath.Join(home, ".zr", "cache")
}
