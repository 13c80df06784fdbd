// Package app wires the providers, engine, and adapters into the
// sssdcfg application.
package app

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/meelinux/sssdcfg/internal/adapters/command"
	"github.com/meelinux/sssdcfg/internal/adapters/filesystem"
	"github.com/meelinux/sssdcfg/internal/adapters/logging"
	"github.com/meelinux/sssdcfg/internal/domain/compiler"
	"github.com/meelinux/sssdcfg/internal/domain/config"
	"github.com/meelinux/sssdcfg/internal/domain/execution"
	"github.com/meelinux/sssdcfg/internal/domain/platform"
	"github.com/meelinux/sssdcfg/internal/ports"
	"github.com/meelinux/sssdcfg/internal/provider/authstack"
	"github.com/meelinux/sssdcfg/internal/provider/pkgmgr"
	"github.com/meelinux/sssdcfg/internal/provider/service"
	"github.com/meelinux/sssdcfg/internal/provider/sssdconf"
)

// App is the application orchestrator.
type App struct {
	runner   ports.CommandRunner
	fs       ports.FileSystem
	logger   ports.Logger
	planner  *execution.Planner
	executor *execution.Executor
	loader   *config.Loader
	facts    *platform.Facts
	out      io.Writer
}

// Option configures an App.
type Option func(*App)

// WithRunner overrides the command runner, for tests.
func WithRunner(runner ports.CommandRunner) Option {
	return func(a *App) {
		a.runner = runner
	}
}

// WithFileSystem overrides the file system, for tests.
func WithFileSystem(fs ports.FileSystem) Option {
	return func(a *App) {
		a.fs = fs
	}
}

// WithFacts pins the platform facts instead of detecting them from the
// running host.
func WithFacts(facts platform.Facts) Option {
	return func(a *App) {
		a.facts = &facts
	}
}

// WithLogger sets the logger.
func WithLogger(logger ports.Logger) Option {
	return func(a *App) {
		a.logger = logger
	}
}

// New creates a new App writing human output to out.
func New(out io.Writer, opts ...Option) *App {
	a := &App{
		runner:   command.NewRealRunner(),
		fs:       filesystem.NewRealFileSystem(),
		logger:   logging.NewNopLogger(),
		planner:  execution.NewPlanner(),
		executor: execution.NewExecutor(),
		loader:   config.NewLoader(),
		out:      out,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// compile loads the configuration, detects the platform, and compiles
// the full step graph. A fresh compiler per call keeps provider state
// (the shared reconciler) scoped to one pass.
func (a *App) compile(configPath string) (*compiler.StepGraph, *config.Config, error) {
	cfg, err := a.loader.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	var facts platform.Facts
	if a.facts != nil {
		facts = *a.facts
	} else {
		facts, err = platform.Detect()
		if err != nil {
			return nil, nil, fmt.Errorf("detect platform: %w", err)
		}
	}

	comp := compiler.NewCompiler()
	comp.RegisterProvider(pkgmgr.NewProvider(a.runner))
	comp.RegisterProvider(sssdconf.NewProvider(a.fs))
	comp.RegisterProvider(service.NewProvider(a.runner, a.fs))
	comp.RegisterProvider(authstack.NewProvider(a.runner, a.logger))

	graph, err := comp.Compile(compiler.NewCompileContext(cfg, facts))
	if err != nil {
		return nil, nil, fmt.Errorf("compile: %w", err)
	}
	return graph, cfg, nil
}

// Plan compiles the configuration and checks every step.
func (a *App) Plan(ctx context.Context, configPath string) (*execution.Plan, error) {
	graph, _, err := a.compile(configPath)
	if err != nil {
		return nil, err
	}

	plan, err := a.planner.Plan(ctx, graph)
	if err != nil {
		return nil, fmt.Errorf("plan: %w", err)
	}
	return plan, nil
}

// Apply plans and converges. Each run carries a run ID in the logs so
// interleaved journal output can be traced back to one invocation.
func (a *App) Apply(ctx context.Context, configPath string, dryRun bool) ([]execution.StepResult, error) {
	runID := uuid.NewString()
	logger := a.logger.With(ports.F("run_id", runID))

	plan, err := a.Plan(ctx, configPath)
	if err != nil {
		return nil, err
	}

	summary := plan.Summary()
	logger.Info(ctx, "starting apply",
		ports.F("steps", summary.Total),
		ports.F("pending", summary.NeedsApply),
		ports.F("dry_run", dryRun))

	results := a.executor.WithDryRun(dryRun).Execute(ctx, plan)

	for _, result := range results {
		if result.Failed() {
			logger.Error(ctx, "step failed",
				ports.F("step", result.StepID().String()),
				ports.F("error", result.Error().Error()))
			return results, result.Error()
		}
	}

	logger.Info(ctx, "converged", ports.F("steps", len(results)))
	return results, nil
}
