// Package app implements the application layer for zr: loading the task
// graph and handing it to the scheduler for a single run.
package app

import (
	"context"
	"runtime"

	"go.trai.ch/zr/internal/adapters/tui"
	"go.trai.ch/zr/internal/core/domain"
	"go.trai.ch/zr/internal/core/ports"
	"go.trai.ch/zr/internal/engine/scheduler"
	"go.trai.ch/zr/internal/engine/workflow"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	scheduler    *scheduler.Scheduler
	workflows    *workflow.Engine
	telemetry    ports.Telemetry
}

// New creates a new App instance.
func New(loader ports.ConfigLoader, sched *scheduler.Scheduler) *App {
	return &App{
		configLoader: loader,
		scheduler:    sched,
	}
}

// SetWorkflowEngine wires the workflow engine used to run a target whose
// name resolves to a workflow rather than a task. Left nil, App.Run never
// recognizes workflow names and treats every target as a task.
func (a *App) SetWorkflowEngine(e *workflow.Engine) {
	a.workflows = e
}

// SetTelemetry wires a telemetry recorder the scheduler attaches to every
// task execution. Left nil, the scheduler runs without per-task vertices
// and the shell executor streams output through Logger instead.
func (a *App) SetTelemetry(t ports.Telemetry) {
	a.telemetry = t
}

// RunOptions configures a single invocation of App.Run.
type RunOptions struct {
	Force    bool
	FailFast bool
	UI       bool
}

// Run executes the build process for the specified targets. A single
// target naming a registered workflow is delegated to the workflow
// engine instead of the scheduler, so `run <workflow>` executes the
// workflow even when a task has the same name.
func (a *App) Run(ctx context.Context, targetNames []string, opts RunOptions) error {
	graph, err := a.configLoader.Load(".")
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	if len(targetNames) == 0 {
		return domain.ErrNoTargetsSpecified
	}

	runTelemetry := a.telemetry
	if opts.UI {
		wrapped, stop := tui.Launch(runTelemetry, taskNamesOf(graph))
		runTelemetry = wrapped
		defer stop()
	}

	if a.workflows != nil && len(targetNames) == 1 {
		if _, ok := graph.GetWorkflow(targetNames[0]); ok {
			if opts.UI {
				a.workflows.SetTelemetry(runTelemetry)
				defer a.workflows.SetTelemetry(a.telemetry)
			}
			wfOpts := workflow.RunOptions{Force: opts.Force, FailFast: opts.FailFast}
			if err := a.workflows.Run(ctx, graph, targetNames[0], wfOpts); err != nil {
				return zerr.Wrap(err, domain.ErrBuildExecutionFailed.Error())
			}
			return nil
		}
	}

	runOpts := scheduler.RunOptions{
		Force:        opts.Force,
		FailFast:     opts.FailFast,
		RuntimeState: domain.NewRuntimeState(),
		Telemetry:    runTelemetry,
	}

	if err := a.scheduler.Run(ctx, graph, targetNames, runtime.NumCPU(), runOpts); err != nil {
		return zerr.Wrap(err, domain.ErrBuildExecutionFailed.Error())
	}

	return nil
}

// taskNamesOf lists every task name in the graph, in the order Graph.Walk
// yields them.
// The TUI uses it to pre-populate the task list before execution starts;
// tasks outside the requested targets simply stay Pending throughout the
// run.
func taskNamesOf(graph *domain.Graph) []string {
	names := make([]string, 0, graph.TaskCount())
	for t := range graph.Walk() {
		names = append(names, t.Name.String())
	}
	return names
}
