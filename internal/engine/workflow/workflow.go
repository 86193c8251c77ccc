// Package workflow sequences a Workflow's stages, reusing the scheduler for
// each stage's task sub-run and threading a single RuntimeState across
// stages so later conditions can reference earlier stages and tasks.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"go.trai.ch/zr/internal/core/domain"
	"go.trai.ch/zr/internal/core/ports"
	"go.trai.ch/zr/internal/engine/scheduler"
	"go.trai.ch/zerr"
)

// Engine runs workflows stage by stage.
type Engine struct {
	scheduler *scheduler.Scheduler
	condition ports.ConditionEvaluator
	approval  ports.ApprovalPrompt
	logger    ports.Logger
	telemetry ports.Telemetry
}

// NewEngine builds a workflow Engine over an already-wired scheduler,
// reusing the same condition evaluator instance as task conditions so
// stage and task expressions see an identical environment/state contract.
func NewEngine(sched *scheduler.Scheduler, condition ports.ConditionEvaluator, approval ports.ApprovalPrompt, logger ports.Logger) *Engine {
	return &Engine{scheduler: sched, condition: condition, approval: approval, logger: logger}
}

// SetTelemetry wires the recorder each stage's task sub-run attaches
// vertices to. Left nil, stages run without per-task vertices.
func (e *Engine) SetTelemetry(t ports.Telemetry) {
	e.telemetry = t
}

// RunOptions configures a workflow run.
type RunOptions struct {
	// Force bypasses the cache for every task run by every stage.
	Force bool
	// FailFast is the workflow-scoped policy: stop running further stages
	// once one fails, after its on_failure hook (if any) has run. A
	// stage's own FailFast field is a separate, stage-scoped policy that
	// instead governs cancellation of sibling tasks within that stage.
	FailFast bool
}

// Run executes the named workflow's stages in order against graph.
func (e *Engine) Run(ctx context.Context, graph *domain.Graph, name string, opts RunOptions) error {
	wf, ok := graph.GetWorkflow(name)
	if !ok {
		return zerr.With(domain.ErrWorkflowNotFound, "workflow", name)
	}

	state := domain.NewRuntimeState()
	var errs error

	for _, stage := range wf.Stages {
		stageName := stage.Name.String()

		if stage.Condition != "" {
			shouldRun, err := e.condition.Evaluate(stage.Condition, nil, state)
			if err != nil {
				e.logger.Warn(fmt.Sprintf("stage %s condition failed open: %v", stageName, err))
			}
			if !shouldRun {
				state.RecordStage(stageName, domain.StageRuntime{Success: true})
				continue
			}
		}

		if stage.Approval {
			approved, err := e.approval.Confirm(ctx, stageName)
			if err != nil {
				return zerr.With(zerr.Wrap(err, "approval prompt failed"), "stage", stageName)
			}
			if !approved {
				state.RecordStage(stageName, domain.StageRuntime{Success: false})
				errs = errors.Join(errs, zerr.With(domain.ErrApprovalRejected, "stage", stageName))
				e.runOnFailure(ctx, graph, stage, opts, state)
				if opts.FailFast {
					return zerr.Wrap(errs, domain.ErrWorkflowExecutionFailed.Error())
				}
				continue
			}
		}

		parallelism := runtime.NumCPU()
		if !stage.Parallel {
			parallelism = 1
		}

		targets := make([]string, len(stage.Targets))
		for i, t := range stage.Targets {
			targets[i] = t.String()
		}

		runErr := e.scheduler.Run(ctx, graph, targets, parallelism, scheduler.RunOptions{
			Force:        opts.Force,
			FailFast:     stage.FailFast,
			RuntimeState: state,
			Telemetry:    e.telemetry,
		})

		stageSuccess := runErr == nil
		state.RecordStage(stageName, domain.StageRuntime{Success: stageSuccess})

		if !stageSuccess {
			errs = errors.Join(errs, zerr.With(zerr.Wrap(runErr, domain.ErrStageExecutionFailed.Error()), "stage", stageName))
			e.runOnFailure(ctx, graph, stage, opts, state)
			if opts.FailFast {
				break
			}
		}
	}

	if errs != nil {
		return zerr.Wrap(errs, domain.ErrWorkflowExecutionFailed.Error())
	}
	return nil
}

// runOnFailure runs a stage's recovery task, if one is named, as a
// single-task sub-run. Its own outcome is recorded in state but never
// chained into the stage's or workflow's failure.
func (e *Engine) runOnFailure(ctx context.Context, graph *domain.Graph, stage domain.Stage, opts RunOptions, state *domain.RuntimeState) {
	recovery := stage.OnFailure.String()
	if recovery == "" {
		return
	}
	if err := e.scheduler.Run(ctx, graph, []string{recovery}, 1, scheduler.RunOptions{
		Force:        opts.Force,
		RuntimeState: state,
	}); err != nil {
		e.logger.Warn(fmt.Sprintf("on_failure task %s for stage %s also failed: %v", recovery, stage.Name, err))
	}
}
