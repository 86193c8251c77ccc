// Package scheduler implements the topological task execution scheduler:
// a bounded worker pool draining a ready-queue built from task in-degree,
// gated by conditions, per-task concurrency limits, and cache hits, with
// fail-fast cancellation and retry/timeout handling per task.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"go.trai.ch/zr/internal/core/domain"
	"go.trai.ch/zr/internal/core/ports"
	"go.trai.ch/zerr"
)

// TaskStatus represents the status of a task for external observers
// (logging, telemetry). It is distinct from domain.Outcome, which
// records how a *finished* task ended; TaskStatus also covers the
// in-flight Running state.
type TaskStatus string

const (
	// StatusPending indicates the task is waiting to be executed.
	StatusPending TaskStatus = "Pending"
	// StatusRunning indicates the task is currently executing.
	StatusRunning TaskStatus = "Running"
	// StatusCompleted indicates the task has finished successfully.
	StatusCompleted TaskStatus = "Completed"
	// StatusFailed indicates the task execution failed.
	StatusFailed TaskStatus = "Failed"
)

// RunOptions configures a single scheduler run.
type RunOptions struct {
	// Force bypasses the cache entirely: every task runs regardless of a
	// fingerprint match.
	Force bool
	// FailFast cancels remaining work as soon as a task without
	// AllowFailure finishes with a non-successful outcome.
	FailFast bool
	// RuntimeState accumulates task outcomes for condition expressions in
	// later stages. A workflow engine run passes the same RuntimeState
	// across consecutive per-stage scheduler runs; a bare task/target run
	// may pass nil, which NewRuntimeState-populates lazily.
	RuntimeState *domain.RuntimeState
	// Telemetry records a vertex per task execution when set. Nil disables
	// recording; the executor then falls back to streaming through Logger.
	Telemetry ports.Telemetry
}

// Scheduler manages the execution of tasks in the dependency graph.
type Scheduler struct {
	executor  ports.Executor
	store     ports.CacheStore
	hasher    ports.Hasher
	resolver  ports.InputResolver
	condition ports.ConditionEvaluator
	envs      ports.EnvironmentFactory
	logger    ports.Logger

	mu         sync.RWMutex
	taskStatus map[domain.InternedString]TaskStatus
}

// NewScheduler creates a new Scheduler with the given collaborators.
func NewScheduler(
	executor ports.Executor,
	store ports.CacheStore,
	hasher ports.Hasher,
	resolver ports.InputResolver,
	condition ports.ConditionEvaluator,
	envs ports.EnvironmentFactory,
	logger ports.Logger,
) *Scheduler {
	return &Scheduler{
		executor:   executor,
		store:      store,
		hasher:     hasher,
		resolver:   resolver,
		condition:  condition,
		envs:       envs,
		logger:     logger,
		taskStatus: make(map[domain.InternedString]TaskStatus),
	}
}

func (s *Scheduler) initTaskStatuses(tasks []domain.InternedString) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, task := range tasks {
		s.taskStatus[task] = StatusPending
	}
}

func (s *Scheduler) updateStatus(name domain.InternedString, status TaskStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.taskStatus[name] = status
}

// Status returns the current observed status of a task, for CLI/telemetry reporting.
func (s *Scheduler) Status(name domain.InternedString) TaskStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.taskStatus[name]
}

// Run executes the tasks in the graph with the specified parallelism.
// If targetNames contains "all", all tasks in the graph are executed.
func (s *Scheduler) Run(
	ctx context.Context,
	graph *domain.Graph,
	targetNames []string,
	parallelism int,
	opts RunOptions,
) error {
	if err := graph.Validate(); err != nil {
		return err
	}
	if opts.RuntimeState == nil {
		opts.RuntimeState = domain.NewRuntimeState()
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	state, err := s.newRunState(runCtx, cancel, graph, targetNames, parallelism, opts)
	if err != nil {
		return err
	}

	s.initTaskStatuses(state.allTasks)

	for !state.isDone() {
		state.schedule()

		if state.isDone() {
			break
		}

		if state.ctx.Err() != nil && state.active == 0 {
			return errors.Join(state.errs, state.ctx.Err())
		}

		select {
		case res := <-state.resultsCh:
			state.handleResult(&res)
		case <-state.ctx.Done():
		}
	}

	if ctx.Err() != nil {
		state.errs = errors.Join(state.errs, ctx.Err())
	}

	return state.errs
}

type result struct {
	task        domain.InternedString
	err         error
	outcome     domain.Outcome
	fingerprint string
	taskOutputs []string
	workingDir  string
	duration    time.Duration
	attempts    int
}

type schedulerRunState struct {
	graph       *domain.Graph
	inDegree    map[domain.InternedString]int
	tasks       map[domain.InternedString]domain.Task
	ready       []domain.InternedString
	active      int
	resultsCh   chan result
	errs        error
	ctx         context.Context
	cancel      context.CancelFunc
	parallelism int
	s           *Scheduler
	allTasks    []domain.InternedString
	opts        RunOptions
	nameActive  map[string]int
	cancelOnce  sync.Once
}

func (s *Scheduler) newRunState(
	ctx context.Context,
	cancel context.CancelFunc,
	graph *domain.Graph,
	targetNames []string,
	parallelism int,
	opts RunOptions,
) (*schedulerRunState, error) {
	tasksToRun, allTasks, err := s.resolveTasksToRun(graph, targetNames)
	if err != nil {
		return nil, err
	}

	taskCount := len(tasksToRun)
	inDegree := make(map[domain.InternedString]int, taskCount)
	tasks := make(map[domain.InternedString]domain.Task, taskCount)

	for name := range tasksToRun {
		task, _ := graph.GetTask(name)
		tasks[name] = task

		degree := 0
		for _, dep := range graph.Predecessors(name) {
			if tasksToRun[dep] {
				degree++
			}
		}
		inDegree[name] = degree
	}

	var ready []domain.InternedString
	for name, degree := range inDegree {
		if degree == 0 {
			ready = append(ready, name)
		}
	}
	sortInterned(ready)

	if parallelism <= 0 {
		parallelism = 1
	}

	return &schedulerRunState{
		graph:       graph,
		inDegree:    inDegree,
		tasks:       tasks,
		ready:       ready,
		resultsCh:   make(chan result, parallelism),
		ctx:         ctx,
		cancel:      cancel,
		parallelism: parallelism,
		s:           s,
		allTasks:    allTasks,
		opts:        opts,
		nameActive:  make(map[string]int),
	}, nil
}

func sortInterned(names []domain.InternedString) {
	slices.SortFunc(names, func(a, b domain.InternedString) int {
		return strings.Compare(a.String(), b.String())
	})
}

func (s *Scheduler) resolveTasksToRun(
	graph *domain.Graph,
	targetNames []string,
) (map[domain.InternedString]bool, []domain.InternedString, error) {
	if slices.Contains(targetNames, "all") {
		return s.resolveAllTasks(graph)
	}
	return s.resolveTargetTasks(graph, targetNames)
}

func (s *Scheduler) resolveAllTasks(
	graph *domain.Graph,
) (map[domain.InternedString]bool, []domain.InternedString, error) {
	tasksToRun := make(map[domain.InternedString]bool)
	allTasks := make([]domain.InternedString, 0, graph.TaskCount())
	for task := range graph.Walk() {
		tasksToRun[task.Name] = true
		allTasks = append(allTasks, task.Name)
	}
	return tasksToRun, allTasks, nil
}

func (s *Scheduler) resolveTargetTasks(
	graph *domain.Graph,
	targetNames []string,
) (map[domain.InternedString]bool, []domain.InternedString, error) {
	targets := make([]domain.InternedString, 0, len(targetNames))
	for _, nameStr := range targetNames {
		name := domain.NewInternedString(nameStr)
		if _, ok := graph.GetTask(name); !ok {
			return nil, nil, zerr.With(domain.ErrTaskNotFound, "task", name.String())
		}
		targets = append(targets, name)
	}
	return s.collectDependencies(graph, targets)
}

func (s *Scheduler) collectDependencies(
	graph *domain.Graph,
	targets []domain.InternedString,
) (map[domain.InternedString]bool, []domain.InternedString, error) {
	tasksToRun := make(map[domain.InternedString]bool)
	var allTasks []domain.InternedString

	queue := make([]domain.InternedString, len(targets))
	copy(queue, targets)

	visited := make(map[domain.InternedString]bool)
	for _, t := range targets {
		visited[t] = true
	}

	for len(queue) > 0 {
		currentName := queue[0]
		queue = queue[1:]

		if !tasksToRun[currentName] {
			tasksToRun[currentName] = true
			allTasks = append(allTasks, currentName)
		}

		for _, dep := range graph.Predecessors(currentName) {
			if !visited[dep] {
				visited[dep] = true
				queue = append(queue, dep)
			}
		}
	}

	return tasksToRun, allTasks, nil
}

func (state *schedulerRunState) isDone() bool {
	return state.active == 0 && len(state.ready) == 0
}

// schedule dispatches every ready task that isn't gated by concurrency or
// cancellation, leaving gated tasks in the ready queue for the next call.
func (state *schedulerRunState) schedule() {
	if state.ctx.Err() != nil {
		return
	}

	var stillReady []domain.InternedString
	for _, taskName := range state.ready {
		if state.active >= state.parallelism {
			stillReady = append(stillReady, taskName)
			continue
		}

		t := state.tasks[taskName]

		if t.MaxConcurrent > 0 && state.nameActive[t.Name.String()] >= t.MaxConcurrent {
			stillReady = append(stillReady, taskName)
			continue
		}

		ok, err := state.evalCondition(&t)
		if err != nil {
			state.active++
			state.resultsCh <- result{task: t.Name, err: err, outcome: domain.OutcomeFailure}
			continue
		}
		if !ok {
			state.active++
			state.resultsCh <- result{task: t.Name, outcome: domain.OutcomeSkipped}
			continue
		}

		if t.MaxConcurrent > 0 {
			state.nameActive[t.Name.String()]++
		}
		state.active++
		state.s.updateStatus(taskName, StatusRunning)
		go state.executeTask(&t)
	}
	state.ready = stillReady
}

func (state *schedulerRunState) evalCondition(t *domain.Task) (bool, error) {
	if t.Condition == "" {
		return true, nil
	}
	ok, err := state.s.condition.Evaluate(t.Condition, t.Environment, state.opts.RuntimeState)
	if err != nil {
		// Conditions fail open: one that cannot be parsed or evaluated runs
		// the task, with a warning.
		state.s.logger.Warn(fmt.Sprintf("task %s: condition failed open: %v", t.Name.String(), err))
		return true, nil
	}
	return ok, nil
}

func (state *schedulerRunState) executeTask(t *domain.Task) {
	start := time.Now()

	taskCtx := state.ctx
	var vertex ports.Vertex
	if state.opts.Telemetry != nil {
		taskCtx, vertex = state.opts.Telemetry.Record(state.ctx, t.Name.String())
	}

	if len(t.Inputs) > 0 {
		if _, err := state.s.resolveInputs(t, state.getTaskRoot(t)); err != nil {
			if vertex != nil {
				vertex.Complete(err)
			}
			state.resultsCh <- result{task: t.Name, err: err, outcome: domain.OutcomeFailure}
			return
		}
	}

	if !state.opts.Force && t.Cache {
		hit, fingerprint, err := state.s.checkTaskCache(t, state.getTaskRoot(t))
		if err != nil {
			if vertex != nil {
				vertex.Complete(err)
			}
			state.resultsCh <- result{task: t.Name, err: err, outcome: domain.OutcomeFailure}
			return
		}
		if hit {
			if vertex != nil {
				vertex.Cached()
			}
			state.resultsCh <- result{task: t.Name, outcome: domain.OutcomeCachedHit, fingerprint: fingerprint, duration: time.Since(start)}
			return
		}
	}

	if err := state.validateAndCleanOutputs(t); err != nil {
		if vertex != nil {
			vertex.Complete(err)
		}
		state.resultsCh <- result{task: t.Name, err: err, outcome: domain.OutcomeFailure}
		return
	}

	outputs := make([]string, len(t.Outputs))
	for i, out := range t.Outputs {
		outputs[i] = out.String()
	}

	outcome, attempts, err := state.runWithRetry(taskCtx, t)
	if vertex != nil {
		vertex.Complete(err)
	}

	fingerprint := ""
	if t.Cache && outcome == domain.OutcomeSuccess {
		if fp, ferr := state.s.hasher.Fingerprint(t, t.Environment, state.getTaskRoot(t)); ferr == nil {
			fingerprint = fp
		}
	}

	state.resultsCh <- result{
		task:        t.Name,
		err:         err,
		outcome:     outcome,
		fingerprint: fingerprint,
		taskOutputs: outputs,
		workingDir:  state.getTaskRoot(t),
		duration:    time.Since(start),
		attempts:    attempts,
	}
}

// runWithRetry executes the task's command, retrying according to its
// RetryPolicy, and arming the per-attempt timeout when set.
func (state *schedulerRunState) runWithRetry(ctx context.Context, t *domain.Task) (domain.Outcome, int, error) {
	maxAttempts := t.Retry.Max + 1
	var lastErr error
	var lastTimedOut bool

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			delay := t.Retry.NextDelay(attempt - 1)
			if delay > 0 {
				select {
				case <-time.After(delay):
				case <-ctx.Done():
					return domain.OutcomeCancelled, attempt, ctx.Err()
				}
			}
		}

		if ctx.Err() != nil {
			return domain.OutcomeCancelled, attempt, ctx.Err()
		}

		attemptCtx := ctx
		var cancelAttempt context.CancelFunc
		if t.Timeout > 0 {
			attemptCtx, cancelAttempt = context.WithTimeout(ctx, t.Timeout)
		}

		env, envErr := state.s.resolveToolchainEnv(attemptCtx, t)
		var runErr error
		if envErr != nil {
			runErr = envErr
		} else {
			runErr = state.s.executor.Execute(attemptCtx, t, env)
		}

		timedOut := t.Timeout > 0 && attemptCtx.Err() == context.DeadlineExceeded
		if cancelAttempt != nil {
			cancelAttempt()
		}

		if runErr == nil {
			return domain.OutcomeSuccess, attempt + 1, nil
		}

		lastErr = runErr
		lastTimedOut = timedOut

		if ctx.Err() != nil && !timedOut {
			return domain.OutcomeCancelled, attempt + 1, ctx.Err()
		}
	}

	if lastTimedOut {
		return domain.OutcomeTimedOut, maxAttempts, lastErr
	}
	return domain.OutcomeFailure, maxAttempts, lastErr
}

// resolveInputs expands and validates a task's declared input globs exist
// before the scheduler commits to fingerprinting or running it.
func (s *Scheduler) resolveInputs(t *domain.Task, root string) ([]string, error) {
	inputs := make([]string, len(t.Inputs))
	for i, in := range t.Inputs {
		inputs[i] = in.String()
	}
	resolved, err := s.resolver.ResolveInputs(inputs, root)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrInputResolutionFailed.Error()), "task", t.Name.String())
	}
	return resolved, nil
}

func (s *Scheduler) resolveToolchainEnv(ctx context.Context, t *domain.Task) ([]string, error) {
	if len(t.Toolchain) == 0 || s.envs == nil {
		return nil, nil
	}
	tools := make(map[string]string, len(t.Toolchain))
	for _, req := range t.Toolchain {
		tools[req.Name] = req.Name + "@" + req.Version
	}
	return s.envs.GetEnvironment(ctx, tools)
}

func (state *schedulerRunState) getTaskRoot(t *domain.Task) string {
	workingDir := t.WorkingDir.String()
	if workingDir == "" {
		return state.graph.Root()
	}
	return workingDir
}

func (state *schedulerRunState) validateAndCleanOutputs(t *domain.Task) error {
	rootAbs, err := filepath.Abs(state.getTaskRoot(t))
	if err != nil {
		return zerr.Wrap(err, domain.ErrFailedToGetRoot.Error())
	}

	for _, out := range t.Outputs {
		outPath := out.String()
		outAbs, err := filepath.Abs(outPath)
		if err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrFailedToGetOutputPath.Error()), "file", outPath)
		}

		rel, err := filepath.Rel(rootAbs, outAbs)
		if err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrFailedToResolveRelativePath.Error()), "file", outPath)
		}

		if strings.HasPrefix(rel, "..") {
			return zerr.With(domain.ErrOutputPathOutsideRoot, "file", outPath)
		}

		if err := os.RemoveAll(outAbs); err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrFailedToCleanOutput.Error()), "file", outPath)
		}
	}

	return nil
}

func (state *schedulerRunState) handleResult(res *result) {
	state.active--
	t := state.tasks[res.task]
	if t.MaxConcurrent > 0 && state.nameActive[t.Name.String()] > 0 {
		state.nameActive[t.Name.String()]--
	}

	state.opts.RuntimeState.RecordTask(res.task.String(), domain.TaskRuntime{
		Success:  res.outcome.Successful(),
		Duration: res.duration,
		Outcome:  res.outcome,
	})

	switch {
	case res.outcome == domain.OutcomeFailure || res.outcome == domain.OutcomeTimedOut:
		enhancedErr := zerr.With(zerr.Wrap(res.err, domain.ErrTaskExecutionFailed.Error()), "task", res.task.String())
		state.s.updateStatus(res.task, StatusFailed)
		if !t.AllowFailure {
			state.errs = errors.Join(state.errs, enhancedErr)
			if state.opts.FailFast {
				state.cancelOnce.Do(state.cancel)
			}
		} else {
			state.s.logger.Warn(fmt.Sprintf("task %s failed but allow_failure is set: %v", res.task, enhancedErr))
		}
	case res.outcome == domain.OutcomeCancelled:
		state.s.updateStatus(res.task, StatusFailed)
		if !t.AllowFailure {
			state.errs = errors.Join(state.errs, zerr.With(res.err, "task", res.task.String()))
		}
	default:
		state.handleSuccess(res)
	}

	for _, dep := range state.graph.Dependents(res.task) {
		if _, ok := state.tasks[dep]; ok {
			state.inDegree[dep]--
			if state.inDegree[dep] == 0 {
				state.ready = append(state.ready, dep)
			}
		}
	}
}

func (state *schedulerRunState) handleSuccess(res *result) {
	state.s.updateStatus(res.task, StatusCompleted)

	switch res.outcome {
	case domain.OutcomeCachedHit:
		state.s.logger.Info(fmt.Sprintf("skipping %s (cached)", res.task))
	case domain.OutcomeSkipped:
		state.s.logger.Info(fmt.Sprintf("skipping %s (condition false)", res.task))
	default:
		t := state.tasks[res.task]
		if t.Cache && res.fingerprint != "" {
			outputHash := state.computeOutputHash(res)
			err := state.s.store.Put(domain.CacheEntry{
				TaskName:    res.task.String(),
				Fingerprint: res.fingerprint,
				OutputHash:  outputHash,
				Timestamp:   time.Now(),
			})
			if err != nil {
				state.s.logger.Error(zerr.With(zerr.Wrap(err, domain.ErrBuildInfoUpdateFailed.Error()), "task", res.task.String()))
			}
		}
	}
}

func (state *schedulerRunState) computeOutputHash(res *result) string {
	if len(res.taskOutputs) == 0 {
		return ""
	}
	outputHash, err := state.s.hasher.ComputeOutputHash(res.taskOutputs, res.workingDir)
	if err != nil {
		state.s.logger.Error(zerr.With(zerr.Wrap(err, domain.ErrOutputHashComputationFailed.Error()), "task", res.task.String()))
		return ""
	}
	return outputHash
}

// checkTaskCache reports whether task can be skipped as a cache hit.
func (s *Scheduler) checkTaskCache(task *domain.Task, root string) (hit bool, fingerprint string, err error) {
	fingerprint, err = s.hasher.Fingerprint(task, task.Environment, root)
	if err != nil {
		return false, "", zerr.Wrap(err, domain.ErrInputHashComputationFailed.Error())
	}

	entry, err := s.store.Get(task.Name.String())
	if err != nil {
		return false, fingerprint, zerr.Wrap(err, domain.ErrStoreReadFailed.Error())
	}

	if entry == nil || entry.Fingerprint != fingerprint {
		return false, fingerprint, nil
	}

	if !s.verifyOutputsMatch(task, entry, root) {
		return false, fingerprint, nil
	}

	return true, fingerprint, nil
}

func (s *Scheduler) verifyOutputsMatch(task *domain.Task, entry *domain.CacheEntry, root string) bool {
	outputs := make([]string, len(task.Outputs))
	for i, out := range task.Outputs {
		outputs[i] = out.String()
	}
	if len(outputs) == 0 {
		return true
	}

	outputHash, err := s.hasher.ComputeOutputHash(outputs, root)
	if err != nil {
		return false
	}
	return entry.OutputHash == outputHash
}
