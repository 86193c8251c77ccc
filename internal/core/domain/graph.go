// Package domain contains the core domain models and business logic for the task dependency graph.
package domain

import (
	"iter"
	"slices"
	"time"

	"go.trai.ch/zerr"
)

func timeoutFromMillis(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

// Graph represents a dependency graph of tasks.
type Graph struct {
	tasks          map[InternedString]Task
	executionOrder []InternedString
	dependents     map[InternedString][]InternedString
	root           string
	workflows      map[string]Workflow
	profiles       map[string]Profile
}

// NewGraph creates a new empty Graph.
func NewGraph() *Graph {
	return &Graph{
		tasks:     make(map[InternedString]Task),
		workflows: make(map[string]Workflow),
		profiles:  make(map[string]Profile),
	}
}

// AddWorkflow registers a workflow by name.
func (g *Graph) AddWorkflow(w Workflow) {
	if g.workflows == nil {
		g.workflows = make(map[string]Workflow)
	}
	g.workflows[w.Name.String()] = w
}

// GetWorkflow retrieves a workflow by name.
func (g *Graph) GetWorkflow(name string) (Workflow, bool) {
	w, ok := g.workflows[name]
	return w, ok
}

// Workflows returns all registered workflows.
func (g *Graph) Workflows() map[string]Workflow {
	return g.workflows
}

// AddProfile registers a profile by name.
func (g *Graph) AddProfile(p Profile) {
	if g.profiles == nil {
		g.profiles = make(map[string]Profile)
	}
	g.profiles[p.Name] = p
}

// GetProfile retrieves a profile by name.
func (g *Graph) GetProfile(name string) (Profile, bool) {
	p, ok := g.profiles[name]
	return p, ok
}

// ApplyProfile overlays a profile's environment and per-task overrides
// onto the graph's tasks, per the precedence order: task env, then
// profile-global env, then profile-task-override env (later wins).
func (g *Graph) ApplyProfile(name string) error {
	profile, ok := g.profiles[name]
	if !ok {
		return zerr.With(ErrUnknownProfile, "profile", name)
	}

	for taskName, task := range g.tasks {
		merged := mergeEnv(task.Environment, profile.Environment)

		if override, ok := profile.TaskOverrides[taskName.String()]; ok {
			merged = mergeEnv(merged, override.Environment)
			if override.Timeout != nil {
				task.Timeout = timeoutFromMillis(*override.Timeout)
			}
			if override.Retry != nil {
				task.Retry = *override.Retry
			}
		}

		task.Environment = merged
		g.tasks[taskName] = task
	}

	return nil
}

func mergeEnv(base, overlay map[string]string) map[string]string {
	merged := make(map[string]string, len(base)+len(overlay))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range overlay {
		merged[k] = v
	}
	return merged
}

// AddTask adds a task to the graph.
// It returns an error if a task with the same name already exists.
func (g *Graph) AddTask(t *Task) error {
	if _, exists := g.tasks[t.Name]; exists {
		return zerr.With(ErrTaskAlreadyExists, "task_name", t.Name.String())
	}
	g.tasks[t.Name] = *t
	return nil
}

// Validate checks for cycles in the graph using a topological sort.
// It populates the executionOrder slice and dependents map if successful.
func (g *Graph) Validate() error {
	g.executionOrder = make([]InternedString, 0, len(g.tasks))
	chainEdges := g.serialChainEdges()
	g.dependents = g.buildDependentsMapWith(chainEdges)
	visited := make(map[InternedString]int) // 0: unvisited, 1: visiting, 2: visited
	var path []InternedString

	var visit func(u InternedString) error
	visit = func(u InternedString) error {
		visited[u] = 1
		path = append(path, u)

		if _, exists := g.tasks[u]; !exists {
			return zerr.With(ErrMissingDependency, "dependency", u.String())
		}

		for _, dep := range g.predecessorsOf(u, chainEdges) {
			if visited[dep] == 1 {
				return g.buildCycleError(path, dep)
			}
			if visited[dep] == 0 {
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		visited[u] = 2
		path = path[:len(path)-1]
		g.executionOrder = append(g.executionOrder, u)
		return nil
	}

	// We need to iterate over all tasks to ensure we cover disconnected components.
	// To ensure deterministic order for disconnected components, we sort the keys alphabetically.
	sortedNames := g.getSortedTaskNames()

	for _, name := range sortedNames {
		if visited[name] == 0 {
			if err := visit(name); err != nil {
				return err
			}
		}
	}

	return nil
}

// serialChainEdges returns, for every task that is a non-first element of
// some task's DepsSerial array, the immediate predecessor within that
// chain: DepsSerial[i-1] -> DepsSerial[i]. This threads deps_serial's
// array-order guarantee (invariant 2: deps_serial[i] completes before
// deps_serial[i+1] starts) as real graph edges between the chain's own
// elements, rather than collapsing the whole array into parallel
// predecessors of the declaring task.
func (g *Graph) serialChainEdges() map[InternedString][]InternedString {
	edges := make(map[InternedString][]InternedString)
	for _, task := range g.tasks {
		for i := 1; i < len(task.DepsSerial); i++ {
			cur := task.DepsSerial[i]
			prev := task.DepsSerial[i-1]
			edges[cur] = append(edges[cur], prev)
		}
	}
	return edges
}

// predecessorsOf returns every task that must complete before name can
// start: name's own directPredecessors plus any synthetic chainEdges
// induced by another task's deps_serial declaration.
func (g *Graph) predecessorsOf(name InternedString, chainEdges map[InternedString][]InternedString) []InternedString {
	direct := g.tasks[name].directPredecessors()
	extra := chainEdges[name]
	if len(extra) == 0 {
		return direct
	}
	out := make([]InternedString, 0, len(direct)+len(extra))
	out = append(out, direct...)
	out = append(out, extra...)
	return out
}

// Predecessors returns every task that must complete before name can start,
// combining its declared Dependencies/DepsSerial with the synthetic
// array-order edges induced by any task's deps_serial chain.
func (g *Graph) Predecessors(name InternedString) []InternedString {
	return g.predecessorsOf(name, g.serialChainEdges())
}

// buildDependentsMap creates a reverse adjacency list (dependents map).
func (g *Graph) buildDependentsMap() map[InternedString][]InternedString {
	return g.buildDependentsMapWith(g.serialChainEdges())
}

func (g *Graph) buildDependentsMapWith(chainEdges map[InternedString][]InternedString) map[InternedString][]InternedString {
	dependents := make(map[InternedString][]InternedString)
	for taskName := range g.tasks {
		for _, dep := range g.predecessorsOf(taskName, chainEdges) {
			dependents[dep] = append(dependents[dep], taskName)
		}
	}
	return dependents
}

// getSortedTaskNames returns all task names sorted alphabetically.
func (g *Graph) getSortedTaskNames() []InternedString {
	sortedNames := make([]InternedString, 0, len(g.tasks))
	for name := range g.tasks {
		sortedNames = append(sortedNames, name)
	}
	slices.SortFunc(sortedNames, func(a, b InternedString) int {
		if a.String() < b.String() {
			return -1
		}
		if a.String() > b.String() {
			return 1
		}
		return 0
	})
	return sortedNames
}

// buildCycleError constructs an error with cycle path metadata.
func (g *Graph) buildCycleError(path []InternedString, dep InternedString) error {
	cyclePath := ""
	startIdx := -1
	for i, node := range path {
		if node == dep {
			startIdx = i
			break
		}
	}
	for i := startIdx; i < len(path); i++ {
		cyclePath += path[i].String() + " -> "
	}
	cyclePath += dep.String()
	return zerr.With(ErrCycleDetected, "cycle", cyclePath)
}

// Walk returns an iterator that yields tasks in execution order.
// It assumes Validate() has been called and returned nil.
func (g *Graph) Walk() iter.Seq[Task] {
	return func(yield func(Task) bool) {
		for _, name := range g.executionOrder {
			if !yield(g.tasks[name]) {
				return
			}
		}
	}
}

// Dependents returns the list of tasks that depend on the given task.
// Returns an empty slice if no tasks depend on it.
func (g *Graph) Dependents(task InternedString) []InternedString {
	return g.dependents[task]
}

// TaskCount returns the total number of tasks in the graph.
func (g *Graph) TaskCount() int {
	return len(g.tasks)
}

// GetTask retrieves a task by its name.
func (g *Graph) GetTask(name InternedString) (Task, bool) {
	t, ok := g.tasks[name]
	return t, ok
}

// Root returns the root directory of the build.
func (g *Graph) Root() string {
	return g.root
}

// SetRoot sets the root directory of the build.
func (g *Graph) SetRoot(path string) {
	g.root = path
}
