package domain

// Stage is a named, ordered slice of a Workflow: a set of tasks (or task
// targets) that run together, gated by fail_fast and allow_failure, with
// an optional condition and an on_failure hook naming a recovery task.
type Stage struct {
	Name      InternedString
	Targets   []InternedString
	Parallel  bool
	Condition string
	FailFast  bool
	OnFailure InternedString
	Approval  bool
}

// Workflow sequences stages; later stages may reference the RuntimeState
// left behind by earlier ones via the condition evaluator.
type Workflow struct {
	Name   InternedString
	Stages []Stage
}

// Profile overlays environment and per-task overrides onto a graph at
// selection time (e.g. "ci" vs "local").
type Profile struct {
	Name          string
	Environment   map[string]string
	TaskOverrides map[string]TaskOverride
}

// TaskOverride is the subset of Task fields a profile may replace.
type TaskOverride struct {
	Environment map[string]string
	Timeout     *int64 // milliseconds, nil means unset
	Retry       *RetryPolicy
}

// Template is a parameterized task blueprint expanded at graph-build time
// into one or more concrete tasks.
type Template struct {
	Name   string
	Params []string
	Body   Task
}
