package telemetry

// The Msg* types are bubbletea messages a Bridge emits as it observes a
// Recorder's vertices; internal/adapters/tui.Model consumes them directly.
// Kept dependency-free of bubbletea itself (a tea.Msg is any value), so
// this package stays usable from a non-interactive recorder too.

// MsgInitTasks announces the full set of task names a run will execute,
// in schedule order, before any of them starts.
type MsgInitTasks struct {
	Tasks []string
}

// MsgTaskStart announces that a task has begun executing under the given
// span/vertex id.
type MsgTaskStart struct {
	Name   string
	SpanID string
}

// MsgTaskLog carries a chunk of a running task's stdout/stderr.
type MsgTaskLog struct {
	SpanID string
	Data   []byte
}

// MsgTaskComplete announces that a task's vertex finished, successfully
// when Err is nil.
type MsgTaskComplete struct {
	SpanID string
	Err    error
}
