package tui

import (
	"context"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"go.trai.ch/zr/internal/adapters/telemetry"
	"go.trai.ch/zr/internal/core/domain"
	"go.trai.ch/zr/internal/core/ports"
)

const (
	logBatchSize     = 512
	logBatchInterval = 80 * time.Millisecond
)

// Bridge wraps a ports.Telemetry recorder and forwards every vertex it
// opens as bubbletea messages a running Model consumes, so a live TUI and
// a recorded trace (progrock) observe the same run simultaneously.
type Bridge struct {
	inner   ports.Telemetry
	program *tea.Program
}

// NewBridge returns a Telemetry that drives program alongside inner.
func NewBridge(inner ports.Telemetry, program *tea.Program) *Bridge {
	return &Bridge{inner: inner, program: program}
}

// Record opens a vertex on the wrapped recorder and announces its start
// to the TUI. The task name doubles as the span id: task names are
// unique within a single scheduler run.
func (b *Bridge) Record(ctx context.Context, name string, opts ...ports.VertexOption) (context.Context, ports.Vertex) {
	ctx, v := b.inner.Record(ctx, name, opts...)
	b.program.Send(telemetry.MsgTaskStart{Name: name, SpanID: name})
	bv := &bridgeVertex{inner: v, spanID: name, program: b.program}
	bv.stdout = telemetry.NewBatchProcessor(logBatchSize, logBatchInterval, bv.sendLog)
	bv.stderr = telemetry.NewBatchProcessor(logBatchSize, logBatchInterval, bv.sendLog)
	return ctx, bv
}

// Close closes the wrapped recorder. The TUI program is stopped
// separately by its own caller once the run finishes.
func (b *Bridge) Close() error {
	return b.inner.Close()
}

// InitTasks announces the full schedule to the TUI before any task starts.
func (b *Bridge) InitTasks(names []string) {
	b.program.Send(telemetry.MsgInitTasks{Tasks: names})
}

// Launch starts a bubbletea program rendering Model and returns a
// ports.Telemetry that forwards task lifecycle events to it, plus a stop
// function the caller must invoke once the run finishes. stop quits the
// program and blocks until its event loop has exited.
func Launch(inner ports.Telemetry, taskNames []string) (ports.Telemetry, func() error) {
	m := NewModel()
	program := tea.NewProgram(&m)
	bridge := NewBridge(inner, program)

	exited := make(chan error, 1)
	go func() {
		_, err := program.Run()
		exited <- err
	}()
	bridge.InitTasks(taskNames)

	stop := func() error {
		program.Quit()
		return <-exited
	}
	return bridge, stop
}

type bridgeVertex struct {
	inner   ports.Vertex
	spanID  string
	program *tea.Program
	stdout  *telemetry.BatchProcessor
	stderr  *telemetry.BatchProcessor
}

func (v *bridgeVertex) sendLog(data []byte) {
	v.program.Send(telemetry.MsgTaskLog{SpanID: v.spanID, Data: data})
}

func (v *bridgeVertex) Stdout() io.Writer { return v.stdout }
func (v *bridgeVertex) Stderr() io.Writer { return v.stderr }

func (v *bridgeVertex) Log(level domain.LogLevel, msg string) {
	v.inner.Log(level, msg)
}

func (v *bridgeVertex) Complete(err error) {
	_ = v.stdout.Close()
	_ = v.stderr.Close()
	v.program.Send(telemetry.MsgTaskComplete{SpanID: v.spanID, Err: err})
	v.inner.Complete(err)
}

func (v *bridgeVertex) Cached() {
	v.inner.Cached()
}
