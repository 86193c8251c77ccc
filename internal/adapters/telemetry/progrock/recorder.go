// Package progrock provides the Progrock implementation of the telemetry adapter.
package progrock

import (
	"context"

	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
	"go.trai.ch/zr/internal/core/ports"
)

// Recorder implements the ports.Telemetry interface using the apps/progrock library.
type Recorder struct {
	tape *progrock.Tape
	rec  *progrock.Recorder
}

// New creates a new Recorder with a default tape.
func New() ports.Telemetry {
	tape := progrock.NewTape()
	rec := progrock.NewRecorder(tape)
	return &Recorder{
		tape: tape,
		rec:  rec,
	}
}

// Record starts recording a new vertex and embeds it in the returned
// context so a downstream executor can find it via ports.VertexFromContext.
func (r *Recorder) Record(ctx context.Context, name string, _ ...ports.VertexOption) (context.Context, ports.Vertex) {
	d := digest.FromString(name)
	v := &Vertex{vertex: r.rec.Vertex(d, name)}
	return ports.ContextWithVertex(ctx, v), v
}

// Close flushes and closes the recording session.
func (r *Recorder) Close() error {
	return r.tape.Close()
}
