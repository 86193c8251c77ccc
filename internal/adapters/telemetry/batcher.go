package telemetry

import (
	"sync"
	"time"

	"go.trai.ch/zerr"
)

// BatchProcessor coalesces small, frequent writes (subprocess stdout/stderr
// chunks) into fewer flush calls, bounded by a byte size and a time
// interval, whichever comes first. It implements io.Writer.
type BatchProcessor struct {
	mu        sync.Mutex
	buf       []byte
	sizeLimit int
	flush     func([]byte)
	timer     *time.Timer
	interval  time.Duration
	closed    bool
}

// NewBatchProcessor starts a processor that flushes buf to onFlush once it
// reaches sizeLimit bytes, and also on a timer every interval. The timer
// is not reset by size-triggered or manual flushes.
func NewBatchProcessor(sizeLimit int, interval time.Duration, onFlush func(data []byte)) *BatchProcessor {
	bp := &BatchProcessor{
		sizeLimit: sizeLimit,
		flush:     onFlush,
		interval:  interval,
	}
	bp.timer = time.AfterFunc(interval, bp.onTimer)
	return bp
}

func (bp *BatchProcessor) onTimer() {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	if bp.closed {
		return
	}
	bp.flushLocked()
	bp.timer.Reset(bp.interval)
}

// Write appends p to the pending batch, flushing immediately if the
// combined size reaches sizeLimit.
func (bp *BatchProcessor) Write(p []byte) (int, error) {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	if bp.closed {
		return 0, zerr.New("batch processor is closed")
	}
	bp.buf = append(bp.buf, p...)
	if len(bp.buf) >= bp.sizeLimit {
		bp.flushLocked()
	}
	return len(p), nil
}

// Flush forces the pending batch out immediately, ignoring both limits.
func (bp *BatchProcessor) Flush() {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	bp.flushLocked()
}

func (bp *BatchProcessor) flushLocked() {
	if len(bp.buf) == 0 {
		return
	}
	data := bp.buf
	bp.buf = nil
	bp.flush(data)
}

// Close flushes any pending data and stops the interval timer. Writes
// after Close return an error.
func (bp *BatchProcessor) Close() error {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	if bp.closed {
		return nil
	}
	bp.closed = true
	bp.timer.Stop()
	bp.flushLocked()
	return nil
}
