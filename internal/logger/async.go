package logger

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Closer allows flushing and stopping the async handler.
type Closer interface {
	Close()
}

// nopCloser is a no-op Closer for synchronous mode.
type nopCloser struct{}

func (nopCloser) Close() {}

// entry pairs a record with the handler it was logged through, so records
// from WithAttrs/WithGroup-derived handlers keep their attributes.
type entry struct {
	rec  slog.Record
	sink slog.Handler
}

// AsyncHandler decouples log emission from the hot path: records go through
// a bounded queue to background workers and are dropped, not blocked on,
// under backpressure.
type AsyncHandler struct {
	sink    slog.Handler
	queue   chan entry
	workers *sync.WaitGroup
	dropped *atomic.Int64
}

// NewAsyncHandler creates an AsyncHandler with the given queue capacity and worker count.
func NewAsyncHandler(inner slog.Handler, chanSize, workers int) *AsyncHandler {
	h := &AsyncHandler{
		sink:    inner,
		queue:   make(chan entry, chanSize),
		workers: &sync.WaitGroup{},
		dropped: &atomic.Int64{},
	}
	for range workers {
		h.workers.Add(1)
		go h.run()
	}
	return h
}

func (h *AsyncHandler) run() {
	defer h.workers.Done()
	for e := range h.queue {
		_ = e.sink.Handle(context.Background(), e.rec)
	}
}

// Enabled delegates to the wrapped handler.
func (h *AsyncHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.sink.Enabled(ctx, level)
}

// Handle enqueues the record, dropping it when the queue is full.
func (h *AsyncHandler) Handle(_ context.Context, rec slog.Record) error { //nolint:gocritic // slog.Handler interface requires value receiver
	select {
	case h.queue <- entry{rec: rec, sink: h.sink}:
	default:
		h.dropped.Add(1)
	}
	return nil
}

// WithAttrs derives a handler over the same queue and workers.
func (h *AsyncHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &AsyncHandler{
		sink:    h.sink.WithAttrs(attrs),
		queue:   h.queue,
		workers: h.workers,
		dropped: h.dropped,
	}
}

// WithGroup derives a handler over the same queue and workers.
func (h *AsyncHandler) WithGroup(name string) slog.Handler {
	return &AsyncHandler{
		sink:    h.sink.WithGroup(name),
		queue:   h.queue,
		workers: h.workers,
		dropped: h.dropped,
	}
}

// DroppedCount returns how many records were discarded under backpressure.
func (h *AsyncHandler) DroppedCount() int64 {
	return h.dropped.Load()
}

// Close stops accepting records and waits for the workers to drain the queue.
func (h *AsyncHandler) Close() {
	close(h.queue)
	h.workers.Wait()
}
