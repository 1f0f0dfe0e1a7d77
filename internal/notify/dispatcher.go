// Package notify delivers review notifications to websocket clients and the
// decision journal. Delivery is best effort: a full queue drops events.
package notify

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/yangwenmai/bis/internal/model"
)

// Sink receives notifications from the Dispatcher.
type Sink interface {
	Deliver(ctx context.Context, n model.Notification) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, n model.Notification) error

// Deliver calls f(ctx, n).
func (f SinkFunc) Deliver(ctx context.Context, n model.Notification) error { return f(ctx, n) }

// Dispatcher queues notifications and fans them out to sinks from a single goroutine.
type Dispatcher struct {
	queue   chan model.Notification
	sinks   []Sink
	logger  *zap.Logger
	dropped atomic.Int64
}

// NewDispatcher creates a Dispatcher with a queue of the given size.
func NewDispatcher(size int, logger *zap.Logger, sinks ...Sink) *Dispatcher {
	if size <= 0 {
		size = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		queue:  make(chan model.Notification, size),
		sinks:  sinks,
		logger: logger,
	}
}

// Notify enqueues n without blocking. It never fails; when the queue is full
// the notification is dropped and counted.
func (d *Dispatcher) Notify(n model.Notification) {
	select {
	case d.queue <- n:
	default:
		d.dropped.Add(1)
		d.logger.Warn("notification dropped, queue full",
			zap.String("session_id", n.SessionID),
			zap.String("asset_id", n.AssetID))
	}
}

// Dropped returns the number of notifications discarded so far.
func (d *Dispatcher) Dropped() int64 {
	return d.dropped.Load()
}

// Run delivers queued notifications until ctx is cancelled, then flushes
// whatever is still queued. It blocks.
func (d *Dispatcher) Run(ctx context.Context) {
	d.logger.Info("dispatcher started", zap.Int("queue_size", cap(d.queue)), zap.Int("sinks", len(d.sinks)))
	for {
		select {
		case <-ctx.Done():
			d.flush(context.WithoutCancel(ctx))
			d.logger.Info("dispatcher stopped", zap.Int64("dropped", d.Dropped()))
			return
		case n := <-d.queue:
			d.deliver(ctx, n)
		}
	}
}

func (d *Dispatcher) flush(ctx context.Context) {
	for {
		select {
		case n := <-d.queue:
			d.deliver(ctx, n)
		default:
			return
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, n model.Notification) {
	for _, s := range d.sinks {
		if err := s.Deliver(ctx, n); err != nil {
			d.logger.Error("notification delivery failed",
				zap.String("session_id", n.SessionID),
				zap.String("asset_id", n.AssetID),
				zap.Error(err))
		}
	}
}
