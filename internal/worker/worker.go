// Package worker runs background maintenance for the review server.
package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Pruner expires idle sessions and returns their ids.
type Pruner interface {
	Prune() []string
}

// RoomCloser disconnects the listeners of an expired session.
type RoomCloser interface {
	CloseRoom(sessionID string)
}

// Sweeper periodically expires idle review sessions.
type Sweeper struct {
	pruner   Pruner
	closer   RoomCloser
	interval time.Duration
	logger   *zap.Logger
}

// New creates a new Sweeper. closer may be nil.
func New(pruner Pruner, closer RoomCloser, interval time.Duration, logger *zap.Logger) *Sweeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sweeper{pruner: pruner, closer: closer, interval: interval, logger: logger}
}

// Start begins the sweep loop. It blocks until ctx is cancelled.
func (w *Sweeper) Start(ctx context.Context) {
	w.logger.Info("session sweeper started", zap.Duration("interval", w.interval))
	for {
		w.sleep(ctx)
		select {
		case <-ctx.Done():
			w.logger.Info("session sweeper stopped")
			return
		default:
		}
		w.Sweep()
	}
}

// Sweep runs one expiry pass and returns the number of sessions removed.
func (w *Sweeper) Sweep() int {
	expired := w.pruner.Prune()
	for _, id := range expired {
		if w.closer != nil {
			w.closer.CloseRoom(id)
		}
		w.logger.Debug("session expired", zap.String("session_id", id))
	}
	return len(expired)
}

func (w *Sweeper) sleep(ctx context.Context) {
	t := time.NewTimer(w.interval)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
