package notify

import (
	"context"

	"github.com/yangwenmai/bis/internal/model"
	"github.com/yangwenmai/bis/internal/store"
)

// JournalSink records every notification as a decision.
type JournalSink struct {
	Recorder store.DecisionRecorder
}

// Deliver implements Sink.
func (s *JournalSink) Deliver(ctx context.Context, n model.Notification) error {
	return s.Recorder.Record(ctx, store.NewDecision(n))
}
