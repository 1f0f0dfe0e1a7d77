package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/yangwenmai/bis/internal/model"
)

// collectingSink records delivered notifications.
type collectingSink struct {
	mu  sync.Mutex
	got []model.Notification
}

func (s *collectingSink) Deliver(_ context.Context, n model.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.got = append(s.got, n)
	return nil
}

func (s *collectingSink) ids() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.got))
	for i, n := range s.got {
		out[i] = n.AssetID
	}
	return out
}

func note(assetID string) model.Notification {
	return model.NewNotification("s1", assetID, model.ActionApprove, time.Now())
}

func TestDispatcher_DeliversInOrder(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	sink := &collectingSink{}
	d := NewDispatcher(8, zap.NewNop(), sink)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.Run(ctx)
		close(done)
	}()

	d.Notify(note("A001"))
	d.Notify(note("A002"))
	d.Notify(note("A003"))

	require.Eventually(t, func() bool { return len(sink.ids()) == 3 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"A001", "A002", "A003"}, sink.ids())

	cancel()
	<-done
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	sink := &collectingSink{}
	d := NewDispatcher(2, nil, sink)

	// Not running: the queue fills up and Notify must not block.
	d.Notify(note("A001"))
	d.Notify(note("A002"))
	d.Notify(note("A003"))
	assert.Equal(t, int64(1), d.Dropped())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Run(ctx) // flushes the queue and returns

	assert.Equal(t, []string{"A001", "A002"}, sink.ids())
}

func TestDispatcher_SinkErrorDoesNotStopDelivery(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	failing := SinkFunc(func(context.Context, model.Notification) error { return errors.New("boom") })
	sink := &collectingSink{}
	d := NewDispatcher(4, zap.NewNop(), failing, sink)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.Run(ctx)
		close(done)
	}()

	d.Notify(note("A001"))
	d.Notify(note("A002"))
	require.Eventually(t, func() bool { return len(sink.ids()) == 2 }, time.Second, 5*time.Millisecond)

	cancel()
	<-done
}

func TestNewDispatcher_MinimumQueue(t *testing.T) {
	d := NewDispatcher(0, nil)
	d.Notify(note("A001"))
	assert.Equal(t, int64(0), d.Dropped())
	d.Notify(note("A002"))
	assert.Equal(t, int64(1), d.Dropped())
}
