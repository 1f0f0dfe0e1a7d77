package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type fakePruner struct {
	mu      sync.Mutex
	batches [][]string
	calls   int
}

func (p *fakePruner) Prune() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if len(p.batches) == 0 {
		return nil
	}
	b := p.batches[0]
	p.batches = p.batches[1:]
	return b
}

func (p *fakePruner) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

type fakeCloser struct {
	mu     sync.Mutex
	closed []string
}

func (c *fakeCloser) CloseRoom(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = append(c.closed, id)
}

func TestSweep_ClosesExpiredRooms(t *testing.T) {
	p := &fakePruner{batches: [][]string{{"s1", "s2"}}}
	c := &fakeCloser{}
	w := New(p, c, time.Hour, nil)

	assert.Equal(t, 2, w.Sweep())
	assert.Equal(t, []string{"s1", "s2"}, c.closed)
	assert.Equal(t, 0, w.Sweep())
}

func TestSweep_NilCloser(t *testing.T) {
	w := New(&fakePruner{batches: [][]string{{"s1"}}}, nil, time.Hour, nil)
	assert.Equal(t, 1, w.Sweep())
}

func TestStart_StopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	p := &fakePruner{}
	w := New(p, nil, 5*time.Millisecond, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return p.count() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
