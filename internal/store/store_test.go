package store

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yangwenmai/bis/internal/model"
)

func strPtr(s string) *string { return &s }

func seedAssets() []model.Asset {
	a1 := model.NewAsset("A001", "LinkedIn Post", "Our new feature is a game-changer for the industry! #Tech", 98, 40, "Banned: 'Game-changer'", "Tone: Hype")
	a1.ImageURL = strPtr("https://placehold.co/600x400/EEE/31343C?text=Visual+A")
	a2 := model.NewAsset("A002", "Email Subject", "Meeting you where you are: Flexible support.", 100, 95)
	a3 := model.NewAsset("A003", "Instagram Ad", "Boost your synergy with our new tool.", 60, 50, "Visual: Logo < 10px", "Banned: 'Synergy'")
	a5 := model.NewAsset("A005", "LinkedIn Post", "Revolutionize your workflow with AI.", 100, 65, "Banned: 'Revolutionize'")
	return []model.Asset{a1, a2, a3, a5}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(seedAssets())
	require.NoError(t, err)
	return s
}

func ids(assets []model.Asset) []string {
	out := make([]string, len(assets))
	for i, a := range assets {
		out[i] = a.ID
	}
	return out
}

func TestNew_LoadsSeedInOrder(t *testing.T) {
	seed := seedAssets()
	s, err := New(seed)
	require.NoError(t, err)

	if diff := cmp.Diff(seed, s.ListPending()); diff != "" {
		t.Errorf("ListPending mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, s.ListHistory())
	assert.Equal(t, Counts{Pending: 4, Processed: 0}, s.Counts())
}

func TestNew_NormalisesStatus(t *testing.T) {
	seed := seedAssets()
	ts := time.Now()
	seed[0].Status = model.StatusApproved
	seed[0].ActionTimestamp = &ts

	s, err := New(seed)
	require.NoError(t, err)

	got := s.ListPending()[0]
	assert.Equal(t, model.StatusPending, got.Status)
	assert.Nil(t, got.ActionTimestamp)
}

func TestNew_RejectsInvalidSeed(t *testing.T) {
	seed := seedAssets()
	seed[1].ID = "A001"
	_, err := New(seed)
	require.ErrorIs(t, err, model.ErrInvalidSeed)

	seed = seedAssets()
	seed[2].VisualScore = 120
	_, err = New(seed)
	require.ErrorIs(t, err, model.ErrInvalidSeed)
}

func TestNew_CopiesSeed(t *testing.T) {
	seed := seedAssets()
	s, err := New(seed)
	require.NoError(t, err)

	seed[0].Issues[0] = "mutated"
	seed[0].Content = "mutated"
	got := s.ListPending()[0]
	assert.Equal(t, "Banned: 'Game-changer'", got.Issues[0])
	assert.NotEqual(t, "mutated", got.Content)
}

func TestListPending_ReturnsCopies(t *testing.T) {
	s := newTestStore(t)
	p := s.ListPending()
	p[0].Issues[0] = "mutated"
	p[0].Status = model.StatusApproved

	again := s.ListPending()
	assert.Equal(t, "Banned: 'Game-changer'", again[0].Issues[0])
	assert.Equal(t, model.StatusPending, again[0].Status)
}

func TestMoveToHistory(t *testing.T) {
	s := newTestStore(t)
	at := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

	moved, err := s.MoveToHistory("A002", model.StatusApproved, at)
	require.NoError(t, err)
	assert.Equal(t, "A002", moved.ID)
	assert.Equal(t, model.StatusApproved, moved.Status)
	require.NotNil(t, moved.ActionTimestamp)
	assert.True(t, at.Equal(*moved.ActionTimestamp))

	assert.Equal(t, []string{"A001", "A003", "A005"}, ids(s.ListPending()))
	history := s.ListHistory()
	require.Len(t, history, 1)
	assert.Equal(t, "A002", history[0].ID)
	assert.Equal(t, model.StatusApproved, history[0].Status)
	assert.Equal(t, Counts{Pending: 3, Processed: 1}, s.Counts())
}

func TestMoveToHistory_HistoryIsProcessingOrder(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	for i, step := range []struct {
		id     string
		status model.Status
	}{
		{"A005", model.StatusRewritten},
		{"A001", model.StatusApproved},
		{"A003", model.StatusRewritten},
	} {
		_, err := s.MoveToHistory(step.id, step.status, base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
	}

	history := s.ListHistory()
	assert.Equal(t, []string{"A005", "A001", "A003"}, ids(history))
	assert.Equal(t, model.StatusRewritten, history[0].Status)
	assert.Equal(t, model.StatusApproved, history[1].Status)
	assert.Equal(t, []string{"A002"}, ids(s.ListPending()))
}

func TestMoveToHistory_NotFoundLeavesStoreUnchanged(t *testing.T) {
	s := newTestStore(t)
	at := time.Now()
	_, err := s.MoveToHistory("A001", model.StatusApproved, at)
	require.NoError(t, err)

	beforePending, beforeHistory := s.ListPending(), s.ListHistory()

	tests := []struct {
		name string
		id   string
	}{
		{"unknown id", "A999"},
		{"already processed", "A001"},
		{"empty id", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.MoveToHistory(tt.id, model.StatusRewritten, at)
			require.ErrorIs(t, err, model.ErrNotFound)
			var nf *model.NotFoundError
			require.True(t, errors.As(err, &nf))
			assert.Equal(t, tt.id, nf.ID)

			assert.Empty(t, cmp.Diff(beforePending, s.ListPending()))
			assert.Empty(t, cmp.Diff(beforeHistory, s.ListHistory()))
		})
	}
}

func TestMoveToHistory_RejectsPendingStatus(t *testing.T) {
	s := newTestStore(t)
	_, err := s.MoveToHistory("A001", model.StatusPending, time.Now())
	require.ErrorIs(t, err, model.ErrInvalidAction)
	assert.Len(t, s.ListPending(), 4)
	assert.Empty(t, s.ListHistory())
}

func TestPartitionInvariant(t *testing.T) {
	s := newTestStore(t)
	_, _ = s.MoveToHistory("A003", model.StatusRewritten, time.Now())
	_, _ = s.MoveToHistory("A001", model.StatusApproved, time.Now())

	seen := map[string]int{}
	for _, a := range s.ListPending() {
		seen[a.ID]++
		assert.Equal(t, model.StatusPending, a.Status)
		assert.Nil(t, a.ActionTimestamp)
	}
	for _, a := range s.ListHistory() {
		seen[a.ID]++
		assert.True(t, a.Status.Terminal())
		assert.NotNil(t, a.ActionTimestamp)
	}
	for _, a := range seedAssets() {
		assert.Equal(t, 1, seen[a.ID], "asset %s", a.ID)
	}
	assert.Equal(t, "A002", ids(s.ListPending())[0])
	assert.Len(t, s.All(), 4)
}

func TestTypes(t *testing.T) {
	s := newTestStore(t)
	assert.Equal(t, []string{"LinkedIn Post", "Email Subject", "Instagram Ad"}, s.Types())

	_, err := s.MoveToHistory("A003", model.StatusApproved, time.Now())
	require.NoError(t, err)
	assert.Equal(t, []string{"LinkedIn Post", "Email Subject"}, s.Types())
}
