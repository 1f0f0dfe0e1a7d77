package store

import (
	"fmt"
	"slices"
	"time"

	"github.com/yangwenmai/bis/internal/model"
)

// Verify at compile time that Store implements all interfaces.
var (
	_ AssetReader = (*Store)(nil)
	_ AssetMover  = (*Store)(nil)
)

// Store holds the pending and history partitions of one review session.
// It is not safe for concurrent use; callers serialise access.
type Store struct {
	pending []model.Asset
	history []model.Asset
}

// New validates seed and returns a Store whose pending partition is a copy
// of seed in order. Status is forced to Pending and timestamps are cleared.
func New(seed []model.Asset) (*Store, error) {
	if err := model.ValidateSeed(seed); err != nil {
		return nil, err
	}
	s := &Store{pending: make([]model.Asset, 0, len(seed))}
	for _, a := range seed {
		a = a.Clone()
		a.Status = model.StatusPending
		a.ActionTimestamp = nil
		s.pending = append(s.pending, a)
	}
	return s, nil
}

// ---------------------------------------------------------------------------
// Reads
// ---------------------------------------------------------------------------

// ListPending returns the pending assets in insertion order.
func (s *Store) ListPending() []model.Asset {
	return cloneAll(s.pending)
}

// ListHistory returns processed assets in the order they were processed.
func (s *Store) ListHistory() []model.Asset {
	return cloneAll(s.history)
}

// All returns pending followed by history, the population analytics runs over.
func (s *Store) All() []model.Asset {
	out := make([]model.Asset, 0, len(s.pending)+len(s.history))
	out = append(out, cloneAll(s.pending)...)
	return append(out, cloneAll(s.history)...)
}

// Counts returns the sizes of both partitions.
func (s *Store) Counts() Counts {
	return Counts{Pending: len(s.pending), Processed: len(s.history)}
}

// Types returns the distinct types of pending assets in first-seen order.
func (s *Store) Types() []string {
	var types []string
	for _, a := range s.pending {
		if !slices.Contains(types, a.Type) {
			types = append(types, a.Type)
		}
	}
	return types
}

// Visible filters the current pending partition. See Visible.
func (s *Store) Visible(minScore int, allowedTypes []string) []model.Asset {
	return Visible(s.pending, minScore, allowedTypes)
}

// ---------------------------------------------------------------------------
// Writes
// ---------------------------------------------------------------------------

// MoveToHistory removes the pending asset with the given id, stamps it with
// status and at, and appends it to history. The move is all-or-nothing: on
// error neither partition changes.
func (s *Store) MoveToHistory(id string, status model.Status, at time.Time) (model.Asset, error) {
	if !status.Terminal() {
		return model.Asset{}, fmt.Errorf("%w: cannot move to status %q", model.ErrInvalidAction, status)
	}
	idx := slices.IndexFunc(s.pending, func(a model.Asset) bool { return a.ID == id })
	if idx < 0 {
		return model.Asset{}, &model.NotFoundError{ID: id}
	}

	a := s.pending[idx]
	a.Status = status
	ts := at
	a.ActionTimestamp = &ts

	s.pending = slices.Delete(s.pending, idx, idx+1)
	s.history = append(s.history, a)
	return a.Clone(), nil
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

func cloneAll(assets []model.Asset) []model.Asset {
	out := make([]model.Asset, len(assets))
	for i, a := range assets {
		out[i] = a.Clone()
	}
	return out
}
