// Package session gives every reviewer session its own isolated asset store.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yangwenmai/bis/internal/model"
	"github.com/yangwenmai/bis/internal/review"
	"github.com/yangwenmai/bis/internal/store"
)

// ErrNotFound is returned for unknown or expired session ids.
var ErrNotFound = errors.New("session not found")

// Session is one reviewer's store plus its action handler. All methods are
// serialised so actions within a session never interleave.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu       sync.Mutex
	store    *store.Store
	handler  *review.Handler
	lastSeen time.Time
	now      func() time.Time
}

// Snapshot is a consistent view of a session's partitions.
type Snapshot struct {
	Pending []model.Asset
	History []model.Asset
	Counts  store.Counts
	Types   []string
}

func (s *Session) touch() {
	s.lastSeen = s.now()
}

// Touch marks the session as in use without reading it.
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
}

// Pending returns the pending assets.
func (s *Session) Pending() []model.Asset {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.store.ListPending()
}

// History returns the processed assets.
func (s *Session) History() []model.Asset {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.store.ListHistory()
}

// All returns pending followed by history.
func (s *Session) All() []model.Asset {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.store.All()
}

// Visible returns the pending assets passing the score and type filter.
// A nil allowedTypes means every type currently pending.
func (s *Session) Visible(minScore int, allowedTypes []string) []model.Asset {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if allowedTypes == nil {
		allowedTypes = s.store.Types()
	}
	return s.store.Visible(minScore, allowedTypes)
}

// Snapshot returns both partitions, counts and pending types at one instant.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return Snapshot{
		Pending: s.store.ListPending(),
		History: s.store.ListHistory(),
		Counts:  s.store.Counts(),
		Types:   s.store.Types(),
	}
}

// Act applies action to the pending asset id.
func (s *Session) Act(id string, action model.Action) (review.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.handler.Apply(id, action)
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Registry creates and tracks sessions. Sessions share nothing but the
// immutable seed.
type Registry struct {
	mu        sync.RWMutex
	sessions  map[string]*Session
	seed      []model.Asset
	notifier  review.Notifier
	ttl       time.Duration
	keepAlive func(id string) bool
	now       func() time.Time
	logger    *zap.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithTTL sets how long an idle session survives Prune. Zero keeps sessions forever.
func WithTTL(ttl time.Duration) Option {
	return func(r *Registry) { r.ttl = ttl }
}

// WithKeepAlive exempts sessions for which keep returns true from Prune,
// e.g. sessions with a connected websocket listener.
func WithKeepAlive(keep func(id string) bool) Option {
	return func(r *Registry) { r.keepAlive = keep }
}

// WithClock overrides the clock used for timestamps and expiry.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

// NewRegistry validates seed once and returns an empty Registry.
func NewRegistry(seed []model.Asset, notifier review.Notifier, opts ...Option) (*Registry, error) {
	if err := model.ValidateSeed(seed); err != nil {
		return nil, err
	}
	r := &Registry{
		sessions: make(map[string]*Session),
		seed:     seed,
		notifier: notifier,
		now:      time.Now,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Create starts a new session from the seed.
func (r *Registry) Create() (*Session, error) {
	st, err := store.New(r.seed)
	if err != nil {
		return nil, err
	}
	id := uuid.New().String()
	now := r.now()
	s := &Session{
		ID:        id,
		CreatedAt: now,
		store:     st,
		lastSeen:  now,
		now:       r.now,
		handler: review.NewHandler(id, st, r.notifier,
			review.WithClock(r.now),
			review.WithLogger(r.logger)),
	}

	r.mu.Lock()
	r.sessions[id] = s
	r.mu.Unlock()

	r.logger.Info("session created", zap.String("session_id", id), zap.Int("assets", len(r.seed)))
	return s, nil
}

// Get returns the session with the given id.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// Delete removes a session. It reports whether the session existed.
func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sessions[id]
	delete(r.sessions, id)
	return ok
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Prune removes sessions idle for longer than the TTL and returns their ids.
func (r *Registry) Prune() []string {
	if r.ttl <= 0 {
		return nil
	}
	cutoff := r.now().Add(-r.ttl)

	r.mu.Lock()
	defer r.mu.Unlock()
	var removed []string
	for id, s := range r.sessions {
		if r.keepAlive != nil && r.keepAlive(id) {
			continue
		}
		if s.idleSince().Before(cutoff) {
			delete(r.sessions, id)
			removed = append(removed, id)
		}
	}
	if len(removed) > 0 {
		r.logger.Info("sessions expired", zap.Int("count", len(removed)))
	}
	return removed
}
