// Package review turns reviewer decisions into store transitions.
package review

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/yangwenmai/bis/internal/model"
	"github.com/yangwenmai/bis/internal/store"
)

// Notifier receives the advisory event emitted after each decision.
// Implementations must not block.
type Notifier interface {
	Notify(n model.Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(model.Notification)

// Notify calls f(n).
func (f NotifierFunc) Notify(n model.Notification) { f(n) }

type nopNotifier struct{}

func (nopNotifier) Notify(model.Notification) {}

// Outcome is the result of a successful action: the processed asset and the
// notification emitted for it.
type Outcome struct {
	model.Asset
	Notification model.Notification
}

// Handler applies approve/rewrite actions to one session's store.
type Handler struct {
	sessionID string
	mover     store.AssetMover
	notifier  Notifier
	now       func() time.Time
	logger    *zap.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithClock overrides the clock used for action timestamps.
func WithClock(now func() time.Time) Option {
	return func(h *Handler) { h.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(h *Handler) { h.logger = l }
}

// NewHandler creates a Handler. A nil notifier discards notifications.
func NewHandler(sessionID string, mover store.AssetMover, notifier Notifier, opts ...Option) *Handler {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	h := &Handler{
		sessionID: sessionID,
		mover:     mover,
		notifier:  notifier,
		now:       time.Now,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Approve moves the pending asset id to Approved.
func (h *Handler) Approve(id string) (Outcome, error) {
	return h.Apply(id, model.ActionApprove)
}

// Rewrite moves the pending asset id to Rewritten. No content is regenerated.
func (h *Handler) Rewrite(id string) (Outcome, error) {
	return h.Apply(id, model.ActionRewrite)
}

// Apply performs action on the pending asset id. On failure the store is
// unchanged and no notification is emitted.
func (h *Handler) Apply(id string, action model.Action) (Outcome, error) {
	if _, err := model.ParseAction(string(action)); err != nil {
		return Outcome{}, err
	}

	at := h.now()
	asset, err := h.mover.MoveToHistory(id, action.Status(), at)
	if err != nil {
		h.logger.Debug("action rejected",
			zap.String("session_id", h.sessionID),
			zap.String("asset_id", id),
			zap.String("action", string(action)),
			zap.Error(err))
		return Outcome{}, fmt.Errorf("%s %s: %w", action, id, err)
	}

	h.logger.Info("asset decided",
		zap.String("session_id", h.sessionID),
		zap.String("asset_id", id),
		zap.String("status", string(asset.Status)))
	n := model.NewNotification(h.sessionID, id, action, at)
	h.notifier.Notify(n)
	return Outcome{Asset: asset, Notification: n}, nil
}
