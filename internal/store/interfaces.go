package store

import (
	"context"
	"time"

	"github.com/yangwenmai/bis/internal/model"
)

// Counts holds the number of assets per partition.
type Counts struct {
	Pending   int `json:"pending"`
	Processed int `json:"processed"`
}

// AssetReader provides read access to a review session's assets.
type AssetReader interface {
	ListPending() []model.Asset
	ListHistory() []model.Asset
	All() []model.Asset
	Counts() Counts
	Types() []string
	Visible(minScore int, allowedTypes []string) []model.Asset
}

// AssetMover moves a pending asset into history.
type AssetMover interface {
	MoveToHistory(id string, status model.Status, at time.Time) (model.Asset, error)
}

// DecisionRecorder persists review decisions.
type DecisionRecorder interface {
	Record(ctx context.Context, d Decision) error
}

// DecisionReader provides read access to recorded decisions.
type DecisionReader interface {
	ListDecisions(ctx context.Context, f DecisionFilter) ([]Decision, error)
	CountByAction(ctx context.Context) (ActionCounts, error)
}

// DecisionJournal combines all journal operations for the API layer.
type DecisionJournal interface {
	DecisionRecorder
	DecisionReader
}
