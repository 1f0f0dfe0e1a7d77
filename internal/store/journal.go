package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yangwenmai/bis/internal/model"
)

var _ DecisionJournal = (*Journal)(nil)

// Decision is one recorded review decision.
type Decision struct {
	ID         string       `json:"id"`
	SessionID  string       `json:"session_id"`
	AssetID    string       `json:"asset_id"`
	Action     model.Action `json:"action"`
	Status     model.Status `json:"status"`
	Message    string       `json:"message"`
	DecidedAt  string       `json:"decided_at"`
	RecordedAt string       `json:"recorded_at"`
}

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// NewDecision creates a Decision from a notification.
func NewDecision(n model.Notification) Decision {
	return Decision{
		ID:         uuid.New().String(),
		SessionID:  n.SessionID,
		AssetID:    n.AssetID,
		Action:     n.Action,
		Status:     n.Status,
		Message:    n.Message,
		DecidedAt:  n.At.UTC().Format(timeLayout),
		RecordedAt: time.Now().UTC().Format(timeLayout),
	}
}

// DecisionFilter holds query parameters for listing decisions.
type DecisionFilter struct {
	SessionID string
	AssetID   string
	Action    []string
	Limit     int
}

// ActionCounts holds the number of decisions per action.
type ActionCounts struct {
	Approved  int `json:"approved"`
	Rewritten int `json:"rewritten"`
}

// Journal is an append-only audit trail of review decisions stored in SQLite.
// It is never read back into a Store.
type Journal struct {
	db *sql.DB
}

// NewJournal creates a Journal and initialises the schema.
func NewJournal(db *sql.DB) (*Journal, error) {
	j := &Journal{db: db}
	if err := j.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return j, nil
}

// currentSchemaVersion is bumped whenever the schema changes.
// Add a new migration function in the migrations slice below.
const currentSchemaVersion = 1

func (j *Journal) migrate() error {
	if _, err := j.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("create schema_version table: %w", err)
	}

	var version int
	err := j.db.QueryRow(`SELECT version FROM schema_version LIMIT 1`).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		if _, err := j.db.Exec(`INSERT INTO schema_version (version) VALUES (0)`); err != nil {
			return fmt.Errorf("init schema version: %w", err)
		}
		version = 0
	} else if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	// Index 0 = migration from v0 to v1, etc.
	migrations := []func() error{
		j.migrateV1, // v0 → v1: decisions table
	}
	if len(migrations) != currentSchemaVersion {
		return fmt.Errorf("have %d migrations for schema version %d", len(migrations), currentSchemaVersion)
	}

	for i := version; i < len(migrations); i++ {
		if err := migrations[i](); err != nil {
			return fmt.Errorf("migration v%d→v%d: %w", i, i+1, err)
		}
		if _, err := j.db.Exec(`UPDATE schema_version SET version = ?`, i+1); err != nil {
			return fmt.Errorf("update schema version to %d: %w", i+1, err)
		}
	}
	return nil
}

func (j *Journal) migrateV1() error {
	_, err := j.db.Exec(`
	CREATE TABLE IF NOT EXISTS decisions (
		id          TEXT PRIMARY KEY,
		session_id  TEXT NOT NULL,
		asset_id    TEXT NOT NULL,
		action      TEXT NOT NULL,
		status      TEXT NOT NULL,
		message     TEXT NOT NULL,
		decided_at  TEXT NOT NULL,
		recorded_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_decisions_session ON decisions(session_id, decided_at);
	CREATE INDEX IF NOT EXISTS idx_decisions_asset ON decisions(asset_id);
	`)
	return err
}

// Record inserts a decision.
func (j *Journal) Record(ctx context.Context, d Decision) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO decisions (id, session_id, asset_id, action, status, message, decided_at, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.SessionID, d.AssetID, string(d.Action), string(d.Status), d.Message, d.DecidedAt, d.RecordedAt,
	)
	return err
}

// ListDecisions returns decisions matching f, oldest first.
func (j *Journal) ListDecisions(ctx context.Context, f DecisionFilter) ([]Decision, error) {
	query := `SELECT id, session_id, asset_id, action, status, message, decided_at, recorded_at FROM decisions`
	var conditions []string
	var args []any

	if f.SessionID != "" {
		conditions = append(conditions, "session_id = ?")
		args = append(args, f.SessionID)
	}
	if f.AssetID != "" {
		conditions = append(conditions, "asset_id = ?")
		args = append(args, f.AssetID)
	}
	if len(f.Action) > 0 {
		placeholders := make([]string, len(f.Action))
		for i, a := range f.Action {
			placeholders[i] = "?"
			args = append(args, a)
		}
		conditions = append(conditions, "action IN ("+strings.Join(placeholders, ",")+")")
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY decided_at ASC, rowid ASC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	decisions := []Decision{}
	for rows.Next() {
		d, err := scanDecision(rows)
		if err != nil {
			return nil, err
		}
		decisions = append(decisions, *d)
	}
	return decisions, rows.Err()
}

// CountByAction returns the number of approve and rewrite decisions.
func (j *Journal) CountByAction(ctx context.Context) (ActionCounts, error) {
	var counts ActionCounts
	row := j.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN action = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN action = ? THEN 1 ELSE 0 END), 0)
		FROM decisions`, string(model.ActionApprove), string(model.ActionRewrite))
	if err := row.Scan(&counts.Approved, &counts.Rewritten); err != nil {
		return counts, err
	}
	return counts, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDecision(row scanner) (*Decision, error) {
	var d Decision
	var action, status string
	if err := row.Scan(&d.ID, &d.SessionID, &d.AssetID, &action, &status, &d.Message, &d.DecidedAt, &d.RecordedAt); err != nil {
		return nil, err
	}
	d.Action = model.Action(action)
	d.Status = model.Status(status)
	return &d, nil
}
