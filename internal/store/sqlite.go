package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// journalPragmas are applied to every journal connection.
var journalPragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA busy_timeout=5000",
	"PRAGMA synchronous=NORMAL",
}

// OpenSQLite opens (or creates) a SQLite database at the given path.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	for _, p := range journalPragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}
	return db, nil
}

// OpenJournal opens the database at path and returns a ready Journal.
// The returned close function releases the database.
func OpenJournal(path string) (*Journal, func() error, error) {
	db, err := OpenSQLite(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open db: %w", err)
	}
	j, err := NewJournal(db)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return j, db.Close, nil
}
