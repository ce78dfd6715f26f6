// Package sqlite holds the device-local submission ledger. It lives in a
// standalone SQLite file next to the server so device checks stay fast and
// survive restarts without touching Postgres.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"personafeedback/internal/domain"
)

const schema = `
	CREATE TABLE IF NOT EXISTS device_submissions (
		device_id     TEXT NOT NULL,
		invitation_id TEXT NOT NULL,
		created_at    TIMESTAMP NOT NULL,
		PRIMARY KEY (device_id, invitation_id)
	)
`

type dedupStore struct {
	DB *sql.DB
}

// NewDedupStore opens (creating if needed) the SQLite file at path and
// ensures the ledger table exists.
func NewDedupStore(path string) (domain.DedupStore, *sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, nil, fmt.Errorf("open dedup store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("init dedup store: %w", err)
	}
	return &dedupStore{DB: db}, db, nil
}

func (s *dedupStore) Seen(ctx context.Context, deviceID, invitationID string) (bool, error) {
	var one int
	query := `SELECT 1 FROM device_submissions WHERE device_id = ? AND invitation_id = ?`
	err := s.DB.QueryRowContext(ctx, query, deviceID, invitationID).Scan(&one)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *dedupStore) MarkSeen(ctx context.Context, deviceID, invitationID string) error {
	query := `INSERT OR IGNORE INTO device_submissions (device_id, invitation_id, created_at) VALUES (?, ?, ?)`
	_, err := s.DB.ExecContext(ctx, query, deviceID, invitationID, time.Now().UTC())
	return err
}
