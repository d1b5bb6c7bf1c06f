package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/examprep/internal/summary"
)

// sqliteSummaryRepo implements SummaryRepo on the kv table.
type sqliteSummaryRepo struct {
	db *sql.DB
}

// SaveLast replaces the stored summary unless the stored one completed
// later. Saves are issued from concurrent commands, so they can land out of
// order.
func (r *sqliteSummaryRepo) SaveLast(ctx context.Context, s summary.Summary) error {
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save last summary: %w", err)
	}
	defer tx.Rollback()

	var raw string
	err = tx.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, LastSummaryKey).Scan(&raw)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return fmt.Errorf("query last summary: %w", err)
	default:
		if stored, derr := decodeSummary([]byte(raw)); derr == nil && supersedes(stored, s) {
			return nil
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		LastSummaryKey, string(b), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save last summary: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit last summary: %w", err)
	}
	return nil
}

func (r *sqliteSummaryRepo) Last(ctx context.Context) (*summary.Summary, error) {
	var raw string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, LastSummaryKey).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query last summary: %w", err)
	}
	return decodeSummary([]byte(raw))
}

func decodeSummary(b []byte) (*summary.Summary, error) {
	var s summary.Summary
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("unmarshal last summary: %w", err)
	}
	return &s, nil
}

// supersedes reports whether the stored summary is newer than s. A corrupt
// stored value never blocks a save.
func supersedes(stored *summary.Summary, s summary.Summary) bool {
	return stored.CompletedAt.After(s.CompletedAt)
}
