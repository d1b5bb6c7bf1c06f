package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/abhisek/examprep/internal/analytics"
	"github.com/abhisek/examprep/internal/question"
)

// sequenceCounter manages the global monotonic sequence number assigned to
// every appended event. Timestamps from separate sessions can collide; the
// sequence gives a total append order.
//
// The mutex serializes within the process; the RETURNING clause makes the
// increment atomic at the database level.
type sequenceCounter struct {
	mu sync.Mutex
	db *sql.DB
}

// newSequenceCounter creates a counter and ensures the tracking table exists.
func newSequenceCounter(db *sql.DB) (*sequenceCounter, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`)
	if err != nil {
		return nil, fmt.Errorf("create sequence table: %w", err)
	}

	_, err = db.Exec(`INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`)
	if err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}

	return &sequenceCounter{db: db}, nil
}

// Next atomically returns the next sequence number and increments the counter.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var seq int64
	err := sc.db.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}

// eventRepo implements EventRepo on SQLite.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *eventRepo) Record(ctx context.Context, e analytics.Event) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	ts := e.RecordedAt
	if ts.IsZero() {
		ts = time.Now()
	}

	var selected sql.NullString
	if e.Selected != nil {
		selected = sql.NullString{String: *e.Selected, Valid: true}
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO performance_events
		 (sequence, timestamp, session_id, mode, question_id, question_index, selected, correct_answer, correct, elapsed_secs)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum, ts.UTC(), e.SessionID, string(e.Mode), e.QuestionID, e.Index,
		selected, e.CorrectAnswer, e.Correct, e.ElapsedSeconds,
	)
	if err != nil {
		return fmt.Errorf("save performance event: %w", err)
	}
	return nil
}

func (r *eventRepo) SessionEvents(ctx context.Context, sessionID string) ([]analytics.Event, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT timestamp, session_id, mode, question_id, question_index, selected, correct_answer, correct, elapsed_secs
		 FROM performance_events WHERE session_id = ? ORDER BY sequence`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("query session events: %w", err)
	}
	defer rows.Close()

	var events []analytics.Event
	for rows.Next() {
		var (
			e        analytics.Event
			mode     string
			selected sql.NullString
		)
		if err := rows.Scan(&e.RecordedAt, &e.SessionID, &mode, &e.QuestionID, &e.Index,
			&selected, &e.CorrectAnswer, &e.Correct, &e.ElapsedSeconds); err != nil {
			return nil, fmt.Errorf("scan performance event: %w", err)
		}
		e.Mode = question.Mode(mode)
		if selected.Valid {
			v := selected.String
			e.Selected = &v
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepo) RecentAccuracy(ctx context.Context, limit int) (float64, int, error) {
	if limit <= 0 {
		return 0, 0, nil
	}
	var total, correct int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(correct), 0) FROM (
			SELECT correct FROM performance_events ORDER BY sequence DESC LIMIT ?
		)`,
		limit,
	).Scan(&total, &correct)
	if err != nil {
		return 0, 0, fmt.Errorf("query recent accuracy: %w", err)
	}
	if total == 0 {
		return 0, 0, nil
	}
	return float64(correct) / float64(total), total, nil
}
