package journal

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// fixed-width UTC timestamps sort lexically
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Kind classifies a journal event
type Kind string

const (
	KindStarted Kind = "started"
	KindStopped Kind = "stopped"
	KindReset   Kind = "reset"
	KindFrame   Kind = "frame"
	KindStable  Kind = "stable"
	KindError   Kind = "error"
	KindExpired Kind = "expired"
)

// Event is one entry of a scan session's history
type Event struct {
	ID        int64           `json:"id"`
	SessionID string          `json:"session_id"`
	Kind      Kind            `json:"kind"`
	Status    string          `json:"status"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// Journal is an append-only scan event log backed by SQLite
type Journal struct {
	db *sql.DB
}

// Open opens or creates the journal database at path. ":memory:" is allowed.
func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// a single connection keeps in-memory databases shared and serialises writers
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Journal{db: db}, nil
}

// Close closes the underlying database connection
func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}

// Record appends an event. payload is marshalled to JSON; nil stores "{}".
func (j *Journal) Record(ctx context.Context, sessionID string, kind Kind, status string, payload any) (*Event, error) {
	raw := json.RawMessage("{}")
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal payload: %w", err)
		}
		raw = data
	}

	now := time.Now().UTC()
	res, err := j.db.ExecContext(ctx,
		`INSERT INTO scan_events (session_id, kind, status, payload, created_at) VALUES (?, ?, ?, ?, ?)`,
		sessionID, string(kind), status, string(raw), now.Format(timeLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("insert scan event: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("scan event id: %w", err)
	}

	return &Event{
		ID:        id,
		SessionID: sessionID,
		Kind:      kind,
		Status:    status,
		Payload:   raw,
		CreatedAt: now,
	}, nil
}

// ListBySession returns a session's events oldest first. limit <= 0 returns all.
func (j *Journal) ListBySession(ctx context.Context, sessionID string, limit int) ([]Event, error) {
	query := `SELECT id, session_id, kind, status, payload, created_at
        FROM scan_events WHERE session_id = ? ORDER BY id`
	args := []any{sessionID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query scan events: %w", err)
	}
	defer rows.Close()

	events := []Event{}
	for rows.Next() {
		var (
			ev        Event
			kind      string
			payload   string
			createdAt string
		)
		if err := rows.Scan(&ev.ID, &ev.SessionID, &kind, &ev.Status, &payload, &createdAt); err != nil {
			return nil, fmt.Errorf("scan event row: %w", err)
		}
		ev.Kind = Kind(kind)
		ev.Payload = json.RawMessage(payload)
		if ev.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scan events: %w", err)
	}
	return events, nil
}

// Prune deletes events created before cutoff and reports how many were removed
func (j *Journal) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := j.db.ExecContext(ctx,
		`DELETE FROM scan_events WHERE created_at < ?`,
		cutoff.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("prune scan events: %w", err)
	}
	return res.RowsAffected()
}
