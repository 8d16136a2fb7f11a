// Package journal keeps the history of job transitions in sqlite, for provenance only.
// Iteration records stay the source of truth.
package journal

import (
	"context"
	"fmt"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // sqlite driver

	"github.com/umputun/invflow/app/enums"
)

// Action is a recorded job transition
type Action string

// recorded actions
const (
	ActionSubmit   Action = "submit"
	ActionResubmit Action = "resubmit"
	ActionRetrieve Action = "retrieve"
	ActionCancel   Action = "cancel"
	ActionDelete   Action = "delete"
)

// Entry is one transition of a job
type Entry struct {
	ID        int64         `json:"id"`
	Iteration string        `json:"iteration"`
	Event     string        `json:"event,omitempty"`
	Kind      enums.JobKind `json:"kind"`
	Action    Action        `json:"action"`
	Job       string        `json:"job"`
	Reposts   int           `json:"reposts"`
	At        time.Time     `json:"at"`
}

// row is the db shape of Entry
type row struct {
	ID        int64  `db:"id"`
	Iteration string `db:"iteration"`
	Event     string `db:"event"`
	Kind      string `db:"kind"`
	Action    string `db:"action"`
	Job       string `db:"job"`
	Reposts   int    `db:"reposts"`
	At        int64  `db:"at"`
}

// Journal is sqlite store of entries
type Journal struct {
	db *sqlx.DB
}

// New opens or creates journal at path
func New(path string) (*Journal, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	db.SetMaxOpenConns(1) // single writer, serializes concurrent records

	queries := []string{
		"PRAGMA journal_mode=WAL",
		`CREATE TABLE IF NOT EXISTS transitions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			iteration TEXT NOT NULL,
			event TEXT NOT NULL DEFAULT '',
			kind TEXT NOT NULL,
			action TEXT NOT NULL,
			job TEXT NOT NULL DEFAULT '',
			reposts INTEGER NOT NULL DEFAULT 0,
			at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transitions_iteration ON transitions(iteration)`,
	}
	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			if closeErr := db.Close(); closeErr != nil {
				log.Printf("[WARN] failed to close journal, %v", closeErr)
			}
			return nil, fmt.Errorf("failed to initialize journal: %w", err)
		}
	}
	return &Journal{db: db}, nil
}

// Record adds entry, zero At set to now
func (j *Journal) Record(ctx context.Context, e Entry) error {
	if e.At.IsZero() {
		e.At = time.Now()
	}
	r := row{Iteration: e.Iteration, Event: e.Event, Kind: e.Kind.String(), Action: string(e.Action),
		Job: e.Job, Reposts: e.Reposts, At: e.At.UnixNano()}
	_, err := j.db.NamedExecContext(ctx, `INSERT INTO transitions (iteration, event, kind, action, job, reposts, at)
		VALUES (:iteration, :event, :kind, :action, :job, :reposts, :at)`, r)
	if err != nil {
		return fmt.Errorf("failed to record %s of %s/%s/%s: %w", e.Action, e.Iteration, e.Event, e.Kind, err)
	}
	return nil
}

// History returns entries of iteration in recorded order, all iterations if empty
func (j *Journal) History(ctx context.Context, iteration string) ([]Entry, error) {
	rows := []row{}
	var err error
	if iteration == "" {
		err = j.db.SelectContext(ctx, &rows, "SELECT * FROM transitions ORDER BY id")
	} else {
		err = j.db.SelectContext(ctx, &rows, "SELECT * FROM transitions WHERE iteration = ? ORDER BY id", iteration)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}

	res := make([]Entry, 0, len(rows))
	for _, r := range rows {
		kind, err := enums.ParseJobKind(r.Kind)
		if err != nil {
			log.Printf("[WARN] invalid job kind in journal entry %d, %v", r.ID, err)
		}
		res = append(res, Entry{ID: r.ID, Iteration: r.Iteration, Event: r.Event, Kind: kind, Action: Action(r.Action),
			Job: r.Job, Reposts: r.Reposts, At: time.Unix(0, r.At)})
	}
	return res, nil
}

// Close closes the database
func (j *Journal) Close() error { return j.db.Close() }
