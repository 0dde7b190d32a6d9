package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// sequenceCounter hands out the global monotonic sequence stamped on every
// progress event. The mutex serializes within the process; the RETURNING
// clause makes the increment atomic at the database level.
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
	return sc.next(ctx, sc.db)
}

type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// next increments the counter through q. Passing a transaction ties the
// increment to it, so a rollback gives the number back.
func (sc *sequenceCounter) next(ctx context.Context, q rowQuerier) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var seq int64
	err := q.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}

type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
	now func() time.Time
}

func (r *eventRepo) AppendFlagEvent(ctx context.Context, uid, key string) (*FlagEvent, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	ev, err := appendFlagEvent(ctx, tx, r.seq, uid, key, r.now())
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return ev, nil
}

// appendFlagEvent takes the next sequence number and inserts the event
// inside tx.
func appendFlagEvent(ctx context.Context, tx *sql.Tx, seq *sequenceCounter, uid, key string, now time.Time) (*FlagEvent, error) {
	seqNum, err := seq.next(ctx, tx)
	if err != nil {
		return nil, err
	}

	ev := &FlagEvent{
		Sequence:  seqNum,
		UID:       uid,
		SlotKey:   key,
		Timestamp: time.UnixMilli(now.UnixMilli()),
	}
	query, args := entsql.Dialect(dialect.SQLite).
		Insert("progress_events").
		Columns("sequence", "uid", "slot_key", "timestamp").
		Values(ev.Sequence, ev.UID, ev.SlotKey, ev.Timestamp.UnixMilli()).
		Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("save flag event: %w", err)
	}
	return ev, nil
}

func (r *eventRepo) Recent(ctx context.Context, uid string, opts QueryOpts) ([]FlagEvent, error) {
	preds := []*entsql.Predicate{entsql.EQ("uid", uid)}
	if opts.After > 0 {
		preds = append(preds, entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		preds = append(preds, entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE("timestamp", opts.From.UnixMilli()))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE("timestamp", opts.To.UnixMilli()))
	}

	sel := entsql.Dialect(dialect.SQLite).
		Select("sequence", "uid", "slot_key", "timestamp").
		From(entsql.Table("progress_events")).
		Where(entsql.And(preds...)).
		OrderBy(entsql.Desc("sequence"))
	if opts.Limit > 0 {
		sel = sel.Limit(opts.Limit)
	}
	query, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query flag events: %w", err)
	}
	defer rows.Close()

	var out []FlagEvent
	for rows.Next() {
		var (
			ev FlagEvent
			ts int64
		)
		if err := rows.Scan(&ev.Sequence, &ev.UID, &ev.SlotKey, &ts); err != nil {
			return nil, fmt.Errorf("scan flag event: %w", err)
		}
		ev.Timestamp = time.UnixMilli(ts)
		out = append(out, ev)
	}
	return out, rows.Err()
}
