package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

type flagRepo struct {
	db  *sql.DB
	seq *sequenceCounter
	now func() time.Time
}

func (r *flagRepo) Set(ctx context.Context, uid, key string) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	query, args := entsql.Dialect(dialect.SQLite).
		Select("value").
		From(entsql.Table("lesson_flags")).
		Where(entsql.And(entsql.EQ("uid", uid), entsql.EQ("slot_key", key))).
		Query()
	var prev bool
	switch err := tx.QueryRowContext(ctx, query, args...).Scan(&prev); {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return false, fmt.Errorf("query flag: %w", err)
	}

	query, args = entsql.Dialect(dialect.SQLite).
		Insert("lesson_flags").
		Columns("uid", "slot_key", "value", "updated_at").
		Values(uid, key, true, r.now().UnixMilli()).
		OnConflict(
			entsql.ConflictColumns("uid", "slot_key"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return false, fmt.Errorf("upsert flag: %w", err)
	}
	if !prev {
		if _, err := appendFlagEvent(ctx, tx, r.seq, uid, key, r.now()); err != nil {
			return false, err
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}
	return !prev, nil
}

func (r *flagRepo) Snapshot(ctx context.Context, uid string) (map[string]bool, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("slot_key", "value").
		From(entsql.Table("lesson_flags")).
		Where(entsql.EQ("uid", uid)).
		Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query flags: %w", err)
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var (
			key   string
			value bool
		)
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan flag: %w", err)
		}
		out[key] = value
	}
	return out, rows.Err()
}
