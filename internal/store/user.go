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

type userRepo struct {
	db  *sql.DB
	now func() time.Time
}

func (r *userRepo) Ensure(ctx context.Context, uid, email, displayName string) (*User, error) {
	if uid == "" {
		return nil, errors.New("empty user id")
	}

	conflict := []entsql.ConflictOption{entsql.ConflictColumns("uid")}
	switch {
	case email == "" && displayName == "":
		conflict = append(conflict, entsql.DoNothing())
	default:
		conflict = append(conflict, entsql.ResolveWith(func(u *entsql.UpdateSet) {
			if email != "" {
				u.SetExcluded("email")
			}
			if displayName != "" {
				u.SetExcluded("display_name")
			}
		}))
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert("users").
		Columns("uid", "email", "display_name", "created_at").
		Values(uid, email, displayName, r.now().UnixMilli()).
		OnConflict(conflict...).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("ensure user: %w", err)
	}
	return r.Get(ctx, uid)
}

func (r *userRepo) Get(ctx context.Context, uid string) (*User, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("uid", "email", "display_name", "created_at").
		From(entsql.Table("users")).
		Where(entsql.EQ("uid", uid)).
		Query()

	var (
		u       User
		created int64
	)
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&u.UID, &u.Email, &u.DisplayName, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	u.CreatedAt = time.UnixMilli(created)
	return &u, nil
}
