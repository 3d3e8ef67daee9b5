// Package repo provides the callouts repository implementation
package repo

import (
	"context"
	"strings"

	"raidcall/internal/modkit/repokit"
	perr "raidcall/internal/platform/errors"
	"raidcall/internal/platform/store"
	"raidcall/internal/services/callouts/domain"
)

// Repo is the callouts persistence surface used by the service layer
type Repo interface {
	Insert(ctx context.Context, rec domain.Record) error
	GetByID(ctx context.Context, id string) (domain.Record, error)
	List(ctx context.Context) ([]domain.Record, error)
	Update(ctx context.Context, rec domain.Record) error
	Delete(ctx context.Context, id string) error

	// FindConflict returns the callout for the same user (case-insensitive)
	// and day, skipping excludeID when non-empty
	FindConflict(ctx context.Context, username, day, excludeID string) (*domain.Record, error)

	// DeleteByUser removes every callout belonging to username, returning the count
	DeleteByUser(ctx context.Context, username string) (int64, error)

	// CountAll and CountSince back the admin info endpoint
	CountAll(ctx context.Context) (int64, error)
	CountOnDay(ctx context.Context, day string) (int64, error)
	CountSince(ctx context.Context, day string) (int64, error)
}

type (
	// PG is a Postgres implementation of the callouts repo
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder for the Postgres implementation
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind attaches a Queryer to the Postgres implementation
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

const recordCols = `id, user_id, username, status, day, reason, delay, created_at, updated_at`

func scanRecord(r store.Row) (domain.Record, error) {
	var rec domain.Record
	err := r.Scan(
		&rec.ID, &rec.UserID, &rec.Username, &rec.Status, &rec.Day,
		&rec.Reason, &rec.Delay, &rec.CreatedAt, &rec.UpdatedAt,
	)
	return rec, err
}

func (r *queries) Insert(ctx context.Context, rec domain.Record) error {
	const sql = `
		INSERT INTO callouts (id, user_id, username, status, day, reason, delay, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	// the unique index on (lower(username), day) backs the conflict guard
	// under races; surface violations as DuplicateKey, not a bare pg error
	_, err := r.q.Exec(ctx, sql, rec.ID, rec.UserID, rec.Username, rec.Status, rec.Day, rec.Reason, rec.Delay)
	return perr.FromPostgresWithField(err, "insert callout")
}

func (r *queries) GetByID(ctx context.Context, id string) (domain.Record, error) {
	return store.One(ctx, r.q, scanRecord,
		`SELECT `+recordCols+` FROM callouts WHERE id = $1`, id)
}

func (r *queries) List(ctx context.Context) ([]domain.Record, error) {
	return store.Many(ctx, r.q, scanRecord,
		`SELECT `+recordCols+` FROM callouts ORDER BY day DESC, created_at DESC`)
}

func (r *queries) Update(ctx context.Context, rec domain.Record) error {
	const sql = `
		UPDATE callouts
		SET status = $2, day = $3, reason = $4, delay = $5, updated_at = NOW()
		WHERE id = $1
	`
	return perr.FromPostgresWithField(
		store.ExecOne(ctx, r.q, sql, rec.ID, rec.Status, rec.Day, rec.Reason, rec.Delay),
		"update callout")
}

func (r *queries) Delete(ctx context.Context, id string) error {
	return store.ExecOne(ctx, r.q, `DELETE FROM callouts WHERE id = $1`, id)
}

func (r *queries) FindConflict(ctx context.Context, username, day, excludeID string) (*domain.Record, error) {
	sql := `
		SELECT ` + recordCols + `
		FROM callouts
		WHERE lower(username) = lower($1) AND day = $2
	`
	args := []any{strings.TrimSpace(username), day}
	if excludeID != "" {
		sql += ` AND id <> $3`
		args = append(args, excludeID)
	}
	sql += ` LIMIT 1`

	rows, err := store.Many(ctx, r.q, scanRecord, sql, args...)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (r *queries) DeleteByUser(ctx context.Context, username string) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM callouts WHERE lower(username) = lower($1)`, username)
	if err != nil {
		return 0, perr.FromPostgresWithField(err, "delete callouts by user")
	}
	return tag.RowsAffected(), nil
}

func (r *queries) CountAll(ctx context.Context) (int64, error) {
	return store.Scalar[int64](ctx, r.q, `SELECT count(*) FROM callouts`)
}

func (r *queries) CountOnDay(ctx context.Context, day string) (int64, error) {
	return store.Scalar[int64](ctx, r.q, `SELECT count(*) FROM callouts WHERE day = $1`, day)
}

func (r *queries) CountSince(ctx context.Context, day string) (int64, error) {
	return store.Scalar[int64](ctx, r.q, `SELECT count(*) FROM callouts WHERE day >= $1`, day)
}
