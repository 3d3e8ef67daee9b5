// Package repo provides the users repository implementation
package repo

import (
	"context"

	"raidcall/internal/modkit/repokit"
	perr "raidcall/internal/platform/errors"
	"raidcall/internal/platform/store"
	"raidcall/internal/services/users/domain"
)

// Repo is the users persistence surface used by the service layer
type Repo interface {
	// Upsert inserts or refreshes a member, preserving admin flag and token
	Upsert(ctx context.Context, id, username, token string) (domain.User, error)

	GetByID(ctx context.Context, id string) (domain.User, error)
	GetByToken(ctx context.Context, token string) (domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	SetAdmin(ctx context.Context, id string, admin bool) error
	Delete(ctx context.Context, id string) error

	CountAll(ctx context.Context) (int64, error)
	CountAdmins(ctx context.Context) (int64, error)
}

type (
	// PG is a Postgres implementation of the users repo
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder for the Postgres implementation
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind attaches a Queryer to the Postgres implementation
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

const userCols = `id, username, is_admin, protected, api_token, created_at, last_seen`

func scanUser(r store.Row) (domain.User, error) {
	var u domain.User
	err := r.Scan(&u.ID, &u.Username, &u.IsAdmin, &u.Protected, &u.Token, &u.CreatedAt, &u.LastSeen)
	return u, err
}

func (r *queries) Upsert(ctx context.Context, id, username, token string) (domain.User, error) {
	const sql = `
		INSERT INTO users (id, username, is_admin, protected, api_token, created_at, last_seen)
		VALUES ($1, $2, false, false, $3, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE
		SET username = EXCLUDED.username,
		    last_seen = NOW()
		RETURNING ` + userCols
	u, err := store.One(ctx, r.q, scanUser, sql, id, username, token)
	if _, ok := perr.ExtractPgError(err); ok {
		return domain.User{}, perr.FromPostgresWithField(err, "upsert user")
	}
	return u, err
}

func (r *queries) GetByID(ctx context.Context, id string) (domain.User, error) {
	return store.One(ctx, r.q, scanUser,
		`SELECT `+userCols+` FROM users WHERE id = $1`, id)
}

func (r *queries) GetByToken(ctx context.Context, token string) (domain.User, error) {
	return store.One(ctx, r.q, scanUser,
		`SELECT `+userCols+` FROM users WHERE api_token = $1`, token)
}

func (r *queries) List(ctx context.Context) ([]domain.User, error) {
	return store.Many(ctx, r.q, scanUser,
		`SELECT `+userCols+` FROM users ORDER BY username ASC`)
}

func (r *queries) SetAdmin(ctx context.Context, id string, admin bool) error {
	return perr.FromPostgresWithField(
		store.ExecOne(ctx, r.q, `UPDATE users SET is_admin = $2 WHERE id = $1`, id, admin),
		"set admin flag")
}

func (r *queries) Delete(ctx context.Context, id string) error {
	return perr.FromPostgresWithField(
		store.ExecOne(ctx, r.q, `DELETE FROM users WHERE id = $1`, id),
		"delete user")
}

func (r *queries) CountAll(ctx context.Context) (int64, error) {
	return store.Scalar[int64](ctx, r.q, `SELECT count(*) FROM users`)
}

func (r *queries) CountAdmins(ctx context.Context) (int64, error) {
	return store.Scalar[int64](ctx, r.q, `SELECT count(*) FROM users WHERE is_admin`)
}
