// Package service contains roster and admin workflows
package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"raidcall/internal/core/raidday"
	"raidcall/internal/modkit/repokit"
	perr "raidcall/internal/platform/errors"
	pnet "raidcall/internal/platform/net"
	crepo "raidcall/internal/services/callouts/repo"
	"raidcall/internal/services/users/domain"
	"raidcall/internal/services/users/repo"
)

// Service is the public service port
type Service interface{ domain.ServicePort }

// Svc implements the service port
type Svc struct {
	binder   repokit.Binder[repo.Repo]
	callouts repokit.Binder[crepo.Repo]
	db       repokit.TxRunner
	days     *raidday.Resolver
}

// Options control service construction
type Options struct {
	// Callouts binds the callout repo for cascading deletes and info counts
	Callouts repokit.Binder[crepo.Repo]

	// Days is required
	Days *raidday.Resolver
}

// New constructs the service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], opt Options) *Svc {
	if db == nil {
		panic("users.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("users.Service requires a repo binder")
	}
	if opt.Callouts == nil {
		panic("users.Service requires a callouts binder")
	}
	if opt.Days == nil {
		panic("users.Service requires a day resolver")
	}
	return &Svc{binder: binder, callouts: opt.Callouts, db: db, days: opt.Days}
}

// Upsert records a member sighting, minting a token on first contact
func (s *Svc) Upsert(ctx context.Context, in domain.UpsertInput) (domain.User, error) {
	id := strings.TrimSpace(in.ID)
	username := strings.TrimSpace(in.Username)
	if id == "" || username == "" {
		return domain.User{}, perr.Newf(perr.ErrorCodeValidation, "id and username are required")
	}

	var out domain.User
	err := s.db.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		out, err = s.binder.Bind(q).Upsert(ctx, id, username, uuid.NewString())
		return err
	})
	return out, err
}

// Resolve maps an API token to its owner
func (s *Svc) Resolve(ctx context.Context, token string) (domain.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.User{}, perr.Unauthorizedf("missing token")
	}
	var out domain.User
	err := s.db.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		out, err = s.binder.Bind(q).GetByToken(ctx, token)
		return err
	})
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return domain.User{}, perr.Unauthorizedf("unknown token")
		}
		return domain.User{}, err
	}
	return out, nil
}

// List returns the roster with tokens stripped
func (s *Svc) List(ctx context.Context) ([]domain.User, error) {
	var out []domain.User
	err := s.db.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		out, err = s.binder.Bind(q).List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Token = ""
	}
	return out, nil
}

// Promote grants admin to the named user
func (s *Svc) Promote(ctx context.Context, id string) (domain.User, error) {
	return s.setAdmin(ctx, id, true)
}

// Demote revokes admin; the acting admin cannot demote themselves
func (s *Svc) Demote(ctx context.Context, id string) (domain.User, error) {
	if id == pnet.UserID(ctx) {
		return domain.User{}, perr.Forbiddenf("you cannot demote yourself")
	}
	return s.setAdmin(ctx, id, false)
}

func (s *Svc) setAdmin(ctx context.Context, id string, admin bool) (domain.User, error) {
	var out domain.User
	err := s.db.Tx(ctx, func(q repokit.Queryer) error {
		r := s.binder.Bind(q)
		if err := r.SetAdmin(ctx, id, admin); err != nil {
			return err
		}
		var err error
		out, err = r.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return domain.User{}, err
	}
	out.Token = ""
	return out, nil
}

// Delete removes a user and their callouts in one transaction
func (s *Svc) Delete(ctx context.Context, id string) error {
	if id == pnet.UserID(ctx) {
		return perr.Forbiddenf("you cannot delete yourself")
	}
	return s.db.Tx(ctx, func(q repokit.Queryer) error {
		r := s.binder.Bind(q)
		u, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if u.Protected {
			return perr.Forbiddenf("this user is protected and cannot be deleted")
		}
		if _, err := s.callouts.Bind(q).DeleteByUser(ctx, u.Username); err != nil {
			return err
		}
		return r.Delete(ctx, id)
	})
}

// Info summarizes roster and callout counts for the admin dashboard
func (s *Svc) Info(ctx context.Context) (domain.Info, error) {
	today := s.days.Today()
	day, err := raidday.Parse(today)
	if err != nil {
		return domain.Info{}, err
	}
	weekAgo := day.Time().AddDate(0, 0, -6).Format(raidday.Layout)

	var info domain.Info
	err = s.db.Tx(ctx, func(q repokit.Queryer) error {
		ur := s.binder.Bind(q)
		cr := s.callouts.Bind(q)

		if info.Users, err = ur.CountAll(ctx); err != nil {
			return err
		}
		if info.Admins, err = ur.CountAdmins(ctx); err != nil {
			return err
		}
		if info.Callouts, err = cr.CountAll(ctx); err != nil {
			return err
		}
		if info.CalloutsToday, err = cr.CountOnDay(ctx, today); err != nil {
			return err
		}
		info.CalloutsWeek, err = cr.CountSince(ctx, weekAgo)
		return err
	})
	if err != nil {
		return domain.Info{}, err
	}

	info.Timezone = domain.TimezoneBlock{
		Name:  s.days.Location().String(),
		Now:   time.Now().In(s.days.Location()).Format(time.RFC3339),
		Today: today,
	}
	return info, nil
}
