// Package service contains callout record workflows
package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"raidcall/internal/core/raidday"
	"raidcall/internal/modkit/repokit"
	perr "raidcall/internal/platform/errors"
	pnet "raidcall/internal/platform/net"
	"raidcall/internal/services/callouts/domain"
	"raidcall/internal/services/callouts/repo"
	idom "raidcall/internal/services/interpret/domain"
)

// Service is the public service port
type Service interface{ domain.ServicePort }

// Svc implements the service port
type Svc struct {
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner
	days   *raidday.Resolver
}

// Options control service construction
type Options struct {
	// Days is required
	Days *raidday.Resolver
}

// New constructs the service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], opt Options) *Svc {
	if db == nil {
		panic("callouts.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("callouts.Service requires a repo binder")
	}
	if opt.Days == nil {
		panic("callouts.Service requires a day resolver")
	}
	return &Svc{binder: binder, db: db, days: opt.Days}
}

// List returns all callouts newest raid day first
func (s *Svc) List(ctx context.Context) ([]domain.Record, error) {
	var out []domain.Record
	err := s.db.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		out, err = s.binder.Bind(q).List(ctx)
		return err
	})
	return out, err
}

// normalize re-checks status, day, and delay server side
// The interpreter validated once already; the repository trusts nobody
func (s *Svc) normalize(status, date string, delay *int) (idom.Status, string, *int, error) {
	st := idom.Status(strings.ToUpper(strings.TrimSpace(status)))
	if !st.Valid() {
		return "", "", nil, perr.Newf(perr.ErrorCodeValidation, "Status must be LATE or OUT.")
	}
	day, err := raidday.ValidateNotPast(date, s.days.Today())
	if err != nil {
		return "", "", nil, err
	}
	if st != idom.StatusLate || (delay != nil && *delay <= 0) {
		delay = nil
	}
	return st, day.String(), delay, nil
}

// Create stores a new callout for the acting user
func (s *Svc) Create(ctx context.Context, submitterID string, in domain.CreateInput) (domain.Record, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return domain.Record{}, perr.Newf(perr.ErrorCodeValidation, "username is required")
	}
	st, day, delay, err := s.normalize(in.Status, in.Date, in.Delay)
	if err != nil {
		return domain.Record{}, err
	}

	var out domain.Record
	err = s.db.Tx(ctx, func(q repokit.Queryer) error {
		r := s.binder.Bind(q)

		existing, err := r.FindConflict(ctx, username, day, "")
		if err != nil {
			return err
		}
		if existing != nil && !in.Replace {
			return perr.Wrap(&domain.DuplicateError{Existing: *existing},
				perr.ErrorCodeConflict, "callout already exists for that day")
		}

		if existing != nil {
			// replace keeps the original id and creation time
			out = *existing
			out.Status, out.Day, out.Delay = st, day, delay
			out.Reason = strings.TrimSpace(in.Reason)
			return r.Update(ctx, out)
		}

		out = domain.Record{
			ID:       uuid.NewString(),
			UserID:   submitterID,
			Username: username,
			Status:   st,
			Day:      day,
			Reason:   strings.TrimSpace(in.Reason),
			Delay:    delay,
		}
		return r.Insert(ctx, out)
	})
	if err != nil {
		return domain.Record{}, err
	}
	return out, nil
}

// Update edits an existing callout; owner or admin only
func (s *Svc) Update(ctx context.Context, id string, in domain.UpdateInput) (domain.Record, error) {
	st, day, delay, err := s.normalize(in.Status, in.Date, in.Delay)
	if err != nil {
		return domain.Record{}, err
	}

	var out domain.Record
	err = s.db.Tx(ctx, func(q repokit.Queryer) error {
		r := s.binder.Bind(q)

		rec, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := requireOwner(ctx, rec); err != nil {
			return err
		}

		// the edited record itself is not a conflict
		existing, err := r.FindConflict(ctx, rec.Username, day, rec.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return perr.Wrap(&domain.DuplicateError{Existing: *existing},
				perr.ErrorCodeConflict, "callout already exists for that day")
		}

		rec.Status, rec.Day, rec.Delay = st, day, delay
		rec.Reason = strings.TrimSpace(in.Reason)
		out = rec
		return r.Update(ctx, rec)
	})
	if err != nil {
		return domain.Record{}, err
	}
	return out, nil
}

// Delete removes a callout; owner or admin only
func (s *Svc) Delete(ctx context.Context, id string) error {
	return s.db.Tx(ctx, func(q repokit.Queryer) error {
		r := s.binder.Bind(q)
		rec, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := requireOwner(ctx, rec); err != nil {
			return err
		}
		return r.Delete(ctx, id)
	})
}

// FindConflict returns the existing callout for the same user and day, if any
func (s *Svc) FindConflict(ctx context.Context, username, day, excludeID string) (*domain.Record, error) {
	var out *domain.Record
	err := s.db.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		out, err = s.binder.Bind(q).FindConflict(ctx, username, day, excludeID)
		return err
	})
	return out, err
}

// requireOwner allows the record's submitter or any admin
func requireOwner(ctx context.Context, rec domain.Record) error {
	if pnet.IsAdmin(ctx) {
		return nil
	}
	actor := pnet.UserID(ctx)
	if actor != "" && actor == rec.UserID {
		return nil
	}
	return perr.Forbiddenf("you can only modify your own callouts")
}
