package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"raidcall/internal/core/raidday"
	"raidcall/internal/modkit/repokit"
	perr "raidcall/internal/platform/errors"
	pnet "raidcall/internal/platform/net"
	"raidcall/internal/platform/store"
	"raidcall/internal/services/callouts/domain"
	"raidcall/internal/services/callouts/repo"
	idom "raidcall/internal/services/interpret/domain"
)

// memRepo is an in-memory repo.Repo for service tests
type memRepo struct {
	recs map[string]domain.Record
}

func newMemRepo() *memRepo { return &memRepo{recs: map[string]domain.Record{}} }

func (m *memRepo) Insert(_ context.Context, rec domain.Record) error {
	rec.CreatedAt = time.Now()
	rec.UpdatedAt = rec.CreatedAt
	m.recs[rec.ID] = rec
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (domain.Record, error) {
	rec, ok := m.recs[id]
	if !ok {
		return domain.Record{}, perr.ErrNotFound
	}
	return rec, nil
}

func (m *memRepo) List(_ context.Context) ([]domain.Record, error) {
	var out []domain.Record
	for _, rec := range m.recs {
		out = append(out, rec)
	}
	return out, nil
}

func (m *memRepo) Update(_ context.Context, rec domain.Record) error {
	if _, ok := m.recs[rec.ID]; !ok {
		return perr.ErrNotFound
	}
	rec.UpdatedAt = time.Now()
	m.recs[rec.ID] = rec
	return nil
}

func (m *memRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.recs[id]; !ok {
		return perr.ErrNotFound
	}
	delete(m.recs, id)
	return nil
}

func (m *memRepo) FindConflict(_ context.Context, username, day, excludeID string) (*domain.Record, error) {
	for _, rec := range m.recs {
		if rec.ID == excludeID {
			continue
		}
		if strings.EqualFold(rec.Username, strings.TrimSpace(username)) && rec.Day == day {
			out := rec
			return &out, nil
		}
	}
	return nil, nil
}

func (m *memRepo) DeleteByUser(_ context.Context, username string) (int64, error) {
	var n int64
	for id, rec := range m.recs {
		if strings.EqualFold(rec.Username, username) {
			delete(m.recs, id)
			n++
		}
	}
	return n, nil
}

func (m *memRepo) CountAll(context.Context) (int64, error)             { return int64(len(m.recs)), nil }
func (m *memRepo) CountOnDay(_ context.Context, day string) (int64, error) {
	var n int64
	for _, rec := range m.recs {
		if rec.Day == day {
			n++
		}
	}
	return n, nil
}
func (m *memRepo) CountSince(_ context.Context, day string) (int64, error) {
	var n int64
	for _, rec := range m.recs {
		if rec.Day >= day {
			n++
		}
	}
	return n, nil
}

// passTx satisfies TxRunner without a database
type passTx struct{}

func (passTx) Tx(_ context.Context, fn func(q store.RowQuerier) error) error { return fn(nil) }
func (passTx) Exec(context.Context, string, ...any) (store.CommandTag, error) {
	return nil, errors.New("not implemented")
}
func (passTx) Query(context.Context, string, ...any) (store.Rows, error) {
	return nil, errors.New("not implemented")
}
func (passTx) QueryRow(context.Context, string, ...any) store.Row { return nil }

func newSvc(m *memRepo) *Svc {
	binder := repokit.BindFunc[repo.Repo](func(repokit.Queryer) repo.Repo { return m })
	return New(passTx{}, binder, Options{Days: raidday.MustResolver("UTC")})
}

func futureDay(t *testing.T, s *Svc) string {
	t.Helper()
	today, err := raidday.Parse(s.days.Today())
	if err != nil {
		t.Fatalf("today parse: %v", err)
	}
	return raidday.NextWeekday(today, time.Friday).String()
}

func asUser(id string, admin bool) context.Context {
	ctx := pnet.WithUser(context.Background(), id)
	return pnet.WithAdmin(ctx, admin)
}

func TestCreate_HappyAndNormalization(t *testing.T) {
	t.Parallel()

	m := newMemRepo()
	s := newSvc(m)
	day := futureDay(t, s)

	delay := 30
	rec, err := s.Create(asUser("u1", false), "u1", domain.CreateInput{
		Username: "  Thrall ", Status: "late", Date: day, Reason: " traffic ", Delay: &delay,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.ID == "" || rec.UserID != "u1" {
		t.Fatalf("record identity: %+v", rec)
	}
	if rec.Username != "Thrall" || rec.Status != idom.StatusLate || rec.Reason != "traffic" {
		t.Fatalf("normalization: %+v", rec)
	}
	if rec.Delay == nil || *rec.Delay != 30 {
		t.Fatalf("delay = %v", rec.Delay)
	}

	// delay never survives on OUT
	rec2, err := s.Create(asUser("u2", false), "u2", domain.CreateInput{
		Username: "Jaina", Status: "OUT", Date: day, Delay: &delay,
	})
	if err != nil {
		t.Fatalf("Create OUT: %v", err)
	}
	if rec2.Delay != nil {
		t.Fatalf("delay on OUT = %d", *rec2.Delay)
	}
}

func TestCreate_Validation(t *testing.T) {
	t.Parallel()

	m := newMemRepo()
	s := newSvc(m)

	cases := []struct {
		name string
		in   domain.CreateInput
		want string
	}{
		{"bad status", domain.CreateInput{Username: "x", Status: "MAYBE", Date: "2999-01-01"}, "LATE or OUT"},
		{"bad date", domain.CreateInput{Username: "x", Status: "OUT", Date: "tomorrow"}, "format is invalid"},
		{"past date", domain.CreateInput{Username: "x", Status: "OUT", Date: "2020-01-01"}, "past year"},
		{"no username", domain.CreateInput{Status: "OUT", Date: "2999-01-01"}, "username"},
	}
	for _, c := range cases {
		_, err := s.Create(asUser("u1", false), "u1", c.in)
		if err == nil || !strings.Contains(err.Error(), c.want) {
			t.Fatalf("%s: err = %v want substring %q", c.name, err, c.want)
		}
	}
	if n, _ := m.CountAll(context.Background()); n != 0 {
		t.Fatalf("rejected creates persisted %d records", n)
	}
}

func TestCreate_DuplicateGuard(t *testing.T) {
	t.Parallel()

	m := newMemRepo()
	s := newSvc(m)
	day := futureDay(t, s)

	first, err := s.Create(asUser("u1", false), "u1", domain.CreateInput{
		Username: "Thrall", Status: "OUT", Date: day, Reason: "dr",
	})
	if err != nil {
		t.Fatalf("first create: %v", err)
	}

	// same user different case, same day: conflict carries the existing record
	_, err = s.Create(asUser("u1", false), "u1", domain.CreateInput{
		Username: "THRALL", Status: "LATE", Date: day,
	})
	if err == nil || !perr.IsCode(err, perr.ErrorCodeConflict) {
		t.Fatalf("err = %v want conflict", err)
	}
	var dup *domain.DuplicateError
	if !errors.As(err, &dup) {
		t.Fatalf("conflict does not carry DuplicateError: %v", err)
	}
	if dup.Existing.ID != first.ID || dup.Existing.Status != idom.StatusOut {
		t.Fatalf("existing = %+v", dup.Existing)
	}
	if n, _ := m.CountAll(context.Background()); n != 1 {
		t.Fatalf("conflicting create persisted, count = %d", n)
	}

	// replace affirmed: update in place, same id
	rec, err := s.Create(asUser("u1", false), "u1", domain.CreateInput{
		Username: "thrall", Status: "LATE", Date: day, Replace: true,
	})
	if err != nil {
		t.Fatalf("replace create: %v", err)
	}
	if rec.ID != first.ID {
		t.Fatalf("replace minted a new id %s want %s", rec.ID, first.ID)
	}
	if rec.Status != idom.StatusLate {
		t.Fatalf("replace status = %s", rec.Status)
	}
	if n, _ := m.CountAll(context.Background()); n != 1 {
		t.Fatalf("replace inserted instead of updating, count = %d", n)
	}
}

func TestUpdate_OwnershipAndRevalidation(t *testing.T) {
	t.Parallel()

	m := newMemRepo()
	s := newSvc(m)
	day := futureDay(t, s)

	rec, err := s.Create(asUser("owner", false), "owner", domain.CreateInput{
		Username: "Thrall", Status: "OUT", Date: day,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// stranger denied
	_, err = s.Update(asUser("stranger", false), rec.ID, domain.UpdateInput{Status: "LATE", Date: day})
	if err == nil || !perr.IsCode(err, perr.ErrorCodeForbidden) {
		t.Fatalf("stranger update err = %v want forbidden", err)
	}

	// past date rejected even for the owner
	_, err = s.Update(asUser("owner", false), rec.ID, domain.UpdateInput{Status: "LATE", Date: "2020-01-01"})
	if err == nil || !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("past-date update err = %v want validation", err)
	}

	// admin may edit someone else's record
	got, err := s.Update(asUser("boss", true), rec.ID, domain.UpdateInput{Status: "LATE", Date: day, Reason: "fixed"})
	if err != nil {
		t.Fatalf("admin update: %v", err)
	}
	if got.Status != idom.StatusLate || got.Reason != "fixed" {
		t.Fatalf("updated = %+v", got)
	}
}

func TestDelete_Ownership(t *testing.T) {
	t.Parallel()

	m := newMemRepo()
	s := newSvc(m)
	day := futureDay(t, s)

	rec, _ := s.Create(asUser("owner", false), "owner", domain.CreateInput{
		Username: "Thrall", Status: "OUT", Date: day,
	})

	if err := s.Delete(asUser("stranger", false), rec.ID); err == nil {
		t.Fatal("stranger delete should be forbidden")
	}
	if err := s.Delete(asUser("owner", false), rec.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if err := s.Delete(asUser("owner", false), rec.ID); err == nil {
		t.Fatal("second delete should be not found")
	}
}
