// Package raidday resolves and validates raid calendar days
// All days are plain YYYY-MM-DD strings in the server timezone
// Comparison relies on the lexicographic ordering of that format
package raidday

import (
	"regexp"
	"time"

	perr "raidcall/internal/platform/errors"
)

// Layout is the canonical wire format for raid days
const Layout = "2006-01-02"

var dayRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Day is a validated calendar day
type Day struct {
	t time.Time
}

// String returns the canonical YYYY-MM-DD form
func (d Day) String() string { return d.t.Format(Layout) }

// Time exposes the underlying midnight instant
func (d Day) Time() time.Time { return d.t }

// Weekday returns the day of week
func (d Day) Weekday() time.Weekday { return d.t.Weekday() }

// Resolver computes the current raid day in a fixed server timezone
// The zero value is unusable; build one with NewResolver
type Resolver struct {
	loc *time.Location
}

// NewResolver loads the named timezone, e.g. America/New_York
func NewResolver(tz string) (*Resolver, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "unknown timezone %q", tz)
	}
	return &Resolver{loc: loc}, nil
}

// MustResolver is NewResolver or panic, for main wiring
func MustResolver(tz string) *Resolver {
	r, err := NewResolver(tz)
	if err != nil {
		panic(err)
	}
	return r
}

// Location returns the server timezone
func (r *Resolver) Location() *time.Location { return r.loc }

// Today returns the current calendar day, recomputed on every call
func (r *Resolver) Today() string {
	return time.Now().In(r.loc).Format(Layout)
}

// IsWellFormed reports whether s is an exact YYYY-MM-DD real calendar date
func IsWellFormed(s string) bool {
	if !dayRe.MatchString(s) {
		return false
	}
	_, err := time.Parse(Layout, s)
	return err == nil
}

// Parse converts a well-formed day string into a Day
func Parse(s string) (Day, error) {
	if !dayRe.MatchString(s) {
		return Day{}, perr.Newf(perr.ErrorCodeValidation, "Date format is invalid or missing.")
	}
	t, err := time.Parse(Layout, s)
	if err != nil {
		return Day{}, perr.Newf(perr.ErrorCodeValidation, "Date format is invalid or missing.")
	}
	return Day{t: t}, nil
}

// ValidateNotPast parses s and rejects dates before asOf (itself a day string)
// The year check runs first so a stale-year date gets the year message
// even when it would also fail the plain past-date comparison
func ValidateNotPast(s, asOf string) (Day, error) {
	d, err := Parse(s)
	if err != nil {
		return Day{}, err
	}
	if len(asOf) >= 4 && s[:4] < asOf[:4] {
		return Day{}, perr.Newf(perr.ErrorCodeValidation,
			"Date cannot be from past year (%s). Please specify current year dates.", s[:4])
	}
	if s < asOf {
		return Day{}, perr.Newf(perr.ErrorCodeValidation,
			"Date cannot be in the past. Today is %s.", asOf)
	}
	return d, nil
}

// NextWeekday returns the next occurrence of wd strictly after asOf
// Saying "friday" on a Friday means the Friday a week out
func NextWeekday(asOf Day, wd time.Weekday) Day {
	delta := (int(wd) - int(asOf.Weekday()) + 7) % 7
	if delta == 0 {
		delta = 7
	}
	return Day{t: asOf.t.AddDate(0, 0, delta)}
}

// FormatHuman renders a day for confirmation prompts, e.g. "Friday, June 20, 2025"
func FormatHuman(d Day) string {
	return d.t.Format("Monday, January 2, 2006")
}
