// Package http serves the timezone endpoints
// the server timezone is authoritative for stored raid days
package http

import (
	stdhttp "net/http"
	"time"

	"raidcall/internal/core/raidday"
	"raidcall/internal/modkit/httpkit"
	perr "raidcall/internal/platform/errors"
)

// Register mounts the timezone routes
func Register(r httpkit.Router, days *raidday.Resolver) {
	h := &handlers{days: days}
	httpkit.Get(r, "/info", h.info)
	httpkit.PostJSON[ValidateInput](r, "/validate", h.validate)
	httpkit.PostJSON[ConvertInput](r, "/convert", h.convert)
}

// ValidateInput names an IANA timezone to check
type ValidateInput struct {
	Name string `json:"name" validate:"required,min=1,max=64"`
}

// ConvertInput carries a calendar day in a source timezone
type ConvertInput struct {
	Date string `json:"date" validate:"required"`
	From string `json:"from" validate:"required,min=1,max=64"`
}

type handlers struct{ days *raidday.Resolver }

type zoneBlock struct {
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
	Now          string `json:"now"`
	Today        string `json:"today"`
}

func (h *handlers) info(*stdhttp.Request) (any, error) {
	loc := h.days.Location()
	now := time.Now().In(loc)
	abbr, _ := now.Zone()
	return zoneBlock{
		Name:         loc.String(),
		Abbreviation: abbr,
		Now:          now.Format(time.RFC3339),
		Today:        h.days.Today(),
	}, nil
}

func (h *handlers) validate(r *stdhttp.Request, in ValidateInput) (any, error) {
	loc, err := time.LoadLocation(in.Name)
	if err != nil {
		return map[string]any{"name": in.Name, "valid": false}, nil
	}
	abbr, _ := time.Now().In(loc).Zone()
	return map[string]any{"name": in.Name, "valid": true, "abbreviation": abbr}, nil
}

// convert maps a calendar day in the source zone to the server zone,
// anchored at UTC midnight of that day
func (h *handlers) convert(r *stdhttp.Request, in ConvertInput) (any, error) {
	day, err := raidday.Parse(in.Date)
	if err != nil {
		return nil, err
	}
	if _, err := time.LoadLocation(in.From); err != nil {
		return nil, perr.InvalidArgf("unknown timezone %q", in.From)
	}
	converted := day.Time().In(h.days.Location()).Format(raidday.Layout)
	return map[string]any{
		"date":      in.Date,
		"from":      in.From,
		"to":        h.days.Location().String(),
		"converted": converted,
	}, nil
}
