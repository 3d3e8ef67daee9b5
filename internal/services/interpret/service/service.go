// Package service contains the callout interpretation pipeline
package service

import (
	"context"
	"encoding/json"
	"strings"

	"raidcall/internal/core/raidday"
	perr "raidcall/internal/platform/errors"
	"raidcall/internal/platform/logger"
	"raidcall/internal/services/interpret/domain"
)

// Service is the public service port
type Service interface{ domain.ServicePort }

// Svc implements the service port
type Svc struct {
	oracle domain.OraclePort
}

// Options control service construction
type Options struct {
	// Oracle is required
	Oracle domain.OraclePort
}

// New constructs the service
func New(opt Options) *Svc {
	if opt.Oracle == nil {
		panic("interpret.Service requires a non nil OraclePort")
	}
	return &Svc{oracle: opt.Oracle}
}

// oracleReply is the JSON shape the model is instructed to return
type oracleReply struct {
	Error  string          `json:"error"`
	Status string          `json:"status"`
	Date   string          `json:"date"`
	Reason json.RawMessage `json:"reason"`
	Delay  json.RawMessage `json:"delay"`
}

// Interpret turns a raw chat message into a validated Draft
// Every failure carries the user-facing message in the error text
func (s *Svc) Interpret(ctx context.Context, messageText, asOf string) (domain.Draft, error) {
	text := strings.TrimSpace(messageText)
	if len(text) < 4 {
		return domain.Draft{}, perr.Newf(perr.ErrorCodeValidation, "Message too short or invalid.")
	}

	day, err := raidday.Parse(asOf)
	if err != nil {
		return domain.Draft{}, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "bad asOf day %q", asOf)
	}

	raw, err := s.oracle.Complete(ctx, systemPrompt(day), text)
	if err != nil {
		logger.C(ctx).Warn().Err(err).Msg("oracle call failed")
		return domain.Draft{}, perr.Wrapf(err, perr.ErrorCodeUnavailable,
			"Could not interpret your message right now. Please try rephrasing.")
	}

	reply, err := parseReply(raw)
	if err != nil {
		return domain.Draft{}, err
	}

	if reply.Error != "" {
		// the model self-reported failure; surface its reason verbatim
		return domain.Draft{}, perr.Newf(perr.ErrorCodeValidation, "%s", reply.Error)
	}
	if reply.Status == "" || reply.Date == "" {
		return domain.Draft{}, perr.Newf(perr.ErrorCodeValidation, "Missing required fields.")
	}

	status := domain.Status(strings.ToUpper(reply.Status))
	if !status.Valid() {
		return domain.Draft{}, perr.Newf(perr.ErrorCodeValidation, "Status must be LATE or OUT.")
	}

	if _, err := raidday.ValidateNotPast(reply.Date, asOf); err != nil {
		return domain.Draft{}, err
	}

	d := domain.Draft{
		Status: status,
		Date:   reply.Date,
		Reason: reasonOf(reply.Reason),
	}
	if status == domain.StatusLate {
		d.Delay = delayOf(reply.Delay)
	}
	return d, nil
}

// parseReply strips code fences and decodes the single JSON object
func parseReply(raw string) (oracleReply, error) {
	cleaned := strings.Trim(raw, " \t\r\n`")
	cleaned = strings.TrimSpace(strings.TrimPrefix(cleaned, "json"))
	cleaned = strings.TrimSpace(strings.TrimPrefix(cleaned, "JSON"))

	var r oracleReply
	if err := json.Unmarshal([]byte(cleaned), &r); err != nil {
		return oracleReply{}, perr.Newf(perr.ErrorCodeValidation, "Could not parse response: %s", strings.TrimSpace(raw))
	}
	return r, nil
}

// reasonOf coerces the optional reason field; anything non-string becomes ""
func reasonOf(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// delayOf coerces the optional delay field; non-numeric or non-positive values are dropped
func delayOf(raw json.RawMessage) *int {
	if len(raw) == 0 {
		return nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil
	}
	n := int(f)
	if n <= 0 {
		return nil
	}
	return &n
}
