// Package recorder commits confirmed drafts through the API bot path
package recorder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	perr "raidcall/internal/platform/errors"
	cdom "raidcall/internal/services/callouts/domain"
	"raidcall/internal/services/confirm/domain"
	idom "raidcall/internal/services/interpret/domain"
)

// API posts confirmed callouts to the raidcall API bot surface
type API struct {
	baseURL string
	secret  string
	client  *http.Client
}

// New constructs the API recorder
func New(baseURL, secret string) *API {
	return &API{
		baseURL: strings.TrimRight(baseURL, "/"),
		secret:  secret,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// envelope mirrors the API response shape, only the fields we read
type envelope struct {
	Error string `json:"error"`
}

// Record commits the draft; a confirmed callout replaces any existing
// one for the same member and day
func (a *API) Record(ctx context.Context, _ string, requesterName string, draft idom.Draft) error {
	in := cdom.CreateInput{
		Username: requesterName,
		Status:   string(draft.Status),
		Date:     draft.Date,
		Reason:   draft.Reason,
		Delay:    draft.Delay,
		Replace:  true,
	}
	body, err := json.Marshal(in)
	if err != nil {
		return perr.Internalf("encode callout: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		a.baseURL+"/api/v1/bot/callouts", bytes.NewReader(body))
	if err != nil {
		return perr.Internalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Bot-Secret", a.secret)

	res, err := a.client.Do(req)
	if err != nil {
		return perr.Unavailablef("callout service unreachable: %v", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode >= 200 && res.StatusCode < 300 {
		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
	var env envelope
	if jsonErr := json.Unmarshal(raw, &env); jsonErr == nil && env.Error != "" {
		return perr.Newf(codeFor(res.StatusCode), "%s", env.Error)
	}
	return perr.Newf(codeFor(res.StatusCode), "callout service returned %s", res.Status)
}

func codeFor(status int) perr.ErrorCode {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return perr.ErrorCodeValidation
	case http.StatusUnauthorized:
		return perr.ErrorCodeUnauthorized
	case http.StatusForbidden:
		return perr.ErrorCodeForbidden
	case http.StatusConflict:
		return perr.ErrorCodeConflict
	default:
		return perr.ErrorCodeUnavailable
	}
}

var _ domain.Recorder = (*API)(nil)

// String identifies the target for logs
func (a *API) String() string { return fmt.Sprintf("recorder(%s)", a.baseURL) }
