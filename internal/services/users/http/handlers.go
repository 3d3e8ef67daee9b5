// Package http provides http transport for the users admin surface
package http

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"

	"raidcall/internal/modkit/httpkit"
	perr "raidcall/internal/platform/errors"
	"raidcall/internal/services/users/domain"
	svc "raidcall/internal/services/users/service"
)

// Register mounts the admin roster routes
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.Get(r, "/users", h.list)
	httpkit.Post(r, "/users/{id}/promote", h.promote)
	httpkit.Post(r, "/users/{id}/demote", h.demote)
	httpkit.Delete(r, "/users/{id}", h.remove)
	httpkit.Get(r, "/info", h.info)
}

// RegisterBot mounts the roster sighting path
// the caller wraps this router with the bot secret middleware
func RegisterBot(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.PostJSON[domain.UpsertInput](r, "/users", h.upsert)
}

type handlers struct{ svc svc.Service }

// upsert records a member sighting; the response carries their API token
func (h *handlers) upsert(r *stdhttp.Request, in domain.UpsertInput) (any, error) {
	return h.svc.Upsert(r.Context(), in)
}

func (h *handlers) list(r *stdhttp.Request) (any, error) {
	return h.svc.List(r.Context())
}

func (h *handlers) promote(r *stdhttp.Request) (any, error) {
	id := chi.URLParam(r, "id")
	if id == "" {
		return nil, perr.InvalidArgf("missing user id")
	}
	return h.svc.Promote(r.Context(), id)
}

func (h *handlers) demote(r *stdhttp.Request) (any, error) {
	id := chi.URLParam(r, "id")
	if id == "" {
		return nil, perr.InvalidArgf("missing user id")
	}
	return h.svc.Demote(r.Context(), id)
}

func (h *handlers) remove(r *stdhttp.Request) (any, error) {
	id := chi.URLParam(r, "id")
	if id == "" {
		return nil, perr.InvalidArgf("missing user id")
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		return nil, err
	}
	return map[string]any{"deleted": id}, nil
}

func (h *handlers) info(r *stdhttp.Request) (any, error) {
	return h.svc.Info(r.Context())
}
