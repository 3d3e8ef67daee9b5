// Package http provides http transport for callouts
package http

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"

	"raidcall/internal/modkit/httpkit"
	perr "raidcall/internal/platform/errors"
	"raidcall/internal/services/callouts/domain"
	svc "raidcall/internal/services/callouts/service"
)

// Register mounts the member-facing routes
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.Get(r, "/", h.list)
	httpkit.PostJSON[domain.CreateInput](r, "/", h.create)
	r.Put("/{id}", httpkit.JSON(h.update))
	httpkit.Delete(r, "/{id}", h.remove)
}

// RegisterBot mounts the bot commit path
// the caller wraps this router with the bot secret middleware
func RegisterBot(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.PostJSON[domain.CreateInput](r, "/callouts", h.botCreate)
	httpkit.Get(r, "/health", h.health)
}

type handlers struct{ svc svc.Service }

func (h *handlers) list(r *stdhttp.Request) (any, error) {
	return h.svc.List(r.Context())
}

func (h *handlers) create(r *stdhttp.Request, in domain.CreateInput) (any, error) {
	uid, err := httpkit.User(r)
	if err != nil {
		return nil, perr.Unauthorizedf("not authenticated")
	}
	return h.svc.Create(r.Context(), uid, in)
}

func (h *handlers) update(r *stdhttp.Request, in domain.UpdateInput) (any, error) {
	id := chi.URLParam(r, "id")
	if id == "" {
		return nil, perr.InvalidArgf("missing callout id")
	}
	return h.svc.Update(r.Context(), id, in)
}

func (h *handlers) remove(r *stdhttp.Request) (any, error) {
	id := chi.URLParam(r, "id")
	if id == "" {
		return nil, perr.InvalidArgf("missing callout id")
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		return nil, err
	}
	return map[string]any{"deleted": id}, nil
}

// botCreate commits with the sentinel submitter identity
func (h *handlers) botCreate(r *stdhttp.Request, in domain.CreateInput) (any, error) {
	return h.svc.Create(r.Context(), domain.BotSubmitter, in)
}

func (h *handlers) health(*stdhttp.Request) (any, error) {
	return map[string]string{"status": "ok"}, nil
}
