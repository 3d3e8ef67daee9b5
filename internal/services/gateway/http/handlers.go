// Package http is the inbound chat event surface for the bot gateway
// the caller wraps this router with the bot secret middleware
package http

import (
	stdhttp "net/http"

	"raidcall/internal/modkit/httpkit"
	cdom "raidcall/internal/services/confirm/domain"
)

// MessageInput is an inbound chat message
type MessageInput struct {
	AuthorID   string `json:"author_id"   validate:"required,min=1,max=64"`
	AuthorName string `json:"author_name" validate:"required,min=1,max=64"`
	AuthorBot  bool   `json:"author_bot"`
	Text       string `json:"text"        validate:"max=2000"`
	MessageRef string `json:"message_ref" validate:"required,min=1,max=128"`
}

// ActionInput is an inbound button press on a presented confirmation
type ActionInput struct {
	Action         string `json:"action"          validate:"required,oneof=confirm edit cancel"`
	ConfirmationID string `json:"confirmation_id" validate:"required,min=1,max=128"`
	ActorID        string `json:"actor_id"        validate:"required,min=1,max=64"`
}

// Register mounts the event routes feeding the workflow
func Register(r httpkit.Router, wf cdom.WorkflowPort) {
	h := &handlers{wf: wf}
	httpkit.PostJSON[MessageInput](r, "/events/message", h.message)
	httpkit.PostJSON[ActionInput](r, "/events/action", h.action)
	httpkit.Get(r, "/health", h.health)
}

type handlers struct{ wf cdom.WorkflowPort }

func (h *handlers) message(r *stdhttp.Request, in MessageInput) (any, error) {
	err := h.wf.HandleMessage(r.Context(), cdom.MessageEvent{
		AuthorID:   in.AuthorID,
		AuthorName: in.AuthorName,
		AuthorBot:  in.AuthorBot,
		Text:       in.Text,
		MessageRef: in.MessageRef,
	})
	if err != nil {
		return nil, err
	}
	return map[string]any{"accepted": true}, nil
}

func (h *handlers) action(r *stdhttp.Request, in ActionInput) (any, error) {
	err := h.wf.HandleAction(r.Context(), cdom.ActionEvent{
		Action:         cdom.Action(in.Action),
		ConfirmationID: in.ConfirmationID,
		ActorID:        in.ActorID,
	})
	if err != nil {
		return nil, err
	}
	return map[string]any{"accepted": true}, nil
}

func (h *handlers) health(*stdhttp.Request) (any, error) {
	return map[string]string{"status": "ok"}, nil
}
