package domain

import (
	"context"

	idom "raidcall/internal/services/interpret/domain"
)

// WorkflowPort is the interface implemented by the confirmation workflow
type WorkflowPort interface {
	HandleMessage(ctx context.Context, ev MessageEvent) error
	HandleAction(ctx context.Context, ev ActionEvent) error
}

// Notifier delivers feedback to the member who sent the callout
// Implementations must be safe for concurrent use; failures are logged and swallowed
type Notifier interface {
	// Reply answers the original message, optionally offering the given choices
	Reply(ctx context.Context, messageRef, text string, choices []Action) error

	// Expire marks a previously presented confirmation as lapsed
	Expire(ctx context.Context, messageRef string) error
}

// Recorder commits a confirmed draft to durable storage
type Recorder interface {
	Record(ctx context.Context, requesterID, requesterName string, draft idom.Draft) error
}
