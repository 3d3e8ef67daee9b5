package domain

import "context"

// ServicePort is the interface implemented by the callouts service
type ServicePort interface {
	// List returns all callouts newest raid day first
	List(ctx context.Context) ([]Record, error)

	// Create stores a new callout for the acting user
	// submitterID is the session user or BotSubmitter on the bot path
	Create(ctx context.Context, submitterID string, in CreateInput) (Record, error)

	// Update edits an existing callout; owner or admin only
	Update(ctx context.Context, id string, in UpdateInput) (Record, error)

	// Delete removes a callout; owner or admin only
	Delete(ctx context.Context, id string) error

	// FindConflict returns the existing callout for the same user and day, if any
	// excludeID skips the record being edited
	FindConflict(ctx context.Context, username, day, excludeID string) (*Record, error)
}
