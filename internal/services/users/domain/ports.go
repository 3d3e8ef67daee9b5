package domain

import "context"

// ServicePort is the interface implemented by the users service
type ServicePort interface {
	// Upsert records a member sighting, minting a token on first contact
	Upsert(ctx context.Context, in UpsertInput) (User, error)

	// Resolve maps an API token to its owner
	Resolve(ctx context.Context, token string) (User, error)

	// List returns the roster
	List(ctx context.Context) ([]User, error)

	// Promote grants admin to the named user
	Promote(ctx context.Context, id string) (User, error)

	// Demote revokes admin; the acting admin cannot demote themselves
	Demote(ctx context.Context, id string) (User, error)

	// Delete removes a user and their callouts; guarded against
	// self-deletion and protected owners
	Delete(ctx context.Context, id string) error

	// Info summarizes roster and callout counts for the admin dashboard
	Info(ctx context.Context) (Info, error)
}
