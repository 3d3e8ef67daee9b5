package domain

import "context"

// ServicePort is the interface implemented by the interpreter service
type ServicePort interface {
	// Interpret turns a raw chat message into a validated Draft
	// asOf is the current raid day in YYYY-MM-DD form
	Interpret(ctx context.Context, messageText, asOf string) (Draft, error)
}

// OraclePort is the language-model seam
// Complete sends one system+user exchange and returns the raw model text
type OraclePort interface {
	Complete(ctx context.Context, system, user string) (string, error)
}
