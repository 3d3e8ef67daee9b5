// Package domain holds confirmation workflow core types
package domain

import (
	"time"

	idom "raidcall/internal/services/interpret/domain"
)

// Action is a button press on a presented confirmation
type Action string

const (
	// ActionConfirm commits the pending draft
	ActionConfirm Action = "confirm"

	// ActionEdit asks the member to send a corrected message
	ActionEdit Action = "edit"

	// ActionCancel discards the pending draft
	ActionCancel Action = "cancel"
)

// Pending is a draft waiting for its requester's decision
type Pending struct {
	ID            string
	RequesterID   string
	RequesterName string
	Draft         idom.Draft
	MessageRef    string
	CreatedAt     time.Time
}

// MessageEvent is an inbound chat message from the gateway
type MessageEvent struct {
	AuthorID   string
	AuthorName string
	AuthorBot  bool
	Text       string
	MessageRef string
}

// ActionEvent is an inbound button press from the gateway
type ActionEvent struct {
	Action         Action
	ConfirmationID string
	ActorID        string
}
