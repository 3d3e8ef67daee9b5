// Package domain holds callout record core types independent of transport or storage
package domain

import (
	"time"

	idom "raidcall/internal/services/interpret/domain"
)

// BotSubmitter is the sentinel identity for records committed through the bot path
const BotSubmitter = "bot"

// Record is a stored attendance callout
type Record struct {
	ID        string      `json:"id"`
	UserID    string      `json:"user_id"`
	Username  string      `json:"username"`
	Status    idom.Status `json:"status"`
	Day       string      `json:"date"`
	Reason    string      `json:"reason"`
	Delay     *int        `json:"delay,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// CreateInput is the payload for creating a callout
type CreateInput struct {
	Username string `json:"username" validate:"required,min=1,max=64"`
	Status   string `json:"status"   validate:"required,oneof=LATE OUT late out"`
	Date     string `json:"date"     validate:"required"`
	Reason   string `json:"reason"   validate:"max=256"`
	Delay    *int   `json:"delay"    validate:"omitempty,gt=0"`

	// Replace affirms overwriting an existing callout for the same user and day
	Replace bool `json:"replace"`
}

// UpdateInput is the payload for editing a callout
type UpdateInput struct {
	Status string `json:"status" validate:"required,oneof=LATE OUT late out"`
	Date   string `json:"date"   validate:"required"`
	Reason string `json:"reason" validate:"max=256"`
	Delay  *int   `json:"delay"  validate:"omitempty,gt=0"`
}
