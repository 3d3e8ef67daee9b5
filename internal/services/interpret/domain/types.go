// Package domain holds interpreter core types independent of transport
package domain

// Status is the attendance state extracted from a callout message
type Status string

const (
	// StatusLate means the member will be late to the raid
	StatusLate Status = "LATE"

	// StatusOut means the member misses the raid entirely
	StatusOut Status = "OUT"
)

// Valid reports whether s is a known status
func (s Status) Valid() bool { return s == StatusLate || s == StatusOut }

// Draft is a fully validated interpretation of a callout message
// Delay is minutes late and only meaningful for LATE
type Draft struct {
	Status Status `json:"status"`
	Date   string `json:"date"`
	Reason string `json:"reason"`
	Delay  *int   `json:"delay,omitempty"`
}
