// Package domain holds guild roster core types independent of transport or storage
package domain

import "time"

// User is a guild member known to the roster
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	IsAdmin   bool      `json:"is_admin"`
	Protected bool      `json:"protected"`
	CreatedAt time.Time `json:"created_at"`
	LastSeen  time.Time `json:"last_seen"`

	// Token authenticates API calls; only returned to its owner on upsert
	Token string `json:"token,omitempty"`
}

// UpsertInput identifies a member seen on the chat platform
type UpsertInput struct {
	ID       string `json:"id"       validate:"required,min=1,max=64"`
	Username string `json:"username" validate:"required,min=1,max=64"`
}

// TimezoneBlock reports the server timezone and its current readings
type TimezoneBlock struct {
	Name  string `json:"name"`
	Now   string `json:"now"`
	Today string `json:"today"`
}

// Info is the admin dashboard summary
type Info struct {
	Users         int64         `json:"users"`
	Admins        int64         `json:"admins"`
	Callouts      int64         `json:"callouts"`
	CalloutsToday int64         `json:"callouts_today"`
	CalloutsWeek  int64         `json:"callouts_week"`
	Timezone      TimezoneBlock `json:"timezone"`
}
