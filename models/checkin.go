// Package models defines data structures shared across the application.
// File: models/checkin.go
package models

import "time"

// ----------------------- checkin record -----------------------

// Checkin is one attendance record for a (user, event) pair. It is
// created by the first successful check-in call and mutated (checkout
// time set) by a later check-out call against the same record.
type Checkin struct {
	ID           int            `json:"id"`
	UserID       int            `json:"user_id"`
	EventID      string         `json:"event_id"`
	CheckinTime  time.Time      `json:"checkin_time"`
	CheckoutTime *time.Time     `json:"checkout_time,omitempty"`
	Geolocation  *string        `json:"geolocation,omitempty"` // "<lat>,<lon>"
	DynamicData  map[string]any `json:"dynamic_data,omitempty"`
	Status       string         `json:"status"`
	IsValid      bool           `json:"is_valid"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    *time.Time     `json:"updated_at,omitempty"`
}

// CheckedOut reports whether this record already carries a checkout time.
func (c *Checkin) CheckedOut() bool {
	return c.CheckoutTime != nil
}

// ----------------------- wire payloads -----------------------

// CheckinCreate is the POST /checkins request body. Geolocation is the
// comma-joined "<lat>,<lon>" string the backend expects; ProfileData is
// omitted entirely when empty so existing profile values are never
// clobbered with nothing.
type CheckinCreate struct {
	UserID      int            `json:"user_id"`
	EventID     string         `json:"event_id"`
	Geolocation string         `json:"geolocation,omitempty"`
	DynamicData map[string]any `json:"dynamic_data,omitempty"`
	ProfileData map[string]any `json:"profile_data,omitempty"`
}

// ValidateRequest is the POST /checkins/validate request body.
type ValidateRequest struct {
	UserID  int    `json:"user_id"`
	EventID string `json:"event_id"`
}

// ValidateResponse is the backend's eligibility advisory. Message is
// free text; the resolver translates it into a discrete phase.
type ValidateResponse struct {
	Valid   bool      `json:"valid"`
	Message string    `json:"message"`
	User    *UserInfo `json:"user,omitempty"`
	Checkin *Checkin  `json:"checkin,omitempty"`
}
