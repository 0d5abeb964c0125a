// Package models defines data structures shared across the application.
// File: models/event.go
package models

import "time"

// ----------------------- checkout rules -----------------------

// CheckoutMode controls when an attendee of a require-checkout event is
// allowed to check out.
type CheckoutMode string

const (
	// CheckoutAfterDuration allows checkout N minutes after check-in.
	CheckoutAfterDuration CheckoutMode = "after_duration"
	// CheckoutAtEndTime allows checkout once the event end time has passed.
	CheckoutAtEndTime CheckoutMode = "at_end_time"
)

// ------------------------ event model -----------------------

// Event is an event as served by the management backend, including the
// form templates attached to it.
type Event struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Description     string  `json:"description,omitempty"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	Location        string  `json:"location,omitempty"`
	Latitude        *float64 `json:"latitude,omitempty"`
	Longitude       *float64 `json:"longitude,omitempty"`
	Radius          *float64 `json:"radius,omitempty"` // metres
	MaxParticipants *int    `json:"max_participants,omitempty"`
	EventType       string  `json:"event_type"`

	// LocationValidation gates check-in on the attendee position.
	LocationValidation bool `json:"location_validation"`

	RequireCheckout  bool         `json:"require_checkout"`
	CheckoutMode     CheckoutMode `json:"checkout_mode,omitempty"`
	CheckoutDuration *int         `json:"checkout_duration,omitempty"` // minutes, only for after_duration

	Visibility string   `json:"visibility"`
	SeriesID   *string  `json:"series_id,omitempty"`
	TemplateIDs []string `json:"template_ids,omitempty"`

	Templates []RegistrationTemplate `json:"templates,omitempty"`

	QRCodeURL *string    `json:"qrcode_url,omitempty"`
	CreatedBy int        `json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// IsActive reports whether now falls inside the event's activity window.
// The boundary is inclusive on both ends.
func (e *Event) IsActive(now time.Time) bool {
	return !now.Before(e.StartTime) && !now.After(e.EndTime)
}

// HasGeofence reports whether the event carries a complete geofence.
// The three location fields are all-or-none; a partially configured
// geofence is treated as absent.
func (e *Event) HasGeofence() bool {
	return e.LocationValidation && e.Latitude != nil && e.Longitude != nil && e.Radius != nil
}

// ------------------------ event stats -----------------------

// EventStats summarises attendance for a single event.
type EventStats struct {
	Total      int  `json:"total"`
	CheckedIn  *int `json:"checked_in,omitempty"`
	CheckedOut *int `json:"checked_out,omitempty"`
}
