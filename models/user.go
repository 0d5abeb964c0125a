// Package models defines data structures shared across the application.
// File: models/user.go
package models

import "time"

// User is an attendee identified through LINE login. ProfileData
// accumulates profile_extension answers across events; once a field is
// set there it is not asked again.
type User struct {
	ID          int            `json:"id"`
	LineUserID  string         `json:"line_user_id"`
	Name        string         `json:"name"`
	Phone       string         `json:"phone"`
	Company     string         `json:"company"`
	Department  string         `json:"department"`
	ProfileData map[string]any `json:"profile_data,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   *time.Time     `json:"updated_at,omitempty"`
}

// HasProfileValue reports whether the user already supplied a non-empty
// value for the named profile field.
func (u *User) HasProfileValue(name string) bool {
	if u == nil || u.ProfileData == nil {
		return false
	}
	v, ok := u.ProfileData[name]
	if !ok {
		return false
	}
	return v != "" && v != nil
}

// UserInfo is the trimmed user block the validate endpoint returns.
type UserInfo struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Company    string `json:"company"`
	Department string `json:"department"`
}
