package models

import (
	"time"
)

// LoginMethod is the way a login was authenticated.
type LoginMethod string

const (
	LoginMethodPassword LoginMethod = "password"
	LoginMethodGoogle   LoginMethod = "google"
	LoginMethodGitHub   LoginMethod = "github"
)

// Valid reports whether m is a known login method.
func (m LoginMethod) Valid() bool {
	switch m {
	case LoginMethodPassword, LoginMethodGoogle, LoginMethodGitHub:
		return true
	}
	return false
}

// DeviceInfo is the free-form client description stored with a login.
type DeviceInfo map[string]string

// LoginRecord is one login event. At most one record per user has
// IsLoggedIn set at any time.
type LoginRecord struct {
	UserID     string      `json:"user_id"`
	SessionID  string      `json:"session_id"`
	DeviceInfo DeviceInfo  `json:"device_info"`
	Method     LoginMethod `json:"method"`
	AuthToken  string      `json:"-"`
	ExpiresAt  time.Time   `json:"expires_at"`
	IPAddress  string      `json:"ip_address"`
	IsLoggedIn bool        `json:"is_logged_in"`
	CreatedAt  time.Time   `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the LoginRecord model.
func (l LoginRecord) TableName() string {
	return "logins"
}

// Expired reports whether the login is no longer valid at now.
func (l LoginRecord) Expired(now time.Time) bool {
	return !l.ExpiresAt.After(now)
}

// LoginRequest describes a login to record.
type LoginRequest struct {
	UserID     string
	Method     LoginMethod
	DeviceInfo DeviceInfo
	IPAddress  string
	// Client describes the device the session row is created for.
	Client ClientInfo
	TTL    time.Duration
}

// IssuedLogin is what recording a login hands back to the caller.
type IssuedLogin struct {
	AuthToken    string
	SessionID    string
	SessionToken string
	ExpiresAt    time.Time
}
