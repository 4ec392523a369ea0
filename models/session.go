package models

import "time"

// SessionRecord is the second-factor record created alongside every login.
// It shares SessionID with its LoginRecord and never expires on its own.
type SessionRecord struct {
	SessionID        string    `json:"session_id"`
	SessionToken     string    `json:"-"`
	UserAgent        string    `json:"user_agent"`
	Language         string    `json:"language"`
	Platform         string    `json:"platform"`
	ScreenResolution string    `json:"screen_resolution"`
	TimezoneOffset   *int      `json:"timezone_offset"`
	GeneratedAt      time.Time `json:"generated_at"`
	LastAccess       time.Time `json:"last_access"`
}

// TableName returns the name of the database table
// associated with the SessionRecord model.
func (s SessionRecord) TableName() string {
	return "sessions"
}

// ClientInfo carries the request attributes copied into a new session.
type ClientInfo struct {
	UserAgent      string
	AcceptLanguage string
	IPAddress      string
}
