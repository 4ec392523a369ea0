package models

import "time"

// Credentials is returned to the client after a successful login. All three
// values plus the user id must be presented on later requests.
type Credentials struct {
	UserID       string    `json:"userId"`
	AuthToken    string    `json:"authToken"`
	SessionToken string    `json:"sessionToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// PresentedCredentials are the credentials extracted from an inbound request.
type PresentedCredentials struct {
	AuthToken     string
	SessionToken  string
	ClaimedUserID string
}

// Principal is the identity the request gate attaches to an allowed request.
type Principal struct {
	UserID    string
	SessionID string
	Method    LoginMethod
}
