package models

import "time"

// User represents an account entity. The auth core only consumes UserID;
// the remaining fields belong to the sign-up and OAuth flows.
type User struct {
	// UserID is the UUID of the user.
	UserID string `json:"user_id"`

	// Email is the unique login identifier, also used to match OAuth
	// profiles to existing accounts.
	Email string `json:"email"`

	// Name is the display name of the user.
	Name string `json:"name"`

	// PasswordHash is the argon2id encoded password. Empty for accounts
	// created through an identity provider. Never serialized.
	PasswordHash string `json:"-"`

	// Provider is the method the account was created with.
	Provider LoginMethod `json:"provider"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}
