package store

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

import (
	"context"
	"time"

	"github.com/MKhiriev/pixshare/models"
)

// UserRepository persists accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
	FindUserByID(ctx context.Context, userID string) (models.User, error)
}

// LoginRepository persists login records and guarantees that at most one
// record per user is active.
type LoginRepository interface {
	// RecordLogin deactivates every active login of login.UserID, inserts
	// login as the active one and stores session, the session row paired
	// with it. Either all three happen or none does.
	RecordLogin(ctx context.Context, login models.LoginRecord, session models.SessionRecord) error
	// RevokeAll deactivates every login of userID. It returns
	// [ErrNoActiveLogin] when nothing was active.
	RevokeAll(ctx context.Context, userID string) error
	// LookupActive returns the active login matching userID and authToken
	// regardless of its expiry, or [ErrLoginNotFound].
	LookupActive(ctx context.Context, userID, authToken string) (models.LoginRecord, error)
	// ListLogins returns every login of userID, newest first.
	ListLogins(ctx context.Context, userID string) ([]models.LoginRecord, error)
}

// SessionRepository persists the second-factor session records.
type SessionRepository interface {
	RecordSession(ctx context.Context, session models.SessionRecord) error
	// LookupSession returns the session matching both values exactly, or
	// [ErrSessionNotFound].
	LookupSession(ctx context.Context, sessionID, sessionToken string) (models.SessionRecord, error)
	TouchSession(ctx context.Context, sessionID string, at time.Time) error
}

// ImageRepository persists image metadata.
type ImageRepository interface {
	SaveImage(ctx context.Context, image models.Image) error
	ListImages(ctx context.Context, userID string) ([]models.Image, error)
	FindImage(ctx context.Context, imageID string) (models.Image, error)
	DeleteImage(ctx context.Context, imageID, userID string) error
}
