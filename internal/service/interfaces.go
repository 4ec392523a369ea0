package service

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

import (
	"context"
	"io"
	"time"

	"github.com/MKhiriev/pixshare/models"
)

// LoginRegistry issues and tracks logins. At most one login per user is
// active at any time.
type LoginRegistry interface {
	// RecordLogin mints an auth token, deactivates every earlier login of
	// the user and stores the new one as active together with its session
	// row. It is atomic: on error the earlier login is still active.
	RecordLogin(ctx context.Context, req models.LoginRequest) (models.IssuedLogin, error)
	// RevokeAll deactivates every login of userID or returns
	// [ErrNoActiveSession].
	RevokeAll(ctx context.Context, userID string) error
	// LookupActive returns the active login for the pair without checking
	// its expiry.
	LookupActive(ctx context.Context, userID, authToken string) (models.LoginRecord, error)
	// ListLogins returns every login of userID, newest first.
	ListLogins(ctx context.Context, userID string) ([]models.LoginRecord, error)
}

// SessionRegistry issues and validates the second-factor session tokens.
type SessionRegistry interface {
	RecordSession(ctx context.Context, sessionID string, client models.ClientInfo) (string, error)
	Lookup(ctx context.Context, sessionID, sessionToken string) (models.SessionRecord, error)
}

// Gate decides whether presented credentials identify a logged-in user.
type Gate interface {
	Authenticate(ctx context.Context, creds models.PresentedCredentials) (models.Principal, error)
}

type AuthService interface {
	SignUp(ctx context.Context, req models.SignUpRequest, client models.ClientInfo) (models.Credentials, error)
	Login(ctx context.Context, req models.SignInRequest, client models.ClientInfo) (models.Credentials, error)
	OAuthLogin(ctx context.Context, profile models.OAuthProfile, client models.ClientInfo) (models.Credentials, error)
	Logout(ctx context.Context, userID string) error
	Logins(ctx context.Context, userID string) ([]models.LoginRecord, error)
}

type ImageService interface {
	Upload(ctx context.Context, userID, fileName string, content []byte) (models.Image, error)
	List(ctx context.Context, userID string) ([]models.Image, error)
	Delete(ctx context.Context, userID, imageID string) error
	// Raw streams the stored blob at path together with its content type.
	Raw(ctx context.Context, path string) (io.ReadCloser, string, error)
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}

// SessionToucher records session activity off the request path.
type SessionToucher interface {
	Touch(sessionID string, at time.Time)
}

// PasswordHasher hashes and checks account passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(encodedHash, password string) (bool, error)
}
