package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/pixshare/internal/logger"
	"github.com/MKhiriev/pixshare/internal/store"
	"github.com/MKhiriev/pixshare/internal/utils"
	"github.com/MKhiriev/pixshare/models"
)

// authService is the concrete implementation of AuthService. It owns the
// login-issuing flows: every successful sign-up, password login or OAuth
// callback ends in one RecordLogin, which also stores the session row.
type authService struct {
	users    store.UserRepository
	logins LoginRegistry
	hasher PasswordHasher
	ids    *utils.UUIDGenerator

	logger *logger.Logger
}

// NewAuthService constructs an AuthService. The returned service is safe for
// concurrent use.
func NewAuthService(users store.UserRepository, logins LoginRegistry, hasher PasswordHasher, logger *logger.Logger) AuthService {
	return &authService{
		users:  users,
		logins: logins,
		hasher: hasher,
		ids:    utils.NewUUIDGenerator(),
		logger: logger,
	}
}

// SignUp creates a password account and logs it in.
//
// Returns:
//   - ErrInvalidDataProvided if the email or password is missing.
//   - ErrUserAlreadyExists if the email is taken.
func (a *authService) SignUp(ctx context.Context, req models.SignUpRequest, client models.ClientInfo) (models.Credentials, error) {
	log := logger.FromContext(ctx)

	email := normalizeEmail(req.Email)
	if !validEmail(email) || req.Password == "" {
		log.Error().Str("email", email).Msg("invalid sign-up data provided")
		return models.Credentials{}, ErrInvalidDataProvided
	}

	hash, err := a.hasher.Hash(req.Password)
	if err != nil {
		return models.Credentials{}, fmt.Errorf("password hashing failed: %w", err)
	}

	user, err := a.users.CreateUser(ctx, models.User{
		UserID:       a.ids.Generate(),
		Email:        email,
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: hash,
		Provider:     models.LoginMethodPassword,
	})
	if errors.Is(err, store.ErrUserAlreadyExists) {
		return models.Credentials{}, ErrUserAlreadyExists
	}
	if err != nil {
		log.Err(err).Str("email", email).Msg("user creation ended with error")
		return models.Credentials{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	return a.issue(ctx, user.UserID, models.LoginMethodPassword, nil, client)
}

// Login checks the password of an existing account. Unknown emails and
// wrong passwords both yield ErrWrongCredentials.
func (a *authService) Login(ctx context.Context, req models.SignInRequest, client models.ClientInfo) (models.Credentials, error) {
	log := logger.FromContext(ctx)

	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return models.Credentials{}, ErrInvalidDataProvided
	}

	user, err := a.users.FindUserByEmail(ctx, email)
	if errors.Is(err, store.ErrUserNotFound) {
		return models.Credentials{}, ErrWrongCredentials
	}
	if err != nil {
		log.Err(err).Str("email", email).Msg("user search by email failed")
		return models.Credentials{}, fmt.Errorf("user search by email failed: %w", err)
	}

	// accounts created through an identity provider have no password
	if user.PasswordHash == "" {
		return models.Credentials{}, ErrWrongCredentials
	}

	ok, err := a.hasher.Compare(user.PasswordHash, req.Password)
	if err != nil {
		log.Err(err).Str("user_id", user.UserID).Msg("stored password hash is unreadable")
		return models.Credentials{}, fmt.Errorf("password check failed: %w", err)
	}
	if !ok {
		log.Warn().Str("user_id", user.UserID).Str("ip", client.IPAddress).Msg("wrong password")
		return models.Credentials{}, ErrWrongCredentials
	}

	return a.issue(ctx, user.UserID, models.LoginMethodPassword, req.Device, client)
}

// OAuthLogin logs in the account matching the provider profile email,
// creating it first when needed. The profile is trusted as is.
func (a *authService) OAuthLogin(ctx context.Context, profile models.OAuthProfile, client models.ClientInfo) (models.Credentials, error) {
	log := logger.FromContext(ctx)

	email := normalizeEmail(profile.Email)
	if !validEmail(email) || !profile.Provider.Valid() {
		return models.Credentials{}, ErrInvalidDataProvided
	}

	user, err := a.users.FindUserByEmail(ctx, email)
	if errors.Is(err, store.ErrUserNotFound) {
		user, err = a.users.CreateUser(ctx, models.User{
			UserID:   a.ids.Generate(),
			Email:    email,
			Name:     profile.Name,
			Provider: profile.Provider,
		})
		// lost a race with a concurrent first login of the same account
		if errors.Is(err, store.ErrUserAlreadyExists) {
			user, err = a.users.FindUserByEmail(ctx, email)
		}
	}
	if err != nil {
		log.Err(err).Str("email", email).Str("provider", string(profile.Provider)).Msg("oauth account resolution failed")
		return models.Credentials{}, fmt.Errorf("oauth account resolution failed: %w", err)
	}

	device := models.DeviceInfo{"provider_subject": profile.Subject}
	return a.issue(ctx, user.UserID, profile.Provider, device, client)
}

func (a *authService) Logout(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrInvalidDataProvided
	}
	return a.logins.RevokeAll(ctx, userID)
}

// Logins lists every login of userID, newest first, so a user can see the
// devices that signed in to the account.
func (a *authService) Logins(ctx context.Context, userID string) ([]models.LoginRecord, error) {
	if userID == "" {
		return nil, ErrInvalidDataProvided
	}
	return a.logins.ListLogins(ctx, userID)
}

func (a *authService) issue(ctx context.Context, userID string, method models.LoginMethod, device models.DeviceInfo, client models.ClientInfo) (models.Credentials, error) {
	issued, err := a.logins.RecordLogin(ctx, models.LoginRequest{
		UserID:     userID,
		Method:     method,
		DeviceInfo: device,
		IPAddress:  client.IPAddress,
		Client:     client,
	})
	if err != nil {
		return models.Credentials{}, err
	}

	return models.Credentials{
		UserID:       userID,
		AuthToken:    issued.AuthToken,
		SessionToken: issued.SessionToken,
		ExpiresAt:    issued.ExpiresAt,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	at := strings.LastIndex(email, "@")
	return at > 0 && at < len(email)-1
}
