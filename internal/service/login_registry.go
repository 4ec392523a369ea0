package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/pixshare/internal/logger"
	"github.com/MKhiriev/pixshare/internal/store"
	"github.com/MKhiriev/pixshare/internal/token"
	"github.com/MKhiriev/pixshare/models"
)

// DefaultLoginTTL is the login lifetime used when neither the request nor
// the configuration sets one.
const DefaultLoginTTL = 24 * time.Hour

const sessionIDBytes = 16

type loginRegistry struct {
	logins store.LoginRepository
	codec  token.Codec
	ttl    time.Duration
	now    func() time.Time
	logger *logger.Logger
}

// NewLoginRegistry returns a [LoginRegistry] minting tokens with codec and
// persisting logins in logins. ttl applies to requests without their own.
func NewLoginRegistry(logins store.LoginRepository, codec token.Codec, ttl time.Duration, logger *logger.Logger) LoginRegistry {
	if ttl <= 0 {
		ttl = DefaultLoginTTL
	}
	return &loginRegistry{
		logins: logins,
		codec:  codec,
		ttl:    ttl,
		now:    time.Now,
		logger: logger,
	}
}

func (r *loginRegistry) RecordLogin(ctx context.Context, req models.LoginRequest) (models.IssuedLogin, error) {
	log := logger.FromContext(ctx)

	if req.UserID == "" || !req.Method.Valid() {
		return models.IssuedLogin{}, ErrInvalidDataProvided
	}

	authToken, err := r.codec.Mint(req.UserID)
	if err != nil {
		log.Err(err).Str("func", "*loginRegistry.RecordLogin").Str("user_id", req.UserID).Msg("failed to mint auth token")
		return models.IssuedLogin{}, fmt.Errorf("failed to mint auth token: %w", err)
	}

	sessionID, err := token.RandomHex(sessionIDBytes)
	if err != nil {
		return models.IssuedLogin{}, fmt.Errorf("failed to generate session id: %w", err)
	}

	ttl := req.TTL
	if ttl <= 0 {
		ttl = r.ttl
	}
	now := r.now().UTC()

	login := models.LoginRecord{
		UserID:     req.UserID,
		SessionID:  sessionID,
		DeviceInfo: req.DeviceInfo,
		Method:     req.Method,
		AuthToken:  authToken,
		ExpiresAt:  now.Add(ttl),
		IPAddress:  req.IPAddress,
		IsLoggedIn: true,
		CreatedAt:  now,
	}
	if login.DeviceInfo == nil {
		login.DeviceInfo = models.DeviceInfo{}
	}

	session, err := newSessionRecord(sessionID, req.Client, now)
	if err != nil {
		return models.IssuedLogin{}, err
	}

	if err = r.logins.RecordLogin(ctx, login, session); err != nil {
		log.Err(err).Str("func", "*loginRegistry.RecordLogin").Str("user_id", req.UserID).Msg("failed to record login")
		return models.IssuedLogin{}, fmt.Errorf("failed to record login: %w", err)
	}

	log.Info().Str("user_id", req.UserID).Str("method", string(req.Method)).Str("session_id", sessionID).Msg("login recorded")

	return models.IssuedLogin{
		AuthToken:    authToken,
		SessionID:    sessionID,
		SessionToken: session.SessionToken,
		ExpiresAt:    login.ExpiresAt,
	}, nil
}

func (r *loginRegistry) RevokeAll(ctx context.Context, userID string) error {
	err := r.logins.RevokeAll(ctx, userID)
	switch {
	case err == nil:
		logger.FromContext(ctx).Info().Str("user_id", userID).Msg("logins revoked")
		return nil
	case errors.Is(err, store.ErrNoActiveLogin):
		return ErrNoActiveSession
	default:
		logger.FromContext(ctx).Err(err).Str("func", "*loginRegistry.RevokeAll").Str("user_id", userID).Msg("failed to revoke logins")
		return fmt.Errorf("failed to revoke logins: %w", err)
	}
}

func (r *loginRegistry) LookupActive(ctx context.Context, userID, authToken string) (models.LoginRecord, error) {
	return r.logins.LookupActive(ctx, userID, authToken)
}

func (r *loginRegistry) ListLogins(ctx context.Context, userID string) ([]models.LoginRecord, error) {
	logins, err := r.logins.ListLogins(ctx, userID)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*loginRegistry.ListLogins").Str("user_id", userID).Msg("failed to list logins")
		return nil, fmt.Errorf("failed to list logins: %w", err)
	}
	return logins, nil
}
