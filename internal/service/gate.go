package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/pixshare/internal/logger"
	"github.com/MKhiriev/pixshare/internal/store"
	"github.com/MKhiriev/pixshare/internal/token"
	"github.com/MKhiriev/pixshare/models"
)

type gate struct {
	codec    token.Codec
	logins   LoginRegistry
	sessions SessionRegistry
	now      func() time.Time
}

// NewGate returns the credential half of the request gate: token
// extraction, the user id cross-check and both registry lookups.
func NewGate(codec token.Codec, logins LoginRegistry, sessions SessionRegistry) Gate {
	return &gate{
		codec:    codec,
		logins:   logins,
		sessions: sessions,
		now:      time.Now,
	}
}

func (g *gate) Authenticate(ctx context.Context, creds models.PresentedCredentials) (models.Principal, error) {
	if creds.AuthToken == "" || creds.SessionToken == "" {
		return models.Principal{}, ErrMissingCredentials
	}

	userID, err := g.codec.Extract(creds.AuthToken)
	if err != nil {
		return models.Principal{}, ErrInvalidToken
	}

	if creds.ClaimedUserID != "" && subtle.ConstantTimeCompare([]byte(creds.ClaimedUserID), []byte(userID)) != 1 {
		return models.Principal{}, ErrUserMismatch
	}

	login, err := g.logins.LookupActive(ctx, userID, creds.AuthToken)
	switch {
	case errors.Is(err, store.ErrLoginNotFound):
		return models.Principal{}, ErrNotLoggedIn
	case err != nil:
		logger.FromContext(ctx).Err(err).Str("func", "*gate.Authenticate").Str("user_id", userID).Msg("login lookup failed")
		return models.Principal{}, fmt.Errorf("%w: %w", ErrInternal, err)
	}

	if login.Expired(g.now()) {
		return models.Principal{}, ErrLoginExpired
	}

	_, err = g.sessions.Lookup(ctx, login.SessionID, creds.SessionToken)
	switch {
	case errors.Is(err, store.ErrSessionNotFound):
		return models.Principal{}, ErrInvalidSession
	case err != nil:
		logger.FromContext(ctx).Err(err).Str("func", "*gate.Authenticate").Str("session_id", login.SessionID).Msg("session lookup failed")
		return models.Principal{}, fmt.Errorf("%w: %w", ErrInternal, err)
	}

	return models.Principal{
		UserID:    userID,
		SessionID: login.SessionID,
		Method:    login.Method,
	}, nil
}
