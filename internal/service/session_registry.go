package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/pixshare/internal/logger"
	"github.com/MKhiriev/pixshare/internal/store"
	"github.com/MKhiriev/pixshare/internal/token"
	"github.com/MKhiriev/pixshare/models"
)

const sessionTokenBytes = 32

type sessionRegistry struct {
	sessions store.SessionRepository
	toucher  SessionToucher
	now      func() time.Time
	logger   *logger.Logger
}

// NewSessionRegistry returns a [SessionRegistry]. Successful lookups are
// reported to toucher, which may be nil.
func NewSessionRegistry(sessions store.SessionRepository, toucher SessionToucher, logger *logger.Logger) SessionRegistry {
	return &sessionRegistry{
		sessions: sessions,
		toucher:  toucher,
		now:      time.Now,
		logger:   logger,
	}
}

// RecordSession stores a new session under sessionID and returns its token.
func (r *sessionRegistry) RecordSession(ctx context.Context, sessionID string, client models.ClientInfo) (string, error) {
	log := logger.FromContext(ctx)

	if sessionID == "" {
		return "", ErrInvalidDataProvided
	}

	session, err := newSessionRecord(sessionID, client, r.now())
	if err != nil {
		return "", err
	}

	err = r.sessions.RecordSession(ctx, session)
	if err != nil {
		log.Err(err).Str("func", "*sessionRegistry.RecordSession").Str("session_id", sessionID).Msg("failed to record session")
		return "", fmt.Errorf("failed to record session: %w", err)
	}

	return session.SessionToken, nil
}

// Lookup requires an exact match on both values. A hit schedules a
// last_access update that never fails the lookup.
func (r *sessionRegistry) Lookup(ctx context.Context, sessionID, sessionToken string) (models.SessionRecord, error) {
	session, err := r.sessions.LookupSession(ctx, sessionID, sessionToken)
	if err != nil {
		return models.SessionRecord{}, err
	}

	if r.toucher != nil {
		r.toucher.Touch(sessionID, r.now().UTC())
	}

	return session, nil
}

// newSessionRecord builds the session row paired with sessionID. Platform,
// screen resolution and timezone are left empty.
func newSessionRecord(sessionID string, client models.ClientInfo, now time.Time) (models.SessionRecord, error) {
	sessionToken, err := token.RandomHex(sessionTokenBytes)
	if err != nil {
		return models.SessionRecord{}, fmt.Errorf("failed to generate session token: %w", err)
	}

	now = now.UTC()
	return models.SessionRecord{
		SessionID:    sessionID,
		SessionToken: sessionToken,
		UserAgent:    client.UserAgent,
		Language:     client.AcceptLanguage,
		GeneratedAt:  now,
		LastAccess:   now,
	}, nil
}
