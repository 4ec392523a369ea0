package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/pixshare/internal/logger"
	"github.com/MKhiriev/pixshare/models"
)

// sessionRepository is the PostgreSQL-backed implementation of
// [SessionRepository] over the "sessions" table.
type sessionRepository struct {
	*DB
	logger *logger.Logger
}

// NewSessionRepository constructs a [SessionRepository] backed by db.
func NewSessionRepository(db *DB, logger *logger.Logger) SessionRepository {
	logger.Debug().Msg("creating session repository")
	return &sessionRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *sessionRepository) RecordSession(ctx context.Context, session models.SessionRecord) error {
	log := logger.FromContext(ctx)

	query, args, err := insertSessionQuery(session)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*sessionRepository.RecordSession").Str("session_id", session.SessionID).Msg("failed to insert session")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

func (r *sessionRepository) LookupSession(ctx context.Context, sessionID, sessionToken string) (models.SessionRecord, error) {
	log := logger.FromContext(ctx)

	query, args, err := psql.Select(sessionColumns...).
		From("sessions").
		Where("session_id = ? AND session_token = ?", sessionID, sessionToken).
		ToSql()
	if err != nil {
		return models.SessionRecord{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var (
		session  models.SessionRecord
		timezone sql.NullInt32
	)
	err = r.QueryRowContext(ctx, query, args...).Scan(
		&session.SessionID,
		&session.SessionToken,
		&session.UserAgent,
		&session.Language,
		&session.Platform,
		&session.ScreenResolution,
		&timezone,
		&session.GeneratedAt,
		&session.LastAccess,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.SessionRecord{}, ErrSessionNotFound
	}
	if err != nil {
		log.Err(err).Str("func", "*sessionRepository.LookupSession").Str("session_id", sessionID).Msg("failed to look up session")
		return models.SessionRecord{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	if timezone.Valid {
		offset := int(timezone.Int32)
		session.TimezoneOffset = &offset
	}

	return session, nil
}

func (r *sessionRepository) TouchSession(ctx context.Context, sessionID string, at time.Time) error {
	query, args, err := psql.Update("sessions").
		Set("last_access", at).
		Where("session_id = ?", sessionID).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}
