package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/pixshare/internal/logger"
	"github.com/MKhiriev/pixshare/models"
	"github.com/cenkalti/backoff/v5"
	"github.com/jackc/pgerrcode"
)

const recordLoginMaxTries = 3

// loginRepository is the PostgreSQL-backed implementation of
// [LoginRepository] over the "logins" table.
type loginRepository struct {
	*DB
	logger     *logger.Logger
	newBackOff func() backoff.BackOff
}

// NewLoginRepository constructs a [LoginRepository] backed by db.
func NewLoginRepository(db *DB, logger *logger.Logger) LoginRepository {
	logger.Debug().Msg("creating login repository")
	return &loginRepository{
		DB:     db,
		logger: logger,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 50 * time.Millisecond
			b.MaxInterval = 500 * time.Millisecond
			return b
		},
	}
}

// RecordLogin takes a per-user advisory lock, deactivates the active logins
// of the user, inserts the new one and its session row in a single
// transaction. Serialization
// failures, deadlocks and a lost race on the one-active-login index are
// retried with exponential backoff.
func (r *loginRepository) RecordLogin(ctx context.Context, login models.LoginRecord, session models.SessionRecord) error {
	log := logger.FromContext(ctx)

	deviceInfo, err := json.Marshal(login.DeviceInfo)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncodingColumn, err)
	}

	insertQuery, insertArgs, err := psql.Insert("logins").
		Columns(loginColumns...).
		Values(
			login.UserID,
			login.SessionID,
			deviceInfo,
			string(login.Method),
			login.AuthToken,
			login.ExpiresAt,
			login.IPAddress,
			true,
			login.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	deactivateQuery, deactivateArgs, err := deactivateLoginsQuery(login.UserID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	sessionQuery, sessionArgs, err := insertSessionQuery(session)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	attempt := 0
	_, err = backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		txErr := r.inTx(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, lockUserLogins, login.UserID); err != nil {
				return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
			}
			if _, err := tx.ExecContext(ctx, deactivateQuery, deactivateArgs...); err != nil {
				return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
			}
			if _, err := tx.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
				return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
			}
			if _, err := tx.ExecContext(ctx, sessionQuery, sessionArgs...); err != nil {
				return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
			}
			return nil
		})
		if txErr == nil {
			return struct{}{}, nil
		}

		if !r.retryable(txErr) {
			return struct{}{}, backoff.Permanent(txErr)
		}

		log.Warn().Err(txErr).
			Str("func", "*loginRepository.RecordLogin").
			Str("user_id", login.UserID).
			Int("attempt", attempt).
			Msg("retrying login transaction")
		return struct{}{}, txErr
	}, backoff.WithBackOff(r.newBackOff()), backoff.WithMaxTries(recordLoginMaxTries))
	if err != nil {
		log.Err(err).
			Str("func", "*loginRepository.RecordLogin").
			Str("user_id", login.UserID).
			Msg("failed to record login")
		return err
	}

	return nil
}

func (r *loginRepository) retryable(err error) bool {
	if postgresError(err) == pgerrcode.UniqueViolation {
		return true
	}
	if r.errorClassificator == nil {
		return false
	}
	return r.errorClassificator.Classify(err) == Retryable
}

func (r *loginRepository) RevokeAll(ctx context.Context, userID string) error {
	log := logger.FromContext(ctx)

	query, args, err := deactivateLoginsQuery(userID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := r.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*loginRepository.RevokeAll").Str("user_id", userID).Msg("failed to revoke logins")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if affected == 0 {
		return ErrNoActiveLogin
	}

	return nil
}

func (r *loginRepository) LookupActive(ctx context.Context, userID, authToken string) (models.LoginRecord, error) {
	log := logger.FromContext(ctx)

	query, args, err := psql.Select(loginColumns...).
		From("logins").
		Where("user_id = ? AND auth_token = ? AND is_logged_in", userID, authToken).
		Limit(1).
		ToSql()
	if err != nil {
		return models.LoginRecord{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	login, err := scanLogin(r.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.LoginRecord{}, ErrLoginNotFound
	}
	if err != nil {
		log.Err(err).Str("func", "*loginRepository.LookupActive").Str("user_id", userID).Msg("failed to look up login")
		return models.LoginRecord{}, err
	}

	return login, nil
}

func (r *loginRepository) ListLogins(ctx context.Context, userID string) ([]models.LoginRecord, error) {
	log := logger.FromContext(ctx)

	query, args, err := psql.Select(loginColumns...).
		From("logins").
		Where("user_id = ?", userID).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*loginRepository.ListLogins").Str("user_id", userID).Msg("failed to list logins")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	logins := make([]models.LoginRecord, 0, 4)
	for rows.Next() {
		login, err := scanLogin(rows)
		if err != nil {
			return nil, err
		}
		logins = append(logins, login)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return logins, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLogin(row rowScanner) (models.LoginRecord, error) {
	var (
		login      models.LoginRecord
		deviceInfo []byte
		method     string
	)

	err := row.Scan(
		&login.UserID,
		&login.SessionID,
		&deviceInfo,
		&method,
		&login.AuthToken,
		&login.ExpiresAt,
		&login.IPAddress,
		&login.IsLoggedIn,
		&login.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.LoginRecord{}, err
	}
	if err != nil {
		return models.LoginRecord{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	login.Method = models.LoginMethod(method)
	if len(deviceInfo) > 0 {
		if err = json.Unmarshal(deviceInfo, &login.DeviceInfo); err != nil {
			return models.LoginRecord{}, fmt.Errorf("%w: %w", ErrEncodingColumn, err)
		}
	}

	return login, nil
}
