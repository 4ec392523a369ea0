package store

import (
	"github.com/MKhiriev/pixshare/models"
	"github.com/Masterminds/squirrel"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

const (
	// serializes concurrent logins of the same user until commit
	lockUserLogins = `SELECT pg_advisory_xact_lock(hashtext($1));`
)

var (
	userColumns = []string{"user_id", "email", "name", "password_hash", "provider", "created_at"}

	loginColumns = []string{
		"user_id",
		"session_id",
		"device_info",
		"method",
		"auth_token",
		"expires_at",
		"ip_address",
		"is_logged_in",
		"created_at",
	}

	sessionColumns = []string{
		"session_id",
		"session_token",
		"user_agent",
		"language",
		"platform",
		"screen_resolution",
		"timezone_offset",
		"generated_at",
		"last_access",
	}

	imageColumns = []string{"image_id", "user_id", "path", "url", "content_type", "category", "explicit", "created_at"}
)

func deactivateLoginsQuery(userID string) (string, []any, error) {
	return psql.Update("logins").
		Set("is_logged_in", false).
		Where("user_id = ? AND is_logged_in", userID).
		ToSql()
}

func insertSessionQuery(session models.SessionRecord) (string, []any, error) {
	return psql.Insert("sessions").
		Columns(sessionColumns...).
		Values(
			session.SessionID,
			session.SessionToken,
			session.UserAgent,
			session.Language,
			session.Platform,
			session.ScreenResolution,
			session.TimezoneOffset,
			session.GeneratedAt,
			session.LastAccess,
		).
		ToSql()
}
