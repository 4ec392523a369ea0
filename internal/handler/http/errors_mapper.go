package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/pixshare/internal/adapter"
	"github.com/MKhiriev/pixshare/internal/service"
	"github.com/MKhiriev/pixshare/internal/token"
	"github.com/MKhiriev/pixshare/internal/utils"
)

const unauthenticatedMessage = "unauthenticated"

// errorReply is the status and machine-readable reason code of an error.
type errorReply struct {
	status int
	code   string
}

var internalReply = errorReply{http.StatusInternalServerError, "internal"}

var errorStatusMap = map[error]errorReply{
	service.ErrMissingCredentials: {http.StatusUnauthorized, "missing_credentials"},
	service.ErrInvalidToken:       {http.StatusUnauthorized, "invalid_token"},
	service.ErrUserMismatch:       {http.StatusUnauthorized, "user_mismatch"},
	service.ErrNotLoggedIn:        {http.StatusUnauthorized, "not_logged_in"},
	service.ErrLoginExpired:       {http.StatusUnauthorized, "session_expired"},
	service.ErrInvalidSession:     {http.StatusUnauthorized, "invalid_session"},
	service.ErrInternal:           internalReply,

	token.ErrFreshnessMissing:   {http.StatusBadRequest, "missing_timestamp"},
	token.ErrFreshnessMalformed: {http.StatusBadRequest, "malformed_timestamp"},
	token.ErrFreshnessExpired:   {http.StatusUnauthorized, "expired"},

	service.ErrInvalidDataProvided: {http.StatusBadRequest, "invalid_data"},
	service.ErrWrongCredentials:    {http.StatusUnauthorized, "wrong_credentials"},
	service.ErrUserAlreadyExists:   {http.StatusConflict, "user_exists"},
	service.ErrNoActiveSession:     {http.StatusNotFound, "no_active_session"},

	service.ErrInvalidImage:       {http.StatusBadRequest, "invalid_image"},
	service.ErrImageNotFound:      {http.StatusNotFound, "image_not_found"},
	service.ErrUploadsDisabled:    {http.StatusServiceUnavailable, "uploads_disabled"},
	service.ErrModerationRejected: {http.StatusBadGateway, "moderation_failed"},

	adapter.ErrUnknownProvider: {http.StatusNotFound, "unknown_provider"},
	adapter.ErrOAuthExchange:   {http.StatusUnauthorized, "oauth_failed"},

	ErrRateLimited:       {http.StatusTooManyRequests, "rate_limited"},
	ErrInvalidJSON:       {http.StatusBadRequest, "invalid_json"},
	ErrInvalidOAuthState: {http.StatusUnauthorized, "invalid_state"},
	ErrOAuthDenied:       {http.StatusUnauthorized, "oauth_failed"},
	ErrFileTooLarge:      {http.StatusRequestEntityTooLarge, "file_too_large"},
	ErrMissingFile:       {http.StatusBadRequest, "missing_file"},
	ErrRouteNotFound:     {http.StatusNotFound, "not_found"},
}

// replyFromError returns the reply of the first sentinel err wraps and the
// sentinel itself. Unknown errors map to 500.
func replyFromError(err error) (errorReply, error) {
	for target, reply := range errorStatusMap {
		if errors.Is(err, target) {
			return reply, target
		}
	}
	return internalReply, nil
}

func statusFromError(err error) int {
	reply, _ := replyFromError(err)
	return reply.status
}

func reasonFromError(err error) string {
	reply, _ := replyFromError(err)
	return reply.code
}

// writeError writes the JSON error body for err. Authentication failures
// share one message so the body never tells them apart beyond the code.
func writeError(w http.ResponseWriter, err error) {
	reply, target := replyFromError(err)

	var message string
	switch {
	case reply.status == http.StatusUnauthorized:
		message = unauthenticatedMessage
	case target == nil || reply.status == http.StatusInternalServerError:
		message = http.StatusText(http.StatusInternalServerError)
	default:
		message = target.Error()
	}

	utils.WriteError(w, reply.status, reply.code, message)
}
