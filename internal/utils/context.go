// Package utils provides small helpers shared by the transport and service
// layers: typed context keys for the authenticated principal, JSON response
// writing, bearer header parsing, the outbound resty client and id
// generation.
package utils

import (
	"context"

	"github.com/MKhiriev/pixshare/models"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

var (
	// UserIDCtxKey holds the id of the authenticated user.
	UserIDCtxKey = contextKey("userID")
	// SessionIDCtxKey holds the session id of the active login.
	SessionIDCtxKey = contextKey("sessionID")
	// LoginMethodCtxKey holds the [models.LoginMethod] of the active login.
	LoginMethodCtxKey = contextKey("loginMethod")
)

// WithPrincipal stores every field of p in ctx.
func WithPrincipal(ctx context.Context, p models.Principal) context.Context {
	ctx = context.WithValue(ctx, UserIDCtxKey, p.UserID)
	ctx = context.WithValue(ctx, SessionIDCtxKey, p.SessionID)
	return context.WithValue(ctx, LoginMethodCtxKey, p.Method)
}

// GetUserIDFromContext retrieves the user identifier from the context.
//
// ok is false when the value is missing, empty or has an unexpected type.
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDCtxKey).(string)
	return userID, ok && userID != ""
}

// GetSessionIDFromContext retrieves the session id from the context.
func GetSessionIDFromContext(ctx context.Context) (string, bool) {
	sessionID, ok := ctx.Value(SessionIDCtxKey).(string)
	return sessionID, ok && sessionID != ""
}

// GetLoginMethodFromContext retrieves the login method from the context.
func GetLoginMethodFromContext(ctx context.Context) (models.LoginMethod, bool) {
	method, ok := ctx.Value(LoginMethodCtxKey).(models.LoginMethod)
	return method, ok
}

// PrincipalFromContext reassembles the principal stored by [WithPrincipal].
func PrincipalFromContext(ctx context.Context) (models.Principal, bool) {
	userID, ok := GetUserIDFromContext(ctx)
	if !ok {
		return models.Principal{}, false
	}
	sessionID, _ := GetSessionIDFromContext(ctx)
	method, _ := GetLoginMethodFromContext(ctx)

	return models.Principal{UserID: userID, SessionID: sessionID, Method: method}, true
}
