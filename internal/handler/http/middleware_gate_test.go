package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MKhiriev/pixshare/internal/logger"
	"github.com/MKhiriev/pixshare/internal/service"
	"github.com/MKhiriev/pixshare/internal/throttle"
	"github.com/MKhiriev/pixshare/internal/token"
	"github.com/MKhiriev/pixshare/internal/utils"
	"github.com/MKhiriev/pixshare/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// stubLimiter returns a fixed decision.
type stubLimiter struct {
	decision throttle.Decision
	err      error
	calls    int
}

func (s *stubLimiter) Allow(_ context.Context, _ string) (throttle.Decision, error) {
	s.calls++
	return s.decision, s.err
}

func newDenyingLimiter(retryAfter time.Duration) *stubLimiter {
	return &stubLimiter{decision: throttle.Decision{RetryAfter: retryAfter}}
}

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

// ─────────────────────────────────────────────
// throttle
// ─────────────────────────────────────────────

func TestLimit(t *testing.T) {
	tests := []struct {
		name           string
		limiter        *stubLimiter
		wantStatus     int
		wantRetryAfter string
		wantNextCalled bool
	}{
		{
			name:           "allowed",
			limiter:        &stubLimiter{decision: throttle.Decision{Allowed: true}},
			wantStatus:     http.StatusOK,
			wantNextCalled: true,
		},
		{
			name:           "blocked for five minutes",
			limiter:        newDenyingLimiter(5 * time.Minute),
			wantStatus:     http.StatusTooManyRequests,
			wantRetryAfter: "300",
		},
		{
			name:           "sub-second retry rounds up",
			limiter:        newDenyingLimiter(200 * time.Millisecond),
			wantStatus:     http.StatusTooManyRequests,
			wantRetryAfter: "1",
		},
		{
			name:           "limiter failure lets request through",
			limiter:        &stubLimiter{err: errors.New("redis down")},
			wantStatus:     http.StatusOK,
			wantNextCalled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler()
			called := false

			rec := httptest.NewRecorder()
			h.limit(tt.limiter, okHandler(&called)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantNextCalled, called)
			assert.Equal(t, tt.wantRetryAfter, rec.Header().Get("Retry-After"))
			if tt.wantStatus == http.StatusTooManyRequests {
				assert.JSONEq(t, `{"code":"rate_limited","message":"too many requests"}`, rec.Body.String())
			}
		})
	}
}

func TestLimit_NilLimiterIsNoop(t *testing.T) {
	called := false
	next := okHandler(&called)

	wrapped := newTestHandler().limit(nil, next)
	wrapped.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.True(t, called)
}

func TestThrottle_AppliesToEveryRoute(t *testing.T) {
	limiter := throttle.NewMemoryLimiter(throttle.Rules{
		Limit:              3,
		Window:             15 * time.Second,
		BlockDuration:      5 * time.Minute,
		MaxBlockMultiplier: 12,
	})
	env := newLiveEnv(t, Limiters{Requests: limiter})

	paths := []string{"/api/version", "/api/images", "/api/nonexistent"}
	for _, path := range paths {
		rec := env.serve(freshRequest(http.MethodGet, path, nil))
		assert.NotEqual(t, http.StatusTooManyRequests, rec.Code, path)
	}

	rec := env.serve(freshRequest(http.MethodGet, "/api/version", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "300", rec.Header().Get("Retry-After"))

	// A different client keeps its own budget.
	other := freshRequest(http.MethodGet, "/api/version", nil)
	other.RemoteAddr = "198.51.100.7:4242"
	assert.Equal(t, http.StatusOK, env.serve(other).Code)
}

func TestThrottle_IgnoresForwardedFor(t *testing.T) {
	limiter := throttle.NewMemoryLimiter(throttle.Rules{Limit: 1, Window: time.Minute, BlockDuration: time.Minute})
	env := newLiveEnv(t, Limiters{Requests: limiter})

	send := func(remoteAddr, forwardedFor string) int {
		req := freshRequest(http.MethodGet, "/api/version", nil)
		req.RemoteAddr = remoteAddr
		req.Header.Set("X-Forwarded-For", forwardedFor)
		req.Header.Set("X-Real-IP", forwardedFor)
		return env.serve(req).Code
	}

	require.Equal(t, http.StatusOK, send("198.51.100.7:4000", "203.0.113.9"))
	for i := 10; i < 20; i++ {
		assert.Equal(t, http.StatusTooManyRequests, send("198.51.100.7:4001", fmt.Sprintf("203.0.113.%d", i)))
	}

	assert.Equal(t, http.StatusOK, send("198.51.100.8:4000", "203.0.113.9"))
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		want       string
	}{
		{name: "host and port", remoteAddr: "198.51.100.7:4000", want: "198.51.100.7"},
		{name: "ipv6", remoteAddr: "[2001:db8::1]:443", want: "2001:db8::1"},
		{name: "no port", remoteAddr: "198.51.100.7", want: "198.51.100.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			req.Header.Set("X-Forwarded-For", "203.0.113.9")

			assert.Equal(t, tt.want, clientIP(req))
		})
	}
}

// ─────────────────────────────────────────────
// freshness
// ─────────────────────────────────────────────

func TestCheckFreshness(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		header  string
		query   string
		wantErr error
	}{
		{name: "fresh header", header: token.NewFreshnessToken(now.Add(-5 * time.Second))},
		{name: "fresh query param", query: token.NewFreshnessToken(now)},
		{name: "exactly max age", header: token.NewFreshnessToken(now.Add(-20 * time.Second))},
		{name: "missing", wantErr: token.ErrFreshnessMissing},
		{name: "not base64", header: "%%%", wantErr: token.ErrFreshnessMalformed},
		{name: "expired", header: token.NewFreshnessToken(now.Add(-21 * time.Second)), wantErr: token.ErrFreshnessExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler()
			h.settings = testGateSettings()
			h.now = func() time.Time { return now }

			target := "/api/images"
			if tt.query != "" {
				target += "?ts=" + tt.query
			}
			req := httptest.NewRequest(http.MethodGet, target, nil)
			if tt.header != "" {
				req.Header.Set(freshnessKey, tt.header)
			}

			err := h.checkFreshness(req)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestOpen_DenyStatuses(t *testing.T) {
	tests := []struct {
		name       string
		ts         string
		wantStatus int
		wantCode   string
	}{
		{name: "missing", wantStatus: http.StatusBadRequest, wantCode: "missing_timestamp"},
		{name: "malformed", ts: "bm90LWpzb24=", wantStatus: http.StatusBadRequest, wantCode: "malformed_timestamp"},
		{name: "expired", ts: token.NewFreshnessToken(time.Now().Add(-time.Minute)), wantStatus: http.StatusUnauthorized, wantCode: "expired"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler()
			h.settings = testGateSettings()
			h.now = time.Now
			called := false

			req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
			if tt.ts != "" {
				req.Header.Set(freshnessKey, tt.ts)
			}
			rec := httptest.NewRecorder()
			h.open(okHandler(&called)).ServeHTTP(rec, req)

			assert.False(t, called)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), `"code":"`+tt.wantCode+`"`)
		})
	}
}

// ─────────────────────────────────────────────
// public paths and credentials
// ─────────────────────────────────────────────

func TestIsPublicPath(t *testing.T) {
	h := newTestHandler()
	h.settings = testGateSettings()

	tests := []struct {
		path string
		want bool
	}{
		{"/api/version", true},
		{"/api/auth/signup", true},
		{"/api/auth/login", true},
		{"/api/auth/oauth/github/start", true},
		{"/api/auth/logout", false},
		{"/api/version/extra", false},
		{"/api/images", false},
		{"/", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, h.isPublicPath(tt.path))
		})
	}
}

func TestGuard_PublicPathSkipsCredentials(t *testing.T) {
	m := newMockedHandler(t)
	m.settings.PublicPaths = append(m.settings.PublicPaths, "/api/images")
	called := false

	rec := httptest.NewRecorder()
	m.guard(okHandler(&called)).ServeHTTP(rec, freshRequest(http.MethodGet, "/api/images", nil))

	assert.True(t, called, "gate mock has no expectations, so Authenticate must not run")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCredentialsFromRequest(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    models.PresentedCredentials
		wantErr error
	}{
		{
			name: "all headers",
			headers: map[string]string{
				authorizationHeader: "Bearer tok",
				sessionTokenHeader:  "sess",
				"x-user-id":         "user-1",
			},
			want: models.PresentedCredentials{AuthToken: "tok", SessionToken: "sess", ClaimedUserID: "user-1"},
		},
		{
			name:    "lowercase bearer scheme",
			headers: map[string]string{authorizationHeader: "bearer tok"},
			want:    models.PresentedCredentials{AuthToken: "tok"},
		},
		{
			name: "nothing presented",
			want: models.PresentedCredentials{},
		},
		{
			name:    "wrong scheme",
			headers: map[string]string{authorizationHeader: "Basic dXNlcjpwYXNz"},
			wantErr: service.ErrInvalidToken,
		},
		{
			name:    "scheme without token",
			headers: map[string]string{authorizationHeader: "Bearer"},
			wantErr: service.ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			got, err := credentialsFromRequest(req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// ─────────────────────────────────────────────
// guard with a mocked gate
// ─────────────────────────────────────────────

func TestGuard_DenyReasons(t *testing.T) {
	tests := []struct {
		gateErr    error
		wantStatus int
		wantBody   string
	}{
		{service.ErrMissingCredentials, http.StatusUnauthorized, `{"code":"missing_credentials","message":"unauthenticated"}`},
		{service.ErrInvalidToken, http.StatusUnauthorized, `{"code":"invalid_token","message":"unauthenticated"}`},
		{service.ErrUserMismatch, http.StatusUnauthorized, `{"code":"user_mismatch","message":"unauthenticated"}`},
		{service.ErrNotLoggedIn, http.StatusUnauthorized, `{"code":"not_logged_in","message":"unauthenticated"}`},
		{service.ErrLoginExpired, http.StatusUnauthorized, `{"code":"session_expired","message":"unauthenticated"}`},
		{service.ErrInvalidSession, http.StatusUnauthorized, `{"code":"invalid_session","message":"unauthenticated"}`},
		{errors.Join(service.ErrInternal, errors.New("connection refused")), http.StatusInternalServerError, `{"code":"internal","message":"Internal Server Error"}`},
	}

	for _, tt := range tests {
		t.Run(tt.gateErr.Error(), func(t *testing.T) {
			m := newMockedHandler(t)
			m.gate.EXPECT().Authenticate(gomock.Any(), gomock.Any()).Return(models.Principal{}, tt.gateErr)
			called := false

			rec := httptest.NewRecorder()
			m.guard(okHandler(&called)).ServeHTTP(rec, freshRequest(http.MethodGet, "/api/images", nil))

			assert.False(t, called)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestGuard_AttachesPrincipal(t *testing.T) {
	m := newMockedHandler(t)
	principal := models.Principal{UserID: "user-1", SessionID: "sess-1", Method: models.LoginMethodGitHub}
	m.gate.EXPECT().
		Authenticate(gomock.Any(), models.PresentedCredentials{AuthToken: "tok", SessionToken: "sess", ClaimedUserID: "user-1"}).
		Return(principal, nil)

	var got models.Principal
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = utils.PrincipalFromContext(r.Context())
	})

	req := authorize(freshRequest(http.MethodGet, "/api/images", nil), models.Credentials{
		UserID: "user-1", AuthToken: "tok", SessionToken: "sess",
	})
	m.guard(next).ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, principal, got)
}

func TestGuard_FreshnessCheckedBeforeCredentials(t *testing.T) {
	m := newMockedHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/images", nil)
	rec := httptest.NewRecorder()
	m.guard(okHandler(new(bool))).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ─────────────────────────────────────────────
// end to end over the real registries
// ─────────────────────────────────────────────

func TestGate_LiveAllowPath(t *testing.T) {
	env := newLiveEnv(t, Limiters{})
	creds := env.login(t, "user-1")

	rec := env.serve(authorize(freshRequest(http.MethodGet, "/api/images", nil), creds))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"images":[],"length":0}`, rec.Body.String())
}

func TestGate_LiveDenials(t *testing.T) {
	env := newLiveEnv(t, Limiters{})
	alice := env.login(t, "alice")
	bob := env.login(t, "bob")

	tests := []struct {
		name     string
		creds    models.Credentials
		wantCode string
	}{
		{name: "no session token", creds: models.Credentials{UserID: "alice", AuthToken: alice.AuthToken}, wantCode: "missing_credentials"},
		{name: "garbage token", creds: models.Credentials{UserID: "alice", AuthToken: "short", SessionToken: alice.SessionToken}, wantCode: "invalid_token"},
		{name: "claimed other user", creds: models.Credentials{UserID: "bob", AuthToken: alice.AuthToken, SessionToken: alice.SessionToken}, wantCode: "user_mismatch"},
		{name: "session of other user", creds: models.Credentials{UserID: "alice", AuthToken: alice.AuthToken, SessionToken: bob.SessionToken}, wantCode: "invalid_session"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.serve(authorize(freshRequest(http.MethodGet, "/api/images", nil), tt.creds))

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.JSONEq(t, `{"code":"`+tt.wantCode+`","message":"unauthenticated"}`, rec.Body.String())
		})
	}
}

func TestGate_LiveNewLoginInvalidatesOld(t *testing.T) {
	env := newLiveEnv(t, Limiters{})
	first := env.login(t, "user-1")
	second := env.login(t, "user-1")

	rec := env.serve(authorize(freshRequest(http.MethodGet, "/api/images", nil), first))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"not_logged_in"`)

	rec = env.serve(authorize(freshRequest(http.MethodGet, "/api/images", nil), second))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGate_LiveLogoutRevokes(t *testing.T) {
	env := newLiveEnv(t, Limiters{})
	creds := env.login(t, "user-1")

	rec := env.serve(authorize(freshRequest(http.MethodPost, "/api/auth/logout", nil), creds))
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.serve(authorize(freshRequest(http.MethodGet, "/api/images", nil), creds))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"not_logged_in"`)
}

func TestGate_LiveSignUpThenUse(t *testing.T) {
	env := newLiveEnv(t, Limiters{})

	rec := env.serve(freshRequest(http.MethodPost, "/api/auth/signup",
		strings.NewReader(`{"email":"Ada@Example.com","password":"correct horse","name":"Ada"}`)))
	require.Equal(t, http.StatusCreated, rec.Code)

	var creds models.Credentials
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &creds))
	require.NotEmpty(t, creds.UserID)

	rec = env.serve(authorize(freshRequest(http.MethodGet, "/api/images", nil), creds))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.serve(freshRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"ada@example.com","password":"wrong"}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"wrong_credentials"`)
}

func TestDeny_LogsReasonAndIP(t *testing.T) {
	var buf bytes.Buffer
	h := &Handler{logger: logger.Nop()}

	req := injectLogger(httptest.NewRequest(http.MethodGet, "/api/images", nil), newTestLogger(&buf))
	h.deny(httptest.NewRecorder(), req, service.ErrUserMismatch)

	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), `"reason":"user_mismatch"`)
	assert.Contains(t, buf.String(), `"ip":"192.0.2.1"`)
}
