package http

import (
	"errors"
	"fmt"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/MKhiriev/pixshare/internal/logger"
	"github.com/MKhiriev/pixshare/internal/service"
	"github.com/MKhiriev/pixshare/internal/throttle"
	"github.com/MKhiriev/pixshare/internal/token"
	"github.com/MKhiriev/pixshare/internal/utils"
	"github.com/MKhiriev/pixshare/models"
)

const (
	authorizationHeader = "Authorization"
	sessionTokenHeader  = "X-Session-Token"
	userIDHeader        = "X-User-Id"
	freshnessKey        = "ts"
)

// errNoPrincipal is met by protected handlers reached without a principal,
// which happens for protected routes listed as public.
var errNoPrincipal = fmt.Errorf("%w: no principal in request context", service.ErrMissingCredentials)

// withThrottle counts every request against the client IP before any other
// check runs.
func (h *Handler) withThrottle(next http.Handler) http.Handler {
	return h.limit(h.limiters.Requests, next)
}

// withCredentialBurst applies the burst limiter of the sign-in endpoints.
func (h *Handler) withCredentialBurst(next http.Handler) http.Handler {
	return h.limit(h.limiters.Credentials, next)
}

// limit denies with 429 when limiter refuses the client IP. Limiter
// failures let the request through.
func (h *Handler) limit(limiter throttle.RateLimiter, next http.Handler) http.Handler {
	if limiter == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		decision, err := limiter.Allow(r.Context(), clientIP(r))
		if err != nil {
			logger.FromRequest(r).Warn().Err(err).Str("ip", clientIP(r)).Msg("rate limiter failed, letting request through")
			next.ServeHTTP(w, r)
			return
		}

		if !decision.Allowed {
			w.Header().Set("Retry-After", retryAfterSeconds(decision.RetryAfter))
			h.deny(w, r, ErrRateLimited)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// open guards routes that are public by construction: only the freshness
// token is checked.
func (h *Handler) open(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := h.checkFreshness(r); err != nil {
			h.deny(w, r, err)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// guard authenticates the request and stores the principal in its context.
// Paths on the configured public list skip the credential checks.
func (h *Handler) guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := h.checkFreshness(r); err != nil {
			h.deny(w, r, err)
			return
		}

		if h.isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		creds, err := credentialsFromRequest(r)
		if err != nil {
			h.deny(w, r, err)
			return
		}

		principal, err := h.services.Gate.Authenticate(r.Context(), creds)
		if err != nil {
			h.deny(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(utils.WithPrincipal(r.Context(), principal)))
	})
}

// checkFreshness validates the "ts" anti-replay token taken from the header
// or, when absent there, from the query string.
func (h *Handler) checkFreshness(r *http.Request) error {
	ts := r.Header.Get(freshnessKey)
	if ts == "" {
		ts = r.URL.Query().Get(freshnessKey)
	}

	return token.CheckFreshness(ts, h.now(), h.settings.FreshnessMaxAge)
}

// isPublicPath matches path against the configured public list. An entry
// ending in "*" matches by prefix.
func (h *Handler) isPublicPath(path string) bool {
	for _, public := range h.settings.PublicPaths {
		if prefix, ok := strings.CutSuffix(public, "*"); ok {
			if strings.HasPrefix(path, prefix) {
				return true
			}
			continue
		}
		if path == public {
			return true
		}
	}
	return false
}

// deny logs the rejection and writes the error reply.
func (h *Handler) deny(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromRequest(r)

	if errors.Is(err, service.ErrInternal) {
		log.Err(err).Str("ip", clientIP(r)).Msg("request gate failed")
	} else {
		log.Warn().Err(err).
			Str("reason", reasonFromError(err)).
			Str("ip", clientIP(r)).
			Str("uri", r.RequestURI).
			Msg("request denied")
	}

	writeError(w, err)
}

// credentialsFromRequest collects the bearer auth token, the session token
// and the claimed user id. A malformed Authorization header is an invalid
// token, an absent one is left empty for the gate to reject.
func credentialsFromRequest(r *http.Request) (models.PresentedCredentials, error) {
	var creds models.PresentedCredentials

	if header := r.Header.Get(authorizationHeader); header != "" {
		authToken, err := utils.ParseBearerToken(header)
		if err != nil {
			return creds, service.ErrInvalidToken
		}
		creds.AuthToken = authToken
	}

	creds.SessionToken = r.Header.Get(sessionTokenHeader)
	creds.ClaimedUserID = r.Header.Get(userIDHeader)

	return creds, nil
}

// clientIP returns the host part of RemoteAddr. Forwarding headers are
// ignored: any client can set them.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func clientInfo(r *http.Request) models.ClientInfo {
	return models.ClientInfo{
		UserAgent:      r.UserAgent(),
		AcceptLanguage: r.Header.Get("Accept-Language"),
		IPAddress:      clientIP(r),
	}
}

// retryAfterSeconds renders d as whole seconds, rounded up and at least 1.
func retryAfterSeconds(d time.Duration) string {
	seconds := int(math.Ceil(d.Seconds()))
	if seconds < 1 {
		seconds = 1
	}
	return strconv.Itoa(seconds)
}
