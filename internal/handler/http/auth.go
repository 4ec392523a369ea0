package http

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/MKhiriev/pixshare/internal/logger"
	"github.com/MKhiriev/pixshare/internal/token"
	"github.com/MKhiriev/pixshare/internal/utils"
	"github.com/MKhiriev/pixshare/models"
	"github.com/go-chi/chi/v5"
)

const (
	maxJSONBodySize  = 1 << 20
	oauthStateCookie = "oauth_state"
	oauthStateTTL    = 600
)

func (h *Handler) signUp(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.SignUpRequest
	if err := decodeJSON(w, r, &req); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		writeError(w, err)
		return
	}

	creds, err := h.services.AuthService.SignUp(ctx, req, clientInfo(r))
	if err != nil {
		log.Err(err).Msg("sign up failed")
		writeError(w, err)
		return
	}

	log.Debug().Str("user_id", creds.UserID).Msg("user signed up")
	utils.WriteJSON(w, creds, http.StatusCreated)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.SignInRequest
	if err := decodeJSON(w, r, &req); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		writeError(w, err)
		return
	}

	creds, err := h.services.AuthService.Login(ctx, req, clientInfo(r))
	if err != nil {
		log.Warn().Err(err).Str("ip", clientIP(r)).Msg("login failed")
		writeError(w, err)
		return
	}

	log.Debug().Str("user_id", creds.UserID).Msg("user successfully logged in")
	utils.WriteJSON(w, creds, http.StatusOK)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		h.deny(w, r, errNoPrincipal)
		return
	}

	if err := h.services.AuthService.Logout(ctx, userID); err != nil {
		log.Err(err).Str("user_id", userID).Msg("logout failed")
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listLogins(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		h.deny(w, r, errNoPrincipal)
		return
	}

	logins, err := h.services.AuthService.Logins(ctx, userID)
	if err != nil {
		log.Err(err).Str("user_id", userID).Msg("listing logins failed")
		writeError(w, err)
		return
	}
	if logins == nil {
		logins = []models.LoginRecord{}
	}

	utils.WriteJSON(w, models.LoginsResponse{Logins: logins, Length: len(logins)}, http.StatusOK)
}

// oauthStart redirects the browser to the identity provider with a random
// state remembered in a short-lived cookie.
func (h *Handler) oauthStart(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	provider, err := h.oauth.Get(chi.URLParam(r, "provider"))
	if err != nil {
		writeError(w, err)
		return
	}

	state, err := token.RandomHex(16)
	if err != nil {
		log.Err(err).Msg("error generating oauth state")
		writeError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/api/auth/oauth/",
		MaxAge:   oauthStateTTL,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, provider.AuthCodeURL(state), http.StatusFound)
}

func (h *Handler) oauthCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	provider, err := h.oauth.Get(chi.URLParam(r, "provider"))
	if err != nil {
		writeError(w, err)
		return
	}

	query := r.URL.Query()
	cookie, err := r.Cookie(oauthStateCookie)
	if err != nil || cookie.Value == "" ||
		subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(query.Get("state"))) != 1 {
		h.deny(w, r, ErrInvalidOAuthState)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Path:     "/api/auth/oauth/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	if providerErr := query.Get("error"); providerErr != "" || query.Get("code") == "" {
		h.deny(w, r, fmt.Errorf("%w: %s", ErrOAuthDenied, providerErr))
		return
	}

	profile, err := provider.Exchange(ctx, query.Get("code"))
	if err != nil {
		log.Warn().Err(err).Str("provider", string(provider.Name())).Msg("oauth exchange failed")
		writeError(w, err)
		return
	}

	creds, err := h.services.AuthService.OAuthLogin(ctx, profile, clientInfo(r))
	if err != nil {
		log.Err(err).Str("provider", string(provider.Name())).Msg("oauth login failed")
		writeError(w, err)
		return
	}

	utils.WriteJSON(w, creds, http.StatusOK)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}
	return nil
}
