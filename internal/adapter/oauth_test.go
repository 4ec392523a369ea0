package adapter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/MKhiriev/pixshare/internal/config"
	"github.com/MKhiriev/pixshare/internal/logger"
	"github.com/MKhiriev/pixshare/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

// newIdentityServer serves a token endpoint plus the given profile routes.
func newIdentityServer(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.FormValue("code") != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"access-1","token_type":"Bearer","expires_in":3600}`))
	})
	for path, body := range routes {
		body := body
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer access-1" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(body))
		})
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testEndpoint(srv *httptest.Server) oauth2.Endpoint {
	return oauth2.Endpoint{
		AuthURL:   srv.URL + "/authorize",
		TokenURL:  srv.URL + "/token",
		AuthStyle: oauth2.AuthStyleInParams,
	}
}

func TestGitHubProvider_Exchange_PublicEmail(t *testing.T) {
	srv := newIdentityServer(t, map[string]string{
		"/user": `{"id":42,"login":"octo","name":"","email":"Octo@Example.com"}`,
	})
	provider := NewGitHubProvider(config.OAuthProvider{ClientID: "id", ClientSecret: "secret"}, testEndpoint(srv), srv.URL)

	profile, err := provider.Exchange(context.Background(), "good-code")

	require.NoError(t, err)
	assert.Equal(t, models.OAuthProfile{
		Provider: models.LoginMethodGitHub,
		Subject:  "42",
		Email:    "octo@example.com",
		Name:     "octo",
	}, profile)
}

func TestGitHubProvider_Exchange_PrivateEmail(t *testing.T) {
	srv := newIdentityServer(t, map[string]string{
		"/user":        `{"id":7,"login":"ghost","name":"Ghost","email":null}`,
		"/user/emails": `[{"email":"old@example.com","primary":false,"verified":true},{"email":"main@example.com","primary":true,"verified":true}]`,
	})
	provider := NewGitHubProvider(config.OAuthProvider{ClientID: "id"}, testEndpoint(srv), srv.URL)

	profile, err := provider.Exchange(context.Background(), "good-code")

	require.NoError(t, err)
	assert.Equal(t, "main@example.com", profile.Email)
	assert.Equal(t, "Ghost", profile.Name)
}

func TestGitHubProvider_Exchange_BadCode(t *testing.T) {
	srv := newIdentityServer(t, nil)
	provider := NewGitHubProvider(config.OAuthProvider{ClientID: "id"}, testEndpoint(srv), srv.URL)

	_, err := provider.Exchange(context.Background(), "bad-code")

	assert.ErrorIs(t, err, ErrOAuthExchange)
}

func TestGoogleProvider_Exchange(t *testing.T) {
	srv := newIdentityServer(t, map[string]string{
		"/userinfo": `{"sub":"g-1","email":"jane@example.com","email_verified":true,"name":"Jane"}`,
	})
	provider := NewGoogleProvider(config.OAuthProvider{ClientID: "id"}, testEndpoint(srv), srv.URL+"/userinfo")

	profile, err := provider.Exchange(context.Background(), "good-code")

	require.NoError(t, err)
	assert.Equal(t, models.LoginMethodGoogle, profile.Provider)
	assert.Equal(t, "g-1", profile.Subject)
	assert.Equal(t, "jane@example.com", profile.Email)
}

func TestGoogleProvider_Exchange_UnverifiedEmail(t *testing.T) {
	srv := newIdentityServer(t, map[string]string{
		"/userinfo": `{"sub":"g-1","email":"jane@example.com","email_verified":false}`,
	})
	provider := NewGoogleProvider(config.OAuthProvider{ClientID: "id"}, testEndpoint(srv), srv.URL+"/userinfo")

	_, err := provider.Exchange(context.Background(), "good-code")

	assert.ErrorIs(t, err, ErrOAuthExchange)
}

func TestOAuthProvider_AuthCodeURL(t *testing.T) {
	provider := NewGitHubProvider(config.OAuthProvider{ClientID: "client-1", RedirectURL: "http://localhost/cb"},
		oauth2.Endpoint{AuthURL: "https://idp.example.com/authorize"}, githubAPIURL)

	raw := provider.AuthCodeURL("state-xyz")

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "idp.example.com", u.Host)
	assert.Equal(t, "state-xyz", u.Query().Get("state"))
	assert.Equal(t, "client-1", u.Query().Get("client_id"))
	assert.Equal(t, "http://localhost/cb", u.Query().Get("redirect_uri"))
}

func TestNewOAuthProviders(t *testing.T) {
	providers := NewOAuthProviders(config.OAuth{
		GitHub: config.OAuthProvider{ClientID: "gh"},
	}, logger.Nop())

	require.Len(t, providers, 1)

	p, err := providers.Get("GitHub")
	require.NoError(t, err)
	assert.Equal(t, models.LoginMethodGitHub, p.Name())

	_, err = providers.Get("google")
	assert.ErrorIs(t, err, ErrUnknownProvider)
}
