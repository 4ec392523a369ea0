package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MKhiriev/pixshare/internal/adapter"
	"github.com/MKhiriev/pixshare/internal/config"
	"github.com/MKhiriev/pixshare/internal/logger"
	"github.com/MKhiriev/pixshare/internal/mock"
	"github.com/MKhiriev/pixshare/internal/service"
	"github.com/MKhiriev/pixshare/internal/store"
	"github.com/MKhiriev/pixshare/internal/token"
	"github.com/MKhiriev/pixshare/models"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testSecret = "a-long-random-shared-secret-for-http-tests"

// testGateSettings mirrors the production defaults.
func testGateSettings() config.Gate {
	return config.Gate{
		FreshnessMaxAge: 20 * time.Second,
		PublicPaths:     []string{"/api/version", "/api/auth/signup", "/api/auth/login", "/api/auth/oauth/*"},
		AllowedOrigins:  []string{"*"},
	}
}

func testConfig() config.StructuredConfig {
	return config.StructuredConfig{
		App:  config.App{SharedSecret: testSecret, Version: "test-version"},
		Gate: testGateSettings(),
	}
}

// mockedHandler is a Handler whose services are gomock mocks.
type mockedHandler struct {
	*Handler

	gate    *mock.MockGate
	auth    *mock.MockAuthService
	images  *mock.MockImageService
	appInfo *mock.MockAppInfoService
	github  *mock.MockOAuthProvider
}

func newMockedHandler(t *testing.T) *mockedHandler {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := &mockedHandler{
		gate:    mock.NewMockGate(ctrl),
		auth:    mock.NewMockAuthService(ctrl),
		images:  mock.NewMockImageService(ctrl),
		appInfo: mock.NewMockAppInfoService(ctrl),
		github:  mock.NewMockOAuthProvider(ctrl),
	}

	services := &service.Services{
		Gate:           m.gate,
		AuthService:    m.auth,
		ImageService:   m.images,
		AppInfoService: m.appInfo,
	}
	providers := adapter.OAuthProviders{models.LoginMethodGitHub: m.github}

	m.Handler = NewHandler(services, providers, Limiters{}, testConfig(), logger.Nop())
	return m
}

// allowAll makes the mocked gate accept any credentials as userID.
func (m *mockedHandler) allowAll(userID string) {
	m.gate.EXPECT().
		Authenticate(gomock.Any(), gomock.Any()).
		Return(models.Principal{UserID: userID, SessionID: "sess-1", Method: models.LoginMethodPassword}, nil).
		AnyTimes()
}

// freshRequest builds a request carrying a current "ts" token.
func freshRequest(method, target string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, target, body)
	req.Header.Set(freshnessKey, token.NewFreshnessToken(time.Now()))
	return req
}

// authorize adds the credential headers of creds to req.
func authorize(req *http.Request, creds models.Credentials) *http.Request {
	req.Header.Set(authorizationHeader, "Bearer "+creds.AuthToken)
	req.Header.Set(sessionTokenHeader, creds.SessionToken)
	req.Header.Set(userIDHeader, creds.UserID)
	return req
}

// liveEnv is a router over the real services and in-memory storages.
type liveEnv struct {
	services *service.Services
	router   http.Handler
}

func newLiveEnv(t *testing.T, limiters Limiters) *liveEnv {
	t.Helper()

	codec, err := token.NewAffixCodec(testSecret)
	require.NoError(t, err)

	cfg := testConfig()
	adapters, err := adapter.NewAdapters(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)

	services, err := service.NewServices(store.NewMemoryStorages(), adapters, codec, nil, cfg, logger.Nop())
	require.NoError(t, err)

	h := NewHandler(services, adapters.OAuth, limiters, cfg, logger.Nop())
	return &liveEnv{services: services, router: h.Init()}
}

// login issues credentials straight through the registries.
func (e *liveEnv) login(t *testing.T, userID string) models.Credentials {
	t.Helper()
	ctx := context.Background()

	issued, err := e.services.LoginRegistry.RecordLogin(ctx, models.LoginRequest{
		UserID: userID,
		Method: models.LoginMethodPassword,
		Client: models.ClientInfo{UserAgent: "test"},
	})
	require.NoError(t, err)

	return models.Credentials{
		UserID:       userID,
		AuthToken:    issued.AuthToken,
		SessionToken: issued.SessionToken,
		ExpiresAt:    issued.ExpiresAt,
	}
}

func (e *liveEnv) serve(req *http.Request) *httptest.ResponseRecorder {
	return serve(e.router, req)
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}
