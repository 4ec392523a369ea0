package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/MKhiriev/pixshare/internal/logger"
	"github.com/MKhiriev/pixshare/internal/store"
	"github.com/MKhiriev/pixshare/internal/token"
	"github.com/MKhiriev/pixshare/models"
	"github.com/stretchr/testify/require"
)

const testSecret = "a-long-random-shared-secret-for-tests"

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// gateEnv wires the registries and the gate over in-memory storages with a
// shared fake clock.
type gateEnv struct {
	clock    *fakeClock
	codec    token.Codec
	storages *store.Storages
	logins   *loginRegistry
	sessions *sessionRegistry
	gate     *gate
}

func newGateEnv(t *testing.T, toucher SessionToucher) *gateEnv {
	t.Helper()
	return newGateEnvOver(t, toucher, store.NewMemoryStorages())
}

func newGateEnvOver(t *testing.T, toucher SessionToucher, storages *store.Storages) *gateEnv {
	t.Helper()

	codec, err := token.NewAffixCodec(testSecret)
	require.NoError(t, err)

	clock := newFakeClock()

	logins := NewLoginRegistry(storages.LoginRepository, codec, 0, logger.Nop()).(*loginRegistry)
	logins.now = clock.Now
	sessions := NewSessionRegistry(storages.SessionRepository, toucher, logger.Nop()).(*sessionRegistry)
	sessions.now = clock.Now
	g := NewGate(codec, logins, sessions).(*gate)
	g.now = clock.Now

	return &gateEnv{
		clock:    clock,
		codec:    codec,
		storages: storages,
		logins:   logins,
		sessions: sessions,
		gate:     g,
	}
}

// login records a login with its session and returns the credentials.
func (e *gateEnv) login(t *testing.T, userID string) models.Credentials {
	t.Helper()
	ctx := context.Background()

	issued, err := e.logins.RecordLogin(ctx, models.LoginRequest{
		UserID:     userID,
		Method:     models.LoginMethodPassword,
		DeviceInfo: models.DeviceInfo{},
		IPAddress:  "1.2.3.4",
		Client:     models.ClientInfo{UserAgent: "UA", AcceptLanguage: "en"},
		TTL:        24 * time.Hour,
	})
	require.NoError(t, err)

	return models.Credentials{
		UserID:       userID,
		AuthToken:    issued.AuthToken,
		SessionToken: issued.SessionToken,
		ExpiresAt:    issued.ExpiresAt,
	}
}

func presented(c models.Credentials) models.PresentedCredentials {
	return models.PresentedCredentials{
		AuthToken:     c.AuthToken,
		SessionToken:  c.SessionToken,
		ClaimedUserID: c.UserID,
	}
}
