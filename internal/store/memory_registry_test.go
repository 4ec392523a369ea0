package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/MKhiriev/pixshare/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activeLogins(t *testing.T, repo LoginRepository, userID string) []models.LoginRecord {
	t.Helper()
	logins, err := repo.ListLogins(context.Background(), userID)
	require.NoError(t, err)

	var active []models.LoginRecord
	for _, l := range logins {
		if l.IsLoggedIn {
			active = append(active, l)
		}
	}
	return active
}

func TestMemoryLoginRepository_LatestLoginWins(t *testing.T) {
	repo := NewMemoryLoginRepository(nil)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.RecordLogin(ctx, models.LoginRecord{
			UserID:    "u1",
			SessionID: fmt.Sprintf("sid-%d", i),
			AuthToken: fmt.Sprintf("tok-%d", i),
			ExpiresAt: time.Now().Add(time.Hour),
		}, models.SessionRecord{}))
	}

	active := activeLogins(t, repo, "u1")
	require.Len(t, active, 1)
	assert.Equal(t, "tok-4", active[0].AuthToken)

	_, err := repo.LookupActive(ctx, "u1", "tok-3")
	assert.ErrorIs(t, err, ErrLoginNotFound)

	got, err := repo.LookupActive(ctx, "u1", "tok-4")
	require.NoError(t, err)
	assert.Equal(t, "sid-4", got.SessionID)

	all, err := repo.ListLogins(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestMemoryLoginRepository_ConcurrentLoginsLeaveOneActive(t *testing.T) {
	repo := NewMemoryLoginRepository(nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = repo.RecordLogin(ctx, models.LoginRecord{UserID: "u1", AuthToken: fmt.Sprintf("tok-%d", i)}, models.SessionRecord{})
		}(i)
	}
	wg.Wait()

	assert.Len(t, activeLogins(t, repo, "u1"), 1)
}

func TestMemoryLoginRepository_OtherUsersUntouched(t *testing.T) {
	repo := NewMemoryLoginRepository(nil)
	ctx := context.Background()

	require.NoError(t, repo.RecordLogin(ctx, models.LoginRecord{UserID: "u1", AuthToken: "a"}, models.SessionRecord{}))
	require.NoError(t, repo.RecordLogin(ctx, models.LoginRecord{UserID: "u2", AuthToken: "b"}, models.SessionRecord{}))

	assert.Len(t, activeLogins(t, repo, "u1"), 1)
	assert.Len(t, activeLogins(t, repo, "u2"), 1)
}

func TestMemoryLoginRepository_RevokeAll(t *testing.T) {
	repo := NewMemoryLoginRepository(nil)
	ctx := context.Background()

	assert.ErrorIs(t, repo.RevokeAll(ctx, "u1"), ErrNoActiveLogin)

	require.NoError(t, repo.RecordLogin(ctx, models.LoginRecord{UserID: "u1", AuthToken: "a"}, models.SessionRecord{}))
	require.NoError(t, repo.RevokeAll(ctx, "u1"))
	assert.Empty(t, activeLogins(t, repo, "u1"))

	assert.ErrorIs(t, repo.RevokeAll(ctx, "u1"), ErrNoActiveLogin)
}

type failingSessionRepository struct {
	SessionRepository
	err error
}

func (f failingSessionRepository) RecordSession(ctx context.Context, session models.SessionRecord) error {
	return f.err
}

func TestMemoryLoginRepository_StoresSessionWithLogin(t *testing.T) {
	sessions := NewMemorySessionRepository()
	repo := NewMemoryLoginRepository(sessions)
	ctx := context.Background()

	require.NoError(t, repo.RecordLogin(ctx,
		models.LoginRecord{UserID: "u1", SessionID: "sid-1", AuthToken: "a"},
		models.SessionRecord{SessionID: "sid-1", SessionToken: "stok-1", UserAgent: "UA"},
	))

	got, err := sessions.LookupSession(ctx, "sid-1", "stok-1")
	require.NoError(t, err)
	assert.Equal(t, "UA", got.UserAgent)
}

func TestMemoryLoginRepository_SessionFailureKeepsEarlierLogin(t *testing.T) {
	sessions := &failingSessionRepository{SessionRepository: NewMemorySessionRepository()}
	repo := NewMemoryLoginRepository(sessions)
	ctx := context.Background()

	require.NoError(t, repo.RecordLogin(ctx, models.LoginRecord{UserID: "u1", SessionID: "sid-1", AuthToken: "a"}, models.SessionRecord{SessionID: "sid-1"}))

	sessions.err = errors.New("db down")
	err := repo.RecordLogin(ctx, models.LoginRecord{UserID: "u1", SessionID: "sid-2", AuthToken: "b"}, models.SessionRecord{SessionID: "sid-2"})
	require.Error(t, err)

	active := activeLogins(t, repo, "u1")
	require.Len(t, active, 1)
	assert.Equal(t, "a", active[0].AuthToken)

	all, err := repo.ListLogins(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestMemoryLoginRepository_DeviceInfoIsCopied(t *testing.T) {
	repo := NewMemoryLoginRepository(nil)
	ctx := context.Background()

	info := models.DeviceInfo{"os": "linux"}
	require.NoError(t, repo.RecordLogin(ctx, models.LoginRecord{UserID: "u1", AuthToken: "a", DeviceInfo: info}, models.SessionRecord{}))
	info["os"] = "mutated"

	got, err := repo.LookupActive(ctx, "u1", "a")
	require.NoError(t, err)
	assert.Equal(t, "linux", got.DeviceInfo["os"])
}

func TestMemorySessionRepository(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()
	start := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, repo.RecordSession(ctx, models.SessionRecord{
		SessionID:    "sid",
		SessionToken: "stok",
		GeneratedAt:  start,
		LastAccess:   start,
	}))

	_, err := repo.LookupSession(ctx, "sid", "wrong")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	later := start.Add(time.Minute)
	require.NoError(t, repo.TouchSession(ctx, "sid", later))

	got, err := repo.LookupSession(ctx, "sid", "stok")
	require.NoError(t, err)
	assert.Equal(t, later, got.LastAccess)
	assert.Equal(t, start, got.GeneratedAt)
}

func TestMemoryUserRepository(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	created, err := repo.CreateUser(ctx, models.User{UserID: "u1", Email: "a@example.com"})
	require.NoError(t, err)
	assert.False(t, created.CreatedAt.IsZero())

	_, err = repo.CreateUser(ctx, models.User{UserID: "u2", Email: "a@example.com"})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)

	byEmail, err := repo.FindUserByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", byEmail.UserID)

	_, err = repo.FindUserByID(ctx, "u2")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestMemoryImageRepository(t *testing.T) {
	repo := NewMemoryImageRepository()
	ctx := context.Background()

	require.NoError(t, repo.SaveImage(ctx, models.Image{ImageID: "i1", UserID: "u1"}))
	require.NoError(t, repo.SaveImage(ctx, models.Image{ImageID: "i2", UserID: "u2"}))

	images, err := repo.ListImages(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, "i1", images[0].ImageID)

	assert.ErrorIs(t, repo.DeleteImage(ctx, "i1", "u2"), ErrImageNotFound)
	require.NoError(t, repo.DeleteImage(ctx, "i1", "u1"))

	_, err = repo.FindImage(ctx, "i1")
	assert.ErrorIs(t, err, ErrImageNotFound)
}
