package store

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/MKhiriev/pixshare/models"
)

// memoryLoginRepository keeps login records in process memory. A single
// mutex makes RecordLogin atomic.
type memoryLoginRepository struct {
	mu       sync.Mutex
	logins   []models.LoginRecord
	sessions SessionRepository
}

// NewMemoryLoginRepository returns an in-memory [LoginRepository] that
// writes the session rows of new logins to sessions. A nil sessions drops
// them.
func NewMemoryLoginRepository(sessions SessionRepository) LoginRepository {
	return &memoryLoginRepository{sessions: sessions}
}

// RecordLogin stores the session first: when that fails no login changes.
func (m *memoryLoginRepository) RecordLogin(ctx context.Context, login models.LoginRecord, session models.SessionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sessions != nil {
		if err := m.sessions.RecordSession(ctx, session); err != nil {
			return err
		}
	}

	for i := range m.logins {
		if m.logins[i].UserID == login.UserID {
			m.logins[i].IsLoggedIn = false
		}
	}

	login.IsLoggedIn = true
	login.DeviceInfo = cloneDeviceInfo(login.DeviceInfo)
	m.logins = append(m.logins, login)

	return nil
}

func (m *memoryLoginRepository) RevokeAll(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	revoked := 0
	for i := range m.logins {
		if m.logins[i].UserID == userID && m.logins[i].IsLoggedIn {
			m.logins[i].IsLoggedIn = false
			revoked++
		}
	}

	if revoked == 0 {
		return ErrNoActiveLogin
	}
	return nil
}

func (m *memoryLoginRepository) LookupActive(ctx context.Context, userID, authToken string) (models.LoginRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, login := range m.logins {
		if login.UserID == userID && login.AuthToken == authToken && login.IsLoggedIn {
			login.DeviceInfo = cloneDeviceInfo(login.DeviceInfo)
			return login, nil
		}
	}

	return models.LoginRecord{}, ErrLoginNotFound
}

func (m *memoryLoginRepository) ListLogins(ctx context.Context, userID string) ([]models.LoginRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.LoginRecord
	for i := len(m.logins) - 1; i >= 0; i-- {
		if m.logins[i].UserID == userID {
			login := m.logins[i]
			login.DeviceInfo = cloneDeviceInfo(login.DeviceInfo)
			out = append(out, login)
		}
	}

	return out, nil
}

func cloneDeviceInfo(info models.DeviceInfo) models.DeviceInfo {
	if info == nil {
		return nil
	}
	out := make(models.DeviceInfo, len(info))
	for k, v := range info {
		out[k] = v
	}
	return out
}

type sessionKey struct {
	sessionID string
	token     string
}

// memorySessionRepository keeps session records in process memory.
type memorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[sessionKey]models.SessionRecord
}

// NewMemorySessionRepository returns an in-memory [SessionRepository].
func NewMemorySessionRepository() SessionRepository {
	return &memorySessionRepository{
		sessions: make(map[sessionKey]models.SessionRecord),
	}
}

func (m *memorySessionRepository) RecordSession(ctx context.Context, session models.SessionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[sessionKey{session.SessionID, session.SessionToken}] = session
	return nil
}

func (m *memorySessionRepository) LookupSession(ctx context.Context, sessionID, sessionToken string) (models.SessionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, ok := m.sessions[sessionKey{sessionID, sessionToken}]
	if !ok {
		return models.SessionRecord{}, ErrSessionNotFound
	}
	return session, nil
}

func (m *memorySessionRepository) TouchSession(ctx context.Context, sessionID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, session := range m.sessions {
		if key.sessionID == sessionID {
			session.LastAccess = at
			m.sessions[key] = session
		}
	}
	return nil
}

// memoryUserRepository keeps accounts in process memory.
type memoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]models.User
}

// NewMemoryUserRepository returns an in-memory [UserRepository].
func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{users: make(map[string]models.User)}
}

func (m *memoryUserRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.users {
		if existing.Email == user.Email {
			return models.User{}, ErrUserAlreadyExists
		}
	}

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	m.users[user.UserID] = user
	return user, nil
}

func (m *memoryUserRepository) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, ErrUserNotFound
}

func (m *memoryUserRepository) FindUserByID(ctx context.Context, userID string) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[userID]
	if !ok {
		return models.User{}, ErrUserNotFound
	}
	return user, nil
}

// memoryImageRepository keeps image metadata in process memory.
type memoryImageRepository struct {
	mu     sync.RWMutex
	images []models.Image
}

// NewMemoryImageRepository returns an in-memory [ImageRepository].
func NewMemoryImageRepository() ImageRepository {
	return &memoryImageRepository{}
}

func (m *memoryImageRepository) SaveImage(ctx context.Context, image models.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.images = append(m.images, image)
	return nil
}

func (m *memoryImageRepository) ListImages(ctx context.Context, userID string) ([]models.Image, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Image, 0)
	for i := len(m.images) - 1; i >= 0; i-- {
		if m.images[i].UserID == userID {
			out = append(out, m.images[i])
		}
	}
	return out, nil
}

func (m *memoryImageRepository) FindImage(ctx context.Context, imageID string) (models.Image, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, image := range m.images {
		if image.ImageID == imageID {
			return image, nil
		}
	}
	return models.Image{}, ErrImageNotFound
}

func (m *memoryImageRepository) DeleteImage(ctx context.Context, imageID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := slices.IndexFunc(m.images, func(image models.Image) bool {
		return image.ImageID == imageID && image.UserID == userID
	})
	if idx < 0 {
		return ErrImageNotFound
	}

	m.images = slices.Delete(m.images, idx, idx+1)
	return nil
}
