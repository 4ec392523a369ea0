package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/pixshare/internal/config"
	"github.com/MKhiriev/pixshare/internal/logger"
)

// Storages aggregates every repository the services depend on.
type Storages struct {
	UserRepository    UserRepository
	LoginRepository   LoginRepository
	SessionRepository SessionRepository
	ImageRepository   ImageRepository

	db *DB
}

// NewStorages connects to PostgreSQL, applies migrations and builds the
// repositories. The DSN "memory" selects in-process repositories instead.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	if cfg.DB.DSN == config.MemoryDSN {
		log.Warn().Str("func", "NewStorages").Msg("using in-memory storages: data is lost on restart")
		return NewMemoryStorages(), nil
	}

	db, err := NewConnectPostgres(ctx, cfg.DB, log)
	if err != nil {
		return nil, err
	}

	if err = db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error applying migrations: %w", err)
	}

	return &Storages{
		UserRepository:    NewUserRepository(db, log),
		LoginRepository:   NewLoginRepository(db, log),
		SessionRepository: NewSessionRepository(db, log),
		ImageRepository:   NewImageRepository(db, log),
		db:                db,
	}, nil
}

// NewMemoryStorages returns storages that keep everything in process memory.
func NewMemoryStorages() *Storages {
	sessions := NewMemorySessionRepository()
	return &Storages{
		UserRepository:    NewMemoryUserRepository(),
		LoginRepository:   NewMemoryLoginRepository(sessions),
		SessionRepository: sessions,
		ImageRepository:   NewMemoryImageRepository(),
	}
}

// Close releases the database connection pool, if any.
func (s *Storages) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
