package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/pixshare/internal/logger"
	"github.com/MKhiriev/pixshare/internal/store"
)

const (
	defaultTouchQueueSize = 1024
	touchTimeout          = 2 * time.Second
)

type touch struct {
	sessionID string
	at        time.Time
}

// SessionToucher updates sessions.last_access off the request path. Updates
// are best effort: a full queue or a failed write is logged and dropped.
type SessionToucher struct {
	sessions store.SessionRepository
	queue    chan touch
	logger   *logger.Logger
}

func NewSessionToucher(sessions store.SessionRepository, queueSize int, logger *logger.Logger) *SessionToucher {
	if queueSize <= 0 {
		queueSize = defaultTouchQueueSize
	}
	return &SessionToucher{
		sessions: sessions,
		queue:    make(chan touch, queueSize),
		logger:   logger,
	}
}

// Touch enqueues a last_access update. It never blocks.
func (t *SessionToucher) Touch(sessionID string, at time.Time) {
	select {
	case t.queue <- touch{sessionID: sessionID, at: at}:
	default:
		t.logger.Warn().Str("session_id", sessionID).Msg("session touch queue is full, update dropped")
	}
}

func (t *SessionToucher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			t.drain()
			return
		case job := <-t.queue:
			t.apply(ctx, job)
		}
	}
}

// drain flushes what is already queued once the worker is asked to stop.
func (t *SessionToucher) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), touchTimeout)
	defer cancel()

	for {
		select {
		case job := <-t.queue:
			t.apply(ctx, job)
		default:
			return
		}
	}
}

func (t *SessionToucher) apply(ctx context.Context, job touch) {
	ctx, cancel := context.WithTimeout(ctx, touchTimeout)
	defer cancel()

	if err := t.sessions.TouchSession(ctx, job.sessionID, job.at); err != nil {
		t.logger.Err(err).Str("func", "*SessionToucher.apply").Str("session_id", job.sessionID).Msg("failed to update session last access")
	}
}
