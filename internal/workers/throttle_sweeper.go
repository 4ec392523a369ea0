package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/pixshare/internal/logger"
	"github.com/MKhiriev/pixshare/internal/throttle"
)

const defaultSweepInterval = time.Minute

// ThrottleSweeper periodically evicts idle entries from in-process limiters.
type ThrottleSweeper struct {
	sweepers []throttle.Sweeper
	interval time.Duration
	logger   *logger.Logger
}

func NewThrottleSweeper(interval time.Duration, logger *logger.Logger, sweepers ...throttle.Sweeper) *ThrottleSweeper {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	return &ThrottleSweeper{
		sweepers: sweepers,
		interval: interval,
		logger:   logger,
	}
}

func (s *ThrottleSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *ThrottleSweeper) sweep(ctx context.Context) {
	for _, sweeper := range s.sweepers {
		evicted, err := sweeper.Sweep(ctx)
		if err != nil {
			s.logger.Err(err).Str("func", "*ThrottleSweeper.sweep").Msg("throttle sweep failed")
			continue
		}
		if evicted > 0 {
			s.logger.Debug().Int("evicted", evicted).Msg("idle throttle entries evicted")
		}
	}
}
