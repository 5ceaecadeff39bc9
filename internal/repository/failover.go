package repository

import (
	"context"
	"sync/atomic"
	"time"

	"salonbook/internal/bookingid"

	"github.com/rs/zerolog"
)

const recoveryInterval = time.Minute

// FailoverSequence draws from primary until it fails, then from fallback.
// The primary is retried once recoveryInterval has passed since the last
// failure.
type FailoverSequence struct {
	primary    bookingid.Sequence
	fallback   bookingid.Sequence
	logger     *zerolog.Logger
	onFailover func()
	now        func() time.Time

	isDown    atomic.Bool
	lastCheck atomic.Int64
}

func NewFailoverSequence(primary, fallback bookingid.Sequence, logger *zerolog.Logger, onFailover func()) *FailoverSequence {
	if fallback == nil {
		fallback = bookingid.NewMemorySequence()
	}
	return &FailoverSequence{
		primary:    primary,
		fallback:   fallback,
		logger:     logger,
		onFailover: onFailover,
		now:        time.Now,
	}
}

// Degraded reports whether values currently come from the fallback.
func (s *FailoverSequence) Degraded() bool {
	return s.isDown.Load()
}

func (s *FailoverSequence) Next(ctx context.Context) (int64, error) {
	if s.isDown.Load() && s.now().Sub(time.Unix(0, s.lastCheck.Load())) > recoveryInterval {
		n, err := s.primary.Next(ctx)
		if err == nil {
			s.isDown.Store(false)
			s.logger.Info().Msg("booking sequence primary recovered")
			return n, nil
		}
		s.lastCheck.Store(s.now().UnixNano())
	}

	if !s.isDown.Load() {
		n, err := s.primary.Next(ctx)
		if err == nil {
			return n, nil
		}
		s.logger.Error().Err(err).Msg("booking sequence primary failed, falling back to memory")
		s.isDown.Store(true)
		s.lastCheck.Store(s.now().UnixNano())
		if s.onFailover != nil {
			s.onFailover()
		}
	}

	return s.fallback.Next(ctx)
}
