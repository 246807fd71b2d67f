package repository

import (
	"context"
	"sync/atomic"
	"time"

	"zippyhand/internal/domain"
	"zippyhand/internal/models"

	"github.com/rs/zerolog"
)

// FailoverSessionRepository prefers the primary (Redis) and falls back to the
// in-memory repository when it errors, probing the primary again after a
// minute.
type FailoverSessionRepository struct {
	primary  domain.SessionRepository
	fallback domain.SessionRepository
	logger   *zerolog.Logger
	isDown   atomic.Bool
	// UnixNano of the last failed primary attempt; atomic because request
	// goroutines race on it.
	lastCheck atomic.Int64
}

func NewFailoverSessionRepository(primary, fallback domain.SessionRepository, logger *zerolog.Logger) *FailoverSessionRepository {
	return &FailoverSessionRepository{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (r *FailoverSessionRepository) Get(ctx context.Context, token string) (*models.Session, error) {
	if !r.isDown.Load() {
		session, err := r.primary.Get(ctx, token)
		if err == nil {
			return session, nil
		}
		r.logger.Error().Err(err).Msg("primary session repository failed, falling back to memory")
		r.markDown()
	}

	// Try to recover after 1 minute
	if r.shouldProbe() {
		session, err := r.primary.Get(ctx, token)
		if err == nil {
			r.isDown.Store(false)
			return session, nil
		}
		r.lastCheck.Store(time.Now().UnixNano())
	}

	return r.fallback.Get(ctx, token)
}

func (r *FailoverSessionRepository) Set(ctx context.Context, session *models.Session) error {
	if !r.isDown.Load() {
		err := r.primary.Set(ctx, session)
		if err == nil {
			// Mirror into memory so a later Redis outage keeps the session valid
			_ = r.fallback.Set(ctx, session)
			return nil
		}
		r.logger.Error().Err(err).Msg("primary session repository failed, falling back to memory")
		r.markDown()
	}

	return r.fallback.Set(ctx, session)
}

func (r *FailoverSessionRepository) Delete(ctx context.Context, token string) error {
	var primaryErr error
	if !r.isDown.Load() {
		primaryErr = r.primary.Delete(ctx, token)
		if primaryErr != nil {
			r.logger.Error().Err(primaryErr).Msg("primary session repository failed, falling back to memory")
			r.markDown()
		}
	}

	// Always clear the mirror copy
	if err := r.fallback.Delete(ctx, token); err != nil {
		return err
	}
	return primaryErr
}

func (r *FailoverSessionRepository) markDown() {
	r.isDown.Store(true)
	r.lastCheck.Store(time.Now().UnixNano())
}

func (r *FailoverSessionRepository) shouldProbe() bool {
	return r.isDown.Load() && time.Since(time.Unix(0, r.lastCheck.Load())) > time.Minute
}
