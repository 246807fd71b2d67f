package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"sync"
	"time"

	"zippyhand/internal/config"
	"zippyhand/internal/domain"
	"zippyhand/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrInvalidCredentials is returned by Login on a bad username or password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Service issues and validates admin session tokens. A valid token is the
// only authorization check the moderation surface performs.
type Service struct {
	cfg      config.AdminConfig
	sessions domain.SessionRepository
	ttl      time.Duration
	logger   *zerolog.Logger

	mu       sync.RWMutex
	watchers []func(token string, active bool)
}

func NewService(cfg config.AdminConfig, sessions domain.SessionRepository, logger *zerolog.Logger) *Service {
	ttlHours := cfg.SessionTTLHours
	if ttlHours <= 0 {
		ttlHours = models.DefaultSessionTTLHours
	}
	return &Service{
		cfg:      cfg,
		sessions: sessions,
		ttl:      time.Duration(ttlHours) * time.Hour,
		logger:   logger,
	}
}

// Login checks the configured credentials in constant time and issues a new
// session token on success.
func (s *Service) Login(ctx context.Context, username, password string) (*models.Session, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.cfg.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.Password)) == 1
	if !userOK || !passOK {
		s.logger.Warn().Str("username", username).Msg("failed admin login attempt")
		return nil, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	session := &models.Session{
		Token:     uuid.NewString(),
		Username:  username,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	if err := s.sessions.Set(ctx, session); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	s.logger.Info().Str("username", username).Time("expires_at", session.ExpiresAt).Msg("admin session issued")
	s.notify(session.Token, true)
	return session, nil
}

// Validate resolves a token to its session. It returns (nil, nil) for an
// unknown or expired token; expired tokens are purged on sight.
func (s *Service) Validate(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		return nil, nil
	}

	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("lookup session: %w", err)
	}
	if session == nil {
		return nil, nil
	}

	if session.Expired(time.Now()) {
		_ = s.sessions.Delete(ctx, token)
		s.notify(token, false)
		return nil, nil
	}

	return session, nil
}

// Logout invalidates the session token.
func (s *Service) Logout(ctx context.Context, token string) error {
	if err := s.sessions.Delete(ctx, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	s.logger.Info().Msg("admin session ended")
	s.notify(token, false)
	return nil
}

// OnSessionChange registers a callback fired when a session becomes valid
// (login) or invalid (logout, expiry detection).
func (s *Service) OnSessionChange(fn func(token string, active bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watchers = append(s.watchers, fn)
}

func (s *Service) notify(token string, active bool) {
	s.mu.RLock()
	watchers := append(([]func(string, bool))(nil), s.watchers...)
	s.mu.RUnlock()

	for _, fn := range watchers {
		fn(token, active)
	}
}
