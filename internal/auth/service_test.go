package auth

import (
	"context"
	"testing"
	"time"

	"zippyhand/internal/config"
	"zippyhand/internal/models"
	"zippyhand/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	logger := zerolog.Nop()
	cfg := config.AdminConfig{
		Username:        "admin",
		Password:        "s3cret",
		SessionTTLHours: 1,
	}
	return NewService(cfg, repository.NewMemorySessionRepository(), &logger)
}

func TestLogin_Success(t *testing.T) {
	svc := newTestService(t)

	session, err := svc.Login(context.Background(), "admin", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, "admin", session.Username)
	assert.True(t, session.ExpiresAt.After(time.Now()))
}

func TestLogin_BadCredentials(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, "admin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "root", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	session, err := svc.Login(ctx, "admin", "s3cret")
	require.NoError(t, err)

	got, err := svc.Validate(ctx, session.Token)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, session.Token, got.Token)
}

func TestValidate_UnknownToken(t *testing.T) {
	svc := newTestService(t)

	got, err := svc.Validate(context.Background(), "not-a-token")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestValidate_EmptyToken(t *testing.T) {
	svc := newTestService(t)

	got, err := svc.Validate(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestValidate_ExpiredSessionPurged(t *testing.T) {
	logger := zerolog.Nop()
	cfg := config.AdminConfig{Username: "admin", Password: "s3cret", SessionTTLHours: 1}
	repo := repository.NewMemorySessionRepository()
	svc := NewService(cfg, repo, &logger)
	ctx := context.Background()

	expired := &models.Session{
		Token:     "stale",
		Username:  "admin",
		CreatedAt: time.Now().Add(-2 * time.Hour),
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, repo.Set(ctx, expired))

	got, err := svc.Validate(ctx, "stale")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestLogout(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	session, err := svc.Login(ctx, "admin", "s3cret")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, session.Token))

	got, err := svc.Validate(ctx, session.Token)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestOnSessionChange(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	var gotToken string
	var gotActive []bool
	svc.OnSessionChange(func(token string, active bool) {
		gotToken = token
		gotActive = append(gotActive, active)
	})

	session, err := svc.Login(ctx, "admin", "s3cret")
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, session.Token))

	assert.Equal(t, session.Token, gotToken)
	assert.Equal(t, []bool{true, false}, gotActive)
}
