package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFailover_PrimaryHealthy(t *testing.T) {
	logger := zerolog.Nop()
	primary := NewRedisSessionRepository(setupRedis(t))
	fallback := NewMemorySessionRepository()
	repo := NewFailoverSessionRepository(primary, fallback, &logger)
	ctx := context.Background()

	session := testSession("fo-1")
	require.NoError(t, repo.Set(ctx, session))

	got, err := repo.Get(ctx, "fo-1")
	require.NoError(t, err)
	require.NotNil(t, got)

	// The session is mirrored into memory too
	mirrored, err := fallback.Get(ctx, "fo-1")
	require.NoError(t, err)
	assert.NotNil(t, mirrored)
}

func TestFailover_PrimaryDown(t *testing.T) {
	logger := zerolog.Nop()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	primary := NewRedisSessionRepository(client)
	fallback := NewMemorySessionRepository()
	repo := NewFailoverSessionRepository(primary, fallback, &logger)
	ctx := context.Background()

	session := testSession("fo-2")
	require.NoError(t, repo.Set(ctx, session))

	mr.Close()

	// Reads survive the outage via the memory mirror
	got, err := repo.Get(ctx, "fo-2")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "fo-2", got.Token)

	// New sessions land in memory while the primary is down
	other := testSession("fo-3")
	require.NoError(t, repo.Set(ctx, other))
	got, err = repo.Get(ctx, "fo-3")
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestFailover_ConcurrentAccessWhilePrimaryDown(t *testing.T) {
	logger := zerolog.Nop()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	primary := NewRedisSessionRepository(client)
	fallback := NewMemorySessionRepository()
	repo := NewFailoverSessionRepository(primary, fallback, &logger)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, testSession("fo-5")))
	mr.Close()

	// Every goroutine hits the failing primary and records the outage;
	// run under -race this pins the failover bookkeeping as safe.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := repo.Get(ctx, "fo-5")
			assert.NoError(t, err)
			assert.NotNil(t, got)
			assert.NoError(t, repo.Set(ctx, testSession("fo-6")))
		}()
	}
	wg.Wait()
}

func TestFailover_DeleteClearsMirror(t *testing.T) {
	logger := zerolog.Nop()
	primary := NewRedisSessionRepository(setupRedis(t))
	fallback := NewMemorySessionRepository()
	repo := NewFailoverSessionRepository(primary, fallback, &logger)
	ctx := context.Background()

	session := testSession("fo-4")
	require.NoError(t, repo.Set(ctx, session))
	require.NoError(t, repo.Delete(ctx, "fo-4"))

	got, err := repo.Get(ctx, "fo-4")
	require.NoError(t, err)
	assert.Nil(t, got)

	mirrored, err := fallback.Get(ctx, "fo-4")
	require.NoError(t, err)
	assert.Nil(t, mirrored)
}
