package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/modul-ajar-api/pkg/errors"
)

func TestRedisDraftRepositoryWrapsConnectionErrors(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	repo := NewRedisDraftRepository(client, 0)
	defer repo.Close() //nolint:errcheck

	ctx := context.Background()
	_, err := repo.Get(ctx, "k")
	require.Error(t, err)
	assert.False(t, errors.Is(err, appErrors.ErrCacheMiss))
	assert.Contains(t, err.Error(), "redis get k")

	err = repo.Set(ctx, "k", "v")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis set k")
}

func TestMemoryDraftRepository(t *testing.T) {
	repo := NewMemoryDraftRepository()
	ctx := context.Background()

	_, err := repo.Get(ctx, "k")
	assert.True(t, errors.Is(err, appErrors.ErrCacheMiss))

	require.NoError(t, repo.Set(ctx, "k", "v1"))
	require.NoError(t, repo.Set(ctx, "k", "v2"))
	value, err := repo.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v2", value)

	require.NoError(t, repo.Remove(ctx, "k"))
	require.NoError(t, repo.Remove(ctx, "k"))
	_, err = repo.Get(ctx, "k")
	assert.True(t, errors.Is(err, appErrors.ErrCacheMiss))
}
