package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/result-magic-api/pkg/errors"
)

func unreachableRedis(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil, nil)
	ctx := context.Background()

	var dest map[string]int
	assert.True(t, errors.Is(repo.Get(ctx, "k", &dest), appErrors.ErrCacheMiss))
	assert.NoError(t, repo.Set(ctx, "k", map[string]int{"a": 1}, time.Minute))
	assert.NoError(t, repo.DeleteByPattern(ctx, "k*"))
	assert.Error(t, repo.PingContext(ctx))
	assert.NoError(t, repo.Close())
}

func TestCacheRepositoryRejectsUnencodableValue(t *testing.T) {
	repo := NewCacheRepository(nil, nil)

	err := repo.Set(context.Background(), "k", make(chan int), time.Minute)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "encode cached view k")
}

func TestCacheRepositorySurfacesConnectionErrors(t *testing.T) {
	repo := NewCacheRepository(unreachableRedis(t), nil)
	ctx := context.Background()

	var dest map[string]int
	err := repo.Get(ctx, "result-magic:rankings:s1:rs1", &dest)
	require.Error(t, err)
	assert.False(t, errors.Is(err, appErrors.ErrCacheMiss))
	assert.Contains(t, err.Error(), "redis get")

	assert.Error(t, repo.Set(ctx, "k", 1, time.Minute))
	assert.Error(t, repo.DeleteByPattern(ctx, "result-magic:rankings:s1:*"))
	assert.Error(t, repo.PingContext(ctx))
}
