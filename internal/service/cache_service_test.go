package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingCache struct{}

func (failingCache) Get(ctx context.Context, key string, dest interface{}) error {
	return errors.New("connection refused")
}

func (failingCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return errors.New("connection refused")
}

func (failingCache) DeleteByPattern(ctx context.Context, pattern string) error {
	return errors.New("connection refused")
}

func TestCacheServiceDisabled(t *testing.T) {
	store := newMemoryCache()
	svc := NewCacheService(store, nil, 0, nil, false)

	svc.Set(context.Background(), "k", "v", 0)
	var out string
	assert.False(t, svc.Get(context.Background(), "k", &out))
	assert.Empty(t, store.entries)

	var nilSvc *CacheService
	assert.False(t, nilSvc.Enabled())
	assert.False(t, nilSvc.Get(context.Background(), "k", &out))
	nilSvc.InvalidateSchool(context.Background(), "school-1")
}

func TestCacheServiceRoundTrip(t *testing.T) {
	store := newMemoryCache()
	metrics := NewMetricsService()
	svc := NewCacheService(store, metrics, time.Minute, nil, true)
	ctx := context.Background()

	var out map[string]int
	assert.False(t, svc.Get(ctx, "k", &out))

	svc.Set(ctx, "k", map[string]int{"a": 1}, 0)
	require.True(t, svc.Get(ctx, "k", &out))
	assert.Equal(t, 1, out["a"])

	assert.Equal(t, 1.0, counterValue(t, metrics, "ranking_cache_lookups_total", map[string]string{"outcome": "hit"}))
	assert.Equal(t, 1.0, counterValue(t, metrics, "ranking_cache_lookups_total", map[string]string{"outcome": "miss"}))
}

func TestCacheServiceSwallowsBackendErrors(t *testing.T) {
	svc := NewCacheService(failingCache{}, nil, time.Minute, nil, true)
	ctx := context.Background()

	var out string
	assert.False(t, svc.Get(ctx, "k", &out))
	svc.Set(ctx, "k", "v", 0)
	svc.InvalidateResultSet(ctx, "school-1", "rs-1")
}

func TestCacheServiceInvalidateSchoolPattern(t *testing.T) {
	store := newMemoryCache()
	svc := NewCacheService(store, nil, time.Minute, nil, true)

	svc.InvalidateSchool(context.Background(), "school-1")
	assert.Equal(t, []string{"result-magic:rankings:school-1:*"}, store.deleted)
	assert.Equal(t, "result-magic:rankings:school-1:rs-1", RankingKey("school-1", "rs-1"))
}
