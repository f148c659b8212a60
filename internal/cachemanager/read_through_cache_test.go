package cachemanager

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCacheManager[K comparable, V any] struct {
	mock.Mock
}

func (m *mockCacheManager[K, V]) Get(ctx context.Context, key K) (V, bool) {
	args := m.Called(ctx, key)
	v, _ := args.Get(0).(V)
	return v, args.Bool(1)
}

func (m *mockCacheManager[K, V]) Set(ctx context.Context, key K, value V, ttl time.Duration) {
	m.Called(ctx, key, value, ttl)
}

func (m *mockCacheManager[K, V]) Delete(ctx context.Context, keys ...K) error {
	return m.Called(ctx, keys).Error(0)
}

func (m *mockCacheManager[K, V]) Flush(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func listEntries(ctx context.Context, group string) ([]entryRow, error) {
	return []entryRow{{Group: group, Name: "array"}}, nil
}

func TestReadThroughCache_SkipCache(t *testing.T) {
	m := &mockCacheManager[string, []entryRow]{}
	cache := NewReadThroughCache[string, []entryRow, string](m, listEntries, true)

	got, err := cache.Get(context.Background(), "entries:ns.data", "ns.data", time.Minute)
	require.NoError(t, err)
	require.Equal(t, []entryRow{{Group: "ns.data", Name: "array"}}, got)

	_, err = cache.Get(context.Background(), "entries:ns.data", "ns.data", time.Minute)
	require.NoError(t, err)
	m.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	m.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReadThroughCache_Hit(t *testing.T) {
	ctx := context.Background()
	cached := []entryRow{{Group: "ns.data", Name: "cached"}}

	m := &mockCacheManager[string, []entryRow]{}
	m.On("Get", ctx, "entries:ns.data").Return(cached, true).Once()

	calls := 0
	cache := NewReadThroughCache[string, []entryRow, string](m, func(ctx context.Context, group string) ([]entryRow, error) {
		calls++
		return listEntries(ctx, group)
	}, false)

	got, err := cache.Get(ctx, "entries:ns.data", "ns.data", time.Minute)
	require.NoError(t, err)
	require.Equal(t, cached, got)
	require.Zero(t, calls)
	m.AssertExpectations(t)
}

func TestReadThroughCache_MissPopulates(t *testing.T) {
	ctx := context.Background()
	want := []entryRow{{Group: "ns.data", Name: "array"}}

	m := &mockCacheManager[string, []entryRow]{}
	m.On("Get", ctx, "entries:ns.data").Return(nil, false).Once()
	m.On("Set", ctx, "entries:ns.data", want, time.Minute).Return().Once()

	cache := NewReadThroughCache[string, []entryRow, string](m, listEntries, false)
	got, err := cache.Get(ctx, "entries:ns.data", "ns.data", time.Minute)
	require.NoError(t, err)
	require.Equal(t, want, got)
	m.AssertExpectations(t)
}

func TestReadThroughCache_ErrorNotCached(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("index unavailable")

	m := &mockCacheManager[string, []entryRow]{}
	m.On("Get", ctx, "groups").Return(nil, false).Once()

	cache := NewReadThroughCache[string, []entryRow, string](m, func(context.Context, string) ([]entryRow, error) {
		return nil, boom
	}, false)

	_, err := cache.Get(ctx, "groups", "", time.Minute)
	require.ErrorIs(t, err, boom)
	m.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	m.AssertExpectations(t)
}

func TestReadThroughCache_WithInMemoryManager(t *testing.T) {
	ctx := context.Background()
	calls := 0
	cache := NewReadThroughCache[string, []entryRow, string](
		NewInMemoryCacheManager[string, []entryRow]("entries", DefaultExpiration, DefaultCleanupInterval),
		func(ctx context.Context, group string) ([]entryRow, error) {
			calls++
			return listEntries(ctx, group)
		},
		false,
	)

	for i := 0; i < 3; i++ {
		_, err := cache.Get(ctx, "entries:ns.data", "ns.data", time.Minute)
		require.NoError(t, err)
	}
	require.Equal(t, 1, calls)

	require.NoError(t, cache.Invalidate(ctx))
	_, err := cache.Get(ctx, "entries:ns.data", "ns.data", time.Minute)
	require.NoError(t, err)
	require.Equal(t, 2, calls)
}
