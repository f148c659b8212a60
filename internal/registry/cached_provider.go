package registry

import (
	"context"
	"time"

	"github.com/zjrosen/entrypoints/internal/cachemanager"
	"github.com/zjrosen/entrypoints/internal/domain/entrypoint"
	"github.com/zjrosen/entrypoints/internal/log"
)

const groupsKey = "\x00groups"

// CachedProvider memoizes a provider's answers for ttl. The resolver re-queries
// its provider on every call; staleness is bounded by ttl and Invalidate.
type CachedProvider struct {
	inner   entrypoint.Provider
	ttl     time.Duration
	groups  *cachemanager.ReadThroughCache[string, []string, struct{}]
	entries *cachemanager.ReadThroughCache[string, []*entrypoint.Entry, string]
}

var _ entrypoint.Provider = (*CachedProvider)(nil)

// NewCachedProvider wraps inner. A non-positive ttl keeps answers until Invalidate.
func NewCachedProvider(inner entrypoint.Provider, ttl time.Duration) *CachedProvider {
	if ttl <= 0 {
		ttl = cachemanager.NoExpiration
	}

	groupCache := cachemanager.NewInMemoryCacheManager[string, []string](
		"entrypoint-groups", ttl, cachemanager.DefaultCleanupInterval)
	entryCache := cachemanager.NewInMemoryCacheManager[string, []*entrypoint.Entry](
		"entrypoint-entries", ttl, cachemanager.DefaultCleanupInterval)

	return &CachedProvider{
		inner: inner,
		ttl:   ttl,
		groups: cachemanager.NewReadThroughCache[string, []string, struct{}](groupCache,
			func(_ context.Context, _ struct{}) ([]string, error) {
				return inner.ListGroups(), nil
			}, false),
		entries: cachemanager.NewReadThroughCache[string, []*entrypoint.Entry, string](entryCache,
			func(_ context.Context, group string) ([]*entrypoint.Entry, error) {
				return inner.ListEntries(group), nil
			}, false),
	}
}

// ListGroups implements entrypoint.Provider.
func (c *CachedProvider) ListGroups() []string {
	groups, _ := c.groups.Get(context.Background(), groupsKey, struct{}{}, c.ttl)
	return append([]string(nil), groups...)
}

// ListEntries implements entrypoint.Provider.
func (c *CachedProvider) ListEntries(group string) []*entrypoint.Entry {
	entries, _ := c.entries.Get(context.Background(), group, group, c.ttl)
	return append([]*entrypoint.Entry(nil), entries...)
}

// Invalidate drops every cached answer.
func (c *CachedProvider) Invalidate(ctx context.Context) error {
	if err := c.groups.Invalidate(ctx); err != nil {
		return err
	}
	if err := c.entries.Invalidate(ctx); err != nil {
		return err
	}
	log.Debug(log.CatCache, "entry point cache invalidated")
	return nil
}
