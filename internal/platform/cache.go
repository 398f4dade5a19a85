package platform

import (
	"context"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/singleboostr/boostr/internal/appid"
)

// NameCache memoises display names for one supervising session. Entries
// never expire and are only dropped by Clear.
type NameCache struct {
	resolver Resolver
	names    *cache.Cache
	inflight singleflight.Group
}

// NewNameCache returns an empty cache backed by resolver.
func NewNameCache(resolver Resolver) *NameCache {
	return &NameCache{
		resolver: resolver,
		names:    cache.New(cache.NoExpiration, 0),
	}
}

// Name returns the cached name for id, resolving it on first use. The
// lookup is shared by concurrent callers and cached for the session, so it
// does not follow the first caller's cancellation; the resolver's own
// timeout bounds it.
func (c *NameCache) Name(ctx context.Context, id appid.ID) string {
	if name, ok := c.Lookup(id); ok {
		return name
	}
	ctx = context.WithoutCancel(ctx)

	v, _, _ := c.inflight.Do(id.String(), func() (any, error) {
		if name, ok := c.Lookup(id); ok {
			return name, nil
		}
		name := c.resolver.Resolve(ctx, id)
		if name == "" {
			name = Placeholder(id)
		}
		c.names.Set(id.String(), name, cache.NoExpiration)
		return name, nil
	})
	return v.(string)
}

// Lookup returns a cached name without resolving.
func (c *NameCache) Lookup(id appid.ID) (string, bool) {
	v, ok := c.names.Get(id.String())
	if !ok {
		return "", false
	}
	return v.(string), true
}

// Label is Lookup with the placeholder as fallback.
func (c *NameCache) Label(id appid.ID) string {
	if name, ok := c.Lookup(id); ok {
		return name
	}
	return Placeholder(id)
}

// Len reports the number of cached names.
func (c *NameCache) Len() int {
	return c.names.ItemCount()
}

// Clear drops every cached name.
func (c *NameCache) Clear() {
	c.names.Flush()
}
