package auth

import (
	"context"
	"sync"
	"time"
)

// RoleCache caches resolved roles so role lookups do not hit the
// database on every request
type RoleCache interface {
	Get(ctx context.Context, userID string) (Role, bool)
	Set(ctx context.Context, userID string, role Role)
	Invalidate(ctx context.Context, userID string)
}

// MemoryRoleCache is an in-process role cache with TTL expiry
type MemoryRoleCache struct {
	ttl     time.Duration
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	role      Role
	expiresAt time.Time
}

// NewMemoryRoleCache creates an in-process role cache
func NewMemoryRoleCache(ttl time.Duration) *MemoryRoleCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &MemoryRoleCache{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
	}
}

// Get implements RoleCache
func (c *MemoryRoleCache) Get(_ context.Context, userID string) (Role, bool) {
	c.mu.RLock()
	entry, ok := c.entries[userID]
	c.mu.RUnlock()

	if !ok {
		return "", false
	}
	if time.Now().After(entry.expiresAt) {
		c.Invalidate(context.Background(), userID)
		return "", false
	}
	return entry.role, true
}

// Set implements RoleCache
func (c *MemoryRoleCache) Set(_ context.Context, userID string, role Role) {
	c.mu.Lock()
	c.entries[userID] = memoryEntry{
		role:      role,
		expiresAt: time.Now().Add(c.ttl),
	}
	c.mu.Unlock()
}

// Invalidate implements RoleCache
func (c *MemoryRoleCache) Invalidate(_ context.Context, userID string) {
	c.mu.Lock()
	delete(c.entries, userID)
	c.mu.Unlock()
}

// CachedProvider wraps a Provider with a role cache
type CachedProvider struct {
	provider Provider
	cache    RoleCache
}

// NewCachedProvider wraps the provider with the cache
func NewCachedProvider(provider Provider, cache RoleCache) *CachedProvider {
	return &CachedProvider{
		provider: provider,
		cache:    cache,
	}
}

// Authenticate implements Provider
func (p *CachedProvider) Authenticate(ctx context.Context, token string) (*Identity, error) {
	id, err := p.provider.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}
	p.cache.Set(ctx, id.UserID, id.Role)
	return id, nil
}

// ResolveRole implements Provider
func (p *CachedProvider) ResolveRole(ctx context.Context, userID string) (Role, error) {
	if role, ok := p.cache.Get(ctx, userID); ok {
		return role, nil
	}

	role, err := p.provider.ResolveRole(ctx, userID)
	if err != nil {
		return "", err
	}

	p.cache.Set(ctx, userID, role)
	return role, nil
}

// Invalidate drops the cached role for a user, forcing the next lookup
// to hit the underlying provider
func (p *CachedProvider) Invalidate(ctx context.Context, userID string) {
	p.cache.Invalidate(ctx, userID)
}
