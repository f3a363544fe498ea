package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRoleCache(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryRoleCache(time.Minute)

	_, ok := cache.Get(ctx, "user-1")
	assert.False(t, ok)

	cache.Set(ctx, "user-1", RoleAdmin)
	role, ok := cache.Get(ctx, "user-1")
	require.True(t, ok)
	assert.Equal(t, RoleAdmin, role)

	cache.Invalidate(ctx, "user-1")
	_, ok = cache.Get(ctx, "user-1")
	assert.False(t, ok)
}

func TestMemoryRoleCacheExpiry(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryRoleCache(10 * time.Millisecond)

	cache.Set(ctx, "user-1", RoleGestao)
	role, ok := cache.Get(ctx, "user-1")
	require.True(t, ok)
	assert.Equal(t, RoleGestao, role)

	time.Sleep(20 * time.Millisecond)

	_, ok = cache.Get(ctx, "user-1")
	assert.False(t, ok)
}

// stubProvider counts provider hits behind the cache
type stubProvider struct {
	identity     *Identity
	role         Role
	err          error
	authCalls    int
	resolveCalls int
}

func (s *stubProvider) Authenticate(_ context.Context, _ string) (*Identity, error) {
	s.authCalls++
	if s.err != nil {
		return nil, s.err
	}
	return s.identity, nil
}

func (s *stubProvider) ResolveRole(_ context.Context, _ string) (Role, error) {
	s.resolveCalls++
	if s.err != nil {
		return "", s.err
	}
	return s.role, nil
}

func TestCachedProviderResolveRole(t *testing.T) {
	ctx := context.Background()
	stub := &stubProvider{role: RoleGestao}
	cached := NewCachedProvider(stub, NewMemoryRoleCache(time.Minute))

	role, err := cached.ResolveRole(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, RoleGestao, role)
	assert.Equal(t, 1, stub.resolveCalls)

	// Second lookup is served from the cache
	role, err = cached.ResolveRole(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, RoleGestao, role)
	assert.Equal(t, 1, stub.resolveCalls)

	// Invalidation forces the next lookup back to the provider
	cached.Invalidate(ctx, "user-1")
	stub.role = RoleAdmin

	role, err = cached.ResolveRole(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, role)
	assert.Equal(t, 2, stub.resolveCalls)
}

func TestCachedProviderAuthenticateSeedsCache(t *testing.T) {
	ctx := context.Background()
	stub := &stubProvider{
		identity: &Identity{UserID: "user-1", Email: "u@example.com", Role: RoleMaster},
	}
	cached := NewCachedProvider(stub, NewMemoryRoleCache(time.Minute))

	id, err := cached.Authenticate(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, "user-1", id.UserID)

	// The role resolved during authentication is already cached
	role, err := cached.ResolveRole(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, RoleMaster, role)
	assert.Equal(t, 0, stub.resolveCalls)
}

func TestCachedProviderAuthenticateError(t *testing.T) {
	ctx := context.Background()
	stub := &stubProvider{err: errors.New("token unknown")}
	cached := NewCachedProvider(stub, NewMemoryRoleCache(time.Minute))

	_, err := cached.Authenticate(ctx, "token")
	assert.Error(t, err)
}
