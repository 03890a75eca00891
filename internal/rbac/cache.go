package rbac

import (
	"context"
	"sync"
	"time"

	"hrms/internal/repository"
)

// DefaultTTL bounds how stale a cached permission set may get even if an
// invalidation is missed.
const DefaultTTL = 5 * time.Minute

type cacheEntry struct {
	codes     []string
	expiresAt time.Time
}

// Cache memoizes flattened "resource.action" codes per role ID. The user
// row itself is never cached, so account deactivation and role reassignment
// take effect on the next request; only the role's permission set rides the
// TTL, and role edits invalidate it eagerly.
type Cache struct {
	roles repository.RoleRepository
	ttl   time.Duration

	mu      sync.Mutex
	entries map[string]cacheEntry
}

func NewCache(roles repository.RoleRepository, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		roles:   roles,
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}
}

// Codes returns the permission codes for a role, fetching from the store on
// a cold or expired entry.
func (c *Cache) Codes(ctx context.Context, roleID string) ([]string, error) {
	c.mu.Lock()
	entry, ok := c.entries[roleID]
	c.mu.Unlock()
	if ok && time.Now().Before(entry.expiresAt) {
		return entry.codes, nil
	}

	role, err := c.roles.GetByID(ctx, roleID)
	if err != nil {
		return nil, err
	}
	codes := role.PermissionCodes()

	c.mu.Lock()
	c.entries[roleID] = cacheEntry{codes: codes, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()

	return codes, nil
}

// Invalidate drops the cached set for one role. Called by the role service
// whenever a role's permissions are edited.
func (c *Cache) Invalidate(roleID string) {
	c.mu.Lock()
	delete(c.entries, roleID)
	c.mu.Unlock()
}

// InvalidateAll drops every cached set.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
}
