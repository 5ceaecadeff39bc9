package repository

import (
	"context"
	"sync"
	"time"

	"salonbook/internal/models"
)

// MemoryDirectoryCache is the in-process DirectoryCache used when Redis is
// unavailable.
type MemoryDirectoryCache struct {
	mu        sync.RWMutex
	entries   []models.StaffDirectoryEntry
	expiresAt time.Time
	ttl       time.Duration
	now       func() time.Time
}

func NewMemoryDirectoryCache(ttl time.Duration) *MemoryDirectoryCache {
	return &MemoryDirectoryCache{ttl: ttl, now: time.Now}
}

func (c *MemoryDirectoryCache) GetDirectory(_ context.Context) ([]models.StaffDirectoryEntry, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.entries == nil || !c.now().Before(c.expiresAt) {
		return nil, false, nil
	}
	out := make([]models.StaffDirectoryEntry, len(c.entries))
	copy(out, c.entries)
	return out, true, nil
}

func (c *MemoryDirectoryCache) SetDirectory(_ context.Context, entries []models.StaffDirectoryEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make([]models.StaffDirectoryEntry, len(entries))
	copy(c.entries, entries)
	c.expiresAt = c.now().Add(c.ttl)
	return nil
}

func (c *MemoryDirectoryCache) InvalidateDirectory(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = nil
	return nil
}
