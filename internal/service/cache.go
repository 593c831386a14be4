package service

import (
	"fmt"
	"sync"

	"github.com/fuelnet/loyalty/internal/models"
	lru "github.com/hashicorp/golang-lru"
)

// CardInfoCache holds recently read card profiles keyed by user id.
// A nil cache is valid and caches nothing.
//
// Every Invalidate advances a generation counter. A reader takes the
// generation before loading a profile and passes it to Add, which drops
// the profile if any invalidation happened in between.
type CardInfoCache struct {
	cache      *lru.Cache
	mu         sync.Mutex
	generation uint64
}

// NewCardInfoCache creates a cache of the given size. A size of zero or
// less disables caching.
func NewCardInfoCache(size int) (*CardInfoCache, error) {
	if size <= 0 {
		return nil, nil
	}

	cache, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("failed to create card info cache: %w", err)
	}
	return &CardInfoCache{cache: cache}, nil
}

// Get returns the cached profile for userID. Callers must not modify it.
func (c *CardInfoCache) Get(userID int64) (*models.CardInfo, bool) {
	if c == nil {
		return nil, false
	}
	v, ok := c.cache.Get(userID)
	if !ok {
		return nil, false
	}
	return v.(*models.CardInfo), true
}

// Generation returns the current invalidation generation
func (c *CardInfoCache) Generation() uint64 {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// Add stores a profile loaded at generation. It reports whether the
// profile was stored.
func (c *CardInfoCache) Add(userID int64, info *models.CardInfo, generation uint64) bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if generation != c.generation {
		return false
	}
	c.cache.Add(userID, info)
	return true
}

// Invalidate drops the profile of userID
func (c *CardInfoCache) Invalidate(userID int64) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	c.cache.Remove(userID)
}

// Len returns the number of cached profiles
func (c *CardInfoCache) Len() int {
	if c == nil {
		return 0
	}
	return c.cache.Len()
}
