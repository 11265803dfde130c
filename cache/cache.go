package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/DDDesignDev/homelab/models"
	gocache "github.com/patrickmn/go-cache"
)

// entry holds a cached recipe with its creation timestamp.
type entry struct {
	recipe    *models.NormalizedRecipe
	createdAt time.Time
}

// Cache is an in-memory cache for scraped recipes, keyed by URL.
// It is safe for concurrent use.
type Cache struct {
	store *gocache.Cache
}

// New creates a Cache whose entries expire after ttl regardless of the
// max_age a request asks for. Expired entries are swept every
// cleanupInterval.
func New(ttl, cleanupInterval time.Duration) *Cache {
	return &Cache{store: gocache.New(ttl, cleanupInterval)}
}

// Key generates a cache key from the recipe URL.
func Key(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}

// Get retrieves a cached recipe if it exists and is younger than maxAge.
// If maxAge <= 0, no cache lookup is performed.
func (c *Cache) Get(key string, maxAge time.Duration) (*models.NormalizedRecipe, bool) {
	if maxAge <= 0 {
		return nil, false
	}

	v, ok := c.store.Get(key)
	if !ok {
		return nil, false
	}
	e := v.(*entry)
	if time.Since(e.createdAt) > maxAge {
		return nil, false
	}
	return e.recipe, true
}

// Set stores a recipe with the cache's default expiration.
func (c *Cache) Set(key string, recipe *models.NormalizedRecipe) {
	c.store.SetDefault(key, &entry{recipe: recipe, createdAt: time.Now()})
}

// Len returns the number of entries, including expired ones not yet swept.
func (c *Cache) Len() int {
	return c.store.ItemCount()
}
