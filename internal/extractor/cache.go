package extractor

import (
	"encoding/hex"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/zeebo/blake3"
)

// DefaultCacheSize bounds the number of cached source models.
const DefaultCacheSize = 4096

// Cache keeps extracted models keyed by path and content hash, so a
// re-run only parses files whose bytes changed.
type Cache struct {
	lru *lru.Cache[string, *SourceModel]
}

// NewCache creates a cache holding at most size models.
func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	c, err := lru.New[string, *SourceModel](size)
	if err != nil {
		return nil, err
	}
	return &Cache{lru: c}, nil
}

// ContentHash returns the hex BLAKE3 digest of source.
func ContentHash(source []byte) string {
	sum := blake3.Sum256(source)
	return hex.EncodeToString(sum[:])
}

func cacheKey(path string, source []byte) string {
	return path + "@" + ContentHash(source)
}

// Get returns a copy of the cached model for this exact content.
func (c *Cache) Get(path string, source []byte) (*SourceModel, bool) {
	m, ok := c.lru.Get(cacheKey(path, source))
	if !ok {
		return nil, false
	}
	return m.clone(), true
}

func (c *Cache) Add(path string, source []byte, m *SourceModel) {
	c.lru.Add(cacheKey(path, source), m.clone())
}

func (c *Cache) Len() int {
	return c.lru.Len()
}
