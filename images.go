package ogsite

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// ImageCache keeps recently rendered preview cards in memory. Keys name the
// card ("site" or "post:<slug>"); the cache is purged whenever content is
// reloaded. Every purge starts a new generation, and a card rendered from an
// older generation is never stored.
type ImageCache struct {
	lru     *lru.Cache[string, []byte]
	metrics *Metrics

	mu  sync.Mutex
	gen uint64
}

// NewImageCache returns a cache holding at most size cards.
func NewImageCache(size int, m *Metrics) (*ImageCache, error) {
	c, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, err
	}
	return &ImageCache{lru: c, metrics: m}, nil
}

// Get returns the cached card for key.
func (c *ImageCache) Get(key string) ([]byte, bool) {
	png, ok := c.lru.Get(key)
	if c.metrics != nil {
		if ok {
			c.metrics.ImageCacheHits.Inc()
		} else {
			c.metrics.ImageCacheMisses.Inc()
		}
	}
	return png, ok
}

// Generation returns the current generation. Read it before looking up the
// post a card is rendered from.
func (c *ImageCache) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// Add stores a card rendered during generation gen. It reports false and
// stores nothing when a purge happened since.
func (c *ImageCache) Add(key string, png []byte, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return false
	}
	c.lru.Add(key, png)
	return true
}

// Purge drops every cached card and starts a new generation.
func (c *ImageCache) Purge() {
	c.mu.Lock()
	c.gen++
	c.lru.Purge()
	c.mu.Unlock()
}

// Len returns the number of cached cards.
func (c *ImageCache) Len() int {
	return c.lru.Len()
}

func postImageKey(slug string) string {
	return "post:" + slug
}

const siteImageKey = "site"
