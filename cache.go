package ogsite

import (
	"errors"
	"strings"
	"sync"
	"time"
)

// ErrNotFound is returned when a requested post does not exist.
var ErrNotFound = errors.New("ogsite: post not found")

// postSet is one immutable load of the store. Readers keep using a set they
// obtained even after the cache swaps in a newer one.
type postSet struct {
	posts   []BlogPost
	bySlug  map[string]int
	byTopic map[string][]BlogPost
	topics  []string
	loaded  time.Time
}

func newPostSet(posts []BlogPost, topics []string, now time.Time) *postSet {
	set := &postSet{
		posts:   posts,
		bySlug:  make(map[string]int, len(posts)),
		byTopic: make(map[string][]BlogPost),
		topics:  topics,
		loaded:  now,
	}
	if set.posts == nil {
		set.posts = []BlogPost{}
	}
	for i, p := range set.posts {
		set.bySlug[p.Slug] = i
		t := normalizeTag(p.Topic)
		set.byTopic[t] = append(set.byTopic[t], p)
	}
	return set
}

// PostCache serves posts from memory, reloading them from the Store once the
// TTL has passed or after Invalidate.
type PostCache struct {
	store *Store
	ttl   time.Duration
	now   func() time.Time

	mu  sync.RWMutex
	set *postSet
}

// NewPostCache creates a PostCache backed by the given Store.
func NewPostCache(s *Store, ttl time.Duration) *PostCache {
	return &PostCache{store: s, ttl: ttl, now: time.Now}
}

// Invalidate drops the loaded set so the next read goes to the store.
func (c *PostCache) Invalidate() {
	c.mu.Lock()
	c.set = nil
	c.mu.Unlock()
}

func (c *PostCache) fresh(set *postSet) bool {
	return set != nil && c.now().Sub(set.loaded) < c.ttl
}

// current returns a fresh set, loading one under the write lock when the
// cached set is missing or stale.
func (c *PostCache) current() (*postSet, error) {
	c.mu.RLock()
	set := c.set
	c.mu.RUnlock()
	if c.fresh(set) {
		return set, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fresh(c.set) {
		return c.set, nil
	}
	posts, err := c.store.ListPosts("")
	if err != nil {
		return nil, err
	}
	topics, err := c.store.ListTopics()
	if err != nil {
		return nil, err
	}
	c.set = newPostSet(posts, topics, c.now())
	return c.set, nil
}

// ListPosts returns posts newest first, optionally filtered by topic.
func (c *PostCache) ListPosts(topic string) ([]BlogPost, error) {
	set, err := c.current()
	if err != nil {
		return nil, err
	}
	if topic == "" {
		return set.posts, nil
	}
	return set.byTopic[normalizeTag(topic)], nil
}

// ListTopics returns the distinct topics of all posts.
func (c *PostCache) ListTopics() ([]string, error) {
	set, err := c.current()
	if err != nil {
		return nil, err
	}
	return set.topics, nil
}

// GetPost returns a single post by slug from the cache.
func (c *PostCache) GetPost(slug string) (BlogPost, error) {
	set, err := c.current()
	if err != nil {
		return BlogPost{}, err
	}
	i, ok := set.bySlug[slug]
	if !ok {
		return BlogPost{}, ErrNotFound
	}
	return set.posts[i], nil
}

func normalizeTag(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}
