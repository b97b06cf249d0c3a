// Package fonts downloads webfont binaries from a Google Fonts compatible
// css2 endpoint and keeps them in memory for the life of the process.
package fonts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultEndpoint is the Google Fonts css2 API.
	DefaultEndpoint = "https://fonts.googleapis.com/css2"

	// DefaultTimeout bounds each of the two requests made on a cache miss.
	DefaultTimeout = 10 * time.Second

	// An old Safari user agent makes the css2 API answer with TrueType
	// sources instead of woff2.
	legacyUserAgent = "Mozilla/5.0 (Macintosh; U; Intel Mac OS X 10_6_8; de-at) AppleWebKit/533.21.1 (KHTML, like Gecko) Version/5.0.5 Safari/533.21.1"

	maxStylesheetSize = 1 << 20
	maxFontSize       = 16 << 20
)

var (
	// ErrTimeout is returned when a request does not finish within the timeout.
	ErrTimeout = errors.New("fonts: request timed out")
	// ErrNoFontURL is returned when the stylesheet has no opentype/truetype source.
	ErrNoFontURL = errors.New("fonts: no font url in stylesheet")
	// ErrFetch is returned for transport failures and non-2xx responses.
	ErrFetch = errors.New("fonts: fetch failed")
)

var srcPattern = regexp.MustCompile(`src: url\((.+?)\) format\('(opentype|truetype)'\)`)

// Key identifies one cached font file.
type Key struct {
	Family string
	Weight int
}

func (k Key) String() string {
	return k.Family + "-" + strconv.Itoa(k.Weight)
}

// Stats reports cache effectiveness since creation.
type Stats struct {
	Hits    uint64
	Misses  uint64
	Entries int
}

// Cache maps (family, weight) to raw font data. Entries are never evicted;
// the set of fonts a site renders with is small and fixed.
type Cache struct {
	client   *http.Client
	endpoint string
	timeout  time.Duration
	maxFont  int64
	log      *slog.Logger

	mu      sync.RWMutex
	entries map[Key][]byte
	group   singleflight.Group

	hits   atomic.Uint64
	misses atomic.Uint64
}

// Option configures a Cache.
type Option func(*Cache)

// WithClient sets the HTTP client used for both requests.
func WithClient(c *http.Client) Option {
	return func(fc *Cache) { fc.client = c }
}

// WithEndpoint sets the css2-style stylesheet endpoint.
func WithEndpoint(endpoint string) Option {
	return func(fc *Cache) { fc.endpoint = endpoint }
}

// WithTimeout sets the default per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(fc *Cache) { fc.timeout = d }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(fc *Cache) { fc.log = l }
}

// New returns an empty Cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		client:   cleanhttp.DefaultPooledClient(),
		endpoint: DefaultEndpoint,
		timeout:  DefaultTimeout,
		maxFont:  maxFontSize,
		log:      slog.Default(),
		entries:  make(map[Key][]byte),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load returns the font data for family at weight using the default timeout.
func (c *Cache) Load(ctx context.Context, family string, weight int) ([]byte, error) {
	return c.LoadTimeout(ctx, family, weight, c.timeout)
}

// LoadTimeout returns the font data for family at weight. On a miss it
// fetches the stylesheet, extracts the font URL and downloads the file, each
// request bounded by its own timeout. Concurrent misses for the same key
// share one download.
func (c *Cache) LoadTimeout(ctx context.Context, family string, weight int, timeout time.Duration) ([]byte, error) {
	key := Key{Family: family, Weight: weight}
	if data, ok := c.get(key); ok {
		c.hits.Add(1)
		return data, nil
	}
	c.misses.Add(1)

	// The shared fetch ignores caller cancellation; each caller stops waiting
	// on its own ctx or deadline.
	flight := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key.String(), func() (any, error) {
		if data, ok := c.get(key); ok {
			return data, nil
		}
		data, err := c.fetch(flight, key, timeout)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[key] = data
		c.mu.Unlock()
		return data, nil
	})

	// Stylesheet and font file are two requests, each bounded by timeout.
	wait := time.NewTimer(2 * timeout)
	defer wait.Stop()

	var err error
	select {
	case res := <-ch:
		if res.Err == nil {
			return res.Val.([]byte), nil
		}
		err = res.Err
	case <-ctx.Done():
		err = fmt.Errorf("%w: %v", ErrFetch, ctx.Err())
	case <-wait.C:
		err = fmt.Errorf("%w: waited %s for a shared download", ErrTimeout, 2*timeout)
	}
	c.log.Error("font load failed", "family", family, "weight", weight, "error", err)
	return nil, fmt.Errorf("fonts: load %s %d: %w", family, weight, err)
}

func (c *Cache) get(key Key) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	data, ok := c.entries[key]
	return data, ok
}

func (c *Cache) fetch(ctx context.Context, key Key, timeout time.Duration) ([]byte, error) {
	css, err := c.download(ctx, c.stylesheetURL(key), timeout, maxStylesheetSize, true)
	if err != nil {
		return nil, err
	}
	m := srcPattern.FindSubmatch(css)
	if m == nil || len(m[1]) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrNoFontURL, key)
	}
	fontURL, err := url.Parse(string(m[1]))
	if err != nil {
		return nil, fmt.Errorf("%w for %s: %v", ErrNoFontURL, key, err)
	}
	if base, err := url.Parse(c.endpoint); err == nil {
		fontURL = base.ResolveReference(fontURL)
	}
	return c.download(ctx, fontURL.String(), timeout, c.maxFont, false)
}

func (c *Cache) stylesheetURL(key Key) string {
	q := url.Values{}
	q.Set("family", key.Family+":wght@"+strconv.Itoa(key.Weight))
	q.Set("display", "swap")
	return c.endpoint + "?" + q.Encode()
}

func (c *Cache) download(ctx context.Context, rawURL string, timeout time.Duration, limit int64, legacyUA bool) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	if legacyUA {
		req.Header.Set("User-Agent", legacyUserAgent)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, classify(ctx, err, rawURL, timeout)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: GET %s: status %d", ErrFetch, rawURL, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, classify(ctx, err, rawURL, timeout)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: GET %s: response exceeds %d bytes", ErrFetch, rawURL, limit)
	}
	return data, nil
}

func classify(ctx context.Context, err error, rawURL string, timeout time.Duration) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: GET %s after %s", ErrTimeout, rawURL, timeout)
	}
	return fmt.Errorf("%w: GET %s: %v", ErrFetch, rawURL, err)
}

// Clear drops every cached entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[Key][]byte)
	c.mu.Unlock()
}

// Len returns the number of cached fonts.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns hit and miss counters.
func (c *Cache) Stats() Stats {
	return Stats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Entries: c.Len(),
	}
}
