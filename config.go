package ogsite

import (
	"log/slog"
	"strings"
	"time"

	"github.com/eringen/ogsite/config"
	"github.com/eringen/ogsite/fonts"
)

// SiteConfig holds the settings the web layer runs with. It is derived from
// the resolved configuration tree by NewSiteConfig.
type SiteConfig struct {
	Name        string // Site name (default "Blog")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for meta tags
	Author      string // Author name for JSON-LD
	Language    string // RSS language (default "en-us")

	FeedTitle       string // RSS channel title (default Name + " Blog")
	FeedDescription string // RSS channel description (default Description)

	Addr         string // Listen address (default ":3000")
	DatabasePath string // SQLite path (default "data/blog.db")
	ContentDir   string // Root holding blog/**/*.md (default "content")
	StaticDir    string // User-owned static assets (default "public")

	PostCacheTTL   time.Duration // Post cache TTL (default 5min)
	ImageCacheSize int           // Rendered cards kept in memory (default 256)
	RenderLimit    int           // Card renders per IP per RenderWindow (default 30)
	RenderWindow   time.Duration // default 1min
	Watch          bool          // Reload content when files change
}

// NewSiteConfig maps resolved settings onto a SiteConfig. Unset fields get
// their defaults when the App is created.
func NewSiteConfig(s *config.Settings) SiteConfig {
	desc := s.SEO.DefaultDescription
	if desc == "" {
		desc = s.App.Description
	}
	return SiteConfig{
		Name:         firstNonEmpty(s.SEO.SiteName, s.App.Name),
		URL:          s.Site.URL,
		Description:  desc,
		Author:       s.Site.Author,
		Language:     language(s.SEO.Locale),
		FeedTitle:    feedTitle(s.App.Name),
		Addr:         s.Server.Addr,
		DatabasePath: s.Server.Database,
		ContentDir:   s.Server.ContentDir,
		StaticDir:    s.Server.StaticDir,
	}
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	c.URL = strings.TrimRight(c.URL, "/")
	if c.Language == "" {
		c.Language = "en-us"
	}
	if c.FeedTitle == "" {
		c.FeedTitle = feedTitle(c.Name)
	}
	if c.FeedDescription == "" {
		c.FeedDescription = c.Description
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/blog.db"
	}
	if c.ContentDir == "" {
		c.ContentDir = "content"
	}
	if c.StaticDir == "" {
		c.StaticDir = "public"
	}
	if c.PostCacheTTL == 0 {
		c.PostCacheTTL = 5 * time.Minute
	}
	if c.ImageCacheSize <= 0 {
		c.ImageCacheSize = 256
	}
	if c.RenderLimit <= 0 {
		c.RenderLimit = 30
	}
	if c.RenderWindow == 0 {
		c.RenderWindow = time.Minute
	}
}

func feedTitle(name string) string {
	if name == "" {
		return ""
	}
	return name + " Blog"
}

// language turns a locale such as "en_US" into an RSS language tag.
func language(locale string) string {
	return strings.ToLower(strings.ReplaceAll(locale, "_", "-"))
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir overrides the directory for user-owned static assets.
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.Config.StaticDir = dir
	}
}

// WithContentDir overrides the directory posts are loaded from.
func WithContentDir(dir string) Option {
	return func(a *App) {
		a.Config.ContentDir = dir
	}
}

// WithDatabase overrides the SQLite path. ":memory:" is accepted.
func WithDatabase(path string) Option {
	return func(a *App) {
		a.Config.DatabasePath = path
	}
}

// WithLogger sets the logger used by the app and its request log.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		a.log = l
	}
}

// WithFontCache shares a font cache with the card renderer. By default the
// App creates its own, pointed at server.fontsURL when set.
func WithFontCache(fc *fonts.Cache) Option {
	return func(a *App) {
		a.fonts = fc
	}
}

// WithWatch reloads content whenever a post file changes.
func WithWatch(on bool) Option {
	return func(a *App) {
		a.Config.Watch = on
	}
}
