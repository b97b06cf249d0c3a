package ogsite

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/mmcdole/gofeed/rss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/eringen/ogsite/config"
	"github.com/eringen/ogsite/fonts"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

const helloPost = `---
title: Hello World
description: The first post
author: Jane
date: 2025-01-24
topic: tech
tags: [go, images]
---

Hello **world**.
`

const olderPost = `---
title: Sleep Better
description: On rest
author: Sam
date: 2024-06-01
topic: health
tags: [habits, go]
---

Rest.
`

func fontServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/css2", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "@font-face { src: url(/files/regular.ttf) format('truetype'); }")
	})
	mux.HandleFunc("/files/regular.ttf", func(w http.ResponseWriter, r *http.Request) {
		w.Write(goregular.TTF)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func stubViews() ViewFuncs {
	write := func(s string) templ.Component {
		return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
			_, err := io.WriteString(w, s)
			return err
		})
	}
	return ViewFuncs{
		Home: func(site SiteConfig, posts []BlogPost, topic string, topics []string) templ.Component {
			slugs := make([]string, len(posts))
			for i, p := range posts {
				slugs[i] = p.Slug
			}
			return write(fmt.Sprintf("home topic=%s posts=%s topics=%s", topic, strings.Join(slugs, ","), strings.Join(topics, ",")))
		},
		Post: func(site SiteConfig, post BlogPost, related []BlogPost) templ.Component {
			return write(fmt.Sprintf("post %s related=%d read=%d", post.Slug, len(related), post.ReadTime))
		},
		NotFound:    func(SiteConfig) templ.Component { return write("not found") },
		ServerError: func(SiteConfig) templ.Component { return write("server error") },
	}
}

func testSettings() *config.Settings {
	s := &config.Settings{}
	s.App.Name = "Azide Boron"
	s.SEO.SiteName = "Azide Boron"
	s.SEO.DefaultDescription = "Insights on tech, marketing, entrepreneurship, productivity, and health"
	s.SEO.Locale = "en_US"
	s.Site.URL = "https://example.com/"
	s.Site.Author = "Jane"
	s.Theme.Colors = config.Colors{Primary: "#4F46E5", GradientStart: "#667eea", GradientEnd: "#764ba2"}
	return s
}

type testApp struct {
	*App
	contentDir string
}

func newTestApp(t *testing.T, fontsURL string, tweak ...func(*App)) *testApp {
	t.Helper()
	dir := t.TempDir()
	contentDir := filepath.Join(dir, "content")
	staticDir := filepath.Join(dir, "public")
	require.NoError(t, os.MkdirAll(filepath.Join(contentDir, "blog"), 0o755))
	require.NoError(t, os.MkdirAll(staticDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(contentDir, "blog", "hello-world.md"), []byte(helloPost), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(contentDir, "blog", "sleep-better.md"), []byte(olderPost), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(contentDir, "blog", "broken.md"), []byte("no frontmatter"), 0o644))

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	fc := fonts.New(fonts.WithEndpoint(fontsURL), fonts.WithLogger(log))
	a := New(testSettings(), stubViews(),
		WithContentDir(contentDir),
		WithStaticDir(staticDir),
		WithDatabase(filepath.Join(dir, "blog.db")),
		WithLogger(log),
		WithFontCache(fc),
	)
	for _, fn := range tweak {
		fn(a)
	}
	require.NoError(t, a.Init(context.Background()))
	t.Cleanup(func() { a.Close() })
	return &testApp{App: a, contentDir: contentDir}
}

func (a *testApp) get(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	return rec
}

func TestNewSiteConfigDefaults(t *testing.T) {
	cfg := NewSiteConfig(testSettings())
	cfg.setDefaults()
	assert.Equal(t, "Azide Boron", cfg.Name)
	assert.Equal(t, "https://example.com", cfg.URL)
	assert.Equal(t, "Azide Boron Blog", cfg.FeedTitle)
	assert.Equal(t, "en-us", cfg.Language)
	assert.Equal(t, cfg.Description, cfg.FeedDescription)
	assert.Equal(t, ":3000", cfg.Addr)
	assert.Equal(t, "content", cfg.ContentDir)

	empty := NewSiteConfig(&config.Settings{})
	empty.setDefaults()
	assert.Equal(t, "Blog", empty.Name)
	assert.Equal(t, "Blog Blog", empty.FeedTitle)
}

func TestInitRequiresViews(t *testing.T) {
	a := New(testSettings(), ViewFuncs{}, WithDatabase(":memory:"))
	assert.Error(t, a.Init(context.Background()))
}

func TestSiteImage(t *testing.T) {
	app := newTestApp(t, fontServer(t).URL+"/css2")

	rec := app.get("/og-image.png")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, CardCacheControl, rec.Header().Get("Cache-Control"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), pngMagic))
}

func TestPostImageIsCached(t *testing.T) {
	app := newTestApp(t, fontServer(t).URL+"/css2")

	first := app.get("/blog/hello-world/og.png")
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())
	assert.Equal(t, CardCacheControl, first.Header().Get("Cache-Control"))
	assert.Equal(t, 1, app.Images.Len())

	second := app.get("/blog/hello-world/og.png")
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, first.Body.Bytes(), second.Body.Bytes())
	assert.Equal(t, 1, app.Images.Len())
}

func TestPostImageUnknownSlug(t *testing.T) {
	app := newTestApp(t, fontServer(t).URL+"/css2")

	rec := app.get("/blog/missing/og.png")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotEqual(t, CardCacheControl, rec.Header().Get("Cache-Control"))
}

func TestRenderLimitReturns429(t *testing.T) {
	app := newTestApp(t, fontServer(t).URL+"/css2", func(a *App) { a.Config.RenderLimit = 1 })

	require.Equal(t, http.StatusOK, app.get("/og-image.png").Code)
	assert.Equal(t, http.StatusTooManyRequests, app.get("/blog/hello-world/og.png").Code)
	// cached cards do not count against the budget
	assert.Equal(t, http.StatusOK, app.get("/og-image.png").Code)
}

func TestImageRenderFailureIs500(t *testing.T) {
	app := newTestApp(t, "http://127.0.0.1:1/css2")

	rec := app.get("/og-image.png")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "server error", rec.Body.String())
	assert.Equal(t, 0, app.Images.Len())
}

func TestFeed(t *testing.T) {
	app := newTestApp(t, fontServer(t).URL+"/css2")

	rec := app.get("/rss.xml")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/rss+xml")

	feed, err := (&rss.Parser{}).Parse(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, "Azide Boron Blog", feed.Title)
	assert.Equal(t, "en-us", feed.Language)
	require.Len(t, feed.Items, 2)

	item := feed.Items[0]
	assert.Equal(t, "Hello World", item.Title)
	assert.Equal(t, "https://example.com/blog/hello-world/", item.Link)
	assert.Equal(t, "The first post", item.Description)
	assert.Equal(t, "Jane", item.Author)
	require.Len(t, item.Categories, 1)
	assert.Equal(t, "tech", item.Categories[0].Value)
	assert.Equal(t, "Sleep Better", feed.Items[1].Title)
}

func TestFeedRedirect(t *testing.T) {
	app := newTestApp(t, fontServer(t).URL+"/css2")

	rec := app.get("/feed.xml")
	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "/rss.xml", rec.Header().Get("Location"))
}

func TestSearchIndex(t *testing.T) {
	app := newTestApp(t, fontServer(t).URL+"/css2")

	rec := app.get("/search-index.json")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public, max-age=3600", rec.Header().Get("Cache-Control"))

	var index SearchIndex
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &index))
	require.Len(t, index.Documents, 2)
	doc := index.Documents[0]
	assert.Equal(t, SearchDocument{
		Slug:        "hello-world",
		Title:       "Hello World",
		Description: "The first post",
		Author:      "Jane",
		Date:        "2025-01-24T00:00:00.000Z",
		Topic:       "tech",
		Tags:        []string{"go", "images"},
	}, doc)
}

func TestSearchIndexEmptyTags(t *testing.T) {
	index := NewSearchIndex([]BlogPost{{Slug: "a"}})
	b, err := json.Marshal(index)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"tags":[]`)
}

func TestSitemap(t *testing.T) {
	app := newTestApp(t, fontServer(t).URL+"/css2")

	rec := app.get("/sitemap.xml")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<loc>https://example.com/</loc>")
	assert.Contains(t, body, "<loc>https://example.com/blog/hello-world/</loc>")
	assert.Contains(t, body, "<lastmod>2025-01-24</lastmod>")
	assert.Contains(t, body, "<loc>https://example.com/?topic=health</loc>")
	assert.Contains(t, body, "<lastmod>2024-06-01</lastmod>")
}

func TestHomeAndTopicFilter(t *testing.T) {
	app := newTestApp(t, fontServer(t).URL+"/css2")

	rec := app.get("/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "home topic= posts=hello-world,sleep-better topics=health,tech", rec.Body.String())

	rec = app.get("/?topic=Health")
	assert.Equal(t, "home topic=health posts=sleep-better topics=health,tech", rec.Body.String())
}

func TestPostPage(t *testing.T) {
	app := newTestApp(t, fontServer(t).URL+"/css2")

	rec := app.get("/blog/hello-world/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "post hello-world related=1 read=1", rec.Body.String())

	assert.Equal(t, http.StatusNotFound, app.get("/blog/missing/").Code)
	assert.Equal(t, http.StatusMovedPermanently, app.get("/blog/hello-world").Code)
}

func TestHealthAndMetrics(t *testing.T) {
	app := newTestApp(t, fontServer(t).URL+"/css2")

	rec := app.get("/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"posts":2`)

	require.Equal(t, http.StatusOK, app.get("/og-image.png").Code)
	req := httptest.NewRequest(http.MethodGet, "/og-image.png", nil)
	req.Header.Set("User-Agent", "Twitterbot/1.0")
	app.Echo.ServeHTTP(httptest.NewRecorder(), req)

	rec = app.get("/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `ogsite_og_renders_total{kind="site",result="ok"} 1`)
	assert.Contains(t, rec.Body.String(), `ogsite_og_card_fetches_total{client="twitter",kind="site"} 1`)
	assert.Contains(t, rec.Body.String(), `ogsite_og_card_fetches_total{client="unknown",kind="site"} 1`)
	assert.Contains(t, rec.Body.String(), `ogsite_posts 2`)
}

func TestRobotsFallback(t *testing.T) {
	app := newTestApp(t, fontServer(t).URL+"/css2")

	rec := app.get("/robots.txt")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Sitemap: https://example.com/sitemap.xml")

	rec = app.get("/favicon.svg")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<svg")
}

func TestSyncContentReloadsAndPurgesCards(t *testing.T) {
	app := newTestApp(t, fontServer(t).URL+"/css2")
	require.Equal(t, http.StatusOK, app.get("/og-image.png").Code)
	require.Equal(t, 1, app.Images.Len())

	extra := strings.Replace(helloPost, "Hello World", "Third", 1)
	extra = strings.Replace(extra, "2025-01-24", "2025-03-01", 1)
	require.NoError(t, os.WriteFile(filepath.Join(app.contentDir, "blog", "third.md"), []byte(extra), 0o644))

	n, err := app.SyncContent(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 0, app.Images.Len())

	posts, err := app.Cache.ListPosts("")
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, "third", posts[0].Slug)
}

func TestCardRenderedAcrossReloadIsNotCached(t *testing.T) {
	app := newTestApp(t, fontServer(t).URL+"/css2")
	gen := app.Images.Generation()

	req := httptest.NewRequest(http.MethodGet, "/blog/hello-world/og.png", nil)
	rec := httptest.NewRecorder()
	c := app.Echo.NewContext(req, rec)
	err := app.serveCard(c, postImageKey("hello-world"), "blog", gen, func(ctx context.Context) ([]byte, error) {
		if _, err := app.SyncContent(ctx); err != nil {
			return nil, err
		}
		return []byte("stale card"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "stale card", rec.Body.String())
	assert.Equal(t, 0, app.Images.Len())

	require.Equal(t, http.StatusOK, app.get("/blog/hello-world/og.png").Code)
	assert.Equal(t, 1, app.Images.Len())
}

func TestLoadPostsMissingDir(t *testing.T) {
	posts, failures, err := LoadPosts(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, posts)
	assert.Empty(t, failures)
}
