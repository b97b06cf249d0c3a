// Package ogsite is a blog engine built with Go, Echo and templ whose core
// is an on-demand Open Graph preview card pipeline. It serves posts authored
// as markdown files, an RSS feed, a search index, a sitemap and PNG cards for
// the site and every post.
//
// Users provide their own templ components via the ViewFuncs struct; ogsite
// owns the handlers, middleware, post index and card rendering.
package ogsite

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/ogsite/config"
	"github.com/eringen/ogsite/fonts"
	"github.com/eringen/ogsite/ogimage"
)

// ViewFuncs holds user-provided templ components that the app calls when
// rendering pages.
type ViewFuncs struct {
	Home        func(site SiteConfig, posts []BlogPost, activeTopic string, topics []string) templ.Component
	Post        func(site SiteConfig, post BlogPost, related []BlogPost) templ.Component
	NotFound    func(site SiteConfig) templ.Component
	ServerError func(site SiteConfig) templ.Component
}

// App is the central ogsite application. It wires together the store,
// caches, card renderer, handlers and middleware.
type App struct {
	Config   SiteConfig
	Settings *config.Settings
	Echo     *echo.Echo
	Store    *Store
	Cache    *PostCache
	Images   *ImageCache
	OG       *ogimage.Service
	Views    ViewFuncs

	log           *slog.Logger
	fonts         *fonts.Cache
	metrics       *Metrics
	renderLimiter *RenderLimiter
	customRoutes  []func(*App)
	ready         bool
}

// New creates an App from resolved settings and view functions.
func New(settings *config.Settings, views ViewFuncs, opts ...Option) *App {
	a := &App{
		Config:   NewSiteConfig(settings),
		Settings: settings,
		Echo:     echo.New(),
		Views:    views,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.Config.setDefaults()
	a.Echo.HideBanner = true
	a.Echo.HidePort = true
	return a
}

// Init opens the store, loads content and registers middleware and routes.
// Start calls it; tests and tools that only need the handler call it
// directly.
func (a *App) Init(ctx context.Context) error {
	if a.ready {
		return nil
	}
	if a.Views.Home == nil || a.Views.Post == nil || a.Views.NotFound == nil || a.Views.ServerError == nil {
		return errors.New("ogsite: every view func is required")
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("ogsite: init store: %w", err)
	}
	a.Store = store
	a.Cache = NewPostCache(a.Store, a.Config.PostCacheTTL)
	a.metrics = NewMetrics()

	a.Images, err = NewImageCache(a.Config.ImageCacheSize, a.metrics)
	if err != nil {
		return fmt.Errorf("ogsite: init image cache: %w", err)
	}
	a.renderLimiter = NewRenderLimiter(a.Config.RenderLimit, a.Config.RenderWindow)

	if a.fonts == nil {
		fopts := []fonts.Option{fonts.WithLogger(a.log)}
		if u := a.Settings.Server.FontsURL; u != "" {
			fopts = append(fopts, fonts.WithEndpoint(u))
		}
		a.fonts = fonts.New(fopts...)
	}
	a.OG = ogimage.New(a.Settings, a.fonts,
		ogimage.WithLogoPath(filepath.Join(a.Config.StaticDir, "logo.svg")),
		ogimage.WithLogger(a.log),
	)

	if _, err := a.SyncContent(ctx); err != nil {
		return err
	}

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	a.ready = true
	return nil
}

// Start initializes the app, preloads card fonts in the background and
// serves until ctx is cancelled, then shuts the server down gracefully.
func (a *App) Start(ctx context.Context) error {
	if err := a.Init(ctx); err != nil {
		return err
	}

	go func() {
		res := a.OG.PreloadFonts(ctx)
		for _, f := range res.Failed {
			a.log.Warn("font preload failed", "font", f.Key.String(), "error", f.Err)
		}
		a.log.Debug("fonts preloaded", "loaded", len(res.Loaded), "failed", len(res.Failed))
	}()
	if a.Config.Watch {
		go a.watchContent(ctx)
	}

	errc := make(chan error, 1)
	go func() {
		a.log.Info("server listening", "addr", a.Config.Addr, "url", a.Config.URL)
		if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
			return
		}
		errc <- nil
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	a.log.Info("shutting down")
	if err := a.Echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("ogsite: shutdown: %w", err)
	}
	return <-errc
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.Static("/public", a.Config.StaticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)

	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/rss.xml", a.handleFeed)
	e.GET("/feed.xml", handleFeedRedirect)
	e.GET("/search-index.json", a.handleSearchIndex)

	e.GET("/og-image.png", a.handleSiteImage)
	e.GET("/blog/:slug/og.png", a.handlePostImage)

	e.GET("/blog", handleBlogRedirect)
	e.GET("/", a.handleHome)
	e.GET("/blog/:slug/", a.handlePost)

	e.GET("/healthz", a.handleHealth)
	e.GET("/metrics", a.metricsHandler())
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.renderLimiter != nil {
		a.renderLimiter.Stop()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
