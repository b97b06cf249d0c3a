package ogsite

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/ogsite/ogimage"
)

// CardCacheControl is sent with every preview card. Cards are addressed by
// content, so clients may keep them forever.
const CardCacheControl = "public, max-age=31536000, immutable"

func (a *App) handleHome(c echo.Context) error {
	topic := normalizeTag(c.QueryParam("topic"))
	posts, err := a.Cache.ListPosts(topic)
	if err != nil {
		return err
	}
	topics, err := a.Cache.ListTopics()
	if err != nil {
		return err
	}
	return Render(c, a.Views.Home(a.Config, posts, topic, topics))
}

func (a *App) handlePost(c echo.Context) error {
	post, err := a.Cache.GetPost(c.Param("slug"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.Config))
		}
		return err
	}
	posts, err := a.Cache.ListPosts("")
	if err != nil {
		return err
	}
	return Render(c, a.Views.Post(a.Config, post, FilterRelatedPosts(post, posts)))
}

func (a *App) handleSiteImage(c echo.Context) error {
	return a.serveCard(c, siteImageKey, "site", a.Images.Generation(), a.OG.Site)
}

func (a *App) handlePostImage(c echo.Context) error {
	gen := a.Images.Generation()
	post, err := a.Cache.GetPost(c.Param("slug"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "post not found")
		}
		return err
	}
	return a.serveCard(c, postImageKey(post.Slug), "blog", gen, func(ctx context.Context) ([]byte, error) {
		return a.OG.Blog(ctx, CardInput(post))
	})
}

// CardInput builds the preview card content of post.
func CardInput(post BlogPost) ogimage.PostInput {
	return ogimage.PostInput{
		Title:    post.Title,
		Subtitle: post.Description,
		Author:   post.Author,
		Date:     ogimage.FormatDate(post.Date),
		Topic:    post.Topic,
	}
}

// serveCard writes a cached card, or renders, caches and writes it. Renders
// count against the client's RenderLimiter budget. gen is the image cache
// generation read before the card's content was looked up; a card rendered
// across a content reload is served but not cached.
func (a *App) serveCard(c echo.Context, key, kind string, gen uint64, render func(context.Context) ([]byte, error)) error {
	png, ok := a.Images.Get(key)
	if !ok {
		if !a.renderLimiter.Allow(c.RealIP()) {
			a.metrics.RenderRejected.Inc()
			return echo.NewHTTPError(http.StatusTooManyRequests, "too many image renders, retry later")
		}
		start := time.Now()
		var err error
		png, err = render(c.Request().Context())
		a.metrics.RenderDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
		if err != nil {
			a.metrics.Renders.WithLabelValues(kind, "error").Inc()
			return err
		}
		a.metrics.Renders.WithLabelValues(kind, "ok").Inc()
		if !a.Images.Add(key, png, gen) {
			a.log.Debug("card rendered across a content reload, not cached", "key", key)
		}
	}
	a.metrics.CardFetches.WithLabelValues(kind, CrawlerName(c.Request().UserAgent())).Inc()
	c.Response().Header().Set("Cache-Control", CardCacheControl)
	return c.Blob(http.StatusOK, "image/png", png)
}

func (a *App) handleSitemap(c echo.Context) error {
	posts, err := a.Cache.ListPosts("")
	if err != nil {
		return err
	}
	topics, err := a.Cache.ListTopics()
	if err != nil {
		return err
	}
	return a.renderSitemap(c, posts, topics)
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.Cache.ListPosts("")
	if err != nil {
		return err
	}
	return a.renderRSS(c, posts)
}

func (a *App) handleSearchIndex(c echo.Context) error {
	posts, err := a.Cache.ListPosts("")
	if err != nil {
		return err
	}
	c.Response().Header().Set("Cache-Control", "public, max-age=3600")
	return c.JSON(http.StatusOK, NewSearchIndex(posts))
}

func (a *App) handleHealth(c echo.Context) error {
	n, err := a.Store.Count()
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"posts":  n,
		"fonts":  a.fonts.Len(),
		"cards":  a.Images.Len(),
	})
}

func handleBlogRedirect(c echo.Context) error {
	return c.Redirect(http.StatusMovedPermanently, "/")
}

func handleFeedRedirect(c echo.Context) error {
	return c.Redirect(http.StatusMovedPermanently, "/rss.xml")
}

func (a *App) handleFavicon(c echo.Context) error {
	return a.serveAsset(c, "favicon.svg")
}

func (a *App) handleRobots(c echo.Context) error {
	if _, err := os.Stat(filepath.Join(a.Config.StaticDir, "robots.txt")); err == nil {
		return c.File(filepath.Join(a.Config.StaticDir, "robots.txt"))
	}
	return c.String(http.StatusOK, RobotsTxt(a.Config))
}

// serveAsset serves name from the static dir, falling back to the copy
// embedded in the binary.
func (a *App) serveAsset(c echo.Context, name string) error {
	path := filepath.Join(a.Config.StaticDir, name)
	if _, err := os.Stat(path); err == nil {
		return c.File(path)
	}
	data, err := EmbeddedAssets.ReadFile("embedded/" + name)
	if err != nil {
		return echo.ErrNotFound
	}
	return c.Blob(http.StatusOK, mimeByName(name), data)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.Config))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.log.Error("server error",
			"method", c.Request().Method,
			"uri", c.Request().RequestURI,
			"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			"error", err,
		)
		_ = RenderStatus(c, code, a.Views.ServerError(a.Config))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
