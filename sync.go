package ogsite

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/eringen/ogsite/content"
	"github.com/eringen/ogsite/markdown"
)

// PostFromContent converts a parsed post file into a BlogPost.
func PostFromContent(p content.Post) BlogPost {
	return BlogPost{
		Slug:         p.Slug,
		Title:        p.Title,
		Description:  p.Description,
		Author:       p.Author,
		Date:         p.Published,
		Topic:        p.Topic,
		Tags:         p.Tags,
		Image:        p.Image,
		ShareMessage: p.ShareMessage,
		Content:      p.Body,
		ReadTime:     markdown.ReadTime(p.Body),
		Link:         PostPath(p.Slug),
	}
}

// LoadPosts reads every post under dir. A missing directory yields no posts.
func LoadPosts(dir string, opts ...content.Option) ([]BlogPost, []content.Failure, error) {
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return nil, nil, nil
	}
	loaded, failures, err := content.NewLoader(os.DirFS(dir), opts...).Load()
	if err != nil {
		return nil, nil, err
	}
	posts := make([]BlogPost, 0, len(loaded))
	for _, p := range loaded {
		posts = append(posts, PostFromContent(p))
	}
	return posts, failures, nil
}

// SyncContent reloads the posts under Config.ContentDir into the store and
// drops every cached post and card. It returns the number of posts loaded.
func (a *App) SyncContent(ctx context.Context) (int, error) {
	start := time.Now()
	posts, failures, err := LoadPosts(a.Config.ContentDir, content.WithLogger(a.log))
	if err == nil {
		err = a.Store.ReplacePosts(ctx, posts)
	}
	if err != nil {
		a.metrics.ContentReloads.WithLabelValues("error").Inc()
		return 0, fmt.Errorf("ogsite: sync content: %w", err)
	}

	a.Cache.Invalidate()
	a.Images.Purge()
	a.metrics.ContentReloads.WithLabelValues("ok").Inc()
	a.metrics.Posts.Set(float64(len(posts)))
	a.log.Info("content loaded",
		"dir", a.Config.ContentDir,
		"posts", len(posts),
		"skipped", len(failures),
		"took", time.Since(start).Round(time.Millisecond),
	)
	return len(posts), nil
}

// watchContent reloads content on file changes until ctx is done.
func (a *App) watchContent(ctx context.Context) {
	err := content.Watch(ctx, a.Config.ContentDir, content.DefaultDebounce, a.log, func() {
		if _, err := a.SyncContent(ctx); err != nil {
			a.log.Error("content reload failed", "error", err)
		}
	})
	if err != nil {
		a.log.Warn("content watcher stopped", "dir", a.Config.ContentDir, "error", err)
	}
}
