// Package ogimage generates the Open Graph preview images of the site and
// its blog posts.
package ogimage

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/eringen/ogsite/compositor"
	"github.com/eringen/ogsite/config"
	"github.com/eringen/ogsite/fonts"
	"github.com/eringen/ogsite/layout"
)

// ErrGenerate wraps every font or compositing failure of a render.
var ErrGenerate = errors.New("ogimage: generate")

// DateLayout is how post dates are printed on cards.
const DateLayout = "Jan 2, 2006"

// PostInput is the content of a blog post card.
type PostInput struct {
	Title    string
	Subtitle string
	Author   string
	// Date is already formatted, see FormatDate.
	Date  string
	Topic string
}

// FormatDate formats t the way cards print dates, e.g. "Jan 24, 2025".
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Service renders preview cards. It is safe for concurrent use.
type Service struct {
	settings *config.Settings
	fonts    *fonts.Cache
	keys     []fonts.Key
	logoPath string
	size     compositor.Options
	log      *slog.Logger
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogoPath sets the logo file drawn as the brand mark (default
// "public/logo.svg").
func WithLogoPath(path string) Option {
	return func(s *Service) { s.logoPath = path }
}

// WithFonts sets the font family and weights cards are drawn with.
func WithFonts(keys []fonts.Key) Option {
	return func(s *Service) { s.keys = keys }
}

// WithSize overrides the canvas size.
func WithSize(width, height int) Option {
	return func(s *Service) { s.size = compositor.Options{Width: width, Height: height} }
}

// WithLogger sets the logger used for logo warnings.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithClock sets the time source used for the site card year.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New returns a Service drawing with settings and loading fonts through fc.
func New(settings *config.Settings, fc *fonts.Cache, opts ...Option) *Service {
	s := &Service{
		settings: settings,
		fonts:    fc,
		keys:     fonts.Inter,
		logoPath: filepath.Join("public", "logo.svg"),
		log:      slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Blog renders the card of one blog post.
func (s *Service) Blog(ctx context.Context, in PostInput) ([]byte, error) {
	tree := layout.BlogCard(layout.BlogFields{
		Title:    in.Title,
		Subtitle: in.Subtitle,
		Author:   in.Author,
		Date:     in.Date,
		BlogName: s.settings.App.Name,
		Logo:     s.logo(),
		Theme:    ThemeForTopic(s.settings.Theme, in.Topic),
		Topic:    in.Topic,
	})
	return s.composite(ctx, tree)
}

// Site renders the generic site card from the site settings.
func (s *Service) Site(ctx context.Context) ([]byte, error) {
	tree := layout.SiteCard(layout.SiteFields{
		Title:      s.settings.App.Name,
		Subtitle:   s.settings.SEO.DefaultDescription,
		Author:     s.settings.Site.Author,
		SiteName:   s.settings.SEO.SiteName,
		ThemeColor: s.settings.Theme.Primary,
		Logo:       s.logo(),
		Year:       s.now().Year(),
	})
	return s.composite(ctx, tree)
}

// PreloadFonts fetches the card fonts ahead of the first render. Failures
// are returned for the caller to log; they are retried on demand.
func (s *Service) PreloadFonts(ctx context.Context) fonts.PreloadResult {
	return s.fonts.Preload(ctx, s.keys)
}

func (s *Service) composite(ctx context.Context, tree *layout.Node) ([]byte, error) {
	loaded, err := s.loadFonts(ctx)
	if err != nil {
		return nil, err
	}
	png, err := compositor.Composite(tree, loaded, s.size)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerate, err)
	}
	return png, nil
}

// loadFonts fetches every card font in parallel.
func (s *Service) loadFonts(ctx context.Context) ([]compositor.Font, error) {
	out := make([]compositor.Font, len(s.keys))
	g, ctx := errgroup.WithContext(ctx)
	for i, k := range s.keys {
		g.Go(func() error {
			data, err := s.fonts.Load(ctx, k.Family, k.Weight)
			if err != nil {
				return err
			}
			out[i] = compositor.Font{Name: k.Family, Weight: k.Weight, Data: data}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerate, err)
	}
	return out, nil
}

// logo returns the logo file as a data URL, or "" when it cannot be read.
func (s *Service) logo() string {
	if s.logoPath == "" {
		return ""
	}
	data, err := os.ReadFile(s.logoPath)
	if err != nil {
		s.log.Warn("logo unavailable, drawing monogram", "path", s.logoPath, "error", err)
		return ""
	}
	typ := mime.TypeByExtension(filepath.Ext(s.logoPath))
	if typ == "" {
		typ = http.DetectContentType(data)
	}
	typ, _, _ = strings.Cut(typ, ";")
	return "data:" + typ + ";base64," + base64.StdEncoding.EncodeToString(data)
}
