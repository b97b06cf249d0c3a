package ogimage

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/eringen/ogsite/config"
	"github.com/eringen/ogsite/fonts"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

const testLogo = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10"><circle cx="5" cy="5" r="5" fill="#4F46E5"/></svg>`

// fontServer serves a css2 stylesheet pointing at Go fonts; weights of 600
// and above get the bold face.
func fontServer(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/css2", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		file := "regular.ttf"
		_, wght, _ := strings.Cut(r.URL.Query().Get("family"), "@")
		if weight, _ := strconv.Atoi(wght); weight >= 600 {
			file = "bold.ttf"
		}
		fmt.Fprintf(w, "@font-face { src: url(/files/%s) format('truetype'); }", file)
	})
	mux.HandleFunc("/files/regular.ttf", func(w http.ResponseWriter, r *http.Request) { w.Write(goregular.TTF) })
	mux.HandleFunc("/files/bold.ttf", func(w http.ResponseWriter, r *http.Request) { w.Write(gobold.TTF) })
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &hits
}

func testSettings() *config.Settings {
	s := &config.Settings{}
	s.App.Name = "Azide Boron"
	s.SEO.SiteName = "Azide Boron"
	s.SEO.DefaultDescription = "Insights on tech, marketing and more"
	s.Theme.Colors = config.Colors{Primary: "#4F46E5", GradientStart: "#667eea", GradientEnd: "#764ba2"}
	s.Theme.Blog = map[string]config.Colors{
		"tech": {Primary: "#0EA5E9", GradientStart: "#0EA5E9", GradientEnd: "#6366F1"},
	}
	return s
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newService(t *testing.T, srv *httptest.Server, opts ...Option) *Service {
	t.Helper()
	fc := fonts.New(fonts.WithEndpoint(srv.URL+"/css2"), fonts.WithClient(srv.Client()), fonts.WithLogger(quietLogger()))
	logo := filepath.Join(t.TempDir(), "logo.svg")
	require.NoError(t, os.WriteFile(logo, []byte(testLogo), 0o644))
	base := []Option{WithLogoPath(logo), WithLogger(quietLogger())}
	return New(testSettings(), fc, append(base, opts...)...)
}

func TestBlogEndToEnd(t *testing.T) {
	srv, _ := fontServer(t)
	svc := newService(t, srv)

	out, err := svc.Blog(context.Background(), PostInput{
		Title:  "Hello World",
		Author: "Jane",
		Date:   "Jan 1, 2025",
		Topic:  "tech",
	})
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.True(t, bytes.HasPrefix(out, pngMagic))

	cfg, err := png.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 1200, cfg.Width)
	assert.Equal(t, 630, cfg.Height)
}

func TestSiteCard(t *testing.T) {
	srv, _ := fontServer(t)
	svc := newService(t, srv, WithClock(func() time.Time { return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC) }))

	out, err := svc.Site(context.Background())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, pngMagic))
}

func TestFontsAreFetchedOncePerWeight(t *testing.T) {
	srv, hits := fontServer(t)
	svc := newService(t, srv)

	for i := 0; i < 2; i++ {
		_, err := svc.Blog(context.Background(), PostInput{Title: "Again", Author: "Jane", Date: "Jan 1, 2025"})
		require.NoError(t, err)
	}
	assert.EqualValues(t, len(fonts.Inter), hits.Load())
}

func TestMissingLogoStillRenders(t *testing.T) {
	srv, _ := fontServer(t)
	svc := newService(t, srv, WithLogoPath(filepath.Join(t.TempDir(), "missing.svg")))

	out, err := svc.Blog(context.Background(), PostInput{Title: "No logo", Author: "Jane", Date: "Jan 1, 2025"})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, pngMagic))
}

func TestFontFailureIsGenerateError(t *testing.T) {
	fc := fonts.New(fonts.WithEndpoint("http://127.0.0.1:1/css2"), fonts.WithTimeout(time.Second), fonts.WithLogger(quietLogger()))
	svc := New(testSettings(), fc, WithLogoPath(""), WithLogger(quietLogger()))

	out, err := svc.Blog(context.Background(), PostInput{Title: "x"})
	assert.ErrorIs(t, err, ErrGenerate)
	assert.Nil(t, out)
}

func TestPreloadFonts(t *testing.T) {
	srv, _ := fontServer(t)
	svc := newService(t, srv)

	res := svc.PreloadFonts(context.Background())
	assert.True(t, res.OK())
	assert.Len(t, res.Loaded, len(fonts.Inter))
}

func TestThemeForTopic(t *testing.T) {
	theme := testSettings().Theme

	tech := ThemeForTopic(theme, "Tech")
	assert.Equal(t, "Technology", tech.Name)
	assert.Equal(t, "#0EA5E9", tech.PrimaryColor)
	assert.Equal(t, "#6366F1", tech.GradientEnd)

	fallback := ThemeForTopic(theme, "health")
	assert.Equal(t, "Health", fallback.Name)
	assert.Equal(t, "#4F46E5", fallback.PrimaryColor)
	assert.Equal(t, "#667eea", fallback.GradientStart)
	assert.Equal(t, "#764ba2", fallback.GradientEnd)
}

func TestTopicName(t *testing.T) {
	assert.Equal(t, "Entrepreneurship", TopicName("entrepreneurship"))
	assert.Equal(t, "Home Cooking", TopicName("home cooking"))
	assert.Equal(t, "", TopicName(""))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "Jan 24, 2025", FormatDate(time.Date(2025, 1, 24, 10, 0, 0, 0, time.UTC)))
}
