package views

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/ogsite"
)

var site = ogsite.SiteConfig{
	Name:        "Azide Boron",
	URL:         "https://example.com",
	Description: "Insights & ideas",
	Author:      "Jane",
	FeedTitle:   "Azide Boron Blog",
}

var hello = ogsite.BlogPost{
	Slug:        "hello-world",
	Title:       "Hello <World>",
	Description: "The first post",
	Author:      "Jane",
	Date:        time.Date(2025, 1, 24, 0, 0, 0, 0, time.UTC),
	Topic:       "tech",
	Tags:        []string{"go"},
	Content:     "Some **bold** text.\n\n<script>alert(1)</script>",
	ReadTime:    3,
}

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func TestHome(t *testing.T) {
	out := renderString(t, Home(site, []ogsite.BlogPost{hello}, "tech", []string{"health", "tech"}))

	assert.Contains(t, out, "<title>Technology | Azide Boron</title>")
	assert.Contains(t, out, `href="/blog/hello-world/"`)
	assert.Contains(t, out, "Hello &lt;World&gt;")
	assert.Contains(t, out, "Jan 24, 2025")
	assert.Contains(t, out, "3 min read")
	assert.Contains(t, out, `<a href="/?topic=tech" aria-current="page">Technology</a>`)
	assert.Contains(t, out, `content="https://example.com/og-image.png"`)
	assert.Contains(t, out, `"@type":"WebSite"`)
}

func TestHomeEmpty(t *testing.T) {
	out := renderString(t, Home(site, nil, "", nil))
	assert.Contains(t, out, "No posts yet.")
	assert.Contains(t, out, "<title>Azide Boron</title>")
}

func TestPost(t *testing.T) {
	related := []ogsite.BlogPost{{Slug: "b", Title: "B"}, {Slug: "c", Title: "C"}, {Slug: "d", Title: "D"}, {Slug: "e", Title: "E"}}
	out := renderString(t, Post(site, hello, related))

	assert.Contains(t, out, "<strong>bold</strong>")
	assert.NotContains(t, out, "alert(1)")
	assert.Contains(t, out, `content="https://example.com/blog/hello-world/og.png"`)
	assert.Contains(t, out, `content="article"`)
	assert.Contains(t, out, `"@type":"BlogPosting"`)
	assert.Contains(t, out, `href="/blog/d/"`)
	assert.NotContains(t, out, `href="/blog/e/"`)
}

func TestErrorPages(t *testing.T) {
	assert.Contains(t, renderString(t, NotFound(site)), "Page not found")
	assert.Contains(t, renderString(t, ServerError(site)), "Something went wrong")
}

func TestDefaultIsComplete(t *testing.T) {
	v := Default()
	assert.NotNil(t, v.Home)
	assert.NotNil(t, v.Post)
	assert.NotNil(t, v.NotFound)
	assert.NotNil(t, v.ServerError)
}
