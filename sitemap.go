package ogsite

import (
	"encoding/xml"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// newSitemap lists the home page, one page per topic and every post. Posts
// are expected newest first; the home and topic pages take the date of
// their newest post.
func newSitemap(base string, posts []BlogPost, topics []string) sitemapURLSet {
	newest := make(map[string]string, len(topics))
	for _, p := range posts {
		t := normalizeTag(p.Topic)
		if _, ok := newest[t]; !ok {
			newest[t] = p.Date.Format("2006-01-02")
		}
	}

	home := sitemapURL{Loc: BuildURL(base), ChangeFreq: "daily", Priority: "1.0"}
	if len(posts) > 0 {
		home.LastMod = posts[0].Date.Format("2006-01-02")
	}
	urls := make([]sitemapURL, 0, 1+len(topics)+len(posts))
	urls = append(urls, home)
	for _, t := range topics {
		urls = append(urls, sitemapURL{
			Loc:        BuildURL(base) + "?topic=" + url.QueryEscape(t),
			LastMod:    newest[normalizeTag(t)],
			ChangeFreq: "weekly",
			Priority:   "0.6",
		})
	}
	for _, p := range posts {
		urls = append(urls, sitemapURL{
			Loc:      BuildURL(base, "blog", p.Slug),
			LastMod:  p.Date.Format("2006-01-02"),
			Priority: "0.8",
		})
	}
	return sitemapURLSet{XMLNS: sitemapNS, URLs: urls}
}

func (a *App) renderSitemap(c echo.Context, posts []BlogPost, topics []string) error {
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	if _, err := c.Response().Write([]byte(xml.Header)); err != nil {
		return err
	}
	return xml.NewEncoder(c.Response()).Encode(newSitemap(a.Config.URL, posts, topics))
}
