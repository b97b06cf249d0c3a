package ogsite

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Atom    string     `xml:"xmlns:atom,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	Language      string    `xml:"language"`
	LastBuildDate string    `xml:"lastBuildDate,omitempty"`
	AtomLink      atomLink  `xml:"atom:link"`
	Items         []rssItem `xml:"item"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	Description string   `xml:"description"`
	Author      string   `xml:"author,omitempty"`
	Categories  []string `xml:"category"`
	PubDate     string   `xml:"pubDate"`
	GUID        rssGUID  `xml:"guid"`
}

type rssGUID struct {
	Value       string `xml:",chardata"`
	IsPermaLink bool   `xml:"isPermaLink,attr"`
}

// newFeed builds the RSS 2.0 document for posts, which are expected newest
// first.
func newFeed(cfg SiteConfig, posts []BlogPost) rssXML {
	items := make([]rssItem, 0, len(posts))
	for _, p := range posts {
		postURL := BuildURL(cfg.URL, "blog", p.Slug)
		var categories []string
		if p.Topic != "" {
			categories = []string{p.Topic}
		}
		items = append(items, rssItem{
			Title:       p.Title,
			Link:        postURL,
			Description: p.Description,
			Author:      p.Author,
			Categories:  categories,
			PubDate:     p.Date.Format(time.RFC1123Z),
			GUID:        rssGUID{Value: postURL, IsPermaLink: true},
		})
	}
	channel := rssChannel{
		Title:       cfg.FeedTitle,
		Link:        BuildURL(cfg.URL),
		Description: cfg.FeedDescription,
		Language:    cfg.Language,
		AtomLink: atomLink{
			Href: AbsURL(cfg.URL, "/rss.xml"),
			Rel:  "self",
			Type: "application/rss+xml",
		},
		Items: items,
	}
	if len(posts) > 0 {
		channel.LastBuildDate = posts[0].Date.Format(time.RFC1123Z)
	}
	return rssXML{
		Version: "2.0",
		Atom:    "http://www.w3.org/2005/Atom",
		Channel: channel,
	}
}

func (a *App) renderRSS(c echo.Context, posts []BlogPost) error {
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(newFeed(a.Config, posts))
}
