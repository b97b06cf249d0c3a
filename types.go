package ogsite

import "time"

// BlogPost is a published post as stored in SQLite and rendered by views.
type BlogPost struct {
	Slug         string
	Title        string
	Description  string
	Author       string
	Date         time.Time
	Topic        string
	Tags         []string
	Image        string
	ShareMessage string
	Content      string
	ReadTime     int // minutes
	Link         string
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	Image       string // og:image
}
