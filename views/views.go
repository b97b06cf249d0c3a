// Package views holds the default page components. Sites that want their
// own markup pass their own ogsite.ViewFuncs instead.
package views

import (
	"context"
	"embed"
	"html/template"
	"io"
	"time"

	"github.com/a-h/templ"

	"github.com/eringen/ogsite"
	"github.com/eringen/ogsite/markdown"
	"github.com/eringen/ogsite/ogimage"
)

//go:embed templates/*.html
var files embed.FS

var pages = template.Must(template.New("").Funcs(template.FuncMap{
	"topicName": ogimage.TopicName,
	"date":      ogimage.FormatDate,
	"isoDate":   func(t time.Time) string { return t.Format("2006-01-02") },
	"markdown":  func(md string) template.HTML { return template.HTML(markdown.HTML(md)) },
	"postPath":  ogsite.PostPath,
	"safeURL":   markdown.SafeURL,
	"jsonld":    func(s string) template.JS { return template.JS(s) },
}).ParseFS(files, "templates/*.html"))

// page is what every template receives.
type page struct {
	Site   ogsite.SiteConfig
	Meta   ogsite.PageMeta
	JSONLD string

	Posts       []ogsite.BlogPost
	Topics      []string
	ActiveTopic string

	Post    ogsite.BlogPost
	Related []ogsite.BlogPost
}

// Default returns the built-in view set.
func Default() ogsite.ViewFuncs {
	return ogsite.ViewFuncs{
		Home:        Home,
		Post:        Post,
		NotFound:    NotFound,
		ServerError: ServerError,
	}
}

// Home lists posts, newest first, with a topic filter.
func Home(site ogsite.SiteConfig, posts []ogsite.BlogPost, activeTopic string, topics []string) templ.Component {
	meta := ogsite.SiteMeta(site)
	if activeTopic != "" {
		meta.Title = ogimage.TopicName(activeTopic) + " | " + site.Name
	}
	return render("home", page{
		Site:        site,
		Meta:        meta,
		JSONLD:      ogsite.WebsiteJsonLD(site),
		Posts:       posts,
		Topics:      topics,
		ActiveTopic: activeTopic,
	})
}

// Post renders one article with its related posts.
func Post(site ogsite.SiteConfig, post ogsite.BlogPost, related []ogsite.BlogPost) templ.Component {
	if len(related) > 3 {
		related = related[:3]
	}
	return render("post", page{
		Site:    site,
		Meta:    ogsite.PostMeta(site, post),
		JSONLD:  ogsite.BlogPostingJsonLD(post, site),
		Post:    post,
		Related: related,
	})
}

func NotFound(site ogsite.SiteConfig) templ.Component {
	meta := ogsite.SiteMeta(site)
	meta.Title = "Page not found | " + site.Name
	return render("notfound", page{Site: site, Meta: meta})
}

func ServerError(site ogsite.SiteConfig) templ.Component {
	meta := ogsite.SiteMeta(site)
	meta.Title = "Something went wrong | " + site.Name
	return render("servererror", page{Site: site, Meta: meta})
}

func render(name string, data page) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return pages.ExecuteTemplate(w, name, data)
	})
}
