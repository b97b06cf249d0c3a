package ogsite

import (
	"encoding/json"
	"mime"
	"net/url"
	"path"
	"path/filepath"
	"strconv"
	"strings"
)

// PostPath returns the site-relative URL of a post page.
func PostPath(slug string) string {
	return "/blog/" + url.PathEscape(slug) + "/"
}

// PostImagePath returns the site-relative URL of a post's preview card.
func PostImagePath(slug string) string {
	return "/blog/" + url.PathEscape(slug) + "/og.png"
}

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// AbsURL resolves a site-relative path against the canonical site URL.
func AbsURL(base, p string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(p, "/")
}

// FilterRelatedPosts finds posts that share at least one tag with current.
func FilterRelatedPosts(current BlogPost, posts []BlogPost) []BlogPost {
	tagSet := make(map[string]struct{})
	for _, t := range current.Tags {
		if tag := normalizeTag(t); tag != "" {
			tagSet[tag] = struct{}{}
		}
	}
	var related []BlogPost
	for _, p := range posts {
		if p.Slug == current.Slug {
			continue
		}
		for _, t := range p.Tags {
			if _, ok := tagSet[normalizeTag(t)]; ok {
				related = append(related, p)
				break
			}
		}
	}
	return related
}

// JoinTags joins tags with ", ".
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}

// PostMeta returns the head metadata of a post page.
func PostMeta(cfg SiteConfig, post BlogPost) PageMeta {
	return PageMeta{
		Title:       post.Title,
		Description: post.Description,
		URL:         BuildURL(cfg.URL, "blog", post.Slug),
		OGType:      "article",
		Image:       AbsURL(cfg.URL, PostImagePath(post.Slug)),
	}
}

// SiteMeta returns the head metadata of the home page.
func SiteMeta(cfg SiteConfig) PageMeta {
	return PageMeta{
		Title:       cfg.Name,
		Description: cfg.Description,
		URL:         BuildURL(cfg.URL),
		OGType:      "website",
		Image:       AbsURL(cfg.URL, "/og-image.png"),
	}
}

// WebsiteJsonLD returns a JSON-LD string for a WebSite schema using SiteConfig.
func WebsiteJsonLD(cfg SiteConfig) string {
	data := map[string]any{
		"@context":    "https://schema.org",
		"@type":       "WebSite",
		"name":        cfg.Name,
		"url":         BuildURL(cfg.URL),
		"description": cfg.Description,
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// BlogPostingJsonLD returns a JSON-LD string for a BlogPosting schema.
func BlogPostingJsonLD(post BlogPost, cfg SiteConfig) string {
	postURL := BuildURL(cfg.URL, "blog", post.Slug)
	data := map[string]any{
		"@context":      "https://schema.org",
		"@type":         "BlogPosting",
		"headline":      post.Title,
		"description":   post.Description,
		"datePublished": post.Date.Format("2006-01-02"),
		"url":           postURL,
		"image":         AbsURL(cfg.URL, PostImagePath(post.Slug)),
		"timeRequired":  "PT" + strconv.Itoa(post.ReadTime) + "M",
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	if author := firstNonEmpty(post.Author, cfg.Author); author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  author,
		}
	}
	if cfg.Name != "" {
		data["publisher"] = map[string]string{
			"@type": "Organization",
			"name":  cfg.Name,
		}
	}
	if post.Topic != "" {
		data["articleSection"] = post.Topic
	}
	if len(post.Tags) > 0 {
		data["keywords"] = strings.Join(post.Tags, ", ")
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// RobotsTxt returns the default robots.txt, pointing crawlers at the sitemap.
func RobotsTxt(cfg SiteConfig) string {
	return "User-agent: *\nAllow: /\n\nSitemap: " + AbsURL(cfg.URL, "/sitemap.xml") + "\n"
}

func mimeByName(name string) string {
	if t := mime.TypeByExtension(filepath.Ext(name)); t != "" {
		return t
	}
	return "application/octet-stream"
}
