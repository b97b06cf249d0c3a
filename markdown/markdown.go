// Package markdown renders post bodies to sanitized HTML as templ components.
package markdown

import (
	"bytes"
	"context"
	"io"
	"math"
	"net/url"
	"regexp"
	"strings"

	"github.com/a-h/templ"
	"github.com/microcosm-cc/bluemonday"
	"github.com/russross/blackfriday/v2"
)

// WordsPerMinute is the reading speed ReadTime assumes.
const WordsPerMinute = 225

const extensions = blackfriday.CommonExtensions | blackfriday.Footnotes | blackfriday.AutoHeadingIDs

var (
	ugc   = newPolicy()
	plain = newPlainPolicy()
)

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^language-[\w+-]+$`)).OnElements("code")
	p.AllowAttrs("id").Matching(bluemonday.Paragraph).OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return p
}

func newPlainPolicy() *bluemonday.Policy {
	p := bluemonday.StrictPolicy()
	p.AddSpaceWhenStrippingTag(true)
	return p
}

// Markdown returns a templ.Component that renders md as HTML.
func Markdown(content string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		RenderMarkdown(&buf, content)
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// RenderMarkdown writes the sanitized HTML representation of md to buf.
func RenderMarkdown(buf *bytes.Buffer, md string) {
	buf.Write(ugc.SanitizeBytes(render(md)))
}

// HTML returns the sanitized HTML representation of md.
func HTML(md string) string {
	var buf bytes.Buffer
	RenderMarkdown(&buf, md)
	return buf.String()
}

func render(md string) []byte {
	input := []byte(strings.ReplaceAll(md, "\r\n", "\n"))
	return blackfriday.Run(input, blackfriday.WithExtensions(extensions))
}

// PlainText strips every tag from rendered html.
func PlainText(html string) string {
	return strings.Join(strings.Fields(plain.Sanitize(html)), " ")
}

// ReadTime estimates the minutes needed to read md, rounded up, at least 1.
func ReadTime(md string) int {
	words := len(strings.Fields(plain.Sanitize(string(render(md)))))
	return max(1, int(math.Ceil(float64(words)/WordsPerMinute)))
}

// SafeURL returns raw trimmed when it is site-relative or uses an http,
// https, mailto or tel scheme, and "" otherwise.
func SafeURL(raw string) string {
	val := strings.TrimSpace(raw)
	if val == "" {
		return ""
	}
	if strings.HasPrefix(val, "/") || strings.HasPrefix(val, "#") {
		return val
	}
	parsed, err := url.Parse(val)
	if err != nil || parsed.Scheme == "" {
		return ""
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https", "mailto", "tel":
		return val
	default:
		return ""
	}
}
