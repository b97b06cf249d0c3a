// Package content loads blog posts from markdown files with YAML
// frontmatter.
package content

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultPattern matches post files relative to the content root.
const DefaultPattern = "blog/**/*.md"

// ErrNoFrontmatter is returned for files that do not open with a "---"
// fenced frontmatter block.
var ErrNoFrontmatter = errors.New("content: missing frontmatter")

var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04", "January 2, 2006", "Jan 2, 2006"}

// Frontmatter is the metadata block at the top of a post file.
type Frontmatter struct {
	Title        string   `yaml:"title" validate:"required"`
	Description  string   `yaml:"description" validate:"required"`
	Author       string   `yaml:"author" validate:"required"`
	Date         string   `yaml:"date" validate:"required,postdate"`
	Topic        string   `yaml:"topic" validate:"required"`
	Tags         []string `yaml:"tags" validate:"dive,required"`
	Image        string   `yaml:"image"`
	ShareMessage string   `yaml:"shareMessage"`
	Draft        bool     `yaml:"draft"`
}

// Post is one parsed post file.
type Post struct {
	Slug string
	// Path is relative to the content root.
	Path string
	Frontmatter
	Published time.Time
	Body      string
}

// Failure records a file that was skipped.
type Failure struct {
	Path string
	Err  error
}

// Loader reads posts from a file system.
type Loader struct {
	fsys     fs.FS
	pattern  string
	validate *validator.Validate
	log      *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithPattern sets the doublestar pattern post files are matched with.
func WithPattern(p string) Option {
	return func(l *Loader) { l.pattern = p }
}

func WithLogger(log *slog.Logger) Option {
	return func(l *Loader) { l.log = log }
}

// NewLoader returns a Loader over fsys.
func NewLoader(fsys fs.FS, opts ...Option) *Loader {
	v := validator.New()
	v.RegisterValidation("postdate", func(fl validator.FieldLevel) bool {
		_, err := ParseDate(fl.Field().String())
		return err == nil
	})
	l := &Loader{
		fsys:     fsys,
		pattern:  DefaultPattern,
		validate: v,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load parses every matching file. Files that fail to parse or validate
// are skipped, logged and returned as failures. Drafts are left out.
// Posts are sorted newest first.
func (l *Loader) Load() ([]Post, []Failure, error) {
	matches, err := doublestar.Glob(l.fsys, l.pattern)
	if err != nil {
		return nil, nil, fmt.Errorf("content: glob %s: %w", l.pattern, err)
	}
	sort.Strings(matches)

	var (
		posts    []Post
		failures []Failure
		seen     = make(map[string]string)
	)
	for _, name := range matches {
		p, err := l.Parse(name)
		if err == nil {
			if prev, dup := seen[p.Slug]; dup {
				err = fmt.Errorf("content: slug %q already used by %s", p.Slug, prev)
			}
		}
		if err != nil {
			l.log.Warn("skipping post", "path", name, "error", err)
			failures = append(failures, Failure{Path: name, Err: err})
			continue
		}
		seen[p.Slug] = name
		if p.Draft {
			continue
		}
		posts = append(posts, p)
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Published.After(posts[j].Published)
	})
	return posts, failures, nil
}

// Parse reads and validates one post file.
func (l *Loader) Parse(name string) (Post, error) {
	data, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		return Post{}, fmt.Errorf("content: read %s: %w", name, err)
	}
	head, body, err := Split(data)
	if err != nil {
		return Post{}, fmt.Errorf("content: %s: %w", name, err)
	}

	var fm Frontmatter
	if err := yaml.Unmarshal(head, &fm); err != nil {
		return Post{}, fmt.Errorf("content: %s: frontmatter: %w", name, err)
	}
	fm.Tags = normalizeTags(fm.Tags)
	if err := l.validate.Struct(fm); err != nil {
		return Post{}, fmt.Errorf("content: %s: %w", name, err)
	}
	date, _ := ParseDate(fm.Date)

	return Post{
		Slug:        Slug(name),
		Path:        name,
		Frontmatter: fm,
		Published:   date,
		Body:        string(body),
	}, nil
}

// Split separates a "---" fenced YAML frontmatter block from the body.
func Split(data []byte) (head, body []byte, err error) {
	data = bytes.TrimPrefix(data, []byte("\ufeff"))
	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(data, []byte("---\n")) {
		return nil, nil, ErrNoFrontmatter
	}
	rest := data[len("---\n"):]
	if bytes.HasPrefix(rest, []byte("---\n")) {
		return nil, bytes.TrimLeft(rest[4:], "\n"), nil
	}
	end := bytes.Index(rest, []byte("\n---\n"))
	if end < 0 {
		if bytes.HasSuffix(rest, []byte("\n---")) {
			return rest[:len(rest)-4], nil, nil
		}
		return nil, nil, ErrNoFrontmatter
	}
	return rest[:end], bytes.TrimLeft(rest[end+len("\n---\n"):], "\n"), nil
}

// Slug derives a post slug from its file name.
func Slug(name string) string {
	base := path.Base(name)
	return strings.TrimSuffix(base, path.Ext(base))
}

// ParseDate accepts the date formats used in frontmatter.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("content: unrecognized date %q", s)
}

func normalizeTags(tags []string) []string {
	var out []string
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
