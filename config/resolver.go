package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	// DefaultPrefix marks environment variables that override config keys,
	// e.g. ATOMI__APP__NAME sets app.name.
	DefaultPrefix = "ATOMI__"

	// BaseEnvironment is the environment name that loads config.yaml alone.
	BaseEnvironment = "base"

	baseFile = "config.yaml"
)

// environmentVars select the overlay file, checked in order.
var environmentVars = []string{"LANDSCAPE", "ATOMI_LANDSCAPE"}

// Resolver loads and merges configuration once and hands out the cached
// result afterwards. The zero value is not usable; call NewResolver.
type Resolver struct {
	dir     string
	prefix  string
	environ func() []string
	log     *slog.Logger

	once     sync.Once
	tree     Node
	settings *Settings
	err      error
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithDir sets the directory holding config.yaml (default ".").
func WithDir(dir string) Option {
	return func(r *Resolver) { r.dir = dir }
}

// WithEnviron replaces os.Environ as the source of environment variables.
func WithEnviron(fn func() []string) Option {
	return func(r *Resolver) { r.environ = fn }
}

// WithPrefix changes the override prefix (default "ATOMI__").
func WithPrefix(prefix string) Option {
	return func(r *Resolver) { r.prefix = prefix }
}

// WithLogger sets the logger used for overlay warnings.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) { r.log = l }
}

// NewResolver returns a Resolver. Nothing is read until Resolve is called.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		dir:     ".",
		prefix:  DefaultPrefix,
		environ: os.Environ,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the merged settings. The first call reads the sources;
// every later call returns the same pointer (or the same error).
func (r *Resolver) Resolve() (*Settings, error) {
	r.once.Do(r.load)
	return r.settings, r.err
}

// Tree returns the merged configuration tree behind Resolve.
func (r *Resolver) Tree() (Node, error) {
	r.once.Do(r.load)
	return r.tree, r.err
}

// Environment reports the selected environment name.
func (r *Resolver) Environment() string {
	env := r.environ()
	for _, key := range environmentVars {
		if v := lookupEnv(env, key); v != "" {
			return v
		}
	}
	return BaseEnvironment
}

func (r *Resolver) load() {
	basePath := filepath.Join(r.dir, baseFile)
	tree, err := readTree(basePath)
	if err != nil {
		r.err = fmt.Errorf("config: load base config from %s: %w", basePath, err)
		return
	}

	if name := r.Environment(); name != BaseEnvironment {
		overlayPath := filepath.Join(r.dir, "config."+name+".yaml")
		overlay, err := readTree(overlayPath)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			r.log.Warn("no environment config found, using base config only",
				"environment", name, "path", overlayPath)
		case err != nil:
			r.err = fmt.Errorf("config: load overlay %s: %w", overlayPath, err)
			return
		default:
			tree = Merge(tree, overlay)
		}
	}

	if env := FromEnv(r.environ(), r.prefix); len(env) > 0 {
		tree = Merge(tree, foldKeys(env, tree))
	}

	var s Settings
	if err := Decode(tree, &s); err != nil {
		r.err = fmt.Errorf("config: decode settings: %w", err)
		return
	}
	r.tree = tree
	r.settings = &s
}

func readTree(path string) (Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// FromEnv builds a Map from environment entries ("KEY=value") carrying
// prefix. The remainder of the key is lower-cased and split on "__" into a
// path; empty values are ignored.
func FromEnv(environ []string, prefix string) Map {
	out := Map{}
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || value == "" || !strings.HasPrefix(key, prefix) {
			continue
		}
		path := strings.Split(strings.ToLower(strings.TrimPrefix(key, prefix)), "__")
		out.Set(path, String(value))
	}
	return out
}

func lookupEnv(environ []string, key string) string {
	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok && k == key {
			return v
		}
	}
	return ""
}

func equalFold(a, b string) bool {
	return strings.EqualFold(a, b)
}
