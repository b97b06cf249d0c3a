package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, doc string) Node {
	t.Helper()
	n, err := Parse([]byte(doc))
	require.NoError(t, err)
	return n
}

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func environ(kv ...string) func() []string {
	return func() []string { return kv }
}

const baseYAML = `
app:
  name: Azide Boron
  shortName: AB
theme:
  primary: "#4F46E5"
  gradientStart: "#667eea"
  gradientEnd: "#764ba2"
  blog:
    tech:
      primary: "#0EA5E9"
      gradientStart: "#0EA5E9"
      gradientEnd: "#6366F1"
seo:
  siteName: Azide Boron
tags: [one, two]
`

func TestMergeIsRightBiasedPerKey(t *testing.T) {
	base := mustParse(t, "a: {x: 1, y: 2}")
	overlay := mustParse(t, "a: {y: 9, z: 3}")

	got := Merge(base, overlay)
	want := mustParse(t, "a: {x: 1, y: 9, z: 3}")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("merged tree mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeReplacesLists(t *testing.T) {
	got := Merge(mustParse(t, "tags: [1, 2]"), mustParse(t, "tags: [3]"))
	want := mustParse(t, "tags: [3]")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("lists should be replaced (-want +got):\n%s", diff)
	}
}

func TestMergeScalarOverMapReplaces(t *testing.T) {
	got := Merge(mustParse(t, "a: {x: 1}"), mustParse(t, "a: flat"))
	assert.Equal(t, Map{"a": Scalar{Tag: "!!str", Value: "flat"}}, got)
}

func TestMergeNullOverlayKeepsBase(t *testing.T) {
	got := Merge(mustParse(t, "a: {x: 1}\nb: 2"), mustParse(t, "a:\nb: ~"))
	want := mustParse(t, "a: {x: 1}\nb: 2")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("null overlay must not override (-want +got):\n%s", diff)
	}
}

func TestMergeDoesNotMutateInputs(t *testing.T) {
	base := mustParse(t, "a: {x: 1}")
	_ = Merge(base, mustParse(t, "a: {x: 2, y: 3}"))
	assert.Equal(t, mustParse(t, "a: {x: 1}"), base)
}

func TestFromEnvBuildsLowercasePaths(t *testing.T) {
	env := []string{
		"ATOMI__THEME__PRIMARY=#000000",
		"ATOMI__APP____NAME=Skips Blank",
		"ATOMI__EMPTY=",
		"OTHER__THEME__PRIMARY=ignored",
		"ATOMI_LANDSCAPE=prod",
	}
	got := FromEnv(env, DefaultPrefix)
	want := Map{
		"theme": Map{"primary": String("#000000")},
		"app":   Map{"name": String("Skips Blank")},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("env map mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveLayersOverlayAndEnv(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", baseYAML)
	writeFile(t, dir, "config.staging.yaml", "app:\n  name: Staging\ntags: [three]\n")

	r := NewResolver(WithDir(dir), WithEnviron(environ(
		"LANDSCAPE=staging",
		"ATOMI__THEME__PRIMARY=#111111",
		"ATOMI__THEME__BLOG__TECH__GRADIENTEND=#222222",
	)))
	s, err := r.Resolve()
	require.NoError(t, err)

	assert.Equal(t, "Staging", s.App.Name)
	assert.Equal(t, "AB", s.App.ShortName)
	assert.Equal(t, "#111111", s.Theme.Primary)
	assert.Equal(t, "#667eea", s.Theme.GradientStart)
	assert.Equal(t, "#222222", s.Theme.Blog["tech"].GradientEnd)
	assert.Equal(t, "#0EA5E9", s.Theme.Blog["tech"].GradientStart)

	tree, err := r.Tree()
	require.NoError(t, err)
	tags, ok := Lookup(tree, "tags")
	require.True(t, ok)
	assert.Equal(t, List{String("three")}, tags)
}

func TestResolveEnvironmentVariableOrder(t *testing.T) {
	r := NewResolver(WithEnviron(environ("ATOMI_LANDSCAPE=b", "LANDSCAPE=a")))
	assert.Equal(t, "a", r.Environment())

	r = NewResolver(WithEnviron(environ("ATOMI_LANDSCAPE=b")))
	assert.Equal(t, "b", r.Environment())

	r = NewResolver(WithEnviron(environ()))
	assert.Equal(t, BaseEnvironment, r.Environment())
}

func TestResolveMissingOverlayIsNotFatal(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", baseYAML)

	r := NewResolver(WithDir(dir), WithEnviron(environ("LANDSCAPE=nowhere")))
	s, err := r.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "Azide Boron", s.App.Name)
}

func TestResolveBrokenOverlayFails(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", baseYAML)
	writeFile(t, dir, "config.prod.yaml", "app: [unclosed\n")

	_, err := NewResolver(WithDir(dir), WithEnviron(environ("LANDSCAPE=prod"))).Resolve()
	require.Error(t, err)
}

func TestResolveMissingBaseIsFatal(t *testing.T) {
	_, err := NewResolver(WithDir(t.TempDir()), WithEnviron(environ())).Resolve()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config.yaml")
}

func TestResolveUnparseableBaseIsFatal(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", "app: {name: [\n")
	_, err := NewResolver(WithDir(dir), WithEnviron(environ())).Resolve()
	require.Error(t, err)
}

func TestResolveIsMemoized(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", baseYAML)

	r := NewResolver(WithDir(dir), WithEnviron(environ()))
	first, err := r.Resolve()
	require.NoError(t, err)

	// A second call must not touch the filesystem again.
	require.NoError(t, os.Remove(filepath.Join(dir, "config.yaml")))
	second, err := r.Resolve()
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestTopicColorsFallsBackToCaseInsensitiveMatch(t *testing.T) {
	theme := Theme{Blog: map[string]Colors{"Tech": {Primary: "#fff"}}}
	c, ok := theme.TopicColors("tech")
	require.True(t, ok)
	assert.Equal(t, "#fff", c.Primary)

	_, ok = theme.TopicColors("cooking")
	assert.False(t, ok)
}

func TestMarshalRoundTripsTree(t *testing.T) {
	tree := mustParse(t, baseYAML)
	out, err := Marshal(tree)
	require.NoError(t, err)
	again := mustParse(t, string(out))
	if diff := cmp.Diff(tree, again); diff != "" {
		t.Fatalf("tree changed after marshal (-want +got):\n%s", diff)
	}
}
