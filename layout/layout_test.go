package layout

import (
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTheme = Theme{
	Name:          "Technology",
	PrimaryColor:  "#0EA5E9",
	GradientStart: "#0EA5E9",
	GradientEnd:   "#6366F1",
}

func blogFields(title string) BlogFields {
	return BlogFields{
		Title:    title,
		Subtitle: "A short description",
		Author:   "Jane",
		Date:     "Jan 1, 2025",
		BlogName: "Azide Boron",
		Theme:    testTheme,
		Topic:    "tech",
	}
}

func TestBlogTitleSizeTiers(t *testing.T) {
	long := strings.Repeat("x", 80)
	short := strings.Repeat("x", 10)

	assert.Equal(t, 52.0, BlogCard(blogFields(long)).Find("title").Style.FontSize)
	assert.Equal(t, 64.0, BlogCard(blogFields(short)).Find("title").Style.FontSize)

	assert.Equal(t, 64.0, BlogTitleSize(strings.Repeat("x", BlogTitleThreshold)))
	assert.Equal(t, 52.0, BlogTitleSize(strings.Repeat("x", BlogTitleThreshold+1)))
}

func TestTitleThresholdCountsRunes(t *testing.T) {
	title := strings.Repeat("é", BlogTitleThreshold)
	assert.Equal(t, 64.0, BlogTitleSize(title))
}

func TestSiteTitleSizeTiers(t *testing.T) {
	assert.Equal(t, 48.0, SiteCard(SiteFields{Title: strings.Repeat("x", 80)}).Find("title").Style.FontSize)
	assert.Equal(t, 64.0, SiteCard(SiteFields{Title: "Short"}).Find("title").Style.FontSize)
}

func TestBlogCardSkeleton(t *testing.T) {
	root := BlogCard(blogFields("Hello World"))

	assert.Equal(t, float64(Width), root.Style.Width)
	assert.Equal(t, float64(Height), root.Style.Height)
	for _, id := range []string{"header", "body", "footer", "title", "subtitle", "badge", "author-name", "date", "monogram"} {
		assert.NotNil(t, root.Find(id), "missing %s", id)
	}
	assert.Equal(t, "Technology", root.Find("badge-text").Text)
	assert.Equal(t, "J", root.Find("avatar-initial").Text)
	assert.Equal(t, "A", root.Find("monogram-letter").Text)
	assert.Nil(t, root.Find("logo"))
}

func TestBlogCardOptionalRegionsCollapse(t *testing.T) {
	f := blogFields("Hello World")
	f.Subtitle = "  "
	f.Theme.Name = ""
	f.Logo = "data:image/svg+xml;base64,PHN2Zy8+"
	root := BlogCard(f)

	assert.Nil(t, root.Find("subtitle"))
	assert.Nil(t, root.Find("badge"))
	assert.Nil(t, root.Find("monogram"))
	require.NotNil(t, root.Find("logo"))
	assert.Equal(t, f.Logo, root.Find("logo").Src)
}

func TestBlogCardMotifFollowsTopic(t *testing.T) {
	cases := map[string]Motif{
		"tech":             MotifCircuit,
		"Technology":       MotifCircuit,
		"marketing":        MotifMegaphone,
		"entrepreneurship": MotifRocket,
		"productivity":     MotifBolt,
		"health":           MotifHelix,
		"":                 MotifBurst,
		"cooking":          MotifBurst,
	}
	for topic, want := range cases {
		f := blogFields("x")
		f.Topic = topic
		root := BlogCard(f)
		n := root.Find("motif-" + string(want))
		require.NotNil(t, n, "topic %q", topic)
		assert.Equal(t, Vector, n.Kind)
		assert.NotEmpty(t, n.Shapes)
	}
}

func TestBlogCardIsDeterministic(t *testing.T) {
	a := BlogCard(blogFields("Same"))
	b := BlogCard(blogFields("Same"))
	assert.Equal(t, a, b)
}

func TestSiteCardFooterFallsBackToYear(t *testing.T) {
	root := SiteCard(SiteFields{Title: "Home", Year: 2025})
	assert.Equal(t, "2025", root.Find("footer-text").Text)

	root = SiteCard(SiteFields{Title: "Home", Author: "Jane", Year: 2025})
	assert.Equal(t, "Jane", root.Find("footer-text").Text)
	assert.Equal(t, "#4F46E5", root.Find("swatch").Style.Background.Color)
}

func TestNewBoxDropsNilChildren(t *testing.T) {
	n := NewBox("b", Style{}, nil, NewText("t", "x", Style{}), nil)
	assert.Len(t, n.Children, 1)
}

func TestParseColor(t *testing.T) {
	cases := map[string]color.NRGBA{
		"#fff":                     {255, 255, 255, 255},
		"#4F46E5":                  {0x4f, 0x46, 0xe5, 0xff},
		"#4F46E522":                {0x4f, 0x46, 0xe5, 0x22},
		"rgba(255, 255, 255, 0.5)": {255, 255, 255, 128},
		"rgb(1,2,3)":               {1, 2, 3, 255},
		"white":                    {255, 255, 255, 255},
		"transparent":              {},
	}
	for in, want := range cases {
		got, err := ParseColor(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, bad := range []string{"#12", "rgb(1,2)", "notacolor", "#zzzzzz"} {
		_, err := ParseColor(bad)
		assert.Error(t, err, bad)
	}
}

func TestAlpha(t *testing.T) {
	assert.Equal(t, "rgba(79, 70, 229, 0.500)", Alpha("#4F46E5", 0.5))
	assert.Equal(t, "bogus", Alpha("bogus", 0.5))
}
