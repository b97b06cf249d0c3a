package layout

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Title length thresholds above which the smaller title size is used.
const (
	BlogTitleThreshold = 50
	SiteTitleThreshold = 60
)

// Theme is the palette a card is drawn with.
type Theme struct {
	Name          string
	PrimaryColor  string
	GradientStart string
	GradientEnd   string
}

// BlogFields is the content of a blog post card.
type BlogFields struct {
	Title    string
	Subtitle string
	Author   string
	Date     string
	BlogName string
	// Logo is a data URL; empty draws a monogram instead.
	Logo  string
	Theme Theme
	Topic string
}

// SiteFields is the content of the generic site card.
type SiteFields struct {
	Title      string
	Subtitle   string
	Author     string
	SiteName   string
	ThemeColor string
	Logo       string
	// Year is shown in the footer when Author is empty.
	Year int
}

// BlogTitleSize returns the title font size for a blog card title.
func BlogTitleSize(title string) float64 {
	if utf8.RuneCountInString(title) > BlogTitleThreshold {
		return 52
	}
	return 64
}

// SiteTitleSize returns the title font size for a site card title.
func SiteTitleSize(title string) float64 {
	if utf8.RuneCountInString(title) > SiteTitleThreshold {
		return 48
	}
	return 64
}

// BlogCard lays out the card for a blog post: topic-tinted gradient
// background with motifs, and a white card holding brand, topic badge,
// title, subtitle, author and date.
func BlogCard(f BlogFields) *Node {
	t := f.Theme
	accent := Linear(135, t.PrimaryColor, t.GradientEnd)
	white := "rgba(255, 255, 255, 0.95)"

	header := NewBox("header", Style{Direction: Row, Justify: JustifyBetween, Align: AlignCenter},
		NewBox("brand", Style{Direction: Row, Align: AlignCenter, Gap: 18},
			brandMark(f.Logo, f.BlogName, 70, 36, accent, t.PrimaryColor),
			NewText("brand-name", f.BlogName, Style{FontSize: 26, FontWeight: 700, Color: Solid("#0f172a")}),
		),
		topicBadge(t.Name, accent, t.PrimaryColor),
	)

	var subtitle *Node
	if strings.TrimSpace(f.Subtitle) != "" {
		subtitle = NewText("subtitle", f.Subtitle, Style{FontSize: 26, LineHeight: 1.4, Color: Solid("#475569")})
	}
	body := NewBox("body", Style{Direction: Column, Gap: 18, Grow: 1, Justify: JustifyCenter},
		NewText("title", f.Title, Style{
			FontSize:   BlogTitleSize(f.Title),
			FontWeight: 800,
			LineHeight: 1.1,
			Color:      accent,
		}),
		subtitle,
	)

	footer := NewBox("footer", Style{
		Direction: Row,
		Justify:   JustifyBetween,
		Align:     AlignCenter,
		Padding:   Edges{Top: 28},
		Border:    Border{Width: 3, Color: Alpha(t.PrimaryColor, 0.19), TopOnly: true},
	},
		NewBox("author", Style{Direction: Row, Align: AlignCenter, Gap: 14},
			NewBox("avatar", Style{
				Width: 52, Height: 52, Radius: 26,
				Background: accent,
				Justify:    JustifyCenter,
				Align:      AlignCenter,
				Shadow:     &Shadow{OffsetY: 4, Blur: 12, Color: Alpha(t.PrimaryColor, 0.2)},
			}, NewText("avatar-initial", initial(f.Author, "?"), Style{FontSize: 26, FontWeight: 700, Color: Solid("white")})),
			NewText("author-name", f.Author, Style{FontSize: 24, FontWeight: 600, Color: Solid("#1e293b")}),
		),
		NewText("date", f.Date, Style{FontSize: 22, FontWeight: 600, Color: Solid("#64748b")}),
	)

	card := NewBox("card", Style{
		Width: 1050, Height: 520,
		Direction:  Column,
		Justify:    JustifyBetween,
		Align:      AlignStretch,
		Background: Solid("rgba(255, 255, 255, 0.98)"),
		Radius:     32,
		Padding:    PadXY(55, 50),
		Border:     Border{Width: 2, Color: "rgba(255, 255, 255, 0.4)"},
		Shadow:     &Shadow{OffsetY: 40, Blur: 100, Color: "rgba(0, 0, 0, 0.3)"},
	}, header, body, footer)

	root := NewBox("root", Style{
		Width: Width, Height: Height,
		Direction:  Column,
		Justify:    JustifyCenter,
		Align:      AlignCenter,
		Background: Linear(135, t.GradientStart, t.GradientEnd),
	})
	root.Children = append(root.Children, gridPattern(t.PrimaryColor))
	root.Children = append(root.Children,
		NewBox("glow-top", Style{
			Width: 450, Height: 450, Radius: 225,
			Position:   &Position{X: -120, Y: -120},
			Background: Solid("rgba(255, 255, 255, 0.08)"),
		}),
		NewBox("glow-bottom", Style{
			Width: 550, Height: 550, Radius: 275,
			Position:   &Position{X: -180, Y: -180, FromRight: true, FromBottom: true},
			Background: Solid("rgba(255, 255, 255, 0.05)"),
		}),
	)
	root.Children = append(root.Children, geometricShapes(white)...)
	root.Children = append(root.Children, TopicMotif(f.Topic, white))
	root.Children = append(root.Children, card)
	return root
}

// SiteCard lays out the generic site preview: brand header, title,
// subtitle and a footer with the author (or year) and an accent swatch.
func SiteCard(f SiteFields) *Node {
	c := f.ThemeColor
	if c == "" {
		c = "#4F46E5"
	}
	name := f.SiteName
	if name == "" {
		name = f.Title
	}

	var subtitle *Node
	if strings.TrimSpace(f.Subtitle) != "" {
		subtitle = NewText("subtitle", f.Subtitle, Style{FontSize: 32, LineHeight: 1.3, Color: Solid("#6b7280")})
	}

	footerText := f.Author
	if footerText == "" && f.Year > 0 {
		footerText = strconv.Itoa(f.Year)
	}

	card := NewBox("card", Style{
		Width: 1080, Height: 550,
		Direction:  Column,
		Justify:    JustifyBetween,
		Align:      AlignStretch,
		Background: Solid("white"),
		Radius:     24,
		Padding:    Pad(60),
		Shadow:     &Shadow{OffsetY: 20, Blur: 60, Color: "rgba(0, 0, 0, 0.3)"},
	},
		NewBox("header", Style{Direction: Row, Align: AlignCenter, Gap: 20},
			brandMark(f.Logo, name, 80, 48, Solid(c), ""),
			NewText("brand-name", name, Style{FontSize: 28, FontWeight: 700, Color: Solid("#1f2937")}),
		),
		NewBox("body", Style{Direction: Column, Gap: 20},
			NewText("title", f.Title, Style{
				FontSize:   SiteTitleSize(f.Title),
				FontWeight: 800,
				LineHeight: 1.1,
				Color:      Solid("#1f2937"),
			}),
			subtitle,
		),
		NewBox("footer", Style{
			Direction: Row,
			Justify:   JustifyBetween,
			Align:     AlignCenter,
			Padding:   Edges{Top: 30},
			Border:    Border{Width: 3, Color: "#e5e7eb", TopOnly: true},
		},
			NewText("footer-text", footerText, Style{FontSize: 24, FontWeight: 600, Color: Solid("#6b7280")}),
			NewBox("swatch", Style{Width: 40, Height: 40, Radius: 8, Background: Solid(c)}),
		),
	)

	return NewBox("root", Style{
		Width: Width, Height: Height,
		Direction:  Column,
		Justify:    JustifyCenter,
		Align:      AlignCenter,
		Background: Linear(135, c, "#7c3aed"),
	}, card)
}

// brandMark is the logo image, or a monogram tile when there is no logo.
func brandMark(logo, name string, size, letter float64, bg Paint, glow string) *Node {
	var shadow *Shadow
	if glow != "" {
		shadow = &Shadow{OffsetY: 6, Blur: 16, Color: Alpha(glow, 0.31)}
	}
	if logo != "" {
		return NewBox("logo-frame", Style{Width: size, Height: size, Radius: 16, Shadow: shadow},
			NewImage("logo", logo, Style{Width: size, Height: size, Radius: 16}))
	}
	return NewBox("monogram", Style{
		Width: size, Height: size, Radius: 16,
		Background: bg,
		Justify:    JustifyCenter,
		Align:      AlignCenter,
		Shadow:     shadow,
	}, NewText("monogram-letter", initial(name, "B"), Style{FontSize: letter, FontWeight: 800, Color: Solid("white")}))
}

func topicBadge(name string, bg Paint, glow string) *Node {
	if strings.TrimSpace(name) == "" {
		return nil
	}
	return NewBox("badge", Style{
		Background: bg,
		Padding:    PadXY(24, 12),
		Radius:     12,
		Shadow:     &Shadow{OffsetY: 6, Blur: 16, Color: Alpha(glow, 0.31)},
	}, NewText("badge-text", name, Style{FontSize: 20, FontWeight: 700, Color: Solid("white")}))
}

func initial(s, fallback string) string {
	for _, r := range strings.TrimSpace(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return string(unicode.ToUpper(r))
		}
	}
	return fallback
}
