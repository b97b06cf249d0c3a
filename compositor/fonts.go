package compositor

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Font is raw TrueType or OpenType data registered under a family and
// weight.
type Font struct {
	Name   string
	Weight int
	Data   []byte
}

type parsedFont struct {
	name   string
	weight int
	sfnt   *sfnt.Font
}

type faceKey struct {
	font *sfnt.Font
	size float64
}

// registry holds the parsed fonts and sized faces of one render. It is not
// safe for concurrent use.
type registry struct {
	fonts []parsedFont
	faces map[faceKey]font.Face
	buf   sfnt.Buffer
}

func newRegistry(fonts []Font) (*registry, error) {
	if len(fonts) == 0 {
		return nil, ErrNoFonts
	}
	r := &registry{faces: make(map[faceKey]font.Face)}
	for _, f := range fonts {
		if len(f.Data) == 0 {
			return nil, fmt.Errorf("compositor: font %s %d: empty data", f.Name, f.Weight)
		}
		p, err := opentype.Parse(f.Data)
		if err != nil {
			return nil, fmt.Errorf("compositor: parse font %s %d: %w", f.Name, f.Weight, err)
		}
		r.fonts = append(r.fonts, parsedFont{name: f.Name, weight: f.Weight, sfnt: p})
	}
	return r, nil
}

// match returns the registered font closest to weight. Ties go to the
// heavier font.
func (r *registry) match(weight int) *sfnt.Font {
	if weight == 0 {
		weight = 400
	}
	best, bestDist := r.fonts[0], -1
	for _, f := range r.fonts {
		d := f.weight - weight
		if d < 0 {
			d = -d
		}
		if bestDist < 0 || d < bestDist || (d == bestDist && f.weight > best.weight) {
			best, bestDist = f, d
		}
	}
	return best.sfnt
}

func (r *registry) face(f *sfnt.Font, size float64) (font.Face, error) {
	k := faceKey{font: f, size: size}
	if face, ok := r.faces[k]; ok {
		return face, nil
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("compositor: font face %.0fpx: %w", size, err)
	}
	r.faces[k] = face
	return face, nil
}

func (r *registry) close() {
	for _, f := range r.faces {
		f.Close()
	}
}

// textStyle is a resolved font and size for one text node.
type textStyle struct {
	font *sfnt.Font
	face font.Face
	size float64
}

func (r *registry) textStyle(size float64, weight int) (textStyle, error) {
	if size <= 0 {
		size = 16
	}
	f := r.match(weight)
	face, err := r.face(f, size)
	if err != nil {
		return textStyle{}, err
	}
	return textStyle{font: f, face: face, size: size}, nil
}

func (t textStyle) measure(s string) float64 {
	return fromFixed(font.MeasureString(t.face, s))
}

func (t textStyle) ascent() float64 {
	return fromFixed(t.face.Metrics().Ascent)
}

func (t textStyle) descent() float64 {
	return fromFixed(t.face.Metrics().Descent)
}

// outline appends the glyph outlines of s, with its baseline starting at
// (x, y), to b as SVG path data.
func (r *registry) outline(b *strings.Builder, t textStyle, s string, x, y float64) error {
	ppem := fixed.Int26_6(t.size * 64)
	prev := rune(-1)
	for _, c := range s {
		if prev >= 0 {
			x += fromFixed(t.face.Kern(prev, c))
		}
		prev = c

		idx, err := t.font.GlyphIndex(&r.buf, c)
		if err != nil {
			return fmt.Errorf("compositor: glyph index %q: %w", c, err)
		}
		segs, err := t.font.LoadGlyph(&r.buf, idx, ppem, nil)
		if err != nil && !errors.Is(err, sfnt.ErrNotFound) {
			return fmt.Errorf("compositor: load glyph %q: %w", c, err)
		}
		writeSegments(b, segs, x, y)

		adv, ok := t.face.GlyphAdvance(c)
		if ok {
			x += fromFixed(adv)
		}
	}
	return nil
}

func writeSegments(b *strings.Builder, segs sfnt.Segments, x, y float64) {
	open := false
	pt := func(p fixed.Point26_6) {
		fmt.Fprintf(b, " %.2f %.2f", x+fromFixed(p.X), y+fromFixed(p.Y))
	}
	for _, s := range segs {
		switch s.Op {
		case sfnt.SegmentOpMoveTo:
			if open {
				b.WriteString(" Z")
			}
			b.WriteString(" M")
			pt(s.Args[0])
			open = true
		case sfnt.SegmentOpLineTo:
			b.WriteString(" L")
			pt(s.Args[0])
		case sfnt.SegmentOpQuadTo:
			b.WriteString(" Q")
			pt(s.Args[0])
			pt(s.Args[1])
		case sfnt.SegmentOpCubeTo:
			b.WriteString(" C")
			pt(s.Args[0])
			pt(s.Args[1])
			pt(s.Args[2])
		}
	}
	if open {
		b.WriteString(" Z")
	}
}

func fromFixed(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
