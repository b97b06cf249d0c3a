package compositor

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/eringen/ogsite/layout"
)

const shadowSteps = 6

// placedImage is an Image node waiting to be drawn over the raster.
type placedImage struct {
	src        string
	x, y, w, h float64
	opacity    float64
}

// emitter writes a laid out tree as SVG. Gradients are collected into a
// separate defs buffer so every url(#id) reference resolves to an earlier
// definition.
type emitter struct {
	reg    *registry
	defs   *svg.SVG
	body   *svg.SVG
	defBuf bytes.Buffer
	bodBuf bytes.Buffer
	grads  int
	images []placedImage
}

func newEmitter(reg *registry) *emitter {
	e := &emitter{reg: reg}
	e.defs = svg.New(&e.defBuf)
	e.body = svg.New(&e.bodBuf)
	return e
}

// document assembles the final SVG of a w x h canvas.
func (e *emitter) document(w, h int) []byte {
	var out bytes.Buffer
	doc := svg.New(&out)
	doc.Start(w, h)
	if e.defBuf.Len() > 0 {
		doc.Def()
		out.Write(e.defBuf.Bytes())
		doc.DefEnd()
	}
	out.Write(e.bodBuf.Bytes())
	doc.End()
	return out.Bytes()
}

func (e *emitter) frame(f *frame, opacity float64) error {
	s := f.node.Style
	if s.Opacity > 0 {
		opacity *= s.Opacity
	}

	switch f.node.Kind {
	case layout.Box:
		if err := e.box(f, opacity); err != nil {
			return fmt.Errorf("%s: %w", describe(f.node), err)
		}
	case layout.Text:
		if err := e.text(f, opacity); err != nil {
			return fmt.Errorf("%s: %w", describe(f.node), err)
		}
	case layout.Image:
		if f.node.Src != "" {
			e.images = append(e.images, placedImage{
				src: f.node.Src, x: f.x, y: f.y, w: f.w, h: f.h, opacity: opacity,
			})
		}
	case layout.Vector:
		if err := e.vector(f, opacity); err != nil {
			return fmt.Errorf("%s: %w", describe(f.node), err)
		}
	}

	for _, c := range f.children {
		if err := e.frame(c, opacity); err != nil {
			return err
		}
	}
	return nil
}

func describe(n *layout.Node) string {
	if n.ID != "" {
		return n.Kind.String() + " " + n.ID
	}
	return n.Kind.String()
}

func (e *emitter) box(f *frame, opacity float64) error {
	s := f.node.Style
	r := radius(s.Radius, f.w, f.h)

	if sh := s.Shadow; sh != nil {
		if err := e.shadow(f, r, sh, opacity); err != nil {
			return err
		}
	}

	if !s.Background.IsZero() {
		fill, err := e.paint("fill", s.Background, opacity)
		if err != nil {
			return err
		}
		e.rect(f.x, f.y, f.w, f.h, r, fill...)
	}

	b := s.Border
	if b.Width > 0 && b.Color != "" {
		stroke, err := e.paint("fill", layout.Solid(b.Color), opacity)
		if err != nil {
			return err
		}
		if b.TopOnly {
			e.rect(f.x, f.y, f.w, b.Width, 0, stroke...)
			return nil
		}
		stroke, err = e.paint("stroke", layout.Solid(b.Color), opacity)
		if err != nil {
			return err
		}
		half := b.Width / 2
		attrs := append(stroke, `fill="none"`, fmt.Sprintf(`stroke-width="%.2f"`, b.Width))
		e.rect(f.x+half, f.y+half, f.w-b.Width, f.h-b.Width, math.Max(0, r-half), attrs...)
	}
	return nil
}

// shadow approximates a blurred drop shadow with stacked translucent
// rounded rectangles that grow by blur/steps each.
func (e *emitter) shadow(f *frame, r float64, sh *layout.Shadow, opacity float64) error {
	c, err := layout.ParseColor(sh.Color)
	if err != nil {
		return err
	}
	a := float64(c.A) / 255 * opacity / shadowSteps
	hex := fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	for i := shadowSteps; i >= 1; i-- {
		spread := sh.Blur / 2 * float64(i) / shadowSteps
		e.rect(f.x-spread, f.y+sh.OffsetY-spread, f.w+2*spread, f.h+2*spread, r+spread,
			fmt.Sprintf(`fill="%s"`, hex), fmt.Sprintf(`fill-opacity="%.3f"`, a))
	}
	return nil
}

func (e *emitter) rect(x, y, w, h, r float64, attrs ...string) {
	if w <= 0 || h <= 0 {
		return
	}
	xi, yi, wi, hi := round(x), round(y), round(w), round(h)
	if r > 0 {
		ri := round(r)
		e.body.Roundrect(xi, yi, wi, hi, ri, ri, attrs...)
		return
	}
	e.body.Rect(xi, yi, wi, hi, attrs...)
}

func (e *emitter) text(f *frame, opacity float64) error {
	if len(f.lines) == 0 {
		return nil
	}
	s := f.node.Style
	color := s.Color
	if color.IsZero() {
		color = layout.Solid("#000000")
	}
	fill, err := e.paint("fill", color, opacity)
	if err != nil {
		return err
	}

	t := f.text
	var d strings.Builder
	lead := (f.lineH - (t.ascent() + t.descent())) / 2
	for i, line := range f.lines {
		baseline := f.y + float64(i)*f.lineH + lead + t.ascent()
		if err := e.reg.outline(&d, t, line, f.x, baseline); err != nil {
			return err
		}
	}
	if d.Len() == 0 {
		return nil
	}
	e.body.Path(strings.TrimSpace(d.String()), fill...)
	return nil
}

func (e *emitter) vector(f *frame, opacity float64) error {
	n := f.node
	sx, sy := 1.0, 1.0
	if n.ViewBox.W > 0 && n.ViewBox.H > 0 {
		sx, sy = f.w/n.ViewBox.W, f.h/n.ViewBox.H
	}
	e.body.Gtransform(fmt.Sprintf("translate(%.2f,%.2f) scale(%.4f,%.4f)", f.x, f.y, sx, sy))
	defer e.body.Gend()
	for i, sh := range n.Shapes {
		if err := e.shape(sh, opacity); err != nil {
			return fmt.Errorf("shape %d: %w", i, err)
		}
	}
	return nil
}

func (e *emitter) shape(sh layout.Shape, opacity float64) error {
	if sh.Opacity > 0 {
		opacity *= sh.Opacity
	}
	attrs := []string{`fill="none"`}
	if sh.Fill != "" {
		fill, err := e.paint("fill", layout.Solid(sh.Fill), opacity)
		if err != nil {
			return err
		}
		attrs = fill
	}
	if sh.Stroke != "" {
		stroke, err := e.paint("stroke", layout.Solid(sh.Stroke), opacity)
		if err != nil {
			return err
		}
		attrs = append(attrs, stroke...)
		attrs = append(attrs, fmt.Sprintf(`stroke-width="%.2f"`, sh.StrokeWidth), `stroke-linecap="round"`)
	}

	switch sh.Kind {
	case layout.CircleShape:
		e.body.Circle(round(sh.X), round(sh.Y), round(sh.R), attrs...)
	case layout.EllipseShape:
		e.body.Ellipse(round(sh.X), round(sh.Y), round(sh.RX), round(sh.RY), attrs...)
	case layout.RectShape:
		e.body.Rect(round(sh.X), round(sh.Y), round(sh.RX), round(sh.RY), attrs...)
	case layout.LineShape:
		e.body.Line(round(sh.X), round(sh.Y), round(sh.X2), round(sh.Y2), attrs...)
	case layout.PolygonShape:
		xs, ys := make([]int, len(sh.Points)), make([]int, len(sh.Points))
		for i, p := range sh.Points {
			xs[i], ys[i] = round(p.X), round(p.Y)
		}
		e.body.Polygon(xs, ys, attrs...)
	case layout.PathShape:
		e.body.Path(sh.D, attrs...)
	default:
		return fmt.Errorf("unknown shape kind %d", sh.Kind)
	}
	return nil
}

// paint returns the attributes that apply p as the given property ("fill"
// or "stroke") at the given opacity.
func (e *emitter) paint(prop string, p layout.Paint, opacity float64) ([]string, error) {
	if p.Gradient != nil {
		id, err := e.gradient(p.Gradient)
		if err != nil {
			return nil, err
		}
		return []string{
			fmt.Sprintf(`%s="url(#%s)"`, prop, id),
			fmt.Sprintf(`%s-opacity="%.3f"`, prop, opacity),
		}, nil
	}
	c, err := layout.ParseColor(p.Color)
	if err != nil {
		return nil, err
	}
	return []string{
		fmt.Sprintf(`%s="#%02x%02x%02x"`, prop, c.R, c.G, c.B),
		fmt.Sprintf(`%s-opacity="%.3f"`, prop, float64(c.A)/255*opacity),
	}, nil
}

func (e *emitter) gradient(g *layout.Gradient) (string, error) {
	if len(g.Stops) == 0 {
		return "", fmt.Errorf("gradient without stops")
	}
	stops := make([]svg.Offcolor, 0, len(g.Stops))
	for _, st := range g.Stops {
		c, err := layout.ParseColor(st.Color)
		if err != nil {
			return "", err
		}
		stops = append(stops, svg.Offcolor{
			Offset:  uint8(math.Round(clamp01(st.Offset) * 100)),
			Color:   fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B),
			Opacity: float64(c.A) / 255,
		})
	}
	e.grads++
	id := fmt.Sprintf("g%d", e.grads)
	x1, y1, x2, y2 := gradientLine(g.Angle)
	e.defs.LinearGradient(id, x1, y1, x2, y2, stops)
	return id, nil
}

// gradientLine maps a CSS gradient angle onto percentage endpoints of the
// bounding box.
func gradientLine(angle float64) (x1, y1, x2, y2 uint8) {
	rad := angle * math.Pi / 180
	dx, dy := math.Sin(rad), -math.Cos(rad)
	m := math.Max(math.Abs(dx), math.Abs(dy))
	dx, dy = dx/m, dy/m
	pct := func(v float64) uint8 { return uint8(math.Round(50 + v*50)) }
	return pct(-dx), pct(-dy), pct(dx), pct(dy)
}

func radius(r, w, h float64) float64 {
	return math.Max(0, math.Min(r, math.Min(w, h)/2))
}

func round(v float64) int {
	return int(math.Round(v))
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
