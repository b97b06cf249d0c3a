package compositor

import (
	"math"
	"strings"

	"github.com/eringen/ogsite/layout"
)

const defaultLineHeight = 1.2

// frame is a laid out node: its border box on the canvas plus, for text,
// the wrapped lines.
type frame struct {
	node     *layout.Node
	x, y     float64
	w, h     float64
	text     textStyle
	lines    []string
	lineH    float64
	children []*frame
}

type flex struct {
	reg *registry
}

// measure returns the border box size n wants when at most avail pixels
// of width are available.
func (f *flex) measure(n *layout.Node, avail float64) (w, h float64, err error) {
	s := n.Style
	switch n.Kind {
	case layout.Text:
		ts, err := f.reg.textStyle(s.FontSize, s.FontWeight)
		if err != nil {
			return 0, 0, err
		}
		lines := wrap(ts, n.Text, avail)
		for _, l := range lines {
			w = math.Max(w, ts.measure(l))
		}
		h = float64(len(lines)) * lineHeight(s)
		return orSize(s.Width, w), orSize(s.Height, h), nil
	case layout.Image, layout.Vector:
		return s.Width, s.Height, nil
	}

	pad := s.Padding
	inner := avail - pad.Left - pad.Right
	if s.Width > 0 {
		inner = s.Width - pad.Left - pad.Right
	}
	var main, cross float64
	flow := 0
	for _, c := range n.Children {
		if c.Style.Position != nil {
			continue
		}
		childAvail := inner
		if s.Direction == layout.Row {
			childAvail = math.Max(0, inner-main)
		}
		cw, ch, err := f.measure(c, childAvail)
		if err != nil {
			return 0, 0, err
		}
		if s.Direction == layout.Row {
			main += cw
			cross = math.Max(cross, ch)
		} else {
			main += ch
			cross = math.Max(cross, cw)
		}
		flow++
	}
	if flow > 1 {
		main += s.Gap * float64(flow-1)
	}
	if s.Direction == layout.Row {
		w, h = main, cross
	} else {
		w, h = cross, main
	}
	w += pad.Left + pad.Right
	h += pad.Top + pad.Bottom
	return orSize(s.Width, w), orSize(s.Height, h), nil
}

// place lays n out into the border box (x, y, w, h).
func (f *flex) place(n *layout.Node, x, y, w, h float64) (*frame, error) {
	fr := &frame{node: n, x: x, y: y, w: w, h: h}
	s := n.Style

	switch n.Kind {
	case layout.Text:
		ts, err := f.reg.textStyle(s.FontSize, s.FontWeight)
		if err != nil {
			return nil, err
		}
		fr.text = ts
		fr.lines = wrap(ts, n.Text, w)
		fr.lineH = lineHeight(s)
		return fr, nil
	case layout.Image, layout.Vector:
		return fr, nil
	}

	pad := s.Padding
	ix, iy := x+pad.Left, y+pad.Top
	iw, ih := w-pad.Left-pad.Right, h-pad.Top-pad.Bottom
	row := s.Direction == layout.Row
	mainSize, crossSize := ih, iw
	if row {
		mainSize, crossSize = iw, ih
	}

	type item struct {
		n          *layout.Node
		main, crss float64
	}
	var items []item
	var used, grow float64
	for _, c := range n.Children {
		if c.Style.Position != nil {
			continue
		}
		avail := iw
		if row {
			avail = math.Max(0, iw-used)
		}
		cw, ch, err := f.measure(c, avail)
		if err != nil {
			return nil, err
		}
		it := item{n: c, main: ch, crss: cw}
		if row {
			it = item{n: c, main: cw, crss: ch}
		}
		if s.Align == layout.AlignStretch {
			if row && c.Style.Height == 0 || !row && c.Style.Width == 0 {
				it.crss = crossSize
			}
		}
		used += it.main
		grow += c.Style.Grow
		items = append(items, it)
	}
	if len(items) > 1 {
		used += s.Gap * float64(len(items)-1)
	}

	free := mainSize - used
	if free > 0 && grow > 0 {
		for i := range items {
			items[i].main += free * items[i].n.Style.Grow / grow
		}
		free = 0
	}

	pos, gap := 0.0, s.Gap
	switch s.Justify {
	case layout.JustifyCenter:
		pos = free / 2
	case layout.JustifyEnd:
		pos = free
	case layout.JustifyBetween:
		if len(items) > 1 && free > 0 {
			gap += free / float64(len(items)-1)
		}
	}

	for _, it := range items {
		off := 0.0
		switch s.Align {
		case layout.AlignCenter:
			off = (crossSize - it.crss) / 2
		case layout.AlignEnd:
			off = crossSize - it.crss
		}
		var child *frame
		var err error
		if row {
			child, err = f.place(it.n, ix+pos, iy+off, it.main, it.crss)
		} else {
			child, err = f.place(it.n, ix+off, iy+pos, it.crss, it.main)
		}
		if err != nil {
			return nil, err
		}
		fr.children = append(fr.children, child)
		pos += it.main + gap
	}

	for i, c := range n.Children {
		p := c.Style.Position
		if p == nil {
			continue
		}
		cw, ch, err := f.measure(c, w)
		if err != nil {
			return nil, err
		}
		cx, cy := x+p.X, y+p.Y
		if p.FromRight {
			cx = x + w - p.X - cw
		}
		if p.FromBottom {
			cy = y + h - p.Y - ch
		}
		child, err := f.place(c, cx, cy, cw, ch)
		if err != nil {
			return nil, err
		}
		// Positioned children keep their document order relative to
		// in-flow siblings so later siblings paint over them.
		fr.children = insertAt(fr.children, i, child)
	}
	return fr, nil
}

func insertAt(fs []*frame, i int, f *frame) []*frame {
	if i >= len(fs) {
		return append(fs, f)
	}
	fs = append(fs, nil)
	copy(fs[i+1:], fs[i:])
	fs[i] = f
	return fs
}

// wrap breaks s into lines no wider than max, splitting at whitespace. A
// word wider than max gets a line of its own.
func wrap(t textStyle, s string, max float64) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	cur := words[0]
	for _, w := range words[1:] {
		next := cur + " " + w
		if max > 0 && t.measure(next) > max+0.5 {
			lines = append(lines, cur)
			cur = w
			continue
		}
		cur = next
	}
	return append(lines, cur)
}

func lineHeight(s layout.Style) float64 {
	lh := s.LineHeight
	if lh <= 0 {
		lh = defaultLineHeight
	}
	size := s.FontSize
	if size <= 0 {
		size = 16
	}
	return size * lh
}

func orSize(fixed, auto float64) float64 {
	if fixed > 0 {
		return fixed
	}
	return auto
}
