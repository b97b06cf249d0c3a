// Package layout describes preview cards as a styled tree of boxes, text,
// images and vector shapes. Building a tree does no I/O; the compositor
// package turns a tree into pixels.
package layout

// Canvas size of an Open Graph card.
const (
	Width  = 1200
	Height = 630
)

// Kind is the type of a Node.
type Kind int

const (
	Box Kind = iota
	Text
	Image
	Vector
)

func (k Kind) String() string {
	switch k {
	case Box:
		return "box"
	case Text:
		return "text"
	case Image:
		return "image"
	case Vector:
		return "vector"
	}
	return "unknown"
}

// Direction is the main axis of a box.
type Direction int

const (
	Row Direction = iota
	Column
)

// Justify distributes children along the main axis.
type Justify int

const (
	JustifyStart Justify = iota
	JustifyCenter
	JustifyEnd
	JustifyBetween
)

// Align places children on the cross axis.
type Align int

const (
	AlignStart Align = iota
	AlignCenter
	AlignEnd
	AlignStretch
)

// Edges holds per-side lengths in pixels.
type Edges struct {
	Top, Right, Bottom, Left float64
}

// Pad returns equal edges on every side.
func Pad(v float64) Edges {
	return Edges{v, v, v, v}
}

// PadXY returns edges with x on the left/right and y on the top/bottom.
func PadXY(x, y float64) Edges {
	return Edges{Top: y, Right: x, Bottom: y, Left: x}
}

// Stop is one color stop of a gradient; Offset is in [0,1].
type Stop struct {
	Offset float64
	Color  string
}

// Gradient is a linear gradient. Angle follows CSS: 90 points right, 180
// points down, 135 runs from the top-left to the bottom-right corner.
type Gradient struct {
	Angle float64
	Stops []Stop
}

// Paint is a solid color or a gradient. A zero Paint paints nothing.
type Paint struct {
	Color    string
	Gradient *Gradient
}

// IsZero reports whether p paints nothing.
func (p Paint) IsZero() bool {
	return p.Color == "" && p.Gradient == nil
}

// Solid returns a solid color paint.
func Solid(c string) Paint {
	return Paint{Color: c}
}

// Linear returns a two-stop linear gradient paint.
func Linear(angle float64, from, to string) Paint {
	return Paint{Gradient: &Gradient{
		Angle: angle,
		Stops: []Stop{{Offset: 0, Color: from}, {Offset: 1, Color: to}},
	}}
}

// Border is a stroke around a box, or along its top edge when TopOnly.
type Border struct {
	Width   float64
	Color   string
	TopOnly bool
}

// Shadow is a soft drop shadow under a box.
type Shadow struct {
	OffsetY float64
	Blur    float64
	Color   string
}

// Position takes a node out of flow and places it relative to its parent's
// border box. X is measured from the right edge when FromRight, Y from the
// bottom edge when FromBottom.
type Position struct {
	X, Y       float64
	FromRight  bool
	FromBottom bool
}

// Style is the subset of flexbox and paint properties the cards use.
// Zero lengths mean "auto".
type Style struct {
	Width, Height float64

	Direction Direction
	Justify   Justify
	Align     Align
	Gap       float64
	Padding   Edges
	Grow      float64
	Position  *Position

	Background Paint
	Radius     float64
	Border     Border
	Shadow     *Shadow
	Opacity    float64

	FontSize   float64
	FontWeight int
	LineHeight float64
	Color      Paint
}

// Node is one element of a layout tree.
type Node struct {
	ID       string
	Kind     Kind
	Style    Style
	Children []*Node

	// Text holds the content of a Text node.
	Text string
	// Src holds a data URL for an Image node.
	Src string
	// ViewBox and Shapes describe a Vector node; shapes are drawn in
	// view box units scaled to the node's size.
	ViewBox Size
	Shapes  []Shape
}

// Size is a width and height pair.
type Size struct {
	W, H float64
}

// Find returns the first node with the given id in depth-first order.
func (n *Node) Find(id string) *Node {
	if n == nil {
		return nil
	}
	if n.ID == id {
		return n
	}
	for _, c := range n.Children {
		if f := c.Find(id); f != nil {
			return f
		}
	}
	return nil
}

// Walk calls fn for n and all descendants in depth-first order.
func (n *Node) Walk(fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// NewBox returns a box with the given style and children. Nil children are
// dropped, which lets templates collapse optional regions inline.
func NewBox(id string, s Style, children ...*Node) *Node {
	n := &Node{ID: id, Kind: Box, Style: s}
	for _, c := range children {
		if c != nil {
			n.Children = append(n.Children, c)
		}
	}
	return n
}

// NewText returns a text node.
func NewText(id, text string, s Style) *Node {
	return &Node{ID: id, Kind: Text, Text: text, Style: s}
}

// NewImage returns an image node showing the data URL src.
func NewImage(id, src string, s Style) *Node {
	return &Node{ID: id, Kind: Image, Src: src, Style: s}
}

// NewVector returns a vector node of size w x h whose shapes use the same
// coordinate space.
func NewVector(id string, w, h float64, s Style, shapes ...Shape) *Node {
	s.Width, s.Height = w, h
	return &Node{ID: id, Kind: Vector, Style: s, ViewBox: Size{W: w, H: h}, Shapes: shapes}
}
