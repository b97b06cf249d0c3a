package layout

// ShapeKind is the primitive drawn by a Shape.
type ShapeKind int

const (
	CircleShape ShapeKind = iota
	EllipseShape
	RectShape
	LineShape
	PolygonShape
	PathShape
)

// Point is a coordinate in view box units.
type Point struct {
	X, Y float64
}

// Shape is one vector primitive of a Vector node.
type Shape struct {
	Kind ShapeKind

	// Circle and ellipse center, rect origin, line start.
	X, Y float64
	// Circle radius.
	R float64
	// Ellipse radii, rect size.
	RX, RY float64
	// Line end.
	X2, Y2 float64
	// Polygon vertices.
	Points []Point
	// Path data in SVG syntax.
	D string

	Fill        string
	Stroke      string
	StrokeWidth float64
	Opacity     float64
}

func Circle(cx, cy, r float64) Shape {
	return Shape{Kind: CircleShape, X: cx, Y: cy, R: r}
}

func Ellipse(cx, cy, rx, ry float64) Shape {
	return Shape{Kind: EllipseShape, X: cx, Y: cy, RX: rx, RY: ry}
}

func Rect(x, y, w, h float64) Shape {
	return Shape{Kind: RectShape, X: x, Y: y, RX: w, RY: h}
}

func Line(x1, y1, x2, y2 float64) Shape {
	return Shape{Kind: LineShape, X: x1, Y: y1, X2: x2, Y2: y2}
}

func Polygon(pts ...Point) Shape {
	return Shape{Kind: PolygonShape, Points: pts}
}

func Path(d string) Shape {
	return Shape{Kind: PathShape, D: d}
}

// Filled returns s filled with color.
func (s Shape) Filled(color string) Shape {
	s.Fill = color
	return s
}

// Stroked returns s outlined with color at width w.
func (s Shape) Stroked(color string, w float64) Shape {
	s.Stroke = color
	s.StrokeWidth = w
	return s
}

// Alpha returns s drawn at opacity o.
func (s Shape) Alpha(o float64) Shape {
	s.Opacity = o
	return s
}
