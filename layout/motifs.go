package layout

import (
	"math"
	"strings"
)

// Motif names the decoration drawn for a topic.
type Motif string

const (
	MotifCircuit   Motif = "circuit"
	MotifMegaphone Motif = "megaphone"
	MotifRocket    Motif = "rocket"
	MotifBolt      Motif = "bolt"
	MotifHelix     Motif = "helix"
	MotifBurst     Motif = "burst"
)

// MotifFor returns the decoration used for topic. Unknown or empty topics
// get the abstract burst.
func MotifFor(topic string) Motif {
	switch strings.ToLower(strings.TrimSpace(topic)) {
	case "tech", "technology":
		return MotifCircuit
	case "marketing":
		return MotifMegaphone
	case "entrepreneurship":
		return MotifRocket
	case "productivity":
		return MotifBolt
	case "health":
		return MotifHelix
	}
	return MotifBurst
}

// TopicMotif returns the absolutely positioned decoration for topic.
func TopicMotif(topic, color string) *Node {
	m := MotifFor(topic)
	id := "motif-" + string(m)
	switch m {
	case MotifCircuit:
		return NewVector(id, 280, 280, at(20, 20, true, false, 0.18), circuit(color)...)
	case MotifMegaphone:
		return NewVector(id, 280, 220, at(20, 20, true, true, 0.18), megaphone(color)...)
	case MotifRocket:
		return NewVector(id, 240, 300, at(15, 15, true, false, 0.18), rocket(color)...)
	case MotifBolt:
		return NewVector(id, 260, 280, at(20, 20, true, false, 0.18), bolt(color)...)
	case MotifHelix:
		return NewVector(id, 200, 280, at(20, 20, true, true, 0.18), helix(color)...)
	}
	return NewVector(id, 200, 200, at(30, 30, true, false, 0.12), burst(color)...)
}

func at(x, y float64, right, bottom bool, opacity float64) Style {
	return Style{
		Position: &Position{X: x, Y: y, FromRight: right, FromBottom: bottom},
		Opacity:  opacity,
	}
}

func pt(x, y float64) Point { return Point{X: x, Y: y} }

// gridPattern is the faint 50px grid over the background gradient.
func gridPattern(primary string) *Node {
	line := Alpha(primary, 0x22/255.0)
	var shapes []Shape
	for x := 0.0; x <= Width; x += 50 {
		shapes = append(shapes, Line(x, 0, x, Height).Stroked(line, 1.5))
	}
	for y := 0.0; y <= Height; y += 50 {
		shapes = append(shapes, Line(0, y, Width, y).Stroked(line, 1.5))
	}
	return NewVector("grid", Width, Height, at(0, 0, false, false, 0.5), shapes...)
}

// geometricShapes are the isometric cubes, hexagon grid and corner
// triangles shared by every blog card.
func geometricShapes(color string) []*Node {
	cubes := []Shape{
		Path("M 30 40 L 60 25 L 90 40 L 90 70 L 60 85 L 30 70 Z").Filled(color).Alpha(0.6),
		Path("M 60 25 L 60 55 L 90 70 L 90 40 Z").Filled(color).Alpha(0.8),
		Path("M 30 40 L 60 55 L 60 85 L 30 70 Z").Filled(color).Alpha(0.4),
		Path("M 70 80 L 100 65 L 130 80 L 130 110 L 100 125 L 70 110 Z").Filled(color).Alpha(0.6),
		Path("M 100 65 L 100 95 L 130 110 L 130 80 Z").Filled(color).Alpha(0.8),
		Path("M 70 80 L 100 95 L 100 125 L 70 110 Z").Filled(color).Alpha(0.4),
	}

	var hexes []Shape
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			x := 35 + float64(col)*50 + float64(row%2)*25
			y := 35 + float64(row)*43
			hexes = append(hexes, Polygon(
				pt(x, y-20), pt(x+17, y-10), pt(x+17, y+10),
				pt(x, y+20), pt(x-17, y+10), pt(x-17, y-10),
			).Stroked(color, 2))
		}
	}

	var triangles []Shape
	for i := 0.0; i < 4; i++ {
		triangles = append(triangles, Polygon(
			pt(250-i*60, 0), pt(250, i*60), pt(250-i*60-60, i*60),
		).Filled(color))
	}

	return []*Node{
		NewVector("cubes", 150, 150, at(30, 30, false, false, 0.1), cubes...),
		NewVector("hexagons", 200, 200, at(30, 30, true, true, 0.08), hexes...),
		NewVector("triangles", 250, 250, at(0, 0, true, false, 0.06), triangles...),
	}
}

func circuit(c string) []Shape {
	s := []Shape{
		Polygon(pt(140, 40), pt(190, 70), pt(190, 130), pt(140, 160), pt(90, 130), pt(90, 70)).Stroked(c, 4),
		Polygon(pt(140, 70), pt(170, 87), pt(170, 117), pt(140, 134), pt(110, 117), pt(110, 87)).Filled(c).Alpha(0.3),
	}
	spokes := [][4]float64{
		{140, 40, 140, 10}, {190, 70, 220, 50}, {190, 130, 220, 150},
		{140, 160, 140, 190}, {90, 130, 60, 150}, {90, 70, 60, 50},
	}
	for _, l := range spokes {
		s = append(s, Line(l[0], l[1], l[2], l[3]).Stroked(c, 3))
	}
	for _, l := range spokes {
		s = append(s, Circle(l[2], l[3], 6).Filled(c))
	}
	return append(s,
		Circle(140, 100, 20).Stroked(c, 2),
		Circle(140, 100, 10).Filled(c).Alpha(0.5),
	)
}

func megaphone(c string) []Shape {
	s := []Shape{
		Path("M 80 80 L 120 100 L 120 120 L 80 140 Z").Filled(c).Alpha(0.6),
		Ellipse(80, 110, 15, 30).Filled(c).Alpha(0.8),
		Rect(120, 95, 30, 30).Filled(c).Alpha(0.7),
	}
	for i, r := range []float64{40, 60, 80, 100} {
		s = append(s, Circle(150, 110, r).Stroked(c, 4).Alpha(0.8-0.2*float64(i)))
	}
	return append(s,
		Line(150, 110, 240, 40).Stroked(c, 3).Alpha(0.5),
		Line(150, 110, 260, 110).Stroked(c, 3).Alpha(0.5),
		Line(150, 110, 240, 180).Stroked(c, 3).Alpha(0.5),
	)
}

func rocket(c string) []Shape {
	return []Shape{
		Path("M 120 40 L 140 80 L 140 180 L 120 200 L 100 180 L 100 80 Z").Filled(c).Alpha(0.7),
		Path("M 120 20 L 145 80 L 95 80 Z").Filled(c).Alpha(0.9),
		Circle(120, 110, 18).Filled("white").Alpha(0.8),
		Circle(120, 110, 12).Filled(c).Alpha(0.3),
		Path("M 100 140 L 70 180 L 100 170 Z").Filled(c).Alpha(0.6),
		Path("M 140 140 L 170 180 L 140 170 Z").Filled(c).Alpha(0.6),
		Ellipse(120, 210, 30, 25).Filled(c).Alpha(0.7),
		Ellipse(120, 230, 25, 30).Filled(c).Alpha(0.5),
		Ellipse(120, 255, 20, 25).Filled(c).Alpha(0.3),
		Path("M 40 60 L 45 75 L 60 75 L 48 83 L 52 98 L 40 88 L 28 98 L 32 83 L 20 75 L 35 75 Z").Filled(c).Alpha(0.6),
		Path("M 180 100 L 183 110 L 193 110 L 185 115 L 188 125 L 180 118 L 172 125 L 175 115 L 167 110 L 177 110 Z").Filled(c).Alpha(0.5),
		Path("M 200 40 L 202 47 L 209 47 L 203 51 L 205 58 L 200 53 L 195 58 L 197 51 L 191 47 L 198 47 Z").Filled(c).Alpha(0.7),
	}
}

func bolt(c string) []Shape {
	s := []Shape{
		Path("M 140 30 L 120 120 L 150 120 L 130 210").Stroked(c, 12),
		Path("M 145 30 L 125 120 L 155 120 L 135 210").Filled(c).Alpha(0.8),
	}
	s = append(s, gear(c, 200, 60, 35, 20, 30, 40, 8, 6)...)
	s = append(s, gear(c, 70, 180, 30, 17, 25, 35, 6, 5)...)
	return append(s,
		Circle(140, 30, 8).Filled(c).Alpha(0.8),
		Circle(150, 20, 5).Filled(c).Alpha(0.6),
		Circle(130, 210, 8).Filled(c).Alpha(0.8),
		Circle(140, 220, 5).Filled(c).Alpha(0.6),
	)
}

// gear draws a ring, a hub and n radial teeth between radii r1 and r2.
func gear(c string, cx, cy, ring, hub, r1, r2 float64, n int, tooth float64) []Shape {
	s := []Shape{
		Circle(cx, cy, ring).Stroked(c, 4),
		Circle(cx, cy, hub).Filled(c).Alpha(0.5),
	}
	for i := 0; i < n; i++ {
		a := float64(i) * 2 * math.Pi / float64(n)
		s = append(s, Line(
			cx+math.Cos(a)*r1, cy+math.Sin(a)*r1,
			cx+math.Cos(a)*r2, cy+math.Sin(a)*r2,
		).Stroked(c, tooth))
	}
	return s
}

func helix(c string) []Shape {
	var s []Shape
	for i := 0; i <= 10; i++ {
		y := 30 + float64(i)*22
		off := math.Sin(float64(i)*math.Pi/3) * 40
		x1, x2 := 100+off, 100-off
		s = append(s,
			Line(x1, y, x2, y).Stroked(c, 2).Alpha(0.5),
			Circle(x1, y, 6).Filled(c).Alpha(0.8),
			Circle(x2, y, 6).Filled(c).Alpha(0.8),
		)
	}
	return append(s,
		Path("M 100 30 Q 140 70 100 110 Q 60 150 100 190 Q 140 230 100 270").Stroked(c, 4).Alpha(0.6),
		Path("M 100 30 Q 60 70 100 110 Q 140 150 100 190 Q 60 230 100 270").Stroked(c, 4).Alpha(0.6),
		Circle(60, 100, 4).Filled(c).Alpha(0.7),
		Circle(140, 150, 4).Filled(c).Alpha(0.7),
		Circle(75, 200, 3).Filled(c).Alpha(0.6),
		Circle(125, 50, 3).Filled(c).Alpha(0.6),
	)
}

func burst(c string) []Shape {
	s := []Shape{Circle(100, 100, 80).Stroked(c, 3)}
	for i := 0; i < 8; i++ {
		a := float64(i) * math.Pi / 4
		s = append(s, Line(100, 100, 100+math.Cos(a)*100, 100+math.Sin(a)*100).Stroked(c, 2).Alpha(0.6))
	}
	return append(s, Circle(100, 100, 30).Filled(c).Alpha(0.5))
}
