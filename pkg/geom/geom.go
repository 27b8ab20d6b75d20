// Package geom provides the 2D primitives used by the docking bridge:
// points, vectors, sizes and axis-aligned rectangles in float64 logical
// coordinates. Rectangles are min/max pairs; an inverted rectangle
// (Max < Min on either axis) is treated as empty.
package geom

import "math"

// Point is a position in logical coordinates. Depending on context it is
// either local to a viewport or global (compositor space).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Vec is a displacement between two points.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a width/height pair.
type Size struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Rect is an axis-aligned rectangle spanning [Min, Max).
type Rect struct {
	Min Point `json:"min"`
	Max Point `json:"max"`
}

func Pt(x, y float64) Point { return Point{X: x, Y: y} }
func V(x, y float64) Vec    { return Vec{X: x, Y: y} }
func Sz(w, h float64) Size  { return Size{W: w, H: h} }

// R builds a rectangle from two corner coordinates.
func R(x0, y0, x1, y1 float64) Rect {
	return Rect{Min: Point{X: x0, Y: y0}, Max: Point{X: x1, Y: y1}}
}

// RectFromMinSize builds a rectangle from its top-left corner and size.
func RectFromMinSize(min Point, sz Size) Rect {
	return Rect{Min: min, Max: Point{X: min.X + sz.W, Y: min.Y + sz.H}}
}

// RectFromCenterSize builds a rectangle centered on c.
func RectFromCenterSize(c Point, sz Size) Rect {
	return R(c.X-sz.W/2, c.Y-sz.H/2, c.X+sz.W/2, c.Y+sz.H/2)
}

func (p Point) Add(v Vec) Point    { return Point{X: p.X + v.X, Y: p.Y + v.Y} }
func (p Point) SubVec(v Vec) Point { return Point{X: p.X - v.X, Y: p.Y - v.Y} }

// Sub returns the displacement from q to p.
func (p Point) Sub(q Point) Vec { return Vec{X: p.X - q.X, Y: p.Y - q.Y} }

// Vec returns the point as a displacement from the origin.
func (p Point) Vec() Vec { return Vec{X: p.X, Y: p.Y} }

// Dist returns the Euclidean distance between two points.
func (p Point) Dist(q Point) float64 {
	dx, dy := p.X-q.X, p.Y-q.Y
	return math.Hypot(dx, dy)
}

func (v Vec) Add(w Vec) Vec { return Vec{X: v.X + w.X, Y: v.Y + w.Y} }
func (v Vec) Len() float64  { return math.Hypot(v.X, v.Y) }

func (s Size) IsPositive() bool { return s.W > 0 && s.H > 0 }

// Max clamps both dimensions to at least those of t.
func (s Size) Max(t Size) Size {
	return Size{W: math.Max(s.W, t.W), H: math.Max(s.H, t.H)}
}

func (r Rect) Width() float64  { return r.Max.X - r.Min.X }
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }
func (r Rect) Size() Size      { return Size{W: r.Width(), H: r.Height()} }

func (r Rect) Center() Point {
	return Point{X: (r.Min.X + r.Max.X) / 2, Y: (r.Min.Y + r.Max.Y) / 2}
}

// IsPositive reports whether the rectangle has positive area.
func (r Rect) IsPositive() bool {
	return r.Max.X > r.Min.X && r.Max.Y > r.Min.Y
}

// Area returns the rectangle's area, or 0 when inverted.
func (r Rect) Area() float64 {
	if !r.IsPositive() {
		return 0
	}
	return r.Width() * r.Height()
}

// Contains reports whether p lies inside the rectangle. The edges at Min
// are inclusive and the edges at Max exclusive so adjacent rectangles do
// not both claim their shared border.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X < r.Max.X && p.Y >= r.Min.Y && p.Y < r.Max.Y
}

// Intersect returns the overlap of two rectangles. The result may be
// inverted (empty) when they do not overlap.
func (r Rect) Intersect(o Rect) Rect {
	return Rect{
		Min: Point{X: math.Max(r.Min.X, o.Min.X), Y: math.Max(r.Min.Y, o.Min.Y)},
		Max: Point{X: math.Min(r.Max.X, o.Max.X), Y: math.Min(r.Max.Y, o.Max.Y)},
	}
}

// Intersects reports whether the two rectangles overlap with positive area.
func (r Rect) Intersects(o Rect) bool {
	return r.Intersect(o).IsPositive()
}

// Translate shifts the rectangle by v.
func (r Rect) Translate(v Vec) Rect {
	return Rect{Min: r.Min.Add(v), Max: r.Max.Add(v)}
}

// Expand grows the rectangle by m on every side. Negative m shrinks it.
func (r Rect) Expand(m float64) Rect {
	return R(r.Min.X-m, r.Min.Y-m, r.Max.X+m, r.Max.Y+m)
}

// SplitTop carves a strip of height h off the top and returns it together
// with the remainder.
func (r Rect) SplitTop(h float64) (top, rest Rect) {
	y := math.Min(r.Min.Y+h, r.Max.Y)
	top = Rect{Min: r.Min, Max: Point{X: r.Max.X, Y: y}}
	rest = Rect{Min: Point{X: r.Min.X, Y: y}, Max: r.Max}
	return top, rest
}

// ClampPoint returns the point inside r closest to p.
func (r Rect) ClampPoint(p Point) Point {
	return Point{
		X: math.Min(math.Max(p.X, r.Min.X), r.Max.X),
		Y: math.Min(math.Max(p.Y, r.Min.Y), r.Max.Y),
	}
}

// DistToPoint returns the distance from p to the rectangle, 0 when inside.
func (r Rect) DistToPoint(p Point) float64 {
	return r.ClampPoint(p).Dist(p)
}
