// Package geom maps score vectors onto a regular D-gon radar chart and back.
package geom

import (
	"math"

	"github.com/huangsam/vmfs/schema"
)

// Point is a position in chart-local coordinates. Y grows downward.
type Point struct {
	X float64
	Y float64
}

// Radar is a radar chart centered at Center with outer ring Radius and Dims axes.
type Radar struct {
	Center Point
	Radius float64
	Dims   int
}

// NewRadar returns a radar for the given geometry.
func NewRadar(center Point, radius float64, dims int) Radar {
	return Radar{Center: center, Radius: radius, Dims: dims}
}

// Valid reports whether the geometry can be used for mapping.
func (r Radar) Valid() bool {
	return r.Dims > 0 && r.Radius > 0 && !math.IsNaN(r.Radius) && !math.IsInf(r.Radius, 0)
}

// Angle returns the axis angle of dimension i: index 0 at the top, proceeding clockwise.
func (r Radar) Angle(i int) float64 {
	return -math.Pi/2 + float64(i)*(2*math.Pi/float64(r.Dims))
}

// ToPoint places value on axis i using the radar's own radius.
// The value is not clamped.
func (r Radar) ToPoint(value float64, i int) Point {
	return r.ToPointRadius(value, i, r.Radius)
}

// ToPointRadius places value on axis i at distance (value/5)*radius from the center.
func (r Radar) ToPointRadius(value float64, i int, radius float64) Point {
	angle := r.Angle(i)
	dist := (value / schema.MaxScore) * radius
	return Point{
		X: r.Center.X + dist*math.Cos(angle),
		Y: r.Center.Y + dist*math.Sin(angle),
	}
}

// ToPolygon returns exactly Dims vertices in canonical dimension order.
// The renderer closes the polygon by joining the last vertex to the first.
func (r Radar) ToPolygon(v schema.ScoreVector) []Point {
	points := make([]Point, r.Dims)
	for i := range r.Dims {
		points[i] = r.ToPoint(v.At(i), i)
	}
	return points
}

// AxisEnd returns the outer ring end of axis i.
func (r Radar) AxisEnd(i int) Point {
	return r.ToPoint(schema.MaxScore, i)
}

// Ring returns the polygon for a constant score level, used for grid lines.
func (r Radar) Ring(level float64) []Point {
	points := make([]Point, r.Dims)
	for i := range r.Dims {
		points[i] = r.ToPoint(level, i)
	}
	return points
}

// FromPointer maps a pointer position to a score using the radar's center and radius.
func (r Radar) FromPointer(p Point) (float64, bool) {
	return FromPointerPosition(p, r.Center, r.Radius)
}

// FromPointerPosition turns a pointer position into a candidate score.
// The distance to center is scaled to the 0-5 range, clamped to [1,5]
// and rounded to the nearest 0.1. It returns false when the geometry
// cannot be resolved (zero or negative radius).
func FromPointerPosition(p Point, center Point, radius float64) (float64, bool) {
	if radius <= 0 || math.IsNaN(radius) || math.IsInf(radius, 0) {
		return 0, false
	}
	dist := Distance(p, center)
	raw := (dist / radius) * schema.MaxScore
	return schema.RoundTenth(schema.ClampScore(raw)), true
}

// HitTest returns the index of the vertex whose hit disc contains p.
// The nearest vertex wins when discs overlap. It returns -1 on a miss.
func (r Radar) HitTest(v schema.ScoreVector, p Point, hitRadius float64) int {
	best, bestDist := -1, math.Inf(1)
	for i, vertex := range r.ToPolygon(v) {
		d := Distance(p, vertex)
		if d <= hitRadius && d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// Distance is the Euclidean distance between two points.
func Distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
