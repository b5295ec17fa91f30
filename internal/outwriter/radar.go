package outwriter

import (
	"fmt"
	"math"
	"strings"

	"github.com/huangsam/vmfs/core/geom"
	"github.com/huangsam/vmfs/schema"
)

// Radar canvas glyphs.
const (
	glyphRing   = '·'
	glyphAxis   = '·'
	glyphEdge   = '*'
	glyphVertex = '●'
	glyphHover  = '◉'
	glyphCenter = '+'
)

// cellAspect is how many columns make up one row of height in a terminal cell grid.
const cellAspect = 2.0

// radarMargin leaves room around the outer ring for axis numbers.
const radarMargin = 1

// RadarCanvas draws a radar chart on a character grid.
// Chart-local units equal one row; a column is half a unit wide.
type RadarCanvas struct {
	radius int
	dims   int
}

// NewRadarCanvas creates a canvas for d dimensions. The radius is in rows and is at least 3.
func NewRadarCanvas(radius, d int) *RadarCanvas {
	return &RadarCanvas{radius: max(radius, 3), dims: d}
}

// Size returns the canvas width and height in cells.
func (rc *RadarCanvas) Size() (int, int) {
	span := rc.radius + radarMargin
	return int(cellAspect)*2*span + 1, 2*span + 1
}

// Radar returns the chart geometry in chart-local units.
func (rc *RadarCanvas) Radar() geom.Radar {
	c := float64(rc.radius + radarMargin)
	return geom.NewRadar(geom.Point{X: c, Y: c}, float64(rc.radius), rc.dims)
}

// CellToPoint maps a canvas cell to chart-local coordinates.
func (rc *RadarCanvas) CellToPoint(col, row int) geom.Point {
	return geom.Point{X: float64(col) / cellAspect, Y: float64(row)}
}

// pointToCell maps chart-local coordinates to the nearest canvas cell.
func (rc *RadarCanvas) pointToCell(p geom.Point) (int, int) {
	return int(math.Round(p.X * cellAspect)), int(math.Round(p.Y))
}

// Render draws rings, axes and the score polygon. Vertex hover is highlighted; -1 means none.
func (rc *RadarCanvas) Render(v schema.ScoreVector, hover int) []string {
	width, height := rc.Size()
	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}
	radar := rc.Radar()
	if !radar.Valid() {
		return gridLines(grid)
	}

	// 1. Outer ring and axes
	ring := radar.Ring(schema.MaxScore)
	for i := range ring {
		rc.drawLine(grid, ring[i], ring[(i+1)%len(ring)], glyphRing)
	}
	for i := range rc.dims {
		rc.drawLine(grid, radar.Center, radar.AxisEnd(i), glyphAxis)
	}

	// 2. Score polygon
	if len(v) > 0 {
		polygon := radar.ToPolygon(v)
		for i := range polygon {
			rc.drawLine(grid, polygon[i], polygon[(i+1)%len(polygon)], glyphEdge)
		}
		for i, p := range polygon {
			glyph := glyphVertex
			if i == hover {
				glyph = glyphHover
			}
			rc.plot(grid, p, glyph)
		}
	}

	// 3. Axis numbers just outside the ring
	for i := range rc.dims {
		end := radar.ToPointRadius(schema.MaxScore, i, radar.Radius+0.8)
		label := []rune(fmt.Sprint(i + 1))
		rc.plot(grid, end, label[0])
	}
	rc.plot(grid, radar.Center, glyphCenter)
	return gridLines(grid)
}

// drawLine samples the segment densely enough to touch every cell it crosses.
func (rc *RadarCanvas) drawLine(grid [][]rune, a, b geom.Point, glyph rune) {
	steps := int(math.Ceil(geom.Distance(a, b)*cellAspect*2)) + 1
	for s := 0; s <= steps; s++ {
		t := float64(s) / float64(steps)
		rc.plot(grid, geom.Point{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}, glyph)
	}
}

// plot writes a glyph when the point falls on the canvas.
func (rc *RadarCanvas) plot(grid [][]rune, p geom.Point, glyph rune) {
	col, row := rc.pointToCell(p)
	if row < 0 || row >= len(grid) || col < 0 || col >= len(grid[row]) {
		return
	}
	grid[row][col] = glyph
}

func gridLines(grid [][]rune) []string {
	lines := make([]string, len(grid))
	for i, row := range grid {
		lines[i] = strings.TrimRight(string(row), " ")
	}
	return lines
}

// RadarLegend lists the axis numbers with dimension names and values.
func RadarLegend(v schema.ScoreVector, dims schema.DimensionSet, precision int) []string {
	lines := make([]string, dims.Len())
	for i, d := range dims {
		lines[i] = fmt.Sprintf("%d %-28s %.*f", i+1, d.Name, precision, v.At(i))
	}
	return lines
}
