package tui

import (
	"github.com/huangsam/vmfs/core/drag"
	"github.com/huangsam/vmfs/core/geom"
	"github.com/huangsam/vmfs/internal/outwriter"
)

// Screen position of the radar canvas. The title and a blank line sit above it.
const (
	chartTop  = 2
	chartLeft = 0
)

var (
	_ drag.Surface  = &chartSurface{} // Compile-time check
	_ drag.Capturer = &pointerCapture{}
)

// chartSurface maps terminal cells to chart-local coordinates.
type chartSurface struct {
	canvas  *outwriter.RadarCanvas
	mounted func() bool
}

// Resolve converts a mouse cell into a chart point. It fails while no mechanism is shown.
func (s *chartSurface) Resolve(x, y float64) (geom.Point, geom.Radar, bool) {
	if s.canvas == nil || (s.mounted != nil && !s.mounted()) {
		return geom.Point{}, geom.Radar{}, false
	}
	p := s.canvas.CellToPoint(int(x)-chartLeft, int(y)-chartTop)
	return p, s.canvas.Radar(), true
}

// contains reports whether a mouse cell falls on the canvas.
func (s *chartSurface) contains(x, y int) bool {
	w, h := s.canvas.Size()
	col, row := x-chartLeft, y-chartTop
	return col >= 0 && col < w && row >= 0 && row < h
}

// pointerCapture routes motion outside the canvas to an active drag.
type pointerCapture struct {
	held bool
}

// Capture takes the pointer until the returned function is called.
func (pc *pointerCapture) Capture() func() {
	pc.held = true
	released := false
	return func() {
		if released {
			return
		}
		released = true
		pc.held = false
	}
}
