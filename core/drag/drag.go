// Package drag turns pointer events on a radar chart into score edits.
//
// The controller is an explicit Idle / Hovering(i) / Dragging(i) state machine.
// It owns at most one pointer capture at a time and releases it on every exit path.
package drag

import (
	"fmt"

	"github.com/huangsam/vmfs/core/geom"
	"github.com/huangsam/vmfs/schema"
)

// DefaultHitRadius is the vertex hit disc radius in chart units.
// It is larger than the rendered point to ease targeting.
const DefaultHitRadius = 12.0

// State is the controller state.
type State int

// All controller states.
const (
	Idle State = iota
	Hovering
	Dragging
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Hovering:
		return "hovering"
	case Dragging:
		return "dragging"
	default:
		return "idle"
	}
}

// Surface resolves raw pointer coordinates into chart-local ones.
// ok is false when the chart is not mounted or has no size.
type Surface interface {
	Resolve(x, y float64) (p geom.Point, radar geom.Radar, ok bool)
}

// Target receives score edits for the selected mechanism.
type Target interface {
	CurrentScoreVector() schema.ScoreVector
	SetScore(dim int, value float64)
}

// Capturer grants pointer capture so a drag keeps receiving moves outside the hit disc.
// The returned release function must be safe to call once.
type Capturer interface {
	Capture() (release func())
}

// Option configures a Controller.
type Option func(*Controller)

// WithHitRadius overrides the vertex hit radius.
func WithHitRadius(r float64) Option {
	return func(c *Controller) {
		if r > 0 {
			c.hitRadius = r
		}
	}
}

// WithCapturer sets the pointer capture provider.
func WithCapturer(capt Capturer) Option {
	return func(c *Controller) {
		c.capturer = capt
	}
}

// Controller drives one radar chart.
type Controller struct {
	surface   Surface
	target    Target
	capturer  Capturer
	hitRadius float64

	state   State
	index   int
	release func()
}

// NewController creates an idle controller bound to a surface and a target.
func NewController(surface Surface, target Target, opts ...Option) *Controller {
	c := &Controller{
		surface:   surface,
		target:    target,
		hitRadius: DefaultHitRadius,
		index:     -1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current state and the active dimension index (-1 when idle).
func (c *Controller) State() (State, int) {
	return c.state, c.index
}

// Captured reports whether the controller currently holds the pointer capture.
func (c *Controller) Captured() bool {
	return c.release != nil
}

// String describes the state for status lines.
func (c *Controller) String() string {
	if c.state == Idle {
		return c.state.String()
	}
	return fmt.Sprintf("%s(%d)", c.state, c.index)
}

// PointerMove handles a pointer move and reports whether anything changed.
// While dragging, the value is recomputed from the absolute pointer position.
func (c *Controller) PointerMove(x, y float64) bool {
	p, radar, ok := c.resolve(x, y)
	if !ok {
		return false
	}
	if c.state == Dragging {
		value, ok := radar.FromPointer(p)
		if !ok {
			return false
		}
		c.target.SetScore(c.index, value)
		return true
	}
	return c.hover(radar.HitTest(c.target.CurrentScoreVector(), p, c.hitRadius))
}

// PointerDown starts a drag when the pointer is over a vertex.
// A second pointer-down during an active drag is ignored.
func (c *Controller) PointerDown(x, y float64) bool {
	if c.state == Dragging {
		return false
	}
	p, radar, ok := c.resolve(x, y)
	if !ok {
		return false
	}
	c.hover(radar.HitTest(c.target.CurrentScoreVector(), p, c.hitRadius))
	if c.state != Hovering {
		return false
	}
	c.state = Dragging
	c.acquire()
	return true
}

// PointerUp ends an active drag. The last computed value stands.
func (c *Controller) PointerUp() bool {
	if c.state != Dragging {
		return false
	}
	c.toIdle()
	return true
}

// PointerLeave ends hovering. An active drag is unaffected since the capture keeps it alive.
func (c *Controller) PointerLeave() bool {
	if c.state != Hovering {
		return false
	}
	c.toIdle()
	return true
}

// Close returns to idle and releases any held capture.
// Call it when the chart is torn down or the selection changes.
func (c *Controller) Close() {
	c.toIdle()
}

func (c *Controller) resolve(x, y float64) (geom.Point, geom.Radar, bool) {
	if c.surface == nil || c.target == nil {
		return geom.Point{}, geom.Radar{}, false
	}
	p, radar, ok := c.surface.Resolve(x, y)
	if !ok || !radar.Valid() {
		return geom.Point{}, geom.Radar{}, false
	}
	return p, radar, true
}

// hover moves between Idle and Hovering based on a hit test result.
func (c *Controller) hover(hit int) bool {
	if hit < 0 {
		if c.state == Idle {
			return false
		}
		c.toIdle()
		return true
	}
	if c.state == Hovering && c.index == hit {
		return false
	}
	c.state, c.index = Hovering, hit
	return true
}

func (c *Controller) acquire() {
	if c.capturer == nil {
		c.release = func() {}
		return
	}
	if release := c.capturer.Capture(); release != nil {
		c.release = release
		return
	}
	c.release = func() {}
}

func (c *Controller) toIdle() {
	if c.release != nil {
		release := c.release
		c.release = nil
		release()
	}
	c.state, c.index = Idle, -1
}
