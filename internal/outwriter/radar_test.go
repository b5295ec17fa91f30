package outwriter

import (
	"testing"

	"github.com/huangsam/vmfs/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runeAt(lines []string, col, row int) rune {
	r := []rune(lines[row])
	if col >= len(r) {
		return ' '
	}
	return r[col]
}

func TestRadarCanvasSize(t *testing.T) {
	rc := NewRadarCanvas(3, 4)
	w, h := rc.Size()
	assert.Equal(t, 17, w)
	assert.Equal(t, 9, h)

	// Minimum radius applies
	w, h = NewRadarCanvas(1, 4).Size()
	assert.Equal(t, 17, w)
	assert.Equal(t, 9, h)
}

func TestRadarCanvasRender(t *testing.T) {
	rc := NewRadarCanvas(3, 4)
	lines := rc.Render(schema.ScoreVector{5, 5, 5, 5}, -1)
	require.Len(t, lines, 9)

	assert.Equal(t, glyphCenter, runeAt(lines, 8, 4))
	assert.Equal(t, glyphVertex, runeAt(lines, 8, 1))  // Top
	assert.Equal(t, glyphVertex, runeAt(lines, 14, 4)) // Right
	assert.Equal(t, glyphVertex, runeAt(lines, 8, 7))  // Bottom
	assert.Equal(t, glyphVertex, runeAt(lines, 2, 4))  // Left
	assert.Equal(t, '1', runeAt(lines, 8, 0))
}

func TestRadarCanvasHover(t *testing.T) {
	rc := NewRadarCanvas(3, 4)
	lines := rc.Render(schema.ScoreVector{5, 5, 5, 5}, 1)
	assert.Equal(t, glyphHover, runeAt(lines, 14, 4))
	assert.Equal(t, glyphVertex, runeAt(lines, 8, 1))
}

func TestRadarCanvasEmptyVector(t *testing.T) {
	lines := NewRadarCanvas(3, 4).Render(nil, -1)
	for _, line := range lines {
		assert.NotContains(t, line, string(glyphVertex))
	}
}

func TestRadarCanvasNoDimensions(t *testing.T) {
	lines := NewRadarCanvas(3, 0).Render(schema.ScoreVector{5}, -1)
	for _, line := range lines {
		assert.Empty(t, line)
	}
}

func TestRadarCanvasCellToPoint(t *testing.T) {
	rc := NewRadarCanvas(3, 4)
	p := rc.CellToPoint(8, 1)
	radar := rc.Radar()

	value, ok := radar.FromPointer(p)
	require.True(t, ok)
	assert.Equal(t, 5.0, value)
	assert.Equal(t, 0, radar.HitTest(schema.ScoreVector{5, 5, 5, 5}, p, 0.5))
}

func TestRadarLegend(t *testing.T) {
	lines := RadarLegend(schema.ScoreVector{4, 3.5, 2, 1}, schema.DefaultDimensions(), 1)
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "1 Technical Feasibility")
	assert.Contains(t, lines[1], "3.5")
}
