package tui

import (
	"regexp"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/huangsam/vmfs/core"
	"github.com/huangsam/vmfs/core/drag"
	"github.com/huangsam/vmfs/internal/contract"
	"github.com/huangsam/vmfs/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func testSession() *core.Session {
	c := &schema.Catalog{
		Dimensions: schema.DefaultDimensions(),
		Mechanisms: []schema.Mechanism{
			{ID: "a", Name: "Alpha", Scores: schema.ScoreVector{4, 4, 4, 4}},
			{ID: "b", Name: "Bravo", Scores: schema.ScoreVector{5, 3, 2, 2}},
			{ID: "c", Name: "Charlie", Scores: schema.ScoreVector{2, 2, 2, 2}},
		},
	}
	return core.NewSession(c, core.WithCapacity(2))
}

func newTestModel(t *testing.T) (*Model, *core.Session) {
	t.Helper()
	session := testSession()
	return New(session, &contract.Config{Precision: 1}), session
}

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func mouse(action tea.MouseAction, x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: action, Button: tea.MouseButtonLeft}
}

func selectedID(t *testing.T, s *core.Session) string {
	t.Helper()
	m, ok := s.Selected()
	require.True(t, ok)
	return m.ID
}

// Vertex 0 of a 4.0 score: center (7,7), radius 6, so y = 7 - 4.8 = 2.2 on canvas row 2, column 14.
const (
	vertexX = chartLeft + 14
	vertexY = chartTop + 2
)

func TestNewSelectsTopMechanism(t *testing.T) {
	m, session := newTestModel(t)
	assert.Equal(t, "a", selectedID(t, session))
	assert.Equal(t, 0, m.cursor)
	assert.Len(t, m.list, 3)
}

func TestKeyboardNavigationAndComparison(t *testing.T) {
	m, session := newTestModel(t)

	m.Update(key("down"))
	assert.Equal(t, "b", selectedID(t, session))

	m.Update(key(" "))
	assert.True(t, session.Comparison().Contains("b"))

	// Sorting by technical feasibility puts b first and the cursor follows it
	m.Update(key("s"))
	assert.Equal(t, "tf", m.sortKey())
	assert.Equal(t, "b", m.list[0].ID)
	assert.Equal(t, 0, m.cursor)

	// The Global South filter hides b but keeps it selected
	m.Update(key("g"))
	require.Len(t, m.list, 1)
	assert.Equal(t, "a", m.list[0].ID)
	assert.Equal(t, -1, m.cursor)
	assert.Equal(t, "b", selectedID(t, session))

	m.Update(key("g"))
	assert.Equal(t, 0, m.cursor)

	m.Update(key("c"))
	assert.Equal(t, 0, session.Comparison().Len())

	m.Update(key("up"))
	assert.Equal(t, "b", selectedID(t, session))
}

func TestComparisonFullStatus(t *testing.T) {
	m, session := newTestModel(t)
	m.Update(key(" "))
	m.Update(key("down"))
	m.Update(key(" "))
	m.Update(key("down"))
	m.Update(key(" "))

	assert.Equal(t, []string{"a", "b"}, session.Comparison().IDs())
	assert.Contains(t, m.status, "capacity 2")
}

func TestKeyboardEdits(t *testing.T) {
	m, session := newTestModel(t)

	m.Update(key("right"))
	m.Update(key("+"))
	m.Update(key("+"))
	assert.True(t, session.Edited())
	assert.InDelta(t, 4.2, session.CurrentScoreVector()[1], 1e-9)

	m.Update(key("-"))
	assert.InDelta(t, 4.1, session.CurrentScoreVector()[1], 1e-9)

	m.Update(key("r"))
	assert.False(t, session.Edited())
}

func TestMouseDragEditsScore(t *testing.T) {
	m, session := newTestModel(t)

	m.Update(mouse(tea.MouseActionMotion, vertexX, vertexY))
	state, i := m.ctrl.State()
	assert.Equal(t, drag.Hovering, state)
	assert.Equal(t, 0, i)

	m.Update(mouse(tea.MouseActionPress, vertexX, vertexY))
	state, _ = m.ctrl.State()
	require.Equal(t, drag.Dragging, state)
	assert.True(t, m.capture.held)

	// Canvas row 1 is the outer ring on axis 0
	m.Update(mouse(tea.MouseActionMotion, vertexX, chartTop+1))
	assert.Equal(t, 5.0, session.CurrentScoreVector()[0])

	m.Update(mouse(tea.MouseActionRelease, vertexX, chartTop+1))
	state, _ = m.ctrl.State()
	assert.Equal(t, drag.Idle, state)
	assert.False(t, m.capture.held)
	assert.True(t, session.Edited())
}

func TestMouseDragOutsideCanvasWhileCaptured(t *testing.T) {
	m, session := newTestModel(t)

	m.Update(mouse(tea.MouseActionPress, vertexX, vertexY))
	m.Update(mouse(tea.MouseActionMotion, vertexX, chartTop+60))

	// Far outside the chart clamps to the top score
	assert.Equal(t, 5.0, session.CurrentScoreVector()[0])
	state, _ := m.ctrl.State()
	assert.Equal(t, drag.Dragging, state)
}

func TestMouseLeaveEndsHover(t *testing.T) {
	m, _ := newTestModel(t)

	m.Update(mouse(tea.MouseActionMotion, vertexX, vertexY))
	m.Update(mouse(tea.MouseActionMotion, 200, 0))
	state, _ := m.ctrl.State()
	assert.Equal(t, drag.Idle, state)
}

func TestSelectionSwitchEndsDrag(t *testing.T) {
	m, session := newTestModel(t)

	m.Update(mouse(tea.MouseActionPress, vertexX, vertexY))
	m.Update(mouse(tea.MouseActionMotion, vertexX, chartTop+1))
	m.Update(key("down"))

	state, _ := m.ctrl.State()
	assert.Equal(t, drag.Idle, state)
	assert.False(t, m.capture.held)
	assert.Equal(t, "b", selectedID(t, session))
	assert.False(t, session.Edited())
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t)
	m.Update(mouse(tea.MouseActionPress, vertexX, vertexY))

	_, cmd := m.Update(key("q"))
	assert.NotNil(t, cmd)
	assert.False(t, m.capture.held)
	assert.Empty(t, m.View())
}

func TestViewLayout(t *testing.T) {
	m, _ := newTestModel(t)
	m.Update(key(" "))

	view := ansi.ReplaceAllString(m.View(), "")
	assert.Contains(t, view, "VMFS Explorer")
	assert.Contains(t, view, "sort: average")
	assert.Contains(t, view, "Alpha")
	assert.Contains(t, view, "Average: 4.0 High")
	assert.Contains(t, view, "Compare")

	// The rendered vertex sits where the mouse mapping expects it
	lines := strings.Split(view, "\n")
	require.Greater(t, len(lines), vertexY)
	row := []rune(lines[vertexY])
	require.Greater(t, len(row), vertexX)
	assert.Equal(t, '●', row[vertexX])
}

func TestViewEmptyList(t *testing.T) {
	session := core.NewSession(&schema.Catalog{
		Dimensions: schema.DefaultDimensions(),
		Mechanisms: []schema.Mechanism{{ID: "x", Name: "Low", Scores: schema.ScoreVector{1, 1, 1, 1}}},
	})
	m := New(session, &contract.Config{Precision: 1, MinAverage: 3})

	view := ansi.ReplaceAllString(m.View(), "")
	assert.Contains(t, view, "No mechanisms match the filters")
	assert.Contains(t, view, "No mechanism selected")

	// Keys and pointer events are harmless without a selection
	m.Update(key("down"))
	m.Update(key(" "))
	m.Update(key("+"))
	m.Update(mouse(tea.MouseActionPress, vertexX, vertexY))
	state, _ := m.ctrl.State()
	assert.Equal(t, drag.Idle, state)
}

func TestPointerCaptureReleaseOnce(t *testing.T) {
	pc := &pointerCapture{}
	release := pc.Capture()
	assert.True(t, pc.held)
	release()
	assert.False(t, pc.held)

	release2 := pc.Capture()
	release() // Stale release must not drop the new capture
	assert.True(t, pc.held)
	release2()
	assert.False(t, pc.held)
}

func TestNewFollowsConfiguredSortAndFilter(t *testing.T) {
	session := testSession()
	m := New(session, &contract.Config{Precision: 1, SortKey: "tf", FilterDim: "gsa", FilterMin: 3.5})

	assert.Equal(t, "tf", m.sortKey())
	assert.Equal(t, 3, m.filterDim)
	require.Len(t, m.list, 1)
	assert.Equal(t, "a", m.list[0].ID)
}

func TestNewAppliesAnyDimensionFilter(t *testing.T) {
	session := testSession()
	m := New(session, &contract.Config{Precision: 1, FilterDim: "technical_feasibility", FilterMin: 4.5})

	require.Len(t, m.list, 1)
	assert.Equal(t, "b", m.list[0].ID)
	assert.Contains(t, ansi.ReplaceAllString(m.View(), ""), "filter: average >= 0.0, tf >= 4.5")

	// The Global South key swaps the filter and then clears it
	m.Update(key("g"))
	require.Len(t, m.list, 1)
	assert.Equal(t, "a", m.list[0].ID)
	assert.Contains(t, ansi.ReplaceAllString(m.View(), ""), "gsa >= 3.5")

	m.Update(key("g"))
	assert.Equal(t, -1, m.filterDim)
	assert.Len(t, m.list, 3)
}

func TestNewHonorsConfiguredGlobalSouthThreshold(t *testing.T) {
	session := testSession()
	m := New(session, &contract.Config{Precision: 1, FilterDim: "gsa", FilterMin: 2})

	assert.Len(t, m.list, 3)
}
