// Package tui is the interactive terminal explorer: a mechanism list, a draggable radar
// chart of the selection and the comparison panel.
//
// The model is driven by the bubbletea event loop and is not safe for concurrent use.
package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/huangsam/vmfs/core"
	"github.com/huangsam/vmfs/core/algo"
	"github.com/huangsam/vmfs/core/drag"
	"github.com/huangsam/vmfs/internal/contract"
	"github.com/huangsam/vmfs/internal/outwriter"
	"github.com/huangsam/vmfs/schema"
)

const (
	chartRadius = 6   // Radar radius in rows
	hitRadius   = 1.2 // Vertex hit disc in chart units (rows)
	nudgeStep   = 0.1 // Keyboard edit step
)

// Model is the bubbletea model of the explorer.
type Model struct {
	session *core.Session
	ctrl    *drag.Controller
	canvas  *outwriter.RadarCanvas
	surface *chartSurface
	capture *pointerCapture

	precision  int
	minAverage float64
	sortKeys   []string
	sortIdx    int
	filterDim  int // -1 when no dimension filter is active
	filterMin  float64

	list   []schema.Mechanism
	cursor int
	focus  int // Dimension edited by the keyboard
	status string

	quitting bool
}

// New builds an explorer over the session and selects the top mechanism when nothing is selected.
// The initial sort and the dimension filter follow cfg.
func New(session *core.Session, cfg *contract.Config) *Model {
	dims := session.Catalog().Dimensions
	m := &Model{
		session:    session,
		canvas:     outwriter.NewRadarCanvas(chartRadius, dims.Len()),
		capture:    &pointerCapture{},
		precision:  max(cfg.Precision, 1),
		minAverage: cfg.MinAverage,
		sortKeys:   []string{string(schema.AverageSort)},
		filterDim:  -1,
	}
	for _, d := range dims {
		key := d.Alias
		if key == "" {
			key = string(d.Key)
		}
		m.sortKeys = append(m.sortKeys, key)
	}
	if i, ok := dims.Resolve(cfg.SortKey); ok {
		m.sortIdx = i + 1
	}
	if j, ok := dims.Resolve(cfg.FilterDim); ok {
		m.filterDim, m.filterMin = j, cfg.FilterMin
	}
	m.surface = &chartSurface{canvas: m.canvas, mounted: m.hasSelection}
	m.ctrl = drag.NewController(m.surface, session, drag.WithHitRadius(hitRadius), drag.WithCapturer(m.capture))
	session.OnSwitch(m.ctrl.Close)

	m.refresh()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	}
	return m, nil
}

// handleKey dispatches keyboard commands.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		m.ctrl.Close()
		m.quitting = true
		return m, tea.Quit
	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case "left", "h":
		m.moveFocus(-1)
	case "right", "l":
		m.moveFocus(1)
	case "+", "=":
		m.nudge(nudgeStep)
	case "-", "_":
		m.nudge(-nudgeStep)
	case " ":
		m.toggleComparison()
	case "c":
		m.session.ClearComparison()
	case "r":
		m.session.Reset()
	case "s":
		m.sortIdx = (m.sortIdx + 1) % len(m.sortKeys)
		m.refresh()
	case "g":
		m.toggleGlobalSouth()
		m.refresh()
	}
	return m, nil
}

// handleMouse feeds pointer events to the drag controller.
// Motion off the canvas only reaches the controller while it holds the capture.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	x, y := float64(msg.X), float64(msg.Y)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.ctrl.PointerDown(x, y)
		}
	case tea.MouseActionRelease:
		m.ctrl.PointerUp()
	case tea.MouseActionMotion:
		if m.capture.held || m.surface.contains(msg.X, msg.Y) {
			m.ctrl.PointerMove(x, y)
		} else {
			m.ctrl.PointerLeave()
		}
	}
}

// hasSelection reports whether a mechanism is shown on the chart.
func (m *Model) hasSelection() bool {
	_, ok := m.session.Selected()
	return ok
}

// sortKey returns the active ranking criterion.
func (m *Model) sortKey() string {
	return m.sortKeys[m.sortIdx]
}

// refresh recomputes the list and keeps the cursor on the selection when it is still listed.
// The top entry is selected only when nothing is selected yet.
func (m *Model) refresh() {
	list, err := m.session.RankedFilteredList(m.sortKey(), m.minAverage)
	if err != nil {
		m.status = err.Error()
		return
	}
	if m.filterDim >= 0 {
		list = algo.FilterDimension(list, m.filterDim, m.filterMin)
	}
	m.list = list

	// A selection hidden by the filters stays selected; the cursor then points nowhere
	m.cursor = -1
	sel, ok := m.session.Selected()
	if !ok {
		if len(m.list) > 0 {
			m.cursor = 0
			_ = m.session.Select(m.list[0].ID)
		}
		return
	}
	for i, mech := range m.list {
		if mech.ID == sel.ID {
			m.cursor = i
			return
		}
	}
}

// toggleGlobalSouth clears an active Global South filter or replaces any other
// dimension filter with Global South adoptability at the default threshold.
func (m *Model) toggleGlobalSouth() {
	gsa, ok := m.session.Catalog().Dimensions.Resolve(string(schema.GlobalSouthAdoptability))
	if !ok {
		return
	}
	if m.filterDim == gsa {
		m.filterDim = -1
		return
	}
	m.filterDim, m.filterMin = gsa, schema.DefaultGlobalSouthThreshold
}

// moveCursor walks the list and selects the mechanism under the cursor.
func (m *Model) moveCursor(delta int) {
	if len(m.list) == 0 {
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), len(m.list)-1)
	_ = m.session.Select(m.list[m.cursor].ID)
}

// moveFocus changes the dimension edited from the keyboard.
func (m *Model) moveFocus(delta int) {
	d := m.session.Catalog().Dimensions.Len()
	if d == 0 {
		return
	}
	m.focus = (m.focus + delta + d) % d
}

// nudge edits the focused dimension by a fixed step.
func (m *Model) nudge(step float64) {
	v := m.session.CurrentScoreVector()
	if v == nil {
		return
	}
	m.session.SetScore(m.focus, v.At(m.focus)+step)
}

// toggleComparison adds or removes the mechanism under the cursor.
func (m *Model) toggleComparison() {
	if m.cursor < 0 || m.cursor >= len(m.list) {
		return
	}
	id := m.list[m.cursor].ID
	if added, err := m.session.Toggle(id); err != nil {
		m.status = err.Error()
	} else if !added {
		m.status = fmt.Sprintf("Comparison set is full (capacity %d)", m.session.Comparison().Capacity())
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	filter := fmt.Sprintf("average >= %.1f", m.minAverage)
	if m.filterDim >= 0 {
		filter += fmt.Sprintf(", %s >= %.1f", m.sortKeys[m.filterDim+1], m.filterMin)
	}
	header := titleStyle.Render("VMFS Explorer") + "  " + subtleStyle.Render(fmt.Sprintf("sort: %s | filter: %s", m.sortKey(), filter))

	// The chart must start exactly at chartTop
	sections := []string{
		header,
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, m.viewChart(), panelStyle.Render(m.viewSelection())),
		"",
		m.viewList(),
	}
	if cmp := m.viewComparison(); cmp != "" {
		sections = append(sections, "", cmp)
	}
	if m.status != "" {
		sections = append(sections, "", editedStyle.Render(m.status))
	}
	sections = append(sections, "", subtleStyle.Render("↑/↓ select  ←/→ dimension  +/- edit  drag vertex  space compare  c clear  r reset  s sort  g global south  q quit"))
	return strings.Join(sections, "\n")
}

// viewChart renders the radar of the current vector with the active vertex highlighted.
func (m *Model) viewChart() string {
	hover := -1
	if state, i := m.ctrl.State(); state != drag.Idle {
		hover = i
	}
	return chartStyle.Render(strings.Join(m.canvas.Render(m.session.CurrentScoreVector(), hover), "\n"))
}

// viewSelection renders the legend, average and drag state of the selection.
func (m *Model) viewSelection() string {
	sel, ok := m.session.Selected()
	if !ok {
		return subtleStyle.Render("No mechanism selected")
	}
	title := nameStyle.Render(sel.Name)
	if m.session.Edited() {
		title += " " + editedStyle.Render("(edited)")
	}
	lines := []string{title, ""}

	v := m.session.CurrentScoreVector()
	for i, line := range outwriter.RadarLegend(v, m.session.Catalog().Dimensions, m.precision) {
		if i == m.focus {
			lines = append(lines, cursorStyle.Render("> "+line))
		} else {
			lines = append(lines, "  "+line)
		}
	}
	avg := m.session.DerivedAverage()
	lines = append(lines, "",
		fmt.Sprintf("Average: %.*f %s", m.precision, avg, bandLabel(avg)),
		subtleStyle.Render("Drag: "+m.ctrl.String()),
	)
	return strings.Join(lines, "\n")
}

// viewList renders the ranked and filtered mechanisms.
func (m *Model) viewList() string {
	if len(m.list) == 0 {
		return subtleStyle.Render("No mechanisms match the filters")
	}
	criterion, err := algo.ResolveSortKey(m.session.Catalog().Dimensions, m.sortKey(), m.session.Weights())
	if err != nil {
		return err.Error()
	}
	lines := make([]string, len(m.list))
	for i, mech := range m.list {
		marker := "  "
		if m.session.Comparison().Contains(mech.ID) {
			marker = "● "
		}
		line := fmt.Sprintf("%s%2d. %-32s %.*f", marker, i+1, contract.TruncateText(mech.Name, 32), m.precision, criterion.Value(mech.Scores))
		if i == m.cursor {
			line = cursorStyle.Render(line)
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

// viewComparison renders the comparison rows with the best value per row highlighted.
func (m *Model) viewComparison() string {
	result := m.session.ComparisonResult()
	if len(result.Members) == 0 {
		return ""
	}
	c := m.session.Catalog()
	header := fmt.Sprintf("%-26s", "Compare")
	for _, id := range result.Members {
		name := id
		if mech, ok := c.Mechanism(id); ok {
			name = mech.DisplayName()
		}
		header += fmt.Sprintf(" %12s", contract.TruncateText(name, 12))
	}
	lines := []string{titleStyle.Render(header)}

	row := func(name string, cells []schema.ComparisonCell) string {
		line := fmt.Sprintf("%-26s", contract.TruncateText(name, 26))
		for _, cell := range cells {
			value := fmt.Sprintf(" %12.*f", m.precision, cell.Value)
			if cell.IsMax {
				value = bestStyle.Render(value)
			}
			line += value
		}
		return line
	}
	for _, r := range result.Rows {
		lines = append(lines, row(r.Name, r.Cells))
	}
	lines = append(lines, row("Average", result.Averages))
	return strings.Join(lines, "\n")
}

// Run starts the explorer on the terminal and blocks until the user quits.
func Run(ctx context.Context, session *core.Session, cfg *contract.Config) error {
	p := tea.NewProgram(New(session, cfg),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	return err
}

// Execute opens a session from the configuration and runs the explorer.
// It serves as the main entry point for the 'explore' command.
func Execute(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	session, err := core.OpenSession(cfg, mgr)
	if err != nil {
		return err
	}
	return Run(ctx, session, cfg)
}
