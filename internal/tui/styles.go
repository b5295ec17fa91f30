package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/huangsam/vmfs/internal/contract"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	subtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	chartStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("75"))

	nameStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	cursorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229"))

	editedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	bestStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42"))

	panelStyle = lipgloss.NewStyle().
			PaddingLeft(3)
)

// bandColors matches the colors of the table labels.
var bandColors = map[string]lipgloss.Color{
	contract.VeryHighValue: lipgloss.Color("36"),
	contract.HighValue:     lipgloss.Color("33"),
	contract.ModerateValue: lipgloss.Color("250"),
	contract.LowValue:      lipgloss.Color("214"),
	contract.VeryLowValue:  lipgloss.Color("160"),
}

// bandLabel renders the band label of a score in its color.
func bandLabel(score float64) string {
	label := contract.GetPlainLabel(score)
	return lipgloss.NewStyle().Foreground(bandColors[label]).Render(label)
}
