package interactive

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	name    lipgloss.Style
	address lipgloss.Style
	value   lipgloss.Style
	reading lipgloss.Style
	state   lipgloss.Style
	err     lipgloss.Style
	dim     lipgloss.Style
}

// newStyles creates styles for w. Colours are dropped when w is not a
// terminal.
func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		name:    r.NewStyle().Bold(true),
		address: r.NewStyle().Foreground(lipgloss.ANSIColor(6)),
		value:   r.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(3)),
		reading: r.NewStyle().Foreground(lipgloss.ANSIColor(2)),
		state:   r.NewStyle().Foreground(lipgloss.ANSIColor(4)),
		err:     r.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(7)).Background(lipgloss.ANSIColor(1)),
		dim:     r.NewStyle().Faint(true),
	}
}
