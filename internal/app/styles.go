package app

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Nightfox palette.
const (
	colorMuted   = "#738091"
	colorAccent  = "#719cd6"
	colorSuccess = "#81b29a"
	colorWarning = "#dbc074"
)

// styles are bound to one writer's renderer so colour is dropped when the
// writer is not a terminal.
type styles struct {
	Heading lipgloss.Style
	Muted   lipgloss.Style
	Accent  lipgloss.Style
	Price   lipgloss.Style
	Warning lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		Heading: r.NewStyle().Foreground(lipgloss.Color(colorAccent)).Bold(true),
		Muted:   r.NewStyle().Foreground(lipgloss.Color(colorMuted)),
		Accent:  r.NewStyle().Foreground(lipgloss.Color(colorAccent)),
		Price:   r.NewStyle().Foreground(lipgloss.Color(colorSuccess)).Bold(true),
		Warning: r.NewStyle().Foreground(lipgloss.Color(colorWarning)),
	}
}
