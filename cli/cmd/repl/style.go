package repl

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// styles are the lipgloss styles of the interactive front-end, bound to the
// renderer of its output.
type styles struct {
	prompt     lipgloss.Style
	ctrlPrompt lipgloss.Style
	input      lipgloss.Style
	result     lipgloss.Style
	err        lipgloss.Style
	hint       lipgloss.Style
	suggestion lipgloss.Style
	selected   lipgloss.Style
}

func newStyles(w io.Writer, color bool) styles {
	r := lipgloss.NewRenderer(w)
	if !color {
		r.SetColorProfile(termenv.Ascii)
	}

	fg := func(c string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(c))
	}

	return styles{
		prompt:     fg("6").Bold(true),
		ctrlPrompt: fg("5").Bold(true),
		input:      fg("15"),
		result:     fg("2"),
		err:        fg("1"),
		hint:       fg("8"),
		suggestion: fg("4"),
		selected:   fg("0").Background(lipgloss.Color("4")),
	}
}
