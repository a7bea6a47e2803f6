// Package styles defines the visual styling for console output.
package styles

import "github.com/charmbracelet/lipgloss"

// Color definitions.
var (
	Secondary = lipgloss.Color("63")  // Purple
	Subtle    = lipgloss.Color("240") // Gray

	Success = lipgloss.Color("42")  // Green
	Error   = lipgloss.Color("196") // Red

	TextPrimary = lipgloss.Color("252")
	TextMuted   = lipgloss.Color("240")
)

// Styles is a set of styles bound to one renderer, so colour decisions
// follow the writer the output goes to rather than the process stdout.
type Styles struct {
	TableBorder lipgloss.Style
	TableHeader lipgloss.Style
	TableCell   lipgloss.Style
	TableNumber lipgloss.Style
	Help        lipgloss.Style
	Highlight   lipgloss.Style
	Error       lipgloss.Style
}

// New builds the style set for r. A nil renderer uses the default renderer.
func New(r *lipgloss.Renderer) Styles {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return Styles{
		TableBorder: r.NewStyle().
			Foreground(Subtle),
		TableHeader: r.NewStyle().
			Bold(true).
			Foreground(Secondary).
			Padding(0, 1),
		TableCell: r.NewStyle().
			Foreground(TextPrimary).
			Padding(0, 1),
		TableNumber: r.NewStyle().
			Foreground(TextPrimary).
			Padding(0, 1).
			Align(lipgloss.Right),
		Help: r.NewStyle().
			Foreground(TextMuted),
		Highlight: r.NewStyle().
			Bold(true).
			Foreground(Success),
		Error: r.NewStyle().
			Bold(true).
			Foreground(Error),
	}
}
