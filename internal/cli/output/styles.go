package output

import "github.com/charmbracelet/lipgloss"

// Styles is the palette used for text output.
type Styles struct {
	Header1   lipgloss.Style
	Header2   lipgloss.Style
	Bold      lipgloss.Style
	Muted     lipgloss.Style
	Success   lipgloss.Style
	Error     lipgloss.Style
	Warning   lipgloss.Style
	Info      lipgloss.Style
	ModelPath lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) *Styles {
	return &Styles{
		Header1:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Header2:   r.NewStyle().Bold(true).Underline(true),
		Bold:      r.NewStyle().Bold(true),
		Muted:     r.NewStyle().Foreground(lipgloss.Color("8")),
		Success:   r.NewStyle().Foreground(lipgloss.Color("10")),
		Error:     r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Warning:   r.NewStyle().Foreground(lipgloss.Color("11")),
		Info:      r.NewStyle().Foreground(lipgloss.Color("14")),
		ModelPath: r.NewStyle().Foreground(lipgloss.Color("13")).Bold(true),
	}
}
