package cli

import "github.com/charmbracelet/lipgloss"

var (
	boldStyle   = lipgloss.NewStyle().Bold(true).Inline(true)
	greenStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Inline(true)
	yellowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Inline(true)
	redStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Inline(true)
)

func okMark(text string) string   { return greenStyle.Render("✓") + " " + text }
func failMark(text string) string { return redStyle.Render("✗") + " " + text }
