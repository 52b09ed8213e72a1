package dashboard

import "github.com/charmbracelet/lipgloss"

type styles struct {
	base     lipgloss.Style
	title    lipgloss.Style
	section  lipgloss.Style
	value    lipgloss.Style
	hint     lipgloss.Style
	warning  lipgloss.Style
	liveDot  lipgloss.Style
	scoreBar lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		base: lipgloss.NewStyle().Padding(1, 2),
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("63")).
			Padding(0, 1),
		section: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			MarginTop(1),
		value: lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")),
		hint: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")),
		liveDot: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")),
		scoreBar: lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")),
	}
}
