package dashboard

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title    lipgloss.Style
	header   lipgloss.Style
	cardKey  lipgloss.Style
	cardVal  lipgloss.Style
	section  lipgloss.Style
	barLabel lipgloss.Style
	barFill  lipgloss.Style
	barEmpty lipgloss.Style
	amount   lipgloss.Style
	faint    lipgloss.Style
	empty    lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true),
		header:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		cardKey:  lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		cardVal:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		section:  lipgloss.NewStyle().MarginTop(1),
		barLabel: lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		barFill:  lipgloss.NewStyle().Foreground(lipgloss.Color("159")),
		barEmpty: lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		amount:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		faint:    lipgloss.NewStyle().Faint(true),
		empty:    lipgloss.NewStyle().Faint(true),
	}
}
