package status

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title   lipgloss.Style
	online  lipgloss.Style
	offline lipgloss.Style
	key     lipgloss.Style
	value   lipgloss.Style
	badge   lipgloss.Style
	warning lipgloss.Style
	faint   lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:   lipgloss.NewStyle().Bold(true),
		online:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		offline: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		key:     lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		value:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		badge:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		warning: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		faint:   lipgloss.NewStyle().Faint(true),
	}
}
