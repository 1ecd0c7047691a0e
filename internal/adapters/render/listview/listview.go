// Package listview renders filtered collections as fixed-width tables
// with the shared pagination footer.
package listview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/invoicedesk/invoicectl/internal/application"
	"github.com/invoicedesk/invoicectl/internal/domain"
)

type styles struct {
	header lipgloss.Style
	row    lipgloss.Style
	badge  map[domain.StockLevel]lipgloss.Style
	role   lipgloss.Style
	footer lipgloss.Style
	arrow  lipgloss.Style
	dimmed lipgloss.Style
	empty  lipgloss.Style
}

func newStyles() styles {
	return styles{
		header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("250")),
		row:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		badge: map[domain.StockLevel]lipgloss.Style{
			domain.StockLevelIn:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
			domain.StockLevelLow: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
			domain.StockLevelOut: lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		},
		role:   lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		footer: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		arrow:  lipgloss.NewStyle().Bold(true),
		dimmed: lipgloss.NewStyle().Faint(true),
		empty:  lipgloss.NewStyle().Faint(true),
	}
}

func Products(view application.View[domain.Product]) string {
	s := newStyles()
	lines := []string{s.header.Render(fmt.Sprintf("%-28s %12s %6s %7s  %s", "NAME", "PRICE", "GST", "STOCK", "LEVEL"))}

	items := view.PageItems()
	if len(items) == 0 {
		lines = append(lines, s.empty.Render("No products match."))
	}
	for _, p := range items {
		badge := s.badge[p.StockLevel()]
		lines = append(lines, s.row.Render(fmt.Sprintf("%-28s %12s %5.0f%% %7d  ",
			truncate(p.Name, 28),
			domain.FormatAmount(p.Price),
			p.GSTRate,
			p.Stock,
		))+badge.Render(string(p.StockLevel())))
	}

	lines = append(lines, footer(s, view.Total(), view.Page(), view.TotalPages(), view.HasPrev(), view.HasNext(), rangeOf(view)))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func Users(view application.View[domain.User], stats domain.UserStats) string {
	s := newStyles()
	lines := []string{
		s.footer.Render(fmt.Sprintf("total: %d, active: %d, admins: %d, new this month: %d",
			stats.TotalUsers, stats.ActiveUsers, stats.AdminUsers, stats.NewUsers)),
		s.header.Render(fmt.Sprintf("%4s %-4s %-22s %-18s %-12s %-8s", "ID", "", "NAME", "EMAIL", "ROLE", "STATUS")),
	}

	items := view.PageItems()
	if len(items) == 0 {
		lines = append(lines, s.empty.Render("No users match."))
	}
	for _, u := range items {
		lines = append(lines, s.row.Render(fmt.Sprintf("%4d %-4s %-22s %-18s ",
			u.ID,
			"["+u.Initials()+"]",
			truncate(u.DisplayName(), 22),
			truncate(u.Email, 18),
		))+s.role.Render(fmt.Sprintf("%-12s", u.Role.Label()))+s.row.Render(fmt.Sprintf(" %-8s", u.Status)))
	}

	lines = append(lines, footer(s, view.Total(), view.Page(), view.TotalPages(), view.HasPrev(), view.HasNext(), rangeOf(view)))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func Chats(view application.View[domain.ChatSummary], current domain.ChatID) string {
	s := newStyles()
	lines := []string{s.header.Render(fmt.Sprintf("%-14s %-36s %8s  %s", "ID", "TITLE", "MESSAGES", "UPDATED"))}

	items := view.PageItems()
	if len(items) == 0 {
		lines = append(lines, s.empty.Render("No chats match."))
	}
	for _, c := range items {
		marker := "  "
		if c.ChatID == current && current != "" {
			marker = s.arrow.Render("> ")
		}
		lines = append(lines, marker+s.row.Render(fmt.Sprintf("%-14s %-36s %8d  ",
			c.ChatID,
			truncate(c.Title, 36),
			c.MessageCount,
		))+s.dimmed.Render(c.UpdatedAt))
	}

	lines = append(lines, footer(s, view.Total(), view.Page(), view.TotalPages(), view.HasPrev(), view.HasNext(), rangeOf(view)))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

type pageRange struct{ first, last int }

func rangeOf[T any](v application.View[T]) pageRange {
	f, l := v.Range()
	return pageRange{f, l}
}

func footer(s styles, total, page, pages int, hasPrev, hasNext bool, r pageRange) string {
	prev := s.dimmed.Render("‹ prev")
	if hasPrev {
		prev = s.arrow.Render("‹ prev")
	}
	next := s.dimmed.Render("next ›")
	if hasNext {
		next = s.arrow.Render("next ›")
	}

	showing := "Showing 0 of 0"
	if total > 0 {
		showing = fmt.Sprintf("Showing %d-%d of %d", r.first, r.last, total)
	}

	return s.footer.Render(strings.Join([]string{
		showing,
		fmt.Sprintf("page %d/%d", page, pages),
	}, ", ")) + "  " + prev + " " + next
}

// truncate shortens to max characters, counting runes so multi-byte
// names are never cut mid-character.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 1 {
		return string(runes[:max])
	}
	return string(runes[:max-1]) + "…"
}
