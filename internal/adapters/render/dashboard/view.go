package dashboard

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/invoicedesk/invoicectl/internal/domain"
)

const chartWidth = 30

type RenderOptions struct {
	Now time.Time
	// RefreshIn, when positive, tells watch mode viewers when the next
	// refresh lands.
	RefreshIn time.Duration
}

func renderView(metrics domain.DashboardMetrics, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Admin Dashboard"),
		renderCards(metrics, s),
	}

	if chart := renderRevenueChart(metrics, s); chart != "" {
		lines = append(lines, s.section.Render(chart))
	}
	if recent := renderRecentInvoices(metrics.RecentInvoices, s); recent != "" {
		lines = append(lines, s.section.Render(recent))
	}

	if !opts.Now.IsZero() {
		footer := "as of " + opts.Now.Format("15:04:05")
		if opts.RefreshIn > 0 {
			footer += fmt.Sprintf(", next refresh in %s", opts.RefreshIn.Round(time.Second))
		}
		lines = append(lines, s.faint.Render(footer))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderCards(metrics domain.DashboardMetrics, s styles) string {
	cards := []string{
		card(s, "invoices", fmt.Sprintf("%d", metrics.TotalInvoices)),
		card(s, "revenue", domain.FormatAmount(metrics.TotalRevenue)),
		card(s, "active users", fmt.Sprintf("%d", metrics.ActiveUsers)),
		card(s, "products sold", fmt.Sprintf("%d", metrics.ProductsSold)),
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, strings.Join(cards, "   "))
}

func card(s styles, key, value string) string {
	return s.cardKey.Render(key+":") + " " + s.cardVal.Render(value)
}

// renderRevenueChart draws one horizontal bar per label, scaled to the
// largest month.
func renderRevenueChart(metrics domain.DashboardMetrics, s styles) string {
	if len(metrics.RevenueData) == 0 || len(metrics.RevenueData) != len(metrics.Labels) {
		return ""
	}

	peak := 0.0
	for _, v := range metrics.RevenueData {
		if v > peak {
			peak = v
		}
	}

	lines := []string{s.header.Render("revenue by month")}
	for i, label := range metrics.Labels {
		value := metrics.RevenueData[i]
		filled := 0
		if peak > 0 {
			filled = int(math.Round(chartWidth * value / peak))
		}
		if filled > chartWidth {
			filled = chartWidth
		}
		bar := s.barFill.Render(strings.Repeat("█", filled)) +
			s.barEmpty.Render(strings.Repeat("░", chartWidth-filled))
		lines = append(lines, lipgloss.JoinHorizontal(
			lipgloss.Top,
			s.barLabel.Render(fmt.Sprintf("%-4s", label)),
			bar,
			" ",
			s.amount.Render(domain.FormatAmount(value)),
		))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderRecentInvoices(invoices []domain.RecentInvoice, s styles) string {
	lines := []string{s.header.Render("recent invoices")}
	if len(invoices) == 0 {
		lines = append(lines, s.empty.Render("No invoices yet."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, inv := range invoices {
		lines = append(lines, fmt.Sprintf("%-16s %-24s %12s  %s",
			inv.ID,
			truncate(inv.Client, 24),
			domain.FormatAmount(inv.Amount),
			s.faint.Render(inv.Date),
		))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 1 {
		return s[:max]
	}
	return s[:max-1] + "…"
}
