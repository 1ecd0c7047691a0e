package status

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/invoicedesk/invoicectl/internal/domain"
)

type RenderOptions struct {
	BaseURL string
	Theme   domain.Theme
}

func renderView(status domain.ServerStatus, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("InvoiceDesk Server Status"),
	}

	if opts.BaseURL != "" {
		lines = append(lines, keyValue(s, "server:", opts.BaseURL))
	}

	if status.Online() {
		lines = append(lines, keyValue(s, "api:", s.online.Render("online")))
	} else {
		state := status.APIStatus
		if state == "" {
			state = "unreachable"
		}
		lines = append(lines, keyValue(s, "api:", s.offline.Render(state)))
	}

	lines = append(lines, authLines(status, s)...)

	if status.DefaultProductsCount > 0 {
		lines = append(lines, keyValue(s, "catalog:", fmt.Sprintf("%d default products", status.DefaultProductsCount)))
	}
	if opts.Theme.Valid() {
		lines = append(lines, keyValue(s, "theme:", opts.Theme.Label()))
	}
	if status.Timestamp != "" {
		lines = append(lines, s.faint.Render("as of "+status.Timestamp))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func authLines(status domain.ServerStatus, s styles) []string {
	if !status.Authenticated {
		return []string{keyValue(s, "signed in:", s.warning.Render("no"))}
	}

	lines := []string{keyValue(s, "signed in:", "yes")}
	if status.UserInfo != nil {
		identity := fmt.Sprintf("%s %s (%s)",
			s.badge.Render("["+status.UserInfo.Initials+"]"),
			status.UserInfo.Username,
			status.UserInfo.Role.Label(),
		)
		lines = append(lines, keyValue(s, "user:", identity))
	} else if status.UserRole != "" {
		lines = append(lines, keyValue(s, "role:", status.UserRole.Label()))
	}

	return lines
}

func keyValue(s styles, key, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, s.key.Render(key), " ", s.value.Render(value))
}
