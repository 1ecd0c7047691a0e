package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invoicedesk/invoicectl/internal/domain"
)

func TestRenderOnlineAuthenticated(t *testing.T) {
	out, err := Render(domain.ServerStatus{
		APIStatus:            "online",
		Authenticated:        true,
		UserRole:             domain.RoleAdmin,
		UserInfo:             &domain.UserInfo{Username: "admin", Role: domain.RoleAdmin, Initials: "AD"},
		DefaultProductsCount: 42,
		Timestamp:            "2024-05-01T10:00:00",
	}, RenderOptions{BaseURL: "http://localhost:5000", Theme: domain.ThemeDark})

	require.NoError(t, err)
	assert.Contains(t, out, "InvoiceDesk Server Status")
	assert.Contains(t, out, "online")
	assert.Contains(t, out, "admin")
	assert.Contains(t, out, "[AD]")
	assert.Contains(t, out, "42 default products")
	assert.Contains(t, out, "Dark")
}

func TestRenderOfflineUnauthenticated(t *testing.T) {
	out, err := Render(domain.ServerStatus{}, RenderOptions{})

	require.NoError(t, err)
	assert.Contains(t, out, "unreachable")
	assert.Contains(t, out, "no")
	assert.NotContains(t, out, "user:")
}

func TestRenderRoleWithoutUserInfo(t *testing.T) {
	out, err := Render(domain.ServerStatus{
		APIStatus:     "online",
		Authenticated: true,
		UserRole:      domain.RoleSuperAdmin,
	}, RenderOptions{})

	require.NoError(t, err)
	assert.Contains(t, out, "Super Admin")
}
