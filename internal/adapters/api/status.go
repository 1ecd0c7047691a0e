package api

import (
	"context"

	"github.com/invoicedesk/invoicectl/internal/domain"
	"github.com/invoicedesk/invoicectl/internal/ports"
)

type StatusGateway struct {
	client *Client
}

var _ ports.StatusGateway = (*StatusGateway)(nil)

func NewStatusGateway(client *Client) *StatusGateway {
	return &StatusGateway{client: client}
}

func (g *StatusGateway) Status(ctx context.Context) (domain.ServerStatus, error) {
	var status domain.ServerStatus
	if err := g.client.get(ctx, "/api/status", &status); err != nil {
		return domain.ServerStatus{}, err
	}
	return status, nil
}

type DashboardGateway struct {
	client *Client
}

var _ ports.DashboardGateway = (*DashboardGateway)(nil)

func NewDashboardGateway(client *Client) *DashboardGateway {
	return &DashboardGateway{client: client}
}

func (g *DashboardGateway) Metrics(ctx context.Context) (domain.DashboardMetrics, error) {
	var metrics domain.DashboardMetrics
	if err := g.client.get(ctx, "/api/admin_dashboard_data", &metrics); err != nil {
		return domain.DashboardMetrics{}, err
	}
	return metrics, nil
}
