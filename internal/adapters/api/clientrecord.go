package api

import (
	"context"

	"github.com/invoicedesk/invoicectl/internal/domain"
	"github.com/invoicedesk/invoicectl/internal/ports"
)

// ClientRecordGateway reads and writes the billing recipient attached
// to the current session's cart.
type ClientRecordGateway struct {
	client    *Client
	sessionID func() string
}

var _ ports.ClientGateway = (*ClientRecordGateway)(nil)

func NewClientRecordGateway(client *Client, sessionID func() string) *ClientRecordGateway {
	return &ClientRecordGateway{client: client, sessionID: sessionID}
}

func (g *ClientRecordGateway) Get(ctx context.Context) (domain.ClientRecord, error) {
	var resp struct {
		envelope
		Client domain.ClientRecord `json:"client"`
	}
	if err := g.client.get(ctx, "/api/client/get", &resp); err != nil {
		return domain.ClientRecord{}, err
	}
	if err := resp.err(); err != nil {
		return domain.ClientRecord{}, err
	}
	return resp.Client, nil
}

func (g *ClientRecordGateway) Save(ctx context.Context, record domain.ClientRecord) error {
	payload := map[string]any{
		"clientData": record,
	}
	if g.sessionID != nil {
		payload["session_id"] = g.sessionID()
	}
	var resp envelope
	if err := g.client.post(ctx, "/api/client/save", payload, &resp); err != nil {
		return err
	}
	return resp.err()
}
