package api

import (
	"context"

	"github.com/invoicedesk/invoicectl/internal/ports"
)

// Dispatcher adapts the client to the generic form-submission port.
// Envelope failures come back as a ServerResult, not an error, so the
// form layer can show the server's own message.
type Dispatcher struct {
	client *Client
}

var _ ports.FormDispatcher = (*Dispatcher)(nil)

func NewDispatcher(client *Client) *Dispatcher {
	return &Dispatcher{client: client}
}

func (d *Dispatcher) Dispatch(ctx context.Context, method, path string, payload map[string]any) (ports.ServerResult, error) {
	var resp struct {
		envelope
	}
	if err := d.client.do(ctx, method, path, payload, &resp); err != nil {
		return ports.ServerResult{}, err
	}
	return ports.ServerResult{
		Success: resp.ok(),
		Message: resp.Message,
		Error:   resp.Error,
	}, nil
}
