package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/invoicedesk/invoicectl/internal/domain"
	"github.com/invoicedesk/invoicectl/internal/ports"
)

type AuthGateway struct {
	client *Client
}

var _ ports.AuthGateway = (*AuthGateway)(nil)

func NewAuthGateway(client *Client) *AuthGateway {
	return &AuthGateway{client: client}
}

func (g *AuthGateway) Login(ctx context.Context, username, password string) (domain.Role, error) {
	var resp struct {
		envelope
		Role domain.Role `json:"role"`
	}
	payload := map[string]string{"username": username, "password": password}
	if err := g.client.post(ctx, "/api/login", payload, &resp); err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return "", fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
		}
		return "", err
	}
	if err := resp.err(); err != nil {
		return "", err
	}
	return resp.Role, nil
}

func (g *AuthGateway) Logout(ctx context.Context) error {
	var resp envelope
	if err := g.client.post(ctx, "/api/logout", nil, &resp); err != nil {
		return err
	}
	return resp.err()
}

func (g *AuthGateway) Register(ctx context.Context, username, password, email, fullName string) error {
	var resp envelope
	payload := map[string]string{
		"username":  username,
		"password":  password,
		"email":     email,
		"full_name": fullName,
	}
	if err := g.client.post(ctx, "/api/register", payload, &resp); err != nil {
		return err
	}
	return resp.err()
}
