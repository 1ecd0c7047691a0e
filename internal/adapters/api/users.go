package api

import (
	"context"
	"fmt"

	"github.com/invoicedesk/invoicectl/internal/domain"
	"github.com/invoicedesk/invoicectl/internal/ports"
)

type UserGateway struct {
	client *Client
}

var _ ports.UserGateway = (*UserGateway)(nil)

func NewUserGateway(client *Client) *UserGateway {
	return &UserGateway{client: client}
}

func (g *UserGateway) List(ctx context.Context) ([]domain.User, domain.UserStats, error) {
	var resp struct {
		envelope
		Users []domain.User    `json:"users"`
		Stats domain.UserStats `json:"stats"`
	}
	if err := g.client.get(ctx, "/api/admin/users", &resp); err != nil {
		return nil, domain.UserStats{}, err
	}
	if err := resp.err(); err != nil {
		return nil, domain.UserStats{}, err
	}
	return resp.Users, resp.Stats, nil
}

func (g *UserGateway) Get(ctx context.Context, id int) (domain.User, error) {
	var resp struct {
		envelope
		User domain.User `json:"user"`
	}
	if err := g.client.get(ctx, fmt.Sprintf("/api/admin/users/%d", id), &resp); err != nil {
		return domain.User{}, err
	}
	if err := resp.err(); err != nil {
		return domain.User{}, fmt.Errorf("%s: %w", err, domain.ErrUserNotFound)
	}
	return resp.User, nil
}

func (g *UserGateway) Create(ctx context.Context, user domain.User, password string) error {
	payload := userPayload(user)
	payload["password"] = password

	var resp envelope
	if err := g.client.post(ctx, "/api/admin/users", payload, &resp); err != nil {
		return err
	}
	return resp.err()
}

func (g *UserGateway) Update(ctx context.Context, id int, user domain.User, newPassword string) error {
	payload := userPayload(user)
	if newPassword != "" {
		payload["password"] = newPassword
	}

	var resp envelope
	if err := g.client.put(ctx, fmt.Sprintf("/api/admin/users/%d", id), payload, &resp); err != nil {
		return err
	}
	return resp.err()
}

func (g *UserGateway) Delete(ctx context.Context, id int) error {
	var resp envelope
	if err := g.client.delete(ctx, fmt.Sprintf("/api/admin/users/%d", id), nil, &resp); err != nil {
		return err
	}
	return resp.err()
}

func (g *UserGateway) Section(ctx context.Context) (string, error) {
	return g.client.getText(ctx, "/api/admin/users_section")
}

func userPayload(user domain.User) map[string]any {
	return map[string]any{
		"username":             user.Username,
		"email":                user.Email,
		"full_name":            user.FullName,
		"phone":                user.Phone,
		"department":           user.Department,
		"role":                 user.Role,
		"status":               user.Status,
		"must_change_password": user.MustChangePassword,
	}
}
