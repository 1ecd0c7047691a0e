package api

import (
	"context"
	"fmt"

	"github.com/invoicedesk/invoicectl/internal/domain"
	"github.com/invoicedesk/invoicectl/internal/ports"
)

type ChatGateway struct {
	client    *Client
	sessionID func() string
}

var _ ports.ChatGateway = (*ChatGateway)(nil)

// NewChatGateway builds the conversation gateway. sessionID feeds the
// chat endpoint's body, which carries the correlation id in addition to
// the shared header.
func NewChatGateway(client *Client, sessionID func() string) *ChatGateway {
	return &ChatGateway{client: client, sessionID: sessionID}
}

func (g *ChatGateway) Create(ctx context.Context) (domain.ChatSummary, error) {
	var resp struct {
		envelope
		ChatID domain.ChatID `json:"chat_id"`
		Title  string        `json:"title"`
	}
	if err := g.client.post(ctx, "/api/create_new_chat", nil, &resp); err != nil {
		return domain.ChatSummary{}, err
	}
	if err := resp.err(); err != nil {
		return domain.ChatSummary{}, err
	}
	return domain.ChatSummary{ChatID: resp.ChatID, Title: resp.Title}, nil
}

func (g *ChatGateway) List(ctx context.Context) ([]domain.ChatSummary, error) {
	var resp struct {
		envelope
		Chats []domain.ChatSummary `json:"chats"`
	}
	if err := g.client.get(ctx, "/api/get_chats", &resp); err != nil {
		return nil, err
	}
	if err := resp.err(); err != nil {
		return nil, err
	}
	return resp.Chats, nil
}

func (g *ChatGateway) Load(ctx context.Context, id domain.ChatID) ([]domain.ChatMessage, error) {
	var resp struct {
		envelope
		ChatID   domain.ChatID        `json:"chat_id"`
		Messages []domain.ChatMessage `json:"messages"`
	}
	if err := g.client.get(ctx, fmt.Sprintf("/api/load_chat/%s", id), &resp); err != nil {
		return nil, err
	}
	if err := resp.err(); err != nil {
		return nil, err
	}
	return resp.Messages, nil
}

func (g *ChatGateway) Delete(ctx context.Context, id domain.ChatID) error {
	var resp envelope
	if err := g.client.post(ctx, "/api/delete_chat", map[string]domain.ChatID{"chat_id": id}, &resp); err != nil {
		return err
	}
	return resp.err()
}

func (g *ChatGateway) Rename(ctx context.Context, id domain.ChatID, title string) error {
	var resp envelope
	payload := map[string]any{"chat_id": id, "title": title}
	if err := g.client.post(ctx, "/api/rename_chat", payload, &resp); err != nil {
		return err
	}
	return resp.err()
}

func (g *ChatGateway) Send(ctx context.Context, message string) (domain.AssistantTurn, error) {
	var resp struct {
		Response   string        `json:"response"`
		ChatID     domain.ChatID `json:"chat_id"`
		CartCount  int           `json:"cart_count"`
		ActionData *struct {
			Action string `json:"action"`
		} `json:"action_data"`
	}
	payload := map[string]string{"message": message}
	if g.sessionID != nil {
		payload["session_id"] = g.sessionID()
	}
	if err := g.client.post(ctx, "/api/chat", payload, &resp); err != nil {
		return domain.AssistantTurn{}, err
	}

	turn := domain.AssistantTurn{
		Response:  resp.Response,
		ChatID:    resp.ChatID,
		CartCount: resp.CartCount,
	}
	if resp.ActionData != nil {
		turn.Action = resp.ActionData.Action
	}
	return turn, nil
}
