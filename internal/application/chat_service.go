package application

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/invoicedesk/invoicectl/internal/domain"
	"github.com/invoicedesk/invoicectl/internal/ports"
)

// ChatService drives assistant conversations and keeps the session's
// active-chat pointer in step with what the server knows.
type ChatService struct {
	gateway  ports.ChatGateway
	sessions *SessionService
	logger   *zap.Logger
}

func NewChatService(gateway ports.ChatGateway, sessions *SessionService, logger *zap.Logger) *ChatService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatService{gateway: gateway, sessions: sessions, logger: logger}
}

// New starts a fresh conversation and makes it the active one.
func (s *ChatService) New(ctx context.Context) (domain.ChatSummary, error) {
	summary, err := s.gateway.Create(ctx)
	if err != nil {
		return domain.ChatSummary{}, fmt.Errorf("create chat: %w", err)
	}
	if err := s.sessions.SetCurrentChat(ctx, summary.ChatID); err != nil {
		return domain.ChatSummary{}, err
	}
	return summary, nil
}

func (s *ChatService) List(ctx context.Context) ([]domain.ChatSummary, error) {
	return s.gateway.List(ctx)
}

// Open loads a conversation's transcript and makes it the active one.
func (s *ChatService) Open(ctx context.Context, id domain.ChatID) ([]domain.ChatMessage, error) {
	messages, err := s.gateway.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load chat: %w", err)
	}
	if err := s.sessions.SetCurrentChat(ctx, id); err != nil {
		return nil, err
	}
	return messages, nil
}

// Delete removes a conversation. Deleting the active one detaches the
// session from it; deleting any other leaves the pointer alone.
func (s *ChatService) Delete(ctx context.Context, id domain.ChatID) error {
	if err := s.gateway.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete chat: %w", err)
	}
	session, err := s.sessions.Current(ctx)
	if err != nil {
		return err
	}
	if session.CurrentChatID == id {
		return s.sessions.ClearCurrentChat(ctx)
	}
	return nil
}

func (s *ChatService) Rename(ctx context.Context, id domain.ChatID, title string) error {
	if strings.TrimSpace(title) == "" {
		return &domain.ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if err := s.gateway.Rename(ctx, id, title); err != nil {
		return fmt.Errorf("rename chat: %w", err)
	}
	return nil
}

// Send posts one message in the active conversation. When no chat is
// active the server starts one and the reply's chat id is adopted.
func (s *ChatService) Send(ctx context.Context, message string) (domain.AssistantTurn, error) {
	if strings.TrimSpace(message) == "" {
		return domain.AssistantTurn{}, &domain.ValidationError{Field: "message", Reason: "must not be empty"}
	}
	turn, err := s.gateway.Send(ctx, message)
	if err != nil {
		return domain.AssistantTurn{}, fmt.Errorf("send message: %w", err)
	}
	session, err := s.sessions.Current(ctx)
	if err != nil {
		return domain.AssistantTurn{}, err
	}
	if session.CurrentChatID == "" && turn.ChatID != "" {
		if err := s.sessions.SetCurrentChat(ctx, turn.ChatID); err != nil {
			return domain.AssistantTurn{}, err
		}
	}
	return turn, nil
}

// Current returns the active chat id, or ErrNoActiveChat.
func (s *ChatService) Current(ctx context.Context) (domain.ChatID, error) {
	session, err := s.sessions.Current(ctx)
	if err != nil {
		return "", err
	}
	if session.CurrentChatID == "" {
		return "", domain.ErrNoActiveChat
	}
	return session.CurrentChatID, nil
}

func chatFields() Fields[domain.ChatSummary] {
	return Fields[domain.ChatSummary]{
		Text: func(c domain.ChatSummary) []string {
			return []string{c.Title, string(c.ChatID)}
		},
	}
}

// FilterChats applies the free-text query to an already fetched list.
func FilterChats(chats []domain.ChatSummary, q ListQuery) View[domain.ChatSummary] {
	var c Collection[domain.ChatSummary]
	c.Replace(chats)
	return Apply(&c, chatFields(), q)
}
