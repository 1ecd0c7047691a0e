package application

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/invoicedesk/invoicectl/internal/domain"
	"github.com/invoicedesk/invoicectl/internal/ports"
)

// SessionService owns the client-side session bundle: the correlation
// id stamped on every request, the theme preference, and the pointer to
// the active chat. State lives in the store; the service keeps an
// in-memory copy so reads do not hit disk on every request.
type SessionService struct {
	store  ports.SessionStore
	auth   ports.AuthGateway
	clock  ports.Clock
	logger *zap.Logger

	mu      sync.Mutex
	current domain.Session
	loaded  bool
}

func NewSessionService(store ports.SessionStore, auth ports.AuthGateway, clock ports.Clock, logger *zap.Logger) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{store: store, auth: auth, clock: clock, logger: logger}
}

// Current returns the session, creating and persisting a fresh one on
// first use or when the stored state is unreadable.
func (s *SessionService) Current(ctx context.Context) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureLocked(ctx)
}

func (s *SessionService) ensureLocked(ctx context.Context) (domain.Session, error) {
	if s.loaded {
		return s.current, nil
	}
	session, err := s.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrSessionNotFound) {
			s.logger.Warn("discarding unreadable session state", zap.Error(err))
		}
		session = domain.NewSession(s.clock.Now())
		if err := s.store.Save(ctx, session); err != nil {
			return domain.Session{}, fmt.Errorf("save session: %w", err)
		}
	}
	if !session.Theme.Valid() {
		session.Theme = domain.ThemeLight
	}
	s.current = session
	s.loaded = true
	return s.current, nil
}

// SessionID is the correlation id for outgoing requests. It never
// fails: when state cannot be loaded a fresh in-memory session covers
// the process lifetime.
func (s *SessionService) SessionID() string {
	session, err := s.Current(context.Background())
	if err != nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		if !s.loaded {
			s.current = domain.NewSession(s.clock.Now())
			s.loaded = true
		}
		return s.current.SessionID
	}
	return session.SessionID
}

// ToggleTheme flips light and dark, persists the choice, and returns
// the theme now active.
func (s *SessionService) ToggleTheme(ctx context.Context) (domain.Theme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.ensureLocked(ctx)
	if err != nil {
		return "", err
	}
	session.Theme = session.Theme.Toggled()
	if err := s.store.Save(ctx, session); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}
	s.current = session
	return session.Theme, nil
}

// SetCurrentChat records the active conversation.
func (s *SessionService) SetCurrentChat(ctx context.Context, id domain.ChatID) error {
	return s.update(ctx, func(session *domain.Session) {
		session.CurrentChatID = id
	})
}

// ClearCurrentChat detaches from the active conversation without
// touching theme or session id.
func (s *SessionService) ClearCurrentChat(ctx context.Context) error {
	return s.SetCurrentChat(ctx, "")
}

func (s *SessionService) update(ctx context.Context, mutate func(*domain.Session)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.ensureLocked(ctx)
	if err != nil {
		return err
	}
	mutate(&session)
	if err := s.store.Save(ctx, session); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	s.current = session
	return nil
}

// Login authenticates against the server and returns the granted role.
// The cookie jar picks up the server session; local state is untouched.
func (s *SessionService) Login(ctx context.Context, username, password string) (domain.Role, error) {
	if username == "" {
		return "", &domain.ValidationError{Field: "username", Reason: "must not be empty"}
	}
	if password == "" {
		return "", &domain.ValidationError{Field: "password", Reason: "must not be empty"}
	}
	role, err := s.auth.Login(ctx, username, password)
	if err != nil {
		return "", err
	}
	s.logger.Info("logged in", zap.String("username", username), zap.String("role", string(role)))
	return role, nil
}

// Logout clears the active chat, rotates the session id, and keeps the
// theme. The server call is best effort: a dead backend never blocks
// signing out locally.
func (s *SessionService) Logout(ctx context.Context) error {
	if err := s.auth.Logout(ctx); err != nil {
		s.logger.Warn("server logout failed, clearing local session anyway", zap.Error(err))
	}
	return s.update(ctx, func(session *domain.Session) {
		session.CurrentChatID = ""
		session.SessionID = domain.NewSessionID(s.clock.Now())
	})
}

// Register creates an account. Password checks run client side first so
// obviously bad input never reaches the wire.
func (s *SessionService) Register(ctx context.Context, username, password, email, fullName string) error {
	if username == "" {
		return &domain.ValidationError{Field: "username", Reason: "must not be empty"}
	}
	if len(password) < 8 {
		return &domain.ValidationError{Field: "password", Reason: "must be at least 8 characters"}
	}
	return s.auth.Register(ctx, username, password, email, fullName)
}
