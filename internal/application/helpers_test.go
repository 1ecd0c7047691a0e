package application

import (
	"context"
	"sync"
	"time"

	"github.com/invoicedesk/invoicectl/internal/domain"
)

const (
	testWait = 2 * time.Second
	testTick = 5 * time.Millisecond
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

type memSessionStore struct {
	mu      sync.Mutex
	session domain.Session
	saved   int
	has     bool
	loadErr error
	saveErr error
}

func (s *memSessionStore) Load(context.Context) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return domain.Session{}, s.loadErr
	}
	if !s.has {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	return s.session, nil
}

func (s *memSessionStore) Save(_ context.Context, session domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.session = session
	s.has = true
	s.saved++
	return nil
}

type fakeAuthGateway struct {
	role       domain.Role
	loginErr   error
	logoutErr  error
	logins     []string
	logouts    int
	registered []string
}

func (g *fakeAuthGateway) Login(_ context.Context, username, _ string) (domain.Role, error) {
	if g.loginErr != nil {
		return "", g.loginErr
	}
	g.logins = append(g.logins, username)
	return g.role, nil
}

func (g *fakeAuthGateway) Logout(context.Context) error {
	g.logouts++
	return g.logoutErr
}

func (g *fakeAuthGateway) Register(_ context.Context, username, _, _, _ string) error {
	g.registered = append(g.registered, username)
	return nil
}
