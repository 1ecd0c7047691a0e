package application

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/invoicedesk/invoicectl/internal/domain"
	"github.com/invoicedesk/invoicectl/internal/ports"
)

// FilterRole and FilterStatus are the categorical filter names the user
// list understands.
const (
	FilterRole   = "role"
	FilterStatus = "status"
)

// UserService syncs the account directory for administrators. The
// actor's own role gates mutations client side; the server enforces the
// same rule authoritatively.
type UserService struct {
	gateway ports.UserGateway
	logger  *zap.Logger

	collection Collection[domain.User]
	stats      domain.UserStats
}

func NewUserService(gateway ports.UserGateway, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{gateway: gateway, logger: logger}
}

func (s *UserService) Refresh(ctx context.Context) error {
	users, stats, err := s.gateway.List(ctx)
	if err != nil {
		s.collection.Fail(err)
		return fmt.Errorf("load users: %w", err)
	}
	s.collection.Replace(users)
	s.stats = stats
	return nil
}

func userFields() Fields[domain.User] {
	return Fields[domain.User]{
		Text: func(u domain.User) []string {
			return []string{u.FullName, u.Username, u.Email, u.Department}
		},
		Categorical: map[string]func(domain.User) string{
			FilterRole:   func(u domain.User) string { return string(u.Role) },
			FilterStatus: func(u domain.User) string { return string(u.Status) },
		},
	}
}

func (s *UserService) Query(q ListQuery) View[domain.User] {
	return Apply(&s.collection, userFields(), q)
}

func (s *UserService) Stats() domain.UserStats {
	return s.stats
}

func (s *UserService) Get(ctx context.Context, id int) (domain.User, error) {
	return s.gateway.Get(ctx, id)
}

func (s *UserService) Create(ctx context.Context, actor domain.Role, user domain.User, password string) error {
	if strings.TrimSpace(user.Username) == "" {
		return &domain.ValidationError{Field: "username", Reason: "must not be empty"}
	}
	if len(password) < 8 {
		return &domain.ValidationError{Field: "password", Reason: "must be at least 8 characters"}
	}
	if !actor.CanManage(user) {
		return fmt.Errorf("create %s account: %w", user.Role.Label(), domain.ErrUnauthorized)
	}
	if err := s.gateway.Create(ctx, user, password); err != nil {
		return err
	}
	if err := s.Refresh(ctx); err != nil {
		s.logger.Warn("refresh after create failed", zap.Error(err))
	}
	return nil
}

// Update edits the account with the given id. newPassword is optional;
// empty keeps the current one.
func (s *UserService) Update(ctx context.Context, actor domain.Role, id int, user domain.User, newPassword string) error {
	target, err := s.gateway.Get(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanManage(target) || !actor.CanManage(user) {
		return fmt.Errorf("manage %s account: %w", target.Role.Label(), domain.ErrUnauthorized)
	}
	if newPassword != "" && len(newPassword) < 8 {
		return &domain.ValidationError{Field: "password", Reason: "must be at least 8 characters"}
	}
	if err := s.gateway.Update(ctx, id, user, newPassword); err != nil {
		return err
	}
	if err := s.Refresh(ctx); err != nil {
		s.logger.Warn("refresh after update failed", zap.Error(err))
	}
	return nil
}

func (s *UserService) Delete(ctx context.Context, actor domain.Role, id int) error {
	target, err := s.gateway.Get(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanManage(target) {
		return fmt.Errorf("manage %s account: %w", target.Role.Label(), domain.ErrUnauthorized)
	}
	if err := s.gateway.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.Refresh(ctx); err != nil {
		s.logger.Warn("refresh after delete failed", zap.Error(err))
	}
	return nil
}

// Section fetches the server-rendered management fragment verbatim.
func (s *UserService) Section(ctx context.Context) (string, error) {
	return s.gateway.Section(ctx)
}
