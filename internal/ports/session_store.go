package ports

import (
	"context"

	"github.com/invoicedesk/invoicectl/internal/domain"
)

// SessionStore persists the client-side session bundle between
// invocations (theme preference, correlation id, active chat).
type SessionStore interface {
	Load(ctx context.Context) (domain.Session, error)
	Save(ctx context.Context, session domain.Session) error
}
