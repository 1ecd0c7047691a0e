package ports

import (
	"context"
	"io"

	"github.com/invoicedesk/invoicectl/internal/domain"
)

type StatusGateway interface {
	Status(ctx context.Context) (domain.ServerStatus, error)
}

type AuthGateway interface {
	Login(ctx context.Context, username, password string) (domain.Role, error)
	Logout(ctx context.Context) error
	Register(ctx context.Context, username, password, email, fullName string) error
}

type ProductGateway interface {
	List(ctx context.Context) ([]domain.Product, error)
	// SessionCatalog is the authenticated listing scoped to the caller's
	// session: the uploaded catalog when one is loaded, the defaults
	// otherwise. The second value names the source the server answered
	// with.
	SessionCatalog(ctx context.Context) ([]domain.Product, string, error)
	Add(ctx context.Context, product domain.Product) (string, error)
	Update(ctx context.Context, originalName string, product domain.Product) (string, error)
	Delete(ctx context.Context, name string) error
	UploadCatalog(ctx context.Context, filename string, contents io.Reader) (int, string, error)
}

type ClientGateway interface {
	Get(ctx context.Context) (domain.ClientRecord, error)
	Save(ctx context.Context, record domain.ClientRecord) error
}

type UserGateway interface {
	List(ctx context.Context) ([]domain.User, domain.UserStats, error)
	Get(ctx context.Context, id int) (domain.User, error)
	Create(ctx context.Context, user domain.User, password string) error
	Update(ctx context.Context, id int, user domain.User, newPassword string) error
	Delete(ctx context.Context, id int) error
	// Section fetches the server-rendered user-management fragment as
	// opaque HTML.
	Section(ctx context.Context) (string, error)
}

type ChatGateway interface {
	Create(ctx context.Context) (domain.ChatSummary, error)
	List(ctx context.Context) ([]domain.ChatSummary, error)
	Load(ctx context.Context, id domain.ChatID) ([]domain.ChatMessage, error)
	Delete(ctx context.Context, id domain.ChatID) error
	Rename(ctx context.Context, id domain.ChatID, title string) error
	Send(ctx context.Context, message string) (domain.AssistantTurn, error)
}

type InvoiceGateway interface {
	GenerateFromCart(ctx context.Context) (domain.Invoice, error)
	Download(ctx context.Context, filename string, dst io.Writer) error
}

type DashboardGateway interface {
	Metrics(ctx context.Context) (domain.DashboardMetrics, error)
}

// ServerResult is the uniform success/failure envelope mutating
// endpoints answer with.
type ServerResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// FormDispatcher submits a flat field mapping to an endpoint. It backs
// the form bridge; entity gateways cover the typed paths.
type FormDispatcher interface {
	Dispatch(ctx context.Context, method, path string, payload map[string]any) (ServerResult, error)
}
