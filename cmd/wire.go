package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/invoicedesk/invoicectl/internal/adapters/api"
	dashboardrender "github.com/invoicedesk/invoicectl/internal/adapters/render/dashboard"
	statusrender "github.com/invoicedesk/invoicectl/internal/adapters/render/status"
	tomlrepo "github.com/invoicedesk/invoicectl/internal/adapters/repo/toml"
	"github.com/invoicedesk/invoicectl/internal/application"
	"github.com/invoicedesk/invoicectl/internal/domain"
	"github.com/invoicedesk/invoicectl/internal/notify"
	"github.com/invoicedesk/invoicectl/internal/ports"
)

const (
	baseURLKey       = "api.base_url"
	maxAttemptsKey   = "http.max_attempts"
	retryDelayKey    = "http.retry_delay"
	pageSizeKey      = "list.page_size"
	watchIntervalKey = "dashboard.watch_interval"

	defaultBaseURL = "http://localhost:5000"
)

type app struct {
	sessions *application.SessionService
	products *application.ProductService
	users    *application.UserService
	chats    *application.ChatService
	forms    *application.FormBridge

	status    ports.StatusGateway
	dashboard ports.DashboardGateway
	invoices  ports.InvoiceGateway
	clients   ports.ClientGateway

	notifier          *notify.Channel
	statusRenderer    func(domain.ServerStatus, statusrender.RenderOptions) (string, error)
	dashboardRenderer func(domain.DashboardMetrics, dashboardrender.RenderOptions) (string, error)

	baseURL       string
	pageSize      int
	watchInterval time.Duration
	now           func() time.Time
	logger        *zap.Logger
}

func wireApp() (*app, error) {
	cfg := viper.New()
	cfg.SetDefault(baseURLKey, defaultBaseURL)
	cfg.SetDefault(maxAttemptsKey, api.DefaultMaxAttempts)
	cfg.SetDefault(retryDelayKey, api.DefaultRetryDelay)
	cfg.SetDefault(pageSizeKey, application.DefaultPageSize)
	cfg.SetDefault(watchIntervalKey, 30*time.Second)

	store, err := tomlrepo.NewSessionStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("wire session store: %w", err)
	}

	logger, err := newLogger()
	if err != nil {
		return nil, fmt.Errorf("wire logger: %w", err)
	}

	baseURL := envOrDefault("INVOICECTL_API_URL", cfg.GetString(baseURLKey))
	notifier := notify.New(os.Stderr)

	// The session service and the HTTP client depend on each other: the
	// client stamps the correlation id the service owns, and the service
	// logs in through a gateway built on the client. The sessionID
	// closure breaks the cycle.
	var sessions *application.SessionService
	sessionID := func() string {
		if sessions == nil {
			return ""
		}
		return sessions.SessionID()
	}

	client := api.New(baseURL,
		api.WithRetry(uint(cfg.GetUint32(maxAttemptsKey)), cfg.GetDuration(retryDelayKey)),
		api.WithSessionID(sessionID),
		api.WithUnauthorizedHandler(func() {
			notifier.Warning("Session expired. Run 'invoicectl login' to sign in again.")
		}),
		api.WithLogger(logger),
	)

	sessions = application.NewSessionService(store, api.NewAuthGateway(client), ports.SystemClock{}, logger)
	products := application.NewProductService(api.NewProductGateway(client), logger)
	users := application.NewUserService(api.NewUserGateway(client), logger)
	chats := application.NewChatService(api.NewChatGateway(client, sessionID), sessions, logger)
	forms := application.NewFormBridge(api.NewDispatcher(client), notifier, logger)

	return &app{
		sessions:          sessions,
		products:          products,
		users:             users,
		chats:             chats,
		forms:             forms,
		status:            api.NewStatusGateway(client),
		dashboard:         api.NewDashboardGateway(client),
		invoices:          api.NewInvoiceGateway(client, sessionID),
		clients:           api.NewClientRecordGateway(client, sessionID),
		notifier:          notifier,
		statusRenderer:    statusrender.Render,
		dashboardRenderer: dashboardrender.Render,
		baseURL:           baseURL,
		pageSize:          cfg.GetInt(pageSizeKey),
		watchInterval:     cfg.GetDuration(watchIntervalKey),
		now:               time.Now,
		logger:            logger,
	}, nil
}

func newLogger() (*zap.Logger, error) {
	if os.Getenv("INVOICECTL_DEBUG") == "" {
		return zap.NewNop(), nil
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}
	return logger, nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// requireRole resolves the signed-in role for commands that gate on it.
func requireRole(status domain.ServerStatus) (domain.Role, error) {
	if !status.Authenticated {
		return "", fmt.Errorf("not signed in: %w", domain.ErrUnauthorized)
	}
	if status.UserRole == "" {
		return "", errors.New("server did not report a role")
	}
	return status.UserRole, nil
}
