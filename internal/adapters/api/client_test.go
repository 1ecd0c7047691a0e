package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invoicedesk/invoicectl/internal/domain"
)

func fastRetry() Option {
	return WithRetry(DefaultMaxAttempts, time.Millisecond)
}

func TestRetriesTransientFailuresThenSucceeds(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "products": []any{}})
	}))
	defer srv.Close()

	client := New(srv.URL, fastRetry())
	_, err := NewProductGateway(client).List(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int32(3), hits.Load(), "two failures then success within three attempts")
}

func TestGivesUpAfterMaxAttempts(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := New(srv.URL, fastRetry())
	_, err := NewProductGateway(client).List(context.Background())

	require.Error(t, err)
	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadGateway, httpErr.StatusCode)
	assert.Equal(t, int32(DefaultMaxAttempts), hits.Load())
}

func TestUnauthorizedIsNeverRetried(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]any{"error": "Authentication required"})
	}))
	defer srv.Close()

	var redirects atomic.Int32
	client := New(srv.URL, fastRetry(), WithUnauthorizedHandler(func() { redirects.Add(1) }))
	_, err := NewProductGateway(client).List(context.Background())

	require.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Equal(t, int32(1), hits.Load(), "auth failures must not burn retries")
	assert.Equal(t, int32(1), redirects.Load(), "exactly one unauthorized hook per request")
}

func TestForbiddenTriggersUnauthorizedHook(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	var redirects atomic.Int32
	client := New(srv.URL, fastRetry(), WithUnauthorizedHandler(func() { redirects.Add(1) }))
	_, err := NewStatusGateway(client).Status(context.Background())

	require.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Equal(t, int32(1), redirects.Load())
}

func TestEnvelopeFailureIsNotRetried(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "Product already exists"})
	}))
	defer srv.Close()

	client := New(srv.URL, fastRetry())
	_, err := NewProductGateway(client).Add(context.Background(), domain.Product{Name: "Solar Panel"})

	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Product already exists", apiErr.Message)
	assert.Equal(t, int32(1), hits.Load(), "application rejections are final")
}

func TestSessionIDHeaderOnEveryRequest(t *testing.T) {
	var header atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header.Store(r.Header.Get("Session-ID"))
		_ = json.NewEncoder(w).Encode(map[string]any{"api_status": "online"})
	}))
	defer srv.Close()

	client := New(srv.URL, fastRetry(), WithSessionID(func() string { return "session_abc123def_42" }))
	_, err := NewStatusGateway(client).Status(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "session_abc123def_42", header.Load())
}

func TestCookiesPersistAcrossRequests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/login":
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "cookie-1"})
			_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "role": "admin"})
		case "/api/status":
			if c, err := r.Cookie("session"); err != nil || c.Value != "cookie-1" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"api_status": "online", "user_authenticated": true})
		}
	}))
	defer srv.Close()

	client := New(srv.URL, fastRetry())
	role, err := NewAuthGateway(client).Login(context.Background(), "admin", "secret")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, role)

	status, err := NewStatusGateway(client).Status(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Authenticated)
}

func TestLoginMapsUnauthorizedToInvalidCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]any{"error": "Invalid username or password"})
	}))
	defer srv.Close()

	client := New(srv.URL, fastRetry())
	_, err := NewAuthGateway(client).Login(context.Background(), "admin", "wrong")

	require.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Contains(t, err.Error(), "invalid credentials")
}

func TestUpdateProductCarriesOriginalName(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "message": "Product updated successfully"})
	}))
	defer srv.Close()

	client := New(srv.URL, fastRetry())
	message, err := NewProductGateway(client).Update(context.Background(), "Solar Panel", domain.Product{Name: "Solar Panel 450W", Price: 13000})

	require.NoError(t, err)
	assert.Equal(t, "Product updated successfully", message)
	assert.Equal(t, "Solar Panel", captured["original_name"])
	assert.Equal(t, "Solar Panel 450W", captured["name"])
}

func TestChatSendDecodesActionData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "session_abc123def_42", payload["session_id"])
		_ = json.NewEncoder(w).Encode(map[string]any{
			"response":   "Invoice is ready.",
			"chat_id":    "chat_77",
			"cart_count": 3,
			"action_data": map[string]string{
				"action": "generate_invoice",
			},
		})
	}))
	defer srv.Close()

	client := New(srv.URL, fastRetry())
	gateway := NewChatGateway(client, func() string { return "session_abc123def_42" })
	turn, err := gateway.Send(context.Background(), "generate the invoice")

	require.NoError(t, err)
	assert.Equal(t, domain.ChatID("chat_77"), turn.ChatID)
	assert.Equal(t, 3, turn.CartCount)
	assert.Equal(t, domain.ActionGenerateInvoice, turn.Action)
}

func TestInvoiceDownloadStreamsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/download_invoice/INV-2024-001.pdf", r.URL.Path)
		_, _ = w.Write([]byte("%PDF-1.4 fake"))
	}))
	defer srv.Close()

	client := New(srv.URL, fastRetry())
	var buf bytes.Buffer
	err := NewInvoiceGateway(client, nil).Download(context.Background(), "INV-2024-001.pdf", &buf)

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(buf.String(), "%PDF"))
}

func TestUploadCatalogSendsMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer func() { _ = file.Close() }()
		assert.Equal(t, "catalog.csv", header.Filename)
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "product_count": 12, "filename": "catalog.csv"})
	}))
	defer srv.Close()

	client := New(srv.URL, fastRetry())
	count, filename, err := NewProductGateway(client).UploadCatalog(context.Background(), "catalog.csv", strings.NewReader("name,price\nPanel,100"))

	require.NoError(t, err)
	assert.Equal(t, 12, count)
	assert.Equal(t, "catalog.csv", filename)
}

func TestDispatcherSurfacesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "Username already taken"})
	}))
	defer srv.Close()

	client := New(srv.URL, fastRetry())
	result, err := NewDispatcher(client).Dispatch(context.Background(), http.MethodPost, "/api/admin/users", map[string]any{"username": "dup"})

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "Username already taken", result.Error)
}

func TestUserGatewayDecodesStats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"users": []map[string]any{
				{"id": 1, "username": "root", "role": "super_admin", "status": "active"},
			},
			"stats": map[string]int{"total_users": 1, "active_users": 1, "admin_users": 1, "new_users": 0},
		})
	}))
	defer srv.Close()

	client := New(srv.URL, fastRetry())
	users, stats, err := NewUserGateway(client).List(context.Background())

	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, domain.RoleSuperAdmin, users[0].Role)
	assert.Equal(t, 1, stats.TotalUsers)
}

// The backend registers every route under /api. A server that answers
// only those routes and 404s the rest keeps a dropped prefix from
// slipping back in unnoticed.
func TestGatewaysUseAPIPrefixedRoutes(t *testing.T) {
	ok := func(extra map[string]any) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			body := map[string]any{"success": true}
			for k, v := range extra {
				body[k] = v
			}
			_ = json.NewEncoder(w).Encode(body)
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/login", ok(map[string]any{"role": "admin"}))
	mux.HandleFunc("/api/logout", ok(nil))
	mux.HandleFunc("/api/register", ok(nil))
	mux.HandleFunc("/api/get_products", ok(map[string]any{"products": []any{}}))
	mux.HandleFunc("/api/add_product", ok(map[string]any{"message": "added"}))
	mux.HandleFunc("/api/update_product", ok(map[string]any{"message": "updated"}))
	mux.HandleFunc("/api/delete_product", ok(nil))
	mux.HandleFunc("/api/create_new_chat", ok(map[string]any{"chat_id": "chat_1", "title": "New Chat"}))
	mux.HandleFunc("/api/get_chats", ok(map[string]any{"chats": []any{}}))
	mux.HandleFunc("/api/load_chat/chat_1", ok(map[string]any{"messages": []any{}}))
	mux.HandleFunc("/api/delete_chat", ok(nil))
	mux.HandleFunc("/api/rename_chat", ok(nil))
	mux.HandleFunc("/api/chat", ok(map[string]any{"response": "hi"}))
	mux.HandleFunc("/api/generate_invoice_from_cart", ok(map[string]any{"invoice_number": "INV-1", "pdf_path": "INV-1.pdf"}))
	mux.HandleFunc("/api/download_invoice/INV-1.pdf", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("%PDF-1.4"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := New(srv.URL, WithRetry(1, time.Millisecond))
	ctx := context.Background()

	auth := NewAuthGateway(client)
	_, err := auth.Login(ctx, "admin", "secret")
	require.NoError(t, err)
	require.NoError(t, auth.Logout(ctx))
	require.NoError(t, auth.Register(ctx, "new", "password123", "", ""))

	products := NewProductGateway(client)
	_, err = products.List(ctx)
	require.NoError(t, err)
	_, err = products.Add(ctx, domain.Product{Name: "Panel"})
	require.NoError(t, err)
	_, err = products.Update(ctx, "Panel", domain.Product{Name: "Panel 450W"})
	require.NoError(t, err)
	require.NoError(t, products.Delete(ctx, "Panel 450W"))

	chats := NewChatGateway(client, nil)
	_, err = chats.Create(ctx)
	require.NoError(t, err)
	_, err = chats.List(ctx)
	require.NoError(t, err)
	_, err = chats.Load(ctx, "chat_1")
	require.NoError(t, err)
	require.NoError(t, chats.Delete(ctx, "chat_1"))
	require.NoError(t, chats.Rename(ctx, "chat_1", "Renamed"))
	_, err = chats.Send(ctx, "hello")
	require.NoError(t, err)

	invoices := NewInvoiceGateway(client, nil)
	_, err = invoices.GenerateFromCart(ctx)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, invoices.Download(ctx, "INV-1.pdf", &buf))
}

func TestContextCancellationStopsRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := New(srv.URL, WithRetry(5, 50*time.Millisecond))
	_, err := NewStatusGateway(client).Status(ctx)
	require.Error(t, err)
}
