package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeCLI(t *testing.T, home string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", home)

	root := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func startBackend(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	t.Setenv("INVOICECTL_API_URL", server.URL)
	return server
}

func readSessionFile(t *testing.T, home string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(home, ".invoicectl", "session.toml"))
	require.NoError(t, err)
	return string(data)
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Equal(t, "dev\n", stdout)
}

func TestLoginHappyPath(t *testing.T) {
	startBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/login", r.URL.Path)
		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "admin", creds["username"])
		assert.NotEmpty(t, r.Header.Get("Session-ID"))
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "role": "admin"})
	}))

	stdout, _, err := executeCLI(t, t.TempDir(), "login", "-u", "admin", "-p", "secret")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Logged in as admin (Admin)")
}

func TestLoginRequiresCredentialFlags(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "login", "-u", "admin")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag(s) \"password\" not set")
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	startBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]any{"error": "Invalid username or password"})
	}))

	_, _, err := executeCLI(t, t.TempDir(), "login", "-u", "admin", "-p", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid credentials")
}

func TestStatusRendersServerAndTheme(t *testing.T) {
	startBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/status", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"api_status":         "online",
			"user_authenticated": true,
			"user_role":          "admin",
			"user_info":          map[string]string{"username": "admin", "role": "admin", "initials": "AD"},
		})
	}))

	stdout, _, err := executeCLI(t, t.TempDir(), "status")
	require.NoError(t, err)
	assert.Contains(t, stdout, "online")
	assert.Contains(t, stdout, "admin")
	assert.Contains(t, stdout, "Light")
}

func TestStatusJSONWhenServerIsDown(t *testing.T) {
	t.Setenv("INVOICECTL_API_URL", "http://127.0.0.1:1")

	stdout, _, err := executeCLI(t, t.TempDir(), "status", "--json")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(stdout)))
	assert.Contains(t, stdout, "\"api_status\": \"\"")
}

func TestThemeToggleIsPersistedAndLabelsActiveTheme(t *testing.T) {
	home := t.TempDir()

	stdout, _, err := executeCLI(t, home, "theme")
	require.NoError(t, err)
	assert.Equal(t, "Light\n", stdout)

	stdout, _, err = executeCLI(t, home, "theme", "toggle")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Theme is now Dark")
	assert.Contains(t, readSessionFile(t, home), "dark")

	stdout, _, err = executeCLI(t, home, "theme")
	require.NoError(t, err)
	assert.Equal(t, "Dark\n", stdout)
}

func productsFixture(n int) []map[string]any {
	products := make([]map[string]any, 0, n)
	for i := 1; i <= n; i++ {
		products = append(products, map[string]any{
			"name":  fmt.Sprintf("Product %02d", i),
			"price": i * 100,
			"stock": i,
		})
	}
	return products
}

func TestProductListPaginatesAndFilters(t *testing.T) {
	startBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/get_products", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true, "products": productsFixture(25), "count": 25,
		})
	}))

	stdout, _, err := executeCLI(t, t.TempDir(), "product", "list", "--page", "3")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Product 21")
	assert.Contains(t, stdout, "Showing 21-25 of 25")
	assert.Contains(t, stdout, "page 3/3")

	stdout, _, err = executeCLI(t, t.TempDir(), "product", "list", "--stock", "out-of-stock")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No products match.")
	assert.Contains(t, stdout, "page 1/1")

	stdout, _, err = executeCLI(t, t.TempDir(), "product", "list", "--search", "product 0", "--page", "99")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Showing 1-9 of 9", "page clamps to the last valid one")
}

func TestProductAvailableShowsSessionCatalog(t *testing.T) {
	startBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/products/all", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"products": []map[string]any{
				{"name": "Solar Panel", "price": 12500, "stock": 40},
			},
			"count":  1,
			"source": "default",
		})
	}))

	stdout, _, err := executeCLI(t, t.TempDir(), "product", "available")
	require.NoError(t, err)
	assert.Contains(t, stdout, "catalog source: default")
	assert.Contains(t, stdout, "Solar Panel")
}

func TestProductAddCoercesGarbagePriceAndStillSubmits(t *testing.T) {
	var captured map[string]any
	startBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/add_product":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
			_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "message": "Product added successfully"})
		case "/api/get_products":
			_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "products": []any{}})
		}
	}))

	stdout, _, err := executeCLI(t, t.TempDir(), "product", "add",
		"--name", "Solar Panel",
		"--price", "abc",
		"--stock", "7",
	)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Product added successfully")

	require.NotNil(t, captured, "the request must go out despite the bad numeric input")
	assert.Equal(t, "Solar Panel", captured["name"])
	assert.Equal(t, float64(0), captured["price"])
	assert.Equal(t, float64(7), captured["stock"])
}

func TestProductAddSurfacesServerRejection(t *testing.T) {
	startBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "Product already exists"})
	}))

	_, _, err := executeCLI(t, t.TempDir(), "product", "add", "--name", "Solar Panel")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Product already exists")
}

func TestProductDeleteRequiresConfirmation(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "product", "delete", "--name", "Solar Panel")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--yes")
}

func TestUserListCombinesSearchAndRoleFilter(t *testing.T) {
	users := []map[string]any{
		{"id": 1, "username": "jcarter", "full_name": "John Carter", "role": "admin", "status": "active"},
		{"id": 2, "username": "jmills", "full_name": "John Mills", "role": "user", "status": "active"},
		{"id": 3, "username": "asha", "full_name": "Asha Deshpande", "role": "admin", "status": "active"},
	}
	startBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/admin/users", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"users":   users,
			"stats":   map[string]int{"total_users": 3, "active_users": 3, "admin_users": 2, "new_users": 0},
		})
	}))

	stdout, _, err := executeCLI(t, t.TempDir(), "user", "list", "--search", "john", "--role", "admin")
	require.NoError(t, err)
	assert.Contains(t, stdout, "John Carter")
	assert.NotContains(t, stdout, "John Mills")
	assert.NotContains(t, stdout, "Asha Deshpande")
	assert.Contains(t, stdout, "total: 3")
}

func TestChatFlowTracksActiveConversation(t *testing.T) {
	home := t.TempDir()
	startBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/create_new_chat":
			_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "chat_id": "chat_99", "title": "New Chat"})
		case "/api/delete_chat":
			_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))

	stdout, _, err := executeCLI(t, home, "chat", "new")
	require.NoError(t, err)
	assert.Contains(t, stdout, "chat_99")
	assert.Contains(t, readSessionFile(t, home), "chat_99")

	_, _, err = executeCLI(t, home, "chat", "delete", "chat_99")
	require.NoError(t, err)
	assert.NotContains(t, readSessionFile(t, home), "chat_99")
}

func TestChatSendRunsInvoiceFollowUp(t *testing.T) {
	startBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/chat":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"response":    "Generating your invoice now.",
				"chat_id":     "chat_5",
				"cart_count":  2,
				"action_data": map[string]string{"action": "generate_invoice"},
			})
		case "/api/generate_invoice_from_cart":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"success":        true,
				"pdf_path":       "INV-2024-007.pdf",
				"invoice_number": "INV-2024-007",
				"invoice":        map[string]any{"summary": map[string]any{"grand_total": 56400.0}},
			})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))

	stdout, _, err := executeCLI(t, t.TempDir(), "chat", "send", "generate", "the", "invoice")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Generating your invoice now.")
	assert.Contains(t, stdout, "(cart: 2 items)")
	assert.Contains(t, stdout, "Invoice INV-2024-007 generated")
	assert.Contains(t, stdout, "₹56400.00")
}

func TestLogoutRotatesSessionAndKeepsTheme(t *testing.T) {
	home := t.TempDir()
	startBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/create_new_chat":
			_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "chat_id": "chat_7", "title": "New Chat"})
		case "/api/logout":
			_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
		}
	}))

	_, _, err := executeCLI(t, home, "theme", "toggle")
	require.NoError(t, err)
	_, _, err = executeCLI(t, home, "chat", "new")
	require.NoError(t, err)

	before := readSessionFile(t, home)

	stdout, _, err := executeCLI(t, home, "logout")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Logged out")

	after := readSessionFile(t, home)
	assert.NotContains(t, after, "chat_7")
	assert.Contains(t, after, "dark", "theme survives logout")
	assert.NotEqual(t, sessionIDLine(before), sessionIDLine(after), "session id rotates on logout")
}

func TestLogoutSucceedsWhenServerUnreachable(t *testing.T) {
	t.Setenv("INVOICECTL_API_URL", "http://127.0.0.1:1")

	stdout, _, err := executeCLI(t, t.TempDir(), "logout")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Logged out")
}

func sessionIDLine(content string) string {
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, "id = ") {
			return line
		}
	}
	return ""
}

func TestInvoiceDownloadWritesFile(t *testing.T) {
	startBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/download_invoice/INV-2024-007.pdf", r.URL.Path)
		_, _ = w.Write([]byte("%PDF-1.4 fake"))
	}))

	target := filepath.Join(t.TempDir(), "invoice.pdf")
	stdout, _, err := executeCLI(t, t.TempDir(), "invoice", "download", "INV-2024-007.pdf", "-o", target)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Saved "+target)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
}

func TestDashboardJSONOutput(t *testing.T) {
	startBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/admin_dashboard_data", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"totalInvoices": 12,
			"totalRevenue":  90000.0,
			"activeUsers":   4,
			"productsSold":  33,
		})
	}))

	stdout, _, err := executeCLI(t, t.TempDir(), "dashboard", "--json")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(stdout)))
	assert.Contains(t, stdout, "\"totalInvoices\": 12")
}

func TestClientSaveRequiresName(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "client", "save")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag(s) \"name\" not set")
}

func TestClientShowRendersRecord(t *testing.T) {
	startBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/client/get", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"client": map[string]string{
				"name": "Mehta Solar", "email": "mehta@example.in", "gst_number": "27AAPFU0939F1ZV",
			},
		})
	}))

	stdout, _, err := executeCLI(t, t.TempDir(), "client", "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Mehta Solar")
	assert.Contains(t, stdout, "27AAPFU0939F1ZV")
}
