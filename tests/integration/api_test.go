// Package integration provides end-to-end tests for the Inventario HTTP API.
// The full stack runs in-process against an in-memory SQLite database, so
// the suite needs no external services.
package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/prn-tf/inventario/internal/auth"
	"github.com/prn-tf/inventario/internal/config"
	"github.com/prn-tf/inventario/internal/handler"
	"github.com/prn-tf/inventario/internal/lock"
	"github.com/prn-tf/inventario/internal/repository/sqlite"
	"github.com/prn-tf/inventario/internal/service"
)

// envelope mirrors the response body every endpoint writes.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message []string        `json:"message"`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	ctx := context.Background()
	logger := zerolog.Nop()

	db, err := sqlite.NewDB(ctx, sqlite.DefaultConfig(":memory:"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate(ctx))

	userRepo := sqlite.NewUserRepository(db)
	warehouseRepo := sqlite.NewWarehouseRepository(db)
	productRepo := sqlite.NewProductRepository(db)

	tokens, err := auth.NewTokenManager(config.AuthConfig{
		SigningKey:      "integration-test-signing-key-0123456789",
		Issuer:          "inventario",
		Audience:        "inventario-api",
		TokenTTLMinutes: 60,
		ClockSkew:       30 * time.Second,
	})
	require.NoError(t, err)

	locker := lock.NewMemoryLocker()

	router := handler.NewRouter(handler.RouterConfig{
		AuthHandler:      handler.NewAuthHandler(service.NewAuthService(userRepo, tokens, logger), logger),
		UserHandler:      handler.NewUserHandler(service.NewUserService(userRepo, locker, logger), logger),
		WarehouseHandler: handler.NewWarehouseHandler(service.NewWarehouseService(warehouseRepo, productRepo, locker, logger), logger),
		ProductHandler:   handler.NewProductHandler(service.NewProductService(productRepo, warehouseRepo, locker, logger), logger),
		AuthMiddleware:   auth.Middleware(tokens, userRepo, auth.DefaultConfig()),
		Health:           db,
		Logger:           logger,
	})

	server := httptest.NewServer(router.Handler())
	t.Cleanup(server.Close)
	return server
}

// do sends a request and decodes the response envelope. A 204 response has
// no body and yields a zero envelope.
func do(t *testing.T, server *httptest.Server, method, path, token string, body any) (int, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	if resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	}
	return resp.StatusCode, env
}

func registerAndLogin(t *testing.T, server *httptest.Server, name, email, password string) string {
	t.Helper()

	status, env := do(t, server, http.MethodPost, "/api/usuario", "", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, status)
	require.True(t, env.Success)

	return login(t, server, email, password)
}

func login(t *testing.T, server *httptest.Server, email, password string) string {
	t.Helper()

	status, env := do(t, server, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, status)
	require.True(t, env.Success)

	var session struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &session))
	require.NotEmpty(t, session.Token)
	return session.Token
}

func TestFullAPIFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	server := newTestServer(t)
	token := registerAndLogin(t, server, "Ada Lovelace", "ada@example.com", "s3cret-passw0rd")

	// Create a warehouse.
	status, env := do(t, server, http.MethodPost, "/api/estoque", token, map[string]string{
		"name": "Central",
	})
	require.Equal(t, http.StatusCreated, status)
	require.True(t, env.Success)

	var warehouse struct {
		ID       int64  `json:"id"`
		Name     string `json:"name"`
		Products []any  `json:"products"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &warehouse))
	require.Equal(t, "Central", warehouse.Name)
	require.NotZero(t, warehouse.ID)
	require.NotNil(t, warehouse.Products)
	require.Empty(t, warehouse.Products)

	// Add a batch of products.
	status, env = do(t, server, http.MethodPost, "/api/produto", token, []map[string]any{
		{"name": "Bolt", "description": "M8 bolt", "price": 0.25, "quantity": 500, "warehouse_id": warehouse.ID},
		{"name": "Nut", "description": "M8 nut", "price": 0.15, "quantity": 800, "warehouse_id": warehouse.ID},
	})
	require.Equal(t, http.StatusCreated, status)
	require.True(t, env.Success)

	// Batch creation acknowledges with no body; the rows come back
	// through the warehouse listing.
	require.Equal(t, "null", string(env.Data))

	status, env = do(t, server, http.MethodGet, "/api/estoque", token, nil)
	require.Equal(t, http.StatusOK, status)

	var warehouses []struct {
		ID       int64 `json:"id"`
		Products []struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		} `json:"products"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &warehouses))
	require.Len(t, warehouses, 1)
	require.Len(t, warehouses[0].Products, 2)
	products := warehouses[0].Products

	// Update a product.
	status, env = do(t, server, http.MethodPut, fmt.Sprintf("/api/produto/%d", products[0].ID), token, map[string]any{
		"name":         "Bolt M8",
		"description":  "M8 bolt, zinc plated",
		"price":        0.30,
		"quantity":     450,
		"warehouse_id": warehouse.ID,
	})
	require.Equal(t, http.StatusOK, status)
	require.True(t, env.Success)

	// Deleting the warehouse cascades to its products.
	status, env = do(t, server, http.MethodDelete, fmt.Sprintf("/api/estoque/%d", warehouse.ID), token, nil)
	require.Equal(t, http.StatusOK, status)
	require.True(t, env.Success)

	status, env = do(t, server, http.MethodGet, fmt.Sprintf("/api/produto/%d", products[0].ID), token, nil)
	require.Equal(t, http.StatusOK, status)
	require.True(t, env.Success)
	require.Equal(t, "null", string(env.Data))

	status, env = do(t, server, http.MethodGet, fmt.Sprintf("/api/estoque/%d", warehouse.ID), token, nil)
	require.Equal(t, http.StatusOK, status)
	require.True(t, env.Success)
	require.Equal(t, "null", string(env.Data))

	// Logout invalidates the session.
	status, _ = do(t, server, http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusNoContent, status)

	status, env = do(t, server, http.MethodGet, "/api/estoque", token, nil)
	require.Equal(t, http.StatusUnauthorized, status)
	require.False(t, env.Success)
}

func TestLoginRotatesSessionToken(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	server := newTestServer(t)
	first := registerAndLogin(t, server, "Grace Hopper", "grace@example.com", "s3cret-passw0rd")

	// Tokens embed issue time at second precision; a later login must
	// produce a distinct token to supersede the first.
	time.Sleep(1100 * time.Millisecond)
	second := login(t, server, "grace@example.com", "s3cret-passw0rd")
	require.NotEqual(t, first, second)

	status, _ := do(t, server, http.MethodGet, "/api/estoque", first, nil)
	require.Equal(t, http.StatusUnauthorized, status)

	status, _ = do(t, server, http.MethodGet, "/api/estoque", second, nil)
	require.Equal(t, http.StatusOK, status)
}

func TestOwnershipScoping(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	server := newTestServer(t)
	owner := registerAndLogin(t, server, "Owner", "owner@example.com", "s3cret-passw0rd")
	other := registerAndLogin(t, server, "Other", "other@example.com", "s3cret-passw0rd")

	status, env := do(t, server, http.MethodPost, "/api/estoque", owner, map[string]string{"name": "Private"})
	require.Equal(t, http.StatusCreated, status)

	var warehouse struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &warehouse))

	// A foreign warehouse reads exactly like a missing one.
	status, env = do(t, server, http.MethodGet, fmt.Sprintf("/api/estoque/%d", warehouse.ID), other, nil)
	require.Equal(t, http.StatusOK, status)
	require.True(t, env.Success)
	require.Equal(t, "null", string(env.Data))

	status, env = do(t, server, http.MethodPut, fmt.Sprintf("/api/estoque/%d", warehouse.ID), other, map[string]string{
		"name": "Hijacked",
	})
	require.Equal(t, http.StatusBadRequest, status)
	require.False(t, env.Success)

	status, env = do(t, server, http.MethodPost, "/api/produto", other, []map[string]any{
		{"name": "Smuggled", "description": "x", "price": 1, "quantity": 1, "warehouse_id": warehouse.ID},
	})
	require.Equal(t, http.StatusBadRequest, status)
	require.False(t, env.Success)

	// The owner's warehouse is untouched.
	status, env = do(t, server, http.MethodGet, fmt.Sprintf("/api/estoque/%d", warehouse.ID), owner, nil)
	require.Equal(t, http.StatusOK, status)

	var got struct {
		Name     string `json:"name"`
		Products []any  `json:"products"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &got))
	require.Equal(t, "Private", got.Name)
	require.Empty(t, got.Products)
}

func TestValidationFailures(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	server := newTestServer(t)

	status, env := do(t, server, http.MethodPost, "/api/usuario", "", map[string]string{
		"name":     "",
		"email":    "not-an-email",
		"password": "short",
	})
	require.Equal(t, http.StatusBadRequest, status)
	require.False(t, env.Success)
	require.NotEmpty(t, env.Message)

	// Duplicate registration.
	token := registerAndLogin(t, server, "Ada", "dup@example.com", "s3cret-passw0rd")
	status, env = do(t, server, http.MethodPost, "/api/usuario", "", map[string]string{
		"name":     "Ada Again",
		"email":    "dup@example.com",
		"password": "s3cret-passw0rd",
	})
	require.Equal(t, http.StatusBadRequest, status)
	require.False(t, env.Success)

	// Empty product batch.
	status, env = do(t, server, http.MethodPost, "/api/produto", token, []map[string]any{})
	require.Equal(t, http.StatusBadRequest, status)
	require.False(t, env.Success)

	// Non-numeric path parameter.
	status, env = do(t, server, http.MethodGet, "/api/estoque/abc", token, nil)
	require.Equal(t, http.StatusBadRequest, status)
	require.False(t, env.Success)
}

func TestHealthEndpoint(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	server := newTestServer(t)

	resp, err := server.Client().Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
