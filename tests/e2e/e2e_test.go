//go:build integration

package e2e

// e2e_test.go
// End-to-end integration tests using real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./tests/e2e/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/config"
	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/infra"
	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/router"
	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/worker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

type testEnv struct {
	server     *httptest.Server
	adminToken string
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("pos_test"),
		tcPostgres.WithUsername("pos"),
		tcPostgres.WithPassword("pos"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:               8000,
		Env:                "test",
		DataSource:         "postgres",
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
		WorkerPoolSize:     1,
		ReceiptStoragePath: t.TempDir(),
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte("admin12345"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Exec(
		`INSERT INTO users (id, username, full_name, password_hash, role, active, created_at, updated_at)
		 VALUES (gen_random_uuid(), 'admin', 'Admin E2E', ?, 'admin', true, NOW(), NOW())
		 ON CONFLICT DO NOTHING`, string(hash)).Error)

	repos := router.NewRepos(db)
	dispatcher := worker.NewDispatcher(rdb)

	workerCtx, cancel := context.WithCancel(ctx)
	t.Cleanup(cancel)
	worker.StartWorkerPool(workerCtx, rdb, cfg.WorkerPoolSize, worker.Handlers{
		Receipt: worker.NewReceiptWorker(repos.Orders, repos.Tables, repos.Users, dispatcher, cfg.ReceiptStoragePath),
		Email:   worker.NewEmailWorker(nil, rdb),
		Stats:   worker.NewStatsWorker(repos.Stats),
	})

	r := router.New(cfg, db, rdb, repos, dispatcher, infra.NewCircuitBreaker(infra.DefaultCBConfig()))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	env := &testEnv{server: srv}
	env.adminToken = env.login(t, "admin", "admin12345")
	return env
}

func (e *testEnv) login(t *testing.T, username, password string) string {
	t.Helper()
	resp := do(t, e.server, "POST", "/api/auth/login",
		jsonBody(t, map[string]string{"username": username, "password": password}), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, resp, &body)
	require.NotEmpty(t, body.AccessToken)
	return body.AccessToken
}

// createStaff registers a user through the admin API and returns (id, token).
func (e *testEnv) createStaff(t *testing.T, username, role string) (string, string) {
	t.Helper()
	resp := do(t, e.server, "POST", "/api/users", jsonBody(t, map[string]any{
		"username":  username,
		"full_name": "Staff " + username,
		"password":  "password123",
		"role":      role,
	}), e.adminToken)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var u struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &u)
	return u.ID, e.login(t, username, "password123")
}

// seedMenu creates one table and one dish, returning their IDs.
func (e *testEnv) seedMenu(t *testing.T, tableNumber int) (tableID, dishID string) {
	t.Helper()
	resp := do(t, e.server, "POST", "/api/tables",
		jsonBody(t, map[string]any{"table_number": tableNumber, "capacity": 4}), e.adminToken)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var table struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &table)

	resp = do(t, e.server, "POST", "/api/categories",
		jsonBody(t, map[string]any{"name": fmt.Sprintf("Main %d", tableNumber)}), e.adminToken)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var cat struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &cat)

	resp = do(t, e.server, "POST", "/api/dishes", jsonBody(t, map[string]any{
		"name":                 "Borscht",
		"price":                "350.00",
		"category_id":          cat.ID,
		"cooking_time_minutes": 20,
	}), e.adminToken)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var dish struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &dish)

	return table.ID, dish.ID
}

type orderBody struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	TotalAmount string  `json:"total_amount"`
	ChefID      *string `json:"chef_id"`
}

func (e *testEnv) transition(t *testing.T, orderID, event, token string) *http.Response {
	t.Helper()
	return do(t, e.server, "POST", "/api/orders/"+orderID+"/transition",
		jsonBody(t, map[string]string{"event": event}), token)
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_FullOrderCycle(t *testing.T) {
	env := setupTestEnv(t)

	waiterID, waiterToken := env.createStaff(t, "anna", "waiter")
	_, chefToken := env.createStaff(t, "boris", "chef")
	tableID, dishID := env.seedMenu(t, 1)

	// waiter opens an order
	resp := do(t, env.server, "POST", "/api/orders", jsonBody(t, map[string]any{
		"table_id": tableID,
		"items":    []map[string]any{{"dish_id": dishID, "quantity": 2}},
	}), waiterToken)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var order orderBody
	decodeJSON(t, resp, &order)
	assert.Equal(t, "pending", order.Status)
	assert.Equal(t, "700", order.TotalAmount)

	// table becomes occupied
	resp = do(t, env.server, "GET", "/api/tables/"+tableID, nil, waiterToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var table struct {
		Status string `json:"status"`
	}
	decodeJSON(t, resp, &table)
	assert.Equal(t, "occupied", table.Status)

	// kitchen takes over
	resp = env.transition(t, order.ID, "start", chefToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var afterStart orderBody
	decodeJSON(t, resp, &afterStart)
	assert.Equal(t, "cooking", afterStart.Status)
	require.NotNil(t, afterStart.ChefID)

	resp = env.transition(t, order.ID, "mark_ready", chefToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// waiter closes out
	resp = env.transition(t, order.ID, "complete", waiterToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var done orderBody
	decodeJSON(t, resp, &done)
	assert.Equal(t, "completed", done.Status)

	// table is free again
	resp = do(t, env.server, "GET", "/api/tables/"+tableID, nil, waiterToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &table)
	assert.Equal(t, "free", table.Status)

	// the stats worker folds the completion asynchronously
	deadline := time.Now().Add(10 * time.Second)
	for {
		resp = do(t, env.server, "GET", "/api/users/"+waiterID+"/stats", nil, waiterToken)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var stats struct {
			Waiter *struct {
				OrdersServed int    `json:"orders_served"`
				TotalRevenue string `json:"total_revenue"`
			} `json:"waiter"`
		}
		decodeJSON(t, resp, &stats)
		if stats.Waiter != nil && stats.Waiter.OrdersServed == 1 {
			assert.Equal(t, "700", stats.Waiter.TotalRevenue)
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("stats worker did not record the served order in time")
		}
		time.Sleep(200 * time.Millisecond)
	}
}

func TestE2E_OccupiedTableConflict(t *testing.T) {
	env := setupTestEnv(t)

	_, waiterToken := env.createStaff(t, "anna", "waiter")
	tableID, dishID := env.seedMenu(t, 1)

	open := func() *http.Response {
		return do(t, env.server, "POST", "/api/orders", jsonBody(t, map[string]any{
			"table_id": tableID,
			"items":    []map[string]any{{"dish_id": dishID, "quantity": 1}},
		}), waiterToken)
	}

	resp := open()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = open()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

func TestE2E_RoleEnforcement(t *testing.T) {
	env := setupTestEnv(t)

	_, waiterToken := env.createStaff(t, "anna", "waiter")
	_, chefToken := env.createStaff(t, "boris", "chef")
	tableID, dishID := env.seedMenu(t, 1)

	// chef may not open orders
	resp := do(t, env.server, "POST", "/api/orders", jsonBody(t, map[string]any{
		"table_id": tableID,
		"items":    []map[string]any{{"dish_id": dishID, "quantity": 1}},
	}), chefToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// waiter may not manage the menu
	resp = do(t, env.server, "POST", "/api/categories",
		jsonBody(t, map[string]any{"name": "Sneaky"}), waiterToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// waiter may not start cooking
	createResp := do(t, env.server, "POST", "/api/orders", jsonBody(t, map[string]any{
		"table_id": tableID,
		"items":    []map[string]any{{"dish_id": dishID, "quantity": 1}},
	}), waiterToken)
	require.Equal(t, http.StatusCreated, createResp.StatusCode)
	var order orderBody
	decodeJSON(t, createResp, &order)

	resp = env.transition(t, order.ID, "start", waiterToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// unauthenticated requests bounce
	resp = do(t, env.server, "GET", "/api/orders", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestE2E_ChefKitchenView(t *testing.T) {
	env := setupTestEnv(t)

	_, waiterToken := env.createStaff(t, "anna", "waiter")
	_, chefToken := env.createStaff(t, "boris", "chef")
	t1, dishID := env.seedMenu(t, 1)
	t2, _ := env.seedMenu(t, 2)

	openOn := func(tableID string) orderBody {
		resp := do(t, env.server, "POST", "/api/orders", jsonBody(t, map[string]any{
			"table_id": tableID,
			"items":    []map[string]any{{"dish_id": dishID, "quantity": 1}},
		}), waiterToken)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		var o orderBody
		decodeJSON(t, resp, &o)
		return o
	}

	first := openOn(t1)
	openOn(t2)

	// complete the first order so it leaves the kitchen queue
	require.Equal(t, http.StatusOK, env.transition(t, first.ID, "start", chefToken).StatusCode)
	require.Equal(t, http.StatusOK, env.transition(t, first.ID, "mark_ready", chefToken).StatusCode)
	require.Equal(t, http.StatusOK, env.transition(t, first.ID, "complete", waiterToken).StatusCode)

	// chefs only see pending/cooking orders even when asking for everything
	resp := do(t, env.server, "GET", "/api/orders?status=completed", nil, chefToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list struct {
		Data  []orderBody `json:"data"`
		Total int64       `json:"total"`
	}
	decodeJSON(t, resp, &list)
	require.Len(t, list.Data, 1)
	assert.Equal(t, "pending", list.Data[0].Status)

	// the waiter sees both
	resp = do(t, env.server, "GET", "/api/orders", nil, waiterToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &list)
	assert.Equal(t, int64(2), list.Total)
}
