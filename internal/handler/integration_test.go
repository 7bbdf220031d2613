//go:build integration

package handler_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labsalud/api/internal/config"
	"github.com/labsalud/api/internal/database"
	"github.com/labsalud/api/internal/router"
	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/crypto/bcrypt"
)

// TestIntegrationFlow exercises the full order lifecycle against a real
// PostgreSQL database: register a patient, build an order from the catalog,
// mutate its items, walk the status chain, capture results, and settle.
func TestIntegrationFlow(t *testing.T) {
	ctx := context.Background()

	// Start PostgreSQL container
	_, connStr, cleanup := setupPostgresContainer(t, ctx)
	defer cleanup()

	// Run migrations
	runMigrations(t, connStr)

	// Create pgxpool connection
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("create pool: %v", err)
	}
	defer pool.Close()

	// Initialize dependencies
	cfg := &config.Config{
		Port:        "8082",
		DatabaseURL: connStr,
		JWTSecret:   "integration-test-secret",
	}
	queries := database.New(pool)

	// Build router
	r := router.New(cfg, queries, pool)

	// Create HTTP test server
	server := httptest.NewServer(r)
	defer server.Close()

	// --- 1. Create admin user (manual DB insert to bootstrap) ---
	createAdminUser(t, ctx, pool)

	// --- 2. Login as admin ---
	token := login(t, server, "admin@test.com", "password123")

	// --- 3. Register a patient; code must be PAC-0001 ---
	patientResp := createPatient(t, server, token, "Maria Lopez")
	patientID := uuid.MustParse(patientResp["id"].(string))
	if patientResp["code"].(string) != "PAC-0001" {
		t.Fatalf("patient code: got %s, want PAC-0001", patientResp["code"].(string))
	}

	// A second registration allocates the next code.
	patient2Resp := createPatient(t, server, token, "Juan Perez")
	if patient2Resp["code"].(string) != "PAC-0002" {
		t.Fatalf("second patient code: got %s, want PAC-0002", patient2Resp["code"].(string))
	}

	// --- 4. Create catalog tests ---
	cbcID := createLabTest(t, server, token, "CBC", "Complete Blood Count", "50.00")
	lipidID := createLabTest(t, server, token, "LIPID", "Lipid Panel", "30.00")

	// --- 5. Create order with both tests; total = 50 + 30 ---
	orderResp := createOrder(t, server, token, patientID, []uuid.UUID{cbcID, lipidID})
	orderID := uuid.MustParse(orderResp["id"].(string))
	if orderResp["code"].(string) != "ORD-00001" {
		t.Fatalf("order code: got %s, want ORD-00001", orderResp["code"].(string))
	}
	if orderResp["total_price"].(string) != "80.00" {
		t.Fatalf("order total: got %s, want 80.00", orderResp["total_price"].(string))
	}

	// --- 6. A later price change must not touch the captured snapshots ---
	updateLabTestPrice(t, server, token, cbcID, "CBC", "Complete Blood Count", "99.00")
	orderAfterPriceChange := getOrder(t, server, token, orderID)
	if orderAfterPriceChange["total_price"].(string) != "80.00" {
		t.Fatalf("order total after catalog price change: got %s, want 80.00",
			orderAfterPriceChange["total_price"].(string))
	}

	// --- 7. Remove the lipid item; total drops to the remaining snapshot ---
	items := orderAfterPriceChange["items"].([]interface{})
	var lipidItemID uuid.UUID
	for _, raw := range items {
		item := raw.(map[string]interface{})
		if item["test_id"].(string) == lipidID.String() {
			lipidItemID = uuid.MustParse(item["id"].(string))
		}
	}
	if lipidItemID == uuid.Nil {
		t.Fatal("lipid item not found on order")
	}

	removeResp := deleteJSONAuth(t, server, token, fmt.Sprintf("/orders/%s/items/%s", orderID, lipidItemID))
	if removeResp["total_price"].(string) != "50.00" {
		t.Fatalf("order total after item removal: got %s, want 50.00", removeResp["total_price"].(string))
	}

	// --- 8. Advance PENDING -> IN_PROGRESS and capture a result ---
	updateOrderStatus(t, server, token, orderID, "IN_PROGRESS", http.StatusOK)

	orderDetail := getOrder(t, server, token, orderID)
	cbcItemID := uuid.MustParse(orderDetail["items"].([]interface{})[0].(map[string]interface{})["id"].(string))

	resultResp := putJSONAuth(t, server, token,
		fmt.Sprintf("/orders/%s/items/%s/result", orderID, cbcItemID),
		map[string]string{"value": "13.5", "unit": "g/dL"}, http.StatusOK)
	if resultResp["is_draft"].(bool) != true {
		t.Fatal("captured result must be a draft")
	}

	// --- 9. Skipping states is rejected and leaves the order unchanged ---
	updateOrderStatus(t, server, token, orderID, "DELIVERED", http.StatusConflict)
	orderDetail = getOrder(t, server, token, orderID)
	if orderDetail["status"].(string) != "IN_PROGRESS" {
		t.Fatalf("order status after rejected transition: got %s, want IN_PROGRESS",
			orderDetail["status"].(string))
	}

	// --- 10. Completing the order validates the draft result ---
	updateOrderStatus(t, server, token, orderID, "COMPLETE", http.StatusOK)
	orderDetail = getOrder(t, server, token, orderID)
	results := orderDetail["results"].([]interface{})
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	validated := results[0].(map[string]interface{})
	if validated["is_draft"].(bool) != false {
		t.Fatal("result must be validated once the order is COMPLETE")
	}
	if validated["validated_at"] == nil {
		t.Fatal("validated result must carry validated_at")
	}

	// Validated results are immutable.
	putJSONAuth(t, server, token,
		fmt.Sprintf("/orders/%s/items/%s/result", orderID, cbcItemID),
		map[string]string{"value": "99.9"}, http.StatusConflict)

	// --- 11. Settle the order; a retry settles nothing ---
	settleResp := postJSONAuth(t, server, token, "/settlements", map[string]interface{}{
		"order_ids":      []string{orderID.String()},
		"origin_channel": "FRONT_DESK",
	}, http.StatusOK)
	if settleResp["settled_count"].(float64) != 1 {
		t.Fatalf("settled_count: got %v, want 1", settleResp["settled_count"])
	}

	retryResp := postJSONAuth(t, server, token, "/settlements", map[string]interface{}{
		"order_ids":      []string{orderID.String()},
		"origin_channel": "FRONT_DESK",
	}, http.StatusOK)
	if retryResp["settled_count"].(float64) != 0 {
		t.Fatalf("settled_count on retry: got %v, want 0", retryResp["settled_count"])
	}

	// --- 12. Deliver and confirm the terminal state is locked ---
	updateOrderStatus(t, server, token, orderID, "DELIVERED", http.StatusOK)
	updateOrderStatus(t, server, token, orderID, "VOIDED", http.StatusConflict)
}

// --- Infrastructure helpers ---

func setupPostgresContainer(t *testing.T, ctx context.Context) (testcontainers.Container, string, func()) {
	t.Helper()

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("lab_test"),
		tcpostgres.WithUsername("lab"),
		tcpostgres.WithPassword("lab"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("get connection string: %v", err)
	}

	cleanup := func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	}

	return pgContainer, connStr, cleanup
}

func runMigrations(t *testing.T, connStr string) {
	t.Helper()

	// Connect with stdlib for migrate
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		t.Fatalf("open db for migrations: %v", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		t.Fatalf("create migrate driver: %v", err)
	}

	// Path relative to this test file's package directory (internal/handler/).
	// Go test sets cwd to the package directory.
	m, err := migrate.NewWithDatabaseInstance(
		"file://../../migrations",
		"postgres", driver)
	if err != nil {
		t.Fatalf("create migrate instance: %v", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		t.Fatalf("run migrations: %v", err)
	}
}

func createAdminUser(t *testing.T, ctx context.Context, pool *pgxpool.Pool) uuid.UUID {
	t.Helper()
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	var id uuid.UUID
	err = pool.QueryRow(ctx,
		`INSERT INTO users (email, password_hash, full_name, role, active)
		 VALUES ($1, $2, $3, 'ADMIN', true)
		 RETURNING id`,
		"admin@test.com", string(hashedPassword), "Test Admin",
	).Scan(&id)
	if err != nil {
		t.Fatalf("create admin user: %v", err)
	}
	return id
}

// --- HTTP helpers ---

func doRequest(t *testing.T, server *httptest.Server, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("marshal request: %v", err)
		}
	}

	req, err := http.NewRequest(method, server.URL+path, &buf)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var decoded map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func login(t *testing.T, server *httptest.Server, email, password string) string {
	t.Helper()
	resp, body := doRequest(t, server, "POST", "/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: status %d, body %v", resp.StatusCode, body)
	}
	return body["access_token"].(string)
}

func createPatient(t *testing.T, server *httptest.Server, token, fullName string) map[string]interface{} {
	t.Helper()
	resp, body := doRequest(t, server, "POST", "/patients", token, map[string]string{
		"full_name": fullName,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create patient: status %d, body %v", resp.StatusCode, body)
	}
	return body
}

func createLabTest(t *testing.T, server *httptest.Server, token, code, name, price string) uuid.UUID {
	t.Helper()
	resp, body := doRequest(t, server, "POST", "/tests", token, map[string]string{
		"code":  code,
		"name":  name,
		"price": price,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create lab test: status %d, body %v", resp.StatusCode, body)
	}
	return uuid.MustParse(body["id"].(string))
}

func updateLabTestPrice(t *testing.T, server *httptest.Server, token string, id uuid.UUID, code, name, price string) {
	t.Helper()
	resp, body := doRequest(t, server, "PUT", "/tests/"+id.String(), token, map[string]string{
		"code":  code,
		"name":  name,
		"price": price,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update lab test: status %d, body %v", resp.StatusCode, body)
	}
}

func createOrder(t *testing.T, server *httptest.Server, token string, patientID uuid.UUID, testIDs []uuid.UUID) map[string]interface{} {
	t.Helper()
	ids := make([]string, len(testIDs))
	for i, id := range testIDs {
		ids[i] = id.String()
	}
	resp, body := doRequest(t, server, "POST", "/orders", token, map[string]interface{}{
		"patient_id":     patientID.String(),
		"origin_channel": "FRONT_DESK",
		"test_ids":       ids,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create order: status %d, body %v", resp.StatusCode, body)
	}
	return body
}

func getOrder(t *testing.T, server *httptest.Server, token string, orderID uuid.UUID) map[string]interface{} {
	t.Helper()
	resp, body := doRequest(t, server, "GET", "/orders/"+orderID.String(), token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get order: status %d, body %v", resp.StatusCode, body)
	}
	return body
}

func updateOrderStatus(t *testing.T, server *httptest.Server, token string, orderID uuid.UUID, status string, wantStatus int) {
	t.Helper()
	resp, body := doRequest(t, server, "PUT", "/orders/"+orderID.String()+"/status", token, map[string]string{
		"status": status,
	})
	if resp.StatusCode != wantStatus {
		t.Fatalf("update status to %s: status %d, want %d, body %v", status, resp.StatusCode, wantStatus, body)
	}
}

func putJSONAuth(t *testing.T, server *httptest.Server, token, path string, body interface{}, wantStatus int) map[string]interface{} {
	t.Helper()
	resp, decoded := doRequest(t, server, "PUT", path, token, body)
	if resp.StatusCode != wantStatus {
		t.Fatalf("PUT %s: status %d, want %d, body %v", path, resp.StatusCode, wantStatus, decoded)
	}
	return decoded
}

func postJSONAuth(t *testing.T, server *httptest.Server, token, path string, body interface{}, wantStatus int) map[string]interface{} {
	t.Helper()
	resp, decoded := doRequest(t, server, "POST", path, token, body)
	if resp.StatusCode != wantStatus {
		t.Fatalf("POST %s: status %d, want %d, body %v", path, resp.StatusCode, wantStatus, decoded)
	}
	return decoded
}

func deleteJSONAuth(t *testing.T, server *httptest.Server, token, path string) map[string]interface{} {
	t.Helper()
	resp, decoded := doRequest(t, server, "DELETE", path, token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("DELETE %s: status %d, body %v", path, resp.StatusCode, decoded)
	}
	return decoded
}
