package www

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"fleetdispatch/config"
	"fleetdispatch/engine"
	"fleetdispatch/livestate"
	"fleetdispatch/messaging"
	"fleetdispatch/orders"
	"fleetdispatch/store"
)

type stubBackend struct {
	orders map[string]*orders.Order
}

func (s *stubBackend) GetOrder(orderID string) (*orders.Order, error) {
	o, ok := s.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("stub: order %s not found", orderID)
	}
	return o, nil
}
func (s *stubBackend) Ping() error                       { return nil }
func (s *stubBackend) Name() string                      { return "stub" }
func (s *stubBackend) Reconfigure(string, time.Duration) {}

type testClient struct {
	srv    *httptest.Server
	client *http.Client
}

func newTestServer(t *testing.T, backend orders.Backend) *testClient {
	t.Helper()

	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	db, err := store.Open(&config.DatabaseConfig{
		Driver: "sqlite",
		SQLite: config.SQLiteConfig{Path: dbPath},
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
		os.Remove(dbPath)
	})

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { redisClient.Close() })

	cfg := config.Defaults()
	cfg.Web.SessionSecret = "test-secret"

	live := livestate.NewManager(db, livestate.NewRedisStore(redisClient))
	msgClient := messaging.NewClient(&cfg.Messaging)

	eng := engine.New(engine.Config{
		AppConfig: cfg,
		DB:        db,
		Backend:   backend,
		Live:      live,
		MsgClient: msgClient,
	})
	eng.Start()
	t.Cleanup(eng.Stop)

	handler, stop := NewRouter(eng)
	t.Cleanup(stop)

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	jar, _ := cookiejar.New(nil)
	return &testClient{srv: srv, client: &http.Client{Jar: jar}}
}

func (tc *testClient) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, tc.srv.URL+path, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := tc.client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func (tc *testClient) login(t *testing.T) {
	t.Helper()
	resp := tc.do(t, http.MethodPost, "/login", map[string]string{
		"username": "admin",
		"password": "admin",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d", resp.StatusCode)
	}
}

func vehicleBody(registration string) map[string]any {
	return map[string]any{
		"registration_no":   registration,
		"owner":             "Kwun Tong Logistics Ltd",
		"make":              "Toyota",
		"model":             "Hiace",
		"make_year":         2021,
		"chassis_no":        "JT12345678900001",
		"weight_kg":         2800,
		"cylinder_cc":       2800,
		"body_type":         "Van",
		"driver_name":       "Chan Tai Man",
		"driver_license_no": "HK1234567",
		"driver_contact_no": "+852 9123 4567",
		"driver_email":      "",
		"assigned_location": "Kowloon",
	}
}

func decodeBody(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestMutatingEndpointsRequireAuth(t *testing.T) {
	tc := newTestServer(t, &stubBackend{})

	resp := tc.do(t, http.MethodPost, "/api/vehicles", vehicleBody("AB1234"))
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("create without session: status = %d, want 401", resp.StatusCode)
	}

	resp = tc.do(t, http.MethodPost, "/api/assign", map[string]any{"vehicle_id": 1, "order_id": "O1"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("assign without session: status = %d, want 401", resp.StatusCode)
	}
}

func TestDomainErrorBody(t *testing.T) {
	tc := newTestServer(t, &stubBackend{orders: map[string]*orders.Order{
		"ORD1": {ID: "ORD1", Status: orders.StatusPending},
	}})
	tc.login(t)

	// validation -> 400
	bad := vehicleBody("AB1234")
	bad["body_type"] = "Spaceship"
	resp := tc.do(t, http.MethodPost, "/api/vehicles", bad)
	var body map[string]string
	decodeBody(t, resp, &body)
	if resp.StatusCode != http.StatusBadRequest || body["code"] != "validation" {
		t.Errorf("validation: status = %d, code = %q", resp.StatusCode, body["code"])
	}
	if body["error"] == "" {
		t.Error("error message should be present")
	}

	// not found -> 404
	resp = tc.do(t, http.MethodGet, "/api/vehicles/999", nil)
	decodeBody(t, resp, &body)
	if resp.StatusCode != http.StatusNotFound || body["code"] != "not_found" {
		t.Errorf("not found: status = %d, code = %q", resp.StatusCode, body["code"])
	}

	// order outside processing -> 422
	resp = tc.do(t, http.MethodPost, "/api/vehicles", vehicleBody("AB1234"))
	var v store.Vehicle
	decodeBody(t, resp, &v)
	resp = tc.do(t, http.MethodPost, "/api/assign", map[string]any{
		"vehicle_id": v.ID,
		"order_id":   "ORD1",
	})
	decodeBody(t, resp, &body)
	if resp.StatusCode != http.StatusUnprocessableEntity || body["code"] != "precondition" {
		t.Errorf("precondition: status = %d, code = %q", resp.StatusCode, body["code"])
	}

	// duplicate registration -> 409
	resp = tc.do(t, http.MethodPost, "/api/vehicles", vehicleBody("AB1234"))
	decodeBody(t, resp, &body)
	if resp.StatusCode != http.StatusConflict || body["code"] != "conflict" {
		t.Errorf("conflict: status = %d, code = %q", resp.StatusCode, body["code"])
	}
}

func TestVehicleAPI(t *testing.T) {
	tc := newTestServer(t, &stubBackend{})
	tc.login(t)

	// Create
	resp := tc.do(t, http.MethodPost, "/api/vehicles", vehicleBody("AB1234"))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	var created store.Vehicle
	decodeBody(t, resp, &created)
	if created.ID == 0 {
		t.Fatal("ID should be assigned")
	}
	if created.Status != "Available" {
		t.Errorf("Status = %q, want Available", created.Status)
	}

	// Validation error surfaces as 400
	bad := vehicleBody("XX0000")
	bad["body_type"] = "Spaceship"
	resp = tc.do(t, http.MethodPost, "/api/vehicles", bad)
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad body type: status = %d, want 400", resp.StatusCode)
	}

	// Duplicate registration surfaces as 409
	resp = tc.do(t, http.MethodPost, "/api/vehicles", vehicleBody("AB1234"))
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("duplicate: status = %d, want 409", resp.StatusCode)
	}

	// List
	resp = tc.do(t, http.MethodGet, "/api/vehicles", nil)
	var list []*store.Vehicle
	decodeBody(t, resp, &list)
	if len(list) != 1 {
		t.Errorf("list len = %d, want 1", len(list))
	}

	// Get detail
	resp = tc.do(t, http.MethodGet, fmt.Sprintf("/api/vehicles/%d", created.ID), nil)
	var detail struct {
		store.Vehicle
		AssignedOrders     []any `json:"assigned_orders"`
		MaintenanceRecords []any `json:"maintenance_records"`
	}
	decodeBody(t, resp, &detail)
	if detail.RegistrationNo != "AB1234" {
		t.Errorf("detail registration = %q", detail.RegistrationNo)
	}

	// Update
	resp = tc.do(t, http.MethodPut, fmt.Sprintf("/api/vehicles/%d", created.ID), map[string]any{
		"model":  "Hiace GL",
		"status": "Maintenance",
	})
	var updated store.Vehicle
	decodeBody(t, resp, &updated)
	if updated.Model != "Hiace GL" {
		t.Errorf("Model = %q", updated.Model)
	}
	if updated.Status != "Maintenance" {
		t.Errorf("Status = %q", updated.Status)
	}

	// Unknown vehicle is a 404
	resp = tc.do(t, http.MethodGet, "/api/vehicles/999", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing vehicle: status = %d, want 404", resp.StatusCode)
	}
}

func TestAssignmentAPI(t *testing.T) {
	backend := &stubBackend{orders: map[string]*orders.Order{
		"ORD1": {ID: "ORD1", Status: orders.StatusProcessing},
		"ORD2": {ID: "ORD2", Status: orders.StatusPending},
	}}
	tc := newTestServer(t, backend)
	tc.login(t)

	resp := tc.do(t, http.MethodPost, "/api/vehicles", vehicleBody("AB1234"))
	var v store.Vehicle
	decodeBody(t, resp, &v)

	// Assign
	resp = tc.do(t, http.MethodPost, "/api/assign", map[string]any{
		"vehicle_id":     v.ID,
		"order_id":       "ORD1",
		"scheduled_date": "2099-01-01",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("assign status = %d", resp.StatusCode)
	}
	var detail struct {
		AssignedOrders []*store.Assignment `json:"assigned_orders"`
	}
	decodeBody(t, resp, &detail)
	if len(detail.AssignedOrders) != 1 {
		t.Fatalf("assignments = %d, want 1", len(detail.AssignedOrders))
	}
	if detail.AssignedOrders[0].Status != "Pending" {
		t.Errorf("Status = %q, want Pending", detail.AssignedOrders[0].Status)
	}

	// Order not in processing state is a 422
	resp = tc.do(t, http.MethodPost, "/api/assign", map[string]any{
		"vehicle_id": v.ID,
		"order_id":   "ORD2",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("pending order: status = %d, want 422", resp.StatusCode)
	}

	// Duplicate active assignment is a 409
	resp = tc.do(t, http.MethodPost, "/api/assign", map[string]any{
		"vehicle_id": v.ID,
		"order_id":   "ORD1",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("duplicate assign: status = %d, want 409", resp.StatusCode)
	}

	// Unknown order is a 404
	resp = tc.do(t, http.MethodPost, "/api/assign", map[string]any{
		"vehicle_id": v.ID,
		"order_id":   "NOPE",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing order: status = %d, want 404", resp.StatusCode)
	}

	// Lookup by order
	resp = tc.do(t, http.MethodGet, "/api/assign?orderId=ORD1", nil)
	var lookup struct {
		Vehicle    *store.Vehicle    `json:"vehicle"`
		Assignment *store.Assignment `json:"assignment"`
	}
	decodeBody(t, resp, &lookup)
	if lookup.Vehicle.ID != v.ID {
		t.Errorf("lookup vehicle = %d, want %d", lookup.Vehicle.ID, v.ID)
	}

	// Status update to Delivered
	resp = tc.do(t, http.MethodPut, "/api/assign", map[string]any{
		"vehicle_id": v.ID,
		"order_id":   "ORD1",
		"status":     "Delivered",
		"notes":      "left at concierge",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status update = %d", resp.StatusCode)
	}
	decodeBody(t, resp, &detail)
	if detail.AssignedOrders[0].Status != "Delivered" {
		t.Errorf("Status = %q, want Delivered", detail.AssignedOrders[0].Status)
	}
	if detail.AssignedOrders[0].CompletedAt == nil {
		t.Error("CompletedAt should be set")
	}

	// Terminal assignment refuses further transitions
	resp = tc.do(t, http.MethodPut, "/api/assign", map[string]any{
		"vehicle_id": v.ID,
		"order_id":   "ORD1",
		"status":     "In Transit",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("reopen terminal: status = %d, want 422", resp.StatusCode)
	}

	// History trail is exposed by reference
	ref := detail.AssignedOrders[0].Reference
	resp = tc.do(t, http.MethodGet, "/api/assignments/"+ref+"/history", nil)
	var history []*store.AssignmentHistory
	decodeBody(t, resp, &history)
	if len(history) != 2 {
		t.Errorf("history = %d, want 2", len(history))
	}
}

func TestMaintenanceAPI(t *testing.T) {
	tc := newTestServer(t, &stubBackend{})
	tc.login(t)

	resp := tc.do(t, http.MethodPost, "/api/vehicles", vehicleBody("JK5566"))
	var v store.Vehicle
	decodeBody(t, resp, &v)

	resp = tc.do(t, http.MethodPost, fmt.Sprintf("/api/vehicles/%d/maintenance", v.ID), map[string]any{
		"service_date": "2026-08-01",
		"description":  "Oil change",
		"cost":         450.50,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("add maintenance = %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = tc.do(t, http.MethodGet, fmt.Sprintf("/api/vehicles/%d/maintenance", v.ID), nil)
	var records []*store.MaintenanceRecord
	decodeBody(t, resp, &records)
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
	if records[0].Description != "Oil change" {
		t.Errorf("Description = %q", records[0].Description)
	}
}

func TestHealthAndFleetState(t *testing.T) {
	backend := &stubBackend{orders: map[string]*orders.Order{
		"ORD1": {ID: "ORD1", Status: orders.StatusProcessing},
	}}
	tc := newTestServer(t, backend)
	tc.login(t)

	resp := tc.do(t, http.MethodGet, "/api/health", nil)
	var health map[string]any
	decodeBody(t, resp, &health)
	if health["status"] != "ok" {
		t.Errorf("status = %v", health["status"])
	}
	if health["database"] != true {
		t.Error("database should be healthy")
	}
	if health["redis"] != true {
		t.Error("redis should be healthy")
	}
	if health["orders"] != true {
		t.Error("orders backend should be healthy")
	}

	// Fleet state reflects a fresh assignment via the event wiring
	resp = tc.do(t, http.MethodPost, "/api/vehicles", vehicleBody("AB1234"))
	var v store.Vehicle
	decodeBody(t, resp, &v)
	resp = tc.do(t, http.MethodPost, "/api/assign", map[string]any{
		"vehicle_id":     v.ID,
		"order_id":       "ORD1",
		"scheduled_date": "2099-01-01",
	})
	resp.Body.Close()

	resp = tc.do(t, http.MethodGet, "/api/fleetstate", nil)
	var states map[string]*livestate.VehicleState
	decodeBody(t, resp, &states)
	if len(states) != 1 {
		t.Fatalf("states = %d, want 1", len(states))
	}
	for _, s := range states {
		if s.ActiveCount != 1 {
			t.Errorf("ActiveCount = %d, want 1", s.ActiveCount)
		}
	}
}

func TestAuditAPI(t *testing.T) {
	tc := newTestServer(t, &stubBackend{})

	// Audit requires a session
	resp := tc.do(t, http.MethodGet, "/api/audit", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("audit without session: status = %d, want 401", resp.StatusCode)
	}

	tc.login(t)
	resp = tc.do(t, http.MethodPost, "/api/vehicles", vehicleBody("AB1234"))
	resp.Body.Close()

	resp = tc.do(t, http.MethodGet, "/api/audit", nil)
	var entries []*store.AuditEntry
	decodeBody(t, resp, &entries)
	if len(entries) != 1 {
		t.Fatalf("audit entries = %d, want 1", len(entries))
	}
	if entries[0].Action != "created" {
		t.Errorf("Action = %q", entries[0].Action)
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	tc := newTestServer(t, &stubBackend{})

	resp := tc.do(t, http.MethodPost, "/login", map[string]string{
		"username": "admin",
		"password": "wrong",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("bad password: status = %d, want 401", resp.StatusCode)
	}
}
