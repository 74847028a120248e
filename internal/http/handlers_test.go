package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/helioworks/solar-fleet-telemetry/internal/database"
	"github.com/helioworks/solar-fleet-telemetry/internal/service"
)

// newTestApp wires a fiber app exactly like cmd/api does, over a fresh
// in-memory SQLite database.
func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	db, err := sqlx.Connect("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	Register(app, service.New(db))
	return app
}

const exampleBody = `{
	"panels": [
		{"name":"P1","power":10,"efficiency":90,"status":"online","temperature":40,"dirtLevel":5,"dustAccumulation":"low"},
		{"name":"P2","power":8,"efficiency":70,"status":"online","temperature":45,"dirtLevel":35,"dustAccumulation":"high"}
	],
	"totalPower": 18,
	"avgEfficiency": 80
}`

func doJSON(t *testing.T, app *fiber.App, method, target, body string) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	var parsed map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		t.Fatalf("%s %s: decode body: %v", method, target, err)
	}
	return resp, parsed
}

func TestServiceDescriptor(t *testing.T) {
	app := newTestApp(t)
	resp, body := doJSON(t, app, http.MethodGet, "/", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}
	if body["success"] != true {
		t.Fatalf("want success=true, got %v", body["success"])
	}
	if body["service"] == "" || body["endpoints"] == nil {
		t.Fatalf("descriptor incomplete: %v", body)
	}
}

func TestPostThenGetSnapshot(t *testing.T) {
	app := newTestApp(t)

	resp, body := doJSON(t, app, http.MethodPost, "/api/solar-data", exampleBody)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200, got %d: %v", resp.StatusCode, body)
	}
	if body["success"] != true {
		t.Fatalf("want success=true, got %v", body)
	}
	data, ok := body["data"].([]any)
	if !ok || len(data) != 2 {
		t.Fatalf("want 2 inserted rows in data, got %v", body["data"])
	}

	resp, body = doJSON(t, app, http.MethodGet, "/api/solar-data?limit=100", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}
	if body["count"] != float64(2) {
		t.Fatalf("want count=2, got %v", body["count"])
	}
}

func TestPostMalformedPanels(t *testing.T) {
	app := newTestApp(t)

	for _, bad := range []string{
		`{"panels":"not-an-array"}`,
		`{"totalPower":18}`,
		`not json at all`,
	} {
		resp, body := doJSON(t, app, http.MethodPost, "/api/solar-data", bad)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("body %q: want 400, got %d", bad, resp.StatusCode)
		}
		if body["success"] != false || body["error"] == nil {
			t.Fatalf("body %q: want error envelope, got %v", bad, body)
		}
	}

	// Nothing may have been written.
	_, body := doJSON(t, app, http.MethodGet, "/api/solar-data", "")
	if body["count"] != float64(0) {
		t.Fatalf("rejected posts wrote rows: %v", body)
	}
}

func TestPanelHistoryEndpoint(t *testing.T) {
	app := newTestApp(t)

	doJSON(t, app, http.MethodPost, "/api/solar-data", exampleBody)
	doJSON(t, app, http.MethodPost, "/api/solar-data", exampleBody)

	resp, body := doJSON(t, app, http.MethodGet, "/api/solar-data/P1?limit=10", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}
	if body["panelName"] != "P1" {
		t.Fatalf("want panelName=P1, got %v", body["panelName"])
	}
	if body["count"] != float64(2) {
		t.Fatalf("want count=2, got %v", body["count"])
	}
}

func TestStatsEndpoint(t *testing.T) {
	app := newTestApp(t)

	doJSON(t, app, http.MethodPost, "/api/solar-data", exampleBody)

	resp, body := doJSON(t, app, http.MethodGet, "/api/stats?days=3", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}
	if body["period"] != "3 days" {
		t.Fatalf("want period=3 days, got %v", body["period"])
	}
	data, ok := body["data"].([]any)
	if !ok || len(data) != 1 {
		t.Fatalf("want one aggregate row, got %v", body["data"])
	}
	row := data[0].(map[string]any)
	if row["cleanPanelCount"] != float64(1) || row["dirtyPanelCount"] != float64(1) {
		t.Fatalf("unexpected aggregate: %v", row)
	}

	// Default period.
	_, body = doJSON(t, app, http.MethodGet, "/api/stats", "")
	if body["period"] != "7 days" {
		t.Fatalf("want default period=7 days, got %v", body["period"])
	}
}

func TestCleanupEndpoint(t *testing.T) {
	app := newTestApp(t)

	doJSON(t, app, http.MethodPost, "/api/solar-data", exampleBody)

	resp, body := doJSON(t, app, http.MethodDelete, "/api/solar-data/cleanup/abc", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("non-numeric days: want 400, got %d", resp.StatusCode)
	}
	if body["success"] != false {
		t.Fatalf("want success=false, got %v", body)
	}

	resp, body = doJSON(t, app, http.MethodDelete, "/api/solar-data/cleanup/0", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}
	if body["success"] != true || !strings.Contains(body["message"].(string), "2") {
		t.Fatalf("want 2 deleted reported, got %v", body)
	}
}

func TestHealthEndpoint(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if string(raw) != "ok" {
		t.Fatalf("want body ok, got %q", raw)
	}
}

func TestReportRoutesDisabled(t *testing.T) {
	app := newTestApp(t)

	for _, route := range []struct{ method, target string }{
		{http.MethodPost, "/api/reports/export"},
		{http.MethodGet, "/api/reports"},
	} {
		resp, body := doJSON(t, app, route.method, route.target, "")
		if resp.StatusCode != http.StatusServiceUnavailable {
			t.Fatalf("%s %s: want 503 without cloud services, got %d", route.method, route.target, resp.StatusCode)
		}
		if body["success"] != false {
			t.Fatalf("%s %s: want success=false, got %v", route.method, route.target, body)
		}
	}
}
