package report

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"go-dashboard/internal/config"
	"go-dashboard/internal/upstream"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, client *stubClient) *fiber.App {
	t.Helper()
	svc, _ := newTestService(client)
	cfg := &config.Config{SkipAuth: true, DefaultTimeZone: "UTC"}
	app := fiber.New()
	NewReportApi(NewReportController(svc), cfg).Setup(app)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, target, body string) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func mountCalls(t *testing.T, app *fiber.App) string {
	t.Helper()
	status, snap := doJSON(t, app, http.MethodPost, "/api/views", `{"report":"calls"}`)
	require.Equal(t, fiber.StatusCreated, status)
	return snap["id"].(string)
}

func TestCatalogEndpoint(t *testing.T) {
	app := newTestApp(t, okClient())

	status, body := doJSON(t, app, http.MethodGet, "/api/reports", "")
	require.Equal(t, fiber.StatusOK, status)

	reports := body["reports"].([]any)
	assert.Len(t, reports, len(Catalog()))
	assert.Len(t, body["presets"].([]any), 16)
	assert.Equal(t, []any{50.0, 100.0, 250.0, 500.0}, body["page_sizes"])
}

func TestViewLifecycleOverHTTP(t *testing.T) {
	client := okClient()
	app := newTestApp(t, client)
	id := mountCalls(t, app)

	status, snap := doJSON(t, app, http.MethodPut, "/api/views/"+id+"/search", `{"search":"smith"}`)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "smith", snap["state"].(map[string]any)["search"])
	assert.Equal(t, "smith", client.Calls()[1].Form.Get("search"))

	status, snap = doJSON(t, app, http.MethodPut, "/api/views/"+id+"/date-range", `{"preset":"yesterday"}`)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, snap["report_is_deprecated"])
	assert.Len(t, client.Calls(), 2)

	status, snap = doJSON(t, app, http.MethodPost, "/api/views/"+id+"/refresh", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, false, snap["report_is_deprecated"])

	status, snap = doJSON(t, app, http.MethodPost, "/api/views/"+id+"/sort/duration", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, map[string]any{"field": "duration", "direction": "down"}, snap["state"].(map[string]any)["sort"])

	status, snap = doJSON(t, app, http.MethodPost, "/api/views/"+id+"/page/next", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 2.0, snap["pagination"].(map[string]any)["page"])

	status, snap = doJSON(t, app, http.MethodPut, "/api/views/"+id+"/filters/call_type", `{"value":"Inbound","on":true}`)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 1.0, snap["state"].(map[string]any)["page"])
	assert.JSONEq(t, `{"call_type":["Inbound"]}`, client.Calls()[len(client.Calls())-1].Form.Get("filter_field"))

	status, _ = doJSON(t, app, http.MethodDelete, "/api/views/"+id, "")
	assert.Equal(t, fiber.StatusNoContent, status)
	status, _ = doJSON(t, app, http.MethodGet, "/api/views/"+id, "")
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestCustomDateRangeOverHTTP(t *testing.T) {
	app := newTestApp(t, okClient())
	id := mountCalls(t, app)

	status, snap := doJSON(t, app, http.MethodPut, "/api/views/"+id+"/date-range", `{"min_date":"2024-06-01","max_date":"2024-06-05"}`)
	require.Equal(t, fiber.StatusOK, status)
	state := snap["state"].(map[string]any)
	assert.Equal(t, "custom", state["preset"])
	assert.Equal(t, "2024-06-01T00:00:00Z", state["min_date"])
	assert.Equal(t, "2024-06-05T23:59:59.999Z", state["max_date"])
}

func TestErrorMapping(t *testing.T) {
	app := newTestApp(t, okClient())
	id := mountCalls(t, app)

	tests := []struct {
		name   string
		method string
		target string
		body   string
		want   int
	}{
		{"unknown report", http.MethodPost, "/api/views", `{"report":"invoices"}`, fiber.StatusNotFound},
		{"unknown view", http.MethodGet, "/api/views/nope", "", fiber.StatusNotFound},
		{"bad page size", http.MethodPut, "/api/views/" + id + "/page-size", `{"page_size":7}`, fiber.StatusBadRequest},
		{"bad direction", http.MethodPut, "/api/views/" + id + "/sort", `{"field":"duration","direction":"sideways"}`, fiber.StatusBadRequest},
		{"bad preset", http.MethodPut, "/api/views/" + id + "/date-range", `{"preset":"next_decade"}`, fiber.StatusBadRequest},
		{"bad date", http.MethodPut, "/api/views/" + id + "/date-range", `{"min_date":"June first"}`, fiber.StatusBadRequest},
		{"date type on single-date report", http.MethodPut, "/api/views/" + id + "/date-range", `{"date_type":"schedule"}`, fiber.StatusBadRequest},
		{"filter not on report", http.MethodPut, "/api/views/" + id + "/filters/job_type", `{"value":"Repair","on":true}`, fiber.StatusBadRequest},
		{"tags not on report", http.MethodPut, "/api/views/" + id + "/tags", `{"value":"vip","on":true}`, fiber.StatusBadRequest},
		{"malformed body", http.MethodPut, "/api/views/" + id + "/search", `{`, fiber.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := doJSON(t, app, tt.method, tt.target, tt.body)
			assert.Equal(t, tt.want, status)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestUpstreamFailureIsNotAFailedRequest(t *testing.T) {
	var fail atomic.Bool
	client := &stubClient{respond: func(postCall) ([]byte, error) {
		if fail.Load() {
			return nil, &upstream.Error{Kind: upstream.KindServer, Status: 500, Text: "Database is down"}
		}
		return rowsBody("calls", "ok"), nil
	}}
	app := newTestApp(t, client)
	id := mountCalls(t, app)

	fail.Store(true)
	status, snap := doJSON(t, app, http.MethodPost, "/api/views/"+id+"/refresh", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, snap["loaded"])
	lastErr := snap["last_error"].(map[string]any)
	assert.Equal(t, "Database is down", lastErr["error_text"])
	assert.Equal(t, "server", lastErr["kind"])
}

func TestExportEndpoint(t *testing.T) {
	app := newTestApp(t, okClient())
	id := mountCalls(t, app)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/views/"+id+"/export", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", resp.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename="calls_20240610_103000.xlsx"`, resp.Header.Get("Content-Disposition"))
}

func TestRejectedDateRangeLeavesViewUntouched(t *testing.T) {
	app := newTestApp(t, okClient())
	status, snap := doJSON(t, app, http.MethodPost, "/api/views", `{"report":"jobs"}`)
	require.Equal(t, fiber.StatusCreated, status)
	id := snap["id"].(string)

	for _, body := range []string{
		`{"date_type":"schedule","preset":"bogus"}`,
		`{"date_type":"schedule","min_date":"June first"}`,
		`{"date_type":"schedule","preset":"yesterday","min_date":"2024-07-01"}`,
	} {
		status, resp := doJSON(t, app, http.MethodPut, "/api/views/"+id+"/date-range", body)
		assert.Equal(t, fiber.StatusBadRequest, status, body)
		assert.NotEmpty(t, resp["error"], body)
	}

	status, snap = doJSON(t, app, http.MethodGet, "/api/views/"+id, "")
	require.Equal(t, fiber.StatusOK, status)
	state := snap["state"].(map[string]any)
	assert.Equal(t, "created", state["date_type"])
	assert.Equal(t, "today", state["preset"])
	assert.Equal(t, false, snap["report_is_deprecated"])
}
