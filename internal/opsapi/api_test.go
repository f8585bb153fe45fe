package opsapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/linnemanlabs/opsdeck/internal/alerts"
	"github.com/linnemanlabs/opsdeck/internal/assets"
	"github.com/linnemanlabs/opsdeck/internal/event"
	"github.com/linnemanlabs/opsdeck/internal/report"
	"github.com/linnemanlabs/opsdeck/internal/triage"
)

// testEnv wires real components behind the API so handler tests exercise the
// same paths production does. The alert interval is an hour so countdowns
// never fire mid-test.
type testEnv struct {
	router  chi.Router
	events  *event.Store
	manager *alerts.Manager
	state   *assets.State
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	events := event.NewStore()
	manager := alerts.NewManager(nil, nil, nil, time.Hour)
	t.Cleanup(manager.Close)
	orch := triage.NewOrchestrator(events, manager, nil, nil, nil)
	assembler := report.NewAssembler(nil, 0, nil, nil)
	state := assets.NewState()

	api := New(nil, events, orch, manager, assembler, state)
	r := chi.NewRouter()
	api.RegisterRoutes(r)

	return &testEnv{router: r, events: events, manager: manager, state: state}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp
}

// allYes answers every triage question true, routing to Escalate.
const allYes = `{"safetyImpact":true,"complianceDeviation":true,"assetHealthRisk":true,"budgetVariance":true,"trainingGap":true}`

// allNo answers every question false, routing to Auto-Resolve.
const allNo = `{"safetyImpact":false,"complianceDeviation":false,"assetHealthRisk":false,"budgetVariance":false,"trainingGap":false}`

// New / constructor

func TestNew_NilLogger(t *testing.T) {
	t.Parallel()

	events := event.NewStore()
	manager := alerts.NewManager(nil, nil, nil, time.Hour)
	defer manager.Close()
	orch := triage.NewOrchestrator(events, manager, nil, nil, nil)

	api := New(nil, events, orch, manager, report.NewAssembler(nil, 0, nil, nil), assets.NewState())
	if api == nil {
		t.Fatal("New returned nil API")
	}
	if api.logger == nil {
		t.Fatal("New left logger nil; expected Nop logger")
	}
}

func TestNew_NilDependency_Panics(t *testing.T) {
	t.Parallel()

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("New with nil store did not panic")
		}
	}()
	New(nil, nil, nil, nil, nil, nil)
}

// Events

func TestHandleSubmitEvent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"valid", `{"type":"Gas leak detected","details":"Sector 7 reading 3x threshold"}`, http.StatusCreated},
		{"missing type", `{"details":"something"}`, http.StatusBadRequest},
		{"missing details", `{"type":"Leak"}`, http.StatusBadRequest},
		{"whitespace only", `{"type":"   ","details":"x"}`, http.StatusBadRequest},
		{"invalid JSON", `{bad`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(t)
			rec := env.do(t, http.MethodPost, "/api/v1/events", tt.body)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantStatus == http.StatusCreated {
				resp := decode(t, rec)
				if resp["id"] == "" || resp["id"] == nil {
					t.Error("created event has no id")
				}
				if resp["status"] != string(event.StatusPending) {
					t.Errorf("status = %v, want %q", resp["status"], event.StatusPending)
				}
			}
		})
	}
}

func TestHandleListEvents_WindowAndOrder(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	for i := 0; i < 12; i++ {
		rec := env.do(t, http.MethodPost, "/api/v1/events",
			fmt.Sprintf(`{"type":"Event %d","details":"d"}`, i))
		if rec.Code != http.StatusCreated {
			t.Fatalf("seed event %d: status %d", i, rec.Code)
		}
	}

	rec := env.do(t, http.MethodGet, "/api/v1/events", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	resp := decode(t, rec)
	list := resp["events"].([]any)
	if len(list) != 10 {
		t.Fatalf("got %d events, want 10", len(list))
	}
	if resp["total"].(float64) != 12 {
		t.Errorf("total = %v, want 12", resp["total"])
	}
	first := list[0].(map[string]any)
	if first["type"] != "Event 11" {
		t.Errorf("first event = %v, want newest (Event 11)", first["type"])
	}
}

// Triage

func submitEvent(t *testing.T, env *testEnv) string {
	t.Helper()
	rec := env.do(t, http.MethodPost, "/api/v1/events", `{"type":"Pressure spike","details":"Line B"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit event: status %d", rec.Code)
	}
	return decode(t, rec)["id"].(string)
}

func TestHandleTriageEvent_Escalate(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	id := submitEvent(t, env)

	rec := env.do(t, http.MethodPost, "/api/v1/events/"+id+"/triage", allYes)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (body %s)", rec.Code, rec.Body.String())
	}

	resp := decode(t, rec)
	record := resp["record"].(map[string]any)
	if record["outcome"] != string(triage.OutcomeEscalate) {
		t.Errorf("outcome = %v, want %q", record["outcome"], triage.OutcomeEscalate)
	}

	al, ok := resp["alert"].(map[string]any)
	if !ok {
		t.Fatal("expected alert in response")
	}
	if al["type"] != "Critical Safety" {
		t.Errorf("alert type = %v, want Critical Safety", al["type"])
	}
	if al["urgency"] != "1m" {
		t.Errorf("urgency = %v, want 1m", al["urgency"])
	}
}

func TestHandleTriageEvent_AutoResolve(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	id := submitEvent(t, env)

	rec := env.do(t, http.MethodPost, "/api/v1/events/"+id+"/triage", allNo)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	resp := decode(t, rec)
	record := resp["record"].(map[string]any)
	if record["outcome"] != string(triage.OutcomeAutoResolve) {
		t.Errorf("outcome = %v, want %q", record["outcome"], triage.OutcomeAutoResolve)
	}
	if record["alert_type"] != "Rounding" {
		t.Errorf("alert_type = %v, want Rounding", record["alert_type"])
	}
}

func TestHandleTriageEvent_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"missing answer", `{"safetyImpact":true,"complianceDeviation":false,"assetHealthRisk":false,"budgetVariance":false}`, http.StatusBadRequest},
		{"empty body", `{}`, http.StatusBadRequest},
		{"invalid JSON", `{bad`, http.StatusBadRequest},
		{"non-boolean answer", `{"safetyImpact":"yes","complianceDeviation":false,"assetHealthRisk":false,"budgetVariance":false,"trainingGap":false}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(t)
			id := submitEvent(t, env)
			rec := env.do(t, http.MethodPost, "/api/v1/events/"+id+"/triage", tt.body)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestHandleTriageEvent_UnknownEvent(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/api/v1/events/nope/triage", allNo)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandleTriageEvent_AlreadyTriaged(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	id := submitEvent(t, env)

	if rec := env.do(t, http.MethodPost, "/api/v1/events/"+id+"/triage", allNo); rec.Code != http.StatusOK {
		t.Fatalf("first triage: status %d", rec.Code)
	}
	rec := env.do(t, http.MethodPost, "/api/v1/events/"+id+"/triage", allYes)
	if rec.Code != http.StatusConflict {
		t.Errorf("second triage: status = %d, want 409", rec.Code)
	}
}

func TestHandleTriageLog(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	id := submitEvent(t, env)
	env.do(t, http.MethodPost, "/api/v1/events/"+id+"/triage", allYes)

	rec := env.do(t, http.MethodGet, "/api/v1/triage", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	resp := decode(t, rec)
	records := resp["records"].([]any)
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].(map[string]any)["event_id"] != id {
		t.Errorf("record event_id = %v, want %s", records[0].(map[string]any)["event_id"], id)
	}
}

// Alerts

func TestHandleListAlerts_DisplayWindow(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	for i := 0; i < 7; i++ {
		id := submitEvent(t, env)
		if rec := env.do(t, http.MethodPost, "/api/v1/events/"+id+"/triage", allYes); rec.Code != http.StatusOK {
			t.Fatalf("triage %d: status %d", i, rec.Code)
		}
	}

	rec := env.do(t, http.MethodGet, "/api/v1/alerts", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	resp := decode(t, rec)
	list := resp["alerts"].([]any)
	if len(list) != 5 {
		t.Fatalf("got %d alerts, want display window of 5", len(list))
	}
	for _, raw := range list {
		al := raw.(map[string]any)
		if al["urgency"] != "1m" {
			t.Errorf("urgency = %v, want 1m", al["urgency"])
		}
	}
}

func TestHandleDismissAlert(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	id := submitEvent(t, env)
	rec := env.do(t, http.MethodPost, "/api/v1/events/"+id+"/triage", allYes)
	alertID := decode(t, rec)["alert"].(map[string]any)["id"].(string)

	if rec := env.do(t, http.MethodPost, "/api/v1/alerts/"+alertID+"/dismiss", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("dismiss: status = %d, want 204", rec.Code)
	}

	// idempotent, including unknown IDs
	if rec := env.do(t, http.MethodPost, "/api/v1/alerts/"+alertID+"/dismiss", ""); rec.Code != http.StatusNoContent {
		t.Errorf("repeat dismiss: status = %d, want 204", rec.Code)
	}
	if rec := env.do(t, http.MethodPost, "/api/v1/alerts/unknown/dismiss", ""); rec.Code != http.StatusNoContent {
		t.Errorf("unknown dismiss: status = %d, want 204", rec.Code)
	}

	listRec := env.do(t, http.MethodGet, "/api/v1/alerts", "")
	if list := decode(t, listRec)["alerts"].([]any); len(list) != 0 {
		t.Errorf("dismissed alert still listed: %v", list)
	}
}

// Reports

func TestHandleGenerateReport_Fallback(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	submitEvent(t, env)

	rec := env.do(t, http.MethodPost, "/api/v1/reports/report", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (body %s)", rec.Code, rec.Body.String())
	}

	resp := decode(t, rec)
	if resp["mode"] != string(report.ModeFallback) {
		t.Errorf("mode = %v, want fallback (no enricher wired)", resp["mode"])
	}
	filename := resp["filename"].(string)
	if !strings.HasPrefix(filename, "opsdeck-report-") || !strings.HasSuffix(filename, ".pdf") {
		t.Errorf("filename = %q", filename)
	}
}

func TestHandleGenerateReport_UnknownKind(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/api/v1/reports/divination", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

// Dashboard state

func TestHandleDashboard(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/api/v1/assets", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	resp := decode(t, rec)
	if got := len(resp["assets"].([]any)); got != 3 {
		t.Errorf("got %d assets, want 3", got)
	}
	if resp["compliance"].(float64) != 92 {
		t.Errorf("compliance = %v, want 92", resp["compliance"])
	}
	if got := len(resp["insights"].([]any)); got != 5 {
		t.Errorf("got %d insights, want 5", got)
	}
	if got := len(resp["training"].([]any)); got != 3 {
		t.Errorf("got %d training records, want 3", got)
	}
}

func TestHandleSimulateCost(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/api/v1/assets/cost/simulate", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	cost := decode(t, rec)["cost"].(float64)
	if cost < 0.50 || cost > 2.50 {
		t.Errorf("cost = %v, want within 0.50..2.50", cost)
	}
}

func TestHandleToggleTraining(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	name := env.state.Training()[0].Name

	rec := env.do(t, http.MethodPost, "/api/v1/training/"+name+"/toggle", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	if rec := env.do(t, http.MethodPost, "/api/v1/training/nobody/toggle", ""); rec.Code != http.StatusNotFound {
		t.Errorf("unknown person: status = %d, want 404", rec.Code)
	}
}

func TestHandleRegenerateInsights(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/api/v1/insights/regenerate", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	if got := len(decode(t, rec)["insights"].([]any)); got != 5 {
		t.Errorf("got %d insights, want 5", got)
	}
}

// Routing

func TestRegisterRoutes_MethodsAndNotFound(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{"PUT events", http.MethodPut, "/api/v1/events", http.StatusMethodNotAllowed},
		{"DELETE alerts", http.MethodDelete, "/api/v1/alerts", http.StatusMethodNotAllowed},
		{"GET reports", http.MethodGet, "/api/v1/reports/report", http.StatusMethodNotAllowed},
		{"unknown path", http.MethodGet, "/api/v1/unknown", http.StatusNotFound},
		{"v2 prefix", http.MethodGet, "/api/v2/events", http.StatusNotFound},
		{"root", http.MethodGet, "/", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := env.do(t, tt.method, tt.path, "")
			if rec.Code != tt.wantStatus {
				t.Errorf("%s %s = %d, want %d", tt.method, tt.path, rec.Code, tt.wantStatus)
			}
		})
	}
}

// Fuzz

func FuzzSubmitEvent(f *testing.F) {
	events := event.NewStore()
	manager := alerts.NewManager(nil, nil, nil, time.Hour)
	orch := triage.NewOrchestrator(events, manager, nil, nil, nil)
	api := New(nil, events, orch, manager, report.NewAssembler(nil, 0, nil, nil), assets.NewState())
	r := chi.NewRouter()
	api.RegisterRoutes(r)

	seeds := []string{
		``,
		`{}`,
		`{"type":"Leak","details":"Sector 7"}`,
		`{"type":"","details":""}`,
		`{invalid`,
		`{"type":123,"details":true}`,
		strings.Repeat("a", 10000),
	}
	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, body string) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/events", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		// Must not panic
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated && rec.Code != http.StatusBadRequest {
			t.Errorf("POST /api/v1/events with body len=%d = %d, want 201 or 400", len(body), rec.Code)
		}
	})
}
