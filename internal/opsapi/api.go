// Package opsapi exposes the dashboard's HTTP surface: event submission,
// triage, the alert display window, report generation, and the mock
// operational state.
package opsapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/linnemanlabs/go-core/log"
	"github.com/linnemanlabs/go-core/xerrors"

	"github.com/linnemanlabs/opsdeck/internal/alerts"
	"github.com/linnemanlabs/opsdeck/internal/assets"
	"github.com/linnemanlabs/opsdeck/internal/event"
	"github.com/linnemanlabs/opsdeck/internal/report"
	"github.com/linnemanlabs/opsdeck/internal/triage"
)

// alertDisplayWindow caps the live alert list served to the display surface.
const alertDisplayWindow = 5

// recentWindow caps the event and triage logs served to the dashboard.
const recentWindow = 10

// TriageService defines the triage operations opsapi needs.
type TriageService interface {
	Resolve(ctx context.Context, eventID string, ans triage.Answers) (triage.Record, alerts.Alert, error)
	Records(n int) []triage.Record
}

// AlertService defines the alert operations opsapi needs.
type AlertService interface {
	Active(limit int) []alerts.Alert
	Dismiss(ctx context.Context, id string)
}

// ReportService defines the report operations opsapi needs.
type ReportService interface {
	Assemble(ctx context.Context, kind string, snap report.Snapshot) (*report.Document, error)
}

// API holds dependencies for HTTP handlers.
type API struct {
	logger  log.Logger
	events  *event.Store
	triage  TriageService
	alerts  AlertService
	reports ReportService
	state   *assets.State
}

// New creates a new API handler.
func New(logger log.Logger, events *event.Store, triageSvc TriageService, alertSvc AlertService, reportSvc ReportService, state *assets.State) *API {
	if logger == nil {
		logger = log.Nop()
	}
	if events == nil || triageSvc == nil || alertSvc == nil || reportSvc == nil || state == nil {
		panic(xerrors.New("all opsapi dependencies are required"))
	}
	return &API{
		logger:  logger,
		events:  events,
		triage:  triageSvc,
		alerts:  alertSvc,
		reports: reportSvc,
		state:   state,
	}
}

// RegisterRoutes attaches API endpoints to the router.
func (a *API) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/events", a.handleSubmitEvent)
		r.Get("/events", a.handleListEvents)
		r.Post("/events/{id}/triage", a.handleTriageEvent)
		r.Get("/triage", a.handleTriageLog)
		r.Get("/alerts", a.handleListAlerts)
		r.Post("/alerts/{id}/dismiss", a.handleDismissAlert)
		r.Post("/reports/{kind}", a.handleGenerateReport)
		r.Get("/assets", a.handleDashboard)
		r.Post("/assets/cost/simulate", a.handleSimulateCost)
		r.Post("/training/{name}/toggle", a.handleToggleTraining)
		r.Post("/insights/regenerate", a.handleRegenerateInsights)
	})
}

func (a *API) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
