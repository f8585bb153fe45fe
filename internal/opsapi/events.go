package opsapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/linnemanlabs/opsdeck/internal/alerts"
	"github.com/linnemanlabs/opsdeck/internal/catalog"
	"github.com/linnemanlabs/opsdeck/internal/event"
	"github.com/linnemanlabs/opsdeck/internal/triage"
)

type submitEventRequest struct {
	Type    string `json:"type"`
	Details string `json:"details"`
}

func (a *API) handleSubmitEvent(w http.ResponseWriter, r *http.Request) {
	var req submitEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid payload"}`, http.StatusBadRequest)
		return
	}

	ev, err := a.events.Append(req.Type, req.Details)
	if err != nil {
		if errors.Is(err, event.ErrEmptyField) {
			http.Error(w, `{"error":"type and details are required"}`, http.StatusBadRequest)
			return
		}
		a.logger.Error(r.Context(), err, "failed to append event")
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(attribute.String("opsdeck.event.id", ev.ID))

	a.logger.Info(r.Context(), "event submitted", "id", ev.ID, "type", ev.Type)
	a.writeJSON(w, http.StatusCreated, ev)
}

func (a *API) handleListEvents(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string]any{
		"events": a.events.Recent(recentWindow),
		"total":  a.events.Len(),
	})
}

// triageRequest uses pointers so an omitted answer is distinguishable from an
// explicit false. All five are required.
type triageRequest struct {
	SafetyImpact        *bool `json:"safetyImpact"`
	ComplianceDeviation *bool `json:"complianceDeviation"`
	AssetHealthRisk     *bool `json:"assetHealthRisk"`
	BudgetVariance      *bool `json:"budgetVariance"`
	TrainingGap         *bool `json:"trainingGap"`
}

func (req *triageRequest) answers() (triage.Answers, bool) {
	if req.SafetyImpact == nil || req.ComplianceDeviation == nil || req.AssetHealthRisk == nil ||
		req.BudgetVariance == nil || req.TrainingGap == nil {
		return triage.Answers{}, false
	}
	return triage.Answers{
		SafetyImpact:        *req.SafetyImpact,
		ComplianceDeviation: *req.ComplianceDeviation,
		AssetHealthRisk:     *req.AssetHealthRisk,
		BudgetVariance:      *req.BudgetVariance,
		TrainingGap:         *req.TrainingGap,
	}, true
}

// alertView decorates an alert with its display-ready urgency string.
type alertView struct {
	alerts.Alert
	Urgency string `json:"urgency"`
}

func viewOf(al alerts.Alert) alertView {
	return alertView{Alert: al, Urgency: alerts.FormatUrgency(al.RemainingSeconds)}
}

func (a *API) handleTriageEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(attribute.String("opsdeck.event.id", id))

	var req triageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid payload"}`, http.StatusBadRequest)
		return
	}

	ans, ok := req.answers()
	if !ok {
		http.Error(w, `{"error":"all five answers are required"}`, http.StatusBadRequest)
		return
	}

	rec, al, err := a.triage.Resolve(r.Context(), id, ans)
	if err != nil {
		switch {
		case errors.Is(err, event.ErrNotFound):
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		case errors.Is(err, event.ErrAlreadyResolved):
			http.Error(w, `{"error":"event already triaged"}`, http.StatusConflict)
		case errors.Is(err, catalog.ErrUnknownType):
			a.logger.Error(r.Context(), err, "triage routed to unknown alert type")
			http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		default:
			a.logger.Error(r.Context(), err, "failed to triage event")
			http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		}
		return
	}

	span.SetAttributes(attribute.String("opsdeck.triage.outcome", string(rec.Outcome)))

	resp := map[string]any{"record": rec}
	if al.ID != "" {
		resp["alert"] = viewOf(al)
	}
	a.writeJSON(w, http.StatusOK, resp)
}

func (a *API) handleTriageLog(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string]any{
		"records": a.triage.Records(recentWindow),
	})
}
