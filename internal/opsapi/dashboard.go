package opsapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/linnemanlabs/opsdeck/internal/assets"
)

func (a *API) handleDashboard(w http.ResponseWriter, r *http.Request) {
	cost, unit := a.state.Cost()
	a.writeJSON(w, http.StatusOK, map[string]any{
		"assets":     a.state.Assets(),
		"compliance": a.state.Compliance(),
		"cost":       cost,
		"cost_unit":  unit,
		"training":   a.state.Training(),
		"insights":   a.state.Insights(),
		"reviews":    a.state.Reviews(recentWindow),
	})
}

func (a *API) handleSimulateCost(w http.ResponseWriter, r *http.Request) {
	cost := a.state.SimulateCost()
	_, unit := a.state.Cost()

	a.logger.Info(r.Context(), "cost simulated", "cost", cost)
	a.writeJSON(w, http.StatusOK, map[string]any{
		"cost":      cost,
		"cost_unit": unit,
	})
}

func (a *API) handleToggleTraining(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(attribute.String("opsdeck.training.person", name))

	rec, err := a.state.ToggleTraining(name)
	if err != nil {
		if errors.Is(err, assets.ErrUnknownPerson) {
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
			return
		}
		a.logger.Error(r.Context(), err, "failed to toggle training", "person", name)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	a.writeJSON(w, http.StatusOK, rec)
}

func (a *API) handleRegenerateInsights(w http.ResponseWriter, r *http.Request) {
	insights := a.state.RegenerateInsights()

	a.logger.Info(r.Context(), "insights regenerated", "count", len(insights))
	a.writeJSON(w, http.StatusOK, map[string]any{
		"insights": insights,
	})
}
