package opsapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

func (a *API) handleListAlerts(w http.ResponseWriter, r *http.Request) {
	active := a.alerts.Active(alertDisplayWindow)

	views := make([]alertView, 0, len(active))
	for _, al := range active {
		views = append(views, viewOf(al))
	}

	a.writeJSON(w, http.StatusOK, map[string]any{
		"alerts": views,
	})
}

func (a *API) handleDismissAlert(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(attribute.String("opsdeck.alert.id", id))

	// Dismissal is idempotent. Unknown and already-dismissed IDs fall through
	// to the same response so the display surface never has to special-case a
	// timer racing the click.
	a.alerts.Dismiss(r.Context(), id)

	w.WriteHeader(http.StatusNoContent)
}
