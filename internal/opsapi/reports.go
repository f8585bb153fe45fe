package opsapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/linnemanlabs/opsdeck/internal/report"
)

func (a *API) handleGenerateReport(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(attribute.String("opsdeck.report.kind", kind))

	cost, _ := a.state.Cost()
	snap := report.Snapshot{
		Events:     a.events.Recent(recentWindow),
		Compliance: a.state.Compliance(),
		Cost:       cost,
		Assets:     a.state.Assets(),
	}

	doc, err := a.reports.Assemble(r.Context(), kind, snap)
	if err != nil {
		if errors.Is(err, report.ErrUnknownKind) {
			http.Error(w, `{"error":"unknown analysis kind"}`, http.StatusBadRequest)
			return
		}
		a.logger.Error(r.Context(), err, "failed to assemble report", "kind", kind)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	span.SetAttributes(attribute.String("opsdeck.report.mode", string(doc.Mode)))
	a.writeJSON(w, http.StatusOK, doc)
}
