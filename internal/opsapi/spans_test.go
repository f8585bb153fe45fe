package opsapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/linnemanlabs/opsdeck/internal/triage"
)

// serveInSpan runs a request inside a recording span so handler attribute
// annotations land somewhere observable.
func serveInSpan(t *testing.T, env *testEnv, exporter *tracetest.InMemoryExporter, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	// Shutdown resets the in-memory exporter, so it must run after the
	// test's assertions, not when this helper returns.
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	ctx, span := tp.Tracer("test").Start(context.Background(), "http.server")
	req := httptest.NewRequest(method, path, strings.NewReader(body)).WithContext(ctx)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	span.End()
	return rec
}

func TestHandleTriageEvent_AnnotatesSpan(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	id := submitEvent(t, env)

	exporter := tracetest.NewInMemoryExporter()
	rec := serveInSpan(t, env, exporter, http.MethodPost, "/api/v1/events/"+id+"/triage", allYes)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (body %s)", rec.Code, rec.Body.String())
	}

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}

	attrs := make(map[string]any)
	for _, a := range spans[0].Attributes {
		attrs[string(a.Key)] = a.Value.AsInterface()
	}
	if v, ok := attrs["opsdeck.event.id"]; !ok || v != id {
		t.Errorf("span opsdeck.event.id = %v, want %s", v, id)
	}
	if v, ok := attrs["opsdeck.triage.outcome"]; !ok || v != string(triage.OutcomeEscalate) {
		t.Errorf("span opsdeck.triage.outcome = %v, want %s", v, triage.OutcomeEscalate)
	}
}

func TestHandleGenerateReport_AnnotatesSpan(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	exporter := tracetest.NewInMemoryExporter()
	rec := serveInSpan(t, env, exporter, http.MethodPost, "/api/v1/reports/analyze", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}

	attrs := make(map[string]any)
	for _, a := range spans[0].Attributes {
		attrs[string(a.Key)] = a.Value.AsInterface()
	}
	if v, ok := attrs["opsdeck.report.kind"]; !ok || v != "analyze" {
		t.Errorf("span opsdeck.report.kind = %v, want analyze", v)
	}
	if v, ok := attrs["opsdeck.report.mode"]; !ok || v != "fallback" {
		t.Errorf("span opsdeck.report.mode = %v, want fallback", v)
	}
}
