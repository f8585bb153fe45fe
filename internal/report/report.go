// Package report assembles downloadable documents from a dashboard snapshot.
// Assembly races an AI enrichment call against a hard deadline: the first to
// finish wins, the loser is cancelled, and the fallback path never sees
// partial remote output.
package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/linnemanlabs/go-core/log"
	"github.com/linnemanlabs/go-core/xerrors"

	"github.com/linnemanlabs/opsdeck/internal/assets"
	"github.com/linnemanlabs/opsdeck/internal/event"
	"github.com/linnemanlabs/opsdeck/internal/llm/gemini"
)

// ErrUnknownKind is returned for analysis kinds outside the contract.
var ErrUnknownKind = xerrors.New("unknown analysis kind")

// DefaultTimeout is the deadline the enrichment call races against.
const DefaultTimeout = 10 * time.Second

// maxEventsInReport caps the event list rendered into a document.
const maxEventsInReport = 8

// Mode records which assembly path produced a document.
type Mode string

const (
	// ModeEnriched means the remote call won the race.
	ModeEnriched Mode = "enriched"

	// ModeFallback means the deadline won or the remote call failed.
	ModeFallback Mode = "fallback"
)

// Snapshot is the input to document assembly.
type Snapshot struct {
	Events     []event.Event  `json:"events"`
	Compliance int            `json:"compliance"`
	Cost       float64        `json:"cost"`
	Assets     []assets.Asset `json:"assets"`
}

// Document is the assembled report. Rendering to bytes (PDF or otherwise) is
// a consumer concern.
type Document struct {
	Filename    string    `json:"filename"`
	Kind        string    `json:"kind"`
	GeneratedAt time.Time `json:"generated_at"`
	Mode        Mode      `json:"mode"`
	Lines       []string  `json:"lines"`
}

// fallbackInsights are the fixed bullets every fallback document carries.
var fallbackInsights = []string{
	"Analysis completed via PDF generation to optimize performance",
	"Key findings and recommendations included",
	"Data compiled from facility monitoring systems",
	"Compliance and risk assessment provided",
	"Maintenance recommendations generated",
}

// Enricher generates free text for an analysis endpoint. Satisfied by
// *gemini.Client.
type Enricher interface {
	Generate(ctx context.Context, endpoint string, payload any) (string, error)
}

// Assembler produces documents from snapshots.
type Assembler struct {
	enricher Enricher // nil means fallback-only
	timeout  time.Duration
	logger   log.Logger
	metrics  *Metrics
}

// NewAssembler creates an assembler. A nil enricher disables the enriched
// path entirely; a non-positive timeout gets DefaultTimeout.
func NewAssembler(enricher Enricher, timeout time.Duration, logger log.Logger, metrics *Metrics) *Assembler {
	if logger == nil {
		logger = log.Nop()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Assembler{
		enricher: enricher,
		timeout:  timeout,
		logger:   logger,
		metrics:  metrics,
	}
}

// Assemble produces a document for the given analysis kind. Exactly one of
// the two paths runs to completion per invocation: either the enrichment
// result is rendered verbatim, or the deterministic fallback is built from
// the snapshot alone.
func (a *Assembler) Assemble(ctx context.Context, kind string, snap Snapshot) (*Document, error) {
	payload, err := buildPayload(kind, snap)
	if err != nil {
		return nil, err
	}

	if a.enricher == nil {
		return a.fallback(ctx, kind, snap), nil
	}

	cctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	type genResult struct {
		text string
		err  error
	}
	// buffered so the losing goroutine can always deliver and exit
	ch := make(chan genResult, 1)
	start := time.Now()
	go func() {
		text, err := a.enricher.Generate(cctx, kind, payload)
		ch <- genResult{text: text, err: err}
	}()

	select {
	case r := <-ch:
		if a.metrics != nil {
			a.metrics.EnrichDuration.Observe(time.Since(start).Seconds())
		}
		if r.err != nil {
			a.logger.Warn(ctx, "enrichment failed, using fallback", "kind", kind, "error", r.err.Error())
			return a.fallback(ctx, kind, snap), nil
		}
		return a.enriched(ctx, kind, r.text), nil
	case <-cctx.Done():
		// deadline won; cancel retires the in-flight call and any late
		// result is ignored
		a.logger.Warn(ctx, "enrichment deadline elapsed, using fallback", "kind", kind, "timeout", a.timeout.String())
		return a.fallback(ctx, kind, snap), nil
	}
}

func (a *Assembler) enriched(ctx context.Context, kind, text string) *Document {
	doc := newDocument(kind, ModeEnriched)
	doc.Lines = strings.Split(strings.TrimRight(text, "\n"), "\n")
	a.finish(ctx, doc)
	return doc
}

// fallback synthesizes a deterministic document from the snapshot with no
// external dependency. Section order is fixed.
func (a *Assembler) fallback(ctx context.Context, kind string, snap Snapshot) *Document {
	doc := newDocument(kind, ModeFallback)

	lines := []string{
		"Opsdeck AI Analysis Report",
		"Generated: " + doc.GeneratedAt.Format(time.RFC3339),
		"Analysis Type: " + kind,
		"",
		"Recent Events:",
	}

	events := snap.Events
	if len(events) > maxEventsInReport {
		events = events[:maxEventsInReport]
	}
	if len(events) == 0 {
		lines = append(lines, "  (none)")
	}
	for _, ev := range events {
		lines = append(lines, fmt.Sprintf("  - %s: %s (%s)", ev.Type, ev.Details, ev.Status))
	}

	lines = append(lines,
		"",
		fmt.Sprintf("Compliance Rate: %d%%", snap.Compliance),
		fmt.Sprintf("Current Cost: $%.2fM", snap.Cost),
		"",
		"Asset Status:",
	)
	for _, as := range snap.Assets {
		lines = append(lines, fmt.Sprintf("  - %s: %s (Risk: %s)", as.Name, as.Status, as.Risk))
	}

	lines = append(lines, "", "AI-Generated Insights:")
	for _, insight := range fallbackInsights {
		lines = append(lines, "  * "+insight)
	}

	doc.Lines = lines
	a.finish(ctx, doc)
	return doc
}

func (a *Assembler) finish(ctx context.Context, doc *Document) {
	if a.metrics != nil {
		a.metrics.AssembliesTotal.WithLabelValues(doc.Kind, string(doc.Mode)).Inc()
	}
	a.logger.Info(ctx, "report assembled", "kind", doc.Kind, "mode", string(doc.Mode), "lines", len(doc.Lines))
}

func newDocument(kind string, mode Mode) *Document {
	now := time.Now()
	return &Document{
		Filename:    fmt.Sprintf("opsdeck-%s-%d.pdf", strings.ToLower(kind), now.UnixMilli()),
		Kind:        kind,
		GeneratedAt: now,
		Mode:        mode,
	}
}

// buildPayload selects the snapshot fields each endpoint receives.
func buildPayload(kind string, snap Snapshot) (map[string]any, error) {
	switch kind {
	case gemini.EndpointAnalyze:
		return map[string]any{"events": snap.Events}, nil
	case gemini.EndpointReport:
		return map[string]any{"events": snap.Events, "compliance": snap.Compliance, "cost": snap.Cost}, nil
	case gemini.EndpointPredict:
		return map[string]any{"assets": snap.Assets}, nil
	case gemini.EndpointPDFContent:
		return map[string]any{
			"events":     snap.Events,
			"compliance": snap.Compliance,
			"cost":       snap.Cost,
			"assets":     snap.Assets,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}
