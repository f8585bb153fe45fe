package triage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/linnemanlabs/go-core/log"
	"github.com/oklog/ulid/v2"

	"github.com/linnemanlabs/opsdeck/internal/alerts"
	"github.com/linnemanlabs/opsdeck/internal/catalog"
	"github.com/linnemanlabs/opsdeck/internal/event"
)

// AlertSpawner creates alerts from triage outcomes. Satisfied by
// *alerts.Manager.
type AlertSpawner interface {
	Create(ctx context.Context, typeKey string, ev event.Event) (alerts.Alert, error)
}

// Orchestrator resolves events through the routing decision table. It is the
// only component that mutates event status, and it owns the append-only
// record log.
type Orchestrator struct {
	events   *event.Store
	spawner  AlertSpawner
	notifier alerts.Notifier
	logger   log.Logger
	metrics  *Metrics

	mu      sync.RWMutex
	records []*Record // newest first
}

// NewOrchestrator creates a triage orchestrator.
func NewOrchestrator(events *event.Store, spawner AlertSpawner, notifier alerts.Notifier, logger log.Logger, metrics *Metrics) *Orchestrator {
	if logger == nil {
		logger = log.Nop()
	}
	if notifier == nil {
		notifier = alerts.NopNotifier{}
	}
	return &Orchestrator{
		events:   events,
		spawner:  spawner,
		notifier: notifier,
		logger:   logger,
		metrics:  metrics,
	}
}

// Resolve walks ev through the decision table: the outcome is written to the
// event, exactly one record is appended to the log, and an alert is spawned
// for the selected type. Alert-creation failure is scoped to the alert: the
// routing outcome and record still stand.
func (o *Orchestrator) Resolve(ctx context.Context, eventID string, ans Answers) (Record, alerts.Alert, error) {
	outcome, alertType := route(ans)

	ev, err := o.events.Resolve(eventID, outcome.Status())
	if err != nil {
		return Record{}, alerts.Alert{}, fmt.Errorf("resolve event: %w", err)
	}

	def, err := catalog.Lookup(alertType)
	if err != nil {
		// the decision table only emits catalog keys
		return Record{}, alerts.Alert{}, err
	}

	rec := &Record{
		ID:           ulid.Make().String(),
		EventID:      ev.ID,
		EventType:    ev.Type,
		EventDetails: ev.Details,
		Answers:      ans,
		Outcome:      outcome,
		AlertType:    alertType,
		Severity:     def.Severity,
		CreatedAt:    time.Now(),
	}

	o.mu.Lock()
	o.records = append([]*Record{rec}, o.records...)
	o.mu.Unlock()

	if o.metrics != nil {
		o.metrics.TriagesTotal.WithLabelValues(string(outcome)).Inc()
	}

	o.logger.Info(ctx, "event triaged",
		"event_id", ev.ID,
		"outcome", string(outcome),
		"alert_type", alertType,
	)

	al, err := o.spawner.Create(ctx, alertType, ev)
	if err != nil {
		if o.metrics != nil {
			o.metrics.AlertFailures.Inc()
		}
		o.logger.Error(ctx, err, "alert creation failed", "event_id", ev.ID, "alert_type", alertType)
		al = alerts.Alert{}
	}

	o.notifier.Notify(ctx, fmt.Sprintf("Event processed: %s", outcome))

	return *rec, al, nil
}

// Records returns copies of up to n log entries, newest first.
func (o *Orchestrator) Records(n int) []Record {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if n > len(o.records) {
		n = len(o.records)
	}
	out := make([]Record, 0, n)
	for _, r := range o.records[:n] {
		out = append(out, *r)
	}
	return out
}

// Len returns the number of records in the log.
func (o *Orchestrator) Len() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.records)
}
