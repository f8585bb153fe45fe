package alerts

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/linnemanlabs/go-core/log"
	"github.com/oklog/ulid/v2"

	"github.com/linnemanlabs/opsdeck/internal/catalog"
	"github.com/linnemanlabs/opsdeck/internal/event"
)

// Notifier receives user-facing notices such as auto-dismissal messages.
type Notifier interface {
	Notify(ctx context.Context, text string)
}

// NopNotifier discards all notices.
type NopNotifier struct{}

// Notify implements Notifier.
func (NopNotifier) Notify(context.Context, string) {}

// Manager owns all alert state. It is the only component allowed to mutate
// alerts: creation, countdown ticks, and dismissal all pass through here.
type Manager struct {
	mu     sync.Mutex
	alerts []*Alert // newest first, dismissed retained
	byID   map[string]*Alert

	sched    *scheduler
	interval time.Duration
	notifier Notifier
	logger   log.Logger
	metrics  *Metrics
}

// NewManager creates an alert manager ticking each live alert every interval.
func NewManager(logger log.Logger, notifier Notifier, metrics *Metrics, interval time.Duration) *Manager {
	if logger == nil {
		logger = log.Nop()
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &Manager{
		byID:     make(map[string]*Alert),
		sched:    newScheduler(),
		interval: interval,
		notifier: notifier,
		logger:   logger,
		metrics:  metrics,
	}
}

// Create spawns an alert for typeKey referencing ev and registers its
// countdown task. Fails with catalog.ErrUnknownType for keys outside the
// catalog; the failure is scoped to this call and must not take down the
// triage flow that requested it.
func (m *Manager) Create(ctx context.Context, typeKey string, ev event.Event) (Alert, error) {
	def, err := catalog.Lookup(typeKey)
	if err != nil {
		return Alert{}, fmt.Errorf("create alert: %w", err)
	}

	al := &Alert{
		ID:               ulid.Make().String(),
		TypeKey:          def.Key,
		Severity:         def.Severity,
		AutomatedAction:  def.AutomatedAction,
		EventID:          ev.ID,
		CreatedAt:        time.Now(),
		RemainingSeconds: def.UrgencySeconds,
	}

	m.mu.Lock()
	m.alerts = append([]*Alert{al}, m.alerts...)
	m.byID[al.ID] = al
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.Spawned.WithLabelValues(al.TypeKey).Inc()
	}

	id := al.ID
	m.sched.start(id, m.interval, func() {
		m.Tick(context.WithoutCancel(ctx), id)
	})

	m.logger.Info(ctx, "alert created",
		"alert_id", al.ID,
		"type", al.TypeKey,
		"event_id", ev.ID,
		"urgency_seconds", al.RemainingSeconds,
	)

	return *al, nil
}

// Tick decrements the countdown for id by one second. When the budget reaches
// zero the alert is auto-dismissed and a notice is emitted. Ticks against a
// dismissed or unknown alert are no-ops.
func (m *Manager) Tick(ctx context.Context, id string) {
	m.mu.Lock()
	al, ok := m.byID[id]
	if !ok || al.Dismissed {
		m.mu.Unlock()
		return
	}

	al.RemainingSeconds--
	if al.RemainingSeconds > 0 {
		m.mu.Unlock()
		return
	}

	al.RemainingSeconds = 0
	al.Dismissed = true
	typeKey := al.TypeKey
	m.mu.Unlock()

	m.retire(ctx, id, typeKey, DismissExpired)
	m.notifier.Notify(ctx, fmt.Sprintf("%s auto-dismissed.", typeKey))
}

// Dismiss marks the alert dismissed and retires its countdown task. It is
// idempotent: dismissing an already-dismissed or unknown alert is a no-op.
func (m *Manager) Dismiss(ctx context.Context, id string) {
	m.mu.Lock()
	al, ok := m.byID[id]
	if !ok || al.Dismissed {
		m.mu.Unlock()
		return
	}
	al.Dismissed = true
	if al.RemainingSeconds < 0 {
		al.RemainingSeconds = 0
	}
	typeKey := al.TypeKey
	m.mu.Unlock()

	m.retire(ctx, id, typeKey, DismissManual)
}

// retire cancels the countdown task and records the dismissal.
func (m *Manager) retire(ctx context.Context, id, typeKey string, reason DismissReason) {
	m.sched.stop(id)
	if m.metrics != nil {
		m.metrics.Dismissed.WithLabelValues(typeKey, string(reason)).Inc()
	}
	m.logger.Info(ctx, "alert dismissed", "alert_id", id, "type", typeKey, "reason", string(reason))
}

// Get returns a copy of the alert with the given ID.
func (m *Manager) Get(id string) (Alert, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	al, ok := m.byID[id]
	if !ok {
		return Alert{}, false
	}
	return *al, true
}

// Active returns copies of up to limit live alerts, newest first.
func (m *Manager) Active(limit int) []Alert {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Alert, 0, limit)
	for _, al := range m.alerts {
		if al.Dismissed {
			continue
		}
		out = append(out, *al)
		if len(out) == limit {
			break
		}
	}
	return out
}

// History returns copies of all alerts, newest first, dismissed included.
func (m *Manager) History() []Alert {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Alert, 0, len(m.alerts))
	for _, al := range m.alerts {
		out = append(out, *al)
	}
	return out
}

// Close cancels every countdown task. Alerts keep their last state.
func (m *Manager) Close() {
	m.sched.stopAll()
}
