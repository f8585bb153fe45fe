package triage

import (
	"time"

	"github.com/linnemanlabs/opsdeck/internal/catalog"
	"github.com/linnemanlabs/opsdeck/internal/event"
)

// Outcome is the terminal routing decision for a triaged event.
type Outcome string

const (
	// OutcomeEscalate routes the event for immediate escalation.
	OutcomeEscalate Outcome = "Escalate"

	// OutcomeScheduleTask routes the event to scheduled remediation.
	OutcomeScheduleTask Outcome = "Schedule Task"

	// OutcomeAutoResolve closes the event with no operator action.
	OutcomeAutoResolve Outcome = "Auto-Resolve"
)

// Status maps the outcome onto the event's terminal status.
func (o Outcome) Status() event.Status {
	return event.Status(o)
}

// Answers are the five booleans of the triage questionnaire, positionally
// bound to fixed questions. All five are mandatory: the collecting surface
// guarantees they are present before Resolve is called. BudgetVariance and
// TrainingGap are captured on the record but do not drive routing.
type Answers struct {
	SafetyImpact        bool `json:"safety_impact"`
	ComplianceDeviation bool `json:"compliance_deviation"`
	AssetHealthRisk     bool `json:"asset_health_risk"`
	BudgetVariance      bool `json:"budget_variance"`
	TrainingGap         bool `json:"training_gap"`
}

// Record is one orchestrator log entry. Immutable once created.
type Record struct {
	ID           string           `json:"id"`
	EventID      string           `json:"event_id"`
	EventType    string           `json:"event_type"`
	EventDetails string           `json:"event_details"`
	Answers      Answers          `json:"answers"`
	Outcome      Outcome          `json:"outcome"`
	AlertType    string           `json:"alert_type"`
	Severity     catalog.Severity `json:"severity"`
	CreatedAt    time.Time        `json:"created_at"`
}
