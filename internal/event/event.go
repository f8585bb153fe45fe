// Package event defines operator-submitted events and the in-memory log that
// owns them. Events start Pending and transition exactly once to a terminal
// routing status when triage completes.
package event

import "time"

// Status is the routing state of an event.
type Status string

const (
	// StatusPending means submitted, awaiting triage.
	StatusPending Status = "Pending"

	// StatusEscalate means routed for immediate escalation.
	StatusEscalate Status = "Escalate"

	// StatusScheduleTask means routed to scheduled remediation.
	StatusScheduleTask Status = "Schedule Task"

	// StatusAutoResolve means closed automatically with no action required.
	StatusAutoResolve Status = "Auto-Resolve"
)

// Terminal reports whether s is a terminal routing outcome.
func (s Status) Terminal() bool {
	return s == StatusEscalate || s == StatusScheduleTask || s == StatusAutoResolve
}

// Event is an operator-submitted occurrence requiring triage.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Details   string    `json:"details"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
