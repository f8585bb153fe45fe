// Package alerts manages time-decaying alerts spawned from triage outcomes.
// Each live alert owns one cancellable countdown task in a scheduler registry;
// dismissal is idempotent and permanently retires the task.
package alerts

import (
	"fmt"
	"time"

	"github.com/linnemanlabs/opsdeck/internal/catalog"
)

// DismissReason records why an alert was dismissed.
type DismissReason string

const (
	// DismissExpired means the countdown reached zero.
	DismissExpired DismissReason = "expired"

	// DismissManual means an operator dismissed the alert.
	DismissManual DismissReason = "manual"
)

// Alert is a decaying notification tied to a triaged event. The related event
// is referenced by ID only; the alert does not own the event lifecycle.
type Alert struct {
	ID               string           `json:"id"`
	TypeKey          string           `json:"type"`
	Severity         catalog.Severity `json:"severity"`
	AutomatedAction  string           `json:"automated_action"`
	EventID          string           `json:"event_id"`
	CreatedAt        time.Time        `json:"created_at"`
	RemainingSeconds int              `json:"remaining_seconds"`
	Dismissed        bool             `json:"dismissed"`
}

// FormatUrgency renders a countdown for display. Durations above an hour
// render as ceiling hours, above a minute as ceiling minutes, otherwise raw
// seconds. Ceiling is deliberate: 3601s shows "2h", never understating how
// little time remains.
func FormatUrgency(seconds int) string {
	switch {
	case seconds >= 3600:
		return fmt.Sprintf("%dh", (seconds+3599)/3600)
	case seconds >= 60:
		return fmt.Sprintf("%dm", (seconds+59)/60)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}
