// Package catalog holds the static alert-type definitions consumed by the
// triage orchestrator and the alert lifecycle manager. The catalog is fixed
// at compile time and read-only after process start.
package catalog

import (
	"fmt"

	"github.com/linnemanlabs/go-core/xerrors"
)

// ErrUnknownType is returned when a lookup references a type key absent
// from the catalog.
var ErrUnknownType = xerrors.New("unknown alert type")

// Severity is the presentation tier of an alert type.
type Severity string

const (
	SeverityCritical   Severity = "critical"
	SeverityCompliance Severity = "compliance"
	SeverityAsset      Severity = "asset"
	SeverityRounding   Severity = "rounding"
	SeverityTraining   Severity = "training"
)

// Alert type keys. These are the only keys the triage orchestrator emits.
const (
	TypeCriticalSafety   = "Critical Safety"
	TypeComplianceDrift  = "Compliance Drift"
	TypeAssetFailureRisk = "Asset Failure Risk"
	TypeRounding         = "Rounding"
	TypeTrainingLapse    = "Training Lapse"
)

// Definition describes one alert type: the automated response the system
// takes on its behalf and the countdown budget a spawned alert starts with.
type Definition struct {
	Key             string   `json:"key"`
	Severity        Severity `json:"severity"`
	AutomatedAction string   `json:"automated_action"`
	UrgencySeconds  int      `json:"urgency_seconds"`
}

var definitions = map[string]Definition{
	TypeCriticalSafety: {
		Key:             TypeCriticalSafety,
		Severity:        SeverityCritical,
		AutomatedAction: "Shutdown command issued",
		UrgencySeconds:  60,
	},
	TypeComplianceDrift: {
		Key:             TypeComplianceDrift,
		Severity:        SeverityCompliance,
		AutomatedAction: "Draft gap report generated",
		UrgencySeconds:  3600,
	},
	TypeAssetFailureRisk: {
		Key:             TypeAssetFailureRisk,
		Severity:        SeverityAsset,
		AutomatedAction: "Maintenance task scheduled",
		UrgencySeconds:  900,
	},
	TypeRounding: {
		Key:             TypeRounding,
		Severity:        SeverityRounding,
		AutomatedAction: "Small alert & data adjust",
		UrgencySeconds:  14400,
	},
	TypeTrainingLapse: {
		Key:             TypeTrainingLapse,
		Severity:        SeverityTraining,
		AutomatedAction: "Auto-assign micro-course",
		UrgencySeconds:  86400,
	},
}

// Lookup returns the definition for key, or ErrUnknownType if the key is not
// in the catalog.
func Lookup(key string) (Definition, error) {
	def, ok := definitions[key]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %q", ErrUnknownType, key)
	}
	return def, nil
}
