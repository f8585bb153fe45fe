package triage

import "github.com/linnemanlabs/opsdeck/internal/catalog"

// rule is one row of the routing decision table.
type rule struct {
	match     func(Answers) bool
	outcome   Outcome
	alertType func(Answers) string
}

// routingRules is the triage decision table, evaluated top to bottom with
// first match winning. The order is load-bearing: a safety impact always
// escalates no matter what else is true, and asset health risk outranks
// compliance deviation for alert-type selection even though either alone
// selects the Schedule Task branch.
var routingRules = []rule{
	{
		match:     func(a Answers) bool { return a.SafetyImpact },
		outcome:   OutcomeEscalate,
		alertType: func(Answers) string { return catalog.TypeCriticalSafety },
	},
	{
		match:   func(a Answers) bool { return a.ComplianceDeviation || a.AssetHealthRisk },
		outcome: OutcomeScheduleTask,
		alertType: func(a Answers) string {
			if a.AssetHealthRisk {
				return catalog.TypeAssetFailureRisk
			}
			return catalog.TypeComplianceDrift
		},
	},
	{
		match:     func(Answers) bool { return true },
		outcome:   OutcomeAutoResolve,
		alertType: func(Answers) string { return catalog.TypeRounding },
	},
}

// route resolves answers against the decision table.
func route(a Answers) (Outcome, string) {
	for _, r := range routingRules {
		if r.match(a) {
			return r.outcome, r.alertType(a)
		}
	}
	// unreachable: the last rule always matches
	return OutcomeAutoResolve, catalog.TypeRounding
}
