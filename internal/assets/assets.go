// Package assets holds the dashboard's mock operational state: the asset
// fleet, compliance rate, running cost, training roster, and insight pool.
// State is a single holder with mutation scoped to its methods; nothing else
// in the process touches this data directly.
package assets

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/linnemanlabs/go-core/xerrors"
)

// ErrUnknownPerson is returned when a training toggle names nobody on the
// roster.
var ErrUnknownPerson = xerrors.New("unknown training record")

// Asset is one monitored piece of equipment.
type Asset struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"` // Healthy | At Risk | Critical
	Risk   string `json:"risk"`   // Low | Medium | High
	Trend  string `json:"trend"`
}

// TrainingRecord tracks one person's certification state.
type TrainingRecord struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // Complete | Expiring | Expired
	Expires string `json:"expires"`
}

// Review is one monthly-review log entry.
type Review struct {
	Date     time.Time `json:"date"`
	Insights []string  `json:"insights"`
}

// insightPool is the fixed set insights are drawn from.
var insightPool = []string{
	"Optimize turbine #3 maintenance schedule",
	"Reduce inspection cycle for pipeline A",
	"Update training for new EPA rule",
	"Consolidate vendor onboarding",
	"Review asset tag rounding policy",
	"Increase compliance audit frequency",
	"Automate cost reporting",
	"Upgrade IoT sensor firmware",
	"Expand micro-course library",
	"Integrate new regulatory feed",
}

// State is the dashboard state holder.
type State struct {
	mu         sync.RWMutex
	assets     []Asset
	compliance int
	cost       float64
	costUnit   string
	training   []TrainingRecord
	insights   []string
	reviews    []Review // newest first
}

// NewState seeds the mock operational data.
func NewState() *State {
	return &State{
		assets: []Asset{
			{ID: 1, Name: "Turbine #1", Status: "Healthy", Risk: "Low", Trend: "+2%"},
			{ID: 2, Name: "Pipeline A", Status: "At Risk", Risk: "Medium", Trend: "-1%"},
			{ID: 3, Name: "Turbine #3", Status: "Critical", Risk: "High", Trend: "-5%"},
		},
		compliance: 92,
		cost:       1.23,
		costUnit:   "M",
		training: []TrainingRecord{
			{Name: "Alice", Status: "Complete", Expires: "2025-01-10"},
			{Name: "Bob", Status: "Expiring", Expires: "2024-07-01"},
			{Name: "Carlos", Status: "Expired", Expires: "2024-04-01"},
		},
		insights: append([]string(nil), insightPool[:5]...),
	}
}

// Assets returns a copy of the asset fleet.
func (s *State) Assets() []Asset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Asset(nil), s.assets...)
}

// Compliance returns the compliance percentage (0-100).
func (s *State) Compliance() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.compliance
}

// Cost returns the running cost figure and its unit suffix.
func (s *State) Cost() (float64, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cost, s.costUnit
}

// Training returns a copy of the training roster.
func (s *State) Training() []TrainingRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]TrainingRecord(nil), s.training...)
}

// Insights returns the current insight list.
func (s *State) Insights() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.insights...)
}

// SimulateCost replaces the cost with a random figure in 0.50..2.50 and
// returns it.
func (s *State) SimulateCost() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cost = float64(int(rand.Float64()*200+50)) / 100
	return s.cost
}

// ToggleTraining cycles one person's status Complete -> Expiring -> Expired
// -> Complete and returns the updated record.
func (s *State) ToggleTraining(name string) (TrainingRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.training {
		if s.training[i].Name != name {
			continue
		}
		switch s.training[i].Status {
		case "Complete":
			s.training[i].Status = "Expiring"
		case "Expiring":
			s.training[i].Status = "Expired"
		default:
			s.training[i].Status = "Complete"
		}
		return s.training[i], nil
	}
	return TrainingRecord{}, ErrUnknownPerson
}

// RegenerateInsights draws five insights from the pool, logs a monthly
// review, and returns the new list.
func (s *State) RegenerateInsights() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	picked := make([]string, 5)
	for i := range picked {
		picked[i] = insightPool[rand.IntN(len(insightPool))]
	}
	s.insights = picked
	s.reviews = append([]Review{{
		Date:     time.Now(),
		Insights: append([]string(nil), picked...),
	}}, s.reviews...)
	return append([]string(nil), picked...)
}

// Reviews returns copies of up to n monthly reviews, newest first.
func (s *State) Reviews(n int) []Review {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n > len(s.reviews) {
		n = len(s.reviews)
	}
	return append([]Review(nil), s.reviews[:n]...)
}
