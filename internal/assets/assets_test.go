package assets

import (
	"errors"
	"testing"
)

func TestNewState_SeedData(t *testing.T) {
	t.Parallel()

	s := NewState()
	if got := len(s.Assets()); got != 3 {
		t.Errorf("assets = %d, want 3", got)
	}
	if got := s.Compliance(); got != 92 {
		t.Errorf("compliance = %d, want 92", got)
	}
	cost, unit := s.Cost()
	if cost != 1.23 || unit != "M" {
		t.Errorf("cost = %v%s, want 1.23M", cost, unit)
	}
	if got := len(s.Training()); got != 3 {
		t.Errorf("training = %d, want 3", got)
	}
	if got := len(s.Insights()); got != 5 {
		t.Errorf("insights = %d, want 5", got)
	}
}

func TestSimulateCost_Range(t *testing.T) {
	t.Parallel()

	s := NewState()
	for i := 0; i < 50; i++ {
		cost := s.SimulateCost()
		if cost < 0.5 || cost > 2.5 {
			t.Fatalf("cost = %v, want within [0.5, 2.5]", cost)
		}
	}
}

func TestToggleTraining_Cycle(t *testing.T) {
	t.Parallel()

	s := NewState()
	want := []string{"Expiring", "Expired", "Complete", "Expiring"}
	for _, status := range want {
		rec, err := s.ToggleTraining("Alice")
		if err != nil {
			t.Fatalf("ToggleTraining: %v", err)
		}
		if rec.Status != status {
			t.Fatalf("status = %q, want %q", rec.Status, status)
		}
	}
}

func TestToggleTraining_Unknown(t *testing.T) {
	t.Parallel()

	s := NewState()
	if _, err := s.ToggleTraining("Nobody"); !errors.Is(err, ErrUnknownPerson) {
		t.Errorf("err = %v, want ErrUnknownPerson", err)
	}
}

func TestRegenerateInsights_LogsReview(t *testing.T) {
	t.Parallel()

	s := NewState()
	first := s.RegenerateInsights()
	if len(first) != 5 {
		t.Fatalf("insights = %d, want 5", len(first))
	}
	second := s.RegenerateInsights()
	if len(second) != 5 {
		t.Fatalf("insights = %d, want 5", len(second))
	}

	reviews := s.Reviews(10)
	if len(reviews) != 2 {
		t.Fatalf("reviews = %d, want 2", len(reviews))
	}
	// newest first
	if !reviews[0].Date.After(reviews[1].Date) && !reviews[0].Date.Equal(reviews[1].Date) {
		t.Error("reviews not newest first")
	}
}

func TestAssets_CopySemantics(t *testing.T) {
	t.Parallel()

	s := NewState()
	got := s.Assets()
	got[0].Status = "Destroyed"
	if s.Assets()[0].Status == "Destroyed" {
		t.Error("Assets() must return a copy")
	}
}
