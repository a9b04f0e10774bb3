package discovery

import (
	"testing"
	"time"

	"github.com/flowscope/flowscope/internal/model"
)

var t0 = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

// ev builds an event at t0 + offset hours.
func ev(caseID, activity string, offsetHours float64) model.Event {
	return model.Event{
		CaseID:    caseID,
		Activity:  activity,
		Timestamp: t0.Add(time.Duration(offsetHours * float64(time.Hour))),
	}
}

// scenarioLog is the two-case reference log:
// C1 = [A@0h, B@1h, C@3h], C2 = [A@0h, B@1h, C@2h].
func scenarioLog() *model.EventLog {
	return model.NewEventLog([]model.Event{
		ev("C1", "A", 0), ev("C1", "B", 1), ev("C1", "C", 3),
		ev("C2", "A", 0), ev("C2", "B", 1), ev("C2", "C", 2),
	})
}

func TestComputeDFG_Scenario(t *testing.T) {
	dfg := ComputeDFG(scenarioLog())

	wantEdges := map[Edge]int{
		{Source: "A", Target: "B"}: 2,
		{Source: "B", Target: "C"}: 2,
	}
	if len(dfg.Edges) != len(wantEdges) {
		t.Fatalf("got %d edges, want %d: %v", len(dfg.Edges), len(wantEdges), dfg.Edges)
	}
	for e, want := range wantEdges {
		if got := dfg.Edges[e]; got != want {
			t.Errorf("edge %v = %d, want %d", e, got, want)
		}
	}

	wantCounts := map[string]int{"A": 2, "B": 2, "C": 2}
	for a, want := range wantCounts {
		if got := dfg.ActivityCounts[a]; got != want {
			t.Errorf("count[%s] = %d, want %d", a, got, want)
		}
	}
}

func TestComputeDFG_SingleEventCase(t *testing.T) {
	log := model.NewEventLog([]model.Event{ev("C1", "A", 0)})
	dfg := ComputeDFG(log)

	if len(dfg.Edges) != 0 {
		t.Errorf("single-event case produced edges: %v", dfg.Edges)
	}
	if dfg.ActivityCounts["A"] != 1 {
		t.Errorf("count[A] = %d, want 1", dfg.ActivityCounts["A"])
	}
}

func TestComputeDFG_LoopsCount(t *testing.T) {
	// A→A self-loop must be counted like any other edge.
	log := model.NewEventLog([]model.Event{
		ev("C1", "A", 0), ev("C1", "A", 1), ev("C1", "B", 2),
	})
	dfg := ComputeDFG(log)

	if got := dfg.Edges[Edge{Source: "A", Target: "A"}]; got != 1 {
		t.Errorf("self-loop frequency = %d, want 1", got)
	}
	if got := dfg.ActivityCounts["A"]; got != 2 {
		t.Errorf("count[A] = %d, want 2", got)
	}
}

func TestComputeDFG_EmptyLog(t *testing.T) {
	dfg := ComputeDFG(model.NewEventLog(nil))
	if len(dfg.Edges) != 0 || len(dfg.ActivityCounts) != 0 {
		t.Errorf("empty log produced %v / %v", dfg.Edges, dfg.ActivityCounts)
	}
	if dfg.MaxFrequency() != 1 {
		t.Errorf("MaxFrequency on empty graph = %d, want 1", dfg.MaxFrequency())
	}
}

func TestDFG_SortedEdges(t *testing.T) {
	dfg := ComputeDFG(scenarioLog())
	edges := dfg.SortedEdges()

	if len(edges) != 2 {
		t.Fatalf("got %d edges, want 2", len(edges))
	}
	if edges[0].Source != "A" || edges[1].Source != "B" {
		t.Errorf("edges not sorted: %v", edges)
	}
}

func TestComputeDFG_EdgeCountInvariant(t *testing.T) {
	// Sum of edge frequencies = totalEvents − totalCases when every case
	// has at least one event.
	log := scenarioLog()
	dfg := ComputeDFG(log)

	sum := 0
	for _, freq := range dfg.Edges {
		sum += freq
	}
	want := log.TotalEvents() - log.TotalCases()
	if sum != want {
		t.Errorf("edge frequency sum = %d, want %d", sum, want)
	}
}
