package discovery

import (
	"testing"

	"github.com/flowscope/flowscope/internal/model"
)

func TestComputeMetrics_Scenario(t *testing.T) {
	m := ComputeMetrics(scenarioLog())

	if m.TotalCases != 2 {
		t.Errorf("TotalCases = %d, want 2", m.TotalCases)
	}
	if m.TotalEvents != 6 {
		t.Errorf("TotalEvents = %d, want 6", m.TotalEvents)
	}
	if m.UniqueActivities != 3 {
		t.Errorf("UniqueActivities = %d, want 3", m.UniqueActivities)
	}
	if m.EventsPerCase != 3.0 {
		t.Errorf("EventsPerCase = %v, want 3.0", m.EventsPerCase)
	}
	// Case durations: C1 = 3h, C2 = 2h.
	if m.AvgCaseHours != 2.5 {
		t.Errorf("AvgCaseHours = %v, want 2.5", m.AvgCaseHours)
	}
	if m.MedianCaseHours != 2.5 {
		t.Errorf("MedianCaseHours = %v, want 2.5", m.MedianCaseHours)
	}
	if m.MinCaseHours != 2 || m.MaxCaseHours != 3 {
		t.Errorf("min/max = %v/%v, want 2/3", m.MinCaseHours, m.MaxCaseHours)
	}
}

func TestComputeMetrics_SingleEventBoundary(t *testing.T) {
	m := ComputeMetrics(model.NewEventLog([]model.Event{ev("C1", "A", 0)}))

	if m.TotalCases != 1 || m.TotalEvents != 1 || m.UniqueActivities != 1 {
		t.Errorf("counts = %+v, want 1/1/1", m)
	}
	if m.AvgCaseHours != 0 || m.MaxCaseHours != 0 {
		t.Errorf("single-event case duration = %v/%v, want 0", m.AvgCaseHours, m.MaxCaseHours)
	}
	if m.EventsPerCase != 1 {
		t.Errorf("EventsPerCase = %v, want 1", m.EventsPerCase)
	}
}

func TestComputeMetrics_EmptyLog(t *testing.T) {
	m := ComputeMetrics(model.NewEventLog(nil))

	if m != (Metrics{}) {
		t.Errorf("empty log metrics = %+v, want zero-valued struct", m)
	}
}

func TestComputeMetrics_MedianOddCount(t *testing.T) {
	// Case durations 1h, 2h, 10h: median 2, mean 13/3 ≈ 4.33.
	events := []model.Event{
		ev("C1", "A", 0), ev("C1", "B", 1),
		ev("C2", "A", 0), ev("C2", "B", 2),
		ev("C3", "A", 0), ev("C3", "B", 10),
	}
	m := ComputeMetrics(model.NewEventLog(events))

	if m.MedianCaseHours != 2 {
		t.Errorf("MedianCaseHours = %v, want 2", m.MedianCaseHours)
	}
	if m.AvgCaseHours != 4.33 {
		t.Errorf("AvgCaseHours = %v, want 4.33", m.AvgCaseHours)
	}
}

func TestMedian_EvenCount(t *testing.T) {
	if got := median([]float64{1, 2, 3, 4}); got != 2.5 {
		t.Errorf("median = %v, want 2.5", got)
	}
}
