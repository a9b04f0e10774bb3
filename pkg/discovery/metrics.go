package discovery

import (
	"sort"

	"github.com/flowscope/flowscope/internal/model"
)

// Metrics aggregates case-duration and population-level statistics for a
// log. Duration fields are hours rounded to 2 decimals; EventsPerCase is
// rounded to 1.
type Metrics struct {
	TotalCases       int     `json:"total_cases"`
	TotalEvents      int     `json:"total_events"`
	UniqueActivities int     `json:"unique_activities"`
	AvgCaseHours     float64 `json:"avg_case_duration_hours"`
	MedianCaseHours  float64 `json:"median_case_duration_hours"`
	MinCaseHours     float64 `json:"min_case_duration_hours"`
	MaxCaseHours     float64 `json:"max_case_duration_hours"`
	EventsPerCase    float64 `json:"events_per_case"`
}

// ComputeMetrics computes aggregate process metrics. Case duration is the
// span from first to last event (0 for single-event cases). An empty log
// yields a zero-valued struct; every ratio guards a zero denominator.
func ComputeMetrics(log *model.EventLog) Metrics {
	m := Metrics{
		TotalCases:       log.TotalCases(),
		TotalEvents:      log.TotalEvents(),
		UniqueActivities: len(log.Activities()),
	}

	durations := make([]float64, 0, m.TotalCases)
	for _, c := range log.Cases() {
		durations = append(durations, c.Duration().Hours())
	}

	if len(durations) > 0 {
		sort.Float64s(durations)

		sum := 0.0
		for _, d := range durations {
			sum += d
		}
		m.AvgCaseHours = round2(sum / float64(len(durations)))
		m.MedianCaseHours = round2(median(durations))
		m.MinCaseHours = round2(durations[0])
		m.MaxCaseHours = round2(durations[len(durations)-1])
	}

	if m.TotalCases > 0 {
		m.EventsPerCase = round1(float64(m.TotalEvents) / float64(m.TotalCases))
	}
	return m
}

// median of a sorted slice; even lengths average the two middle values.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
