package discovery

import (
	"sort"

	"github.com/flowscope/flowscope/internal/model"
)

// DefaultPercentile is the emission threshold percentile when the caller
// does not supply one.
const DefaultPercentile = 75

// highSeverityPercentile is the fixed boundary separating high from medium
// severity.
const highSeverityPercentile = 90

// Severity classifies how extreme a bottleneck is relative to the rest of
// the log.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	// SeverityLow is never assigned to an emitted bottleneck: emission
	// already requires the average to reach the threshold percentile.
	SeverityLow Severity = "low"
)

// Bottleneck flags an activity whose average time-to-next-event is
// statistically high relative to the other activities in the same log.
// Bottlenecks are derived per call and never persisted.
type Bottleneck struct {
	Activity string

	// AvgDurationHours is the activity's average duration, rounded to 2
	// decimals for presentation.
	AvgDurationHours float64

	// EventCount is the activity's total occurrence count.
	EventCount int

	Severity Severity

	// PercentileRank is the fraction of the distribution at or below this
	// activity's average, ×100, rounded to 1 decimal.
	PercentileRank float64
}

// DetectBottlenecks finds bottleneck activities in the log. thresholdPercentile
// is the emission threshold (DefaultPercentile when non-positive).
func DetectBottlenecks(log *model.EventLog, thresholdPercentile float64) []Bottleneck {
	durations, samples := collectDurations(log)
	if samples == 0 {
		// No durations recorded anywhere: nothing to rank.
		return nil
	}
	counts := make(map[string]int)
	for _, c := range log.Cases() {
		for _, e := range c.Events {
			counts[e.Activity]++
		}
	}
	return detectBottlenecks(durations, counts, thresholdPercentile)
}

// detectBottlenecks runs the detection over precomputed inputs. The
// distribution deliberately includes activities whose average is 0 because
// they are always terminal; this reproduces the behavior the engine has
// always had, even though many terminal activities pull the percentile
// boundaries down.
func detectBottlenecks(durations map[string]float64, counts map[string]int, thresholdPercentile float64) []Bottleneck {
	if len(durations) == 0 {
		return nil
	}
	if thresholdPercentile <= 0 {
		thresholdPercentile = DefaultPercentile
	}

	dist := make([]float64, 0, len(durations))
	for _, d := range durations {
		dist = append(dist, d)
	}

	threshold := Percentile(dist, thresholdPercentile)
	highBoundary := Percentile(dist, highSeverityPercentile)

	type entry struct {
		activity string
		avg      float64
	}
	entries := make([]entry, 0, len(durations))
	for activity, avg := range durations {
		entries = append(entries, entry{activity: activity, avg: avg})
	}
	// Descending by average at full precision; ties by label for a
	// deterministic order.
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].avg != entries[j].avg {
			return entries[i].avg > entries[j].avg
		}
		return entries[i].activity < entries[j].activity
	})

	var out []Bottleneck
	for _, e := range entries {
		if e.avg < threshold {
			continue
		}

		atOrBelow := 0
		for _, d := range dist {
			if d <= e.avg {
				atOrBelow++
			}
		}
		rank := float64(atOrBelow) / float64(len(dist)) * 100

		severity := SeverityMedium
		if e.avg >= highBoundary {
			severity = SeverityHigh
		}

		out = append(out, Bottleneck{
			Activity:         e.activity,
			AvgDurationHours: round2(e.avg),
			EventCount:       counts[e.activity],
			Severity:         severity,
			PercentileRank:   round1(rank),
		})
	}
	return out
}
