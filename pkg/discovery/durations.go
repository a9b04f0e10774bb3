package discovery

import (
	"github.com/flowscope/flowscope/internal/model"
)

// ComputeDurations computes the average time-to-next-event per activity, in
// hours at full float64 precision. For each case, the elapsed time between
// consecutive events is attributed to the earlier activity. Every activity
// appearing in the log gets an entry; activities with no samples (always
// terminal) report 0. Rounding happens only at presentation time.
func ComputeDurations(log *model.EventLog) map[string]float64 {
	avg, _ := collectDurations(log)
	return avg
}

// collectDurations returns per-activity average hours plus the total number
// of duration samples observed across the log.
func collectDurations(log *model.EventLog) (map[string]float64, int) {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	samples := 0

	for _, c := range log.Cases() {
		events := c.Events
		for i := range events {
			// Ensure every activity is represented, sampled or not.
			if _, ok := sums[events[i].Activity]; !ok {
				sums[events[i].Activity] = 0
			}
			if i+1 >= len(events) {
				continue
			}
			hours := events[i+1].Timestamp.Sub(events[i].Timestamp).Hours()
			sums[events[i].Activity] += hours
			counts[events[i].Activity]++
			samples++
		}
	}

	avg := make(map[string]float64, len(sums))
	for activity, sum := range sums {
		if n := counts[activity]; n > 0 {
			avg[activity] = sum / float64(n)
		} else {
			avg[activity] = 0
		}
	}
	return avg, samples
}
