package discovery

import (
	"sort"
	"strings"

	"github.com/flowscope/flowscope/internal/model"
)

// DefaultTopVariants is the number of variants returned when the caller
// does not supply a limit.
const DefaultTopVariants = 5

// TraceSeparator joins activity labels into a human-readable trace.
const TraceSeparator = " → "

// Variant is a distinct trace shared by one or more cases, ranked by how
// many cases follow it.
type Variant struct {
	// Rank is 1-based, assigned after sorting.
	Rank int

	// Trace is the ordered activity sequence joined with TraceSeparator,
	// loops preserved.
	Trace string

	// CaseCount is the number of cases following this exact trace.
	CaseCount int

	// Percentage is CaseCount over distinct cases, ×100, rounded to 1
	// decimal.
	Percentage float64
}

// ExtractVariants groups cases by exact trace equality and returns the topN
// variants by case count (DefaultTopVariants when topN is non-positive).
// Equal counts are broken lexicographically on the trace string, so the
// ranking is deterministic regardless of input encounter order.
func ExtractVariants(log *model.EventLog, topN int) []Variant {
	if topN <= 0 {
		topN = DefaultTopVariants
	}

	counts := make(map[string]int)
	for _, c := range log.Cases() {
		counts[strings.Join(c.Trace(), TraceSeparator)]++
	}
	if len(counts) == 0 {
		return nil
	}

	traces := make([]string, 0, len(counts))
	for trace := range counts {
		traces = append(traces, trace)
	}
	sort.Slice(traces, func(i, j int) bool {
		if counts[traces[i]] != counts[traces[j]] {
			return counts[traces[i]] > counts[traces[j]]
		}
		return traces[i] < traces[j]
	})

	totalCases := log.TotalCases()
	if len(traces) > topN {
		traces = traces[:topN]
	}

	out := make([]Variant, len(traces))
	for i, trace := range traces {
		pct := 0.0
		if totalCases > 0 {
			pct = round1(float64(counts[trace]) / float64(totalCases) * 100)
		}
		out[i] = Variant{
			Rank:       i + 1,
			Trace:      trace,
			CaseCount:  counts[trace],
			Percentage: pct,
		}
	}
	return out
}
