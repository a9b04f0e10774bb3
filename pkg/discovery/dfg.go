// Package discovery implements process discovery over an event log:
// directly-follows graph construction, activity duration statistics,
// bottleneck detection, variant extraction, and aggregate process metrics.
//
// Every function in this package is a pure, total function of the immutable
// EventLog: an empty log yields zero-valued results, never an error, and
// repeated calls yield identical results.
package discovery

import (
	"sort"

	"github.com/flowscope/flowscope/internal/model"
)

// Edge identifies a directed directly-follows relation between two
// activities.
type Edge struct {
	Source string
	Target string
}

// DFG is a directly-follows graph: edge frequencies plus per-activity
// occurrence counts. An edge exists only if observed at least once.
type DFG struct {
	// Edges maps each observed directly-follows pair to its frequency.
	Edges map[Edge]int

	// ActivityCounts maps each activity to its total occurrence count,
	// terminal events included.
	ActivityCounts map[string]int
}

// ComputeDFG builds the directly-follows graph. For each case, every
// consecutive activity pair in chronological order increments the edge
// frequency; every event increments its activity's occurrence count. A
// single-event case contributes an occurrence but no edge.
func ComputeDFG(log *model.EventLog) *DFG {
	dfg := &DFG{
		Edges:          make(map[Edge]int),
		ActivityCounts: make(map[string]int),
	}

	for _, c := range log.Cases() {
		trace := c.Trace()
		for _, activity := range trace {
			dfg.ActivityCounts[activity]++
		}
		for i := 0; i+1 < len(trace); i++ {
			dfg.Edges[Edge{Source: trace[i], Target: trace[i+1]}]++
		}
	}

	return dfg
}

// MaxFrequency returns the highest edge frequency, or 1 for an edgeless
// graph so ratio callers never divide by zero.
func (g *DFG) MaxFrequency() int {
	max := 1
	for _, freq := range g.Edges {
		if freq > max {
			max = freq
		}
	}
	return max
}

// WeightedEdge is an edge with its observed frequency.
type WeightedEdge struct {
	Source    string
	Target    string
	Frequency int
}

// SortedEdges returns the edges ordered by (source, target) for
// deterministic iteration.
func (g *DFG) SortedEdges() []WeightedEdge {
	edges := make([]WeightedEdge, 0, len(g.Edges))
	for e, freq := range g.Edges {
		edges = append(edges, WeightedEdge{Source: e.Source, Target: e.Target, Frequency: freq})
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Source != edges[j].Source {
			return edges[i].Source < edges[j].Source
		}
		return edges[i].Target < edges[j].Target
	})
	return edges
}
