// Package render serializes an annotated directly-follows graph into a
// visualization-ready description.
package render

import (
	"fmt"
	"sort"

	"github.com/flowscope/flowscope/pkg/discovery"
)

// Node is one activity in the rendered graph with its display annotations.
type Node struct {
	Activity string

	// Label is the human-readable node text: activity, occurrence count,
	// and formatted average duration.
	Label string

	// Bottleneck marks the node for the distinct bottleneck style.
	Bottleneck bool

	FillColor   string
	BorderColor string
	BorderWidth int
}

// GraphEdge is one directed directly-follows edge with its visual weight.
type GraphEdge struct {
	Source    string
	Target    string
	Frequency int

	// PenWidth scales with frequency: the busiest edge is always the
	// thickest, everything else proportional with a floor of 1.
	PenWidth float64
}

// Graph is the interchange description of an annotated DFG: plain node and
// edge lists that any downstream renderer can consume. DOT is one supported
// serialization.
type Graph struct {
	Nodes []Node
	Edges []GraphEdge
}

// Node styles.
const (
	normalFill       = "#E3F2FD"
	normalBorder     = "#1565C0"
	bottleneckFill   = "#FFCDD2"
	bottleneckBorder = "#C62828"
)

// BuildGraph assembles the graph description from the DFG, the per-activity
// occurrence counts and average durations, and the set of bottleneck
// activities. Nodes are ordered by activity and edges by (source, target),
// so output is deterministic.
func BuildGraph(dfg *discovery.DFG, durations map[string]float64, bottlenecks map[string]bool) *Graph {
	g := &Graph{}

	activities := make([]string, 0, len(dfg.ActivityCounts))
	for a := range dfg.ActivityCounts {
		activities = append(activities, a)
	}
	sort.Strings(activities)

	for _, activity := range activities {
		node := Node{
			Activity:    activity,
			Label:       nodeLabel(activity, dfg.ActivityCounts[activity], durations[activity]),
			Bottleneck:  bottlenecks[activity],
			FillColor:   normalFill,
			BorderColor: normalBorder,
			BorderWidth: 1,
		}
		if node.Bottleneck {
			node.FillColor = bottleneckFill
			node.BorderColor = bottleneckBorder
			node.BorderWidth = 2
		}
		g.Nodes = append(g.Nodes, node)
	}

	maxFreq := dfg.MaxFrequency()
	for _, e := range dfg.SortedEdges() {
		width := float64(e.Frequency) / float64(maxFreq) * 4
		if width < 1 {
			width = 1
		}
		g.Edges = append(g.Edges, GraphEdge{
			Source:    e.Source,
			Target:    e.Target,
			Frequency: e.Frequency,
			PenWidth:  width,
		})
	}

	return g
}

// nodeLabel formats "<activity>\n(<count> events, <duration>)".
func nodeLabel(activity string, count int, avgHours float64) string {
	return fmt.Sprintf("%s\\n(%d events, %s)", activity, count, FormatDuration(avgHours))
}

// FormatDuration renders an hour value for humans: hours to 1 decimal below
// a day, days to 1 decimal otherwise.
func FormatDuration(hours float64) string {
	if hours >= 24 {
		return fmt.Sprintf("%.1fd", hours/24)
	}
	return fmt.Sprintf("%.1fh", hours)
}
