package render

import (
	"strings"
	"testing"
	"time"

	"github.com/flowscope/flowscope/internal/model"
	"github.com/flowscope/flowscope/pkg/discovery"
)

func testDFG(t *testing.T) *discovery.DFG {
	t.Helper()
	t0 := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	ev := func(caseID, activity string, offset int) model.Event {
		return model.Event{CaseID: caseID, Activity: activity, Timestamp: t0.Add(time.Duration(offset) * time.Hour)}
	}
	log := model.NewEventLog([]model.Event{
		ev("C1", "A", 0), ev("C1", "B", 1), ev("C1", "C", 3),
		ev("C2", "A", 0), ev("C2", "C", 2),
	})
	return discovery.ComputeDFG(log)
}

func TestBuildGraph(t *testing.T) {
	dfg := testDFG(t)
	durations := map[string]float64{"A": 1.5, "B": 2, "C": 0}
	g := BuildGraph(dfg, durations, map[string]bool{"B": true})

	if len(g.Nodes) != 3 {
		t.Fatalf("got %d nodes, want 3", len(g.Nodes))
	}
	// Nodes sorted by activity.
	if g.Nodes[0].Activity != "A" || g.Nodes[2].Activity != "C" {
		t.Errorf("nodes not sorted: %v, %v", g.Nodes[0].Activity, g.Nodes[2].Activity)
	}

	b := g.Nodes[1]
	if !b.Bottleneck {
		t.Error("B not marked as bottleneck")
	}
	if b.FillColor != bottleneckFill || b.BorderWidth != 2 {
		t.Errorf("bottleneck style = %s/%d, want %s/2", b.FillColor, b.BorderWidth, bottleneckFill)
	}

	a := g.Nodes[0]
	if a.Bottleneck || a.FillColor != normalFill || a.BorderWidth != 1 {
		t.Errorf("normal style = %+v", a)
	}
	if a.Label != "A\\n(2 events, 1.5h)" {
		t.Errorf("label = %q", a.Label)
	}
}

func TestBuildGraph_EdgeWeights(t *testing.T) {
	dfg := &discovery.DFG{
		Edges: map[discovery.Edge]int{
			{Source: "A", Target: "B"}: 8, // busiest
			{Source: "B", Target: "C"}: 4, // half
			{Source: "A", Target: "C"}: 1, // below the floor
		},
		ActivityCounts: map[string]int{"A": 9, "B": 8, "C": 5},
	}
	g := BuildGraph(dfg, nil, nil)

	widths := make(map[string]float64)
	for _, e := range g.Edges {
		widths[e.Source+">"+e.Target] = e.PenWidth
	}

	if widths["A>B"] != 4 {
		t.Errorf("busiest edge width = %v, want 4", widths["A>B"])
	}
	if widths["B>C"] != 2 {
		t.Errorf("half-frequency width = %v, want 2", widths["B>C"])
	}
	if widths["A>C"] != 1 {
		t.Errorf("floor width = %v, want 1", widths["A>C"])
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		hours float64
		want  string
	}{
		{1.5, "1.5h"},
		{0, "0.0h"},
		{23.96, "24.0h"}, // still under a day
		{24, "1.0d"},
		{36, "1.5d"},
		{240, "10.0d"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.hours); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.hours, got, tt.want)
		}
	}
}

func TestDOT(t *testing.T) {
	dfg := testDFG(t)
	g := BuildGraph(dfg, map[string]float64{"A": 1.5}, map[string]bool{"A": true})
	dot := g.DOT()

	for _, want := range []string{
		"digraph DFG {",
		"rankdir=TB;",
		`"A" [label="A\n(2 events, 1.5h)", fillcolor="` + bottleneckFill + `"`,
		`"A" -> "B" [label="1", penwidth=`,
		"}",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT output missing %q:\n%s", want, dot)
		}
	}
}

func TestDOT_QuotesEscaped(t *testing.T) {
	g := &Graph{
		Nodes: []Node{{Activity: `Say "Hi"`, Label: "x"}},
	}
	dot := g.DOT()
	if !strings.Contains(dot, `"Say \"Hi\""`) {
		t.Errorf("quotes not escaped:\n%s", dot)
	}
}

func TestDOT_Deterministic(t *testing.T) {
	dfg := testDFG(t)
	g1 := BuildGraph(dfg, nil, nil).DOT()
	g2 := BuildGraph(dfg, nil, nil).DOT()
	if g1 != g2 {
		t.Error("DOT output not deterministic across calls")
	}
}
