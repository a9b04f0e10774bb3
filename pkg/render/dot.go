package render

import (
	"fmt"
	"strings"
)

// DOT serializes the graph as a Graphviz digraph.
func (g *Graph) DOT() string {
	var sb strings.Builder

	sb.WriteString("digraph DFG {\n")
	sb.WriteString("    rankdir=TB;\n")
	sb.WriteString("    node [shape=box, style=\"rounded,filled\", fontname=\"Arial\", fontsize=10];\n")
	sb.WriteString("    edge [fontname=\"Arial\", fontsize=9];\n")
	sb.WriteString("\n")

	for _, n := range g.Nodes {
		fmt.Fprintf(&sb, "    %s [label=\"%s\", fillcolor=\"%s\", color=\"%s\", penwidth=%d];\n",
			quote(n.Activity), n.Label, n.FillColor, n.BorderColor, n.BorderWidth)
	}
	sb.WriteString("\n")

	for _, e := range g.Edges {
		fmt.Fprintf(&sb, "    %s -> %s [label=\"%d\", penwidth=%.1f];\n",
			quote(e.Source), quote(e.Target), e.Frequency, e.PenWidth)
	}

	sb.WriteString("}\n")
	return sb.String()
}

// quote wraps an identifier in double quotes, escaping embedded quotes.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
