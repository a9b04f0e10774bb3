// Package report renders an analysis result for the terminal.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/flowscope/flowscope/pkg/discovery"
	"github.com/flowscope/flowscope/pkg/render"
)

// Colors (Swiss minimal)
var (
	accent  = lipgloss.Color("#FF0000")
	muted   = lipgloss.Color("#666666")
	warning = lipgloss.Color("#FF8800")
	white   = lipgloss.Color("#FFFFFF")
)

// Styles
var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(white)
	accentStyle  = lipgloss.NewStyle().Foreground(accent).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(muted)
	warningStyle = lipgloss.NewStyle().Foreground(warning).Bold(true)
)

const rule = "  ─────────────────────────────────────"

// Write prints a styled summary of the analysis to w.
func Write(w io.Writer, res *discovery.Result) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, titleStyle.Render("  PROCESS ANALYSIS")+mutedStyle.Render("  "+res.AnalysisID))
	fmt.Fprintln(w, mutedStyle.Render(rule))

	writeMetrics(w, res.Metrics)
	writeBottlenecks(w, res.Bottlenecks)
	writeVariants(w, res.Variants)
}

func writeMetrics(w io.Writer, m discovery.Metrics) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, accentStyle.Render("  ▸ METRICS"))
	row := func(name string, value interface{}) {
		fmt.Fprintf(w, "  %s %v\n", mutedStyle.Render(fmt.Sprintf("%-24s", name)), value)
	}
	row("Cases", m.TotalCases)
	row("Events", m.TotalEvents)
	row("Activities", m.UniqueActivities)
	row("Events per case", m.EventsPerCase)
	row("Avg case duration", render.FormatDuration(m.AvgCaseHours))
	row("Median case duration", render.FormatDuration(m.MedianCaseHours))
	row("Max case duration", render.FormatDuration(m.MaxCaseHours))
}

func writeBottlenecks(w io.Writer, bottlenecks []discovery.Bottleneck) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, accentStyle.Render("  ▸ BOTTLENECKS"))
	if len(bottlenecks) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("  none detected"))
		return
	}
	for _, b := range bottlenecks {
		sev := mutedStyle.Render(string(b.Severity))
		if b.Severity == discovery.SeverityHigh {
			sev = warningStyle.Render(string(b.Severity))
		}
		fmt.Fprintf(w, "  %-28s %8s  %6d events  %s (p%.1f)\n",
			b.Activity, render.FormatDuration(b.AvgDurationHours), b.EventCount, sev, b.PercentileRank)
	}
}

func writeVariants(w io.Writer, variants []discovery.Variant) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, accentStyle.Render("  ▸ TOP VARIANTS"))
	if len(variants) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("  no cases"))
		return
	}
	for _, v := range variants {
		trace := v.Trace
		if r := []rune(trace); len(r) > 70 {
			trace = string(r[:67]) + "..."
		}
		fmt.Fprintf(w, "  %d. %s %s\n", v.Rank,
			mutedStyle.Render(fmt.Sprintf("%3d cases (%5.1f%%)", v.CaseCount, v.Percentage)), trace)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, mutedStyle.Render(rule))
}

// Summary returns the report as a string.
func Summary(res *discovery.Result) string {
	var sb strings.Builder
	Write(&sb, res)
	return sb.String()
}
