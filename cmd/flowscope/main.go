// FlowScope - process mining for event logs
// Discovers directly-follows graphs, bottlenecks, and variants from
// CSV/XLSX event log exports.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

// CLI flags
var (
	inputFile  string
	outputFile string
	configPath string
	verbose    bool

	// Column mapping flags
	caseColumn      string
	activityColumn  string
	timestampColumn string
	resourceColumn  string
	timestampLayout string

	// Analysis flags
	percentileFlag  float64
	topVariantsFlag int

	// Output flags
	dotPath  string
	jsonPath string

	// Store flags
	storeDB string

	// Sample flags
	sampleCases int
	sampleSeed  int64
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "flowscope",
	Short: "FlowScope - Discover process models from event logs",
	Long: `FlowScope analyzes event logs exported from operational systems
(CSV or XLSX with case, activity, and timestamp columns) and reports the
directly-follows graph, bottleneck activities, process variants, and
case-level metrics.`,
	Version: fmt.Sprintf("%s (%s)", version, commit),
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze an event log",
	Long: `Analyze an event log file and print the process report.

Examples:
  flowscope analyze -i events.csv
  flowscope analyze -i events.xlsx --percentile 90 --top 10
  flowscope analyze -i s3://bucket/logs/events.csv
  flowscope analyze -i events.csv --dot process.dot --json result.json
  flowscope analyze -i events.csv --case-id CaseID --activity Task --timestamp Started`,
	RunE: runAnalyze,
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-analyze an event log whenever it changes",
	Long: `Watch an event log file and re-run the analysis after each change.
Write bursts are debounced so partially written files are not analyzed.

Example:
  flowscope watch -i events.csv`,
	RunE: runWatch,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a normalized event log to Arrow IPC",
	Long: `Ingest an event log and write the validated, case-sorted events as
an Arrow IPC stream for downstream analytics tooling.

Example:
  flowscope export -i events.csv -o events.arrow`,
	RunE: runExport,
}

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Generate a synthetic event log",
	Long: `Generate a reproducible synthetic loan-approval event log for
demos and testing. The same seed always produces the same log.

Example:
  flowscope sample -o demo.csv --cases 100 --seed 42`,
	RunE: runSample,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default ~/.flowscope/config.yaml)")

	for _, cmd := range []*cobra.Command{analyzeCmd, watchCmd, exportCmd} {
		cmd.Flags().StringVarP(&inputFile, "input", "i", "", "Input file path (.csv, .xlsx, or s3:// URI)")
		cmd.Flags().StringVar(&caseColumn, "case-id", "", "Case ID column name")
		cmd.Flags().StringVar(&activityColumn, "activity", "", "Activity column name")
		cmd.Flags().StringVar(&timestampColumn, "timestamp", "", "Timestamp column name")
		cmd.Flags().StringVar(&resourceColumn, "resource", "", "Resource column name (optional)")
		cmd.Flags().StringVar(&timestampLayout, "timestamp-format", "", "Timestamp format (Go time layout) - auto-detected if not specified")
		cmd.MarkFlagRequired("input")
	}

	for _, cmd := range []*cobra.Command{analyzeCmd, watchCmd} {
		cmd.Flags().Float64Var(&percentileFlag, "percentile", 0, "Bottleneck threshold percentile (default 75)")
		cmd.Flags().IntVar(&topVariantsFlag, "top", 0, "Number of variants to report (default 5)")
	}

	analyzeCmd.Flags().StringVar(&dotPath, "dot", "", "Write the process graph in DOT format to this path")
	analyzeCmd.Flags().StringVar(&jsonPath, "json", "", "Write the full analysis as JSON to this path")
	analyzeCmd.Flags().StringVar(&storeDB, "store", "", "Persist the normalized log to this DuckDB database")

	exportCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output Arrow IPC file path (required)")
	exportCmd.MarkFlagRequired("output")

	sampleCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output CSV file path (required)")
	sampleCmd.Flags().IntVar(&sampleCases, "cases", 100, "Number of cases to generate")
	sampleCmd.Flags().Int64Var(&sampleSeed, "seed", 42, "Random seed")
	sampleCmd.MarkFlagRequired("output")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(sampleCmd)
}

// signalContext returns a context canceled on SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nInterrupted, cleaning up...")
		cancel()
	}()

	return ctx, cancel
}
