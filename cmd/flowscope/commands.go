package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/flowscope/flowscope/internal/model"
	"github.com/flowscope/flowscope/pkg/config"
	"github.com/flowscope/flowscope/pkg/discovery"
	"github.com/flowscope/flowscope/pkg/export"
	"github.com/flowscope/flowscope/pkg/ingest"
	"github.com/flowscope/flowscope/pkg/render"
	"github.com/flowscope/flowscope/pkg/report"
	"github.com/flowscope/flowscope/pkg/store"
	"github.com/flowscope/flowscope/pkg/telemetry"
	"github.com/flowscope/flowscope/pkg/testing/generators"
	"github.com/flowscope/flowscope/pkg/watch"
)

// settings is the merged configuration for one command run:
// defaults < config file < flags.
type settings struct {
	mapping    ingest.Mapping
	ingestOpts []ingest.Option
	analysis   discovery.Options
	store      config.StoreConfig
	telemetry  config.TelemetryConfig
}

func loadSettings(cmd *cobra.Command) (*settings, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	s := &settings{
		mapping: ingest.Mapping{
			Case:      cfg.Mapping.Case,
			Activity:  cfg.Mapping.Activity,
			Timestamp: cfg.Mapping.Timestamp,
			Resource:  cfg.Mapping.Resource,
		},
		analysis: discovery.Options{
			Percentile:  cfg.Analysis.BottleneckPercentile,
			TopVariants: cfg.Analysis.TopVariants,
		},
		store:     cfg.Store,
		telemetry: cfg.Telemetry,
	}

	layout := cfg.Mapping.TimestampLayout

	flags := cmd.Flags()
	if flags.Changed("case-id") {
		s.mapping.Case = caseColumn
	}
	if flags.Changed("activity") {
		s.mapping.Activity = activityColumn
	}
	if flags.Changed("timestamp") {
		s.mapping.Timestamp = timestampColumn
	}
	if flags.Changed("resource") {
		s.mapping.Resource = resourceColumn
	}
	if flags.Changed("timestamp-format") {
		layout = timestampLayout
	}
	if flags.Changed("percentile") {
		s.analysis.Percentile = percentileFlag
	}
	if flags.Changed("top") {
		s.analysis.TopVariants = topVariantsFlag
	}
	if flags.Changed("store") {
		s.store.Enabled = true
		s.store.Path = storeDB
	}

	if layout != "" {
		s.ingestOpts = append(s.ingestOpts, ingest.WithTimestampLayout(layout))
	}
	return s, nil
}

// initTelemetry sets up tracing when enabled and returns a shutdown func.
func initTelemetry(ctx context.Context, tc config.TelemetryConfig) func() {
	if !tc.Enabled {
		return func() {}
	}

	cfg := telemetry.DefaultConfig("flowscope")
	cfg.ServiceVersion = version
	if tc.Endpoint != "" {
		cfg.Endpoint = tc.Endpoint
	}

	shutdown, err := telemetry.Init(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: telemetry disabled: %v\n", err)
		return func() {}
	}
	return func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(flushCtx); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: telemetry flush failed: %v\n", err)
		}
	}
}

// ingestWithProgress reads the input file with a spinner on stderr.
func ingestWithProgress(ctx context.Context, s *settings, path string) (*model.EventLog, error) {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription("Reading "+filepath.Base(path)),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case <-time.After(100 * time.Millisecond):
				bar.Add(1)
			}
		}
	}()

	log, err := ingest.New(s.mapping, s.ingestOpts...).ReadFile(ctx, path)
	close(done)
	bar.Finish()
	return log, err
}

func analyzeOnce(ctx context.Context, s *settings, path string) error {
	log, err := ingestWithProgress(ctx, s, path)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Loaded %d events across %d cases\n",
			log.TotalEvents(), log.TotalCases())
	}

	result, err := discovery.Analyze(ctx, log, s.analysis)
	if err != nil {
		return err
	}

	report.Write(os.Stdout, result)

	if s.store.Enabled {
		if err := persistLog(ctx, s.store.Path, log); err != nil {
			return err
		}
		if verbose {
			target := s.store.Path
			if target == "" {
				target = "(in-memory)"
			}
			fmt.Fprintf(os.Stderr, "Persisted %d events to %s\n", log.TotalEvents(), target)
		}
	}

	if dotPath != "" {
		graph := render.BuildGraph(result.DFG, result.Durations, result.BottleneckActivities())
		if err := os.WriteFile(dotPath, []byte(graph.DOT()), 0o644); err != nil {
			return fmt.Errorf("failed to write DOT file: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Graph: %s\n", dotPath)
		}
	}

	if jsonPath != "" {
		if err := writeJSON(jsonPath, result); err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "JSON: %s\n", jsonPath)
		}
	}

	return nil
}

func persistLog(ctx context.Context, path string, log *model.EventLog) error {
	db, err := store.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()
	return db.LoadLog(ctx, log)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	shutdown := initTelemetry(ctx, s.telemetry)
	defer shutdown()

	return analyzeOnce(ctx, s, inputFile)
}

func runWatch(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	shutdown := initTelemetry(ctx, s.telemetry)
	defer shutdown()

	if err := analyzeOnce(ctx, s, inputFile); err != nil {
		return err
	}

	target, err := filepath.Abs(inputFile)
	if err != nil {
		return err
	}

	watcher, err := watch.New()
	if err != nil {
		return err
	}
	defer watcher.Close()

	watcher.OnChange = func(path string) error {
		// Directory watch: ignore sibling files.
		if path != target {
			return nil
		}
		fmt.Fprintf(os.Stderr, "\n%s changed, re-analyzing...\n", filepath.Base(path))
		return analyzeOnce(ctx, s, inputFile)
	}
	watcher.OnError = func(path string, err error) {
		fmt.Fprintf(os.Stderr, "Watch error: %v\n", err)
	}

	if err := watcher.Watch(inputFile); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Watching %s (Ctrl+C to stop)\n", inputFile)
	if err := watcher.Run(ctx); err != nil && err != context.Canceled {
		return err
	}
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	log, err := ingestWithProgress(ctx, s, inputFile)
	if err != nil {
		return err
	}

	if err := export.WriteFile(outputFile, log); err != nil {
		return err
	}

	fmt.Printf("Exported %d events (%d cases) to %s\n",
		log.TotalEvents(), log.TotalCases(), outputFile)
	return nil
}

func runSample(cmd *cobra.Command, args []string) error {
	f, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	gen := generators.New(sampleSeed)
	if err := gen.WriteCSV(f, sampleCases); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	fmt.Printf("Generated %d cases (seed %d) to %s\n", sampleCases, sampleSeed, outputFile)
	return nil
}

// JSON output views: stable field names independent of internal structs.

type edgeJSON struct {
	Source    string `json:"source"`
	Target    string `json:"target"`
	Frequency int    `json:"frequency"`
}

type bottleneckJSON struct {
	Activity         string  `json:"activity"`
	AvgDurationHours float64 `json:"avg_duration_hours"`
	EventCount       int     `json:"event_count"`
	Severity         string  `json:"severity"`
	PercentileRank   float64 `json:"percentile_rank"`
}

type variantJSON struct {
	Rank       int     `json:"rank"`
	Trace      string  `json:"trace"`
	CaseCount  int     `json:"case_count"`
	Percentage float64 `json:"percentage"`
}

type analysisJSON struct {
	AnalysisID       string             `json:"analysis_id"`
	Metrics          discovery.Metrics  `json:"metrics"`
	ActivityCounts   map[string]int     `json:"activity_counts"`
	ActivityAvgHours map[string]float64 `json:"activity_avg_hours"`
	Edges            []edgeJSON         `json:"edges"`
	Bottlenecks      []bottleneckJSON   `json:"bottlenecks"`
	Variants         []variantJSON      `json:"variants"`
}

func writeJSON(path string, result *discovery.Result) error {
	view := analysisJSON{
		AnalysisID:       result.AnalysisID,
		Metrics:          result.Metrics,
		ActivityCounts:   result.DFG.ActivityCounts,
		ActivityAvgHours: result.Durations,
		Edges:            make([]edgeJSON, 0, len(result.DFG.Edges)),
		Bottlenecks:      make([]bottleneckJSON, 0, len(result.Bottlenecks)),
		Variants:         make([]variantJSON, 0, len(result.Variants)),
	}

	for _, e := range result.DFG.SortedEdges() {
		view.Edges = append(view.Edges, edgeJSON{Source: e.Source, Target: e.Target, Frequency: e.Frequency})
	}
	for _, b := range result.Bottlenecks {
		view.Bottlenecks = append(view.Bottlenecks, bottleneckJSON{
			Activity:         b.Activity,
			AvgDurationHours: b.AvgDurationHours,
			EventCount:       b.EventCount,
			Severity:         string(b.Severity),
			PercentileRank:   b.PercentileRank,
		})
	}
	for _, v := range result.Variants {
		view.Variants = append(view.Variants, variantJSON{
			Rank:       v.Rank,
			Trace:      v.Trace,
			CaseCount:  v.CaseCount,
			Percentage: v.Percentage,
		})
	}

	data, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode analysis: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
