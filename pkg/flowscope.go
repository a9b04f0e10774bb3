// Package pkg provides the main entry point for the FlowScope library.
//
// FlowScope discovers process models from event logs: it ingests CSV or
// XLSX exports of case/activity/timestamp data, builds a directly-follows
// graph, and reports bottlenecks, variants, and case-level metrics.
//
// Basic usage:
//
//	// Analyze a file with default column names
//	analysis, err := flowscope.AnalyzeFile(ctx, "events.csv",
//	    flowscope.DefaultMapping())
//
//	// With options
//	analysis, err := flowscope.AnalyzeFile(ctx, "events.csv", mapping,
//	    flowscope.WithPercentile(90),
//	    flowscope.WithTopVariants(10),
//	)
//
//	fmt.Println(analysis.Graph.DOT())
package pkg

import (
	"context"

	"github.com/flowscope/flowscope/internal/model"
	"github.com/flowscope/flowscope/pkg/discovery"
	"github.com/flowscope/flowscope/pkg/ingest"
	"github.com/flowscope/flowscope/pkg/render"
)

// Analysis bundles the discovery result with its renderable graph.
type Analysis struct {
	Log    *model.EventLog
	Result *discovery.Result
	Graph  *render.Graph
}

// Option configures an analysis run.
type Option func(*options)

type options struct {
	discovery discovery.Options
	layout    string
}

// WithPercentile sets the bottleneck emission threshold percentile.
func WithPercentile(p float64) Option {
	return func(o *options) { o.discovery.Percentile = p }
}

// WithTopVariants caps the number of reported variants.
func WithTopVariants(n int) Option {
	return func(o *options) { o.discovery.TopVariants = n }
}

// WithTimestampLayout pins an explicit timestamp layout for ingestion.
func WithTimestampLayout(layout string) Option {
	return func(o *options) { o.layout = layout }
}

// DefaultMapping returns the conventional column names for event log
// exports.
func DefaultMapping() ingest.Mapping {
	return ingest.Mapping{
		Case:      "case_id",
		Activity:  "activity",
		Timestamp: "timestamp",
		Resource:  "resource",
	}
}

// AnalyzeFile ingests the file at path (local, .csv/.xlsx, or an s3:// URI)
// and runs a full analysis on it.
func AnalyzeFile(ctx context.Context, path string, mapping ingest.Mapping, opts ...Option) (*Analysis, error) {
	o := applyOptions(opts)

	var ingOpts []ingest.Option
	if o.layout != "" {
		ingOpts = append(ingOpts, ingest.WithTimestampLayout(o.layout))
	}

	log, err := ingest.New(mapping, ingOpts...).ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return AnalyzeLog(ctx, log, opts...)
}

// AnalyzeLog runs a full analysis on an already-ingested log.
func AnalyzeLog(ctx context.Context, log *model.EventLog, opts ...Option) (*Analysis, error) {
	o := applyOptions(opts)

	result, err := discovery.Analyze(ctx, log, o.discovery)
	if err != nil {
		return nil, err
	}

	return &Analysis{
		Log:    log,
		Result: result,
		Graph:  render.BuildGraph(result.DFG, result.Durations, result.BottleneckActivities()),
	}, nil
}

func applyOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Version information
const (
	Version   = "0.1.0"
	GitCommit = "dev"
)
