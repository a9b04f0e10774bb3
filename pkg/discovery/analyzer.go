package discovery

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/flowscope/flowscope/internal/model"
	fserrors "github.com/flowscope/flowscope/pkg/errors"
)

// Options parameterizes one analysis run.
type Options struct {
	// Percentile is the bottleneck emission threshold percentile.
	// Non-positive means DefaultPercentile.
	Percentile float64

	// TopVariants caps the returned variant list. Non-positive means
	// DefaultTopVariants.
	TopVariants int
}

// Result is a complete analysis of one event log. It is a pure function of
// the log and the options: re-running with different parameters produces a
// new Result and never mutates a prior one.
type Result struct {
	// AnalysisID uniquely identifies this analysis run.
	AnalysisID string

	DFG         *DFG
	Durations   map[string]float64
	Bottlenecks []Bottleneck
	Variants    []Variant
	Metrics     Metrics
}

// BottleneckActivities returns the set of flagged activity labels, for
// graph styling.
func (r *Result) BottleneckActivities() map[string]bool {
	set := make(map[string]bool, len(r.Bottlenecks))
	for _, b := range r.Bottlenecks {
		set[b.Activity] = true
	}
	return set
}

// Analyze runs every analysis over the log. The DFG, duration, variant, and
// metrics passes have no data dependency on each other and run as parallel
// tasks over the immutable log; bottleneck detection consumes the DFG and
// duration outputs afterwards.
func Analyze(ctx context.Context, log *model.EventLog, opts Options) (*Result, error) {
	tracer := otel.Tracer("flowscope/discovery")
	ctx, span := tracer.Start(ctx, "discovery.Analyze")
	defer span.End()
	span.SetAttributes(
		attribute.Int("log.events", log.TotalEvents()),
		attribute.Int("log.cases", log.TotalCases()),
	)

	res := &Result{AnalysisID: uuid.NewString()}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, s := tracer.Start(gctx, "discovery.ComputeDFG")
		defer s.End()
		res.DFG = ComputeDFG(log)
		return gctx.Err()
	})
	g.Go(func() error {
		_, s := tracer.Start(gctx, "discovery.ComputeDurations")
		defer s.End()
		res.Durations = ComputeDurations(log)
		return gctx.Err()
	})
	g.Go(func() error {
		_, s := tracer.Start(gctx, "discovery.ExtractVariants")
		defer s.End()
		res.Variants = ExtractVariants(log, opts.TopVariants)
		return gctx.Err()
	})
	g.Go(func() error {
		_, s := tracer.Start(gctx, "discovery.ComputeMetrics")
		defer s.End()
		res.Metrics = ComputeMetrics(log)
		return gctx.Err()
	})
	if err := g.Wait(); err != nil {
		return nil, fserrors.ContextCanceled("analyze")
	}

	_, s := tracer.Start(ctx, "discovery.DetectBottlenecks")
	res.Bottlenecks = DetectBottlenecks(log, opts.Percentile)
	s.End()

	return res, nil
}
