package discovery

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowscope/flowscope/internal/model"
)

func TestAnalyze(t *testing.T) {
	res, err := Analyze(context.Background(), scenarioLog(), Options{})
	require.NoError(t, err)

	assert.NotEmpty(t, res.AnalysisID)
	assert.Len(t, res.DFG.Edges, 2)
	assert.Equal(t, 1.5, res.Durations["B"])
	assert.Equal(t, 2, res.Metrics.TotalCases)
	assert.Len(t, res.Variants, 2)
}

func TestAnalyze_EmptyLogIsValid(t *testing.T) {
	res, err := Analyze(context.Background(), model.NewEventLog(nil), Options{})
	require.NoError(t, err)

	assert.Empty(t, res.DFG.Edges)
	assert.Empty(t, res.Bottlenecks)
	assert.Empty(t, res.Variants)
	assert.Zero(t, res.Metrics.EventsPerCase)
}

func TestAnalyze_ParametersDoNotMutatePriorResults(t *testing.T) {
	log := model.NewEventLog([]model.Event{
		ev("C1", "A", 0), ev("C1", "B", 1), ev("C1", "C", 6),
		ev("C1", "D", 16), ev("C1", "E", 66),
	})

	strict, err := Analyze(context.Background(), log, Options{Percentile: 90})
	require.NoError(t, err)
	strictCount := len(strict.Bottlenecks)

	loose, err := Analyze(context.Background(), log, Options{Percentile: 25})
	require.NoError(t, err)

	assert.Equal(t, strictCount, len(strict.Bottlenecks), "earlier result mutated")
	assert.GreaterOrEqual(t, len(loose.Bottlenecks), strictCount)
	assert.NotEqual(t, strict.AnalysisID, loose.AnalysisID)
}

func TestAnalyze_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Analyze(ctx, scenarioLog(), Options{})
	assert.Error(t, err)
}

func TestResult_BottleneckActivities(t *testing.T) {
	res := &Result{Bottlenecks: []Bottleneck{
		{Activity: "Risk Assessment"},
		{Activity: "Manager Approval"},
	}}
	set := res.BottleneckActivities()
	assert.True(t, set["Risk Assessment"])
	assert.True(t, set["Manager Approval"])
	assert.False(t, set["Credit Check"])
}
