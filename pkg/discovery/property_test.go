package discovery

import (
	"fmt"
	"math"
	"math/rand"
	"reflect"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/flowscope/flowscope/internal/model"
)

// randomEvents builds a random but well-formed raw event slice from a seed:
// 1-20 cases, 1-8 events each, activities drawn from a small alphabet.
func randomEvents(seed int64) []model.Event {
	rng := rand.New(rand.NewSource(seed))
	activities := []string{"Receive", "Verify", "Assess", "Approve", "Close"}

	var events []model.Event
	numCases := 1 + rng.Intn(20)
	for c := 0; c < numCases; c++ {
		caseID := fmt.Sprintf("CASE-%03d", c)
		at := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC).
			Add(time.Duration(rng.Intn(10000)) * time.Minute)
		numEvents := 1 + rng.Intn(8)
		for e := 0; e < numEvents; e++ {
			events = append(events, model.Event{
				CaseID:    caseID,
				Activity:  activities[rng.Intn(len(activities))],
				Timestamp: at,
			})
			at = at.Add(time.Duration(1+rng.Intn(600)) * time.Minute)
		}
	}
	return events
}

func TestDiscoveryProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	properties.Property("analytic functions are idempotent", prop.ForAll(
		func(seed int64) bool {
			log := model.NewEventLog(randomEvents(seed))

			first := ComputeDFG(log)
			second := ComputeDFG(log)
			if !reflect.DeepEqual(first, second) {
				return false
			}
			if !reflect.DeepEqual(ComputeDurations(log), ComputeDurations(log)) {
				return false
			}
			if !reflect.DeepEqual(ExtractVariants(log, 5), ExtractVariants(log, 5)) {
				return false
			}
			return ComputeMetrics(log) == ComputeMetrics(log)
		},
		gen.Int64(),
	))

	properties.Property("row order does not affect results", prop.ForAll(
		func(seed int64, shuffleSeed int64) bool {
			events := randomEvents(seed)

			shuffled := append([]model.Event(nil), events...)
			rand.New(rand.NewSource(shuffleSeed)).Shuffle(len(shuffled), func(i, j int) {
				shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
			})

			a := model.NewEventLog(events)
			b := model.NewEventLog(shuffled)

			if !reflect.DeepEqual(ComputeDFG(a), ComputeDFG(b)) {
				return false
			}
			if !reflect.DeepEqual(ComputeDurations(a), ComputeDurations(b)) {
				return false
			}
			return ComputeMetrics(a) == ComputeMetrics(b)
		},
		gen.Int64(),
		gen.Int64(),
	))

	properties.Property("edge frequencies sum to events minus cases", prop.ForAll(
		func(seed int64) bool {
			log := model.NewEventLog(randomEvents(seed))
			dfg := ComputeDFG(log)

			sum := 0
			for _, freq := range dfg.Edges {
				sum += freq
			}
			return sum == log.TotalEvents()-log.TotalCases()
		},
		gen.Int64(),
	))

	properties.Property("variant percentages sum to 100 within rounding tolerance", prop.ForAll(
		func(seed int64) bool {
			log := model.NewEventLog(randomEvents(seed))
			variants := ExtractVariants(log, log.TotalCases())

			sum := 0.0
			for _, v := range variants {
				sum += v.Percentage
			}
			return math.Abs(sum-100.0) <= 0.1*float64(len(variants))
		},
		gen.Int64(),
	))

	properties.Property("occurrence counts sum to total events", prop.ForAll(
		func(seed int64) bool {
			log := model.NewEventLog(randomEvents(seed))
			dfg := ComputeDFG(log)

			sum := 0
			for _, n := range dfg.ActivityCounts {
				sum += n
			}
			return sum == log.TotalEvents()
		},
		gen.Int64(),
	))

	properties.TestingRun(t)
}
