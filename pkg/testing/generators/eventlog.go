// Package generators provides test data generation utilities.
//
// Generators are explicitly seeded: the analytic engine itself never draws
// randomness, so demo data lives here, outside the engine, with a seed the
// caller controls.
package generators

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"time"
)

// activityProfile is one step of the demo loan process with its duration
// band in hours.
type activityProfile struct {
	name     string
	minHours float64
	maxHours float64
}

// The demo loan-approval process. Risk Assessment is an intentional
// bottleneck.
var loanActivities = []activityProfile{
	{"Application Received", 0.5, 2},
	{"Document Verification", 4, 24},
	{"Credit Check", 2, 8},
	{"Risk Assessment", 24, 72},
	{"Manager Approval", 4, 12},
	{"Final Review", 2, 6},
	{"Loan Disbursement", 1, 4},
}

var resources = []string{"Ahmad", "Budi", "Citra", "Dewi", "Eko", "Fitri"}

// EventLogGenerator produces a synthetic loan-approval event log.
type EventLogGenerator struct {
	rng *rand.Rand

	// Base is the start of the 60-day window cases are spread over.
	Base time.Time

	// SkipCreditRate is the fraction of cases skipping the credit check.
	SkipCreditRate float64

	// EscalationRate is the fraction of cases taking the escalation loop.
	EscalationRate float64
}

// New creates a generator from an explicit seed. Equal seeds produce equal
// logs.
func New(seed int64) *EventLogGenerator {
	return &EventLogGenerator{
		rng:            rand.New(rand.NewSource(seed)),
		Base:           time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		SkipCreditRate: 0.1,
		EscalationRate: 0.15,
	}
}

// Row is one generated event record.
type Row struct {
	CaseID    string
	Activity  string
	Timestamp time.Time
	Resource  string
}

// Generate produces events for numCases cases.
func (g *EventLogGenerator) Generate(numCases int) []Row {
	var rows []Row

	for caseNum := 1; caseNum <= numCases; caseNum++ {
		caseID := fmt.Sprintf("LOAN-2024-%04d", caseNum)
		at := g.Base.Add(time.Duration(g.rng.Float64() * 60 * 24 * float64(time.Hour)))

		skipCredit := g.rng.Float64() < g.SkipCreditRate
		needsEscalation := g.rng.Float64() < g.EscalationRate

		for _, act := range loanActivities {
			if act.name == "Credit Check" && skipCredit {
				continue
			}

			rows = append(rows, Row{
				CaseID:    caseID,
				Activity:  act.name,
				Timestamp: at,
				Resource:  resources[g.rng.Intn(len(resources))],
			})

			hours := act.minHours + g.rng.Float64()*(act.maxHours-act.minHours)
			if act.name == "Risk Assessment" {
				hours *= 1.2 + g.rng.Float64()*0.8
			}
			at = at.Add(time.Duration(hours * float64(time.Hour)))

			if act.name == "Manager Approval" && needsEscalation {
				rows = append(rows, Row{
					CaseID:    caseID,
					Activity:  "Escalation Review",
					Timestamp: at,
					Resource:  "Manager",
				})
				at = at.Add(time.Duration((8 + g.rng.Float64()*16) * float64(time.Hour)))
			}
		}
	}
	return rows
}

// WriteCSV generates numCases cases and writes them as CSV with the
// canonical header (case_id, activity, timestamp, resource).
func (g *EventLogGenerator) WriteCSV(w io.Writer, numCases int) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"case_id", "activity", "timestamp", "resource"}); err != nil {
		return err
	}

	for _, row := range g.Generate(numCases) {
		record := []string{
			row.CaseID,
			row.Activity,
			row.Timestamp.Format("2006-01-02 15:04:05"),
			row.Resource,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// NumActivities reports how many distinct activities the generator can emit,
// escalation included.
func NumActivities() int {
	return len(loanActivities) + 1
}
