// Package model defines the core event log structures for FlowScope.
package model

import (
	"sort"
	"time"
)

// Event is a single observation in a process: one activity executed for one
// case at one point in time. Events are immutable once the log is built.
type Event struct {
	// CaseID identifies the process instance (trace).
	CaseID string

	// Activity is the activity label.
	Activity string

	// Timestamp is when the activity was observed.
	Timestamp time.Time

	// Resource is the actor performing the activity. Optional.
	Resource string
}

// Case is one end-to-end process instance: its events sorted ascending by
// timestamp, ties kept in original row order.
type Case struct {
	ID     string
	Events []Event
}

// Trace returns the ordered activity sequence of the case, duplicates
// preserved for loops.
func (c *Case) Trace() []string {
	trace := make([]string, len(c.Events))
	for i, e := range c.Events {
		trace[i] = e.Activity
	}
	return trace
}

// Duration returns the elapsed time between the first and last event of the
// case. Zero for single-event cases.
func (c *Case) Duration() time.Duration {
	if len(c.Events) < 2 {
		return 0
	}
	return c.Events[len(c.Events)-1].Timestamp.Sub(c.Events[0].Timestamp)
}

// EventLog is a validated event log grouped by case. Cases are ordered by
// case ID and each case's events are ordered by timestamp (stable). An
// EventLog is built once by ingestion and never mutated afterwards; every
// analysis over it is a pure function.
type EventLog struct {
	cases       []Case
	totalEvents int
}

// NewEventLog builds an EventLog from raw events. Events are grouped by case
// ID and sorted by (case ID, timestamp) with a stable sort, so rows that
// share a timestamp keep their original relative order.
func NewEventLog(events []Event) *EventLog {
	grouped := make(map[string][]Event)
	for _, e := range events {
		grouped[e.CaseID] = append(grouped[e.CaseID], e)
	}

	ids := make([]string, 0, len(grouped))
	for id := range grouped {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	cases := make([]Case, 0, len(ids))
	for _, id := range ids {
		evs := grouped[id]
		sort.SliceStable(evs, func(i, j int) bool {
			return evs[i].Timestamp.Before(evs[j].Timestamp)
		})
		cases = append(cases, Case{ID: id, Events: evs})
	}

	return &EventLog{cases: cases, totalEvents: len(events)}
}

// Cases returns the cases in case-ID order. Callers must not modify the
// returned slice.
func (l *EventLog) Cases() []Case {
	return l.cases
}

// TotalEvents returns the number of events across all cases.
func (l *EventLog) TotalEvents() int {
	return l.totalEvents
}

// TotalCases returns the number of distinct cases.
func (l *EventLog) TotalCases() int {
	return len(l.cases)
}

// Empty reports whether the log holds no events.
func (l *EventLog) Empty() bool {
	return l.totalEvents == 0
}

// Activities returns the distinct activity labels, sorted.
func (l *EventLog) Activities() []string {
	seen := make(map[string]bool)
	for _, c := range l.cases {
		for _, e := range c.Events {
			seen[e.Activity] = true
		}
	}
	out := make([]string, 0, len(seen))
	for a := range seen {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}
