package model

import (
	"testing"
	"time"
)

func ts(h int) time.Time {
	return time.Date(2024, 3, 1, h, 0, 0, 0, time.UTC)
}

func TestNewEventLog_GroupsAndSorts(t *testing.T) {
	events := []Event{
		{CaseID: "C2", Activity: "A", Timestamp: ts(9)},
		{CaseID: "C1", Activity: "B", Timestamp: ts(11)},
		{CaseID: "C1", Activity: "A", Timestamp: ts(10)},
		{CaseID: "C2", Activity: "B", Timestamp: ts(12)},
	}

	log := NewEventLog(events)

	if log.TotalCases() != 2 {
		t.Fatalf("TotalCases() = %d, want 2", log.TotalCases())
	}
	if log.TotalEvents() != 4 {
		t.Fatalf("TotalEvents() = %d, want 4", log.TotalEvents())
	}

	cases := log.Cases()
	if cases[0].ID != "C1" || cases[1].ID != "C2" {
		t.Errorf("cases not ordered by ID: %q, %q", cases[0].ID, cases[1].ID)
	}
	if got := cases[0].Events[0].Activity; got != "A" {
		t.Errorf("C1 first event = %q, want A", got)
	}
	if got := cases[0].Events[1].Activity; got != "B" {
		t.Errorf("C1 second event = %q, want B", got)
	}
}

func TestNewEventLog_StableOnEqualTimestamps(t *testing.T) {
	// Same timestamp: original row order must be preserved.
	events := []Event{
		{CaseID: "C1", Activity: "First", Timestamp: ts(10)},
		{CaseID: "C1", Activity: "Second", Timestamp: ts(10)},
		{CaseID: "C1", Activity: "Third", Timestamp: ts(10)},
	}

	log := NewEventLog(events)
	trace := log.Cases()[0].Trace()

	want := []string{"First", "Second", "Third"}
	for i, a := range want {
		if trace[i] != a {
			t.Fatalf("trace[%d] = %q, want %q (stable sort violated)", i, trace[i], a)
		}
	}
}

func TestCase_Duration(t *testing.T) {
	c := Case{ID: "C1", Events: []Event{
		{Activity: "A", Timestamp: ts(10)},
		{Activity: "B", Timestamp: ts(13)},
	}}
	if got := c.Duration(); got != 3*time.Hour {
		t.Errorf("Duration() = %v, want 3h", got)
	}

	single := Case{ID: "C2", Events: []Event{{Activity: "A", Timestamp: ts(10)}}}
	if got := single.Duration(); got != 0 {
		t.Errorf("single-event Duration() = %v, want 0", got)
	}
}

func TestEventLog_Activities(t *testing.T) {
	log := NewEventLog([]Event{
		{CaseID: "C1", Activity: "B", Timestamp: ts(10)},
		{CaseID: "C1", Activity: "A", Timestamp: ts(11)},
		{CaseID: "C2", Activity: "B", Timestamp: ts(12)},
	})

	got := log.Activities()
	if len(got) != 2 || got[0] != "A" || got[1] != "B" {
		t.Errorf("Activities() = %v, want [A B]", got)
	}
}

func TestEventLog_Empty(t *testing.T) {
	log := NewEventLog(nil)
	if !log.Empty() {
		t.Error("Empty() = false for empty log")
	}
	if log.TotalCases() != 0 || log.TotalEvents() != 0 {
		t.Errorf("empty log counts = (%d, %d), want (0, 0)", log.TotalCases(), log.TotalEvents())
	}
}
