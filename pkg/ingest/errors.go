package ingest

import (
	"fmt"
	"strings"

	fserrors "github.com/flowscope/flowscope/pkg/errors"
)

// MaxReportedRows caps how many offending rows an ingestion error carries.
// Anything beyond the cap is summarized as a remainder count.
const MaxReportedRows = 50

// BadRow identifies one rejected input row.
type BadRow struct {
	// Row is the 1-based position of the row among data rows (the header
	// does not count).
	Row int

	// Value is the raw offending value.
	Value string
}

// SchemaError reports required columns missing from the input header.
// The load produces no partial result.
type SchemaError struct {
	// Missing lists every missing column name, in mapping order.
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("[%s] missing required columns: %s",
		fserrors.CodeMissingColumn, strings.Join(e.Missing, ", "))
}

// TimestampParseError reports unparseable timestamps. The whole load is
// rejected: dropping rows silently would bias every downstream statistic.
type TimestampParseError struct {
	// Rows holds up to MaxReportedRows offending rows.
	Rows []BadRow

	// Remaining counts offending rows beyond the reported cap.
	Remaining int
}

func (e *TimestampParseError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %d unparseable timestamp(s)", fserrors.CodeInvalidTimestamp, len(e.Rows)+e.Remaining)
	for i, r := range e.Rows {
		if i == 0 {
			sb.WriteString(":")
		}
		fmt.Fprintf(&sb, "\n  row %d: %q", r.Row, r.Value)
	}
	if e.Remaining > 0 {
		fmt.Fprintf(&sb, "\n  ... and %d more", e.Remaining)
	}
	return sb.String()
}

// FieldError reports rows with a blank case ID or activity. Like timestamp
// failures it rejects the whole load, preserving the EventLog invariant that
// every record carries a non-empty case ID and activity.
type FieldError struct {
	// Field is the logical field that was blank ("case" or "activity").
	Field string

	// Rows holds up to MaxReportedRows offending rows.
	Rows []BadRow

	// Remaining counts offending rows beyond the reported cap.
	Remaining int
}

func (e *FieldError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %d row(s) with blank %s", fserrors.CodeEmptyField, len(e.Rows)+e.Remaining, e.Field)
	for i, r := range e.Rows {
		if i == 0 {
			sb.WriteString(":")
		}
		fmt.Fprintf(&sb, "\n  row %d", r.Row)
	}
	if e.Remaining > 0 {
		fmt.Fprintf(&sb, "\n  ... and %d more", e.Remaining)
	}
	return sb.String()
}

// badRowSet accumulates offending rows up to the reporting cap.
type badRowSet struct {
	rows      []BadRow
	remaining int
}

func (s *badRowSet) add(row int, value string) {
	if len(s.rows) < MaxReportedRows {
		s.rows = append(s.rows, BadRow{Row: row, Value: value})
		return
	}
	s.remaining++
}

func (s *badRowSet) empty() bool {
	return len(s.rows) == 0
}
