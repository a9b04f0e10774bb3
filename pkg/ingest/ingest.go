// Package ingest turns raw tabular data into a validated event log.
//
// Ingestion is the only fallible stage of the engine: it fails closed on
// missing columns, unparseable timestamps, and blank required fields, and it
// never produces a partial log. Everything downstream is a total function
// over the resulting EventLog.
package ingest

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/flowscope/flowscope/internal/model"
	fserrors "github.com/flowscope/flowscope/pkg/errors"
)

// Mapping binds the three required logical fields (plus the optional
// resource) to actual column names in the input.
type Mapping struct {
	Case      string
	Activity  string
	Timestamp string
	Resource  string // optional; empty means no resource column
}

// Option configures an Ingester.
type Option func(*Ingester)

// WithTimestampLayout pins an explicit timestamp layout that is tried before
// the canonical set.
func WithTimestampLayout(layout string) Option {
	return func(ing *Ingester) { ing.layout = layout }
}

// Ingester parses raw rows into a validated, per-case time-ordered EventLog.
type Ingester struct {
	mapping Mapping
	layout  string
}

// New creates an Ingester for the given column mapping.
func New(mapping Mapping, opts ...Option) *Ingester {
	ing := &Ingester{mapping: mapping}
	for _, opt := range opts {
		opt(ing)
	}
	return ing
}

// ReadFile ingests a log from a local path or an s3:// URI, dispatching on
// the file extension (.csv or .xlsx).
func (ing *Ingester) ReadFile(ctx context.Context, path string) (*model.EventLog, error) {
	r, err := openSource(ctx, path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return ing.ReadXLSX(ctx, r)
	case ".csv", ".txt", "":
		return ing.ReadCSV(ctx, r)
	default:
		return nil, fserrors.New(fserrors.CodeInvalidFormat, "unsupported input format").
			WithContext("path", path)
	}
}

// openSource opens a local file or an S3 object for reading.
func openSource(ctx context.Context, path string) (io.ReadCloser, error) {
	if isS3URI(path) {
		return openS3(ctx, path)
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fserrors.FileNotFound(path)
		}
		return nil, fserrors.Wrap(err, fserrors.CodeFilePermission, "failed to open input")
	}
	return f, nil
}

// buildLog validates and assembles the event log from header + rows.
// Row indexes in errors are 1-based over data rows.
func (ing *Ingester) buildLog(ctx context.Context, header []string, rows [][]string) (*model.EventLog, error) {
	idx, err := ing.resolveColumns(header)
	if err != nil {
		return nil, err
	}

	var (
		tsErrs    badRowSet
		caseErrs  badRowSet
		actErrs   badRowSet
		events    = make([]model.Event, 0, len(rows))
	)

	for i, row := range rows {
		if i%1024 == 0 {
			select {
			case <-ctx.Done():
				return nil, fserrors.ContextCanceled("ingest")
			default:
			}
		}

		rowNum := i + 1
		caseID := cell(row, idx.caseID)
		activity := cell(row, idx.activity)
		rawTS := cell(row, idx.timestamp)

		if caseID == "" {
			caseErrs.add(rowNum, caseID)
		}
		if activity == "" {
			actErrs.add(rowNum, activity)
		}

		ts, terr := parseTimestamp(rawTS, ing.layout)
		if terr != nil {
			tsErrs.add(rowNum, rawTS)
			continue
		}

		ev := model.Event{CaseID: caseID, Activity: activity, Timestamp: ts}
		if idx.resource >= 0 {
			ev.Resource = cell(row, idx.resource)
		}
		events = append(events, ev)
	}

	// Fail closed: any invalid row rejects the whole load.
	if !tsErrs.empty() {
		return nil, &TimestampParseError{Rows: tsErrs.rows, Remaining: tsErrs.remaining}
	}
	if !caseErrs.empty() {
		return nil, &FieldError{Field: "case", Rows: caseErrs.rows, Remaining: caseErrs.remaining}
	}
	if !actErrs.empty() {
		return nil, &FieldError{Field: "activity", Rows: actErrs.rows, Remaining: actErrs.remaining}
	}

	return model.NewEventLog(events), nil
}

// columnIndexes holds resolved header positions; -1 means absent.
type columnIndexes struct {
	caseID    int
	activity  int
	timestamp int
	resource  int
}

// resolveColumns maps the configured column names to header positions,
// collecting every missing required column before failing.
func (ing *Ingester) resolveColumns(header []string) (columnIndexes, error) {
	pos := make(map[string]int, len(header))
	for i, col := range header {
		pos[strings.TrimSpace(col)] = i
	}

	idx := columnIndexes{caseID: -1, activity: -1, timestamp: -1, resource: -1}
	var missing []string

	lookup := func(name string) int {
		if i, ok := pos[name]; ok {
			return i
		}
		missing = append(missing, name)
		return -1
	}

	idx.caseID = lookup(ing.mapping.Case)
	idx.activity = lookup(ing.mapping.Activity)
	idx.timestamp = lookup(ing.mapping.Timestamp)

	if len(missing) > 0 {
		return idx, &SchemaError{Missing: missing}
	}

	if ing.mapping.Resource != "" {
		if i, ok := pos[ing.mapping.Resource]; ok {
			idx.resource = i
		}
	}
	return idx, nil
}

// cell returns a trimmed field value, tolerating ragged rows.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
