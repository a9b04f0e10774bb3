// Package export writes normalized event logs to Arrow IPC streams for
// downstream analytics tooling.
package export

import (
	"io"
	"os"

	"github.com/apache/arrow/go/v14/arrow"
	"github.com/apache/arrow/go/v14/arrow/array"
	"github.com/apache/arrow/go/v14/arrow/ipc"
	"github.com/apache/arrow/go/v14/arrow/memory"

	"github.com/flowscope/flowscope/internal/model"
	fserrors "github.com/flowscope/flowscope/pkg/errors"
)

// batchSize bounds the rows per Arrow record batch.
const batchSize = 8192

// Schema is the Arrow schema of an exported event log.
var Schema = arrow.NewSchema([]arrow.Field{
	{Name: "case_id", Type: arrow.BinaryTypes.String},
	{Name: "activity", Type: arrow.BinaryTypes.String},
	{Name: "timestamp", Type: arrow.FixedWidthTypes.Timestamp_ns},
	{Name: "resource", Type: arrow.BinaryTypes.String, Nullable: true},
}, nil)

// WriteLog streams the log's events to w as Arrow IPC record batches,
// in case order then within-case timestamp order.
func WriteLog(w io.Writer, log *model.EventLog) error {
	writer := ipc.NewWriter(w, ipc.WithSchema(Schema))
	builder := array.NewRecordBuilder(memory.DefaultAllocator, Schema)
	defer builder.Release()

	caseIDs := builder.Field(0).(*array.StringBuilder)
	activities := builder.Field(1).(*array.StringBuilder)
	timestamps := builder.Field(2).(*array.TimestampBuilder)
	resources := builder.Field(3).(*array.StringBuilder)

	flush := func() error {
		rec := builder.NewRecord()
		defer rec.Release()
		if err := writer.Write(rec); err != nil {
			return fserrors.Wrap(err, fserrors.CodeExportFailed, "failed to write record batch")
		}
		return nil
	}

	pending := 0
	for _, c := range log.Cases() {
		for _, e := range c.Events {
			caseIDs.Append(e.CaseID)
			activities.Append(e.Activity)
			timestamps.Append(arrow.Timestamp(e.Timestamp.UnixNano()))
			if e.Resource == "" {
				resources.AppendNull()
			} else {
				resources.Append(e.Resource)
			}
			pending++
			if pending == batchSize {
				if err := flush(); err != nil {
					return err
				}
				pending = 0
			}
		}
	}
	if pending > 0 {
		if err := flush(); err != nil {
			return err
		}
	}

	if err := writer.Close(); err != nil {
		return fserrors.Wrap(err, fserrors.CodeExportFailed, "failed to finalize stream")
	}
	return nil
}

// WriteFile exports the log to an Arrow IPC file at path.
func WriteFile(path string, log *model.EventLog) error {
	f, err := os.Create(path)
	if err != nil {
		return fserrors.Wrap(err, fserrors.CodeExportFailed, "failed to create output file")
	}
	defer f.Close()

	if err := WriteLog(f, log); err != nil {
		return err
	}
	return f.Close()
}
