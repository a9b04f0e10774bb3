package ingest

import (
	"bufio"
	"context"
	"encoding/csv"
	"io"
	"strings"

	"github.com/flowscope/flowscope/internal/model"
	fserrors "github.com/flowscope/flowscope/pkg/errors"
)

// ReadCSV ingests a comma-separated log with a header row.
func (ing *Ingester) ReadCSV(ctx context.Context, r io.Reader) (*model.EventLog, error) {
	cr := csv.NewReader(bufio.NewReaderSize(r, 64*1024))
	cr.FieldsPerRecord = -1 // ragged rows surface as blank-field errors
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fserrors.New(fserrors.CodeInvalidFormat, "empty input: no header row")
	}
	if err != nil {
		return nil, fserrors.Wrap(err, fserrors.CodeInvalidFormat, "failed to read header")
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF") // UTF-8 BOM
	}

	var rows [][]string
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fserrors.Wrap(err, fserrors.CodeInvalidFormat, "malformed CSV")
		}
		rows = append(rows, record)
	}

	return ing.buildLog(ctx, header, rows)
}
