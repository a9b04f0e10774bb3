package ingest

import (
	"context"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/flowscope/flowscope/internal/model"
	fserrors "github.com/flowscope/flowscope/pkg/errors"
)

// ReadXLSX ingests the first sheet of an Excel workbook. The first row is
// the header; validation semantics are identical to CSV ingestion.
func (ing *Ingester) ReadXLSX(ctx context.Context, r io.Reader) (*model.EventLog, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fserrors.Wrap(err, fserrors.CodeInvalidFormat, "failed to open xlsx")
	}
	defer wb.Close()

	sheet := wb.GetSheetName(0)
	if sheet == "" {
		sheets := wb.GetSheetList()
		if len(sheets) == 0 {
			return nil, fserrors.New(fserrors.CodeInvalidFormat, "xlsx has no sheets")
		}
		sheet = sheets[0]
	}

	it, err := wb.Rows(sheet)
	if err != nil {
		return nil, fserrors.Wrap(err, fserrors.CodeInvalidFormat, "failed to read xlsx rows")
	}
	defer it.Close()

	if !it.Next() {
		return nil, fserrors.New(fserrors.CodeInvalidFormat, "empty input: no header row")
	}
	header, err := it.Columns()
	if err != nil {
		return nil, fserrors.Wrap(err, fserrors.CodeInvalidFormat, "failed to read header")
	}

	var rows [][]string
	for it.Next() {
		row, err := it.Columns()
		if err != nil {
			return nil, fserrors.Wrap(err, fserrors.CodeInvalidFormat, "failed to read xlsx row")
		}
		rows = append(rows, row)
	}

	return ing.buildLog(ctx, header, rows)
}
