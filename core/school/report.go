package school

import (
	"bytes"
	"context"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

var progressReportHeader = []string{"Student", "Mastery (%)", "Status", "Last Active"}

// ExportProgress renders the subject's student progress as an XLSX
// workbook for the teacher dashboard's report download.
func (svc *Service) ExportProgress(ctx context.Context, subject string) (*bytes.Buffer, error) {
	progress := svc.StudentProgress(ctx, subject)

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	if err := f.SetSheetName(sheet, subject); err == nil {
		sheet = subject
	}

	for i, h := range progressReportHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, errors.Wrap(err, "writing report header")
		}
	}

	for row, p := range progress {
		values := []interface{}{p.StudentName, p.Mastery, p.Status, p.LastActive}
		for col, val := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				return nil, errors.Wrap(err, "writing report row")
			}
		}
	}

	var buff bytes.Buffer
	if _, err := f.WriteTo(&buff); err != nil {
		return nil, errors.Wrap(err, "rendering report")
	}
	return &buff, nil
}
