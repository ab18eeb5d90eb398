package export

import (
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/sitzungsdienst/internal/roster"
)

const sheet = "Sitzungsdienst"

func writeXLSX(w io.Writer, records []roster.AssignmentRecord) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	for i, h := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	for i, r := range records {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		values := row(r)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}

	// Widen a few columns
	_ = f.SetColWidth(sheet, "A", "B", 12) // date, time
	_ = f.SetColWidth(sheet, "C", "C", 40) // assignees
	_ = f.SetColWidth(sheet, "D", "D", 36) // location
	_ = f.SetColWidth(sheet, "E", "E", 18) // docket

	_, err := f.WriteTo(w)
	return err
}
