package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/KaramelBytes/mbtiscope/internal/ranking"
	"github.com/xuri/excelize/v2"
)

// WriteXLSX writes the ranking as a one-sheet workbook named after the column.
func WriteXLSX(w io.Writer, res *ranking.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := res.Column
	if sheet == "" || len(sheet) > 31 || strings.ContainsAny(sheet, `:\/?*[]`) {
		sheet = "Ranking"
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("xlsx sheet: %w", err)
	}
	if err := f.SetSheetRow(sheet, "A1", &[]interface{}{"Country", res.Column + " (%)"}); err != nil {
		return fmt.Errorf("xlsx header: %w", err)
	}
	for i, e := range res.Entries {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("xlsx cell: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &[]interface{}{e.Country, e.Percent}); err != nil {
			return fmt.Errorf("xlsx row %d: %w", i+1, err)
		}
	}
	if err := f.SetColWidth(sheet, "A", "A", 24); err != nil {
		return fmt.Errorf("xlsx width: %w", err)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
