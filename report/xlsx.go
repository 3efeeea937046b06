package report

import (
	"fmt"
	"io"

	"catering-backend/costing"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Variations"

var variationHeader = []any{"ID", "Name", "Kind", "Category", "Supplier", "Start price", "End price", "Difference", "Change %"}

// WriteVariations writes a ranking as a one sheet XLSX workbook: a header row
// followed by one row per result, in the given order.
func WriteVariations(w io.Writer, results []costing.VariationResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(sheetName, "A1", &variationHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	if err := f.SetRowStyle(sheetName, 1, 1, bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, r := range results {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{r.ID, r.Name, string(r.Kind), r.Category, r.Supplier, r.StartPrice, r.EndPrice, r.Diff, r.Percent}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(sheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}
	_, err = f.WriteTo(w)
	return err
}
