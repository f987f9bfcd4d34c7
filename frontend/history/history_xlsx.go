package history

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"conferente/infrastructure/report"
)

const xlsxSheet = "Relatório Conferente"

var xlsxHeaders = []string{
	"Data", "Hora", "Fornecedor", "Produto",
	"Peso Nota (kg)", "Peso Bruto (kg)", "Tara (kg)", "Qtd Cx",
	"Peso Líquido (kg)", "Diferença (kg)", "Status", "Com Foto",
}

// WriteXLSX streams the report as a single-sheet workbook, one row per
// weighing, columns matching the on-screen table.
func WriteXLSX(w io.Writer, summary report.Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return fmt.Errorf("name report sheet: %w", err)
	}

	for col, header := range xlsxHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(xlsxSheet, cell, header); err != nil {
			return fmt.Errorf("write header %q: %w", header, err)
		}
	}

	for i, row := range summary.Rows {
		hasPhoto := "Não"
		if row.HasPhoto {
			hasPhoto = "Sim"
		}
		// Records weighed without a box count export as a single box.
		boxes := row.BoxQuantity
		if boxes == 0 {
			boxes = 1
		}
		values := []any{
			row.Date, row.Time, row.Supplier, row.Product,
			row.TargetWeightKg, row.GrossWeightKg, row.TareKg, boxes,
			row.NetWeightKg, row.DiffKg, row.Status, hasPhoto,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return fmt.Errorf("row cell: %w", err)
			}
			if err := f.SetCellValue(xlsxSheet, cell, value); err != nil {
				return fmt.Errorf("write row %d: %w", i+1, err)
			}
		}
	}

	if err := f.SetColWidth(xlsxSheet, "A", "L", 16); err != nil {
		return fmt.Errorf("set column widths: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
