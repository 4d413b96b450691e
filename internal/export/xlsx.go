package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Estructura"

var xlsxHeader = []any{"Nivel", "Referencia", "Tipo", "Descripcion", "Material", "Unidad", "Cantidad", "Comentario"}

// XLSX writes a single sheet workbook. The Referencia cell is indented by
// visual level.
func XLSX(w io.Writer, doc Document) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}

	title := fmt.Sprintf("Estructura de %s - %s", doc.Product.BusinessID, doc.Product.Description)
	if err := f.SetCellValue(sheetName, "A1", title); err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}
	if err := f.SetCellValue(sheetName, "A2", filterSummary(doc.Filter)+" | Generado: "+doc.GeneratedAt.Format("02/01/2006 15:04")); err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
	})
	if err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}
	if err := f.SetSheetRow(sheetName, "A4", &xlsxHeader); err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}
	if err := f.SetCellStyle(sheetName, "A4", "H4", headerStyle); err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}

	indentStyles := map[int]int{}
	for i, l := range Lines(doc) {
		row := i + 5
		cell, _ := excelize.CoordinatesToCellName(1, row)
		values := []any{l.Nivel, l.Referencia, l.Tipo, l.Descripcion, l.Material, l.Unidad, l.Cantidad, l.Comentario}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("xlsx: row %d: %w", row, err)
		}

		style, ok := indentStyles[l.Indent]
		if !ok {
			style, err = f.NewStyle(&excelize.Style{Alignment: &excelize.Alignment{Indent: l.Indent * 2}})
			if err != nil {
				return fmt.Errorf("xlsx: %w", err)
			}
			indentStyles[l.Indent] = style
		}
		ref, _ := excelize.CoordinatesToCellName(2, row)
		if err := f.SetCellStyle(sheetName, ref, ref, style); err != nil {
			return fmt.Errorf("xlsx: %w", err)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "A", 7)
	_ = f.SetColWidth(sheetName, "B", "B", 28)
	_ = f.SetColWidth(sheetName, "C", "C", 15)
	_ = f.SetColWidth(sheetName, "D", "D", 40)
	_ = f.SetColWidth(sheetName, "E", "H", 14)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx: write: %w", err)
	}
	return nil
}
