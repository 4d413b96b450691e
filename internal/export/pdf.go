package export

// pdf.go: structure report using go-pdf/fpdf.
// A4 landscape with:
//   - Product header and active filter summary
//   - Table (level, indented reference, type, description, material, qty)
//   - Page footer with page numbers

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
)

const indentMM = 4.0

// PDF writes the report. Indentation is drawn by offsetting the reference
// cell; the core fonts cannot render box drawing connectors.
func PDF(w io.Writer, doc Document) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 12)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-10)
		pdf.SetFont("Helvetica", "I", 7)
		pdf.CellFormat(0, 5, fmt.Sprintf("Pagina %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AliasNbPages("")
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 20

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, tr("Estructura de producto "+doc.Product.BusinessID), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, tr(doc.Product.Description), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, tr(filterSummary(doc.Filter)+"   Generado: "+doc.GeneratedAt.Format("02/01/2006  15:04")), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	// ── Table header ─────────────────────────────────────────────────────────
	cols := []struct {
		title string
		width float64
		align string
	}{
		{"Nivel", 0.06, "C"},
		{"Referencia", 0.24, "L"},
		{"Tipo", 0.10, "L"},
		{"Descripcion", 0.28, "L"},
		{"Material", 0.14, "L"},
		{"Unidad", 0.06, "C"},
		{"Cantidad", 0.12, "R"},
	}
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(217, 225, 242)
	for i, c := range cols {
		ln := 0
		if i == len(cols)-1 {
			ln = 1
		}
		pdf.CellFormat(contentW*c.width, 6, tr(c.title), "B", ln, c.align, true, 0, "")
	}

	// ── Rows ─────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 8)
	for _, l := range Lines(doc) {
		refW := contentW * cols[1].width
		offset := float64(l.Indent) * indentMM
		if offset > refW-10 {
			offset = refW - 10
		}
		pdf.CellFormat(contentW*cols[0].width, 5, fmt.Sprint(l.Nivel), "", 0, "C", false, 0, "")
		if offset > 0 {
			pdf.CellFormat(offset, 5, "", "", 0, "L", false, 0, "")
		}
		pdf.CellFormat(refW-offset, 5, tr(truncate(l.Referencia, 40)), "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*cols[2].width, 5, tr(l.Tipo), "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*cols[3].width, 5, tr(truncate(l.Descripcion, 55)), "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*cols[4].width, 5, tr(truncate(l.Material, 25)), "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*cols[5].width, 5, tr(l.Unidad), "", 0, "C", false, 0, "")
		pdf.CellFormat(contentW*cols[6].width, 5, l.Cantidad, "", 1, "R", false, 0, "")
	}

	if len(doc.Rows) == 0 {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(contentW, 5, tr("Ningun nodo cumple los filtros seleccionados"), "", 1, "C", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("pdf: write: %w", err)
	}
	return nil
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
