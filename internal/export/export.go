// Package export renders flattened product structures as PDF, XLSX or CSV
// reports and stores the generated files.
//
// Every format shares the same row model: the "Nivel" column always shows
// the node's true depth in the tree, while indentation follows the visual
// level left after filtering.
package export

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/facussc24/2026-sub001/internal/flatten"
	"github.com/facussc24/2026-sub001/internal/model"
)

// Format is an output format.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// ParseFormat accepts "pdf", "xlsx" or "csv" in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatPDF, FormatXLSX, FormatCSV:
		return f, nil
	}
	return "", fmt.Errorf("formato de exportacion invalido %q (pdf|xlsx|csv)", s)
}

func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	}
	return "application/octet-stream"
}

// Document is what gets exported: a product and its flattened rows.
type Document struct {
	Product     *model.Product
	Filter      flatten.Filter
	Rows        []flatten.Row
	GeneratedAt time.Time
}

// Line is the format-independent rendering of one row.
type Line struct {
	Nivel       int    `csv:"nivel"`
	Indent      int    `csv:"-"`
	Estructura  string `csv:"estructura"`
	Tipo        string `csv:"tipo"`
	Referencia  string `csv:"referencia"`
	Descripcion string `csv:"descripcion"`
	Material    string `csv:"material"`
	Unidad      string `csv:"unidad"`
	Cantidad    string `csv:"cantidad"`
	Comentario  string `csv:"comentario"`
}

// Lines converts the document rows. Estructura carries the tree connectors
// followed by the reference, for formats that cannot indent.
func Lines(doc Document) []Line {
	lines := make([]Line, 0, len(doc.Rows))
	for _, r := range doc.Rows {
		l := Line{
			Nivel:      r.OriginalLevel,
			Indent:     r.VisualLevel,
			Estructura: r.Prefix() + r.Node.Reference,
			Tipo:       r.Node.Kind.Label(),
			Referencia: r.Node.Reference,
			Comentario: r.Node.Comment,
		}
		if r.Node.Kind == model.KindProduct {
			l.Descripcion = doc.Product.Description
		} else {
			l.Cantidad = r.Node.Quantity.String()
		}
		if r.Item != nil {
			l.Descripcion = r.Item.Description
			l.Material = r.Item.Material
			l.Unidad = r.Item.Unit
		}
		lines = append(lines, l)
	}
	return lines
}

// Render writes doc to w in format f.
func Render(w io.Writer, f Format, doc Document) error {
	if doc.GeneratedAt.IsZero() {
		doc.GeneratedAt = time.Now()
	}
	switch f {
	case FormatPDF:
		return PDF(w, doc)
	case FormatXLSX:
		return XLSX(w, doc)
	case FormatCSV:
		return CSV(w, doc)
	}
	return fmt.Errorf("formato de exportacion invalido %q", f)
}

// Bytes renders doc into memory.
func Bytes(f Format, doc Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := Render(&buf, f, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FileName builds "<codigo>-estructura-<timestamp>.<ext>".
func FileName(doc Document, f Format) string {
	ts := doc.GeneratedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	code := strings.NewReplacer("/", "_", "\\", "_", " ", "_").Replace(doc.Product.BusinessID)
	return fmt.Sprintf("%s-estructura-%s.%s", code, ts.UTC().Format("20060102-150405"), f)
}

// filterSummary describes the active criteria for report headers.
func filterSummary(f flatten.Filter) string {
	if !f.Active() {
		return "Sin filtros"
	}
	var parts []string
	if f.Levels != nil {
		levels := f.Levels.Sorted()
		s := make([]string, len(levels))
		for i, l := range levels {
			s[i] = fmt.Sprint(l)
		}
		parts = append(parts, "Niveles: "+strings.Join(s, ", "))
	}
	if m := strings.TrimSpace(f.Material); m != "" {
		parts = append(parts, "Material: "+m)
	}
	return strings.Join(parts, " | ")
}
