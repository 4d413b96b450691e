package export

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/facussc24/2026-sub001/internal/flatten"
	"github.com/facussc24/2026-sub001/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func n(id string, kind model.NodeKind, ref string, children ...*model.Node) *model.Node {
	return &model.Node{ID: id, Kind: kind, Reference: ref, Quantity: decimal.RequireFromString("1.5"), Children: children}
}

// P-1 → SF-1 → SF-2 → SF-3 → RM-1
func document(f flatten.Filter) Document {
	root := n("r", model.KindProduct, "P-1",
		n("a", model.KindSemiFinished, "SF-1",
			n("b", model.KindSemiFinished, "SF-2",
				n("c", model.KindSemiFinished, "SF-3",
					n("d", model.KindRawMaterial, "RM-1")))))
	items := flatten.Items(map[model.Key]*model.Component{
		{Kind: model.KindRawMaterial, Reference: "RM-1"}: {Code: "RM-1", Description: "Chapa", Material: "Acero", Unit: "kg"},
	})
	p := &model.Product{BusinessID: "P-1", Description: "Bastidor", Structure: root}
	return Document{
		Product:     p,
		Filter:      f,
		Rows:        flatten.Flatten(root, items, f),
		GeneratedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestLines_NivelIsOriginalLevel(t *testing.T) {
	lines := Lines(document(flatten.Filter{Levels: flatten.OnlyLevels(0, 4)}))
	require.Len(t, lines, 2)

	assert.Equal(t, 0, lines[0].Nivel)
	assert.Equal(t, "Bastidor", lines[0].Descripcion)
	assert.Empty(t, lines[0].Cantidad)

	assert.Equal(t, 4, lines[1].Nivel)
	assert.Equal(t, 1, lines[1].Indent)
	assert.Equal(t, "└─ RM-1", lines[1].Estructura)
	assert.Equal(t, "Acero", lines[1].Material)
	assert.Equal(t, "1.5", lines[1].Cantidad)
}

func TestCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CSV(&buf, document(flatten.Filter{Levels: flatten.OnlyLevels(0, 4)})))

	rows := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, rows, 3)
	assert.Equal(t, "nivel,estructura,tipo,referencia,descripcion,material,unidad,cantidad,comentario", rows[0])
	assert.True(t, strings.HasPrefix(rows[2], "4,└─ RM-1,Insumo,RM-1,Chapa,Acero,kg,1.5"))
}

func TestCSV_EmptyResultKeepsHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CSV(&buf, document(flatten.Filter{Levels: flatten.OnlyLevels()})))
	assert.Equal(t, "nivel,estructura,tipo,referencia,descripcion,material,unidad,cantidad,comentario", strings.TrimSpace(buf.String()))
}

func TestXLSX(t *testing.T) {
	data, err := Bytes(FormatXLSX, document(flatten.Filter{}))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 9) // title, filters, blank, header, 5 nodes
	assert.Equal(t, "Nivel", rows[3][0])
	assert.Equal(t, "4", rows[8][0])
	assert.Equal(t, "RM-1", rows[8][1])
}

func TestPDF(t *testing.T) {
	data, err := Bytes(FormatPDF, document(flatten.Filter{Material: "acero"}))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestParseFormatAndFileName(t *testing.T) {
	f, err := ParseFormat(" XLSX ")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	_, err = ParseFormat("docx")
	assert.Error(t, err)

	assert.Equal(t, "P-1-estructura-20260102-030405.csv", FileName(document(flatten.Filter{}), FormatCSV))
}

func TestLocalSink(t *testing.T) {
	dir := t.TempDir()
	path, err := LocalSink{Dir: dir}.Put(context.Background(), "../x.csv", "text/csv", []byte("a,b\n"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, dir))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", string(got))
}

func TestFilterSummary(t *testing.T) {
	assert.Equal(t, "Sin filtros", filterSummary(flatten.Filter{}))
	assert.Equal(t, "Niveles: 0, 2 | Material: acero", filterSummary(flatten.Filter{Levels: flatten.OnlyLevels(2, 0), Material: " acero "}))
}
