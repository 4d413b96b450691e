package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/facussc24/2026-sub001/internal/dto"
	"github.com/facussc24/2026-sub001/internal/flatten"
	"github.com/facussc24/2026-sub001/internal/model"
	"github.com/facussc24/2026-sub001/internal/structure"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intp(i int) *int { return &i }

// chainFixture stores P-1 → SF-1 → SF-2 → SF-3 → RM-1 plus RM-2 under the root.
func chainFixture(t *testing.T) *fixture {
	f := newFixture(t)
	f.component(t, model.KindSemiFinished, "SF-1", "")
	f.component(t, model.KindSemiFinished, "SF-2", "")
	f.component(t, model.KindSemiFinished, "SF-3", "")
	f.component(t, model.KindRawMaterial, "RM-1", "Acero inoxidable")
	f.component(t, model.KindRawMaterial, "RM-2", "Aluminio")
	f.product(t, "P-1",
		nd("s1", model.KindSemiFinished, "SF-1",
			nd("s2", model.KindSemiFinished, "SF-2",
				nd("s3", model.KindSemiFinished, "SF-3",
					nd("r1", model.KindRawMaterial, "RM-1")))),
		nd("r2", model.KindRawMaterial, "RM-2"))
	return f
}

func docJSON(t *testing.T, f *fixture, code string) string {
	t.Helper()
	b, err := json.Marshal(f.stored(t, code))
	require.NoError(t, err)
	return string(b)
}

func assertIndexRoundTrip(t *testing.T, f *fixture, code string) {
	t.Helper()
	p := f.stored(t, code)
	assert.Equal(t, structure.ComponentIDs(p.Structure), p.ComponentIDs)
}

func TestCrearProducto_SeedsRootAndRejectsDuplicate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.estructura.CrearProducto(ctx, dto.CrearProductoRequest{Codigo: " P-9 ", Descripcion: "Mesa"})
	require.NoError(t, err)
	assert.Equal(t, "P-9", resp.Codigo)
	require.NotNil(t, resp.Estructura)
	assert.Equal(t, model.KindProduct, resp.Estructura.Kind)
	assert.Equal(t, "P-9", resp.Estructura.Reference)
	assert.Empty(t, resp.ComponentIDs)

	_, err = f.estructura.CrearProducto(ctx, dto.CrearProductoRequest{Codigo: "P-9", Descripcion: "Otra"})
	assert.ErrorIs(t, err, model.ErrDuplicateKey)
}

func TestObtenerProducto_NotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.estructura.ObtenerProducto(context.Background(), "P-404")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestEstructura_LevelFilterZeroFour(t *testing.T) {
	f := chainFixture(t)

	resp, err := f.estructura.Estructura(context.Background(), "P-1", flatten.Filter{Levels: flatten.OnlyLevels(0, 4)})
	require.NoError(t, err)
	require.Len(t, resp.Filas, 2)
	assert.Equal(t, []int{0, 4}, resp.Niveles)

	rm := resp.Filas[1]
	assert.Equal(t, "RM-1", rm.Referencia)
	assert.Equal(t, 4, rm.Nivel)
	assert.Equal(t, 1, rm.NivelVisual)
	assert.Equal(t, "Acero inoxidable", rm.Material)
	assert.Equal(t, "Producto P-1", resp.Filas[0].Descripcion)
}

func TestEstructura_NoFilterAndEmptyFilter(t *testing.T) {
	f := chainFixture(t)
	ctx := context.Background()

	all, err := f.estructura.Estructura(ctx, "P-1", flatten.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 6, all.Total)

	none, err := f.estructura.Estructura(ctx, "P-1", flatten.Filter{Levels: flatten.OnlyLevels()})
	require.NoError(t, err)
	assert.Equal(t, 0, none.Total)
	assert.NotNil(t, none.Filas)
}

func TestEstructura_MaterialFilter(t *testing.T) {
	f := chainFixture(t)

	resp, err := f.estructura.Estructura(context.Background(), "P-1", flatten.Filter{Material: "ALUMINIO"})
	require.NoError(t, err)
	require.Len(t, resp.Filas, 2)
	assert.Equal(t, "P-1", resp.Filas[0].Referencia)
	assert.Equal(t, "RM-2", resp.Filas[1].Referencia)
	assert.Equal(t, "└─ ", resp.Filas[1].Prefijo)
}

func TestAgregarNodo_UpdatesIndex(t *testing.T) {
	f := chainFixture(t)
	f.component(t, model.KindRawMaterial, "RM-3", "Goma")

	resp, err := f.estructura.AgregarNodo(context.Background(), "P-1", dto.AgregarNodoRequest{
		PadreID:  "s1",
		Posicion: intp(0),
		Nodo:     dto.NodoRequest{Tipo: "insumo", Referencia: "RM-3", Cantidad: decimal.RequireFromString("2.5")},
	})
	require.NoError(t, err)
	assert.Equal(t, dto.OutcomeSuccess, resp.Estado)
	assert.Contains(t, resp.Producto.ComponentIDs, "RM-3")

	p := f.stored(t, "P-1")
	added := p.Structure.Children[0].Children[0]
	assert.Equal(t, "RM-3", added.Reference)
	assert.NotEmpty(t, added.ID)
	assert.True(t, added.Quantity.Equal(decimal.RequireFromString("2.5")))
	assertIndexRoundTrip(t, f, "P-1")
}

func TestAgregarNodo_UnknownComponentWritesNothing(t *testing.T) {
	f := chainFixture(t)
	before := docJSON(t, f, "P-1")
	writes := f.store.writes

	_, err := f.estructura.AgregarNodo(context.Background(), "P-1", dto.AgregarNodoRequest{
		PadreID: "s1",
		Nodo:    dto.NodoRequest{Tipo: "insumo", Referencia: "RM-404"},
	})
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.Equal(t, before, docJSON(t, f, "P-1"))
	assert.Equal(t, writes, f.store.writes)
}

func TestAgregarNodo_UnderInsumoRejected(t *testing.T) {
	f := chainFixture(t)
	before := docJSON(t, f, "P-1")

	_, err := f.estructura.AgregarNodo(context.Background(), "P-1", dto.AgregarNodoRequest{
		PadreID: "r2",
		Nodo:    dto.NodoRequest{Tipo: "insumo", Referencia: "RM-1"},
	})
	assert.ErrorIs(t, err, model.ErrInvalidStructuralOperation)
	assert.Equal(t, before, docJSON(t, f, "P-1"))
}

func TestMoverNodo_RejectionsWriteNothing(t *testing.T) {
	f := chainFixture(t)
	before := docJSON(t, f, "P-1")
	writes := f.store.writes

	for _, req := range []dto.MoverNodoRequest{
		{NodoID: "s2", NuevoPadreID: ""},
		{NodoID: "s2", NuevoPadreID: "r2"},
		{NodoID: "s1", NuevoPadreID: "s3"},
		{NodoID: "P-1-root", NuevoPadreID: "s1"},
	} {
		_, err := f.estructura.MoverNodo(context.Background(), "P-1", req)
		assert.ErrorIs(t, err, model.ErrInvalidStructuralOperation, "%+v", req)
	}
	assert.Equal(t, before, docJSON(t, f, "P-1"))
	assert.Equal(t, writes, f.store.writes)
}

func TestMoverNodo_PersistsReparent(t *testing.T) {
	f := chainFixture(t)

	_, err := f.estructura.MoverNodo(context.Background(), "P-1", dto.MoverNodoRequest{
		NodoID: "r1", NuevoPadreID: "P-1-root", Posicion: intp(0),
	})
	require.NoError(t, err)

	p := f.stored(t, "P-1")
	assert.Equal(t, "r1", p.Structure.Children[0].ID)
	assert.Empty(t, p.Structure.Children[1].Children[0].Children[0].Children)
	assertIndexRoundTrip(t, f, "P-1")
}

func TestEliminarNodo_DropsReferencesFromIndex(t *testing.T) {
	f := chainFixture(t)

	resp, err := f.estructura.EliminarNodo(context.Background(), "P-1", "s2")
	require.NoError(t, err)
	assert.Equal(t, []string{"SF-1", "RM-2"}, resp.Producto.ComponentIDs)
	assertIndexRoundTrip(t, f, "P-1")

	_, err = f.estructura.EliminarNodo(context.Background(), "P-1", "P-1-root")
	assert.ErrorIs(t, err, model.ErrInvalidStructuralOperation)
}

func TestActualizarNodo(t *testing.T) {
	f := chainFixture(t)
	qty := decimal.NewFromInt(4)
	comment := "soldar"

	_, err := f.estructura.ActualizarNodo(context.Background(), "P-1", "r2", dto.ActualizarNodoRequest{Cantidad: &qty, Comentario: &comment})
	require.NoError(t, err)

	p := f.stored(t, "P-1")
	assert.True(t, p.Structure.Children[1].Quantity.Equal(qty))
	assert.Equal(t, "soldar", p.Structure.Children[1].Comment)

	neg := decimal.NewFromInt(-1)
	_, err = f.estructura.ActualizarNodo(context.Background(), "P-1", "r2", dto.ActualizarNodoRequest{Cantidad: &neg})
	assert.ErrorIs(t, err, model.ErrInvalidStructuralOperation)
}

func TestGuardarComponente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.estructura.GuardarComponente(ctx, "insumo", "RM-1", dto.ComponenteRequest{Descripcion: "Tornillo", Material: "Acero"})
	require.NoError(t, err)
	assert.Equal(t, "insumo", resp.Tipo)

	got, err := f.estructura.ObtenerComponente(ctx, "insumo", "RM-1")
	require.NoError(t, err)
	assert.Equal(t, "Tornillo", got.Descripcion)

	_, err = f.estructura.GuardarComponente(ctx, "producto", "P-1", dto.ComponenteRequest{Descripcion: "x"})
	assert.ErrorIs(t, err, model.ErrInvalidStructuralOperation)
}
