//go:build integration

package repository

// Run with: go test -tags integration ./internal/repository/... -v

import (
	"context"
	"testing"

	"github.com/facussc24/2026-sub001/internal/catalog"
	"github.com/facussc24/2026-sub001/internal/infra"
	"github.com/facussc24/2026-sub001/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

func setupPostgres(t *testing.T) *PostgresStore {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("bom_test"),
		tcPostgres.WithUsername("bom"),
		tcPostgres.WithPassword("bom"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	dsn, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := infra.NewDatabase(dsn)
	require.NoError(t, err)
	require.NoError(t, infra.RunMigrations(db), "schema patches must be idempotent")

	return NewPostgresStore(db)
}

func TestPostgresStore_Contract(t *testing.T) {
	store := setupPostgres(t)
	ctx := context.Background()
	require.NoError(t, store.Ping(ctx))

	p1 := newProduct("P-1", "RM-1", "RM-2")
	p2 := newProduct("P-2", "RM-1")
	require.NoError(t, store.CreateIfAbsent(ctx, model.CollProductos, "P-1", p1))
	require.NoError(t, store.CreateIfAbsent(ctx, model.CollProductos, "P-2", p2))

	err := store.CreateIfAbsent(ctx, model.CollProductos, "P-1", p1)
	assert.ErrorIs(t, err, model.ErrDuplicateKey)

	var got model.Product
	require.NoError(t, store.Get(ctx, model.CollProductos, "P-1", &got))
	assert.Equal(t, "P-1", got.StorageID)
	assert.Equal(t, []string{"RM-1", "RM-2"}, got.ComponentIDs)

	err = store.Get(ctx, model.CollProductos, "P-404", &got)
	assert.ErrorIs(t, err, model.ErrNotFound)

	ids, err := store.QueryReverseIndex(ctx, catalog.ReverseQuery{
		Collection: model.CollProductos, Field: catalog.FieldComponentIDs,
		Value: "RM-1", ExcludeID: "P-1", Limit: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"P-2"}, ids)

	// replace drops RM-1 from P-2's index
	p2.ComponentIDs = []string{}
	p2.Structure.Children = nil
	require.NoError(t, store.Write(ctx, model.CollProductos, "P-2", p2, false))
	ids, err = store.QueryReverseIndex(ctx, catalog.ReverseQuery{
		Collection: model.CollProductos, Field: catalog.FieldComponentIDs,
		Value: "RM-1", ExcludeID: "P-1",
	})
	require.NoError(t, err)
	assert.Empty(t, ids)

	require.NoError(t, store.Delete(ctx, model.CollProductos, "P-2"))
	require.NoError(t, store.Delete(ctx, model.CollProductos, "P-2"), "deleting a missing id is not an error")
}

func TestPostgresStore_MergeWrite(t *testing.T) {
	store := setupPostgres(t)
	ctx := context.Background()

	c := &model.Component{Code: "RM-1", Kind: model.KindRawMaterial, Description: "Chapa", Material: "Acero"}
	require.NoError(t, store.Write(ctx, model.CollInsumos, "RM-1", c, true))
	require.NoError(t, store.Write(ctx, model.CollInsumos, "RM-1",
		map[string]any{"descripcion": "Chapa 2mm"}, true))

	var got model.Component
	require.NoError(t, store.Get(ctx, model.CollInsumos, "RM-1", &got))
	assert.Equal(t, "Chapa 2mm", got.Description)
	assert.Equal(t, "Acero", got.Material)
}
