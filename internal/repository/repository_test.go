package repository

import (
	"context"
	"testing"

	"github.com/facussc24/2026-sub001/internal/catalog"
	"github.com/facussc24/2026-sub001/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProduct(code string, refs ...string) *model.Product {
	root := &model.Node{ID: "root", Kind: model.KindProduct, Reference: code, Quantity: decimal.NewFromInt(1)}
	for i, ref := range refs {
		root.Children = append(root.Children, &model.Node{
			ID: code + "-" + string(rune('a'+i)), Kind: model.KindRawMaterial, Reference: ref, Quantity: decimal.NewFromInt(2),
		})
	}
	return &model.Product{BusinessID: code, Description: "Producto " + code, Structure: root, ComponentIDs: refs}
}

func TestProductoRepo_CreateFindDuplicate(t *testing.T) {
	ctx := context.Background()
	repo := NewProductoRepository(catalog.NewMemStore())

	p := newProduct("P-100", "RM-1")
	require.NoError(t, repo.Create(ctx, p))
	assert.Equal(t, "P-100", p.StorageID)

	err := repo.Create(ctx, newProduct("P-100"))
	assert.ErrorIs(t, err, model.ErrDuplicateKey)

	got, err := repo.FindByID(ctx, "P-100")
	require.NoError(t, err)
	assert.Equal(t, "P-100", got.StorageID)
	assert.Equal(t, []string{"RM-1"}, got.ComponentIDs)
	assert.True(t, got.Structure.Children[0].Quantity.Equal(decimal.NewFromInt(2)))

	_, err = repo.FindByID(ctx, "P-404")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestProductoRepo_FindUsingExcludesAndLimits(t *testing.T) {
	ctx := context.Background()
	repo := NewProductoRepository(catalog.NewMemStore())
	require.NoError(t, repo.Create(ctx, newProduct("P-1", "RM-1", "RM-2")))
	require.NoError(t, repo.Create(ctx, newProduct("P-2", "RM-1")))
	require.NoError(t, repo.Create(ctx, newProduct("P-3", "RM-1")))

	ids, err := repo.FindUsing(ctx, "RM-1", "P-1", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"P-2", "P-3"}, ids)

	ids, err = repo.FindUsing(ctx, "RM-1", "P-1", 1)
	require.NoError(t, err)
	assert.Len(t, ids, 1)

	ids, err = repo.FindUsing(ctx, "RM-2", "P-1", 1)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestProductoRepo_SaveReplacesIndex(t *testing.T) {
	ctx := context.Background()
	repo := NewProductoRepository(catalog.NewMemStore())
	p := newProduct("P-1", "RM-1")
	require.NoError(t, repo.Create(ctx, p))

	p.Structure.Children = nil
	p.ComponentIDs = []string{}
	require.NoError(t, repo.Save(ctx, p))

	ids, err := repo.FindUsing(ctx, "RM-1", "", 0)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestComponenteRepo_UpsertResolve(t *testing.T) {
	ctx := context.Background()
	repo := NewComponenteRepository(catalog.NewMemStore())

	require.NoError(t, repo.Upsert(ctx, &model.Component{Code: "RM-1", Kind: model.KindRawMaterial, Description: "Chapa", Material: "Acero"}))
	require.NoError(t, repo.Upsert(ctx, &model.Component{Code: "SF-1", Kind: model.KindSemiFinished, Description: "Soporte"}))
	// merge keeps the material
	require.NoError(t, repo.Upsert(ctx, &model.Component{Code: "RM-1", Kind: model.KindRawMaterial, Description: "Chapa 2mm"}))

	c, err := repo.Find(ctx, model.Key{Kind: model.KindRawMaterial, Reference: "RM-1"})
	require.NoError(t, err)
	assert.Equal(t, "Chapa 2mm", c.Description)
	assert.Equal(t, "Acero", c.Material)

	items, err := repo.Resolve(ctx, []model.Key{
		{Kind: model.KindRawMaterial, Reference: "RM-1"},
		{Kind: model.KindSemiFinished, Reference: "SF-1"},
		{Kind: model.KindSemiFinished, Reference: "SF-404"},
	})
	require.NoError(t, err)
	assert.Len(t, items, 2)

	ok, err := repo.Exists(ctx, model.Key{Kind: model.KindSemiFinished, Reference: "RM-1"})
	require.NoError(t, err)
	assert.False(t, ok, "codes are scoped by kind")
}

func TestComponenteRepo_RejectsProductKind(t *testing.T) {
	repo := NewComponenteRepository(catalog.NewMemStore())
	err := repo.Upsert(context.Background(), &model.Component{Code: "P-1", Kind: model.KindProduct})
	assert.ErrorIs(t, err, model.ErrInvalidStructuralOperation)
}

// freshSpy records whether each Get was marked as a fresh read.
type freshSpy struct {
	*catalog.MemStore
	fresh []bool
}

func (s *freshSpy) Get(ctx context.Context, coll model.Collection, id string, dst any) error {
	s.fresh = append(s.fresh, catalog.IsFreshRead(ctx))
	return s.MemStore.Get(ctx, coll, id, dst)
}

func TestComponenteRepo_ExistsBypassesCache(t *testing.T) {
	ctx := context.Background()
	spy := &freshSpy{MemStore: catalog.NewMemStore()}
	repo := NewComponenteRepository(spy)
	key := model.Key{Kind: model.KindRawMaterial, Reference: "RM-1"}
	require.NoError(t, repo.Upsert(ctx, &model.Component{Code: "RM-1", Kind: model.KindRawMaterial, Description: "Chapa"}))

	spy.fresh = nil
	ok, err := repo.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	_, err = repo.Find(ctx, key)
	require.NoError(t, err)

	assert.Equal(t, []bool{true, false}, spy.fresh)
}
