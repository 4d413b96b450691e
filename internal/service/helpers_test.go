package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/facussc24/2026-sub001/internal/catalog"
	"github.com/facussc24/2026-sub001/internal/model"
	"github.com/facussc24/2026-sub001/internal/repository"
	"github.com/facussc24/2026-sub001/internal/structure"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// countingStore records deletes and can simulate a store outage on reverse
// queries or deletes.
type countingStore struct {
	*catalog.MemStore
	mu          sync.Mutex
	deletes     []string
	writes      int
	failQueries bool
	failDeletes bool
}

func newCountingStore() *countingStore {
	return &countingStore{MemStore: catalog.NewMemStore()}
}

func (c *countingStore) QueryReverseIndex(ctx context.Context, q catalog.ReverseQuery) ([]string, error) {
	if c.failQueries {
		return nil, fmt.Errorf("reverse query: %w: connection reset", model.ErrTransport)
	}
	return c.MemStore.QueryReverseIndex(ctx, q)
}

func (c *countingStore) Delete(ctx context.Context, coll model.Collection, id string) error {
	if c.failDeletes {
		return fmt.Errorf("delete: %w: permission denied", model.ErrTransport)
	}
	c.mu.Lock()
	c.deletes = append(c.deletes, string(coll)+"/"+id)
	c.mu.Unlock()
	return c.MemStore.Delete(ctx, coll, id)
}

func (c *countingStore) Write(ctx context.Context, coll model.Collection, id string, rec any, merge bool) error {
	c.mu.Lock()
	c.writes++
	c.mu.Unlock()
	return c.MemStore.Write(ctx, coll, id, rec, merge)
}

type fixture struct {
	store       *countingStore
	productos   repository.ProductoRepository
	componentes repository.ComponenteRepository
	estructura  EstructuraService
	cascade     CascadeService
	clone       CloneService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := newCountingStore()
	prods := repository.NewProductoRepository(store)
	comps := repository.NewComponenteRepository(store)
	gen := structure.NewIDGenerator()
	return &fixture{
		store:       store,
		productos:   prods,
		componentes: comps,
		estructura:  NewEstructuraService(prods, comps, gen),
		cascade:     NewCascadeService(prods, comps),
		clone:       NewCloneService(prods, gen),
	}
}

func nd(id string, kind model.NodeKind, ref string, children ...*model.Node) *model.Node {
	return &model.Node{ID: id, Kind: kind, Reference: ref, Quantity: decimal.NewFromInt(1), Children: children}
}

func (f *fixture) component(t *testing.T, kind model.NodeKind, code, material string) {
	t.Helper()
	require.NoError(t, f.componentes.Upsert(context.Background(), &model.Component{
		Code: code, Kind: kind, Description: "Componente " + code, Material: material,
	}))
}

// product stores a product whose root holds children.
func (f *fixture) product(t *testing.T, code string, children ...*model.Node) *model.Product {
	t.Helper()
	root := nd(code+"-root", model.KindProduct, code, children...)
	p := &model.Product{BusinessID: code, Description: "Producto " + code, Structure: root}
	p.ComponentIDs = structure.ComponentIDs(root)
	require.NoError(t, f.productos.Create(context.Background(), p))
	return p
}

func (f *fixture) stored(t *testing.T, code string) *model.Product {
	t.Helper()
	p, err := f.productos.FindByID(context.Background(), code)
	require.NoError(t, err)
	return p
}
