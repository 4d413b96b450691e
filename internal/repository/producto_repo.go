package repository

import (
	"context"

	"github.com/facussc24/2026-sub001/internal/catalog"
	"github.com/facussc24/2026-sub001/internal/model"
)

// ProductoRepository defines the data access contract for products.
// Services depend on this interface, not on a concrete store driver.
//
// Products are keyed by their business code: the storage id of a product
// equals its codigo, which makes CreateIfAbsent enforce code uniqueness.
type ProductoRepository interface {
	FindByID(ctx context.Context, id string) (*model.Product, error)
	// Create fails with model.ErrDuplicateKey when the id is taken.
	Create(ctx context.Context, p *model.Product) error
	// Save replaces the whole document, structure and reverse index together.
	Save(ctx context.Context, p *model.Product) error
	Delete(ctx context.Context, id string) error
	// FindUsing returns ids of products whose reverse index contains ref.
	FindUsing(ctx context.Context, ref, excludeID string, limit int) ([]string, error)
}

type productoRepo struct{ store catalog.Store }

func NewProductoRepository(store catalog.Store) ProductoRepository {
	return &productoRepo{store: store}
}

func (r *productoRepo) FindByID(ctx context.Context, id string) (*model.Product, error) {
	var p model.Product
	if err := r.store.Get(ctx, model.CollProductos, id, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productoRepo) Create(ctx context.Context, p *model.Product) error {
	if err := r.store.CreateIfAbsent(ctx, model.CollProductos, p.BusinessID, p); err != nil {
		return err
	}
	p.StorageID = p.BusinessID
	return nil
}

func (r *productoRepo) Save(ctx context.Context, p *model.Product) error {
	id := p.StorageID
	if id == "" {
		id = p.BusinessID
	}
	return r.store.Write(ctx, model.CollProductos, id, p, false)
}

func (r *productoRepo) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, model.CollProductos, id)
}

func (r *productoRepo) FindUsing(ctx context.Context, ref, excludeID string, limit int) ([]string, error) {
	return r.store.QueryReverseIndex(ctx, catalog.ReverseQuery{
		Collection: model.CollProductos,
		Field:      catalog.FieldComponentIDs,
		Value:      ref,
		ExcludeID:  excludeID,
		Limit:      limit,
	})
}
