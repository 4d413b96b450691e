package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/facussc24/2026-sub001/internal/catalog"
	"github.com/facussc24/2026-sub001/internal/model"
)

// ComponenteRepository gives typed access to the shared component catalog
// (semiterminados and insumos), keyed by kind and business code.
type ComponenteRepository interface {
	Find(ctx context.Context, key model.Key) (*model.Component, error)
	Upsert(ctx context.Context, c *model.Component) error
	Delete(ctx context.Context, key model.Key) error
	// Exists reports whether the component document is present, bypassing
	// any cache.
	Exists(ctx context.Context, key model.Key) (bool, error)
	// Resolve loads every key found in the catalog. Missing keys are skipped.
	Resolve(ctx context.Context, keys []model.Key) (map[model.Key]*model.Component, error)
}

type componenteRepo struct{ store catalog.Store }

func NewComponenteRepository(store catalog.Store) ComponenteRepository {
	return &componenteRepo{store: store}
}

func collectionFor(kind model.NodeKind) (model.Collection, error) {
	switch kind {
	case model.KindSemiFinished, model.KindRawMaterial:
		return kind.Collection(), nil
	}
	return "", fmt.Errorf("tipo %q no es un componente: %w", kind, model.ErrInvalidStructuralOperation)
}

func (r *componenteRepo) Find(ctx context.Context, key model.Key) (*model.Component, error) {
	coll, err := collectionFor(key.Kind)
	if err != nil {
		return nil, err
	}
	var c model.Component
	if err := r.store.Get(ctx, coll, key.Reference, &c); err != nil {
		return nil, err
	}
	c.Code = key.Reference
	c.Kind = key.Kind
	return &c, nil
}

func (r *componenteRepo) Upsert(ctx context.Context, c *model.Component) error {
	coll, err := collectionFor(c.Kind)
	if err != nil {
		return err
	}
	return r.store.Write(ctx, coll, c.Code, c, true)
}

func (r *componenteRepo) Delete(ctx context.Context, key model.Key) error {
	coll, err := collectionFor(key.Kind)
	if err != nil {
		return err
	}
	return r.store.Delete(ctx, coll, key.Reference)
}

func (r *componenteRepo) Exists(ctx context.Context, key model.Key) (bool, error) {
	_, err := r.Find(catalog.FreshRead(ctx), key)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, model.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

func (r *componenteRepo) Resolve(ctx context.Context, keys []model.Key) (map[model.Key]*model.Component, error) {
	out := make(map[model.Key]*model.Component, len(keys))
	for _, k := range keys {
		if _, seen := out[k]; seen {
			continue
		}
		c, err := r.Find(ctx, k)
		if errors.Is(err, model.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out[k] = c
	}
	return out, nil
}
