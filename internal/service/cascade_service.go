package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/facussc24/2026-sub001/internal/dto"
	"github.com/facussc24/2026-sub001/internal/model"
	"github.com/facussc24/2026-sub001/internal/repository"
	"github.com/facussc24/2026-sub001/internal/structure"

	"github.com/rs/zerolog/log"
)

// CascadeService deletes products together with the catalog components that
// no other product references.
type CascadeService interface {
	DeleteProductCascade(ctx context.Context, id string) (*CascadeResult, error)
}

// CascadeResult reports what a cascade did. Deleted components were orphans
// and are gone; shared ones are still referenced elsewhere; skipped ones
// were orphans already missing when re-fetched.
type CascadeResult struct {
	ProductID         string
	ProductDeleted    bool
	DeletedComponents []model.Key
	SharedComponents  []model.Key
	SkippedComponents []model.Key
	Outcome           dto.Outcome
}

// Deletes counts every record removed, the product included.
func (r *CascadeResult) Deletes() int {
	n := len(r.DeletedComponents)
	if r.ProductDeleted {
		n++
	}
	return n
}

type cascadeService struct {
	productos   repository.ProductoRepository
	componentes repository.ComponenteRepository
}

func NewCascadeService(productos repository.ProductoRepository, componentes repository.ComponenteRepository) CascadeService {
	return &cascadeService{productos: productos, componentes: componentes}
}

// DeleteProductCascade removes orphaned components first and the product
// last, so an interrupted run leaves the product in place and can simply be
// repeated. Store calls are issued one at a time; any store error aborts the
// run and is returned as is.
//
// Two cascades running at once over products that share a component may
// each see the other product as a referrer and both keep the component.
// The component then outlives both products until a later cleanup.
func (s *cascadeService) DeleteProductCascade(ctx context.Context, id string) (*CascadeResult, error) {
	res := &CascadeResult{ProductID: id}

	p, err := s.productos.FindByID(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		res.Outcome = dto.Info(fmt.Sprintf("El producto %s ya no existe", id))
		return res, nil
	}
	if err != nil {
		return nil, err
	}

	var keys []model.Key
	if p.Structure != nil {
		keys = structure.ComponentKeys(p.Structure)
	}

	for _, key := range keys {
		referrers, err := s.productos.FindUsing(ctx, key.Reference, id, 1)
		if err != nil {
			return nil, fmt.Errorf("consulta de uso de %s: %w", key.Reference, err)
		}
		if len(referrers) > 0 {
			res.SharedComponents = append(res.SharedComponents, key)
			continue
		}

		// re-fetch: a concurrent cascade may already have removed it
		present, err := s.componentes.Exists(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("lectura de %s: %w", key.Reference, err)
		}
		if !present {
			res.SkippedComponents = append(res.SkippedComponents, key)
			continue
		}
		if err := s.componentes.Delete(ctx, key); err != nil {
			return nil, fmt.Errorf("eliminacion de %s: %w", key.Reference, err)
		}
		res.DeletedComponents = append(res.DeletedComponents, key)
	}

	if err := s.productos.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("eliminacion del producto %s: %w", id, err)
	}
	res.ProductDeleted = true
	res.Outcome = dto.Success(fmt.Sprintf(
		"Producto %s eliminado. Componentes huerfanos eliminados: %d, compartidos conservados: %d",
		id, len(res.DeletedComponents), len(res.SharedComponents)))

	log.Info().
		Str("producto", id).
		Int("eliminados", len(res.DeletedComponents)).
		Int("compartidos", len(res.SharedComponents)).
		Int("omitidos", len(res.SkippedComponents)).
		Msg("eliminacion en cascada completada")
	return res, nil
}

// MapEliminacion converts a cascade result to its response shape.
func MapEliminacion(r *CascadeResult) *dto.EliminacionResponse {
	resp := &dto.EliminacionResponse{
		Outcome:     r.Outcome,
		Producto:    r.ProductID,
		Eliminados:  len(r.DeletedComponents),
		Compartidos: len(r.SharedComponents),
		Omitidos:    len(r.SkippedComponents),
	}
	for _, k := range r.DeletedComponents {
		resp.Componentes = append(resp.Componentes, k.Reference)
	}
	return resp
}
