package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/facussc24/2026-sub001/internal/dto"
	"github.com/facussc24/2026-sub001/internal/model"
	"github.com/facussc24/2026-sub001/internal/repository"
	"github.com/facussc24/2026-sub001/internal/structure"

	"github.com/rs/zerolog/log"
)

// CloneService copies a product under a new business code.
type CloneService interface {
	Clone(ctx context.Context, sourceID string, req dto.ClonarProductoRequest) (*dto.ClonacionResponse, error)
}

type cloneService struct {
	productos repository.ProductoRepository
	gen       *structure.IDGenerator
	now       func() time.Time
}

func NewCloneService(productos repository.ProductoRepository, gen *structure.IDGenerator) CloneService {
	if gen == nil {
		gen = structure.DefaultGenerator()
	}
	return &cloneService{productos: productos, gen: gen, now: time.Now}
}

// Clone is not idempotent: a retry after an unknown outcome must re-check
// whether the new code already exists.
func (s *cloneService) Clone(ctx context.Context, sourceID string, req dto.ClonarProductoRequest) (*dto.ClonacionResponse, error) {
	newID := strings.TrimSpace(req.NuevoCodigo)
	if newID == "" {
		return nil, fmt.Errorf("el nuevo codigo es obligatorio: %w", model.ErrInvalidStructuralOperation)
	}
	if newID == sourceID {
		return nil, fmt.Errorf("el nuevo codigo debe ser distinto del original: %w", model.ErrInvalidStructuralOperation)
	}

	src, err := s.productos.FindByID(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	if _, err := s.productos.FindByID(ctx, newID); err == nil {
		return nil, fmt.Errorf("ya existe un producto con codigo %q: %w", newID, model.ErrDuplicateKey)
	} else if !errors.Is(err, model.ErrNotFound) {
		return nil, err
	}

	srcTree, err := structure.LoadWith(src, s.gen)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	clone := &model.Product{
		BusinessID:  newID,
		Description: src.Description,
		Structure:   structure.CloneStructure(srcTree.Root(), newID, s.gen),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.Descripcion != nil {
		clone.Description = strings.TrimSpace(*req.Descripcion)
	}
	t, err := structure.LoadWith(clone, s.gen)
	if err != nil {
		return nil, err
	}
	t.Reindex()

	// conditional write: a concurrent create of the same code loses here
	if err := s.productos.Create(ctx, clone); err != nil {
		return nil, err
	}

	log.Info().Str("origen", sourceID).Str("producto", newID).Int("nodos", t.Len()).Msg("producto clonado")
	return &dto.ClonacionResponse{
		Outcome:  dto.Success(fmt.Sprintf("Producto %s clonado como %s", sourceID, newID)),
		Producto: mapProducto(clone),
	}, nil
}
