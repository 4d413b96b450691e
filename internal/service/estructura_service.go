package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/facussc24/2026-sub001/internal/dto"
	"github.com/facussc24/2026-sub001/internal/flatten"
	"github.com/facussc24/2026-sub001/internal/model"
	"github.com/facussc24/2026-sub001/internal/repository"
	"github.com/facussc24/2026-sub001/internal/structure"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// EstructuraService covers product records, their structure and the shared
// component catalog. Every structural mutation follows the same cycle:
// load, mutate in memory, recompute component_ids, one document write.
// A rejected mutation writes nothing.
type EstructuraService interface {
	CrearProducto(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	ObtenerProducto(ctx context.Context, id string) (*dto.ProductoResponse, error)

	// Flatten loads the product, resolves catalog items and flattens it.
	Flatten(ctx context.Context, id string, f flatten.Filter) (*FlatView, error)
	Estructura(ctx context.Context, id string, f flatten.Filter) (*dto.EstructuraResponse, error)

	AgregarNodo(ctx context.Context, id string, req dto.AgregarNodoRequest) (*dto.MutacionResponse, error)
	ActualizarNodo(ctx context.Context, id, nodoID string, req dto.ActualizarNodoRequest) (*dto.MutacionResponse, error)
	EliminarNodo(ctx context.Context, id, nodoID string) (*dto.MutacionResponse, error)
	MoverNodo(ctx context.Context, id string, req dto.MoverNodoRequest) (*dto.MutacionResponse, error)

	GuardarComponente(ctx context.Context, tipo, codigo string, req dto.ComponenteRequest) (*dto.ComponenteResponse, error)
	ObtenerComponente(ctx context.Context, tipo, codigo string) (*dto.ComponenteResponse, error)
}

// FlatView is a flattened product ready for display or export.
type FlatView struct {
	Product *model.Product
	Filter  flatten.Filter
	Rows    []flatten.Row
}

type estructuraService struct {
	productos   repository.ProductoRepository
	componentes repository.ComponenteRepository
	gen         *structure.IDGenerator
	now         func() time.Time
}

func NewEstructuraService(productos repository.ProductoRepository, componentes repository.ComponenteRepository, gen *structure.IDGenerator) EstructuraService {
	if gen == nil {
		gen = structure.DefaultGenerator()
	}
	return &estructuraService{productos: productos, componentes: componentes, gen: gen, now: time.Now}
}

// ── Productos ─────────────────────────────────────────────────────────────────

func (s *estructuraService) CrearProducto(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	codigo := strings.TrimSpace(req.Codigo)
	now := s.now().UTC()
	p := &model.Product{
		BusinessID:  codigo,
		Description: strings.TrimSpace(req.Descripcion),
		Structure:   structure.Seed(codigo, s.gen),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	p.ComponentIDs = structure.ComponentIDs(p.Structure)

	if err := s.productos.Create(ctx, p); err != nil {
		if errors.Is(err, model.ErrDuplicateKey) {
			return nil, fmt.Errorf("ya existe un producto con codigo %q: %w", codigo, err)
		}
		return nil, err
	}
	log.Info().Str("producto", codigo).Msg("producto creado")
	resp := mapProducto(p)
	return &resp, nil
}

func (s *estructuraService) ObtenerProducto(ctx context.Context, id string) (*dto.ProductoResponse, error) {
	p, err := s.productos.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// documents written before structures were seeded get a root on read
	if _, err := structure.LoadWith(p, s.gen); err != nil {
		return nil, err
	}
	resp := mapProducto(p)
	return &resp, nil
}

// ── Flatten ───────────────────────────────────────────────────────────────────

func (s *estructuraService) Flatten(ctx context.Context, id string, f flatten.Filter) (*FlatView, error) {
	p, err := s.productos.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	t, err := structure.LoadWith(p, s.gen)
	if err != nil {
		return nil, err
	}
	items, err := s.componentes.Resolve(ctx, structure.ComponentKeys(t.Root()))
	if err != nil {
		return nil, err
	}
	return &FlatView{
		Product: p,
		Filter:  f,
		Rows:    flatten.Flatten(t.Root(), flatten.Items(items), f),
	}, nil
}

func (s *estructuraService) Estructura(ctx context.Context, id string, f flatten.Filter) (*dto.EstructuraResponse, error) {
	view, err := s.Flatten(ctx, id, f)
	if err != nil {
		return nil, err
	}
	return MapEstructura(view), nil
}

// MapEstructura converts a flattened view to its response shape.
func MapEstructura(view *FlatView) *dto.EstructuraResponse {
	resp := &dto.EstructuraResponse{
		Producto:    view.Product.BusinessID,
		Descripcion: view.Product.Description,
		Material:    strings.TrimSpace(view.Filter.Material),
		Filas:       make([]dto.FilaResponse, 0, len(view.Rows)),
	}
	if view.Filter.Levels != nil {
		resp.Niveles = view.Filter.Levels.Sorted()
	}
	for _, r := range view.Rows {
		resp.Filas = append(resp.Filas, mapFila(view.Product, r))
	}
	resp.Total = len(resp.Filas)
	return resp
}

func mapFila(p *model.Product, r flatten.Row) dto.FilaResponse {
	f := dto.FilaResponse{
		NodoID:      r.Node.ID,
		Tipo:        string(r.Node.Kind),
		Referencia:  r.Node.Reference,
		Cantidad:    r.Node.Quantity,
		Comentario:  r.Node.Comment,
		Nivel:       r.OriginalLevel,
		NivelVisual: r.VisualLevel,
		EsUltimo:    r.IsLast,
		Prefijo:     r.Prefix(),
	}
	switch {
	case r.Node.Kind == model.KindProduct:
		f.Descripcion = p.Description
	case r.Item != nil:
		f.Descripcion = r.Item.Description
		f.Material = r.Item.Material
		f.Unidad = r.Item.Unit
	}
	return f
}

// ── Mutaciones ────────────────────────────────────────────────────────────────

func (s *estructuraService) AgregarNodo(ctx context.Context, id string, req dto.AgregarNodoRequest) (*dto.MutacionResponse, error) {
	child := nodeFromRequest(req.Nodo)
	if err := s.checkReferences(ctx, child); err != nil {
		return nil, err
	}
	index := -1
	if req.Posicion != nil {
		index = *req.Posicion
	}
	return s.mutate(ctx, id, "Nodo agregado", func(t *structure.Tree) error {
		return t.InsertChild(req.PadreID, child, index)
	})
}

func (s *estructuraService) ActualizarNodo(ctx context.Context, id, nodoID string, req dto.ActualizarNodoRequest) (*dto.MutacionResponse, error) {
	return s.mutate(ctx, id, "Nodo actualizado", func(t *structure.Tree) error {
		return t.Update(nodoID, structure.NodePatch{Quantity: req.Cantidad, Comment: req.Comentario})
	})
}

func (s *estructuraService) EliminarNodo(ctx context.Context, id, nodoID string) (*dto.MutacionResponse, error) {
	return s.mutate(ctx, id, "Nodo eliminado", func(t *structure.Tree) error {
		_, err := t.Remove(nodoID)
		return err
	})
}

func (s *estructuraService) MoverNodo(ctx context.Context, id string, req dto.MoverNodoRequest) (*dto.MutacionResponse, error) {
	index := -1
	if req.Posicion != nil {
		index = *req.Posicion
	}
	return s.mutate(ctx, id, "Nodo movido", func(t *structure.Tree) error {
		return t.Move(req.NodoID, req.NuevoPadreID, index)
	})
}

// mutate runs fn against the loaded tree and persists structure and reverse
// index in a single write. Nothing is written when fn fails.
func (s *estructuraService) mutate(ctx context.Context, id, msg string, fn func(*structure.Tree) error) (*dto.MutacionResponse, error) {
	p, err := s.productos.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	t, err := structure.LoadWith(p, s.gen)
	if err != nil {
		return nil, err
	}
	before := p.ComponentIDs
	if err := fn(t); err != nil {
		log.Warn().Err(err).Str("producto", id).Msg("mutacion rechazada")
		return nil, err
	}
	after := t.Reindex()
	p.UpdatedAt = s.now().UTC()
	if err := s.productos.Save(ctx, p); err != nil {
		return nil, err
	}
	log.Info().
		Str("producto", id).
		Int("componentes", len(after)).
		Bool("indice_cambiado", !structure.SameIndex(before, after)).
		Msg(msg)
	return &dto.MutacionResponse{
		Outcome:  dto.Success(msg),
		Producto: mapProducto(p),
	}, nil
}

// checkReferences verifies every component the subtree references exists
// in the catalog.
func (s *estructuraService) checkReferences(ctx context.Context, root *model.Node) error {
	var err error
	root.Walk(func(n *model.Node, _ int) bool {
		if n.Kind != model.KindSemiFinished && n.Kind != model.KindRawMaterial {
			return true
		}
		var ok bool
		ok, err = s.componentes.Exists(ctx, model.Key{Kind: n.Kind, Reference: n.Reference})
		if err == nil && !ok {
			err = fmt.Errorf("%s %q no existe en el catalogo: %w", n.Kind.Label(), n.Reference, model.ErrNotFound)
		}
		return err == nil
	})
	return err
}

func nodeFromRequest(req dto.NodoRequest) *model.Node {
	n := &model.Node{
		ID:        strings.TrimSpace(req.ID),
		Kind:      model.NodeKind(req.Tipo),
		Reference: strings.TrimSpace(req.Referencia),
		Quantity:  req.Cantidad,
		Comment:   req.Comentario,
	}
	if n.Quantity.Equal(decimal.Zero) {
		n.Quantity = decimal.NewFromInt(1)
	}
	for _, h := range req.Hijos {
		n.Children = append(n.Children, nodeFromRequest(h))
	}
	return n
}

// ── Componentes ───────────────────────────────────────────────────────────────

func (s *estructuraService) GuardarComponente(ctx context.Context, tipo, codigo string, req dto.ComponenteRequest) (*dto.ComponenteResponse, error) {
	kind := model.NodeKind(tipo)
	if kind != model.KindSemiFinished && kind != model.KindRawMaterial {
		return nil, fmt.Errorf("tipo de componente invalido %q: %w", tipo, model.ErrInvalidStructuralOperation)
	}
	codigo = strings.TrimSpace(codigo)
	if codigo == "" {
		return nil, fmt.Errorf("codigo vacio: %w", model.ErrInvalidStructuralOperation)
	}
	now := s.now().UTC()
	c := &model.Component{
		Code:        codigo,
		Kind:        kind,
		Description: strings.TrimSpace(req.Descripcion),
		Material:    strings.TrimSpace(req.Material),
		Unit:        strings.TrimSpace(req.Unidad),
		UpdatedAt:   now,
	}
	existing, err := s.componentes.Find(ctx, model.Key{Kind: kind, Reference: codigo})
	switch {
	case errors.Is(err, model.ErrNotFound):
		c.CreatedAt = now
	case err != nil:
		return nil, err
	default:
		c.CreatedAt = existing.CreatedAt
	}
	if err := s.componentes.Upsert(ctx, c); err != nil {
		return nil, err
	}
	log.Info().Str("componente", codigo).Str("tipo", tipo).Msg("componente guardado")
	resp := mapComponente(c)
	return &resp, nil
}

func (s *estructuraService) ObtenerComponente(ctx context.Context, tipo, codigo string) (*dto.ComponenteResponse, error) {
	c, err := s.componentes.Find(ctx, model.Key{Kind: model.NodeKind(tipo), Reference: codigo})
	if err != nil {
		return nil, err
	}
	resp := mapComponente(c)
	return &resp, nil
}

// ── Mapping ───────────────────────────────────────────────────────────────────

func mapProducto(p *model.Product) dto.ProductoResponse {
	return dto.ProductoResponse{
		Codigo:        p.BusinessID,
		Descripcion:   p.Description,
		Estructura:    p.Structure,
		ComponentIDs:  p.ComponentIDs,
		FechaRevision: p.ReviewedAt,
		AprobadoPor:   p.ApprovedBy,
		FechaAprobado: p.ApprovedAt,
		ModificadoPor: p.LastModifiedBy,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func mapComponente(c *model.Component) dto.ComponenteResponse {
	return dto.ComponenteResponse{
		Codigo:      c.Code,
		Tipo:        string(c.Kind),
		Descripcion: c.Description,
		Material:    c.Material,
		Unidad:      c.Unit,
		UpdatedAt:   c.UpdatedAt,
	}
}
