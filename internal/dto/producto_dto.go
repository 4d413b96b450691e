package dto

import (
	"time"

	"github.com/facussc24/2026-sub001/internal/model"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearProductoRequest struct {
	Codigo      string `json:"codigo"      validate:"required,min=1,max=64,excludesall=/ "`
	Descripcion string `json:"descripcion" validate:"required,min=2,max=200"`
}

type ClonarProductoRequest struct {
	NuevoCodigo string  `json:"nuevo_codigo" validate:"required,min=1,max=64,excludesall=/ "`
	Descripcion *string `json:"descripcion"  validate:"omitempty,min=2,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductoResponse struct {
	Codigo        string      `json:"codigo"`
	Descripcion   string      `json:"descripcion"`
	Estructura    *model.Node `json:"estructura"`
	ComponentIDs  []string    `json:"component_ids"`
	FechaRevision *time.Time  `json:"fecha_revision,omitempty"`
	AprobadoPor   string      `json:"aprobado_por,omitempty"`
	FechaAprobado *time.Time  `json:"fecha_aprobacion,omitempty"`
	ModificadoPor string      `json:"modificado_por,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// EliminacionResponse reports a cascading product delete with aggregate
// counts; the per-component lists are informational.
type EliminacionResponse struct {
	Outcome
	Producto    string   `json:"producto"`
	Eliminados  int      `json:"eliminados"`
	Compartidos int      `json:"compartidos"`
	Omitidos    int      `json:"omitidos"`
	Componentes []string `json:"componentes_eliminados,omitempty"`
}

type ClonacionResponse struct {
	Outcome
	Producto ProductoResponse `json:"producto"`
}
