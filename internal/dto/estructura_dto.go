package dto

import (
	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

// NodoRequest describes a node (and optionally its subtree) to insert.
type NodoRequest struct {
	ID         string          `json:"id"         validate:"omitempty,max=64"`
	Tipo       string          `json:"tipo"       validate:"required,oneof=semiterminado insumo"`
	Referencia string          `json:"referencia" validate:"required,max=64"`
	Cantidad   decimal.Decimal `json:"cantidad"`
	Comentario string          `json:"comentario" validate:"max=500"`
	Hijos      []NodoRequest   `json:"hijos"      validate:"omitempty,dive"`
}

type AgregarNodoRequest struct {
	PadreID  string      `json:"padre_id" validate:"required"`
	Posicion *int        `json:"posicion" validate:"omitempty,min=0"`
	Nodo     NodoRequest `json:"nodo"     validate:"required"`
}

type ActualizarNodoRequest struct {
	Cantidad   *decimal.Decimal `json:"cantidad"`
	Comentario *string          `json:"comentario" validate:"omitempty,max=500"`
}

// MoverNodoRequest re-parents a node. An empty nuevo_padre_id is accepted by
// binding and rejected by the tree as a move to the forest root.
type MoverNodoRequest struct {
	NodoID       string `json:"nodo_id"        validate:"required"`
	NuevoPadreID string `json:"nuevo_padre_id"`
	Posicion     *int   `json:"posicion"       validate:"omitempty,min=0"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// FilaResponse is one flattened row. Nivel is the true depth in the tree;
// NivelVisual is the indentation after filtering.
type FilaResponse struct {
	NodoID      string          `json:"nodo_id"`
	Tipo        string          `json:"tipo"`
	Referencia  string          `json:"referencia"`
	Descripcion string          `json:"descripcion"`
	Material    string          `json:"material,omitempty"`
	Unidad      string          `json:"unidad,omitempty"`
	Cantidad    decimal.Decimal `json:"cantidad"`
	Comentario  string          `json:"comentario,omitempty"`
	Nivel       int             `json:"nivel"`
	NivelVisual int             `json:"nivel_visual"`
	EsUltimo    bool            `json:"es_ultimo"`
	Prefijo     string          `json:"prefijo"`
}

type EstructuraResponse struct {
	Producto    string         `json:"producto"`
	Descripcion string         `json:"descripcion"`
	Niveles     []int          `json:"niveles,omitempty"`
	Material    string         `json:"material,omitempty"`
	Filas       []FilaResponse `json:"filas"`
	Total       int            `json:"total"`
}

type MutacionResponse struct {
	Outcome
	Producto ProductoResponse `json:"producto"`
}
