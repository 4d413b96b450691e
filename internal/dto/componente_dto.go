package dto

import "time"

type ComponenteRequest struct {
	Descripcion string `json:"descripcion" validate:"required,min=2,max=200"`
	Material    string `json:"material"    validate:"max=120"`
	Unidad      string `json:"unidad"      validate:"max=16"`
}

type ComponenteResponse struct {
	Codigo      string    `json:"codigo"`
	Tipo        string    `json:"tipo"`
	Descripcion string    `json:"descripcion"`
	Material    string    `json:"material,omitempty"`
	Unidad      string    `json:"unidad,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ImportacionResponse summarizes a bulk component import.
type ImportacionResponse struct {
	Outcome
	Importados int      `json:"importados"`
	Rechazados []string `json:"rechazados,omitempty"`
}
