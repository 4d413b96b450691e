package dto

type ExportacionRequest struct {
	Formato  string `json:"formato"  validate:"required,oneof=pdf xlsx csv"`
	Niveles  []int  `json:"niveles"  validate:"omitempty,dive,min=0"`
	Material string `json:"material" validate:"max=120"`
}

type ExportacionResponse struct {
	Outcome
	JobID   string `json:"job_id"`
	Formato string `json:"formato"`
}

// ExportJob is the payload of an async export. Niveles keeps the nil versus
// empty distinction of the level filter: null means every level, [] none.
type ExportJob struct {
	JobID    string `json:"job_id"`
	Producto string `json:"producto"`
	Formato  string `json:"formato"`
	Niveles  []int  `json:"niveles"`
	Material string `json:"material,omitempty"`
}

// Export job states.
const (
	ExportPendiente  = "pendiente"
	ExportProcesando = "procesando"
	ExportCompletado = "completado"
	ExportFallido    = "error"
)

type ExportacionEstadoResponse struct {
	JobID     string `json:"job_id"`
	Producto  string `json:"producto"`
	Formato   string `json:"formato"`
	Estado    string `json:"estado"`
	Ubicacion string `json:"ubicacion,omitempty"`
	Error     string `json:"error,omitempty"`
}
