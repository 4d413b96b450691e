package handler

import (
	"net/http"

	"github.com/facussc24/2026-sub001/internal/apierror"
	"github.com/facussc24/2026-sub001/internal/dto"
	"github.com/facussc24/2026-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

const maxImportBytes = 5 << 20

type ComponentesHandler struct {
	svc         service.EstructuraService
	importacion service.ImportacionService
}

func NewComponentesHandler(svc service.EstructuraService, importacion service.ImportacionService) *ComponentesHandler {
	return &ComponentesHandler{svc: svc, importacion: importacion}
}

// Guardar creates or updates a catalog component. Fields not sent keep
// their stored value.
//
// @Summary      Crear o actualizar un componente
// @Tags         componentes
// @Accept       json
// @Produce      json
// @Param        tipo   path string true "semiterminado | insumo"
// @Param        codigo path string true "Codigo del componente"
// @Param        body   body dto.ComponenteRequest true "Datos del componente"
// @Success      200  {object} dto.ComponenteResponse
// @Failure      422  {object} apierror.OutcomeError
// @Router       /v1/componentes/{tipo}/{codigo} [put]
func (h *ComponentesHandler) Guardar(c *gin.Context) {
	var req dto.ComponenteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.GuardarComponente(c.Request.Context(), c.Param("tipo"), c.Param("codigo"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Obtener godoc
// @Summary      Obtener un componente
// @Tags         componentes
// @Produce      json
// @Param        tipo   path string true "semiterminado | insumo"
// @Param        codigo path string true "Codigo del componente"
// @Success      200  {object} dto.ComponenteResponse
// @Failure      404  {object} apierror.OutcomeError
// @Router       /v1/componentes/{tipo}/{codigo} [get]
func (h *ComponentesHandler) Obtener(c *gin.Context) {
	resp, err := h.svc.ObtenerComponente(c.Request.Context(), c.Param("tipo"), c.Param("codigo"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Importar godoc
// @Summary      Importar componentes desde CSV
// @Description  Columnas codigo, descripcion, material, unidad. Las filas invalidas se informan como rechazadas.
// @Tags         componentes
// @Accept       multipart/form-data
// @Produce      json
// @Param        tipo    path     string true "semiterminado | insumo"
// @Param        archivo formData file   true "Archivo CSV (max 5 MB)"
// @Success      200  {object} dto.ImportacionResponse
// @Failure      400  {object} apierror.APIError
// @Failure      413  {object} apierror.APIError
// @Router       /v1/componentes/{tipo}/importar [post]
func (h *ComponentesHandler) Importar(c *gin.Context) {
	fh, err := c.FormFile("archivo")
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Falta el archivo CSV"))
		return
	}
	if fh.Size > maxImportBytes {
		c.JSON(http.StatusRequestEntityTooLarge, apierror.New("El archivo supera 5 MB"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("No se pudo leer el archivo"))
		return
	}
	defer f.Close()

	resp, err := h.importacion.ImportarComponentes(c.Request.Context(), c.Param("tipo"), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
