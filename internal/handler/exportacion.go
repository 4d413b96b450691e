package handler

import (
	"fmt"
	"net/http"

	"github.com/facussc24/2026-sub001/internal/apierror"
	"github.com/facussc24/2026-sub001/internal/dto"
	"github.com/facussc24/2026-sub001/internal/export"
	"github.com/facussc24/2026-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

type ExportacionHandler struct{ svc service.ExportacionService }

func NewExportacionHandler(svc service.ExportacionService) *ExportacionHandler {
	return &ExportacionHandler{svc: svc}
}

// Descargar renders the report in the request.
//
// @Summary      Descargar la estructura como PDF, XLSX o CSV
// @Tags         exportacion
// @Produce      application/pdf
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce      text/csv
// @Param        id       path  string true  "Codigo del producto"
// @Param        formato  query string false "pdf | xlsx | csv" default(pdf)
// @Param        niveles  query string false "Niveles separados por coma"
// @Param        material query string false "Texto a buscar en material o descripcion"
// @Success      200  {file} file
// @Failure      400  {object} apierror.APIError
// @Failure      404  {object} apierror.OutcomeError
// @Router       /v1/productos/{id}/exportar [get]
func (h *ExportacionHandler) Descargar(c *gin.Context) {
	formato, err := export.ParseFormat(c.DefaultQuery("formato", string(export.FormatPDF)))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	f, ok := filterFromQuery(c)
	if !ok {
		return
	}
	file, err := h.svc.Generar(c.Request.Context(), c.Param("id"), formato, f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

// Encolar godoc
// @Summary      Encolar una exportacion asincronica
// @Tags         exportacion
// @Accept       json
// @Produce      json
// @Param        id   path string true "Codigo del producto"
// @Param        body body dto.ExportacionRequest true "Formato y filtro"
// @Success      202  {object} dto.ExportacionResponse
// @Failure      503  {object} apierror.OutcomeError
// @Router       /v1/productos/{id}/exportaciones [post]
func (h *ExportacionHandler) Encolar(c *gin.Context) {
	var req dto.ExportacionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Encolar(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, resp)
}

// Estado godoc
// @Summary      Estado de una exportacion
// @Tags         exportacion
// @Produce      json
// @Param        job_id path string true "Id del trabajo"
// @Success      200  {object} dto.ExportacionEstadoResponse
// @Failure      404  {object} apierror.OutcomeError
// @Router       /v1/exportaciones/{job_id} [get]
func (h *ExportacionHandler) Estado(c *gin.Context) {
	resp, err := h.svc.Estado(c.Request.Context(), c.Param("job_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
