package handler

import (
	"net/http"

	"github.com/facussc24/2026-sub001/internal/dto"
	"github.com/facussc24/2026-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

type EstructuraHandler struct{ svc service.EstructuraService }

func NewEstructuraHandler(svc service.EstructuraService) *EstructuraHandler {
	return &EstructuraHandler{svc: svc}
}

// Obtener returns the flattened, optionally filtered structure.
//
// @Summary      Estructura aplanada
// @Description  niveles ausente muestra todos los niveles; niveles vacio no muestra ninguno.
// @Tags         estructura
// @Produce      json
// @Param        id       path  string true  "Codigo del producto"
// @Param        niveles  query string false "Niveles separados por coma, ej. 0,2"
// @Param        material query string false "Texto a buscar en material o descripcion"
// @Success      200  {object} dto.EstructuraResponse
// @Failure      400  {object} apierror.APIError
// @Failure      404  {object} apierror.OutcomeError
// @Router       /v1/productos/{id}/estructura [get]
func (h *EstructuraHandler) Obtener(c *gin.Context) {
	f, ok := filterFromQuery(c)
	if !ok {
		return
	}
	resp, err := h.svc.Estructura(c.Request.Context(), c.Param("id"), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AgregarNodo godoc
// @Summary      Agregar un nodo
// @Tags         estructura
// @Accept       json
// @Produce      json
// @Param        id   path string true "Codigo del producto"
// @Param        body body dto.AgregarNodoRequest true "Padre, posicion y subarbol"
// @Success      201  {object} dto.MutacionResponse
// @Failure      404  {object} apierror.OutcomeError
// @Failure      422  {object} apierror.OutcomeError
// @Router       /v1/productos/{id}/estructura/nodos [post]
func (h *EstructuraHandler) AgregarNodo(c *gin.Context) {
	var req dto.AgregarNodoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AgregarNodo(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ActualizarNodo godoc
// @Summary      Editar cantidad o comentario de un nodo
// @Tags         estructura
// @Accept       json
// @Produce      json
// @Param        id      path string true "Codigo del producto"
// @Param        nodo_id path string true "Id del nodo"
// @Param        body    body dto.ActualizarNodoRequest true "Campos a cambiar"
// @Success      200  {object} dto.MutacionResponse
// @Failure      422  {object} apierror.OutcomeError
// @Router       /v1/productos/{id}/estructura/nodos/{nodo_id} [patch]
func (h *EstructuraHandler) ActualizarNodo(c *gin.Context) {
	var req dto.ActualizarNodoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarNodo(c.Request.Context(), c.Param("id"), c.Param("nodo_id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// EliminarNodo godoc
// @Summary      Quitar un nodo y su subarbol
// @Tags         estructura
// @Produce      json
// @Param        id      path string true "Codigo del producto"
// @Param        nodo_id path string true "Id del nodo"
// @Success      200  {object} dto.MutacionResponse
// @Failure      422  {object} apierror.OutcomeError
// @Router       /v1/productos/{id}/estructura/nodos/{nodo_id} [delete]
func (h *EstructuraHandler) EliminarNodo(c *gin.Context) {
	resp, err := h.svc.EliminarNodo(c.Request.Context(), c.Param("id"), c.Param("nodo_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// MoverNodo godoc
// @Summary      Mover un nodo a otro padre
// @Description  Rechaza destinos insumo, el propio nodo o sus descendientes; el arbol queda intacto.
// @Tags         estructura
// @Accept       json
// @Produce      json
// @Param        id   path string true "Codigo del producto"
// @Param        body body dto.MoverNodoRequest true "Nodo, nuevo padre y posicion"
// @Success      200  {object} dto.MutacionResponse
// @Failure      422  {object} apierror.OutcomeError
// @Router       /v1/productos/{id}/estructura/mover [post]
func (h *EstructuraHandler) MoverNodo(c *gin.Context) {
	var req dto.MoverNodoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.MoverNodo(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
