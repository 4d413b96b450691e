package handler

import (
	"net/http"

	"github.com/facussc24/2026-sub001/internal/dto"
	"github.com/facussc24/2026-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

type ProductosHandler struct {
	svc     service.EstructuraService
	cascade service.CascadeService
	clone   service.CloneService
}

func NewProductosHandler(svc service.EstructuraService, cascade service.CascadeService, clone service.CloneService) *ProductosHandler {
	return &ProductosHandler{svc: svc, cascade: cascade, clone: clone}
}

// Crear godoc
// @Summary      Crear un producto
// @Description  Crea el producto con una estructura que solo contiene la raiz.
// @Tags         productos
// @Accept       json
// @Produce      json
// @Param        body body dto.CrearProductoRequest true "Codigo y descripcion"
// @Success      201  {object} dto.ProductoResponse
// @Failure      409  {object} apierror.OutcomeError
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/productos [post]
func (h *ProductosHandler) Crear(c *gin.Context) {
	var req dto.CrearProductoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearProducto(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Obtener godoc
// @Summary      Obtener un producto
// @Tags         productos
// @Produce      json
// @Param        id   path string true "Codigo del producto"
// @Success      200  {object} dto.ProductoResponse
// @Failure      404  {object} apierror.OutcomeError
// @Router       /v1/productos/{id} [get]
func (h *ProductosHandler) Obtener(c *gin.Context) {
	resp, err := h.svc.ObtenerProducto(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar deletes the product and its orphaned components. Deleting a
// product that is already gone answers 200 with an info outcome.
//
// @Summary      Eliminar un producto y sus componentes huerfanos
// @Tags         productos
// @Produce      json
// @Param        id   path string true "Codigo del producto"
// @Success      200  {object} dto.EliminacionResponse
// @Failure      503  {object} apierror.OutcomeError
// @Router       /v1/productos/{id} [delete]
func (h *ProductosHandler) Eliminar(c *gin.Context) {
	res, err := h.cascade.DeleteProductCascade(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, service.MapEliminacion(res))
}

// Clonar godoc
// @Summary      Clonar un producto
// @Description  Copia la estructura con ids de nodo nuevos bajo otro codigo.
// @Tags         productos
// @Accept       json
// @Produce      json
// @Param        id   path string true "Codigo del producto origen"
// @Param        body body dto.ClonarProductoRequest true "Codigo nuevo"
// @Success      201  {object} dto.ClonacionResponse
// @Failure      404  {object} apierror.OutcomeError
// @Failure      409  {object} apierror.OutcomeError
// @Router       /v1/productos/{id}/clonar [post]
func (h *ProductosHandler) Clonar(c *gin.Context) {
	var req dto.ClonarProductoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.clone.Clone(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
