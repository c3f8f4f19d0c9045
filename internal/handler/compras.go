package handler

import (
	"net/http"

	"github.com/ajanels/LaOriginalBackend-sub001/internal/dto"
	"github.com/ajanels/LaOriginalBackend-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

// CompraHandler exposes the purchase posting endpoints.
type CompraHandler struct {
	svc service.CompraService
}

func NewCompraHandler(svc service.CompraService) *CompraHandler {
	return &CompraHandler{svc: svc}
}

// Crear godoc
// @Summary      Registrar compra
// @Description  Registra una compra a proveedor: encabezado, detalle, actualización de stock a costo promedio y, si el método de pago afecta caja, el egreso correspondiente. Todo o nada.
// @Tags         compras
// @Accept       json
// @Produce      json
// @Param        request body dto.RegistrarCompraRequest true "Compra"
// @Success      201 {object} dto.RegistrarCompraResponse
// @Failure      409 {object} apierror.ConflictError
// @Router       /v1/compras [post]
func (h *CompraHandler) Crear(c *gin.Context) {
	var req dto.RegistrarCompraRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Registrar(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Anular godoc
// @Summary      Anular compra
// @Description  Anula una compra registrada revirtiendo el inventario de todas sus líneas. No revierte movimientos de caja.
// @Tags         compras
// @Accept       json
// @Produce      json
// @Param        id      path string                  true  "ID de compra"
// @Param        request body dto.AnularCompraRequest false "Motivo"
// @Success      200 {object} dto.AnularCompraResponse
// @Failure      409 {object} apierror.ConflictError
// @Router       /v1/compras/{id}/anular [post]
func (h *CompraHandler) Anular(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.AnularCompraRequest
	if c.Request.ContentLength > 0 {
		if !bindAndValidate(c, &req) {
			return
		}
	}
	resp, err := h.svc.Anular(c.Request.Context(), id, req.Motivo, currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ObtenerPorID returns one purchase with its lines, supplier and payment method.
func (h *CompraHandler) ObtenerPorID(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Listar returns purchases filtered by estado and date range, newest first.
func (h *CompraHandler) Listar(c *gin.Context) {
	var filter dto.CompraFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		respondServiceError(c, err)
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
