package handler

import (
	"net/http"
	"strconv"

	"github.com/ajanels/LaOriginalBackend-sub001/internal/apierror"
	"github.com/ajanels/LaOriginalBackend-sub001/internal/dto"
	"github.com/ajanels/LaOriginalBackend-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CajaHandler exposes the cash session endpoints.
type CajaHandler struct {
	svc service.CajaService
}

func NewCajaHandler(svc service.CajaService) *CajaHandler {
	return &CajaHandler{svc: svc}
}

// Abrir godoc
// @Summary      Abrir sesión de caja
// @Description  Abre una nueva sesión de caja con un monto inicial. Falla si ya existe una sesión abierta.
// @Tags         caja
// @Accept       json
// @Produce      json
// @Param        request body dto.AbrirCajaRequest true "Datos de apertura"
// @Success      201 {object} dto.AbrirCajaResponse
// @Failure      409 {object} apierror.APIError
// @Router       /v1/caja/abrir [post]
func (h *CajaHandler) Abrir(c *gin.Context) {
	var req dto.AbrirCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Abrir(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Estado godoc
// @Summary      Estado de caja
// @Description  Indica si hay una sesión abierta y devuelve sus datos básicos.
// @Tags         caja
// @Produce      json
// @Success      200 {object} dto.EstadoCajaResponse
// @Router       /v1/caja/estado [get]
func (h *CajaHandler) Estado(c *gin.Context) {
	resp, err := h.svc.Estado(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Resumen godoc
// @Summary      Resumen de caja
// @Description  Totales por tipo de movimiento y saldo esperado. Sin sesion_id usa la sesión abierta.
// @Tags         caja
// @Produce      json
// @Param        sesion_id query string false "ID de sesión (histórica)"
// @Success      200 {object} dto.ResumenCajaResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/caja/resumen [get]
func (h *CajaHandler) Resumen(c *gin.Context) {
	var sesionID *uuid.UUID
	if raw := c.Query("sesion_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("sesion_id inválido"))
			return
		}
		sesionID = &id
	}
	resp, err := h.svc.Resumen(c.Request.Context(), sesionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RegistrarMovimiento godoc
// @Summary      Registrar movimiento de caja
// @Description  Registra un ingreso, egreso o pago a proveedor contra la sesión abierta.
// @Tags         caja
// @Accept       json
// @Produce      json
// @Param        request body dto.MovimientoCajaRequest true "Movimiento"
// @Success      201 {object} dto.MovimientoCajaResponse
// @Failure      409 {object} apierror.ConflictError
// @Router       /v1/caja/movimientos [post]
func (h *CajaHandler) RegistrarMovimiento(c *gin.Context) {
	var req dto.MovimientoCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarMovimiento(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Cerrar godoc
// @Summary      Cerrar sesión de caja
// @Description  Cierra la sesión abierta con el conteo físico y devuelve la diferencia contra el esperado.
// @Tags         caja
// @Accept       json
// @Produce      json
// @Param        request body dto.CerrarCajaRequest true "Datos de cierre"
// @Success      200 {object} dto.CierreCajaResponse
// @Failure      409 {object} apierror.APIError
// @Router       /v1/caja/cerrar [post]
func (h *CajaHandler) Cerrar(c *gin.Context) {
	var req dto.CerrarCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Cerrar(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Historial lists past sessions, newest first. Supports page/limit query params.
func (h *CajaHandler) Historial(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	items, total, err := h.svc.Historial(c.Request.Context(), page, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// Movimientos lists every movement of one session, oldest first.
func (h *CajaHandler) Movimientos(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	items, err := h.svc.Movimientos(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}
