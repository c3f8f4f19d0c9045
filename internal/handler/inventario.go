package handler

import (
	"net/http"
	"strconv"

	"github.com/ajanels/LaOriginalBackend-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

// InventarioHandler exposes read-only stock and kardex endpoints.
// Stock only changes through purchase posting and voiding.
type InventarioHandler struct {
	svc service.InventarioService
}

func NewInventarioHandler(svc service.InventarioService) *InventarioHandler {
	return &InventarioHandler{svc: svc}
}

// Stock returns quantity on hand and average cost for one presentation.
// A presentation without movements reports zero stock, not 404.
func (h *InventarioHandler) Stock(c *gin.Context) {
	id, ok := parseUUIDParam(c, "presentacionId")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerStock(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Kardex returns the inventory movement history of one presentation, newest first.
func (h *InventarioHandler) Kardex(c *gin.Context) {
	id, ok := parseUUIDParam(c, "presentacionId")
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	items, err := h.svc.Kardex(c.Request.Context(), id, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}
