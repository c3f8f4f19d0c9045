package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CompraLineaRequest struct {
	PresentacionID string          `json:"presentacion_id" validate:"required,uuid"`
	Cantidad       decimal.Decimal `json:"cantidad"        validate:"required,gt=0"`
	CostoUnitario  decimal.Decimal `json:"costo_unitario"  validate:"min=0"`
	Observaciones  *string         `json:"observaciones"`
}

type RegistrarCompraRequest struct {
	ProveedorID   string               `json:"proveedor_id"   validate:"required,uuid"`
	Lineas        []CompraLineaRequest `json:"lineas"         validate:"required,min=1,dive"`
	MetodoPagoID  *string              `json:"metodo_pago_id" validate:"omitempty,uuid"`
	Referencia    *string              `json:"referencia"`
	Numero        *string              `json:"numero"`
	Observaciones *string              `json:"observaciones"`
}

type AnularCompraRequest struct {
	Motivo *string `json:"motivo"`
}

type CompraFilter struct {
	Estado string `form:"estado"`
	Desde  string `form:"desde"`
	Hasta  string `form:"hasta"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type RegistrarCompraResponse struct {
	CompraID string `json:"compra_id"`
	Numero   string `json:"numero"`
}

type AnularCompraResponse struct {
	CompraID string `json:"compra_id"`
	Estado   string `json:"estado"`
}

type CompraDetalleResponse struct {
	PresentacionID string          `json:"presentacion_id"`
	Presentacion   string          `json:"presentacion,omitempty"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	CostoUnitario  decimal.Decimal `json:"costo_unitario"`
	Total          decimal.Decimal `json:"total"`
}

type CompraResponse struct {
	ID            string                  `json:"id"`
	Numero        string                  `json:"numero"`
	Fecha         string                  `json:"fecha"`
	ProveedorID   string                  `json:"proveedor_id"`
	Proveedor     string                  `json:"proveedor,omitempty"`
	Referencia    *string                 `json:"referencia,omitempty"`
	Observaciones *string                 `json:"observaciones,omitempty"`
	Subtotal      decimal.Decimal         `json:"subtotal"`
	Descuento     decimal.Decimal         `json:"descuento"`
	Total         decimal.Decimal         `json:"total"`
	Estado        string                  `json:"estado"`
	Anulada       bool                    `json:"anulada"`
	MetodoPagoID  *string                 `json:"metodo_pago_id,omitempty"`
	Detalles      []CompraDetalleResponse `json:"detalles"`
}

type CompraListResponse struct {
	Data  []CompraResponse `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

// ─── Inventory read DTOs ─────────────────────────────────────────────────────

type StockResponse struct {
	PresentacionID string          `json:"presentacion_id"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	CostoPromedio  decimal.Decimal `json:"costo_promedio"`
}

type MovimientoInventarioResponse struct {
	ID             string          `json:"id"`
	Fecha          string          `json:"fecha"`
	PresentacionID string          `json:"presentacion_id"`
	Tipo           string          `json:"tipo"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	CostoUnitario  decimal.Decimal `json:"costo_unitario"`
	TipoDocumento  string          `json:"tipo_documento"`
	DocumentoID    *string         `json:"documento_id,omitempty"`
	Observaciones  *string         `json:"observaciones,omitempty"`
}
