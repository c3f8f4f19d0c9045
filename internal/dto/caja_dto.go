package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AbrirCajaRequest struct {
	MontoInicial  decimal.Decimal `json:"monto_inicial" validate:"min=0"`
	Observaciones *string         `json:"observaciones"`
	Cajero        string          `json:"cajero"`
}

type MovimientoCajaRequest struct {
	Tipo          string          `json:"tipo"           validate:"required,oneof=ingreso egreso pago_proveedor"`
	Monto         decimal.Decimal `json:"monto"          validate:"required,gt=0"`
	Concepto      string          `json:"concepto"       validate:"required,min=3"`
	Observaciones *string         `json:"observaciones"`
	TipoDocumento *string         `json:"tipo_documento"`
	DocumentoID   *string         `json:"documento_id"   validate:"omitempty,uuid"`
}

type CerrarCajaRequest struct {
	MontoContado  decimal.Decimal `json:"monto_contado" validate:"min=0"`
	Observaciones *string         `json:"observaciones"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type AbrirCajaResponse struct {
	SesionID string `json:"sesion_id"`
	Codigo   string `json:"codigo"`
}

type EstadoCajaResponse struct {
	Abierta       bool             `json:"abierta"`
	SesionID      *string          `json:"sesion_id,omitempty"`
	Codigo        *string          `json:"codigo,omitempty"`
	FechaApertura *string          `json:"fecha_apertura,omitempty"`
	MontoInicial  *decimal.Decimal `json:"monto_inicial,omitempty"`
}

type ResumenCajaResponse struct {
	SesionID      string          `json:"sesion_id"`
	Codigo        string          `json:"codigo"`
	MontoInicial  decimal.Decimal `json:"monto_inicial"`
	Ingresos      decimal.Decimal `json:"ingresos"`
	Egresos       decimal.Decimal `json:"egresos"`
	Esperado      decimal.Decimal `json:"esperado"`
	FechaApertura string          `json:"fecha_apertura"`
	FechaCierre   *string         `json:"fecha_cierre,omitempty"`
}

type MovimientoCajaResponse struct {
	ID            string          `json:"id"`
	SesionID      string          `json:"sesion_id"`
	Fecha         string          `json:"fecha"`
	Tipo          string          `json:"tipo"`
	Monto         decimal.Decimal `json:"monto"`
	Concepto      string          `json:"concepto"`
	Observaciones *string         `json:"observaciones,omitempty"`
	TipoDocumento *string         `json:"tipo_documento,omitempty"`
	DocumentoID   *string         `json:"documento_id,omitempty"`
}

type CierreCajaResponse struct {
	SesionID     string          `json:"sesion_id"`
	MontoInicial decimal.Decimal `json:"monto_inicial"`
	Ingresos     decimal.Decimal `json:"ingresos"`
	Egresos      decimal.Decimal `json:"egresos"`
	Esperado     decimal.Decimal `json:"esperado"`
	Conteo       decimal.Decimal `json:"conteo"`
	Diferencia   decimal.Decimal `json:"diferencia"`
}

type SesionCajaListItem struct {
	ID            string           `json:"id"`
	Codigo        string           `json:"codigo"`
	Cajero        string           `json:"cajero"`
	MontoInicial  decimal.Decimal  `json:"monto_inicial"`
	MontoCierre   *decimal.Decimal `json:"monto_cierre,omitempty"`
	FechaApertura string           `json:"fecha_apertura"`
	FechaCierre   *string          `json:"fecha_cierre,omitempty"`
}
