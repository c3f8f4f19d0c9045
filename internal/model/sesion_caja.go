package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SesionCaja represents one open-to-close cycle of the cash drawer.
// At most one row with FechaCierre IS NULL may exist — enforced with an
// advisory lock on open plus a partial unique index (see infra schema patches).
type SesionCaja struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Codigo        string          `gorm:"type:varchar(30);not null;uniqueIndex"`
	FechaApertura time.Time       `gorm:"not null"`
	MontoInicial  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// FechaCierre / MontoCierre are set exactly once, by Cerrar.
	FechaCierre   *time.Time
	MontoCierre   *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Observaciones *string
	Cajero        string     `gorm:"type:varchar(100)"`
	UsuarioID     *uuid.UUID `gorm:"type:uuid"`
	CreatedAt     time.Time

	Movimientos []MovimientoCaja `gorm:"foreignKey:SesionCajaID"`
}

// Abierta reports whether the session is still open.
func (s *SesionCaja) Abierta() bool { return s.FechaCierre == nil }

// TableName overrides GORM's pluralization (sesion_cajas → sesiones_caja).
func (SesionCaja) TableName() string { return "sesiones_caja" }

// Movement kinds. Monto is always stored positive; the kind decides the sign
// in balance arithmetic (TipoMovimientoEgreso and TipoMovimientoPagoProveedor
// subtract, TipoMovimientoIngreso adds, apertura/cierre are informational).
const (
	TipoMovimientoApertura      = "apertura"
	TipoMovimientoCierre        = "cierre"
	TipoMovimientoIngreso       = "ingreso"
	TipoMovimientoEgreso        = "egreso"
	TipoMovimientoPagoProveedor = "pago_proveedor"
)

// EsEgreso reports whether a movement kind decreases the available balance.
func EsEgreso(tipo string) bool {
	return tipo == TipoMovimientoEgreso || tipo == TipoMovimientoPagoProveedor
}

// MovimientoCaja is an immutable event in the cash drawer ledger.
// Movements are NEVER modified or deleted; corrections create new entries.
type MovimientoCaja struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SesionCajaID  uuid.UUID       `gorm:"type:uuid;index;not null"`
	Fecha         time.Time       `gorm:"not null"`
	Tipo          string          `gorm:"type:varchar(20);not null"`
	Monto         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Concepto      string          `gorm:"not null"`
	Observaciones *string
	// TipoDocumento/DocumentoID link back to the source document
	// ("Compra", "Deposito", ...) when the movement was posted by one.
	TipoDocumento *string    `gorm:"type:varchar(30)"`
	DocumentoID   *uuid.UUID `gorm:"type:uuid"`
	UsuarioID     *uuid.UUID `gorm:"type:uuid"`
	CreatedAt     time.Time
}

func (MovimientoCaja) TableName() string { return "movimientos_caja" }
