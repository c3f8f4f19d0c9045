package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Purchase states.
const (
	EstadoCompraRegistrada = "Registrada"
	EstadoCompraAnulada    = "Anulada"
)

// Compra is a supplier purchase. Created once; the only mutation allowed is
// the flip to anulada. Detalles are immutable after creation.
type Compra struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Fecha       time.Time `gorm:"not null;index"`
	ProveedorID uuid.UUID `gorm:"type:uuid;not null;index"`
	// Numero: external document number if supplied, otherwise generated
	// from the compras_numero_seq sequence ("C-000001").
	Numero        string `gorm:"type:varchar(50);not null"`
	Referencia    *string
	Observaciones *string
	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// Descuento is always 0 for now; column kept so history survives when
	// purchase discounts are introduced.
	Descuento    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Total        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Estado       string          `gorm:"type:varchar(20);not null;default:'Registrada'"`
	Anulada      bool            `gorm:"not null;default:false"`
	MetodoPagoID *uuid.UUID      `gorm:"type:uuid"`
	UsuarioID    *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Detalles   []CompraDetalle `gorm:"foreignKey:CompraID"`
	Proveedor  *Proveedor      `gorm:"foreignKey:ProveedorID"`
	MetodoPago *MetodoPago     `gorm:"foreignKey:MetodoPagoID"`
}

// CompraDetalle is one purchase line: Cantidad > 0, CostoUnitario >= 0,
// Total = round(Cantidad × CostoUnitario, 2).
type CompraDetalle struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompraID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	PresentacionID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Cantidad       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CostoUnitario  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Total          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Observaciones  *string

	Presentacion *Presentacion `gorm:"foreignKey:PresentacionID"`
}

func (CompraDetalle) TableName() string { return "compra_detalles" }
