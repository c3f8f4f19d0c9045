package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Stock keeps the running quantity and weighted-average unit cost of one
// presentación. Created lazily on the first purchase of the presentación.
// Cantidad never goes negative; CostoPromedio only changes on inbound
// postings (voids decrement quantity but leave costing history untouched).
type Stock struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PresentacionID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	Cantidad       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CostoPromedio  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Presentacion *Presentacion `gorm:"foreignKey:PresentacionID"`
}

func (Stock) TableName() string { return "stocks" }

// Inventory movement directions.
const (
	TipoInventarioEntrada = "entrada"
	TipoInventarioSalida  = "salida"
)

// Source document labels for inventory movements.
const (
	DocumentoCompra          = "Compra"
	DocumentoDeposito        = "Deposito"
	DocumentoAnulacionCompra = "AnulacionCompra"
)

// MovimientoInventario is the append-only audit trail of every quantity
// change. Cantidad is signed: positive for entrada, negative for salida.
// Rows never mutate Stock retroactively.
type MovimientoInventario struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Fecha          time.Time       `gorm:"not null"`
	PresentacionID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Tipo           string          `gorm:"type:varchar(10);not null"`
	Cantidad       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CostoUnitario  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TipoDocumento  string          `gorm:"type:varchar(30);not null"`
	DocumentoID    *uuid.UUID      `gorm:"type:uuid;index"`
	Observaciones  *string
	UsuarioID      *uuid.UUID `gorm:"type:uuid"`
	CreatedAt      time.Time
}

// TableName overrides GORM's pluralization.
func (MovimientoInventario) TableName() string { return "movimientos_inventario" }
