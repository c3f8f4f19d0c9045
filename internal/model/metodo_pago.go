package model

import (
	"time"

	"github.com/google/uuid"
)

// MetodoPago drives how a purchase interacts with the cash drawer:
// AfectaCaja posts a pago_proveedor movement into the open session,
// RequiereReferencia forces the caller to supply a reference string.
type MetodoPago struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre              string    `gorm:"type:varchar(80);not null;uniqueIndex"`
	AfectaCaja          bool      `gorm:"not null;default:false"`
	RequiereReferencia  bool      `gorm:"not null;default:false"`
	Activo              bool      `gorm:"not null;default:true"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (MetodoPago) TableName() string { return "metodos_pago" }
