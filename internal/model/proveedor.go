package model

import (
	"time"

	"github.com/google/uuid"
)

// Proveedor is a supplier. The posting engine only needs existence + id;
// the rest is contact bookkeeping.
type Proveedor struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"type:varchar(150);not null"`
	NIT       *string   `gorm:"type:varchar(20);uniqueIndex"`
	Telefono  *string   `gorm:"type:varchar(30)"`
	Direccion *string
	Activo    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Proveedor) TableName() string { return "proveedores" }
