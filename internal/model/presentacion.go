package model

import (
	"time"

	"github.com/google/uuid"
)

// Presentacion is a sellable unit of a product (size/color/packaging).
// Stock and purchase lines reference presentaciones, never products directly.
type Presentacion struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre       string    `gorm:"type:varchar(150);not null"`
	CodigoBarras *string   `gorm:"type:varchar(50);uniqueIndex"`
	Activo       bool      `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Presentacion) TableName() string { return "presentaciones" }
