package model

import (
	"time"

	"github.com/google/uuid"
)

// Usuario is an operator account. Rol: "admin" | "cajero".
type Usuario struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"type:varchar(50);not null;uniqueIndex"`
	PasswordHash string    `gorm:"not null"`
	Nombre       string    `gorm:"type:varchar(100);not null"`
	Rol          string    `gorm:"type:varchar(20);not null;default:'cajero'"`
	Activo       bool      `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Usuario) TableName() string { return "usuarios" }
