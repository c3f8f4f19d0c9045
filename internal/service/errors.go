package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// State-conflict and validation errors. All are detected before any write and
// reported with enough detail for the caller to decide its next action;
// anything not listed here surfaces as a generic infrastructure error.
var (
	ErrMontoInvalido          = errors.New("el monto debe ser mayor o igual a cero")
	ErrMontoNoPositivo        = errors.New("el monto debe ser mayor a cero")
	ErrCajaYaAbierta          = errors.New("ya existe una sesión de caja abierta")
	ErrSinSesionAbierta       = errors.New("no hay sesión de caja abierta")
	ErrSesionNoEncontrada     = errors.New("sesión de caja no encontrada")
	ErrCajaCerrada            = errors.New("la compra afecta caja y no hay sesión abierta")
	ErrProveedorNoEncontrado  = errors.New("proveedor no encontrado")
	ErrMetodoPagoNoEncontrado = errors.New("método de pago no encontrado")
	ErrReferenciaRequerida    = errors.New("el método de pago requiere una referencia")
	ErrCompraSinLineas        = errors.New("la compra debe tener al menos una línea")
	ErrCompraNoEncontrada     = errors.New("compra no encontrada")
	ErrCompraYaAnulada        = errors.New("la compra ya está anulada")
	ErrCredencialesInvalidas  = errors.New("credenciales inválidas")
	ErrUsuarioDuplicado       = errors.New("el nombre de usuario ya existe")
	ErrUsuarioNoEncontrado    = errors.New("usuario no encontrado")
)

// ErrFondosInsuficientes rejects an outflow that would leave the session
// balance negative. Carries available vs requested so the caller can adjust.
type ErrFondosInsuficientes struct {
	Disponible decimal.Decimal
	Solicitado decimal.Decimal
}

func (e *ErrFondosInsuficientes) Error() string {
	return fmt.Sprintf("fondos insuficientes en caja: disponible %s, solicitado %s",
		e.Disponible.StringFixed(2), e.Solicitado.StringFixed(2))
}

// ErrStockInsuficiente rejects a purchase void when a line's quantity exceeds
// the current stock of its presentación.
type ErrStockInsuficiente struct {
	PresentacionID uuid.UUID
	Requerido      decimal.Decimal
	Disponible     decimal.Decimal
}

func (e *ErrStockInsuficiente) Error() string {
	return fmt.Sprintf("stock insuficiente para anular: presentación %s requiere %s, disponible %s",
		e.PresentacionID, e.Requerido.StringFixed(2), e.Disponible.StringFixed(2))
}

// ErrPresentacionesInvalidas reports every unknown presentación of a purchase
// in one failure (lines are batch-checked, not per row).
type ErrPresentacionesInvalidas struct {
	IDs []uuid.UUID
}

func (e *ErrPresentacionesInvalidas) Error() string {
	return fmt.Sprintf("presentaciones inexistentes: %v", e.IDs)
}
