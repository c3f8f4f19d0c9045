package service

import (
	"context"
	"errors"
	"time"

	"github.com/ajanels/LaOriginalBackend-sub001/internal/dto"
	"github.com/ajanels/LaOriginalBackend-sub001/internal/model"
	"github.com/ajanels/LaOriginalBackend-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InventarioService owns the stock ledger (running quantity + weighted-average
// cost per presentación) and its append-only movement log. The Tx methods run
// inside the purchase posting/void transaction; InventarioService never opens
// transactions of its own.
type InventarioService interface {
	ObtenerStock(ctx context.Context, presentacionID uuid.UUID) (*dto.StockResponse, error)
	Kardex(ctx context.Context, presentacionID uuid.UUID, limit int) ([]dto.MovimientoInventarioResponse, error)

	// RegistrarEntradaTx applies an inbound posting: read-or-create the stock
	// row (locked), blend the weighted-average cost, increase quantity, and
	// append one entrada movement.
	RegistrarEntradaTx(tx *gorm.DB, presentacionID uuid.UUID, cantidad, costoUnitario decimal.Decimal, documentoID uuid.UUID, usuarioID *uuid.UUID) error
	// VerificarSalidaTx locks the stock row and fails with ErrStockInsuficiente
	// when cantidad exceeds the current quantity. No writes.
	VerificarSalidaTx(tx *gorm.DB, presentacionID uuid.UUID, cantidad decimal.Decimal) error
	// RegistrarSalidaTx decrements quantity and appends a salida movement with
	// negative cantidad. Average cost is left untouched: a void does not
	// rewind costing history.
	RegistrarSalidaTx(tx *gorm.DB, presentacionID uuid.UUID, cantidad, costoUnitario decimal.Decimal, documentoID uuid.UUID, motivo string, usuarioID *uuid.UUID) error
}

type inventarioService struct {
	repo repository.StockRepository
}

func NewInventarioService(repo repository.StockRepository) InventarioService {
	return &inventarioService{repo: repo}
}

func (s *inventarioService) ObtenerStock(ctx context.Context, presentacionID uuid.UUID) (*dto.StockResponse, error) {
	stock, err := s.repo.FindByPresentacion(ctx, presentacionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// No purchases yet: report zero instead of failing.
		return &dto.StockResponse{
			PresentacionID: presentacionID.String(),
			Cantidad:       decimal.Zero,
			CostoPromedio:  decimal.Zero,
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return &dto.StockResponse{
		PresentacionID: stock.PresentacionID.String(),
		Cantidad:       stock.Cantidad,
		CostoPromedio:  stock.CostoPromedio,
	}, nil
}

func (s *inventarioService) Kardex(ctx context.Context, presentacionID uuid.UUID, limit int) ([]dto.MovimientoInventarioResponse, error) {
	movs, err := s.repo.ListMovimientos(ctx, presentacionID, limit)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.MovimientoInventarioResponse, 0, len(movs))
	for _, m := range movs {
		item := dto.MovimientoInventarioResponse{
			ID:             m.ID.String(),
			Fecha:          formatUTC(m.Fecha),
			PresentacionID: m.PresentacionID.String(),
			Tipo:           m.Tipo,
			Cantidad:       m.Cantidad,
			CostoUnitario:  m.CostoUnitario,
			TipoDocumento:  m.TipoDocumento,
			Observaciones:  m.Observaciones,
		}
		if m.DocumentoID != nil {
			doc := m.DocumentoID.String()
			item.DocumentoID = &doc
		}
		resp = append(resp, item)
	}
	return resp, nil
}

func (s *inventarioService) RegistrarEntradaTx(tx *gorm.DB, presentacionID uuid.UUID, cantidad, costoUnitario decimal.Decimal, documentoID uuid.UUID, usuarioID *uuid.UUID) error {
	stock, err := s.repo.FindByPresentacionTx(tx, presentacionID, true)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Lazy creation on first purchase. A concurrent first purchase of the
		// same presentación trips the unique index and the tx retries.
		stock = &model.Stock{
			ID:             uuid.New(),
			PresentacionID: presentacionID,
			Cantidad:       decimal.Zero,
			CostoPromedio:  decimal.Zero,
		}
		if err := s.repo.CreateTx(tx, stock); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	stock.CostoPromedio = costoPromedioPonderado(stock.Cantidad, stock.CostoPromedio, cantidad, costoUnitario)
	stock.Cantidad = stock.Cantidad.Add(cantidad)
	if err := s.repo.UpdateTx(tx, stock); err != nil {
		return err
	}

	return s.repo.CreateMovimientoTx(tx, &model.MovimientoInventario{
		Fecha:          time.Now().UTC(),
		PresentacionID: presentacionID,
		Tipo:           model.TipoInventarioEntrada,
		Cantidad:       cantidad,
		CostoUnitario:  costoUnitario,
		TipoDocumento:  model.DocumentoCompra,
		DocumentoID:    &documentoID,
		UsuarioID:      usuarioID,
	})
}

func (s *inventarioService) VerificarSalidaTx(tx *gorm.DB, presentacionID uuid.UUID, cantidad decimal.Decimal) error {
	stock, err := s.repo.FindByPresentacionTx(tx, presentacionID, true)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &ErrStockInsuficiente{PresentacionID: presentacionID, Requerido: cantidad, Disponible: decimal.Zero}
	}
	if err != nil {
		return err
	}
	if stock.Cantidad.LessThan(cantidad) {
		return &ErrStockInsuficiente{PresentacionID: presentacionID, Requerido: cantidad, Disponible: stock.Cantidad}
	}
	return nil
}

func (s *inventarioService) RegistrarSalidaTx(tx *gorm.DB, presentacionID uuid.UUID, cantidad, costoUnitario decimal.Decimal, documentoID uuid.UUID, motivo string, usuarioID *uuid.UUID) error {
	stock, err := s.repo.FindByPresentacionTx(tx, presentacionID, true)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &ErrStockInsuficiente{PresentacionID: presentacionID, Requerido: cantidad, Disponible: decimal.Zero}
	}
	if err != nil {
		return err
	}
	if stock.Cantidad.LessThan(cantidad) {
		return &ErrStockInsuficiente{PresentacionID: presentacionID, Requerido: cantidad, Disponible: stock.Cantidad}
	}

	stock.Cantidad = stock.Cantidad.Sub(cantidad)
	if err := s.repo.UpdateTx(tx, stock); err != nil {
		return err
	}

	return s.repo.CreateMovimientoTx(tx, &model.MovimientoInventario{
		Fecha:          time.Now().UTC(),
		PresentacionID: presentacionID,
		Tipo:           model.TipoInventarioSalida,
		Cantidad:       cantidad.Neg(),
		CostoUnitario:  costoUnitario,
		TipoDocumento:  model.DocumentoAnulacionCompra,
		DocumentoID:    &documentoID,
		Observaciones:  &motivo,
		UsuarioID:      usuarioID,
	})
}

// costoPromedioPonderado blends the existing and incoming costs by quantity:
// (oldQty×oldCost + inQty×inCost) / (oldQty+inQty), rounded to 2 decimals.
// When the resulting quantity is not positive the previous average is kept.
func costoPromedioPonderado(cantidadActual, costoActual, cantidadEntrada, costoEntrada decimal.Decimal) decimal.Decimal {
	total := cantidadActual.Add(cantidadEntrada)
	if !total.IsPositive() {
		return costoActual
	}
	valor := cantidadActual.Mul(costoActual).Add(cantidadEntrada.Mul(costoEntrada))
	return valor.Div(total).Round(2)
}
