package repository

import (
	"context"

	"github.com/ajanels/LaOriginalBackend-sub001/internal/dto"
	"github.com/ajanels/LaOriginalBackend-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CompraRepository is the data access contract for purchases.
type CompraRepository interface {
	// WithTx runs fn inside one transaction (with bounded serialization
	// retry). All of purchase posting/void happens inside a single fn.
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error

	CreateTx(tx *gorm.DB, c *model.Compra) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Compra, error)
	// MarcarAnuladaTx flips the purchase to anulada only if it is not
	// already; returns gorm.ErrRecordNotFound when another transaction won
	// the race. The conditional UPDATE takes the row lock, so callers run
	// it before any stock mutation.
	MarcarAnuladaTx(tx *gorm.DB, id uuid.UUID) error
	// NextNumero pulls the next value from compras_numero_seq, used when the
	// caller supplies no external document number.
	NextNumero(tx *gorm.DB) (int64, error)
	List(ctx context.Context, filter dto.CompraFilter) ([]model.Compra, int64, error)
}

type compraRepo struct{ db *gorm.DB }

func NewCompraRepository(db *gorm.DB) CompraRepository { return &compraRepo{db: db} }

func (r *compraRepo) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return runInTx(ctx, r.db, fn)
}

func (r *compraRepo) CreateTx(tx *gorm.DB, c *model.Compra) error {
	return tx.Create(c).Error
}

func (r *compraRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Compra, error) {
	var c model.Compra
	err := r.db.WithContext(ctx).
		Preload("Detalles").
		Preload("Detalles.Presentacion").
		Preload("Proveedor").
		Preload("MetodoPago").
		First(&c, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *compraRepo) MarcarAnuladaTx(tx *gorm.DB, id uuid.UUID) error {
	res := tx.Model(&model.Compra{}).
		Where("id = ? AND anulada = false", id).
		Updates(map[string]interface{}{
			"estado":  model.EstadoCompraAnulada,
			"anulada": true,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *compraRepo) NextNumero(tx *gorm.DB) (int64, error) {
	var n int64
	err := tx.Raw("SELECT nextval('compras_numero_seq')").Scan(&n).Error
	return n, err
}

func (r *compraRepo) List(ctx context.Context, filter dto.CompraFilter) ([]model.Compra, int64, error) {
	var compras []model.Compra
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Compra{})
	if filter.Estado != "" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.Desde != "" {
		q = q.Where("fecha >= ?", filter.Desde)
	}
	if filter.Hasta != "" {
		q = q.Where("fecha <= ?", filter.Hasta)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Detalles").
		Preload("Proveedor").
		Order("fecha DESC, created_at DESC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&compras).Error
	return compras, total, err
}
