package repository

import (
	"context"

	"github.com/ajanels/LaOriginalBackend-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StockRepository is the data access contract for the stock ledger and the
// append-only inventory movement log. All mutations happen through Tx
// methods inside a purchase posting/void transaction.
type StockRepository interface {
	FindByPresentacion(ctx context.Context, presentacionID uuid.UUID) (*model.Stock, error)
	// FindByPresentacionTx reads the stock row inside tx; lock adds
	// FOR UPDATE so concurrent read-modify-writes serialize per variant.
	FindByPresentacionTx(tx *gorm.DB, presentacionID uuid.UUID, lock bool) (*model.Stock, error)
	CreateTx(tx *gorm.DB, s *model.Stock) error
	UpdateTx(tx *gorm.DB, s *model.Stock) error

	CreateMovimientoTx(tx *gorm.DB, m *model.MovimientoInventario) error
	ListMovimientos(ctx context.Context, presentacionID uuid.UUID, limit int) ([]model.MovimientoInventario, error)
}

type stockRepo struct{ db *gorm.DB }

func NewStockRepository(db *gorm.DB) StockRepository { return &stockRepo{db: db} }

func (r *stockRepo) FindByPresentacion(ctx context.Context, presentacionID uuid.UUID) (*model.Stock, error) {
	var s model.Stock
	err := r.db.WithContext(ctx).Where("presentacion_id = ?", presentacionID).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *stockRepo) FindByPresentacionTx(tx *gorm.DB, presentacionID uuid.UUID, lock bool) (*model.Stock, error) {
	q := tx
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var s model.Stock
	if err := q.Where("presentacion_id = ?", presentacionID).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *stockRepo) CreateTx(tx *gorm.DB, s *model.Stock) error {
	return tx.Create(s).Error
}

func (r *stockRepo) UpdateTx(tx *gorm.DB, s *model.Stock) error {
	return tx.Save(s).Error
}

func (r *stockRepo) CreateMovimientoTx(tx *gorm.DB, m *model.MovimientoInventario) error {
	return tx.Create(m).Error
}

func (r *stockRepo) ListMovimientos(ctx context.Context, presentacionID uuid.UUID, limit int) ([]model.MovimientoInventario, error) {
	if limit < 1 || limit > 500 {
		limit = 100
	}
	var movs []model.MovimientoInventario
	err := r.db.WithContext(ctx).
		Where("presentacion_id = ?", presentacionID).
		Order("fecha DESC, created_at DESC").
		Limit(limit).
		Find(&movs).Error
	return movs, err
}
