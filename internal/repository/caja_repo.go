package repository

import (
	"context"

	"github.com/ajanels/LaOriginalBackend-sub001/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// aperturaLockID is the pg advisory lock key serializing session opening.
// The open-session row cannot be row-locked before it exists, so the
// check-and-create in Abrir takes this transaction-scoped lock instead.
const aperturaLockID int64 = 914237

// CajaRepository is the data access contract for the cash drawer ledger.
//
// The two With* methods own the transaction and the lock; the service puts
// its whole check-then-write sequence inside fn so it executes as one atomic
// unit. Methods with a Tx suffix run inside a caller-owned transaction.
type CajaRepository interface {
	// WithAperturaLock runs fn inside a transaction holding the apertura
	// advisory lock. Used only by Abrir's check-and-create.
	WithAperturaLock(ctx context.Context, fn func(tx *gorm.DB) error) error
	// WithSesionAbierta runs fn inside a transaction with the open session
	// row locked FOR UPDATE. Returns gorm.ErrRecordNotFound when no session
	// is open.
	WithSesionAbierta(ctx context.Context, fn func(tx *gorm.DB, s *model.SesionCaja) error) error

	FindSesionAbierta(ctx context.Context) (*model.SesionCaja, error)
	// FindSesionAbiertaTx reads the open session inside a caller-owned tx
	// (purchase posting); lock adds FOR UPDATE.
	FindSesionAbiertaTx(tx *gorm.DB, lock bool) (*model.SesionCaja, error)
	FindSesionByID(ctx context.Context, id uuid.UUID) (*model.SesionCaja, error)
	CreateSesionTx(tx *gorm.DB, s *model.SesionCaja) error
	UpdateSesionTx(tx *gorm.DB, s *model.SesionCaja) error

	CreateMovimientoTx(tx *gorm.DB, m *model.MovimientoCaja) error
	ListMovimientos(ctx context.Context, sesionID uuid.UUID) ([]model.MovimientoCaja, error)
	SumMovimientosPorTipo(ctx context.Context, sesionID uuid.UUID) (map[string]decimal.Decimal, error)
	SumMovimientosPorTipoTx(tx *gorm.DB, sesionID uuid.UUID) (map[string]decimal.Decimal, error)

	ListSesiones(ctx context.Context, page, limit int) ([]model.SesionCaja, int64, error)
}

type cajaRepo struct{ db *gorm.DB }

func NewCajaRepository(db *gorm.DB) CajaRepository { return &cajaRepo{db: db} }

func (r *cajaRepo) WithAperturaLock(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return runInTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", aperturaLockID).Error; err != nil {
			return err
		}
		return fn(tx)
	})
}

func (r *cajaRepo) WithSesionAbierta(ctx context.Context, fn func(tx *gorm.DB, s *model.SesionCaja) error) error {
	return runInTx(ctx, r.db, func(tx *gorm.DB) error {
		s, err := r.FindSesionAbiertaTx(tx, true)
		if err != nil {
			return err
		}
		return fn(tx, s)
	})
}

func (r *cajaRepo) FindSesionAbierta(ctx context.Context) (*model.SesionCaja, error) {
	var s model.SesionCaja
	err := r.db.WithContext(ctx).Where("fecha_cierre IS NULL").First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *cajaRepo) FindSesionAbiertaTx(tx *gorm.DB, lock bool) (*model.SesionCaja, error) {
	q := tx
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var s model.SesionCaja
	if err := q.Where("fecha_cierre IS NULL").First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *cajaRepo) FindSesionByID(ctx context.Context, id uuid.UUID) (*model.SesionCaja, error) {
	var s model.SesionCaja
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *cajaRepo) CreateSesionTx(tx *gorm.DB, s *model.SesionCaja) error {
	return tx.Create(s).Error
}

func (r *cajaRepo) UpdateSesionTx(tx *gorm.DB, s *model.SesionCaja) error {
	return tx.Save(s).Error
}

func (r *cajaRepo) CreateMovimientoTx(tx *gorm.DB, m *model.MovimientoCaja) error {
	return tx.Create(m).Error
}

func (r *cajaRepo) ListMovimientos(ctx context.Context, sesionID uuid.UUID) ([]model.MovimientoCaja, error) {
	var movs []model.MovimientoCaja
	err := r.db.WithContext(ctx).
		Where("sesion_caja_id = ?", sesionID).
		Order("fecha ASC, created_at ASC").
		Find(&movs).Error
	return movs, err
}

func (r *cajaRepo) SumMovimientosPorTipo(ctx context.Context, sesionID uuid.UUID) (map[string]decimal.Decimal, error) {
	return sumPorTipo(r.db.WithContext(ctx), sesionID)
}

func (r *cajaRepo) SumMovimientosPorTipoTx(tx *gorm.DB, sesionID uuid.UUID) (map[string]decimal.Decimal, error) {
	return sumPorTipo(tx, sesionID)
}

func sumPorTipo(db *gorm.DB, sesionID uuid.UUID) (map[string]decimal.Decimal, error) {
	var rows []struct {
		Tipo  string
		Total decimal.Decimal
	}
	err := db.Model(&model.MovimientoCaja{}).
		Select("tipo, COALESCE(SUM(monto), 0) AS total").
		Where("sesion_caja_id = ?", sesionID).
		Group("tipo").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	sums := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		sums[row.Tipo] = row.Total
	}
	return sums, nil
}

func (r *cajaRepo) ListSesiones(ctx context.Context, page, limit int) ([]model.SesionCaja, int64, error) {
	var sesiones []model.SesionCaja
	var total int64

	q := r.db.WithContext(ctx).Model(&model.SesionCaja{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("fecha_apertura DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&sesiones).Error
	return sesiones, total, err
}
