package repository

import (
	"context"

	"github.com/ajanels/LaOriginalBackend-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProveedorRepository gives the posting engine supplier existence checks and
// the handlers a thin catalog surface.
type ProveedorRepository interface {
	Create(ctx context.Context, p *model.Proveedor) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Proveedor, error)
	List(ctx context.Context, incluirInactivos bool) ([]model.Proveedor, error)
}

type proveedorRepo struct{ db *gorm.DB }

func NewProveedorRepository(db *gorm.DB) ProveedorRepository { return &proveedorRepo{db: db} }

func (r *proveedorRepo) Create(ctx context.Context, p *model.Proveedor) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *proveedorRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Proveedor, error) {
	var p model.Proveedor
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *proveedorRepo) List(ctx context.Context, incluirInactivos bool) ([]model.Proveedor, error) {
	q := r.db.WithContext(ctx).Order("nombre ASC")
	if !incluirInactivos {
		q = q.Where("activo = true")
	}
	var proveedores []model.Proveedor
	err := q.Find(&proveedores).Error
	return proveedores, err
}

// PresentacionRepository supplies item-variant existence checks. FindByIDs is
// batch on purpose: purchase validation checks every line in one round trip.
type PresentacionRepository interface {
	Create(ctx context.Context, p *model.Presentacion) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Presentacion, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Presentacion, error)
	List(ctx context.Context) ([]model.Presentacion, error)
}

type presentacionRepo struct{ db *gorm.DB }

func NewPresentacionRepository(db *gorm.DB) PresentacionRepository { return &presentacionRepo{db: db} }

func (r *presentacionRepo) Create(ctx context.Context, p *model.Presentacion) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *presentacionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Presentacion, error) {
	var p model.Presentacion
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *presentacionRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Presentacion, error) {
	var presentaciones []model.Presentacion
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&presentaciones).Error
	return presentaciones, err
}

func (r *presentacionRepo) List(ctx context.Context) ([]model.Presentacion, error) {
	var presentaciones []model.Presentacion
	err := r.db.WithContext(ctx).Where("activo = true").Order("nombre ASC").Find(&presentaciones).Error
	return presentaciones, err
}

// MetodoPagoRepository supplies the {afecta_caja, requiere_referencia} flags
// the posting engine resolves per purchase.
type MetodoPagoRepository interface {
	Create(ctx context.Context, m *model.MetodoPago) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.MetodoPago, error)
	List(ctx context.Context) ([]model.MetodoPago, error)
}

type metodoPagoRepo struct{ db *gorm.DB }

func NewMetodoPagoRepository(db *gorm.DB) MetodoPagoRepository { return &metodoPagoRepo{db: db} }

func (r *metodoPagoRepo) Create(ctx context.Context, m *model.MetodoPago) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *metodoPagoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.MetodoPago, error) {
	var m model.MetodoPago
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *metodoPagoRepo) List(ctx context.Context) ([]model.MetodoPago, error) {
	var metodos []model.MetodoPago
	err := r.db.WithContext(ctx).Where("activo = true").Order("nombre ASC").Find(&metodos).Error
	return metodos, err
}
