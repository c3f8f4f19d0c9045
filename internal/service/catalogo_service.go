package service

import (
	"context"

	"github.com/ajanels/LaOriginalBackend-sub001/internal/dto"
	"github.com/ajanels/LaOriginalBackend-sub001/internal/model"
	"github.com/ajanels/LaOriginalBackend-sub001/internal/repository"
)

// CatalogoService is the thin surface over the stores the posting engine
// reads from: suppliers, presentaciones and payment methods.
type CatalogoService interface {
	CrearProveedor(ctx context.Context, req dto.CrearProveedorRequest) (*dto.ProveedorResponse, error)
	ListarProveedores(ctx context.Context, incluirInactivos bool) ([]dto.ProveedorResponse, error)
	CrearPresentacion(ctx context.Context, req dto.CrearPresentacionRequest) (*dto.PresentacionResponse, error)
	ListarPresentaciones(ctx context.Context) ([]dto.PresentacionResponse, error)
	CrearMetodoPago(ctx context.Context, req dto.CrearMetodoPagoRequest) (*dto.MetodoPagoResponse, error)
	ListarMetodosPago(ctx context.Context) ([]dto.MetodoPagoResponse, error)
}

type catalogoService struct {
	proveedores    repository.ProveedorRepository
	presentaciones repository.PresentacionRepository
	metodos        repository.MetodoPagoRepository
}

func NewCatalogoService(
	proveedores repository.ProveedorRepository,
	presentaciones repository.PresentacionRepository,
	metodos repository.MetodoPagoRepository,
) CatalogoService {
	return &catalogoService{
		proveedores:    proveedores,
		presentaciones: presentaciones,
		metodos:        metodos,
	}
}

func (s *catalogoService) CrearProveedor(ctx context.Context, req dto.CrearProveedorRequest) (*dto.ProveedorResponse, error) {
	p := &model.Proveedor{
		Nombre:    req.Nombre,
		NIT:       req.NIT,
		Telefono:  req.Telefono,
		Direccion: req.Direccion,
		Activo:    true,
	}
	if err := s.proveedores.Create(ctx, p); err != nil {
		return nil, err
	}
	resp := proveedorToResponse(p)
	return &resp, nil
}

func (s *catalogoService) ListarProveedores(ctx context.Context, incluirInactivos bool) ([]dto.ProveedorResponse, error) {
	proveedores, err := s.proveedores.List(ctx, incluirInactivos)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ProveedorResponse, 0, len(proveedores))
	for i := range proveedores {
		resp = append(resp, proveedorToResponse(&proveedores[i]))
	}
	return resp, nil
}

func (s *catalogoService) CrearPresentacion(ctx context.Context, req dto.CrearPresentacionRequest) (*dto.PresentacionResponse, error) {
	p := &model.Presentacion{
		Nombre:       req.Nombre,
		CodigoBarras: req.CodigoBarras,
		Activo:       true,
	}
	if err := s.presentaciones.Create(ctx, p); err != nil {
		return nil, err
	}
	resp := presentacionToResponse(p)
	return &resp, nil
}

func (s *catalogoService) ListarPresentaciones(ctx context.Context) ([]dto.PresentacionResponse, error) {
	presentaciones, err := s.presentaciones.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.PresentacionResponse, 0, len(presentaciones))
	for i := range presentaciones {
		resp = append(resp, presentacionToResponse(&presentaciones[i]))
	}
	return resp, nil
}

func (s *catalogoService) CrearMetodoPago(ctx context.Context, req dto.CrearMetodoPagoRequest) (*dto.MetodoPagoResponse, error) {
	m := &model.MetodoPago{
		Nombre:             req.Nombre,
		AfectaCaja:         req.AfectaCaja,
		RequiereReferencia: req.RequiereReferencia,
		Activo:             true,
	}
	if err := s.metodos.Create(ctx, m); err != nil {
		return nil, err
	}
	resp := metodoPagoToResponse(m)
	return &resp, nil
}

func (s *catalogoService) ListarMetodosPago(ctx context.Context) ([]dto.MetodoPagoResponse, error) {
	metodos, err := s.metodos.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.MetodoPagoResponse, 0, len(metodos))
	for i := range metodos {
		resp = append(resp, metodoPagoToResponse(&metodos[i]))
	}
	return resp, nil
}

func proveedorToResponse(p *model.Proveedor) dto.ProveedorResponse {
	return dto.ProveedorResponse{
		ID:        p.ID.String(),
		Nombre:    p.Nombre,
		NIT:       p.NIT,
		Telefono:  p.Telefono,
		Direccion: p.Direccion,
		Activo:    p.Activo,
	}
}

func presentacionToResponse(p *model.Presentacion) dto.PresentacionResponse {
	return dto.PresentacionResponse{
		ID:           p.ID.String(),
		Nombre:       p.Nombre,
		CodigoBarras: p.CodigoBarras,
		Activo:       p.Activo,
	}
}

func metodoPagoToResponse(m *model.MetodoPago) dto.MetodoPagoResponse {
	return dto.MetodoPagoResponse{
		ID:                 m.ID.String(),
		Nombre:             m.Nombre,
		AfectaCaja:         m.AfectaCaja,
		RequiereReferencia: m.RequiereReferencia,
		Activo:             m.Activo,
	}
}
