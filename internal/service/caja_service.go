package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ajanels/LaOriginalBackend-sub001/internal/dto"
	"github.com/ajanels/LaOriginalBackend-sub001/internal/model"
	"github.com/ajanels/LaOriginalBackend-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CajaService is the cash session ledger: one session open at a time, typed
// immutable movements, and a balance that never goes negative on outflows.
type CajaService interface {
	Abrir(ctx context.Context, usuarioID *uuid.UUID, req dto.AbrirCajaRequest) (*dto.AbrirCajaResponse, error)
	Estado(ctx context.Context) (*dto.EstadoCajaResponse, error)
	// Resumen computes the summary of sesionID, or of the currently open
	// session when sesionID is nil.
	Resumen(ctx context.Context, sesionID *uuid.UUID) (*dto.ResumenCajaResponse, error)
	RegistrarMovimiento(ctx context.Context, usuarioID *uuid.UUID, req dto.MovimientoCajaRequest) (*dto.MovimientoCajaResponse, error)
	Cerrar(ctx context.Context, usuarioID *uuid.UUID, req dto.CerrarCajaRequest) (*dto.CierreCajaResponse, error)
	Historial(ctx context.Context, page, limit int) ([]dto.SesionCajaListItem, int64, error)
	Movimientos(ctx context.Context, sesionID uuid.UUID) ([]dto.MovimientoCajaResponse, error)

	// RegistrarPagoProveedorTx posts a supplier payment inside a caller-owned
	// transaction (purchase posting). Locks the open session row, enforces the
	// balance check, and appends the movement — all within tx, so a failure
	// aborts the whole purchase.
	RegistrarPagoProveedorTx(tx *gorm.DB, monto decimal.Decimal, concepto, tipoDocumento string, documentoID uuid.UUID, usuarioID *uuid.UUID) error
}

type cajaService struct {
	repo repository.CajaRepository
}

func NewCajaService(repo repository.CajaRepository) CajaService {
	return &cajaService{repo: repo}
}

// ── Abrir ─────────────────────────────────────────────────────────────────────

func (s *cajaService) Abrir(ctx context.Context, usuarioID *uuid.UUID, req dto.AbrirCajaRequest) (*dto.AbrirCajaResponse, error) {
	if req.MontoInicial.IsNegative() {
		return nil, ErrMontoInvalido
	}

	sesion := &model.SesionCaja{
		ID:            uuid.New(),
		FechaApertura: time.Now().UTC(),
		MontoInicial:  req.MontoInicial.Round(2),
		Observaciones: req.Observaciones,
		Cajero:        req.Cajero,
		UsuarioID:     usuarioID,
	}
	sesion.Codigo = generarCodigoSesion(sesion.ID, sesion.FechaApertura)

	// Check-and-create under the apertura advisory lock: two concurrent
	// opens serialize here, so the loser always sees the winner's session.
	err := s.repo.WithAperturaLock(ctx, func(tx *gorm.DB) error {
		_, err := s.repo.FindSesionAbiertaTx(tx, false)
		switch {
		case err == nil:
			return ErrCajaYaAbierta
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		if err := s.repo.CreateSesionTx(tx, sesion); err != nil {
			return err
		}
		return s.repo.CreateMovimientoTx(tx, &model.MovimientoCaja{
			SesionCajaID: sesion.ID,
			Fecha:        sesion.FechaApertura,
			Tipo:         model.TipoMovimientoApertura,
			Monto:        sesion.MontoInicial,
			Concepto:     "Apertura de caja",
			UsuarioID:    usuarioID,
		})
	})
	if err != nil {
		return nil, err
	}

	return &dto.AbrirCajaResponse{SesionID: sesion.ID.String(), Codigo: sesion.Codigo}, nil
}

// ── Estado ────────────────────────────────────────────────────────────────────

func (s *cajaService) Estado(ctx context.Context) (*dto.EstadoCajaResponse, error) {
	sesion, err := s.repo.FindSesionAbierta(ctx)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &dto.EstadoCajaResponse{Abierta: false}, nil
	}
	if err != nil {
		return nil, err
	}

	id := sesion.ID.String()
	codigo := sesion.Codigo
	apertura := formatUTC(sesion.FechaApertura)
	inicial := sesion.MontoInicial
	return &dto.EstadoCajaResponse{
		Abierta:       true,
		SesionID:      &id,
		Codigo:        &codigo,
		FechaApertura: &apertura,
		MontoInicial:  &inicial,
	}, nil
}

// ── Resumen ───────────────────────────────────────────────────────────────────

func (s *cajaService) Resumen(ctx context.Context, sesionID *uuid.UUID) (*dto.ResumenCajaResponse, error) {
	var sesion *model.SesionCaja
	var err error
	if sesionID == nil {
		sesion, err = s.repo.FindSesionAbierta(ctx)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSinSesionAbierta
		}
	} else {
		sesion, err = s.repo.FindSesionByID(ctx, *sesionID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSesionNoEncontrada
		}
	}
	if err != nil {
		return nil, err
	}

	sums, err := s.repo.SumMovimientosPorTipo(ctx, sesion.ID)
	if err != nil {
		return nil, err
	}
	ingresos, egresos, esperado := balanceDeSesion(sesion, sums)

	resp := &dto.ResumenCajaResponse{
		SesionID:      sesion.ID.String(),
		Codigo:        sesion.Codigo,
		MontoInicial:  sesion.MontoInicial,
		Ingresos:      ingresos,
		Egresos:       egresos,
		Esperado:      esperado,
		FechaApertura: formatUTC(sesion.FechaApertura),
	}
	if sesion.FechaCierre != nil {
		cierre := formatUTC(*sesion.FechaCierre)
		resp.FechaCierre = &cierre
	}
	return resp, nil
}

// ── RegistrarMovimiento ───────────────────────────────────────────────────────
// Outflow kinds require available >= monto; the check and the insert run as
// one atomic unit against the row-locked open session, so two concurrent
// egresos can never both pass a stale balance check.

func (s *cajaService) RegistrarMovimiento(ctx context.Context, usuarioID *uuid.UUID, req dto.MovimientoCajaRequest) (*dto.MovimientoCajaResponse, error) {
	if !req.Monto.IsPositive() {
		return nil, ErrMontoNoPositivo
	}

	var documentoID *uuid.UUID
	if req.DocumentoID != nil {
		id, err := uuid.Parse(*req.DocumentoID)
		if err != nil {
			return nil, fmt.Errorf("documento_id inválido: %w", err)
		}
		documentoID = &id
	}

	monto := req.Monto.Round(2)
	mov := &model.MovimientoCaja{
		ID:            uuid.New(),
		Fecha:         time.Now().UTC(),
		Tipo:          req.Tipo,
		Monto:         monto,
		Concepto:      req.Concepto,
		Observaciones: req.Observaciones,
		TipoDocumento: req.TipoDocumento,
		DocumentoID:   documentoID,
		UsuarioID:     usuarioID,
	}

	err := s.repo.WithSesionAbierta(ctx, func(tx *gorm.DB, sesion *model.SesionCaja) error {
		if model.EsEgreso(req.Tipo) {
			sums, err := s.repo.SumMovimientosPorTipoTx(tx, sesion.ID)
			if err != nil {
				return err
			}
			_, _, esperado := balanceDeSesion(sesion, sums)
			if esperado.LessThan(monto) {
				return &ErrFondosInsuficientes{Disponible: esperado, Solicitado: monto}
			}
		}
		mov.SesionCajaID = sesion.ID
		return s.repo.CreateMovimientoTx(tx, mov)
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSinSesionAbierta
	}
	if err != nil {
		return nil, err
	}

	return movimientoToResponse(mov), nil
}

// ── RegistrarPagoProveedorTx ──────────────────────────────────────────────────

func (s *cajaService) RegistrarPagoProveedorTx(tx *gorm.DB, monto decimal.Decimal, concepto, tipoDocumento string, documentoID uuid.UUID, usuarioID *uuid.UUID) error {
	if !monto.IsPositive() {
		return ErrMontoNoPositivo
	}

	sesion, err := s.repo.FindSesionAbiertaTx(tx, true)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrCajaCerrada
	}
	if err != nil {
		return err
	}

	sums, err := s.repo.SumMovimientosPorTipoTx(tx, sesion.ID)
	if err != nil {
		return err
	}
	_, _, esperado := balanceDeSesion(sesion, sums)
	monto = monto.Round(2)
	if esperado.LessThan(monto) {
		return &ErrFondosInsuficientes{Disponible: esperado, Solicitado: monto}
	}

	doc := tipoDocumento
	return s.repo.CreateMovimientoTx(tx, &model.MovimientoCaja{
		SesionCajaID:  sesion.ID,
		Fecha:         time.Now().UTC(),
		Tipo:          model.TipoMovimientoPagoProveedor,
		Monto:         monto,
		Concepto:      concepto,
		TipoDocumento: &doc,
		DocumentoID:   &documentoID,
		UsuarioID:     usuarioID,
	})
}

// ── Cerrar ────────────────────────────────────────────────────────────────────

func (s *cajaService) Cerrar(ctx context.Context, usuarioID *uuid.UUID, req dto.CerrarCajaRequest) (*dto.CierreCajaResponse, error) {
	if req.MontoContado.IsNegative() {
		return nil, ErrMontoInvalido
	}
	conteo := req.MontoContado.Round(2)

	var resp *dto.CierreCajaResponse
	err := s.repo.WithSesionAbierta(ctx, func(tx *gorm.DB, sesion *model.SesionCaja) error {
		sums, err := s.repo.SumMovimientosPorTipoTx(tx, sesion.ID)
		if err != nil {
			return err
		}
		ingresos, egresos, esperado := balanceDeSesion(sesion, sums)

		ahora := time.Now().UTC()
		if err := s.repo.CreateMovimientoTx(tx, &model.MovimientoCaja{
			SesionCajaID:  sesion.ID,
			Fecha:         ahora,
			Tipo:          model.TipoMovimientoCierre,
			Monto:         conteo,
			Concepto:      "Cierre de caja",
			Observaciones: req.Observaciones,
			UsuarioID:     usuarioID,
		}); err != nil {
			return err
		}

		// The session keeps whatever notes it was opened with; closing
		// notes live on the cierre movement created above.
		sesion.FechaCierre = &ahora
		sesion.MontoCierre = &conteo
		if err := s.repo.UpdateSesionTx(tx, sesion); err != nil {
			return err
		}

		resp = &dto.CierreCajaResponse{
			SesionID:     sesion.ID.String(),
			MontoInicial: sesion.MontoInicial,
			Ingresos:     ingresos,
			Egresos:      egresos,
			Esperado:     esperado,
			Conteo:       conteo,
			Diferencia:   conteo.Sub(esperado).Round(2),
		}
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSinSesionAbierta
	}
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// ── Read queries ──────────────────────────────────────────────────────────────

func (s *cajaService) Historial(ctx context.Context, page, limit int) ([]dto.SesionCajaListItem, int64, error) {
	sesiones, total, err := s.repo.ListSesiones(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}
	items := make([]dto.SesionCajaListItem, 0, len(sesiones))
	for _, sesion := range sesiones {
		item := dto.SesionCajaListItem{
			ID:            sesion.ID.String(),
			Codigo:        sesion.Codigo,
			Cajero:        sesion.Cajero,
			MontoInicial:  sesion.MontoInicial,
			MontoCierre:   sesion.MontoCierre,
			FechaApertura: formatUTC(sesion.FechaApertura),
		}
		if sesion.FechaCierre != nil {
			cierre := formatUTC(*sesion.FechaCierre)
			item.FechaCierre = &cierre
		}
		items = append(items, item)
	}
	return items, total, nil
}

func (s *cajaService) Movimientos(ctx context.Context, sesionID uuid.UUID) ([]dto.MovimientoCajaResponse, error) {
	if _, err := s.repo.FindSesionByID(ctx, sesionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSesionNoEncontrada
		}
		return nil, err
	}
	movs, err := s.repo.ListMovimientos(ctx, sesionID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.MovimientoCajaResponse, 0, len(movs))
	for i := range movs {
		resp = append(resp, *movimientoToResponse(&movs[i]))
	}
	return resp, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// balanceDeSesion computes (ingresos, egresos, esperado) from the per-kind
// sums. Apertura/cierre movements are informational and excluded; esperado =
// round(inicial + ingresos − egresos, 2) with half-away-from-zero rounding.
func balanceDeSesion(sesion *model.SesionCaja, sums map[string]decimal.Decimal) (decimal.Decimal, decimal.Decimal, decimal.Decimal) {
	ingresos := sums[model.TipoMovimientoIngreso].Round(2)
	egresos := sums[model.TipoMovimientoEgreso].
		Add(sums[model.TipoMovimientoPagoProveedor]).Round(2)
	esperado := sesion.MontoInicial.Add(ingresos).Sub(egresos).Round(2)
	return ingresos, egresos, esperado
}

func generarCodigoSesion(id uuid.UUID, fecha time.Time) string {
	frag := strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:6])
	return fmt.Sprintf("CAJ-%s-%s", fecha.Format("20060102"), frag)
}

func formatUTC(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func movimientoToResponse(m *model.MovimientoCaja) *dto.MovimientoCajaResponse {
	resp := &dto.MovimientoCajaResponse{
		ID:            m.ID.String(),
		SesionID:      m.SesionCajaID.String(),
		Fecha:         formatUTC(m.Fecha),
		Tipo:          m.Tipo,
		Monto:         m.Monto,
		Concepto:      m.Concepto,
		Observaciones: m.Observaciones,
		TipoDocumento: m.TipoDocumento,
	}
	if m.DocumentoID != nil {
		doc := m.DocumentoID.String()
		resp.DocumentoID = &doc
	}
	return resp
}
