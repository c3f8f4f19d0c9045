package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ajanels/LaOriginalBackend-sub001/internal/config"
	"github.com/ajanels/LaOriginalBackend-sub001/internal/dto"
	"github.com/ajanels/LaOriginalBackend-sub001/internal/model"
	"github.com/ajanels/LaOriginalBackend-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// metodoPagoCacheTTL bounds how stale a cached payment-method flag may be.
const metodoPagoCacheTTL = 5 * time.Minute

// CompraService is the purchase posting engine. Registrar creates the
// purchase, updates stock (weighted-average cost) and, when the payment
// method affects cash, posts a pago_proveedor into the open session — all in
// one transaction. Anular is the compensating inventory-only void.
type CompraService interface {
	Registrar(ctx context.Context, usuarioID *uuid.UUID, req dto.RegistrarCompraRequest) (*dto.RegistrarCompraResponse, error)
	Anular(ctx context.Context, id uuid.UUID, motivo *string, usuarioID *uuid.UUID) (*dto.AnularCompraResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.CompraResponse, error)
	Listar(ctx context.Context, filter dto.CompraFilter) (*dto.CompraListResponse, error)
}

type compraService struct {
	repo           repository.CompraRepository
	proveedores    repository.ProveedorRepository
	presentaciones repository.PresentacionRepository
	metodos        repository.MetodoPagoRepository
	inventario     InventarioService
	caja           CajaService
	cfg            *config.Config
	rdb            *redis.Client
}

func NewCompraService(
	repo repository.CompraRepository,
	proveedores repository.ProveedorRepository,
	presentaciones repository.PresentacionRepository,
	metodos repository.MetodoPagoRepository,
	inventario InventarioService,
	caja CajaService,
	cfg *config.Config,
	rdb *redis.Client,
) CompraService {
	return &compraService{
		repo:           repo,
		proveedores:    proveedores,
		presentaciones: presentaciones,
		metodos:        metodos,
		inventario:     inventario,
		caja:           caja,
		cfg:            cfg,
		rdb:            rdb,
	}
}

// ── Registrar ─────────────────────────────────────────────────────────────────
// Pre-flight validation happens outside the transaction (no writes yet);
// the transaction then posts header + lines, the cash movement, and the
// stock updates. Cash is posted before stock so an InsufficientFunds abort
// never holds stock row locks.

func (s *compraService) Registrar(ctx context.Context, usuarioID *uuid.UUID, req dto.RegistrarCompraRequest) (*dto.RegistrarCompraResponse, error) {
	proveedorID, err := uuid.Parse(req.ProveedorID)
	if err != nil {
		return nil, fmt.Errorf("proveedor_id inválido: %w", err)
	}
	if _, err := s.proveedores.FindByID(ctx, proveedorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProveedorNoEncontrado
		}
		return nil, err
	}

	if len(req.Lineas) == 0 {
		return nil, ErrCompraSinLineas
	}

	type lineaResuelta struct {
		presentacionID uuid.UUID
		cantidad       decimal.Decimal
		costoUnitario  decimal.Decimal
		total          decimal.Decimal
		observaciones  *string
	}
	lineas := make([]lineaResuelta, 0, len(req.Lineas))
	idsUnicos := make(map[uuid.UUID]struct{})
	for _, l := range req.Lineas {
		pid, err := uuid.Parse(l.PresentacionID)
		if err != nil {
			return nil, fmt.Errorf("presentacion_id inválido: %w", err)
		}
		if !l.Cantidad.IsPositive() {
			return nil, fmt.Errorf("la cantidad de la presentación %s debe ser mayor a cero", pid)
		}
		if l.CostoUnitario.IsNegative() {
			return nil, fmt.Errorf("el costo unitario de la presentación %s no puede ser negativo", pid)
		}
		idsUnicos[pid] = struct{}{}
		lineas = append(lineas, lineaResuelta{
			presentacionID: pid,
			cantidad:       l.Cantidad,
			costoUnitario:  l.CostoUnitario.Round(2),
			total:          l.Cantidad.Mul(l.CostoUnitario).Round(2),
			observaciones:  l.Observaciones,
		})
	}

	// Batch existence check: one round trip, every invalid id in one failure.
	ids := make([]uuid.UUID, 0, len(idsUnicos))
	for id := range idsUnicos {
		ids = append(ids, id)
	}
	existentes, err := s.presentaciones.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(existentes) != len(ids) {
		encontradas := make(map[uuid.UUID]struct{}, len(existentes))
		for _, p := range existentes {
			encontradas[p.ID] = struct{}{}
		}
		var faltantes []uuid.UUID
		for _, id := range ids {
			if _, ok := encontradas[id]; !ok {
				faltantes = append(faltantes, id)
			}
		}
		return nil, &ErrPresentacionesInvalidas{IDs: faltantes}
	}

	var metodo *model.MetodoPago
	if req.MetodoPagoID != nil {
		metodoPagoID, err := uuid.Parse(*req.MetodoPagoID)
		if err != nil {
			return nil, fmt.Errorf("metodo_pago_id inválido: %w", err)
		}
		metodo, err = s.obtenerMetodoPago(ctx, metodoPagoID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrMetodoPagoNoEncontrado
			}
			return nil, err
		}
		if metodo.RequiereReferencia && (req.Referencia == nil || *req.Referencia == "") {
			return nil, ErrReferenciaRequerida
		}
		if metodo.AfectaCaja {
			// Checked before mutating anything; the authoritative check runs
			// again inside the transaction with the session row locked.
			estado, err := s.caja.Estado(ctx)
			if err != nil {
				return nil, err
			}
			if !estado.Abierta {
				return nil, ErrCajaCerrada
			}
		}
	}

	subtotal := decimal.Zero
	for _, l := range lineas {
		subtotal = subtotal.Add(l.total)
	}
	subtotal = subtotal.Round(2)

	compra := &model.Compra{
		ID:            uuid.New(),
		Fecha:         time.Now().UTC(),
		ProveedorID:   proveedorID,
		Referencia:    req.Referencia,
		Observaciones: req.Observaciones,
		Subtotal:      subtotal,
		Descuento:     decimal.Zero,
		Total:         subtotal,
		Estado:        model.EstadoCompraRegistrada,
		UsuarioID:     usuarioID,
	}
	if metodo != nil {
		id := metodo.ID
		compra.MetodoPagoID = &id
	}
	for _, l := range lineas {
		compra.Detalles = append(compra.Detalles, model.CompraDetalle{
			CompraID:       compra.ID,
			PresentacionID: l.presentacionID,
			Cantidad:       l.cantidad,
			CostoUnitario:  l.costoUnitario,
			Total:          l.total,
			Observaciones:  l.observaciones,
		})
	}

	txErr := s.repo.WithTx(ctx, func(tx *gorm.DB) error {
		if req.Numero != nil && *req.Numero != "" {
			compra.Numero = *req.Numero
		} else {
			n, err := s.repo.NextNumero(tx)
			if err != nil {
				return err
			}
			compra.Numero = fmt.Sprintf("C-%06d", n)
		}

		if err := s.repo.CreateTx(tx, compra); err != nil {
			return err
		}

		if metodo != nil && metodo.AfectaCaja {
			documento := model.DocumentoCompra
			if s.cfg.EsMetodoDeposito(metodo.Nombre) {
				documento = model.DocumentoDeposito
			}
			concepto := fmt.Sprintf("Pago a proveedor compra %s (%s)", compra.Numero, metodo.Nombre)
			if err := s.caja.RegistrarPagoProveedorTx(tx, compra.Total, concepto, documento, compra.ID, usuarioID); err != nil {
				return err
			}
		}

		for _, l := range lineas {
			if err := s.inventario.RegistrarEntradaTx(tx, l.presentacionID, l.cantidad, l.costoUnitario, compra.ID, usuarioID); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return &dto.RegistrarCompraResponse{CompraID: compra.ID.String(), Numero: compra.Numero}, nil
}

// ── Anular ────────────────────────────────────────────────────────────────────
// Inventory-only compensation: every line's stock is checked before any
// decrement, quantities are rolled back, salida movements are appended, and
// the purchase flips to Anulada. The cash movement posted at registration
// time is deliberately NOT reversed — cash corrections are manual.

func (s *compraService) Anular(ctx context.Context, id uuid.UUID, motivo *string, usuarioID *uuid.UUID) (*dto.AnularCompraResponse, error) {
	compra, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompraNoEncontrada
		}
		return nil, err
	}
	if compra.Anulada {
		return nil, ErrCompraYaAnulada
	}

	nota := "Anulación de compra"
	if motivo != nil && *motivo != "" {
		nota = *motivo
	}

	txErr := s.repo.WithTx(ctx, func(tx *gorm.DB) error {
		// Flipping anulada is the first write: the conditional UPDATE takes
		// the row lock, so of two concurrent voids only one proceeds and the
		// other aborts here before locking any stock.
		if err := s.repo.MarcarAnuladaTx(tx, compra.ID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCompraYaAnulada
			}
			return err
		}
		// Lock and verify every line; stock quantities stay untouched until
		// the whole purchase is known to be reversible.
		for _, d := range compra.Detalles {
			if err := s.inventario.VerificarSalidaTx(tx, d.PresentacionID, d.Cantidad); err != nil {
				return err
			}
		}
		for _, d := range compra.Detalles {
			if err := s.inventario.RegistrarSalidaTx(tx, d.PresentacionID, d.Cantidad, d.CostoUnitario, compra.ID, nota, usuarioID); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return &dto.AnularCompraResponse{CompraID: compra.ID.String(), Estado: model.EstadoCompraAnulada}, nil
}

// ── Read queries ──────────────────────────────────────────────────────────────

func (s *compraService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.CompraResponse, error) {
	compra, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompraNoEncontrada
		}
		return nil, err
	}
	return compraToResponse(compra), nil
}

func (s *compraService) Listar(ctx context.Context, filter dto.CompraFilter) (*dto.CompraListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 50
	}
	compras, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CompraResponse, 0, len(compras))
	for i := range compras {
		items = append(items, *compraToResponse(&compras[i]))
	}
	return &dto.CompraListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// obtenerMetodoPago resolves the payment-method flags, consulting redis first.
// Flags change rarely; a short TTL keeps corrections visible within minutes.
func (s *compraService) obtenerMetodoPago(ctx context.Context, id uuid.UUID) (*model.MetodoPago, error) {
	key := "metodo_pago:" + id.String()
	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, key).Bytes(); err == nil {
			var m model.MetodoPago
			if json.Unmarshal(raw, &m) == nil {
				return &m, nil
			}
		}
	}

	m, err := s.metodos.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.rdb != nil {
		if raw, err := json.Marshal(m); err == nil {
			s.rdb.Set(ctx, key, raw, metodoPagoCacheTTL)
		}
	}
	return m, nil
}

func compraToResponse(c *model.Compra) *dto.CompraResponse {
	detalles := make([]dto.CompraDetalleResponse, 0, len(c.Detalles))
	for _, d := range c.Detalles {
		item := dto.CompraDetalleResponse{
			PresentacionID: d.PresentacionID.String(),
			Cantidad:       d.Cantidad,
			CostoUnitario:  d.CostoUnitario,
			Total:          d.Total,
		}
		if d.Presentacion != nil {
			item.Presentacion = d.Presentacion.Nombre
		}
		detalles = append(detalles, item)
	}

	resp := &dto.CompraResponse{
		ID:            c.ID.String(),
		Numero:        c.Numero,
		Fecha:         formatUTC(c.Fecha),
		ProveedorID:   c.ProveedorID.String(),
		Referencia:    c.Referencia,
		Observaciones: c.Observaciones,
		Subtotal:      c.Subtotal,
		Descuento:     c.Descuento,
		Total:         c.Total,
		Estado:        c.Estado,
		Anulada:       c.Anulada,
		Detalles:      detalles,
	}
	if c.Proveedor != nil {
		resp.Proveedor = c.Proveedor.Nombre
	}
	if c.MetodoPagoID != nil {
		id := c.MetodoPagoID.String()
		resp.MetodoPagoID = &id
	}
	return resp
}
