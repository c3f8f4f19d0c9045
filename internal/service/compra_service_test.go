package service

import (
	"context"
	"sync"
	"testing"

	"github.com/ajanels/LaOriginalBackend-sub001/internal/config"
	"github.com/ajanels/LaOriginalBackend-sub001/internal/dto"
	"github.com/ajanels/LaOriginalBackend-sub001/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── In-memory StockRepository ────────────────────────────────────────────────

type fakeStockRepo struct {
	stocks      map[uuid.UUID]*model.Stock // keyed by PresentacionID
	movimientos []model.MovimientoInventario
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{stocks: make(map[uuid.UUID]*model.Stock)}
}

func (r *fakeStockRepo) FindByPresentacion(_ context.Context, presentacionID uuid.UUID) (*model.Stock, error) {
	return r.FindByPresentacionTx(nil, presentacionID, false)
}

func (r *fakeStockRepo) FindByPresentacionTx(_ *gorm.DB, presentacionID uuid.UUID, _ bool) (*model.Stock, error) {
	s, ok := r.stocks[presentacionID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *fakeStockRepo) CreateTx(_ *gorm.DB, s *model.Stock) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.stocks[s.PresentacionID] = s
	return nil
}

func (r *fakeStockRepo) UpdateTx(_ *gorm.DB, s *model.Stock) error {
	r.stocks[s.PresentacionID] = s
	return nil
}

func (r *fakeStockRepo) CreateMovimientoTx(_ *gorm.DB, m *model.MovimientoInventario) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *fakeStockRepo) ListMovimientos(_ context.Context, presentacionID uuid.UUID, _ int) ([]model.MovimientoInventario, error) {
	var result []model.MovimientoInventario
	for _, m := range r.movimientos {
		if m.PresentacionID == presentacionID {
			result = append(result, m)
		}
	}
	return result, nil
}

// ── In-memory CompraRepository ───────────────────────────────────────────────
// WithTx holds the mutex for the whole callback, mirroring the row-lock
// serialization of the real repository, and snapshots every fake touched by
// the transaction so an error restores them like a rollback. Tx-suffixed
// methods never lock: they only run inside WithTx.

type fakeCompraRepo struct {
	mu      sync.Mutex
	compras map[uuid.UUID]*model.Compra
	nextNum int64
	stock   *fakeStockRepo
	caja    *fakeCajaRepo
}

func (r *fakeCompraRepo) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	snapCompras := make(map[uuid.UUID]*model.Compra, len(r.compras))
	for k, v := range r.compras {
		c := *v
		snapCompras[k] = &c
	}
	snapNum := r.nextNum
	snapStocks := make(map[uuid.UUID]model.Stock, len(r.stock.stocks))
	for k, v := range r.stock.stocks {
		snapStocks[k] = *v
	}
	snapStockMovs := append([]model.MovimientoInventario(nil), r.stock.movimientos...)
	snapCajaMovs := append([]model.MovimientoCaja(nil), r.caja.movimientos...)

	if err := fn(nil); err != nil {
		r.compras = snapCompras
		r.nextNum = snapNum
		r.stock.stocks = make(map[uuid.UUID]*model.Stock, len(snapStocks))
		for k, v := range snapStocks {
			s := v
			r.stock.stocks[k] = &s
		}
		r.stock.movimientos = snapStockMovs
		r.caja.movimientos = snapCajaMovs
		return err
	}
	return nil
}

func (r *fakeCompraRepo) CreateTx(_ *gorm.DB, c *model.Compra) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.compras[c.ID] = c
	return nil
}

func (r *fakeCompraRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Compra, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.compras[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *c
	return &copia, nil
}

func (r *fakeCompraRepo) MarcarAnuladaTx(_ *gorm.DB, id uuid.UUID) error {
	c, ok := r.compras[id]
	if !ok || c.Anulada {
		return gorm.ErrRecordNotFound
	}
	c.Estado = model.EstadoCompraAnulada
	c.Anulada = true
	return nil
}

func (r *fakeCompraRepo) NextNumero(_ *gorm.DB) (int64, error) {
	r.nextNum++
	return r.nextNum, nil
}

func (r *fakeCompraRepo) List(_ context.Context, filter dto.CompraFilter) ([]model.Compra, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []model.Compra
	for _, c := range r.compras {
		if filter.Estado != "" && c.Estado != filter.Estado {
			continue
		}
		result = append(result, *c)
	}
	return result, int64(len(result)), nil
}

// ── In-memory catalogs ───────────────────────────────────────────────────────

type fakeProveedorRepo struct{ proveedores map[uuid.UUID]*model.Proveedor }

func (r *fakeProveedorRepo) Create(_ context.Context, p *model.Proveedor) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.proveedores[p.ID] = p
	return nil
}

func (r *fakeProveedorRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Proveedor, error) {
	p, ok := r.proveedores[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *fakeProveedorRepo) List(_ context.Context, _ bool) ([]model.Proveedor, error) {
	return nil, nil
}

type fakePresentacionRepo struct{ presentaciones map[uuid.UUID]*model.Presentacion }

func (r *fakePresentacionRepo) Create(_ context.Context, p *model.Presentacion) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.presentaciones[p.ID] = p
	return nil
}

func (r *fakePresentacionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Presentacion, error) {
	p, ok := r.presentaciones[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *fakePresentacionRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]model.Presentacion, error) {
	var result []model.Presentacion
	for _, id := range ids {
		if p, ok := r.presentaciones[id]; ok {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (r *fakePresentacionRepo) List(_ context.Context) ([]model.Presentacion, error) {
	return nil, nil
}

type fakeMetodoPagoRepo struct{ metodos map[uuid.UUID]*model.MetodoPago }

func (r *fakeMetodoPagoRepo) Create(_ context.Context, m *model.MetodoPago) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.metodos[m.ID] = m
	return nil
}

func (r *fakeMetodoPagoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.MetodoPago, error) {
	m, ok := r.metodos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m, nil
}

func (r *fakeMetodoPagoRepo) List(_ context.Context) ([]model.MetodoPago, error) {
	return nil, nil
}

// ── Test harness ─────────────────────────────────────────────────────────────

type compraEnv struct {
	compras        *fakeCompraRepo
	stock          *fakeStockRepo
	caja           *fakeCajaRepo
	proveedores    *fakeProveedorRepo
	presentaciones *fakePresentacionRepo
	metodos        *fakeMetodoPagoRepo

	cajaSvc   CajaService
	compraSvc CompraService

	proveedorID uuid.UUID
}

func newCompraEnv(t *testing.T) *compraEnv {
	t.Helper()
	env := &compraEnv{
		stock:          newFakeStockRepo(),
		caja:           newFakeCajaRepo(),
		proveedores:    &fakeProveedorRepo{proveedores: make(map[uuid.UUID]*model.Proveedor)},
		presentaciones: &fakePresentacionRepo{presentaciones: make(map[uuid.UUID]*model.Presentacion)},
		metodos:        &fakeMetodoPagoRepo{metodos: make(map[uuid.UUID]*model.MetodoPago)},
	}
	env.compras = &fakeCompraRepo{
		compras: make(map[uuid.UUID]*model.Compra),
		stock:   env.stock,
		caja:    env.caja,
	}

	proveedor := &model.Proveedor{Nombre: "Distribuidora del Sur", Activo: true}
	require.NoError(t, env.proveedores.Create(context.Background(), proveedor))
	env.proveedorID = proveedor.ID

	cfg := &config.Config{DepositoKeyword: "deposit"}
	env.cajaSvc = NewCajaService(env.caja)
	env.compraSvc = NewCompraService(
		env.compras, env.proveedores, env.presentaciones, env.metodos,
		NewInventarioService(env.stock), env.cajaSvc, cfg, nil,
	)
	return env
}

func (e *compraEnv) nuevaPresentacion(t *testing.T, nombre string) uuid.UUID {
	t.Helper()
	p := &model.Presentacion{Nombre: nombre, Activo: true}
	require.NoError(t, e.presentaciones.Create(context.Background(), p))
	return p.ID
}

func (e *compraEnv) nuevoMetodo(t *testing.T, nombre string, afectaCaja, requiereRef bool) uuid.UUID {
	t.Helper()
	m := &model.MetodoPago{Nombre: nombre, AfectaCaja: afectaCaja, RequiereReferencia: requiereRef, Activo: true}
	require.NoError(t, e.metodos.Create(context.Background(), m))
	return m.ID
}

func linea(presentacionID uuid.UUID, cantidad, costo string) dto.CompraLineaRequest {
	return dto.CompraLineaRequest{
		PresentacionID: presentacionID.String(),
		Cantidad:       dec(cantidad),
		CostoUnitario:  dec(costo),
	}
}

// ── Registrar ────────────────────────────────────────────────────────────────

func TestRegistrarCompra_PrimeraCompraCreaStock(t *testing.T) {
	env := newCompraEnv(t)
	pid := env.nuevaPresentacion(t, "Camisa M")

	resp, err := env.compraSvc.Registrar(context.Background(), nil, dto.RegistrarCompraRequest{
		ProveedorID: env.proveedorID.String(),
		Lineas:      []dto.CompraLineaRequest{linea(pid, "4", "2.50")},
	})
	require.NoError(t, err)
	assert.Equal(t, "C-000001", resp.Numero)

	stock := env.stock.stocks[pid]
	require.NotNil(t, stock)
	assert.True(t, stock.Cantidad.Equal(dec("4")))
	assert.True(t, stock.CostoPromedio.Equal(dec("2.50")))

	compra, err := env.compraSvc.ObtenerPorID(context.Background(), uuid.MustParse(resp.CompraID))
	require.NoError(t, err)
	assert.True(t, compra.Total.Equal(dec("10.00")))
	assert.Equal(t, model.EstadoCompraRegistrada, compra.Estado)

	require.Len(t, env.stock.movimientos, 1)
	mov := env.stock.movimientos[0]
	assert.Equal(t, model.TipoInventarioEntrada, mov.Tipo)
	assert.True(t, mov.Cantidad.Equal(dec("4")))
	assert.Equal(t, model.DocumentoCompra, mov.TipoDocumento)
}

func TestRegistrarCompra_ActualizaCostoPromedio(t *testing.T) {
	env := newCompraEnv(t)
	pid := env.nuevaPresentacion(t, "Camisa M")

	// 10 @ 5.00, then 5 @ 8.00 → 15 @ (50+40)/15 = 6.00
	_, err := env.compraSvc.Registrar(context.Background(), nil, dto.RegistrarCompraRequest{
		ProveedorID: env.proveedorID.String(),
		Lineas:      []dto.CompraLineaRequest{linea(pid, "10", "5.00")},
	})
	require.NoError(t, err)
	_, err = env.compraSvc.Registrar(context.Background(), nil, dto.RegistrarCompraRequest{
		ProveedorID: env.proveedorID.String(),
		Lineas:      []dto.CompraLineaRequest{linea(pid, "5", "8.00")},
	})
	require.NoError(t, err)

	stock := env.stock.stocks[pid]
	assert.True(t, stock.Cantidad.Equal(dec("15")))
	assert.Equal(t, "6.00", stock.CostoPromedio.StringFixed(2))
}

func TestRegistrarCompra_NumeroExterno(t *testing.T) {
	env := newCompraEnv(t)
	pid := env.nuevaPresentacion(t, "Camisa M")
	numero := "FAC-2026-0815"

	resp, err := env.compraSvc.Registrar(context.Background(), nil, dto.RegistrarCompraRequest{
		ProveedorID: env.proveedorID.String(),
		Lineas:      []dto.CompraLineaRequest{linea(pid, "1", "9.99")},
		Numero:      &numero,
	})
	require.NoError(t, err)
	assert.Equal(t, numero, resp.Numero)
}

func TestRegistrarCompra_ProveedorNoEncontrado(t *testing.T) {
	env := newCompraEnv(t)
	pid := env.nuevaPresentacion(t, "Camisa M")

	_, err := env.compraSvc.Registrar(context.Background(), nil, dto.RegistrarCompraRequest{
		ProveedorID: uuid.New().String(),
		Lineas:      []dto.CompraLineaRequest{linea(pid, "1", "1")},
	})
	assert.ErrorIs(t, err, ErrProveedorNoEncontrado)
}

func TestRegistrarCompra_SinLineas(t *testing.T) {
	env := newCompraEnv(t)

	_, err := env.compraSvc.Registrar(context.Background(), nil, dto.RegistrarCompraRequest{
		ProveedorID: env.proveedorID.String(),
	})
	assert.ErrorIs(t, err, ErrCompraSinLineas)
}

func TestRegistrarCompra_PresentacionesInvalidas(t *testing.T) {
	env := newCompraEnv(t)
	valida := env.nuevaPresentacion(t, "Camisa M")
	fantasma1, fantasma2 := uuid.New(), uuid.New()

	_, err := env.compraSvc.Registrar(context.Background(), nil, dto.RegistrarCompraRequest{
		ProveedorID: env.proveedorID.String(),
		Lineas: []dto.CompraLineaRequest{
			linea(valida, "1", "1"),
			linea(fantasma1, "2", "1"),
			linea(fantasma2, "3", "1"),
		},
	})

	// Every unknown id is reported, not just the first.
	var invalidas *ErrPresentacionesInvalidas
	require.ErrorAs(t, err, &invalidas)
	assert.ElementsMatch(t, []uuid.UUID{fantasma1, fantasma2}, invalidas.IDs)
	assert.Empty(t, env.compras.compras)
}

func TestRegistrarCompra_MetodoPagoNoEncontrado(t *testing.T) {
	env := newCompraEnv(t)
	pid := env.nuevaPresentacion(t, "Camisa M")
	metodoID := uuid.New().String()

	_, err := env.compraSvc.Registrar(context.Background(), nil, dto.RegistrarCompraRequest{
		ProveedorID:  env.proveedorID.String(),
		Lineas:       []dto.CompraLineaRequest{linea(pid, "1", "1")},
		MetodoPagoID: &metodoID,
	})
	assert.ErrorIs(t, err, ErrMetodoPagoNoEncontrado)
}

func TestRegistrarCompra_ReferenciaRequerida(t *testing.T) {
	env := newCompraEnv(t)
	pid := env.nuevaPresentacion(t, "Camisa M")
	metodoID := env.nuevoMetodo(t, "Transferencia", false, true).String()

	_, err := env.compraSvc.Registrar(context.Background(), nil, dto.RegistrarCompraRequest{
		ProveedorID:  env.proveedorID.String(),
		Lineas:       []dto.CompraLineaRequest{linea(pid, "1", "1")},
		MetodoPagoID: &metodoID,
	})
	assert.ErrorIs(t, err, ErrReferenciaRequerida)

	ref := "TRF-991"
	_, err = env.compraSvc.Registrar(context.Background(), nil, dto.RegistrarCompraRequest{
		ProveedorID:  env.proveedorID.String(),
		Lineas:       []dto.CompraLineaRequest{linea(pid, "1", "1")},
		MetodoPagoID: &metodoID,
		Referencia:   &ref,
	})
	assert.NoError(t, err)
}

func TestRegistrarCompra_CajaCerrada(t *testing.T) {
	env := newCompraEnv(t)
	pid := env.nuevaPresentacion(t, "Camisa M")
	metodoID := env.nuevoMetodo(t, "Efectivo", true, false).String()

	_, err := env.compraSvc.Registrar(context.Background(), nil, dto.RegistrarCompraRequest{
		ProveedorID:  env.proveedorID.String(),
		Lineas:       []dto.CompraLineaRequest{linea(pid, "2", "5")},
		MetodoPagoID: &metodoID,
	})
	assert.ErrorIs(t, err, ErrCajaCerrada)
	assert.Empty(t, env.compras.compras)
	assert.Empty(t, env.stock.stocks)
}

func TestRegistrarCompra_PagoAfectaCaja(t *testing.T) {
	env := newCompraEnv(t)
	pid := env.nuevaPresentacion(t, "Camisa M")
	metodoID := env.nuevoMetodo(t, "Efectivo", true, false).String()

	_, err := env.cajaSvc.Abrir(context.Background(), nil, dto.AbrirCajaRequest{MontoInicial: dec("500.00")})
	require.NoError(t, err)

	resp, err := env.compraSvc.Registrar(context.Background(), nil, dto.RegistrarCompraRequest{
		ProveedorID:  env.proveedorID.String(),
		Lineas:       []dto.CompraLineaRequest{linea(pid, "10", "10.00")},
		MetodoPagoID: &metodoID,
	})
	require.NoError(t, err)

	pagos := env.caja.movimientosPorTipo(model.TipoMovimientoPagoProveedor)
	require.Len(t, pagos, 1)
	assert.True(t, pagos[0].Monto.Equal(dec("100.00")))
	require.NotNil(t, pagos[0].TipoDocumento)
	assert.Equal(t, model.DocumentoCompra, *pagos[0].TipoDocumento)
	require.NotNil(t, pagos[0].DocumentoID)
	assert.Equal(t, resp.CompraID, pagos[0].DocumentoID.String())

	resumen, err := env.cajaSvc.Resumen(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, resumen.Esperado.Equal(dec("400.00")), "esperado=%s", resumen.Esperado)
}

func TestRegistrarCompra_MetodoDeposito(t *testing.T) {
	env := newCompraEnv(t)
	pid := env.nuevaPresentacion(t, "Camisa M")
	metodoID := env.nuevoMetodo(t, "Deposito Banrural", true, false).String()

	_, err := env.cajaSvc.Abrir(context.Background(), nil, dto.AbrirCajaRequest{MontoInicial: dec("500.00")})
	require.NoError(t, err)

	_, err = env.compraSvc.Registrar(context.Background(), nil, dto.RegistrarCompraRequest{
		ProveedorID:  env.proveedorID.String(),
		Lineas:       []dto.CompraLineaRequest{linea(pid, "1", "50.00")},
		MetodoPagoID: &metodoID,
	})
	require.NoError(t, err)

	pagos := env.caja.movimientosPorTipo(model.TipoMovimientoPagoProveedor)
	require.Len(t, pagos, 1)
	require.NotNil(t, pagos[0].TipoDocumento)
	assert.Equal(t, model.DocumentoDeposito, *pagos[0].TipoDocumento)
}

func TestRegistrarCompra_FondosInsuficientesRevierteTodo(t *testing.T) {
	env := newCompraEnv(t)
	pid := env.nuevaPresentacion(t, "Camisa M")
	metodoID := env.nuevoMetodo(t, "Efectivo", true, false).String()

	_, err := env.cajaSvc.Abrir(context.Background(), nil, dto.AbrirCajaRequest{MontoInicial: dec("50.00")})
	require.NoError(t, err)

	_, err = env.compraSvc.Registrar(context.Background(), nil, dto.RegistrarCompraRequest{
		ProveedorID:  env.proveedorID.String(),
		Lineas:       []dto.CompraLineaRequest{linea(pid, "10", "10.00")},
		MetodoPagoID: &metodoID,
	})

	var fondos *ErrFondosInsuficientes
	require.ErrorAs(t, err, &fondos)
	assert.True(t, fondos.Disponible.Equal(dec("50.00")))
	assert.True(t, fondos.Solicitado.Equal(dec("100.00")))

	// All or nothing: no purchase, no stock, no cash movement.
	assert.Empty(t, env.compras.compras)
	assert.Empty(t, env.stock.stocks)
	assert.Empty(t, env.caja.movimientosPorTipo(model.TipoMovimientoPagoProveedor))

	resumen, err := env.cajaSvc.Resumen(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, resumen.Esperado.Equal(dec("50.00")))
}

// ── Anular ───────────────────────────────────────────────────────────────────

func TestAnularCompra(t *testing.T) {
	env := newCompraEnv(t)
	pid := env.nuevaPresentacion(t, "Camisa M")

	resp, err := env.compraSvc.Registrar(context.Background(), nil, dto.RegistrarCompraRequest{
		ProveedorID: env.proveedorID.String(),
		Lineas:      []dto.CompraLineaRequest{linea(pid, "10", "5.00")},
	})
	require.NoError(t, err)
	compraID := uuid.MustParse(resp.CompraID)

	anulada, err := env.compraSvc.Anular(context.Background(), compraID, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, model.EstadoCompraAnulada, anulada.Estado)

	stock := env.stock.stocks[pid]
	assert.True(t, stock.Cantidad.IsZero())
	// Average cost survives the void.
	assert.Equal(t, "5.00", stock.CostoPromedio.StringFixed(2))

	movs, err := env.stock.ListMovimientos(context.Background(), pid, 10)
	require.NoError(t, err)
	require.Len(t, movs, 2)
	salida := movs[1]
	assert.Equal(t, model.TipoInventarioSalida, salida.Tipo)
	assert.True(t, salida.Cantidad.Equal(dec("-10")))
	assert.Equal(t, model.DocumentoAnulacionCompra, salida.TipoDocumento)

	_, err = env.compraSvc.Anular(context.Background(), compraID, nil, nil)
	assert.ErrorIs(t, err, ErrCompraYaAnulada)
}

func TestAnularCompra_AnulacionesConcurrentes(t *testing.T) {
	env := newCompraEnv(t)
	pid := env.nuevaPresentacion(t, "Camisa M")

	// Two purchases of 10 each leave 20 in stock, so a double reversal of
	// the first one would pass every stock check.
	resp, err := env.compraSvc.Registrar(context.Background(), nil, dto.RegistrarCompraRequest{
		ProveedorID: env.proveedorID.String(),
		Lineas:      []dto.CompraLineaRequest{linea(pid, "10", "5.00")},
	})
	require.NoError(t, err)
	_, err = env.compraSvc.Registrar(context.Background(), nil, dto.RegistrarCompraRequest{
		ProveedorID: env.proveedorID.String(),
		Lineas:      []dto.CompraLineaRequest{linea(pid, "10", "5.00")},
	})
	require.NoError(t, err)
	compraID := uuid.MustParse(resp.CompraID)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.compraSvc.Anular(context.Background(), compraID, nil, nil)
		}(i)
	}
	wg.Wait()

	okCount := 0
	for _, err := range errs {
		if err == nil {
			okCount++
		} else {
			assert.ErrorIs(t, err, ErrCompraYaAnulada)
		}
	}
	assert.Equal(t, 1, okCount)

	// The inventory of the voided purchase came back exactly once.
	assert.True(t, env.stock.stocks[pid].Cantidad.Equal(dec("10")), "cantidad=%s", env.stock.stocks[pid].Cantidad)
	salidas, err := env.stock.ListMovimientos(context.Background(), pid, 10)
	require.NoError(t, err)
	reversos := 0
	for _, m := range salidas {
		if m.Tipo == model.TipoInventarioSalida {
			reversos++
		}
	}
	assert.Equal(t, 1, reversos)
}

func TestAnularCompra_NoEncontrada(t *testing.T) {
	env := newCompraEnv(t)

	_, err := env.compraSvc.Anular(context.Background(), uuid.New(), nil, nil)
	assert.ErrorIs(t, err, ErrCompraNoEncontrada)
}

func TestAnularCompra_StockInsuficiente(t *testing.T) {
	env := newCompraEnv(t)
	pid := env.nuevaPresentacion(t, "Camisa M")

	resp, err := env.compraSvc.Registrar(context.Background(), nil, dto.RegistrarCompraRequest{
		ProveedorID: env.proveedorID.String(),
		Lineas:      []dto.CompraLineaRequest{linea(pid, "10", "5.00")},
	})
	require.NoError(t, err)

	// Part of the stock was sold since: only 4 left of the 10 purchased.
	env.stock.stocks[pid].Cantidad = dec("4")

	_, err = env.compraSvc.Anular(context.Background(), uuid.MustParse(resp.CompraID), nil, nil)

	var stockErr *ErrStockInsuficiente
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, pid, stockErr.PresentacionID)
	assert.True(t, stockErr.Requerido.Equal(dec("10")))
	assert.True(t, stockErr.Disponible.Equal(dec("4")))

	// The purchase stays registered and nothing moved.
	compra, err := env.compraSvc.ObtenerPorID(context.Background(), uuid.MustParse(resp.CompraID))
	require.NoError(t, err)
	assert.False(t, compra.Anulada)
	assert.True(t, env.stock.stocks[pid].Cantidad.Equal(dec("4")))
}

func TestAnularCompra_VerificaTodasLasLineasAntesDeMutar(t *testing.T) {
	env := newCompraEnv(t)
	pidA := env.nuevaPresentacion(t, "Camisa M")
	pidB := env.nuevaPresentacion(t, "Camisa L")

	resp, err := env.compraSvc.Registrar(context.Background(), nil, dto.RegistrarCompraRequest{
		ProveedorID: env.proveedorID.String(),
		Lineas: []dto.CompraLineaRequest{
			linea(pidA, "10", "5.00"),
			linea(pidB, "10", "5.00"),
		},
	})
	require.NoError(t, err)

	// Second line cannot be reversed; the first must remain untouched.
	env.stock.stocks[pidB].Cantidad = dec("3")

	_, err = env.compraSvc.Anular(context.Background(), uuid.MustParse(resp.CompraID), nil, nil)
	var stockErr *ErrStockInsuficiente
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, pidB, stockErr.PresentacionID)

	assert.True(t, env.stock.stocks[pidA].Cantidad.Equal(dec("10")))
	assert.True(t, env.stock.stocks[pidB].Cantidad.Equal(dec("3")))
}

func TestAnularCompra_NoRevierteCaja(t *testing.T) {
	env := newCompraEnv(t)
	pid := env.nuevaPresentacion(t, "Camisa M")
	metodoID := env.nuevoMetodo(t, "Efectivo", true, false).String()

	_, err := env.cajaSvc.Abrir(context.Background(), nil, dto.AbrirCajaRequest{MontoInicial: dec("500.00")})
	require.NoError(t, err)

	resp, err := env.compraSvc.Registrar(context.Background(), nil, dto.RegistrarCompraRequest{
		ProveedorID:  env.proveedorID.String(),
		Lineas:       []dto.CompraLineaRequest{linea(pid, "10", "10.00")},
		MetodoPagoID: &metodoID,
	})
	require.NoError(t, err)

	_, err = env.compraSvc.Anular(context.Background(), uuid.MustParse(resp.CompraID), nil, nil)
	require.NoError(t, err)

	// Inventory reversed, cash untouched: corrections are manual.
	assert.True(t, env.stock.stocks[pid].Cantidad.IsZero())
	resumen, err := env.cajaSvc.Resumen(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, resumen.Esperado.Equal(dec("400.00")), "esperado=%s", resumen.Esperado)
}

// ── Weighted-average cost ────────────────────────────────────────────────────

func TestCostoPromedioPonderado(t *testing.T) {
	cases := []struct {
		nombre                       string
		cantidad, costo              string
		entradaCantidad, entradaCosto string
		esperado                     string
	}{
		{"primera entrada", "0", "0", "10", "5.00", "5.00"},
		{"mezcla simple", "10", "5.00", "5", "8.00", "6.00"},
		{"mismo costo", "7", "3.25", "3", "3.25", "3.25"},
		{"redondeo", "3", "1.00", "3", "2.00", "1.50"},
		{"tercios", "1", "1.00", "2", "2.00", "1.67"},
	}
	for _, tc := range cases {
		t.Run(tc.nombre, func(t *testing.T) {
			got := costoPromedioPonderado(dec(tc.cantidad), dec(tc.costo), dec(tc.entradaCantidad), dec(tc.entradaCosto))
			assert.Equal(t, tc.esperado, got.StringFixed(2))
		})
	}
}

func TestCostoPromedioPonderado_TotalNoPositivo(t *testing.T) {
	// Quantity sums to zero: the previous average is kept, never a division.
	got := costoPromedioPonderado(dec("-5"), dec("4.20"), dec("5"), dec("9.99"))
	assert.Equal(t, "4.20", got.StringFixed(2))
}
