//go:build integration

package e2e

// End-to-end tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./tests/e2e/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ajanels/LaOriginalBackend-sub001/internal/config"
	"github.com/ajanels/LaOriginalBackend-sub001/internal/infra"
	"github.com/ajanels/LaOriginalBackend-sub001/internal/router"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	token  string // admin JWT
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("laoriginal_test"),
		tcPostgres.WithUsername("laoriginal"),
		tcPostgres.WithPassword("laoriginal"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:               8000,
		Env:                "test",
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		DepositoKeyword:    "deposit",
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte("e2e-password"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Exec(`
		INSERT INTO usuarios (id, username, nombre, password_hash, rol, activo, created_at)
		VALUES (gen_random_uuid(), 'admin.e2e', 'Admin E2E', ?, 'admin', true, NOW())
		ON CONFLICT DO NOTHING`, string(hash)).Error)

	r := router.New(cfg, db, rdb)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	loginResp := do(t, srv, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "admin.e2e", "password": "e2e-password"}),
		"",
	)
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var loginBody struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &loginBody)
	require.NotEmpty(t, loginBody.AccessToken)

	return &testEnv{server: srv, token: loginBody.AccessToken}
}

func (e *testEnv) create(t *testing.T, path string, body map[string]any) string {
	t.Helper()
	resp := do(t, e.server, "POST", path, jsonBody(t, body), e.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode, "POST %s", path)
	var created struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &created)
	require.NotEmpty(t, created.ID)
	return created.ID
}

// ── Tests ────────────────────────────────────────────────────────────────────

// Full back-office cycle: open session → purchase paid in cash → stock and
// cash reflect it → void reverses the inventory but not the cash.
func TestE2E_CompraCycle(t *testing.T) {
	env := setupTestEnv(t)

	proveedorID := env.create(t, "/v1/proveedores", map[string]any{"nombre": "Distribuidora E2E"})
	presentacionID := env.create(t, "/v1/presentaciones", map[string]any{"nombre": "Camisa M"})
	metodoID := env.create(t, "/v1/metodos-pago", map[string]any{
		"nombre": "Efectivo", "afecta_caja": true,
	})

	abrirResp := do(t, env.server, "POST", "/v1/caja/abrir",
		jsonBody(t, map[string]any{"monto_inicial": "500.00", "cajero": "Maria"}), env.token)
	require.Equal(t, http.StatusCreated, abrirResp.StatusCode)
	abrirResp.Body.Close()

	compraResp := do(t, env.server, "POST", "/v1/compras",
		jsonBody(t, map[string]any{
			"proveedor_id":   proveedorID,
			"metodo_pago_id": metodoID,
			"lineas": []map[string]any{
				{"presentacion_id": presentacionID, "cantidad": "10", "costo_unitario": "10.00"},
			},
		}), env.token)
	require.Equal(t, http.StatusCreated, compraResp.StatusCode)
	var compra struct {
		CompraID string `json:"compra_id"`
		Numero   string `json:"numero"`
	}
	decodeJSON(t, compraResp, &compra)
	assert.Regexp(t, `^C-\d{6}$`, compra.Numero)

	stockResp := do(t, env.server, "GET", "/v1/inventario/"+presentacionID+"/stock", nil, env.token)
	require.Equal(t, http.StatusOK, stockResp.StatusCode)
	var stock struct {
		Cantidad      string `json:"cantidad"`
		CostoPromedio string `json:"costo_promedio"`
	}
	decodeJSON(t, stockResp, &stock)
	assert.Equal(t, "10.00", stock.Cantidad)
	assert.Equal(t, "10.00", stock.CostoPromedio)

	resumenResp := do(t, env.server, "GET", "/v1/caja/resumen", nil, env.token)
	require.Equal(t, http.StatusOK, resumenResp.StatusCode)
	var resumen struct {
		Esperado string `json:"esperado"`
		Egresos  string `json:"egresos"`
	}
	decodeJSON(t, resumenResp, &resumen)
	assert.Equal(t, "400.00", resumen.Esperado)
	assert.Equal(t, "100.00", resumen.Egresos)

	anularResp := do(t, env.server, "POST", "/v1/compras/"+compra.CompraID+"/anular",
		jsonBody(t, map[string]any{"motivo": "pedido equivocado"}), env.token)
	require.Equal(t, http.StatusOK, anularResp.StatusCode)
	anularResp.Body.Close()

	stockResp = do(t, env.server, "GET", "/v1/inventario/"+presentacionID+"/stock", nil, env.token)
	decodeJSON(t, stockResp, &stock)
	assert.Equal(t, "0.00", stock.Cantidad)

	// Cash stays as-is after the void.
	resumenResp = do(t, env.server, "GET", "/v1/caja/resumen", nil, env.token)
	decodeJSON(t, resumenResp, &resumen)
	assert.Equal(t, "400.00", resumen.Esperado)
}

// Opening a second session while one is open must answer 409.
func TestE2E_UnaSolaSesionAbierta(t *testing.T) {
	env := setupTestEnv(t)

	first := do(t, env.server, "POST", "/v1/caja/abrir",
		jsonBody(t, map[string]any{"monto_inicial": "100.00"}), env.token)
	require.Equal(t, http.StatusCreated, first.StatusCode)
	first.Body.Close()

	second := do(t, env.server, "POST", "/v1/caja/abrir",
		jsonBody(t, map[string]any{"monto_inicial": "100.00"}), env.token)
	assert.Equal(t, http.StatusConflict, second.StatusCode)
	second.Body.Close()
}

// An outflow larger than the available balance must answer 409 with the
// structured insufficient-funds payload.
func TestE2E_FondosInsuficientes(t *testing.T) {
	env := setupTestEnv(t)

	abrir := do(t, env.server, "POST", "/v1/caja/abrir",
		jsonBody(t, map[string]any{"monto_inicial": "50.00"}), env.token)
	require.Equal(t, http.StatusCreated, abrir.StatusCode)
	abrir.Body.Close()

	resp := do(t, env.server, "POST", "/v1/caja/movimientos",
		jsonBody(t, map[string]any{
			"tipo": "egreso", "monto": "80.00", "concepto": "pago luz",
		}), env.token)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	var conflict struct {
		Detail string            `json:"detail"`
		Data   map[string]string `json:"data"`
	}
	decodeJSON(t, resp, &conflict)
	assert.Equal(t, "50.00", conflict.Data["disponible"])
	assert.Equal(t, "80.00", conflict.Data["solicitado"])
}
