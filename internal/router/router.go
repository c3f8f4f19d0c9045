package router

import (
	"time"

	"github.com/ajanels/LaOriginalBackend-sub001/internal/config"
	"github.com/ajanels/LaOriginalBackend-sub001/internal/handler"
	"github.com/ajanels/LaOriginalBackend-sub001/internal/middleware"
	"github.com/ajanels/LaOriginalBackend-sub001/internal/repository"
	"github.com/ajanels/LaOriginalBackend-sub001/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	cajaRepo := repository.NewCajaRepository(db)
	stockRepo := repository.NewStockRepository(db)
	compraRepo := repository.NewCompraRepository(db)
	proveedorRepo := repository.NewProveedorRepository(db)
	presentacionRepo := repository.NewPresentacionRepository(db)
	metodoPagoRepo := repository.NewMetodoPagoRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	cajaSvc := service.NewCajaService(cajaRepo)
	inventarioSvc := service.NewInventarioService(stockRepo)
	compraSvc := service.NewCompraService(
		compraRepo, proveedorRepo, presentacionRepo, metodoPagoRepo,
		inventarioSvc, cajaSvc, cfg, rdb,
	)
	catalogoSvc := service.NewCatalogoService(proveedorRepo, presentacionRepo, metodoPagoRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	cajaH := handler.NewCajaHandler(cajaSvc)
	comprasH := handler.NewCompraHandler(compraSvc)
	inventarioH := handler.NewInventarioHandler(inventarioSvc)
	catalogoH := handler.NewCatalogoHandler(catalogoSvc)
	healthH := handler.NewHealthHandler(db, rdb)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", healthH.Check)

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.RateLimiter(10, time.Minute), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		caja := v1.Group("/caja")
		{
			caja.POST("/abrir", middleware.RequireRole("cajero", "admin"), cajaH.Abrir)
			caja.GET("/estado", middleware.RequireRole("cajero", "admin"), cajaH.Estado)
			caja.GET("/resumen", middleware.RequireRole("cajero", "admin"), cajaH.Resumen)
			caja.POST("/movimientos", middleware.RequireRole("cajero", "admin"), cajaH.RegistrarMovimiento)
			caja.POST("/cerrar", middleware.RequireRole("cajero", "admin"), cajaH.Cerrar)
			caja.GET("/historial", middleware.RequireRole("admin"), cajaH.Historial)
			caja.GET("/:id/movimientos", middleware.RequireRole("admin"), cajaH.Movimientos)
		}

		compras := v1.Group("/compras", middleware.RequireRole("cajero", "admin"))
		{
			compras.POST("", comprasH.Crear)
			compras.GET("", comprasH.Listar)
			compras.GET("/:id", comprasH.ObtenerPorID)
			compras.POST("/:id/anular", middleware.RequireRole("admin"), comprasH.Anular)
		}

		inv := v1.Group("/inventario", middleware.RequireRole("cajero", "admin"))
		{
			inv.GET("/:presentacionId/stock", inventarioH.Stock)
			inv.GET("/:presentacionId/kardex", inventarioH.Kardex)
		}

		// Catalogs — everyone reads, admin writes
		v1.GET("/proveedores", catalogoH.ListarProveedores)
		v1.GET("/presentaciones", catalogoH.ListarPresentaciones)
		v1.GET("/metodos-pago", catalogoH.ListarMetodosPago)
		admin := v1.Group("", middleware.RequireRole("admin"))
		{
			admin.POST("/proveedores", catalogoH.CrearProveedor)
			admin.POST("/presentaciones", catalogoH.CrearPresentacion)
			admin.POST("/metodos-pago", catalogoH.CrearMetodoPago)
		}

		usuarios := v1.Group("/usuarios", middleware.RequireRole("admin"))
		{
			usuarios.POST("", authH.CrearUsuario)
			usuarios.GET("", authH.ListarUsuarios)
			usuarios.DELETE("/:id", authH.DesactivarUsuario)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
