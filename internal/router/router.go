package router

import (
	"time"

	"github.com/facussc24/2026-sub001/internal/catalog"
	"github.com/facussc24/2026-sub001/internal/config"
	"github.com/facussc24/2026-sub001/internal/handler"
	"github.com/facussc24/2026-sub001/internal/infra"
	"github.com/facussc24/2026-sub001/internal/middleware"
	"github.com/facussc24/2026-sub001/internal/repository"
	"github.com/facussc24/2026-sub001/internal/service"
	"github.com/facussc24/2026-sub001/internal/structure"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Deps are the infrastructure pieces built by the composition root.
// Redis, Queue and Breaker are optional.
type Deps struct {
	Store   catalog.Store
	Redis   *redis.Client
	Queue   service.ExportQueue
	Breaker *infra.CircuitBreaker
	IDs     *structure.IDGenerator
}

// Services exposes the wired services so the worker pool can reuse them.
type Services struct {
	Estructura  service.EstructuraService
	Cascade     service.CascadeService
	Clone       service.CloneService
	Importacion service.ImportacionService
	Exportacion service.ExportacionService
}

// NewServices builds the service graph.
// Dependency graph: Service ← Repository ← catalog.Store
func NewServices(deps Deps) *Services {
	productoRepo := repository.NewProductoRepository(deps.Store)
	componenteRepo := repository.NewComponenteRepository(deps.Store)

	estructuraSvc := service.NewEstructuraService(productoRepo, componenteRepo, deps.IDs)
	return &Services{
		Estructura:  estructuraSvc,
		Cascade:     service.NewCascadeService(productoRepo, componenteRepo),
		Clone:       service.NewCloneService(productoRepo, deps.IDs),
		Importacion: service.NewImportacionService(estructuraSvc),
		Exportacion: service.NewExportacionService(estructuraSvc, deps.Queue),
	}
}

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← Store/Redis
func New(cfg *config.Config, deps Deps, svcs *Services) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if svcs == nil {
		svcs = NewServices(deps)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.AllowedOrigins()))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(cfg.RateLimit, time.Minute, "/health", "/swagger/"))

	// ── Handlers ─────────────────────────────────────────────────────────────
	productosH := handler.NewProductosHandler(svcs.Estructura, svcs.Cascade, svcs.Clone)
	estructuraH := handler.NewEstructuraHandler(svcs.Estructura)
	componentesH := handler.NewComponentesHandler(svcs.Estructura, svcs.Importacion)
	exportacionH := handler.NewExportacionHandler(svcs.Exportacion)

	// ── Routes ───────────────────────────────────────────────────────────────
	r.GET("/health", handler.Health(deps.Store, deps.Redis, deps.Breaker))

	v1 := r.Group("/v1")
	{
		prods := v1.Group("/productos")
		{
			prods.POST("", productosH.Crear)
			prods.GET("/:id", productosH.Obtener)
			prods.DELETE("/:id", productosH.Eliminar)
			prods.POST("/:id/clonar", productosH.Clonar)

			prods.GET("/:id/estructura", estructuraH.Obtener)
			prods.POST("/:id/estructura/nodos", estructuraH.AgregarNodo)
			prods.PATCH("/:id/estructura/nodos/:nodo_id", estructuraH.ActualizarNodo)
			prods.DELETE("/:id/estructura/nodos/:nodo_id", estructuraH.EliminarNodo)
			prods.POST("/:id/estructura/mover", estructuraH.MoverNodo)

			prods.GET("/:id/exportar", exportacionH.Descargar)
			prods.POST("/:id/exportaciones", exportacionH.Encolar)
		}

		comps := v1.Group("/componentes/:tipo")
		{
			comps.POST("/importar", componentesH.Importar)
			comps.PUT("/:codigo", componentesH.Guardar)
			comps.GET("/:codigo", componentesH.Obtener)
		}

		v1.GET("/exportaciones/:job_id", exportacionH.Estado)
	}

	// Swagger UI: only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
