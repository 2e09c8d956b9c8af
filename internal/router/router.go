package router

import (
	"time"

	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/config"
	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/handler"
	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/middleware"
	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/repository"
	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/service"
	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/worker"

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
	estudioRepo := repository.NewEstudioRepository(db)
	paqueteRepo := repository.NewPaqueteRepository(db)
	categoriaRepo := repository.NewCategoriaRepository(db)
	convenioRepo := repository.NewConvenioRepository(db)
	pacienteRepo := repository.NewPacienteRepository(db)
	ordenRepo := repository.NewOrdenRepository(db)
	historialRepo := repository.NewHistorialRepository(db)
	gananciaRepo := repository.NewGananciaRepository(db)
	historialPrecioRepo := repository.NewHistorialPrecioRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	catalogo := service.NewCatalogo(estudioRepo, paqueteRepo)
	convenios := service.NewRegistroConvenios(convenioRepo)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	authSvc := service.NewAuthService(usuarioRepo, cfg)
	catalogoSvc := service.NewCatalogoService(estudioRepo, paqueteRepo, categoriaRepo, historialPrecioRepo)
	convenioSvc := service.NewConvenioService(convenioRepo)
	pacienteSvc := service.NewPacienteService(pacienteRepo)
	ordenSvc := service.NewOrdenService(ordenRepo, historialRepo, gananciaRepo, catalogo, convenios, dispatcher)
	historialSvc := service.NewHistorialService(historialRepo, catalogo, convenios, cfg.PDFStoragePath, cfg.NombreClinica)
	reporteSvc := service.NewReporteService(ordenRepo, historialRepo, gananciaRepo, catalogo)
	datosSvc := service.NewDatosService(db, pacienteRepo, estudioRepo, paqueteRepo, convenioRepo,
		ordenRepo, historialRepo, gananciaRepo, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	catalogoH := handler.NewCatalogoHandler(catalogoSvc)
	conveniosH := handler.NewConveniosHandler(convenioSvc)
	pacientesH := handler.NewPacientesHandler(pacienteSvc)
	ordenesH := handler.NewOrdenesHandler(ordenSvc)
	historialH := handler.NewHistorialHandler(historialSvc)
	reportesH := handler.NewReportesHandler(reporteSvc, rdb)
	consultaH := handler.NewConsultaPreciosHandler(catalogoSvc, rdb)
	datosH := handler.NewDatosHandler(datosSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
	}

	// Price check — no auth required
	r.GET("/v1/precios/:codigo", consultaH.GetPrecioPorCodigo)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: operador, administrador — declared per-endpoint
		ambos := middleware.RequireRole("operador", "administrador")
		admin := middleware.RequireRole("administrador")

		// Órdenes activas
		v1.POST("/ordenes", ambos, ordenesH.Crear)
		v1.GET("/ordenes", ambos, ordenesH.Listar)
		v1.POST("/ordenes/preview", ambos, ordenesH.Preview)
		v1.GET("/ordenes/:id", ambos, ordenesH.Obtener)
		v1.PUT("/ordenes/:id", ambos, ordenesH.Actualizar)
		v1.PUT("/ordenes/:id/estado", ambos, ordenesH.CambiarEstado)
		v1.DELETE("/ordenes/:id", admin, ordenesH.Eliminar)

		// Historial de órdenes entregadas
		v1.GET("/historial", ambos, historialH.Listar)
		v1.GET("/historial/:id", ambos, historialH.Obtener)
		v1.GET("/historial/:id/recibo", ambos, historialH.Recibo)
		v1.DELETE("/historial/:id", admin, historialH.Eliminar)

		// Estudios — lectura para todos, escritura solo administrador
		v1.GET("/estudios", ambos, catalogoH.ListarEstudios)
		v1.GET("/estudios/:id", ambos, catalogoH.ObtenerEstudio)
		v1.GET("/estudios/:id/historial-precios", ambos, catalogoH.HistorialPreciosEstudio)
		estudios := v1.Group("/estudios", admin)
		{
			estudios.POST("", catalogoH.CrearEstudio)
			estudios.PUT("/:id", catalogoH.ActualizarEstudio)
			estudios.DELETE("/:id", catalogoH.EliminarEstudio)
		}

		// Paquetes
		v1.GET("/paquetes", ambos, catalogoH.ListarPaquetes)
		v1.GET("/paquetes/:id", ambos, catalogoH.ObtenerPaquete)
		v1.GET("/paquetes/:id/historial-precios", ambos, catalogoH.HistorialPreciosPaquete)
		paquetes := v1.Group("/paquetes", admin)
		{
			paquetes.POST("", catalogoH.CrearPaquete)
			paquetes.PUT("/:id", catalogoH.ActualizarPaquete)
			paquetes.DELETE("/:id", catalogoH.EliminarPaquete)
		}

		// Categorías
		v1.GET("/categorias", ambos, catalogoH.ListarCategorias)
		categorias := v1.Group("/categorias", admin)
		{
			categorias.POST("", catalogoH.CrearCategoria)
			categorias.PUT("/:id", catalogoH.ActualizarCategoria)
			categorias.DELETE("/:id", catalogoH.EliminarCategoria)
		}

		// Convenios
		v1.GET("/convenios", ambos, conveniosH.Listar)
		v1.GET("/convenios/:id", ambos, conveniosH.Obtener)
		convenios := v1.Group("/convenios", admin)
		{
			convenios.POST("", conveniosH.Crear)
			convenios.PUT("/:id", conveniosH.Actualizar)
			convenios.DELETE("/:id", conveniosH.Eliminar)
		}

		// Pacientes
		v1.POST("/pacientes", ambos, pacientesH.Crear)
		v1.GET("/pacientes", ambos, pacientesH.Listar)
		v1.GET("/pacientes/:id", ambos, pacientesH.Obtener)
		v1.PUT("/pacientes/:id", ambos, pacientesH.Actualizar)
		v1.DELETE("/pacientes/:id", admin, pacientesH.Eliminar)

		// Reportes
		v1.GET("/reportes/dashboard", ambos, reportesH.Dashboard)
		v1.GET("/reportes/agenda", ambos, reportesH.Agenda)

		// Datos — export / import / respaldo remoto
		datos := v1.Group("/datos", admin)
		{
			datos.GET("/exportar", datosH.Exportar)
			datos.POST("/importar", datosH.Importar)
			datos.POST("/respaldar", datosH.Respaldar)
		}

		// Usuarios
		usuarios := v1.Group("/usuarios", admin)
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
			usuarios.PUT("/:id", usuariosH.Actualizar)
			usuarios.DELETE("/:id", usuariosH.Desactivar)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
