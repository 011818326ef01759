// internal/routes/routes.go
package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"receipt-service/internal/config"
	"receipt-service/internal/database"
	"receipt-service/internal/events"
	"receipt-service/internal/handler"
	"receipt-service/internal/metrics"
	"receipt-service/internal/middleware"
	"receipt-service/internal/service"
	"receipt-service/internal/transport"
	"receipt-service/internal/utils"
)

// Router holds all dependencies for routing
type Router struct {
	config         *config.Config
	logger         *zap.Logger
	db             *database.DB
	printerService *service.PrinterService
	registry       *transport.Registry
	eventBus       *events.Bus
	metrics        *metrics.Metrics
}

// NewRouter creates a new router instance. db is nil when the audit
// database is disabled.
func NewRouter(
	config *config.Config,
	logger *zap.Logger,
	db *database.DB,
	printerService *service.PrinterService,
	registry *transport.Registry,
	eventBus *events.Bus,
	metrics *metrics.Metrics,
) *Router {
	return &Router{
		config:         config,
		logger:         logger,
		db:             db,
		printerService: printerService,
		registry:       registry,
		eventBus:       eventBus,
		metrics:        metrics,
	}
}

// SetupRouter creates and configures the Gin router
func (r *Router) SetupRouter() *gin.Engine {
	if r.config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else if !r.config.IsDebugEnabled() {
		gin.SetMode(gin.TestMode)
	}

	router := gin.New()

	r.addMiddleware(router)
	r.addRoutes(router)

	return router
}

// addMiddleware adds middleware to the router
func (r *Router) addMiddleware(router *gin.Engine) {
	router.Use(middleware.RecoveryMiddleware(r.logger))
	router.Use(middleware.RequestIDMiddleware())

	serviceLogger := utils.NewServiceLogger(r.logger, "http-server")
	router.Use(middleware.LoggingMiddleware(serviceLogger))
	router.Use(middleware.MetricsMiddleware(r.metrics))
	router.Use(middleware.CORSMiddleware(&r.config.Security))

	r.logger.Info("Middleware configured")
}

// addRoutes sets up all application routes
func (r *Router) addRoutes(router *gin.Engine) {
	var db handler.HealthChecker
	if r.db != nil {
		db = r.db
	}

	healthHandler := handler.NewHealthHandler(db, r.registry, r.config, r.logger)
	printHandler := handler.NewPrintHandler(r.printerService, r.logger)
	wsHandler := handler.NewWebSocketHandler(r.eventBus, r.logger)

	healthHandler.RegisterRoutes(router.Group(""))

	// Paths kept for existing point-of-sale clients
	legacy := router.Group("")
	{
		legacy.POST("/print", printHandler.PrintReceipt)
		legacy.POST("/open-drawer", printHandler.OpenDrawer)
	}

	printHandler.RegisterRoutes(router.Group("/api/v1"))
	wsHandler.RegisterRoutes(router.Group("/ws"))

	router.GET("/metrics", gin.WrapH(r.metrics.Handler()))
	r.addDocumentationRoutes(router)

	r.logger.Info("All routes configured successfully")
}

// addDocumentationRoutes sets up documentation routes
func (r *Router) addDocumentationRoutes(router *gin.Engine) {
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	router.GET("/docs", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})
}
