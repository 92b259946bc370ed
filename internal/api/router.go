package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/loadboard/access-api/internal/api/handler"
	"github.com/loadboard/access-api/internal/api/middleware"
	"github.com/loadboard/access-api/internal/core/domain"
	"github.com/loadboard/access-api/internal/core/ports"
	"github.com/loadboard/access-api/internal/core/service"
	"github.com/loadboard/access-api/internal/infrastructure/config"
	mongorepo "github.com/loadboard/access-api/internal/infrastructure/db/mongo"
	redisinfra "github.com/loadboard/access-api/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(
	db *mongo.Database,
	rdb *redis.Client,
	files ports.FileStore,
	presence ports.Presence,
	cfg *config.Config,
	log zerolog.Logger,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("access"))

	e.HTTPErrorHandler = NewHTTPErrorHandler(log)
	e.Validator = handler.NewValidator()

	// --- Repositories ---
	userRepo := mongorepo.NewUserRepository(db)
	permRepo := mongorepo.NewPermissionRepository(db)
	sessionRepo := mongorepo.NewSessionRepository(db)
	dataRepo := mongorepo.NewDataSessionRepository(db)
	whitelistRepo := mongorepo.NewWhitelistRepository(db)

	// --- Services ---
	authService := service.NewAuthService(userRepo, permRepo, sessionRepo, dataRepo, whitelistRepo, presence, cfg.JWTSecret, log)
	userService := service.NewUserService(userRepo, permRepo, sessionRepo, dataRepo, log)
	dataService := service.NewDataSessionService(dataRepo, permRepo, files, log)
	whitelistService := service.NewWhitelistService(whitelistRepo)
	throttle := redisinfra.NewLoginThrottle(rdb, cfg.Throttle.Window, cfg.Throttle.MaxAttempts)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService, throttle, log)
	userHandler := handler.NewUserHandler(userService, log)
	dataHandler := handler.NewDataSessionHandler(dataService, log)
	domainHandler := handler.NewDomainHandler(whitelistService)
	fileHandler := handler.NewFileHandler(dataService, files, log)

	gate := middleware.Auth(authService, log)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Auth routes ---
	auth := e.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout, gate)
	auth.POST("/check-session", authHandler.CheckSession, gate)
	auth.POST("/ban/:userId", authHandler.Ban, gate, adminOnly)

	// --- User administration (admin only) ---
	user := e.Group("/user", gate, adminOnly)
	user.GET("", userHandler.List)
	user.POST("", userHandler.Create)
	user.PUT("/:userId", userHandler.Update)
	user.DELETE("/:userId", userHandler.Delete)
	user.POST("/permissions", userHandler.CreatePermission)
	user.PUT("/permissions/:userId", userHandler.UpdatePermission)
	user.GET("/sessions/:userId", userHandler.Sessions)
	user.DELETE("/session/:sessionId", userHandler.DeleteSession)

	// --- Data sessions ---
	data := e.Group("/session", gate)
	data.GET("", dataHandler.List)
	data.POST("", dataHandler.Create)
	data.PUT("/:id", dataHandler.Update)
	data.DELETE("/:id", dataHandler.Delete)

	// --- Domain whitelist ---
	dom := e.Group("/domain", gate)
	dom.GET("", domainHandler.List)
	dom.POST("", domainHandler.Create)
	dom.PUT("/:id", domainHandler.Update)
	dom.DELETE("/:id", domainHandler.Delete)

	// --- Files ---
	// Update downloads stay public: the desktop updater has no session.
	file := e.Group("/file")
	file.POST("/upload/:dataSessionId", fileHandler.UploadBundle, gate)
	file.DELETE("/:dataSessionId", fileHandler.DeleteBundle, gate)
	file.GET("/download/:dataSessionId", fileHandler.DownloadBundle, gate)
	file.POST("/update", fileHandler.UploadUpdate, gate, adminOnly)
	file.GET("/update/:name", fileHandler.DownloadUpdate)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
