package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/infogov/infogov-api/docs"
	"github.com/infogov/infogov-api/internal/api/handler"
	"github.com/infogov/infogov-api/internal/api/middleware"
	"github.com/infogov/infogov-api/internal/core/domain"
	"github.com/infogov/infogov-api/internal/core/ports"
	"github.com/infogov/infogov-api/internal/core/service"
	mongodb "github.com/infogov/infogov-api/internal/infrastructure/db/mongo"
	redisdb "github.com/infogov/infogov-api/internal/infrastructure/db/redis"
	"github.com/infogov/infogov-api/internal/infrastructure/http/handlers"
	"github.com/infogov/infogov-api/pkg/logger"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// rdb may be nil; login throttling is then disabled.
func NewRouter(db *mongo.Database, rdb *redis.Client) *echo.Echo {
	log := logger.Get()

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("infogov"))

	// --- Repositories ---
	roleRepo := mongodb.NewRoleRepository(db)
	userRepo := mongodb.NewUserRepository(db, roleRepo)
	tokenRepo := mongodb.NewTokenRepository(db)
	departmentRepo := mongodb.NewDepartmentRepository(db)

	var throttle ports.LoginThrottle
	if rdb != nil {
		throttle = redisdb.NewLoginThrottle(rdb)
	}

	// --- Services ---
	authService := service.NewAuthService(userRepo, roleRepo, tokenRepo, throttle, log)
	departmentService := service.NewDepartmentService(departmentRepo, log)
	userService := service.NewUserService(userRepo, roleRepo, log)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	departmentHandler := handler.NewDepartmentHandler(departmentService)
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleRepo)

	authRequired := middleware.Auth(authService)

	v1 := e.Group("/api/v1")

	// --- Public auth routes ---
	v1.POST("/auth/register", authHandler.Register)
	v1.POST("/auth/login", authHandler.Login)

	// --- Authenticated routes ---
	auth := v1.Group("", authRequired)
	auth.GET("/auth/me", authHandler.Me)
	auth.POST("/auth/logout", authHandler.Logout)
	auth.GET("/roles", roleHandler.List)

	auth.GET("/departments", departmentHandler.List)
	auth.POST("/departments", departmentHandler.Create)
	auth.GET("/departments/:id", departmentHandler.Get)
	auth.PUT("/departments/:id", departmentHandler.Update)
	auth.DELETE("/departments/:id", departmentHandler.Delete)
	auth.POST("/departments/:id/restore", departmentHandler.Restore)
	auth.DELETE("/departments/:id/force", departmentHandler.ForceDelete)

	// --- Administrator-only routes ---
	admin := v1.Group("/admin", authRequired, middleware.RequireRole(domain.RoleAdministrator))
	admin.GET("/users", userHandler.List)
	admin.POST("/users", userHandler.Create)
	admin.GET("/users/:id", userHandler.Get)
	admin.PUT("/users/:id", userHandler.Update)
	admin.DELETE("/users/:id", userHandler.Delete)
	admin.POST("/users/:id/restore", userHandler.Restore)
	admin.DELETE("/users/:id/force", userHandler.ForceDelete)

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Observability and docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
