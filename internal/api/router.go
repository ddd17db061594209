package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/useraccounts/account-service/internal/api/handler"
	"github.com/useraccounts/account-service/internal/api/middleware"
	"github.com/useraccounts/account-service/internal/core/ports"
)

// Deps carries everything the router needs. Mongo and Redis are only used
// by the readiness probe; when nil (e.g. in tests) the probe routes are
// not registered.
type Deps struct {
	AuthService ports.AuthService
	UserService ports.UserService
	Logger      zerolog.Logger
	CORSOrigins []string
	Mongo       *mongo.Database
	Redis       *redis.Client
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     deps.CORSOrigins,
		AllowCredentials: true,
	}))
	e.Use(echoprometheus.NewMiddleware("accounts"))
	e.Use(middleware.BearerToken())

	// --- Handlers ---
	indexHandler := handler.NewIndexHandler()
	authHandler := handler.NewAuthHandler(deps.AuthService)
	userHandler := handler.NewUserHandler(deps.UserService, deps.AuthService)

	// --- Routes ---
	e.GET("/", indexHandler.Index)
	e.POST("/token", authHandler.Login)

	e.GET("/users", userHandler.List)
	e.POST("/users", userHandler.Create)
	e.PATCH("/users/:email", userHandler.Update)
	e.PATCH("/users/:email/role", userHandler.UpdateRole)
	e.DELETE("/users/:email", userHandler.Delete)

	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	e.GET("/health", healthHandler.Liveness)
	if deps.Mongo != nil && deps.Redis != nil {
		healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)
		e.GET("/health/ready", healthDepsHandler.Readiness)
	}

	return e
}
