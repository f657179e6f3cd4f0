package api

import (
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kataops/identity-api/internal/api/handler"
	"github.com/kataops/identity-api/internal/api/middleware"
	"github.com/kataops/identity-api/internal/core/ports"
	"github.com/kataops/identity-api/internal/core/service"
	mongodb "github.com/kataops/identity-api/internal/infrastructure/db/mongo"
	redisdb "github.com/kataops/identity-api/internal/infrastructure/db/redis"
	memsession "github.com/kataops/identity-api/internal/session"
)

// Options carries the router's runtime knobs.
type Options struct {
	SessionTimeout time.Duration
	CookieName     string
	CookieMaxAge   int
}

// NewRouter builds and returns the Echo instance with all routes registered.
// A nil redis client selects the in-memory session store.
func NewRouter(db *mongo.Database, rdb *redis.Client, opts Options, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	roleRepo := mongodb.NewRoleRepository(db)
	registry := service.NewRoleRegistry(roleRepo, log)
	userService := service.NewUserService(userRepo, registry, log)

	var store ports.SessionStore
	if rdb != nil {
		store = redisdb.NewSessionStore(rdb)
	} else {
		store = memsession.NewStore()
	}
	sessions := service.NewSessionPolicy(userRepo, store, opts.SessionTimeout, log)

	userHandler := handler.NewUserHandler(userService)
	authHandler := handler.NewAuthHandler(sessions, handler.CookieConfig{
		Name:   opts.CookieName,
		MaxAge: opts.CookieMaxAge,
	})

	// --- Global middleware ---
	// Session resolution must precede the access policy: the policy reads
	// the session the middleware attaches.
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(middleware.Session(sessions, opts.CookieName))
	e.Use(middleware.AccessPolicy(middleware.DefaultRules()))

	// --- Auth routes ---
	e.POST("/login", authHandler.Login)
	e.POST("/logout", authHandler.Logout)

	// --- User management (authority enforced by the access policy) ---
	e.GET("/api/v1/users", userHandler.List)
	e.POST("/api/v1/users", userHandler.Create)
	e.GET("/api/v1/users/user", userHandler.Current)
	e.GET("/api/v1/users/:id", userHandler.GetByID)
	e.PUT("/api/v1/users/:id", userHandler.Update)
	e.DELETE("/api/v1/users/:id", userHandler.Delete)

	// --- Observability (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e
}
