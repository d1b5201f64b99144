package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/kshitij-kamdi/civic-stream/docs"
	"github.com/kshitij-kamdi/civic-stream/internal/api/handler"
	"github.com/kshitij-kamdi/civic-stream/internal/api/middleware"
	"github.com/kshitij-kamdi/civic-stream/internal/core/domain"
	"github.com/kshitij-kamdi/civic-stream/internal/core/ports"
)

// Deps bundles everything the router needs to register routes.
type Deps struct {
	Grievances ports.GrievanceService
	Auth       ports.AuthService
	Clock      ports.Clock
	JWTSecret  string
	DB         *mongo.Database
	Redis      *redis.Client
	Logger     zerolog.Logger
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
	e.Use(echoprometheus.NewMiddleware("civicstream"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	grievanceHandler := handler.NewGrievanceHandler(deps.Grievances, deps.Clock)
	statsHandler := handler.NewStatsHandler(deps.Grievances)

	authMW := middleware.Auth(deps.JWTSecret)
	citizenOnly := middleware.RBAC(domain.RoleCitizen)
	officialOrAdmin := middleware.RBAC(domain.RoleOfficial, domain.RoleAdmin)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Grievance routes ---
	v1 := e.Group("/v1", authMW)
	v1.POST("/grievances", grievanceHandler.Create, citizenOnly)
	v1.GET("/grievances", grievanceHandler.List, officialOrAdmin)
	v1.GET("/grievances/mine", grievanceHandler.ListMine, citizenOnly)
	v1.GET("/grievances/assigned", grievanceHandler.ListAssigned, middleware.RBAC(domain.RoleOfficial))
	v1.GET("/grievances/:id", grievanceHandler.Get)
	v1.POST("/grievances/:id/acknowledge", grievanceHandler.Acknowledge, officialOrAdmin)
	v1.POST("/grievances/:id/start", grievanceHandler.Start, officialOrAdmin)
	v1.POST("/grievances/:id/resolve", grievanceHandler.Resolve, officialOrAdmin)
	v1.POST("/grievances/:id/reject", grievanceHandler.Reject, adminOnly)
	v1.POST("/grievances/:id/reassign", grievanceHandler.Reassign, officialOrAdmin)

	// --- Dashboards ---
	v1.GET("/stats", statsHandler.Portal, adminOnly)
	v1.GET("/stats/sla", statsHandler.SLA, officialOrAdmin)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.DB, deps.Redis)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
