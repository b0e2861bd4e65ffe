package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/cleanbook/credential-service/internal/api/docs"
	"github.com/cleanbook/credential-service/internal/api/handler"
	"github.com/cleanbook/credential-service/internal/api/middleware"
	"github.com/cleanbook/credential-service/internal/core/ports"
)

// Dependencies are the collaborators the HTTP layer is built on.
type Dependencies struct {
	AuthService ports.AuthService
	Verifier    ports.TokenVerifier
	Logger      zerolog.Logger
	CORSOrigins []string
	// Metrics toggles the Prometheus middleware and /metrics. Tests building
	// several routers in one process leave it off to avoid duplicate registration.
	Metrics bool
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Logger))
	if len(deps.CORSOrigins) > 0 {
		e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
			AllowOrigins: deps.CORSOrigins,
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		}))
	}
	if deps.Metrics {
		e.Use(echoprometheus.NewMiddleware("credential_service"))
		e.GET("/metrics", echoprometheus.NewHandler())
	}

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(deps.AuthService)
	authMiddleware := middleware.Auth(deps.Verifier, deps.Logger)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/me", authHandler.Me, authMiddleware)

	// --- Health probe and docs (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	e.GET("/health", healthHandler.Liveness)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
