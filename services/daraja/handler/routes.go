package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/wekesa/pesaledger/internal/pkg/middleware"
)

// RegisterRoutes registers the operator auth and Daraja routes. The token
// endpoint is guarded by the static API key; everything else requires the
// JWT it issues.
func (h *DarajaHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/v1/auth/token", h.GetToken, middleware.ValidateAPIKey(h.cfg.Auth))

	g := e.Group("/api/v1/daraja", middleware.JWTAuthMiddleware(h.cfg.JWT))
	g.POST("/register-urls", h.RegisterURLs)
	g.POST("/simulate", h.Simulate)
}
