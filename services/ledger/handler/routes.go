package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/wekesa/pesaledger/internal/pkg/middleware"
	"github.com/wekesa/pesaledger/internal/pkg/models"
)

// RegisterRoutes registers the C2B callback routes and the operator ledger
// routes. The callbacks are unauthenticated by Daraja's design; the operator
// group requires a JWT.
func (h *LedgerHandler) RegisterRoutes(e *echo.Echo, jwtConfig models.JWTConfig) {
	c2b := e.Group("/mpesa/c2b")
	c2b.POST("/validation", h.ValidatePayment)
	c2b.POST("/confirmation", h.ConfirmPayment)

	ops := e.Group("/api/v1/ledger", middleware.JWTAuthMiddleware(jwtConfig))
	ops.GET("/transactions", h.ListTransactions)
	ops.GET("/accounts/:number", h.GetAccount)
	ops.POST("/sweep", h.Sweep)
}
