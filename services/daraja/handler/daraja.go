package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wekesa/pesaledger/internal/pkg/audit"
	jwtpkg "github.com/wekesa/pesaledger/internal/pkg/jwt"
	"github.com/wekesa/pesaledger/internal/pkg/models"
	"github.com/wekesa/pesaledger/internal/utils"
	"github.com/wekesa/pesaledger/services/daraja"
)

// DarajaHandler handles the operator-facing Daraja registration flow
type DarajaHandler struct {
	cfg       *models.Config
	darajaGW  daraja.DarajaGW
	auditSink audit.Sink
}

// NewDarajaHandler creates a new Daraja handler
func NewDarajaHandler(cfg *models.Config, darajaGW daraja.DarajaGW, auditSink audit.Sink) *DarajaHandler {
	return &DarajaHandler{
		cfg:       cfg,
		darajaGW:  darajaGW,
		auditSink: auditSink,
	}
}

// GetToken exchanges a valid static API key for a short-lived operator JWT.
// The API key itself is checked by the middleware on this route.
func (h *DarajaHandler) GetToken(c echo.Context) error {
	token, expiresAt, err := jwtpkg.GenerateOperatorToken(h.cfg.JWT)
	if err != nil {
		return utils.InternalServerErrorResponse(c, "Failed to issue token")
	}

	return utils.SuccessResponse(c, http.StatusOK, "Token issued", map[string]interface{}{
		"token":      token,
		"expires_at": expiresAt,
	})
}

// RegisterURLs registers the C2B callback URLs with Safaricom
func (h *DarajaHandler) RegisterURLs(c echo.Context) error {
	var req models.RegisterURLsRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request payload")
	}

	resp, err := h.darajaGW.RegisterURLs(c.Request().Context(), &req)

	h.auditSink.Append(audit.CategoryURLRegistration, map[string]interface{}{
		"shortcode":        req.ShortCode,
		"environment":      h.cfg.Daraja.Environment,
		"validation_url":   h.cfg.Daraja.ValidationURL,
		"confirmation_url": h.cfg.Daraja.ConfirmationURL,
		"success":          err == nil,
	})

	if err != nil {
		return utils.BadGatewayResponse(c, "URL registration failed")
	}

	return utils.SuccessResponse(c, http.StatusOK, "URLs registered", resp)
}

// Simulate triggers a sandbox C2B payment simulation
func (h *DarajaHandler) Simulate(c echo.Context) error {
	var req models.SimulateRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request payload")
	}

	resp, err := h.darajaGW.SimulateTransaction(c.Request().Context(), &req)
	if err != nil {
		return utils.BadGatewayResponse(c, "Simulation failed")
	}

	return utils.SuccessResponse(c, http.StatusOK, "Simulation submitted", resp)
}
