package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wekesa/pesaledger/internal/pkg/models"
	"github.com/wekesa/pesaledger/services/ledger"
)

// LedgerHandler handles the M-Pesa C2B callbacks and the operator ledger API
type LedgerHandler struct {
	ledgerUC ledger.LedgerUseCase
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(ledgerUC ledger.LedgerUseCase) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC}
}

// ValidatePayment handles the C2B validation callback. The gateway holds the
// payment until this responds, so the reply is always synchronous JSON with a
// result code. An unparseable payload is rejected: the gate never accepts
// what it cannot read.
func (h *LedgerHandler) ValidatePayment(c echo.Context) error {
	var req models.C2BValidationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusOK, models.ValidationReject("Invalid request"))
	}

	return c.JSON(http.StatusOK, h.ledgerUC.ValidatePayment(c.Request().Context(), &req))
}

// ConfirmPayment handles the C2B confirmation callback. The response is the
// fixed acknowledgment no matter what: a non-zero code would make the gateway
// redeliver forever, and redeliveries are already handled by the duplicate
// path.
func (h *LedgerHandler) ConfirmPayment(c echo.Context) error {
	var req models.C2BConfirmationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusOK, models.ConfirmationAck())
	}

	return c.JSON(http.StatusOK, h.ledgerUC.ProcessConfirmation(c.Request().Context(), &req))
}
