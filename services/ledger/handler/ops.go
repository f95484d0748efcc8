package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/wekesa/pesaledger/internal/utils"
	"github.com/wekesa/pesaledger/services/ledger"
)

// ListTransactions lists ledger transactions for operators. Supports
// ?applied=true|false and ?limit=N.
func (h *LedgerHandler) ListTransactions(c echo.Context) error {
	var applied *bool
	if raw := c.QueryParam("applied"); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			return utils.BadRequestResponse(c, "applied must be true or false")
		}
		applied = &value
	}

	limit := 100
	if raw := c.QueryParam("limit"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value <= 0 {
			return utils.BadRequestResponse(c, "limit must be a positive integer")
		}
		limit = value
	}

	txns, err := h.ledgerUC.ListTransactions(c.Request().Context(), applied, limit)
	if err != nil {
		return utils.InternalServerErrorResponse(c, "Failed to list transactions")
	}

	return utils.SuccessResponse(c, http.StatusOK, "Transactions retrieved", txns)
}

// GetAccount returns one account with its balance and last-payment fields
func (h *LedgerHandler) GetAccount(c echo.Context) error {
	accountNumber := c.Param("number")

	account, err := h.ledgerUC.GetAccount(c.Request().Context(), accountNumber)
	if err != nil {
		if errors.Is(err, ledger.ErrAccountNotFound) {
			return utils.NotFoundResponse(c, "Account not found")
		}
		return utils.InternalServerErrorResponse(c, "Failed to get account")
	}

	return utils.SuccessResponse(c, http.StatusOK, "Account retrieved", account)
}

// Sweep triggers one reconciliation pass over un-applied transactions
func (h *LedgerHandler) Sweep(c echo.Context) error {
	applied, err := h.ledgerUC.RetryUnapplied(c.Request().Context())
	if err != nil {
		return utils.InternalServerErrorResponse(c, "Sweep failed")
	}

	return utils.SuccessResponse(c, http.StatusOK, "Sweep completed", map[string]int{"applied": applied})
}
