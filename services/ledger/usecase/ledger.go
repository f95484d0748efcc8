package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/wekesa/pesaledger/internal/pkg/audit"
	"github.com/wekesa/pesaledger/internal/pkg/logger"
	"github.com/wekesa/pesaledger/internal/pkg/models"
	"github.com/wekesa/pesaledger/internal/utils"
	"github.com/wekesa/pesaledger/services/ledger"
)

// LedgerUC implements the ledger.LedgerUseCase interface
type LedgerUC struct {
	cfg       *models.Config
	minAmount decimal.Decimal
	txnRepo   ledger.TransactionRepo
	accounts  ledger.AccountRepo
	auditSink audit.Sink
	publisher ledger.EventPublisher
	logger    *logger.AppLogger
}

// NewLedgerUC creates a new ledger use case. The publisher may be nil when
// event publishing is disabled.
func NewLedgerUC(
	cfg *models.Config,
	txnRepo ledger.TransactionRepo,
	accounts ledger.AccountRepo,
	auditSink audit.Sink,
	publisher ledger.EventPublisher,
	appLogger *logger.AppLogger,
) (*LedgerUC, error) {
	minAmount, err := decimal.NewFromString(cfg.Ledger.MinAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid minimum amount %q: %w", cfg.Ledger.MinAmount, err)
	}

	return &LedgerUC{
		cfg:       cfg,
		minAmount: minAmount,
		txnRepo:   txnRepo,
		accounts:  accounts,
		auditSink: auditSink,
		publisher: publisher,
		logger:    appLogger,
	}, nil
}

// opCtx bounds a store operation with the configured query timeout so a hung
// store surfaces as a failure instead of stalling the webhook response.
func (uc *LedgerUC) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := time.Duration(uc.cfg.Database.QueryTimeout) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return context.WithTimeout(ctx, timeout)
}

// ValidatePayment decides accept/reject before the gateway finalizes the
// transfer. First failing rule wins: unknown account, then amount below the
// configured minimum. When the account store cannot answer, the gate fails
// closed with a distinct reason rather than accepting blind.
func (uc *LedgerUC) ValidatePayment(ctx context.Context, req *models.C2BValidationRequest) *models.C2BResponse {
	record := map[string]interface{}{
		"bill_ref_number": req.BillRefNumber,
		"trans_amount":    req.TransAmount.String(),
		"msisdn":          utils.MaskMSISDN(req.MSISDN),
	}
	uc.auditSink.Append(audit.CategoryValidationRequest, record)

	opCtx, cancel := uc.opCtx(ctx)
	defer cancel()

	_, err := uc.accounts.GetAccountByNumber(opCtx, req.BillRefNumber)
	if err != nil {
		if errors.Is(err, ledger.ErrAccountNotFound) {
			uc.rejectValidation(record, "Account not found")
			return models.ValidationReject("Account not found")
		}

		// Store unreachable: fail closed, never accept blind
		uc.logger.WithError(err).WithFields(logrus.Fields{
			"bill_ref_number": req.BillRefNumber,
		}).Error("validation gate store lookup failed")
		uc.rejectValidation(record, "Service temporarily unavailable")
		return models.ValidationReject("Service temporarily unavailable")
	}

	if req.TransAmount.LessThan(uc.minAmount) {
		uc.rejectValidation(record, "Amount too low")
		return models.ValidationReject("Amount too low")
	}

	return models.ValidationAccept()
}

func (uc *LedgerUC) rejectValidation(record map[string]interface{}, reason string) {
	rejected := map[string]interface{}{"reason": reason}
	for k, v := range record {
		rejected[k] = v
	}
	uc.auditSink.Append(audit.CategoryValidationRejected, rejected)
}

// ProcessConfirmation ingests a finalized payment notification. The gateway
// only cares that the endpoint answered: every branch, including malformed
// payloads, duplicates and store failures, returns the same fixed
// acknowledgment. A non-zero code here would cause indefinite redelivery
// storms, and a redelivered event only re-exercises the duplicate path.
func (uc *LedgerUC) ProcessConfirmation(ctx context.Context, req *models.C2BConfirmationRequest) *models.C2BResponse {
	ack := models.ConfirmationAck()

	record := map[string]interface{}{
		"trans_id":        req.TransID,
		"bill_ref_number": req.BillRefNumber,
		"msisdn":          utils.MaskMSISDN(req.MSISDN),
	}
	if req.TransAmount != nil {
		record["trans_amount"] = req.TransAmount.String()
	}
	uc.auditSink.Append(audit.CategoryConfirmationRequest, record)

	// Missing required fields: an ignorable malformed event, not an error
	if req.TransID == "" || req.TransAmount == nil {
		uc.auditSink.Append(audit.CategoryConfirmationMalformed, record)
		return ack
	}

	opCtx, cancel := uc.opCtx(ctx)
	defer cancel()

	_, err := uc.txnRepo.GetTransactionByTransID(opCtx, req.TransID)
	if err == nil {
		uc.auditSink.Append(audit.CategoryConfirmationDuplicate, record)
		return ack
	}
	if !errors.Is(err, ledger.ErrTransactionNotFound) {
		uc.confirmationError(record, "duplicate check failed", err)
		return ack
	}

	txn := uc.buildTransaction(req)
	if err := uc.txnRepo.CreateTransaction(opCtx, txn); err != nil {
		if errors.Is(err, ledger.ErrDuplicateTransaction) {
			// Lost the insert race against a concurrent delivery of the same
			// event; the winner reconciles it.
			uc.auditSink.Append(audit.CategoryConfirmationDuplicate, record)
			return ack
		}
		uc.confirmationError(record, "failed to save transaction", err)
		return ack
	}

	uc.auditSink.Append(audit.CategoryConfirmationSuccess, map[string]interface{}{
		"message":  "transaction saved",
		"trans_id": req.TransID,
	})

	// Reconciliation failures are absorbed: the row stays un-applied and the
	// sweep retries it later.
	_ = uc.applyPayment(ctx, req.BillRefNumber, *req.TransAmount, req.TransID)

	return ack
}

func (uc *LedgerUC) confirmationError(record map[string]interface{}, message string, err error) {
	failed := map[string]interface{}{"message": message, "error": err.Error()}
	for k, v := range record {
		failed[k] = v
	}
	uc.auditSink.Append(audit.CategoryConfirmationError, failed)
	uc.logger.WithError(err).WithFields(logrus.Fields{
		"trans_id": record["trans_id"],
	}).Error(message)
}

// buildTransaction maps a confirmation payload onto a transaction row,
// normalizing the gateway's compact timestamp
func (uc *LedgerUC) buildTransaction(req *models.C2BConfirmationRequest) *models.Transaction {
	return &models.Transaction{
		TransID:           req.TransID,
		TransTime:         utils.ParseTransTime(req.TransTime),
		TransAmount:       *req.TransAmount,
		BusinessShortCode: req.BusinessShortCode,
		BillRefNumber:     req.BillRefNumber,
		InvoiceNumber:     req.InvoiceNumber,
		OrgAccountBalance: req.OrgAccountBalance,
		ThirdPartyTransID: req.ThirdPartyTransID,
		MSISDN:            req.MSISDN,
		FirstName:         req.FirstName,
		MiddleName:        req.MiddleName,
		LastName:          req.LastName,
		TransactionType:   req.TransactionType,
	}
}

// applyPayment runs the balance reconciler for one transaction and records
// the outcome. Shared between the confirmation path and the sweep.
func (uc *LedgerUC) applyPayment(ctx context.Context, accountNumber string, amount decimal.Decimal, transID string) error {
	opCtx, cancel := uc.opCtx(ctx)
	defer cancel()

	update, err := uc.accounts.ApplyPayment(opCtx, accountNumber, amount, transID)
	if err != nil {
		if errors.Is(err, ledger.ErrTransactionApplied) {
			// A concurrent path already applied this row; nothing to record
			return err
		}
		if errors.Is(err, ledger.ErrAccountNotFound) {
			uc.auditSink.Append(audit.CategoryAccountUpdateError, map[string]interface{}{
				"message":        "account not found during update",
				"account_number": accountNumber,
				"trans_id":       transID,
			})
			uc.noteFailure(ctx, transID, "account not found: "+accountNumber)
			return err
		}

		uc.auditSink.Append(audit.CategoryAccountUpdateError, map[string]interface{}{
			"message":        "failed to update account",
			"account_number": accountNumber,
			"trans_id":       transID,
			"error":          err.Error(),
		})
		uc.logger.WithError(err).WithFields(logrus.Fields{
			"account_number": accountNumber,
			"trans_id":       transID,
		}).Error("balance reconciliation failed")
		return err
	}

	uc.auditSink.Append(audit.CategoryAccountUpdated, map[string]interface{}{
		"account_number": update.AccountNumber,
		"trans_id":       update.TransID,
		"amount":         update.Amount.String(),
		"old_balance":    update.OldBalance.String(),
		"new_balance":    update.NewBalance.String(),
	})

	uc.publishApplied(update)

	return nil
}

// noteFailure records a diagnostic note on the un-applied transaction row,
// best-effort
func (uc *LedgerUC) noteFailure(ctx context.Context, transID, notes string) {
	opCtx, cancel := uc.opCtx(ctx)
	defer cancel()

	if err := uc.txnRepo.UpdateNotes(opCtx, transID, notes); err != nil {
		uc.logger.WithError(err).WithFields(logrus.Fields{
			"trans_id": transID,
		}).Warn("failed to record transaction notes")
	}
}

// publishApplied emits an applied-payment event, fire-and-forget
func (uc *LedgerUC) publishApplied(update *models.BalanceUpdate) {
	if uc.publisher == nil {
		return
	}

	event := models.PaymentAppliedEvent{
		TransID:       update.TransID,
		AccountNumber: update.AccountNumber,
		Amount:        update.Amount,
		NewBalance:    update.NewBalance,
		AppliedAt:     time.Now().UTC(),
	}

	if err := uc.publisher.Publish(ledger.TopicPaymentsApplied, event); err != nil {
		uc.logger.WithError(err).WithFields(logrus.Fields{
			"trans_id": update.TransID,
		}).Warn("failed to publish applied-payment event")
	}
}

// ListTransactions exposes the transaction store to the operator API
func (uc *LedgerUC) ListTransactions(ctx context.Context, applied *bool, limit int) ([]*models.Transaction, error) {
	opCtx, cancel := uc.opCtx(ctx)
	defer cancel()

	return uc.txnRepo.ListTransactions(opCtx, applied, limit)
}

// GetAccount exposes the account store to the operator API
func (uc *LedgerUC) GetAccount(ctx context.Context, accountNumber string) (*models.Account, error) {
	opCtx, cancel := uc.opCtx(ctx)
	defer cancel()

	return uc.accounts.GetAccountByNumber(opCtx, accountNumber)
}
