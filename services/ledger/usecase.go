package ledger

import (
	"context"

	"github.com/wekesa/pesaledger/internal/pkg/models"
)

// TopicPaymentsApplied is the NSQ topic applied-payment events go to
const TopicPaymentsApplied = "payments.applied"

// LedgerUseCase defines the ledger reconciliation pipeline operations
type LedgerUseCase interface {
	// ValidatePayment is the synchronous pre-check the gateway calls before
	// finalizing a payment. It never mutates persistent state.
	ValidatePayment(ctx context.Context, req *models.C2BValidationRequest) *models.C2BResponse

	// ProcessConfirmation ingests a finalized payment notification. It always
	// returns the fixed acknowledgment; internal failures are absorbed.
	ProcessConfirmation(ctx context.Context, req *models.C2BConfirmationRequest) *models.C2BResponse

	// RetryUnapplied re-runs balance reconciliation for transactions that are
	// recorded but not yet applied. Safe to run repeatedly.
	RetryUnapplied(ctx context.Context) (int, error)

	ListTransactions(ctx context.Context, applied *bool, limit int) ([]*models.Transaction, error)
	GetAccount(ctx context.Context, accountNumber string) (*models.Account, error)
}

// EventPublisher publishes applied-payment events, fire-and-forget
type EventPublisher interface {
	Publish(topic string, message interface{}) error
}
