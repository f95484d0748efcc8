package ledger

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/wekesa/pesaledger/internal/pkg/models"
)

// TransactionRepo defines the interface for transaction store operations
type TransactionRepo interface {
	// CreateTransaction inserts a new transaction row with applied = false.
	// Returns ErrDuplicateTransaction when the trans_id already exists; the
	// store's uniqueness constraint is the authoritative at-most-once gate.
	CreateTransaction(ctx context.Context, txn *models.Transaction) error

	// GetTransactionByTransID returns ErrTransactionNotFound for unknown ids
	GetTransactionByTransID(ctx context.Context, transID string) (*models.Transaction, error)

	// ListTransactions lists transactions newest first, optionally filtered
	// by applied state
	ListTransactions(ctx context.Context, applied *bool, limit int) ([]*models.Transaction, error)

	// UpdateNotes records a diagnostic note on a transaction row
	UpdateNotes(ctx context.Context, transID, notes string) error
}

// AccountRepo defines the interface for account store operations
type AccountRepo interface {
	// GetAccountByNumber returns ErrAccountNotFound for unknown accounts
	GetAccountByNumber(ctx context.Context, accountNumber string) (*models.Account, error)

	// ApplyPayment atomically increments the account balance, stamps the
	// last-payment fields and marks the originating transaction applied, all
	// in one database transaction. Returns ErrAccountNotFound, with no state
	// changed, when the reference number matches no account.
	ApplyPayment(ctx context.Context, accountNumber string, amount decimal.Decimal, transID string) (*models.BalanceUpdate, error)
}
