package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/wekesa/pesaledger/internal/pkg/models"
	"github.com/wekesa/pesaledger/services/ledger"
)

// pgUniqueViolation is the PostgreSQL error code for unique_violation
const pgUniqueViolation = "23505"

// TransactionRepo implements ledger.TransactionRepo on PostgreSQL
type TransactionRepo struct {
	db *sqlx.DB
}

// NewTransactionRepo creates a new transaction repository
func NewTransactionRepo(db *sqlx.DB) *TransactionRepo {
	return &TransactionRepo{db: db}
}

// CreateTransaction inserts a new transaction row. A unique violation on
// trans_id maps to ledger.ErrDuplicateTransaction so callers can treat a
// concurrent duplicate delivery as already handled.
func (r *TransactionRepo) CreateTransaction(ctx context.Context, txn *models.Transaction) error {
	txn.CreatedAt = time.Now()
	txn.Applied = false

	query := `
		INSERT INTO mpesa_transactions (
			trans_id, trans_time, trans_amount, business_shortcode,
			bill_ref_number, invoice_number, org_account_balance,
			third_party_trans_id, msisdn, first_name, middle_name,
			last_name, transaction_type, created_at, applied, notes
		) VALUES (
			:trans_id, :trans_time, :trans_amount, :business_shortcode,
			:bill_ref_number, :invoice_number, :org_account_balance,
			:third_party_trans_id, :msisdn, :first_name, :middle_name,
			:last_name, :transaction_type, :created_at, :applied, :notes
		)
	`
	_, err := r.db.NamedExecContext(ctx, query, txn)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ledger.ErrDuplicateTransaction
		}
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	return nil
}

// GetTransactionByTransID retrieves a transaction by its gateway-assigned id
func (r *TransactionRepo) GetTransactionByTransID(ctx context.Context, transID string) (*models.Transaction, error) {
	query := `
		SELECT * FROM mpesa_transactions
		WHERE trans_id = $1
	`

	var txn models.Transaction
	err := r.db.GetContext(ctx, &txn, query, transID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ledger.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return &txn, nil
}

// ListTransactions lists transactions newest first, optionally filtered by
// applied state
func (r *TransactionRepo) ListTransactions(ctx context.Context, applied *bool, limit int) ([]*models.Transaction, error) {
	if limit <= 0 {
		limit = 100
	}

	var (
		txns []*models.Transaction
		err  error
	)
	if applied != nil {
		query := `
			SELECT * FROM mpesa_transactions
			WHERE applied = $1
			ORDER BY created_at DESC
			LIMIT $2
		`
		err = r.db.SelectContext(ctx, &txns, query, *applied, limit)
	} else {
		query := `
			SELECT * FROM mpesa_transactions
			ORDER BY created_at DESC
			LIMIT $1
		`
		err = r.db.SelectContext(ctx, &txns, query, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	return txns, nil
}

// UpdateNotes records a diagnostic note on a transaction row
func (r *TransactionRepo) UpdateNotes(ctx context.Context, transID, notes string) error {
	query := `
		UPDATE mpesa_transactions SET notes = $1 WHERE trans_id = $2
	`
	_, err := r.db.ExecContext(ctx, query, notes, transID)
	if err != nil {
		return fmt.Errorf("failed to update transaction notes: %w", err)
	}
	return nil
}
