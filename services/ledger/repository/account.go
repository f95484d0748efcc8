package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/wekesa/pesaledger/internal/pkg/models"
	"github.com/wekesa/pesaledger/services/ledger"
)

// AccountRepo implements ledger.AccountRepo on PostgreSQL
type AccountRepo struct {
	db *sqlx.DB
}

// NewAccountRepo creates a new account repository
func NewAccountRepo(db *sqlx.DB) *AccountRepo {
	return &AccountRepo{db: db}
}

// GetAccountByNumber retrieves an account by its account number
func (r *AccountRepo) GetAccountByNumber(ctx context.Context, accountNumber string) (*models.Account, error) {
	query := `
		SELECT * FROM accounts
		WHERE account_number = $1
	`

	var account models.Account
	err := r.db.GetContext(ctx, &account, query, accountNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ledger.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return &account, nil
}

// ApplyPayment applies one confirmed transaction to the referenced account
// inside a single database transaction. The applied flag is claimed first with
// `applied = FALSE` in the predicate: a row already applied by a concurrent
// path (confirmation vs. sweep, or two sweeps over the same listing) affects
// zero rows and the balance is left untouched. The row lock taken by FOR
// UPDATE serializes concurrent confirmations against the same account; the
// applied flag, the balance mutation and the last-payment stamps commit
// together or not at all.
func (r *AccountRepo) ApplyPayment(ctx context.Context, accountNumber string, amount decimal.Decimal, transID string) (*models.BalanceUpdate, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE mpesa_transactions SET applied = TRUE WHERE trans_id = $1 AND applied = FALSE`,
		transID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to mark transaction applied: %w", err)
	}
	claimed, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check applied claim: %w", err)
	}
	if claimed == 0 {
		return nil, ledger.ErrTransactionApplied
	}

	var currentBalance decimal.Decimal
	err = tx.QueryRowxContext(ctx,
		`SELECT balance FROM accounts WHERE account_number = $1 FOR UPDATE`,
		accountNumber,
	).Scan(&currentBalance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ledger.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to read balance: %w", err)
	}

	newBalance := currentBalance.Add(amount)
	now := time.Now()

	_, err = tx.ExecContext(ctx, `
		UPDATE accounts
		SET balance = $1,
			last_payment_date = $2,
			last_payment_amount = $3,
			last_transaction_id = $4,
			updated_at = $2
		WHERE account_number = $5
	`, newBalance, now, amount, transID, accountNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to update balance: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit balance update: %w", err)
	}

	return &models.BalanceUpdate{
		AccountNumber: accountNumber,
		TransID:       transID,
		Amount:        amount,
		OldBalance:    currentBalance,
		NewBalance:    newBalance,
	}, nil
}
