package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// schemaStatements creates the two ledger tables and their lookup indexes.
// The uniqueness constraint on trans_id is load-bearing: it is the
// at-most-once gate for concurrent duplicate webhook deliveries.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS mpesa_transactions (
		id BIGSERIAL PRIMARY KEY,
		trans_id TEXT UNIQUE NOT NULL,
		trans_time TIMESTAMPTZ,
		trans_amount NUMERIC(14,2) NOT NULL,
		business_shortcode TEXT NOT NULL DEFAULT '',
		bill_ref_number TEXT NOT NULL DEFAULT '',
		invoice_number TEXT NOT NULL DEFAULT '',
		org_account_balance TEXT NOT NULL DEFAULT '',
		third_party_trans_id TEXT NOT NULL DEFAULT '',
		msisdn TEXT NOT NULL DEFAULT '',
		first_name TEXT NOT NULL DEFAULT '',
		middle_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		transaction_type TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		applied BOOLEAN NOT NULL DEFAULT FALSE,
		notes TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_bill_ref ON mpesa_transactions (bill_ref_number)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_msisdn ON mpesa_transactions (msisdn)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_applied ON mpesa_transactions (applied) WHERE applied = FALSE`,
	`CREATE TABLE IF NOT EXISTS accounts (
		id BIGSERIAL PRIMARY KEY,
		account_number TEXT UNIQUE NOT NULL,
		customer_name TEXT NOT NULL DEFAULT '',
		phone_number TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		balance NUMERIC(14,2) NOT NULL DEFAULT 0,
		last_payment_date TIMESTAMPTZ,
		last_payment_amount NUMERIC(14,2),
		last_transaction_id TEXT,
		status TEXT NOT NULL DEFAULT 'active',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_accounts_phone ON accounts (phone_number)`,
}

// EnsureSchema creates the ledger tables if they do not exist yet
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}
