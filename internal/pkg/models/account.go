package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account represents a payable customer account. Accounts are provisioned
// out-of-band; the ingestion pipeline only reads them and the balance
// reconciler is the sole writer of Balance and the last-payment fields.
type Account struct {
	ID                int64               `json:"id" db:"id"`
	AccountNumber     string              `json:"account_number" db:"account_number"`
	CustomerName      string              `json:"customer_name" db:"customer_name"`
	PhoneNumber       string              `json:"phone_number" db:"phone_number"`
	Email             string              `json:"email" db:"email"`
	Balance           decimal.Decimal     `json:"balance" db:"balance"`
	LastPaymentDate   *time.Time          `json:"last_payment_date,omitempty" db:"last_payment_date"`
	LastPaymentAmount decimal.NullDecimal `json:"last_payment_amount,omitempty" db:"last_payment_amount"`
	LastTransactionID *string             `json:"last_transaction_id,omitempty" db:"last_transaction_id"`
	Status            string              `json:"status" db:"status"`
	CreatedAt         time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at" db:"updated_at"`
}

// BalanceUpdate describes one committed balance application, used for audit
// logging and event publishing
type BalanceUpdate struct {
	AccountNumber string          `json:"account_number"`
	TransID       string          `json:"trans_id"`
	Amount        decimal.Decimal `json:"amount"`
	OldBalance    decimal.Decimal `json:"old_balance"`
	NewBalance    decimal.Decimal `json:"new_balance"`
}
