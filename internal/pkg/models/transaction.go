package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents one payment event reported by the M-Pesa gateway.
// TransID is gateway-assigned and globally unique; it is the idempotency key
// for the whole ingestion pipeline. Rows are immutable after insert except for
// Applied and Notes, which belong to the balance reconciler.
type Transaction struct {
	ID                int64           `json:"id" db:"id"`
	TransID           string          `json:"trans_id" db:"trans_id"`
	TransTime         *time.Time      `json:"trans_time,omitempty" db:"trans_time"`
	TransAmount       decimal.Decimal `json:"trans_amount" db:"trans_amount"`
	BusinessShortCode string          `json:"business_shortcode" db:"business_shortcode"`
	BillRefNumber     string          `json:"bill_ref_number" db:"bill_ref_number"`
	InvoiceNumber     string          `json:"invoice_number" db:"invoice_number"`
	OrgAccountBalance string          `json:"org_account_balance" db:"org_account_balance"`
	ThirdPartyTransID string          `json:"third_party_trans_id" db:"third_party_trans_id"`
	MSISDN            string          `json:"msisdn" db:"msisdn"`
	FirstName         string          `json:"first_name" db:"first_name"`
	MiddleName        string          `json:"middle_name" db:"middle_name"`
	LastName          string          `json:"last_name" db:"last_name"`
	TransactionType   string          `json:"transaction_type" db:"transaction_type"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`
	Applied           bool            `json:"applied" db:"applied"`
	Notes             string          `json:"notes" db:"notes"`
}

// PaymentAppliedEvent is published after a confirmed payment has been applied
// to an account balance
type PaymentAppliedEvent struct {
	TransID       string          `json:"trans_id"`
	AccountNumber string          `json:"account_number"`
	Amount        decimal.Decimal `json:"amount"`
	NewBalance    decimal.Decimal `json:"new_balance"`
	AppliedAt     time.Time       `json:"applied_at"`
}
