package ledger

import "errors"

var (
	// ErrTransactionNotFound indicates no transaction exists for a trans_id
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrDuplicateTransaction indicates an insert hit the trans_id uniqueness
	// constraint. Under concurrent duplicate deliveries this means "already
	// handled by another request", never a genuine failure.
	ErrDuplicateTransaction = errors.New("duplicate transaction")

	// ErrAccountNotFound indicates no account matches a reference number
	ErrAccountNotFound = errors.New("account not found")

	// ErrTransactionApplied indicates the transaction was already applied by a
	// concurrent path (confirmation vs. sweep, or two sweeps). The balance is
	// left untouched.
	ErrTransactionApplied = errors.New("transaction already applied")
)
