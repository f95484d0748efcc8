package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/wekesa/pesaledger/internal/pkg/audit"
	"github.com/wekesa/pesaledger/internal/pkg/models"
	"github.com/wekesa/pesaledger/services/ledger"
)

func TestRetryUnapplied(t *testing.T) {
	mockTxns := new(MockTransactionRepo)
	mockAccounts := new(MockAccountRepo)

	unapplied := []*models.Transaction{
		{TransID: "TX1", BillRefNumber: "A001", TransAmount: decimal.NewFromInt(100)},
		{TransID: "TX2", BillRefNumber: "", TransAmount: decimal.NewFromInt(50)},
		{TransID: "TX3", BillRefNumber: "A003", TransAmount: decimal.NewFromInt(75)},
	}

	mockTxns.On("ListTransactions", mock.Anything, mock.MatchedBy(func(applied *bool) bool {
		return applied != nil && !*applied
	}), 100).Return(unapplied, nil)

	// TX1 applies, TX2 has no reference number to reconcile against, TX3's
	// account still does not exist
	mockAccounts.On("ApplyPayment", mock.Anything, "A001", decimal.NewFromInt(100), "TX1").
		Return(&models.BalanceUpdate{
			AccountNumber: "A001",
			TransID:       "TX1",
			Amount:        decimal.NewFromInt(100),
			NewBalance:    decimal.NewFromInt(100),
		}, nil)
	mockAccounts.On("ApplyPayment", mock.Anything, "A003", decimal.NewFromInt(75), "TX3").
		Return(nil, ledger.ErrAccountNotFound)
	mockTxns.On("UpdateNotes", mock.Anything, "TX3", "account not found: A003").
		Return(nil)

	uc := newTestUC(t, mockTxns, mockAccounts, audit.NopSink{}, nil)

	applied, err := uc.RetryUnapplied(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, applied)
	mockTxns.AssertExpectations(t)
	mockAccounts.AssertExpectations(t)
	mockAccounts.AssertNotCalled(t, "ApplyPayment", mock.Anything, "", mock.Anything, "TX2")
}

func TestRetryUnapplied_SkipsConcurrentlyAppliedRows(t *testing.T) {
	mockTxns := new(MockTransactionRepo)
	mockAccounts := new(MockAccountRepo)

	// TX1 was applied by the confirmation path between the listing and the
	// re-run; only TX2 may increment a balance.
	unapplied := []*models.Transaction{
		{TransID: "TX1", BillRefNumber: "A001", TransAmount: decimal.NewFromInt(250)},
		{TransID: "TX2", BillRefNumber: "A002", TransAmount: decimal.NewFromInt(100)},
	}

	mockTxns.On("ListTransactions", mock.Anything, mock.Anything, 100).
		Return(unapplied, nil)
	mockAccounts.On("ApplyPayment", mock.Anything, "A001", decimal.NewFromInt(250), "TX1").
		Return(nil, ledger.ErrTransactionApplied)
	mockAccounts.On("ApplyPayment", mock.Anything, "A002", decimal.NewFromInt(100), "TX2").
		Return(&models.BalanceUpdate{
			AccountNumber: "A002",
			TransID:       "TX2",
			Amount:        decimal.NewFromInt(100),
			NewBalance:    decimal.NewFromInt(100),
		}, nil)

	uc := newTestUC(t, mockTxns, mockAccounts, audit.NopSink{}, nil)

	applied, err := uc.RetryUnapplied(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, applied)
	mockAccounts.AssertExpectations(t)
	mockTxns.AssertNotCalled(t, "UpdateNotes", mock.Anything, mock.Anything, mock.Anything)
}

func TestRetryUnapplied_ListError(t *testing.T) {
	mockTxns := new(MockTransactionRepo)
	mockAccounts := new(MockAccountRepo)

	mockTxns.On("ListTransactions", mock.Anything, mock.Anything, 100).
		Return(nil, errors.New("connection reset"))

	uc := newTestUC(t, mockTxns, mockAccounts, audit.NopSink{}, nil)

	applied, err := uc.RetryUnapplied(context.Background())

	assert.Error(t, err)
	assert.Equal(t, 0, applied)
}

func TestRetryUnapplied_Empty(t *testing.T) {
	mockTxns := new(MockTransactionRepo)
	mockAccounts := new(MockAccountRepo)

	mockTxns.On("ListTransactions", mock.Anything, mock.Anything, 100).
		Return([]*models.Transaction{}, nil)

	uc := newTestUC(t, mockTxns, mockAccounts, audit.NopSink{}, nil)

	applied, err := uc.RetryUnapplied(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 0, applied)
	mockAccounts.AssertNotCalled(t, "ApplyPayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
