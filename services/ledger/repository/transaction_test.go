package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wekesa/pesaledger/internal/pkg/models"
	"github.com/wekesa/pesaledger/services/ledger"
)

func setupTransactionRepoTest(t *testing.T) (*TransactionRepo, sqlmock.Sqlmock, func()) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(mockDB, "sqlmock")
	repo := NewTransactionRepo(sqlxDB)

	cleanup := func() {
		sqlxDB.Close()
	}

	return repo, mock, cleanup
}

func sampleTransaction() *models.Transaction {
	return &models.Transaction{
		TransID:           "RKTQDM7W6S",
		TransAmount:       decimal.NewFromInt(100),
		BusinessShortCode: "600638",
		BillRefNumber:     "A001",
		MSISDN:            "254708374149",
		FirstName:         "John",
		TransactionType:   "Pay Bill",
	}
}

func TestCreateTransaction(t *testing.T) {
	testCases := []struct {
		name       string
		mockSetup  func(mock sqlmock.Sqlmock)
		assertFunc func(t *testing.T, err error)
	}{
		{
			name: "Success",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO mpesa_transactions").
					WillReturnResult(sqlmock.NewResult(1, 1))
			},
			assertFunc: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name: "Duplicate trans_id maps to ErrDuplicateTransaction",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO mpesa_transactions").
					WillReturnError(&pgconn.PgError{Code: "23505"})
			},
			assertFunc: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ledger.ErrDuplicateTransaction)
			},
		},
		{
			name: "Other database error is wrapped",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO mpesa_transactions").
					WillReturnError(errors.New("connection reset"))
			},
			assertFunc: func(t *testing.T, err error) {
				assert.Error(t, err)
				assert.NotErrorIs(t, err, ledger.ErrDuplicateTransaction)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo, mock, cleanup := setupTransactionRepoTest(t)
			defer cleanup()

			tc.mockSetup(mock)

			err := repo.CreateTransaction(context.Background(), sampleTransaction())

			tc.assertFunc(t, err)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCreateTransaction_StampsRow(t *testing.T) {
	repo, mock, cleanup := setupTransactionRepoTest(t)
	defer cleanup()

	mock.ExpectExec("INSERT INTO mpesa_transactions").
		WillReturnResult(sqlmock.NewResult(1, 1))

	txn := sampleTransaction()
	txn.Applied = true // must be reset: only the reconciler may set it

	err := repo.CreateTransaction(context.Background(), txn)

	assert.NoError(t, err)
	assert.False(t, txn.Applied)
	assert.WithinDuration(t, time.Now(), txn.CreatedAt, time.Second)
}

func TestGetTransactionByTransID(t *testing.T) {
	testCases := []struct {
		name       string
		transID    string
		mockSetup  func(mock sqlmock.Sqlmock)
		assertFunc func(t *testing.T, txn *models.Transaction, err error)
	}{
		{
			name:    "Success",
			transID: "RKTQDM7W6S",
			mockSetup: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"trans_id", "trans_amount", "bill_ref_number", "applied", "created_at"}).
					AddRow("RKTQDM7W6S", "100", "A001", false, time.Now())
				mock.ExpectQuery("SELECT \\* FROM mpesa_transactions").
					WithArgs("RKTQDM7W6S").
					WillReturnRows(rows)
			},
			assertFunc: func(t *testing.T, txn *models.Transaction, err error) {
				assert.NoError(t, err)
				require.NotNil(t, txn)
				assert.Equal(t, "RKTQDM7W6S", txn.TransID)
				assert.True(t, txn.TransAmount.Equal(decimal.NewFromInt(100)))
				assert.False(t, txn.Applied)
			},
		},
		{
			name:    "Not found maps to ErrTransactionNotFound",
			transID: "MISSING",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT \\* FROM mpesa_transactions").
					WithArgs("MISSING").
					WillReturnRows(sqlmock.NewRows([]string{"trans_id"}))
			},
			assertFunc: func(t *testing.T, txn *models.Transaction, err error) {
				assert.ErrorIs(t, err, ledger.ErrTransactionNotFound)
				assert.Nil(t, txn)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo, mock, cleanup := setupTransactionRepoTest(t)
			defer cleanup()

			tc.mockSetup(mock)

			txn, err := repo.GetTransactionByTransID(context.Background(), tc.transID)

			tc.assertFunc(t, txn, err)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestListTransactions_AppliedFilter(t *testing.T) {
	repo, mock, cleanup := setupTransactionRepoTest(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"trans_id", "trans_amount", "bill_ref_number", "applied", "created_at"}).
		AddRow("TX1", "50", "A001", false, time.Now()).
		AddRow("TX2", "75", "A002", false, time.Now())
	mock.ExpectQuery("SELECT \\* FROM mpesa_transactions\\s+WHERE applied").
		WithArgs(false, 10).
		WillReturnRows(rows)

	unapplied := false
	txns, err := repo.ListTransactions(context.Background(), &unapplied, 10)

	assert.NoError(t, err)
	assert.Len(t, txns, 2)
	assert.Equal(t, "TX1", txns[0].TransID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListTransactions_NoFilterDefaultLimit(t *testing.T) {
	repo, mock, cleanup := setupTransactionRepoTest(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"trans_id", "trans_amount", "applied", "created_at"}).
		AddRow("TX1", "50", true, time.Now())
	mock.ExpectQuery("SELECT \\* FROM mpesa_transactions").
		WithArgs(100).
		WillReturnRows(rows)

	txns, err := repo.ListTransactions(context.Background(), nil, 0)

	assert.NoError(t, err)
	assert.Len(t, txns, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateNotes(t *testing.T) {
	repo, mock, cleanup := setupTransactionRepoTest(t)
	defer cleanup()

	mock.ExpectExec("UPDATE mpesa_transactions SET notes").
		WithArgs("account not found: A001", "TX1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateNotes(context.Background(), "TX1", "account not found: A001")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
