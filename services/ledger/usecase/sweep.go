package usecase

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// RetryUnapplied scans transactions that were recorded but never applied,
// typically because their account did not exist at confirmation time, and
// re-runs the balance reconciler for each. The reconciler claims the applied
// flag inside the same database transaction as the balance update, so a row
// applied concurrently between the listing and the re-run is skipped, never
// double-applied. Returns the number of transactions applied in this pass.
func (uc *LedgerUC) RetryUnapplied(ctx context.Context) (int, error) {
	opCtx, cancel := uc.opCtx(ctx)
	defer cancel()

	unapplied := false
	txns, err := uc.txnRepo.ListTransactions(opCtx, &unapplied, uc.cfg.Ledger.SweepBatchSize)
	if err != nil {
		return 0, err
	}

	applied := 0
	for _, txn := range txns {
		if txn.BillRefNumber == "" {
			// No reference number to reconcile against; needs manual review
			continue
		}
		if err := uc.applyPayment(ctx, txn.BillRefNumber, txn.TransAmount, txn.TransID); err == nil {
			applied++
		}
	}

	return applied, nil
}

// RunSweeper periodically retries un-applied transactions until the context
// is cancelled. A sweep interval of zero disables the sweeper.
func (uc *LedgerUC) RunSweeper(ctx context.Context) {
	interval := time.Duration(uc.cfg.Ledger.SweepInterval) * time.Second
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			applied, err := uc.RetryUnapplied(ctx)
			if err != nil {
				uc.logger.WithError(err).Warn("reconciliation sweep failed")
				continue
			}
			if applied > 0 {
				uc.logger.WithFields(logrus.Fields{"applied": applied}).Info("reconciliation sweep applied transactions")
			}
		}
	}
}
