package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ndquangr/moneymind/internal/category"
	"github.com/ndquangr/moneymind/internal/common"
	"github.com/ndquangr/moneymind/internal/model"
	"github.com/ndquangr/moneymind/internal/service"
)

// Save confirms a pending transaction as-is and persists it.
func (e *Engine) Save(ctx context.Context, pendingID string) error {
	return e.resolve(ctx, pendingID, "", model.OutcomeSaved)
}

// SaveWithCategory confirms a pending transaction with a replacement
// category and persists it.
func (e *Engine) SaveWithCategory(ctx context.Context, pendingID, categoryName string) error {
	if !category.Valid(categoryName) {
		return common.NewUserError(
			fmt.Sprintf("Unknown category %q. Run 'moneymind categories' to see the valid names.", categoryName),
			fmt.Errorf("%w: unknown category %q", common.ErrInvalidConfig, categoryName),
		)
	}
	return e.resolve(ctx, pendingID, categoryName, model.OutcomeSavedWithOverride)
}

// ChangeCategory updates the category of a still-pending transaction without
// resolving it. The item remains in the review queue.
func (e *Engine) ChangeCategory(ctx context.Context, pendingID, categoryName string) error {
	if !category.Valid(categoryName) {
		return common.NewUserError(
			fmt.Sprintf("Unknown category %q. Run 'moneymind categories' to see the valid names.", categoryName),
			fmt.Errorf("%w: unknown category %q", common.ErrInvalidConfig, categoryName),
		)
	}

	if err := e.storage.UpdatePendingCategory(ctx, pendingID, categoryName); err != nil {
		if errors.Is(err, common.ErrPendingNotFound) {
			return common.ErrAlreadyResolved
		}
		return fmt.Errorf("failed to update pending category: %w", err)
	}

	slog.Info("Pending category changed", "pending_id", pendingID, "category", categoryName)
	return nil
}

// Skip discards a pending transaction. Nothing is persisted to the
// transaction store; the fingerprint stays marked so the same message will
// not resurface.
func (e *Engine) Skip(ctx context.Context, pendingID string) error {
	return e.resolve(ctx, pendingID, "", model.OutcomeSkipped)
}

// resolve drives a pending item to a terminal state. A resolution is
// exclusive and final: the pending row is removed exactly once, and a second
// call for the same id reports ErrAlreadyResolved without side effects.
func (e *Engine) resolve(ctx context.Context, pendingID, overrideCategory string, outcome model.ResolutionOutcome) error {
	pending, err := e.storage.GetPending(ctx, pendingID)
	if err != nil {
		if errors.Is(err, common.ErrPendingNotFound) {
			return common.ErrAlreadyResolved
		}
		return fmt.Errorf("failed to load pending transaction: %w", err)
	}

	if outcome != model.OutcomeSkipped {
		txn := pending.Transaction
		if overrideCategory != "" {
			txn.Category = overrideCategory
		}

		// The persist must land before the pending row is removed. On
		// failure the item stays pending so the user can retry.
		err := common.WithRetry(ctx, func() error {
			_, perr := e.storage.PersistTransaction(ctx, e.cfg.UserID, &txn)
			return perr
		}, common.RetryOptions{MaxAttempts: 3, InitialDelay: 50 * time.Millisecond})
		if err != nil {
			common.LogError(err, "Failed to persist resolved transaction",
				common.Fields{"pending_id": pendingID, "outcome": outcome})
			return common.NewUserError(
				"Could not save the transaction. It is still pending; please try again.",
				fmt.Errorf("%w: %w", common.ErrPersistenceFailure, err),
			)
		}
	}

	if err := e.storage.DeletePending(ctx, pendingID); err != nil {
		return fmt.Errorf("failed to remove pending transaction: %w", err)
	}

	slog.Info("Pending transaction resolved",
		"pending_id", pendingID,
		"outcome", outcome)

	if e.onResolved != nil {
		e.onResolved(pendingID, outcome)
	}

	return nil
}

// ListPending returns the current review queue in detection order.
func (e *Engine) ListPending(ctx context.Context) ([]model.PendingTransaction, error) {
	return e.storage.ListPending(ctx)
}

// Transactions returns confirmed transactions matching the filter.
func (e *Engine) Transactions(ctx context.Context, filter service.TransactionFilter) ([]model.Transaction, error) {
	return e.storage.GetTransactions(ctx, filter)
}

// Fingerprints returns the stored message fingerprints.
func (e *Engine) Fingerprints(ctx context.Context) ([]string, error) {
	return e.storage.ListFingerprints(ctx)
}

// ClearFingerprints empties the identity set. Previously seen messages will
// be detected again.
func (e *Engine) ClearFingerprints(ctx context.Context) error {
	return e.storage.ClearFingerprints(ctx)
}
