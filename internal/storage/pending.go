package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ndquangr/moneymind/internal/common"
	"github.com/ndquangr/moneymind/internal/model"
)

// SavePending stores a detected transaction awaiting user review. A second
// save for the same id is rejected: there is at most one open resolution per
// message.
func (s *SQLiteStorage) SavePending(ctx context.Context, pending *model.PendingTransaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(pending.ID, "pending.ID"); err != nil {
		return err
	}
	if err := pending.Transaction.Validate(); err != nil {
		return fmt.Errorf("invalid pending transaction: %w", err)
	}

	txn := pending.Transaction
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO pending_transactions (id, detected_at, date, type, amount, currency, description, category, bank_name, source)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		pending.ID, pending.DetectedAt, txn.Date, string(txn.Type), txn.Amount,
		txn.Currency, txn.Description, txn.Category, txn.BankName, string(txn.Source))
	if err != nil {
		return fmt.Errorf("failed to save pending transaction: %w", err)
	}

	return nil
}

// GetPending returns the pending transaction with the given id, or
// common.ErrPendingNotFound.
func (s *SQLiteStorage) GetPending(ctx context.Context, id string) (*model.PendingTransaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, detected_at, date, type, amount, currency, description, category, bank_name, source
		FROM pending_transactions WHERE id = ?`, id)

	pending, err := scanPending(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrPendingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pending transaction: %w", err)
	}

	return pending, nil
}

// ListPending returns all open pending transactions, oldest first.
func (s *SQLiteStorage) ListPending(ctx context.Context) ([]model.PendingTransaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, detected_at, date, type, amount, currency, description, category, bank_name, source
		FROM pending_transactions ORDER BY detected_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var pendings []model.PendingTransaction
	for rows.Next() {
		pending, err := scanPending(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pending transaction: %w", err)
		}
		pendings = append(pendings, *pending)
	}

	return pendings, rows.Err()
}

// UpdatePendingCategory overwrites the category of an open pending
// transaction. Not a terminal transition: the item stays pending until an
// explicit save or skip.
func (s *SQLiteStorage) UpdatePendingCategory(ctx context.Context, id, categoryName string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	if err := validateString(categoryName, "categoryName"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE pending_transactions SET category = ? WHERE id = ?`, categoryName, id)
	if err != nil {
		return fmt.Errorf("failed to update pending category: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return common.ErrPendingNotFound
	}

	return nil
}

// DeletePending removes a pending transaction from the review set. Deleting
// an id that is already gone is not an error.
func (s *SQLiteStorage) DeletePending(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM pending_transactions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete pending transaction: %w", err)
	}

	return nil
}

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanPending(row scanner) (*model.PendingTransaction, error) {
	var pending model.PendingTransaction
	var txType, source string

	err := row.Scan(&pending.ID, &pending.DetectedAt, &pending.Transaction.Date, &txType,
		&pending.Transaction.Amount, &pending.Transaction.Currency,
		&pending.Transaction.Description, &pending.Transaction.Category,
		&pending.Transaction.BankName, &source)
	if err != nil {
		return nil, err
	}

	pending.Transaction.Type = model.TransactionType(txType)
	pending.Transaction.Source = model.SourceChannel(source)
	pending.Transaction.MessageID = pending.ID
	return &pending, nil
}
