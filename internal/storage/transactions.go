package storage

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ndquangr/moneymind/internal/model"
	"github.com/ndquangr/moneymind/internal/service"
)

// PersistTransaction saves a confirmed transaction and returns its record id.
// The write is committed before returning; callers may treat success as
// durable.
func (s *SQLiteStorage) PersistTransaction(ctx context.Context, userID string, txn *model.Transaction) (string, error) {
	if err := validateContext(ctx); err != nil {
		return "", err
	}
	if err := validateString(userID, "userID"); err != nil {
		return "", err
	}
	if err := txn.Validate(); err != nil {
		return "", fmt.Errorf("invalid transaction: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (user_id, message_id, date, type, amount, currency, description, category, bank_name, source)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		userID, txn.MessageID, txn.Date, string(txn.Type), txn.Amount, txn.Currency,
		txn.Description, txn.Category, txn.BankName, string(txn.Source))
	if err != nil {
		return "", fmt.Errorf("failed to persist transaction: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("failed to read record id: %w", err)
	}

	return strconv.FormatInt(id, 10), nil
}

// GetTransactions returns confirmed transactions matching the filter, newest
// first.
func (s *SQLiteStorage) GetTransactions(ctx context.Context, filter service.TransactionFilter) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `SELECT message_id, date, type, amount, currency, description, category, bank_name, source
		FROM transactions WHERE 1=1`
	args := make([]any, 0, 4)

	if filter.StartDate != nil {
		query += ` AND date >= ?`
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		query += ` AND date <= ?`
		args = append(args, *filter.EndDate)
	}
	if filter.Source != "" {
		query += ` AND source = ?`
		args = append(args, string(filter.Source))
	}

	query += ` ORDER BY date DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var transactions []model.Transaction
	for rows.Next() {
		var txn model.Transaction
		var txType, source string
		if err := rows.Scan(&txn.MessageID, &txn.Date, &txType, &txn.Amount, &txn.Currency,
			&txn.Description, &txn.Category, &txn.BankName, &source); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txn.Type = model.TransactionType(txType)
		txn.Source = model.SourceChannel(source)
		transactions = append(transactions, txn)
	}

	return transactions, rows.Err()
}
