package model

import (
	"fmt"
	"time"
)

// TransactionType indicates the direction of money movement.
type TransactionType string

// Transaction directions.
const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// Transaction is a structured financial transaction extracted from an
// unstructured message. Immutable once created except Category, which may be
// overwritten once during pending review.
type Transaction struct {
	Date         time.Time
	Type         TransactionType
	Currency     string // ISO-like 3-letter code
	Description  string // never empty; falls back to a channel label
	Category     string
	BankName     string // best-effort provider label from the sender
	Source       SourceChannel
	MessageID    string // fingerprint of the originating message
	Amount       float64
}

// Validate checks the invariants every emitted transaction must hold.
func (t *Transaction) Validate() error {
	if t.Amount <= 0 {
		return fmt.Errorf("amount must be positive, got %v", t.Amount)
	}
	if t.Type != TypeIncome && t.Type != TypeExpense {
		return fmt.Errorf("unknown transaction type %q", t.Type)
	}
	if len(t.Currency) != 3 {
		return fmt.Errorf("currency must be a 3-letter code, got %q", t.Currency)
	}
	if t.Description == "" {
		return fmt.Errorf("description must not be empty")
	}
	if t.Category == "" {
		return fmt.Errorf("category must not be empty")
	}
	return nil
}
