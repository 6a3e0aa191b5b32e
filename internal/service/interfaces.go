// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/ndquangr/moneymind/internal/model"
)

// TransactionFilter defines filtering options for transaction queries.
type TransactionFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Source    model.SourceChannel
	Limit     int
}

// Storage is the persistence contract the engine needs: a confirmed
// transaction store, the fingerprint identity set, and the pending review
// set. Any key-value or document store could satisfy it; the bundled
// implementation is SQLite.
type Storage interface {
	// Confirmed transactions.
	PersistTransaction(ctx context.Context, userID string, txn *model.Transaction) (string, error)
	GetTransactions(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error)

	// Fingerprint identity set. MarkFingerprintSeen must be durable before
	// returning so a crash between parse and mark cannot cause reprocessing.
	IsFingerprintSeen(ctx context.Context, fingerprint string) (bool, error)
	MarkFingerprintSeen(ctx context.Context, fingerprint string) error
	ListFingerprints(ctx context.Context) ([]string, error)
	ClearFingerprints(ctx context.Context) error

	// Pending review set.
	SavePending(ctx context.Context, pending *model.PendingTransaction) error
	GetPending(ctx context.Context, id string) (*model.PendingTransaction, error)
	ListPending(ctx context.Context) ([]model.PendingTransaction, error)
	UpdatePendingCategory(ctx context.Context, id, categoryName string) error
	DeletePending(ctx context.Context, id string) error

	// Database management.
	Migrate(ctx context.Context) error
	Close() error
}

// Oracle is the external text-understanding collaborator consulted for
// free-form chat intent. Implementations must respect the caller's context
// deadline; the engine always pairs an oracle with a deterministic fallback.
type Oracle interface {
	DetectIntent(ctx context.Context, text string) (*Intent, error)
}

// Intent is the oracle's structured answer for a transaction-adding message.
type Intent struct {
	Type     model.TransactionType
	Currency string
	Category string
	Note     string
	Amount   float64
}
