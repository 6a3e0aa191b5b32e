package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndquangr/moneymind/internal/common"
	"github.com/ndquangr/moneymind/internal/model"
	"github.com/ndquangr/moneymind/internal/service"
)

func setupTestDB(t *testing.T) *SQLiteStorage {
	t.Helper()

	store, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)

	require.NoError(t, store.Migrate(context.Background()))

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}

func sampleTransaction() *model.Transaction {
	return &model.Transaction{
		Date:        time.Date(2025, 8, 5, 14, 30, 0, 0, time.UTC),
		Type:        model.TypeExpense,
		Amount:      150000,
		Currency:    "VND",
		Description: "tai GRAB*TRIP Ho Chi Minh",
		Category:    "Transport",
		BankName:    "Vietcombank",
		Source:      model.SourceSMS,
		MessageID:   "abc123def456",
	}
}

func TestPersistTransaction(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	id, err := store.PersistTransaction(ctx, "user-1", sampleTransaction())
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	got, err := store.GetTransactions(ctx, service.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 150000.0, got[0].Amount)
	assert.Equal(t, "Transport", got[0].Category)
	assert.Equal(t, model.SourceSMS, got[0].Source)
}

func TestPersistTransactionRejectsInvalid(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	txn := sampleTransaction()
	txn.Amount = 0

	_, err := store.PersistTransaction(ctx, "user-1", txn)
	assert.Error(t, err)
}

func TestGetTransactionsFilter(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	smsTxn := sampleTransaction()
	_, err := store.PersistTransaction(ctx, "user-1", smsTxn)
	require.NoError(t, err)

	chatTxn := sampleTransaction()
	chatTxn.Source = model.SourceChat
	chatTxn.MessageID = "other"
	_, err = store.PersistTransaction(ctx, "user-1", chatTxn)
	require.NoError(t, err)

	got, err := store.GetTransactions(ctx, service.TransactionFilter{Source: model.SourceChat})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, model.SourceChat, got[0].Source)
}

func TestFingerprintLifecycle(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	seen, err := store.IsFingerprintSeen(ctx, "fp-1")
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, store.MarkFingerprintSeen(ctx, "fp-1"))

	seen, err = store.IsFingerprintSeen(ctx, "fp-1")
	require.NoError(t, err)
	assert.True(t, seen)

	// Marking twice is idempotent.
	require.NoError(t, store.MarkFingerprintSeen(ctx, "fp-1"))

	fps, err := store.ListFingerprints(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"fp-1"}, fps)

	require.NoError(t, store.ClearFingerprints(ctx))

	seen, err = store.IsFingerprintSeen(ctx, "fp-1")
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestPendingLifecycle(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	pending := &model.PendingTransaction{
		ID:          "msg-1",
		DetectedAt:  time.Now().UTC(),
		Transaction: *sampleTransaction(),
	}
	require.NoError(t, store.SavePending(ctx, pending))

	got, err := store.GetPending(ctx, "msg-1")
	require.NoError(t, err)
	assert.Equal(t, "Transport", got.Transaction.Category)

	require.NoError(t, store.UpdatePendingCategory(ctx, "msg-1", "Shopping"))

	got, err = store.GetPending(ctx, "msg-1")
	require.NoError(t, err)
	assert.Equal(t, "Shopping", got.Transaction.Category)

	list, err := store.ListPending(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, store.DeletePending(ctx, "msg-1"))

	_, err = store.GetPending(ctx, "msg-1")
	assert.True(t, errors.Is(err, common.ErrPendingNotFound))

	// Deleting again is a no-op.
	require.NoError(t, store.DeletePending(ctx, "msg-1"))
}

func TestUpdatePendingCategoryMissing(t *testing.T) {
	store := setupTestDB(t)

	err := store.UpdatePendingCategory(context.Background(), "nope", "Shopping")
	assert.True(t, errors.Is(err, common.ErrPendingNotFound))
}

func TestMigrateIsIdempotent(t *testing.T) {
	store := setupTestDB(t)
	require.NoError(t, store.Migrate(context.Background()))
}
