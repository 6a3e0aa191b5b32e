package engine

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
	"github.com/ndquangr/moneymind/internal/storage"
)

func newTestEngine(t *testing.T, oracleClient service.Oracle) *Engine {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))

	cfg := DefaultConfig()
	cfg.OracleTimeout = 200 * time.Millisecond
	return New(store, oracleClient, cfg)
}

const bankSMS = "GD: -150,000 VND tai GRAB*TRIP Ho Chi Minh luc 14:30 25/08/2026. So du: 2,350,000 VND"

func TestProcessSMSDetectsTransaction(t *testing.T) {
	eng := newTestEngine(t, nil)
	ctx := context.Background()

	var detected []model.PendingTransaction
	eng.OnDetected(func(p model.PendingTransaction) {
		detected = append(detected, p)
	})

	result, err := eng.ProcessSMS(ctx, "Vietcombank", bankSMS, time.Now())
	require.NoError(t, err)
	require.NotNil(t, result.Pending)
	assert.False(t, result.Duplicate)

	txn := result.Pending.Transaction
	assert.Equal(t, model.TypeExpense, txn.Type)
	assert.Equal(t, float64(150000), txn.Amount)
	assert.Equal(t, "VND", txn.Currency)
	assert.Equal(t, "Vietcombank", txn.BankName)
	assert.Equal(t, model.SourceSMS, txn.Source)

	require.Len(t, detected, 1)
	assert.Equal(t, result.Pending.ID, detected[0].ID)

	pending, err := eng.ListPending(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestProcessSMSNonTransactional(t *testing.T) {
	eng := newTestEngine(t, nil)

	result, err := eng.ProcessSMS(context.Background(), "Vietcombank",
		"Chuc mung nam moi! Vietcombank kinh chuc quy khach mot nam an khang thinh vuong.", time.Now())
	require.NoError(t, err)
	assert.Nil(t, result.Pending)
	assert.False(t, result.Duplicate)
}

func TestDuplicateMessageSuppressed(t *testing.T) {
	eng := newTestEngine(t, nil)
	ctx := context.Background()

	calls := 0
	eng.OnDetected(func(model.PendingTransaction) { calls++ })

	receivedAt := time.Date(2026, 8, 25, 14, 30, 0, 0, time.UTC)

	first, err := eng.ProcessSMS(ctx, "Vietcombank", bankSMS, receivedAt)
	require.NoError(t, err)
	require.NotNil(t, first.Pending)

	second, err := eng.ProcessSMS(ctx, "Vietcombank", bankSMS, receivedAt)
	require.NoError(t, err)
	assert.Nil(t, second.Pending)
	assert.True(t, second.Duplicate)

	assert.Equal(t, 1, calls)

	// A different delivery time is a different message.
	third, err := eng.ProcessSMS(ctx, "Vietcombank", bankSMS, receivedAt.Add(time.Hour))
	require.NoError(t, err)
	require.NotNil(t, third.Pending)
	assert.Equal(t, 2, calls)
}

func TestDuplicateSurvivesResolution(t *testing.T) {
	eng := newTestEngine(t, nil)
	ctx := context.Background()

	receivedAt := time.Date(2026, 8, 25, 14, 30, 0, 0, time.UTC)
	first, err := eng.ProcessSMS(ctx, "Vietcombank", bankSMS, receivedAt)
	require.NoError(t, err)
	require.NoError(t, eng.Save(ctx, first.Pending.ID))

	// Resolution clears the pending row but not the fingerprint.
	again, err := eng.ProcessSMS(ctx, "Vietcombank", bankSMS, receivedAt)
	require.NoError(t, err)
	assert.True(t, again.Duplicate)

	txns, err := eng.Transactions(ctx, service.TransactionFilter{})
	require.NoError(t, err)
	assert.Len(t, txns, 1)
}

func TestSavePersistsTransaction(t *testing.T) {
	eng := newTestEngine(t, nil)
	ctx := context.Background()

	var resolved []model.ResolutionOutcome
	eng.OnResolved(func(_ string, outcome model.ResolutionOutcome) {
		resolved = append(resolved, outcome)
	})

	result, err := eng.ProcessSMS(ctx, "Vietcombank", bankSMS, time.Now())
	require.NoError(t, err)

	require.NoError(t, eng.Save(ctx, result.Pending.ID))

	txns, err := eng.Transactions(ctx, service.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, result.Pending.Transaction.Category, txns[0].Category)

	pending, err := eng.ListPending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	require.Equal(t, []model.ResolutionOutcome{model.OutcomeSaved}, resolved)
}

func TestSaveWithCategoryOverrides(t *testing.T) {
	eng := newTestEngine(t, nil)
	ctx := context.Background()

	result, err := eng.ProcessSMS(ctx, "Vietcombank", bankSMS, time.Now())
	require.NoError(t, err)

	require.NoError(t, eng.SaveWithCategory(ctx, result.Pending.ID, "Shopping"))

	txns, err := eng.Transactions(ctx, service.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "Shopping", txns[0].Category)
}

func TestSaveWithUnknownCategoryRejected(t *testing.T) {
	eng := newTestEngine(t, nil)
	ctx := context.Background()

	result, err := eng.ProcessSMS(ctx, "Vietcombank", bankSMS, time.Now())
	require.NoError(t, err)

	err = eng.SaveWithCategory(ctx, result.Pending.ID, "Gadgets")
	require.Error(t, err)

	var userErr *common.UserError
	assert.True(t, errors.As(err, &userErr))

	// The item must still be pending after a rejected resolution.
	pending, err := eng.ListPending(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestChangeCategoryKeepsPending(t *testing.T) {
	eng := newTestEngine(t, nil)
	ctx := context.Background()

	result, err := eng.ProcessSMS(ctx, "Vietcombank", bankSMS, time.Now())
	require.NoError(t, err)

	require.NoError(t, eng.ChangeCategory(ctx, result.Pending.ID, "Entertainment"))

	pending, err := eng.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "Entertainment", pending[0].Transaction.Category)

	txns, err := eng.Transactions(ctx, service.TransactionFilter{})
	require.NoError(t, err)
	assert.Empty(t, txns)
}

func TestResolutionIsExclusiveAndFinal(t *testing.T) {
	eng := newTestEngine(t, nil)
	ctx := context.Background()

	result, err := eng.ProcessSMS(ctx, "Vietcombank", bankSMS, time.Now())
	require.NoError(t, err)
	id := result.Pending.ID

	require.NoError(t, eng.Skip(ctx, id))

	// Skip is terminal: nothing reached the transaction store and a later
	// save must not resurrect the item.
	err = eng.Save(ctx, id)
	assert.ErrorIs(t, err, common.ErrAlreadyResolved)

	err = eng.Skip(ctx, id)
	assert.ErrorIs(t, err, common.ErrAlreadyResolved)

	err = eng.ChangeCategory(ctx, id, "Shopping")
	assert.ErrorIs(t, err, common.ErrAlreadyResolved)

	txns, err := eng.Transactions(ctx, service.TransactionFilter{})
	require.NoError(t, err)
	assert.Empty(t, txns)
}

func TestResolveUnknownPending(t *testing.T) {
	eng := newTestEngine(t, nil)

	err := eng.Save(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, common.ErrAlreadyResolved)
}

func TestProcessChatOracleIntent(t *testing.T) {
	oracle := &mockOracle{intent: &service.Intent{
		Type:     model.TypeIncome,
		Amount:   10,
		Currency: "USD",
		Category: "Other",
		Note:     "from mom for lunch",
	}}
	eng := newTestEngine(t, oracle)

	result, err := eng.ProcessChat(context.Background(), "user-1", "my mom just gave me $10 for lunch")
	require.NoError(t, err)
	require.NotNil(t, result.Pending)
	assert.NotEmpty(t, result.Reply)

	txn := result.Pending.Transaction
	assert.Equal(t, model.TypeIncome, txn.Type)
	assert.Equal(t, float64(10), txn.Amount)
	assert.Equal(t, "USD", txn.Currency)
	assert.Equal(t, model.SourceChat, txn.Source)
	assert.Equal(t, 1, oracle.calls)
}

func TestProcessChatOracleDeclines(t *testing.T) {
	oracle := &mockOracle{intent: nil}
	eng := newTestEngine(t, oracle)

	result, err := eng.ProcessChat(context.Background(), "user-1", "how do I set a budget?")
	require.NoError(t, err)
	assert.Nil(t, result.Pending)
	assert.Contains(t, result.Reply, "50/30/20")
}

func TestProcessChatOracleErrorFallsBack(t *testing.T) {
	oracle := &mockOracle{err: errors.New("upstream unavailable")}
	eng := newTestEngine(t, oracle)

	// The deterministic cascade still detects explicit phrasing.
	result, err := eng.ProcessChat(context.Background(), "user-1", "spent 50,000 VND on lunch")
	require.NoError(t, err)
	require.NotNil(t, result.Pending)
	assert.Equal(t, model.TypeExpense, result.Pending.Transaction.Type)
	assert.Equal(t, float64(50000), result.Pending.Transaction.Amount)
}

// A repeated chat message is suppressed by the identity store but still gets
// an answer; the chat channel never goes silent.
func TestProcessChatDuplicateStillAnswered(t *testing.T) {
	eng := newTestEngine(t, nil)
	eng.now = func() time.Time { return time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	first, err := eng.ProcessChat(ctx, "user-1", "spent 50,000 VND on lunch")
	require.NoError(t, err)
	require.NotNil(t, first.Pending)
	assert.NotEmpty(t, first.Reply)

	second, err := eng.ProcessChat(ctx, "user-1", "spent 50,000 VND on lunch")
	require.NoError(t, err)
	assert.Nil(t, second.Pending)
	assert.True(t, second.Duplicate)
	assert.NotEmpty(t, second.Reply)
}

func TestProcessChatOracleTimeoutFallsBack(t *testing.T) {
	oracle := &mockOracle{hang: true}
	eng := newTestEngine(t, oracle)

	start := time.Now()
	result, err := eng.ProcessChat(context.Background(), "user-1", "hello there")
	require.NoError(t, err)
	assert.Nil(t, result.Pending)
	assert.NotEmpty(t, result.Reply)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestProcessChatNoOracle(t *testing.T) {
	eng := newTestEngine(t, nil)

	result, err := eng.ProcessChat(context.Background(), "user-1", "what should I do about debt")
	require.NoError(t, err)
	assert.Nil(t, result.Pending)
	assert.NotEmpty(t, result.Reply)
}

func TestProcessChatMalformedOracleIgnored(t *testing.T) {
	// A zero-amount intent never reaches the engine from a real client, but
	// the engine revalidates anyway.
	oracle := &mockOracle{intent: &service.Intent{
		Type:     model.TypeExpense,
		Amount:   0,
		Currency: "USD",
		Category: "Other",
	}}
	eng := newTestEngine(t, oracle)

	result, err := eng.ProcessChat(context.Background(), "user-1", "hmm")
	require.NoError(t, err)
	assert.Nil(t, result.Pending)
	assert.NotEmpty(t, result.Reply)
}

func TestPollerSingleFlight(t *testing.T) {
	started := make(chan struct{}, 8)
	release := make(chan struct{})

	poller := NewPoller(10*time.Millisecond, func(ctx context.Context) error {
		started <- struct{}{}
		select {
		case <-release:
		case <-ctx.Done():
		}
		return nil
	})

	poller.Start(context.Background())

	<-started
	// Several intervals elapse while the first pass is blocked; no second
	// pass may begin.
	time.Sleep(50 * time.Millisecond)
	select {
	case <-started:
		t.Fatal("overlapping poll pass started")
	default:
	}

	close(release)
	poller.Stop()
}

func TestPollerStopBeforeStart(t *testing.T) {
	poller := NewPoller(time.Second, func(context.Context) error { return nil })
	poller.Stop()
}
