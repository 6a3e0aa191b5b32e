// Package engine wires the detection pipeline: parse, dedup, enrich, queue
// for review, resolve. One engine instance per process, constructed at
// startup and injected wherever inbound events arrive.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ndquangr/moneymind/internal/category"
	"github.com/ndquangr/moneymind/internal/common"
	"github.com/ndquangr/moneymind/internal/describe"
	"github.com/ndquangr/moneymind/internal/model"
	"github.com/ndquangr/moneymind/internal/oracle"
	"github.com/ndquangr/moneymind/internal/parser"
	"github.com/ndquangr/moneymind/internal/service"
)

// Config holds configuration options for the engine.
type Config struct {
	HomeCurrency  string
	UserID        string
	OracleTimeout time.Duration
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		HomeCurrency:  "VND",
		UserID:        "default",
		OracleTimeout: 10 * time.Second,
	}
}

// DetectedFunc is notified once per newly detected, non-duplicate
// transaction.
type DetectedFunc func(pending model.PendingTransaction)

// ResolvedFunc is notified when a pending transaction reaches a terminal
// state.
type ResolvedFunc func(pendingID string, outcome model.ResolutionOutcome)

// Engine orchestrates detection and review. The dedup store is only touched
// from the host's serialized event handling, so no locking is needed here.
type Engine struct {
	storage     service.Storage
	oracle      service.Oracle
	smsParser   *parser.Parser
	emailParser *parser.Parser
	chatParser  *parser.Parser
	cfg         Config
	onDetected  DetectedFunc
	onResolved  ResolvedFunc

	// now stamps inbound chat messages and detections; replaceable in tests.
	now func() time.Time
}

// New creates an engine with the given dependencies. oracleClient may be nil
// to run the deterministic path only.
func New(storage service.Storage, oracleClient service.Oracle, cfg Config) *Engine {
	if cfg.HomeCurrency == "" {
		cfg.HomeCurrency = "VND"
	}
	if cfg.UserID == "" {
		cfg.UserID = "default"
	}
	if cfg.OracleTimeout <= 0 {
		cfg.OracleTimeout = 10 * time.Second
	}

	return &Engine{
		storage:     storage,
		oracle:      oracleClient,
		smsParser:   parser.NewSMS(cfg.HomeCurrency),
		emailParser: parser.NewEmail(cfg.HomeCurrency),
		chatParser:  parser.NewChat(cfg.HomeCurrency),
		cfg:         cfg,
		now:         time.Now,
	}
}

// OnDetected registers the detection event hook.
func (e *Engine) OnDetected(fn DetectedFunc) {
	e.onDetected = fn
}

// OnResolved registers the resolution event hook.
func (e *Engine) OnResolved(fn ResolvedFunc) {
	e.onResolved = fn
}

// DetectResult reports what one inbound message produced.
type DetectResult struct {
	// Pending is set when a new transaction entered the review queue.
	Pending *model.PendingTransaction
	// Reply is the chat answer; set for every chat-channel message,
	// including duplicates, and empty for SMS and email.
	Reply string
	// Duplicate marks a message suppressed by the identity store.
	Duplicate bool
}

// ProcessSMS runs an inbound SMS through the pipeline.
func (e *Engine) ProcessSMS(ctx context.Context, sender, body string, receivedAt time.Time) (*DetectResult, error) {
	msg := &model.RawMessage{
		Channel:    model.ChannelSMS,
		Sender:     sender,
		Body:       body,
		ReceivedAt: receivedAt,
	}
	return e.processDeterministic(ctx, msg, e.smsParser)
}

// ProcessEmail runs an inbound email through the pipeline.
func (e *Engine) ProcessEmail(ctx context.Context, sender, subject, body string, receivedAt time.Time) (*DetectResult, error) {
	msg := &model.RawMessage{
		Channel:    model.ChannelEmail,
		Sender:     sender,
		Subject:    subject,
		Body:       body,
		ReceivedAt: receivedAt,
	}
	return e.processDeterministic(ctx, msg, e.emailParser)
}

// ProcessChat handles a chat message: oracle pre-pass when configured, then
// the deterministic cascade, then a canned answer. A chat message is never
// left unanswered.
func (e *Engine) ProcessChat(ctx context.Context, userID, text string) (*DetectResult, error) {
	msg := &model.RawMessage{
		Channel:    model.ChannelChat,
		Sender:     userID,
		Body:       text,
		ReceivedAt: e.now(),
	}

	if e.oracle != nil {
		if txn, ok := e.oracleDetect(ctx, msg); ok {
			result, err := e.queue(ctx, txn)
			if err != nil {
				return nil, err
			}
			e.setChatReply(result, txn)
			return result, nil
		}
	}

	txn, err := e.chatParser.Parse(msg)
	if errors.Is(err, common.ErrNoMatch) {
		return &DetectResult{Reply: oracle.CannedAnswer(text)}, nil
	}
	if err != nil {
		return nil, err
	}

	result, err := e.queue(ctx, txn)
	if err != nil {
		return nil, err
	}
	e.setChatReply(result, txn)
	return result, nil
}

// setChatReply fills the conversational acknowledgement after queueing. A
// duplicate still gets an answer: the never-unanswered contract holds on the
// chat channel even when the identity store suppresses the message.
func (e *Engine) setChatReply(result *DetectResult, txn *model.Transaction) {
	switch {
	case result.Duplicate:
		result.Reply = "I already recorded that one; nothing was added twice."
	case result.Pending != nil:
		result.Reply = fmt.Sprintf("Got it - %s of %s %s. Save it?",
			txn.Type, formatAmount(txn.Amount), txn.Currency)
	}
}

// oracleDetect runs the AI-intent pre-pass with a hard timeout. Any oracle
// failure, timeout, or malformed response falls through to the
// deterministic path; those are never surfaced as errors.
func (e *Engine) oracleDetect(ctx context.Context, msg *model.RawMessage) (*model.Transaction, bool) {
	octx, cancel := context.WithTimeout(ctx, e.cfg.OracleTimeout)
	defer cancel()

	intent, err := e.oracle.DetectIntent(octx, msg.Body)
	if err != nil {
		common.LogDebug("Oracle pre-pass discarded", common.Fields{"error": err})
		return nil, false
	}
	if intent == nil {
		return nil, false
	}

	currency := intent.Currency
	if currency == "" {
		currency = e.cfg.HomeCurrency
	}

	description := intent.Note
	if len(description) < 5 {
		description = describe.ExtractChat(msg.Body)
	}

	cat := intent.Category
	if !category.Valid(cat) {
		cat = category.DefaultOther
	}

	txn := &model.Transaction{
		Date:        msg.ReceivedAt,
		Type:        intent.Type,
		Amount:      intent.Amount,
		Currency:    currency,
		Category:    cat,
		Description: description,
		BankName:    "Chat",
		Source:      model.SourceChat,
		MessageID:   msg.Fingerprint(),
	}

	// Oracle output obeys the same contract as the regex cascade.
	if err := txn.Validate(); err != nil {
		common.LogDebug("Oracle intent failed validation", common.Fields{"error": err})
		return nil, false
	}

	return txn, true
}

// processDeterministic is the SMS/email pipeline: parse, dedup, queue.
func (e *Engine) processDeterministic(ctx context.Context, msg *model.RawMessage, p *parser.Parser) (*DetectResult, error) {
	txn, err := p.Parse(msg)
	if errors.Is(err, common.ErrNoMatch) {
		// Expected for most inbound text.
		common.LogDebug("No transaction detected", common.Fields{"channel": msg.Channel})
		return &DetectResult{}, nil
	}
	if err != nil {
		return nil, err
	}

	return e.queue(ctx, txn)
}

// queue runs dedup and moves a detected transaction into the review set.
// The fingerprint write must be confirmed before the detection event fires,
// so a crash cannot cause the same message to emit twice.
func (e *Engine) queue(ctx context.Context, txn *model.Transaction) (*DetectResult, error) {
	seen, err := e.storage.IsFingerprintSeen(ctx, txn.MessageID)
	if err != nil {
		return nil, fmt.Errorf("dedup check failed: %w", err)
	}
	if seen {
		common.LogDebug("Duplicate message suppressed", common.Fields{"fingerprint": txn.MessageID})
		return &DetectResult{Duplicate: true}, nil
	}

	pending := &model.PendingTransaction{
		ID:          txn.MessageID,
		DetectedAt:  e.now(),
		Transaction: *txn,
	}

	if err := e.storage.SavePending(ctx, pending); err != nil {
		return nil, fmt.Errorf("failed to queue pending transaction: %w", err)
	}

	if err := e.storage.MarkFingerprintSeen(ctx, txn.MessageID); err != nil {
		return nil, fmt.Errorf("failed to mark fingerprint: %w", err)
	}

	slog.Info("Transaction detected",
		"pending_id", pending.ID,
		"amount", txn.Amount,
		"currency", txn.Currency,
		"type", txn.Type,
		"category", txn.Category,
		"source", txn.Source)

	if e.onDetected != nil {
		e.onDetected(*pending)
	}

	return &DetectResult{Pending: pending}, nil
}

func formatAmount(amount float64) string {
	if amount == float64(int64(amount)) {
		return fmt.Sprintf("%d", int64(amount))
	}
	return fmt.Sprintf("%.2f", amount)
}
