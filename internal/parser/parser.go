package parser

import (
	"github.com/ndquangr/moneymind/internal/category"
	"github.com/ndquangr/moneymind/internal/common"
	"github.com/ndquangr/moneymind/internal/describe"
	"github.com/ndquangr/moneymind/internal/model"
	"github.com/ndquangr/moneymind/internal/money"
)

// Parser runs one channel's detection cascade. All three channels share this
// engine; they differ only in pattern table, default category label, and
// description fallback, which is configuration rather than copied code.
type Parser struct {
	channel         model.Channel
	patterns        []Pattern
	defaultCategory string
	homeCurrency    string
	gate            func(msg *model.RawMessage) bool
}

// NewSMS returns the parser for bank SMS messages.
func NewSMS(homeCurrency string) *Parser {
	return &Parser{
		channel:         model.ChannelSMS,
		patterns:        smsPatterns,
		defaultCategory: category.DefaultOther,
		homeCurrency:    homeCurrency,
		gate: func(msg *model.RawMessage) bool {
			_, known := lookupProvider(msg.Sender)
			return known || hasTransactionVocabulary(msg.Body)
		},
	}
}

// NewEmail returns the parser for bank and e-wallet notification emails. The
// email channel historically defaults to "General" rather than "Other"; the
// divergence is preserved deliberately.
func NewEmail(homeCurrency string) *Parser {
	return &Parser{
		channel:         model.ChannelEmail,
		patterns:        emailPatterns,
		defaultCategory: category.DefaultGeneral,
		homeCurrency:    homeCurrency,
		gate: func(msg *model.RawMessage) bool {
			_, known := lookupProvider(msg.Sender)
			return known || hasTransactionVocabulary(msg.SearchText())
		},
	}
}

// NewChat returns the deterministic fallback parser for chat messages. It
// only fires on explicit expense/income phrasing; looser free text is the
// oracle's territory.
func NewChat(homeCurrency string) *Parser {
	return &Parser{
		channel:         model.ChannelChat,
		patterns:        chatPatterns,
		defaultCategory: category.DefaultOther,
		homeCurrency:    homeCurrency,
		gate: func(msg *model.RawMessage) bool {
			return hasChatIntent(msg.Body)
		},
	}
}

// Parse extracts a transaction from the message, or returns
// common.ErrNoMatch when none is present. ErrNoMatch is the expected outcome
// for most inbound text and never propagates as a failure.
func (p *Parser) Parse(msg *model.RawMessage) (*model.Transaction, error) {
	if !p.gate(msg) {
		return nil, common.ErrNoMatch
	}

	searchText := msg.SearchText()

	candidate, ok := firstMatch(p.patterns, searchText)
	if !ok {
		return nil, common.ErrNoMatch
	}

	amount, currency, err := money.Normalize(candidate.Amount, candidate.Currency, searchText, p.homeCurrency)
	if err != nil {
		return nil, common.ErrNoMatch
	}

	txType := resolveType(candidate.Sign, searchText)
	if amount.Negative {
		// A negative numeric token always means money out, whatever the
		// keywords said.
		txType = model.TypeExpense
	}

	txn := &model.Transaction{
		Date:        msg.ReceivedAt,
		Type:        txType,
		Amount:      amount.Value,
		Currency:    currency,
		Category:    category.Classify(searchText, p.defaultCategory),
		Description: p.description(msg),
		BankName:    p.bankName(msg),
		Source:      p.source(msg),
		MessageID:   msg.Fingerprint(),
	}

	return txn, nil
}

// Channel returns the channel this parser serves.
func (p *Parser) Channel() model.Channel {
	return p.channel
}

func (p *Parser) description(msg *model.RawMessage) string {
	switch p.channel {
	case model.ChannelChat:
		return describe.ExtractChat(msg.Body)
	case model.ChannelEmail:
		if p.isWallet(msg) {
			return describe.Extract(msg.SearchText(), describe.FallbackWallet)
		}
		return describe.Extract(msg.SearchText(), describe.FallbackBank)
	default:
		return describe.Extract(msg.Body, describe.FallbackBank)
	}
}

func (p *Parser) bankName(msg *model.RawMessage) string {
	switch p.channel {
	case model.ChannelChat:
		return "Chat"
	case model.ChannelEmail:
		if p.isWallet(msg) {
			return providerLabel(msg.Sender, "Wallet")
		}
		return providerLabel(msg.Sender, "Bank")
	default:
		return providerLabel(msg.Sender, "Bank")
	}
}

func (p *Parser) source(msg *model.RawMessage) model.SourceChannel {
	switch p.channel {
	case model.ChannelChat:
		return model.SourceChat
	case model.ChannelEmail:
		if p.isWallet(msg) {
			return model.SourceEmailWallet
		}
		return model.SourceEmailBank
	default:
		return model.SourceSMS
	}
}

func (p *Parser) isWallet(msg *model.RawMessage) bool {
	prov, ok := lookupProvider(msg.Sender)
	return ok && prov.kind == kindWallet
}
