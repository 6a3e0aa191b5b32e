package oracle

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/ndquangr/moneymind/internal/category"
	"github.com/ndquangr/moneymind/internal/common"
	"github.com/ndquangr/moneymind/internal/model"
	"github.com/ndquangr/moneymind/internal/service"
)

// rawIntent is the wire shape a provider is asked to produce.
type rawIntent struct {
	Intent   string  `json:"intent"`
	Currency string  `json:"currency"`
	Type     string  `json:"type"`
	Category string  `json:"category"`
	Note     string  `json:"note"`
	Amount   float64 `json:"amount"`
}

// parseIntent revalidates a provider response before acceptance. A response
// that fails any check is discarded as malformed and the caller falls
// through to the deterministic path; (nil, nil) means the oracle decided no
// transaction is present.
func parseIntent(content string) (*service.Intent, error) {
	content = strings.TrimSpace(content)

	// Providers occasionally wrap the JSON in a code fence despite the
	// prompt; strip it rather than reject.
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var raw rawIntent
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, common.ErrMalformedIntent
	}

	switch raw.Intent {
	case "none":
		return nil, nil
	case "add_transaction":
	default:
		return nil, common.ErrMalformedIntent
	}

	// The positivity contract applies to oracle output exactly as it does
	// to the regex cascade.
	if raw.Amount <= 0 || math.IsInf(raw.Amount, 0) || math.IsNaN(raw.Amount) {
		return nil, common.ErrMalformedIntent
	}

	txType := model.TransactionType(strings.ToLower(raw.Type))
	if txType != model.TypeIncome && txType != model.TypeExpense {
		return nil, common.ErrMalformedIntent
	}

	currency := strings.ToUpper(strings.TrimSpace(raw.Currency))
	if len(currency) != 3 {
		currency = ""
	}

	cat := strings.TrimSpace(raw.Category)
	if !category.Valid(cat) {
		cat = category.DefaultOther
	}

	return &service.Intent{
		Type:     txType,
		Currency: currency,
		Category: cat,
		Note:     strings.TrimSpace(raw.Note),
		Amount:   raw.Amount,
	}, nil
}
