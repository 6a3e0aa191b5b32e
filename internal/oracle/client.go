// Package oracle implements the external text-understanding clients
// consulted for free-form chat intent. Every oracle call is paired with a
// deterministic fallback by the engine; nothing here is load-bearing for
// correctness.
package oracle

import (
	"fmt"
	"strings"
	"time"

	"github.com/ndquangr/moneymind/internal/service"
)

// Config holds provider settings for an oracle client.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// intentSystemPrompt instructs the provider to answer with strict JSON so
// the response can be revalidated before acceptance.
const intentSystemPrompt = `You are a personal finance assistant. Decide whether the user's message expresses an intent to record a financial transaction. Respond with exactly one JSON object and nothing else.
If a transaction is expressed: {"intent":"add_transaction","amount":<positive number>,"currency":"<3-letter code>","type":"income"|"expense","category":"<category>","note":"<short description>"}
If not: {"intent":"none"}`

// NewClient creates an oracle client based on the configured provider.
// Returns (nil, nil) when no provider is configured: the engine then runs
// the deterministic path only.
func NewClient(cfg Config) (service.Oracle, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return newOpenAIClient(cfg)
	case "anthropic":
		return newAnthropicClient(cfg)
	case "", "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported oracle provider: %s", cfg.Provider)
	}
}
