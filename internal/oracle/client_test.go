package oracle

import (
	"errors"
	"testing"

	"github.com/ndquangr/moneymind/internal/common"
)

func TestNewClientMissingAPIKey(t *testing.T) {
	for _, provider := range []string{"anthropic", "openai"} {
		t.Run(provider, func(t *testing.T) {
			_, err := NewClient(Config{Provider: provider})
			if !errors.Is(err, common.ErrMissingConfig) {
				t.Errorf("NewClient(%s) = %v, want ErrMissingConfig", provider, err)
			}
		})
	}
}

func TestNewClientNoProvider(t *testing.T) {
	client, err := NewClient(Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client != nil {
		t.Error("expected nil client when no provider is configured")
	}
}

func TestNewClientUnsupportedProvider(t *testing.T) {
	_, err := NewClient(Config{Provider: "palantir"})
	if err == nil {
		t.Error("expected error for unsupported provider")
	}
}
