package oracle

import (
	"errors"
	"strings"
	"testing"

	"github.com/ndquangr/moneymind/internal/common"
	"github.com/ndquangr/moneymind/internal/model"
)

func TestParseIntent(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		wantNil     bool
		wantErr     bool
		wantType    model.TransactionType
		wantAmount  float64
		wantCat     string
		wantCurrenc string
	}{
		{
			name:        "valid income",
			content:     `{"intent":"add_transaction","amount":10,"currency":"USD","type":"income","category":"Other","note":"from mom"}`,
			wantType:    model.TypeIncome,
			wantAmount:  10,
			wantCat:     "Other",
			wantCurrenc: "USD",
		},
		{
			name:    "declines",
			content: `{"intent":"none"}`,
			wantNil: true,
		},
		{
			name:        "code fence stripped",
			content:     "```json\n{\"intent\":\"add_transaction\",\"amount\":5,\"currency\":\"usd\",\"type\":\"expense\",\"category\":\"Food & Dining\",\"note\":\"coffee\"}\n```",
			wantType:    model.TypeExpense,
			wantAmount:  5,
			wantCat:     "Food & Dining",
			wantCurrenc: "USD",
		},
		{
			name:    "zero amount is malformed",
			content: `{"intent":"add_transaction","amount":0,"currency":"USD","type":"income","category":"Other"}`,
			wantErr: true,
		},
		{
			name:    "negative amount is malformed",
			content: `{"intent":"add_transaction","amount":-3,"currency":"USD","type":"expense","category":"Other"}`,
			wantErr: true,
		},
		{
			name:    "unknown type is malformed",
			content: `{"intent":"add_transaction","amount":3,"currency":"USD","type":"loan","category":"Other"}`,
			wantErr: true,
		},
		{
			name:    "not json is malformed",
			content: "Sure! I added a transaction of $10 for you.",
			wantErr: true,
		},
		{
			name:    "unknown intent is malformed",
			content: `{"intent":"chitchat"}`,
			wantErr: true,
		},
		{
			name:       "unknown category mapped to default",
			content:    `{"intent":"add_transaction","amount":7,"currency":"EUR","type":"expense","category":"Gadgets"}`,
			wantType:   model.TypeExpense,
			wantAmount: 7,
			wantCat:    "Other",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent, err := parseIntent(tt.content)
			if tt.wantErr {
				if !errors.Is(err, common.ErrMalformedIntent) {
					t.Fatalf("parseIntent error = %v, want ErrMalformedIntent", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantNil {
				if intent != nil {
					t.Fatalf("intent = %+v, want nil for declined", intent)
				}
				return
			}
			if intent.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", intent.Type, tt.wantType)
			}
			if intent.Amount != tt.wantAmount {
				t.Errorf("Amount = %v, want %v", intent.Amount, tt.wantAmount)
			}
			if intent.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", intent.Category, tt.wantCat)
			}
			if tt.wantCurrenc != "" && intent.Currency != tt.wantCurrenc {
				t.Errorf("Currency = %q, want %q", intent.Currency, tt.wantCurrenc)
			}
		})
	}
}

func TestCannedAnswer(t *testing.T) {
	tests := []struct {
		text     string
		fragment string
	}{
		{"how do I set a budget?", "50/30/20"},
		{"tips for saving money", "emergency fund"},
		{"should I invest in stocks", "index funds"},
		{"I have too much debt", "highest rate"},
		{"hello there", "record transactions"},
	}

	for _, tt := range tests {
		got := CannedAnswer(tt.text)
		if got == "" {
			t.Fatalf("CannedAnswer(%q) returned empty answer", tt.text)
		}
		if !strings.Contains(strings.ToLower(got), strings.ToLower(tt.fragment)) {
			t.Errorf("CannedAnswer(%q) = %q, want it to mention %q", tt.text, got, tt.fragment)
		}
	}
}
