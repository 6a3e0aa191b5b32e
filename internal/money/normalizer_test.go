package money

import (
	"errors"
	"testing"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		want     float64
		negative bool
		wantErr  bool
	}{
		{name: "comma grouping", raw: "150,000", want: 150000},
		{name: "dot grouping", raw: "2.500.000", want: 2500000},
		{name: "comma grouping with decimal", raw: "1,234.56", want: 1234.56},
		{name: "dot grouping with comma decimal", raw: "1.234,56", want: 1234.56},
		{name: "plain integer", raw: "45000", want: 45000},
		{name: "plain decimal", raw: "10.50", want: 10.5},
		{name: "comma decimal", raw: "10,50", want: 10.5},
		{name: "negative token", raw: "-150,000", want: 150000, negative: true},
		{name: "explicit plus", raw: "+5,000,000", want: 5000000},
		{name: "embedded symbol", raw: "45,000 VND", want: 45000},
		{name: "zero", raw: "0", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
		{name: "not a number", raw: "abc", wantErr: true},
		{name: "bare separator", raw: ",", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrNoAmount) {
					t.Fatalf("ParseAmount(%q) error = %v, want ErrNoAmount", tt.raw, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAmount(%q) unexpected error: %v", tt.raw, err)
			}
			if got.Value != tt.want {
				t.Errorf("ParseAmount(%q) = %v, want %v", tt.raw, got.Value, tt.want)
			}
			if got.Negative != tt.negative {
				t.Errorf("ParseAmount(%q) negative = %v, want %v", tt.raw, got.Negative, tt.negative)
			}
		})
	}
}

func TestResolveCurrency(t *testing.T) {
	tests := []struct {
		token    string
		fallback string
		want     string
	}{
		{"$", "VND", "USD"},
		{"A$", "VND", "AUD"},
		{"C$", "VND", "CAD"},
		{"S$", "VND", "SGD"},
		{"€", "VND", "EUR"},
		{"£", "VND", "GBP"},
		{"₫", "USD", "VND"},
		{"đ", "USD", "VND"},
		{"¥", "VND", "JPY"},
		{"₹", "VND", "INR"},
		{"usd", "VND", "USD"},
		{"VND", "USD", "VND"},
		{"", "VND", "VND"},
		{"??", "VND", "VND"},
	}

	for _, tt := range tests {
		if got := ResolveCurrency(tt.token, tt.fallback); got != tt.want {
			t.Errorf("ResolveCurrency(%q, %q) = %q, want %q", tt.token, tt.fallback, got, tt.want)
		}
	}
}

func TestNormalizeHomeCurrencyDefault(t *testing.T) {
	amount, currency, err := Normalize("150,000", "", "GD: -150,000 tai GRAB", "VND")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if currency != "VND" {
		t.Errorf("currency = %q, want home currency VND", currency)
	}
	if amount.Value != 150000 {
		t.Errorf("amount = %v, want 150000", amount.Value)
	}
}

func TestNormalizeExplicitCodeOverridesDefault(t *testing.T) {
	_, currency, err := Normalize("99", "", "paid 99 USD at store", "VND")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if currency != "USD" {
		t.Errorf("currency = %q, want USD from body text", currency)
	}
}

func TestNormalizeSymbolInText(t *testing.T) {
	_, currency, err := Normalize("10", "", "my mom just gave me $10 for lunch", "VND")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if currency != "USD" {
		t.Errorf("currency = %q, want USD from $ symbol", currency)
	}
}
