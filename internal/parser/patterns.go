// Package parser implements the per-channel transaction detection cascades.
// Each channel runs an ordered list of regex patterns against raw text; the
// first pattern that matches wins, so list order is a deliberate priority
// order, not an accident.
package parser

import "regexp"

// Candidate is the raw yield of one pattern match: an optional explicit sign
// character, the numeric token, and an optional currency token. Empty fields
// are resolved downstream.
type Candidate struct {
	Sign     string
	Amount   string
	Currency string
	Pattern  string
}

// Pattern is one entry in a detection cascade. The index fields name which
// submatch carries each token; zero means the pattern does not capture it.
type Pattern struct {
	re       *regexp.Regexp
	Name     string
	sign     int
	amount   int
	currency int
}

// Match runs the pattern against text and returns the captured candidate.
func (p *Pattern) Match(text string) (Candidate, bool) {
	m := p.re.FindStringSubmatch(text)
	if m == nil {
		return Candidate{}, false
	}

	c := Candidate{Pattern: p.Name}
	if p.sign > 0 {
		c.Sign = m[p.sign]
	}
	if p.amount > 0 {
		c.Amount = m[p.amount]
	}
	if p.currency > 0 {
		c.Currency = m[p.currency]
	}
	return c, true
}

// firstMatch evaluates a cascade in order and returns the first hit.
func firstMatch(patterns []Pattern, text string) (Candidate, bool) {
	for i := range patterns {
		if c, ok := patterns[i].Match(text); ok {
			return c, true
		}
	}
	return Candidate{}, false
}

const (
	currencyAlt = `VND|USD|EUR|GBP|JPY|INR|AUD|CAD|SGD|₫|đ|\$|€|£|¥|₹`
	symbolAlt   = `A\$|C\$|S\$|\$|€|£|₫|¥|₹`
	numberTok   = `\d[\d.,]*`
)

// smsPatterns is the SMS cascade, most specific labeled forms first, generic
// amount+currency catch-all last.
var smsPatterns = []Pattern{
	{
		Name: "labeled-amount",
		re: regexp.MustCompile(`(?i)(?:GD|Giao dich|So tien|Số tiền|PS|Transaction)[:\s]+([+-]?)\s*(` + numberTok + `)\s*(` + currencyAlt + `)`),
		sign: 1, amount: 2, currency: 3,
	},
	{
		Name: "credit-debit-amount",
		re: regexp.MustCompile(`(?i)(?:Credit|Debit|Ghi co|Ghi no)[:\s]+([+-]?)\s*(` + numberTok + `)\s*(` + currencyAlt + `)`),
		sign: 1, amount: 2, currency: 3,
	},
	{
		Name: "signed-amount-currency",
		re: regexp.MustCompile(`([+-])\s?(` + numberTok + `)\s*(` + currencyAlt + `)`),
		sign: 1, amount: 2, currency: 3,
	},
	{
		Name: "symbol-amount",
		re: regexp.MustCompile(`(` + symbolAlt + `)\s?(` + numberTok + `)`),
		currency: 1, amount: 2,
	},
	{
		Name: "amount-currency",
		re: regexp.MustCompile(`(?i)(` + numberTok + `)\s*(` + currencyAlt + `)`),
		amount: 1, currency: 2,
	},
}

// emailPatterns adds the labeled forms bank and wallet notification emails
// use; otherwise the shape mirrors the SMS cascade.
var emailPatterns = []Pattern{
	{
		Name: "labeled-amount",
		re: regexp.MustCompile(`(?i)(?:So tien|Số tiền|Amount|Gia tri|Giá trị|Value)[:\s]+([+-]?)\s*(` + numberTok + `)\s*(` + currencyAlt + `)`),
		sign: 1, amount: 2, currency: 3,
	},
	{
		Name: "payment-amount",
		re: regexp.MustCompile(`(?i)(?:thanh toan|thanh toán|payment of|paid|charged)\s+([+-]?)\s*(` + numberTok + `)\s*(` + currencyAlt + `)`),
		sign: 1, amount: 2, currency: 3,
	},
	{
		Name: "signed-amount-currency",
		re: regexp.MustCompile(`([+-])\s?(` + numberTok + `)\s*(` + currencyAlt + `)`),
		sign: 1, amount: 2, currency: 3,
	},
	{
		Name: "symbol-amount",
		re: regexp.MustCompile(`(` + symbolAlt + `)\s?(` + numberTok + `)`),
		currency: 1, amount: 2,
	},
	{
		Name: "amount-currency",
		re: regexp.MustCompile(`(?i)(` + numberTok + `)\s*(` + currencyAlt + `)`),
		amount: 1, currency: 2,
	},
}

// chatPatterns handles loose free-text phrasing. Symbol-adjacent amounts are
// the most reliable signal, then verb-anchored amounts, then bare
// amount+currency.
var chatPatterns = []Pattern{
	{
		Name: "symbol-amount",
		re: regexp.MustCompile(`(` + symbolAlt + `)\s?(` + numberTok + `)`),
		currency: 1, amount: 2,
	},
	{
		Name: "amount-symbol",
		re: regexp.MustCompile(`(` + numberTok + `)\s?(` + symbolAlt + `)`),
		amount: 1, currency: 2,
	},
	{
		Name: "verb-amount",
		re: regexp.MustCompile(`(?i)(?:spent|paid|bought|added|mua|tra|chi|ghi)\s+([+-]?)\s*(` + numberTok + `)\s*(` + currencyAlt + `)?`),
		sign: 1, amount: 2, currency: 3,
	},
	{
		Name: "amount-currency",
		re: regexp.MustCompile(`(?i)(` + numberTok + `)\s*(` + currencyAlt + `)`),
		amount: 1, currency: 2,
	},
}
