// Package describe derives a human-readable transaction description from raw
// message text by stripping boilerplate the parsers have already consumed.
package describe

import (
	"regexp"
	"strings"
)

// Fallback labels per channel. The extractor never returns an empty or junk
// description; below minLength the channel fallback is used instead.
const (
	FallbackBank   = "Bank Transaction"
	FallbackWallet = "Wallet Transaction"
	FallbackChat   = "Chat Transaction"
)

const minLength = 5

// chatNarrativeThreshold is the length past which a chat message is treated
// as a transfer narrative rather than a short free-form note.
const chatNarrativeThreshold = 80

// labelTokens are fixed boilerplate prefixes removed case-insensitively.
var labelTokens = []string{
	"GD:",
	"Giao dich:",
	"Transaction:",
	"So du:",
	"Số dư:",
	"So tien:",
	"Số tiền:",
	"Balance:",
	"Amount:",
	"TK:",
	"Tai khoan:",
	"Tài khoản:",
	"Ref:",
}

var (
	// Amounts with an optional sign and an adjacent currency marker, plus any
	// bare signed number the normalizer may have consumed.
	amountPattern = regexp.MustCompile(`[-+]?\d[\d.,]*\s*(?:VND|USD|EUR|GBP|JPY|INR|AUD|CAD|SGD|₫|đ|\$|€|£|¥|₹)`)
	signedPattern = regexp.MustCompile(`[-+]\d[\d.,]*`)
	datePattern   = regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{4}\b`)
	timePattern   = regexp.MustCompile(`\b\d{1,2}:\d{2}\b`)
	spacePattern  = regexp.MustCompile(`\s+`)

	// Transfer narratives carry the interesting clause after one of these
	// markers; everything before it is routing boilerplate.
	narrativeMarkers = []string{"noi dung:", "nội dung:", "nd:", "content:", "memo:"}
	narrativeShape   = regexp.MustCompile(`(?i)\b(chuyen khoan|chuyển khoản|transfer|ck)\b`)
)

// Extract strips labels, amounts, dates and times from text and collapses
// whitespace. Returns fallback when too little text survives.
func Extract(text, fallback string) string {
	cleaned := text
	for _, label := range labelTokens {
		cleaned = removeToken(cleaned, label)
	}

	cleaned = amountPattern.ReplaceAllString(cleaned, " ")
	cleaned = signedPattern.ReplaceAllString(cleaned, " ")
	cleaned = datePattern.ReplaceAllString(cleaned, " ")
	cleaned = timePattern.ReplaceAllString(cleaned, " ")

	cleaned = strings.TrimSpace(spacePattern.ReplaceAllString(cleaned, " "))
	cleaned = strings.Trim(cleaned, ".-: ")

	if len(cleaned) < minLength {
		return fallback
	}
	return cleaned
}

// ExtractChat behaves like Extract but for long transfer narratives keeps
// only the clause after a recognized marker instead of truncating blindly.
func ExtractChat(text string) string {
	if len(text) > chatNarrativeThreshold && narrativeShape.MatchString(text) {
		lower := strings.ToLower(text)
		for _, marker := range narrativeMarkers {
			if idx := strings.Index(lower, marker); idx >= 0 {
				clause := text[idx+len(marker):]
				return Extract(clause, FallbackChat)
			}
		}
	}
	return Extract(text, FallbackChat)
}

// removeToken removes every case-insensitive occurrence of token.
func removeToken(text, token string) string {
	lowerToken := strings.ToLower(token)
	for {
		idx := strings.Index(strings.ToLower(text), lowerToken)
		if idx < 0 {
			return text
		}
		text = text[:idx] + " " + text[idx+len(token):]
	}
}
