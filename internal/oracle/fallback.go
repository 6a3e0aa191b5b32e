package oracle

import "strings"

// cannedResponse is one keyword-triggered answer used when no transaction is
// detected and no oracle is reachable.
type cannedResponse struct {
	Keywords []string
	Answer   string
}

var cannedResponses = []cannedResponse{
	{
		Keywords: []string{"budget", "ngan sach", "ngân sách"},
		Answer: "A simple starting point is the 50/30/20 split: 50% of income on needs, " +
			"30% on wants, 20% on savings. Track a month of spending first so the split reflects reality.",
	},
	{
		Keywords: []string{"saving", "save money", "tiet kiem", "tiết kiệm"},
		Answer: "Automate it: move a fixed amount to a separate account right after payday. " +
			"An emergency fund of 3-6 months of expenses comes before anything else.",
	},
	{
		Keywords: []string{"invest", "dau tu", "đầu tư", "stock", "chung khoan"},
		Answer: "Before investing, clear high-interest debt and keep an emergency fund. " +
			"Low-cost index funds are the usual starting point; avoid anything you don't understand.",
	},
	{
		Keywords: []string{"debt", "loan", "no ", "khoan vay", "khoản vay", "tra gop", "trả góp"},
		Answer: "List every debt with its interest rate and pay minimums on all while putting " +
			"extra toward the highest rate first. Refinancing helps only if the total cost drops.",
	},
}

const defaultCannedAnswer = "I can record transactions for you - try something like " +
	`"spent 50,000 VND on lunch". I can also answer basic questions about budgeting, saving, investing, or debt.`

// CannedAnswer returns the deterministic response for a chat message that
// produced no transaction. Always returns a non-empty answer so no chat
// message goes unanswered.
func CannedAnswer(text string) string {
	lower := strings.ToLower(text)
	for _, c := range cannedResponses {
		for _, kw := range c.Keywords {
			if strings.Contains(lower, kw) {
				return c.Answer
			}
		}
	}
	return defaultCannedAnswer
}
