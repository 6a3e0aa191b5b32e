package parser

import "strings"

// providerKind distinguishes bank senders from e-wallet senders; email
// provenance tags depend on it.
type providerKind int

const (
	kindBank providerKind = iota
	kindWallet
)

// provider is one known bank or wallet identity signal.
type provider struct {
	// match is a lowercase substring looked up in the sender identity
	// (SMS brandname, phone number prefix, or email address).
	match string
	name  string
	kind  providerKind
}

// providerTable maps sender identity signals to display names. Substring
// matching keeps one entry serving both "VIETCOMBANK" brandnames and
// "no-reply@vietcombank.com.vn" addresses.
var providerTable = []provider{
	{match: "vietcombank", name: "Vietcombank", kind: kindBank},
	{match: "vcb", name: "Vietcombank", kind: kindBank},
	{match: "techcombank", name: "Techcombank", kind: kindBank},
	{match: "tcb", name: "Techcombank", kind: kindBank},
	{match: "vietinbank", name: "VietinBank", kind: kindBank},
	{match: "bidv", name: "BIDV", kind: kindBank},
	{match: "agribank", name: "Agribank", kind: kindBank},
	{match: "mbbank", name: "MB Bank", kind: kindBank},
	{match: "mb bank", name: "MB Bank", kind: kindBank},
	{match: "vpbank", name: "VPBank", kind: kindBank},
	{match: "acb", name: "ACB", kind: kindBank},
	{match: "sacombank", name: "Sacombank", kind: kindBank},
	{match: "tpbank", name: "TPBank", kind: kindBank},
	{match: "hsbc", name: "HSBC", kind: kindBank},
	{match: "citibank", name: "Citibank", kind: kindBank},
	{match: "momo", name: "MoMo", kind: kindWallet},
	{match: "zalopay", name: "ZaloPay", kind: kindWallet},
	{match: "shopeepay", name: "ShopeePay", kind: kindWallet},
	{match: "viettelpay", name: "ViettelPay", kind: kindWallet},
	{match: "paypal", name: "PayPal", kind: kindWallet},
}

// lookupProvider matches a sender identity against the known provider table.
func lookupProvider(sender string) (provider, bool) {
	lower := strings.ToLower(sender)
	for _, p := range providerTable {
		if strings.Contains(lower, p.match) {
			return p, true
		}
	}
	return provider{}, false
}

// providerLabel resolves the bankOrWalletName field: known provider name,
// else the raw sender, else a generic label.
func providerLabel(sender string, fallback string) string {
	if p, ok := lookupProvider(sender); ok {
		return p.name
	}
	if s := strings.TrimSpace(sender); s != "" {
		return s
	}
	return fallback
}

// transactionVocabulary are body keywords that let a message from an unknown
// sender through the gate. The sender whitelist is advisory, not exclusive.
var transactionVocabulary = []string{
	"gd:", "giao dich", "so du", "số dư", "balance", "credit", "debit",
	"transaction", "so tien", "số tiền", "chuyen khoan", "chuyển khoản",
	"thanh toan", "thanh toán", "payment", "transfer", "withdraw",
	"rut tien", "nap tien", "ghi co", "ghi no",
}

// hasTransactionVocabulary reports whether the text carries strong
// transaction wording.
func hasTransactionVocabulary(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range transactionVocabulary {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// chatIntentKeywords gate the chat regex fallback: only messages phrased as
// an explicit expense/income entry are parsed deterministically. Looser
// phrasing ("my mom gave me...") is the oracle's job.
var chatIntentKeywords = []string{
	"spent", "paid", "bought", "add expense", "add income", "added",
	"mua", "tra", "chi", "them giao dich", "ghi",
}

func hasChatIntent(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range chatIntentKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
