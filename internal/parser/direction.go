package parser

import (
	"strings"

	"github.com/ndquangr/moneymind/internal/model"
)

// Income is checked before expense: the first keyword set with any hit wins.
// Bank notifications name credits explicitly, so income markers are the
// stronger signal when both appear.
// A literal plus is deliberately not a keyword: plus signs count only when
// captured next to the amount, otherwise hotline numbers flip direction.
var incomeKeywords = []string{
	"credit", "deposit", "salary", "refund", "hoan tien", "hoàn tiền",
	"nhan duoc", "nhận được", "nhan tien", "nhận tiền", "ghi co", "ghi có",
	"tien vao", "tiền vào", "received", "income", "luong", "lương",
	"add income",
}

var expenseKeywords = []string{
	"debit", "withdrawal", "purchase", "payment", "da chuyen", "đã chuyển",
	"ghi no", "ghi nợ", "tien ra", "tiền ra", "thanh toan", "thanh toán",
	"chi tieu", "chi tiêu", "mua", "spent", "paid", "bought", "trừ",
	"add expense",
}

// resolveType picks the transaction direction. An explicit captured sign
// wins; otherwise income keywords are scanned before expense keywords;
// otherwise expense. The negative-numeric-token override is applied by the
// caller after this, per the detection contract.
func resolveType(sign, searchText string) model.TransactionType {
	switch sign {
	case "+":
		return model.TypeIncome
	case "-":
		return model.TypeExpense
	}

	lower := strings.ToLower(searchText)
	for _, kw := range incomeKeywords {
		if strings.Contains(lower, kw) {
			return model.TypeIncome
		}
	}
	for _, kw := range expenseKeywords {
		if strings.Contains(lower, kw) {
			return model.TypeExpense
		}
	}

	return model.TypeExpense
}
