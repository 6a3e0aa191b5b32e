// Package category maps free transaction text onto a fixed category taxonomy
// using ordered keyword tables.
package category

import "strings"

// Default labels when no keyword matches. SMS and chat use DefaultOther while
// the email parser historically used DefaultGeneral; both are kept so the
// per-channel behavior is configuration, not accident.
const (
	DefaultOther   = "Other"
	DefaultGeneral = "General"
)

// Entry pairs a category with its trigger keywords. Keywords are matched as
// case-insensitive substrings.
type Entry struct {
	Category string
	Keywords []string
}

// Table is the ordered taxonomy. The first category with any keyword hit
// wins, so table order is the tie-break rule for overlapping keywords and
// must not be reordered.
var Table = []Entry{
	{
		Category: "Food & Dining",
		Keywords: []string{
			"restaurant", "coffee", "cafe", "food", "lunch", "dinner", "breakfast",
			"pizza", "kfc", "mcdonald", "highlands", "starbucks", "phuc long",
			"an uong", "quan an", "nha hang", "com trua", "tra sua",
			"grabfood", "shopeefood", "baemin",
		},
	},
	{
		Category: "Transport",
		Keywords: []string{
			"grab", "gojek", "be.com", "taxi", "uber", "bus", "metro", "xang",
			"petrol", "fuel", "parking", "gui xe", "ve xe", "airline", "vietjet",
			"flight", "grab*trip",
		},
	},
	{
		Category: "Shopping",
		Keywords: []string{
			"shopee", "lazada", "tiki", "sendo", "amazon", "mall", "store",
			"sieu thi", "supermarket", "circle k", "winmart", "bach hoa",
			"mua sam", "shopping", "clothes", "fashion",
		},
	},
	{
		Category: "Bills & Utilities",
		Keywords: []string{
			"electric", "tien dien", "evn", "water", "tien nuoc", "internet",
			"fpt", "viettel", "vnpt", "mobifone", "vinaphone", "phone bill",
			"hoa don", "utility", "rent", "tien nha", "tien thue",
		},
	},
	{
		Category: "Entertainment",
		Keywords: []string{
			"netflix", "spotify", "youtube", "cinema", "cgv", "lotte cinema",
			"game", "steam", "karaoke", "movie", "phim", "giai tri",
		},
	},
	{
		Category: "Health & Medical",
		Keywords: []string{
			"hospital", "benh vien", "pharmacy", "nha thuoc", "clinic",
			"phong kham", "doctor", "bac si", "thuoc", "medical", "pharmacity",
		},
	},
	{
		Category: "ATM/Cash",
		Keywords: []string{
			"atm", "rut tien", "cash withdrawal", "withdraw", "nap tien mat",
		},
	},
	{
		// Salary precedes Transfer so that "salary transfer" notifications
		// resolve to Salary.
		Category: "Salary",
		Keywords: []string{
			"salary", "luong", "payroll", "thuong", "bonus", "tien luong",
		},
	},
	{
		Category: "Transfer",
		Keywords: []string{
			"chuyen khoan", "chuyen tien", "transfer", "ck den", "ck di",
			"nhan tien", "momo transfer", "zalopay",
		},
	},
}

// Classify returns the first category whose keyword list hits the text, or
// defaultLabel when nothing matches. Total: never returns an empty string.
func Classify(text, defaultLabel string) string {
	lower := strings.ToLower(text)

	for _, entry := range Table {
		for _, keyword := range entry.Keywords {
			if strings.Contains(lower, keyword) {
				return entry.Category
			}
		}
	}

	return defaultLabel
}

// Names returns the closed taxonomy, including both no-match defaults. Used
// to validate categories coming back from the oracle or a user override.
func Names() []string {
	names := make([]string, 0, len(Table)+2)
	for _, entry := range Table {
		names = append(names, entry.Category)
	}
	names = append(names, DefaultOther, DefaultGeneral)
	return names
}

// Valid reports whether name is a member of the taxonomy.
func Valid(name string) bool {
	for _, n := range Names() {
		if n == name {
			return true
		}
	}
	return false
}
