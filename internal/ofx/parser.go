// Package ofx parses OFX/QFX statement files into transactions so bank
// exports can be loaded alongside message-detected activity.
package ofx

import (
	"context"
	"fmt"
	"hash/fnv"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"

	"github.com/ndquangr/moneymind/internal/category"
	"github.com/ndquangr/moneymind/internal/model"
)

// Parser implements OFX/QFX file parsing.
type Parser struct {
	homeCurrency string
}

// NewParser creates an OFX parser. homeCurrency is used when a statement
// carries no currency of its own.
func NewParser(homeCurrency string) *Parser {
	if homeCurrency == "" {
		homeCurrency = "VND"
	}
	return &Parser{homeCurrency: homeCurrency}
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	// Fix mixed-case SEVERITY values (should be INFO, WARN, or ERROR)
	severityRegex := regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// Fix missing closing angle brackets in SGML-style OFX files
	tagFixRegex := regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
	content = tagFixRegex.ReplaceAllString(content, "$1>")

	return content
}

// ParseFile parses an OFX/QFX file and returns transactions.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) ([]model.Transaction, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var transactions []model.Transaction
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			bankStmts++
			currency := statementCurrency(stmt.CurDef.String(), p.homeCurrency)
			transactions = append(transactions,
				p.convertList(stmt.BankTranList, string(stmt.BankAcctFrom.AcctID), currency)...)
		}
	}

	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			ccStmts++
			currency := statementCurrency(stmt.CurDef.String(), p.homeCurrency)
			transactions = append(transactions,
				p.convertList(stmt.BankTranList, string(stmt.CCAcctFrom.AcctID), currency)...)
		}
	}

	slog.Info("Parsed OFX file",
		"total_transactions", len(transactions),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return transactions, nil
}

func (p *Parser) convertList(list *ofxgo.TransactionList, accountID, currency string) []model.Transaction {
	if list == nil {
		return nil
	}

	var transactions []model.Transaction
	for _, ofxTx := range list.Transactions {
		transactions = append(transactions, p.convert(ofxTx, accountID, currency))
	}
	return transactions
}

// convert maps one OFX transaction into the domain model. OFX amounts are
// signed, negative for money out.
func (p *Parser) convert(ofxTx ofxgo.Transaction, accountID, currency string) model.Transaction {
	amount, _ := ofxTx.TrnAmt.Float64()
	txType := model.TypeIncome
	if amount < 0 {
		amount = -amount
		txType = model.TypeExpense
	}

	description := extractMerchantName(ofxTx)

	return model.Transaction{
		Date:        ofxTx.DtPosted.Time,
		Type:        txType,
		Amount:      amount,
		Currency:    currency,
		Description: description,
		Category:    classifyStatement(ofxTx, description),
		BankName:    accountID,
		Source:      model.SourceImport,
		MessageID:   statementFingerprint(accountID, string(ofxTx.FiTID)),
	}
}

// classifyStatement reuses the keyword classifier over the merchant text,
// falling back to hints in the OFX transaction type.
func classifyStatement(ofxTx ofxgo.Transaction, description string) string {
	if got := category.Classify(description, ""); got != "" {
		return got
	}
	switch fmt.Sprintf("%v", ofxTx.TrnType) {
	case "INT":
		return "Salary"
	case "ATM", "CASH":
		return "ATM/Cash"
	case "FEE", "SRVCHG":
		return "Bills & Utilities"
	default:
		return category.DefaultOther
	}
}

// statementFingerprint derives a dedup key from the statement identity
// fields. FiTID is unique per account in well-formed files; hashing keeps
// the key shape identical to message fingerprints.
func statementFingerprint(accountID, fitID string) string {
	h := fnv.New64a()
	fmt.Fprintf(h, "ofx|%s|%s", accountID, fitID)
	return fmt.Sprintf("%016x", h.Sum64())
}

func statementCurrency(curDef, fallback string) string {
	curDef = strings.ToUpper(strings.TrimSpace(curDef))
	if len(curDef) == 3 {
		return curDef
	}
	return fallback
}

// extractMerchantName tries to get a clean merchant name from OFX data.
func extractMerchantName(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return string(tx.Payee.Name)
	}

	name := string(tx.Name)

	// Sometimes MEMO has better merchant info than a generic NAME.
	if tx.Memo != "" && isGenericDescription(name) {
		name = string(tx.Memo)
	}

	name = strings.TrimSpace(name)

	prefixes := []string{
		"POS PURCHASE ",
		"PURCHASE AUTHORIZED ON ",
		"DEBIT CARD PURCHASE ",
		"ACH DEBIT ",
		"CHECK CARD ",
		"VISA PURCHASE ",
		"MC PURCHASE ",
		"DEBIT PURCHASE ",
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// Strip leading "MM/DD " date fragments.
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	if name == "" {
		return "Imported transaction"
	}
	return name
}

// isGenericDescription checks if a transaction name is too generic.
func isGenericDescription(name string) bool {
	generic := []string{
		"DEBIT",
		"CREDIT",
		"PURCHASE",
		"PAYMENT",
		"POS TRANSACTION",
		"CARD PURCHASE",
	}

	upperName := strings.ToUpper(name)
	for _, g := range generic {
		if upperName == g {
			return true
		}
	}
	return false
}
