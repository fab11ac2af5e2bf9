package fintab

import (
	"regexp"
	"strings"
)

// Label is a closed enumeration of the canonical financial line items
// this parser understands. Rows whose label resolves to LabelUnknown are
// dropped; matched and unmatched input stay statically distinguishable.
type Label int

const (
	LabelUnknown Label = iota
	LabelRevenue
	LabelTotalIncome
	LabelTotalExpenses
	LabelEBITDA
	LabelFinanceCosts
	LabelDepreciation
	LabelProfitBeforeTax
	LabelNetProfit
	LabelTotalAssets
	LabelCurrentAssets
	LabelTotalLiabilities
	LabelCurrentLiabilities
	LabelTotalEquity
	LabelCash
	LabelInventories
	LabelTradeReceivables
	LabelBorrowings
	LabelOperatingCashFlow
	LabelInvestingCashFlow
	LabelFinancingCashFlow
	LabelCapex
)

// Statement names; downstream consumers depend on these keys verbatim.
const (
	StatementBalanceSheet = "balance_sheet"
	StatementProfitLoss   = "profit_and_loss"
	StatementCashFlow     = "cash_flow"
)

type labelInfo struct {
	key       string
	statement string
}

var labelInfos = map[Label]labelInfo{
	LabelRevenue:            {"revenue", StatementProfitLoss},
	LabelTotalIncome:        {"total_income", StatementProfitLoss},
	LabelTotalExpenses:      {"total_expenses", StatementProfitLoss},
	LabelEBITDA:             {"ebitda", StatementProfitLoss},
	LabelFinanceCosts:       {"finance_costs", StatementProfitLoss},
	LabelDepreciation:       {"depreciation", StatementProfitLoss},
	LabelProfitBeforeTax:    {"profit_before_tax", StatementProfitLoss},
	LabelNetProfit:          {"net_profit", StatementProfitLoss},
	LabelTotalAssets:        {"total_assets", StatementBalanceSheet},
	LabelCurrentAssets:      {"current_assets", StatementBalanceSheet},
	LabelTotalLiabilities:   {"total_liabilities", StatementBalanceSheet},
	LabelCurrentLiabilities: {"current_liabilities", StatementBalanceSheet},
	LabelTotalEquity:        {"total_equity", StatementBalanceSheet},
	LabelCash:               {"cash_and_equivalents", StatementBalanceSheet},
	LabelInventories:        {"inventories", StatementBalanceSheet},
	LabelTradeReceivables:   {"trade_receivables", StatementBalanceSheet},
	LabelBorrowings:         {"borrowings", StatementBalanceSheet},
	LabelOperatingCashFlow:  {"operating_cash_flow", StatementCashFlow},
	LabelInvestingCashFlow:  {"investing_cash_flow", StatementCashFlow},
	LabelFinancingCashFlow:  {"financing_cash_flow", StatementCashFlow},
	LabelCapex:              {"capex", StatementCashFlow},
}

// Key returns the canonical mapping key, e.g. "revenue".
func (l Label) Key() string { return labelInfos[l].key }

// Statement returns which statement the label belongs to.
func (l Label) Statement() string { return labelInfos[l].statement }

// synonym matching is ordered: more specific phrases first, so that
// "total revenue from operations" never lands on a shorter match, and
// composite headers like "total equity and liabilities" are explicitly
// discarded before "total equity" could claim them.
type synonym struct {
	phrase string
	label  Label
}

var synonyms = []synonym{
	{"total equity and liabilities", LabelUnknown},
	{"equity and liabilities", LabelUnknown},

	{"net cash generated from operating activities", LabelOperatingCashFlow},
	{"net cash from operating activities", LabelOperatingCashFlow},
	{"cash generated from operations", LabelOperatingCashFlow},
	{"net cash used in investing activities", LabelInvestingCashFlow},
	{"net cash from investing activities", LabelInvestingCashFlow},
	{"net cash used in financing activities", LabelFinancingCashFlow},
	{"net cash from financing activities", LabelFinancingCashFlow},
	{"purchase of property plant and equipment", LabelCapex},
	{"purchase of fixed assets", LabelCapex},
	{"capital expenditure", LabelCapex},
	{"capex", LabelCapex},

	{"total revenue from operations", LabelRevenue},
	{"revenue from operations", LabelRevenue},
	{"total revenue", LabelRevenue},
	{"net revenue", LabelRevenue},
	{"total income", LabelTotalIncome},
	{"total expenses", LabelTotalExpenses},
	{"earnings before interest tax depreciation and amortisation", LabelEBITDA},
	{"earnings before interest tax depreciation and amortization", LabelEBITDA},
	{"ebitda", LabelEBITDA},
	{"finance costs", LabelFinanceCosts},
	{"finance cost", LabelFinanceCosts},
	{"interest expense", LabelFinanceCosts},
	{"depreciation and amortisation", LabelDepreciation},
	{"depreciation and amortization", LabelDepreciation},
	{"depreciation", LabelDepreciation},
	{"profit before tax", LabelProfitBeforeTax},
	{"profit for the year", LabelNetProfit},
	{"profit for the period", LabelNetProfit},
	{"profit after tax", LabelNetProfit},
	{"net profit", LabelNetProfit},
	{"net income", LabelNetProfit},

	{"total current assets", LabelCurrentAssets},
	{"current assets", LabelCurrentAssets},
	{"total current liabilities", LabelCurrentLiabilities},
	{"current liabilities", LabelCurrentLiabilities},
	{"total assets", LabelTotalAssets},
	{"total liabilities", LabelTotalLiabilities},
	{"total equity", LabelTotalEquity},
	{"total shareholders funds", LabelTotalEquity},
	{"shareholders equity", LabelTotalEquity},
	{"net worth", LabelTotalEquity},
	{"cash and cash equivalents", LabelCash},
	{"cash and bank balances", LabelCash},
	{"inventories", LabelInventories},
	{"trade receivables", LabelTradeReceivables},
	{"total borrowings", LabelBorrowings},
	{"borrowings", LabelBorrowings},

	{"revenue", LabelRevenue},
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9 ]+`)
var spaces = regexp.MustCompile(`\s+`)

// NormalizeLabel case-folds, strips punctuation and collapses whitespace.
func NormalizeLabel(s string) string {
	s = strings.ToLower(s)
	s = nonAlnum.ReplaceAllString(s, " ")
	s = spaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// MatchLabel resolves raw row-label text against the synonym table.
func MatchLabel(raw string) Label {
	norm := NormalizeLabel(raw)
	if norm == "" {
		return LabelUnknown
	}
	for _, syn := range synonyms {
		if strings.Contains(norm, syn.phrase) {
			return syn.label
		}
	}
	return LabelUnknown
}
