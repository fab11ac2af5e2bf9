package fintab

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/finlens/finlens/internal/document"
)

func parseText(t *testing.T, texts ...string) *Result {
	t.Helper()
	var pages []document.Page
	for i, txt := range texts {
		pages = append(pages, document.Page{Number: i + 1, Text: txt})
	}
	res, err := Parse(context.Background(), pages)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return res
}

func itemValue(t *testing.T, res *Result, stmt, key, period string) float64 {
	t.Helper()
	s, ok := res.Statements[stmt]
	if !ok {
		t.Fatalf("statement %q missing, have %v", stmt, res.Statements)
	}
	item, ok := s.Items[key]
	if !ok {
		t.Fatalf("item %q missing from %q", key, stmt)
	}
	v, ok := item.Values[period]
	if !ok {
		t.Fatalf("period %q missing from %q, have %v", period, key, item.Values)
	}
	return v
}

func TestParse_HeaderPeriodsAndRows(t *testing.T) {
	res := parseText(t,
		"Particulars FY23 FY22\n"+
			"Revenue from operations 1,000.00 800.00\n"+
			"Profit for the year 100.00 80.00\n"+
			"Total assets 2,500.00 2,100.00")

	if len(res.Periods) != 2 || res.Periods[0] != "FY23" || res.Periods[1] != "FY22" {
		t.Fatalf("expected periods [FY23 FY22], got %v", res.Periods)
	}
	if v := itemValue(t, res, StatementProfitLoss, "revenue", "FY23"); v != 1000 {
		t.Errorf("revenue FY23 = %v, want 1000", v)
	}
	if v := itemValue(t, res, StatementProfitLoss, "revenue", "FY22"); v != 800 {
		t.Errorf("revenue FY22 = %v, want 800", v)
	}
	if v := itemValue(t, res, StatementBalanceSheet, "total_assets", "FY23"); v != 2500 {
		t.Errorf("total_assets FY23 = %v, want 2500", v)
	}
}

func TestParse_MoreValuesThanPeriods(t *testing.T) {
	// Three numeric columns against two periods: the first value stays
	// with the latest period and the tail fills the rest.
	res := parseText(t,
		"Particulars FY23 FY22\n"+
			"Revenue from operations 1,200 1,000 800")

	if v := itemValue(t, res, StatementProfitLoss, "revenue", "FY23"); v != 1200 {
		t.Errorf("revenue FY23 = %v, want 1200", v)
	}
	if v := itemValue(t, res, StatementProfitLoss, "revenue", "FY22"); v != 800 {
		t.Errorf("revenue FY22 = %v, want 800", v)
	}
}

func TestParse_FewerValuesThanPeriods(t *testing.T) {
	res := parseText(t,
		"Particulars FY23 FY22 FY21\n"+
			"Total borrowings 500 400")

	item := res.Statements[StatementBalanceSheet].Items["borrowings"]
	if _, ok := item.Values["FY23"]; ok {
		t.Errorf("expected FY23 unset with fewer values than periods, got %v", item.Values)
	}
	if v := itemValue(t, res, StatementBalanceSheet, "borrowings", "FY22"); v != 500 {
		t.Errorf("borrowings FY22 = %v, want 500", v)
	}
	if v := itemValue(t, res, StatementBalanceSheet, "borrowings", "FY21"); v != 400 {
		t.Errorf("borrowings FY21 = %v, want 400", v)
	}
}

func TestParse_FirstOccurrenceWins(t *testing.T) {
	res := parseText(t,
		"Particulars FY23 FY22\nRevenue from operations 1,000 800",
		"Particulars FY23 FY22\nRevenue from operations 999 700")

	if v := itemValue(t, res, StatementProfitLoss, "revenue", "FY23"); v != 1000 {
		t.Errorf("revenue FY23 = %v, want first occurrence 1000", v)
	}
}

func TestParse_SyntheticPeriodsWithoutHeader(t *testing.T) {
	res := parseText(t, "Revenue from operations 1,000 800")

	if len(res.Periods) != 2 || res.Periods[0] != "current" || res.Periods[1] != "previous" {
		t.Fatalf("expected synthetic periods [current previous], got %v", res.Periods)
	}
	if v := itemValue(t, res, StatementProfitLoss, "revenue", "current"); v != 1000 {
		t.Errorf("revenue current = %v, want 1000", v)
	}
}

func TestParse_DocumentScale(t *testing.T) {
	res := parseText(t,
		"Restated Financial Information (₹ in Crores)\n"+
			"Particulars FY23 FY22\n"+
			"Revenue from operations 10.50 8.40")

	if res.Scale != 1e7 || res.ScaleLabel != "crore" {
		t.Fatalf("expected crore scale, got %v %q", res.Scale, res.ScaleLabel)
	}
	if v := itemValue(t, res, StatementProfitLoss, "revenue", "FY23"); math.Abs(v-1.05e8) > 1 {
		t.Errorf("revenue FY23 = %v, want 1.05e8", v)
	}
}

func TestParse_SuffixedTokenNotDoubleScaled(t *testing.T) {
	res := parseText(t,
		"(₹ in Crores)\n"+
			"Particulars FY23 FY22\n"+
			"Total borrowings 5Cr 4Cr")

	if v := itemValue(t, res, StatementBalanceSheet, "borrowings", "FY23"); v != 5e7 {
		t.Errorf("borrowings FY23 = %v, want 5e7", v)
	}
}

func TestParse_NoiseLinesSkipped(t *testing.T) {
	res := parseText(t,
		"Particulars FY23 FY22\n"+
			"Revenue from operations 1,000 800\n"+
			"Membership No 423311 Partner DIN 00012345")

	if len(res.Statements[StatementProfitLoss].Items) != 1 {
		t.Errorf("expected only the revenue row, got %v", res.Statements)
	}
}

func TestParse_NoFinancialData(t *testing.T) {
	pages := []document.Page{{Number: 1, Text: "This prospectus describes the offer."}}
	_, err := Parse(context.Background(), pages)
	if !errors.Is(err, ErrNoFinancialData) {
		t.Fatalf("expected ErrNoFinancialData, got %v", err)
	}
}

func TestParse_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Parse(ctx, []document.Page{{Number: 1, Text: "Revenue from operations 1"}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestMatchLabel(t *testing.T) {
	cases := []struct {
		in   string
		want Label
	}{
		{"Revenue from Operations", LabelRevenue},
		{"Total Revenue from Operations", LabelRevenue},
		{"Profit for the year", LabelNetProfit},
		{"Total Equity and Liabilities", LabelUnknown},
		{"Total Equity", LabelTotalEquity},
		{"Net cash generated from operating activities", LabelOperatingCashFlow},
		{"Purchase of Property, Plant and Equipment", LabelCapex},
		{"Promoter Shareholding", LabelUnknown},
	}
	for _, tc := range cases {
		if got := MatchLabel(tc.in); got != tc.want {
			t.Errorf("MatchLabel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
