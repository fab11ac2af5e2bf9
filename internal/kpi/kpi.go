// Package kpi derives financial metrics and trend series from parsed
// statement line items. Missing inputs produce missing outputs, never
// sentinel values: a KPI that cannot be computed is simply absent.
package kpi

import (
	"math"
	"sort"

	"github.com/finlens/finlens/internal/document"
	"github.com/finlens/finlens/internal/fintab"
)

// precision is the fixed rounding applied to every reported value so
// output stays stable and comparison-friendly.
const precision = 2

// directKPIs are pass-through latest-period values.
var directKPIs = []string{
	"revenue",
	"net_profit",
	"total_assets",
	"total_liabilities",
	"cash_and_equivalents",
}

// Compute derives the full KPI mapping and trend series from parsed
// statements. It never fails; an empty input yields empty output.
func Compute(res *fintab.Result) (map[string]document.KPI, []document.TrendSeries) {
	kpis := map[string]document.KPI{}

	latest := func(key string) (float64, bool) { return latestValue(res, key) }

	for _, key := range directKPIs {
		if v, ok := latest(key); ok {
			kpis[key] = document.KPI{Name: key, Value: round(v), Unit: document.UnitCurrency}
		}
	}

	// Guarded ratios: omitted when the denominator is zero or missing.
	ratio(kpis, "net_margin", document.UnitRatio, latest, "net_profit", "revenue", 1)
	ratio(kpis, "debt_to_equity", document.UnitRatio, latest, "total_liabilities", "total_equity", 1)
	ratio(kpis, "current_ratio", document.UnitRatio, latest, "current_assets", "current_liabilities", 1)
	ratio(kpis, "return_on_equity_pct", document.UnitPercentage, latest, "net_profit", "total_equity", 100)
	ratio(kpis, "asset_turnover_ratio", document.UnitRatio, latest, "revenue", "total_assets", 1)
	ratio(kpis, "equity_to_assets_pct", document.UnitPercentage, latest, "total_equity", "total_assets", 100)

	if ocf, ok := latest("operating_cash_flow"); ok {
		if capex, ok := latest("capex"); ok {
			kpis["free_cash_flow"] = document.KPI{
				Name:  "free_cash_flow",
				Value: round(ocf - math.Abs(capex)),
				Unit:  document.UnitCurrency,
			}
		}
	}

	growth(kpis, res, "revenue", "revenue_growth_pct")
	growth(kpis, res, "net_profit", "net_profit_growth_pct")

	return kpis, trendSeries(res)
}

func ratio(kpis map[string]document.KPI, name string, unit document.KPIUnit,
	latest func(string) (float64, bool), numKey, denKey string, factor float64) {
	num, ok := latest(numKey)
	if !ok {
		return
	}
	den, ok := latest(denKey)
	if !ok || den == 0 {
		return
	}
	kpis[name] = document.KPI{Name: name, Value: round(num / den * factor), Unit: unit}
}

// growth adds "<key>_growth_pct" between the two most recent periods
// carrying the label; omitted with fewer than two periods or a zero base.
func growth(kpis map[string]document.KPI, res *fintab.Result, key, name string) {
	item, ok := findItem(res, key)
	if !ok {
		return
	}
	ordered := orderedPeriods(res, item)
	if len(ordered) < 2 {
		return
	}
	latest := item.Values[ordered[0]]
	previous := item.Values[ordered[1]]
	if previous == 0 {
		return
	}
	pct := (latest - previous) / math.Abs(previous) * 100
	kpis[name] = document.KPI{Name: name, Value: round(pct), Unit: document.UnitPercentage}
}

// trendSeries produces a period-ascending series for every canonical
// label with at least two periods of data.
func trendSeries(res *fintab.Result) []document.TrendSeries {
	var series []document.TrendSeries
	for _, stmtName := range []string{
		fintab.StatementBalanceSheet,
		fintab.StatementProfitLoss,
		fintab.StatementCashFlow,
	} {
		stmt, ok := res.Statements[stmtName]
		if !ok {
			continue
		}
		keys := make([]string, 0, len(stmt.Items))
		for k := range stmt.Items {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			item := stmt.Items[k]
			ordered := orderedPeriods(res, item)
			if len(ordered) < 2 {
				continue
			}
			ts := document.TrendSeries{Label: k}
			// orderedPeriods is most-recent first; trends ascend.
			for i := len(ordered) - 1; i >= 0; i-- {
				ts.Points = append(ts.Points, document.TrendPoint{
					Period: ordered[i],
					Value:  round(item.Values[ordered[i]]),
				})
			}
			series = append(series, ts)
		}
	}
	return series
}

// orderedPeriods returns the item's periods most-recent first, using the
// parser's detected header order.
func orderedPeriods(res *fintab.Result, item document.LineItem) []string {
	periods := make([]string, 0, len(item.Values))
	for p := range item.Values {
		periods = append(periods, p)
	}
	sort.Slice(periods, func(i, j int) bool {
		ri, rj := res.PeriodRank(periods[i]), res.PeriodRank(periods[j])
		if ri != rj {
			return ri < rj
		}
		return periods[i] > periods[j]
	})
	return periods
}

func findItem(res *fintab.Result, key string) (document.LineItem, bool) {
	for _, stmt := range res.Statements {
		if item, ok := stmt.Items[key]; ok {
			return item, true
		}
	}
	return document.LineItem{}, false
}

func latestValue(res *fintab.Result, key string) (float64, bool) {
	item, ok := findItem(res, key)
	if !ok {
		return 0, false
	}
	ordered := orderedPeriods(res, item)
	if len(ordered) == 0 {
		return 0, false
	}
	return item.Values[ordered[0]], true
}

func round(v float64) float64 {
	return math.Round(v*math.Pow10(precision)) / math.Pow10(precision)
}
