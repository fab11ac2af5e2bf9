// Package fintab extracts financial statement line items from the text
// layer of a prospectus and normalizes them against a fixed canonical
// vocabulary.
package fintab

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/finlens/finlens/internal/document"
)

// ErrNoFinancialData means zero canonical labels matched anywhere in the
// document; the upload is likely not a financial prospectus.
var ErrNoFinancialData = errors.New("no financial data found")

// Result is the parsed statement model.
type Result struct {
	Statements map[string]document.Statement
	// Periods in detected header order, most recent first. Synthetic
	// labels ("current", "previous", ...) when no header row was found.
	Periods    []string
	Scale      float64
	ScaleLabel string
}

// PeriodRank orders periods by recency: 0 is the most recent. Unknown
// periods sort last.
func (r *Result) PeriodRank(period string) int {
	for i, p := range r.Periods {
		if p == period {
			return i
		}
	}
	return len(r.Periods)
}

var syntheticPeriods = []string{"current", "previous", "prior", "prior-1", "prior-2"}

// periodToken matches fiscal-year style column headers: FY23, FY 2023,
// 2022-23, or a bare calendar year.
var periodToken = regexp.MustCompile(`^(?:FY\s?\d{2}(?:\d{2})?|(?:19|20)\d{2}(?:-\d{2,4})?)$`)

// noiseLine drops signature blocks and similar non-statement rows that
// carry stray numbers (directors' identification numbers and the like).
var noiseLine = regexp.MustCompile(`(?i)\b(DIN|Partner|Director|Chartered Accountants|LLP|CFO|Company Secretary|Membership No)\b`)

// Parse scans every page for statement rows of the form
// "<label> <numeric tokens...>". The scan is streamed page by page and
// honors ctx at page boundaries so a canceled analysis never leaves a
// half-populated statement visible to callers.
func Parse(ctx context.Context, pages []document.Page) (*Result, error) {
	res := &Result{
		Statements: map[string]document.Statement{},
		Scale:      1,
	}
	for _, p := range pages {
		if res.Scale == 1 {
			res.Scale, res.ScaleLabel = DetectScale(p.Text)
		}
		if res.Scale != 1 {
			break
		}
	}

	matched := 0
	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var periods []string // from the last header row on this page
		for _, line := range strings.Split(page.Text, "\n") {
			line = strings.TrimSpace(line)
			if line == "" || noiseLine.MatchString(line) {
				continue
			}
			if hdr := parsePeriodHeader(line); hdr != nil {
				periods = hdr
				res.mergePeriods(hdr)
				continue
			}
			if res.parseRow(line, periods) {
				matched++
			}
		}
	}

	if matched == 0 {
		return nil, ErrNoFinancialData
	}
	if len(res.Periods) == 0 {
		// Rows existed but no header row anywhere; synthetic period
		// labels were assigned in document order.
		res.Periods = collectSyntheticPeriods(res.Statements)
	}
	return res, nil
}

// parsePeriodHeader recognizes a row made (mostly) of period labels,
// e.g. "Particulars FY23 FY22 FY21". Returns the periods in row order,
// which prospectuses print most-recent first.
func parsePeriodHeader(line string) []string {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return nil
	}
	var periods []string
	other := 0
	for _, f := range fields {
		f = strings.Trim(f, ",;:")
		if periodToken.MatchString(f) {
			periods = append(periods, f)
		} else if _, _, ok := parseToken(f); !ok {
			other++
		}
	}
	// At least two period columns, and the row must be dominated by them
	// (one leading "Particulars"-style word is tolerated).
	if len(periods) >= 2 && other <= 1 {
		return periods
	}
	return nil
}

func (r *Result) mergePeriods(hdr []string) {
	for _, p := range hdr {
		if r.PeriodRank(p) == len(r.Periods) {
			r.Periods = append(r.Periods, p)
		}
	}
}

// parseRow splits a line into "<label> <values...>" where the values are
// the maximal run of parseable numeric tokens at the end of the line.
// Rows with no canonical label are dropped silently.
func (r *Result) parseRow(line string, periods []string) bool {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return false
	}

	type tok struct {
		value    float64
		suffixed bool
	}
	var values []tok
	end := len(fields)
	for end > 0 {
		v, suffixed, ok := parseToken(fields[end-1])
		if !ok {
			break
		}
		values = append([]tok{{v, suffixed}}, values...)
		end--
	}
	if len(values) == 0 || end == 0 {
		return false
	}

	label := MatchLabel(strings.Join(fields[:end], " "))
	if label == LabelUnknown {
		return false
	}

	// Associate values with periods. With a detected header row the
	// first token is the latest period; when a row carries more tokens
	// than there are periods, the extras are restated-period duplicates
	// and the first token stays canonical, with the remaining periods
	// filled right-to-left. Without a header, document order decides.
	cols := periods
	if len(cols) == 0 {
		cols = r.Periods
	}
	if len(cols) == 0 {
		n := len(values)
		if n > len(syntheticPeriods) {
			n = len(syntheticPeriods)
		}
		cols = syntheticPeriods[:n]
	}

	assigned := map[string]float64{}
	switch {
	case len(values) >= len(cols):
		assigned[cols[0]] = values[0].value * r.rowScale(values[0].suffixed)
		extra := values[len(values)-(len(cols)-1):]
		for i := 1; i < len(cols); i++ {
			v := extra[i-1]
			assigned[cols[i]] = v.value * r.rowScale(v.suffixed)
		}
	default:
		// Fewer values than periods: align right-to-left.
		offset := len(cols) - len(values)
		for i, v := range values {
			assigned[cols[offset+i]] = v.value * r.rowScale(v.suffixed)
		}
	}

	stmt, ok := r.Statements[label.Statement()]
	if !ok {
		stmt = document.Statement{Name: label.Statement(), Items: map[string]document.LineItem{}}
		r.Statements[label.Statement()] = stmt
	}
	item, ok := stmt.Items[label.Key()]
	if !ok {
		item = document.LineItem{Label: label.Key(), Values: map[string]float64{}}
	}
	for period, v := range assigned {
		// First occurrence wins; later restatements of the same label
		// and period never overwrite.
		if _, exists := item.Values[period]; !exists {
			item.Values[period] = v
		}
	}
	stmt.Items[label.Key()] = item
	return true
}

// rowScale applies the document-level unit multiplier, but never on top
// of a token's own suffix.
func (r *Result) rowScale(suffixed bool) float64 {
	if suffixed {
		return 1
	}
	return r.Scale
}

func collectSyntheticPeriods(statements map[string]document.Statement) []string {
	present := map[string]bool{}
	for _, stmt := range statements {
		for _, item := range stmt.Items {
			for p := range item.Values {
				present[p] = true
			}
		}
	}
	var out []string
	for _, p := range syntheticPeriods {
		if present[p] {
			out = append(out, p)
		}
	}
	// Anything else (shouldn't happen) keeps a stable order at the end.
	for p := range present {
		if !contains(out, p) {
			out = append(out, p)
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// String implements fmt.Stringer for debugging.
func (r *Result) String() string {
	return fmt.Sprintf("fintab.Result{statements=%d periods=%v scale=%g}",
		len(r.Statements), r.Periods, r.Scale)
}
