package fintab

import (
	"math"
	"testing"
)

func TestParseAmount_Formats(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"1234", 1234},
		{"1,234.50", 1234.50},
		{"(1,234.50)", -1234.50},
		{"-250", -250},
		{"1.234,56", 1234.56},
		{"12,34,567", 1234567},
		{"₹500", 500},
		{"Rs.500", 500},
		{"5.2Cr", 52000000},
		{"3 Lakhs", 300000},
		{"2.5Mn", 2500000},
		{"1Bn", 1000000000},
		{"10K", 10000},
	}
	for _, tc := range cases {
		got, ok := ParseAmount(tc.in)
		if !ok {
			t.Errorf("ParseAmount(%q): expected ok", tc.in)
			continue
		}
		if math.Abs(got-tc.want) > 1e-6 {
			t.Errorf("ParseAmount(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseAmount_Rejects(t *testing.T) {
	for _, in := range []string{"", "Particulars", "FY23", "12abc", "...", "-"} {
		if _, ok := ParseAmount(in); ok {
			t.Errorf("ParseAmount(%q): expected not ok", in)
		}
	}
}

func TestParseToken_SuffixedFlag(t *testing.T) {
	_, suffixed, ok := parseToken("5Cr")
	if !ok || !suffixed {
		t.Errorf("parseToken(5Cr) = suffixed %v ok %v, want true true", suffixed, ok)
	}
	_, suffixed, ok = parseToken("1,234")
	if !ok || suffixed {
		t.Errorf("parseToken(1,234) = suffixed %v ok %v, want false true", suffixed, ok)
	}
}

func TestDetectScale(t *testing.T) {
	cases := []struct {
		in    string
		mult  float64
		label string
	}{
		{"Restated Summary Statements (₹ in Crores)", 1e7, "crore"},
		{"(Rs. in Lakhs)", 1e5, "lakh"},
		{"Amounts in millions unless stated otherwise", 1e6, "million"},
		{"All figures audited", 1, ""},
	}
	for _, tc := range cases {
		mult, label := DetectScale(tc.in)
		if mult != tc.mult || label != tc.label {
			t.Errorf("DetectScale(%q) = %v %q, want %v %q", tc.in, mult, label, tc.mult, tc.label)
		}
	}
}
