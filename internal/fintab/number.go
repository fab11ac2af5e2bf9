package fintab

import (
	"regexp"
	"strconv"
	"strings"
)

// suffixMultipliers maps trailing unit suffixes on numeric tokens to
// absolute multipliers. Indian reporting units (crore, lakh) sit next to
// the western ones because RHP filings mix both.
var suffixMultipliers = map[string]float64{
	"k":       1e3,
	"lakh":    1e5,
	"lakhs":   1e5,
	"lac":     1e5,
	"lacs":    1e5,
	"mn":      1e6,
	"million": 1e6,
	"cr":      1e7,
	"crore":   1e7,
	"crores":  1e7,
	"bn":      1e9,
	"billion": 1e9,
}

var currencyPrefix = strings.NewReplacer("₹", "", "$", "", "€", "", "£", "", "Rs.", "", "Rs", "", "INR", "")

// ParseAmount parses one numeric token as a currency figure. It handles
// parenthesized negatives, comma/period thousand and decimal separators
// in either locale convention, and trailing unit suffixes:
//
//	"(1,234.50)" → -1234.50
//	"1.234,56"   → 1234.56
//	"12,34,567"  → 1234567
//	"5.2Cr"      → 52000000
//
// The second result reports whether the token parsed at all.
func ParseAmount(tok string) (float64, bool) {
	v, _, ok := parseToken(tok)
	return v, ok
}

// parseToken additionally reports whether the token carried its own unit
// suffix, in which case a document-level scale must not be applied twice.
func parseToken(tok string) (value float64, suffixed bool, ok bool) {
	s := strings.TrimSpace(tok)
	if s == "" {
		return 0, false, false
	}

	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = s[1 : len(s)-1]
	}
	s = strings.TrimSpace(currencyPrefix.Replace(s))
	if strings.HasPrefix(s, "-") {
		neg = !neg
		s = s[1:]
	}

	mult := 1.0
	if suffix := trailingLetters(s); suffix != "" {
		m, known := suffixMultipliers[strings.ToLower(suffix)]
		if !known {
			return 0, false, false
		}
		mult = m
		suffixed = true
		s = strings.TrimSpace(s[:len(s)-len(suffix)])
	}

	s = normalizeSeparators(s)
	if s == "" {
		return 0, false, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, false
	}
	if neg {
		v = -v
	}
	return v * mult, suffixed, true
}

func trailingLetters(s string) string {
	i := len(s)
	for i > 0 {
		c := s[i-1]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			i--
			continue
		}
		break
	}
	return s[i:]
}

// normalizeSeparators resolves thousand vs decimal separators. When both
// appear the rightmost one is the decimal point; a lone comma followed by
// exactly one or two digits is read as a decimal comma, anything else as
// grouping.
func normalizeSeparators(s string) string {
	lastComma := strings.LastIndexByte(s, ',')
	lastDot := strings.LastIndexByte(s, '.')

	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastDot > lastComma {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		}
	case lastComma >= 0:
		frac := len(s) - lastComma - 1
		if strings.Count(s, ",") == 1 && (frac == 1 || frac == 2) {
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastDot >= 0:
		// Multiple dots means dotted grouping; keep only the last.
		if strings.Count(s, ".") > 1 {
			s = strings.ReplaceAll(s[:lastDot], ".", "") + s[lastDot:]
		}
	}
	if s == "" || !strings.ContainsAny(s, "0123456789") {
		return ""
	}
	return s
}

// scaleHint finds document-level unit declarations like "₹ in Crores" or
// "(Rs. in Lakhs)" and returns the implied multiplier with its label.
var scaleHint = regexp.MustCompile(`(?i)(?:₹|rs\.?|rupees|inr|amounts?)\s*(?:\.|,)?\s*in\s+(crores?|lakhs?|lacs?|millions?|thousands?|billions?)`)

// DetectScale returns the multiplier declared by the document's unit
// header, or 1 when none is found.
func DetectScale(text string) (float64, string) {
	m := scaleHint.FindStringSubmatch(text)
	if m == nil {
		return 1, ""
	}
	unit := strings.ToLower(strings.TrimSuffix(m[1], "s"))
	switch unit {
	case "crore":
		return 1e7, "crore"
	case "lakh", "lac":
		return 1e5, "lakh"
	case "million":
		return 1e6, "million"
	case "thousand":
		return 1e3, "thousand"
	case "billion":
		return 1e9, "billion"
	}
	return 1, ""
}
