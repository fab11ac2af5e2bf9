package fintab

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Company-name extraction is best effort: issuer names in RHP filings
// appear as "<Name> Limited" among many other entities (exchanges,
// regulators, registrars), so candidates are filtered and the longest
// survivor wins, with the filename as a last resort.

var (
	// Candidates never cross line breaks; cover-page banners above the
	// issuer name would otherwise glue onto it.
	companyPattern   = regexp.MustCompile(`\b([A-Z][A-Za-z&. ]+?(?:Limited|LIMITED|Ltd\.?))\b`)
	companyBlacklist = regexp.MustCompile(`(?i)\b(BSE|NSE|Exchange|SEBI|Board|Stock|Societe|Luxembourg|Registrar|Depository)\b`)
	fileDelimiters   = regexp.MustCompile(`[\s_\-]+`)
	hexToken         = regexp.MustCompile(`^[0-9a-f]{32}$`)
)

// ExtractCompany infers the issuing company's name from document text,
// falling back to filename heuristics. Returns "" when nothing credible
// is found.
func ExtractCompany(text, filename string) string {
	var best string
	for _, m := range companyPattern.FindAllStringSubmatch(text, -1) {
		cand := strings.Join(strings.Fields(m[1]), " ")
		if companyBlacklist.MatchString(cand) {
			continue
		}
		if len(cand) > len(best) {
			best = cand
		}
	}
	if best != "" {
		return best
	}
	return companyFromFilename(filename)
}

func companyFromFilename(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	if base == "" {
		return ""
	}
	for _, tok := range fileDelimiters.Split(base, -1) {
		tok = strings.TrimSpace(tok)
		if tok == "" || hexToken.MatchString(strings.ToLower(tok)) {
			continue
		}
		return strings.ToUpper(tok)
	}
	return ""
}
