// Package section slices page ranges out of an extracted document.
package section

import (
	"strings"

	"github.com/finlens/finlens/internal/document"
)

// Extract concatenates page texts for the inclusive [startPage, endPage]
// range into plain prose. Page boundaries collapse into blank lines; no
// marker survives in the returned text. An empty or inverted range yields "".
func Extract(pages []document.Page, startPage, endPage int) string {
	if startPage < 1 {
		startPage = 1
	}
	if endPage > len(pages) {
		endPage = len(pages)
	}
	if startPage > endPage {
		return ""
	}

	var b strings.Builder
	for _, p := range pages[startPage-1 : endPage] {
		text := strings.TrimSpace(p.Text)
		if text == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(text)
	}
	return b.String()
}
