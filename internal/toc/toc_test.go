package toc

import (
	"errors"
	"testing"

	"github.com/finlens/finlens/internal/document"
)

func TestParseTOCPage_DotLeaders(t *testing.T) {
	text := "TABLE OF CONTENTS\n" +
		"Risk Factors .............. 10\n" +
		"Management's Discussion and Analysis .............. 45\n" +
		"Financial Statements .............. 70"
	entries := parseTOCPage(text)
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d: %v", len(entries), entries)
	}
	if entries[0].Title != "Risk Factors" || entries[0].Page != 10 {
		t.Errorf("entry 0 = %+v, want Risk Factors page 10", entries[0])
	}
	if entries[1].Page != 45 {
		t.Errorf("entry 1 page = %d, want 45", entries[1].Page)
	}
}

func TestParseTOCPage_ColumnGap(t *testing.T) {
	entries := parseTOCPage("Risk Factors    12\nObjects of the Offer\t55")
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d: %v", len(entries), entries)
	}
	if entries[1].Title != "Objects of the Offer" || entries[1].Page != 55 {
		t.Errorf("entry 1 = %+v, want Objects of the Offer page 55", entries[1])
	}
}

func TestLocate_StructuredStopsAtFirstNonTOCPage(t *testing.T) {
	tocText := "Risk Factors ...... 10\nManagement Discussion ...... 45\nFinancial Statements ...... 70"
	pages := []document.Page{
		{Number: 1, Text: "cover page"},
		{Number: 2, Text: tocText},
		{Number: 3, Text: "ordinary prose with one stray line ...... 99"},
	}
	entries := Locate(pages, DefaultConfig())
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries from the TOC page only, got %d: %v", len(entries), entries)
	}
}

func TestResolveMDA_BoundedByNextEntry(t *testing.T) {
	entries := []document.TOCEntry{
		{Title: "Risk Factors", Page: 10},
		{Title: "Management's Discussion and Analysis", Page: 45},
		{Title: "Financial Statements", Page: 70},
	}
	sec, err := ResolveMDA(entries, 100, DefaultConfig())
	if err != nil {
		t.Fatalf("ResolveMDA: %v", err)
	}
	if sec.StartPage != 45 || sec.EndPage != 69 {
		t.Errorf("section = [%d, %d], want [45, 69]", sec.StartPage, sec.EndPage)
	}
}

func TestResolveMDA_LastEntryCapped(t *testing.T) {
	entries := []document.TOCEntry{
		{Title: "Risk Factors", Page: 5},
		{Title: "Management Discussion and Analysis", Page: 10},
	}
	sec, err := ResolveMDA(entries, 200, DefaultConfig())
	if err != nil {
		t.Fatalf("ResolveMDA: %v", err)
	}
	if sec.StartPage != 10 || sec.EndPage != 69 {
		t.Errorf("section = [%d, %d], want [10, 69] with the default page cap", sec.StartPage, sec.EndPage)
	}
}

func TestResolveMDA_NotFound(t *testing.T) {
	entries := []document.TOCEntry{{Title: "Risk Factors", Page: 10}}
	_, err := ResolveMDA(entries, 100, DefaultConfig())
	if !errors.Is(err, ErrSectionNotFound) {
		t.Fatalf("expected ErrSectionNotFound, got %v", err)
	}
}

func TestLocate_HeadingFallback(t *testing.T) {
	body := func(y float64) []document.Word {
		var ws []document.Word
		words := []string{"ordinary", "body", "text", "fills", "most", "of", "the", "page", "every", "day"}
		x := 50.0
		for _, w := range words {
			ws = append(ws, document.Word{Text: w, X: x, Y: y, W: 30, FontSize: 10})
			x += 35
		}
		return ws
	}

	heading := []document.Word{
		{Text: "Management's", X: 50, Y: 700, W: 80, FontSize: 14, Bold: true},
		{Text: "Discussion", X: 135, Y: 700, W: 70, FontSize: 14, Bold: true},
	}

	pages := []document.Page{
		{Number: 1, Words: body(600)},
		{Number: 2, Words: append(heading, body(600)...)},
		{Number: 3, Words: body(600)},
	}

	entries := Locate(pages, DefaultConfig())
	if len(entries) == 0 {
		t.Fatal("expected heading entries, got none")
	}
	sec, err := ResolveMDA(entries, len(pages), DefaultConfig())
	if err != nil {
		t.Fatalf("ResolveMDA: %v", err)
	}
	if sec.StartPage != 2 {
		t.Errorf("StartPage = %d, want 2", sec.StartPage)
	}
}
