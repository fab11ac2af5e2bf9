package toc

import (
	"errors"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/finlens/finlens/internal/document"
)

// ErrSectionNotFound means no MDA-like heading exists anywhere in the
// document. Non-fatal at pipeline level: summarization is skipped.
var ErrSectionNotFound = errors.New("section not found")

// mdaLabels are matched case-insensitively as substrings against TOC
// titles and headings. First match in document order wins.
var mdaLabels = []string{
	"management discussion",
	"management's discussion",
	"mda",
}

// Config bounds the TOC probe and the resolved section size.
type Config struct {
	ScanWindow      int // pages scanned for a structured TOC
	MaxSectionPages int // cap on a resolved section's length
}

// DefaultConfig returns the bounds used when none are configured.
func DefaultConfig() Config {
	return Config{ScanWindow: 40, MaxSectionPages: 60}
}

// strategy is one way of finding section starts. Exactly two exist:
// structuredScan reads a printed table of contents, headingScan detects
// headings from the text layer's font metrics (degraded mode).
type strategy interface {
	locate(pages []document.Page) []document.TOCEntry
}

// minStructuredEntries is the capability probe threshold: fewer hits than
// this and the printed-TOC reading is considered unusable.
const minStructuredEntries = 3

// Locate finds the document's section index. It probes for a structured
// TOC inside the scan window first and degrades to a heading scan over
// the full document when the probe fails.
func Locate(pages []document.Page, cfg Config) []document.TOCEntry {
	if cfg.ScanWindow <= 0 {
		cfg.ScanWindow = DefaultConfig().ScanWindow
	}
	entries := (structuredScan{window: cfg.ScanWindow}).locate(pages)
	if len(entries) >= minStructuredEntries {
		return entries
	}
	return (headingScan{}).locate(pages)
}

// ResolveMDA resolves the MDA section's page range from located entries.
// The returned section carries no text; see the section package.
func ResolveMDA(entries []document.TOCEntry, pageCount int, cfg Config) (document.Section, error) {
	if cfg.MaxSectionPages <= 0 {
		cfg.MaxSectionPages = DefaultConfig().MaxSectionPages
	}
	for i, e := range entries {
		if !matchesMDA(e.Title) {
			continue
		}
		start := clamp(e.Page, 1, pageCount)
		end := pageCount
		if i+1 < len(entries) {
			end = entries[i+1].Page - 1
		}
		if end < start {
			end = start
		}
		if cap := start + cfg.MaxSectionPages - 1; end > cap {
			end = cap
		}
		if end > pageCount {
			end = pageCount
		}
		return document.Section{
			Name:      "mda",
			StartPage: start,
			EndPage:   end,
		}, nil
	}
	return document.Section{}, ErrSectionNotFound
}

func matchesMDA(title string) bool {
	t := strings.ToLower(title)
	for _, label := range mdaLabels {
		if strings.Contains(t, label) {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// structuredScan reads "<title> ... <page>" lines: dot leaders, a run of
// spaces or a tab before trailing digits.
type structuredScan struct {
	window int
}

var (
	dotLeaderLine = regexp.MustCompile(`^(.{3,120}?)\s*\.{2,}\s*(\d{1,4})\s*$`)
	columnGapLine = regexp.MustCompile(`^(\S.{2,118}?\S)(?:\s{2,}|\t+)(\d{1,4})\s*$`)
)

func (s structuredScan) locate(pages []document.Page) []document.TOCEntry {
	limit := s.window
	if limit > len(pages) {
		limit = len(pages)
	}

	var entries []document.TOCEntry
	for _, page := range pages[:limit] {
		pageEntries := parseTOCPage(page.Text)
		// A genuine TOC page yields several hits; isolated matches on
		// ordinary pages are noise.
		if len(pageEntries) >= minStructuredEntries {
			entries = append(entries, pageEntries...)
		} else if len(entries) > 0 {
			// TOC pages are contiguous; stop at the first non-TOC page
			// after the TOC started.
			break
		}
	}
	return entries
}

func parseTOCPage(text string) []document.TOCEntry {
	var entries []document.TOCEntry
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimRight(raw, " \t")
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" {
			continue
		}
		m := dotLeaderLine.FindStringSubmatch(trimmed)
		if m == nil {
			m = columnGapLine.FindStringSubmatch(trimmed)
		}
		if m == nil {
			continue
		}
		title := strings.TrimSpace(strings.Trim(m[1], "."))
		if title == "" {
			continue
		}
		page, err := strconv.Atoi(m[2])
		if err != nil || page <= 0 {
			continue
		}
		level := 1
		if len(line) != len(trimmed) {
			level = 2
		}
		entries = append(entries, document.TOCEntry{Title: title, Page: page, Level: level})
	}
	return entries
}

// headingScan detects headings across the whole document from font size
// and boldness. Used when no printed TOC was recognized.
type headingScan struct{}

const (
	headingSizeFactor = 1.15
	maxHeadingWords   = 12
)

func (headingScan) locate(pages []document.Page) []document.TOCEntry {
	median := medianFontSize(pages)
	if median == 0 {
		return nil
	}

	var entries []document.TOCEntry
	for _, page := range pages {
		for _, line := range groupLines(page.Words) {
			if len(line) == 0 || len(line) > maxHeadingWords {
				continue
			}
			if !isHeadingLine(line, median) {
				continue
			}
			parts := make([]string, 0, len(line))
			for _, w := range line {
				parts = append(parts, w.Text)
			}
			entries = append(entries, document.TOCEntry{
				Title: strings.Join(parts, " "),
				Page:  page.Number,
				Level: 1,
			})
		}
	}
	return entries
}

func isHeadingLine(line []document.Word, median float64) bool {
	allBold := true
	maxSize := 0.0
	for _, w := range line {
		if !w.Bold {
			allBold = false
		}
		if w.FontSize > maxSize {
			maxSize = w.FontSize
		}
	}
	return maxSize >= median*headingSizeFactor || allBold
}

func medianFontSize(pages []document.Page) float64 {
	var sizes []float64
	for _, p := range pages {
		for _, w := range p.Words {
			if w.FontSize > 0 {
				sizes = append(sizes, w.FontSize)
			}
		}
	}
	if len(sizes) == 0 {
		return 0
	}
	sort.Float64s(sizes)
	return sizes[len(sizes)/2]
}

// groupLines buckets a page's words into lines by baseline, top of page
// first, left to right within a line.
func groupLines(ws []document.Word) [][]document.Word {
	if len(ws) == 0 {
		return nil
	}
	sorted := make([]document.Word, len(ws))
	copy(sorted, ws)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y // PDF origin is bottom-left
		}
		return sorted[i].X < sorted[j].X
	})

	var lines [][]document.Word
	var cur []document.Word
	for _, w := range sorted {
		if len(cur) > 0 {
			tol := cur[0].FontSize * 0.5
			if tol < 2 {
				tol = 2
			}
			if cur[0].Y-w.Y > tol {
				lines = append(lines, cur)
				cur = nil
			}
		}
		cur = append(cur, w)
	}
	if len(cur) > 0 {
		lines = append(lines, cur)
	}
	return lines
}
