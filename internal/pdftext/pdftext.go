package pdftext

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/finlens/finlens/internal/document"
)

// ErrUnreadablePDF means the bytes are not a valid PDF container. Pages
// with no extractable text never trigger it; they come back empty.
var ErrUnreadablePDF = errors.New("unreadable pdf")

// Extract streams pages in order through fn, stopping early if fn or the
// context reports an error. Large documents are processed page by page so
// the whole text layer is never held at once.
func Extract(ctx context.Context, data []byte, fn func(document.Page) error) error {
	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreadablePDF, err)
	}

	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		page := document.Page{Number: i}
		p := reader.Page(i)
		if !p.V.IsNull() {
			page.Text = plainText(p)
			page.Words = words(p)
		}
		if err := fn(page); err != nil {
			return err
		}
	}
	return nil
}

// ExtractAll collects every page. PageCount equals len(pages) even when
// trailing pages are empty.
func ExtractAll(ctx context.Context, data []byte) ([]document.Page, error) {
	var pages []document.Page
	err := Extract(ctx, data, func(p document.Page) error {
		pages = append(pages, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pages, nil
}

// plainText pulls the page's text layer. Malformed content streams are
// treated as an empty page, not a document failure.
func plainText(p pdflib.Page) (text string) {
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()
	text, err := p.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return text
}

// words assembles the page's positioned glyph runs into word tokens.
func words(p pdflib.Page) (out []document.Word) {
	defer func() {
		if recover() != nil {
			out = nil
		}
	}()
	content := p.Content()
	return assembleWords(content.Text)
}

// assembleWords merges consecutive glyph runs that share a baseline and
// sit close enough horizontally into single words.
func assembleWords(runs []pdflib.Text) []document.Word {
	var out []document.Word
	var cur *document.Word

	flush := func() {
		if cur != nil && strings.TrimSpace(cur.Text) != "" {
			cur.Text = strings.TrimSpace(cur.Text)
			out = append(out, *cur)
		}
		cur = nil
	}

	for _, r := range runs {
		if strings.TrimSpace(r.S) == "" {
			flush()
			continue
		}
		if cur != nil && sameBaseline(cur.Y, r.Y, cur.FontSize) && joinable(cur, r) {
			cur.Text += r.S
			cur.W = (r.X + r.W) - cur.X
			continue
		}
		flush()
		cur = &document.Word{
			Text:     r.S,
			X:        r.X,
			Y:        r.Y,
			W:        r.W,
			FontSize: r.FontSize,
			Bold:     strings.Contains(strings.ToLower(r.Font), "bold"),
		}
	}
	flush()
	return out
}

func sameBaseline(a, b, fontSize float64) bool {
	tol := fontSize * 0.3
	if tol < 1 {
		tol = 1
	}
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= tol
}

// joinable reports whether run r continues the current word: the gap
// between the word's right edge and the run's left edge is under about a
// third of the font size.
func joinable(cur *document.Word, r pdflib.Text) bool {
	gap := r.X - (cur.X + cur.W)
	maxGap := cur.FontSize * 0.34
	if maxGap < 0.8 {
		maxGap = 0.8
	}
	return gap > -1 && gap <= maxGap
}
