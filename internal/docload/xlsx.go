package docload

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/finlens/finlens/internal/document"
)

// loadWorkbook renders each sheet as one page of tab-free row text, so
// the statement parser sees the same "<label> <numbers...>" shape it gets
// from PDF tables.
func loadWorkbook(ctx context.Context, data []byte) ([]document.Page, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	var pages []document.Page
	for i, sheet := range sheets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows, err := f.GetRows(sheet)
		if err != nil {
			// Unreadable sheet (protected, corrupt): keep going, an
			// empty page is the same contract as a scanned PDF page.
			pages = append(pages, document.Page{Number: i + 1})
			continue
		}

		var b strings.Builder
		b.WriteString(sheet)
		b.WriteString("\n")
		for _, row := range rows {
			cells := make([]string, 0, len(row))
			for _, c := range row {
				c = strings.TrimSpace(c)
				if c != "" {
					cells = append(cells, c)
				}
			}
			if len(cells) > 0 {
				b.WriteString(strings.Join(cells, " "))
				b.WriteString("\n")
			}
		}
		pages = append(pages, document.Page{Number: i + 1, Text: strings.TrimSpace(b.String())})
	}
	return pages, nil
}
