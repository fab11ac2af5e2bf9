// Package docload dispatches uploaded files to the right text extractor
// by extension. Prospectuses arrive as PDFs; statement workbooks as XLSX.
package docload

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/finlens/finlens/internal/document"
	"github.com/finlens/finlens/internal/pdftext"
	"github.com/finlens/finlens/internal/store"
)

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".pdf":  true,
	".xlsx": true,
	".xlsm": true,
}

// IsSupportedExtension checks if a filename's extension is supported.
func IsSupportedExtension(filename string) bool {
	return SupportedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// Load extracts pages from raw file bytes.
func Load(ctx context.Context, filename string, data []byte) ([]document.Page, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".pdf":
		return pdftext.ExtractAll(ctx, data)
	case ".xlsx", ".xlsm":
		return loadWorkbook(ctx, data)
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// Source adapts the document store into the analyzer's page source.
type Source struct {
	Store *store.Store
}

// Pages loads a stored document and extracts its pages.
func (s Source) Pages(ctx context.Context, fileID string) ([]document.Page, string, error) {
	meta, content, err := s.Store.GetDocument(fileID)
	if err != nil {
		return nil, "", err
	}
	pages, err := Load(ctx, meta.Filename, content)
	if err != nil {
		return nil, "", err
	}
	return pages, meta.Filename, nil
}
