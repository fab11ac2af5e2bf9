// Package insight orchestrates the extraction pipeline and assembles the
// per-document AnalysisResult. Results are cached by file_id with
// at-most-one computation in flight per key.
package insight

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/finlens/finlens/internal/document"
	"github.com/finlens/finlens/internal/fintab"
	"github.com/finlens/finlens/internal/kpi"
	"github.com/finlens/finlens/internal/section"
	"github.com/finlens/finlens/internal/textrank"
	"github.com/finlens/finlens/internal/toc"
)

// PageSource supplies extracted pages for a stored document.
type PageSource interface {
	Pages(ctx context.Context, fileID string) ([]document.Page, string, error)
}

// ResultStore persists analyses beyond the in-memory cache. Optional.
type ResultStore interface {
	SaveAnalysis(fileID string, res *document.AnalysisResult) error
	LoadAnalysis(fileID string) (*document.AnalysisResult, error)
}

// Config bundles the pipeline knobs.
type Config struct {
	TOC      toc.Config
	Summary  textrank.Config
	CacheTTL time.Duration
}

// Analyzer is the single entry point into the extraction core.
type Analyzer struct {
	src     PageSource
	persist ResultStore
	cfg     Config
	log     *slog.Logger

	cache  *gocache.Cache
	flight singleflight.Group
}

// New builds an analyzer. persist may be nil.
func New(src PageSource, persist ResultStore, cfg Config, log *slog.Logger) *Analyzer {
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	return &Analyzer{
		src:     src,
		persist: persist,
		cfg:     cfg,
		log:     log,
		cache:   gocache.New(ttl, 30*time.Minute),
	}
}

// Analyze returns the cached AnalysisResult for a file_id, computing it
// on first use. Concurrent callers for the same key share one
// computation; callers for different keys run fully in parallel. The
// only hard failure is an unreadable document — everything else degrades
// per branch inside the result.
func (a *Analyzer) Analyze(ctx context.Context, fileID string) (*document.AnalysisResult, error) {
	if cached, ok := a.cache.Get(fileID); ok {
		return cached.(*document.AnalysisResult), nil
	}
	if a.persist != nil {
		if res, err := a.persist.LoadAnalysis(fileID); err == nil {
			a.cache.SetDefault(fileID, res)
			return res, nil
		}
	}

	ch := a.flight.DoChan(fileID, func() (any, error) {
		return a.compute(ctx, fileID)
	})
	select {
	case <-ctx.Done():
		// This caller stops waiting; the computation continues for any
		// other waiters and lands in the cache.
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.(*document.AnalysisResult), nil
	}
}

// Summary returns only the summary half of the analysis, surfacing
// ErrSummaryUnavailable when that branch degraded.
func (a *Analyzer) Summary(ctx context.Context, fileID string) (*document.SummaryResult, error) {
	res, err := a.Analyze(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if res.Summary == nil {
		return nil, fmt.Errorf("%w: %s", textrank.ErrSummaryUnavailable, res.SummaryBranch.Reason)
	}
	return res.Summary, nil
}

// Invalidate evicts a file_id, e.g. after document deletion.
func (a *Analyzer) Invalidate(fileID string) {
	a.cache.Delete(fileID)
}

func (a *Analyzer) compute(ctx context.Context, fileID string) (*document.AnalysisResult, error) {
	start := time.Now()
	pages, filename, err := a.src.Pages(ctx, fileID)
	if err != nil {
		return nil, err
	}

	res, err := BuildResult(ctx, pages, fileID, filename, a.cfg)
	if err != nil {
		return nil, err
	}

	a.cache.SetDefault(fileID, res)
	if a.persist != nil {
		if err := a.persist.SaveAnalysis(fileID, res); err != nil {
			a.log.Warn("persist analysis failed", "file_id", fileID, "error", err)
		}
	}
	a.log.Info("analysis complete",
		"file_id", fileID,
		"pages", len(pages),
		"kpi_available", res.KPIBranch.Available,
		"summary_available", res.SummaryBranch.Available,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

// BuildResult runs both pipeline branches over extracted pages. The KPI
// and summary branches fail independently: a failure in one fills its
// availability marker and leaves the other untouched. Only context
// cancellation aborts the whole build.
func BuildResult(ctx context.Context, pages []document.Page, fileID, filename string, cfg Config) (*document.AnalysisResult, error) {
	res := &document.AnalysisResult{
		FileID:     fileID,
		KPIs:       map[string]document.KPI{},
		Statements: map[string]document.Statement{},
	}

	// KPI branch: statement parsing over the whole document.
	parsed, err := fintab.Parse(ctx, pages)
	switch {
	case err == nil:
		res.KPIs, res.Trends = kpi.Compute(parsed)
		res.Statements = parsed.Statements
		res.KPIBranch = document.Branch{Available: true}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return nil, err
	case errors.Is(err, fintab.ErrNoFinancialData):
		res.KPIBranch = document.Branch{
			Available: false,
			Reason:    "no financial statement line items recognized; the document may not be a financial prospectus",
		}
	default:
		res.KPIBranch = document.Branch{Available: false, Reason: err.Error()}
	}

	res.CompanyName = fintab.ExtractCompany(leadingText(pages, 5), filename)

	// Summary branch: MDA location and extractive summarization, fully
	// independent of the KPI branch's outcome.
	res.Summary, res.SummaryBranch = summarize(pages, cfg)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

func summarize(pages []document.Page, cfg Config) (*document.SummaryResult, document.Branch) {
	entries := toc.Locate(pages, cfg.TOC)
	sec, err := toc.ResolveMDA(entries, len(pages), cfg.TOC)
	if err != nil {
		return nil, document.Branch{
			Available: false,
			Reason:    "no management discussion section located",
		}
	}

	text := section.Extract(pages, sec.StartPage, sec.EndPage)
	summary, err := textrank.Summarize(text, cfg.Summary)
	if err != nil {
		return nil, document.Branch{
			Available: false,
			Reason:    "management discussion section too short to summarize",
		}
	}

	return &document.SummaryResult{
		Summary:   summary,
		StartPage: sec.StartPage,
		EndPage:   sec.EndPage,
		RawText:   text,
	}, document.Branch{Available: true}
}

// leadingText joins the first n pages for company-name extraction; the
// issuer name sits on the cover pages.
func leadingText(pages []document.Page, n int) string {
	if n > len(pages) {
		n = len(pages)
	}
	var parts []string
	for _, p := range pages[:n] {
		if p.Text != "" {
			parts = append(parts, p.Text)
		}
	}
	return strings.Join(parts, "\n")
}
