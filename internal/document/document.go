package document

import "time"

// Word is a positioned token from a page's text layer.
type Word struct {
	Text     string
	X        float64 // left edge, PDF points
	Y        float64 // baseline, PDF points (origin bottom-left)
	W        float64 // advance width
	FontSize float64
	Bold     bool
}

// Page holds one page of extracted text. Words may be empty for pages
// without a usable text layer (scanned images); Text is "" in that case.
type Page struct {
	Number int // 1-based
	Text   string
	Words  []Word
}

// Meta describes a stored document.
type Meta struct {
	FileID    string    `json:"file_id"`
	Filename  string    `json:"filename"`
	PageCount int       `json:"page_count"`
	CreatedAt time.Time `json:"created_at"`
}

// TOCEntry is one line of a table of contents, in document order.
type TOCEntry struct {
	Title string `json:"title"`
	Page  int    `json:"page"`
	Level int    `json:"level"`
}

// Section is a resolved page range with its concatenated prose.
type Section struct {
	Name      string `json:"name"`
	StartPage int    `json:"start_page"`
	EndPage   int    `json:"end_page"`
	Text      string `json:"-"`
}

// LineItem maps period labels (e.g. "FY23") to parsed values for one
// canonical label.
type LineItem struct {
	Label  string             `json:"label"`
	Values map[string]float64 `json:"values"`
}

// Statement is a named group of line items keyed by canonical label.
type Statement struct {
	Name  string              `json:"name"`
	Items map[string]LineItem `json:"items"`
}

// KPIUnit tags how a KPI value should be read.
type KPIUnit string

const (
	UnitCurrency   KPIUnit = "currency"
	UnitPercentage KPIUnit = "percentage"
	UnitRatio      KPIUnit = "ratio"
)

// KPI is a single derived or pass-through metric.
type KPI struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Unit  KPIUnit `json:"unit"`
}

// TrendPoint is one (period, value) observation.
type TrendPoint struct {
	Period string  `json:"period"`
	Value  float64 `json:"value"`
}

// TrendSeries is a period-ascending history for one canonical label.
type TrendSeries struct {
	Label  string       `json:"label"`
	Points []TrendPoint `json:"points"`
}

// SummaryResult is the extractive MDA summary plus the raw section text
// retained for the UI's "show raw text" view.
type SummaryResult struct {
	Summary   string `json:"summary"`
	StartPage int    `json:"start_page"`
	EndPage   int    `json:"end_page"`
	RawText   string `json:"raw_text"`
}

// Branch reports whether one half of the pipeline produced output, and
// why not when it didn't.
type Branch struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

// AnalysisResult is the full document-to-insight output, cached per file_id.
// The KPI and summary branches fail independently; a missing branch is
// reported through its Branch marker, never by aborting the other.
type AnalysisResult struct {
	FileID      string               `json:"file_id"`
	CompanyName string               `json:"company_name,omitempty"`
	KPIs        map[string]KPI       `json:"kpis"`
	Statements  map[string]Statement `json:"statements"`
	Trends      []TrendSeries        `json:"trends"`
	Summary     *SummaryResult       `json:"summary,omitempty"`

	KPIBranch     Branch `json:"kpi_branch"`
	SummaryBranch Branch `json:"summary_branch"`
}
