package model

// SeriesPoint is one day's aggregated totals for a category. Immutable once
// written; identified uniquely by its date within a series.
type SeriesPoint struct {
	Date  string `json:"d"` // YYYY-MM-DD
	Views int64  `json:"views"`
	N     int    `json:"n"`
}

// TrendMeta describes how the series was produced.
type TrendMeta struct {
	Scoring string `json:"scoring"`
}

// TrendDoc is the persisted trend document: per-label series plus metadata.
// Series are keyed by display label, ordered ascending by date, and bounded
// by the retention window.
type TrendDoc struct {
	UpdatedAt string                   `json:"updatedAt"`
	Meta      TrendMeta                `json:"meta"`
	Series    map[string][]SeriesPoint `json:"series"`
}
