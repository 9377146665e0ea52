package series

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/jonghyochu-star/shots-radar/internal/model"
)

// DefaultRetentionDays is the default retention window per category series.
const DefaultRetentionDays = 180

// Merge folds one day's points into the existing per-label series. For each
// label present in today's points: replace the entry with the same date if
// one exists, otherwise append; re-sort ascending by date; evict the oldest
// entries past the retention window. Idempotent: merging the same day twice
// yields the same series as merging it once. Labels absent from today's
// points pass through untouched.
func Merge(existing map[string][]model.SeriesPoint, today map[string]model.SeriesPoint, retentionDays int) map[string][]model.SeriesPoint {
	if retentionDays <= 0 {
		retentionDays = DefaultRetentionDays
	}

	out := make(map[string][]model.SeriesPoint, len(existing)+len(today))
	for label, pts := range existing {
		out[label] = pts
	}

	for label, pt := range today {
		list := append([]model.SeriesPoint(nil), out[label]...)

		replaced := false
		for i := range list {
			if list[i].Date == pt.Date {
				list[i] = pt
				replaced = true
				break
			}
		}
		if !replaced {
			list = append(list, pt)
		}

		sort.Slice(list, func(i, j int) bool { return list[i].Date < list[j].Date })

		if over := len(list) - retentionDays; over > 0 {
			list = list[over:]
		}
		out[label] = list
	}

	return out
}

// Load reads the trend document. A missing or corrupt file yields an empty
// document rather than failing the run: the series rebuilds over time.
func Load(path string) *model.TrendDoc {
	doc := &model.TrendDoc{Series: make(map[string][]model.SeriesPoint)}

	raw, err := os.ReadFile(path)
	if err != nil {
		log.Printf("series: %s not readable, starting empty: %v", path, err)
		return doc
	}
	if err := json.Unmarshal(raw, doc); err != nil {
		log.Printf("series: %s corrupt, starting empty: %v", path, err)
		return &model.TrendDoc{Series: make(map[string][]model.SeriesPoint)}
	}
	if doc.Series == nil {
		doc.Series = make(map[string][]model.SeriesPoint)
	}
	return doc
}

// Save writes the trend document, creating parent directories as needed.
func Save(path string, doc *model.TrendDoc) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("series: create dir: %w", err)
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("series: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("series: write %s: %w", path, err)
	}
	return nil
}
