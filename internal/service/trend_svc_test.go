package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonghyochu-star/shots-radar/internal/model"
)

func writeTrendFile(t *testing.T, dir, blob string) string {
	t.Helper()
	path := filepath.Join(dir, "kw-trend.json")
	if err := os.WriteFile(path, []byte(blob), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const sampleTrend = `{
  "updatedAt": "2024-01-15T06:00:00Z",
  "meta": {"scoring": "rules+prior-v1"},
  "series": {
    "게임": [
      {"d": "2024-01-14", "views": 100, "n": 2},
      {"d": "2024-01-15", "views": 250, "n": 3}
    ],
    "리뷰": [
      {"d": "2024-01-15", "views": 40, "n": 1}
    ]
  }
}`

func TestDocument_ServesFile(t *testing.T) {
	path := writeTrendFile(t, t.TempDir(), sampleTrend)
	svc := NewTrendService(path, nil)

	doc := svc.Document(context.Background())
	if doc.UpdatedAt != "2024-01-15T06:00:00Z" {
		t.Errorf("updatedAt = %q", doc.UpdatedAt)
	}
	if got := len(doc.Series["게임"]); got != 2 {
		t.Errorf("게임 points = %d, want 2", got)
	}
}

func TestDocument_MissingFileServesEmpty(t *testing.T) {
	svc := NewTrendService(filepath.Join(t.TempDir(), "nope.json"), nil)

	doc := svc.Document(context.Background())
	if len(doc.Series) != 0 {
		t.Errorf("series = %v, want empty", doc.Series)
	}
}

func TestCategory_ResolvesLabel(t *testing.T) {
	path := writeTrendFile(t, t.TempDir(), sampleTrend)
	svc := NewTrendService(path, nil)

	resp := svc.Category(context.Background(), model.CategoryGame)
	if resp.Category != "game" || resp.Label != "게임" {
		t.Errorf("category/label = %s/%s", resp.Category, resp.Label)
	}
	if len(resp.Points) != 2 || resp.Points[1].Views != 250 {
		t.Errorf("points = %v", resp.Points)
	}
	if resp.Scoring != "rules+prior-v1" {
		t.Errorf("scoring = %q", resp.Scoring)
	}
}

func TestCategory_UnknownSeriesIsEmptyNotNil(t *testing.T) {
	path := writeTrendFile(t, t.TempDir(), sampleTrend)
	svc := NewTrendService(path, nil)

	resp := svc.Category(context.Background(), model.CategorySports)
	if resp.Points == nil || len(resp.Points) != 0 {
		t.Errorf("points = %v, want empty slice", resp.Points)
	}
}

func TestStats_DateRange(t *testing.T) {
	path := writeTrendFile(t, t.TempDir(), sampleTrend)
	svc := NewTrendService(path, nil)

	stats := svc.Stats()
	if stats.Categories != 2 {
		t.Errorf("categories = %d, want 2", stats.Categories)
	}
	if stats.Points["게임"] != 2 || stats.Points["리뷰"] != 1 {
		t.Errorf("points = %v", stats.Points)
	}
	if stats.OldestDay != "2024-01-14" || stats.LatestDay != "2024-01-15" {
		t.Errorf("range = %s..%s", stats.OldestDay, stats.LatestDay)
	}
	if stats.LatestViews["게임"] != 250 || stats.LatestViews["리뷰"] != 40 {
		t.Errorf("latest views = %v", stats.LatestViews)
	}
	if stats.TopCategory != "게임" {
		t.Errorf("top category = %q, want 게임", stats.TopCategory)
	}
}

func TestDocument_ReloadsOnFileChange(t *testing.T) {
	dir := t.TempDir()
	path := writeTrendFile(t, dir, sampleTrend)
	svc := NewTrendService(path, nil)

	first := svc.Document(context.Background())
	if len(first.Series["리뷰"]) != 1 {
		t.Fatalf("initial 리뷰 points = %d", len(first.Series["리뷰"]))
	}

	updated := `{
  "updatedAt": "2024-01-16T06:00:00Z",
  "meta": {"scoring": "rules+prior-v1"},
  "series": {"리뷰": [
    {"d": "2024-01-15", "views": 40, "n": 1},
    {"d": "2024-01-16", "views": 90, "n": 2}
  ]}
}`
	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		t.Fatal(err)
	}
	// Push the mtime forward in case the rewrite lands in the same tick.
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatal(err)
	}

	second := svc.Document(context.Background())
	if second.UpdatedAt != "2024-01-16T06:00:00Z" {
		t.Errorf("updatedAt after rewrite = %q, want reload", second.UpdatedAt)
	}
	if len(second.Series["리뷰"]) != 2 {
		t.Errorf("리뷰 points after rewrite = %d, want 2", len(second.Series["리뷰"]))
	}
}
