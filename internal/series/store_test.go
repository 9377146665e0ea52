package series

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/jonghyochu-star/shots-radar/internal/model"
)

func pt(d string, views int64, n int) model.SeriesPoint {
	return model.SeriesPoint{Date: d, Views: views, N: n}
}

func TestMerge_AppendsNewDate(t *testing.T) {
	existing := map[string][]model.SeriesPoint{
		"게임": {pt("2024-01-01", 100, 5)},
	}
	today := map[string]model.SeriesPoint{
		"게임": pt("2024-01-02", 200, 7),
	}

	out := Merge(existing, today, 180)

	want := []model.SeriesPoint{pt("2024-01-01", 100, 5), pt("2024-01-02", 200, 7)}
	if !reflect.DeepEqual(out["게임"], want) {
		t.Errorf("series = %v, want %v", out["게임"], want)
	}
}

func TestMerge_ReplacesSameDate(t *testing.T) {
	existing := map[string][]model.SeriesPoint{
		"AI": {pt("2023-12-31", 50, 2), pt("2024-01-01", 100, 5)},
	}
	today := map[string]model.SeriesPoint{
		"AI": pt("2024-01-01", 150, 7),
	}

	out := Merge(existing, today, 180)

	got := out["AI"]
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2 (replacement, not duplication)", len(got))
	}
	count := 0
	for _, p := range got {
		if p.Date == "2024-01-01" {
			count++
			if p.Views != 150 || p.N != 7 {
				t.Errorf("replaced point = %+v, want views=150 n=7", p)
			}
		}
	}
	if count != 1 {
		t.Errorf("found %d entries for 2024-01-01, want exactly 1", count)
	}
}

func TestMerge_Idempotent(t *testing.T) {
	existing := map[string][]model.SeriesPoint{
		"리뷰": {pt("2024-01-01", 10, 1), pt("2024-01-02", 20, 2)},
	}
	today := map[string]model.SeriesPoint{
		"리뷰": pt("2024-01-03", 30, 3),
	}

	once := Merge(existing, today, 180)
	twice := Merge(once, today, 180)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("merge not idempotent:\nonce:  %v\ntwice: %v", once["리뷰"], twice["리뷰"])
	}
}

func TestMerge_RetentionEvictsOldest(t *testing.T) {
	// 181 existing entries, retention 180: after merging one more day the
	// length is exactly 180 and the single oldest date is gone.
	var list []model.SeriesPoint
	for i := 0; i < 181; i++ {
		list = append(list, pt(fmt.Sprintf("2024-01-%03d", i), int64(i), i))
	}
	existing := map[string][]model.SeriesPoint{"정치": list}
	today := map[string]model.SeriesPoint{"정치": pt("2024-02-001", 999, 9)}

	out := Merge(existing, today, 180)

	got := out["정치"]
	if len(got) != 180 {
		t.Fatalf("len = %d, want 180", len(got))
	}
	for _, p := range got {
		if p.Date == "2024-01-000" || p.Date == "2024-01-001" {
			t.Errorf("oldest date %s still present after eviction", p.Date)
		}
	}
	if got[len(got)-1].Date != "2024-02-001" {
		t.Errorf("newest point = %+v, want today's", got[len(got)-1])
	}
}

func TestMerge_SortsOutOfOrderInsert(t *testing.T) {
	existing := map[string][]model.SeriesPoint{
		"스포츠": {pt("2024-01-02", 20, 2), pt("2024-01-04", 40, 4)},
	}
	today := map[string]model.SeriesPoint{
		"스포츠": pt("2024-01-03", 30, 3),
	}

	out := Merge(existing, today, 180)

	got := out["스포츠"]
	for i := 1; i < len(got); i++ {
		if got[i-1].Date >= got[i].Date {
			t.Fatalf("series not strictly ascending: %v", got)
		}
	}
}

func TestMerge_FreshCategoryStartsEmpty(t *testing.T) {
	today := map[string]model.SeriesPoint{
		"커뮤니티": pt("2024-01-01", 5, 1),
	}

	out := Merge(nil, today, 180)

	if len(out["커뮤니티"]) != 1 {
		t.Errorf("fresh category series = %v, want single point", out["커뮤니티"])
	}
}

func TestMerge_DoesNotMutateExisting(t *testing.T) {
	orig := []model.SeriesPoint{pt("2024-01-01", 1, 1)}
	existing := map[string][]model.SeriesPoint{"AI": orig}
	today := map[string]model.SeriesPoint{"AI": pt("2024-01-02", 2, 2)}

	Merge(existing, today, 180)

	if len(orig) != 1 || orig[0].Views != 1 {
		t.Errorf("input slice mutated: %v", orig)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	doc := Load(filepath.Join(t.TempDir(), "nope.json"))
	if doc == nil || doc.Series == nil {
		t.Fatalf("Load of missing file should yield empty doc, got %v", doc)
	}
	if len(doc.Series) != 0 {
		t.Errorf("expected empty series, got %v", doc.Series)
	}
}

func TestLoad_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trend.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	doc := Load(path)
	if doc == nil || len(doc.Series) != 0 {
		t.Errorf("corrupt file should yield empty doc, got %v", doc)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "public", "kw-trend.json")

	doc := &model.TrendDoc{
		UpdatedAt: "2024-01-02T03:04:05Z",
		Meta:      model.TrendMeta{Scoring: "rules+prior-v1"},
		Series: map[string][]model.SeriesPoint{
			"AI": {pt("2024-01-01", 1234, 12)},
		},
	}
	if err := Save(path, doc); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got := Load(path)
	if !reflect.DeepEqual(got, doc) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, doc)
	}
}
