package service

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"sync"
	"time"

	"github.com/jonghyochu-star/shots-radar/internal/model"
	"github.com/jonghyochu-star/shots-radar/internal/series"
)

// CategoryResponse is the single-category view of the trend document.
type CategoryResponse struct {
	Category  string              `json:"category"`
	Label     string              `json:"label"`
	UpdatedAt string              `json:"updatedAt"`
	Scoring   string              `json:"scoring"`
	Points    []model.SeriesPoint `json:"points"`
}

// StatsResponse summarizes the served document: per-category point counts,
// the covered date range, and the latest day's view totals.
type StatsResponse struct {
	UpdatedAt   string           `json:"updatedAt"`
	Scoring     string           `json:"scoring"`
	Categories  int              `json:"categories"`
	Points      map[string]int   `json:"points"`
	OldestDay   string           `json:"oldestDay,omitempty"`
	LatestDay   string           `json:"latestDay,omitempty"`
	LatestViews map[string]int64 `json:"latestViews,omitempty"`
	TopCategory string           `json:"topCategory,omitempty"`
}

// TrendService serves the retained trend series from the collector's output
// file. The file is reloaded when its mtime changes, so a finished collection
// run shows up without restarting the server. Responses go through the Redis
// cache-aside layer when one is configured.
type TrendService struct {
	path  string
	cache *CacheService

	// Optional observation hooks, wired to Prometheus counters by the
	// server. Nil hooks are skipped.
	OnCacheHit  func()
	OnCacheMiss func()

	mu      sync.RWMutex
	doc     *model.TrendDoc
	modTime time.Time
}

func NewTrendService(path string, cache *CacheService) *TrendService {
	return &TrendService{path: path, cache: cache}
}

// Document returns the full trend document.
func (s *TrendService) Document(ctx context.Context) *model.TrendDoc {
	if s.cache != nil {
		if cached, err := s.cache.GetTrend(ctx, ""); err != nil {
			log.Printf("cache: trend get error: %v", err)
		} else if cached != nil {
			var doc model.TrendDoc
			if err := json.Unmarshal(cached, &doc); err == nil {
				s.observe(s.OnCacheHit)
				return &doc
			}
		}
		s.observe(s.OnCacheMiss)
	}

	doc := s.current()

	if s.cache != nil {
		if err := s.cache.SetTrend(ctx, "", doc); err != nil {
			log.Printf("cache: trend set error: %v", err)
		}
	}
	return doc
}

// Category returns one category's series. The category is given by key
// ("game") and resolved to its display label, which is how the document
// stores series.
func (s *TrendService) Category(ctx context.Context, cat model.Category) *CategoryResponse {
	if s.cache != nil {
		if cached, err := s.cache.GetTrend(ctx, string(cat)); err != nil {
			log.Printf("cache: trend get error: %v", err)
		} else if cached != nil {
			var resp CategoryResponse
			if err := json.Unmarshal(cached, &resp); err == nil {
				s.observe(s.OnCacheHit)
				return &resp
			}
		}
		s.observe(s.OnCacheMiss)
	}

	doc := s.current()

	points := doc.Series[cat.Label()]
	if points == nil {
		points = []model.SeriesPoint{}
	}
	resp := &CategoryResponse{
		Category:  string(cat),
		Label:     cat.Label(),
		UpdatedAt: doc.UpdatedAt,
		Scoring:   doc.Meta.Scoring,
		Points:    points,
	}

	if s.cache != nil {
		if err := s.cache.SetTrend(ctx, string(cat), resp); err != nil {
			log.Printf("cache: trend set error: %v", err)
		}
	}
	return resp
}

// Stats reports per-category point counts and the covered date range.
func (s *TrendService) Stats() *StatsResponse {
	doc := s.current()

	resp := &StatsResponse{
		UpdatedAt:  doc.UpdatedAt,
		Scoring:    doc.Meta.Scoring,
		Categories: len(doc.Series),
		Points:     make(map[string]int, len(doc.Series)),
	}
	for label, pts := range doc.Series {
		resp.Points[label] = len(pts)
		if len(pts) == 0 {
			continue
		}
		if resp.OldestDay == "" || pts[0].Date < resp.OldestDay {
			resp.OldestDay = pts[0].Date
		}
		if last := pts[len(pts)-1].Date; last > resp.LatestDay {
			resp.LatestDay = last
		}
	}

	if resp.LatestDay != "" {
		resp.LatestViews = make(map[string]int64)
		var top int64 = -1
		for label, pts := range doc.Series {
			for _, pt := range pts {
				if pt.Date != resp.LatestDay {
					continue
				}
				resp.LatestViews[label] = pt.Views
				if pt.Views > top {
					top = pt.Views
					resp.TopCategory = label
				}
			}
		}
	}
	return resp
}

func (s *TrendService) observe(fn func()) {
	if fn != nil {
		fn()
	}
}

// current returns the in-memory document, reloading the file if it changed
// on disk since the last read. A missing file serves an empty document.
func (s *TrendService) current() *model.TrendDoc {
	info, statErr := os.Stat(s.path)

	s.mu.RLock()
	if s.doc != nil && (statErr != nil || info.ModTime().Equal(s.modTime)) {
		doc := s.doc
		s.mu.RUnlock()
		return doc
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc != nil && (statErr != nil || info.ModTime().Equal(s.modTime)) {
		return s.doc
	}

	s.doc = series.Load(s.path)
	if statErr == nil {
		s.modTime = info.ModTime()
	}
	return s.doc
}
