package collector

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/jonghyochu-star/shots-radar/internal/model"
	"github.com/jonghyochu-star/shots-radar/internal/youtube"
)

// ScoringMode is written into the trend document's meta block.
const ScoringMode = "rules+prior-v1"

// Fetcher is the upstream adapter the collector pulls pages and details
// through. Satisfied by *youtube.Client.
type Fetcher interface {
	Search(ctx context.Context, query, pageToken string) (*youtube.SearchPage, error)
	Videos(ctx context.Context, ids []string) ([]model.Item, error)
}

// Scorer turns one item into a multi-label weight distribution.
// Satisfied by *classify.Classifier.
type Scorer interface {
	ScoreItem(item model.Item) map[model.Category]float64
}

// Config holds the run parameters.
type Config struct {
	Categories    []model.Category // categories to poll; default the full set
	PagesPerRun   int              // search pages per category; default 2
	RetentionDays int              // series retention window; default 180
}

// RunStats summarizes one collection run.
type RunStats struct {
	Searches int // search pages fetched
	Fetched  int // detail records received
	Scored   int // items that produced a nonzero weight map
	Skipped  int // items excluded (duplicate or empty weights)
}

// bucket accumulates one category's weighted totals for the day.
// Created fresh each run, discarded after the merge.
type bucket struct {
	views  float64
	weight float64
}

// Collector drives one polling run: search per category, fetch details in
// batches, score and accumulate, then merge into the retained series.
// Strictly sequential; accumulation is a commutative sum, so the result is
// invariant to item order.
type Collector struct {
	fetcher Fetcher
	scorer  Scorer
	cfg     Config

	now func() time.Time
}

// New creates a Collector.
func New(fetcher Fetcher, scorer Scorer, cfg Config) *Collector {
	if len(cfg.Categories) == 0 {
		cfg.Categories = model.Categories()
	}
	if cfg.PagesPerRun <= 0 {
		cfg.PagesPerRun = 2
	}
	if cfg.RetentionDays <= 0 {
		cfg.RetentionDays = 180
	}
	return &Collector{fetcher: fetcher, scorer: scorer, cfg: cfg, now: time.Now}
}

// Run executes one collection pass and returns today's per-label points
// ready to merge, plus run statistics. Upstream failures abort the run;
// per-item problems are skipped.
func (c *Collector) Run(ctx context.Context) (map[string]model.SeriesPoint, *RunStats, error) {
	stats := &RunStats{}
	sums := make(map[string]*bucket, len(c.cfg.Categories))
	for _, cat := range c.cfg.Categories {
		sums[cat.Label()] = &bucket{}
	}
	processed := make(map[string]bool)

	for _, cat := range c.cfg.Categories {
		ids, err := c.searchCategory(ctx, cat, stats)
		if err != nil {
			return nil, stats, err
		}

		for start := 0; start < len(ids); start += youtube.MaxDetailBatch {
			end := min(start+youtube.MaxDetailBatch, len(ids))
			items, err := c.fetcher.Videos(ctx, ids[start:end])
			if err != nil {
				return nil, stats, fmt.Errorf("collector: details for %q: %w", cat, err)
			}
			stats.Fetched += len(items)

			for _, item := range items {
				if processed[item.VideoID] {
					stats.Skipped++
					continue
				}
				processed[item.VideoID] = true

				weights := c.scorer.ScoreItem(item)
				if len(weights) == 0 {
					stats.Skipped++
					continue
				}
				stats.Scored++

				for wc, w := range weights {
					label := wc.Label()
					b, ok := sums[label]
					if !ok {
						b = &bucket{}
						sums[label] = b
					}
					b.views += float64(item.ViewCount) * w
					b.weight += w
				}
			}
		}
	}

	today := c.now().UTC().Format("2006-01-02")
	points := make(map[string]model.SeriesPoint, len(sums))
	for label, b := range sums {
		points[label] = model.SeriesPoint{
			Date:  today,
			Views: int64(math.Round(b.views)),
			N:     int(math.Round(b.weight)),
		}
	}

	log.Printf("collector: run complete — %d searches, %d fetched, %d scored, %d skipped",
		stats.Searches, stats.Fetched, stats.Scored, stats.Skipped)
	return points, stats, nil
}

// searchCategory fetches up to PagesPerRun result pages for one category,
// querying by its display label, and returns the deduplicated video IDs.
func (c *Collector) searchCategory(ctx context.Context, cat model.Category, stats *RunStats) ([]string, error) {
	var ids []string
	seen := make(map[string]bool)

	pageToken := ""
	for page := 0; page < c.cfg.PagesPerRun; page++ {
		res, err := c.fetcher.Search(ctx, cat.Label(), pageToken)
		if err != nil {
			return nil, fmt.Errorf("collector: search %q: %w", cat, err)
		}
		stats.Searches++

		for _, id := range res.VideoIDs {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}

		pageToken = res.NextPageToken
		if pageToken == "" {
			break
		}
	}
	return ids, nil
}
