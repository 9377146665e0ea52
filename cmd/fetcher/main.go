package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/jonghyochu-star/shots-radar/internal/classify"
	"github.com/jonghyochu-star/shots-radar/internal/collector"
	"github.com/jonghyochu-star/shots-radar/internal/config"
	"github.com/jonghyochu-star/shots-radar/internal/db"
	"github.com/jonghyochu-star/shots-radar/internal/keypool"
	"github.com/jonghyochu-star/shots-radar/internal/model"
	"github.com/jonghyochu-star/shots-radar/internal/prior"
	"github.com/jonghyochu-star/shots-radar/internal/repository"
	"github.com/jonghyochu-star/shots-radar/internal/series"
	"github.com/jonghyochu-star/shots-radar/internal/service"
	"github.com/jonghyochu-star/shots-radar/internal/youtube"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	rules, err := model.LoadRules(cfg.RulesPath)
	if err != nil {
		log.Fatalf("rules: %v", err)
	}

	pool, err := keypool.New(keypool.Config{
		Keys:             cfg.Keys,
		FailureThreshold: cfg.KeyFailureThreshold,
		Cooldown:         cooldownPolicy(cfg),
	})
	if err != nil {
		log.Fatalf("keypool: %v", err)
	}

	client := youtube.New(pool, youtube.Config{
		ResultsPerPage: cfg.ResultsPerPage,
		LookbackDays:   cfg.LookbackDays,
	})

	priors := prior.NewStore(cfg.PriorPath)
	priors.Load()

	overrides := model.LoadOverrides(cfg.OverridesPath)

	clf := classify.New(rules, priors, overrides, classify.Config{
		Alpha:            cfg.PriorAlpha,
		MinBoost:         cfg.PriorMinBoost,
		MaxBoost:         cfg.PriorMaxBoost,
		Confidence:       cfg.PriorConfidence,
		OverrideMode:     cfg.OverrideMode,
		OverridePosBoost: cfg.OverridePosBoost,
		OverrideNegBoost: cfg.OverrideNegBoost,
	})

	col := collector.New(client, clf, collector.Config{
		Categories:    rules.RuleCategories(),
		PagesPerRun:   cfg.PagesPerRun,
		RetentionDays: cfg.RetentionDays,
	})

	points, _, err := col.Run(ctx)
	if err != nil {
		if errors.Is(err, keypool.ErrExhaustedCredentials) {
			log.Fatalf("run aborted, all API keys exhausted: %v", err)
		}
		log.Fatalf("run failed: %v", err)
	}

	doc := series.Load(cfg.TrendPath)
	doc.Series = series.Merge(doc.Series, points, cfg.RetentionDays)
	doc.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	doc.Meta.Scoring = collector.ScoringMode

	if err := series.Save(cfg.TrendPath, doc); err != nil {
		log.Fatalf("save trend: %v", err)
	}
	if err := priors.Flush(); err != nil {
		log.Fatalf("flush priors: %v", err)
	}

	archive(ctx, cfg, points)
	invalidateCache(ctx, cfg)

	log.Printf("done: %d categories merged into %s", len(points), cfg.TrendPath)
}

func cooldownPolicy(cfg *config.Config) keypool.CooldownPolicy {
	if cfg.KeyCooldownResetHour >= 0 && cfg.KeyCooldownResetHour < 24 {
		return keypool.DailyResetCooldown{Hour: cfg.KeyCooldownResetHour}
	}
	return keypool.FixedCooldown(time.Duration(cfg.KeyCooldownMinutes) * time.Minute)
}

// archive mirrors the day's points into Postgres when configured. Failures
// are logged, not fatal: the file is the source of truth.
func archive(ctx context.Context, cfg *config.Config, points map[string]model.SeriesPoint) {
	if cfg.DatabaseURL == "" {
		return
	}
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Printf("archive: %v", err)
		return
	}
	defer pool.Close()

	repo := repository.NewTrendRepo(pool)
	if err := repo.UpsertPoints(ctx, points); err != nil {
		log.Printf("archive: upsert: %v", err)
		return
	}
	if pruned, err := repo.Prune(ctx, cfg.RetentionDays); err != nil {
		log.Printf("archive: prune: %v", err)
	} else if pruned > 0 {
		log.Printf("archive: pruned %d expired rows", pruned)
	}
}

// invalidateCache drops cached trend responses so the API serves the fresh
// document immediately instead of after TTL expiry.
func invalidateCache(ctx context.Context, cfg *config.Config) {
	if cfg.RedisURL == "" {
		return
	}
	cache := service.NewCacheService(cfg.RedisURL)
	defer cache.Close()
	if err := cache.InvalidateTrend(ctx); err != nil {
		log.Printf("cache: invalidate: %v", err)
	}
}
