package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonghyochu-star/shots-radar/internal/config"
	"github.com/jonghyochu-star/shots-radar/internal/db"
	"github.com/jonghyochu-star/shots-radar/internal/handler"
	"github.com/jonghyochu-star/shots-radar/internal/middleware"
	"github.com/jonghyochu-star/shots-radar/internal/repository"
	"github.com/jonghyochu-star/shots-radar/internal/router"
	"github.com/jonghyochu-star/shots-radar/internal/service"
)

func main() {
	cfg := config.Load()

	middleware.InitLogger(cfg.LogLevel, "shots-radar-api")

	ctx := context.Background()

	// The archive database is optional: the API serves from the trend file.
	var pool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		var err error
		pool, err = db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
		defer pool.Close()
	} else {
		log.Println("no DATABASE_URL configured, archive disabled")
	}

	cache := service.NewCacheService(cfg.RedisURL)
	defer cache.Close()

	handler.InitMetrics(pool)

	trendSvc := service.NewTrendService(cfg.TrendPath, cache)
	trendSvc.OnCacheHit = handler.Metrics.CacheHits.Inc
	trendSvc.OnCacheMiss = handler.Metrics.CacheMisses.Inc

	var trendRepo *repository.TrendRepo
	if pool != nil {
		trendRepo = repository.NewTrendRepo(pool)
	}

	h := &router.Handlers{
		Trend:  handler.NewTrendHandler(trendSvc),
		Stats:  handler.NewStatsHandler(trendSvc, trendRepo),
		Health: handler.NewHealthHandler(pool, cache.Client()),
	}

	app := fiber.New(fiber.Config{
		AppName:      "shots-radar API",
		ServerHeader: "shots-radar",
	})

	router.Setup(app, h, cfg.CORSOrigins)

	go func() {
		log.Printf("shots-radar trend API starting on :%s (env=%s)", cfg.Port, cfg.Environment)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
