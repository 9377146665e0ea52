package handler

import (
	"log"

	"github.com/gofiber/fiber/v3"

	"github.com/jonghyochu-star/shots-radar/internal/repository"
	"github.com/jonghyochu-star/shots-radar/internal/service"
)

type StatsHandler struct {
	svc  *service.TrendService
	repo *repository.TrendRepo // nil when the archive is not configured
}

func NewStatsHandler(svc *service.TrendService, repo *repository.TrendRepo) *StatsHandler {
	return &StatsHandler{svc: svc, repo: repo}
}

// GetStats handles GET /api/stats
func (h *StatsHandler) GetStats(c fiber.Ctx) error {
	stats := h.svc.Stats()

	resp := fiber.Map{
		"updatedAt":   stats.UpdatedAt,
		"scoring":     stats.Scoring,
		"categories":  stats.Categories,
		"points":      stats.Points,
		"oldestDay":   stats.OldestDay,
		"latestDay":   stats.LatestDay,
		"latestViews": stats.LatestViews,
		"topCategory": stats.TopCategory,
	}

	if h.repo != nil {
		if day, err := h.repo.LatestDay(c.Context()); err != nil {
			log.Printf("stats: archive latest day: %v", err)
		} else if day != "" {
			resp["archiveLatestDay"] = day
		}
	}

	return c.JSON(resp)
}
