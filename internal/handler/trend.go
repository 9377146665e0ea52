package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/jonghyochu-star/shots-radar/internal/middleware"
	"github.com/jonghyochu-star/shots-radar/internal/model"
	"github.com/jonghyochu-star/shots-radar/internal/service"
)

type TrendHandler struct {
	svc *service.TrendService
}

func NewTrendHandler(svc *service.TrendService) *TrendHandler {
	return &TrendHandler{svc: svc}
}

// GetTrend handles GET /api/trend — the full retained document.
func (h *TrendHandler) GetTrend(c fiber.Ctx) error {
	Metrics.TrendRequests.WithLabelValues("all").Inc()
	return c.JSON(h.svc.Document(c.Context()))
}

// GetCategory handles GET /api/trend/:category
func (h *TrendHandler) GetCategory(c fiber.Ctx) error {
	key, msg := middleware.ValidateCategory(c.Params("category"))
	if msg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_CATEGORY", msg)
	}

	cat, err := model.ParseCategory(key)
	if err != nil {
		// Accept display labels too, so /api/trend/게임 works.
		var ok bool
		if cat, ok = model.CategoryByLabel(key); !ok {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Unknown category")
		}
	}

	days, msg := middleware.ValidateDays(fiber.Query[string](c, "days"))
	if msg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_DAYS", msg)
	}

	Metrics.TrendRequests.WithLabelValues(string(cat)).Inc()

	resp := h.svc.Category(c.Context(), cat)
	if days > 0 && len(resp.Points) > days {
		trimmed := *resp
		trimmed.Points = resp.Points[len(resp.Points)-days:]
		return c.JSON(&trimmed)
	}
	return c.JSON(resp)
}
