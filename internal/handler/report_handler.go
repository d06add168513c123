package handler

import (
	"strconv"
	"time"

	"go-pos-engine/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	service service.ReportService
}

func NewReportHandler(s service.ReportService) *ReportHandler {
	return &ReportHandler{service: s}
}

// GetRevenueSummary returns net revenue for a trailing window
// Query params: days (default 30)
func (h *ReportHandler) GetRevenueSummary(c *fiber.Ctx) error {
	daysStr := c.Query("days", "30")
	days, err := strconv.Atoi(daysStr)
	if err != nil || days <= 0 {
		days = 30
	}

	end := time.Now()
	start := end.AddDate(0, 0, -days)

	summary, err := h.service.GetRevenueSummary(start, end)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch revenue summary"})
	}

	return c.JSON(fiber.Map{
		"period": days,
		"data":   summary,
	})
}

// GetStockMovement returns units sold and returned per day
// Query params: days (default 7)
func (h *ReportHandler) GetStockMovement(c *fiber.Ctx) error {
	daysStr := c.Query("days", "7")
	days, err := strconv.Atoi(daysStr)
	if err != nil || days <= 0 {
		days = 7
	}

	data, err := h.service.GetStockMovement(days)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch stock movement"})
	}

	return c.JSON(fiber.Map{
		"period": days,
		"data":   data,
	})
}
