package controller

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	helper "masingacdf_backend/internals/helpers"

	"masingacdf_backend/internals/features/analytics/service"
)

type AnalyticsController struct {
	Analytics *service.AnalyticsService
}

func NewAnalyticsController(analytics *service.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{Analytics: analytics}
}

// Overview serves the cached dashboard snapshot.
// GET /api/a/analytics/overview
func (ctrl *AnalyticsController) Overview(c *fiber.Ctx) error {
	ov, err := ctrl.Analytics.Overview()
	if err != nil {
		log.Printf("[ERROR] analytics overview: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError, "Could not compute analytics")
	}
	return helper.Success(c, "OK", ov)
}

// Timeline serves daily submission counts.
// GET /api/a/analytics/timeline?days=30
func (ctrl *AnalyticsController) Timeline(c *fiber.Ctx) error {
	days, _ := strconv.Atoi(c.Query("days", "30"))
	if days > 365 {
		days = 365
	}

	points, err := ctrl.Analytics.SubmissionTimeline(days)
	if err != nil {
		log.Printf("[ERROR] analytics timeline: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError, "Could not compute the timeline")
	}
	return helper.Success(c, "OK", points)
}

// Trends serves monthly counts and requested totals.
// GET /api/a/analytics/trends?months=12
func (ctrl *AnalyticsController) Trends(c *fiber.Ctx) error {
	months, _ := strconv.Atoi(c.Query("months", "12"))
	if months > 36 {
		months = 36
	}

	trends, err := ctrl.Analytics.MonthlyTrends(months)
	if err != nil {
		log.Printf("[ERROR] analytics trends: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError, "Could not compute trends")
	}
	return helper.Success(c, "OK", trends)
}

// Refresh drops the cache so the next overview recomputes.
// POST /api/a/analytics/refresh
func (ctrl *AnalyticsController) Refresh(c *fiber.Ctx) error {
	ctrl.Analytics.Invalidate()
	return helper.Success(c, "Analytics cache cleared", nil)
}
