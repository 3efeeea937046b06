package routes

import (
	"catering-backend/controllers"

	"github.com/gofiber/fiber/v2"
)

func RegisterAuthRoutes(app *fiber.App, auth *controllers.AuthController) {
	api := app.Group("/api")
	api.Post("/login", auth.Login)
}

// RegisterCostingRoutes mounts the analytics API under /api/costing behind
// the given guards.
func RegisterCostingRoutes(app *fiber.App, h *controllers.AnalyticsController, guards ...fiber.Handler) {
	api := app.Group("/api/costing")
	for _, g := range guards {
		api.Use(g)
	}

	api.Get("/variations", h.GetVariations)
	api.Get("/variations/summary", h.GetVariationSummary)
	api.Get("/variations/export", h.ExportVariations)
	api.Get("/history/:id", h.GetHistory)
	api.Get("/breakdown/:id", h.GetBreakdown)
	api.Get("/events/:id", h.GetCostEvents)
	api.Get("/alerts", h.GetPriceAlerts)
}
