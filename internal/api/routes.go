package api

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ppaulojr/stockanalisys/internal/store"
)

// RegisterRoutes wires all HTTP routes. st may be nil when no cache is
// configured; /health reports it as "disabled" rather than degraded.
func RegisterRoutes(app *fiber.App, st store.Store, h *DashboardHandler) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		checks := map[string]string{
			"store": "disabled",
		}
		status := "ok"
		code := fiber.StatusOK

		if st != nil {
			checks["store"] = "ok"
			healthCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := st.HealthCheck(healthCtx); err != nil {
				checks["store"] = err.Error()
				status = "degraded"
				code = fiber.StatusServiceUnavailable
			}
		}

		return c.Status(code).JSON(fiber.Map{
			"status": status,
			"checks": checks,
		})
	})

	// API routes
	api := app.Group("/api")
	api.Get("/axia/prices", h.AxiaPrices)
	api.Get("/axia/historical/:symbol", h.AxiaHistorical)
	api.Get("/energy/reservoirs", h.EnergyReservoirs)
	api.Get("/energy/pld", h.EnergyPLD)
	api.Get("/energy/consumption", h.EnergyConsumption)
	api.Get("/dashboard", h.Dashboard)
}
