package api

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ppaulojr/stockanalisys/internal/jobs"
	"github.com/ppaulojr/stockanalisys/internal/store"
	"github.com/ppaulojr/stockanalisys/pkg/model"
)

// DashboardService defines the aggregation operations needed by the handler.
type DashboardService interface {
	CurrentPrices(ctx context.Context) map[string]model.PriceQuote
	Historical(ctx context.Context, name string) []model.Candle
	Reservoirs(ctx context.Context) *model.ReservoirSnapshot
	PLD(ctx context.Context) *model.PLDSnapshot
	Consumption(ctx context.Context) *model.ConsumptionSnapshot
	Dashboard(ctx context.Context) *model.DashboardSnapshot
}

// DashboardHandler serves the dashboard API.
// cache is optional — if nil, /api/dashboard always builds a fresh snapshot.
type DashboardHandler struct {
	logger  *zap.Logger
	service DashboardService
	cache   store.Store
}

func NewDashboardHandler(logger *zap.Logger, service DashboardService, cache store.Store) *DashboardHandler {
	return &DashboardHandler{
		logger:  logger,
		service: service,
		cache:   cache,
	}
}

// AxiaPrices returns current prices for all tracked tickers.
func (h *DashboardHandler) AxiaPrices(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(h.service.CurrentPrices(c.Context()))
}

// AxiaHistorical returns 30 days of daily candles for one ticker.
func (h *DashboardHandler) AxiaHistorical(c *fiber.Ctx) error {
	symbol := c.Params("symbol")
	candles := h.service.Historical(c.Context(), symbol)
	if candles == nil {
		h.logger.Warn("api.historical.no_data", zap.String("symbol", symbol))
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No historical data available",
		})
	}
	return c.Status(fiber.StatusOK).JSON(candles)
}

// EnergyReservoirs returns per-region reservoir levels.
func (h *DashboardHandler) EnergyReservoirs(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(h.service.Reservoirs(c.Context()))
}

// EnergyPLD returns per-submarket settlement prices.
func (h *DashboardHandler) EnergyPLD(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(h.service.PLD(c.Context()))
}

// EnergyConsumption returns current national load and forecast.
func (h *DashboardHandler) EnergyConsumption(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(h.service.Consumption(c.Context()))
}

// Dashboard returns the combined snapshot, served from the refresher's
// cache when one is warm.
func (h *DashboardHandler) Dashboard(c *fiber.Ctx) error {
	if h.cache != nil {
		var snap model.DashboardSnapshot
		found, err := h.cache.GetJSON(c.Context(), jobs.SnapshotKey, &snap)
		if err != nil {
			h.logger.Warn("api.dashboard.cache_read_failed", zap.Error(err))
		} else if found {
			return c.Status(fiber.StatusOK).JSON(&snap)
		}
	}
	return c.Status(fiber.StatusOK).JSON(h.service.Dashboard(c.Context()))
}
