package fetcher

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ppaulojr/stockanalisys/internal/metrics"
	"github.com/ppaulojr/stockanalisys/internal/ons"
	"github.com/ppaulojr/stockanalisys/pkg/model"
)

// ONSAPI is the slice of the ONS client the energy fetcher needs.
type ONSAPI interface {
	GetEARSubsistema(ctx context.Context, year int) ([]ons.EARMeasurement, error)
	GetCargaEnergia(ctx context.Context, year int) ([]ons.LoadMeasurement, error)
	GetCMOSemiHorario(ctx context.Context, year int) ([]ons.CMOMeasurement, error)
}

// Approximate maximum storable energy per region, in MWmed.
var regionCapacities = map[string]float64{
	model.RegionSoutheast: 208355,
	model.RegionSouth:     19768,
	model.RegionNortheast: 56468,
	model.RegionNorth:     13489,
}

// PLD submarket codes per region.
var regionSubmarkets = map[string]string{
	model.RegionSoutheast: "SE/CO",
	model.RegionSouth:     "S",
	model.RegionNortheast: "NE",
	model.RegionNorth:     "N",
}

const (
	noteParsed       = "Data parsed successfully from ONS open data"
	noteNotParsed    = "Data structure not recognized - using fallback values"
	noteUnavailable  = "ONS open data unavailable - using fallback values"
	forecastUplift   = 1.03
	attentionPercent = 50
)

// Energy fetches Brazilian grid metrics via the ONS client and shapes them
// for the web layer. Upstream failure degrades to static fallback payloads
// with a logged warning; it never returns an error to the caller.
type Energy struct {
	logger *zap.Logger
	client ONSAPI
}

// NewEnergy creates the energy fetcher.
func NewEnergy(logger *zap.Logger, client ONSAPI) *Energy {
	return &Energy{logger: logger, client: client}
}

func statusFor(levelPercent float64) string {
	if levelPercent > attentionPercent {
		return "normal"
	}
	return "attention"
}

func round1(v float64) float64 {
	return decimal.NewFromFloat(v).Round(1).InexactFloat64()
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// Reservoirs returns stored-energy levels by region, falling back to the
// previous year's dataset and then to static values.
func (f *Energy) Reservoirs(ctx context.Context) *model.ReservoirSnapshot {
	rows, err := f.client.GetEARSubsistema(ctx, 0)
	if err != nil || len(rows) == 0 {
		rows, err = f.client.GetEARSubsistema(ctx, time.Now().Year()-1)
	}
	if err != nil {
		f.logger.Warn("fetcher.reservoirs_unavailable", zap.Error(err))
		metrics.IncFallback("reservoirs")
		return fallbackReservoirs(noteUnavailable)
	}

	latest := map[string]ons.EARMeasurement{}
	for _, row := range rows {
		region, ok := ons.RegionForSubsystem(row.SubsystemID)
		if !ok {
			continue
		}
		// ONS timestamps are ISO formatted, so string order is date order.
		if prev, seen := latest[region]; !seen || row.Instante >= prev.Instante {
			latest[region] = row
		}
	}

	if len(latest) == 0 {
		f.logger.Warn("fetcher.reservoirs_not_parsed", zap.Int("rows", len(rows)))
		metrics.IncFallback("reservoirs")
		return fallbackReservoirs(noteNotParsed)
	}

	regions := make(map[string]model.ReservoirLevel, len(latest))
	for region, row := range latest {
		regions[region] = model.ReservoirLevel{
			LevelPercent:  round1(row.Percent),
			CapacityMWMed: regionCapacities[region],
			Timestamp:     row.Instante,
			Status:        statusFor(row.Percent),
		}
	}
	return &model.ReservoirSnapshot{
		Regions:    regions,
		DataSource: model.SourceONS,
		Note:       noteParsed,
	}
}

// PLD returns settlement prices by submarket, sourced from the semi-hourly
// marginal operating cost dataset.
func (f *Energy) PLD(ctx context.Context) *model.PLDSnapshot {
	rows, err := f.client.GetCMOSemiHorario(ctx, 0)
	if err != nil || len(rows) == 0 {
		rows, err = f.client.GetCMOSemiHorario(ctx, time.Now().Year()-1)
	}
	if err != nil {
		f.logger.Warn("fetcher.pld_unavailable", zap.Error(err))
		metrics.IncFallback("pld")
		return fallbackPLD(noteUnavailable)
	}

	latest := map[string]ons.CMOMeasurement{}
	for _, row := range rows {
		region, ok := ons.RegionForSubsystem(row.SubsystemID)
		if !ok {
			continue
		}
		if prev, seen := latest[region]; !seen || row.Instante >= prev.Instante {
			latest[region] = row
		}
	}

	if len(latest) == 0 {
		f.logger.Warn("fetcher.pld_not_parsed", zap.Int("rows", len(rows)))
		metrics.IncFallback("pld")
		return fallbackPLD(noteNotParsed)
	}

	regions := make(map[string]model.PLDPrice, len(latest))
	for region, row := range latest {
		regions[region] = model.PLDPrice{
			Price:      round2(row.CostBRLMWh),
			Submercado: regionSubmarkets[region],
			Currency:   "BRL/MWh",
			Timestamp:  row.Instante,
		}
	}
	return &model.PLDSnapshot{
		Regions:    regions,
		DataSource: model.SourceONS,
		Note:       noteParsed,
	}
}

// Consumption returns the grid load picture by region.
func (f *Energy) Consumption(ctx context.Context) *model.ConsumptionSnapshot {
	rows, err := f.client.GetCargaEnergia(ctx, 0)
	if err != nil || len(rows) == 0 {
		rows, err = f.client.GetCargaEnergia(ctx, time.Now().Year()-1)
	}
	if err != nil {
		f.logger.Warn("fetcher.consumption_unavailable", zap.Error(err))
		metrics.IncFallback("consumption")
		return fallbackConsumption(noteUnavailable)
	}

	latest := map[string]ons.LoadMeasurement{}
	for _, row := range rows {
		region, ok := ons.RegionForSubsystem(row.SubsystemID)
		if !ok {
			continue
		}
		if prev, seen := latest[region]; !seen || row.Instante >= prev.Instante {
			latest[region] = row
		}
	}

	if len(latest) == 0 {
		f.logger.Warn("fetcher.consumption_not_parsed", zap.Int("rows", len(rows)))
		metrics.IncFallback("consumption")
		return fallbackConsumption(noteNotParsed)
	}

	snap := &model.ConsumptionSnapshot{
		Regions:    make(map[string]model.RegionLoad, len(latest)),
		DataSource: model.SourceONS,
		Note:       noteParsed,
	}

	var total float64
	for region, row := range latest {
		total += row.LoadMWMed
		snap.Regions[region] = model.RegionLoad{LoadMW: row.LoadMWMed}
		if row.Instante > snap.Timestamp {
			snap.Timestamp = row.Instante
		}
	}
	if total > 0 {
		for region, load := range snap.Regions {
			load.Percent = round1(load.LoadMW / total * 100)
			snap.Regions[region] = load
		}
		snap.CurrentLoadMW = int(total)
		snap.ForecastLoadMW = int(total * forecastUplift)
	}
	return snap
}

// --- static fallback shapes (the source dashboard's simulated values) ---

func fallbackReservoirs(note string) *model.ReservoirSnapshot {
	now := time.Now().Format(time.RFC3339)
	levels := map[string]float64{
		model.RegionSoutheast: 65.4,
		model.RegionSouth:     58.2,
		model.RegionNortheast: 42.8,
		model.RegionNorth:     71.3,
	}
	regions := make(map[string]model.ReservoirLevel, len(levels))
	for region, level := range levels {
		regions[region] = model.ReservoirLevel{
			LevelPercent:  level,
			CapacityMWMed: regionCapacities[region],
			Timestamp:     now,
			Status:        statusFor(level),
		}
	}
	return &model.ReservoirSnapshot{Regions: regions, DataSource: model.SourceFallback, Note: note}
}

func fallbackPLD(note string) *model.PLDSnapshot {
	now := time.Now().Format(time.RFC3339)
	prices := map[string]float64{
		model.RegionSoutheast: 145.32,
		model.RegionSouth:     138.75,
		model.RegionNortheast: 152.18,
		model.RegionNorth:     148.90,
	}
	regions := make(map[string]model.PLDPrice, len(prices))
	for region, price := range prices {
		regions[region] = model.PLDPrice{
			Price:      price,
			Submercado: regionSubmarkets[region],
			Currency:   "BRL/MWh",
			Timestamp:  now,
		}
	}
	return &model.PLDSnapshot{Regions: regions, DataSource: model.SourceFallback, Note: note}
}

func fallbackConsumption(note string) *model.ConsumptionSnapshot {
	return &model.ConsumptionSnapshot{
		CurrentLoadMW:  68542,
		ForecastLoadMW: 70125,
		Timestamp:      time.Now().Format(time.RFC3339),
		Regions: map[string]model.RegionLoad{
			model.RegionSoutheast: {LoadMW: 38245, Percent: 55.8},
			model.RegionSouth:     {LoadMW: 9876, Percent: 14.4},
			model.RegionNortheast: {LoadMW: 12543, Percent: 18.3},
			model.RegionNorth:     {LoadMW: 7878, Percent: 11.5},
		},
		DataSource: model.SourceFallback,
		Note:       note,
	}
}
