package fetcher

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ppaulojr/stockanalisys/internal/ons"
	"github.com/ppaulojr/stockanalisys/pkg/model"
)

// --- Mock ONS client ---

type mockONS struct {
	earFn   func(ctx context.Context, year int) ([]ons.EARMeasurement, error)
	cargaFn func(ctx context.Context, year int) ([]ons.LoadMeasurement, error)
	cmoFn   func(ctx context.Context, year int) ([]ons.CMOMeasurement, error)
}

func (m *mockONS) GetEARSubsistema(ctx context.Context, year int) ([]ons.EARMeasurement, error) {
	if m.earFn != nil {
		return m.earFn(ctx, year)
	}
	return nil, errors.New("not implemented")
}

func (m *mockONS) GetCargaEnergia(ctx context.Context, year int) ([]ons.LoadMeasurement, error) {
	if m.cargaFn != nil {
		return m.cargaFn(ctx, year)
	}
	return nil, errors.New("not implemented")
}

func (m *mockONS) GetCMOSemiHorario(ctx context.Context, year int) ([]ons.CMOMeasurement, error) {
	if m.cmoFn != nil {
		return m.cmoFn(ctx, year)
	}
	return nil, errors.New("not implemented")
}

func TestReservoirs_ParsesLatestPerRegion(t *testing.T) {
	f := NewEnergy(zap.NewNop(), &mockONS{
		earFn: func(ctx context.Context, year int) ([]ons.EARMeasurement, error) {
			return []ons.EARMeasurement{
				{Instante: "2025-08-23 00:00:00", SubsystemID: "SE", Percent: 61.9},
				{Instante: "2025-08-24 00:00:00", SubsystemID: "SE", Percent: 62.4},
				{Instante: "2025-08-24 00:00:00", SubsystemID: "NE", Percent: 44.6},
			}, nil
		},
	})

	snap := f.Reservoirs(context.Background())
	require.NotNil(t, snap)
	assert.Equal(t, model.SourceONS, snap.DataSource)

	se := snap.Regions[model.RegionSoutheast]
	assert.InDelta(t, 62.4, se.LevelPercent, 0.001)
	assert.Equal(t, "2025-08-24 00:00:00", se.Timestamp)
	assert.Equal(t, "normal", se.Status)
	assert.InDelta(t, 208355, se.CapacityMWMed, 0.001)

	ne := snap.Regions[model.RegionNortheast]
	assert.Equal(t, "attention", ne.Status)
}

func TestReservoirs_FallsBackToPreviousYear(t *testing.T) {
	var years []int
	f := NewEnergy(zap.NewNop(), &mockONS{
		earFn: func(ctx context.Context, year int) ([]ons.EARMeasurement, error) {
			years = append(years, year)
			if len(years) == 1 {
				return nil, errors.New("no current-year file yet")
			}
			return []ons.EARMeasurement{
				{Instante: "2024-12-31 00:00:00", SubsystemID: "S", Percent: 70.5},
			}, nil
		},
	})

	snap := f.Reservoirs(context.Background())
	require.Len(t, years, 2)
	assert.Equal(t, model.SourceONS, snap.DataSource)
	assert.InDelta(t, 70.5, snap.Regions[model.RegionSouth].LevelPercent, 0.001)
}

func TestReservoirs_FallbackWhenUnavailable(t *testing.T) {
	f := NewEnergy(zap.NewNop(), &mockONS{
		earFn: func(ctx context.Context, year int) ([]ons.EARMeasurement, error) {
			return nil, errors.New("connection refused")
		},
	})

	snap := f.Reservoirs(context.Background())
	require.NotNil(t, snap)
	assert.Equal(t, model.SourceFallback, snap.DataSource)
	assert.Contains(t, snap.Note, "unavailable")
	require.Len(t, snap.Regions, 4)
	assert.InDelta(t, 65.4, snap.Regions[model.RegionSoutheast].LevelPercent, 0.001)
	assert.Equal(t, "attention", snap.Regions[model.RegionNortheast].Status)
}

func TestReservoirs_FallbackWhenNotParsed(t *testing.T) {
	f := NewEnergy(zap.NewNop(), &mockONS{
		earFn: func(ctx context.Context, year int) ([]ons.EARMeasurement, error) {
			return []ons.EARMeasurement{
				{Instante: "2025-08-24", SubsystemID: "??", Percent: 10},
			}, nil
		},
	})

	snap := f.Reservoirs(context.Background())
	assert.Equal(t, model.SourceFallback, snap.DataSource)
	assert.Contains(t, snap.Note, "not recognized")
}

func TestPLD_FromMarginalCost(t *testing.T) {
	f := NewEnergy(zap.NewNop(), &mockONS{
		cmoFn: func(ctx context.Context, year int) ([]ons.CMOMeasurement, error) {
			return []ons.CMOMeasurement{
				{Instante: "2025-08-24 11:30:00", SubsystemID: "SE", CostBRLMWh: 152.474},
				{Instante: "2025-08-24 12:00:00", SubsystemID: "SE", CostBRLMWh: 161.02},
				{Instante: "2025-08-24 12:00:00", SubsystemID: "N", CostBRLMWh: 101.55},
			}, nil
		},
	})

	snap := f.PLD(context.Background())
	assert.Equal(t, model.SourceONS, snap.DataSource)

	se := snap.Regions[model.RegionSoutheast]
	assert.InDelta(t, 161.02, se.Price, 0.001)
	assert.Equal(t, "SE/CO", se.Submercado)
	assert.Equal(t, "BRL/MWh", se.Currency)

	n := snap.Regions[model.RegionNorth]
	assert.Equal(t, "N", n.Submercado)
}

func TestPLD_FallbackWhenUnavailable(t *testing.T) {
	f := NewEnergy(zap.NewNop(), &mockONS{})

	snap := f.PLD(context.Background())
	assert.Equal(t, model.SourceFallback, snap.DataSource)
	require.Len(t, snap.Regions, 4)
	assert.InDelta(t, 145.32, snap.Regions[model.RegionSoutheast].Price, 0.001)
}

func TestConsumption_TotalsAndForecast(t *testing.T) {
	f := NewEnergy(zap.NewNop(), &mockONS{
		cargaFn: func(ctx context.Context, year int) ([]ons.LoadMeasurement, error) {
			return []ons.LoadMeasurement{
				{Instante: "2025-08-24 00:00:00", SubsystemID: "SE", LoadMWMed: 40000},
				{Instante: "2025-08-24 00:00:00", SubsystemID: "S", LoadMWMed: 10000},
				{Instante: "2025-08-23 00:00:00", SubsystemID: "S", LoadMWMed: 9000},
			}, nil
		},
	})

	snap := f.Consumption(context.Background())
	assert.Equal(t, model.SourceONS, snap.DataSource)
	assert.Equal(t, 50000, snap.CurrentLoadMW)
	assert.Equal(t, 51500, snap.ForecastLoadMW)
	assert.Equal(t, "2025-08-24 00:00:00", snap.Timestamp)

	assert.InDelta(t, 80.0, snap.Regions[model.RegionSoutheast].Percent, 0.001)
	assert.InDelta(t, 20.0, snap.Regions[model.RegionSouth].Percent, 0.001)
}

func TestConsumption_FallbackWhenUnavailable(t *testing.T) {
	f := NewEnergy(zap.NewNop(), &mockONS{})

	snap := f.Consumption(context.Background())
	assert.Equal(t, model.SourceFallback, snap.DataSource)
	assert.Equal(t, 68542, snap.CurrentLoadMW)
	assert.Equal(t, 70125, snap.ForecastLoadMW)
	require.Len(t, snap.Regions, 4)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, "normal", statusFor(50.1))
	assert.Equal(t, "attention", statusFor(50))
	assert.Equal(t, "attention", statusFor(12.3))
}
