package model

import "time"

// Region keys used across all energy snapshots.
const (
	RegionSoutheast = "southeast"
	RegionSouth     = "south"
	RegionNortheast = "northeast"
	RegionNorth     = "north"
)

// Data source tags reported alongside snapshots so the dashboard can tell
// live data from the static fallback shapes.
const (
	SourceONS      = "ONS API"
	SourceFallback = "Fallback data"
)

// ReservoirLevel is the stored-energy state of one region's reservoirs.
type ReservoirLevel struct {
	LevelPercent  float64 `json:"level_percent"`
	CapacityMWMed float64 `json:"capacity_mwmed"`
	Timestamp     string  `json:"timestamp"`
	Status        string  `json:"status"`
}

// ReservoirSnapshot aggregates reservoir levels by region.
type ReservoirSnapshot struct {
	Regions    map[string]ReservoirLevel `json:"regions"`
	DataSource string                    `json:"data_source"`
	Note       string                    `json:"note,omitempty"`
}

// PLDPrice is the settlement price for one submarket, in BRL/MWh.
type PLDPrice struct {
	Price      float64 `json:"price"`
	Submercado string  `json:"submercado"`
	Currency   string  `json:"currency"`
	Timestamp  string  `json:"timestamp"`
}

// PLDSnapshot aggregates settlement prices by region.
type PLDSnapshot struct {
	Regions    map[string]PLDPrice `json:"regions"`
	DataSource string              `json:"data_source"`
	Note       string              `json:"note,omitempty"`
}

// RegionLoad is one region's share of grid load.
type RegionLoad struct {
	LoadMW  float64 `json:"load_mw"`
	Percent float64 `json:"percent"`
}

// ConsumptionSnapshot is the grid-wide load picture.
type ConsumptionSnapshot struct {
	CurrentLoadMW  int                   `json:"current_load_mw"`
	ForecastLoadMW int                   `json:"forecast_load_mw"`
	Timestamp      string                `json:"timestamp"`
	Regions        map[string]RegionLoad `json:"regions"`
	DataSource     string                `json:"data_source"`
	Note           string                `json:"note,omitempty"`
}

// PriceQuote is the latest price for one listed share class.
type PriceQuote struct {
	Symbol    string   `json:"symbol"`
	Price     *float64 `json:"price"`
	Currency  string   `json:"currency"`
	Timestamp string   `json:"timestamp"`
	Error     string   `json:"error,omitempty"`
}

// Candle is one daily bar of historical price data.
type Candle struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// DashboardSnapshot bundles everything the dashboard polls in one payload.
type DashboardSnapshot struct {
	AxiaPrices  map[string]PriceQuote `json:"axia_prices"`
	Reservoirs  *ReservoirSnapshot    `json:"reservoirs"`
	PLDPrices   *PLDSnapshot          `json:"pld_prices"`
	Consumption *ConsumptionSnapshot  `json:"consumption"`
	GeneratedAt time.Time             `json:"generated_at"`
}
