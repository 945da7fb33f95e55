package fetcher

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ppaulojr/stockanalisys/internal/market"
	"github.com/ppaulojr/stockanalisys/pkg/model"
)

// MarketAPI is the slice of the market client the axia fetcher needs.
type MarketAPI interface {
	GetQuote(ctx context.Context, symbol string) (*market.Quote, error)
	GetHistory(ctx context.Context, symbol, rng string) ([]market.Bar, error)
}

// AXIA share classes traded on B3.
var axiaSymbols = map[string]string{
	"AXIA3": "AXIA3.SA", // common shares
	"AXIA6": "AXIA6.SA", // preferred shares class A
	"AXIA7": "AXIA7.SA", // preferred shares class B
}

// Axia fetches AXIA share prices from B3 and shapes them for the web layer.
type Axia struct {
	logger *zap.Logger
	client MarketAPI
}

// NewAxia creates the stock fetcher.
func NewAxia(logger *zap.Logger, client MarketAPI) *Axia {
	return &Axia{logger: logger, client: client}
}

// CurrentPrices returns the latest price for every AXIA share class. Failures
// are isolated per symbol: a failing class yields a nil price with an error
// note instead of failing the whole set.
func (f *Axia) CurrentPrices(ctx context.Context) map[string]model.PriceQuote {
	names := make([]string, 0, len(axiaSymbols))
	for name := range axiaSymbols {
		names = append(names, name)
	}
	sort.Strings(names)

	prices := make(map[string]model.PriceQuote, len(names))
	for _, name := range names {
		symbol := axiaSymbols[name]
		entry := model.PriceQuote{
			Symbol:    symbol,
			Currency:  "BRL",
			Timestamp: time.Now().Format(time.RFC3339),
		}

		quote, err := f.client.GetQuote(ctx, symbol)
		if err != nil {
			f.logger.Warn("fetcher.axia_quote_failed",
				zap.String("symbol", symbol),
				zap.Error(err))
			entry.Error = "No data available"
			prices[name] = entry
			continue
		}

		price := decimal.NewFromFloat(quote.Price).Round(2).InexactFloat64()
		entry.Price = &price
		if quote.Currency != "" {
			entry.Currency = quote.Currency
		}
		prices[name] = entry
	}
	return prices
}

// Historical returns one month of daily candles for an AXIA share class.
// A nil result means the symbol is unknown or has no data.
func (f *Axia) Historical(ctx context.Context, name string) []model.Candle {
	symbol, ok := axiaSymbols[name]
	if !ok {
		return nil
	}

	bars, err := f.client.GetHistory(ctx, symbol, "1mo")
	if err != nil {
		f.logger.Warn("fetcher.axia_history_failed",
			zap.String("symbol", symbol),
			zap.Error(err))
		return nil
	}

	candles := make([]model.Candle, 0, len(bars))
	for _, b := range bars {
		candles = append(candles, model.Candle{
			Date:   b.Date.Format("2006-01-02"),
			Open:   decimal.NewFromFloat(b.Open).Round(2).InexactFloat64(),
			High:   decimal.NewFromFloat(b.High).Round(2).InexactFloat64(),
			Low:    decimal.NewFromFloat(b.Low).Round(2).InexactFloat64(),
			Close:  decimal.NewFromFloat(b.Close).Round(2).InexactFloat64(),
			Volume: b.Volume,
		})
	}
	if len(candles) == 0 {
		return nil
	}
	return candles
}
