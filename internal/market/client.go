package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/ppaulojr/stockanalisys/internal/httpclient"
	"github.com/ppaulojr/stockanalisys/internal/metrics"
	"github.com/ppaulojr/stockanalisys/internal/rate"
)

// ErrNoData indicates the provider answered but had no rows for the symbol.
var ErrNoData = errors.New("market: no data for symbol")

// TokenSource resolves the provider API token. Satisfied by
// secrets.TokenResolver and by StaticToken.
type TokenSource interface {
	Resolve(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource backed by a fixed string (possibly empty —
// the provider serves B3 quotes without a token at reduced rate limits).
type StaticToken string

func (t StaticToken) Resolve(context.Context) (string, error) { return string(t), nil }

// Config holds the market client configuration.
type Config struct {
	BaseURL      string
	Timeout      time.Duration
	FixturesPath string
	UseFixtures  bool
}

func (cfg Config) withDefaults() Config {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://brapi.dev/api"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	return cfg
}

// Client fetches B3 quotes and daily history from a brapi-style quote API,
// with the same offline fixture switch as the ONS client.
type Client struct {
	logger *zap.Logger
	cfg    Config
	exec   *httpclient.Executor
	tokens TokenSource
}

// NewClient constructs a market-data client. tokens may be nil when the
// provider needs no authentication.
func NewClient(logger *zap.Logger, rateMgr *rate.Manager, tokens TokenSource, cfg Config) *Client {
	cfg = cfg.withDefaults()
	return &Client{
		logger: logger,
		cfg:    cfg,
		exec:   httpclient.New(logger, rateMgr, &http.Client{Timeout: cfg.Timeout}, 1, "market"),
		tokens: tokens,
	}
}

// Bar is one daily OHLCV bar.
type Bar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// Quote is the latest price for one symbol, with optional history bars.
type Quote struct {
	Symbol   string
	Currency string
	Price    float64
	History  []Bar
}

// --- wire types ---

type quoteResponse struct {
	Results []quoteResult `json:"results"`
	Error   string        `json:"error,omitempty"`
}

type quoteResult struct {
	Symbol              string    `json:"symbol"`
	Currency            string    `json:"currency"`
	RegularMarketPrice  float64   `json:"regularMarketPrice"`
	HistoricalDataPrice []histBar `json:"historicalDataPrice"`
}

type histBar struct {
	Date   int64   `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

func (r quoteResult) toQuote() *Quote {
	q := &Quote{
		Symbol:   r.Symbol,
		Currency: r.Currency,
		Price:    r.RegularMarketPrice,
	}
	if q.Currency == "" {
		q.Currency = "BRL"
	}
	for _, b := range r.HistoricalDataPrice {
		q.History = append(q.History, Bar{
			Date:   time.Unix(b.Date, 0).UTC(),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
		})
	}
	return q
}

func (c *Client) loadFixture(symbol string) (*quoteResponse, error) {
	path := filepath.Join(c.cfg.FixturesPath, fmt.Sprintf("market_quote_%s.json", symbol))
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: fixture %s", ErrNoData, path)
	}
	var resp quoteResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("market fixture %s: %w", path, err)
	}
	return &resp, nil
}

func (c *Client) fetch(ctx context.Context, symbol string, params url.Values) (*quoteResponse, error) {
	if c.cfg.UseFixtures {
		return c.loadFixture(symbol)
	}

	u, err := url.Parse(fmt.Sprintf("%s/quote/%s", c.cfg.BaseURL, url.PathEscape(symbol)))
	if err != nil {
		return nil, err
	}
	if c.tokens != nil {
		token, err := c.tokens.Resolve(ctx)
		if err != nil {
			c.logger.Warn("market.token_resolve_failed", zap.Error(err))
		} else if token != "" {
			params.Set("token", token)
		}
	}
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	var resp quoteResponse
	if err := c.exec.DoJSON(ctx, req, "market_api", &resp); err != nil {
		metrics.IncMarketRequest("error")
		return nil, err
	}
	metrics.IncMarketRequest("ok")
	return &resp, nil
}

// GetQuote returns the latest price for one symbol.
func (c *Client) GetQuote(ctx context.Context, symbol string) (*Quote, error) {
	resp, err := c.fetch(ctx, symbol, url.Values{"range": {"1d"}})
	if err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 {
		return nil, ErrNoData
	}
	return resp.Results[0].toQuote(), nil
}

// GetHistory returns daily bars for one symbol over the given range
// (e.g. "1mo").
func (c *Client) GetHistory(ctx context.Context, symbol, rng string) ([]Bar, error) {
	params := url.Values{"range": {rng}, "interval": {"1d"}}
	resp, err := c.fetch(ctx, symbol, params)
	if err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 || len(resp.Results[0].HistoricalDataPrice) == 0 {
		return nil, ErrNoData
	}
	return resp.Results[0].toQuote().History, nil
}
