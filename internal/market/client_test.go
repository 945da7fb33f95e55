package market

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newFixtureClient() *Client {
	return NewClient(zap.NewNop(), nil, nil, Config{
		BaseURL:      "http://127.0.0.1:1",
		FixturesPath: filepath.Join("..", "..", "fixtures"),
		UseFixtures:  true,
	})
}

func TestGetQuote_Fixtures(t *testing.T) {
	client := newFixtureClient()

	quote, err := client.GetQuote(context.Background(), "AXIA3.SA")
	require.NoError(t, err)
	assert.Equal(t, "AXIA3.SA", quote.Symbol)
	assert.Equal(t, "BRL", quote.Currency)
	assert.InDelta(t, 38.42, quote.Price, 0.001)
}

func TestGetQuote_Fixtures_UnknownSymbol(t *testing.T) {
	client := newFixtureClient()

	_, err := client.GetQuote(context.Background(), "XXXX4.SA")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoData))
}

func TestGetHistory_Fixtures(t *testing.T) {
	client := newFixtureClient()

	bars, err := client.GetHistory(context.Background(), "AXIA3.SA", "1mo")
	require.NoError(t, err)
	require.Len(t, bars, 5)
	assert.InDelta(t, 37.31, bars[0].Close, 0.001)
	assert.Equal(t, int64(10234500), bars[0].Volume)
	assert.False(t, bars[0].Date.IsZero())
}

func TestGetQuote_Live_AddsToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/quote/AXIA3.SA", r.URL.Path)
		assert.Equal(t, "secret-token", r.URL.Query().Get("token"))
		_, _ = w.Write([]byte(`{"results":[{"symbol":"AXIA3.SA","currency":"BRL","regularMarketPrice":38.42}]}`))
	}))
	defer srv.Close()

	client := NewClient(zap.NewNop(), nil, StaticToken("secret-token"), Config{BaseURL: srv.URL})

	quote, err := client.GetQuote(context.Background(), "AXIA3.SA")
	require.NoError(t, err)
	assert.InDelta(t, 38.42, quote.Price, 0.001)
}

func TestGetQuote_Live_EmptyResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))
	defer srv.Close()

	client := NewClient(zap.NewNop(), nil, nil, Config{BaseURL: srv.URL})

	_, err := client.GetQuote(context.Background(), "AXIA3.SA")
	assert.True(t, errors.Is(err, ErrNoData))
}

func TestGetQuote_Live_DefaultsCurrency(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[{"symbol":"AXIA3.SA","regularMarketPrice":10}]}`))
	}))
	defer srv.Close()

	client := NewClient(zap.NewNop(), nil, nil, Config{BaseURL: srv.URL})

	quote, err := client.GetQuote(context.Background(), "AXIA3.SA")
	require.NoError(t, err)
	assert.Equal(t, "BRL", quote.Currency)
}

func TestStaticToken(t *testing.T) {
	tok, err := StaticToken("abc").Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)

	tok, err = StaticToken("").Resolve(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tok)
}
