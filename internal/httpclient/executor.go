package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ppaulojr/stockanalisys/internal/rate"
)

// Backoff returns the retry sleep duration for the given attempt number.
func Backoff(attempt int) time.Duration {
	switch attempt {
	case 0:
		return 100 * time.Millisecond
	case 1:
		return 250 * time.Millisecond
	default:
		return 500 * time.Millisecond
	}
}

// APIError is a non-2xx response from an upstream data source. It keeps the
// status code so callers can distinguish client-side (4xx) from service-side
// (5xx) failure.
type APIError struct {
	Source     string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s returned %d", e.Source, e.StatusCode)
}

// ClientSide reports whether the failure was a 4xx rejection rather than an
// upstream outage.
func (e *APIError) ClientSide() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

// NotFound reports whether the upstream answered 404.
func (e *APIError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// Executor handles rate-limited, retrying HTTP execution for upstream
// data-source clients. Transport failures and 5xx responses are retried with
// a short fixed backoff; 4xx responses fail immediately.
type Executor struct {
	logger    *zap.Logger
	rateMgr   *rate.Manager
	http      *http.Client
	retryMax  int
	sourceTag string
}

// New creates an Executor. sourceTag scopes log messages and errors per upstream.
func New(logger *zap.Logger, rateMgr *rate.Manager, httpClient *http.Client, retryMax int, sourceTag string) *Executor {
	return &Executor{
		logger:    logger,
		rateMgr:   rateMgr,
		http:      httpClient,
		retryMax:  retryMax,
		sourceTag: sourceTag,
	}
}

// Do executes req with rate limiting and retries and returns the response body.
// rateLimitKey scopes the rate limiter per upstream endpoint.
func (e *Executor) Do(ctx context.Context, req *http.Request, rateLimitKey string) ([]byte, error) {
	if e.rateMgr != nil {
		if err := e.rateMgr.Wait(ctx, rateLimitKey); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	var lastErr error
	for attempt := 0; attempt <= e.retryMax; attempt++ {
		start := time.Now()
		resp, err := e.http.Do(req)
		if err != nil {
			lastErr = err
			e.logger.Warn(e.sourceTag+".http_failed",
				zap.String("url", req.URL.String()),
				zap.Error(err),
				zap.Int("attempt", attempt))
			if sleepErr := sleepCtx(ctx, Backoff(attempt)); sleepErr != nil {
				return nil, sleepErr
			}
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		elapsed := time.Since(start)
		if readErr != nil {
			lastErr = readErr
			continue
		}

		if resp.StatusCode >= 500 {
			e.logger.Warn(e.sourceTag+".server_error",
				zap.Int("status", resp.StatusCode),
				zap.String("url", req.URL.String()),
				zap.Duration("latency", elapsed))
			lastErr = &APIError{Source: e.sourceTag, StatusCode: resp.StatusCode, Body: string(body)}
			if sleepErr := sleepCtx(ctx, Backoff(attempt)); sleepErr != nil {
				return nil, sleepErr
			}
			continue
		}

		if resp.StatusCode >= 400 {
			e.logger.Warn(e.sourceTag+".client_error",
				zap.Int("status", resp.StatusCode),
				zap.String("url", req.URL.String()))
			return nil, &APIError{Source: e.sourceTag, StatusCode: resp.StatusCode, Body: string(body)}
		}

		e.logger.Debug(e.sourceTag+".http_success",
			zap.String("url", req.URL.String()),
			zap.Int("status", resp.StatusCode),
			zap.Duration("elapsed", elapsed))

		return body, nil
	}

	return nil, fmt.Errorf("%s request failed after %d attempts: %w", e.sourceTag, e.retryMax+1, lastErr)
}

// DoJSON executes req and JSON-decodes the response body into out.
func (e *Executor) DoJSON(ctx context.Context, req *http.Request, rateLimitKey string, out any) error {
	body, err := e.Do(ctx, req, rateLimitKey)
	if err != nil {
		return err
	}
	if out != nil && len(body) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			e.logger.Warn(e.sourceTag+".decode_failed",
				zap.Error(err),
				zap.String("url", req.URL.String()))
			return fmt.Errorf("decode failed: %w", err)
		}
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
