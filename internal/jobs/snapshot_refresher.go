package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ppaulojr/stockanalisys/internal/metrics"
	"github.com/ppaulojr/stockanalisys/internal/store"
	"github.com/ppaulojr/stockanalisys/pkg/model"
)

// SnapshotKey is where the refresher caches the latest dashboard snapshot.
const SnapshotKey = "dashboard:snapshot"

// SnapshotBuilder assembles a full dashboard snapshot from upstreams.
type SnapshotBuilder interface {
	Dashboard(ctx context.Context) *model.DashboardSnapshot
}

// SnapshotSink receives every refreshed snapshot. History writers and
// event publishers implement it; either may be absent.
type SnapshotSink interface {
	Consume(ctx context.Context, snap *model.DashboardSnapshot) error
}

// SinkFunc adapts a plain function to the SnapshotSink interface.
type SinkFunc func(ctx context.Context, snap *model.DashboardSnapshot) error

func (f SinkFunc) Consume(ctx context.Context, snap *model.DashboardSnapshot) error {
	return f(ctx, snap)
}

// SnapshotRefresher periodically rebuilds the dashboard snapshot,
// caches it and fans it out to the configured sinks. It keeps request
// handling fast without making any endpoint depend on it.
type SnapshotRefresher struct {
	logger   *zap.Logger
	builder  SnapshotBuilder
	cache    store.Store
	sinks    []SnapshotSink
	interval time.Duration
	cacheTTL time.Duration
	stopCh   chan struct{}
}

func NewSnapshotRefresher(logger *zap.Logger, builder SnapshotBuilder, cache store.Store, interval, cacheTTL time.Duration, sinks ...SnapshotSink) *SnapshotRefresher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotRefresher{
		logger:   logger,
		builder:  builder,
		cache:    cache,
		sinks:    sinks,
		interval: interval,
		cacheTTL: cacheTTL,
		stopCh:   make(chan struct{}),
	}
}

// Start runs the refresh loop until Stop is called or ctx is canceled.
// The first cycle runs immediately so the cache is warm at boot.
func (r *SnapshotRefresher) Start(ctx context.Context) {
	r.logger.Info("snapshot_refresher.started", zap.Duration("interval", r.interval))

	r.runOnce(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.runOnce(ctx)
		case <-r.stopCh:
			r.logger.Info("snapshot_refresher.stopped (manual stop)")
			return
		case <-ctx.Done():
			r.logger.Info("snapshot_refresher.stopped (context canceled)")
			return
		}
	}
}

// Stop gracefully halts the refresher.
func (r *SnapshotRefresher) Stop() {
	close(r.stopCh)
}

func (r *SnapshotRefresher) runOnce(ctx context.Context) {
	start := time.Now()
	r.logger.Info("snapshot_refresher.running")

	snap := r.builder.Dashboard(ctx)

	outcome := "success"
	if r.cache != nil {
		if err := r.cache.SetJSON(ctx, SnapshotKey, snap, r.cacheTTL); err != nil {
			r.logger.Warn("snapshot_refresher.cache_failed", zap.Error(err))
			outcome = "degraded"
		}
	}

	for _, sink := range r.sinks {
		if err := sink.Consume(ctx, snap); err != nil {
			r.logger.Warn("snapshot_refresher.sink_failed", zap.Error(err))
			outcome = "degraded"
		}
	}

	metrics.SnapshotRefreshDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	r.logger.Info("snapshot_refresher.success",
		zap.String("outcome", outcome),
		zap.Duration("duration", time.Since(start)))
}
