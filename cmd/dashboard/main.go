package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"

	"github.com/ppaulojr/stockanalisys/internal/api"
	"github.com/ppaulojr/stockanalisys/internal/fetcher"
	"github.com/ppaulojr/stockanalisys/internal/history"
	"github.com/ppaulojr/stockanalisys/internal/jobs"
	"github.com/ppaulojr/stockanalisys/internal/market"
	"github.com/ppaulojr/stockanalisys/internal/ons"
	"github.com/ppaulojr/stockanalisys/internal/publisher"
	"github.com/ppaulojr/stockanalisys/internal/rate"
	"github.com/ppaulojr/stockanalisys/internal/store"
	"github.com/ppaulojr/stockanalisys/pkg/config"
	"github.com/ppaulojr/stockanalisys/pkg/logger"
	"github.com/ppaulojr/stockanalisys/pkg/model"
	"github.com/ppaulojr/stockanalisys/pkg/secrets"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Load configuration ---
	cfg := config.Load()

	logger.Init(cfg.ServiceName, cfg.Env, cfg.LogLevel)
	defer logger.Sync()
	logg := logger.S()
	logg.Info("starting [dashboard]...")

	// --- Market token source ---
	var tokens market.TokenSource = market.StaticToken(cfg.MarketToken)
	stopCleaner := make(chan struct{})
	if cfg.MarketTokenSecret != "" {
		awsProvider, err := secrets.NewAWSProvider(cfg.AWSRegion)
		if err != nil {
			logg.Fatalw("failed to create AWS Secrets Manager provider", "error", err)
		}
		tokenCache := secrets.NewCache[string](cfg.CacheTTL)
		go tokenCache.StartCleaner(time.Minute, stopCleaner)
		tokens = secrets.NewTokenResolver(logger.L(), awsProvider, tokenCache, cfg.MarketTokenSecret)
	}

	// --- Rate limiter ---
	rateMgr := rate.NewManager(rate.Config{
		RequestsPerSecond: 5,
		Burst:             10,
	})

	// --- Upstream clients ---
	onsClient := ons.NewClient(logger.L(), rateMgr, ons.Config{
		BaseURL:      cfg.ONSBaseURL,
		BucketURL:    cfg.ONSBucketURL,
		FixturesPath: cfg.ONSFixtures,
		UseFixtures:  cfg.ONSUseFixtures,
		Timeout:      cfg.ONSTimeout,
	})
	marketClient := market.NewClient(logger.L(), rateMgr, tokens, market.Config{
		BaseURL:      cfg.MarketBaseURL,
		FixturesPath: cfg.ONSFixtures,
		UseFixtures:  cfg.ONSUseFixtures,
	})

	svc := fetcher.NewService(
		fetcher.NewAxia(logger.L(), marketClient),
		fetcher.NewEnergy(logger.L(), onsClient),
	)

	// --- Optional snapshot cache (Redis) ---
	var st store.Store
	if cfg.RedisAddr != "" {
		s, err := store.NewRedis(cfg.RedisAddr, cfg.RedisDB, cfg.RedisPass, logger.L())
		if err != nil {
			logg.Fatalw("failed to init store", "error", err)
		}
		st = s
	}

	// --- Optional snapshot sinks (Postgres history, NATS events) ---
	var sinks []jobs.SnapshotSink
	var pool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		p, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logg.Fatalw("failed to init postgres pool", "error", err)
		}
		pool = p
		writer := history.NewSnapshotWriter(pool, logger.L(), cfg.ServiceName)
		sinks = append(sinks, jobs.SinkFunc(writer.Append))
	}
	var nc *nats.Conn
	if cfg.NATSURL != "" {
		conn, err := nats.Connect(cfg.NATSURL)
		if err != nil {
			logg.Fatalw("failed to connect to NATS", "error", err)
		}
		nc = conn
		pub, err := publisher.New(nc, logger.L(), cfg.SnapshotSubject, cfg.ServiceName)
		if err != nil {
			logg.Fatalw("failed to init publisher", "error", err)
		}
		sinks = append(sinks, jobs.SinkFunc(func(_ context.Context, snap *model.DashboardSnapshot) error {
			return pub.PublishSnapshot(snap)
		}))
	}

	// --- Background snapshot refresher ---
	var refresher *jobs.SnapshotRefresher
	if st != nil || len(sinks) > 0 {
		refresher = jobs.NewSnapshotRefresher(logger.L(), svc, st, cfg.RefreshInterval, cfg.CacheTTL, sinks...)
		go refresher.Start(ctx)
	}

	// --- Fiber HTTP Server ---
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
		BodyLimit:    cfg.HTTPBodyLimit,
	})

	handler := api.NewDashboardHandler(logger.L(), svc, st)
	api.RegisterRoutes(app, st, handler)

	go func() {
		logg.Infof("HTTP API listening on :%d", cfg.Port)
		if err := app.Listen(fmt.Sprintf(":%d", cfg.Port)); err != nil {
			logg.Fatalw("fiber.listen_failed", "error", err)
		}
	}()

	logg.Infow("[dashboard] running",
		"env", cfg.Env,
		"fixtures", cfg.ONSUseFixtures,
		"refresh_interval", cfg.RefreshInterval)

	<-ctx.Done()
	logg.Info("shutting down [dashboard]...")

	close(stopCleaner)
	if refresher != nil {
		refresher.Stop()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logg.Warnw("fiber.shutdown_failed", "error", err)
	}
	if nc != nil {
		if err := nc.Drain(); err != nil {
			logg.Warnw("nats.drain_failed", "error", err)
		}
	}
	if pool != nil {
		pool.Close()
	}
	if st != nil {
		if err := st.Close(); err != nil {
			logg.Warnw("store.close_failed", "error", err)
		}
	}
}
