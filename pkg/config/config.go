package config

import (
	"time"

	"github.com/joho/godotenv"
)

// Config holds the runtime configuration for the dashboard service.
type Config struct {
	ServiceName string
	Env         string
	LogLevel    string
	Debug       bool
	Port        int

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	HTTPBodyLimit    int

	// ONS open-data portal
	ONSBaseURL     string
	ONSBucketURL   string
	ONSTimeout     time.Duration
	ONSUseFixtures bool
	ONSFixtures    string

	// Market data provider (B3 quotes)
	MarketBaseURL string
	MarketToken   string
	// MarketTokenSecret names an AWS Secrets Manager secret holding the
	// token (key "token"). When set it takes precedence over MarketToken.
	MarketTokenSecret string
	AWSRegion         string

	// Snapshot cache / history / events (all optional)
	RedisAddr       string
	RedisDB         int
	RedisPass       string
	CacheTTL        time.Duration
	DatabaseURL     string
	NATSURL         string
	SnapshotSubject string
	RefreshInterval time.Duration
}

// Load loads configuration from environment variables and an optional .env file.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServiceName:       GetEnv("SERVICE_NAME", "stockanalisys-dashboard"),
		Env:               GetEnv("ENV", "dev"),
		LogLevel:          GetEnv("LOG_LEVEL", "info"),
		Debug:             GetEnvBool("DEBUG", false),
		Port:              GetEnvInt("PORT", 5000),
		HTTPReadTimeout:   GetEnvDuration("HTTP_READ_TIMEOUT", 10*time.Second),
		HTTPWriteTimeout:  GetEnvDuration("HTTP_WRITE_TIMEOUT", 30*time.Second),
		HTTPIdleTimeout:   GetEnvDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
		HTTPBodyLimit:     GetEnvInt("HTTP_BODY_LIMIT", 1*1024*1024),
		ONSBaseURL:        GetEnv("ONS_BASE_URL", "https://dados.ons.org.br/api/3/action"),
		ONSBucketURL:      GetEnv("ONS_BUCKET_URL", "https://ons-dl-prod-opendata.s3.amazonaws.com/dataset"),
		ONSTimeout:        GetEnvDuration("ONS_TIMEOUT", 30*time.Second),
		ONSUseFixtures:    GetEnvBool("ONS_USE_FIXTURES", false),
		ONSFixtures:       GetEnv("ONS_FIXTURES_PATH", ""),
		MarketBaseURL:     GetEnv("MARKET_BASE_URL", "https://brapi.dev/api"),
		MarketToken:       GetEnv("MARKET_TOKEN", ""),
		MarketTokenSecret: GetEnv("MARKET_TOKEN_SECRET", ""),
		AWSRegion:         GetEnv("AWS_REGION", "us-east-2"),
		RedisAddr:         GetEnv("REDIS_ADDR", ""),
		RedisDB:           GetEnvInt("REDIS_DB", 0),
		RedisPass:         GetEnv("REDIS_PASS", ""),
		CacheTTL:          GetEnvDuration("CACHE_TTL", 5*time.Minute),
		DatabaseURL:       GetEnv("DATABASE_URL", ""),
		NATSURL:           GetEnv("NATS_URL", ""),
		SnapshotSubject:   GetEnv("SNAPSHOT_SUBJECT", "evt.dashboard.snapshot.v1"),
		RefreshInterval:   GetEnvDuration("REFRESH_INTERVAL", 5*time.Minute),
	}
}
