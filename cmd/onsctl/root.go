package main

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ppaulojr/stockanalisys/internal/ons"
	"github.com/ppaulojr/stockanalisys/internal/rate"
)

var (
	baseURL     string
	bucketURL   string
	fixturesDir string
	useFixtures bool
)

var rootCmd = &cobra.Command{
	Use:   "onsctl",
	Short: "Query the ONS open data portal",
	Long: `onsctl is a CLI tool for exploring the Brazilian grid operator's (ONS)
open data portal: dataset discovery via the CKAN API and energy metric
downloads from the public S3 bucket. With --use-fixtures it reads local
JSON/CSV fixtures instead of touching the network.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "CKAN API base URL (default: production portal)")
	rootCmd.PersistentFlags().StringVar(&bucketURL, "bucket-url", "", "open data S3 bucket URL (default: production bucket)")
	rootCmd.PersistentFlags().StringVar(&fixturesDir, "fixtures", "", "fixtures directory for offline mode")
	rootCmd.PersistentFlags().BoolVar(&useFixtures, "use-fixtures", false, "serve responses from local fixtures")
}

// newClient builds an ONS client from the persistent flags.
func newClient() *ons.Client {
	logger, _ := zap.NewDevelopment()
	rateMgr := rate.NewManager(rate.Config{RequestsPerSecond: 5, Burst: 10})
	return ons.NewClient(logger, rateMgr, ons.Config{
		BaseURL:      baseURL,
		BucketURL:    bucketURL,
		FixturesPath: fixturesDir,
		UseFixtures:  useFixtures,
		Timeout:      30 * time.Second,
	})
}
