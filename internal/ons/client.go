package ons

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/ppaulojr/stockanalisys/internal/httpclient"
	"github.com/ppaulojr/stockanalisys/internal/metrics"
	"github.com/ppaulojr/stockanalisys/internal/rate"
	"github.com/ppaulojr/stockanalisys/pkg/config"
)

const userAgent = "StockAnalisys-ONS-Integration/0.1.0"

// listDatasetsCap bounds how many package details a listing call resolves,
// so a full portal listing does not fan out into hundreds of requests.
const listDatasetsCap = 10

// datasetPaths maps logical dataset keys to their S3 bucket path segments.
var datasetPaths = map[string]string{
	"ear_subsistema":   "ear_subsistema_di",
	"ear_reservatorio": "ear_reservatorio_di",
	"ear_bacia":        "ear_bacia_di",
	"carga_energia":    "carga_energia",
	"cmo_semihorario":  "cmo_tm",
	"reservatorio":     "reservatorio",
	"geracao":          "geracao_usina",
}

// Config holds the explicit client configuration. Zero-value fields fall
// back to the production endpoints; the fixture switch additionally honors
// the ONS_USE_FIXTURES / ONS_FIXTURES_PATH environment variables.
type Config struct {
	BaseURL      string
	BucketURL    string
	FixturesPath string
	UseFixtures  bool
	Timeout      time.Duration
}

func (cfg Config) withDefaults() Config {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://dados.ons.org.br/api/3/action"
	}
	if cfg.BucketURL == "" {
		cfg.BucketURL = "https://ons-dl-prod-opendata.s3.amazonaws.com/dataset"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if !cfg.UseFixtures {
		cfg.UseFixtures = config.GetEnvBool("ONS_USE_FIXTURES", false)
	}
	if cfg.FixturesPath == "" {
		cfg.FixturesPath = config.GetEnv("ONS_FIXTURES_PATH", "")
	}
	return cfg
}

// Client provides dataset discovery and measurement retrieval against the
// ONS open-data portal, transparently switching between live network calls
// (CKAN API + S3 bucket) and local fixtures.
type Client struct {
	logger   *zap.Logger
	cfg      Config
	exec     *httpclient.Executor
	fixtures *FixtureLoader
}

// NewClient constructs an ONS client. rateMgr may be nil to disable
// client-side rate limiting.
func NewClient(logger *zap.Logger, rateMgr *rate.Manager, cfg Config) *Client {
	cfg = cfg.withDefaults()

	c := &Client{
		logger: logger,
		cfg:    cfg,
		exec: httpclient.New(logger, rateMgr, &http.Client{Timeout: cfg.Timeout}, 2,
			"ons"),
	}
	if cfg.FixturesPath != "" {
		c.fixtures = NewFixtureLoader(cfg.FixturesPath, logger)
	}
	return c
}

// UseFixtures reports whether the client is in offline fixture mode.
func (c *Client) UseFixtures() bool { return c.cfg.UseFixtures }

// --- CKAN wire types ---

type ckanTag struct {
	Name string `json:"name"`
}

type ckanResource struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Format string `json:"format"`
	URL    string `json:"url"`
}

type ckanPackage struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Title     string         `json:"title"`
	Notes     string         `json:"notes"`
	Tags      []ckanTag      `json:"tags"`
	Resources []ckanResource `json:"resources"`
}

func (p ckanPackage) summary() DatasetSummary {
	s := DatasetSummary{ID: p.ID, Name: p.Name, Title: p.Title}
	for _, t := range p.Tags {
		s.Tags = append(s.Tags, t.Name)
	}
	return s
}

func (p ckanPackage) detail() *DatasetDetail {
	d := &DatasetDetail{ID: p.ID, Name: p.Name, Title: p.Title, Notes: p.Notes}
	for _, r := range p.Resources {
		d.Resources = append(d.Resources, Resource(r))
	}
	return d
}

// fixtureName builds the logical fixture name for a CKAN call, appending the
// discriminating query parameter when present (e.g. package_search_carga).
func fixtureName(endpoint string, params url.Values) string {
	name := endpoint
	for _, key := range []string{"q", "id", "resource_id"} {
		if v := params.Get(key); v != "" {
			name += "_" + v
			break
		}
	}
	return name
}

// request performs one CKAN API call, or resolves it from fixtures when
// offline mode is enabled. With fixtures enabled no network call is ever made.
func (c *Client) request(ctx context.Context, endpoint string, params url.Values, out any) error {
	if c.cfg.UseFixtures {
		if c.fixtures == nil {
			return newError(KindNotFound, endpoint, errors.New("fixtures enabled but no fixtures path configured"))
		}
		return c.fixtures.LoadJSON(fixtureName(endpoint, params), out)
	}

	u, err := url.Parse(c.cfg.BaseURL + "/" + endpoint)
	if err != nil {
		return newError(KindNetwork, endpoint, err)
	}
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return newError(KindNetwork, endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	err = c.exec.DoJSON(ctx, req, "ons_api", out)
	metrics.ObserveDuration(metrics.ONSRequestDuration, start, endpoint)
	if err != nil {
		metrics.IncONSRequest(endpoint, "error")
		return classify(endpoint, err)
	}
	metrics.IncONSRequest(endpoint, "ok")
	return nil
}

// ListDatasets lists datasets available on the portal, enriched with their
// detail metadata (capped at the first few package ids).
func (c *Client) ListDatasets(ctx context.Context) ([]DatasetSummary, error) {
	var resp struct {
		Success bool     `json:"success"`
		Result  []string `json:"result"`
	}
	if err := c.request(ctx, "package_list", nil, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return []DatasetSummary{}, nil
	}

	ids := resp.Result
	if len(ids) > listDatasetsCap {
		ids = ids[:listDatasetsCap]
	}

	datasets := make([]DatasetSummary, 0, len(ids))
	for _, id := range ids {
		detail, err := c.GetDatasetInfo(ctx, id)
		if err != nil || detail == nil {
			continue
		}
		datasets = append(datasets, detail.Summary())
	}
	return datasets, nil
}

// SearchDatasets searches datasets by term. Live calls filter server-side;
// in fixture mode the term selects the fixture file exactly, and an unknown
// term yields an empty result rather than an error.
func (c *Client) SearchDatasets(ctx context.Context, term string) ([]DatasetSummary, error) {
	var resp struct {
		Success bool `json:"success"`
		Result  struct {
			Results []ckanPackage `json:"results"`
		} `json:"result"`
	}
	err := c.request(ctx, "package_search", url.Values{"q": {term}}, &resp)
	if err != nil {
		if c.cfg.UseFixtures && IsNotFound(err) {
			return []DatasetSummary{}, nil
		}
		return nil, err
	}
	if !resp.Success {
		return []DatasetSummary{}, nil
	}

	results := make([]DatasetSummary, 0, len(resp.Result.Results))
	for _, pkg := range resp.Result.Results {
		results = append(results, pkg.summary())
	}
	return results, nil
}

// GetDatasetInfo looks up full metadata for one dataset. An unknown id is an
// absent result, not an error.
func (c *Client) GetDatasetInfo(ctx context.Context, datasetID string) (*DatasetDetail, error) {
	var resp struct {
		Success bool        `json:"success"`
		Result  ckanPackage `json:"result"`
	}
	err := c.request(ctx, "package_show", url.Values{"id": {datasetID}}, &resp)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		var apiErr *httpclient.APIError
		if errors.As(err, &apiErr) && apiErr.ClientSide() {
			return nil, nil
		}
		return nil, err
	}
	if !resp.Success {
		return nil, nil
	}
	return resp.Result.detail(), nil
}

// DatastoreSearch fetches rows of one dataset resource through the CKAN
// datastore. limit defaults to 100.
func (c *Client) DatastoreSearch(ctx context.Context, resourceID string, limit int) ([]map[string]any, error) {
	if limit <= 0 {
		limit = 100
	}
	var resp struct {
		Success bool `json:"success"`
		Result  struct {
			Records []map[string]any `json:"records"`
		} `json:"result"`
	}
	params := url.Values{
		"resource_id": {resourceID},
		"limit":       {strconv.Itoa(limit)},
	}
	if err := c.request(ctx, "datastore_search", params, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, nil
	}
	return resp.Result.Records, nil
}

// DownloadCSV fetches a `;`-delimited CSV file from the open-data bucket (or
// the matching CSV fixture) and returns its raw records.
func (c *Client) DownloadCSV(ctx context.Context, datasetKey, filename string, year int) ([]Record, error) {
	if c.cfg.UseFixtures {
		if c.fixtures == nil {
			return nil, newError(KindNotFound, "csv "+datasetKey, errors.New("fixtures enabled but no fixtures path configured"))
		}
		return c.fixtures.LoadCSV(datasetKey)
	}

	path, ok := datasetPaths[datasetKey]
	if !ok {
		path = datasetKey
	}
	fullName := filename + ".csv"
	if year > 0 {
		fullName = fmt.Sprintf("%s_%d.csv", filename, year)
	}
	u := fmt.Sprintf("%s/%s/%s", c.cfg.BucketURL, path, fullName)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, newError(KindNetwork, "csv "+datasetKey, err)
	}
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	body, err := c.exec.Do(ctx, req, "ons_bucket")
	metrics.ObserveDuration(metrics.ONSRequestDuration, start, "bucket_"+datasetKey)
	if err != nil {
		metrics.IncONSRequest("bucket_"+datasetKey, "error")
		return nil, classify("csv "+datasetKey, err)
	}
	metrics.IncONSRequest("bucket_"+datasetKey, "ok")

	records, err := parseDelimitedRecords(body)
	if err != nil {
		return nil, newError(KindParse, "csv "+datasetKey, err)
	}
	return records, nil
}

// GetEARSubsistema returns daily stored-energy rows per subsystem for the
// given year (zero means the current year).
func (c *Client) GetEARSubsistema(ctx context.Context, year int) ([]EARMeasurement, error) {
	if year == 0 {
		year = time.Now().Year()
	}
	records, err := c.DownloadCSV(ctx, "ear_subsistema", "EAR_DIARIO_SUBSISTEMA", year)
	if err != nil {
		return nil, err
	}
	return ParseEARMeasurements(c.logger, records), nil
}

// GetCargaEnergia returns grid load rows per subsystem for the given year
// (zero means the current year).
func (c *Client) GetCargaEnergia(ctx context.Context, year int) ([]LoadMeasurement, error) {
	if year == 0 {
		year = time.Now().Year()
	}
	records, err := c.DownloadCSV(ctx, "carga_energia", "CARGA_ENERGIA", year)
	if err != nil {
		return nil, err
	}
	return ParseLoadMeasurements(c.logger, records), nil
}

// GetCMOSemiHorario returns semi-hourly marginal operating cost rows per
// subsystem for the given year (zero means the current year).
func (c *Client) GetCMOSemiHorario(ctx context.Context, year int) ([]CMOMeasurement, error) {
	if year == 0 {
		year = time.Now().Year()
	}
	records, err := c.DownloadCSV(ctx, "cmo_semihorario", "CMO_SEMIHORARIO", year)
	if err != nil {
		return nil, err
	}
	return ParseCMOMeasurements(c.logger, records), nil
}

// GetReservatorios returns raw reservoir metadata records.
func (c *Client) GetReservatorios(ctx context.Context) ([]Record, error) {
	return c.DownloadCSV(ctx, "reservatorio", "RESERVATORIOS", 0)
}
