package ons

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// FixtureLoader resolves logical fixture names to files under a fixtures
// directory, standing in for live API responses during offline use.
// CKAN-shaped responses are JSON files named `ons_{endpoint}[_{params}].json`;
// bucket-shaped data is `;`-delimited CSV named `ons_{dataset_key}.csv`.
type FixtureLoader struct {
	dir    string
	logger *zap.Logger
}

// NewFixtureLoader creates a loader rooted at dir.
func NewFixtureLoader(dir string, logger *zap.Logger) *FixtureLoader {
	return &FixtureLoader{dir: dir, logger: logger}
}

// LoadJSON reads and decodes the JSON fixture for the given logical name
// (e.g. "package_search_reservatorio") into out.
func (l *FixtureLoader) LoadJSON(name string, out any) error {
	path := filepath.Join(l.dir, fmt.Sprintf("ons_%s.json", name))

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return newError(KindNotFound, "fixture "+name, err)
		}
		return newError(KindNotFound, "fixture "+name, err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		l.logger.Warn("ons.fixture_invalid_json",
			zap.String("path", path),
			zap.Error(err))
		return newError(KindParse, "fixture "+name, err)
	}
	return nil
}

// LoadCSV reads and parses the CSV fixture for the given dataset key
// (e.g. "ear_subsistema" -> ons_ear_subsistema.csv).
func (l *FixtureLoader) LoadCSV(datasetKey string) ([]Record, error) {
	path := filepath.Join(l.dir, fmt.Sprintf("ons_%s.csv", datasetKey))

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, newError(KindNotFound, "csv fixture "+datasetKey, err)
	}

	records, err := parseDelimitedRecords(data)
	if err != nil {
		l.logger.Warn("ons.fixture_invalid_csv",
			zap.String("path", path),
			zap.Error(err))
		return nil, newError(KindParse, "csv fixture "+datasetKey, err)
	}
	return records, nil
}
