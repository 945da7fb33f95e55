package ons

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ppaulojr/stockanalisys/internal/metrics"
)

// Record is one raw row of a `;`-delimited ONS CSV file, keyed by header column.
type Record map[string]string

// parseDelimitedRecords decodes a `;`-delimited CSV document into records.
// The first line is the header; rows with a different field count than the
// header are skipped rather than failing the whole document.
func parseDelimitedRecords(data []byte) ([]Record, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = ';'
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("csv header: %w", err)
	}
	for i, col := range header {
		header[i] = strings.TrimSpace(col)
	}

	var records []Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// A malformed line; keep going with the rest of the file.
			continue
		}
		if len(row) != len(header) {
			continue
		}
		rec := make(Record, len(header))
		for i, col := range header {
			rec[col] = strings.TrimSpace(row[i])
		}
		records = append(records, rec)
	}
	return records, nil
}

// parseFloat parses an ONS numeric field, tolerating a comma decimal separator.
func parseFloat(val string) (float64, error) {
	val = strings.TrimSpace(val)
	if val == "" {
		return 0, fmt.Errorf("empty numeric field")
	}
	return strconv.ParseFloat(strings.ReplaceAll(val, ",", "."), 64)
}

// floatField returns the first candidate column that parses as a float.
func floatField(rec Record, candidates ...string) (float64, bool) {
	for _, col := range candidates {
		if raw, ok := rec[col]; ok && raw != "" {
			if v, err := parseFloat(raw); err == nil {
				return v, true
			}
		}
	}
	return 0, false
}

// stringField returns the first non-empty candidate column.
func stringField(rec Record, candidates ...string) string {
	for _, col := range candidates {
		if val, ok := rec[col]; ok && val != "" {
			return val
		}
	}
	return ""
}

func normalizeSubsystem(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// ParseEARMeasurements converts raw EAR CSV records into typed rows.
// Rows whose numeric fields do not parse, or whose subsystem is not one of
// the known codes, are skipped with a warning.
func ParseEARMeasurements(logger *zap.Logger, records []Record) []EARMeasurement {
	out := make([]EARMeasurement, 0, len(records))
	for _, rec := range records {
		subsystem := normalizeSubsystem(stringField(rec, "id_subsistema", "nom_subsistema"))
		if _, ok := subsystemRegions[subsystem]; !ok {
			skipRow(logger, "ear_subsistema", "unknown subsystem", rec)
			continue
		}

		m := EARMeasurement{
			Instante:      stringField(rec, "din_instante", "dat_referencia", "data"),
			SubsystemID:   subsystem,
			SubsystemName: stringField(rec, "nom_subsistema"),
		}

		percent, hasPercent := floatField(rec, "val_earverif_percentual", "ear_verif_percentual", "val_ear_percentual")
		verified, hasVerified := floatField(rec, "val_earverif_mwmes", "ear_verif_subsistema")
		max, hasMax := floatField(rec, "val_eararmazenavel_mwmes", "ear_max_subsistema")

		if !hasPercent && !(hasVerified && hasMax && max > 0) {
			skipRow(logger, "ear_subsistema", "no parsable EAR value", rec)
			continue
		}
		if hasVerified {
			m.VerifiedMWMes = verified
		}
		if hasMax {
			m.MaxMWMes = max
		}
		if hasPercent {
			m.Percent = percent
		} else {
			m.Percent = verified / max * 100
		}

		out = append(out, m)
	}
	return out
}

// ParseLoadMeasurements converts raw load CSV records into typed rows.
func ParseLoadMeasurements(logger *zap.Logger, records []Record) []LoadMeasurement {
	out := make([]LoadMeasurement, 0, len(records))
	for _, rec := range records {
		subsystem := normalizeSubsystem(stringField(rec, "id_subsistema", "nom_subsistema"))
		if _, ok := subsystemRegions[subsystem]; !ok {
			skipRow(logger, "carga_energia", "unknown subsystem", rec)
			continue
		}

		load, ok := floatField(rec, "val_cargaenergiamwmed", "val_carga", "carga")
		if !ok {
			skipRow(logger, "carga_energia", "no parsable load value", rec)
			continue
		}

		out = append(out, LoadMeasurement{
			Instante:      stringField(rec, "din_instante", "data"),
			SubsystemID:   subsystem,
			SubsystemName: stringField(rec, "nom_subsistema"),
			LoadMWMed:     load,
		})
	}
	return out
}

// ParseCMOMeasurements converts raw CMO CSV records into typed rows.
func ParseCMOMeasurements(logger *zap.Logger, records []Record) []CMOMeasurement {
	out := make([]CMOMeasurement, 0, len(records))
	for _, rec := range records {
		subsystem := normalizeSubsystem(stringField(rec, "id_subsistema", "nom_subsistema"))
		if _, ok := subsystemRegions[subsystem]; !ok {
			skipRow(logger, "cmo_semihorario", "unknown subsystem", rec)
			continue
		}

		cost, ok := floatField(rec, "val_cmo", "val_cmomediasemanal", "cmo")
		if !ok {
			skipRow(logger, "cmo_semihorario", "no parsable CMO value", rec)
			continue
		}

		out = append(out, CMOMeasurement{
			Instante:      stringField(rec, "din_instante", "data"),
			SubsystemID:   subsystem,
			SubsystemName: stringField(rec, "nom_subsistema"),
			CostBRLMWh:    cost,
		})
	}
	return out
}

func skipRow(logger *zap.Logger, dataset, reason string, rec Record) {
	metrics.IncRowSkipped(dataset)
	logger.Warn("ons.row_skipped",
		zap.String("dataset", dataset),
		zap.String("reason", reason),
		zap.String("subsystem", stringField(rec, "id_subsistema", "nom_subsistema")),
		zap.String("instante", stringField(rec, "din_instante", "dat_referencia", "data")))
}
