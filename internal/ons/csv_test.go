package ons

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseDelimitedRecords(t *testing.T) {
	data := []byte("din_instante;id_subsistema;val_carga\n" +
		"2025-08-24;SE;42115,90\n" +
		"2025-08-24;S;13204,67\n")

	records, err := parseDelimitedRecords(data)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "SE", records[0]["id_subsistema"])
	assert.Equal(t, "42115,90", records[0]["val_carga"])
}

func TestParseDelimitedRecords_SkipsMismatchedRows(t *testing.T) {
	data := []byte("a;b;c\n1;2;3\nonly-one-field\n4;5;6\n")

	records, err := parseDelimitedRecords(data)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "4", records[1]["a"])
}

func TestParseDelimitedRecords_Empty(t *testing.T) {
	records, err := parseDelimitedRecords(nil)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestParseFloat_CommaSeparator(t *testing.T) {
	v, err := parseFloat("61,9")
	require.NoError(t, err)
	assert.InDelta(t, 61.9, v, 0.0001)

	v, err = parseFloat("208355.0")
	require.NoError(t, err)
	assert.InDelta(t, 208355.0, v, 0.0001)

	_, err = parseFloat("")
	assert.Error(t, err)

	_, err = parseFloat("n/d")
	assert.Error(t, err)
}

func TestParseEARMeasurements_PrefersPercentColumn(t *testing.T) {
	records := []Record{
		{
			"din_instante":            "2025-08-24",
			"id_subsistema":           "SE",
			"val_earverif_percentual": "62,4",
			"val_earverif_mwmes":      "130019,5",
		},
	}

	rows := ParseEARMeasurements(zap.NewNop(), records)
	require.Len(t, rows, 1)
	assert.InDelta(t, 62.4, rows[0].Percent, 0.0001)
}

func TestParseEARMeasurements_DerivesPercentFromVerifiedAndMax(t *testing.T) {
	records := []Record{
		{
			"din_instante":             "2025-08-24",
			"id_subsistema":            "S",
			"val_earverif_mwmes":       "9884,0",
			"val_eararmazenavel_mwmes": "19768,0",
		},
	}

	rows := ParseEARMeasurements(zap.NewNop(), records)
	require.Len(t, rows, 1)
	assert.InDelta(t, 50.0, rows[0].Percent, 0.0001)
}

func TestParseEARMeasurements_SkipsBadRows(t *testing.T) {
	records := []Record{
		{"din_instante": "2025-08-24", "id_subsistema": "ZZ", "val_earverif_percentual": "50,0"},
		{"din_instante": "2025-08-24", "id_subsistema": "NE", "val_earverif_percentual": "abc"},
		{"din_instante": "2025-08-24", "id_subsistema": "NE", "val_earverif_percentual": "54,6"},
	}

	rows := ParseEARMeasurements(zap.NewNop(), records)
	require.Len(t, rows, 1)
	assert.Equal(t, "NE", rows[0].SubsystemID)
}

func TestParseLoadMeasurements_NormalizesSubsystem(t *testing.T) {
	records := []Record{
		{"din_instante": "2025-08-24", "id_subsistema": " se ", "val_cargaenergiamwmed": "42115,90"},
	}

	rows := ParseLoadMeasurements(zap.NewNop(), records)
	require.Len(t, rows, 1)
	assert.Equal(t, "SE", rows[0].SubsystemID)
}

func TestParseCMOMeasurements(t *testing.T) {
	records := []Record{
		{"din_instante": "2025-08-24 11:30:00", "id_subsistema": "N", "val_cmo": "98,13"},
		{"din_instante": "2025-08-24 11:30:00", "id_subsistema": "N", "val_cmo": ""},
	}

	rows := ParseCMOMeasurements(zap.NewNop(), records)
	require.Len(t, rows, 1)
	assert.InDelta(t, 98.13, rows[0].CostBRLMWh, 0.0001)
}
