package ons

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFixtureLoader_LoadJSON_Missing(t *testing.T) {
	loader := NewFixtureLoader(t.TempDir(), zap.NewNop())

	var out map[string]any
	err := loader.LoadJSON("package_list", &out)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestFixtureLoader_LoadJSON_Malformed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ons_package_list.json"), []byte("{not json"), 0o644))

	loader := NewFixtureLoader(dir, zap.NewNop())

	var out map[string]any
	err := loader.LoadJSON("package_list", &out)
	require.Error(t, err)
	assert.Equal(t, KindParse, KindOf(err))
}

func TestFixtureLoader_LoadCSV(t *testing.T) {
	dir := t.TempDir()
	csv := "din_instante;id_subsistema\n2025-08-24;SE\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ons_carga_energia.csv"), []byte(csv), 0o644))

	loader := NewFixtureLoader(dir, zap.NewNop())

	records, err := loader.LoadCSV("carga_energia")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "SE", records[0]["id_subsistema"])
}

func TestFixtureLoader_LoadCSV_Missing(t *testing.T) {
	loader := NewFixtureLoader(t.TempDir(), zap.NewNop())

	_, err := loader.LoadCSV("carga_energia")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}
