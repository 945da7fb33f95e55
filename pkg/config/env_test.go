package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("TEST_STR", "value")
	assert.Equal(t, "value", GetEnv("TEST_STR", "def"))
	assert.Equal(t, "def", GetEnv("TEST_STR_UNSET", "def"))
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	assert.Equal(t, 42, GetEnvInt("TEST_INT", 7))

	t.Setenv("TEST_INT_BAD", "abc")
	assert.Equal(t, 7, GetEnvInt("TEST_INT_BAD", 7))

	assert.Equal(t, 7, GetEnvInt("TEST_INT_UNSET", 7))
}

func TestGetEnvBool(t *testing.T) {
	for _, truthy := range []string{"true", "1", "yes", "TRUE", "Yes"} {
		t.Setenv("TEST_BOOL", truthy)
		assert.True(t, GetEnvBool("TEST_BOOL", false), truthy)
	}
	for _, falsy := range []string{"false", "0", "no"} {
		t.Setenv("TEST_BOOL", falsy)
		assert.False(t, GetEnvBool("TEST_BOOL", true), falsy)
	}

	t.Setenv("TEST_BOOL", "maybe")
	assert.True(t, GetEnvBool("TEST_BOOL", true))
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("TEST_DUR", "90s")
	assert.Equal(t, 90*time.Second, GetEnvDuration("TEST_DUR", time.Minute))

	t.Setenv("TEST_DUR_BAD", "soon")
	assert.Equal(t, time.Minute, GetEnvDuration("TEST_DUR_BAD", time.Minute))
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, "https://dados.ons.org.br/api/3/action", cfg.ONSBaseURL)
	assert.Equal(t, "https://brapi.dev/api", cfg.MarketBaseURL)
	assert.False(t, cfg.ONSUseFixtures)
	assert.Equal(t, "evt.dashboard.snapshot.v1", cfg.SnapshotSubject)
}

func TestLoadFixtureSwitch(t *testing.T) {
	t.Setenv("ONS_USE_FIXTURES", "1")
	t.Setenv("ONS_FIXTURES_PATH", "/tmp/fixtures")

	cfg := Load()
	assert.True(t, cfg.ONSUseFixtures)
	assert.Equal(t, "/tmp/fixtures", cfg.ONSFixtures)
}
