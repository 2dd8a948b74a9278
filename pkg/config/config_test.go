package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, StoreCSV, cfg.StoreBackend)
	assert.Equal(t, "data/sample_scent_readings.csv", cfg.DatasetPath)
	assert.Equal(t, 120, cfg.SamplesPerProfile)
	assert.Equal(t, 0.2, cfg.TestSize)
	assert.Equal(t, int64(42), cfg.RandomState)
	assert.Equal(t, 0.05, cfg.BaselineNoise)
	assert.Equal(t, 0.01, cfg.DriftRate)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "tcp://localhost:1883", cfg.MQTTBroker)
	assert.Equal(t, "nose/{profile}/report", cfg.MQTTTopicReport)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("NOSE_STORE", StoreClickHouse)
	t.Setenv("NOSE_SAMPLES_PER_PROFILE", "60")
	t.Setenv("NOSE_TEST_SIZE", "0.3")
	t.Setenv("NOSE_RANDOM_STATE", "7")
	t.Setenv("CLICKHOUSE_ADDR", "warehouse:9000")

	cfg := Load()
	assert.Equal(t, StoreClickHouse, cfg.StoreBackend)
	assert.Equal(t, 60, cfg.SamplesPerProfile)
	assert.Equal(t, 0.3, cfg.TestSize)
	assert.Equal(t, int64(7), cfg.RandomState)
	assert.Equal(t, "warehouse:9000", cfg.ClickHouseAddr)
}

func TestLoadIgnoresUnparsableValues(t *testing.T) {
	t.Setenv("NOSE_SAMPLES_PER_PROFILE", "many")
	t.Setenv("NOSE_TEST_SIZE", "a third")

	cfg := Load()
	assert.Equal(t, 120, cfg.SamplesPerProfile)
	assert.Equal(t, 0.2, cfg.TestSize)
}
