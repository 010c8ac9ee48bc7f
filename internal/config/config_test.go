package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "rainfall_forecast_output.csv", cfg.DataPath)
	assert.Equal(t, ":8050", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 128, cfg.ViewCacheSize)
	assert.False(t, cfg.Debug)
	assert.Empty(t, cfg.AssetsDir)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "rainfall-dashboard-selections", cfg.KafkaSelectionTopic)
	assert.False(t, cfg.SelectionEventsEnabled())
}

func TestLoad_CustomEnv(t *testing.T) {
	assets := t.TempDir()
	t.Setenv("DATA_PATH", "/data/forecast.xlsx")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("VIEW_CACHE_SIZE", "0")
	t.Setenv("DEBUG", "true")
	t.Setenv("ASSETS_DIR", assets)
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_SELECTION_TOPIC", "custom-selections")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/data/forecast.xlsx", cfg.DataPath)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 0, cfg.ViewCacheSize)
	assert.True(t, cfg.Debug)
	assert.Equal(t, assets, cfg.AssetsDir)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-selections", cfg.KafkaSelectionTopic)
	assert.True(t, cfg.SelectionEventsEnabled())
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidViewCacheSize(t *testing.T) {
	for _, v := range []string{"-1", "lots"} {
		t.Run(v, func(t *testing.T) {
			t.Setenv("VIEW_CACHE_SIZE", v)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "VIEW_CACHE_SIZE")
		})
	}
}

func TestLoad_InvalidDebug(t *testing.T) {
	t.Setenv("DEBUG", "sometimes")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DEBUG")
}

func TestLoad_AssetsDirMustExist(t *testing.T) {
	t.Setenv("ASSETS_DIR", "/definitely/not/here")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ASSETS_DIR")
}

func TestLoad_EmptySelectionTopicWithBrokers(t *testing.T) {
	cfg := &Config{
		DataPath:     "f.csv",
		HTTPAddr:     ":8050",
		KafkaBrokers: []string{"localhost:9092"},
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_SELECTION_TOPIC")
}

func TestValidate_FlagOverrides(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	cfg.DataPath = ""
	require.Error(t, cfg.Validate())

	cfg.DataPath = "other.csv"
	cfg.HTTPAddr = ""
	require.Error(t, cfg.Validate())
}
