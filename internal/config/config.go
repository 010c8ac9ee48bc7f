package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	DataPath        string
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// ViewCacheSize bounds the number of cached range selections; 0 disables the cache.
	ViewCacheSize int

	// Debug re-parses page templates on every request, reading them from
	// AssetsDir when set.
	Debug     bool
	AssetsDir string

	// Optional selection event publishing; disabled when KafkaBrokers is empty.
	KafkaBrokers        []string
	KafkaSelectionTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	cacheSize, err := parseViewCacheSize()
	if err != nil {
		return nil, err
	}

	debug, err := parseBool("DEBUG")
	if err != nil {
		return nil, err
	}

	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		brokers = sharedcfg.ParseBrokers(raw)
	}

	cfg := &Config{
		DataPath:        sharedcfg.EnvOrDefault("DATA_PATH", "rainfall_forecast_output.csv"),
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8050"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		ViewCacheSize:   cacheSize,
		Debug:           debug,
		AssetsDir:       os.Getenv("ASSETS_DIR"),

		KafkaBrokers:        brokers,
		KafkaSelectionTopic: sharedcfg.EnvOrDefault("KAFKA_SELECTION_TOPIC", "rainfall-dashboard-selections"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that may also be overridden by command-line flags.
func (c *Config) Validate() error {
	if c.DataPath == "" {
		return errors.New("DATA_PATH is required")
	}
	if c.HTTPAddr == "" {
		return errors.New("HTTP_ADDR is required")
	}
	if len(c.KafkaBrokers) > 0 && c.KafkaSelectionTopic == "" {
		return errors.New("KAFKA_SELECTION_TOPIC is required when KAFKA_BROKERS is set")
	}
	if c.AssetsDir != "" {
		info, err := os.Stat(c.AssetsDir)
		if err != nil || !info.IsDir() {
			return errors.New("ASSETS_DIR must be an existing directory")
		}
	}
	return nil
}

// SelectionEventsEnabled reports whether range selections are published to Kafka.
func (c *Config) SelectionEventsEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func parseViewCacheSize() (int, error) {
	s := os.Getenv("VIEW_CACHE_SIZE")
	if s == "" {
		return 128, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, errors.New("invalid VIEW_CACHE_SIZE")
	}
	return n, nil
}

func parseBool(key string) (bool, error) {
	s := os.Getenv(key)
	if s == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, errors.New("invalid " + key)
	}
	return v, nil
}
