package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/couchcryptid/temperature-heatmap/internal/domain"
)

// DefaultSourceURL is the published global land-surface temperature document.
const DefaultSourceURL = "https://raw.githubusercontent.com/freeCodeCamp/ProjectReferenceData/master/global-temperature.json"

// Config holds all service settings, populated from environment variables.
type Config struct {
	SourceURL    string
	FetchTimeout time.Duration
	RecordPolicy domain.RecordPolicy

	// Layout names the preset rendered by the pipeline and served by default.
	Layout     string
	LayoutFile string
	Layouts    *Layouts

	RenderCacheSize int

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Optional Kafka sink for enriched records.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	fetchTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("FETCH_TIMEOUT", "10s"))
	if err != nil || fetchTimeout <= 0 {
		return nil, errors.New("invalid FETCH_TIMEOUT")
	}

	policy, err := domain.ParseRecordPolicy(os.Getenv("INVALID_RECORD_POLICY"))
	if err != nil {
		return nil, fmt.Errorf("invalid INVALID_RECORD_POLICY: %w", err)
	}

	cfg := &Config{
		SourceURL:       sharedcfg.EnvOrDefault("SOURCE_URL", DefaultSourceURL),
		FetchTimeout:    fetchTimeout,
		RecordPolicy:    policy,
		Layout:          sharedcfg.EnvOrDefault("LAYOUT", DefaultLayoutName),
		LayoutFile:      os.Getenv("LAYOUT_FILE"),
		RenderCacheSize: parseRenderCacheSize(),
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		KafkaEnabled:    os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:    sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:      sharedcfg.EnvOrDefault("KAFKA_TOPIC", "temperature-records"),
	}

	if cfg.SourceURL == "" {
		return nil, errors.New("SOURCE_URL is required")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_TOPIC is empty")
	}

	cfg.Layouts, err = LoadLayouts(cfg.LayoutFile)
	if err != nil {
		return nil, err
	}
	if _, ok := cfg.Layouts.Get(cfg.Layout); !ok {
		return nil, fmt.Errorf("LAYOUT %q is not a known layout (have %v)", cfg.Layout, cfg.Layouts.Names())
	}

	return cfg, nil
}

func parseRenderCacheSize() int {
	if s := os.Getenv("RENDER_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 0 {
			return n
		}
	}
	return 16
}
