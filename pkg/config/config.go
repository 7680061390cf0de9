package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	ClickHouse struct {
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		WriteTimeout     time.Duration `yaml:"write_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
	Kafka struct {
		Brokers      []string `yaml:"brokers"`
		IngestTopic  string   `yaml:"ingest_topic"`
		EventsTopic  string   `yaml:"events_topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			Linger       time.Duration `yaml:"linger"`
			BatchBytes   int           `yaml:"batch_bytes"`
			BatchSize    int           `yaml:"batch_size"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
		Consumer struct {
			GroupID    string        `yaml:"group_id"`
			Workers    int           `yaml:"workers"`
			BufferSize int           `yaml:"buffer_size"`
			RetryMax   int           `yaml:"retry_max"`
			BackoffMin time.Duration `yaml:"backoff_min"`
			BackoffMax time.Duration `yaml:"backoff_max"`
			MinBytes   int           `yaml:"min_bytes"`
			MaxBytes   int           `yaml:"max_bytes"`
		} `yaml:"consumer"`
	} `yaml:"kafka"`
	Queue struct {
		Addr       string        `yaml:"addr"`
		Password   string        `yaml:"password"`
		DB         int           `yaml:"db"`
		Workers    int           `yaml:"workers"`
		RetryLimit int           `yaml:"retry_limit"`
		RetryDelay time.Duration `yaml:"retry_delay"`
	} `yaml:"queue"`
	Analytics struct {
		WindowDays            int           `yaml:"window_days"`
		CorrelationWindowDays int           `yaml:"correlation_window_days"`
		MinDataPoints         int           `yaml:"min_data_points"`
		SignificanceThreshold float64       `yaml:"significance_threshold"`
		StrongThreshold       float64       `yaml:"strong_threshold"`
		DashboardCacheTTL     time.Duration `yaml:"dashboard_cache_ttl"`
		RecommendationTTL     time.Duration `yaml:"recommendation_cache_ttl"`
	} `yaml:"analytics"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
	if v := os.Getenv("CLICKHOUSE_PASSWORD"); v != "" {
		c.ClickHouse.Password = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Queue.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Queue.Password = v
	}
	if v := os.Getenv("ANALYTICS_WINDOW_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Analytics.WindowDays = n
		}
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Analytics.WindowDays <= 0 {
		c.Analytics.WindowDays = 30
	}
	if c.Analytics.CorrelationWindowDays <= 0 {
		c.Analytics.CorrelationWindowDays = 90
	}
	if c.Analytics.MinDataPoints <= 0 {
		c.Analytics.MinDataPoints = 5
	}
	if c.Analytics.SignificanceThreshold <= 0 {
		c.Analytics.SignificanceThreshold = 0.3
	}
	if c.Analytics.StrongThreshold <= 0 {
		c.Analytics.StrongThreshold = 0.7
	}
	if c.Analytics.DashboardCacheTTL <= 0 {
		c.Analytics.DashboardCacheTTL = 30 * time.Second
	}
	if c.Analytics.RecommendationTTL <= 0 {
		c.Analytics.RecommendationTTL = 60 * time.Second
	}
	if c.Queue.Workers <= 0 {
		c.Queue.Workers = 2
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required")
	}
	if c.ClickHouse.Database == "" {
		return fmt.Errorf("clickhouse.database is required")
	}
	if c.Analytics.SignificanceThreshold > c.Analytics.StrongThreshold {
		return fmt.Errorf("analytics.significance_threshold must not exceed strong_threshold")
	}
	if c.Analytics.MinDataPoints < 2 {
		return fmt.Errorf("analytics.min_data_points must be at least 2")
	}
	return nil
}
