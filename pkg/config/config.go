package config

import (
	"fmt"
	"os"
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
	Results struct {
		Backend string `yaml:"backend"` // clickhouse, kafka, or both
	} `yaml:"results"`
	Kafka struct {
		Brokers      []string `yaml:"brokers"`
		ResultsTopic string   `yaml:"results_topic"`
		JobsTopic    string   `yaml:"jobs_topic"`
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
			DLQTopic   string        `yaml:"dlq_topic"`
			MinBytes   int           `yaml:"min_bytes"`
			MaxBytes   int           `yaml:"max_bytes"`
		} `yaml:"consumer"`
	} `yaml:"kafka"`
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
	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Providers struct {
		Primary struct {
			BaseURL string        `yaml:"base_url"`
			APIKey  string        `yaml:"api_key"`
			Timeout time.Duration `yaml:"timeout"`
		} `yaml:"primary"`
		Fallback struct {
			BaseURL string        `yaml:"base_url"`
			Timeout time.Duration `yaml:"timeout"`
		} `yaml:"fallback"`
		Sentiment struct {
			BaseURL string        `yaml:"base_url"`
			Timeout time.Duration `yaml:"timeout"`
		} `yaml:"sentiment"`
		CacheTTL time.Duration `yaml:"cache_ttl"`
		MaxRPS   float64       `yaml:"max_rps"`
	} `yaml:"providers"`
	Backtest struct {
		DefaultPreset          string     `yaml:"default_preset"`
		WindowSize             int        `yaml:"window_size"`
		MinimumScore           int        `yaml:"minimum_score"`
		MaxHoldingDays         int        `yaml:"max_holding_days"`
		MinSkip                int        `yaml:"min_skip"`
		MaxTrades              int        `yaml:"max_trades"`
		SLVolatilityMultiplier float64    `yaml:"sl_volatility_multiplier"`
		SLMin                  float64    `yaml:"sl_min"`
		SLMax                  float64    `yaml:"sl_max"`
		TPRatios               [3]float64 `yaml:"tp_ratios"`
		SRProximityPct         float64    `yaml:"sr_proximity_pct"`
	} `yaml:"backtest"`
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

	if v := os.Getenv("MARKETDATA_API_KEY"); v != "" {
		c.Providers.Primary.APIKey = v
	}
	if v := os.Getenv("MARKETDATA_BASE_URL"); v != "" {
		c.Providers.Primary.BaseURL = v
	}
	if v := os.Getenv("RESULTS_BACKEND"); v != "" {
		c.Results.Backend = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.Redis.Host = v
	}

	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	switch c.Results.Backend {
	case "clickhouse", "kafka", "both":
	default:
		return fmt.Errorf("results.backend must be 'clickhouse', 'kafka' or 'both', got '%s'", c.Results.Backend)
	}
	if c.Providers.Primary.BaseURL == "" {
		return fmt.Errorf("providers.primary.base_url is required")
	}
	if c.Backtest.SLMin > 0 && c.Backtest.SLMax > 0 && c.Backtest.SLMin >= c.Backtest.SLMax {
		return fmt.Errorf("backtest.sl_min must be below backtest.sl_max")
	}
	r := c.Backtest.TPRatios
	if r[0] != 0 && !(r[0] < r[1] && r[1] < r[2]) {
		return fmt.Errorf("backtest.tp_ratios must be ascending")
	}
	return nil
}
