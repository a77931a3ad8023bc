package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"EntryFeed/pkg/util"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment" default:"production"`
	Timezone    string `yaml:"timezone" default:"America/Sao_Paulo"`

	Worker struct {
		Interval time.Duration `yaml:"interval" default:"5m" validate:"gt=0"`
		RunOnce  bool          `yaml:"run_once"`
	} `yaml:"worker"`

	Entry struct {
		Policy    string  `yaml:"policy" default:"percentile" validate:"oneof=percentile dualside"`
		AssertMin float64 `yaml:"assert_min" default:"65" validate:"gte=0,lte=100"`
		GainMin   float64 `yaml:"gain_min" default:"3" validate:"gte=0"`
	} `yaml:"entry"`

	Files struct {
		StudyCSV   string `yaml:"study_csv" default:"data/mfe_estudos.csv" validate:"required"`
		Universe   string `yaml:"universe" default:"data/coins_77.txt"`
		Feed       string `yaml:"feed" default:"data/entrada.json" validate:"required"`
		Top        string `yaml:"top" default:"data/top10.json" validate:"required"`
		PriceCache string `yaml:"price_cache" default:"data/precos_cache.json"`
	} `yaml:"files"`

	Universe struct {
		Inline  string `yaml:"inline"` // comma list, wins over the file
		MaxSize int    `yaml:"max_size" default:"200" validate:"gt=0"`
	} `yaml:"universe"`

	Prices struct {
		Source           string        `yaml:"source" default:"binance" validate:"oneof=binance cryptocompare file"`
		BinanceURL       string        `yaml:"binance_url" default:"https://api.binance.com"`
		CryptoCompareURL string        `yaml:"cryptocompare_url" default:"https://min-api.cryptocompare.com"`
		QuoteSuffix      string        `yaml:"quote_suffix" default:"USDT"`
		Timeout          time.Duration `yaml:"timeout" default:"10s"`
	} `yaml:"prices"`

	Stream struct {
		Enabled        bool          `yaml:"enabled"`
		URL            string        `yaml:"url" default:"wss://stream.binance.com:9443"`
		ReconnectDelay time.Duration `yaml:"reconnect_delay" default:"5s"`
		PingInterval   time.Duration `yaml:"ping_interval" default:"30s"`
	} `yaml:"stream"`

	Server struct {
		Enabled         bool          `yaml:"enabled" default:"true"`
		Port            int           `yaml:"port" default:"8082"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	} `yaml:"server"`

	Kafka struct {
		Enabled bool     `yaml:"enabled"`
		Brokers []string `yaml:"brokers"`
		Topic   string   `yaml:"topic" default:"entry.signals"`
	} `yaml:"kafka"`

	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Addr     string `yaml:"addr" default:"localhost:6379"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Prefix   string `yaml:"prefix" default:"entryfeed"`
	} `yaml:"redis"`

	Log struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"console" validate:"oneof=console json"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"log"`
}

var validate = validator.New()

// Load reads a YAML configuration file, fills defaults, and validates the
// result. A missing file is not an error: the service runs on defaults plus
// environment overrides.
func Load(path string) (*Config, error) {
	var c Config

	if path != "" {
		b, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(b, &c); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment
// variables. The variable names follow the original worker deployment.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("APP_TZ"); v != "" {
		c.Timezone = v
	}
	if v := os.Getenv("MFE_CSV"); v != "" {
		c.Files.StudyCSV = v
	}
	if v := os.Getenv("MFE_COINS_FILE"); v != "" {
		c.Files.Universe = v
	}
	if v := os.Getenv("MFE_PRICES_JSON"); v != "" {
		c.Files.PriceCache = v
	}
	// ENTRADA_JSON is the historical name; OUTPUT_JSON is accepted as an alias.
	if v := os.Getenv("ENTRADA_JSON"); v != "" {
		c.Files.Feed = v
	} else if v := os.Getenv("OUTPUT_JSON"); v != "" {
		c.Files.Feed = v
	}
	if v := os.Getenv("TOP10_JSON"); v != "" {
		c.Files.Top = v
	}
	if v := os.Getenv("MFE_UNIVERSE"); v != "" {
		c.Universe.Inline = v
	}
	if v := os.Getenv("INTERVALO"); v != "" {
		c.Worker.Interval = time.Duration(util.ParseIntDefault(v, 300)) * time.Second
	}
	if v := os.Getenv("RUN_ONCE"); v != "" {
		c.Worker.RunOnce = util.ParseBoolDefault(v, false)
	}
	if v := os.Getenv("ASSERT_MIN"); v != "" {
		c.Entry.AssertMin = util.ParseFloatDefault(v, c.Entry.AssertMin)
	}
	if v := os.Getenv("GAIN_MIN"); v != "" {
		c.Entry.GainMin = util.ParseFloatDefault(v, c.Entry.GainMin)
	}
	if v := os.Getenv("ENTRY_POLICY"); v != "" {
		c.Entry.Policy = v
	}
	if v := os.Getenv("PRICE_SOURCE"); v != "" {
		c.Prices.Source = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = splitList(v)
		c.Kafka.Enabled = true
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
		c.Redis.Enabled = true
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		c.Server.Port = util.ParseIntDefault(v, c.Server.Port)
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	if c.Prices.Source == "file" && c.Files.PriceCache == "" {
		return fmt.Errorf("files.price_cache is required for price source 'file'")
	}
	return nil
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
