package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "DISPATCH"

// DriverNone selects the YAML map without a database. Viper ignores empty
// environment values, so DISPATCH_DB_DRIVER=none is how the environment
// turns SQL off.
const DriverNone = "none"

// Config holds the settings shared by the server, dbtool and dispatchctl.
type Config struct {
	Port         string        `mapstructure:"port"`
	DBDriver     string        `mapstructure:"db_driver"`
	DBPath       string        `mapstructure:"db_path"`
	DatabaseURL  string        `mapstructure:"database_url"`
	MapPath      string        `mapstructure:"map_path"`
	SeedMap      bool          `mapstructure:"seed_map"`
	KafkaBrokers []string      `mapstructure:"kafka_brokers"`
	KafkaTopic   string        `mapstructure:"kafka_topic"`
	CourierTick  time.Duration `mapstructure:"courier_tick"`
	CourierStep  float64       `mapstructure:"courier_step"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("db_driver", "sqlite")
	v.SetDefault("db_path", "data/app.db")
	v.SetDefault("database_url", "")
	v.SetDefault("map_path", "")
	v.SetDefault("seed_map", true)
	v.SetDefault("kafka_brokers", []string{})
	v.SetDefault("kafka_topic", "delivery.orders")
	v.SetDefault("courier_tick", 16*time.Millisecond)
	v.SetDefault("courier_step", 0.02)
}

// Load reads defaults, then the optional YAML file at path, then DISPATCH_*
// environment variables. An empty path skips the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("load config: decode: %w", err)
	}
	cfg.KafkaBrokers = splitList(cfg.KafkaBrokers)
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	if cfg.DBDriver == DriverNone {
		cfg.DBDriver = ""
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case "", "sqlite":
		if c.DBDriver == "sqlite" && strings.TrimSpace(c.DBPath) == "" {
			return errors.New("db_path is required for sqlite")
		}
	case "postgres":
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return errors.New("database_url is required for postgres")
		}
	default:
		return fmt.Errorf("unsupported db_driver %q", c.DBDriver)
	}

	if c.CourierTick <= 0 {
		return errors.New("courier_tick must be positive")
	}
	if c.CourierStep <= 0 || c.CourierStep > 1 {
		return errors.New("courier_step must be in (0, 1]")
	}
	return nil
}

// DSN returns the data source for the configured driver.
func (c *Config) DSN() string {
	if c.DBDriver == "postgres" {
		return c.DatabaseURL
	}
	return c.DBPath
}

// Get returns the environment variable key, or fallback when it is unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// Environment values arrive as one comma-separated string.
func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
