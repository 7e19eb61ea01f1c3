package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the server
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Store     StoreConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	Fleet     FleetConfig
	Emissions EmissionsConfig
	Registry  RegistryConfig
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string
}

// StoreConfig selects the persistence backend
type StoreConfig struct {
	Driver      string // memory, postgres or sqlite
	DatabaseURL string
	SQLitePath  string
}

// RedisConfig enables the fleet cache when Addr is set
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// KafkaConfig enables event publishing when Brokers is non-empty
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// FleetConfig bounds fleet generation requests
type FleetConfig struct {
	DefaultCount int
	MaxCount     int
	Workers      int
}

// EmissionsConfig holds the daily baseline used for timeframe snapshots
type EmissionsConfig struct {
	BaselineTons float64
}

// RegistryConfig optionally points at a YAML airport registry
type RegistryConfig struct {
	Path string
}

// Load loads configuration from config file and environment variables
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("store.driver", "memory")
	v.SetDefault("store.database_url", "")
	v.SetDefault("store.sqlite_path", "flightcarbon.db")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 5*time.Minute)
	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", "fleet-emissions")
	v.SetDefault("fleet.default_count", 50)
	v.SetDefault("fleet.max_count", 1000)
	v.SetDefault("fleet.workers", 0)
	v.SetDefault("emissions.baseline_tons", 100000.0)
	v.SetDefault("registry.path", "")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/flightcarbon")
	v.AddConfigPath(".")

	if configPath := os.Getenv("FLIGHTCARBON_CONFIG_PATH"); configPath != "" {
		v.SetConfigFile(configPath)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// no config file: defaults + env vars
	}

	v.SetEnvPrefix("FLIGHTCARBON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Port:         v.GetString("server.port"),
			ReadTimeout:  v.GetDuration("server.read_timeout"),
			WriteTimeout: v.GetDuration("server.write_timeout"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		Store: StoreConfig{
			Driver:      strings.ToLower(v.GetString("store.driver")),
			DatabaseURL: v.GetString("store.database_url"),
			SQLitePath:  v.GetString("store.sqlite_path"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
			TTL:      v.GetDuration("redis.ttl"),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(v.GetStringSlice("kafka.brokers")),
			Topic:   v.GetString("kafka.topic"),
		},
		Fleet: FleetConfig{
			DefaultCount: v.GetInt("fleet.default_count"),
			MaxCount:     v.GetInt("fleet.max_count"),
			Workers:      v.GetInt("fleet.workers"),
		},
		Emissions: EmissionsConfig{
			BaselineTons: v.GetFloat64("emissions.baseline_tons"),
		},
		Registry: RegistryConfig{
			Path: v.GetString("registry.path"),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// splitList accepts both YAML lists and comma separated env values
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// validate validates the configuration values
func validate(cfg *Config) error {
	if cfg.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[strings.ToLower(cfg.Log.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", cfg.Log.Level)
	}

	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[strings.ToLower(cfg.Log.Format)] {
		return fmt.Errorf("invalid log format: %s (must be text or json)", cfg.Log.Format)
	}

	switch cfg.Store.Driver {
	case "memory":
	case "postgres":
		if cfg.Store.DatabaseURL == "" {
			return fmt.Errorf("store.database_url is required for the postgres driver")
		}
	case "sqlite":
		if cfg.Store.SQLitePath == "" {
			return fmt.Errorf("store.sqlite_path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("invalid store driver: %s (must be memory, postgres, or sqlite)", cfg.Store.Driver)
	}

	if cfg.Fleet.DefaultCount <= 0 {
		return fmt.Errorf("fleet.default_count must be greater than 0")
	}

	if cfg.Fleet.MaxCount < cfg.Fleet.DefaultCount {
		return fmt.Errorf("fleet.max_count must be at least fleet.default_count")
	}

	if cfg.Fleet.Workers < 0 {
		return fmt.Errorf("fleet.workers must not be negative")
	}

	if cfg.Emissions.BaselineTons < 0 {
		return fmt.Errorf("emissions.baseline_tons must not be negative")
	}

	if len(cfg.Kafka.Brokers) > 0 && cfg.Kafka.Topic == "" {
		return fmt.Errorf("kafka.topic is required when brokers are set")
	}

	return nil
}
