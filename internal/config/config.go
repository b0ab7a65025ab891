package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"

	"netcheck/internal/shared/constants"
)

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	DNS       DNSConfig       `mapstructure:"dns"`
	Timing    TimingConfig    `mapstructure:"timing"`
	Routing   RoutingConfig   `mapstructure:"routing"`
	Stability StabilityConfig `mapstructure:"stability"`
	Capture   CaptureConfig   `mapstructure:"capture"`
	Events    EventsConfig    `mapstructure:"events"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type AppConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
}

type DNSConfig struct {
	Server  string        `mapstructure:"server"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type TimingConfig struct {
	CurlPath       string        `mapstructure:"curl_path"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

type RoutingConfig struct {
	TraceroutePath    string        `mapstructure:"traceroute_path"`
	MaxHops           int           `mapstructure:"max_hops"`
	PerHopWait        time.Duration `mapstructure:"per_hop_wait"`
	Timeout           time.Duration `mapstructure:"timeout"`
	BottleneckDelta   float64       `mapstructure:"bottleneck_delta_ms"`
	BottleneckCeiling float64       `mapstructure:"bottleneck_ceiling_ms"`
}

type StabilityConfig struct {
	Samples        int           `mapstructure:"samples"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	PerAttempt     time.Duration `mapstructure:"per_attempt_timeout"`
	Delay          time.Duration `mapstructure:"delay"`
}

type CaptureConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Dir         string `mapstructure:"dir"`
	PostgresDSN string `mapstructure:"postgres_dsn"`
}

type EventsConfig struct {
	RedisEnabled  bool   `mapstructure:"redis_enabled"`
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
	Channel       string `mapstructure:"channel"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func Load(path string) (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	if path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.AddConfigPath("configs")
		viper.AddConfigPath(".")
	}

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			slog.Debug("config file not found, using defaults")
		} else {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config, %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed, %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("app.name", "netcheck")
	viper.SetDefault("app.version", "dev")

	viper.SetDefault("dns.server", "8.8.8.8:53")
	viper.SetDefault("dns.timeout", constants.DNSTimeout)

	viper.SetDefault("timing.curl_path", "curl")
	viper.SetDefault("timing.connect_timeout", constants.TimingConnect)
	viper.SetDefault("timing.timeout", constants.TimingTimeout)

	viper.SetDefault("routing.traceroute_path", "traceroute")
	viper.SetDefault("routing.max_hops", constants.RoutingMaxHops)
	viper.SetDefault("routing.per_hop_wait", constants.RoutingPerHopWait)
	viper.SetDefault("routing.timeout", constants.RoutingTimeout)
	viper.SetDefault("routing.bottleneck_delta_ms", 50.0)
	viper.SetDefault("routing.bottleneck_ceiling_ms", 150.0)

	viper.SetDefault("stability.samples", constants.StabilitySamples)
	viper.SetDefault("stability.connect_timeout", constants.StabilityConnect)
	viper.SetDefault("stability.per_attempt_timeout", constants.StabilityPerAttempt)
	viper.SetDefault("stability.delay", constants.StabilityDelay)

	viper.SetDefault("capture.enabled", false)
	viper.SetDefault("capture.dir", "captures")
	viper.SetDefault("capture.postgres_dsn", "")

	viper.SetDefault("events.redis_enabled", false)
	viper.SetDefault("events.redis_addr", "localhost:6379")
	viper.SetDefault("events.redis_password", "")
	viper.SetDefault("events.redis_db", 0)
	viper.SetDefault("events.channel", "netcheck:progress")

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")
}

func validateConfig(cfg *Config) error {
	if cfg.DNS.Server == "" {
		return errors.New("dns server is required")
	}
	if cfg.Routing.MaxHops < 1 || cfg.Routing.MaxHops > 64 {
		return fmt.Errorf("invalid routing max_hops %d", cfg.Routing.MaxHops)
	}
	if cfg.Stability.Samples < 1 {
		return fmt.Errorf("invalid stability samples %d", cfg.Stability.Samples)
	}
	if cfg.Capture.Enabled && cfg.Capture.Dir == "" && cfg.Capture.PostgresDSN == "" {
		return errors.New("capture is enabled but no dir or postgres_dsn is set")
	}
	if cfg.Events.RedisEnabled && cfg.Events.RedisAddr == "" {
		return errors.New("redis address is required when redis events are enabled")
	}
	return nil
}

func (e *EventsConfig) GetRedisOptions() *redis.Options {
	return &redis.Options{
		Addr:            e.RedisAddr,
		Password:        e.RedisPassword,
		DB:              e.RedisDB,
		DisableIdentity: true,
	}
}
