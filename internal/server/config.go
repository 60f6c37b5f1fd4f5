package server

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the HTTP listener settings under "server".
type Config struct {
	Host            string  `mapstructure:"host"`
	Port            int     `mapstructure:"port"`
	DevMode         bool    `mapstructure:"dev_mode"`
	RateLimitRPS    float64 `mapstructure:"rate_limit_rps"`
	RateLimitBurst  int     `mapstructure:"rate_limit_burst"`
	ShutdownTimeout string  `mapstructure:"shutdown_timeout"`
}

// Addr returns host:port.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LoadConfig layers defaults, an optional YAML file and ALZ_* environment
// variables. A .env file in the working directory, when present, is loaded
// into the environment first without overriding variables already set.
func LoadConfig(configPath string) (*viper.Viper, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("alzheon")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/alzheon")
	}

	// ALZ_SERVER_PORT=9090, ALZ_PLUGINS_COGNITION_CACHE_BACKEND=redis
	v.SetEnvPrefix("ALZ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}
	return v, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.dev_mode", false)
	v.SetDefault("server.rate_limit_rps", 50)
	v.SetDefault("server.rate_limit_burst", 100)
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("database.path", "./data/alzheon.db")

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.access_token_ttl", "15m")

	v.SetDefault("plugins.cognition.ingest_timeout", "10s")
	v.SetDefault("plugins.cognition.history_limit", 100)
	v.SetDefault("plugins.cognition.cache.backend", "memory")
	v.SetDefault("plugins.cognition.cache.redis_addr", "localhost:6379")
	v.SetDefault("plugins.cognition.cache.redis_password", "")
	v.SetDefault("plugins.cognition.cache.redis_db", 0)
	v.SetDefault("plugins.cognition.cache.key_prefix", "alzheon:baseline:")
	v.SetDefault("plugins.cognition.default_thresholds.minimum_deviation", 0.15)
	v.SetDefault("plugins.cognition.default_thresholds.bands.baja.min", 0.15)
	v.SetDefault("plugins.cognition.default_thresholds.bands.baja.max", 0.25)
	v.SetDefault("plugins.cognition.default_thresholds.bands.media.min", 0.25)
	v.SetDefault("plugins.cognition.default_thresholds.bands.media.max", 0.35)
	v.SetDefault("plugins.cognition.default_thresholds.bands.alta.min", 0.35)
	v.SetDefault("plugins.cognition.default_thresholds.bands.alta.max", 0.50)
	v.SetDefault("plugins.cognition.default_thresholds.bands.critica.min", 0.50)
	v.SetDefault("plugins.cognition.default_thresholds.bands.critica.max", 1.0)

	v.SetDefault("plugins.notify.enabled", false)
	v.SetDefault("plugins.notify.url", "")
	v.SetDefault("plugins.notify.secret", "")
	v.SetDefault("plugins.notify.timeout", "10s")
	v.SetDefault("plugins.notify.min_severity", "baja")
}
