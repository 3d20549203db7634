// Package config loads runtime settings from configs/config.yml and the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"postboard/internal/logger"
	"postboard/internal/service"

	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

const envPrefix = "POSTBOARD"

// Config holds every tunable of the service.
type Config struct {
	Port string
	DB   struct {
		Path string
	}
	Log struct {
		Level string
	}
	Auth struct {
		Secret     string
		TokenTTL   time.Duration
		Ownership  service.OwnershipPolicy
		BcryptCost int
	}
	RateLimit struct {
		RPS   float64
		Burst int
	}
	Feed struct {
		Interval time.Duration
	}
}

var ErrMissingSecret = errors.New("auth.secret must be set (POSTBOARD_AUTH_SECRET)")

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("db.path", "app.db")
	v.SetDefault("log.level", logger.InfoLevel)
	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.token_ttl", time.Duration(0))
	v.SetDefault("auth.ownership", string(service.PolicyOwner))
	v.SetDefault("auth.bcrypt_cost", bcrypt.DefaultCost)
	v.SetDefault("ratelimit.rps", 5.0)
	v.SetDefault("ratelimit.burst", 10)
	v.SetDefault("feed.interval", time.Second)
}

// Load reads the config file at path (when it exists) and applies
// POSTBOARD_* environment overrides. An empty path looks for
// configs/config.yml.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath("configs")
		v.SetConfigName("config")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || path != "" {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	cfg.Port = v.GetString("port")
	cfg.DB.Path = v.GetString("db.path")
	cfg.Log.Level = v.GetString("log.level")
	cfg.Auth.Secret = v.GetString("auth.secret")
	cfg.Auth.TokenTTL = v.GetDuration("auth.token_ttl")
	cfg.Auth.BcryptCost = v.GetInt("auth.bcrypt_cost")
	cfg.RateLimit.RPS = v.GetFloat64("ratelimit.rps")
	cfg.RateLimit.Burst = v.GetInt("ratelimit.burst")
	cfg.Feed.Interval = v.GetDuration("feed.interval")

	policy, err := service.ParseOwnershipPolicy(strings.ToLower(strings.TrimSpace(v.GetString("auth.ownership"))))
	if err != nil {
		return Config{}, err
	}
	cfg.Auth.Ownership = policy

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if strings.TrimSpace(c.Auth.Secret) == "" {
		return ErrMissingSecret
	}
	if c.Auth.TokenTTL < 0 {
		return fmt.Errorf("auth.token_ttl must not be negative, got %s", c.Auth.TokenTTL)
	}
	if !logger.ValidLevel(c.Log.Level) {
		return fmt.Errorf("unknown log.level %q", c.Log.Level)
	}
	if c.Feed.Interval <= 0 {
		return fmt.Errorf("feed.interval must be positive, got %s", c.Feed.Interval)
	}
	if c.RateLimit.RPS > 0 && c.RateLimit.Burst < 1 {
		return fmt.Errorf("ratelimit.burst must be at least 1 when rps is set")
	}
	return nil
}
