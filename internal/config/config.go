// Package config loads the server configuration from an optional YAML file,
// an optional .env file and environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/mmynk/bonuswiser/internal/draft"
	"github.com/mmynk/bonuswiser/internal/engine"
	"github.com/mmynk/bonuswiser/internal/models"
)

// Duration wraps time.Duration to support YAML unmarshalling.
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses human readable duration strings.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value == nil {
		return nil
	}
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("duration must be string")
	}
	raw := value.Value
	if raw == "" {
		d.Duration = 0
		return nil
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", raw, err)
	}
	d.Duration = parsed
	return nil
}

// Config captures runtime configuration for the bonus server.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Auth      AuthConfig      `yaml:"auth"`
	Bonus     BonusConfig     `yaml:"bonus"`
	Draft     DraftConfig     `yaml:"draft"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

type ServerConfig struct {
	Port            int      `yaml:"port"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`
}

// DatabaseConfig selects the SQL backend. For sqlite the DSN is a file path.
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// RedisConfig enables the distributed customer lock when Addr is set.
type RedisConfig struct {
	Addr     string   `yaml:"addr"`
	Password string   `yaml:"password"`
	DB       int      `yaml:"db"`
	LockTTL  Duration `yaml:"lock_ttl"`
}

type AuthConfig struct {
	JWTSecret     string   `yaml:"jwt_secret"`
	TokenDuration Duration `yaml:"token_duration"`
	// Required rejects requests without a valid staff token.
	Required bool `yaml:"required"`
}

// BonusConfig seeds the program settings until staff change them.
type BonusConfig struct {
	DiscountRate              float64 `yaml:"discount_rate"`
	OrdersRequiredForDiscount int     `yaml:"orders_required"`
	AutoCreateDiscount        bool    `yaml:"auto_create"`
}

// Settings returns the bonus defaults as program settings.
func (b BonusConfig) Settings() models.Settings {
	return models.Settings{
		DiscountRate:              b.DiscountRate,
		OrdersRequiredForDiscount: b.OrdersRequiredForDiscount,
		AutoCreateDiscount:        b.AutoCreateDiscount,
	}
}

type DraftConfig struct {
	Debounce Duration `yaml:"debounce"`
}

type RateLimitConfig struct {
	RequestsPerMinute float64 `yaml:"requests_per_minute"`
	Burst             int     `yaml:"burst"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			ShutdownTimeout: Duration{10 * time.Second},
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    "./data/bonus.db",
		},
		Redis: RedisConfig{
			LockTTL: Duration{10 * time.Second},
		},
		Auth: AuthConfig{
			TokenDuration: Duration{12 * time.Hour},
		},
		Bonus: BonusConfig{
			DiscountRate:              10,
			OrdersRequiredForDiscount: 3,
		},
		Draft: DraftConfig{
			Debounce: Duration{draft.DefaultDelay},
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 600,
			Burst:             50,
		},
	}
}

// Load reads the configuration. path may be empty, in which case only the
// defaults, .env and the environment apply.
func Load(path string) (Config, error) {
	cfg := Default()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}

	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return cfg, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()
		decoder := yaml.NewDecoder(file)
		decoder.KnownFields(true)
		if err := decoder.Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("decode config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT: %w", err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("DB_DRIVER"); v != "" {
		c.Database.Driver = v
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("DB_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := os.Getenv("AUTH_REQUIRED"); v != "" {
		required, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("AUTH_REQUIRED: %w", err)
		}
		c.Auth.Required = required
	}
	if v := os.Getenv("DRAFT_DEBOUNCE"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("DRAFT_DEBOUNCE: %w", err)
		}
		c.Draft.Debounce = Duration{d}
	}
	if v := os.Getenv("RATE_LIMIT_RPM"); v != "" {
		rpm, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("RATE_LIMIT_RPM: %w", err)
		}
		c.RateLimit.RequestsPerMinute = rpm
	}
	if v := os.Getenv("BONUS_DISCOUNT_RATE"); v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("BONUS_DISCOUNT_RATE: %w", err)
		}
		c.Bonus.DiscountRate = rate
	}
	if v := os.Getenv("BONUS_ORDERS_REQUIRED"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("BONUS_ORDERS_REQUIRED: %w", err)
		}
		c.Bonus.OrdersRequiredForDiscount = n
	}
	if v := os.Getenv("BONUS_AUTO_CREATE"); v != "" {
		auto, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("BONUS_AUTO_CREATE: %w", err)
		}
		c.Bonus.AutoCreateDiscount = auto
	}
	return nil
}

// Validate checks the configuration for values the server cannot run with.
func (c Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	switch strings.ToLower(c.Database.Driver) {
	case "sqlite", "postgres", "pgx":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database dsn is required")
	}
	if c.Auth.Required && c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required when auth is required")
	}
	if c.Draft.Debounce.Duration <= 0 {
		return fmt.Errorf("draft debounce must be positive")
	}
	if c.RateLimit.RequestsPerMinute < 0 {
		return fmt.Errorf("rate limit must not be negative")
	}
	if err := engine.ValidateSettings(c.Bonus.Settings()); err != nil {
		return fmt.Errorf("bonus defaults: %w", err)
	}
	return nil
}
