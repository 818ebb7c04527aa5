package config

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration. It is built once at startup and
// treated as read-only afterwards.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Password  PasswordConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	BaseURL      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// IsProduction reports whether cookies must be marked Secure.
func (s ServerConfig) IsProduction() bool {
	return s.Environment == "production"
}

type DatabaseConfig struct {
	URL           string
	Timeout       time.Duration
	AutoMigrate   bool
	MongoDatabase string
}

type JWTConfig struct {
	AccessSecret       string
	RefreshSecret      string
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
	RotateRefreshToken bool
}

type PasswordConfig struct {
	BcryptCost int
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type RateLimitConfig struct {
	Enabled       bool
	RPS           float64
	Burst         int
	UseRedis      bool
	WindowSeconds int
}

const defaultBcryptCost = 10

var requiredEnv = []string{"DATABASE_URL", "ACCESS_SECRET", "REFRESH_SECRET"}

// LoadConfig loads configuration from environment variables and .env file.
// DATABASE_URL, ACCESS_SECRET and REFRESH_SECRET are mandatory.
func LoadConfig() (*Config, error) {
	v := newViper()
	for _, key := range requiredEnv {
		if strings.TrimSpace(v.GetString(key)) == "" {
			return nil, fmt.Errorf("missing required environment variable: %s", key)
		}
	}

	accessTTL, err := ParseDuration(v.GetString("ACCESS_TOKEN_EXPIRES_IN"))
	if err != nil {
		return nil, fmt.Errorf("ACCESS_TOKEN_EXPIRES_IN: %w", err)
	}
	refreshTTL, err := ParseDuration(v.GetString("REFRESH_TOKEN_EXPIRES_IN"))
	if err != nil {
		return nil, fmt.Errorf("REFRESH_TOKEN_EXPIRES_IN: %w", err)
	}

	rawCost := strings.TrimSpace(v.GetString("BCRYPT_SALT_ROUNDS"))
	cost, err := strconv.Atoi(rawCost)
	if rawCost == "" {
		cost, err = defaultBcryptCost, nil
	}
	if err != nil {
		return nil, fmt.Errorf("BCRYPT_SALT_ROUNDS: invalid integer %q", rawCost)
	}
	if cost <= 0 {
		cost = defaultBcryptCost
	}
	if cost < 4 || cost > 31 {
		return nil, errors.New("BCRYPT_SALT_ROUNDS must be between 4 and 31")
	}

	dbCfg, err := databaseConfig(v)
	if err != nil {
		return nil, err
	}

	port := v.GetString("PORT")
	baseURL := v.GetString("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:" + port
	}

	return &Config{
		Server: ServerConfig{
			Port:         port,
			Host:         v.GetString("HOST"),
			Environment:  v.GetString("NODE_ENV"),
			BaseURL:      baseURL,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Database: dbCfg,
		JWT: JWTConfig{
			AccessSecret:       v.GetString("ACCESS_SECRET"),
			RefreshSecret:      v.GetString("REFRESH_SECRET"),
			AccessTokenTTL:     accessTTL,
			RefreshTokenTTL:    refreshTTL,
			RotateRefreshToken: v.GetBool("ROTATE_REFRESH_TOKEN"),
		},
		Password: PasswordConfig{BcryptCost: cost},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		RateLimit: RateLimitConfig{
			Enabled:       v.GetBool("RATE_LIMIT_ENABLED"),
			RPS:           v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         v.GetInt("RATE_LIMIT_BURST"),
			UseRedis:      v.GetBool("RATE_LIMIT_USE_REDIS"),
			WindowSeconds: v.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
	}, nil
}

// LoadDatabaseConfig resolves only the database section. Used by tooling
// (cmd/migrate) that must not require token secrets.
func LoadDatabaseConfig() (*DatabaseConfig, error) {
	v := newViper()
	if strings.TrimSpace(v.GetString("DATABASE_URL")) == "" {
		return nil, errors.New("missing required environment variable: DATABASE_URL")
	}
	cfg, err := databaseConfig(v)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func newViper() *viper.Viper {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "3000")
	v.SetDefault("HOST", "0.0.0.0")
	v.SetDefault("NODE_ENV", "development")
	v.SetDefault("ACCESS_TOKEN_EXPIRES_IN", "15m")
	v.SetDefault("REFRESH_TOKEN_EXPIRES_IN", "7d")
	v.SetDefault("BCRYPT_SALT_ROUNDS", defaultBcryptCost)
	v.SetDefault("ROTATE_REFRESH_TOKEN", false)
	v.SetDefault("DB_AUTO_MIGRATE", true)
	v.SetDefault("DB_TIMEOUT", "10s")
	v.SetDefault("MONGODB_DATABASE", "authapi")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("RATE_LIMIT_ENABLED", false)
	v.SetDefault("RATE_LIMIT_RPS", 5)
	v.SetDefault("RATE_LIMIT_BURST", 10)
	v.SetDefault("RATE_LIMIT_USE_REDIS", false)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 1)
	return v
}

func databaseConfig(v *viper.Viper) (DatabaseConfig, error) {
	timeout, err := ParseDuration(v.GetString("DB_TIMEOUT"))
	if err != nil {
		return DatabaseConfig{}, fmt.Errorf("DB_TIMEOUT: %w", err)
	}
	return DatabaseConfig{
		URL:           v.GetString("DATABASE_URL"),
		Timeout:       timeout,
		AutoMigrate:   v.GetBool("DB_AUTO_MIGRATE"),
		MongoDatabase: v.GetString("MONGODB_DATABASE"),
	}, nil
}

// Largest second and day counts that still fit in a time.Duration.
const (
	maxSeconds = math.MaxInt64 / int64(time.Second)
	maxDays    = float64(math.MaxInt64/int64(24*time.Hour)) - 1
)

// ParseDuration accepts Go duration syntax ("15m", "1h30m"), a day suffix
// ("7d") and bare integers, which are read as seconds.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty duration")
	}
	var d time.Duration
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if n <= 0 {
			return 0, fmt.Errorf("duration %q must be positive", s)
		}
		if n > maxSeconds {
			return 0, fmt.Errorf("duration %q out of range", s)
		}
		d = time.Duration(n) * time.Second
	} else if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.ParseFloat(days, 64)
		if err != nil || math.IsNaN(n) {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		if n <= 0 {
			return 0, fmt.Errorf("duration %q must be positive", s)
		}
		if n > maxDays {
			return 0, fmt.Errorf("duration %q out of range", s)
		}
		d = time.Duration(n * float64(24*time.Hour))
	} else {
		d, err = time.ParseDuration(s)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration %q must be positive", s)
	}
	return d, nil
}
