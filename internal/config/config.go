package config

import (
	"fmt"
	"os"
	"reflect"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	AppEnv    string `env:"APP_ENV" envDefault:"development"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	HTTP     HTTPConfig     `envPrefix:"HTTP_"`
	Database DatabaseConfig `envPrefix:"DB_"`
	Redis    RedisConfig    `envPrefix:"REDIS_"`
	Telegram TelegramConfig `envPrefix:"TELEGRAM_"`
	Pricing  PricingConfig  `envPrefix:"PRICING_"`
	Limits   LimitsConfig   `envPrefix:"RATE_LIMIT_"`
	Reports  ReportsConfig  `envPrefix:"REPORTS_"`

	AdminIDs []int64 `env:"ADMIN_IDS" envSeparator:","`
}

type HTTPConfig struct {
	Addr           string        `env:"ADDR" envDefault:":8080"`
	AllowedOrigins []string      `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost:5173"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
}

type DatabaseConfig struct {
	Host            string        `env:"HOST" envDefault:"localhost"`
	Port            int           `env:"PORT" envDefault:"5432"`
	User            string        `env:"USER" envDefault:"chapkhane"`
	Password        string        `env:"PASSWORD"`
	Name            string        `env:"NAME" envDefault:"chapkhane"`
	SSLMode         string        `env:"SSLMODE" envDefault:"disable"`
	MaxOpenConns    int           `env:"MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns    int           `env:"MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME" envDefault:"5m"`
	ConnMaxIdleTime time.Duration `env:"CONN_MAX_IDLE_TIME" envDefault:"2m"`
}

// DSN renders the lib/pq connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

type RedisConfig struct {
	Addr     string        `env:"ADDR"`
	Password string        `env:"PASSWORD"`
	DB       int           `env:"DB" envDefault:"0"`
	TTL      time.Duration `env:"TTL" envDefault:"24h"`
}

// Enabled reports whether a Redis server is configured.
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

type TelegramConfig struct {
	Token string `env:"TOKEN"`
	Debug bool   `env:"DEBUG" envDefault:"false"`
}

type PricingConfig struct {
	CustomAreaRate decimal.Decimal `env:"CUSTOM_AREA_RATE" envDefault:"10000"`
	Currency       string          `env:"CURRENCY" envDefault:"IRT"`
}

type LimitsConfig struct {
	Requests int64         `env:"REQUESTS" envDefault:"60"`
	Window   time.Duration `env:"WINDOW" envDefault:"1m"`
}

type ReportsConfig struct {
	Dir         string `env:"DIR" envDefault:"reports"`
	S3Bucket    string `env:"S3_BUCKET"`
	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3Region    string `env:"S3_REGION" envDefault:"auto"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`
	S3PublicURL string `env:"S3_PUBLIC_URL"`
}

func (r ReportsConfig) UseS3() bool {
	return r.S3Bucket != ""
}

// Load reads configuration from the process environment. Outside production
// a .env file in the working directory is loaded first.
func Load() (*Config, error) {
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}
	return parse(env.Options{})
}

// Parse reads configuration from the given variables only.
func Parse(environ map[string]string) (*Config, error) {
	return parse(env.Options{Environment: environ})
}

func parse(opts env.Options) (*Config, error) {
	var cfg Config
	opts.FuncMap = map[reflect.Type]env.ParserFunc{
		reflect.TypeOf(decimal.Decimal{}): func(v string) (interface{}, error) {
			return decimal.NewFromString(v)
		},
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	for _, id := range c.AdminIDs {
		if id <= 0 {
			return fmt.Errorf("invalid admin ID: %d", id)
		}
	}
	if c.Telegram.Token != "" && len(c.AdminIDs) == 0 {
		return fmt.Errorf("at least one admin ID is required when the bot is enabled")
	}
	if !c.Pricing.CustomAreaRate.IsPositive() {
		return fmt.Errorf("custom area rate must be positive, got %s", c.Pricing.CustomAreaRate)
	}
	if c.Limits.Requests <= 0 || c.Limits.Window <= 0 {
		return fmt.Errorf("rate limit must be positive, got %d per %s", c.Limits.Requests, c.Limits.Window)
	}
	if c.Reports.UseS3() && (c.Reports.S3AccessKey == "" || c.Reports.S3SecretKey == "") {
		return fmt.Errorf("s3 credentials are required when REPORTS_S3_BUCKET is set")
	}
	return nil
}

func (c *Config) IsAdmin(chatID int64) bool {
	for _, id := range c.AdminIDs {
		if id == chatID {
			return true
		}
	}
	return false
}
