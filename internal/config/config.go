package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig
	UPI      UPIConfig
	Database DatabaseConfig
	Redis    RedisConfig
	NewRelic NewRelicConfig
	Log      LogConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string        `envconfig:"PORT" default:"8000" validate:"required,numeric"`
	ReadTimeout  time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"10s"`
	WriteTimeout time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"10s"`
}

// UPIConfig holds the static payee details embedded into every payment link.
type UPIConfig struct {
	PayeeVPA      string `envconfig:"UPI_PAYEE_VPA" default:"7720053652@kotakbank" validate:"required,contains=@"`
	PayeeName     string `envconfig:"UPI_PAYEE_NAME" default:"TripPilot" validate:"required"`
	NotePrefix    string `envconfig:"UPI_NOTE_PREFIX" default:"TicketBooking" validate:"required"`
	Amount        string `envconfig:"UPI_AMOUNT" default:"1.00" validate:"required"`
	OrderIDLength int    `envconfig:"UPI_ORDER_ID_LENGTH" default:"8" validate:"min=4,max=32"`

	amount decimal.Decimal
}

// AmountDecimal returns the amount parsed by Validate.
func (u UPIConfig) AmountDecimal() decimal.Decimal {
	return u.amount
}

// DatabaseConfig holds storage configuration.
type DatabaseConfig struct {
	Driver string `envconfig:"DB_DRIVER" default:"sqlite3" validate:"oneof=postgres sqlite3"`
	DSN    string `envconfig:"DB_DSN"`

	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASSWORD" default:"postgres"`
	DBName   string `envconfig:"DB_NAME" default:"upi_payments"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"50"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"25"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"30m"`
	ConnMaxIdleTime time.Duration `envconfig:"DB_CONN_MAX_IDLE_TIME" default:"5m"`

	AutoMigrate bool `envconfig:"DB_AUTO_MIGRATE" default:"true"`
}

// DataSourceName returns the DSN for the configured driver.
func (d DatabaseConfig) DataSourceName() string {
	if d.DSN != "" {
		return d.DSN
	}
	if d.Driver == DriverSQLite {
		return "./payments.db"
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Enabled  bool          `envconfig:"REDIS_ENABLED" default:"false"`
	Addr     string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string        `envconfig:"REDIS_PASSWORD"`
	DB       int           `envconfig:"REDIS_DB" default:"0"`
	CacheTTL time.Duration `envconfig:"REDIS_CACHE_TTL" default:"30s"`
}

// NewRelicConfig holds New Relic configuration.
type NewRelicConfig struct {
	AppName    string `envconfig:"NEW_RELIC_APP_NAME" default:"upi-payments"`
	LicenseKey string `envconfig:"NEW_RELIC_LICENSE_KEY"`
	Enabled    bool   `envconfig:"NEW_RELIC_ENABLED" default:"false"`
}

// LogConfig holds logger configuration.
type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"json" validate:"oneof=json console"`
}

// Load reads an optional .env file, then loads configuration from environment variables.
// The returned bool reports whether a .env file was found.
func Load() (*Config, bool, error) {
	dotenv := godotenv.Load() == nil

	cfg, err := FromEnv()
	if err != nil {
		return nil, dotenv, err
	}
	return cfg, dotenv, nil
}

// FromEnv loads and validates configuration from the process environment only.
func FromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints and that the amount is a positive decimal.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	amount, err := decimal.NewFromString(c.UPI.Amount)
	if err != nil {
		return fmt.Errorf("invalid config: UPI_AMOUNT %q: %w", c.UPI.Amount, err)
	}
	if !amount.IsPositive() {
		return fmt.Errorf("invalid config: UPI_AMOUNT must be positive, got %s", c.UPI.Amount)
	}
	c.UPI.amount = amount
	return nil
}
