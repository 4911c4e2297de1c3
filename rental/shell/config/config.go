package config

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

const envPrefix = "RENTAL_"

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	PostgresClientPGX  = "pgx"
	PostgresClientSQL  = "sql"
	PostgresClientSQLX = "sqlx"

	CollectionDriverFS     = "fs"
	CollectionDriverS3     = "s3"
	CollectionDriverSQLite = "sqlite"
	CollectionDriverMemory = "memory"

	MetricsNone       = "none"
	MetricsPrometheus = "prometheus"
	MetricsOTel       = "otel"

	LogFormatText = "text"
	LogFormatJSON = "json"
)

var (
	ErrUnsupportedValue = errors.New("unsupported configuration value")
	ErrMissingValue     = errors.New("missing configuration value")
)

// Config holds all application configuration.
type Config struct {
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	EventStoreDriver string `env:"EVENTSTORE_DRIVER" envDefault:"sqlite"`
	SQLitePath       string `env:"SQLITE_PATH" envDefault:"rental-ledger.db"`
	PostgresDSN      string `env:"POSTGRES_DSN"`
	PostgresClient   string `env:"POSTGRES_CLIENT" envDefault:"pgx"`
	EventsTable      string `env:"EVENTS_TABLE" envDefault:"events"`

	CollectionDriver         string        `env:"COLLECTION_DRIVER" envDefault:"fs"`
	CollectionDir            string        `env:"COLLECTION_DIR" envDefault:"rental-data"`
	CollectionSQLitePath     string        `env:"COLLECTION_SQLITE_PATH" envDefault:"rental-collections.db"`
	S3Bucket                 string        `env:"S3_BUCKET"`
	S3Region                 string        `env:"S3_REGION" envDefault:"us-east-1"`
	S3Endpoint               string        `env:"S3_ENDPOINT"`
	S3Prefix                 string        `env:"S3_PREFIX"`
	S3PathStyle              bool          `env:"S3_PATH_STYLE" envDefault:"false"`
	CollectionWriteAttempts  int           `env:"COLLECTION_WRITE_ATTEMPTS" envDefault:"3"`
	CollectionWriteBaseDelay time.Duration `env:"COLLECTION_WRITE_BASE_DELAY" envDefault:"20ms"`

	DefaultDailyRate int           `env:"DEFAULT_DAILY_RATE" envDefault:"5"`
	ConfirmationTTL  time.Duration `env:"CONFIRMATION_TTL" envDefault:"5m"`

	Metrics      string `env:"METRICS" envDefault:"none"`
	MetricsAddr  string `env:"METRICS_ADDR" envDefault:":9464"`
	OTelEndpoint string `env:"OTEL_ENDPOINT"`
}

// Load reads configuration from environment variables.
func Load() (Config, error) {
	// Attempt to load .env file for local development.
	_ = godotenv.Load()

	return parse(env.Options{Prefix: envPrefix})
}

// LoadFromMap reads configuration from the given variables instead of the process environment.
// Keys carry the RENTAL_ prefix.
func LoadFromMap(environment map[string]string) (Config, error) {
	if environment == nil {
		environment = map[string]string{}
	}

	return parse(env.Options{Prefix: envPrefix, Environment: environment})
}

func parse(opts env.Options) (Config, error) {
	cfg := Config{}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the enumerated values and the values the selected drivers need.
func (c Config) Validate() error {
	checks := []struct {
		name    string
		value   string
		allowed []string
	}{
		{"LOG_FORMAT", c.LogFormat, []string{LogFormatText, LogFormatJSON}},
		{"EVENTSTORE_DRIVER", c.EventStoreDriver, []string{DriverSQLite, DriverPostgres}},
		{"POSTGRES_CLIENT", c.PostgresClient, []string{PostgresClientPGX, PostgresClientSQL, PostgresClientSQLX}},
		{"COLLECTION_DRIVER", c.CollectionDriver, []string{
			CollectionDriverFS, CollectionDriverS3, CollectionDriverSQLite, CollectionDriverMemory,
		}},
		{"METRICS", c.Metrics, []string{MetricsNone, MetricsPrometheus, MetricsOTel}},
	}

	for _, check := range checks {
		if !slices.Contains(check.allowed, check.value) {
			return fmt.Errorf("%w: %s%s=%q", ErrUnsupportedValue, envPrefix, check.name, check.value)
		}
	}

	if c.EventStoreDriver == DriverPostgres && c.PostgresDSN == "" {
		return fmt.Errorf("%w: %sPOSTGRES_DSN", ErrMissingValue, envPrefix)
	}

	if c.CollectionDriver == CollectionDriverS3 && c.S3Bucket == "" {
		return fmt.Errorf("%w: %sS3_BUCKET", ErrMissingValue, envPrefix)
	}

	if c.DefaultDailyRate < 1 {
		return fmt.Errorf("%w: %sDEFAULT_DAILY_RATE=%d", ErrUnsupportedValue, envPrefix, c.DefaultDailyRate)
	}

	return nil
}
