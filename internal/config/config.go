package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"
)

const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type Config struct {
	PostgresAddress  string
	PostgresPort     string
	PostgresDB       string
	PostgresUsername string
	PostgresPassword string

	Port        string
	DataBackend string
	LogLevel    string

	Timezone string
	Locale   string

	WriteTimeout         time.Duration
	BillingCheckInterval time.Duration
	OperatorQueueSize    int

	AMQPURL        string
	AMQPExchange   string
	AMQPRoutingKey string
}

// Defaults returns the configuration for the docker compose setup.
func Defaults() Config {
	return Config{
		PostgresAddress:  "localhost",
		PostgresPort:     "5433",
		PostgresDB:       "postgres",
		PostgresUsername: "postgres",
		PostgresPassword: "testpassword",

		Port:        "9446",
		DataBackend: BackendPostgres,
		LogLevel:    "info",

		Timezone: "UTC",
		Locale:   "en",

		WriteTimeout:         5 * time.Second,
		BillingCheckInterval: time.Hour,
		OperatorQueueSize:    1000,

		AMQPExchange:   "ledger",
		AMQPRoutingKey: "ledger.events",
	}
}

// ProcessEnvironmentVariables loads .env when present, overlays the process
// environment on the defaults and validates the result.
func ProcessEnvironmentVariables() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("godotenv.Load: %w", err)
	}
	env, err := FromLookup(os.LookupEnv)
	if err != nil {
		return nil, err
	}
	return env, nil
}

// FromLookup builds a Config from an environment lookup function.
func FromLookup(lookup func(string) (string, bool)) (*Config, error) {
	// In all cases the default behavior should be for the docker compose setup
	env := Defaults()
	var errs []error

	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && len(v) != 0 {
			*dst = v
		}
	}
	duration := func(key string, dst *time.Duration) {
		v, ok := lookup(key)
		if !ok || len(v) == 0 {
			return
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return
		}
		*dst = d
	}
	integer := func(key string, dst *int) {
		v, ok := lookup(key)
		if !ok || len(v) == 0 {
			return
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return
		}
		*dst = n
	}

	str("POSTGRES_ADDRESS", &env.PostgresAddress)
	str("POSTGRES_PORT", &env.PostgresPort)
	str("POSTGRES_DB", &env.PostgresDB)
	str("POSTGRES_USERNAME", &env.PostgresUsername)
	str("POSTGRES_PASSWORD", &env.PostgresPassword)
	str("PORT", &env.Port)
	str("DATA_BACKEND", &env.DataBackend)
	str("LOG_LEVEL", &env.LogLevel)
	str("LEDGER_TIMEZONE", &env.Timezone)
	str("LEDGER_LOCALE", &env.Locale)
	duration("WRITE_TIMEOUT", &env.WriteTimeout)
	duration("BILLING_CHECK_INTERVAL", &env.BillingCheckInterval)
	integer("OPERATOR_QUEUE_SIZE", &env.OperatorQueueSize)
	str("AMQP_URL", &env.AMQPURL)
	str("AMQP_EXCHANGE", &env.AMQPExchange)
	str("AMQP_ROUTING_KEY", &env.AMQPRoutingKey)

	if err := env.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return &env, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.DataBackend != BackendPostgres && c.DataBackend != BackendMemory {
		errs = append(errs, fmt.Errorf("DATA_BACKEND must be %q or %q, got %q", BackendPostgres, BackendMemory, c.DataBackend))
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("LEDGER_TIMEZONE: %w", err))
	}
	if _, err := language.Parse(c.Locale); err != nil {
		errs = append(errs, fmt.Errorf("LEDGER_LOCALE: %w", err))
	}
	if c.WriteTimeout <= 0 {
		errs = append(errs, errors.New("WRITE_TIMEOUT must be positive"))
	}
	if c.BillingCheckInterval <= 0 {
		errs = append(errs, errors.New("BILLING_CHECK_INTERVAL must be positive"))
	}
	if c.OperatorQueueSize < 1 {
		errs = append(errs, errors.New("OPERATOR_QUEUE_SIZE must be at least 1"))
	}
	if c.AMQPURL != "" && strings.TrimSpace(c.AMQPExchange) == "" {
		errs = append(errs, errors.New("AMQP_EXCHANGE is required when AMQP_URL is set"))
	}
	return errors.Join(errs...)
}

func (c *Config) PostgresURL() string {
	return "postgres://" + c.PostgresUsername + ":" +
		c.PostgresPassword + "@" + c.PostgresAddress + ":" +
		c.PostgresPort + "/" + c.PostgresDB + "?sslmode=disable"
}

// Location returns the household time zone. Validate has already checked it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
