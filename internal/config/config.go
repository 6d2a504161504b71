package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type Config struct {
	Port        string `koanf:"PORT"`
	DataBackend string `koanf:"DATA_BACKEND"`
	LogLevel    string `koanf:"LOG_LEVEL"`

	PostgresAddress  string `koanf:"POSTGRES_ADDRESS"`
	PostgresPort     string `koanf:"POSTGRES_PORT"`
	PostgresDB       string `koanf:"POSTGRES_DB"`
	PostgresUsername string `koanf:"POSTGRES_USERNAME"`
	PostgresPassword string `koanf:"POSTGRES_PASSWORD"`

	DBConnectRetries int           `koanf:"DB_CONNECT_RETRIES"`
	DBConnectBackoff time.Duration `koanf:"DB_CONNECT_BACKOFF"`

	JWTSecret  string        `koanf:"JWT_SECRET"`
	JWTExpires time.Duration `koanf:"JWT_EXPIRES"`

	OperatorWorkers int    `koanf:"OPERATOR_WORKERS"`
	TZLocation      string `koanf:"TZ_LOCATION"`

	// AMQP fan-out of change events is disabled when AMQPURL is empty.
	AMQPURL      string `koanf:"AMQP_URL"`
	AMQPExchange string `koanf:"AMQP_EXCHANGE"`
}

// In all cases the default behavior should be for the docker compose setup
var defaults = map[string]interface{}{
	"PORT":               "9446",
	"DATA_BACKEND":       BackendPostgres,
	"LOG_LEVEL":          "info",
	"POSTGRES_ADDRESS":   "localhost",
	"POSTGRES_PORT":      "5433",
	"POSTGRES_DB":        "postgres",
	"POSTGRES_USERNAME":  "postgres",
	"POSTGRES_PASSWORD":  "testpassword",
	"DB_CONNECT_RETRIES": 5,
	"DB_CONNECT_BACKOFF": "5s",
	"JWT_SECRET":         "",
	"JWT_EXPIRES":        "168h",
	"OPERATOR_WORKERS":   4,
	"TZ_LOCATION":        "Local",
	"AMQP_URL":           "",
	"AMQP_EXCHANGE":      "expenses",
}

// Load reads the optional dotenv files, then the process environment, over the defaults.
// A missing dotenv file is not an error.
func Load(dotenvFiles ...string) (*Config, error) {
	for _, file := range dotenvFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config.Load: reading %s: %w", file, err)
		}
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("config.Load: defaults: %w", err)
	}

	known := func(key string) string {
		if _, ok := defaults[key]; !ok {
			return ""
		}
		return key
	}
	if err := k.Load(env.Provider("", ".", known), nil); err != nil {
		return nil, fmt.Errorf("config.Load: environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.DataBackend {
	case BackendPostgres:
		if c.PostgresAddress == "" || c.PostgresDB == "" || c.PostgresUsername == "" {
			problems = append(problems, "postgres address, database and username are required for the postgres backend")
		}
		if c.DBConnectRetries < 0 {
			problems = append(problems, fmt.Sprintf("invalid connect retries %d: must not be negative", c.DBConnectRetries))
		}
	case BackendMemory:
	default:
		problems = append(problems, fmt.Sprintf("invalid data backend '%s': must be one of [%s %s]",
			c.DataBackend, BackendPostgres, BackendMemory))
	}

	if c.JWTSecret == "" {
		problems = append(problems, "JWT_SECRET is required")
	}
	if c.JWTExpires <= 0 {
		problems = append(problems, fmt.Sprintf("invalid token lifetime %v: must be positive", c.JWTExpires))
	}

	if c.OperatorWorkers < 1 {
		problems = append(problems, fmt.Sprintf("invalid operator workers %d: must be at least 1", c.OperatorWorkers))
	}

	if _, err := c.Location(); err != nil {
		problems = append(problems, err.Error())
	}

	if c.AMQPURL != "" {
		if parsed, err := url.Parse(c.AMQPURL); err != nil {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL: %v", err))
		} else if parsed.Scheme != "amqp" && parsed.Scheme != "amqps" {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsed.Scheme))
		}
		if c.AMQPExchange == "" {
			problems = append(problems, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

// Location resolves TZ_LOCATION, the zone in which "today" is computed.
func (c *Config) Location() (*time.Location, error) {
	if c.TZLocation == "" || c.TZLocation == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.TZLocation)
	if err != nil {
		return nil, fmt.Errorf("invalid location '%s': %w", c.TZLocation, err)
	}
	return loc, nil
}

// PostgresURL is the connection string shared by the server and the migration tooling.
func (c *Config) PostgresURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.PostgresUsername, c.PostgresPassword),
		Host:     c.PostgresAddress + ":" + c.PostgresPort,
		Path:     c.PostgresDB,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}
