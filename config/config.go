package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/romana/rlog"
)

// Supported values of DB_DRIVER
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

type DBConfig struct {
	Driver       string
	Path         string // sqlite file
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	Replicas     []string
	MaxOpenConns int
}

type Config struct {
	Port      string
	GinMode   string
	JWTSecret []byte
	TokenTTL  time.Duration
	DB        DBConfig
	SeedFile  string

	StripeSecretKey string
	PaymentCurrency string

	AWSRegion string
	SESSender string
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Load reads configuration from the environment. A .env file in the
// working directory is applied first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		rlog.Debug("no .env file loaded:", err)
	}

	ttl, err := time.ParseDuration(getEnv("TOKEN_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("TOKEN_TTL: %w", err)
	}

	driver := strings.ToLower(getEnv("DB_DRIVER", DriverSQLite))
	defaultPort := "3306"
	switch driver {
	case DriverSQLite, DriverMySQL:
	case DriverPostgres:
		defaultPort = "5432"
	default:
		return nil, fmt.Errorf("DB_DRIVER: unsupported driver %q", driver)
	}

	maxOpen, err := strconv.Atoi(getEnv("DB_MAX_OPEN_CONNS", "25"))
	if err != nil {
		return nil, fmt.Errorf("DB_MAX_OPEN_CONNS: %w", err)
	}

	var replicas []string
	for _, r := range strings.Split(os.Getenv("DB_REPLICAS"), ",") {
		if r = strings.TrimSpace(r); r != "" {
			replicas = append(replicas, r)
		}
	}

	return &Config{
		Port:      getEnv("PORT", "8080"),
		GinMode:   os.Getenv("GIN_MODE"),
		JWTSecret: []byte(getEnv("JWT_SECRET", "home_flavours_dev_secret")),
		TokenTTL:  ttl,
		DB: DBConfig{
			Driver:       driver,
			Path:         getEnv("DB_PATH", "home_flavours.db"),
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", defaultPort),
			User:         getEnv("DB_USER", "root"),
			Password:     os.Getenv("DB_PASSWORD"),
			Name:         getEnv("DB_NAME", "home_flavours"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			Replicas:     replicas,
			MaxOpenConns: maxOpen,
		},
		SeedFile:        os.Getenv("SEED_FILE"),
		StripeSecretKey: os.Getenv("STRIPE_SECRET_KEY"),
		PaymentCurrency: getEnv("PAYMENT_CURRENCY", "inr"),
		AWSRegion:       os.Getenv("AWS_REGION"),
		SESSender:       os.Getenv("SES_SENDER"),
	}, nil
}

// DSN renders the connection string for the configured driver
func (c DBConfig) DSN() string {
	switch c.Driver {
	case DriverPostgres:
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode)
	case DriverMySQL:
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			c.User, c.Password, c.Host, c.Port, c.Name)
	default:
		return c.Path
	}
}
