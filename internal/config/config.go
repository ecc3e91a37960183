package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
)

type Config struct {
	AppPort string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	RedisAddr string
	RedisDB   int

	IdempTTLSecs int

	// External valuation calculator
	ValuationURL       string
	ValuationTimeoutMS int

	// Decision rule: approve iff LTV <= this percentage
	LTVThresholdPct string

	// Minimum age of a PENDING_VALUATION status before RevertStale may reset it
	PendingStaleSecs int
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getenvInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func Load() *Config {
	return &Config{
		AppPort:   getenv("APP_PORT", "8080"),
		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "crelend"),
		MySQLUser: getenv("MYSQL_USER", "crelend"),
		MySQLPass: getenv("MYSQL_PASS", "crelend"),

		RedisAddr:    getenv("REDIS_ADDR", "redis:6379"),
		RedisDB:      getenvInt("REDIS_DB", 0),
		IdempTTLSecs: getenvInt("IDEMPOTENCY_TTL_SECONDS", 300),

		ValuationURL:       getenv("VALUATION_URL", "http://valuation:8000"),
		ValuationTimeoutMS: getenvInt("VALUATION_TIMEOUT_MS", 5000),

		LTVThresholdPct:  getenv("LTV_THRESHOLD_PCT", "75"),
		PendingStaleSecs: getenvInt("PENDING_STALE_SECONDS", 900),
	}
}

func (c *Config) Validate() error {
	if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
		return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
	}
	// ensure port is valid
	if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
		return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if c.ValuationURL == "" {
		return errors.New("missing VALUATION_URL")
	}
	if c.ValuationTimeoutMS <= 0 {
		return fmt.Errorf("invalid VALUATION_TIMEOUT_MS %d", c.ValuationTimeoutMS)
	}
	if _, err := strconv.ParseFloat(c.LTVThresholdPct, 64); err != nil {
		return fmt.Errorf("invalid LTV_THRESHOLD_PCT %q: %w", c.LTVThresholdPct, err)
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// multiStatements=true is handy for migrations; parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
