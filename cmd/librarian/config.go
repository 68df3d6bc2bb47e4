package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/suhana1701/Library-Management-System/lending"
)

// config aggregates the CLI configuration read from environment variables.
type config struct {
	DatabaseURL string // empty selects the in-memory engine
	LogLevel    string
	LogFormat   string // text|json
	LoanDays    int
	FinePerDay  float64
}

const (
	defaultLogLevel  = "info"
	defaultLogFormat = "text"
)

// loadConfig reads configuration from environment variables, applying defaults.
// Absent values fall back to defaults; present-but-invalid values are errors.
func loadConfig() (config, error) {
	cfg := config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		LogLevel:    valueOrDefault("LOG_LEVEL", defaultLogLevel),
		LogFormat:   valueOrDefault("LOG_FORMAT", defaultLogFormat),
		LoanDays:    lending.DefaultLoanDurationDays,
		FinePerDay:  lending.DefaultFinePerDay,
	}

	if v := os.Getenv("LIBRARY_LOAN_DAYS"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil || days <= 0 {
			return config{}, fmt.Errorf("invalid LIBRARY_LOAN_DAYS value %q", v)
		}

		cfg.LoanDays = days
	}

	if v := os.Getenv("LIBRARY_FINE_PER_DAY"); v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil || rate < 0 {
			return config{}, fmt.Errorf("invalid LIBRARY_FINE_PER_DAY value %q", v)
		}

		cfg.FinePerDay = rate
	}

	return cfg, nil
}

func valueOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}
