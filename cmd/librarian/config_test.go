package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suhana1701/Library-Management-System/lending"
)

func Test_LoadConfig_AppliesDefaults_WhenEnvironmentIsEmpty(t *testing.T) {
	// arrange
	t.Setenv("DATABASE_URL", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FORMAT", "")
	t.Setenv("LIBRARY_LOAN_DAYS", "")
	t.Setenv("LIBRARY_FINE_PER_DAY", "")

	// act
	cfg, err := loadConfig()

	// assert
	require.NoError(t, err)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, lending.DefaultLoanDurationDays, cfg.LoanDays)
	assert.Equal(t, lending.DefaultFinePerDay, cfg.FinePerDay)
}

func Test_LoadConfig_ReadsOverrides(t *testing.T) {
	// arrange
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/library")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LIBRARY_LOAN_DAYS", "21")
	t.Setenv("LIBRARY_FINE_PER_DAY", "0.5")

	// act
	cfg, err := loadConfig()

	// assert
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost:5432/library", cfg.DatabaseURL)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 21, cfg.LoanDays)
	assert.Equal(t, 0.5, cfg.FinePerDay)
}

func Test_LoadConfig_Fails_WhenLoanDaysIsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{name: "not_a_number", value: "soon"},
		{name: "zero", value: "0"},
		{name: "negative", value: "-3"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			t.Setenv("LIBRARY_LOAN_DAYS", tc.value)

			// act
			_, err := loadConfig()

			// assert
			assert.Error(t, err)
		})
	}
}

func Test_LoadConfig_Fails_WhenFinePerDayIsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{name: "not_a_number", value: "cheap"},
		{name: "negative", value: "-1.5"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			t.Setenv("LIBRARY_LOAN_DAYS", "")
			t.Setenv("LIBRARY_FINE_PER_DAY", tc.value)

			// act
			_, err := loadConfig()

			// assert
			assert.Error(t, err)
		})
	}
}
