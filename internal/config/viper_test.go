package config

import (
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTestConfig() *Config {
	var c Config
	c.Log.Level = "info"
	c.Log.Format = "text"
	c.Import.DefaultCurrency = "EUR"
	c.Import.MaxReportedErrors = 50
	c.Import.MerchantMaxLength = 255
	c.Import.MemoMaxLength = 500
	c.Categorization.Enabled = true
	c.Categorization.ConfidenceThreshold = 0.6
	c.Categorization.RulesFile = "rules.yaml"
	return &c
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"Valid defaults", func(c *Config) {}, false},
		{"JSON log format", func(c *Config) { c.Log.Format = "json" }, false},
		{"Bad log level", func(c *Config) { c.Log.Level = "verbose" }, true},
		{"Bad log format", func(c *Config) { c.Log.Format = "xml" }, true},
		{"Short currency", func(c *Config) { c.Import.DefaultCurrency = "EU" }, true},
		{"Zero error cap", func(c *Config) { c.Import.MaxReportedErrors = 0 }, true},
		{"Threshold too high", func(c *Config) { c.Categorization.ConfidenceThreshold = 1.5 }, true},
		{"Threshold at bound", func(c *Config) { c.Categorization.ConfidenceThreshold = 1.0 }, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validTestConfig()
			tc.mutate(cfg)
			err := validateConfig(cfg)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestInitializeConfigDefaults(t *testing.T) {
	// t.Chdir needs Go 1.24; replicate it on the 1.21 toolchain.
	origDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	t.Setenv("HOME", t.TempDir())

	cfg, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "EUR", cfg.Import.DefaultCurrency)
	assert.Equal(t, 50, cfg.Import.MaxReportedErrors)
	assert.True(t, cfg.Categorization.Enabled)
	assert.InDelta(t, 0.6, cfg.Categorization.ConfidenceThreshold, 0.001)
	assert.Equal(t, "rules.yaml", cfg.Categorization.RulesFile)
}

func TestConfigureLoggingFromConfig(t *testing.T) {
	cfg := validTestConfig()
	cfg.Log.Level = "debug"

	logger := ConfigureLoggingFromConfig(cfg)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)

	cfg.Log.Format = "json"
	logger = ConfigureLoggingFromConfig(cfg)
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)
}

func TestGetEnv(t *testing.T) {
	t.Setenv("SFP_TEST_KEY", "value")
	assert.Equal(t, "value", GetEnv("SFP_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", GetEnv("SFP_TEST_KEY_MISSING", "fallback"))
}
