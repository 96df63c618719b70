package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config is the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Import struct {
		DefaultCurrency    string `mapstructure:"default_currency" yaml:"default_currency"`
		MaxReportedErrors  int    `mapstructure:"max_reported_errors" yaml:"max_reported_errors"`
		MerchantMaxLength  int    `mapstructure:"merchant_max_length" yaml:"merchant_max_length"`
		MemoMaxLength      int    `mapstructure:"memo_max_length" yaml:"memo_max_length"`
	} `mapstructure:"import" yaml:"import"`

	Categorization struct {
		Enabled             bool    `mapstructure:"enabled" yaml:"enabled"`
		ConfidenceThreshold float64 `mapstructure:"confidence_threshold" yaml:"confidence_threshold"`
		RulesFile           string  `mapstructure:"rules_file" yaml:"rules_file"`
	} `mapstructure:"categorization" yaml:"categorization"`
}

// InitializeConfig loads configuration with hierarchical precedence:
// defaults, then an optional config.yaml, then SFP_-prefixed environment
// variables.
func InitializeConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.smart-finance-planner")
	v.AddConfigPath(".smart-finance-planner")
	v.AddConfigPath(".")

	v.SetEnvPrefix("SFP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Keep going with defaults and env vars.
			Logger.Warnf("error reading config file %s: %v", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("import.default_currency", "EUR")
	v.SetDefault("import.max_reported_errors", 50)
	v.SetDefault("import.merchant_max_length", 255)
	v.SetDefault("import.memo_max_length", 500)

	v.SetDefault("categorization.enabled", true)
	v.SetDefault("categorization.confidence_threshold", 0.6)
	v.SetDefault("categorization.rules_file", "rules.yaml")
}

func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if len(config.Import.DefaultCurrency) != 3 {
		return fmt.Errorf("import.default_currency must be a 3-letter ISO code, got: %s", config.Import.DefaultCurrency)
	}

	if config.Import.MaxReportedErrors < 1 {
		return fmt.Errorf("import.max_reported_errors must be positive, got: %d", config.Import.MaxReportedErrors)
	}

	if config.Categorization.ConfidenceThreshold < 0.0 || config.Categorization.ConfidenceThreshold > 1.0 {
		return fmt.Errorf("categorization.confidence_threshold must be between 0.0 and 1.0, got: %f", config.Categorization.ConfidenceThreshold)
	}

	return nil
}

// ConfigureLoggingFromConfig builds a logrus logger from the Config.
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
