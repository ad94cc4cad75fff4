package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App     AppConfig
	Store   StoreConfig
	Logging LoggingConfig
}

type AppConfig struct {
	Name        string
	Environment string
}

// StoreConfig holds configuration for the JSON document store
type StoreConfig struct {
	// Path is the location of the single JSON data document
	Path string
	// BackupRetention is how many timestamped .bak copies to keep
	BackupRetention int
	// StrictLoad controls corrupt-document handling: when true a
	// malformed document aborts the load, when false (default) the
	// store logs a warning and starts from a fresh aggregate
	StrictLoad bool
}

type LoggingConfig struct {
	Level  string
	Format string
}

// Load loads configuration from file and environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	v := viper.New()

	setDefaults(v)

	// Read from config file
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Environment variables override config file
	v.SetEnvPrefix("KMATT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "kmatt-invoice")
	v.SetDefault("app.environment", "development")

	v.SetDefault("store.path", "database.json")
	v.SetDefault("store.backupretention", 5)
	v.SetDefault("store.strictload", false)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}
