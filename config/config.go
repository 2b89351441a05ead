package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const configPathEnv = "PHONESPECS_CONFIG"

// Storage drivers accepted in STORAGE_DRIVER.
const (
	DriverNone     = "none"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds all application configuration. Values come from an optional
// YAML file first, then environment variables (and .env) override them.
type Config struct {
	InputCSVPath  string `yaml:"inputCsvPath"`
	OutputCSVPath string `yaml:"outputCsvPath"`

	StorageDriver string `yaml:"storageDriver"`
	SQLitePath    string `yaml:"sqlitePath"`

	PostgresHost     string `yaml:"postgresHost"`
	PostgresPort     string `yaml:"postgresPort"`
	PostgresUser     string `yaml:"postgresUser"`
	PostgresPassword string `yaml:"postgresPassword"`
	PostgresDB       string `yaml:"postgresDb"`
	PostgresSSLMode  string `yaml:"postgresSslMode"`

	MaxConcurrency    int    `yaml:"maxConcurrency"`
	MaxRetries        int    `yaml:"maxRetries"`
	LogLevel          string `yaml:"logLevel"`
	ReleaseCutoffYear int    `yaml:"releaseCutoffYear"`
}

// Load reads the .env file and the optional YAML file, and returns a populated Config.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	cfg := defaults()
	if path := os.Getenv(configPathEnv); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			log.Printf("[config] Cannot use %s: %v (falling back to defaults)", path, err)
		}
	}
	cfg.applyEnv()
	return cfg
}

func defaults() *Config {
	return &Config{
		InputCSVPath:  "cells.csv",
		OutputCSVPath: "./output/clean_cells.csv",

		StorageDriver: DriverNone,
		SQLitePath:    "./output/cells.db",

		PostgresHost:     "localhost",
		PostgresPort:     "5432",
		PostgresUser:     "phones",
		PostgresPassword: "phones123",
		PostgresDB:       "phones_db",
		PostgresSSLMode:  "disable",

		MaxConcurrency:    4,
		MaxRetries:        5,
		LogLevel:          "info",
		ReleaseCutoffYear: 1999,
	}
}

// mergeFile overlays the non-zero values found in the YAML file at path.
func (c *Config) mergeFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var file Config
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return err
	}

	setString(&c.InputCSVPath, file.InputCSVPath)
	setString(&c.OutputCSVPath, file.OutputCSVPath)
	setString(&c.StorageDriver, file.StorageDriver)
	setString(&c.SQLitePath, file.SQLitePath)
	setString(&c.PostgresHost, file.PostgresHost)
	setString(&c.PostgresPort, file.PostgresPort)
	setString(&c.PostgresUser, file.PostgresUser)
	setString(&c.PostgresPassword, file.PostgresPassword)
	setString(&c.PostgresDB, file.PostgresDB)
	setString(&c.PostgresSSLMode, file.PostgresSSLMode)
	setString(&c.LogLevel, file.LogLevel)
	setInt(&c.MaxConcurrency, file.MaxConcurrency)
	setInt(&c.MaxRetries, file.MaxRetries)
	setInt(&c.ReleaseCutoffYear, file.ReleaseCutoffYear)
	return nil
}

func (c *Config) applyEnv() {
	c.InputCSVPath = getEnv("INPUT_CSV_PATH", c.InputCSVPath)
	c.OutputCSVPath = getEnv("OUTPUT_CSV_PATH", c.OutputCSVPath)
	c.StorageDriver = getEnv("STORAGE_DRIVER", c.StorageDriver)
	c.SQLitePath = getEnv("SQLITE_PATH", c.SQLitePath)

	c.PostgresHost = getEnv("POSTGRES_HOST", c.PostgresHost)
	c.PostgresPort = getEnv("POSTGRES_PORT", c.PostgresPort)
	c.PostgresUser = getEnv("POSTGRES_USER", c.PostgresUser)
	c.PostgresPassword = getEnv("POSTGRES_PASSWORD", c.PostgresPassword)
	c.PostgresDB = getEnv("POSTGRES_DB", c.PostgresDB)
	c.PostgresSSLMode = getEnv("POSTGRES_SSLMODE", c.PostgresSSLMode)

	c.MaxConcurrency = getEnvInt("MAX_CONCURRENCY", c.MaxConcurrency)
	c.MaxRetries = getEnvInt("MAX_RETRIES", c.MaxRetries)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.ReleaseCutoffYear = getEnvInt("RELEASE_CUTOFF_YEAR", c.ReleaseCutoffYear)
}

// DSN returns the connection string for the configured storage driver.
func (c *Config) DSN() string {
	if c.StorageDriver == DriverSQLite {
		return c.SQLitePath
	}
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
		log.Printf("[config] Invalid int for %s=%q, using default %d", key, val, fallback)
	}
	return fallback
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}
