package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// dotEnvFile is read from the working directory when present.
const dotEnvFile = ".env"

// envLookup resolves variables from the process environment first,
// then from a .env file.
type envLookup struct {
	dotenv map[string]string
}

func newEnvLookup(path string) (envLookup, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return envLookup{}, nil
		}
		return envLookup{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return envLookup{dotenv: values}, nil
}

func (e envLookup) get(key string) (string, ConfigSource, bool) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v, SourceEnv, true
	}
	if v, ok := e.dotenv[key]; ok && v != "" {
		return v, SourceDotEnv, true
	}
	return "", "", false
}

// loadFromEnv overrides config from COVENANT_* variables.
func loadFromEnv(cfg *Config, env envLookup, sources map[string]ConfigSource) error {
	str := func(name, field string, target *string) {
		if v, src, ok := env.get(name); ok {
			*target = v
			sources[field] = src
		}
	}
	boolean := func(name, field string, target *bool) error {
		v, src, ok := env.get(name)
		if !ok {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a boolean", ErrInvalid, name, v)
		}
		*target = b
		sources[field] = src
		return nil
	}

	str("COVENANT_STATE_FILE", "state_file", &cfg.StateFile)
	str("COVENANT_BACKEND", "backend", &cfg.Backend)
	str("COVENANT_DB_FILE", "db_file", &cfg.DBFile)
	str("COVENANT_STORAGE_KEY", "storage_key", &cfg.StorageKey)
	str("COVENANT_TIMEZONE", "timezone", &cfg.Timezone)
	str("COVENANT_TODAY", "today", &cfg.Today)
	if err := boolean("COVENANT_STRICT_LOAD", "strict_load", &cfg.StrictLoad); err != nil {
		return err
	}

	// Logging configuration
	str("COVENANT_LOG_LEVEL", "log_level", &cfg.LogLevel)
	str("COVENANT_LOG_FORMAT", "log_format", &cfg.LogFormat)
	str("COVENANT_LOG_FILE", "log_file", &cfg.LogFile)
	return boolean("COVENANT_LOG_TIMESTAMPS", "log_timestamps", &cfg.LogTimestamps)
}
