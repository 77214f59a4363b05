package config

import (
	"strconv"
	"time"

	"github.com/nibzard/covenant-go/internal/covenant"
	"github.com/nibzard/covenant-go/internal/covenantdir"
	"github.com/nibzard/covenant-go/internal/store"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceDotEnv   ConfigSource = ".env"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files that were read, lowest priority first.
	Files []string
}

// Default values.
const (
	DefaultBackend   = store.BackendFile
	DefaultKey       = store.DefaultKey
	DefaultTimezone  = "Local"
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"
)

// Default paths live under ~/.covenant.
var (
	DefaultStateFile = covenantdir.StatePath("~")
	DefaultDBFile    = covenantdir.DBPath("~")
)

// Config holds the full configuration for covenant.
type Config struct {
	// Storage
	StateFile  string `toml:"state_file"`
	Backend    string `toml:"backend"`
	DBFile     string `toml:"db_file"`
	StorageKey string `toml:"storage_key"`
	StrictLoad bool   `toml:"strict_load"`

	// Calendar
	Timezone string `toml:"timezone"`
	Today    string `toml:"today"` // YYYY-MM-DD override, empty means the clock

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogFile       string `toml:"log_file"`

	// Computed by finalizeConfig
	Location  *time.Location `toml:"-"`
	TodayDate covenant.Date  `toml:"-"`
}

// Setting is one displayable configuration entry.
type Setting struct {
	Key   string
	Value string
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	return []string{
		"state_file",
		"backend",
		"db_file",
		"storage_key",
		"strict_load",
		"timezone",
		"today",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_file",
	}
}

// Settings returns every field in display order.
func (c *Config) Settings() []Setting {
	values := map[string]string{
		"state_file":     c.StateFile,
		"backend":        c.Backend,
		"db_file":        c.DBFile,
		"storage_key":    c.StorageKey,
		"strict_load":    strconv.FormatBool(c.StrictLoad),
		"timezone":       c.Timezone,
		"today":          c.Today,
		"log_level":      c.LogLevel,
		"log_format":     c.LogFormat,
		"log_timestamps": strconv.FormatBool(c.LogTimestamps),
		"log_file":       c.LogFile,
	}
	fields := configFields()
	out := make([]Setting, 0, len(fields))
	for _, k := range fields {
		out = append(out, Setting{Key: k, Value: values[k]})
	}
	return out
}

// StoreOptions returns the store options for the configured backend.
func (c *Config) StoreOptions() store.Options {
	opts := store.Options{Backend: c.Backend, Path: c.StateFile}
	if c.Backend == store.BackendSQLite {
		opts.Path = c.DBFile
		opts.Key = c.StorageKey
	}
	return opts
}

// Clock returns a clock pinned to Today when set, the system clock otherwise.
func (c *Config) Clock() covenant.Clock {
	if c.TodayDate.IsZero() {
		return covenant.SystemClock{}
	}
	return covenant.FixedDay(c.TodayDate, c.location())
}

func (c *Config) location() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}
