package config

import (
	"github.com/spf13/pflag"
)

// RegisterFlags defines the configuration flags on fs. Values only take
// effect when a flag is set explicitly, so lower layers are not masked
// by flag defaults.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("state-file", DefaultStateFile, "Path to the JSON state file (file backend)")
	fs.String("backend", DefaultBackend, "Storage backend: file or sqlite")
	fs.String("db-file", DefaultDBFile, "Path to the SQLite database (sqlite backend)")
	fs.String("storage-key", DefaultKey, "Slot name in the SQLite database")
	fs.Bool("strict-load", false, "Fail instead of starting fresh when stored data is malformed")
	fs.String("timezone", DefaultTimezone, "Time zone that decides the current day (IANA name or Local)")
	fs.String("today", "", "Treat this YYYY-MM-DD day as today")
	_ = fs.MarkHidden("today")

	// Logging
	fs.String("log-level", DefaultLogLevel, "Log level: debug, info, warn, error")
	fs.String("log-format", DefaultLogFormat, "Log format: text, json, logfmt")
	fs.Bool("log-timestamps", false, "Include timestamps in log output")
	fs.String("log-file", "", "Append logs to this file instead of stderr")
}

// applyFlags copies explicitly set flags into cfg.
func applyFlags(cfg *Config, fs *pflag.FlagSet, sources map[string]ConfigSource) error {
	if fs == nil {
		return nil
	}

	strFlags := []struct {
		flag   string
		field  string
		target *string
	}{
		{"state-file", "state_file", &cfg.StateFile},
		{"backend", "backend", &cfg.Backend},
		{"db-file", "db_file", &cfg.DBFile},
		{"storage-key", "storage_key", &cfg.StorageKey},
		{"timezone", "timezone", &cfg.Timezone},
		{"today", "today", &cfg.Today},
		{"log-level", "log_level", &cfg.LogLevel},
		{"log-format", "log_format", &cfg.LogFormat},
		{"log-file", "log_file", &cfg.LogFile},
	}
	for _, f := range strFlags {
		if fs.Lookup(f.flag) == nil || !fs.Changed(f.flag) {
			continue
		}
		v, err := fs.GetString(f.flag)
		if err != nil {
			return err
		}
		*f.target = v
		sources[f.field] = SourceFlag
	}

	boolFlags := []struct {
		flag   string
		field  string
		target *bool
	}{
		{"strict-load", "strict_load", &cfg.StrictLoad},
		{"log-timestamps", "log_timestamps", &cfg.LogTimestamps},
	}
	for _, f := range boolFlags {
		if fs.Lookup(f.flag) == nil || !fs.Changed(f.flag) {
			continue
		}
		v, err := fs.GetBool(f.flag)
		if err != nil {
			return err
		}
		*f.target = v
		sources[f.field] = SourceFlag
	}
	return nil
}
