// Package covenantdir provides constants and helpers for the .covenant directory.
package covenantdir

import "path/filepath"

const (
	// Dir is the name of the covenant state directory.
	Dir = ".covenant"

	// StateFile is the JSON state file name (inside .covenant).
	StateFile = "covenant.json"

	// DBFile is the SQLite database file name (inside .covenant).
	DBFile = "covenant.db"

	// ConfigFile is the config file name (inside .covenant).
	ConfigFile = "covenant.toml"

	// LogFile is the log file name used when the TUI owns the terminal.
	LogFile = "covenant.log"
)

// StatePath returns the state file path under base.
func StatePath(base string) string {
	return joinPath(base, StateFile)
}

// DBPath returns the database path under base.
func DBPath(base string) string {
	return joinPath(base, DBFile)
}

// ConfigPath returns the config file path under base.
func ConfigPath(base string) string {
	return joinPath(base, ConfigFile)
}

// LogPath returns the log file path under base.
func LogPath(base string) string {
	return joinPath(base, LogFile)
}

// DirPath returns the .covenant directory under base.
func DirPath(base string) string {
	if base == "." || base == "" {
		return Dir
	}
	return base + string(filepath.Separator) + Dir
}

func joinPath(base, file string) string {
	return DirPath(base) + string(filepath.Separator) + file
}
