// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.covenant/covenant.toml or OS-specific config directory)
// 3. Project config file (covenant.toml or .covenant.toml in the working directory)
// 4. A .env file in the working directory
// 5. Environment variables (COVENANT_*)
// 6. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
// Real environment variables win over the same key in .env.
//
// User-level config locations:
// - ~/.covenant/covenant.toml (preferred)
// - Windows: %APPDATA%\covenant\covenant.toml
// - macOS: ~/Library/Application Support/covenant/covenant.toml
// - Linux/BSD: $XDG_CONFIG_HOME/covenant/covenant.toml or ~/.config/covenant/covenant.toml
//
// Project-level config locations (overrides user config):
// - ./covenant.toml (preferred)
// - ./.covenant.toml
package config
