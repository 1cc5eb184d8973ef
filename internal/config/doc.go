// Package config loads, normalizes and validates the subburn CLI settings.
//
// Settings come from an optional TOML file (default
// ~/.config/subburn/config.toml); a missing file means defaults. Command-line
// flags are applied on top by the caller. The render core itself never reads
// configuration.
package config
