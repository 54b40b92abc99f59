// Package config loads and validates the patchbay TOML configuration.
//
// Loading always starts from Default, overlays the config file when present,
// expands user paths, and validates the result, so callers never see a
// partially-populated config.
package config
