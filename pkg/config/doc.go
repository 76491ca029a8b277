// Package config loads ourohead settings.
//
// Values are layered, lowest priority first: built-in defaults, a config file
// (YAML, TOML or JSON, chosen by extension), OUROHEAD_* environment variables
// and finally command-line flags. Sources records where each key came from so
// `ourohead config` can explain the effective configuration.
package config
