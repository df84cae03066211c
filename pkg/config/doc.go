// Package config handles configuration management for outfit.
// Configuration is layered: embedded defaults, the user config file
// (YAML or TOML under the XDG config directory), an explicit --config
// file, OUTFIT_* environment variables and finally command-line flags.
// Later layers override scalars and extend lists.
package config
