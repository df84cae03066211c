// Package paths provides the filesystem locations outfit uses outside the
// application binary.
//
// It follows the XDG Base Directory specification:
//
//   - Config: $XDG_CONFIG_HOME/outfit/config.yaml (user configuration)
//   - Data:   $XDG_DATA_HOME/outfit/{templates,stylesheets} (user resources)
//   - State:  $XDG_STATE_HOME/outfit/outfit.log (log file)
//
// # Environment Variables
//
//   - OUTFIT_CONFIG_DIR: Override the config directory
//   - OUTFIT_DATA_DIR: Override the data directory
//   - XDG_STATE_HOME: Read at call time so test overrides are observed
package paths
