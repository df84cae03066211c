package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// Environment variable names
const (
	// EnvOutfitConfigDir overrides the XDG config directory for outfit
	EnvOutfitConfigDir = "OUTFIT_CONFIG_DIR"

	// EnvOutfitDataDir overrides the XDG data directory for outfit
	EnvOutfitDataDir = "OUTFIT_DATA_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Default directories and files
const (
	// AppDirName is the directory name used under every XDG base
	AppDirName = "outfit"

	// ConfigFileName is the name of the user configuration file
	ConfigFileName = "config.yaml"

	// TemplatesDir is the subdirectory for user templates
	TemplatesDir = "templates"

	// StylesheetsDir is the subdirectory for user stylesheets
	StylesheetsDir = "stylesheets"

	// LogFileName is the name of the log file
	LogFileName = "outfit.log"
)

// ConfigDir returns the user configuration directory.
func ConfigDir() string {
	if dir := os.Getenv(EnvOutfitConfigDir); dir != "" {
		return ExpandHome(dir)
	}
	return filepath.Join(xdg.ConfigHome, AppDirName)
}

// ConfigFilePath returns the user configuration file path. The file may not exist.
func ConfigFilePath() string {
	return filepath.Join(ConfigDir(), ConfigFileName)
}

// DataDir returns the user data directory.
func DataDir() string {
	if dir := os.Getenv(EnvOutfitDataDir); dir != "" {
		return ExpandHome(dir)
	}
	return filepath.Join(xdg.DataHome, AppDirName)
}

// UserTemplatesDir returns the directory scanned for user templates.
func UserTemplatesDir() string {
	return filepath.Join(DataDir(), TemplatesDir)
}

// UserStylesheetsDir returns the directory scanned for user stylesheets.
func UserStylesheetsDir() string {
	return filepath.Join(DataDir(), StylesheetsDir)
}

// StateDir returns the state directory. XDG doesn't give us a reliable
// StateHome on every platform, so we check manually.
func StateDir() string {
	if stateDir := os.Getenv("XDG_STATE_HOME"); stateDir != "" {
		return filepath.Join(stateDir, AppDirName)
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return AppDirName
	}
	return filepath.Join(homeDir, ".local", "state", AppDirName)
}

// LogFilePath returns the path to the log file
func LogFilePath() string {
	return filepath.Join(StateDir(), LogFileName)
}

// ExpandHome expands a leading ~ to the user's home directory
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to HOME env var
		homeDir = os.Getenv(EnvHome)
		if homeDir == "" {
			return path
		}
	}

	if len(path) == 1 {
		return homeDir
	}
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}
	return path
}

// Exists reports whether a path exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
