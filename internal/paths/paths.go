// Package paths resolves the configuration and library directory locations.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// appDirName names the per-user config directory.
const appDirName = "booklib"

// DefaultLibraryDirName is created under the home directory when no library
// directory is configured.
const DefaultLibraryDirName = "Booklib"

// Environment variable names for directory overrides.
const (
	EnvConfigDir  = "BOOKLIB_CONFIG_DIR"
	EnvLibraryDir = "BOOKLIB_LIBRARY_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/booklib (fallback ~/.config/booklib)
// macOS:   ~/Library/Application Support/booklib
// Windows: %APPDATA%/booklib
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, appDirName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", appDirName), nil
	default:
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, appDirName), nil
	}
}

// DefaultLibraryDir returns ~/Booklib.
func DefaultLibraryDir() (string, error) {
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DefaultLibraryDirName), nil
}

// ResolveConfigDir returns the configuration directory following the precedence
// chain: flag > BOOKLIB_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveLibraryDir returns the library directory following the precedence
// chain: flag > config.yaml library_dir > BOOKLIB_LIBRARY_DIR env >
// DefaultLibraryDir().
func ResolveLibraryDir(flag, configYAMLValue string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configYAMLValue != "" {
		return filepath.Abs(configYAMLValue)
	}
	if env := os.Getenv(EnvLibraryDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultLibraryDir()
}
