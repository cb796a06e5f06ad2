// Package where implements a cross-platform resolver for application-specific filesystem paths.
package where

import (
	"os"
	"path/filepath"

	"github.com/bilisonic/bilisonic/constant"
	"github.com/bilisonic/bilisonic/filesystem"
	"github.com/samber/lo"
)

// EnvConfigPath is the environment variable identifier used to override the default configuration directory.
const EnvConfigPath = "BILISONIC_CONFIG_PATH"

// ensureDir guarantees the existence of a directory at the specified path, creating it if necessary.
func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config resolves the absolute path to the primary application configuration directory.
// It prioritizes the XDG_CONFIG_HOME specification on Linux and equivalent user profile paths on Darwin and Windows.
// Direct override: The path resolution can be explicitly specified via the BILISONIC_CONFIG_PATH environment variable.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.App))
}

// Cache resolves the absolute path to the application's persistent cache directory.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(".", "cache")
	}
	return ensureDir(filepath.Join(base, constant.App))
}

// Logs resolves the absolute path to the directory used for application diagnostic logs.
func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// Playlists resolves the directory where playlist files are looked up by name.
func Playlists() string {
	return ensureDir(filepath.Join(Config(), "playlists"))
}

// History resolves the absolute path to the recently played tracks file.
func History() string {
	return filepath.Join(Config(), "history.json")
}

// Views resolves the cache file holding Bilibili video page lookups.
func Views() string {
	return filepath.Join(Cache(), "views.json")
}

// Temp resolves a volatile directory for transient artifacts such as mpv IPC sockets.
func Temp() string {
	return ensureDir(filepath.Join(os.TempDir(), constant.App))
}
