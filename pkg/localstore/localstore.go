// Package localstore persists small JSON blobs under well-known keys, the
// terminal counterpart of a browser's localStorage.
//
// Each key is stored in its own file, <dir>/<key>.json. Writes are atomic
// (temp file then rename) and readable by the owner only.
//
// Directory structure follows the XDG Base Directory Specification:
//   - Config: ~/.config/alinfo/
//   - Data:   ~/.local/share/alinfo/ (persisted session)
package localstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
)

const appName = "alinfo"

// Common errors
var (
	ErrNotFound   = errors.New("key not found")
	ErrInvalidKey = errors.New("invalid key")
)

// Persister is the key/value contract the resource stores depend on.
type Persister interface {
	// Load returns the stored blob, or ErrNotFound.
	Load(key string) ([]byte, error)
	Save(key string, data []byte) error
	// Remove deletes the key. Removing an absent key is not an error.
	Remove(key string) error
}

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

func validateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// DefaultDataDir returns the default data directory following XDG spec.
func DefaultDataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "."+appName, "data")
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", appName)
	case "windows":
		if appData := os.Getenv("LOCALAPPDATA"); appData != "" {
			return filepath.Join(appData, appName)
		}
		return filepath.Join(home, "AppData", "Local", appName)
	}
	return filepath.Join(home, ".local", "share", appName)
}

// DefaultConfigDir returns the default config directory following XDG spec.
func DefaultConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "."+appName, "config")
	}
	return filepath.Join(home, ".config", appName)
}
