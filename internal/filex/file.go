// Package filex contains small filesystem helpers for locating and creating
// the client's data directory.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureDir creates dir (and parents) if it does not exist and returns it.
func EnsureDir(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return dir, nil
}

// DefaultDataDir returns the per-user data directory for the client
// (<user config dir>/territorykeeper), creating it if needed. It falls back
// to a subdirectory of the working directory when the user config dir is
// not resolvable.
func DefaultDataDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		cwd, werr := os.Getwd()
		if werr != nil {
			return "", fmt.Errorf("getwd: %w", werr)
		}
		base = cwd
	}
	return EnsureDir(filepath.Join(base, "territorykeeper"))
}
