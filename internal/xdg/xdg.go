// Package xdg resolves the XDG state directory for odoo-mcp. It falls back
// to ~/.local/state when XDG_STATE_HOME is unset and creates the directory
// with private permissions.
package xdg

import (
	"os"
	"path/filepath"
)

const appName = "odoo-mcp"

// StateDir returns the XDG state directory for odoo-mcp.
// The directory is created with private permissions (0700) if missing.
func StateDir() (string, error) {
	base := os.Getenv("XDG_STATE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".local", "state")
	}
	dir := filepath.Join(base, appName)
	if err := os.MkdirAll(dir, 0o700); err != nil { // private dir
		return "", err
	}
	return dir, nil
}
