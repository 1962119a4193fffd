// Package config handles lexchunk configuration.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// Paths provides all lexchunk-related filesystem paths.
type Paths struct {
	ConfigDir  string // ~/.config/lexchunk
	CacheDir   string // ~/.cache/lexchunk
	ConfigFile string // ~/.config/lexchunk/config.yaml
}

// NewPaths creates Paths using ~/.config and ~/.cache directories.
// We use these paths explicitly for cross-platform consistency rather than
// platform-specific defaults (like ~/Library/Application Support on macOS).
func NewPaths() *Paths {
	home := os.Getenv("HOME")
	return NewPathsWithOverrides(
		filepath.Join(home, ".config", "lexchunk"),
		filepath.Join(home, ".cache", "lexchunk"),
	)
}

// NewPathsWithOverrides allows overriding directories for testing.
func NewPathsWithOverrides(configDir, cacheDir string) *Paths {
	return &Paths{
		ConfigDir:  configDir,
		CacheDir:   cacheDir,
		ConfigFile: filepath.Join(configDir, "config.yaml"),
	}
}

// DocumentName derives the store name of a source document from its path:
// the base name without extension, e.g. "data/TN_Code_du_Travail.txt" -> "TN_Code_du_Travail".
func DocumentName(sourcePath string) string {
	base := filepath.Base(sourcePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
