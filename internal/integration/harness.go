// Package integration provides end-to-end testing utilities for lexchunk:
// source files on disk, parsed through the batch runner into the store.
package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/HartBrook/lexchunk/internal/batch"
	"github.com/HartBrook/lexchunk/internal/cache"
	"github.com/HartBrook/lexchunk/internal/chunk"
	"github.com/HartBrook/lexchunk/internal/config"
	"github.com/HartBrook/lexchunk/internal/parser"
)

// TestEnv provides an isolated test environment with overridden paths.
type TestEnv struct {
	t         *testing.T
	RootDir   string        // t.TempDir() root
	HomeDir   string        // Simulated $HOME
	SourceDir string        // Where source documents are written
	Paths     *config.Paths // Configured paths pointing to temp dirs
}

// NewTestEnv creates an isolated test environment.
// All paths are configured to use temporary directories.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	rootDir := t.TempDir()
	homeDir := filepath.Join(rootDir, "home")
	configDir := filepath.Join(homeDir, ".config", "lexchunk")
	cacheDir := filepath.Join(homeDir, ".cache", "lexchunk")
	sourceDir := filepath.Join(rootDir, "sources")

	for _, dir := range []string{configDir, sourceDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("failed to create directory %s: %v", dir, err)
		}
	}

	return &TestEnv{
		t:         t,
		RootDir:   rootDir,
		HomeDir:   homeDir,
		SourceDir: sourceDir,
		Paths:     config.NewPathsWithOverrides(configDir, cacheDir),
	}
}

// WriteSource writes a source document and returns its path.
func (e *TestEnv) WriteSource(name, content string) string {
	e.t.Helper()
	path := filepath.Join(e.SourceDir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		e.t.Fatalf("failed to write source %s: %v", name, err)
	}
	return path
}

// SetupConfig writes config.yaml.
func (e *TestEnv) SetupConfig(cfg *config.Config) error {
	return config.SaveTo(cfg, e.Paths.ConfigFile)
}

// LoadConfig reads config.yaml back, with the store in the temp cache dir.
func (e *TestEnv) LoadConfig() (*config.Config, error) {
	cfg, err := config.LoadFrom(e.Paths.ConfigFile)
	if err != nil {
		return nil, err
	}
	cfg.Store.Dir = e.Paths.CacheDir
	return cfg, nil
}

// Store returns the chunk store of the environment.
func (e *TestEnv) Store() *cache.Cache {
	return cache.New(e.Paths.CacheDir)
}

// RunParse parses paths into the store the way `lexchunk parse` does.
func (e *TestEnv) RunParse(cfg *config.Config, force bool, paths ...string) ([]batch.Outcome, error) {
	p := parser.New(parser.WithLaw(cfg.ChunkLaw()))
	runner := batch.NewRunner(p, e.Store(), batch.Options{
		Workers: cfg.Batch.Workers,
		Force:   force,
	})
	return runner.Run(context.Background(), paths)
}

// ReadChunks reads the stored chunks of a document.
func (e *TestEnv) ReadChunks(name string) ([]chunk.Chunk, error) {
	chunks, _, err := e.Store().Read(name)
	return chunks, err
}
