package cache

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/HartBrook/lexchunk/internal/chunk"
	"github.com/HartBrook/lexchunk/internal/errors"
)

const (
	chunkExt = ".json"
	metaExt  = ".meta.json"
)

// Cache stores chunk sets by document name, each with a metadata sidecar.
type Cache struct {
	dir string
}

// New creates a cache rooted at dir.
func New(dir string) *Cache {
	return &Cache{dir: dir}
}

// ChunkFile returns the path of the chunk array for name.
func (c *Cache) ChunkFile(name string) string {
	return filepath.Join(c.dir, name+chunkExt)
}

// MetadataFile returns the path of the metadata sidecar for name.
func (c *Cache) MetadataFile(name string) string {
	return filepath.Join(c.dir, name+metaExt)
}

// Read returns stored chunks and metadata, or error if not stored.
func (c *Cache) Read(name string) ([]chunk.Chunk, *Metadata, error) {
	chunkPath := c.ChunkFile(name)

	chunks, err := LoadFile(chunkPath)
	if err != nil {
		var le *errors.LexchunkError
		if stderrors.As(err, &le) && le.Code == errors.ErrStoreNotFound {
			return nil, nil, errors.StoreNotFound(name)
		}
		return nil, nil, err
	}

	meta, err := c.GetMetadata(name)
	if err != nil {
		// Chunks exist but metadata doesn't - create minimal metadata
		meta = &Metadata{
			Name:       name,
			ChunkCount: len(chunks),
		}
		if info, statErr := os.Stat(chunkPath); statErr == nil {
			meta.ParsedAt = info.ModTime()
		}
	}

	return chunks, meta, nil
}

// Write stores chunks and metadata for name.
func (c *Cache) Write(name string, chunks []chunk.Chunk, meta *Metadata) error {
	// Ensure cache directory exists
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return errors.StoreWriteFailed(c.dir, err)
	}

	if meta.ParsedAt.IsZero() {
		meta.ParsedAt = time.Now()
	}
	meta.Name = name
	meta.ChunkCount = len(chunks)

	if err := SaveFile(c.ChunkFile(name), chunks); err != nil {
		return err
	}

	metaBytes, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	metaPath := c.MetadataFile(name)
	if err := os.WriteFile(metaPath, metaBytes, 0644); err != nil {
		return errors.StoreWriteFailed(metaPath, err)
	}
	return nil
}

// Exists checks if chunks are stored for name.
func (c *Cache) Exists(name string) bool {
	_, err := os.Stat(c.ChunkFile(name))
	return err == nil
}

// Clear removes stored chunks for name.
// Returns nil even if files don't exist (idempotent operation).
func (c *Cache) Clear(name string) error {
	if err := os.Remove(c.ChunkFile(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove stored chunks: %w", err)
	}
	if err := os.Remove(c.MetadataFile(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove chunk metadata: %w", err)
	}
	return nil
}

// GetMetadata returns only the metadata without reading chunks.
func (c *Cache) GetMetadata(name string) (*Metadata, error) {
	metaBytes, err := os.ReadFile(c.MetadataFile(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.StoreNotFound(name)
		}
		return nil, err
	}

	meta := &Metadata{}
	if err := json.Unmarshal(metaBytes, meta); err != nil {
		return nil, err
	}
	return meta, nil
}

// Dir returns the cache directory path.
func (c *Cache) Dir() string {
	return c.dir
}

// ListCached returns the names of all stored documents, sorted.
func (c *Cache) ListCached() ([]string, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}

	names := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasSuffix(name, metaExt) || !strings.HasSuffix(name, chunkExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(name, chunkExt))
	}
	sort.Strings(names)
	return names, nil
}
