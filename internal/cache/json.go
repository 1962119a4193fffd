package cache

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/HartBrook/lexchunk/internal/chunk"
	"github.com/HartBrook/lexchunk/internal/errors"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed chunks.schema.json
var chunksSchema []byte

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("chunks.schema.json", bytes.NewReader(chunksSchema)); err != nil {
		return nil, fmt.Errorf("failed to load chunk schema: %w", err)
	}
	return compiler.Compile("chunks.schema.json")
})

// Encode writes chunks as an indented JSON array. Non-ASCII text is written
// as-is, and HTML characters are not escaped.
func Encode(w io.Writer, chunks []chunk.Chunk) error {
	if chunks == nil {
		chunks = []chunk.Chunk{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(chunks)
}

// Decode reads a JSON chunk array, validating it against the chunk schema
// before decoding.
func Decode(r io.Reader) ([]chunk.Chunk, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	schema, err := compileSchema()
	if err != nil {
		return nil, err
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode chunk JSON: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("chunk JSON does not match schema: %w", err)
	}

	var chunks []chunk.Chunk
	if err := json.Unmarshal(data, &chunks); err != nil {
		return nil, fmt.Errorf("failed to decode chunks: %w", err)
	}
	return chunks, nil
}

// SaveFile writes chunks to path, replacing any existing file atomically.
func SaveFile(path string, chunks []chunk.Chunk) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.StoreWriteFailed(path, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.StoreWriteFailed(path, err)
	}
	defer os.Remove(tmp.Name())

	if err := Encode(tmp, chunks); err != nil {
		tmp.Close()
		return errors.StoreWriteFailed(path, err)
	}
	if err := tmp.Close(); err != nil {
		return errors.StoreWriteFailed(path, err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return errors.StoreWriteFailed(path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.StoreWriteFailed(path, err)
	}
	return nil
}

// LoadFile reads chunks written by SaveFile.
func LoadFile(path string) ([]chunk.Chunk, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.StoreNotFound(path)
		}
		return nil, err
	}
	defer f.Close()

	chunks, err := Decode(f)
	if err != nil {
		return nil, errors.StoreCorrupt(path, err)
	}
	return chunks, nil
}
