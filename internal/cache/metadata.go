// Package cache persists parsed chunk sets and tracks which source they came from.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/HartBrook/lexchunk/internal/chunk"
	"github.com/google/uuid"
)

// Metadata describes the parse run that produced a stored chunk set.
type Metadata struct {
	RunID        string    `json:"run_id"`
	Name         string    `json:"name"`
	Source       string    `json:"source,omitempty"`
	SourceSHA256 string    `json:"source_sha256,omitempty"`
	Law          chunk.Law `json:"law"`
	ChunkCount   int       `json:"chunk_count"`
	ParsedAt     time.Time `json:"parsed_at"`
}

// NewMetadata starts metadata for a parse of source with a fresh run ID.
func NewMetadata(source string, content []byte, law chunk.Law) *Metadata {
	return &Metadata{
		RunID:        uuid.NewString(),
		Source:       source,
		SourceSHA256: HashSource(content),
		Law:          law,
	}
}

// HashSource returns the hex SHA-256 of a source document.
func HashSource(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// IsStale reports whether the stored chunks no longer reflect a source with
// the given hash parsed under law.
func (m *Metadata) IsStale(sourceSHA256 string, law chunk.Law) bool {
	return m.SourceSHA256 == "" || m.SourceSHA256 != sourceSHA256 || m.Law != law
}

// Age returns human-readable age string.
func (m *Metadata) Age() string {
	duration := time.Since(m.ParsedAt)

	switch {
	case duration < time.Minute:
		return "just now"
	case duration < time.Hour:
		mins := int(duration.Minutes())
		if mins == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", mins)
	case duration < 24*time.Hour:
		hours := int(duration.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	default:
		days := int(duration.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	}
}
