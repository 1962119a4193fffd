package integration

import (
	"encoding/json"
	"slices"
	"testing"

	"github.com/HartBrook/lexchunk/internal/chunk"
	"github.com/HartBrook/lexchunk/internal/parser"
)

// Asserter provides assertion helpers for a parsed and stored chunk set.
type Asserter struct {
	t      *testing.T
	chunks []chunk.Chunk
	result *parser.Result
}

// NewAsserter creates an asserter for stored chunks and the parse that
// produced them.
func NewAsserter(t *testing.T, chunks []chunk.Chunk, result *parser.Result) *Asserter {
	return &Asserter{t: t, chunks: chunks, result: result}
}

// IDs returns chunk IDs in order.
func (a *Asserter) IDs() []string {
	ids := make([]string, len(a.chunks))
	for i, c := range a.chunks {
		ids[i] = c.ID
	}
	return ids
}

// Statistics returns the statistics keyed by JSON field name.
func (a *Asserter) Statistics() map[string]int {
	data, err := json.Marshal(chunk.ComputeStatistics(a.chunks))
	if err != nil {
		a.t.Fatalf("failed to marshal statistics: %v", err)
	}
	stats := map[string]int{}
	if err := json.Unmarshal(data, &stats); err != nil {
		a.t.Fatalf("failed to unmarshal statistics: %v", err)
	}
	return stats
}

// RunAssertions runs all assertions from a fixture definition.
func (a *Asserter) RunAssertions(assertions FixtureAssertions) {
	a.t.Helper()

	if assertions.ChunkCount != nil && len(a.chunks) != *assertions.ChunkCount {
		a.t.Errorf("expected %d chunks, got %d (%v)", *assertions.ChunkCount, len(a.chunks), a.IDs())
	}

	if assertions.IDs != nil && !slices.Equal(assertions.IDs, a.IDs()) {
		a.t.Errorf("expected IDs %v, got %v", assertions.IDs, a.IDs())
	}

	if assertions.Discarded != nil && a.result.Discarded != *assertions.Discarded {
		a.t.Errorf("expected %d discarded lines, got %d", *assertions.Discarded, a.result.Discarded)
	}

	if assertions.EmptyArticles != nil && a.result.EmptyArticles != *assertions.EmptyArticles {
		a.t.Errorf("expected %d empty articles, got %d", *assertions.EmptyArticles, a.result.EmptyArticles)
	}

	if len(assertions.Statistics) > 0 {
		stats := a.Statistics()
		for key, want := range assertions.Statistics {
			got, ok := stats[key]
			if !ok {
				a.t.Errorf("unknown statistic %q", key)
				continue
			}
			if got != want {
				a.t.Errorf("statistic %s: expected %d, got %d", key, want, got)
			}
		}
	}

	for _, check := range assertions.Chunks {
		a.checkChunk(check)
	}
}

func (a *Asserter) checkChunk(check ChunkCheck) {
	a.t.Helper()

	if check.Index < 0 || check.Index >= len(a.chunks) {
		a.t.Errorf("chunk %d: out of range, %d chunks", check.Index, len(a.chunks))
		return
	}
	c := a.chunks[check.Index]
	m := c.Metadata

	fields := []struct {
		name, want, got string
	}{
		{"id", check.ID, c.ID},
		{"text", check.Text, c.Text},
		{"book", check.Book, chunk.StringOrEmpty(m.Book)},
		{"title", check.Title, chunk.StringOrEmpty(m.Title)},
		{"chapter", check.Chapter, chunk.StringOrEmpty(m.Chapter)},
		{"section", check.Section, chunk.StringOrEmpty(m.Section)},
		{"article", check.Article, m.Article},
		{"base_article", check.BaseArticle, m.BaseArticle},
		{"citation", check.Citation, m.Citation},
		{"hierarchy_path", check.HierarchyPath, m.HierarchyPath},
	}
	for _, f := range fields {
		if f.want != "" && f.got != f.want {
			a.t.Errorf("chunk %d %s: expected %q, got %q", check.Index, f.name, f.want, f.got)
		}
	}

	if check.IsSubArticle != nil && m.IsSubArticle != *check.IsSubArticle {
		a.t.Errorf("chunk %d is_sub_article: expected %v, got %v", check.Index, *check.IsSubArticle, m.IsSubArticle)
	}

	levels := map[string]*string{
		"book":    m.Book,
		"title":   m.Title,
		"chapter": m.Chapter,
		"section": m.Section,
	}
	for _, level := range check.Absent {
		if v := levels[level]; v != nil {
			a.t.Errorf("chunk %d %s: expected null, got %q", check.Index, level, *v)
		}
	}
}
