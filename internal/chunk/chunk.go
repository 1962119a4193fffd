// Package chunk defines the citation-ready article records produced by the parser.
package chunk

import "strings"

// ChunkTypeArticle is the only chunk type emitted: one chunk per article.
const ChunkTypeArticle = "article"

// Law identifies the legal code a chunk set belongs to.
type Law struct {
	// Code prefixes every chunk ID, e.g. "CT_TN_A".
	Code string `json:"code" yaml:"code"`
	// Name is the human-readable law name used in citations.
	Name string `json:"name" yaml:"name"`
}

// DefaultLaw is the Tunisian labor code.
var DefaultLaw = Law{
	Code: "CT_TN_A",
	Name: "Code du travail tunisien",
}

// ID derives the chunk ID for an article number. "5-2" becomes "<code>5_2".
func (l Law) ID(articleNumber string) string {
	return l.Code + strings.ReplaceAll(articleNumber, "-", "_")
}

// Citation formats the citation string for an article number.
func (l Law) Citation(articleNumber string) string {
	return l.Name + ", art. " + articleNumber
}

// Chunk is one article with its structural metadata.
// IDs are not guaranteed unique: a source that repeats an article number
// yields two chunks with the same ID.
type Chunk struct {
	ID       string   `json:"id"`
	Text     string   `json:"text"`
	Metadata Metadata `json:"metadata"`
}

// Metadata carries the hierarchy path of a chunk. Absent levels are nil and
// serialize as JSON null.
type Metadata struct {
	Book          *string `json:"book"`
	Title         *string `json:"title"`
	Chapter       *string `json:"chapter"`
	Section       *string `json:"section"`
	Article       string  `json:"article"`
	ArticleNumber string  `json:"article_number"`
	BaseArticle   string  `json:"base_article"`
	IsSubArticle  bool    `json:"is_sub_article"`
	Law           string  `json:"law"`
	ChunkType     string  `json:"chunk_type"`
	Citation      string  `json:"citation"`
	HierarchyPath string  `json:"hierarchy_path"`
}

// SplitArticleNumber reports the base article and whether number denotes a
// sub-article ("5-2" -> "5", true).
func SplitArticleNumber(number string) (base string, sub bool) {
	base, _, sub = strings.Cut(number, "-")
	return base, sub
}

// StringOrEmpty dereferences an optional level label.
func StringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// FindByID returns every chunk carrying id, in source order.
func FindByID(chunks []Chunk, id string) []Chunk {
	var found []Chunk
	for _, c := range chunks {
		if c.ID == id {
			found = append(found, c)
		}
	}
	return found
}
