package parser

import (
	"strings"

	"github.com/HartBrook/lexchunk/internal/chunk"
)

// builder materializes chunks from the state at flush points.
type builder struct {
	law    chunk.Law
	chunks []chunk.Chunk

	emptyArticles int
}

func newBuilder(law chunk.Law) *builder {
	return &builder{law: law, chunks: make([]chunk.Chunk, 0)}
}

// flush emits the active article, if it has any body text, and clears it.
// Ancestor headings are left untouched.
func (b *builder) flush(s *State) {
	if !s.ArticleActive() {
		return
	}
	defer s.clearArticle()

	text := joinBody(s.body)
	if text == "" {
		b.emptyArticles++
		return
	}

	number := s.articleNumber
	base, sub := chunk.SplitArticleNumber(number)

	meta := chunk.Metadata{
		Book:          labelOf(s.Heading(LevelBook)),
		Title:         labelOf(s.Heading(LevelTitle)),
		Chapter:       labelOf(s.Heading(LevelChapter)),
		Section:       labelOf(s.Heading(LevelSection)),
		Article:       s.articleLabel,
		ArticleNumber: number,
		BaseArticle:   base,
		IsSubArticle:  sub,
		Law:           b.law.Name,
		ChunkType:     chunk.ChunkTypeArticle,
		Citation:      b.law.Citation(number),
		HierarchyPath: hierarchyPath(s),
	}

	b.chunks = append(b.chunks, chunk.Chunk{
		ID:       b.law.ID(number),
		Text:     text,
		Metadata: meta,
	})
}

// joinBody joins the non-empty body lines with single spaces, collapsing
// any whitespace runs inside them.
func joinBody(lines []string) string {
	var words []string
	for _, line := range lines {
		words = append(words, strings.Fields(line)...)
	}
	return strings.Join(words, " ")
}

func hierarchyPath(s *State) string {
	parts := make([]string, 0, headingLevels+1)
	for l := LevelBook; l < LevelArticle; l++ {
		if h := s.Heading(l); h != nil {
			parts = append(parts, h.PathSegment())
		}
	}
	parts = append(parts, s.articleLabel)
	return strings.Join(parts, " > ")
}

func labelOf(h *Heading) *string {
	if h == nil {
		return nil
	}
	label := h.Label
	return &label
}
