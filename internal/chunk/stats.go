package chunk

// Statistics summarizes a chunk set.
type Statistics struct {
	TotalChunks   int `json:"total_chunks"`
	TotalArticles int `json:"total_articles"` // always TotalChunks: one chunk per article
	BaseArticles  int `json:"base_articles"`
	SubArticles   int `json:"sub_articles"`
	Books         int `json:"books"`
	Titles        int `json:"titles"`
	Chapters      int `json:"chapters"`
	Sections      int `json:"sections"`
	TotalTokens   int `json:"total_tokens"`
	MaxTokens     int `json:"max_tokens"`
}

// ComputeStatistics counts chunks by kind and the distinct level labels
// observed across them.
func ComputeStatistics(chunks []Chunk) Statistics {
	stats := Statistics{
		TotalChunks:   len(chunks),
		TotalArticles: len(chunks),
	}

	books := make(map[string]struct{})
	titles := make(map[string]struct{})
	chapters := make(map[string]struct{})
	sections := make(map[string]struct{})

	for _, c := range chunks {
		meta := c.Metadata
		if meta.IsSubArticle {
			stats.SubArticles++
		} else {
			stats.BaseArticles++
		}

		addLabel(books, meta.Book)
		addLabel(titles, meta.Title)
		addLabel(chapters, meta.Chapter)
		addLabel(sections, meta.Section)

		tokens := EstimateTokens(c.Text)
		stats.TotalTokens += tokens
		if tokens > stats.MaxTokens {
			stats.MaxTokens = tokens
		}
	}

	stats.Books = len(books)
	stats.Titles = len(titles)
	stats.Chapters = len(chapters)
	stats.Sections = len(sections)
	return stats
}

func addLabel(set map[string]struct{}, label *string) {
	if label == nil || *label == "" {
		return
	}
	set[*label] = struct{}{}
}
