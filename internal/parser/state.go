package parser

// State is the hierarchy context of a single parse call. It is created fresh
// for every call and never shared.
type State struct {
	headings [headingLevels]*Heading

	articleNumber string
	articleLabel  string
	body          []string
}

// Heading returns the active heading at level, or nil when absent.
func (s *State) Heading(level Level) *Heading {
	if level < LevelBook || int(level) >= headingLevels {
		return nil
	}
	return s.headings[level]
}

// EnterHeading sets the heading of its level and clears every level below
// it, including the active article. Ancestors are preserved.
func (s *State) EnterHeading(h *Heading) {
	s.headings[h.Level] = h
	s.clearBelow(h.Level)
}

func (s *State) clearBelow(level Level) {
	for l := int(level) + 1; l < headingLevels; l++ {
		s.headings[l] = nil
	}
	s.clearArticle()
}

// StartArticle makes number the active article, seeding its body with the
// inline fragment when there is one.
func (s *State) StartArticle(number, fragment string) {
	s.articleNumber = number
	s.articleLabel = LevelArticle.Keyword() + " " + number
	s.body = s.body[:0]
	if fragment != "" {
		s.body = append(s.body, fragment)
	}
}

// ArticleActive reports whether an article is collecting body lines.
func (s *State) ArticleActive() bool {
	return s.articleNumber != ""
}

// AppendBody adds a line to the active article.
func (s *State) AppendBody(line string) {
	s.body = append(s.body, line)
}

func (s *State) clearArticle() {
	s.articleNumber = ""
	s.articleLabel = ""
	s.body = s.body[:0]
}
