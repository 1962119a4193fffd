package parser

import (
	"regexp"
	"strings"
)

// Level is a structural level of the code, broadest first.
type Level int

const (
	LevelBook Level = iota
	LevelTitle
	LevelChapter
	LevelSection
	LevelArticle
)

// headingLevels is the number of levels that hold a heading (all but Article).
const headingLevels = int(LevelArticle)

var levelKeywords = [...]string{
	LevelBook:    "Livre",
	LevelTitle:   "Titre",
	LevelChapter: "Chapitre",
	LevelSection: "Section",
	LevelArticle: "Article",
}

var levelNames = [...]string{
	LevelBook:    "book",
	LevelTitle:   "title",
	LevelChapter: "chapter",
	LevelSection: "section",
	LevelArticle: "article",
}

// Keyword returns the canonical keyword used in composed labels.
func (l Level) Keyword() string {
	return levelKeywords[l]
}

func (l Level) String() string {
	if l < LevelBook || l > LevelArticle {
		return "unknown"
	}
	return levelNames[l]
}

// Match is the result of a matcher recognizing a line.
type Match struct {
	Level   Level
	Numeral string
	// Fragment is the rest of the line after the numeral: an inline heading
	// title, or the first body text of an article. May be empty.
	Fragment string
}

// Matcher recognizes the heading of a single level.
type Matcher struct {
	Level   Level
	pattern *regexp.Regexp
}

// NewMatcher builds a matcher from a pattern with a group named "num" that
// captures the numeral and an optional group named "rest" that captures the
// trailing fragment. Alternatives may reuse both names; the group taking
// part in the match is used.
func NewMatcher(level Level, pattern string) Matcher {
	return Matcher{Level: level, pattern: regexp.MustCompile(pattern)}
}

// Match reports whether line is a heading of this matcher's level.
func (m Matcher) Match(line string) (Match, bool) {
	loc := m.pattern.FindStringSubmatchIndex(line)
	if loc == nil {
		return Match{}, false
	}

	match := Match{Level: m.Level}
	var haveNum, haveRest bool
	for i, name := range m.pattern.SubexpNames() {
		start, end := loc[2*i], loc[2*i+1]
		if start < 0 {
			continue
		}
		switch {
		case name == "num" && !haveNum:
			match.Numeral, haveNum = line[start:end], true
		case name == "rest" && !haveRest:
			match.Fragment, haveRest = strings.TrimSpace(line[start:end]), true
		}
	}
	return match, true
}

// separatorTail requires a word or Roman numeral to end at a separator or
// end of line, so "Section civile" is not a heading.
const separatorTail = `(?:[\s.:\-–—]+(?P<rest>.*))?$`

// digitTail lets a digit numeral run straight into text: "12bis" is 12 with
// the fragment "bis".
const digitTail = `[\s.:\-–—]*(?P<rest>.*)$`

// ordinalSuffix is dropped after a digit numeral: "1er", "1ère", "1re".
const ordinalSuffix = `(?:er|ère|re)?`

const bookOrdinals = `PREMIER|DEUXI[EÈÉ]ME|TROISI[EÈÉ]ME|QUATRI[EÈÉ]ME|CINQUI[EÈÉ]ME|` +
	`SIXI[EÈÉ]ME|SEPTI[EÈÉ]ME|HUITI[EÈÉ]ME|NEUVI[EÈÉ]ME|DIXI[EÈÉ]ME`

// DefaultMatchers returns the matchers in priority order: the first one that
// recognizes a line wins.
func DefaultMatchers() []Matcher {
	return []Matcher{
		NewMatcher(LevelBook, `(?i)^LIVRE\s+(?P<num>`+bookOrdinals+`|[IVXLCDM]+)`+separatorTail),
		NewMatcher(LevelTitle, `(?i)^Titre\s+(?P<num>\pL+)`+separatorTail),
		NewMatcher(LevelChapter, `(?i)^Chapitre\s+(?P<num>\pL+)`+separatorTail),
		NewMatcher(LevelSection, `(?i)^Section\s+(?:(?P<num>\d+)`+ordinalSuffix+digitTail+
			`|(?P<num>[IVXLCDM]+)`+separatorTail+`)`),
		NewMatcher(LevelArticle, `(?i)^(?:Art\.|Article)\s*(?P<num>\d+(?:-\d+)?)`+ordinalSuffix+digitTail),
	}
}

// firstMatch applies matchers in order and returns the first match.
func firstMatch(matchers []Matcher, line string) (Match, bool) {
	for _, m := range matchers {
		if match, ok := m.Match(line); ok {
			return match, true
		}
	}
	return Match{}, false
}

// Heading is the state held for an entered structural level.
type Heading struct {
	Level   Level
	Numeral string
	// Label is "<Keyword> <numeral>" or "<Keyword> <numeral>. <title>".
	Label string
}

func newHeading(level Level, numeral, title string) *Heading {
	label := level.Keyword() + " " + numeral
	if title != "" {
		label += ". " + title
	}
	return &Heading{Level: level, Numeral: numeral, Label: label}
}

// PathSegment returns the hierarchy path fragment, "<Keyword> <numeral>".
func (h *Heading) PathSegment() string {
	return h.Level.Keyword() + " " + h.Numeral
}
