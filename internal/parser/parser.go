// Package parser recovers the book/title/chapter/section/article structure
// of a linearized legal code and emits one chunk per article.
package parser

import "github.com/HartBrook/lexchunk/internal/chunk"

// Result is the outcome of one parse call.
type Result struct {
	// Chunks in source order. Never nil.
	Chunks []chunk.Chunk

	Lines         int // normalized lines seen
	Headings      int // structural headings entered
	Articles      int // article lines matched
	Continuations int // wrapped heading titles consumed from the next line
	Discarded     int // lines dropped because no article was active
	EmptyArticles int // articles flushed with no body text
}

// Parser turns normalized text into chunks. A Parser holds only immutable
// configuration and is safe for concurrent use; every call gets its own State.
type Parser struct {
	law      chunk.Law
	matchers []Matcher
}

// Option configures a Parser.
type Option func(*Parser)

// WithLaw sets the law used for chunk IDs, citations, and the law field.
func WithLaw(law chunk.Law) Option {
	return func(p *Parser) {
		p.law = law
	}
}

// WithMatchers replaces the heading matchers. Order is priority order.
func WithMatchers(matchers []Matcher) Option {
	return func(p *Parser) {
		p.matchers = matchers
	}
}

// New creates a Parser for the default law and matchers.
func New(opts ...Option) *Parser {
	p := &Parser{
		law:      chunk.DefaultLaw,
		matchers: DefaultMatchers(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// BodyLines returns the number of lines appended to article bodies.
func (r *Result) BodyLines() int {
	return r.Lines - r.Headings - r.Continuations - r.Articles - r.Discarded
}

// Law returns the law the parser stamps on chunks.
func (p *Parser) Law() chunk.Law {
	return p.law
}

// Parse is shorthand for New().Parse(text).Chunks.
func Parse(text string) []chunk.Chunk {
	return New().Parse(text).Chunks
}

// Parse normalizes text and parses the resulting lines.
func (p *Parser) Parse(text string) *Result {
	return p.parse(NormalizeLines(text))
}

// ParseLines parses pre-split lines. Lines are trimmed and empty ones dropped.
func (p *Parser) ParseLines(lines []string) *Result {
	return p.parse(normalizeSlice(lines))
}

// run is the per-call arena: state, builder, and counters.
type run struct {
	p       *Parser
	state   State
	builder *builder
	result  Result
}

func (p *Parser) parse(lines []string) *Result {
	r := &run{p: p, builder: newBuilder(p.law)}
	r.result.Lines = len(lines)

	cur := newCursor(lines)
	for {
		line, ok := cur.Next()
		if !ok {
			break
		}
		r.step(line, cur)
	}
	r.builder.flush(&r.state)

	r.result.Chunks = r.builder.chunks
	r.result.EmptyArticles = r.builder.emptyArticles
	return &r.result
}

// step classifies one line and applies the matching transition.
func (r *run) step(line string, cur *cursor) {
	m, ok := matchLine(r.p.matchers, line)
	if !ok {
		if r.state.ArticleActive() {
			r.state.AppendBody(line)
		} else {
			r.result.Discarded++
		}
		return
	}

	r.builder.flush(&r.state)

	switch m.Level {
	case LevelArticle:
		r.state.StartArticle(m.Numeral, m.Fragment)
		r.result.Articles++
	default:
		r.enterHeading(m, cur)
	}
}

func (r *run) enterHeading(m Match, cur *cursor) {
	title := m.Fragment
	if title == "" {
		if next, ok := cur.ConsumeIf(r.isContinuation); ok {
			title = next
			r.result.Continuations++
		}
	}
	r.state.EnterHeading(newHeading(m.Level, m.Numeral, title))
	r.result.Headings++
}

// isContinuation reports whether line can be a wrapped heading title: any
// line that is not itself a heading or article.
func (r *run) isContinuation(line string) bool {
	_, isHeading := matchLine(r.p.matchers, line)
	return !isHeading
}
