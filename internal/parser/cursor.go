package parser

// cursor walks normalized lines left to right. Every line is returned by
// Next or consumed by ConsumeIf exactly once.
type cursor struct {
	lines []string
	pos   int
}

func newCursor(lines []string) *cursor {
	return &cursor{lines: lines}
}

// Next returns the current line and advances past it.
func (c *cursor) Next() (string, bool) {
	if c.pos >= len(c.lines) {
		return "", false
	}
	line := c.lines[c.pos]
	c.pos++
	return line, true
}

// Peek returns the line Next would return, without advancing.
func (c *cursor) Peek() (string, bool) {
	if c.pos >= len(c.lines) {
		return "", false
	}
	return c.lines[c.pos], true
}

// ConsumeIf advances past the next line only when accept reports true for it.
func (c *cursor) ConsumeIf(accept func(string) bool) (string, bool) {
	line, ok := c.Peek()
	if !ok || !accept(line) {
		return "", false
	}
	c.pos++
	return line, true
}
