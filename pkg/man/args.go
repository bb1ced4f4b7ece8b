// args.go splits macro lines into arguments.
package man

import "strings"

// argCursor pulls whitespace-delimited arguments from one macro line.
// Double quotes group an argument, and a doubled quote inside a quoted
// argument stands for one quote. A backslash keeps the following byte in
// the current argument; escape sequences are otherwise left untouched.
type argCursor struct {
	buf string
	pos int

	// unterminated is called with the byte offset of a quoted argument
	// that runs to the end of the line.
	unterminated func(pos int)
}

func newArgCursor(buf string, pos int) *argCursor {
	c := &argCursor{buf: buf, pos: pos}
	c.skipSpace()
	return c
}

// more reports whether unconsumed text remains.
func (c *argCursor) more() bool {
	return c.pos < len(c.buf)
}

// rest returns the unconsumed text.
func (c *argCursor) rest() string {
	return c.buf[c.pos:]
}

// exhaust discards the unconsumed text.
func (c *argCursor) exhaust() {
	c.pos = len(c.buf)
}

// next returns the next argument, or false when the line is exhausted.
func (c *argCursor) next() (string, bool) {
	if !c.more() {
		return "", false
	}
	var arg string
	if c.buf[c.pos] == '"' {
		arg = c.quoted()
	} else {
		arg = c.plain()
	}
	c.skipSpace()
	return arg, true
}

func (c *argCursor) plain() string {
	start := c.pos
	for c.pos < len(c.buf) {
		switch c.buf[c.pos] {
		case '\\':
			c.pos += 2
			if c.pos > len(c.buf) {
				c.pos = len(c.buf)
			}
			continue
		case ' ':
			return c.buf[start:c.pos]
		}
		c.pos++
	}
	return c.buf[start:]
}

func (c *argCursor) quoted() string {
	start := c.pos
	c.pos++
	var sb strings.Builder
	for c.pos < len(c.buf) {
		ch := c.buf[c.pos]
		if ch == '"' {
			if c.pos+1 < len(c.buf) && c.buf[c.pos+1] == '"' {
				sb.WriteByte('"')
				c.pos += 2
				continue
			}
			c.pos++
			return sb.String()
		}
		if ch == '\\' && c.pos+1 < len(c.buf) {
			sb.WriteString(c.buf[c.pos : c.pos+2])
			c.pos += 2
			continue
		}
		sb.WriteByte(ch)
		c.pos++
	}
	if c.unterminated != nil {
		c.unterminated(start)
	}
	return sb.String()
}

func (c *argCursor) skipSpace() {
	for c.pos < len(c.buf) && c.buf[c.pos] == ' ' {
		c.pos++
	}
}
