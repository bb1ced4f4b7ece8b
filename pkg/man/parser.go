// Package man parses man(7) documents into a tree of block, head, body,
// element and text nodes.
//
// The parser is fed one input line at a time. Macro lines are dispatched
// through the descriptor table to one of four handlers; each handler
// closes the scopes the new macro ends, opens its own nodes and may leave
// a scope pending until the next input line. End closes everything that
// is still open and returns the finished Document.
package man

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// parserFlags hold the state that spans input lines.
type parserFlags uint8

const (
	// flagBlockLine: a block head waits for its arguments on the next line.
	flagBlockLine parserFlags = 1 << iota
	// flagElemLine: an element waits for its arguments on the next line.
	flagElemLine
	// flagLiteral: text lines are kept verbatim (no-fill mode).
	flagLiteral
)

// Parser holds the state of one document parse. It is not safe for
// concurrent use; parse independent documents with independent parsers.
type Parser struct {
	root  *Node
	last  *Node
	next  nextMode
	flags parserFlags

	validator Validator
	sink      DiagnosticSink
	logger    *slog.Logger

	diags []Diagnostic
	doc   *Document
}

// Option configures a Parser.
type Option func(*Parser)

// WithValidator replaces the DefaultValidator. A nil validator disables
// validation beyond marking closed nodes valid.
func WithValidator(v Validator) Option {
	return func(p *Parser) {
		p.validator = v
	}
}

// WithSink forwards every diagnostic to s as it is reported.
func WithSink(s DiagnosticSink) Option {
	return func(p *Parser) {
		p.sink = s
	}
}

// WithLogger sets the logger diagnostics are logged to at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(p *Parser) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewParser creates a parser for one document.
func NewParser(opts ...Option) *Parser {
	root := &Node{Tok: MacroNone, Type: NodeRoot}
	p := &Parser{
		root:      root,
		last:      root,
		next:      nextChild,
		validator: DefaultValidator{},
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse reads a whole document from r.
func Parse(r io.Reader, opts ...Option) (*Document, error) {
	p := NewParser(opts...)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	ln := 0
	for scanner.Scan() {
		ln++
		p.ParseLine(ln, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return p.End(), nil
}

// ParseString parses a whole document held in s.
func ParseString(s string, opts ...Option) (*Document, error) {
	return Parse(strings.NewReader(s), opts...)
}

// ParseLine parses input line number ln. Lines passed after End are
// ignored.
func (p *Parser) ParseLine(ln int, line string) {
	if p.doc != nil {
		return
	}
	line = strings.TrimSuffix(line, "\r")
	if line != "" && (line[0] == '.' || line[0] == '\'') {
		p.parseMacro(ln, line)
		return
	}
	p.parseText(ln, line)
}

// End closes every scope that is still open and returns the document.
// Calling End again returns the same document.
func (p *Parser) End() *Document {
	if p.doc != nil {
		return p.doc
	}
	p.unscope(p.root)
	p.flags &^= flagBlockLine | flagElemLine
	p.doc = &Document{Root: p.root, Diagnostics: p.diags}
	return p.doc
}

// Literal reports whether text lines are currently kept verbatim.
func (p *Parser) Literal() bool {
	return p.flags&flagLiteral != 0
}

// SetLiteral switches no-fill mode on or off.
func (p *Parser) SetLiteral(on bool) {
	if on {
		p.flags |= flagLiteral
	} else {
		p.flags &^= flagLiteral
	}
}

// Report records a diagnostic located at n.
func (p *Parser) Report(kind DiagKind, n *Node, format string, args ...any) {
	p.emit(kind, n.Tok, n.Line, n.Col, format, args...)
}

func (p *Parser) emit(kind DiagKind, tok Macro, line, col int, format string, args ...any) {
	d := Diagnostic{
		Kind:     kind,
		Severity: kind.Severity(),
		Macro:    tok,
		Line:     line,
		Col:      col,
	}
	if format != "" {
		d.Context = fmt.Sprintf(format, args...)
	}
	p.diags = append(p.diags, d)
	if p.sink != nil {
		p.sink.Report(d)
	}
	p.logger.Debug("diagnostic",
		"kind", kind.String(),
		"severity", d.Severity.String(),
		"line", line,
		"col", col,
		"macro", tok.String(),
		"context", d.Context,
	)
}

// validate marks the node at the cursor valid and runs the validator,
// which may delete it.
func (p *Parser) validate() {
	n := p.last
	if n.Flags&NodeValid != 0 {
		return
	}
	n.Flags |= NodeValid
	if p.validator != nil {
		p.validator.ScopeClosed(p, n)
	}
}

func (p *Parser) parseMacro(ln int, line string) {
	offs := 1
	for offs < len(line) && (line[offs] == ' ' || line[offs] == '\t') {
		offs++
	}
	if offs == len(line) || strings.HasPrefix(line[offs:], `\"`) {
		return
	}

	ppos := offs
	for offs < len(line) && line[offs] != ' ' && line[offs] != '\t' {
		offs++
	}
	name := line[ppos:offs]
	tok, ok := Lookup(name)
	if !ok {
		p.emit(UnknownMacro, MacroNone, ln, ppos+1, "%s", line[ppos:])
		return
	}

	if offs < len(line) && line[offs] == '\t' {
		offs++
	}
	if trimmed, warn := trimTrailingBlanks(line); trimmed != line {
		if warn {
			p.emit(TrailingWhitespace, tok, ln, len(line), "")
		}
		line = trimmed
	}

	p.breakScope(tok)
	bline := p.flags&flagBlockLine != 0

	args := newArgCursor(line, min(offs, len(line)))
	args.unterminated = func(pos int) {
		p.emit(UnterminatedQuote, tok, ln, pos+1, "")
	}
	handlers[tok.Descriptor().Handler](p, tok, ln, ppos+1, args)

	// A block head waiting for the next line is satisfied by any macro
	// that neither opens a new element scope nor is allowed in heads.
	if !bline || p.flags&flagElemLine != 0 || tok.Flags()&NonScoped != 0 {
		return
	}
	if p.flags&flagBlockLine == 0 {
		return
	}
	p.flags &^= flagBlockLine
	p.unscope(p.last.Parent)
	p.allocBody(ln, ppos+1, p.last.Tok)
}

func (p *Parser) parseText(ln int, line string) {
	if p.flags&flagLiteral != 0 {
		p.allocWord(ln, 1, line)
		p.descope(ln, 1)
		return
	}

	if strings.TrimLeft(line, " ") == "" {
		// Blank lines are dropped right after section headings and
		// become vertical space elsewhere.
		if p.last.Tok != MacroSH && p.last.Tok != MacroSS {
			p.allocElem(ln, 1, MacroSP)
			p.next = nextSibling
			p.validate()
		}
		return
	}

	text, warn := trimTrailingBlanks(line)
	if warn {
		p.emit(TrailingWhitespace, MacroNone, ln, len(line), "")
	}
	n := p.allocWord(ln, 1, text)
	if endsSentence(text) {
		n.Flags |= NodeEOS
	}
	p.descope(ln, 1)
}

// descope closes the next-line scopes a text line satisfies: first a
// pending element, then a pending block head, which is followed by the
// block body.
func (p *Parser) descope(ln, col int) {
	if p.flags&flagElemLine != 0 {
		p.flags &^= flagElemLine
		p.unscope(p.last.Parent)
	}
	if p.flags&flagBlockLine == 0 {
		return
	}
	p.flags &^= flagBlockLine
	p.unscope(p.last.Parent)
	p.allocBody(ln, col, p.last.Tok)
}

// breakScope ends next-line scopes that tok is not allowed in.
func (p *Parser) breakScope(tok Macro) {
	if p.flags&flagElemLine != 0 && tok.Flags()&NonScoped == 0 {
		n := p.last
		if n.Tok.Flags()&NonScoped != 0 {
			n = n.Parent
		}
		p.emit(ScopeBroken, n.Tok, n.Line, n.Col, "%s breaks %s", tok, n.Tok)
		p.Delete(n)
		p.flags &^= flagElemLine
	}

	// Switching fill mode closes section headings.
	if p.flags&flagBlockLine != 0 && (tok == MacroNF || tok == MacroFI) &&
		(p.last.Tok == MacroSH || p.last.Tok == MacroSS) {
		n := p.last
		p.unscope(n)
		p.allocBody(n.Line, n.Col, n.Tok)
		p.flags &^= flagBlockLine
	}

	if p.flags&flagBlockLine != 0 && tok.Flags()&BlockScope != 0 {
		head := p.last
		for head != nil && head.Type != NodeHead {
			head = head.Parent
		}
		p.flags &^= flagBlockLine
		if head == nil || head.Parent == nil {
			return
		}
		block := head.Parent
		p.emit(ScopeBroken, block.Tok, block.Line, block.Col, "%s breaks %s", tok, block.Tok)
		p.Delete(block)
	}
}

// trimTrailingBlanks strips trailing spaces, keeping one escaped space.
// warn reports whether the line ended in unescaped whitespace.
func trimTrailingBlanks(s string) (string, bool) {
	n := len(s)
	if n == 0 || (s[n-1] != ' ' && s[n-1] != '\t') {
		return s, false
	}
	warn := n > 1 && s[n-2] != '\\'
	i := n
	for i > 0 && s[i-1] == ' ' {
		i--
	}
	if i > 0 && i < n && s[i-1] == '\\' {
		i++
	}
	return s[:i], warn
}
