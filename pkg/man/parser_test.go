package man

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, input string, opts ...Option) *Document {
	t.Helper()
	doc, err := ParseString(input, opts...)
	require.NoError(t, err)
	return doc
}

func kindsOf(doc *Document) []DiagKind {
	var kinds []DiagKind
	for _, d := range doc.Diagnostics {
		kinds = append(kinds, d.Kind)
	}
	return kinds
}

// assertWellFormed checks the structural invariants every finished tree
// must satisfy.
func assertWellFormed(t *testing.T, doc *Document) {
	t.Helper()
	doc.Walk(func(n *Node) bool {
		for _, c := range n.Children {
			assert.Same(t, n, c.Parent, "parent link of %s under %s", c.Name(), n.Name())
		}
		if n.Type != NodeText {
			assert.True(t, n.Valid(), "%s (%s) at %d:%d left open", n.Name(), n.Type, n.Line, n.Col)
		}
		if n.Type == NodeBlock {
			heads, bodies := 0, 0
			for i, c := range n.Children {
				switch c.Type {
				case NodeHead:
					heads++
					assert.Equal(t, 0, i, "head of %s must come first", n.Name())
				case NodeBody:
					bodies++
				default:
					t.Errorf("block %s has a %s child", n.Name(), c.Type)
				}
			}
			assert.LessOrEqual(t, heads, 1)
			assert.LessOrEqual(t, bodies, 1)
		}
		return true
	})
}

func texts(n *Node) []string {
	var out []string
	for _, c := range n.Children {
		if c.Type == NodeText {
			out = append(out, c.Text)
		}
	}
	return out
}

func TestParse_SectionsAtRoot(t *testing.T) {
	doc := parse(t, ".SH NAME\nfoo\n.SH DESCRIPTION\n")

	require.Len(t, doc.Root.Children, 2)
	first, second := doc.Root.Children[0], doc.Root.Children[1]

	assert.Equal(t, MacroSH, first.Tok)
	assert.Equal(t, NodeBlock, first.Type)
	require.NotNil(t, first.Head)
	require.NotNil(t, first.Body)
	assert.Equal(t, []string{"NAME"}, texts(first.Head))
	assert.Equal(t, []string{"foo"}, texts(first.Body))

	assert.Equal(t, MacroSH, second.Tok)
	assert.Equal(t, []string{"DESCRIPTION"}, texts(second.Head))
	require.NotNil(t, second.Body)

	assert.NotContains(t, kindsOf(doc), BlockNeverClosed)
	assert.Empty(t, doc.Diagnostics)
	assertWellFormed(t, doc)
}

func TestParse_UnclosedIndentBlock(t *testing.T) {
	doc := parse(t, ".RS\ntext\n")

	require.Len(t, doc.Root.Children, 1)
	block := doc.Root.Children[0]
	assert.Equal(t, MacroRS, block.Tok)
	assert.Equal(t, NodeBlock, block.Type)
	require.NotNil(t, block.Body)
	assert.Equal(t, []string{"text"}, texts(block.Body))

	assert.Equal(t, []DiagKind{BlockNeverClosed}, kindsOf(doc))
	assertWellFormed(t, doc)
}

func TestParse_EmptyURLBlock(t *testing.T) {
	doc := parse(t, ".UR http://example\n.UE\n")

	require.Len(t, doc.Root.Children, 1)
	block := doc.Root.Children[0]
	assert.Equal(t, MacroUR, block.Tok)
	assert.Equal(t, []string{"http://example"}, texts(block.Head))
	require.NotNil(t, block.Body)
	assert.Empty(t, block.Body.Children)
	assert.Empty(t, doc.Diagnostics)
	assertWellFormed(t, doc)
}

func TestParse_NextLineBlockHead(t *testing.T) {
	doc := parse(t, ".SH\nNAME\nfoo\n")

	require.Len(t, doc.Root.Children, 1)
	sh := doc.Root.Children[0]
	assert.Equal(t, []string{"NAME"}, texts(sh.Head))
	assert.Equal(t, []string{"foo"}, texts(sh.Body))
	assert.Empty(t, doc.Diagnostics)
	assertWellFormed(t, doc)
}

func TestParse_TaggedParagraph(t *testing.T) {
	doc := parse(t, ".TP\ntag\ndescription\n")

	require.Len(t, doc.Root.Children, 1)
	tp := doc.Root.Children[0]
	assert.Equal(t, MacroTP, tp.Tok)
	assert.Equal(t, []string{"tag"}, texts(tp.Head))
	assert.Equal(t, []string{"description"}, texts(tp.Body))
	assertWellFormed(t, doc)
}

func TestParse_TaggedParagraphKeepsHeadOpenWithArguments(t *testing.T) {
	doc := parse(t, ".TP 4\ntag\ndescription\n")

	tp := doc.Root.Children[0]
	assert.Equal(t, []string{"4", "tag"}, texts(tp.Head))
	assert.Equal(t, []string{"description"}, texts(tp.Body))
}

func TestParse_InLineMacroInBlockHead(t *testing.T) {
	doc := parse(t, ".TP\n.B tag\ndescription\n")

	tp := doc.Root.Children[0]
	require.Len(t, tp.Head.Children, 1)
	elem := tp.Head.Children[0]
	assert.Equal(t, MacroB, elem.Tok)
	assert.Equal(t, NodeElem, elem.Type)
	assert.Equal(t, []string{"tag"}, texts(elem))
	assert.Equal(t, []string{"description"}, texts(tp.Body))
	assert.Empty(t, doc.Diagnostics)
	assertWellFormed(t, doc)
}

func TestParse_NonScopedMacroKeepsHeadOpen(t *testing.T) {
	doc := parse(t, ".TP\n.br\ntag\nbody\n")

	tp := doc.Root.Children[0]
	require.Len(t, tp.Head.Children, 2)
	assert.Equal(t, MacroBR, tp.Head.Children[0].Tok)
	assert.Equal(t, "tag", tp.Head.Children[1].Text)
	assert.Equal(t, []string{"body"}, texts(tp.Body))
}

func TestParse_NextLineElement(t *testing.T) {
	doc := parse(t, ".B\nbold text\nplain\n")

	require.Len(t, doc.Root.Children, 2)
	elem := doc.Root.Children[0]
	assert.Equal(t, MacroB, elem.Tok)
	assert.Equal(t, []string{"bold text"}, texts(elem))
	assert.Equal(t, "plain", doc.Root.Children[1].Text)
	assert.Empty(t, doc.Diagnostics)
	assertWellFormed(t, doc)
}

func TestParse_EndOfInputBreaksElementScope(t *testing.T) {
	doc := parse(t, ".SH A\n.B\n")

	require.Len(t, doc.Root.Children, 1)
	sh := doc.Root.Children[0]
	assert.Empty(t, sh.Body.Children)
	assert.Equal(t, []DiagKind{ScopeBrokenByEOF}, kindsOf(doc))
	assert.Equal(t, MacroB, doc.Diagnostics[0].Macro)
	assertWellFormed(t, doc)
}

func TestParse_EndOfInputBreaksBlockHead(t *testing.T) {
	doc := parse(t, ".SH\n")

	assert.Empty(t, doc.Root.Children)
	assert.Equal(t, []DiagKind{ScopeBrokenByEOF}, kindsOf(doc))
	assertWellFormed(t, doc)
}

func TestParse_EndOfInputBreaksBothScopes(t *testing.T) {
	p := NewParser()
	p.ParseLine(1, ".TP")
	p.ParseLine(2, ".B")
	doc := p.End()

	assert.Empty(t, doc.Root.Children)
	assert.Equal(t, []DiagKind{ScopeBrokenByEOF, ScopeBrokenByEOF}, kindsOf(doc))
	assert.Zero(t, p.flags&(flagBlockLine|flagElemLine))
	assertWellFormed(t, doc)
}

func TestParse_MacroBreaksElementScope(t *testing.T) {
	doc := parse(t, ".B\n.SH A\n")

	require.Len(t, doc.Root.Children, 1)
	assert.Equal(t, MacroSH, doc.Root.Children[0].Tok)
	require.Equal(t, []DiagKind{ScopeBroken}, kindsOf(doc))
	assert.Equal(t, "SH breaks B", doc.Diagnostics[0].Context)
	assertWellFormed(t, doc)
}

func TestParse_NonScopedMacroInsideElementScope(t *testing.T) {
	doc := parse(t, ".B\n.br\nword\n")

	require.Len(t, doc.Root.Children, 1)
	elem := doc.Root.Children[0]
	require.Len(t, elem.Children, 2)
	assert.Equal(t, MacroBR, elem.Children[0].Tok)
	assert.Equal(t, "word", elem.Children[1].Text)
	assert.Empty(t, doc.Diagnostics)
}

func TestParse_MacroBreaksBlockHead(t *testing.T) {
	doc := parse(t, ".SH\n.PP\ntext\n")

	require.Len(t, doc.Root.Children, 1)
	pp := doc.Root.Children[0]
	assert.Equal(t, MacroPP, pp.Tok)
	assert.Equal(t, []string{"text"}, texts(pp.Body))
	require.Equal(t, []DiagKind{ScopeBroken}, kindsOf(doc))
	assert.Equal(t, "PP breaks SH", doc.Diagnostics[0].Context)
	assertWellFormed(t, doc)
}

func TestParse_FillModeClosesSectionHead(t *testing.T) {
	doc := parse(t, ".SH\n.nf\ncode  here\n")

	require.Len(t, doc.Root.Children, 1)
	sh := doc.Root.Children[0]
	assert.Empty(t, sh.Head.Children)
	require.Len(t, sh.Body.Children, 2)
	assert.Equal(t, MacroNF, sh.Body.Children[0].Tok)
	assert.Equal(t, "code  here", sh.Body.Children[1].Text)
	assert.Empty(t, doc.Diagnostics)
}

func TestParse_LiteralMode(t *testing.T) {
	p := NewParser()
	p.ParseLine(1, ".nf")
	assert.True(t, p.Literal())
	p.ParseLine(2, "  indented  ")
	p.ParseLine(3, ".fi")
	assert.False(t, p.Literal())
	doc := p.End()

	require.Len(t, doc.Root.Children, 3)
	assert.Equal(t, "  indented  ", doc.Root.Children[1].Text)
	assert.Empty(t, doc.Diagnostics)
}

func TestParse_SectionClearsLiteralMode(t *testing.T) {
	p := NewParser()
	p.ParseLine(1, ".EX")
	require.True(t, p.Literal())
	p.ParseLine(2, ".SH A")
	assert.False(t, p.Literal())
	p.ParseLine(3, "text  ")
	doc := p.End()

	sh := doc.Root.Children[1]
	assert.Equal(t, []string{"text"}, texts(sh.Body))
	assert.Equal(t, []DiagKind{TrailingWhitespace}, kindsOf(doc))
}

func TestParse_BlankLines(t *testing.T) {
	t.Run("between text", func(t *testing.T) {
		doc := parse(t, "text\n\nmore\n")
		require.Len(t, doc.Root.Children, 3)
		assert.Equal(t, MacroSP, doc.Root.Children[1].Tok)
		assert.Equal(t, NodeElem, doc.Root.Children[1].Type)
		assertWellFormed(t, doc)
	})

	t.Run("after heading", func(t *testing.T) {
		doc := parse(t, ".SH A\n\ntext\n")
		sh := doc.Root.Children[0]
		require.Len(t, sh.Body.Children, 1)
		assert.Equal(t, "text", sh.Body.Children[0].Text)
	})
}

func TestParse_TextEndOfSentence(t *testing.T) {
	doc := parse(t, "Hello world.\nno stop\n")

	require.Len(t, doc.Root.Children, 2)
	assert.True(t, doc.Root.Children[0].EOS())
	assert.False(t, doc.Root.Children[1].EOS())
}

func TestParse_UnknownMacro(t *testing.T) {
	doc := parse(t, ".XX foo\n")

	assert.Empty(t, doc.Root.Children)
	require.Equal(t, []DiagKind{UnknownMacro}, kindsOf(doc))
	assert.Equal(t, "XX foo", doc.Diagnostics[0].Context)
	assert.Equal(t, SeverityError, doc.Diagnostics[0].Severity)
}

func TestParse_CommentsAndEmptyRequests(t *testing.T) {
	doc := parse(t, ".\\\" a comment\n.\n'\\\" another\n")

	assert.Empty(t, doc.Root.Children)
	assert.Empty(t, doc.Diagnostics)
}

func TestParse_QuotedArguments(t *testing.T) {
	doc := parse(t, ".SH \"SEE ALSO\"\n")
	assert.Equal(t, []string{"SEE ALSO"}, texts(doc.Root.Children[0].Head))
	assert.Empty(t, doc.Diagnostics)

	doc = parse(t, ".SH \"SEE ALSO\n")
	assert.Equal(t, []string{"SEE ALSO"}, texts(doc.Root.Children[0].Head))
	assert.Equal(t, []DiagKind{UnterminatedQuote}, kindsOf(doc))
}

func TestParse_MacroTrailingWhitespace(t *testing.T) {
	doc := parse(t, ".SH NAME  \n")

	assert.Equal(t, []string{"NAME"}, texts(doc.Root.Children[0].Head))
	assert.Equal(t, []DiagKind{TrailingWhitespace}, kindsOf(doc))
}

func TestParse_Columns(t *testing.T) {
	doc := parse(t, ". SH NAME\n")

	sh := doc.Root.Children[0]
	assert.Equal(t, 1, sh.Line)
	assert.Equal(t, 3, sh.Col)
	word := sh.Head.Children[0]
	assert.Equal(t, 6, word.Col)
}

func TestParser_EndIsIdempotent(t *testing.T) {
	p := NewParser()
	p.ParseLine(1, ".RS")
	doc := p.End()
	again := p.End()
	assert.Same(t, doc, again)
	assert.Len(t, doc.Diagnostics, 1)

	p.ParseLine(2, "ignored")
	assert.Len(t, doc.Root.Children, 1)
	assert.Empty(t, doc.Root.Children[0].Body.Children)
}

func TestParser_SinkReceivesDiagnostics(t *testing.T) {
	var got []Diagnostic
	doc := parse(t, ".RE\n.XX\n", WithSink(SinkFunc(func(d Diagnostic) {
		got = append(got, d)
	})))

	assert.Equal(t, doc.Diagnostics, got)
	assert.Len(t, got, 2)
}

func TestParser_LogsDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	parse(t, ".br extra\n", WithLogger(logger))

	out := buf.String()
	assert.Contains(t, out, "kind=ignored-extra-text")
	assert.Contains(t, out, "macro=br")
}

func TestNewParser_DiscardsLogsByDefault(t *testing.T) {
	for _, p := range []*Parser{NewParser(), NewParser(WithLogger(nil))} {
		assert.False(t, p.logger.Enabled(context.Background(), slog.LevelError))
		assert.NotPanics(t, func() {
			p.ParseLine(1, ".br extra")
			p.End()
		})
	}
}

func TestParse_CRLF(t *testing.T) {
	doc := parse(t, ".SH NAME\r\nfoo\r\n")

	sh := doc.Root.Children[0]
	assert.Equal(t, []string{"NAME"}, texts(sh.Head))
	assert.Equal(t, []string{"foo"}, texts(sh.Body))
	assert.Empty(t, doc.Diagnostics)
}

func TestDocument_JSON(t *testing.T) {
	doc := parse(t, ".SH NAME\nfoo.\n.RS\n")

	data, err := json.Marshal(doc)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, `"macro":"SH"`)
	assert.Contains(t, out, `"type":"block"`)
	assert.Contains(t, out, `"flags":"valid|eos"`)
	assert.Contains(t, out, `"kind":"block-never-closed"`)
}

func TestDocument_NodeCount(t *testing.T) {
	doc := parse(t, ".SH NAME\nfoo\n")
	// block, head, "NAME", body, "foo"
	assert.Equal(t, 5, doc.NodeCount())

	doc = parse(t, "")
	assert.Equal(t, 0, doc.NodeCount())
}

func TestParse_WellFormedOnMalformedInput(t *testing.T) {
	inputs := []string{
		".RE\n.UE\n.RE 3\n",
		".SH\n.SS\n.TP\n",
		".B\n.I\n.SM\n",
		".RS\n.RS\n.UR x\n.PP\n.SS x\n",
		".TP\n.TP\n.B\n",
		".UR\n.RS\n.UE\n.RE\n.RE\n",
		".PP\n.RS\n.PP\n.RE\n.RE\n",
		".nf\n.nf\n.fi\n.fi\n.EX\n.SH\n",
		".SH\n.nf\n.SS\n\n\n",
		".TH A 1\n.SH NAME\n.B\n.br\n.sp 1 2\n",
		strings.Repeat(".RS\n", 5) + ".RE 2\n" + ".RE 0\n",
	}

	for _, input := range inputs {
		t.Run(strings.ReplaceAll(input, "\n", " "), func(t *testing.T) {
			p := NewParser()
			for i, line := range strings.Split(strings.TrimSuffix(input, "\n"), "\n") {
				p.ParseLine(i+1, line)
			}
			doc := p.End()
			assert.Zero(t, p.flags&(flagBlockLine|flagElemLine))
			assertWellFormed(t, doc)
		})
	}
}

func TestTrimTrailingBlanks(t *testing.T) {
	tests := []struct {
		input    string
		want     string
		wantWarn bool
	}{
		{"text", "text", false},
		{"text  ", "text", true},
		{"text\t", "text\t", true},
		{`text\ `, `text\ `, false},
		{`text\  `, `text\ `, true},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, warn := trimTrailingBlanks(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantWarn, warn)
		})
	}
}
