// block.go implements the block macro handlers.
package man

// handlerFunc parses one macro invocation. col is the 1-based column of
// the macro name; args yields the rest of the line.
type handlerFunc func(p *Parser, tok Macro, line, col int, args *argCursor)

var handlers = [...]handlerFunc{
	HandlerInLine:        inLine,
	HandlerBlockImplicit: blockImplicit,
	HandlerBlockExplicit: blockExplicit,
	HandlerBlockClose:    blockClose,
}

// blockClose ends an explicit block (RE, UE).
func blockClose(p *Parser, tok Macro, line, col int, args *argCursor) {
	var opener Macro
	remaining := 1

	switch tok {
	case MacroRE:
		opener = MacroRS
		la := args.pos
		arg, ok := args.next()
		if !ok {
			break
		}
		for nn := p.last.Parent; nn != nil; nn = nn.Parent {
			if nn.Tok == opener && nn.Type == NodeBlock {
				remaining++
			}
		}
		level, rest := parseLevel(arg)
		if rest != "" {
			p.emit(ExcessArguments, tok, line, la+len(arg)-len(rest)+1, "RE ... %s", rest)
		}
		if level <= 0 {
			level = 1
		}
		remaining -= level
		if remaining < 1 {
			p.emit(NoMatchingOpenScopeAtDepth, tok, line, col, "RE %d", level)
			return
		}
	case MacroUE:
		opener = MacroUR
	default:
		panic("man: blockClose called for " + tok.String())
	}

	var nn *Node
	for nn = p.last.Parent; nn != nil; nn = nn.Parent {
		if nn.Tok == opener && nn.Type == NodeBlock {
			remaining--
			if remaining == 0 {
				break
			}
		}
	}

	if nn == nil {
		p.emit(NoMatchingOpenScope, tok, line, col, "%s", tok)
		p.rewindScope(MacroPP)
		return
	}

	prev := p.last
	line, col, prevTok := prev.Line, prev.Col, prev.Tok
	p.unscope(nn)

	// A paragraph that was just opened at the end of the block moves
	// behind it.
	if prevTok.isParagraph() {
		args.exhaust()
		blockImplicit(p, prevTok, line, col, args)
	}
}

// blockExplicit opens a block that stays open until its closer macro
// (RS, UR). The head takes at most one argument and closes on the same
// line.
func blockExplicit(p *Parser, tok Macro, line, col int, args *argCursor) {
	p.rewindScope(tok)
	p.allocBlock(line, col, tok)
	head := p.allocHead(line, col, tok)

	la := args.pos
	if arg, ok := args.next(); ok {
		p.allocWord(line, la+1, arg)
	}
	if args.more() {
		p.emit(ExcessArguments, tok, line, args.pos+1, "%s ... %s", tok, args.rest())
	}

	p.unscope(head)
	p.allocBody(line, col, tok)
}

// blockImplicit opens a block that the next block macro of equal or
// higher rank closes (SH, SS, TP, LP, PP, P, IP, HP). Every argument
// goes into the head. A scoped macro without arguments, and TP always,
// keeps the head open for the next input line.
func blockImplicit(p *Parser, tok Macro, line, col int, args *argCursor) {
	p.rewindScope(tok)
	p.allocBlock(line, col, tok)
	if tok == MacroSH || tok == MacroSS {
		p.SetLiteral(false)
	}
	head := p.allocHead(line, col, tok)

	for {
		la := args.pos
		arg, ok := args.next()
		if !ok {
			break
		}
		p.allocWord(line, la+1, arg)
	}

	if tok.Flags()&Scoped != 0 && (tok == MacroTP || head == p.last) {
		p.flags |= flagBlockLine
		return
	}

	p.unscope(head)
	p.allocBody(line, col, tok)
}

// parseLevel parses a leading decimal integer the way strtol does and
// returns it with the unparsed remainder.
func parseLevel(s string) (int, string) {
	i := 0
	neg := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}
	start := i
	v := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		if v < 1<<30 {
			v = v*10 + int(s[i]-'0')
		}
		i++
	}
	if i == start {
		return 0, s
	}
	if neg {
		v = -v
	}
	return v, s[i:]
}
