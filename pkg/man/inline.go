// inline.go implements the in-line macro handler.
package man

// inLine parses a macro whose arguments end with the input line. Scoped
// macros without arguments stay open for the next line.
func inLine(p *Parser, tok Macro, line, col int, args *argCursor) {
	n := p.allocElem(line, col, tok)
	join := tok.Flags()&Join != 0

	for {
		if args.more() && (tok == MacroBR || tok == MacroFI || tok == MacroNF) {
			p.emit(IgnoredExtraText, tok, line, args.pos+1, "%s %s", tok, args.rest())
			break
		}
		if args.more() && p.last != n && (tok == MacroPD || tok == MacroFT || tok == MacroSP) {
			p.emit(ExcessArguments, tok, line, args.pos+1, "%s ... %s", tok, args.rest())
			break
		}
		la := args.pos
		arg, ok := args.next()
		if !ok {
			break
		}
		if join && p.last.Type == NodeText {
			p.appendWord(arg)
		} else {
			p.allocWord(line, la+1, arg)
		}
	}

	// Arguments may end a sentence, as in ".IR syslog (3)."
	if n != p.last && endsSentence(p.last.Text) {
		p.last.Flags |= NodeEOS
	}

	if n == p.last && tok.Flags()&Scoped != 0 {
		if tok.Flags()&NonScoped != 0 {
			panic("man: " + tok.String() + " is both scoped and non-scoped")
		}
		p.flags |= flagElemLine
		return
	}

	p.next = nextSibling
	for ; p.last != nil; p.last = p.last.Parent {
		if p.last == n || p.last.Type == NodeRoot {
			break
		}
		p.validate()
	}
	// The validator may have pruned the element back to the root.
	if p.last.Type != NodeRoot {
		p.validate()
	}
}

// endsSentence reports whether s ends in sentence-ending punctuation,
// possibly followed by closing quotes, parentheses or brackets.
func endsSentence(s string) bool {
	enclosed, found := false, false
	for i := len(s) - 1; i >= 0; i-- {
		switch c := s[i]; c {
		case '"', '\'', ']', ')':
			if !found {
				enclosed = true
			}
		case '.', '!', '?':
			found = true
		default:
			return found && (!enclosed || isAlnum(c))
		}
	}
	return found && !enclosed
}

func isAlnum(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
