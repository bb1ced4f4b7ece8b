// rewind.go closes open scopes.
package man

// unscope closes every open scope from the cursor up to and including
// to. Closing the root means the input has ended: pending next-line
// scopes are then broken and deleted, and explicit blocks that never saw
// their closer are reported but kept.
func (p *Parser) unscope(to *Node) {
	stop := to.Parent
	n := p.last
	for n != nil && n != stop {
		if stop == nil && !n.Valid() {
			if p.flags&(flagBlockLine|flagElemLine) != 0 && n.Tok.Flags()&Scoped != 0 {
				p.emit(ScopeBrokenByEOF, n.Tok, n.Line, n.Col, "EOF breaks %s", n.Tok)
				if p.flags&flagElemLine != 0 {
					p.flags &^= flagElemLine
				} else {
					// The pending head goes away with its block.
					n = n.Parent
					p.flags &^= flagBlockLine
				}
				p.last = n
				n = n.Parent
				p.Delete(p.last)
				continue
			}
			if n.Type == NodeBlock && n.Tok.isExplicitBlock() {
				p.emit(BlockNeverClosed, n.Tok, n.Line, n.Col, "%s", n.Tok)
			}
		}

		// The validator may delete p.last, so take the parent first.
		p.last = n
		n = n.Parent
		p.validate()
	}

	// Ending up at the parent of the target means the target was
	// deleted; the next node then becomes a child of that parent.
	if p.last == stop {
		p.next = nextChild
	} else {
		p.next = nextSibling
	}
}

// rewindScope closes the scopes a new tok macro ends. A section heading
// closes everything up to the root; a subsection heading stops at an
// open section; everything else also stops at an open subsection or
// explicit block.
func (p *Parser) rewindScope(tok Macro) {
	n := p.last

	// An empty paragraph right before RS is kept open.
	if tok == MacroRS && len(n.Children) == 0 && n.Tok.isParagraph() {
		return
	}

	for {
		if n.Type == NodeRoot {
			return
		}
		if n.Valid() {
			n = n.Parent
			continue
		}
		if n.Type != NodeBlock {
			if n.Parent.Type == NodeRoot {
				p.unscope(n)
				return
			}
			n = n.Parent
			continue
		}
		if tok != MacroSH && (n.Tok == MacroSH ||
			(tok != MacroSS && (n.Tok == MacroSS || n.Tok.isExplicitBlock()))) {
			return
		}
		p.unscope(n)
		n = p.last
	}
}
