// tree.go implements node allocation and deletion at the parser cursor.
package man

import "slices"

// nextMode says where the next allocated node attaches relative to
// Parser.last.
type nextMode int

const (
	nextChild nextMode = iota
	nextSibling
)

func (m nextMode) String() string {
	if m == nextSibling {
		return "sibling"
	}
	return "child"
}

// appendNode links n at the insertion point and makes it the cursor.
func (p *Parser) appendNode(n *Node) {
	var parent *Node
	pos := -1
	switch p.next {
	case nextSibling:
		parent = p.last.Parent
		pos = p.last.index() + 1
	case nextChild:
		parent = p.last
	}
	n.Parent = parent
	if pos < 0 || pos >= len(parent.Children) {
		parent.Children = append(parent.Children, n)
	} else {
		parent.Children = slices.Insert(parent.Children, pos, n)
	}

	switch n.Type {
	case NodeHead:
		parent.Head = n
	case NodeBody:
		parent.Body = n
	}
	p.last = n
}

func (p *Parser) newNode(typ NodeType, tok Macro, line, col int) *Node {
	return &Node{Tok: tok, Type: typ, Line: line, Col: col}
}

func (p *Parser) allocScope(typ NodeType, tok Macro, line, col int) *Node {
	n := p.newNode(typ, tok, line, col)
	p.appendNode(n)
	p.next = nextChild
	return n
}

func (p *Parser) allocBlock(line, col int, tok Macro) *Node {
	return p.allocScope(NodeBlock, tok, line, col)
}

func (p *Parser) allocHead(line, col int, tok Macro) *Node {
	return p.allocScope(NodeHead, tok, line, col)
}

func (p *Parser) allocBody(line, col int, tok Macro) *Node {
	return p.allocScope(NodeBody, tok, line, col)
}

func (p *Parser) allocElem(line, col int, tok Macro) *Node {
	return p.allocScope(NodeElem, tok, line, col)
}

// allocWord adds a text node. Text has no scope of its own, so it is
// valid from the start.
func (p *Parser) allocWord(line, col int, word string) *Node {
	n := p.newNode(NodeText, MacroNone, line, col)
	n.Text = word
	n.Flags |= NodeValid
	p.appendNode(n)
	p.next = nextSibling
	return n
}

// appendWord joins word to the text node at the cursor.
func (p *Parser) appendWord(word string) {
	p.last.Text += " " + word
	p.next = nextSibling
}

// Delete removes n and all its descendants from the tree. If the cursor
// points into the removed subtree it moves to the previous sibling of n,
// or to its parent when n has none.
func (p *Parser) Delete(n *Node) {
	parent := n.Parent
	if parent == nil {
		return
	}
	if p.within(n) {
		if prev := n.Prev(); prev != nil {
			p.last = prev
			p.next = nextSibling
		} else {
			p.last = parent
			p.next = nextChild
		}
	}
	if i := n.index(); i >= 0 {
		parent.Children = slices.Delete(parent.Children, i, i+1)
	}
	if parent.Head == n {
		parent.Head = nil
	}
	if parent.Body == n {
		parent.Body = nil
	}
	n.Parent = nil
}

// within reports whether the cursor is n or one of its descendants.
func (p *Parser) within(n *Node) bool {
	for c := p.last; c != nil; c = c.Parent {
		if c == n {
			return true
		}
	}
	return false
}
