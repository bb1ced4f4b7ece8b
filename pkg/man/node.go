// node.go defines the document tree.
package man

import (
	"strings"
)

// NodeType is the structural kind of a Node.
type NodeType int

const (
	NodeRoot  NodeType = iota // document root
	NodeBlock                 // block of a block macro
	NodeHead                  // head (title/arguments) of a block
	NodeBody                  // body (content) of a block
	NodeElem                  // in-line macro element
	NodeText                  // text
)

var nodeTypeNames = [...]string{"root", "block", "head", "body", "elem", "text"}

func (t NodeType) String() string {
	if t < 0 || int(t) >= len(nodeTypeNames) {
		return "unknown"
	}
	return nodeTypeNames[t]
}

// MarshalText implements encoding.TextMarshaler.
func (t NodeType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// NodeFlags is the status bitset of a Node.
type NodeFlags uint8

const (
	// NodeValid is set once the node's scope is closed and validated.
	NodeValid NodeFlags = 1 << iota
	// NodeEOS marks text ending a sentence.
	NodeEOS
)

func (f NodeFlags) String() string {
	var parts []string
	if f&NodeValid != 0 {
		parts = append(parts, "valid")
	}
	if f&NodeEOS != 0 {
		parts = append(parts, "eos")
	}
	return strings.Join(parts, "|")
}

// MarshalText implements encoding.TextMarshaler.
func (f NodeFlags) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// Node is one entry of the document tree. A node is owned by exactly one
// parent; Block nodes additionally point at their Head and Body children.
type Node struct {
	Tok      Macro     `json:"macro" yaml:"macro"`
	Type     NodeType  `json:"type" yaml:"type"`
	Line     int       `json:"line" yaml:"line"`
	Col      int       `json:"col" yaml:"col"`
	Text     string    `json:"text,omitempty" yaml:"text,omitempty"`
	Flags    NodeFlags `json:"flags,omitempty" yaml:"flags,omitempty"`
	Children []*Node   `json:"children,omitempty" yaml:"children,omitempty"`

	Parent *Node `json:"-" yaml:"-"`
	Head   *Node `json:"-" yaml:"-"`
	Body   *Node `json:"-" yaml:"-"`
}

// Name returns the macro name, or the node type for text and root nodes.
func (n *Node) Name() string {
	if n.Tok == MacroNone {
		return n.Type.String()
	}
	return n.Tok.String()
}

// Valid reports whether the node's scope has been closed and validated.
func (n *Node) Valid() bool {
	return n.Flags&NodeValid != 0
}

// EOS reports whether a text node ends a sentence.
func (n *Node) EOS() bool {
	return n.Flags&NodeEOS != 0
}

// LastChild returns the last child or nil.
func (n *Node) LastChild() *Node {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[len(n.Children)-1]
}

// Prev returns the previous sibling or nil.
func (n *Node) Prev() *Node {
	if n.Parent == nil {
		return nil
	}
	i := n.index()
	if i <= 0 {
		return nil
	}
	return n.Parent.Children[i-1]
}

func (n *Node) index() int {
	for i, c := range n.Parent.Children {
		if c == n {
			return i
		}
	}
	return -1
}

// Walk calls fn for n and every descendant in document order. Returning
// false from fn skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Document is the result of parsing one man page.
type Document struct {
	Root        *Node        `json:"root" yaml:"root"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

// NodeCount returns the number of nodes below the root.
func (d *Document) NodeCount() int {
	count := 0
	d.Root.Walk(func(*Node) bool {
		count++
		return true
	})
	return count - 1
}

// Walk walks the whole tree starting at the root.
func (d *Document) Walk(fn func(*Node) bool) {
	d.Root.Walk(fn)
}
