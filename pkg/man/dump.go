// dump.go writes a human-readable outline of a tree.
package man

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Fprint writes the subtree rooted at n, one node per line, indented by
// depth. Text nodes are quoted; flags other than valid are appended.
func Fprint(w io.Writer, n *Node) error {
	return fprint(w, n, 0)
}

func fprint(w io.Writer, n *Node, depth int) error {
	var sb strings.Builder
	sb.WriteString(strings.Repeat("  ", depth))
	if n.Type == NodeText {
		sb.WriteString(strconv.Quote(n.Text))
	} else {
		sb.WriteString(n.Name())
	}
	fmt.Fprintf(&sb, " (%s)", n.Type)
	if n.Type != NodeRoot {
		fmt.Fprintf(&sb, " %d:%d", n.Line, n.Col)
	}
	if n.EOS() {
		sb.WriteString(" eos")
	}
	if n.Type != NodeText && !n.Valid() {
		sb.WriteString(" open")
	}
	sb.WriteByte('\n')
	if _, err := io.WriteString(w, sb.String()); err != nil {
		return err
	}
	for _, c := range n.Children {
		if err := fprint(w, c, depth+1); err != nil {
			return err
		}
	}
	return nil
}
