// validate.go defines the hook that runs whenever a scope closes.
package man

// ValidationContext is the part of the parser a Validator may use.
type ValidationContext interface {
	// Delete removes a node and its subtree; the parser cursor is moved
	// out of the removed subtree.
	Delete(n *Node)
	// Report records a diagnostic located at n.
	Report(kind DiagKind, n *Node, format string, args ...any)
	Literal() bool
	SetLiteral(on bool)
}

// Validator checks a node right after its scope closed. The node is
// already marked valid. ScopeClosed may delete n.
type Validator interface {
	ScopeClosed(ctx ValidationContext, n *Node)
}

// ValidatorFunc adapts a function to a Validator.
type ValidatorFunc func(ctx ValidationContext, n *Node)

// ScopeClosed calls f(ctx, n).
func (f ValidatorFunc) ScopeClosed(ctx ValidationContext, n *Node) { f(ctx, n) }

// DefaultValidator switches no-fill mode on nf/EX and fill mode on fi/EE,
// and drops paragraphs that end up without content.
type DefaultValidator struct{}

// ScopeClosed implements Validator.
func (DefaultValidator) ScopeClosed(ctx ValidationContext, n *Node) {
	switch n.Tok {
	case MacroNF, MacroEX:
		if n.Type == NodeElem {
			setFill(ctx, n, true)
		}
	case MacroFI, MacroEE:
		if n.Type == NodeElem {
			setFill(ctx, n, false)
		}
	case MacroLP, MacroPP, MacroP:
		checkParagraph(ctx, n)
	}
}

func setFill(ctx ValidationContext, n *Node, literal bool) {
	if ctx.Literal() == literal {
		ctx.Report(FillModeUnchanged, n, "%s", n.Tok)
		ctx.Delete(n)
		return
	}
	ctx.SetLiteral(literal)
}

func checkParagraph(ctx ValidationContext, n *Node) {
	switch n.Type {
	case NodeBlock:
		if n.Body == nil || len(n.Body.Children) == 0 {
			ctx.Delete(n)
		}
	case NodeBody:
		if len(n.Children) == 0 {
			ctx.Report(EmptyParagraph, n, "%s empty", n.Tok)
		}
	case NodeHead:
		if len(n.Children) > 0 {
			ctx.Report(IgnoredExtraText, n, "%s %s", n.Tok, n.Children[0].Text)
		}
	}
}
