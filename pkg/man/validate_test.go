package man

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultValidator_FillMode(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantKinds []DiagKind
		wantNodes int
	}{
		{"nf then fi", ".nf\n.fi\n", nil, 2},
		{"EX then EE", ".EX\n.EE\n", nil, 2},
		{"fi alone", ".fi\n", []DiagKind{FillModeUnchanged}, 0},
		{"nf twice", ".nf\n.nf\n", []DiagKind{FillModeUnchanged}, 1},
		{"EE alone", ".EE\n", []DiagKind{FillModeUnchanged}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parse(t, tt.input)
			assert.Equal(t, tt.wantKinds, kindsOf(doc))
			assert.Len(t, doc.Root.Children, tt.wantNodes)
			assertWellFormed(t, doc)
		})
	}
}

func TestDefaultValidator_DeletedElementKeepsCursor(t *testing.T) {
	doc := parse(t, "before\n.fi\nafter\n")

	require.Len(t, doc.Root.Children, 2)
	assert.Equal(t, "before", doc.Root.Children[0].Text)
	assert.Equal(t, "after", doc.Root.Children[1].Text)
}

func TestCustomValidator(t *testing.T) {
	var closed []string
	v := ValidatorFunc(func(ctx ValidationContext, n *Node) {
		closed = append(closed, n.Name()+"/"+n.Type.String())
		if n.Tok == MacroB && n.Type == NodeElem {
			ctx.Report(IgnoredExtraText, n, "no bold")
			ctx.Delete(n)
		}
	})

	doc := parse(t, ".SH A\n.B gone\nkept\n", WithValidator(v))

	body := doc.Root.Children[0].Body
	require.Len(t, body.Children, 1)
	assert.Equal(t, "kept", body.Children[0].Text)
	require.Equal(t, []DiagKind{IgnoredExtraText}, kindsOf(doc))
	assert.Equal(t, "no bold", doc.Diagnostics[0].Context)
	assert.Contains(t, closed, "SH/head")
	assert.Contains(t, closed, "B/elem")
	assert.Contains(t, closed, "root/root")
	assertWellFormed(t, doc)
}

func TestNilValidator(t *testing.T) {
	doc := parse(t, ".fi\n.PP\n", WithValidator(nil))

	require.Len(t, doc.Root.Children, 2)
	assert.Empty(t, doc.Diagnostics)
	assertWellFormed(t, doc)
}

func TestValidator_SetLiteral(t *testing.T) {
	v := ValidatorFunc(func(ctx ValidationContext, n *Node) {
		if n.Tok == MacroTH {
			ctx.SetLiteral(true)
		}
	})

	doc := parse(t, ".TH X 1\n  kept  \n", WithValidator(v))

	require.Len(t, doc.Root.Children, 2)
	assert.Equal(t, "  kept  ", doc.Root.Children[1].Text)
}
