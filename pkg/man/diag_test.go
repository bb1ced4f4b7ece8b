package man

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		input   string
		want    Severity
		wantErr bool
	}{
		{"", SeverityWarning, false},
		{"warning", SeverityWarning, false},
		{"WARN", SeverityWarning, false},
		{"error", SeverityError, false},
		{"fatal", SeverityWarning, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSeverity(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "invalid severity")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDiagKind_Table(t *testing.T) {
	for k := DiagKind(0); k < diagKindCount; k++ {
		assert.NotEqual(t, "unknown", k.String())
		assert.NotEmpty(t, k.Summary())
	}
	assert.Equal(t, "unknown", DiagKind(-1).String())
	assert.Equal(t, SeverityError, UnknownMacro.Severity())
	assert.Equal(t, SeverityWarning, BlockNeverClosed.Severity())
}

func TestDiagnostic_String(t *testing.T) {
	d := Diagnostic{
		Kind:     ScopeBroken,
		Severity: ScopeBroken.Severity(),
		Macro:    MacroB,
		Line:     3,
		Col:      2,
		Context:  "SH breaks B",
	}
	assert.Equal(t, "3:2: warning: line scope broken: SH breaks B", d.String())

	d.Context = ""
	assert.Equal(t, "line scope broken", d.Message())
}

func TestFilterSeverity(t *testing.T) {
	doc := parse(t, ".RS\n.XX\n")
	require.Len(t, doc.Diagnostics, 2)

	errs := FilterSeverity(doc.Diagnostics, SeverityError)
	require.Len(t, errs, 1)
	assert.Equal(t, UnknownMacro, errs[0].Kind)

	assert.Len(t, FilterSeverity(doc.Diagnostics, SeverityWarning), 2)
}

func TestCountKinds(t *testing.T) {
	doc := parse(t, ".RE\n.RE\n.XX\n")

	counts := CountKinds(doc.Diagnostics)
	assert.Equal(t, 2, counts[NoMatchingOpenScope])
	assert.Equal(t, 1, counts[UnknownMacro])
}
