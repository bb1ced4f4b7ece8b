// macro.go defines the macro descriptor table.
package man

import "strings"

// Macro identifies a man(7) macro.
type Macro int

// Macros in table order. MacroNone marks text and root nodes.
const (
	MacroBR Macro = iota // br
	MacroTH              // TH
	MacroSH              // SH
	MacroSS              // SS
	MacroTP              // TP
	MacroLP              // LP
	MacroPP              // PP
	MacroP               // P
	MacroIP              // IP
	MacroHP              // HP
	MacroSM              // SM
	MacroSB              // SB
	MacroBI              // BI
	MacroIB              // IB
	MacroBRoman          // BR
	MacroRB              // RB
	MacroR               // R
	MacroB               // B
	MacroI               // I
	MacroIR              // IR
	MacroRI              // RI
	MacroSP              // sp
	MacroNF              // nf
	MacroFI              // fi
	MacroRE              // RE
	MacroRS              // RS
	MacroDT              // DT
	MacroUC              // UC
	MacroPD              // PD
	MacroAT              // AT
	MacroIN              // in
	MacroFT              // ft
	MacroOP              // OP
	MacroEX              // EX
	MacroEE              // EE
	MacroUR              // UR
	MacroUE              // UE
	MacroLL              // ll

	macroCount

	MacroNone Macro = -1
)

var macroNames = [macroCount]string{
	"br", "TH", "SH", "SS", "TP", "LP", "PP", "P", "IP", "HP",
	"SM", "SB", "BI", "IB", "BR", "RB", "R", "B", "I", "IR", "RI",
	"sp", "nf", "fi", "RE", "RS", "DT", "UC", "PD", "AT", "in",
	"ft", "OP", "EX", "EE", "UR", "UE", "ll",
}

// HandlerKind selects the strategy that parses a macro invocation.
type HandlerKind int

const (
	HandlerInLine        HandlerKind = iota // element with same-line arguments
	HandlerBlockImplicit                    // block closed by context (SH, PP, ...)
	HandlerBlockExplicit                    // block closed by a closer macro (RS, UR)
	HandlerBlockClose                       // closer macro (RE, UE)
)

var handlerNames = [...]string{"in-line", "block-implicit", "block-explicit", "block-close"}

func (h HandlerKind) String() string {
	if h < 0 || int(h) >= len(handlerNames) {
		return "unknown"
	}
	return handlerNames[h]
}

// MacroFlags describe the scoping behavior of a macro.
type MacroFlags uint8

const (
	// NonScoped macros may appear inside a pending next-line element and
	// do not end a pending block head.
	NonScoped MacroFlags = 1 << iota
	// Scoped macros may keep their scope open until the next input line.
	Scoped
	// BlockScope macros always act at block level and break a pending
	// block head.
	BlockScope
	// Join merges consecutive arguments into one text node.
	Join
)

// Names returns the set flag names in declaration order.
func (f MacroFlags) Names() []string {
	var names []string
	for _, fl := range []struct {
		bit  MacroFlags
		name string
	}{
		{NonScoped, "nscoped"},
		{Scoped, "scoped"},
		{BlockScope, "bscope"},
		{Join, "join"},
	} {
		if f&fl.bit != 0 {
			names = append(names, fl.name)
		}
	}
	return names
}

func (f MacroFlags) String() string {
	return strings.Join(f.Names(), "|")
}

// Descriptor is the static behavior of one macro.
type Descriptor struct {
	Handler HandlerKind
	Flags   MacroFlags
}

// Macros is the descriptor table, indexed by Macro.
var Macros = [macroCount]Descriptor{
	MacroBR:     {HandlerInLine, NonScoped},
	MacroTH:     {HandlerInLine, BlockScope},
	MacroSH:     {HandlerBlockImplicit, BlockScope | Scoped},
	MacroSS:     {HandlerBlockImplicit, BlockScope | Scoped},
	MacroTP:     {HandlerBlockImplicit, BlockScope | Scoped},
	MacroLP:     {HandlerBlockImplicit, BlockScope},
	MacroPP:     {HandlerBlockImplicit, BlockScope},
	MacroP:      {HandlerBlockImplicit, BlockScope},
	MacroIP:     {HandlerBlockImplicit, BlockScope},
	MacroHP:     {HandlerBlockImplicit, BlockScope},
	MacroSM:     {HandlerInLine, Scoped | Join},
	MacroSB:     {HandlerInLine, Scoped | Join},
	MacroBI:     {HandlerInLine, 0},
	MacroIB:     {HandlerInLine, 0},
	MacroBRoman: {HandlerInLine, 0},
	MacroRB:     {HandlerInLine, 0},
	MacroR:      {HandlerInLine, Scoped | Join},
	MacroB:      {HandlerInLine, Scoped | Join},
	MacroI:      {HandlerInLine, Scoped | Join},
	MacroIR:     {HandlerInLine, 0},
	MacroRI:     {HandlerInLine, 0},
	MacroSP:     {HandlerInLine, NonScoped},
	MacroNF:     {HandlerInLine, BlockScope},
	MacroFI:     {HandlerInLine, BlockScope},
	MacroRE:     {HandlerBlockClose, BlockScope},
	MacroRS:     {HandlerBlockExplicit, BlockScope},
	MacroDT:     {HandlerInLine, 0},
	MacroUC:     {HandlerInLine, 0},
	MacroPD:     {HandlerInLine, NonScoped},
	MacroAT:     {HandlerInLine, 0},
	MacroIN:     {HandlerInLine, 0},
	MacroFT:     {HandlerInLine, 0},
	MacroOP:     {HandlerInLine, 0},
	MacroEX:     {HandlerInLine, BlockScope},
	MacroEE:     {HandlerInLine, BlockScope},
	MacroUR:     {HandlerBlockExplicit, BlockScope},
	MacroUE:     {HandlerBlockClose, BlockScope},
	MacroLL:     {HandlerInLine, 0},
}

var macroByName = func() map[string]Macro {
	m := make(map[string]Macro, macroCount)
	for i, name := range macroNames {
		m[name] = Macro(i)
	}
	return m
}()

// Lookup returns the macro with the given name. Macro names are
// case-sensitive.
func Lookup(name string) (Macro, bool) {
	tok, ok := macroByName[name]
	return tok, ok
}

// AllMacros returns every known macro in table order.
func AllMacros() []Macro {
	all := make([]Macro, macroCount)
	for i := range all {
		all[i] = Macro(i)
	}
	return all
}

// Descriptor returns the table entry for m. MacroNone and out-of-range
// values yield the zero Descriptor.
func (m Macro) Descriptor() Descriptor {
	if m < 0 || m >= macroCount {
		return Descriptor{}
	}
	return Macros[m]
}

// Flags is shorthand for m.Descriptor().Flags.
func (m Macro) Flags() MacroFlags {
	return m.Descriptor().Flags
}

func (m Macro) String() string {
	if m < 0 || m >= macroCount {
		return ""
	}
	return macroNames[m]
}

// MarshalText implements encoding.TextMarshaler.
func (m Macro) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m Macro) isParagraph() bool {
	return m == MacroLP || m == MacroPP || m == MacroP
}

func (m Macro) isExplicitBlock() bool {
	return m.Descriptor().Handler == HandlerBlockExplicit && m != MacroNone
}
