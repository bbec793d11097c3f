package css

import (
	"fmt"
	"strings"
	"sync"
)

// ValueKind discriminates the Value tagged union. Keeping one flat struct
// with a kind byte (rather than an interface-per-variant hierarchy) keeps
// values comparable and avoids v-table hops during cascade merging and
// length resolution.
type ValueKind int

const (
	ValueInitial ValueKind = iota
	ValueInherit
	ValueUnset
	ValueRevert
	ValueIdent         // keyword identifier, interned
	ValueCustomIdent   // author-chosen identifier (e.g. counter-style name)
	ValueCustomProperty // the raw token sequence of a --custom property
	ValueVariableReference
	ValueInteger
	ValueNumber
	ValuePercent
	ValueAngle
	ValueLength
	ValueCalc
	ValueAttr
	ValueString
	ValueLocalURL
	ValueURL
	ValueImage
	ValueColor
	ValueCounter
	ValueFontFeature
	ValueFontVariation
	ValueUnicodeRange
	ValuePair
	ValueRect
	ValueList
	ValueFunction
	ValueUnaryFunction
)

// LengthUnit is the closed set of absolute/relative length units.
type LengthUnit int

const (
	UnitNone LengthUnit = iota
	UnitPx
	UnitPt
	UnitPc
	UnitCm
	UnitMm
	UnitIn
	UnitVw
	UnitVh
	UnitVmin
	UnitVmax
	UnitEm
	UnitEx
	UnitCh
	UnitRem
)

var lengthUnitNames = map[string]LengthUnit{
	"px": UnitPx, "pt": UnitPt, "pc": UnitPc, "cm": UnitCm, "mm": UnitMm,
	"in": UnitIn, "vw": UnitVw, "vh": UnitVh, "vmin": UnitVmin, "vmax": UnitVmax,
	"em": UnitEm, "ex": UnitEx, "ch": UnitCh, "rem": UnitRem,
}

func (u LengthUnit) String() string {
	for name, unit := range lengthUnitNames {
		if unit == u {
			return name
		}
	}
	return ""
}

// AngleUnit is the closed set of angle units; all are normalized to degrees
// at parse time per the unit conversion table in §6.
type AngleUnit int

const (
	AngleDeg AngleUnit = iota
	AngleRad
	AngleGrad
	AngleTurn
)

// CalcOp is a postfix calc() operator.
type CalcOp int

const (
	CalcOpAdd CalcOp = iota
	CalcOpSub
	CalcOpMul
	CalcOpDiv
	CalcOpMin
	CalcOpMax
	CalcOpClampTriple // consumes 3 operands: value, min, max -> clamp
)

// CalcItem is one element of a Calc value's postfix operator list: either a
// literal operand (a resolved Value, typically Number/Percent/Length/Angle)
// or an operator acting on the items below it on the evaluation stack.
type CalcItem struct {
	Literal *Value
	Op      CalcOp
	IsOp    bool
}

// Color holds resolved sRGB components, 0-255 with alpha 0-255.
type Color struct {
	R, G, B, A uint8
	IsCurrent  bool // currentcolor keyword, resolved at use time
}

// Rect is the four-value shorthand tuple (top, right, bottom, left) used by
// rect()/clip-path-like properties and internally by border-image-slice.
type Rect struct {
	Top, Right, Bottom, Left *Value
}

// Value is the tagged variant described in the data model: every CSS value
// the cascade can produce, plus the three wide keywords and interned idents.
type Value struct {
	Kind ValueKind

	Ident string // ValueIdent / ValueCustomIdent / ValueFunction name / ValueUnaryFunction name

	Num     float64 // ValueInteger/Number/Percent/Angle/Length magnitude
	Unit    LengthUnit
	AngleU  AngleUnit
	Str     string // ValueString/ValueURL/ValueLocalURL/ValueAttr(name)/ValueFontFeature(tag)
	Tokens  []Token // ValueCustomProperty raw token sequence, ValueVariableReference fallback tokens
	VarName string  // ValueVariableReference: the --name being referenced

	Calc []CalcItem // ValueCalc
	ColorV Color     // ValueColor

	CounterName  string // ValueCounter
	CounterStyle string
	CounterSep   string // for counters(name, sep, style)

	URange struct{ From, To rune } // ValueUnicodeRange

	Pair *[2]Value // ValuePair (e.g. background-position x/y)
	RectV *Rect     // ValueRect

	List []Value // ValueList / ValueFunction args / ValueFontVariation settings

	Important bool
}

func (v *Value) String() string {
	if v == nil {
		return "<nil>"
	}
	switch v.Kind {
	case ValueInitial:
		return "initial"
	case ValueInherit:
		return "inherit"
	case ValueUnset:
		return "unset"
	case ValueRevert:
		return "revert"
	case ValueIdent, ValueCustomIdent:
		return v.Ident
	case ValueInteger:
		return fmt.Sprintf("%d", int64(v.Num))
	case ValueNumber:
		return fmt.Sprintf("%g", v.Num)
	case ValuePercent:
		return fmt.Sprintf("%g%%", v.Num)
	case ValueAngle:
		return fmt.Sprintf("%gdeg", v.Num)
	case ValueLength:
		return fmt.Sprintf("%g%s", v.Num, v.Unit)
	case ValueString:
		return fmt.Sprintf("%q", v.Str)
	case ValueURL:
		return fmt.Sprintf("url(%q)", v.Str)
	case ValueColor:
		return fmt.Sprintf("rgba(%d,%d,%d,%d)", v.ColorV.R, v.ColorV.G, v.ColorV.B, v.ColorV.A)
	case ValueList:
		parts := make([]string, len(v.List))
		for i := range v.List {
			parts[i] = v.List[i].String()
		}
		return strings.Join(parts, " ")
	default:
		return fmt.Sprintf("<value kind=%d>", v.Kind)
	}
}

// --- Process-wide interning (§5) ---
//
// Initial/Inherit/Unset/Revert and every keyword Ident are shared
// singletons; equality between interned values is by pointer identity, not
// deep comparison. Built once via sync.Once rather than relying on
// package-init ordering, per §9's "one-time initialization via a once-cell"
// guidance.

var (
	internOnce sync.Once
	internMu   sync.Mutex
	identPool  map[string]*Value

	initialSingleton = &Value{Kind: ValueInitial}
	inheritSingleton = &Value{Kind: ValueInherit}
	unsetSingleton   = &Value{Kind: ValueUnset}
	revertSingleton  = &Value{Kind: ValueRevert}
)

func initInternPool() {
	identPool = make(map[string]*Value, 256)
}

// Initial returns the process-wide `initial` singleton.
func Initial() *Value { internOnce.Do(initInternPool); return initialSingleton }

// Inherit returns the process-wide `inherit` singleton.
func Inherit() *Value { internOnce.Do(initInternPool); return inheritSingleton }

// Unset returns the process-wide `unset` singleton.
func Unset() *Value { internOnce.Do(initInternPool); return unsetSingleton }

// Revert returns the process-wide `revert` singleton.
func Revert() *Value { internOnce.Do(initInternPool); return revertSingleton }

// Ident returns the interned singleton Value for a keyword identifier,
// folding to lowercase ASCII first (CSS keywords are ASCII case-insensitive).
func Ident(name string) *Value {
	internOnce.Do(initInternPool)
	folded := asciiLower(name)
	internMu.Lock()
	defer internMu.Unlock()
	if v, ok := identPool[folded]; ok {
		return v
	}
	v := &Value{Kind: ValueIdent, Ident: folded}
	identPool[folded] = v
	return v
}

// IsWideKeyword reports whether v is one of initial/inherit/unset/revert.
func IsWideKeyword(v *Value) bool {
	if v == nil {
		return false
	}
	switch v.Kind {
	case ValueInitial, ValueInherit, ValueUnset, ValueRevert:
		return true
	}
	return false
}

func asciiLower(s string) string {
	b := []byte(s)
	changed := false
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
			changed = true
		}
	}
	if !changed {
		return s
	}
	return string(b)
}
