package css

import "strings"

// valueresolve.go converts the raw component-value stream the block parser
// hands back (css.ComponentValue, from parser_new.go) into the tagged Value
// model (value.go), per §4.3's declaration-value grammar. It is the single
// place that turns tokens into the Value the cascade merges and the
// property-directed longhand parser consumes.

// ParsePropertyValue parses a property's raw component values into a Value.
// Returns nil if the components don't resolve to a recognized value (an
// unparseable declaration is dropped by the caller, per §7 bucket 1).
func ParsePropertyValue(components []ComponentValue) *Value {
	items := significantComponents(components)
	if len(items) == 0 {
		return nil
	}

	if len(items) == 1 {
		if v, ok := parseSingleComponent(items[0]); ok {
			return v
		}
		return nil
	}

	list := make([]Value, 0, len(items))
	for _, item := range items {
		if v, ok := parseSingleComponent(item); ok {
			list = append(list, *v)
		}
	}
	if len(list) == 0 {
		return nil
	}
	return &Value{Kind: ValueList, List: list}
}

// significantComponents drops whitespace component values, which carry no
// meaning once a property's value has been split into its constituent parts.
func significantComponents(components []ComponentValue) []ComponentValue {
	var out []ComponentValue
	for _, c := range components {
		if pt, ok := c.(PreservedToken); ok && pt.Token.Type == TokenWhitespace {
			continue
		}
		out = append(out, c)
	}
	return out
}

// parseSingleComponent parses one component value (a token, function, or
// comma) into a Value.
func parseSingleComponent(c ComponentValue) (*Value, bool) {
	switch cv := c.(type) {
	case PreservedToken:
		return parseSingleToken(cv.Token)
	case *Function:
		return parseFunctionValue(cv)
	}
	return nil, false
}

func parseSingleToken(t Token) (*Value, bool) {
	switch t.Type {
	case TokenIdent:
		switch asciiLower(t.Value) {
		case "initial":
			return Initial(), true
		case "inherit":
			return Inherit(), true
		case "unset":
			return Unset(), true
		case "revert":
			return Revert(), true
		}
		return Ident(t.Value), true
	case TokenString:
		return &Value{Kind: ValueString, Str: t.Value}, true
	case TokenHash:
		if c, ok := parseHashColor(t.Value); ok {
			return &Value{Kind: ValueColor, ColorV: c}, true
		}
		return nil, false
	case TokenURL:
		return &Value{Kind: ValueURL, Str: t.Value}, true
	case TokenComma:
		return &Value{Kind: ValueIdent, Ident: ","}, true
	case TokenDelim:
		if t.Delim == '/' {
			return &Value{Kind: ValueIdent, Ident: "/"}, true
		}
		return nil, false
	case TokenNumber, TokenPercentage, TokenDimension:
		return literalFromToken(t)
	}
	return nil, false
}

func parseFunctionValue(fn *Function) (*Value, bool) {
	name := asciiLower(fn.Name)

	switch name {
	case "var":
		return parseVarFunction(fn)
	case "calc", "min", "max", "clamp":
		argLists := splitTopLevelCommas(fn.Values)
		return parseMathFunction(name, argLists)
	case "rgb", "rgba", "hsl", "hsla", "hwb":
		if c, ok := parseColorFunction(fn); ok {
			return &Value{Kind: ValueColor, ColorV: c}, true
		}
		return nil, false
	case "attr":
		if len(fn.Values) > 0 {
			if pt, ok := fn.Values[0].(PreservedToken); ok && pt.Token.Type == TokenIdent {
				return &Value{Kind: ValueAttr, Str: pt.Token.Value}, true
			}
		}
		return nil, false
	case "counter":
		return parseCounterFunction(fn, false), true
	case "counters":
		return parseCounterFunction(fn, true), true
	case "url":
		return &Value{Kind: ValueURL, Str: functionFirstString(fn)}, true
	case "local":
		return &Value{Kind: ValueLocalURL, Str: functionFirstString(fn)}, true
	}

	// Unrecognized function (gradients, format() hints inside src, etc): kept
	// as an opaque ValueFunction with recursively parsed arguments so callers
	// that don't care can still round-trip it.
	args := make([]Value, 0, len(fn.Values))
	for _, c := range significantComponents(fn.Values) {
		if v, ok := parseSingleComponent(c); ok {
			args = append(args, *v)
		}
	}
	return &Value{Kind: ValueFunction, Ident: fn.Name, List: args}, true
}

func parseVarFunction(fn *Function) (*Value, bool) {
	args := splitTopLevelCommas(fn.Values)
	if len(args) == 0 {
		return nil, false
	}
	name := ""
	for _, c := range significantComponents(args[0]) {
		if pt, ok := c.(PreservedToken); ok && pt.Token.Type == TokenIdent {
			name = pt.Token.Value
			break
		}
	}
	if !IsCustomPropertyName(name) {
		return nil, false
	}
	v := &Value{Kind: ValueVariableReference, VarName: name}
	if len(args) > 1 {
		var fallback []Token
		for _, c := range significantComponents(args[1]) {
			if pt, ok := c.(PreservedToken); ok {
				fallback = append(fallback, pt.Token)
			}
		}
		v.Tokens = fallback
	}
	return v, true
}

func parseCounterFunction(fn *Function, withSep bool) *Value {
	args := splitTopLevelCommas(fn.Values)
	v := &Value{Kind: ValueCounter, CounterStyle: "decimal"}
	idx := 0
	if idx < len(args) {
		for _, c := range significantComponents(args[idx]) {
			if pt, ok := c.(PreservedToken); ok && pt.Token.Type == TokenIdent {
				v.CounterName = pt.Token.Value
			}
		}
		idx++
	}
	if withSep && idx < len(args) {
		for _, c := range significantComponents(args[idx]) {
			if pt, ok := c.(PreservedToken); ok && pt.Token.Type == TokenString {
				v.CounterSep = pt.Token.Value
			}
		}
		idx++
	}
	if idx < len(args) {
		for _, c := range significantComponents(args[idx]) {
			if pt, ok := c.(PreservedToken); ok && pt.Token.Type == TokenIdent {
				v.CounterStyle = pt.Token.Value
			}
		}
	}
	return v
}

func functionFirstString(fn *Function) string {
	for _, c := range fn.Values {
		if pt, ok := c.(PreservedToken); ok {
			switch pt.Token.Type {
			case TokenString, TokenURL:
				return pt.Token.Value
			}
		}
	}
	return ""
}

// ContainsVariableReference reports whether a value (or one of its list
// items) is, or contains, a var() reference — used to decide whether a
// declaration needs variable substitution before it can be committed.
func ContainsVariableReference(v *Value) bool {
	if v == nil {
		return false
	}
	if v.Kind == ValueVariableReference {
		return true
	}
	for i := range v.List {
		if ContainsVariableReference(&v.List[i]) {
			return true
		}
	}
	return false
}

// KeywordEquals reports whether v is an ident/custom-ident equal to s,
// ASCII case-insensitively.
func KeywordEquals(v *Value, s string) bool {
	if v == nil {
		return false
	}
	if v.Kind != ValueIdent && v.Kind != ValueCustomIdent {
		return false
	}
	return strings.EqualFold(v.Ident, s)
}
