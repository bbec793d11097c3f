package css

// variables.go implements custom-property (--name) storage and var()
// substitution with cycle detection, per §4.6's "Variable resolution" step.

// CustomPropertyStore maps a custom property's name to its cascaded value,
// which may itself still contain unresolved var() references.
type CustomPropertyStore map[string]*Value

// ResolveValue substitutes every var() reference reachable from v against
// store, recursively. A reference that cycles back to a name already being
// resolved, or that resolves to nothing and has no usable fallback, fails
// the whole value — per §8's cascade invariant, the caller then falls back
// to the property's initial value rather than committing a partial result.
func ResolveValue(v *Value, store CustomPropertyStore) (*Value, bool) {
	return resolveValue(v, store, map[string]bool{})
}

func resolveValue(v *Value, store CustomPropertyStore, visited map[string]bool) (*Value, bool) {
	if v == nil {
		return nil, false
	}

	switch v.Kind {
	case ValueVariableReference:
		return resolveVarReference(v, store, visited)

	case ValueList:
		newList := make([]Value, 0, len(v.List))
		for i := range v.List {
			item := v.List[i]
			if !ContainsVariableReference(&item) {
				newList = append(newList, item)
				continue
			}
			resolved, ok := resolveValue(&item, store, visited)
			if !ok {
				return nil, false
			}
			newList = append(newList, *resolved)
		}
		return &Value{Kind: ValueList, List: newList}, true

	default:
		return v, true
	}
}

func resolveVarReference(v *Value, store CustomPropertyStore, visited map[string]bool) (*Value, bool) {
	if visited[v.VarName] {
		return nil, false
	}

	nested := make(map[string]bool, len(visited)+1)
	for k := range visited {
		nested[k] = true
	}
	nested[v.VarName] = true

	if stored, ok := store[v.VarName]; ok && stored != nil {
		if resolved, ok := resolveValue(stored, store, nested); ok {
			return resolved, true
		}
	}

	if len(v.Tokens) > 0 {
		fallback := ParsePropertyValue(tokensAsComponents(v.Tokens))
		if fallback != nil {
			return resolveValue(fallback, store, nested)
		}
	}

	return nil, false
}

func tokensAsComponents(tokens []Token) []ComponentValue {
	out := make([]ComponentValue, len(tokens))
	for i, t := range tokens {
		out[i] = PreservedToken{Token: t}
	}
	return out
}
