package xcconfig

import "strings"

// LookupFunc resolves a single variable name to its raw (unexpanded) value.
// ok is false when the name is entirely unknown.
type LookupFunc func(name string) (string, bool)

// Expand performs recursive $(VAR)/$(VAR:modifier)/$VAR expansion over raw,
// iteratively, using an explicit visited set to break cycles. A cycle causes
// the offending variable to expand to "" and is reported via onCycle (which
// may be nil).
func Expand(raw string, lookup LookupFunc, onCycle func(name string)) string {
	return expandVisited(raw, lookup, onCycle, map[string]bool{})
}

// ResolveVar resolves a variable by name (rather than an already-fetched raw
// value), marking name itself as in-progress before expanding its value so
// that a reference cycle back to name is detected. This is the entry point
// the Project Model uses for $(VAR) lookups (internal/pbx).
func ResolveVar(name string, lookup LookupFunc, onCycle func(name string)) (string, bool) {
	return resolveVisited(name, lookup, onCycle, map[string]bool{})
}

func resolveVisited(name string, lookup LookupFunc, onCycle func(name string), visiting map[string]bool) (string, bool) {
	if visiting[name] {
		if onCycle != nil {
			onCycle(name)
		}
		return "", true
	}
	val, ok := lookup(name)
	if !ok {
		return "", false
	}
	visiting[name] = true
	defer delete(visiting, name)
	return expandVisited(val, lookup, onCycle, visiting), true
}

func expandVisited(raw string, lookup LookupFunc, onCycle func(name string), visiting map[string]bool) string {
	v := parseValue(raw)
	if len(v.Refs) == 0 {
		return raw
	}

	var b strings.Builder
	last := 0
	runes := []rune(raw)
	for _, ref := range v.Refs {
		b.WriteString(string(runes[last:ref.Start]))
		if visiting[ref.Name] {
			if onCycle != nil {
				onCycle(ref.Name)
			}
			last = ref.End
			continue
		}
		val, ok := lookup(ref.Name)
		if !ok {
			last = ref.End
			continue
		}
		visiting[ref.Name] = true
		expanded := expandVisited(val, lookup, onCycle, visiting)
		delete(visiting, ref.Name)
		expanded = applyModifier(expanded, ref.Modifier)
		b.WriteString(expanded)
		last = ref.End
	}
	b.WriteString(string(runes[last:]))
	return b.String()
}

func applyModifier(value, modifier string) string {
	switch modifier {
	case "", "standardizepath":
		return value
	case "quote":
		if strings.ContainsAny(value, " \t") {
			return `"` + value + `"`
		}
		return value
	default:
		return value
	}
}
