package stringutil

import "strings"

// Permutations expands a permutation pattern such as "icon{@2x,}{~ipad,}.png"
// into the Cartesian product of its brace groups, preserving left-to-right
// group order and any literal prefix/infix/suffix text. Nested braces are not
// expanded as groups (they pass through as literal text inside their parent
// alternative). Empty alternatives ("{,a}") are permitted and contribute the
// empty string.
func Permutations(text string, pair string, separators string) []string {
	if pair == "" {
		pair = "{}"
	}
	if separators == "" {
		separators = ","
	}

	regions := SplitByPair(text, pair, true, true)
	// regions alternates literal, group, literal, group, ...
	results := []string{""}
	for i, region := range regions {
		isGroup := i%2 == 1
		if !isGroup {
			for j := range results {
				results[j] += region
			}
			continue
		}

		alts := splitGroupAlternatives(region, separators)
		next := make([]string, 0, len(results)*len(alts))
		for _, prefix := range results {
			for _, alt := range alts {
				next = append(next, prefix+alt)
			}
		}
		results = next
	}
	return results
}

// splitGroupAlternatives splits the inside of a brace group on separators,
// honoring escapes and nested brace pairs (which are not further expanded).
func splitGroupAlternatives(inside string, separators string) []string {
	return Split(inside, separators, true, "{}")
}

// RelativePath joins child onto base the way Unix shells do: an absolute
// child overrides base entirely, a child starting with ".." walks up from
// base, otherwise child is appended.
func RelativePath(child string, base string) string {
	if child == "" {
		return base
	}
	if strings.HasPrefix(child, "/") {
		return child
	}
	if base == "" {
		return child
	}

	baseParts := splitPath(base)
	childParts := strings.Split(child, "/")

	for len(childParts) > 0 && childParts[0] == ".." {
		if len(baseParts) > 0 {
			baseParts = baseParts[:len(baseParts)-1]
		}
		childParts = childParts[1:]
	}

	combined := append(append([]string{}, baseParts...), childParts...)
	joined := strings.Join(combined, "/")
	if strings.HasPrefix(base, "/") && !strings.HasPrefix(joined, "/") {
		joined = "/" + joined
	}
	return joined
}

func splitPath(p string) []string {
	abs := strings.HasPrefix(p, "/")
	parts := strings.Split(strings.Trim(p, "/"), "/")
	if len(parts) == 1 && parts[0] == "" {
		parts = nil
	}
	if abs {
		return parts
	}
	return parts
}
