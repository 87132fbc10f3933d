// Package stringutil implements the text primitives the rest of respect is
// built on: escaping, balanced-pair splitting, brace permutation expansion,
// path relativization, edit distance and iOS image-name normalization.
package stringutil

import "strings"

// Split splits text on any rune in separators, skipping separators that fall
// inside a balancedPair (e.g. "(" / ")") and, when allowEscape is true,
// separators preceded by a backslash. With escaping enabled, backslash
// escape sequences are stripped from each returned component.
func Split(text string, separators string, allowEscape bool, balancedPair string) []string {
	var open, close rune
	hasPair := len(balancedPair) == 2
	if hasPair {
		open, close = rune(balancedPair[0]), rune(balancedPair[1])
	}

	var out []string
	var cur strings.Builder
	depth := 0
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if allowEscape && r == '\\' && i+1 < len(runes) {
			cur.WriteRune(runes[i+1])
			i++
			continue
		}

		if hasPair {
			if r == open {
				depth++
				cur.WriteRune(r)
				continue
			}
			if r == close && depth > 0 {
				depth--
				cur.WriteRune(r)
				continue
			}
		}

		if depth == 0 && strings.ContainsRune(separators, r) {
			out = append(out, cur.String())
			cur.Reset()
			continue
		}

		cur.WriteRune(r)
	}
	out = append(out, cur.String())
	return out
}

// SplitByPair yields alternating (outside, inside) regions of text, splitting
// on the two-rune pair (e.g. "{}"). When shouldBalance is true, unbalanced
// pair characters are treated as literal text instead of starting a region.
func SplitByPair(text string, pair string, allowEscape bool, shouldBalance bool) []string {
	if len(pair) != 2 {
		return []string{text}
	}
	open, close := rune(pair[0]), rune(pair[1])

	var out []string
	var cur strings.Builder
	runes := []rune(text)
	inside := false
	depth := 0

	flush := func() {
		out = append(out, cur.String())
		cur.Reset()
	}

	i := 0
	for i < len(runes) {
		r := runes[i]

		if allowEscape && r == '\\' && i+1 < len(runes) {
			cur.WriteRune(runes[i+1])
			i += 2
			continue
		}

		if !inside {
			if r == open {
				if shouldBalance && !hasBalancedClose(runes[i+1:], open, close) {
					cur.WriteRune(r)
					i++
					continue
				}
				flush()
				inside = true
				depth = 1
				i++
				continue
			}
			cur.WriteRune(r)
			i++
			continue
		}

		// inside == true
		if r == open {
			depth++
			cur.WriteRune(r)
			i++
			continue
		}
		if r == close {
			depth--
			if depth == 0 {
				flush()
				inside = false
				i++
				continue
			}
			cur.WriteRune(r)
			i++
			continue
		}
		cur.WriteRune(r)
		i++
	}
	flush()
	return out
}

func hasBalancedClose(rest []rune, open, close rune) bool {
	depth := 1
	for _, r := range rest {
		switch r {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return true
			}
		}
	}
	return false
}

// SplitQuotedWhitespace tokenizes directive argument strings the way
// @LintFile option lists are written: whitespace separated, with single or
// double quoted runs kept intact and their quotes stripped.
// 'a "b\"" c' -> ["a", `b"`, "c"]
func SplitQuotedWhitespace(text string) []string {
	var out []string
	var cur strings.Builder
	inQuote := rune(0)
	started := false
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '\\' && i+1 < len(runes) {
			cur.WriteRune(runes[i+1])
			i++
			started = true
			continue
		}
		if inQuote != 0 {
			if r == inQuote {
				inQuote = 0
				continue
			}
			cur.WriteRune(r)
			continue
		}
		if r == '"' || r == '\'' {
			inQuote = r
			started = true
			continue
		}
		if r == ' ' || r == '\t' {
			if started {
				out = append(out, cur.String())
				cur.Reset()
				started = false
			}
			continue
		}
		cur.WriteRune(r)
		started = true
	}
	if started {
		out = append(out, cur.String())
	}
	return out
}
