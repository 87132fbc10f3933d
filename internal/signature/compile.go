package signature

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/wader/respect/internal/rx"
)

// argExprPattern is the "expression or string literal" fragment each
// captured argument matches against: a quoted string literal with escapes,
// one level of balanced parens/brackets, an identifier, or a number.
const argExprPattern = `(?:@?"(?:\\.|[^"\\])*"` +
	`|\((?:[^()]|\([^()]*\))*\)` +
	`|\[(?:[^\[\]]|\[[^\[\]]*\])*\]` +
	`|[A-Za-z_][A-Za-z0-9_]*` +
	`|-?[0-9]+(?:\.[0-9]+)?)`

// Compiled is an expression signature compiled to a regex, ready to scan
// source text.
type Compiled struct {
	Source    string
	Regex     *rx.Regex
	Keys      []string // capture keys ($N's N, or a named $recv/$arg), first-occurrence order
	dupGroups map[string][]string
}

type compiler struct {
	seen      map[string]int
	dupGroups map[string][]string
	keysOrder []string
}

// Compile parses and compiles src into a Compiled matcher.
func Compile(src string) (*Compiled, error) {
	ast, err := Parse(src)
	if err != nil {
		return nil, err
	}
	c := &compiler{seen: map[string]int{}, dupGroups: map[string][]string{}}
	pattern := c.compileNode(ast)
	re, err := rx.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compiling signature %q: %w", src, err)
	}
	return &Compiled{Source: src, Regex: re, Keys: c.keysOrder, dupGroups: c.dupGroups}, nil
}

func (c *compiler) compileNode(n Node) string {
	switch v := n.(type) {
	case IdentNode:
		return regexp.QuoteMeta(v.Name)
	case ArgNode:
		return c.captureFor(v.Key)
	case CallNode:
		var args []string
		for _, a := range v.Args {
			args = append(args, c.compileNode(a))
		}
		// The signature's leading '$' only selects the call production; the
		// matched source text has no literal '$' (e.g. "NSLocalizedString(...)").
		return regexp.QuoteMeta(v.Name) + `\s*\(\s*` + strings.Join(args, `\s*,\s*`) + `\s*\)`
	case MessageNode:
		var b strings.Builder
		// Likewise '@' only selects the objcMessage production; the match
		// itself starts at '[' (e.g. "[UIImage imageNamed:@\"foo\"]").
		b.WriteString(`\[\s*`)
		b.WriteString(c.compileNode(v.Recv))
		for _, part := range v.Parts {
			b.WriteString(`\s+`)
			b.WriteString(regexp.QuoteMeta(part.Name))
			b.WriteString(`\s*:\s*`)
			b.WriteString(c.compileNode(part.Arg))
		}
		b.WriteString(`\s*\]`)
		return b.String()
	default:
		return ""
	}
}

// captureFor assigns the first occurrence of key a real named capture group;
// every later occurrence becomes a structurally identical, distinctly named
// group whose value must equal the first at match time (RE2 has no
// backreferences, so value-equality is enforced after the fact by FindAll).
func (c *compiler) captureFor(key string) string {
	c.seen[key]++
	if c.seen[key] == 1 {
		c.keysOrder = append(c.keysOrder, key)
		return `(?P<arg_` + key + `>` + argExprPattern + `)`
	}
	dupName := fmt.Sprintf("arg_%s_dup%d", key, c.seen[key])
	c.dupGroups[key] = append(c.dupGroups[key], dupName)
	return `(?P<` + dupName + `>` + argExprPattern + `)`
}

// FindAll scans buf for matches, discarding any whose duplicate-key
// occurrences did not capture byte-identical text to the first occurrence.
func (c *Compiled) FindAll(buf []byte) []rx.Match {
	raw := c.Regex.FindAll(buf)
	if len(raw) == 0 {
		return nil
	}
	runes := []rune(string(buf))

	out := make([]rx.Match, 0, len(raw))
	for _, m := range raw {
		if c.satisfiesDupConstraints(m, runes) {
			out = append(out, m)
		}
	}
	return out
}

// FindAllWithLines is FindAll plus each match's source Location, for
// scanning whole files where findings need a line number.
func (c *Compiled) FindAllWithLines(buf []byte, lt *rx.LineTable) []rx.MatchWithLine {
	raw := c.Regex.FindAllWithLines(buf, lt)
	if len(raw) == 0 {
		return nil
	}
	runes := []rune(string(buf))

	out := make([]rx.MatchWithLine, 0, len(raw))
	for _, m := range raw {
		if c.satisfiesDupConstraints(m.Match, runes) {
			out = append(out, m)
		}
	}
	return out
}

func (c *Compiled) satisfiesDupConstraints(m rx.Match, runes []rune) bool {
	for key, dups := range c.dupGroups {
		primary := m.Group(runes, "arg_"+key)
		for _, dup := range dups {
			if m.Group(runes, dup) != primary {
				return false
			}
		}
	}
	return true
}

// Arg returns the text captured for key in m, or "" if key did not
// participate (e.g. an optional branch that didn't match).
func (c *Compiled) Arg(m rx.Match, runes []rune, key string) string {
	return m.Group(runes, "arg_"+key)
}
