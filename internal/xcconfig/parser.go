// Package xcconfig parses Xcode's .xcconfig build-setting configuration
// language: line-oriented KEY = value assignments with $(VAR) references,
// #include directives and [sdk=*][arch=*]-style conditional key suffixes.
package xcconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// RefSpan marks where a $(VAR) or $(VAR:modifier) or $VAR reference occurs
// within a raw (unexpanded) value string.
type RefSpan struct {
	Name     string
	Modifier string
	Start    int
	End      int
}

// Value is a single parsed assignment's right-hand side: the raw text plus
// the reference spans found inside it. $(VAR) expansion happens later, in
// the Project Model (internal/pbx), not here.
type Value struct {
	Raw  string
	Refs []RefSpan
}

// Error is a config-file parse error carrying its location, per spec §7's
// Config error kind.
type Error struct {
	File   string
	Line   int
	Column int
	Msg    string
}

func (e *Error) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Column, e.Msg)
	}
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Msg)
}

// Dictionary is the parsed result: key (including any [cond] suffix,
// verbatim) -> Value.
type Dictionary map[string]Value

// ParseOptions controls include resolution.
type ParseOptions struct {
	// IncludeBasePath overrides the directory includes are resolved
	// relative to; if empty, includes resolve relative to the including
	// file's own directory.
	IncludeBasePath string
}

// ParseFile reads and parses file, including transitively.
func ParseFile(file string, opts ParseOptions) (Dictionary, []*Error) {
	seen := map[string]bool{}
	dict := Dictionary{}
	errs := parseFileInto(file, opts, dict, seen)
	return dict, errs
}

// ParseString parses string content that is logically located at
// displayName (used for error messages and as the include-resolution base
// when opts.IncludeBasePath is empty).
func ParseString(content string, displayName string, opts ParseOptions) (Dictionary, []*Error) {
	seen := map[string]bool{}
	dict := Dictionary{}
	errs := parseStringInto(content, displayName, opts, dict, seen)
	return dict, errs
}

func parseFileInto(file string, opts ParseOptions, dict Dictionary, seen map[string]bool) []*Error {
	abs, absErr := filepath.Abs(file)
	if absErr == nil {
		file = abs
	}
	if seen[file] {
		return []*Error{{File: file, Line: 0, Column: 0, Msg: "include cycle detected: " + file}}
	}
	seen[file] = true

	data, err := os.ReadFile(file)
	if err != nil {
		return []*Error{{File: file, Msg: "cannot read config file: " + err.Error()}}
	}
	return parseStringInto(string(data), file, opts, dict, seen)
}

func parseStringInto(content string, displayName string, opts ParseOptions, dict Dictionary, seen map[string]bool) []*Error {
	var errs []*Error
	lines := splitLinesWithContinuation(content)

	baseDir := opts.IncludeBasePath
	if baseDir == "" {
		baseDir = filepath.Dir(displayName)
	}

	for _, pl := range lines {
		line := stripComment(pl.text)
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if strings.HasPrefix(trimmed, "#include") {
			path, ok := parseIncludePath(trimmed)
			if !ok {
				errs = append(errs, &Error{File: displayName, Line: pl.line, Msg: "malformed #include"})
				continue
			}
			includePath := path
			if !filepath.IsAbs(includePath) {
				includePath = filepath.Join(baseDir, includePath)
			}
			sub := parseFileInto(includePath, ParseOptions{IncludeBasePath: opts.IncludeBasePath}, dict, seen)
			errs = append(errs, sub...)
			continue
		}

		key, val, ok := splitAssignment(trimmed)
		if !ok {
			errs = append(errs, &Error{File: displayName, Line: pl.line, Msg: "malformed assignment: " + trimmed})
			continue
		}
		dict[key] = parseValue(val)
	}
	return errs
}

type physicalLine struct {
	text string
	line int
}

// splitLinesWithContinuation joins lines ending in a trailing backslash to
// the following line, recording the starting line number of each logical
// line.
func splitLinesWithContinuation(content string) []physicalLine {
	raw := strings.Split(content, "\n")
	var out []physicalLine
	var cur strings.Builder
	startLine := 0
	active := false
	for i, l := range raw {
		lineNo := i + 1
		if !active {
			startLine = lineNo
		}
		stripped := strings.TrimRight(l, "\r")
		if strings.HasSuffix(stripped, `\`) {
			cur.WriteString(strings.TrimSuffix(stripped, `\`))
			active = true
			continue
		}
		cur.WriteString(stripped)
		out = append(out, physicalLine{text: cur.String(), line: startLine})
		cur.Reset()
		active = false
	}
	if active {
		out = append(out, physicalLine{text: cur.String(), line: startLine})
	}
	return out
}

func stripComment(line string) string {
	if idx := strings.Index(line, "//"); idx >= 0 {
		return line[:idx]
	}
	return line
}

func parseIncludePath(line string) (string, bool) {
	rest := strings.TrimSpace(strings.TrimPrefix(line, "#include"))
	rest = strings.TrimPrefix(rest, "?") // #include? optional-include form
	rest = strings.TrimSpace(rest)
	if len(rest) < 2 || rest[0] != '"' || rest[len(rest)-1] != '"' {
		return "", false
	}
	return rest[1 : len(rest)-1], true
}

// splitAssignment splits "KEY[cond] = value" on the first unbracketed '='.
func splitAssignment(line string) (key string, val string, ok bool) {
	depth := 0
	for i, r := range line {
		switch r {
		case '[':
			depth++
		case ']':
			if depth > 0 {
				depth--
			}
		case '=':
			if depth == 0 {
				key = strings.TrimSpace(line[:i])
				val = strings.TrimSpace(line[i+1:])
				if key == "" {
					return "", "", false
				}
				return key, val, true
			}
		}
	}
	return "", "", false
}

// parseValue scans val for $(VAR), $(VAR:modifier) and $VAR references,
// recording their spans without expanding them.
func parseValue(val string) Value {
	v := Value{Raw: val}
	runes := []rune(val)
	for i := 0; i < len(runes); i++ {
		if runes[i] != '$' || i+1 >= len(runes) {
			continue
		}
		if runes[i+1] == '(' {
			end := i + 2
			for end < len(runes) && runes[end] != ')' {
				end++
			}
			if end >= len(runes) {
				continue
			}
			inner := string(runes[i+2 : end])
			name, modifier, _ := strings.Cut(inner, ":")
			v.Refs = append(v.Refs, RefSpan{Name: name, Modifier: modifier, Start: i, End: end + 1})
			i = end
			continue
		}
		// bare $VAR form
		j := i + 1
		for j < len(runes) && isIdentRune(runes[j], j == i+1) {
			j++
		}
		if j > i+1 {
			v.Refs = append(v.Refs, RefSpan{Name: string(runes[i+1 : j]), Start: i, End: j})
			i = j - 1
		}
	}
	return v
}

func isIdentRune(r rune, first bool) bool {
	if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
		return true
	}
	if !first && r >= '0' && r <= '9' {
		return true
	}
	return false
}
