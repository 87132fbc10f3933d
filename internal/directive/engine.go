package directive

import (
	"fmt"
	"strings"

	"github.com/wader/respect/internal/location"
	"github.com/wader/respect/internal/signature"
)

// Scan is the outcome of discovering every directive in one source text:
// matchers with their bound actions, standalone file references not bound to
// any matcher, standalone ignore filters, default-config references, ignored
// VariantGroup regions, and any config errors encountered along the way.
type Scan struct {
	Matchers          []*Matcher
	StandaloneFiles   []*FileAction
	IgnoreFilters     []*IgnoreFilter
	DefaultConfigRefs []string
	IgnoreRegions     []string
	Errors            []*ConfigError
}

// Discover scans text for @Lint<Name>: directive lines and builds the
// matcher/action bindings described in §4.7. isDefaultConfig marks every
// Matcher found as belonging to the target's default config (see Matcher's
// IsDefaultConfig doc).
func Discover(file string, text []byte, isDefaultConfig bool, cache *signature.CompileCache) *Scan {
	s := &Scan{}
	var pending *Matcher

	for _, ln := range joinContinuations(text) {
		trimmed := strings.TrimSpace(ln.text)
		if trimmed == "" {
			pending = nil
			continue
		}

		idx := strings.Index(ln.text, "@Lint")
		if idx < 0 {
			continue
		}
		rest := ln.text[idx+len("@Lint"):]
		colon := strings.IndexByte(rest, ':')
		loc := location.Line(ln.line)
		if colon < 0 {
			s.Errors = append(s.Errors, &ConfigError{File: file, Location: loc, Msg: "malformed directive: missing ':'"})
			continue
		}
		name := rest[:colon]
		arg := strings.TrimSpace(rest[colon+1:])

		kind, ok := knownNames[name]
		if !ok {
			s.Errors = append(s.Errors, &ConfigError{File: file, Location: loc, Msg: fmt.Sprintf("unknown directive @Lint%s:", name)})
			continue
		}

		switch kind {
		case KindExpression:
			compiled, err := cache.Compile(arg)
			if err != nil {
				s.Errors = append(s.Errors, &ConfigError{File: file, Location: loc, Msg: "malformed expression signature: " + err.Error()})
				pending = nil
				continue
			}
			m := &Matcher{Signature: arg, Compiled: compiled, Location: loc, IsDefaultConfig: isDefaultConfig}
			s.Matchers = append(s.Matchers, m)
			pending = m

		case KindFile:
			fa, err := parseFileAction(arg, loc)
			if err != nil {
				s.Errors = append(s.Errors, &ConfigError{File: file, Location: loc, Msg: err.Error()})
				continue
			}
			if pending != nil {
				pending.Actions = append(pending.Actions, *fa)
			} else {
				s.StandaloneFiles = append(s.StandaloneFiles, fa)
			}

		case KindText:
			ta, err := parseTextAction(arg, loc)
			if err != nil {
				s.Errors = append(s.Errors, &ConfigError{File: file, Location: loc, Msg: err.Error()})
				continue
			}
			if pending != nil {
				pending.Actions = append(pending.Actions, *ta)
			}

		case KindIgnoreMissing, KindIgnoreUnused, KindIgnoreWarning, KindIgnoreError:
			if arg == "" {
				s.Errors = append(s.Errors, &ConfigError{File: file, Location: loc, Msg: fmt.Sprintf("@Lint%s: requires a pattern argument", name)})
				continue
			}
			ik := map[Kind]IgnoreKind{
				KindIgnoreMissing: IgnoreKindMissing,
				KindIgnoreUnused:  IgnoreKindUnused,
				KindIgnoreWarning: IgnoreKindWarning,
				KindIgnoreError:   IgnoreKindError,
			}[kind]
			if pending != nil {
				pending.Actions = append(pending.Actions, IgnoreAction{Kind: ik, Pattern: arg, Location: loc})
			} else {
				s.IgnoreFilters = append(s.IgnoreFilters, &IgnoreFilter{Kind: ik, Pattern: arg, Location: loc})
			}

		case KindDefaultConfig:
			if arg == "" {
				s.Errors = append(s.Errors, &ConfigError{File: file, Location: loc, Msg: "@LintDefaultConfig: requires a path argument"})
				continue
			}
			s.DefaultConfigRefs = append(s.DefaultConfigRefs, arg)

		case KindIgnoreRegion:
			if arg == "" {
				s.Errors = append(s.Errors, &ConfigError{File: file, Location: loc, Msg: "@LintIgnoreRegion: requires a region code"})
				continue
			}
			s.IgnoreRegions = append(s.IgnoreRegions, arg)
		}
	}

	return s
}

type continuedLine struct {
	text string
	line int
}

// joinContinuations splits text into logical lines, joining a physical line
// ending in a trailing backslash to the next (directive lines use the same
// continuation convention as .xcconfig, per §4.7).
func joinContinuations(text []byte) []continuedLine {
	raw := strings.Split(string(text), "\n")
	var out []continuedLine
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
		out = append(out, continuedLine{text: cur.String(), line: startLine})
		cur.Reset()
		active = false
	}
	if active {
		out = append(out, continuedLine{text: cur.String(), line: startLine})
	}
	return out
}
