// Package rx wraps the standard library's regexp engine with a facade that
// enumerates matches over a UTF-8 byte buffer while delivering captures as
// codepoint-indexed ranges, plus a line-number overlay for source scanning.
package rx

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/wader/respect/internal/location"
)

// Regex wraps a compiled *regexp.Regexp; the byte->codepoint table that
// converts regexp's byte offsets into codepoint offsets is built per call.
type Regex struct {
	re *regexp.Regexp
}

// Compile compiles pattern, optionally with a trailing "/flags" suffix
// (e.g. "foo(bar)/im") where supported flags are 'i' (case-insensitive) and
// 'm' (multiline). A pattern with no trailing slash-flags is compiled as-is.
func Compile(patternAndFlags string) (*Regex, error) {
	pattern, flags := splitPatternFlags(patternAndFlags)
	expr := pattern
	if flags != "" {
		expr = "(?" + flags + ")" + pattern
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &Regex{re: re}, nil
}

// MustCompile is like Compile but panics on error, for use with
// known-good literal patterns.
func MustCompile(patternAndFlags string) *Regex {
	re, err := Compile(patternAndFlags)
	if err != nil {
		panic(err)
	}
	return re
}

// splitPatternFlags splits "<pattern>/flags" on the last unescaped '/' that
// is followed only by letters in [im]. If no such split exists, flags is "".
func splitPatternFlags(s string) (pattern string, flags string) {
	idx := strings.LastIndexByte(s, '/')
	if idx < 0 || idx == len(s)-1 {
		return s, ""
	}
	tail := s[idx+1:]
	for _, c := range tail {
		if c != 'i' && c != 'm' {
			return s, ""
		}
	}
	if idx > 0 && s[idx-1] == '\\' {
		return s, ""
	}
	return s[:idx], tail
}

// Match is one match of a Regex against a buffer: codepoint-indexed ranges
// for the whole match plus each named group.
type Match struct {
	Range  [2]int // codepoint [start,end)
	Groups map[string][2]int
}

// Group returns the substring of text (as runes) covered by a named group,
// or "" if the group did not participate in the match.
func (m Match) Group(s []rune, name string) string {
	r, ok := m.Groups[name]
	if !ok {
		return ""
	}
	return string(s[r[0]:r[1]])
}

// byteToCodepoint builds a table mapping byte offset -> codepoint offset for
// buf, suitable for converting regexp's byte-indexed submatch offsets.
func byteToCodepoint(buf []byte) []int {
	table := make([]int, len(buf)+1)
	cp := 0
	i := 0
	for i < len(buf) {
		table[i] = cp
		_, size := utf8.DecodeRune(buf[i:])
		if size == 0 {
			size = 1
		}
		i += size
		cp++
	}
	table[len(buf)] = cp
	return table
}

// FindAll enumerates every non-overlapping match of re over buf (assumed
// valid UTF-8), returning codepoint-indexed ranges.
func (re *Regex) FindAll(buf []byte) []Match {
	names := re.re.SubexpNames()
	idxs := re.re.FindAllSubmatchIndex(buf, -1)
	if idxs == nil {
		return nil
	}
	table := byteToCodepoint(buf)

	matches := make([]Match, 0, len(idxs))
	for _, idx := range idxs {
		m := Match{
			Range:  [2]int{table[idx[0]], table[idx[1]]},
			Groups: map[string][2]int{},
		}
		for gi := 1; gi*2 < len(idx); gi++ {
			name := names[gi]
			if name == "" {
				continue
			}
			s, e := idx[gi*2], idx[gi*2+1]
			if s < 0 {
				continue
			}
			m.Groups[name] = [2]int{table[s], table[e]}
		}
		matches = append(matches, m)
	}
	return matches
}

// LineTable maps byte offsets within a buffer to 1-based line numbers and
// in-line byte ranges. Build once per source file via NewLineTable.
type LineTable struct {
	// starts[i] is the byte offset where line i+1 begins.
	starts []int
	length int
}

// NewLineTable precomputes per-line byte start offsets for buf.
func NewLineTable(buf []byte) *LineTable {
	starts := []int{0}
	for i, b := range buf {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineTable{starts: starts, length: len(buf)}
}

// Locate converts a byte offset into a 1-based line number and a
// byte-offset-within-line.
func (lt *LineTable) Locate(byteOffset int) location.Location {
	// binary search for the last start <= byteOffset
	lo, hi := 0, len(lt.starts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if lt.starts[mid] <= byteOffset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	line := lo + 1
	inLine := byteOffset - lt.starts[lo]
	return location.New(line, location.Range{Start: inLine, End: inLine})
}

// FindAllWithLines is FindAll plus a per-match Location computed from the
// match's starting byte offset via lt.
func (re *Regex) FindAllWithLines(buf []byte, lt *LineTable) []MatchWithLine {
	names := re.re.SubexpNames()
	idxs := re.re.FindAllSubmatchIndex(buf, -1)
	if idxs == nil {
		return nil
	}
	table := byteToCodepoint(buf)

	out := make([]MatchWithLine, 0, len(idxs))
	for _, idx := range idxs {
		m := Match{
			Range:  [2]int{table[idx[0]], table[idx[1]]},
			Groups: map[string][2]int{},
		}
		for gi := 1; gi*2 < len(idx); gi++ {
			name := names[gi]
			if name == "" {
				continue
			}
			s, e := idx[gi*2], idx[gi*2+1]
			if s < 0 {
				continue
			}
			m.Groups[name] = [2]int{table[s], table[e]}
		}
		loc := lt.Locate(idx[0])
		out = append(out, MatchWithLine{Match: m, Location: loc})
	}
	return out
}

// MatchWithLine pairs a Match with the source Location of its start.
type MatchWithLine struct {
	Match
	Location location.Location
}
