// Package resolve implements reference resolution (§4.8): expanding a
// referenced path's brace permutations and looking each candidate up in the
// bundle resource index, classifying the result by its FileReferenceCondition.
package resolve

import (
	"strings"

	"github.com/wader/respect/internal/directive"
	"github.com/wader/respect/internal/location"
	"github.com/wader/respect/internal/pbx"
	"github.com/wader/respect/internal/stringutil"
)

// Outcome is the result of resolving one reference.
type Outcome struct {
	// Path is the original (un-expanded) reference text.
	Path      string
	Condition directive.FileReferenceCondition
	Location  location.Location

	// Resolved is every bundle resource a permutation candidate hit
	// (exact or case-folded).
	Resolved []*pbx.Resource
	// CaseMismatches holds, for each permutation that matched only the
	// case-folded index, the exact candidate text attempted and the
	// resource it matched.
	CaseMismatches []CaseMismatch
	// Missing is set when the condition was not satisfied: the first
	// unresolved permutation candidate, plus its suggestion if any.
	Missing    string
	Suggestion string
	IsMissing  bool

	// Hint is carried from a sibling TextAction bound in the same matcher
	// scope, if any (see internal/directive.TextAction).
	Hint string
}

// CaseMismatch records a candidate that matched the index only after
// case-folding (§4.8 step 4: "emit a warning carrying both the referenced
// and actual forms").
type CaseMismatch struct {
	Candidate string
	Resource  *pbx.Resource
	Location  location.Location
}

// Resolve expands path's brace permutations and resolves each candidate
// against idx, classifying the outcome per cond (§4.8 steps 1-5).
//
// permutationPattern is the raw text of a @LintFile `permutations=<pattern>`
// option (empty string for the default "{}"-pair, comma-separated form). A
// pattern of the form "<pair>:<separators>" overrides both the brace pair
// and the separator charset, e.g. "[]:;" expands "icon[2x;3x]" on "[", "]"
// and ";"; a pattern with no colon overrides only the pair, keeping the
// default comma separator.
func Resolve(path string, cond directive.FileReferenceCondition, loc location.Location, idx *pbx.Index, allPaths []string, permutationPattern string) Outcome {
	out := Outcome{Path: path, Condition: cond, Location: loc}
	pair, separators := parsePermutationPattern(permutationPattern)
	candidates := stringutil.Permutations(path, pair, separators)

	anyResolved := false
	firstUnresolved := ""
	for _, cand := range candidates {
		if hits := idx.Exact(cand); len(hits) > 0 {
			out.Resolved = append(out.Resolved, hits...)
			anyResolved = true
			continue
		}
		if hits := idx.CaseFold(cand); len(hits) > 0 {
			out.Resolved = append(out.Resolved, hits...)
			out.CaseMismatches = append(out.CaseMismatches, CaseMismatch{Candidate: cand, Resource: hits[0], Location: loc})
			anyResolved = true
			continue
		}
		if firstUnresolved == "" {
			firstUnresolved = cand
		}
	}

	switch cond {
	case directive.ConditionAny:
		out.IsMissing = !anyResolved
		if out.IsMissing && len(candidates) > 0 {
			out.Missing = candidates[0]
		}
	case directive.ConditionOptional:
		out.IsMissing = false
	default: // ConditionAll
		out.IsMissing = firstUnresolved != ""
		out.Missing = firstUnresolved
	}

	if out.IsMissing {
		threshold := stringutil.SuggestionThreshold(len(out.Missing))
		if s, ok := stringutil.BestSuggestion(out.Missing, allPaths, threshold); ok {
			out.Suggestion = s
		}
	}

	return out
}

// parsePermutationPattern splits a permutations=<pattern> option value into
// the brace-pair and separator-charset arguments stringutil.Permutations
// expects; either half left empty falls back to stringutil.Permutations'
// own "{}"/"," defaults.
func parsePermutationPattern(pattern string) (pair, separators string) {
	if pattern == "" {
		return "", ""
	}
	if i := strings.IndexByte(pattern, ':'); i >= 0 {
		return pattern[:i], pattern[i+1:]
	}
	return pattern, ""
}
