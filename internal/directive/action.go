package directive

import (
	"fmt"
	"strings"

	"github.com/wader/respect/internal/location"
	"github.com/wader/respect/internal/stringutil"
)

// Action is one effect bound under a Matcher's preceding @LintExpression,
// invoked once per regex match with that match's captured arguments.
type Action interface{ action() }

// FileAction produces one ResourceReference per permutation of Path (after
// $1/$2/... substitution from the owning Matcher's captures), per §4.7.
type FileAction struct {
	Path               string
	Condition          FileReferenceCondition
	PermutationPattern string // explicit permutations=<pattern> override, if any
	Options            []string
	Location           location.Location
}

// IgnoreAction is a @LintIgnore* directive bound inside a matcher's scope.
// It takes effect only once its matcher has matched somewhere; from then on
// it filters findings project-wide, like a standalone ignore filter, and is
// not limited to the files that matcher matched.
type IgnoreAction struct {
	Kind     IgnoreKind
	Pattern  string
	Location location.Location
}

// TextAction carries a free-form hint string, surfaced onto every
// ResourceReference produced by sibling FileActions in the same scope.
// Recovered from original_source's FileAction.h performParameters field,
// dropped by the distillation: a matcher's file action can carry author
// guidance (e.g. "renamed from v1 asset naming") that a plain-text or Xcode
// formatter should display alongside a missing/unused finding.
type TextAction struct {
	Hint     string
	Location location.Location
}

func (FileAction) action()    {}
func (IgnoreAction) action()  {}
func (TextAction) action()    {}

// parseFileAction parses a @LintFile: argument string: the first
// whitespace-separated token (honoring quotes) is the path, the rest are
// ordered options (bare flags "optional"/"any", or "permutations=<pattern>").
func parseFileAction(arg string, loc location.Location) (*FileAction, error) {
	tokens := stringutil.SplitQuotedWhitespace(arg)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("@LintFile: requires a path argument")
	}
	fa := &FileAction{Path: tokens[0], Condition: ConditionAll, Location: loc, Options: tokens[1:]}
	for _, opt := range fa.Options {
		switch {
		case opt == "optional":
			fa.Condition = ConditionOptional
		case opt == "any":
			fa.Condition = ConditionAny
		case opt == "all":
			fa.Condition = ConditionAll
		case strings.HasPrefix(opt, "permutations="):
			fa.PermutationPattern = strings.TrimPrefix(opt, "permutations=")
		default:
			return nil, fmt.Errorf("@LintFile: unrecognized option %q", opt)
		}
	}
	return fa, nil
}

// parseTextAction parses a (supplemented) @LintText: argument string: the
// entire trimmed remainder is the hint.
func parseTextAction(arg string, loc location.Location) (*TextAction, error) {
	if strings.TrimSpace(arg) == "" {
		return nil, fmt.Errorf("@LintText: requires a hint argument")
	}
	return &TextAction{Hint: strings.TrimSpace(arg), Location: loc}, nil
}
