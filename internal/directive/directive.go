// Package directive discovers @Lint<Name>: directive lines inside arbitrary
// source text, binds expression-signature matchers to the actions that
// follow them, and parses standalone ignore filters and default-config
// references.
package directive

import "github.com/wader/respect/internal/location"

// Kind discriminates the directives known to the core (§4.7), plus the
// supplemented @LintIgnoreRegion (see engine.go doc comment).
type Kind int

const (
	KindExpression Kind = iota
	KindFile
	KindIgnoreMissing
	KindIgnoreUnused
	KindIgnoreWarning
	KindIgnoreError
	KindDefaultConfig
	KindIgnoreRegion
	KindText
)

var knownNames = map[string]Kind{
	"Expression":    KindExpression,
	"File":          KindFile,
	"IgnoreMissing": KindIgnoreMissing,
	"IgnoreUnused":  KindIgnoreUnused,
	"IgnoreWarning": KindIgnoreWarning,
	"IgnoreError":   KindIgnoreError,
	"DefaultConfig": KindDefaultConfig,
	"IgnoreRegion":  KindIgnoreRegion,
	"Text":          KindText,
}

// ConfigError is a directive-line parse error, carrying its source location
// per spec §7's Config error kind.
type ConfigError struct {
	File     string
	Location location.Location
	Msg      string
}

func (e *ConfigError) Error() string {
	return e.File + ": " + e.Location.String() + ": " + e.Msg
}

// FileReferenceCondition is how many permutations of a FileAction's
// argument must resolve for the reference to be satisfied (§4.8).
type FileReferenceCondition int

const (
	ConditionAll FileReferenceCondition = iota
	ConditionAny
	ConditionOptional
)

func (c FileReferenceCondition) String() string {
	switch c {
	case ConditionAny:
		return "any"
	case ConditionOptional:
		return "optional"
	default:
		return "all"
	}
}

// IgnoreKind discriminates the four ignore-filter directives.
type IgnoreKind int

const (
	IgnoreKindMissing IgnoreKind = iota
	IgnoreKindUnused
	IgnoreKindWarning
	IgnoreKindError
)

// IgnoreFilter is a parsed @LintIgnore* directive: missing/unused filters
// hold a glob, warning/error filters hold a regex (§4.9 step 6).
type IgnoreFilter struct {
	Kind     IgnoreKind
	Pattern  string
	Location location.Location
	Matched  bool // set true the first time this filter suppresses a finding
}
