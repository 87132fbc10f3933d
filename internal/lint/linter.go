package lint

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/wader/respect/internal/directive"
	"github.com/wader/respect/internal/location"
	"github.com/wader/respect/internal/pbx"
	"github.com/wader/respect/internal/resolve"
	"github.com/wader/respect/internal/rx"
	"github.com/wader/respect/internal/signature"
)

// Result holds the Linter Core's result arrays (§6's Report contract):
// formatters walk these by name and are not part of the core.
type Result struct {
	ConfigErrors []*Finding

	LintWarnings        []string
	LintWarningsIgnored []string
	LintErrors          []string
	LintErrorsIgnored   []string

	MissingReferences        []resolve.Outcome
	MissingReferencesIgnored []resolve.Outcome

	// CaseMismatches holds every reference whose permutation candidate
	// resolved only via the case-folded index, not the exact one (§4.8
	// step 4): each carries the exact text attempted and the resource it
	// actually matched.
	CaseMismatches []resolve.CaseMismatch

	UnusedResources        []string
	UnusedResourcesIgnored []string

	UnusedIgnoreConfigs []*directive.IgnoreFilter

	ReferencedResources map[string]bool

	missingOutcomes []resolve.Outcome
	boundFilters    []*directive.IgnoreFilter
}

// Lint runs the full sequence from §4.9 against src.
func Lint(src Source, cache *signature.CompileCache) (*Result, error) {
	res := &Result{ReferencedResources: map[string]bool{}}

	var allFilters []*directive.IgnoreFilter
	var defaultMatchers []*directive.Matcher
	var standaloneFiles []*directive.FileAction

	// Step 1: default config.
	if text, name, ok := src.DefaultConfigText(); ok {
		scan := directive.Discover(name, text, true, cache)
		res.appendConfigErrors(name, scan.Errors)
		defaultMatchers = append(defaultMatchers, scan.Matchers...)
		allFilters = append(allFilters, scan.IgnoreFilters...)
		standaloneFiles = append(standaloneFiles, scan.StandaloneFiles...)
	}

	// Step 2: bundle resources.
	bundlePaths, err := src.BundleResources()
	if err != nil {
		return nil, err
	}
	idx := pbx.NewIndexFromBundlePaths(bundlePaths)
	allBaseNames := resolve.AllBaseNames(idx)

	// Step 3: discover directives per source file, in key-sorted order.
	files, err := src.SourceTextFiles()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	perFileMatchers := map[string][]*directive.Matcher{}
	for _, name := range names {
		scan := directive.Discover(name, files[name], false, cache)
		res.appendConfigErrors(name, scan.Errors)
		perFileMatchers[name] = scan.Matchers
		allFilters = append(allFilters, scan.IgnoreFilters...)
		standaloneFiles = append(standaloneFiles, scan.StandaloneFiles...)
	}

	// Step 3b: standalone @LintFile references (not bound to any matcher)
	// resolve immediately, with no capture substitution available.
	for _, fa := range standaloneFiles {
		res.resolveFileAction(fa.Path, fa.Condition, fa.Location, idx, allBaseNames, allFilters, "", fa.PermutationPattern)
	}

	// Step 4: run matchers (default-config ones against every file, each
	// file's own matchers against only that file), in declaration order.
	for _, name := range names {
		text := files[name]
		lt := rx.NewLineTable(text)
		matchers := append(append([]*directive.Matcher{}, defaultMatchers...), perFileMatchers[name]...)
		for _, m := range matchers {
			runMatcher(m, text, lt, idx, allBaseNames, allFilters, res)
		}
	}
	allFilters = append(allFilters, res.boundFilters...)

	// Step 5 & 6: unused resources.
	var unusedKeys []string
	for bundlePath := range bundlePaths {
		if !res.ReferencedResources[bundlePath] {
			unusedKeys = append(unusedKeys, bundlePath)
		}
	}
	sort.Strings(unusedKeys)
	for _, k := range unusedKeys {
		if f := matchGlobFilter(allFilters, directive.IgnoreKindUnused, k); f != nil {
			res.UnusedResourcesIgnored = append(res.UnusedResourcesIgnored, k)
		} else {
			res.UnusedResources = append(res.UnusedResources, k)
		}
	}

	// Step 6 (missing): partition by ignore glob.
	res.partitionMissing(allFilters)

	// Step 7: passthrough warnings/errors, filtered by regex ignores.
	for _, w := range src.PreexistingWarnings() {
		if f := matchRegexFilter(allFilters, directive.IgnoreKindWarning, w); f != nil {
			res.LintWarningsIgnored = append(res.LintWarningsIgnored, w)
		} else {
			res.LintWarnings = append(res.LintWarnings, w)
		}
	}
	for _, e := range src.PreexistingErrors() {
		if f := matchRegexFilter(allFilters, directive.IgnoreKindError, e); f != nil {
			res.LintErrorsIgnored = append(res.LintErrorsIgnored, e)
		} else {
			res.LintErrors = append(res.LintErrors, e)
		}
	}

	for _, f := range allFilters {
		if !f.Matched {
			res.UnusedIgnoreConfigs = append(res.UnusedIgnoreConfigs, f)
		}
	}

	return res, nil
}

func (res *Result) appendConfigErrors(file string, errs []*directive.ConfigError) {
	for _, e := range errs {
		res.ConfigErrors = append(res.ConfigErrors, &Finding{Kind: KindConfig, File: file, Location: e.Location, Msg: e.Msg})
	}
}

// runMatcher executes one matcher's compiled regex over text and dispatches
// every bound action on each match.
func runMatcher(m *directive.Matcher, text []byte, lt *rx.LineTable, idx *pbx.Index, allBaseNames []string, filters []*directive.IgnoreFilter, res *Result) {
	matches := m.Compiled.FindAllWithLines(text, lt)
	if len(matches) == 0 {
		return
	}
	runes := []rune(string(text))

	for _, match := range matches {
		var hint string
		for _, a := range m.Actions {
			if ta, ok := a.(directive.TextAction); ok {
				hint = ta.Hint
			}
		}
		for _, a := range m.Actions {
			switch act := a.(type) {
			case directive.FileAction:
				path := substituteArgs(act.Path, m.Compiled, match.Match, runes)
				res.resolveFileAction(path, act.Condition, match.Location, idx, allBaseNames, filters, hint, act.PermutationPattern)
			case directive.IgnoreAction:
				res.boundFilters = append(res.boundFilters, &directive.IgnoreFilter{Kind: act.Kind, Pattern: act.Pattern, Location: act.Location})
			}
		}
	}
}

var argRefRe = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*|[0-9]+)`)

// substituteArgs replaces every $N/$name token in template with its
// captured value from match, per §4.7 ("one ResourceReference per
// permutation of its argument after parameter substitution"). A captured
// string literal ("..." or @"...") contributes its unquoted contents.
func substituteArgs(template string, c *signature.Compiled, m rx.Match, runes []rune) string {
	return argRefRe.ReplaceAllStringFunc(template, func(tok string) string {
		key := tok[1:]
		v := c.Arg(m, runes, key)
		lit := strings.TrimPrefix(v, "@")
		if len(lit) >= 2 && lit[0] == '"' && lit[len(lit)-1] == '"' {
			if s, err := strconv.Unquote(lit); err == nil {
				return s
			}
			return lit[1 : len(lit)-1]
		}
		return v
	})
}

func (res *Result) resolveFileAction(path string, cond directive.FileReferenceCondition, loc location.Location, idx *pbx.Index, allBaseNames []string, filters []*directive.IgnoreFilter, hint string, permutationPattern string) {
	out := resolve.Resolve(path, cond, loc, idx, allBaseNames, permutationPattern)
	out.Hint = hint
	for _, r := range out.Resolved {
		res.ReferencedResources[r.BaseName] = true
	}
	res.CaseMismatches = append(res.CaseMismatches, out.CaseMismatches...)
	if out.IsMissing {
		res.missingOutcomes = append(res.missingOutcomes, out)
	}
}

// partitionMissing applies the missing-ignore glob filter over the
// accumulated missing-reference outcomes (§4.9 step 6).
func (res *Result) partitionMissing(filters []*directive.IgnoreFilter) {
	for _, out := range res.missingOutcomes {
		if f := matchGlobFilter(filters, directive.IgnoreKindMissing, out.Missing); f != nil {
			res.MissingReferencesIgnored = append(res.MissingReferencesIgnored, out)
		} else {
			res.MissingReferences = append(res.MissingReferences, out)
		}
	}
}
