package lint

import (
	"regexp"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/wader/respect/internal/directive"
)

// matchGlobFilter finds the first filter of kind (matched before or not) whose glob
// pattern matches path (used for missing/unused, §4.9 step 6), marking it
// Matched so unused-ignore-config detection can run afterward.
func matchGlobFilter(filters []*directive.IgnoreFilter, kind directive.IgnoreKind, path string) *directive.IgnoreFilter {
	for _, f := range filters {
		if f.Kind != kind {
			continue
		}
		ok, err := doublestar.Match(f.Pattern, path)
		if err != nil || !ok {
			continue
		}
		f.Matched = true
		return f
	}
	return nil
}

// matchRegexFilter finds the first filter of kind whose regex matches text
// (used for lint warnings/errors, §4.9 step 6).
func matchRegexFilter(filters []*directive.IgnoreFilter, kind directive.IgnoreKind, text string) *directive.IgnoreFilter {
	for _, f := range filters {
		if f.Kind != kind {
			continue
		}
		re, err := regexp.Compile(f.Pattern)
		if err != nil {
			continue
		}
		if re.MatchString(text) {
			f.Matched = true
			return f
		}
	}
	return nil
}
