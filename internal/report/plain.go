// Package report formats a *lint.Result for human consumption: plain text
// here, and (in report/tui) an interactive findings browser.
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/wader/respect/internal/lint"
)

// WritePlain renders res as plain text to w, one finding per line, sections
// ordered config errors, missing references (ignored ones noted beneath),
// case mismatches, unused resources (ignored ones noted beneath), warnings,
// errors, then ignore patterns that never matched. Ignored warnings and
// errors are not printed.
func WritePlain(w io.Writer, res *lint.Result) {
	for _, f := range res.ConfigErrors {
		fmt.Fprintln(w, f.Error())
	}

	for _, m := range res.MissingReferences {
		fmt.Fprintf(w, "%s: missing resource %q", m.Location, m.Missing)
		if m.Suggestion != "" {
			fmt.Fprintf(w, " (did you mean %q?)", m.Suggestion)
		}
		if m.Hint != "" {
			fmt.Fprintf(w, " — %s", m.Hint)
		}
		fmt.Fprintln(w)
	}
	for _, m := range res.MissingReferencesIgnored {
		fmt.Fprintf(w, "ignored: missing resource %q\n", m.Missing)
	}

	for _, cm := range res.CaseMismatches {
		fmt.Fprintf(w, "%s: warning: case mismatch, referenced %q, bundle resource is %q\n", cm.Location, cm.Candidate, cm.Resource.BaseName)
	}

	unused := append([]string{}, res.UnusedResources...)
	sort.Strings(unused)
	for _, u := range unused {
		fmt.Fprintf(w, "unused resource %q\n", u)
	}
	ignoredUnused := append([]string{}, res.UnusedResourcesIgnored...)
	sort.Strings(ignoredUnused)
	for _, u := range ignoredUnused {
		fmt.Fprintf(w, "ignored: unused resource %q\n", u)
	}

	for _, warn := range res.LintWarnings {
		fmt.Fprintf(w, "warning: %s\n", warn)
	}
	for _, e := range res.LintErrors {
		fmt.Fprintf(w, "error: %s\n", e)
	}

	for _, f := range res.UnusedIgnoreConfigs {
		fmt.Fprintf(w, "%s: ignore pattern %q never matched anything\n", f.Location, f.Pattern)
	}
}

// ExitCode returns 1 if res carries any unignored finding worth failing a CI
// build over (lint errors or missing references), 0 otherwise.
func ExitCode(res *lint.Result) int {
	if len(res.LintErrors) > 0 || len(res.MissingReferences) > 0 {
		return 1
	}
	return 0
}
