package directive

import (
	"github.com/wader/respect/internal/location"
	"github.com/wader/respect/internal/signature"
)

// Matcher binds a compiled expression signature to the actions declared
// immediately after its @LintExpression: line, until a blank line or the
// next @LintExpression: (§4.7).
type Matcher struct {
	Signature string
	Compiled  *signature.Compiled
	Actions   []Action
	Location  location.Location

	// IsDefaultConfig marks a matcher discovered in a target's default
	// config text rather than a scanned project source file: such matchers
	// run against every scanned file, where a per-file matcher only runs
	// against the file that declared it (recovered from original_source's
	// FileAction.h isDefaultConfig field, dropped by the distillation).
	IsDefaultConfig bool
}
