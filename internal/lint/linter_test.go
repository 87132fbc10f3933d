package lint

import (
	"testing"

	"github.com/wader/respect/internal/signature"
)

// fakeSource is a minimal Source used to exercise Lint() without a real
// project tree, per §6's Linter Source contract.
type fakeSource struct {
	files         map[string][]byte
	bundle        map[string]string
	defaultConfig []byte
	defaultName   string
	hasDefault    bool
	warnings      []string
	errs          []string
}

func (s *fakeSource) SourceTextFiles() (map[string][]byte, error) { return s.files, nil }
func (s *fakeSource) BundleResources() (map[string]string, error) { return s.bundle, nil }
func (s *fakeSource) PreexistingWarnings() []string                { return s.warnings }
func (s *fakeSource) PreexistingErrors() []string                  { return s.errs }
func (s *fakeSource) ProjectPath() string                          { return "/proj/App.xcodeproj" }
func (s *fakeSource) TargetName() string                           { return "App" }
func (s *fakeSource) ConfigurationName() string                    { return "Debug" }
func (s *fakeSource) TargetType() TargetType                       { return TargetIOS }
func (s *fakeSource) KnownRegions() []string                       { return []string{"en", "Base"} }
func (s *fakeSource) DeploymentTarget() string                     { return "15.0" }
func (s *fakeSource) DefaultConfigText() ([]byte, string, bool) {
	return s.defaultConfig, s.defaultName, s.hasDefault
}

// TestLint_MissingWithSuggestion covers spec.md §8 scenario 5: bundle has
// splash.png, source references splsh.png, expect one missing reference
// with suggestion "splash.png".
func TestLint_MissingWithSuggestion(t *testing.T) {
	src := &fakeSource{
		files: map[string][]byte{
			"AppDelegate.m": []byte(
				"// @LintExpression: @[UIImage imageNamed:$1]\n" +
					"// @LintFile: $1\n" +
					"\n" +
					"UIImage *x = [UIImage imageNamed:@\"splsh.png\"];\n",
			),
		},
		bundle: map[string]string{
			"splash.png": "/proj/Resources/splash.png",
		},
	}

	res, err := Lint(src, signature.NewCompileCache())
	if err != nil {
		t.Fatalf("Lint: %v", err)
	}
	if len(res.MissingReferences) != 1 {
		t.Fatalf("expected 1 missing reference, got %d: %+v", len(res.MissingReferences), res.MissingReferences)
	}
	got := res.MissingReferences[0]
	if got.Suggestion != "splash.png" {
		t.Errorf("suggestion = %q, want %q", got.Suggestion, "splash.png")
	}
}

// TestLint_UnusedAndIgnore covers spec.md §8 scenario 6: bundle has
// unused_asset.png with no reference; a @LintIgnoreUnused: unused_*.png
// moves it into UnusedResourcesIgnored, and the ignore directive itself is
// not reported as an unused ignore config.
func TestLint_UnusedAndIgnore(t *testing.T) {
	src := &fakeSource{
		files: map[string][]byte{
			"lint.cfg": []byte(
				"@LintIgnoreUnused: unused_*.png\n",
			),
		},
		bundle: map[string]string{
			"unused_asset.png": "/proj/Resources/unused_asset.png",
		},
	}

	res, err := Lint(src, signature.NewCompileCache())
	if err != nil {
		t.Fatalf("Lint: %v", err)
	}
	if len(res.UnusedResources) != 0 {
		t.Errorf("expected 0 unused resources, got %v", res.UnusedResources)
	}
	if len(res.UnusedResourcesIgnored) != 1 || res.UnusedResourcesIgnored[0] != "unused_asset.png" {
		t.Errorf("UnusedResourcesIgnored = %v, want [unused_asset.png]", res.UnusedResourcesIgnored)
	}
	if len(res.UnusedIgnoreConfigs) != 0 {
		t.Errorf("expected the ignore filter to be marked used, got unused configs: %+v", res.UnusedIgnoreConfigs)
	}
}

// TestLint_CaseFoldCountsAsReferenced covers spec.md §8 scenario 2.
func TestLint_CaseFoldCountsAsReferenced(t *testing.T) {
	src := &fakeSource{
		files: map[string][]byte{
			"AppDelegate.m": []byte(
				"// @LintExpression: @[UIImage imageNamed:$1]\n" +
					"// @LintFile: $1\n" +
					"\n" +
					"UIImage *x = [UIImage imageNamed:@\"images/logo.png\"];\n",
			),
		},
		bundle: map[string]string{
			"Images/Logo.png": "/proj/Images/Logo.png",
		},
	}

	res, err := Lint(src, signature.NewCompileCache())
	if err != nil {
		t.Fatalf("Lint: %v", err)
	}
	if len(res.MissingReferences) != 0 {
		t.Fatalf("expected no missing references, got %+v", res.MissingReferences)
	}
	if len(res.UnusedResources) != 0 {
		t.Errorf("expected Images/Logo.png to count as referenced, unused = %v", res.UnusedResources)
	}
	if len(res.CaseMismatches) != 1 {
		t.Fatalf("expected 1 case-mismatch warning, got %+v", res.CaseMismatches)
	}
	cm := res.CaseMismatches[0]
	if cm.Candidate != "images/logo.png" || cm.Resource.BaseName != "Images/Logo.png" {
		t.Errorf("case mismatch = %+v, want candidate %q resolving to %q", cm, "images/logo.png", "Images/Logo.png")
	}
}

// TestLint_BoundIgnoreActionSuppressesMissing exercises a matcher-scoped
// @LintIgnoreMissing bound alongside a @LintFile that references a resource
// absent from the bundle, verifying the fix that propagates matcher-bound
// ignore filters back into the Linter Core's overall filter set.
func TestLint_BoundIgnoreActionSuppressesMissing(t *testing.T) {
	src := &fakeSource{
		files: map[string][]byte{
			"AppDelegate.m": []byte(
				"// @LintExpression: @[UIImage imageNamed:$1]\n" +
					"// @LintFile: $1\n" +
					"// @LintIgnoreMissing: optional_*.png\n" +
					"\n" +
					"UIImage *x = [UIImage imageNamed:@\"optional_icon.png\"];\n",
			),
		},
		bundle: map[string]string{},
	}

	res, err := Lint(src, signature.NewCompileCache())
	if err != nil {
		t.Fatalf("Lint: %v", err)
	}
	if len(res.MissingReferences) != 0 {
		t.Errorf("expected bound ignore to suppress the missing reference, got %+v", res.MissingReferences)
	}
	if len(res.MissingReferencesIgnored) != 1 {
		t.Errorf("expected 1 ignored missing reference, got %d", len(res.MissingReferencesIgnored))
	}
}

// TestLint_DefaultConfigRunsAgainstEveryFile verifies a default-config
// matcher applies to every scanned source file, not just its declaring one.
func TestLint_DefaultConfigRunsAgainstEveryFile(t *testing.T) {
	src := &fakeSource{
		hasDefault:    true,
		defaultName:   "default.cfg",
		defaultConfig: []byte("@LintExpression: @[UIImage imageNamed:$1]\n@LintFile: $1\n"),
		files: map[string][]byte{
			"A.m": []byte(`UIImage *a = [UIImage imageNamed:@"shared.png"];` + "\n"),
			"B.m": []byte(`UIImage *b = [UIImage imageNamed:@"shared.png"];` + "\n"),
		},
		bundle: map[string]string{
			"shared.png": "/proj/shared.png",
		},
	}

	res, err := Lint(src, signature.NewCompileCache())
	if err != nil {
		t.Fatalf("Lint: %v", err)
	}
	if len(res.MissingReferences) != 0 {
		t.Fatalf("expected no missing references, got %+v", res.MissingReferences)
	}
	if !res.ReferencedResources["shared.png"] {
		t.Errorf("expected shared.png to be referenced")
	}
}

// TestLint_PassthroughWarningsAndErrorsFilteredByIgnore verifies step 7:
// preexisting warnings/errors pass through unless matched by a regex ignore.
func TestLint_PassthroughWarningsAndErrorsFilteredByIgnore(t *testing.T) {
	src := &fakeSource{
		files: map[string][]byte{
			"lint.cfg": []byte("@LintIgnoreWarning: deprecated API.*\n"),
		},
		bundle:   map[string]string{},
		warnings: []string{"deprecated API usage in Foo.m", "unrelated warning"},
		errs:     []string{"build error in Bar.m"},
	}

	res, err := Lint(src, signature.NewCompileCache())
	if err != nil {
		t.Fatalf("Lint: %v", err)
	}
	if len(res.LintWarningsIgnored) != 1 || res.LintWarningsIgnored[0] != "deprecated API usage in Foo.m" {
		t.Errorf("LintWarningsIgnored = %v", res.LintWarningsIgnored)
	}
	if len(res.LintWarnings) != 1 || res.LintWarnings[0] != "unrelated warning" {
		t.Errorf("LintWarnings = %v", res.LintWarnings)
	}
	if len(res.LintErrors) != 1 || res.LintErrors[0] != "build error in Bar.m" {
		t.Errorf("LintErrors = %v", res.LintErrors)
	}
}

// TestLint_PermutationPatternOverride exercises a standalone @LintFile
// permutations=<pattern> option that swaps the default "{}"/"," brace
// syntax for a "[]"-paired, ";"-separated one, per spec.md:140. A standalone
// directive (no preceding @LintExpression) carries its path literally, with
// no capture substitution, so this isolates the permutation-pattern
// threading from expression-signature matching.
func TestLint_PermutationPatternOverride(t *testing.T) {
	src := &fakeSource{
		files: map[string][]byte{
			"lint.cfg": []byte("@LintFile: icon-[a;b].png permutations=[]:;\n"),
		},
		bundle: map[string]string{
			"icon-a.png": "/proj/Resources/icon-a.png",
			"icon-b.png": "/proj/Resources/icon-b.png",
		},
	}

	res, err := Lint(src, signature.NewCompileCache())
	if err != nil {
		t.Fatalf("Lint: %v", err)
	}
	if len(res.MissingReferences) != 0 {
		t.Fatalf("expected both permutations to resolve under the overridden pair/separator, got %+v", res.MissingReferences)
	}
	if !res.ReferencedResources["icon-a.png"] || !res.ReferencedResources["icon-b.png"] {
		t.Errorf("expected icon-a.png and icon-b.png both referenced, got %+v", res.ReferencedResources)
	}
}
