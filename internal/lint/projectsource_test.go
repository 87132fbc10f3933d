package lint

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/wader/respect/internal/signature"
	"howett.net/plist"
)

// buildProjectFixture assembles a minimal PBXProject archive with one
// Sources file and one Resources file, for an end-to-end ProjectSource ->
// Lint run.
func buildProjectFixture() map[string]any {
	objects := map[string]any{
		"SRCFILE1": map[string]any{
			"isa":        "PBXFileReference",
			"path":       "AppDelegate.m",
			"sourceTree": "<group>",
		},
		"RESFILE1": map[string]any{
			"isa":        "PBXFileReference",
			"path":       "splash.png",
			"sourceTree": "<group>",
		},
		"MAINGROUP": map[string]any{
			"isa":        "PBXGroup",
			"sourceTree": "<group>",
			"children":   []any{"SRCFILE1", "RESFILE1"},
		},
		"SRCBUILDFILE1": map[string]any{
			"isa":     "PBXBuildFile",
			"fileRef": "SRCFILE1",
		},
		"RESBUILDFILE1": map[string]any{
			"isa":     "PBXBuildFile",
			"fileRef": "RESFILE1",
		},
		"SRCPHASE": map[string]any{
			"isa":   "PBXSourcesBuildPhase",
			"files": []any{"SRCBUILDFILE1"},
		},
		"RESPHASE": map[string]any{
			"isa":   "PBXResourcesBuildPhase",
			"files": []any{"RESBUILDFILE1"},
		},
		"DEBUGCONFIG": map[string]any{
			"isa":           "XCBuildConfiguration",
			"name":          "Debug",
			"buildSettings": map[string]any{"SDKROOT": "iphoneos16.0"},
		},
		"TARGETCONFIGLIST": map[string]any{
			"isa":                 "XCConfigurationList",
			"buildConfigurations": []any{"DEBUGCONFIG"},
		},
		"TARGET1": map[string]any{
			"isa":                    "PBXNativeTarget",
			"name":                   "MyApp",
			"buildPhases":            []any{"SRCPHASE", "RESPHASE"},
			"buildConfigurationList": "TARGETCONFIGLIST",
		},
		"PROJDEBUGCONFIG": map[string]any{
			"isa":           "XCBuildConfiguration",
			"name":          "Debug",
			"buildSettings": map[string]any{},
		},
		"PROJCONFIGLIST": map[string]any{
			"isa":                 "XCConfigurationList",
			"buildConfigurations": []any{"PROJDEBUGCONFIG"},
		},
		"PROJECT1": map[string]any{
			"isa":                    "PBXProject",
			"mainGroup":              "MAINGROUP",
			"buildConfigurationList": "PROJCONFIGLIST",
			"targets":                []any{"TARGET1"},
			"knownRegions":           []any{"en"},
		},
	}
	return map[string]any{
		"archiveVersion": 1,
		"objectVersion":  56,
		"rootObject":     "PROJECT1",
		"objects":        objects,
	}
}

func TestProjectSource_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	pbxPath := filepath.Join(dir, "MyApp.xcodeproj", "project.pbxproj")
	if err := os.MkdirAll(filepath.Dir(pbxPath), 0755); err != nil {
		t.Fatal(err)
	}
	data, err := plist.Marshal(buildProjectFixture(), plist.XMLFormat)
	if err != nil {
		t.Fatalf("plist.Marshal: %v", err)
	}
	if err := os.WriteFile(pbxPath, data, 0644); err != nil {
		t.Fatal(err)
	}

	source := "// @LintExpression: @[UIImage imageNamed:$1]\n" +
		"// @LintFile: $1\n" +
		"\n" +
		"UIImage *x = [UIImage imageNamed:@\"splsh.png\"];\n"
	if err := os.WriteFile(filepath.Join(dir, "AppDelegate.m"), []byte(source), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "splash.png"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	src, err := NewProjectSource(pbxPath, "MyApp", "Debug", nil)
	if err != nil {
		t.Fatalf("NewProjectSource: %v", err)
	}
	if src.TargetType() != TargetIOS {
		t.Errorf("TargetType = %v, want iOS", src.TargetType())
	}

	res, err := Lint(src, signature.NewCompileCache())
	if err != nil {
		t.Fatalf("Lint: %v", err)
	}
	if len(res.MissingReferences) != 1 {
		t.Fatalf("expected 1 missing reference (splsh.png vs splash.png), got %+v", res.MissingReferences)
	}
	if res.MissingReferences[0].Suggestion != "splash.png" {
		t.Errorf("suggestion = %q, want splash.png", res.MissingReferences[0].Suggestion)
	}
}
