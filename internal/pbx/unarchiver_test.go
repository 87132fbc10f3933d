package pbx

import (
	"os"
	"path/filepath"
	"testing"

	"howett.net/plist"
)

// buildFixtureArchive assembles a minimal but structurally complete
// PBXProject object graph (one target, one resource, one group) and returns
// it as the top-level map that a real .pbxproj file decodes to.
func buildFixtureArchive() map[string]any {
	objects := map[string]any{
		"FILE1": map[string]any{
			"isa":        "PBXFileReference",
			"path":       "icon.png",
			"sourceTree": "<group>",
		},
		"GROUP1": map[string]any{
			"isa":        "PBXGroup",
			"path":       "Resources",
			"sourceTree": "<group>",
			"children":   []any{"FILE1"},
		},
		"MAINGROUP": map[string]any{
			"isa":        "PBXGroup",
			"sourceTree": "<group>",
			"children":   []any{"GROUP1"},
		},
		"BUILDFILE1": map[string]any{
			"isa":     "PBXBuildFile",
			"fileRef": "FILE1",
		},
		"RESPHASE": map[string]any{
			"isa":   "PBXResourcesBuildPhase",
			"files": []any{"BUILDFILE1"},
		},
		"DEBUGCONFIG": map[string]any{
			"isa":  "XCBuildConfiguration",
			"name": "Debug",
			"buildSettings": map[string]any{
				"PRODUCT_NAME":    "MyApp",
				"OTHER_LDFLAGS":   []any{"$(inherited)", "-ObjC"},
				"INFOPLIST_FILE":  "$(SRCROOT)/Info.plist",
			},
		},
		"TARGETCONFIGLIST": map[string]any{
			"isa":                  "XCConfigurationList",
			"buildConfigurations": []any{"DEBUGCONFIG"},
		},
		"TARGET1": map[string]any{
			"isa":                    "PBXNativeTarget",
			"name":                   "MyApp",
			"buildPhases":            []any{"RESPHASE"},
			"buildConfigurationList": "TARGETCONFIGLIST",
		},
		"PROJDEBUGCONFIG": map[string]any{
			"isa":  "XCBuildConfiguration",
			"name": "Debug",
			"buildSettings": map[string]any{
				"OTHER_LDFLAGS": []any{"-framework", "UIKit"},
			},
		},
		"PROJCONFIGLIST": map[string]any{
			"isa":                  "XCConfigurationList",
			"buildConfigurations": []any{"PROJDEBUGCONFIG"},
		},
		"PROJECT1": map[string]any{
			"isa":                    "PBXProject",
			"mainGroup":              "MAINGROUP",
			"buildConfigurationList": "PROJCONFIGLIST",
			"targets":                []any{"TARGET1", "BOGUS1"},
			"knownRegions":           []any{"en", "Base"},
		},
		"BOGUS1": map[string]any{
			"isa": "PBXLegacyTarget",
		},
	}
	return map[string]any{
		"archiveVersion": 1,
		"objectVersion":  56,
		"rootObject":     "PROJECT1",
		"objects":        objects,
	}
}

func mustMarshalArchive(t *testing.T, root map[string]any) []byte {
	t.Helper()
	data, err := plist.Marshal(root, plist.XMLFormat)
	if err != nil {
		t.Fatalf("plist.Marshal: %v", err)
	}
	return data
}

func TestUnarchive_Structure(t *testing.T) {
	dir := t.TempDir()
	pbxPath := filepath.Join(dir, "MyApp.xcodeproj", "project.pbxproj")
	if err := os.MkdirAll(filepath.Dir(pbxPath), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "Info.plist"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "icon.png"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "Resources"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "Resources", "icon.png"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	data := mustMarshalArchive(t, buildFixtureArchive())
	if err := os.WriteFile(pbxPath, data, 0644); err != nil {
		t.Fatal(err)
	}
	raw, err := os.ReadFile(pbxPath)
	if err != nil {
		t.Fatal(err)
	}

	proj, warnings, err := Unarchive(raw, pbxPath)
	if err != nil {
		t.Fatalf("Unarchive: %v", err)
	}
	foundUnknown := false
	for _, w := range warnings {
		if w != "" {
			foundUnknown = true
		}
	}
	if !foundUnknown {
		t.Error("expected a warning about the unknown PBXLegacyTarget class")
	}

	if proj.Root == nil || proj.Root.Kind != KindProject {
		t.Fatal("root not built")
	}
	if proj.MainGroup == nil || len(proj.MainGroup.Children) != 1 {
		t.Fatalf("mainGroup children = %+v", proj.MainGroup)
	}
	group := proj.MainGroup.Children[0]
	if group.Parent != proj.MainGroup || group.Project != proj.Root {
		t.Error("fixupParents did not set back-edges correctly")
	}
	if len(group.Children) != 1 || group.Children[0].Path != "icon.png" {
		t.Fatalf("group children = %+v", group.Children)
	}

	if len(proj.Targets) != 1 || proj.Targets[0].Name != "MyApp" {
		t.Fatalf("targets = %+v", proj.Targets)
	}
	target := proj.Targets[0]
	debug := target.ConfigurationNamed("Debug")
	if debug == nil {
		t.Fatal("target Debug configuration missing")
	}
	if debug.Parent == nil || debug.Parent.Name != "Debug" {
		t.Error("per-target configuration parent not bound to same-named root configuration")
	}

	if len(proj.KnownRegions) != 2 {
		t.Errorf("knownRegions = %+v", proj.KnownRegions)
	}
}

func TestPrepare_InheritedSplicingAndLookup(t *testing.T) {
	dir := t.TempDir()
	pbxPath := filepath.Join(dir, "MyApp.xcodeproj", "project.pbxproj")
	if err := os.MkdirAll(filepath.Dir(pbxPath), 0755); err != nil {
		t.Fatal(err)
	}

	raw := mustMarshalArchive(t, buildFixtureArchive())
	proj, _, err := Unarchive(raw, pbxPath)
	if err != nil {
		t.Fatalf("Unarchive: %v", err)
	}

	m, err := Prepare(proj, "MyApp", "Debug", nil)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	flags, ok := m.Lookup("OTHER_LDFLAGS")
	if !ok {
		t.Fatal("OTHER_LDFLAGS unresolved")
	}
	want := "-framework UIKit -ObjC"
	if flags != want {
		t.Errorf("OTHER_LDFLAGS = %q, want %q", flags, want)
	}

	infoplist, ok := m.Lookup("INFOPLIST_FILE")
	if !ok || infoplist != m.SourceRoot()+"/Info.plist" {
		t.Errorf("INFOPLIST_FILE = %q, ok=%v", infoplist, ok)
	}
}

func TestBuildResourceIndex(t *testing.T) {
	dir := t.TempDir()
	pbxPath := filepath.Join(dir, "MyApp.xcodeproj", "project.pbxproj")
	if err := os.MkdirAll(filepath.Dir(pbxPath), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "Resources"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "Resources", "icon.png"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	raw := mustMarshalArchive(t, buildFixtureArchive())
	proj, _, err := Unarchive(raw, pbxPath)
	if err != nil {
		t.Fatalf("Unarchive: %v", err)
	}
	m, err := Prepare(proj, "MyApp", "Debug", nil)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	idx, _ := BuildResourceIndex(m)
	if len(idx.Exact("icon.png")) != 1 {
		t.Errorf("expected icon.png indexed once, got %+v", idx.Exact("icon.png"))
	}
	if len(idx.CaseFold("ICON.PNG")) != 1 {
		t.Error("expected case-fold lookup to find icon.png")
	}
}
