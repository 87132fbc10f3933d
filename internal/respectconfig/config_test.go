package respectconfig

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestRead_MissingFileReturnsZeroValue(t *testing.T) {
	cfg, err := Read(t.TempDir())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !reflect.DeepEqual(cfg, Config{}) {
		t.Errorf("expected zero Config, got %+v", cfg)
	}
}

func TestRead_ParsesYAML(t *testing.T) {
	dir := t.TempDir()
	content := "target: MyApp\nconfiguration: Release\nignore_unused:\n  - \"unused_*.png\"\n"
	if err := os.WriteFile(filepath.Join(dir, ".respectrc.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Read(dir)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if cfg.Target != "MyApp" || cfg.Configuration != "Release" {
		t.Errorf("cfg = %+v", cfg)
	}
	if len(cfg.IgnoreUnused) != 1 || cfg.IgnoreUnused[0] != "unused_*.png" {
		t.Errorf("IgnoreUnused = %+v", cfg.IgnoreUnused)
	}
}

func TestResolveTarget_FlagOverridesConfig(t *testing.T) {
	cfg := Config{Target: "FromConfig"}
	got, err := ResolveTarget(cfg, "FromFlag")
	if err != nil || got != "FromFlag" {
		t.Errorf("got %q, %v", got, err)
	}
}

func TestResolveTarget_FallsBackToConfig(t *testing.T) {
	cfg := Config{Target: "FromConfig"}
	got, err := ResolveTarget(cfg, "")
	if err != nil || got != "FromConfig" {
		t.Errorf("got %q, %v", got, err)
	}
}

func TestResolveTarget_ErrorsWhenUnset(t *testing.T) {
	_, err := ResolveTarget(Config{}, "")
	if err == nil {
		t.Error("expected an error")
	}
}

func TestResolveConfiguration_DefaultsToDebug(t *testing.T) {
	if got := ResolveConfiguration(Config{}, ""); got != "Debug" {
		t.Errorf("got %q, want Debug", got)
	}
}
