package lint

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wader/respect/internal/pbx"
)

// textSourceExtensions bounds SourceTextFiles to the file kinds that can
// plausibly carry @Lint directives or expression-signature matches: source,
// header and config files. Resource files (images, storyboards, ...) are
// reached only through BundleResources.
var textSourceExtensions = map[string]bool{
	".m": true, ".mm": true, ".h": true, ".hpp": true,
	".c": true, ".cc": true, ".cpp": true,
	".swift": true, ".cfg": true, ".xcconfig": true,
}

// ProjectSource adapts a *pbx.Model into the Linter Core's Source contract
// (§6), reading source file contents and the bundle resource index straight
// off disk from an unarchived, prepared project.
type ProjectSource struct {
	Model             *pbx.Model
	Index             *pbx.Index
	UnarchiveWarnings []string

	// DefaultConfigPath, if non-empty, is read as the target's default
	// config text file.
	DefaultConfigPath string
}

// NewProjectSource unarchives pbxFilePath, prepares the named
// target/configuration against environment and builds its bundle resource
// index, ready to drive Lint. environment is the process environment
// dictionary threaded into pbx.Prepare (e.g. BUILT_PRODUCTS_DIR,
// DEVELOPER_DIR, SDKROOT); pass nil to prepare with project built-ins only.
func NewProjectSource(pbxFilePath, targetName, configName string, environment map[string]string) (*ProjectSource, error) {
	data, err := os.ReadFile(pbxFilePath)
	if err != nil {
		return nil, fmt.Errorf("reading project file: %w", err)
	}
	proj, warnings, err := pbx.Unarchive(data, pbxFilePath)
	if err != nil {
		return nil, err
	}
	model, err := pbx.Prepare(proj, targetName, configName, environment)
	if err != nil {
		return nil, err
	}
	idx, idxWarnings := pbx.BuildResourceIndex(model)

	return &ProjectSource{
		Model:             model,
		Index:             idx,
		UnarchiveWarnings: append(warnings, idxWarnings...),
	}, nil
}

// SourceTextFiles reads every Sources-build-phase file reference with a
// recognized text extension.
func (s *ProjectSource) SourceTextFiles() (map[string][]byte, error) {
	out := map[string][]byte{}
	phase := sourcesBuildPhase(s.Model)
	if phase == nil {
		return out, nil
	}
	for _, bf := range phase.Files {
		if bf.FileRef == nil || bf.FileRef.IsFolderReference() {
			continue
		}
		if !textSourceExtensions[strings.ToLower(filepath.Ext(bf.FileRef.Path))] {
			continue
		}
		path, err := s.Model.BuildPath(bf.FileRef)
		if err != nil {
			s.UnarchiveWarnings = append(s.UnarchiveWarnings, err.Error())
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			s.UnarchiveWarnings = append(s.UnarchiveWarnings, fmt.Sprintf("reading source file %q: %s", path, err))
			continue
		}
		out[path] = data
	}
	return out, nil
}

// BundleResources flattens the prepared bundle resource index into the
// bundlePath -> buildPath map the Source contract exposes.
func (s *ProjectSource) BundleResources() (map[string]string, error) {
	out := map[string]string{}
	for _, r := range s.Index.All() {
		out[r.BaseName] = r.Path
	}
	return out, nil
}

// PreexistingWarnings surfaces the unarchiver's own diagnostics as
// pass-through lint warnings (§4.9 step 7).
func (s *ProjectSource) PreexistingWarnings() []string { return s.UnarchiveWarnings }
func (s *ProjectSource) PreexistingErrors() []string   { return nil }

func (s *ProjectSource) ProjectPath() string       { return s.Model.ProjectPath() }
func (s *ProjectSource) TargetName() string        { return s.Model.Target.Name }
func (s *ProjectSource) ConfigurationName() string { return s.Model.Configuration.Name }

func (s *ProjectSource) TargetType() TargetType {
	sdk, _ := s.Model.Lookup("SDKROOT")
	if strings.Contains(strings.ToLower(sdk), "iphoneos") {
		return TargetIOS
	}
	return TargetUnknown
}

func (s *ProjectSource) KnownRegions() []string {
	regions := append([]string{}, s.Model.Project.KnownRegions...)
	sort.Strings(regions)
	return regions
}

func (s *ProjectSource) DeploymentTarget() string {
	dt, _ := s.Model.Lookup("IPHONEOS_DEPLOYMENT_TARGET")
	return dt
}

// DefaultConfigText reads DefaultConfigPath, if one was configured.
func (s *ProjectSource) DefaultConfigText() ([]byte, string, bool) {
	if s.DefaultConfigPath == "" {
		return nil, "", false
	}
	data, err := os.ReadFile(s.DefaultConfigPath)
	if err != nil {
		s.UnarchiveWarnings = append(s.UnarchiveWarnings, fmt.Sprintf("reading default config %q: %s", s.DefaultConfigPath, err))
		return nil, "", false
	}
	return data, s.DefaultConfigPath, true
}

func sourcesBuildPhase(m *pbx.Model) *pbx.BuildPhase {
	for _, bp := range m.Target.BuildPhases {
		if bp.Kind == pbx.BuildPhaseSources {
			return bp
		}
	}
	return nil
}
