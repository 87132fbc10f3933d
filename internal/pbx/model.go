package pbx

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/wader/respect/internal/xcconfig"
)

// Model is the prepared Project Model: a Project plus, for a chosen target
// and configuration, the fully resolved $(VAR) environment (§4.5). The
// bundle resource index is built from it separately, by BuildResourceIndex.
type Model struct {
	Project       *Project
	Target        *NativeTarget
	Configuration *BuildConfiguration

	env      map[string][]string // resolved list values, keyed by build setting name
	resolved map[string]string   // memoized flattened scalar resolution, keyed by name
	Warnings []string
}

// Prepare builds a Model for the named target/configuration, resolving the
// full $(inherited) + base-.xcconfig + project-settings chain into a flat
// lookup environment (§9 Open Question: $(inherited) resolution).
//
// environment is the process environment dictionary the caller (typically
// an xcodebuild-style invocation) passes in; it sits in the lookup
// precedence below the configuration chain but above the built-in values
// Prepare derives from the project itself (SRCROOT, SOURCE_ROOT,
// PROJECT_DIR), so a caller can supply BUILT_PRODUCTS_DIR, DEVELOPER_DIR,
// SDKROOT and similar toolchain-derived settings that the project file
// itself never defines. May be nil.
func Prepare(p *Project, targetName, configName string, environment map[string]string) (*Model, error) {
	target := p.NativeTargetNamed(targetName)
	if target == nil {
		return nil, fmt.Errorf("no such target %q", targetName)
	}
	config := target.ConfigurationNamed(configName)
	if config == nil {
		return nil, fmt.Errorf("target %q has no configuration %q", targetName, configName)
	}

	m := &Model{
		Project:       p,
		Target:        target,
		Configuration: config,
		env:           map[string][]string{},
		resolved:      map[string]string{},
	}
	m.env["SRCROOT"] = []string{m.SourceRoot()}
	m.env["SOURCE_ROOT"] = []string{m.SourceRoot()}
	m.env["PROJECT_DIR"] = []string{m.SourceRoot()}
	for k, v := range environment {
		m.env[k] = []string{v}
	}

	chain := configChain(config)
	// Walk root-most first so closer layers splice $(inherited) against
	// values already seen from further up the chain.
	for i := len(chain) - 1; i >= 0; i-- {
		m.mergeConfiguration(chain[i])
	}
	return m, nil
}

// configChain returns [config, config.Parent, ...] innermost first.
func configChain(c *BuildConfiguration) []*BuildConfiguration {
	var chain []*BuildConfiguration
	seen := map[*BuildConfiguration]bool{}
	for c != nil && !seen[c] {
		chain = append(chain, c)
		seen[c] = true
		c = c.Parent
	}
	return chain
}

func (m *Model) mergeConfiguration(c *BuildConfiguration) {
	for k, v := range c.BaseConfig {
		m.spliceInherited(k, []string{v})
	}
	for k, v := range c.BuildSettings {
		switch vv := v.(type) {
		case string:
			m.spliceInherited(k, []string{vv})
		case []string:
			m.spliceInherited(k, vv)
		}
	}
}

// spliceInherited implements the $(inherited) Open Question resolution: a
// list value containing the literal token is spliced against the existing
// (root-ward) resolved list for the same key before this layer's values are
// recorded; a scalar value containing it behaves as a one-element list.
func (m *Model) spliceInherited(key string, value []string) {
	var out []string
	for _, tok := range value {
		if tok == "$(inherited)" {
			out = append(out, m.env[key]...)
			continue
		}
		if strings.Contains(tok, "$(inherited)") {
			out = append(out, strings.ReplaceAll(tok, "$(inherited)", strings.Join(m.env[key], " ")))
			continue
		}
		out = append(out, tok)
	}
	m.env[key] = out
	delete(m.resolved, key)
}

// Lookup resolves name to its fully $(VAR)-expanded scalar value, per the
// precedence chain: target configuration -> base .xcconfig -> parent
// (project) configuration -> project-level base .xcconfig -> caller
// environment -> built-ins (SRCROOT, SOURCE_ROOT, PROJECT_DIR) ->
// unresolved (§4.5). List-valued settings are joined with a single space, matching how
// Xcode flattens e.g. OTHER_LDFLAGS for substitution.
func (m *Model) Lookup(name string) (string, bool) {
	if v, ok := m.resolved[name]; ok {
		return v, true
	}
	resolved, ok := xcconfig.ResolveVar(name, m.rawLookup, func(cycled string) {
		m.Warnings = append(m.Warnings, fmt.Sprintf("$(inherited)/variable cycle resolving %q", cycled))
	})
	if ok {
		m.resolved[name] = resolved
	}
	return resolved, ok
}

func (m *Model) rawLookup(name string) (string, bool) {
	list, ok := m.env[name]
	if !ok || len(list) == 0 {
		return "", ok
	}
	return strings.Join(list, " "), true
}

// SourceRoot returns the directory containing the .pbxproj's parent
// project.xcodeproj bundle (the conventional SRCROOT default).
func (m *Model) SourceRoot() string {
	return filepath.Dir(filepath.Dir(m.Project.PBXFilePath))
}

// ProjectPath is the path to the .pbxproj file this model was prepared from.
func (m *Model) ProjectPath() string {
	return m.Project.PBXFilePath
}

// ProjectName is the base name of the .xcodeproj bundle, without extension.
func (m *Model) ProjectName() string {
	base := filepath.Base(filepath.Dir(m.Project.PBXFilePath))
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (p *Project) NativeTargets() []*NativeTarget { return p.Targets }

func (p *Project) NativeTargetNamed(name string) *NativeTarget {
	for _, t := range p.Targets {
		if t.Name == name {
			return t
		}
	}
	return nil
}

func (p *Project) ConfigurationNames() []string {
	return p.BuildConfigurationList.Names()
}

func (p *Project) ConfigurationNamed(name string) *BuildConfiguration {
	return p.BuildConfigurationList.Named(name)
}

// PathForSourceTree resolves one source-tree symbol to an absolute path, for
// the handful Xcode defines as build-setting names themselves.
func (m *Model) PathForSourceTree(tree SourceTree) (string, bool) {
	switch tree {
	case SourceTreeAbsolute:
		return "", true
	case SourceTreeGroup:
		return "", true
	case SourceTreeSourceRoot, SourceTreeSRCRoot:
		return m.SourceRoot(), true
	default:
		return m.Lookup(string(tree))
	}
}

// BuildPath computes n's on-disk path by walking Parent edges, stopping at
// the nearest ancestor with an absolute source tree (or the Project root,
// which terminates every chain) and joining path segments downward from
// there, per Invariant I4.
func (m *Model) BuildPath(n *Node) (string, error) {
	if n == nil {
		return "", fmt.Errorf("nil node")
	}
	var segs []string
	cur := n
	for cur != nil {
		if cur.Kind == KindProject {
			break
		}
		if cur.Path != "" {
			segs = append([]string{cur.Path}, segs...)
		}
		if cur.SourceTree != SourceTreeGroup && cur.SourceTree != "" {
			base, ok := m.PathForSourceTree(cur.SourceTree)
			if !ok {
				return "", fmt.Errorf("unresolved source tree %q on node %s", cur.SourceTree, cur.ID)
			}
			if base != "" {
				segs = append([]string{base}, segs...)
			}
			if cur.SourceTree == SourceTreeAbsolute {
				return filepath.Clean(strings.Join(segs, "/")), nil
			}
			break
		}
		cur = cur.Parent
	}
	joined := strings.Join(segs, "/")
	if filepath.IsAbs(joined) {
		return filepath.Clean(joined), nil
	}
	return filepath.Join(m.SourceRoot(), joined), nil
}
