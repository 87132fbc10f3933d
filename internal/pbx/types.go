// Package pbx implements the Xcode project-file unarchiver and the Project
// Model: a typed node tree reconstructed from a decoded OpenStep-style
// property list, plus $(VAR) build-setting resolution and bundle-resource
// enumeration.
package pbx

// SourceTree is one of the well-known symbolic roots a node's path resolves
// against, or the literal name of a $(VAR).
type SourceTree string

const (
	SourceTreeAbsolute          SourceTree = "<absolute>"
	SourceTreeGroup             SourceTree = "<group>"
	SourceTreeSourceRoot        SourceTree = "SOURCE_ROOT"
	SourceTreeSRCRoot           SourceTree = "SRCROOT"
	SourceTreeBuiltProductsDir  SourceTree = "BUILT_PRODUCTS_DIR"
	SourceTreeDeveloperDir      SourceTree = "DEVELOPER_DIR"
	SourceTreeSDKRoot           SourceTree = "SDKROOT"
)

// NodeKind discriminates the polymorphic ProjectNode variants.
type NodeKind int

const (
	KindFileReference NodeKind = iota
	KindGroup
	KindVariantGroup
	KindVersionGroup
	KindProject
)

// Node is the single tagged-sum representation of every PBX object that
// participates in the mainGroup tree: PBXFileReference, PBXGroup,
// PBXVariantGroup, XCVersionGroup and the root PBXProject itself. A shared
// header (Path, SourceTree, Parent, Project) plus capability fields replace
// per-class dynamic dispatch, per §9's "Polymorphic node set" design note.
type Node struct {
	Kind       NodeKind
	ID         string // originating object id, for diagnostics
	Path       string
	SourceTree SourceTree
	Name       string // PBXFileReference.name, used for display when set

	Parent  *Node // back-edge, reconstructed by the unarchiver, never serialized
	Project *Node // root back-edge

	// Group / VariantGroup
	Children []*Node

	// VersionGroup
	CurrentVersion *Node

	// folderReference is set by the unarchiver when a FileReference's
	// lastKnownFileType/explicitFileType marks it as a folder reference
	// (its on-disk contents contribute to the bundle recursively).
	folderReference bool
}

// IsGroup reports whether n can own children (Group, VariantGroup,
// VersionGroup or the root Project's mainGroup is itself a Group).
func (n *Node) IsGroup() bool {
	switch n.Kind {
	case KindGroup, KindVariantGroup, KindVersionGroup:
		return true
	}
	return false
}

// IsLeaf reports whether n is a file reference (possibly a folder
// reference).
func (n *Node) IsLeaf() bool {
	return n.Kind == KindFileReference
}

// IsFolderReference reports whether a FileReference's on-disk target is a
// directory whose contents contribute to the bundle recursively. The
// unarchiver infers this from the lastKnownFileType/explicitFileType
// "folder" conventions at decode time and records it in the node's
// folderReference field.
func (n *Node) IsFolderReference() bool {
	return n.Kind == KindFileReference && n.folderReference
}

// BuildConfiguration models XCBuildConfiguration: a named build-settings
// dictionary plus an optional base .xcconfig layer and a parent
// configuration edge used for the per-target -> root-project chain.
type BuildConfiguration struct {
	Name           string
	BuildSettings  map[string]any // string or []string values
	BaseConfigRef  *Node          // FileReference pointing at the base .xcconfig, if any
	BaseConfig     map[string]string
	BaseConfigRefs map[string]string // raw (unexpanded) base config values retained for $(VAR) chaining
	Parent         *BuildConfiguration
}

// ConfigurationList models XCConfigurationList: an ordered set of named
// build configurations.
type ConfigurationList struct {
	Configurations []*BuildConfiguration
}

func (l *ConfigurationList) Named(name string) *BuildConfiguration {
	if l == nil {
		return nil
	}
	for _, c := range l.Configurations {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (l *ConfigurationList) Names() []string {
	if l == nil {
		return nil
	}
	names := make([]string, len(l.Configurations))
	for i, c := range l.Configurations {
		names[i] = c.Name
	}
	return names
}

// BuildPhaseKind discriminates PBXSourcesBuildPhase / PBXResourcesBuildPhase.
type BuildPhaseKind int

const (
	BuildPhaseSources BuildPhaseKind = iota
	BuildPhaseResources
	BuildPhaseOther
)

// BuildFile models PBXBuildFile: a reference to one Node included in a
// build phase.
type BuildFile struct {
	FileRef *Node
}

// BuildPhase models PBXSourcesBuildPhase / PBXResourcesBuildPhase.
type BuildPhase struct {
	Kind  BuildPhaseKind
	Files []*BuildFile
}

// NativeTarget models PBXNativeTarget.
type NativeTarget struct {
	Name                   string
	BuildPhases            []*BuildPhase
	BuildConfigurationList *ConfigurationList
}

func (t *NativeTarget) ConfigurationNames() []string {
	return t.BuildConfigurationList.Names()
}

func (t *NativeTarget) ConfigurationNamed(name string) *BuildConfiguration {
	return t.BuildConfigurationList.Named(name)
}

// ResourcesBuildPhase returns the target's PBXResourcesBuildPhase, if any.
func (t *NativeTarget) ResourcesBuildPhase() *BuildPhase {
	for _, bp := range t.BuildPhases {
		if bp.Kind == BuildPhaseResources {
			return bp
		}
	}
	return nil
}

// Project models the root PBXProject plus the handful of top-level fields
// every linter-source consumer needs (§6's wire contract).
type Project struct {
	Root                   *Node // the root Node, Kind == KindProject
	MainGroup              *Node
	BuildConfigurationList *ConfigurationList
	Targets                []*NativeTarget
	KnownRegions           []string

	// PBXFilePath is the on-disk path of the .pbxproj file itself, used to
	// derive SOURCE_ROOT/PROJECT_DIR built-ins.
	PBXFilePath string
}
