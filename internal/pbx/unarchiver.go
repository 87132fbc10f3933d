package pbx

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/wader/respect/internal/xcconfig"
	"howett.net/plist"
)

// allowedClasses is the unarchiver's class whitelist (§4.4): only objects
// whose "isa" discriminator appears here are instantiated; everything else
// yields a nil object and a warning, continuing the decode.
var allowedClasses = map[string]bool{
	"PBXProject":             true,
	"PBXGroup":               true,
	"PBXVariantGroup":        true,
	"XCVersionGroup":         true,
	"PBXFileReference":       true,
	"PBXBuildFile":           true,
	"XCBuildConfiguration":   true,
	"XCConfigurationList":    true,
	"PBXNativeTarget":        true,
	"PBXSourcesBuildPhase":   true,
	"PBXResourcesBuildPhase": true,
}

type unarchiver struct {
	objects  map[string]map[string]any
	built    map[string]any
	project  *Project
	warnings []string
}

// Unarchive decodes a serialized .pbxproj object graph (a top-level
// dictionary with archiveVersion/classes/objectVersion/objects/rootObject,
// per §6) into a typed Project tree. pbxFilePath is the on-disk location of
// the project file, used to derive SOURCE_ROOT/PROJECT_DIR.
func Unarchive(data []byte, pbxFilePath string) (*Project, []string, error) {
	var root map[string]any
	if _, err := plist.Unmarshal(data, &root); err != nil {
		return nil, nil, fmt.Errorf("decoding project archive: %w", err)
	}

	objectsRaw, _ := root["objects"].(map[string]any)
	rootOid, _ := root["rootObject"].(string)
	if objectsRaw == nil || rootOid == "" {
		return nil, nil, fmt.Errorf("malformed project archive: missing objects or rootObject")
	}

	u := &unarchiver{
		objects: make(map[string]map[string]any, len(objectsRaw)),
		built:   make(map[string]any, len(objectsRaw)),
	}
	for oid, v := range objectsRaw {
		if d, ok := v.(map[string]any); ok {
			u.objects[oid] = d
		}
	}

	rootAny, err := u.instantiate(rootOid)
	if err != nil {
		return nil, u.warnings, err
	}
	rootNode, ok := rootAny.(*Node)
	if !ok || rootNode == nil || rootNode.Kind != KindProject {
		return nil, u.warnings, fmt.Errorf("malformed project archive: rootObject is not a PBXProject")
	}
	if u.project == nil {
		return nil, u.warnings, fmt.Errorf("malformed project archive: PBXProject fields missing")
	}
	u.project.Root = rootNode
	u.project.PBXFilePath = pbxFilePath

	fixupParents(u.project.MainGroup, rootNode, rootNode)
	fixupConfigurationParents(u.project)
	u.parseBaseConfigurations()

	for _, w := range u.warnings {
		slog.Warn("project unarchiver", "warning", w)
	}
	return u.project, u.warnings, nil
}

func (u *unarchiver) warn(format string, args ...any) {
	u.warnings = append(u.warnings, fmt.Sprintf(format, args...))
}

// instantiate resolves oid to a typed object, memoizing so shared references
// (e.g. the same FileReference in a build phase and in a group) collapse to
// the same pointer (§4.4 Pass 1).
func (u *unarchiver) instantiate(oid string) (any, error) {
	if v, ok := u.built[oid]; ok {
		return v, nil
	}

	dict, ok := u.objects[oid]
	if !ok {
		return nil, fmt.Errorf("unresolvable object id %q", oid)
	}
	isa, _ := dict["isa"].(string)
	if !allowedClasses[isa] {
		u.warn("unknown class %q for object %s, ignored", isa, oid)
		u.built[oid] = nil
		return nil, nil
	}

	switch isa {
	case "PBXFileReference":
		return u.buildFileReference(oid, dict)
	case "PBXGroup":
		return u.buildGroupLike(oid, dict, KindGroup)
	case "PBXVariantGroup":
		return u.buildGroupLike(oid, dict, KindVariantGroup)
	case "XCVersionGroup":
		return u.buildVersionGroup(oid, dict)
	case "PBXBuildFile":
		return u.buildBuildFile(oid, dict)
	case "XCBuildConfiguration":
		return u.buildConfiguration(oid, dict)
	case "XCConfigurationList":
		return u.buildConfigurationList(oid, dict)
	case "PBXSourcesBuildPhase":
		return u.buildPhase(oid, dict, BuildPhaseSources)
	case "PBXResourcesBuildPhase":
		return u.buildPhase(oid, dict, BuildPhaseResources)
	case "PBXNativeTarget":
		return u.buildNativeTarget(oid, dict)
	case "PBXProject":
		return u.buildProject(oid, dict)
	}
	return nil, nil
}

func (u *unarchiver) buildFileReference(oid string, dict map[string]any) (any, error) {
	n := &Node{Kind: KindFileReference, ID: oid}
	u.built[oid] = n
	n.Path, _ = getString(dict, "path")
	n.SourceTree = SourceTree(getStringOr(dict, "sourceTree", string(SourceTreeGroup)))
	n.Name, _ = getString(dict, "name")
	fileType, _ := getString(dict, "lastKnownFileType")
	if fileType == "" {
		fileType, _ = getString(dict, "explicitFileType")
	}
	n.folderReference = fileType == "folder" || fileType == "folder.assetcatalog"
	return n, nil
}

func (u *unarchiver) buildGroupLike(oid string, dict map[string]any, kind NodeKind) (any, error) {
	n := &Node{Kind: kind, ID: oid}
	u.built[oid] = n
	n.Path, _ = getString(dict, "path")
	n.SourceTree = SourceTree(getStringOr(dict, "sourceTree", string(SourceTreeGroup)))
	n.Name, _ = getString(dict, "name")
	for _, coid := range getOidList(dict, "children") {
		child, err := u.instantiate(coid)
		if err != nil {
			return nil, err
		}
		if cn, ok := child.(*Node); ok && cn != nil {
			n.Children = append(n.Children, cn)
		}
	}
	return n, nil
}

func (u *unarchiver) buildVersionGroup(oid string, dict map[string]any) (any, error) {
	any0, err := u.buildGroupLike(oid, dict, KindVersionGroup)
	if err != nil {
		return nil, err
	}
	n := any0.(*Node)
	if cv, ok := getString(dict, "currentVersion"); ok {
		cur, err := u.instantiate(cv)
		if err != nil {
			return nil, err
		}
		if cn, ok := cur.(*Node); ok {
			n.CurrentVersion = cn
		}
	}
	return n, nil
}

func (u *unarchiver) buildBuildFile(oid string, dict map[string]any) (any, error) {
	bf := &BuildFile{}
	u.built[oid] = bf
	if ref, ok := getString(dict, "fileRef"); ok {
		node, err := u.instantiate(ref)
		if err != nil {
			return nil, err
		}
		if n, ok := node.(*Node); ok {
			bf.FileRef = n
		}
	}
	return bf, nil
}

func (u *unarchiver) buildConfiguration(oid string, dict map[string]any) (any, error) {
	bc := &BuildConfiguration{BuildSettings: map[string]any{}}
	u.built[oid] = bc
	bc.Name, _ = getString(dict, "name")
	if settings, ok := dict["buildSettings"].(map[string]any); ok {
		for k, v := range settings {
			switch vv := v.(type) {
			case string:
				bc.BuildSettings[k] = vv
			case []any:
				var list []string
				for _, e := range vv {
					if s, ok := e.(string); ok {
						list = append(list, s)
					}
				}
				bc.BuildSettings[k] = list
			}
		}
	}
	if ref, ok := getString(dict, "baseConfigurationReference"); ok {
		node, err := u.instantiate(ref)
		if err != nil {
			return nil, err
		}
		if n, ok := node.(*Node); ok {
			bc.BaseConfigRef = n
		}
	}
	return bc, nil
}

func (u *unarchiver) buildConfigurationList(oid string, dict map[string]any) (any, error) {
	cl := &ConfigurationList{}
	u.built[oid] = cl
	for _, coid := range getOidList(dict, "buildConfigurations") {
		c, err := u.instantiate(coid)
		if err != nil {
			return nil, err
		}
		if bc, ok := c.(*BuildConfiguration); ok {
			cl.Configurations = append(cl.Configurations, bc)
		}
	}
	return cl, nil
}

func (u *unarchiver) buildPhase(oid string, dict map[string]any, kind BuildPhaseKind) (any, error) {
	bp := &BuildPhase{Kind: kind}
	u.built[oid] = bp
	for _, foid := range getOidList(dict, "files") {
		f, err := u.instantiate(foid)
		if err != nil {
			return nil, err
		}
		if bf, ok := f.(*BuildFile); ok {
			bp.Files = append(bp.Files, bf)
		}
	}
	return bp, nil
}

func (u *unarchiver) buildNativeTarget(oid string, dict map[string]any) (any, error) {
	t := &NativeTarget{}
	u.built[oid] = t
	t.Name, _ = getString(dict, "name")
	for _, poid := range getOidList(dict, "buildPhases") {
		p, err := u.instantiate(poid)
		if err != nil {
			return nil, err
		}
		if bp, ok := p.(*BuildPhase); ok {
			t.BuildPhases = append(t.BuildPhases, bp)
		}
	}
	if clOid, ok := getString(dict, "buildConfigurationList"); ok {
		cl, err := u.instantiate(clOid)
		if err != nil {
			return nil, err
		}
		if c, ok := cl.(*ConfigurationList); ok {
			t.BuildConfigurationList = c
		}
	}
	return t, nil
}

func (u *unarchiver) buildProject(oid string, dict map[string]any) (any, error) {
	n := &Node{Kind: KindProject, ID: oid, SourceTree: SourceTreeAbsolute}
	u.built[oid] = n

	p := &Project{}
	u.project = p

	if mgOid, ok := getString(dict, "mainGroup"); ok {
		mg, err := u.instantiate(mgOid)
		if err != nil {
			return nil, err
		}
		if mgn, ok := mg.(*Node); ok {
			p.MainGroup = mgn
		}
	}
	if clOid, ok := getString(dict, "buildConfigurationList"); ok {
		cl, err := u.instantiate(clOid)
		if err != nil {
			return nil, err
		}
		if c, ok := cl.(*ConfigurationList); ok {
			p.BuildConfigurationList = c
		}
	}
	for _, toid := range getOidList(dict, "targets") {
		tr, err := u.instantiate(toid)
		if err != nil {
			return nil, err
		}
		if t, ok := tr.(*NativeTarget); ok {
			p.Targets = append(p.Targets, t)
		}
	}
	p.KnownRegions = getStringList(dict, "knownRegions")

	return n, nil
}

// fixupParents walks the reified mainGroup depth-first, setting parent and
// project back-edges (§4.4 Pass 2).
func fixupParents(n *Node, parent *Node, project *Node) {
	if n == nil {
		return
	}
	n.Parent = parent
	n.Project = project
	for _, c := range n.Children {
		fixupParents(c, n, project)
	}
}

// fixupConfigurationParents links each per-target XCBuildConfiguration's
// Parent to the same-named configuration on the project-wide list.
func fixupConfigurationParents(p *Project) {
	if p.BuildConfigurationList == nil {
		return
	}
	for _, t := range p.Targets {
		if t.BuildConfigurationList == nil {
			continue
		}
		for _, c := range t.BuildConfigurationList.Configurations {
			c.Parent = p.BuildConfigurationList.Named(c.Name)
		}
	}
}

// parseBaseConfigurations parses each configuration's
// baseConfigurationReference (when present) through internal/xcconfig,
// building its BaseConfig map. Missing files warn rather than fail (§4.10).
func (u *unarchiver) parseBaseConfigurations() {
	all := append([]*BuildConfiguration{}, u.project.BuildConfigurationList.configurationsOrEmpty()...)
	for _, t := range u.project.Targets {
		all = append(all, t.BuildConfigurationList.configurationsOrEmpty()...)
	}
	for _, c := range all {
		if c.BaseConfigRef == nil {
			continue
		}
		path := buildPathForUnarchive(c.BaseConfigRef, u.project)
		dict, errs := xcconfig.ParseFile(path, xcconfig.ParseOptions{IncludeBasePath: filepath.Dir(path)})
		for _, e := range errs {
			u.warn("base configuration %s: %s", path, e.Error())
		}
		if dict == nil {
			u.warn("missing base configuration file %q, configuration %q used without it", path, c.Name)
			continue
		}
		c.BaseConfig = map[string]string{}
		c.BaseConfigRefs = map[string]string{}
		for k, v := range dict {
			c.BaseConfig[k] = v.Raw
			c.BaseConfigRefs[k] = v.Raw
		}
	}
}

func (l *ConfigurationList) configurationsOrEmpty() []*BuildConfiguration {
	if l == nil {
		return nil
	}
	return l.Configurations
}

// buildPathForUnarchive computes a node's on-disk path using only the
// source-tree-prefix logic that's knowable before a Project Model/environment
// is prepared (PROJECT_DIR-relative and <group>/absolute paths); used solely
// to locate the base .xcconfig file during unarchiving, before Prepare runs.
func buildPathForUnarchive(n *Node, p *Project) string {
	var segs []string
	cur := n
	for cur != nil {
		if cur.Path != "" {
			segs = append([]string{cur.Path}, segs...)
		}
		if cur.SourceTree == SourceTreeAbsolute || cur.Kind == KindProject {
			break
		}
		if cur.SourceTree != SourceTreeGroup {
			// A named source-tree var (SOURCE_ROOT, SRCROOT, ...): resolve
			// relative to the project directory as a best-effort default;
			// full $(VAR) resolution happens later via the prepared model.
			break
		}
		cur = cur.Parent
	}
	joined := strings.Join(segs, "/")
	if filepath.IsAbs(joined) {
		return joined
	}
	return filepath.Join(filepath.Dir(p.PBXFilePath), joined)
}

func getString(dict map[string]any, key string) (string, bool) {
	v, ok := dict[key].(string)
	return v, ok
}

func getStringOr(dict map[string]any, key string, def string) string {
	if v, ok := getString(dict, key); ok {
		return v
	}
	return def
}

func getOidList(dict map[string]any, key string) []string {
	arr, _ := dict[key].([]any)
	out := make([]string, 0, len(arr))
	for _, e := range arr {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func getStringList(dict map[string]any, key string) []string {
	return getOidList(dict, key)
}
