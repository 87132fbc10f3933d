package pbx

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Resource is one bundle resource reachable from a target's
// PBXResourcesBuildPhase: a file that will exist, under BaseName, inside the
// built app bundle.
type Resource struct {
	BaseName string // bundle-relative name; folder-reference members carry their subpath
	Path     string // absolute on-disk path
	Node     *Node  // the FileReference (or folder-reference root) it came from
	Region   string // lproj locale code, set only for PBXVariantGroup members
}

// Index is the bundle resource index: resource references are resolved
// against it by exact name first, then case-insensitively, per §4.7.
type Index struct {
	byName     map[string][]*Resource
	byFoldName map[string][]*Resource
	all        []*Resource
}

func newIndex() *Index {
	return &Index{byName: map[string][]*Resource{}, byFoldName: map[string][]*Resource{}}
}

func (idx *Index) add(r *Resource) {
	idx.all = append(idx.all, r)
	idx.byName[r.BaseName] = append(idx.byName[r.BaseName], r)
	fold := strings.ToLower(r.BaseName)
	idx.byFoldName[fold] = append(idx.byFoldName[fold], r)
}

// Exact returns every resource whose BaseName matches name byte-for-byte.
func (idx *Index) Exact(name string) []*Resource {
	return idx.byName[name]
}

// CaseFold returns every resource whose BaseName matches name under simple
// ASCII/Unicode case folding, regardless of exact match.
func (idx *Index) CaseFold(name string) []*Resource {
	return idx.byFoldName[strings.ToLower(name)]
}

// All returns every indexed resource, in a stable deterministic order.
func (idx *Index) All() []*Resource {
	return idx.all
}

// NewIndexFromBundlePaths builds an Index from a flat bundlePath->buildPath
// map, the shape the Linter Source contract (§6) exposes bundle resources
// in. Any LinterSource implementation, not just the Project Unarchiver, can
// drive reference resolution through this constructor.
func NewIndexFromBundlePaths(bundlePaths map[string]string) *Index {
	idx := newIndex()
	keys := make([]string, 0, len(bundlePaths))
	for bundlePath := range bundlePaths {
		keys = append(keys, bundlePath)
	}
	sort.Strings(keys)
	for _, bundlePath := range keys {
		idx.add(&Resource{BaseName: bundlePath, Path: bundlePaths[bundlePath]})
	}
	return idx
}

// NewTestIndex builds an Index directly from bundle-relative names, bypassing
// project unarchiving; exported for other packages' resolver tests that need
// an Index without constructing a full Model.
func NewTestIndex(names ...string) (*Index, error) {
	idx := newIndex()
	for _, n := range names {
		idx.add(&Resource{BaseName: n, Path: n})
	}
	return idx, nil
}

// BuildResourceIndex walks the target's PBXResourcesBuildPhase, expanding
// VariantGroup (localization) and VersionGroup (Core Data model version)
// membership and recursing into on-disk folder references, producing the
// flat bundle resource index that reference resolution runs against (§4.5).
func BuildResourceIndex(m *Model) (*Index, []string) {
	idx := newIndex()
	var warnings []string

	phase := m.Target.ResourcesBuildPhase()
	if phase == nil {
		return idx, warnings
	}

	for _, bf := range phase.Files {
		if bf.FileRef == nil {
			continue
		}
		w := indexNode(m, bf.FileRef, idx)
		warnings = append(warnings, w...)
	}

	sort.Slice(idx.all, func(i, j int) bool { return idx.all[i].Path < idx.all[j].Path })
	return idx, warnings
}

func indexNode(m *Model, n *Node, idx *Index) []string {
	var warnings []string
	switch n.Kind {
	case KindVariantGroup:
		for _, child := range n.Children {
			path, err := m.BuildPath(child)
			if err != nil {
				warnings = append(warnings, err.Error())
				continue
			}
			region := filepath.Base(filepath.Dir(path))
			region = strings.TrimSuffix(region, ".lproj")
			name := child.Name
			if name == "" {
				name = filepath.Base(child.Path)
			}
			idx.add(&Resource{BaseName: name, Path: path, Node: child, Region: region})
		}
	case KindVersionGroup:
		chosen := n.CurrentVersion
		if chosen == nil && len(n.Children) > 0 {
			chosen = n.Children[len(n.Children)-1]
			warnings = append(warnings, fmt.Sprintf("version group %q has no currentVersion, using last child", displayName(n)))
		}
		if chosen == nil {
			return warnings
		}
		path, err := m.BuildPath(chosen)
		if err != nil {
			warnings = append(warnings, err.Error())
			return warnings
		}
		idx.add(&Resource{BaseName: displayName(chosen), Path: path, Node: chosen})
	case KindGroup:
		// A PBXGroup only appears directly in a build phase when it is a
		// folder reference masquerading as a group in older project
		// formats; treat its resolved path like a folder reference.
		path, err := m.BuildPath(n)
		if err != nil {
			warnings = append(warnings, err.Error())
			return warnings
		}
		warnings = append(warnings, walkFolder(path, n, idx)...)
	case KindFileReference:
		path, err := m.BuildPath(n)
		if err != nil {
			warnings = append(warnings, err.Error())
			return warnings
		}
		if n.IsFolderReference() {
			idx.add(&Resource{BaseName: displayName(n), Path: path, Node: n})
			warnings = append(warnings, walkFolder(path, n, idx)...)
			return warnings
		}
		idx.add(&Resource{BaseName: displayName(n), Path: path, Node: n})
	}
	return warnings
}

// walkFolder enumerates the on-disk contents of a folder reference, whose
// members are never themselves listed as PBX objects.
func walkFolder(root string, owner *Node, idx *Index) []string {
	return walkFolderRel(root, "", owner, idx)
}

// walkFolderRel recurses under root, prefixing each entry's BaseName with
// rel, the path of intervening subdirectories below the folder reference
// root, the way -subPathsForFolderReference reports nested members by their
// subpath rather than their bare leaf name. Two files sharing a leaf name in
// different subdirectories therefore index as distinct resources.
func walkFolderRel(root, rel string, owner *Node, idx *Index) []string {
	var warnings []string
	entries, err := os.ReadDir(root)
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("reading folder reference %q: %s", root, err))
		return warnings
	}
	for _, e := range entries {
		full := filepath.Join(root, e.Name())
		name := e.Name()
		if rel != "" {
			name = rel + "/" + name
		}
		if e.IsDir() {
			warnings = append(warnings, walkFolderRel(full, name, owner, idx)...)
			continue
		}
		idx.add(&Resource{BaseName: name, Path: full, Node: owner})
	}
	return warnings
}

// displayName is a node's bundle-relative name: PBXFileReference.name
// overrides when set, otherwise the node's own (possibly slash-containing)
// path is used verbatim, since Xcode does not otherwise nest a plain
// (non-folder-reference) file's bundle path under its owning group's path.
func displayName(n *Node) string {
	if n.Name != "" {
		return n.Name
	}
	return n.Path
}
