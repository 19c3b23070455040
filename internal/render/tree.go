package render

import (
	"sort"
	"strings"
)

// Node is a folder or file in the structure tree built from retained paths
type Node struct {
	Name     string
	Path     string
	IsDir    bool
	Children []*Node
}

// BuildTree nests retained paths into a tree rooted at an unnamed folder.
// Within a folder, subfolders come first, then files; each group is sorted by name.
func BuildTree(paths []string) *Node {
	root := &Node{IsDir: true}
	dirs := map[string]*Node{"": root}

	for _, p := range paths {
		segments := strings.Split(p, "/")
		parent := root
		for i, seg := range segments {
			full := strings.Join(segments[:i+1], "/")
			if i == len(segments)-1 {
				parent.Children = append(parent.Children, &Node{Name: seg, Path: full})
				break
			}
			dir, ok := dirs[full]
			if !ok {
				dir = &Node{Name: seg, Path: full, IsDir: true}
				dirs[full] = dir
				parent.Children = append(parent.Children, dir)
			}
			parent = dir
		}
	}

	sortTree(root)
	return root
}

func sortTree(n *Node) {
	sort.SliceStable(n.Children, func(i, j int) bool {
		a, b := n.Children[i], n.Children[j]
		if a.IsDir != b.IsDir {
			return a.IsDir
		}
		return a.Name < b.Name
	})
	for _, c := range n.Children {
		if c.IsDir {
			sortTree(c)
		}
	}
}

// Files returns every file path under n in tree order
func (n *Node) Files() []string {
	var files []string
	for _, c := range n.Children {
		if c.IsDir {
			files = append(files, c.Files()...)
		} else {
			files = append(files, c.Path)
		}
	}
	return files
}

// StructureText renders the tree with two-space indentation per level
func StructureText(root *Node) string {
	var b strings.Builder
	writeStructure(&b, root, 0)
	return b.String()
}

func writeStructure(b *strings.Builder, n *Node, level int) {
	indent := strings.Repeat("  ", level)
	for _, c := range n.Children {
		if c.IsDir {
			b.WriteString(indent + FolderIcon + " " + c.Name + "/\n")
			writeStructure(b, c, level+1)
		} else {
			b.WriteString(indent + FileIcon + " " + c.Name + "\n")
		}
	}
}
