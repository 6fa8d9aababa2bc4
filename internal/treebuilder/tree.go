// Package treebuilder renders flat repository paths as an ASCII tree.
package treebuilder

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// DefaultMaxDepth is the depth the explorer renders repository trees at.
const DefaultMaxDepth = 4

const (
	folderIcon = "📁 "
	fileIcon   = "📄 "
)

// node is a folder when children is non-nil, otherwise a file.
type node struct {
	children map[string]*node
}

func (n *node) isDir() bool { return n.children != nil }

// GenerateTreeDiagram renders paths as a nested tree, descending at most
// maxDepth levels. Siblings are sorted by name regardless of kind.
func GenerateTreeDiagram(paths []string, maxDepth int) string {
	if len(paths) == 0 {
		return "No files found"
	}

	root := &node{children: map[string]*node{}}
	for _, p := range paths {
		insert(root, strings.Split(p, "/"))
	}

	var sb strings.Builder
	r := renderer{sb: &sb, maxDepth: maxDepth, col: collate.New(language.Und)}
	r.render(root, "", 0)
	return strings.TrimSpace(sb.String())
}

func insert(root *node, parts []string) {
	cur := root
	for i, part := range parts {
		last := i == len(parts)-1
		child, ok := cur.children[part]
		switch {
		case !ok && last:
			child = &node{}
		case !ok:
			child = &node{children: map[string]*node{}}
		case !last && !child.isDir():
			// a file entry seen earlier turns out to be a folder
			child.children = map[string]*node{}
		}
		cur.children[part] = child
		if !child.isDir() {
			return
		}
		cur = child
	}
}

type renderer struct {
	sb       *strings.Builder
	maxDepth int
	col      *collate.Collator
}

func (r renderer) render(n *node, prefix string, depth int) {
	if depth >= r.maxDepth {
		return
	}

	names := make([]string, 0, len(n.children))
	for name := range n.children {
		names = append(names, name)
	}
	sort.SliceStable(names, func(i, j int) bool {
		return r.col.CompareString(names[i], names[j]) < 0
	})

	for i, name := range names {
		child := n.children[name]
		last := i == len(names)-1

		connector, childPrefix := "├── ", prefix+"│   "
		if last {
			connector, childPrefix = "└── ", prefix+"    "
		}
		icon := fileIcon
		if child.isDir() {
			icon = folderIcon
		}

		r.sb.WriteString(prefix + connector + icon + name + "\n")
		if child.isDir() {
			r.render(child, childPrefix, depth+1)
		}
	}
}
