package tree

import (
	"iter"
	"maps"
	"slices"

	"go.uber.org/zap"

	"github.com/wippyai/vfs/file"
)

// Node is a directory. It owns a File describing itself and two separate
// namespaces: child directories and child files. A name may be bound in
// both at once.
type Node struct {
	self     *file.File
	children map[string]*Node
	files    map[string]*file.File
}

// NewNode creates an empty directory described by self
func NewNode(self *file.File) *Node {
	return &Node{
		self:     self,
		children: make(map[string]*Node),
		files:    make(map[string]*file.File),
	}
}

// Self returns the File holding the directory's own metadata and content
func (n *Node) Self() *file.File { return n.self }

// AddFile binds f to name, returning the file previously bound there.
// Names are not validated; empty names or names containing "/" are
// stored but cannot be reached through path resolution.
func (n *Node) AddFile(name string, f *file.File) (*file.File, bool) {
	prev, ok := n.files[name]
	n.files[name] = f
	if ok {
		Logger().Debug("replaced file", zap.String("name", name))
	}
	return prev, ok
}

// AddChild binds child to name, returning the directory previously bound
// there.
func (n *Node) AddChild(name string, child *Node) (*Node, bool) {
	prev, ok := n.children[name]
	n.children[name] = child
	if ok {
		Logger().Debug("replaced directory", zap.String("name", name))
	}
	return prev, ok
}

// File returns the file bound to name in this directory
func (n *Node) File(name string) (*file.File, bool) {
	f, ok := n.files[name]
	return f, ok
}

// Child returns the subdirectory bound to name
func (n *Node) Child(name string) (*Node, bool) {
	c, ok := n.children[name]
	return c, ok
}

// Files iterates the child files in name order
func (n *Node) Files() iter.Seq2[string, *file.File] {
	return sortedSeq(n.files)
}

// Children iterates the child directories in name order
func (n *Node) Children() iter.Seq2[string, *Node] {
	return sortedSeq(n.children)
}

func (n *Node) FileCount() int  { return len(n.files) }
func (n *Node) ChildCount() int { return len(n.children) }

func sortedSeq[V any](m map[string]V) iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		for _, name := range slices.Sorted(maps.Keys(m)) {
			if !yield(name, m[name]) {
				return
			}
		}
	}
}
