package tree

import (
	"iter"

	"go.uber.org/zap"

	"github.com/wippyai/vfs/file"
	"github.com/wippyai/vfs/fspath"
)

// Root is the top of the tree. It holds directories only; every file
// lives at least one level below it.
type Root struct {
	children map[string]*Node
}

// NewRoot returns an empty root with no top-level directories
func NewRoot() *Root {
	return &Root{children: make(map[string]*Node)}
}

// AddChild binds node to name, returning the directory previously bound
// there.
func (r *Root) AddChild(name string, node *Node) (*Node, bool) {
	prev, ok := r.children[name]
	r.children[name] = node
	if ok {
		Logger().Debug("replaced root directory", zap.String("name", name))
	}
	return prev, ok
}

// Child returns the top-level directory bound to name
func (r *Root) Child(name string) (*Node, bool) {
	n, ok := r.children[name]
	return n, ok
}

// Children iterates the top-level directories in name order
func (r *Root) Children() iter.Seq2[string, *Node] {
	return sortedSeq(r.children)
}

func (r *Root) ChildCount() int { return len(r.children) }

// Resolve walks the directories named by all but the last segment of p
// and looks the last segment up among that directory's files.
//
// Paths with fewer than two segments never resolve: an empty path names
// nothing, and a single segment names a top-level directory, which is not
// a file.
func (r *Root) Resolve(p fspath.Path) (*file.File, bool) {
	parts := p.Parts()
	if len(parts) < 2 {
		return nil, false
	}

	node, ok := r.walk(parts[:len(parts)-1])
	if !ok {
		return nil, false
	}
	return node.File(parts[len(parts)-1])
}

// ResolveDir walks every segment of p through child directories.
// The empty path does not resolve since Root is not itself a Node.
func (r *Root) ResolveDir(p fspath.Path) (*Node, bool) {
	parts := p.Parts()
	if len(parts) == 0 {
		return nil, false
	}
	return r.walk(parts)
}

// MkdirAll returns the directory named by p, creating missing directories
// along the way with newSelf supplying each one's own File. Existing
// directories are left untouched. The empty path fails.
func (r *Root) MkdirAll(p fspath.Path, newSelf func() *file.File) (*Node, bool) {
	parts := p.Parts()
	if len(parts) == 0 {
		return nil, false
	}

	node, ok := r.children[parts[0]]
	if !ok {
		node = NewNode(newSelf())
		r.children[parts[0]] = node
	}
	for _, name := range parts[1:] {
		child, ok := node.Child(name)
		if !ok {
			child = NewNode(newSelf())
			node.children[name] = child
		}
		node = child
	}
	return node, true
}

func (r *Root) walk(dirs []string) (*Node, bool) {
	node, ok := r.children[dirs[0]]
	if !ok {
		return nil, false
	}
	for _, name := range dirs[1:] {
		if node, ok = node.Child(name); !ok {
			return nil, false
		}
	}
	return node, true
}
