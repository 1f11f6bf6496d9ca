package tree

import (
	"bytes"
	"io"
	"io/fs"
	"slices"
	"strings"
	"time"

	"github.com/wippyai/vfs/file"
	"github.com/wippyai/vfs/fspath"
)

// FS is a read-only io/fs view of a Root, suitable for mounting into a
// WASI guest or serving with http.FS.
//
// When a directory and a file share a name, the directory wins. Entries
// whose names are empty or contain "/" are not listed because no valid
// fs path can reach them.
type FS struct {
	root *Root
}

var (
	_ fs.FS         = (*FS)(nil)
	_ fs.ReadDirFS  = (*FS)(nil)
	_ fs.StatFS     = (*FS)(nil)
	_ fs.ReadFileFS = (*FS)(nil)
)

// NewFS wraps r. The tree must not be mutated while the FS is in use.
func NewFS(r *Root) *FS {
	return &FS{root: r}
}

// Open implements fs.FS
func (f *FS) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	if name == "." {
		return &dirHandle{info: rootInfo{}, entries: f.rootEntries()}, nil
	}

	p := fspath.New(name)
	if node, ok := f.root.ResolveDir(p); ok {
		return &dirHandle{info: nodeInfo(lastPart(name), node), entries: nodeEntries(node)}, nil
	}
	if fl, ok := f.root.Resolve(p); ok {
		return &fileHandle{
			Reader: bytes.NewReader(fl.Content()),
			info:   fileInfo{name: lastPart(name), f: fl},
		}, nil
	}
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}

// ReadDir implements fs.ReadDirFS
func (f *FS) ReadDir(name string) ([]fs.DirEntry, error) {
	h, err := f.Open(name)
	if err != nil {
		return nil, err
	}
	defer h.Close()

	d, ok := h.(*dirHandle)
	if !ok {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: errNotDir}
	}
	return d.ReadDir(-1)
}

// Stat implements fs.StatFS
func (f *FS) Stat(name string) (fs.FileInfo, error) {
	h, err := f.Open(name)
	if err != nil {
		return nil, err
	}
	defer h.Close()
	return h.Stat()
}

// ReadFile implements fs.ReadFileFS
func (f *FS) ReadFile(name string) ([]byte, error) {
	h, err := f.Open(name)
	if err != nil {
		return nil, err
	}
	defer h.Close()

	fh, ok := h.(*fileHandle)
	if !ok {
		return nil, &fs.PathError{Op: "read", Path: name, Err: errIsDir}
	}
	return bytes.Clone(fh.info.f.Content()), nil
}

func (f *FS) rootEntries() []fs.DirEntry {
	var entries []fs.DirEntry
	for name, node := range f.root.Children() {
		if reachable(name) {
			entries = append(entries, fs.FileInfoToDirEntry(nodeInfo(name, node)))
		}
	}
	return entries
}

func nodeEntries(n *Node) []fs.DirEntry {
	var entries []fs.DirEntry
	for name, child := range n.Children() {
		if reachable(name) {
			entries = append(entries, fs.FileInfoToDirEntry(nodeInfo(name, child)))
		}
	}
	for name, fl := range n.Files() {
		if !reachable(name) {
			continue
		}
		if _, shadowed := n.Child(name); shadowed {
			continue
		}
		entries = append(entries, fs.FileInfoToDirEntry(fileInfo{name: name, f: fl}))
	}
	slices.SortFunc(entries, func(a, b fs.DirEntry) int {
		return strings.Compare(a.Name(), b.Name())
	})
	return entries
}

func reachable(name string) bool {
	return name != "" && !strings.Contains(name, fspath.Separator)
}

func lastPart(name string) string {
	if i := strings.LastIndex(name, fspath.Separator); i >= 0 {
		return name[i+1:]
	}
	return name
}

// fsMode maps the rwx flags onto the owner bits of an fs.FileMode
func fsMode(p file.Permissions) fs.FileMode {
	var m fs.FileMode
	if p.IsReadable() {
		m |= 0o400
	}
	if p.IsWritable() {
		m |= 0o200
	}
	if p.IsExecutable() {
		m |= 0o100
	}
	return m
}

type fileInfo struct {
	f    *file.File
	name string
}

func (i fileInfo) Name() string       { return i.name }
func (i fileInfo) Size() int64        { return int64(len(i.f.Content())) }
func (i fileInfo) Mode() fs.FileMode  { return fsMode(i.f.Metadata().Permissions()) }
func (i fileInfo) ModTime() time.Time { return i.f.Metadata().ModTime() }
func (i fileInfo) IsDir() bool        { return false }
func (i fileInfo) Sys() any           { return i.f }

type dirInfo struct {
	node *Node
	name string
}

func nodeInfo(name string, n *Node) dirInfo {
	return dirInfo{name: name, node: n}
}

func (i dirInfo) Name() string { return i.name }
func (i dirInfo) Size() int64  { return 0 }
func (i dirInfo) Mode() fs.FileMode {
	if self := i.node.Self(); self != nil {
		return fs.ModeDir | fsMode(self.Metadata().Permissions())
	}
	return fs.ModeDir | 0o500
}

func (i dirInfo) ModTime() time.Time {
	if self := i.node.Self(); self != nil {
		return self.Metadata().ModTime()
	}
	return time.Time{}
}
func (i dirInfo) IsDir() bool { return true }
func (i dirInfo) Sys() any    { return i.node }

type rootInfo struct{}

func (rootInfo) Name() string       { return "." }
func (rootInfo) Size() int64        { return 0 }
func (rootInfo) Mode() fs.FileMode  { return fs.ModeDir | 0o500 }
func (rootInfo) ModTime() time.Time { return time.Time{} }
func (rootInfo) IsDir() bool        { return true }
func (rootInfo) Sys() any           { return nil }

type fileHandle struct {
	*bytes.Reader
	info fileInfo
}

func (h *fileHandle) Stat() (fs.FileInfo, error) { return h.info, nil }
func (h *fileHandle) Close() error               { return nil }

type dirHandle struct {
	info    fs.FileInfo
	entries []fs.DirEntry
	offset  int
}

func (h *dirHandle) Stat() (fs.FileInfo, error) { return h.info, nil }
func (h *dirHandle) Close() error               { return nil }

func (h *dirHandle) Read([]byte) (int, error) {
	return 0, &fs.PathError{Op: "read", Path: h.info.Name(), Err: errIsDir}
}

func (h *dirHandle) ReadDir(n int) ([]fs.DirEntry, error) {
	rest := h.entries[h.offset:]
	if n <= 0 {
		h.offset = len(h.entries)
		return rest, nil
	}
	if len(rest) == 0 {
		return nil, io.EOF
	}
	n = min(n, len(rest))
	h.offset += n
	return rest[:n], nil
}

type fsError string

func (e fsError) Error() string { return string(e) }

const (
	errIsDir  fsError = "is a directory"
	errNotDir fsError = "not a directory"
)
