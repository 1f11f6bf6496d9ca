// Package tree provides the directory structure of the store.
//
// A Root owns top-level directories; each Node owns a File describing
// itself plus two independent collections of child directories and child
// files. Ownership is strictly downward. There are no parent pointers, so
// every lookup starts at the Root:
//
//	root := tree.NewRoot()
//	bin := tree.NewNode(dirFile)
//	bin.AddFile("hello.txt", f)
//	root.AddChild("bin", bin)
//
//	f, ok := root.Resolve(fspath.New("/bin/hello.txt"))
//
// Lookups report misses as (nil, false); they never return errors.
// AddFile and AddChild replace existing bindings and hand back the old
// value.
//
// # Thread Safety
//
// The tree does no locking. Mutation must be serialised by the host, and
// no reads may run concurrently with a mutation.
//
// # io/fs
//
// NewFS exposes a Root as a read-only fs.FS, which is how the wasmexec
// package mounts the tree into WASI guests.
package tree
