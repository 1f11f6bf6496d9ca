// Package vfs is an embeddable, in-memory hierarchical file store.
//
// A host builds a tree of directories and files, each file carrying
// metadata (type, permission bits, timestamps), byte content and,
// optionally, an executable capability that turns the file into a
// callable program returning an exit code. It is meant for hosts that
// want a sandboxed, simulated filesystem instead of real syscalls.
//
// # Architecture Overview
//
//	vfs/
//	├── fspath/      Slash-delimited paths and their segments
//	├── errors/      IoError taxonomy with stable numeric codes
//	├── file/        Permissions, Metadata, File and the Executable contract
//	├── tree/        Node and Root, path resolution, read-only io/fs view
//	├── wasmexec/    WASI command modules as executables (wazero)
//	├── internal/
//	│   ├── manifest/  YAML description used to seed a tree
//	│   └── shell/     Command interpreter and host API handle
//	└── cmd/vfsh/    CLI and interactive shell
//
// # Quick Start
//
//	root := tree.NewRoot()
//
//	bin := tree.NewNode(file.New(dirMeta, nil, nil))
//	bin.AddFile("hello", file.New(meta, nil, file.Func(
//		func(api file.API, args []string) file.ExitCode {
//			return 0
//		})))
//	root.AddChild("bin", bin)
//
//	p := fspath.New("/bin/hello")
//	f, ok := root.Resolve(p)
//	if !ok {
//		// not found is an ordinary outcome, not an error
//	}
//	code, err := f.Execute(host, []string{"world"}, p)
//
// # Absence vs Errors
//
// Lookups report misses as (nil, false). An *errors.IoError is returned
// only when an operation is invalid for the resource's current state,
// such as decoding non-UTF-8 content or executing a file with no
// capability bound.
//
// # Thread Safety
//
// The tree does no locking; the host must serialise mutation. Executable
// implementations, including wasmexec Programs, are safe to call from any
// goroutine.
package vfs
