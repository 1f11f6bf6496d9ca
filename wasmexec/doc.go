// Package wasmexec runs WASI command modules as file executables.
//
// A Runtime wraps a wazero runtime with WASI preview1 host functions.
// Compile turns a module binary into a Program, which implements
// file.Executable:
//
//	rt, err := wasmexec.New(ctx, wasmexec.WithMount(tree.NewFS(root), "/"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Close(ctx)
//
//	f, err := rt.Load(ctx, "hello", wasmBytes, perms)
//	bin.AddFile("hello", f)
//
//	code, err := f.Execute(host, []string{"world"}, fspath.New("/bin/hello"))
//
// # Exit Codes
//
//	proc_exit(n)          n
//	_start returns        0
//	cannot instantiate    ExitCannotExecute (126)
//	trap                  ExitTrap (134)
//	context done          ExitCanceled (130)
//
// # Host API
//
// The API handle passed to Execute is opaque, but two optional interfaces
// are honoured: Stdio routes guest stdin/stdout/stderr to the host's
// streams, and ContextProvider supplies a context for the guest call. A
// guest still running when that context is done is stopped.
//
// # Thread Safety
//
// Runtime and Program are safe for concurrent use. Each Execute call
// instantiates a fresh anonymous module, so guests never share memory.
// A mounted tree.FS must not be mutated while guests run.
package wasmexec
